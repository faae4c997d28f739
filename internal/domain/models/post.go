package model

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Post struct {
	ID             uuid.UUID          `json:"id"`
	Text           string             `json:"text"`
	Username       string             `json:"username"`
	ImagePath      *string            `json:"image_path,omitempty"`
	UserAvatarPath *string            `json:"user_avatar_path,omitempty"`
	PublishedAt    pgtype.Timestamptz `json:"published_at"`
}
