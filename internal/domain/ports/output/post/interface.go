package post_repository

import (
	"context"

	model "pinstack-blog-service/internal/domain/models"
)

//go:generate mockery --name Repository --dir . --output ../../../../../mocks/post --outpkg mocks --filename PostRepository.go
type Repository interface {
	Create(ctx context.Context, post *model.Post) (*model.Post, error)
	List(ctx context.Context) ([]*model.Post, error)
}
