package post_service

import (
	"context"

	model "pinstack-blog-service/internal/domain/models"
)

//go:generate mockery --name Service --dir . --output ../../../../mocks/post --outpkg mocks --filename PostService.go
type Service interface {
	CreatePost(ctx context.Context, submission *model.Submission) (*model.Post, error)
	ListPosts(ctx context.Context) ([]*model.Post, error)
}
