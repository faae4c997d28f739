package post_events

import (
	"context"

	model "pinstack-blog-service/internal/domain/models"
)

//go:generate mockery --name Publisher --dir . --output ../../../../../mocks/events --outpkg mocks --filename EventPublisher.go
type Publisher interface {
	// PublishPostCreated announces a committed post. Delivery is best effort.
	PublishPostCreated(ctx context.Context, post *model.Post) error
}
