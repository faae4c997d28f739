package asset_store

import (
	"context"

	model "pinstack-blog-service/internal/domain/models"
)

//go:generate mockery --name Store --dir . --output ../../../../../mocks/asset --outpkg mocks --filename AssetStore.go
type Store interface {
	// Save writes canonical image bytes under a fresh random name.
	Save(ctx context.Context, role model.AssetRole, data []byte) (*model.StoredAsset, error)
	Remove(ctx context.Context, asset *model.StoredAsset) error
}
