package post_service

import (
	"context"
	"log/slog"

	model "pinstack-blog-service/internal/domain/models"
	ports "pinstack-blog-service/internal/domain/ports/output"
	asset_store "pinstack-blog-service/internal/domain/ports/output/asset"
)

// cleanupGuard collects the assets written during one submission attempt and
// deletes them on Release unless Dismiss was called first.
type cleanupGuard struct {
	store     asset_store.Store
	log       ports.Logger
	assets    []*model.StoredAsset
	dismissed bool
}

func newCleanupGuard(store asset_store.Store, log ports.Logger) *cleanupGuard {
	return &cleanupGuard{store: store, log: log}
}

func (g *cleanupGuard) Track(asset *model.StoredAsset) {
	g.assets = append(g.assets, asset)
}

// Dismiss hands the tracked assets over to the committed post.
func (g *cleanupGuard) Dismiss() {
	g.dismissed = true
	g.assets = nil
}

// Release runs on every exit path. Deletion errors are logged and swallowed.
func (g *cleanupGuard) Release(ctx context.Context) {
	if g.dismissed {
		return
	}
	// the request context may already be cancelled
	ctx = context.WithoutCancel(ctx)
	for _, asset := range g.assets {
		if err := g.store.Remove(ctx, asset); err != nil {
			g.log.Warn("Failed to clean up file",
				slog.String("path", asset.Path),
				slog.String("error", err.Error()))
			continue
		}
		g.log.Debug("Cleaned up file", slog.String("path", asset.Path))
	}
	g.assets = nil
}
