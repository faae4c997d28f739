package avatar_fetcher

import "context"

//go:generate mockery --name Fetcher --dir . --output ../../../../../mocks/avatar --outpkg mocks --filename AvatarFetcher.go
type Fetcher interface {
	// Fetch downloads the avatar at url and returns it re-encoded as PNG.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
