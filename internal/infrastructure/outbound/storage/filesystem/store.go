package filesystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"pinstack-blog-service/internal/custom_errors"
	model "pinstack-blog-service/internal/domain/models"
	ports "pinstack-blog-service/internal/domain/ports/output"
)

const filePerm = 0o644

// AssetStore writes canonical images under root. File names are random and
// never derived from the content.
type AssetStore struct {
	fs      afero.Fs
	root    string
	log     ports.Logger
	metrics ports.MetricsProvider
}

func NewAssetStore(fs afero.Fs, root string, log ports.Logger, metrics ports.MetricsProvider) (*AssetStore, error) {
	exists, err := afero.DirExists(fs, root)
	if err != nil {
		return nil, fmt.Errorf("stat upload root %q: %w", root, err)
	}
	if !exists {
		if err := fs.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("create upload root %q: %w", root, err)
		}
	}
	return &AssetStore{fs: fs, root: root, log: log, metrics: metrics}, nil
}

func (s *AssetStore) Root() string {
	return s.root
}

func (s *AssetStore) Save(ctx context.Context, role model.AssetRole, data []byte) (*model.StoredAsset, error) {
	if err := role.IsValid(); err != nil {
		return nil, custom_errors.Internal(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, custom_errors.IO(err)
	}

	filename := newFilename(role)
	path := filepath.Join(s.root, filename)

	if err := s.write(path, data); err != nil {
		s.metrics.IncrementAssetOperations("write", false)
		s.log.Error("Failed to write asset",
			slog.String("path", path),
			slog.String("role", string(role)),
			slog.String("error", err.Error()))
		return nil, custom_errors.IO(err)
	}

	s.metrics.IncrementAssetOperations("write", true)
	s.log.Debug("Asset written",
		slog.String("path", path),
		slog.String("role", string(role)),
		slog.Int("bytes", len(data)))
	return &model.StoredAsset{Filename: filename, Path: path, Role: role}, nil
}

func (s *AssetStore) write(path string, data []byte) error {
	f, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(path)
		return err
	}
	return nil
}

// Remove deletes a previously saved asset. A missing file is not an error.
func (s *AssetStore) Remove(ctx context.Context, asset *model.StoredAsset) error {
	err := s.fs.Remove(asset.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.metrics.IncrementAssetOperations("cleanup", false)
		return custom_errors.IO(err)
	}
	s.metrics.IncrementAssetOperations("cleanup", true)
	return nil
}

func newFilename(role model.AssetRole) string {
	if role == model.AssetRoleAvatar {
		return "avatar_" + uuid.NewString() + ".png"
	}
	return uuid.NewString() + ".png"
}
