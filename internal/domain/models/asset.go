package model

import "fmt"

type AssetRole string

const (
	AssetRoleImage  AssetRole = "image"
	AssetRoleAvatar AssetRole = "avatar"
)

func (r AssetRole) IsValid() error {
	switch r {
	case AssetRoleImage, AssetRoleAvatar:
		return nil
	}
	return fmt.Errorf("invalid asset role: %s", r)
}

// StoredAsset is an image file written under the upload root during one
// submission attempt.
type StoredAsset struct {
	Filename string
	Path     string
	Role     AssetRole
}
