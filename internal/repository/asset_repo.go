package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/e-hat/PixelShelf-sub001/internal/model"
)

type AssetRepo interface {
	GetAssetByID(ctx context.Context, assetID uint64) (*model.Asset, error)
}

type assetRepoImpl struct {
	db *gorm.DB
}

func NewAssetRepo(db *gorm.DB) AssetRepo {
	return &assetRepoImpl{db: db}
}

// GetAssetByID 根据 ID 获取作品
func (s *assetRepoImpl) GetAssetByID(ctx context.Context, assetID uint64) (*model.Asset, error) {
	var asset model.Asset
	result := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", assetID, false).
		First(&asset)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &asset, nil
}
