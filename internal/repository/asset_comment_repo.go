package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/e-hat/PixelShelf-sub001/internal/model"
)

type AssetCommentRepo interface {
	GetCommentByID(ctx context.Context, commentID uint64) (*model.AssetComment, error)
}

type assetCommentRepoImpl struct {
	db *gorm.DB
}

func NewAssetCommentRepo(db *gorm.DB) AssetCommentRepo {
	return &assetCommentRepoImpl{db: db}
}

// GetCommentByID 根据 ID 获取评论
func (s *assetCommentRepoImpl) GetCommentByID(ctx context.Context, commentID uint64) (*model.AssetComment, error) {
	var comment model.AssetComment
	result := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", commentID, false).
		First(&comment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &comment, nil
}
