package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/e-hat/PixelShelf-sub001/internal/model"
)

type UserRepo interface {
	GetUserByID(ctx context.Context, userID uint64) (*model.User, error)
	GetUsersByIDs(ctx context.Context, userIDs []uint64) ([]*model.User, error)
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepoImpl{db: db}
}

// GetUserByID 根据 ID 获取用户
func (s *userRepoImpl) GetUserByID(ctx context.Context, userID uint64) (*model.User, error) {
	var user model.User
	result := s.db.WithContext(ctx).
		Where("id = ? AND is_delete = ?", userID, false).
		First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetUsersByIDs 批量获取用户，用于通知列表补全发送者信息
func (s *userRepoImpl) GetUsersByIDs(ctx context.Context, userIDs []uint64) ([]*model.User, error) {
	var users []*model.User
	result := s.db.WithContext(ctx).
		Where("id IN ? AND is_delete = ?", userIDs, false).
		Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}
