package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/e-hat/PixelShelf-sub001/internal/model"
)

type ProjectRepo interface {
	GetProjectByID(ctx context.Context, projectID uint64) (*model.Project, error)
}

type projectRepoImpl struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepoImpl{db: db}
}

// GetProjectByID 根据 ID 获取项目
func (s *projectRepoImpl) GetProjectByID(ctx context.Context, projectID uint64) (*model.Project, error) {
	var project model.Project
	result := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", projectID, false).
		First(&project)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &project, nil
}
