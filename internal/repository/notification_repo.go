package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/e-hat/PixelShelf-sub001/internal/model"
)

type NotificationRepo interface {
	Create(ctx context.Context, notification *model.Notification) error
	List(ctx context.Context, userID uint64, limit, offset int, unreadOnly bool) ([]*model.Notification, int64, error)
	CountUnread(ctx context.Context, userID uint64) (int64, error)
	MarkRead(ctx context.Context, userID uint64, ids []uint64) error
	MarkAllRead(ctx context.Context, userID uint64) error
	Delete(ctx context.Context, userID uint64, ids []uint64) error
	DeleteReadBefore(ctx context.Context, before time.Time) (int64, error)
}

type notificationRepoImpl struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) NotificationRepo {
	return &notificationRepoImpl{db: db}
}

// Create 插入新通知
func (s *notificationRepoImpl) Create(ctx context.Context, notification *model.Notification) error {
	return s.db.WithContext(ctx).Create(notification).Error
}

// List 分页获取用户的通知列表 (按创建时间倒序)
func (s *notificationRepoImpl) List(ctx context.Context, userID uint64, limit, offset int, unreadOnly bool) ([]*model.Notification, int64, error) {
	query := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("receiver_id = ?", userID)
	if unreadOnly {
		query = query.Where("`read` = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []*model.Notification
	result := query.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&notifications)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return notifications, total, nil
}

// CountUnread 获取用户的未读通知总数，是未读数的唯一权威来源
func (s *notificationRepoImpl) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("receiver_id = ? AND `read` = ?", userID, false).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// MarkRead 批量标记指定通知为已读
func (s *notificationRepoImpl) MarkRead(ctx context.Context, userID uint64, ids []uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("receiver_id = ? AND id IN ?", userID, ids).
		Update("read", true).Error
}

// MarkAllRead 一键清除未读
func (s *notificationRepoImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("receiver_id = ? AND `read` = ?", userID, false).
		Update("read", true).Error
}

// Delete 批量删除用户自己的通知
func (s *notificationRepoImpl) Delete(ctx context.Context, userID uint64, ids []uint64) error {
	return s.db.WithContext(ctx).
		Where("receiver_id = ? AND id IN ?", userID, ids).
		Delete(&model.Notification{}).Error
}

// DeleteReadBefore 删除指定时间之前的已读通知，清理任务使用
func (s *notificationRepoImpl) DeleteReadBefore(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("`read` = ? AND created_at < ?", true, before).
		Delete(&model.Notification{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
