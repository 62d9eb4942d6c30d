package service

import (
	"context"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"

	"github.com/e-hat/PixelShelf-sub001/internal/api/dto"
	"github.com/e-hat/PixelShelf-sub001/internal/model"
	"github.com/e-hat/PixelShelf-sub001/internal/pkg/sse"
	"github.com/e-hat/PixelShelf-sub001/internal/repository"
)

// NotificationService 通知收件箱服务：列表、未读数、已读、删除。
// 每个改变已读状态的操作在落库之后都会重算权威未读数并推送，
// 保证该用户所有在线连接上的未读数收敛（见推送帧里的序号约定）。
type NotificationService interface {
	GetNotificationList(ctx context.Context, userID uint64, page, pageSize int, unreadOnly bool) (*dto.NotificationListDTO, error)
	GetUnreadCount(ctx context.Context, userID uint64) (*dto.UnreadCountDTO, error)
	MarkRead(ctx context.Context, userID uint64, ids []uint64) error
	MarkAllRead(ctx context.Context, userID uint64) error
	DeleteNotifications(ctx context.Context, userID uint64, ids []uint64) error
}

type notificationServiceImpl struct {
	notificationRepo repository.NotificationRepo
	userRepo         repository.UserRepo
	hub              *sse.Hub
}

// NewNotificationService 构造函数
func NewNotificationService(notificationRepo repository.NotificationRepo, userRepo repository.UserRepo, hub *sse.Hub) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		hub:              hub,
	}
}

// GetNotificationList 获取通知列表并补全发送者信息
func (s *notificationServiceImpl) GetNotificationList(ctx context.Context, userID uint64, page, pageSize int, unreadOnly bool) (*dto.NotificationListDTO, error) {
	limit := pageSize
	offset := (page - 1) * pageSize

	list, total, err := s.notificationRepo.List(ctx, userID, limit, offset, unreadOnly)
	if err != nil {
		return nil, err
	}

	senders := s.resolveSenders(ctx, list)

	res := make([]*dto.NotificationDTO, 0, len(list))
	for _, m := range list {
		d := &dto.NotificationDTO{}
		_ = copier.Copy(d, m)
		d.CreatedAt = m.CreatedAt.UTC().Format(time.RFC3339)

		// 补全发送者信息 (SenderID 为 0 代表系统通知)
		if m.SenderID > 0 {
			if user, ok := senders[m.SenderID]; ok {
				d.SenderName = user.Nickname
				d.AvatarURL = user.AvatarURL
			}
		} else {
			d.SenderName = "系统通知"
		}

		res = append(res, d)
	}

	return &dto.NotificationListDTO{List: res, Total: total}, nil
}

// GetUnreadCount 获取未读数，序号与推送帧共用同一来源
func (s *notificationServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (*dto.UnreadCountDTO, error) {
	payload, err := s.hub.SnapshotUnread(ctx, userID, func(ctx context.Context) (int64, error) {
		return s.notificationRepo.CountUnread(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountDTO{
		UnreadCount: payload.Count,
		Seq:         payload.Seq,
	}, nil
}

// MarkRead 批量标记已读
func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID uint64, ids []uint64) error {
	if len(ids) == 0 {
		return ErrParamInvalid
	}
	if err := s.notificationRepo.MarkRead(ctx, userID, ids); err != nil {
		return err
	}
	s.pushUnreadCount(ctx, userID)
	return nil
}

// MarkAllRead 一键已读
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	if err := s.notificationRepo.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	s.pushUnreadCount(ctx, userID)
	return nil
}

// DeleteNotifications 批量删除自己的通知
func (s *notificationServiceImpl) DeleteNotifications(ctx context.Context, userID uint64, ids []uint64) error {
	if len(ids) == 0 {
		return ErrParamInvalid
	}
	if err := s.notificationRepo.Delete(ctx, userID, ids); err != nil {
		return err
	}
	s.pushUnreadCount(ctx, userID)
	return nil
}

// pushUnreadCount 落库成功后重算权威未读数并推送到该用户的在线连接。
// 推送是尽力而为的，失败只记日志，不影响已提交的写操作。
func (s *notificationServiceImpl) pushUnreadCount(ctx context.Context, userID uint64) {
	payload, err := s.hub.SnapshotUnread(ctx, userID, func(ctx context.Context) (int64, error) {
		return s.notificationRepo.CountUnread(ctx, userID)
	})
	if err != nil {
		log.WarnContext(ctx, "重算未读数失败，跳过推送", "userID", userID, "err", err)
		return
	}
	s.hub.PushUnread(userID, payload)
}

// resolveSenders 批量查发送者，避免逐条回表
func (s *notificationServiceImpl) resolveSenders(ctx context.Context, list []*model.Notification) map[uint64]*model.User {
	idSet := make(map[uint64]struct{})
	for _, m := range list {
		if m.SenderID > 0 {
			idSet[m.SenderID] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return nil
	}

	ids := make([]uint64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, ids)
	if err != nil {
		log.WarnContext(ctx, "批量获取发送者信息失败", "err", err)
		return nil
	}

	res := make(map[uint64]*model.User, len(users))
	for _, u := range users {
		res[u.ID] = u
	}
	return res
}
