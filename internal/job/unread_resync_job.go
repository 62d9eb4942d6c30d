package job

import (
	"context"
	log "log/slog"

	"github.com/e-hat/PixelShelf-sub001/internal/pkg/sse"
	"github.com/e-hat/PixelShelf-sub001/internal/repository"
)

// UnreadResyncJob 周期性向在线用户重发权威未读数，纠正客户端漂移
type UnreadResyncJob struct {
	hub              *sse.Hub
	notificationRepo repository.NotificationRepo
}

func NewUnreadResyncJob(hub *sse.Hub, notificationRepo repository.NotificationRepo) *UnreadResyncJob {
	return &UnreadResyncJob{
		hub:              hub,
		notificationRepo: notificationRepo,
	}
}

func (s *UnreadResyncJob) Run() {
	ctx := context.Background()

	users := s.hub.Registry().ActiveUsers()
	if len(users) == 0 {
		return
	}

	for _, userID := range users {
		payload, err := s.hub.SnapshotUnread(ctx, userID, func(ctx context.Context) (int64, error) {
			return s.notificationRepo.CountUnread(ctx, userID)
		})
		if err != nil {
			log.Error("failed to count unread for resync", "user_id", userID, "err", err)
			continue
		}
		s.hub.PushUnread(userID, payload)
	}

	log.Info("unread resync job finished", "user_count", len(users))
}
