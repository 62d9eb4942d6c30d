package job

import (
	"context"
	log "log/slog"
	"time"

	"github.com/e-hat/PixelShelf-sub001/internal/api/config"
	"github.com/e-hat/PixelShelf-sub001/internal/repository"
)

// NotificationCleanJob 定期删除超出保留期的已读通知
type NotificationCleanJob struct {
	notificationRepo repository.NotificationRepo
	retentionDays    int
}

func NewNotificationCleanJob(cfg *config.Config, notificationRepo repository.NotificationRepo) *NotificationCleanJob {
	retentionDays := cfg.Notify.RetentionDays
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &NotificationCleanJob{
		notificationRepo: notificationRepo,
		retentionDays:    retentionDays,
	}
}

func (s *NotificationCleanJob) Run() {
	ctx := context.Background()
	log.Info("start notification cleanup job")

	before := time.Now().AddDate(0, 0, -s.retentionDays)
	rows, err := s.notificationRepo.DeleteReadBefore(ctx, before)
	if err != nil {
		log.Error("failed to delete expired notifications", "err", err)
		return
	}

	if rows > 0 {
		log.Info("notification cleanup job finished", "deleted_count", rows)
	}
}
