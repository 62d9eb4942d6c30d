package wire

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/e-hat/PixelShelf-sub001/internal/api"
	"github.com/e-hat/PixelShelf-sub001/internal/api/config"
	"github.com/e-hat/PixelShelf-sub001/internal/api/handler"
	"github.com/e-hat/PixelShelf-sub001/internal/job"
	"github.com/e-hat/PixelShelf-sub001/internal/pkg/cron"
	"github.com/e-hat/PixelShelf-sub001/internal/pkg/kafka"
	"github.com/e-hat/PixelShelf-sub001/internal/pkg/sse"
	"github.com/e-hat/PixelShelf-sub001/internal/repository"
	"github.com/e-hat/PixelShelf-sub001/internal/service"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	Hub          *sse.Hub
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	notificationRepo := repository.NewNotificationRepo(db)
	userRepo := repository.NewUserRepo(db)
	assetRepo := repository.NewAssetRepo(db)
	projectRepo := repository.NewProjectRepo(db)
	commentRepo := repository.NewAssetCommentRepo(db)

	registry := sse.NewRegistry()
	hub := sse.NewHub(registry)

	fanoutService := service.NewFanoutService(notificationRepo, userRepo, assetRepo, projectRepo, commentRepo, hub)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, hub)

	heartbeat := time.Duration(cfg.Notify.HeartbeatSeconds) * time.Second
	handlers := &api.HandlersGroup{
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		StreamHandler:       handler.NewStreamHandler(notificationService, registry, heartbeat, cfg.Notify.ChannelBuffer),
		EventHandler:        handler.NewEventHandler(fanoutService),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, fanoutService)
	if err != nil {
		return nil, err
	}

	unreadResyncJob := job.NewUnreadResyncJob(hub, notificationRepo)
	notificationCleanJob := job.NewNotificationCleanJob(cfg, notificationRepo)
	cronMgr := cron.NewCronManager(unreadResyncJob, notificationCleanJob)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		Hub:          hub,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
