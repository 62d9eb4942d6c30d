package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/e-hat/PixelShelf-sub001/internal/api/middleware"
	"github.com/e-hat/PixelShelf-sub001/internal/pkg/logger"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		notificationGroup := apiGroup.Group("/notifications")
		{
			// EventSource 无法携带请求头，流接口在 Handler 内部用 token 参数鉴权
			notificationGroup.GET("/stream", group.StreamHandler.Subscribe)

			authGroup := notificationGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("", group.NotificationHandler.GetNotificationList)
				authGroup.GET("/unread", group.NotificationHandler.GetUnreadCount)
				authGroup.POST("/read", group.NotificationHandler.MarkRead)
				authGroup.POST("/read/all", group.NotificationHandler.MarkAllRead)
				authGroup.DELETE("", group.NotificationHandler.DeleteNotifications)
			}
		}

		internalGroup := apiGroup.Group("/internal")
		internalGroup.Use(middleware.AuthMiddleware())
		{
			internalGroup.POST("/events", group.EventHandler.Dispatch)
		}
	}

	return r
}
