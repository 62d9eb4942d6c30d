package api

import "github.com/e-hat/PixelShelf-sub001/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	NotificationHandler *handler.NotificationHandler
	StreamHandler       *handler.StreamHandler
	EventHandler        *handler.EventHandler
}
