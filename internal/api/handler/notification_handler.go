package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/e-hat/PixelShelf-sub001/internal/api/dto"
	"github.com/e-hat/PixelShelf-sub001/internal/pkg/consts"
	"github.com/e-hat/PixelShelf-sub001/internal/pkg/response"
	"github.com/e-hat/PixelShelf-sub001/internal/service"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(s service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: s,
	}
}

// GetNotificationList 获取通知列表
func (h *NotificationHandler) GetNotificationList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	unreadOnly := c.Query("unread_only") == "true"
	userID := c.GetUint64("user_id")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > consts.MaxPageSize {
		pageSize = consts.DefaultPageSize
	}

	list, err := h.notificationService.GetNotificationList(c.Request.Context(), userID, page, pageSize, unreadOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, list)
}

// GetUnreadCount 获取未读数
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint64("user_id")

	unread, err := h.notificationService.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, unread)
}

// MarkRead 批量标记已读
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var req dto.MarkReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")
	if err := h.notificationService.MarkRead(c.Request.Context(), userID, req.IDs); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// MarkAllRead 一键已读
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetUint64("user_id")
	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// DeleteNotifications 批量删除通知
func (h *NotificationHandler) DeleteNotifications(c *gin.Context) {
	var req dto.DeleteNotificationsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")
	if err := h.notificationService.DeleteNotifications(c.Request.Context(), userID, req.IDs); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
