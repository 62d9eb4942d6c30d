package handler

import (
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/e-hat/PixelShelf-sub001/internal/pkg/response"
	"github.com/e-hat/PixelShelf-sub001/internal/pkg/security"
	"github.com/e-hat/PixelShelf-sub001/internal/pkg/sse"
	"github.com/e-hat/PixelShelf-sub001/internal/service"
)

const (
	defaultHeartbeat     = 30 * time.Second
	defaultChannelBuffer = 16
)

// StreamHandler 订阅端点：为客户端维持一条长连接的 SSE 推送流。
// 连接生命周期：登记通道 -> 推送未读数快照 -> 心跳保活 -> 断开时注销。
type StreamHandler struct {
	notificationService service.NotificationService
	registry            *sse.Registry
	heartbeat           time.Duration
	channelBuffer       int
}

func NewStreamHandler(s service.NotificationService, registry *sse.Registry, heartbeat time.Duration, channelBuffer int) *StreamHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	if channelBuffer <= 0 {
		channelBuffer = defaultChannelBuffer
	}
	return &StreamHandler{
		notificationService: s,
		registry:            registry,
		heartbeat:           heartbeat,
		channelBuffer:       channelBuffer,
	}
}

// Subscribe 建立当前用户的通知推送流。
// EventSource 无法自定义请求头，鉴权走 token 查询参数。
func (h *StreamHandler) Subscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		log.Warn("SSE 鉴权失败", "err", err)
		response.Fail(c, response.Unauthorized, "Token 无效或已过期")
		return
	}
	userID := claims.UserID

	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// 关闭反向代理的缓冲，保证帧实时送达
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("SSE 流不支持 Flush", "userID", userID)
		response.Fail(c, response.InternalServerError, "未知错误")
		return
	}

	// 登记通道。同一用户重连时旧通道被覆盖，旧端点实例随后自行退出。
	frames := make(chan sse.Frame, h.channelBuffer)
	h.registry.Register(userID, frames)
	// 按通道身份注销：重连覆盖登记后，旧端点退出不能摘掉新连接
	defer h.registry.UnregisterChannel(userID, frames)

	log.Info("用户 SSE 连接已建立", "userID", userID)

	// 先发一条注释帧安抚中间代理
	if _, err := w.Write([]byte(": ok\n\n")); err != nil {
		return
	}
	flusher.Flush()

	// 连接建立后立即推送从库里新鲜计算的未读数快照，刚重连的客户端不留陈旧值
	if snapshot, err := h.notificationService.GetUnreadCount(c.Request.Context(), userID); err == nil {
		if err := writeFrame(w, sse.Frame{
			Type: sse.FrameTypeUnreadCount,
			Data: sse.UnreadPayload{Count: snapshot.UnreadCount, Seq: snapshot.Seq},
		}); err != nil {
			return
		}
		flusher.Flush()
	} else {
		log.Warn("SSE 未读数快照计算失败", "userID", userID, "err", err)
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	disconnected := c.Request.Context().Done()
	for {
		select {
		case <-disconnected:
			log.Info("用户 SSE 连接已断开", "userID", userID)
			return
		case <-heartbeat.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				log.Info("SSE 心跳写入失败，连接关闭", "userID", userID)
				return
			}
			flusher.Flush()
		case frame, ok := <-frames:
			if !ok {
				return
			}
			if err := writeFrame(w, frame); err != nil {
				log.Warn("SSE 推送失败，连接关闭", "userID", userID, "err", err)
				return
			}
			flusher.Flush()
		}
	}
}

// writeFrame 按 SSE 格式写出一帧：事件名 + JSON 数据体
func writeFrame(w gin.ResponseWriter, frame sse.Frame) error {
	data, err := json.Marshal(frame.Data)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte("event: " + frame.Type + "\n")); err != nil {
		return err
	}
	if _, err := w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n\n"))
	return err
}
