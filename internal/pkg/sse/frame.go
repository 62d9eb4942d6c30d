package sse

const (
	// FrameTypeNotification 新通知推送帧
	FrameTypeNotification = "notification"
	// FrameTypeUnreadCount 未读数推送帧
	FrameTypeUnreadCount = "unread_count"
)

// Frame 推送到客户端的单个事件帧
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// UnreadPayload 未读数帧的内容。Seq 单调递增，
// 客户端据此丢弃乱序到达的旧值，无需关心 HTTP 响应与推送帧的到达顺序。
type UnreadPayload struct {
	Count int64  `json:"count"`
	Seq   uint64 `json:"seq"`
}
