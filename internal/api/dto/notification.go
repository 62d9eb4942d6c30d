package dto

// NotificationDTO 通知返回对象
type NotificationDTO struct {
	ID         uint64 `json:"id"`
	Type       string `json:"type"` // FOLLOW | LIKE | COMMENT | MESSAGE | SYSTEM
	Content    string `json:"content"`
	LinkURL    string `json:"link_url"`
	Read       bool   `json:"read"`
	SenderID   uint64 `json:"sender_id"` // 0 表示系统通知
	SenderName string `json:"sender_name"`
	AvatarURL  string `json:"avatar_url"`
	CreatedAt  string `json:"created_at"`
}

// NotificationListDTO 通知列表返回
type NotificationListDTO struct {
	List  []*NotificationDTO `json:"list"`
	Total int64              `json:"total"`
}

// UnreadCountDTO 未读数返回。Seq 与推送帧共用同一序号源，
// 客户端按序号幂等合并两条路径的值。
type UnreadCountDTO struct {
	UnreadCount int64  `json:"unread_count"`
	Seq         uint64 `json:"seq"`
}

// MarkReadReq 批量标记已读请求
type MarkReadReq struct {
	IDs []uint64 `json:"ids" binding:"required,min=1"`
}

// DeleteNotificationsReq 批量删除请求
type DeleteNotificationsReq struct {
	IDs []uint64 `json:"ids" binding:"required,min=1"`
}

// DomainEventReq 领域事件的统一结构，内部事件接口与 Kafka 消费者共用
type DomainEventReq struct {
	EventType   string   `json:"event_type" binding:"required"`
	ActorID     uint64   `json:"actor_id"`
	ReceiverID  uint64   `json:"receiver_id"`
	ReceiverIDs []uint64 `json:"receiver_ids"`
	AssetID     uint64   `json:"asset_id"`
	ProjectID   uint64   `json:"project_id"`
	CommentID   uint64   `json:"comment_id"`
	Content     string   `json:"content"`
	LinkURL     string   `json:"link_url"`
}
