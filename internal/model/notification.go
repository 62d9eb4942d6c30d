package model

import "time"

// NotificationType 通知类型（封闭枚举，不允许动态扩展）
type NotificationType string

const (
	NotificationTypeFollow  NotificationType = "FOLLOW"
	NotificationTypeLike    NotificationType = "LIKE"
	NotificationTypeComment NotificationType = "COMMENT"
	NotificationTypeMessage NotificationType = "MESSAGE"
	NotificationTypeSystem  NotificationType = "SYSTEM"
)

// Valid 校验通知类型是否在枚举范围内
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeFollow, NotificationTypeLike, NotificationTypeComment,
		NotificationTypeMessage, NotificationTypeSystem:
		return true
	}
	return false
}

type Notification struct {
	ID         uint64           `gorm:"primaryKey" json:"id"`
	Type       NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Content    string           `gorm:"type:varchar(500);not null" json:"content"`
	LinkURL    string           `gorm:"type:varchar(255)" json:"linkUrl"`
	Read       bool             `gorm:"type:tinyint(1);not null;default:0" json:"read"`
	ReceiverID uint64           `gorm:"not null;index:idx_receiver_id" json:"receiverId"`
	SenderID   uint64           `gorm:"not null;default:0" json:"senderId"` // 0 表示系统通知
	CreatedAt  time.Time        `json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
