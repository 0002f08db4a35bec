package dto

// ── 通知模块 DTO ──

// CreateNotificationRequest 发送通知请求
// RecipientID 为 "all" 时广播给全体员工
type CreateNotificationRequest struct {
	Title       string `json:"title" binding:"required,max=120"`
	Body        string `json:"body" binding:"required,max=2000"`
	RecipientID string `json:"recipient_id" binding:"required,max=40"`
}

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	RecipientID string `json:"recipient_id"`
	SenderName  string `json:"sender_name,omitempty"`
	CreatedAt   string `json:"created_at"`
	Read        bool   `json:"read"`
}

// UnreadCountResponse 未读数响应
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
