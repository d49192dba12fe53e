package dto

// NotificationDTO 通知返回对象
type NotificationDTO struct {
	ID         uint64         `json:"id"`
	Type       string         `json:"type"` // JOIN_REQUEST / NEW_POST / UNKNOWN
	Message    string         `json:"message"`
	SenderID   *uint64        `json:"sender_id"`
	SenderName string         `json:"sender_name"`
	Payload    map[string]any `json:"payload"` // 类型相关的上下文字段，未知类型为 null
	IsRead     bool           `json:"is_read"`
	ReceivedAt string         `json:"received_at"`
}

// NotificationUnreadDTO 未读数返回
type NotificationUnreadDTO struct {
	UnreadCount int64 `json:"unread_count"`
}
