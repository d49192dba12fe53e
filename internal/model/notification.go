package model

import (
	"time"
)

// NotificationType 通知类型判别值，属于封闭集合：
// 新增类型时必须同时补充 service 层的渲染与组装逻辑
type NotificationType int8

const (
	NotificationTypeJoinRequest NotificationType = 1 // 入组申请
	NotificationTypeNewPost     NotificationType = 2 // 小组新帖
)

// Notification 通知主体，所有接收者共享同一行，创建后不再修改
type Notification struct {
	ID        uint64           `gorm:"primaryKey"`
	Type      NotificationType `gorm:"type:tinyint;not null"`
	Message   string           `gorm:"type:varchar(255);not null"` // 创建时固定的展示文案
	SenderID  *uint64          `gorm:"index:idx_notification_sender"`
	GroupID   uint64           `gorm:"not null"`
	PostID    *uint64
	CreatedAt time.Time
}

func (Notification) TableName() string {
	return "notifications"
}
