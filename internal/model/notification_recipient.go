package model

import (
	"time"
)

// NotificationRecipient 单个接收者的已读状态，(notification_id, user_id) 唯一。
// 已读与删除都只作用于本行，不影响其他接收者
type NotificationRecipient struct {
	NotificationID uint64    `gorm:"primaryKey"`
	UserID         uint64    `gorm:"primaryKey;index:idx_recipient_user"`
	IsRead         bool      `gorm:"type:tinyint(1);not null;default:0"`
	ReceivedAt     time.Time `gorm:"index:idx_recipient_received"`

	Notification Notification `gorm:"foreignKey:NotificationID;references:ID"`
}

func (NotificationRecipient) TableName() string {
	return "notification_recipients"
}
