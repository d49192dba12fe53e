package model

import (
	"time"
)

type GroupJoinRequest struct {
	ID        uint64 `gorm:"primaryKey"`
	GroupID   uint64 `gorm:"not null;index:idx_join_group_id"`
	UserID    uint64 `gorm:"not null;index:idx_join_user_id"`
	Status    int8   `gorm:"type:tinyint;not null;default:0"` // 0-待处理, 1-已通过, 2-已拒绝
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (GroupJoinRequest) TableName() string {
	return "group_join_requests"
}
