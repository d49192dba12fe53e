package model

import (
	"time"
)

type GroupMember struct {
	GroupID   uint64    `gorm:"primaryKey" json:"groupId"`
	UserID    uint64    `gorm:"primaryKey;index:idx_member_user_id" json:"userId"`
	Role      int8      `gorm:"type:tinyint;not null;default:2" json:"role"` // 1-管理员, 2-普通成员
	CreatedAt time.Time `json:"createdAt"`
}

func (GroupMember) TableName() string {
	return "group_members"
}
