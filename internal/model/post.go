package model

import (
	"time"
)

type Post struct {
	ID        uint64 `gorm:"primaryKey"`
	GroupID   uint64 `gorm:"not null;index:idx_post_group_id"`
	UserID    uint64 `gorm:"not null"`
	Title     string `gorm:"type:varchar(200);not null"`
	Content   string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Post) TableName() string {
	return "posts"
}
