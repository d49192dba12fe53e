package model

import (
	"time"
)

type Group struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:varchar(500)"`
	CreatorID   uint64 `gorm:"not null;index:idx_creator_id"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Group) TableName() string {
	return "groups"
}
