package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/modern-agile-team/9term-main-back-sub000/internal/model"
)

type NotificationRepo interface {
	CreateWithRecipients(ctx context.Context, notification *model.Notification, recipientIDs []uint64) error
	ListByUser(ctx context.Context, userID uint64) ([]*model.NotificationRecipient, error)
	GetRecipient(ctx context.Context, notificationID, userID uint64) (*model.NotificationRecipient, error)
	MarkRead(ctx context.Context, notificationID, userID uint64) error
	MarkAllRead(ctx context.Context, userID uint64) error
	DeleteRecipient(ctx context.Context, notificationID, userID uint64) (int64, error)
	CountUnread(ctx context.Context, userID uint64) (int64, error)
	DeleteOrphans(ctx context.Context) (int64, error)
}

type NotificationRepoImpl struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) NotificationRepo {
	return &NotificationRepoImpl{db: db}
}

// CreateWithRecipients 开启事务创建通知主体及各接收者状态行。
// 重复的接收者 ID 静默去重；接收者为空时仍创建主体，由清理任务回收
func (s *NotificationRepoImpl) CreateWithRecipients(ctx context.Context, notification *model.Notification, recipientIDs []uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		notification.CreatedAt = time.Now()
		if err := tx.Create(notification).Error; err != nil {
			return err
		}

		if len(recipientIDs) == 0 {
			return nil
		}

		seen := make(map[uint64]struct{}, len(recipientIDs))
		recipients := make([]*model.NotificationRecipient, 0, len(recipientIDs))
		for _, userID := range recipientIDs {
			if _, ok := seen[userID]; ok {
				continue
			}
			seen[userID] = struct{}{}
			recipients = append(recipients, &model.NotificationRecipient{
				NotificationID: notification.ID,
				UserID:         userID,
				IsRead:         false,
				ReceivedAt:     notification.CreatedAt,
			})
		}

		return tx.Clauses(clause.OnConflict{
			DoNothing: true,
		}).Create(recipients).Error
	})
}

// ListByUser 获取用户的通知列表，按接收时间倒序
func (s *NotificationRepoImpl) ListByUser(ctx context.Context, userID uint64) ([]*model.NotificationRecipient, error) {
	var recipients []*model.NotificationRecipient
	result := s.db.WithContext(ctx).
		Preload("Notification").
		Where("user_id = ?", userID).
		Order("received_at desc").
		Find(&recipients)

	if result.Error != nil {
		return nil, result.Error
	}
	return recipients, nil
}

// GetRecipient 获取单个接收者状态行
func (s *NotificationRepoImpl) GetRecipient(ctx context.Context, notificationID, userID uint64) (*model.NotificationRecipient, error) {
	var recipient model.NotificationRecipient
	result := s.db.WithContext(ctx).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		First(&recipient)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &recipient, nil
}

// MarkRead 标记单条已读，重复标记不报错
func (s *NotificationRepoImpl) MarkRead(ctx context.Context, notificationID, userID uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.NotificationRecipient{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true).Error
}

// MarkAllRead 标记用户全部未读为已读
func (s *NotificationRepoImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.NotificationRecipient{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// DeleteRecipient 删除调用者自己的接收者状态行，返回影响行数供上层判断 404
func (s *NotificationRepoImpl) DeleteRecipient(ctx context.Context, notificationID, userID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Delete(&model.NotificationRecipient{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountUnread 统计用户未读数量
func (s *NotificationRepoImpl) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&model.NotificationRecipient{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count)

	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// DeleteOrphans 清理没有任何接收者状态行引用的通知主体。
// 只要还存在一行接收者记录，主体就不会被删除
func (s *NotificationRepoImpl) DeleteOrphans(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM notification_recipients r WHERE r.notification_id = notifications.id)").
		Delete(&model.Notification{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
