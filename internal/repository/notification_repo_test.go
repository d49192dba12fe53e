package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/modern-agile-team/9term-main-back-sub000/internal/model"
)

// setupTestDB 构建内存 SQLite 并迁移通知相关表
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库按连接隔离，收紧连接池避免表不可见
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.Notification{}, &model.NotificationRecipient{}))
	return db
}

func mustCreate(t *testing.T, repo NotificationRepo, recipientIDs []uint64) *model.Notification {
	t.Helper()

	n := &model.Notification{
		Type:    model.NotificationTypeJoinRequest,
		Message: "测试通知",
		GroupID: 1,
	}
	require.NoError(t, repo.CreateWithRecipients(context.Background(), n, recipientIDs))
	return n
}

func TestCreateWithRecipients(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepo(db)
	ctx := context.Background()

	n := mustCreate(t, repo, []uint64{10, 11})
	require.NotZero(t, n.ID)

	var parents int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&parents).Error)
	assert.Equal(t, int64(1), parents)

	for _, userID := range []uint64{10, 11} {
		row, err := repo.GetRecipient(ctx, n.ID, userID)
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.False(t, row.IsRead)
		assert.Equal(t, n.CreatedAt.Unix(), row.ReceivedAt.Unix())
	}
}

func TestCreateWithRecipientsDeduplicates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepo(db)

	mustCreate(t, repo, []uint64{10, 10, 11, 10})

	var rows int64
	require.NoError(t, db.Model(&model.NotificationRecipient{}).Count(&rows).Error)
	assert.Equal(t, int64(2), rows)
}

func TestListByUserOrdering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepo(db)
	ctx := context.Background()

	var ids []uint64
	for i := 0; i < 3; i++ {
		n := mustCreate(t, repo, []uint64{10})
		ids = append(ids, n.ID)
		// received_at 是排序依据，保证三条通知的时间戳可区分
		time.Sleep(5 * time.Millisecond)
	}

	list, err := repo.ListByUser(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)

	// 接收时间倒序：最新的在最前
	assert.Equal(t, ids[2], list[0].NotificationID)
	assert.Equal(t, ids[1], list[1].NotificationID)
	assert.Equal(t, ids[0], list[2].NotificationID)

	// Preload 带出共享的通知主体
	assert.Equal(t, "测试通知", list[0].Notification.Message)
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepo(db)
	ctx := context.Background()

	n := mustCreate(t, repo, []uint64{10, 11})

	require.NoError(t, repo.MarkRead(ctx, n.ID, 10))

	rowA, err := repo.GetRecipient(ctx, n.ID, 10)
	require.NoError(t, err)
	assert.True(t, rowA.IsRead)

	// 另一个接收者的状态行不受影响
	rowB, err := repo.GetRecipient(ctx, n.ID, 11)
	require.NoError(t, err)
	assert.False(t, rowB.IsRead)

	// 重复标记不报错
	require.NoError(t, repo.MarkRead(ctx, n.ID, 10))
}

func TestMarkAllReadAndCountUnread(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepo(db)
	ctx := context.Background()

	mustCreate(t, repo, []uint64{10, 11})
	mustCreate(t, repo, []uint64{10})

	count, err := repo.CountUnread(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.MarkAllRead(ctx, 10))

	count, err = repo.CountUnread(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// 其他用户的未读数不受影响
	count, err = repo.CountUnread(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDeleteRecipientIsolation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepo(db)
	ctx := context.Background()

	n := mustCreate(t, repo, []uint64{10, 11})

	rows, err := repo.DeleteRecipient(ctx, n.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	listA, err := repo.ListByUser(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, listA)

	// 另一个接收者的列表与状态行保持不变
	listB, err := repo.ListByUser(ctx, 11)
	require.NoError(t, err)
	require.Len(t, listB, 1)

	// 删不存在的行返回零行，供上层映射 404
	rows, err = repo.DeleteRecipient(ctx, n.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestGetRecipientAbsent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepo(db)

	row, err := repo.GetRecipient(context.Background(), 999, 10)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestDeleteOrphans(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepo(db)
	ctx := context.Background()

	// 还有接收者引用的通知主体不能被清理
	kept := mustCreate(t, repo, []uint64{10, 11})
	_, err := repo.DeleteRecipient(ctx, kept.ID, 10)
	require.NoError(t, err)

	// 接收者为空的主体立即成为孤儿
	orphan := mustCreate(t, repo, nil)

	deleted, err := repo.DeleteOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []model.Notification
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)
	assert.NotEqual(t, orphan.ID, remaining[0].ID)

	// 最后一个接收者删除后主体才可回收
	_, err = repo.DeleteRecipient(ctx, kept.ID, 11)
	require.NoError(t, err)

	deleted, err = repo.DeleteOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
