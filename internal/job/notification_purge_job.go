package job

import (
	"context"
	log "log/slog"
	"time"

	"github.com/modern-agile-team/9term-main-back-sub000/internal/repository"
)

// NotificationPurgeJob 回收没有任何接收者行引用的通知主体。
// 接收者逐个删除自己的状态行之后，主体会成为不可达的垃圾数据
type NotificationPurgeJob struct {
	notificationRepo repository.NotificationRepo
}

func NewNotificationPurgeJob(notificationRepo repository.NotificationRepo) *NotificationPurgeJob {
	return &NotificationPurgeJob{notificationRepo: notificationRepo}
}

func (s *NotificationPurgeJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log.Info("start notification purge job")

	deleted, err := s.notificationRepo.DeleteOrphans(ctx)
	if err != nil {
		log.Error("failed to purge orphan notifications", "err", err)
		return
	}

	if deleted > 0 {
		log.Info("notification purge job finished", "deleted_count", deleted)
	}
}
