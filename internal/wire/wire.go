package wire

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/modern-agile-team/9term-main-back-sub000/internal/api"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/api/config"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/api/handler"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/job"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/cron"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/hub"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/repository"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/service"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router    *gin.Engine
	DB        *gorm.DB
	NotifyHub *hub.Hub
	CronMgr   *cron.Manager
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	groupRepo := repository.NewGroupRepo(db)
	postRepo := repository.NewPostRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)

	// 在线订阅注册表随进程存在，由这里构造唯一实例并注入各处
	notifyHub := hub.NewHub(cfg.Notify.StreamBuffer)

	notificationService := service.NewNotificationService(notificationRepo, groupRepo, userRepo, notifyHub)
	userService := service.NewUserService(userRepo)
	groupService := service.NewGroupService(groupRepo, notificationService)
	postService := service.NewPostService(postRepo, groupRepo, notificationService)

	handlers := &api.HandlersGroup{
		UserHandler:         handler.NewUserHandler(userService),
		GroupHandler:        handler.NewGroupHandler(groupService),
		PostHandler:         handler.NewPostHandler(postService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		StreamHandler:       handler.NewStreamHandler(notifyHub, time.Duration(cfg.Notify.HeartbeatSec)*time.Second),
	}

	router := api.SetupRouter(handlers)

	purgeJob := job.NewNotificationPurgeJob(notificationRepo)
	cronMgr := cron.NewCronManager(purgeJob)

	return &ApplicationContainer{
		Router:    router,
		DB:        db,
		NotifyHub: notifyHub,
		CronMgr:   cronMgr,
	}, nil
}
