package api

import "github.com/modern-agile-team/9term-main-back-sub000/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler         *handler.UserHandler
	GroupHandler        *handler.GroupHandler
	PostHandler         *handler.PostHandler
	NotificationHandler *handler.NotificationHandler
	StreamHandler       *handler.StreamHandler
}
