package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modern-agile-team/9term-main-back-sub000/internal/api/middleware"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/logger"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/login", group.UserHandler.Login)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
			}
		}

		groupGroup := apiGroup.Group("/groups")
		{
			groupGroup.Use(middleware.AuthMiddleware())
			{
				groupGroup.POST("", group.GroupHandler.CreateGroup)
				groupGroup.POST("/:group_id/join", group.GroupHandler.JoinGroup)
				groupGroup.POST("/:group_id/join/:request_id/approve", group.GroupHandler.ApproveJoinRequest)
				groupGroup.POST("/:group_id/posts", group.PostHandler.CreatePost)
				groupGroup.GET("/:group_id/posts", group.PostHandler.GetGroupPosts)
			}
		}

		notificationGroup := apiGroup.Group("/notifications")
		{
			// 长连接推送走查询参数鉴权，不过 Auth 中间件
			notificationGroup.GET("/stream", group.StreamHandler.Stream)

			authGroup := notificationGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("", group.NotificationHandler.GetNotificationList)
				authGroup.GET("/unread", group.NotificationHandler.GetUnreadCount)
				authGroup.PATCH("/read/all", group.NotificationHandler.MarkAllRead)
				authGroup.PATCH("/:notification_id/read", group.NotificationHandler.MarkRead)
				authGroup.DELETE("/:notification_id", group.NotificationHandler.Delete)
			}
		}
	}

	return r
}
