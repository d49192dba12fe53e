package handler

import (
	log "log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/hub"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/redis"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/response"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/security"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/service"
)

const defaultHeartbeat = 30 * time.Second

type StreamHandler struct {
	notifyHub *hub.Hub
	heartbeat time.Duration
}

func NewStreamHandler(notifyHub *hub.Hub, heartbeat time.Duration) *StreamHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &StreamHandler{
		notifyHub: notifyHub,
		heartbeat: heartbeat,
	}
}

// Stream 长连接推送端点：每个在线连接持有一个独立订阅者，
// 信号到达即写出一帧 SSE 并立刻 Flush，断开时在所有退出路径上注销订阅
func (h *StreamHandler) Stream(c *gin.Context) {
	// 鉴权：EventSource 无法携带请求头，沿用查询参数传 Token
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}

	// 与 Auth 中间件一致：已登出的 Token 不能建立新连接
	signature, err := security.ExtractSignature(token)
	if err != nil {
		response.Error(c, service.UnauthorizedError)
		return
	}
	blacklisted, err := redis.GetValue(c.Request.Context(), signature)
	if err != nil {
		response.Error(c, service.UnExpectedError)
		return
	}
	if blacklisted != "" {
		response.Error(c, service.UnauthorizedError)
		return
	}

	claims, err := security.ValidateToken(token)
	if err != nil {
		log.Warn("SSE 鉴权失败", "err", err)
		response.Error(c, service.UnauthorizedError)
		return
	}
	userID := claims.UserID

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.Flush()

	sub := h.notifyHub.Subscribe(userID)
	defer h.notifyHub.Unsubscribe(sub)

	log.Info("用户通知流已建立", "userID", userID)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case sig, ok := <-sub.C:
			if !ok {
				// Hub 已关闭（进程退出），结束本连接
				return
			}
			c.SSEvent("message", sig)
			c.Writer.Flush()
		case <-ticker.C:
			if _, err = c.Writer.WriteString(": ping\n\n"); err != nil {
				log.Warn("SSE 心跳写入失败", "userID", userID, "err", err)
				return
			}
			c.Writer.Flush()
		case <-ctx.Done():
			log.Info("用户通知流已断开", "userID", userID)
			return
		}
	}
}
