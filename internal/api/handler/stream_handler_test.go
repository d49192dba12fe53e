package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modern-agile-team/9term-main-back-sub000/internal/api/dto"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/hub"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/redis"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/security"
)

func setupStreamRouter(notifyHub *hub.Hub, heartbeat time.Duration) *gin.Engine {
	h := NewStreamHandler(notifyHub, heartbeat)
	r := gin.New()
	r.GET("/api/notifications/stream", h.Stream)
	return r
}

// runStream 在后台跑一条流连接，返回结束函数与完成通道
func runStream(t *testing.T, r *gin.Engine, token string) (*httptest.ResponseRecorder, context.CancelFunc, chan struct{}) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/notifications/stream?token="+token, nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		r.ServeHTTP(w, req)
		close(done)
	}()
	return w, cancel, done
}

func TestStreamDeliversSignalFrame(t *testing.T) {
	notifyHub := hub.NewHub(0)
	r := setupStreamRouter(notifyHub, time.Minute)

	token, err := security.GenerateToken(1)
	require.NoError(t, err)

	w, cancel, done := runStream(t, r, token)
	defer cancel()

	require.Eventually(t, func() bool {
		return notifyHub.SubscriberCount(1) == 1
	}, time.Second, 5*time.Millisecond)

	notifyHub.Broadcast([]uint64{1}, hub.Signal{Type: hub.SignalNewNotification})

	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	body := w.Body.String()
	assert.Contains(t, body, "event:message")
	assert.Contains(t, body, hub.SignalNewNotification)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	// 断开后订阅者被注销
	assert.Equal(t, 0, notifyHub.SubscriberCount(1))
}

func TestStreamHeartbeat(t *testing.T) {
	notifyHub := hub.NewHub(0)
	r := setupStreamRouter(notifyHub, 20*time.Millisecond)

	token, err := security.GenerateToken(1)
	require.NoError(t, err)

	w, cancel, done := runStream(t, r, token)
	defer cancel()

	time.Sleep(80 * time.Millisecond)
	cancel()
	<-done

	assert.True(t, strings.Contains(w.Body.String(), ": ping"))
}

func TestStreamClosesWhenHubCloses(t *testing.T) {
	notifyHub := hub.NewHub(0)
	r := setupStreamRouter(notifyHub, time.Minute)

	token, err := security.GenerateToken(1)
	require.NoError(t, err)

	_, cancel, done := runStream(t, r, token)
	defer cancel()

	require.Eventually(t, func() bool {
		return notifyHub.SubscriberCount(1) == 1
	}, time.Second, 5*time.Millisecond)

	notifyHub.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream should end when the hub is closed")
	}
}

func TestStreamRejectsMissingToken(t *testing.T) {
	notifyHub := hub.NewHub(0)
	r := setupStreamRouter(notifyHub, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/stream", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 401, resp.Code)
}

func TestStreamRejectsLoggedOutToken(t *testing.T) {
	notifyHub := hub.NewHub(0)
	r := setupStreamRouter(notifyHub, time.Minute)

	token, err := security.GenerateToken(77)
	require.NoError(t, err)

	// 登出把签名写进黑名单，之后不能再建立新的推送连接
	signature, err := security.ExtractSignature(token)
	require.NoError(t, err)
	require.NoError(t, redis.SetWithExpiration(context.Background(), signature, "revoked", security.JWTExpirationTime))

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/stream?token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 401, resp.Code)
	assert.Equal(t, 0, notifyHub.SubscriberCount(77))
}

func TestStreamRejectsBadToken(t *testing.T) {
	notifyHub := hub.NewHub(0)
	r := setupStreamRouter(notifyHub, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/stream?token=not-a-jwt", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 401, resp.Code)
	assert.Equal(t, 0, notifyHub.SubscriberCount(0))
}
