package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modern-agile-team/9term-main-back-sub000/internal/api/config"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/api/dto"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/api/middleware"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/model"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/redis"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/security"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/service"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	if err = redis.InitRedis(config.RedisConfig{Addr: mr.Addr()}); err != nil {
		panic(err)
	}

	code := m.Run()
	mr.Close()
	os.Exit(code)
}

// fakeNotificationService 记录调用参数并返回预设结果
type fakeNotificationService struct {
	list       []*dto.NotificationDTO
	unread     int64
	markReadID uint64
	deleteID   uint64
	userID     uint64
	err        error
}

func (s *fakeNotificationService) ComposeJoinRequest(ctx context.Context, groupID, senderID uint64, recipientIDs []uint64) (*dto.NotificationDTO, error) {
	return nil, nil
}

func (s *fakeNotificationService) ComposeNewPost(ctx context.Context, post *model.Post, recipientIDs []uint64) (*dto.NotificationDTO, error) {
	return nil, nil
}

func (s *fakeNotificationService) GetNotificationList(ctx context.Context, userID uint64) ([]*dto.NotificationDTO, error) {
	s.userID = userID
	return s.list, s.err
}

func (s *fakeNotificationService) GetUnreadCount(ctx context.Context, userID uint64) (*dto.NotificationUnreadDTO, error) {
	s.userID = userID
	return &dto.NotificationUnreadDTO{UnreadCount: s.unread}, s.err
}

func (s *fakeNotificationService) MarkRead(ctx context.Context, userID, notificationID uint64) error {
	s.userID = userID
	s.markReadID = notificationID
	return s.err
}

func (s *fakeNotificationService) MarkAllRead(ctx context.Context, userID uint64) error {
	s.userID = userID
	return s.err
}

func (s *fakeNotificationService) Delete(ctx context.Context, userID, notificationID uint64) error {
	s.userID = userID
	s.deleteID = notificationID
	return s.err
}

func setupNotificationRouter(svc service.NotificationService) *gin.Engine {
	h := NewNotificationHandler(svc)

	r := gin.New()
	authGroup := r.Group("/api/notifications")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.GET("", h.GetNotificationList)
		authGroup.GET("/unread", h.GetUnreadCount)
		authGroup.PATCH("/read/all", h.MarkAllRead)
		authGroup.PATCH("/:notification_id/read", h.MarkRead)
		authGroup.DELETE("/:notification_id", h.Delete)
	}
	return r
}

func doAuthed(t *testing.T, r *gin.Engine, method, path string, userID uint64) (*httptest.ResponseRecorder, *dto.Response) {
	t.Helper()

	token, err := security.GenerateToken(userID)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, &resp
}

func TestGetNotificationList(t *testing.T) {
	svc := &fakeNotificationService{list: []*dto.NotificationDTO{
		{ID: 7, Type: "NEW_POST", Message: "小组「读书会」有新帖子：本月书单"},
	}}
	r := setupNotificationRouter(svc)

	w, resp := doAuthed(t, r, http.MethodGet, "/api/notifications", 1)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, uint64(1), svc.userID)

	items, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
}

func TestGetUnreadCount(t *testing.T) {
	svc := &fakeNotificationService{unread: 3}
	r := setupNotificationRouter(svc)

	_, resp := doAuthed(t, r, http.MethodGet, "/api/notifications/unread", 1)

	assert.Equal(t, 200, resp.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), data["unread_count"])
}

func TestMarkRead(t *testing.T) {
	svc := &fakeNotificationService{}
	r := setupNotificationRouter(svc)

	_, resp := doAuthed(t, r, http.MethodPatch, "/api/notifications/42/read", 1)

	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, uint64(42), svc.markReadID)
	assert.Equal(t, uint64(1), svc.userID)
}

func TestMarkReadInvalidParam(t *testing.T) {
	svc := &fakeNotificationService{}
	r := setupNotificationRouter(svc)

	_, resp := doAuthed(t, r, http.MethodPatch, "/api/notifications/abc/read", 1)

	assert.Equal(t, 400, resp.Code)
	assert.Equal(t, uint64(0), svc.markReadID)
}

func TestMarkReadNotFound(t *testing.T) {
	svc := &fakeNotificationService{err: service.ErrNotificationNotFound}
	r := setupNotificationRouter(svc)

	w, resp := doAuthed(t, r, http.MethodPatch, "/api/notifications/42/read", 1)

	// 业务码承载错误，HTTP 层始终 200
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 404, resp.Code)
}

func TestDeleteNotification(t *testing.T) {
	svc := &fakeNotificationService{}
	r := setupNotificationRouter(svc)

	_, resp := doAuthed(t, r, http.MethodDelete, "/api/notifications/42", 1)

	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, uint64(42), svc.deleteID)
}

func TestNotificationRequiresAuth(t *testing.T) {
	svc := &fakeNotificationService{}
	r := setupNotificationRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 401, resp.Code)
}

func TestBlacklistedTokenRejected(t *testing.T) {
	svc := &fakeNotificationService{}
	r := setupNotificationRouter(svc)

	token, err := security.GenerateToken(88)
	require.NoError(t, err)

	// 登出会把签名写进黑名单
	signature, err := security.ExtractSignature(token)
	require.NoError(t, err)
	require.NoError(t, redis.SetWithExpiration(context.Background(), signature, "revoked", security.JWTExpirationTime))

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 401, resp.Code)
	assert.Equal(t, uint64(0), svc.userID)
}

func TestMarkAllRead(t *testing.T) {
	svc := &fakeNotificationService{}
	r := setupNotificationRouter(svc)

	_, resp := doAuthed(t, r, http.MethodPatch, "/api/notifications/read/all", 9)

	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, uint64(9), svc.userID)
}
