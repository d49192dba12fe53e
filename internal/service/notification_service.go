package service

import (
	"context"
	"fmt"
	log "log/slog"
	"strconv"
	"time"

	"github.com/jinzhu/copier"

	"github.com/modern-agile-team/9term-main-back-sub000/internal/api/dto"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/model"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/consts"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/hub"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/redis"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/repository"
)

// NotificationService 通知服务接口定义。
// Compose 系列把领域事件转成持久化通知并向在线接收者广播信号，
// 其余为面向当前用户的读操作，归属校验在这一层完成
type NotificationService interface {
	ComposeJoinRequest(ctx context.Context, groupID, senderID uint64, recipientIDs []uint64) (*dto.NotificationDTO, error)
	ComposeNewPost(ctx context.Context, post *model.Post, recipientIDs []uint64) (*dto.NotificationDTO, error)

	GetNotificationList(ctx context.Context, userID uint64) ([]*dto.NotificationDTO, error)
	GetUnreadCount(ctx context.Context, userID uint64) (*dto.NotificationUnreadDTO, error)
	MarkRead(ctx context.Context, userID, notificationID uint64) error
	MarkAllRead(ctx context.Context, userID uint64) error
	Delete(ctx context.Context, userID, notificationID uint64) error
}

type notificationServiceImpl struct {
	notificationRepo repository.NotificationRepo
	groupRepo        repository.GroupRepo
	userRepo         repository.UserRepo
	notifyHub        *hub.Hub
}

func NewNotificationService(
	notificationRepo repository.NotificationRepo,
	groupRepo repository.GroupRepo,
	userRepo repository.UserRepo,
	notifyHub *hub.Hub,
) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		groupRepo:        groupRepo,
		userRepo:         userRepo,
		notifyHub:        notifyHub,
	}
}

// ComposeJoinRequest 入组申请事件：通知由调用方解析出的接收者集合（小组管理员）
func (s *notificationServiceImpl) ComposeJoinRequest(ctx context.Context, groupID, senderID uint64, recipientIDs []uint64) (*dto.NotificationDTO, error) {
	group, err := s.groupRepo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	sender, err := s.userRepo.GetUserById(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, ErrUserNotFound
	}

	notification := &model.Notification{
		Type:     model.NotificationTypeJoinRequest,
		Message:  fmt.Sprintf("%s 申请加入小组「%s」", sender.Nickname, group.Name),
		SenderID: &senderID,
		GroupID:  group.ID,
	}

	return s.composeAndBroadcast(ctx, notification, sender.Nickname, recipientIDs)
}

// ComposeNewPost 新帖事件：小组必须仍然存在，否则视为数据完整性问题
func (s *notificationServiceImpl) ComposeNewPost(ctx context.Context, post *model.Post, recipientIDs []uint64) (*dto.NotificationDTO, error) {
	group, err := s.groupRepo.GetGroup(ctx, post.GroupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	senderName := ""
	if sender, err := s.userRepo.GetUserById(ctx, post.UserID); err == nil && sender != nil {
		senderName = sender.Nickname
	}

	senderID := post.UserID
	postID := post.ID
	notification := &model.Notification{
		Type:     model.NotificationTypeNewPost,
		Message:  fmt.Sprintf("小组「%s」有新帖子：%s", group.Name, post.Title),
		SenderID: &senderID,
		GroupID:  group.ID,
		PostID:   &postID,
	}

	return s.composeAndBroadcast(ctx, notification, senderName, recipientIDs)
}

// composeAndBroadcast 先落库再广播：事务提交之后接收者重新拉取列表一定能看到新通知。
// 广播是尽力而为的，不在线的接收者靠落库记录兜底
func (s *notificationServiceImpl) composeAndBroadcast(ctx context.Context, notification *model.Notification, senderName string, recipientIDs []uint64) (*dto.NotificationDTO, error) {
	if err := s.notificationRepo.CreateWithRecipients(ctx, notification, recipientIDs); err != nil {
		return nil, err
	}

	for _, userID := range recipientIDs {
		s.invalidateUnreadCache(ctx, userID)
	}

	s.notifyHub.Broadcast(recipientIDs, hub.Signal{Type: hub.SignalNewNotification})

	d := s.toDTO(notification, senderName, false, notification.CreatedAt)
	return d, nil
}

// GetNotificationList 获取通知列表，按接收时间倒序
func (s *notificationServiceImpl) GetNotificationList(ctx context.Context, userID uint64) ([]*dto.NotificationDTO, error) {
	recipients, err := s.notificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 同一批列表里发送者高度重复，按请求级别做去重缓存
	senderNames := make(map[uint64]string)

	res := make([]*dto.NotificationDTO, 0, len(recipients))
	for _, r := range recipients {
		n := &r.Notification

		senderName := "系统通知"
		if n.SenderID != nil {
			name, ok := senderNames[*n.SenderID]
			if !ok {
				name = s.lookupSenderName(ctx, *n.SenderID)
				senderNames[*n.SenderID] = name
			}
			senderName = name
		}

		res = append(res, s.toDTO(n, senderName, r.IsRead, r.ReceivedAt))
	}

	return res, nil
}

// GetUnreadCount 获取未读数，带 Redis 缓存
func (s *notificationServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (*dto.NotificationUnreadDTO, error) {
	key := consts.NotificationUnreadCountKey + strconv.FormatUint(userID, 10)

	valStr, err := redis.GetValue(ctx, key)
	if err == nil && valStr != "" {
		count, err := strconv.ParseInt(valStr, 10, 64)
		if err == nil {
			return &dto.NotificationUnreadDTO{UnreadCount: count}, nil
		}
	}

	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	_ = redis.SetWithExpiration(ctx, key, count, time.Hour*1)
	return &dto.NotificationUnreadDTO{UnreadCount: count}, nil
}

// MarkRead 标记单条已读：目标行不存在或不属于当前用户时返回 404；
// 重复标记是幂等的空操作
func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID, notificationID uint64) error {
	recipient, err := s.notificationRepo.GetRecipient(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if recipient == nil {
		return ErrNotificationNotFound
	}
	if recipient.IsRead {
		return nil
	}

	if err = s.notificationRepo.MarkRead(ctx, notificationID, userID); err != nil {
		return err
	}
	s.invalidateUnreadCache(ctx, userID)
	return nil
}

// MarkAllRead 一键已读
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	if err := s.notificationRepo.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	s.invalidateUnreadCache(ctx, userID)
	return nil
}

// Delete 删除调用者自己的接收者状态行，其他接收者及通知主体不受影响
func (s *notificationServiceImpl) Delete(ctx context.Context, userID, notificationID uint64) error {
	rows, err := s.notificationRepo.DeleteRecipient(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}
	s.invalidateUnreadCache(ctx, userID)
	return nil
}

// lookupSenderName 发送者昵称带 Redis 缓存，昵称变更靠 TTL 过期兜底
func (s *notificationServiceImpl) lookupSenderName(ctx context.Context, senderID uint64) string {
	key := consts.UserSimpleInfoKey + strconv.FormatUint(senderID, 10)
	if name, err := redis.GetValue(ctx, key); err == nil && name != "" {
		return name
	}

	sender, err := s.userRepo.GetUserById(ctx, senderID)
	if err != nil || sender == nil {
		return ""
	}
	_ = redis.SetWithExpiration(ctx, key, sender.Nickname, time.Minute*30)
	return sender.Nickname
}

func (s *notificationServiceImpl) invalidateUnreadCache(ctx context.Context, userID uint64) {
	key := consts.NotificationUnreadCountKey + strconv.FormatUint(userID, 10)
	if err := redis.DeleteKey(ctx, key); err != nil {
		log.WarnContext(ctx, "未读数缓存失效失败", "userID", userID, "err", err)
	}
}

func (s *notificationServiceImpl) toDTO(n *model.Notification, senderName string, isRead bool, receivedAt time.Time) *dto.NotificationDTO {
	d := &dto.NotificationDTO{}
	_ = copier.Copy(d, n)

	typeName, payload := renderNotification(n)
	d.Type = typeName
	d.Payload = payload
	d.SenderName = senderName
	if n.SenderID == nil {
		d.SenderName = "系统通知"
	}
	d.IsRead = isRead
	d.ReceivedAt = receivedAt.UTC().Format(time.RFC3339)
	return d
}

// renderNotification 把判别值展开成类型标记与上下文字段。
// 类型集合是封闭的，但持久化数据可能来自更新的部署：
// 未知类型降级为 UNKNOWN + 空载荷并记录异常，绝不让整个列表失败
func renderNotification(n *model.Notification) (string, map[string]any) {
	switch n.Type {
	case model.NotificationTypeJoinRequest:
		return "JOIN_REQUEST", map[string]any{"group_id": n.GroupID}
	case model.NotificationTypeNewPost:
		payload := map[string]any{"group_id": n.GroupID}
		if n.PostID != nil {
			payload["post_id"] = *n.PostID
		}
		return "NEW_POST", payload
	default:
		log.Warn("未知的通知类型，降级渲染", "notificationID", n.ID, "type", n.Type)
		return "UNKNOWN", nil
	}
}
