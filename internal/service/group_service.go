package service

import (
	"context"
	log "log/slog"
	"time"

	"github.com/modern-agile-team/9term-main-back-sub000/internal/api/dto"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/model"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/consts"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/repository"
)

type GroupService interface {
	CreateGroup(ctx context.Context, creatorID uint64, req *dto.CreateGroupReq) (*dto.GroupDTO, error)
	JoinGroup(ctx context.Context, groupID, userID uint64) error
	ApproveJoinRequest(ctx context.Context, groupID, requestID, operatorID uint64) error
}

type GroupServiceImpl struct {
	groupRepo           repository.GroupRepo
	notificationService NotificationService
}

func NewGroupService(groupRepo repository.GroupRepo, notificationService NotificationService) GroupService {
	return &GroupServiceImpl{
		groupRepo:           groupRepo,
		notificationService: notificationService,
	}
}

// CreateGroup 创建小组，创建者自动成为管理员
func (s *GroupServiceImpl) CreateGroup(ctx context.Context, creatorID uint64, req *dto.CreateGroupReq) (*dto.GroupDTO, error) {
	group := &model.Group{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   creatorID,
	}
	if err := s.groupRepo.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	return &dto.GroupDTO{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		CreatorID:   group.CreatorID,
		CreatedAt:   group.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

// JoinGroup 提交入组申请并通知小组全部管理员
func (s *GroupServiceImpl) JoinGroup(ctx context.Context, groupID, userID uint64) error {
	group, err := s.groupRepo.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrGroupNotFound
	}

	member, err := s.groupRepo.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if member != nil {
		return ErrGroupMemberExist
	}

	pending, err := s.groupRepo.GetPendingJoinRequest(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if pending != nil {
		return ErrJoinRequestExist
	}

	req := &model.GroupJoinRequest{
		GroupID: groupID,
		UserID:  userID,
		Status:  consts.JoinRequestStatusPending,
	}
	if err = s.groupRepo.CreateJoinRequest(ctx, req); err != nil {
		return err
	}

	managerIDs, err := s.groupRepo.GetManagerIDs(ctx, groupID)
	if err != nil {
		return err
	}
	if len(managerIDs) == 0 {
		log.WarnContext(ctx, "小组没有管理员，跳过入组申请通知", "groupID", groupID)
		return nil
	}

	_, err = s.notificationService.ComposeJoinRequest(ctx, groupID, userID, managerIDs)
	return err
}

// ApproveJoinRequest 管理员通过入组申请，申请人成为普通成员
func (s *GroupServiceImpl) ApproveJoinRequest(ctx context.Context, groupID, requestID, operatorID uint64) error {
	operator, err := s.groupRepo.GetMember(ctx, groupID, operatorID)
	if err != nil {
		return err
	}
	if operator == nil || operator.Role != consts.GroupRoleManager {
		return UnauthorizedError
	}

	req, err := s.groupRepo.GetJoinRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil || req.GroupID != groupID {
		return ErrJoinRequestNotFound
	}
	if req.Status != consts.JoinRequestStatusPending {
		return ErrJoinRequestHandled
	}

	if err = s.groupRepo.UpdateJoinRequestStatus(ctx, requestID, consts.JoinRequestStatusApproved); err != nil {
		return err
	}

	return s.groupRepo.AddMember(ctx, &model.GroupMember{
		GroupID:   groupID,
		UserID:    req.UserID,
		Role:      consts.GroupRoleMember,
		CreatedAt: time.Now(),
	})
}
