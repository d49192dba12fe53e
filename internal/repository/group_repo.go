package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/modern-agile-team/9term-main-back-sub000/internal/model"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/consts"
)

type GroupRepo interface {
	CreateGroup(ctx context.Context, group *model.Group) error
	GetGroup(ctx context.Context, groupID uint64) (*model.Group, error)
	AddMember(ctx context.Context, member *model.GroupMember) error
	GetMember(ctx context.Context, groupID, userID uint64) (*model.GroupMember, error)
	GetManagerIDs(ctx context.Context, groupID uint64) ([]uint64, error)
	GetMemberIDs(ctx context.Context, groupID uint64) ([]uint64, error)

	CreateJoinRequest(ctx context.Context, req *model.GroupJoinRequest) error
	GetJoinRequest(ctx context.Context, requestID uint64) (*model.GroupJoinRequest, error)
	GetPendingJoinRequest(ctx context.Context, groupID, userID uint64) (*model.GroupJoinRequest, error)
	UpdateJoinRequestStatus(ctx context.Context, requestID uint64, status int8) error
}

type GroupRepoImpl struct {
	db *gorm.DB
}

func NewGroupRepo(db *gorm.DB) GroupRepo {
	return &GroupRepoImpl{db: db}
}

// CreateGroup 开启事务创建小组，创建者自动成为管理员成员
func (s *GroupRepoImpl) CreateGroup(ctx context.Context, group *model.Group) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		member := &model.GroupMember{
			GroupID:   group.ID,
			UserID:    group.CreatorID,
			Role:      consts.GroupRoleManager,
			CreatedAt: time.Now(),
		}
		return tx.Create(member).Error
	})
}

// GetGroup 根据 ID 获取小组
func (s *GroupRepoImpl) GetGroup(ctx context.Context, groupID uint64) (*model.Group, error) {
	var group model.Group
	result := s.db.WithContext(ctx).First(&group, groupID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &group, nil
}

// AddMember 添加小组成员
func (s *GroupRepoImpl) AddMember(ctx context.Context, member *model.GroupMember) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			DoNothing: true,
		}).
		Create(member).Error
}

// GetMember 获取成员关系
func (s *GroupRepoImpl) GetMember(ctx context.Context, groupID, userID uint64) (*model.GroupMember, error) {
	var member model.GroupMember
	result := s.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&member)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &member, nil
}

// GetManagerIDs 获取小组全部管理员的用户 ID
func (s *GroupRepoImpl) GetManagerIDs(ctx context.Context, groupID uint64) ([]uint64, error) {
	var ids []uint64
	result := s.db.WithContext(ctx).
		Model(&model.GroupMember{}).
		Where("group_id = ? AND role = ?", groupID, consts.GroupRoleManager).
		Pluck("user_id", &ids)

	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}

// GetMemberIDs 获取小组全部成员的用户 ID
func (s *GroupRepoImpl) GetMemberIDs(ctx context.Context, groupID uint64) ([]uint64, error) {
	var ids []uint64
	result := s.db.WithContext(ctx).
		Model(&model.GroupMember{}).
		Where("group_id = ?", groupID).
		Pluck("user_id", &ids)

	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}

// CreateJoinRequest 创建入组申请
func (s *GroupRepoImpl) CreateJoinRequest(ctx context.Context, req *model.GroupJoinRequest) error {
	return s.db.WithContext(ctx).Create(req).Error
}

// GetJoinRequest 根据 ID 获取入组申请
func (s *GroupRepoImpl) GetJoinRequest(ctx context.Context, requestID uint64) (*model.GroupJoinRequest, error) {
	var req model.GroupJoinRequest
	result := s.db.WithContext(ctx).First(&req, requestID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &req, nil
}

// GetPendingJoinRequest 获取用户在小组的待处理申请
func (s *GroupRepoImpl) GetPendingJoinRequest(ctx context.Context, groupID, userID uint64) (*model.GroupJoinRequest, error) {
	var req model.GroupJoinRequest
	result := s.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ? AND status = ?", groupID, userID, consts.JoinRequestStatusPending).
		First(&req)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &req, nil
}

// UpdateJoinRequestStatus 更新申请状态
func (s *GroupRepoImpl) UpdateJoinRequestStatus(ctx context.Context, requestID uint64, status int8) error {
	return s.db.WithContext(ctx).
		Model(&model.GroupJoinRequest{}).
		Where("id = ?", requestID).
		Update("status", status).Error
}
