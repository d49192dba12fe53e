package service

import (
	"context"
	"time"

	"github.com/modern-agile-team/9term-main-back-sub000/internal/api/dto"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/model"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/repository"
)

type PostService interface {
	CreatePost(ctx context.Context, userID, groupID uint64, req *dto.CreatePostReq) (*dto.PostDTO, error)
	GetGroupPosts(ctx context.Context, userID, groupID uint64, limit, offset int) ([]*dto.PostDTO, error)
}

type PostServiceImpl struct {
	postRepo            repository.PostRepo
	groupRepo           repository.GroupRepo
	notificationService NotificationService
}

func NewPostService(postRepo repository.PostRepo, groupRepo repository.GroupRepo, notificationService NotificationService) PostService {
	return &PostServiceImpl{
		postRepo:            postRepo,
		groupRepo:           groupRepo,
		notificationService: notificationService,
	}
}

// CreatePost 小组成员发帖并通知除作者外的全部成员
func (s *PostServiceImpl) CreatePost(ctx context.Context, userID, groupID uint64, req *dto.CreatePostReq) (*dto.PostDTO, error) {
	group, err := s.groupRepo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	member, err := s.groupRepo.GetMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrGroupMemberNotFound
	}

	post := &model.Post{
		GroupID: groupID,
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
	}
	if err = s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	memberIDs, err := s.groupRepo.GetMemberIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}
	recipientIDs := make([]uint64, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id != userID {
			recipientIDs = append(recipientIDs, id)
		}
	}

	if len(recipientIDs) > 0 {
		if _, err = s.notificationService.ComposeNewPost(ctx, post, recipientIDs); err != nil {
			return nil, err
		}
	}

	return s.toDTO(post), nil
}

// GetGroupPosts 小组成员查看帖子列表
func (s *PostServiceImpl) GetGroupPosts(ctx context.Context, userID, groupID uint64, limit, offset int) ([]*dto.PostDTO, error) {
	member, err := s.groupRepo.GetMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrGroupMemberNotFound
	}

	posts, err := s.postRepo.GetPostsByGroup(ctx, groupID, limit, offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PostDTO, 0, len(posts))
	for _, p := range posts {
		res = append(res, s.toDTO(p))
	}
	return res, nil
}

func (s *PostServiceImpl) toDTO(p *model.Post) *dto.PostDTO {
	return &dto.PostDTO{
		ID:        p.ID,
		GroupID:   p.GroupID,
		UserID:    p.UserID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
