package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/modern-agile-team/9term-main-back-sub000/internal/model"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, postID uint64) (*model.Post, error)
	GetPostsByGroup(ctx context.Context, groupID uint64, limit, offset int) ([]*model.Post, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &PostRepoImpl{db: db}
}

// CreatePost 创建帖子
func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

// GetPost 根据 ID 获取帖子
func (s *PostRepoImpl) GetPost(ctx context.Context, postID uint64) (*model.Post, error) {
	var post model.Post
	result := s.db.WithContext(ctx).First(&post, postID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &post, nil
}

// GetPostsByGroup 获取小组帖子列表，按创建时间倒序
func (s *PostRepoImpl) GetPostsByGroup(ctx context.Context, groupID uint64, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	result := s.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&posts)

	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}
