package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/modern-agile-team/9term-main-back-sub000/internal/api/dto"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/response"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/service"
)

type PostHandler struct {
	postService service.PostService
}

func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePost 小组内发帖
func (h *PostHandler) CreatePost(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("group_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.CreatePostReq
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	userID := c.GetUint64("user_id")
	postDTO, err := h.postService.CreatePost(c.Request.Context(), userID, groupID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, postDTO)
}

// GetGroupPosts 获取小组帖子列表
func (h *PostHandler) GetGroupPosts(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("group_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	userID := c.GetUint64("user_id")
	posts, err := h.postService.GetGroupPosts(c.Request.Context(), userID, groupID, pageSize, (page-1)*pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, posts)
}
