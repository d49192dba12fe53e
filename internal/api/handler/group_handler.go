package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/modern-agile-team/9term-main-back-sub000/internal/api/dto"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/pkg/response"
	"github.com/modern-agile-team/9term-main-back-sub000/internal/service"
)

type GroupHandler struct {
	groupService service.GroupService
}

func NewGroupHandler(groupService service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// CreateGroup 创建小组
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req dto.CreateGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	userID := c.GetUint64("user_id")
	groupDTO, err := h.groupService.CreateGroup(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, groupDTO)
}

// JoinGroup 提交入组申请
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("group_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")
	if err = h.groupService.JoinGroup(c.Request.Context(), groupID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// ApproveJoinRequest 管理员通过入组申请
func (h *GroupHandler) ApproveJoinRequest(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("group_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	requestID, err := strconv.ParseUint(c.Param("request_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")
	if err = h.groupService.ApproveJoinRequest(c.Request.Context(), groupID, requestID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
