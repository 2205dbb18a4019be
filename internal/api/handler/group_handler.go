package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/service"
	"fyp-portal/pkg/response"
)

// GroupHandler 毕设小组模块 HTTP 处理器
type GroupHandler struct {
	groupSvc service.GroupService
}

// NewGroupHandler 创建 GroupHandler
func NewGroupHandler(groupSvc service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// Create 学生创建小组（创建者即组长）
// POST /api/v1/group/create
func (h *GroupHandler) Create(c *gin.Context) {
	leaderID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.groupSvc.Create(c.Request.Context(), leaderID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, result)
}

// GetMyGroup 查询当前学生所在小组
// GET /api/v1/group/my
func (h *GroupHandler) GetMyGroup(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.groupSvc.GetMyGroup(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateMembers 组长调整小组成员
// PUT /api/v1/group/members
func (h *GroupHandler) UpdateMembers(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateGroupMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	group, err := h.groupSvc.GetMyGroup(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	result, err := h.groupSvc.UpdateMembers(c.Request.Context(), group.ID, userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// List 小组列表（协调员视角，支持状态/导师过滤与分页）
// GET /api/v1/coordinator/groups
func (h *GroupHandler) List(c *gin.Context) {
	var req dto.GroupListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	items, total, err := h.groupSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, gin.H{"items": items, "total": total})
}

// GetByID 小组详情
// GET /api/v1/coordinator/groups/:id
func (h *GroupHandler) GetByID(c *gin.Context) {
	result, err := h.groupSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// ListMine 当前导师指导的小组
// GET /api/v1/supervisor/groups
func (h *GroupHandler) ListMine(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.groupSvc.ListBySupervisor(c.Request.Context(), supervisorID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateStatus 更新小组状态
// PUT /api/v1/coordinator/groups/:id/status
func (h *GroupHandler) UpdateStatus(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateGroupStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.groupSvc.UpdateStatus(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// AssignSupervisor 为小组指派导师
// PUT /api/v1/coordinator/groups/:id/supervisor
func (h *GroupHandler) AssignSupervisor(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AssignSupervisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.groupSvc.AssignSupervisor(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// handleError 统一映射小组模块业务错误
func (h *GroupHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, service.ErrGroupNotFound.Error())
	case errors.Is(err, service.ErrNoGroup):
		response.NotFound(c, service.ErrNoGroup.Error())
	case errors.Is(err, service.ErrFacultyNotFound):
		response.NotFound(c, service.ErrFacultyNotFound.Error())
	case errors.Is(err, service.ErrGroupTooLarge):
		response.BadRequest(c, service.ErrGroupTooLarge.Error())
	case errors.Is(err, service.ErrMemberNotStudent):
		response.BadRequest(c, service.ErrMemberNotStudent.Error())
	case errors.Is(err, service.ErrLeaderNotInMembers):
		response.BadRequest(c, service.ErrLeaderNotInMembers.Error())
	case errors.Is(err, service.ErrDuplicateMember):
		response.BadRequest(c, service.ErrDuplicateMember.Error())
	case errors.Is(err, service.ErrAlreadyInGroup):
		response.Conflict(c, service.ErrAlreadyInGroup.Error())
	case errors.Is(err, service.ErrGroupCompleted):
		response.Conflict(c, service.ErrGroupCompleted.Error())
	case errors.Is(err, service.ErrNotGroupLeader):
		response.Forbidden(c, service.ErrNotGroupLeader.Error())
	default:
		response.InternalError(c)
	}
}
