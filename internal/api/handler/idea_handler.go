package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/service"
	"fyp-portal/pkg/response"
)

// IdeaHandler 选题模块 HTTP 处理器
type IdeaHandler struct {
	ideaSvc service.IdeaService
}

// NewIdeaHandler 创建 IdeaHandler
func NewIdeaHandler(ideaSvc service.IdeaService) *IdeaHandler {
	return &IdeaHandler{ideaSvc: ideaSvc}
}

// ── 导师侧 ──

// Create 导师发布选题
// POST /api/v1/supervisor/ideas
func (h *IdeaHandler) Create(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.ideaSvc.CreateIdea(c.Request.Context(), supervisorID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, result)
}

// ListMine 当前导师名下的全部选题
// GET /api/v1/supervisor/ideas
func (h *IdeaHandler) ListMine(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.ideaSvc.ListMyIdeas(c.Request.Context(), supervisorID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// ListPending 待本导师审核的自拟选题
// GET /api/v1/supervisor/ideas/pending
func (h *IdeaHandler) ListPending(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.ideaSvc.ListPendingCustom(c.Request.Context(), supervisorID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Approve 通过自拟选题
// POST /api/v1/supervisor/ideas/:id/approve
func (h *IdeaHandler) Approve(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ReviewIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.ideaSvc.Approve(c.Request.Context(), supervisorID, c.Param("id"), req.Comment)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Reject 驳回自拟选题（reason 必填）
// POST /api/v1/supervisor/ideas/:id/reject
func (h *IdeaHandler) Reject(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ReviewIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.ideaSvc.Reject(c.Request.Context(), supervisorID, c.Param("id"), req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete 删除未被选用的选题
// DELETE /api/v1/supervisor/ideas/:id
func (h *IdeaHandler) Delete(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.ideaSvc.DeleteIdea(c.Request.Context(), supervisorID, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.OKMessage(c, "选题已删除", nil)
}

// ── 学生侧 ──

// ListAvailable 可供选用的导师选题
// GET /api/v1/project/ideas
func (h *IdeaHandler) ListAvailable(c *gin.Context) {
	result, err := h.ideaSvc.ListAvailable(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Select 小组选用导师选题
// POST /api/v1/project/select-idea
func (h *IdeaHandler) Select(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SelectIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.ideaSvc.SelectIdea(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// RequestCustom 小组提交自拟选题
// POST /api/v1/project/request-custom-idea
func (h *IdeaHandler) RequestCustom(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RequestCustomIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.ideaSvc.RequestCustomIdea(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, result)
}

// GetMyProject 当前小组的选题
// GET /api/v1/project/my
func (h *IdeaHandler) GetMyProject(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.ideaSvc.GetMyProject(c.Request.Context(), studentID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// handleError 统一映射选题模块业务错误
func (h *IdeaHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrIdeaNotFound):
		response.NotFound(c, service.ErrIdeaNotFound.Error())
	case errors.Is(err, service.ErrNoGroup):
		response.NotFound(c, service.ErrNoGroup.Error())
	case errors.Is(err, service.ErrFacultyNotFound):
		response.NotFound(c, service.ErrFacultyNotFound.Error())
	case errors.Is(err, service.ErrRejectReasonMissing):
		response.BadRequest(c, service.ErrRejectReasonMissing.Error())
	case errors.Is(err, service.ErrIdeaTaken):
		response.Conflict(c, service.ErrIdeaTaken.Error())
	case errors.Is(err, service.ErrGroupHasIdea):
		response.Conflict(c, service.ErrGroupHasIdea.Error())
	case errors.Is(err, service.ErrIdeaTerminal):
		response.Conflict(c, service.ErrIdeaTerminal.Error())
	case errors.Is(err, service.ErrNotIdeaOwner):
		response.Forbidden(c, service.ErrNotIdeaOwner.Error())
	default:
		response.InternalError(c)
	}
}
