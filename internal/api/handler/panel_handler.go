package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/service"
	"fyp-portal/pkg/response"
)

// PanelHandler 评审小组模块 HTTP 处理器
type PanelHandler struct {
	panelSvc service.PanelService
}

// NewPanelHandler 创建 PanelHandler
func NewPanelHandler(panelSvc service.PanelService) *PanelHandler {
	return &PanelHandler{panelSvc: panelSvc}
}

// Create 创建评审小组
// POST /api/v1/coordinator/panels
func (h *PanelHandler) Create(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.panelSvc.Create(c.Request.Context(), operatorID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, result)
}

// List 评审小组列表
// GET /api/v1/coordinator/panels
func (h *PanelHandler) List(c *gin.Context) {
	result, err := h.panelSvc.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// GetByID 评审小组详情
// GET /api/v1/coordinator/panels/:id
func (h *PanelHandler) GetByID(c *gin.Context) {
	result, err := h.panelSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Update 更新评审小组
// PUT /api/v1/coordinator/panels/:id
func (h *PanelHandler) Update(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.panelSvc.Update(c.Request.Context(), operatorID, c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete 删除评审小组
// DELETE /api/v1/coordinator/panels/:id
func (h *PanelHandler) Delete(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.panelSvc.Delete(c.Request.Context(), operatorID, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.OKMessage(c, "评审小组已删除", nil)
}

// handleError 统一映射评审小组模块业务错误
func (h *PanelHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPanelNotFound):
		response.NotFound(c, service.ErrPanelNotFound.Error())
	case errors.Is(err, service.ErrPanelMemberNotExists):
		response.BadRequest(c, service.ErrPanelMemberNotExists.Error())
	case errors.Is(err, service.ErrPanelMemberNotStaff):
		response.BadRequest(c, service.ErrPanelMemberNotStaff.Error())
	case errors.Is(err, service.ErrPanelNameExists):
		response.Conflict(c, service.ErrPanelNameExists.Error())
	default:
		response.InternalError(c)
	}
}
