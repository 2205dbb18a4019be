package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/service"
	pkgerrors "fyp-portal/pkg/errors"
	"fyp-portal/pkg/response"
)

// ScheduleHandler 答辩排期模块 HTTP 处理器
type ScheduleHandler struct {
	schedSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(schedSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedSvc: schedSvc}
}

// Create 创建排期
// POST /api/v1/coordinator/schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.schedSvc.Create(c.Request.Context(), operatorID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, result)
}

// List 排期列表（支持 date / panel_id / room 过滤，按日期+时段升序）
// GET /api/v1/coordinator/schedules
func (h *ScheduleHandler) List(c *gin.Context) {
	var req dto.ScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.schedSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// GetByID 排期详情
// GET /api/v1/coordinator/schedules/:id
func (h *ScheduleHandler) GetByID(c *gin.Context) {
	result, err := h.schedSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// GetMySchedule 当前学生小组的答辩安排
// GET /api/v1/project/schedule
func (h *ScheduleHandler) GetMySchedule(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.schedSvc.GetMySchedule(c.Request.Context(), studentID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Update 更新排期（乐观锁）
// PUT /api/v1/coordinator/schedules/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.schedSvc.Update(c.Request.Context(), operatorID, c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete 删除排期
// DELETE /api/v1/coordinator/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.schedSvc.Delete(c.Request.Context(), operatorID, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.OKMessage(c, "排期已删除", nil)
}

// AutoSchedule 自动排期
// POST /api/v1/coordinator/schedules/auto
func (h *ScheduleHandler) AutoSchedule(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AutoScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.schedSvc.AutoSchedule(c.Request.Context(), operatorID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Swap 对调两条排期
// POST /api/v1/coordinator/schedules/swap
func (h *ScheduleHandler) Swap(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SwapSchedulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.schedSvc.Swap(c.Request.Context(), operatorID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// handleError 统一映射排期模块业务错误
func (h *ScheduleHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, service.ErrScheduleNotFound.Error())
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, service.ErrGroupNotFound.Error())
	case errors.Is(err, service.ErrPanelNotFound):
		response.NotFound(c, service.ErrPanelNotFound.Error())
	case errors.Is(err, service.ErrNoGroup):
		response.NotFound(c, service.ErrNoGroup.Error())
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, service.ErrInvalidDateRange.Error())
	case errors.Is(err, service.ErrSwapSameSchedule):
		response.BadRequest(c, service.ErrSwapSameSchedule.Error())
	case errors.Is(err, service.ErrNoActivePanels):
		response.BadRequest(c, service.ErrNoActivePanels.Error())
	case errors.Is(err, service.ErrSlotOccupied):
		response.Conflict(c, service.ErrSlotOccupied.Error())
	case errors.Is(err, service.ErrPanelBusy):
		response.Conflict(c, service.ErrPanelBusy.Error())
	case errors.Is(err, service.ErrGroupScheduled):
		response.Conflict(c, service.ErrGroupScheduled.Error())
	case errors.Is(err, service.ErrScheduleCompleted):
		response.Conflict(c, service.ErrScheduleCompleted.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, "排期已被他人修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
