package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/service"
	"fyp-portal/pkg/response"
)

// EvaluationHandler 期末评分模块 HTTP 处理器
type EvaluationHandler struct {
	evalSvc service.EvaluationService
}

// NewEvaluationHandler 创建 EvaluationHandler
func NewEvaluationHandler(evalSvc service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evalSvc: evalSvc}
}

// ListMine 当前导师指导小组的评分列表
// GET /api/v1/supervisor/final-evaluations
func (h *EvaluationHandler) ListMine(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.evalSvc.ListBySupervisor(c.Request.Context(), supervisorID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateMarks 录入分项成绩
// PUT /api/v1/supervisor/final-evaluations/:id/marks
func (h *EvaluationHandler) UpdateMarks(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateMarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.evalSvc.UpdateMarks(c.Request.Context(), supervisorID, c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateFeedback 录入总评语
// PUT /api/v1/supervisor/final-evaluations/:id/feedback
func (h *EvaluationHandler) UpdateFeedback(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.evalSvc.UpdateFeedback(c.Request.Context(), supervisorID, c.Param("id"), req.Feedback)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Complete 锁定评分
// POST /api/v1/supervisor/final-evaluations/:id/complete
func (h *EvaluationHandler) Complete(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.evalSvc.Complete(c.Request.Context(), supervisorID, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// GetMyEvaluation 当前学生小组的评分
// GET /api/v1/project/evaluation
func (h *EvaluationHandler) GetMyEvaluation(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.evalSvc.GetMyEvaluation(c.Request.Context(), studentID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// List 全部评分（协调员视角）
// GET /api/v1/coordinator/final-evaluations
func (h *EvaluationHandler) List(c *gin.Context) {
	result, err := h.evalSvc.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// handleError 统一映射评分模块业务错误
func (h *EvaluationHandler) handleError(c *gin.Context, err error) {
	var rangeErr *service.MarksOutOfRangeError
	switch {
	case errors.Is(err, service.ErrEvaluationNotFound):
		response.NotFound(c, service.ErrEvaluationNotFound.Error())
	case errors.Is(err, service.ErrNoGroup):
		response.NotFound(c, service.ErrNoGroup.Error())
	case errors.As(err, &rangeErr):
		response.BadRequest(c, rangeErr.Error())
	case errors.Is(err, service.ErrEvaluationCompleted):
		response.Conflict(c, service.ErrEvaluationCompleted.Error())
	case errors.Is(err, service.ErrNotGroupSupervisor):
		response.Forbidden(c, service.ErrNotGroupSupervisor.Error())
	default:
		response.InternalError(c)
	}
}
