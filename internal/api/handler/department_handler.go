package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/service"
	"fyp-portal/pkg/response"
)

// DepartmentHandler 院系与教职工模块 HTTP 处理器
type DepartmentHandler struct {
	deptSvc service.DepartmentService
}

// NewDepartmentHandler 创建 DepartmentHandler
func NewDepartmentHandler(deptSvc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptSvc: deptSvc}
}

// Create 创建院系
// POST /api/v1/coordinator/departments
func (h *DepartmentHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.deptSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, result)
}

// List 院系列表
// GET /api/v1/coordinator/departments
func (h *DepartmentHandler) List(c *gin.Context) {
	result, err := h.deptSvc.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// GetByID 院系详情
// GET /api/v1/coordinator/departments/:id
func (h *DepartmentHandler) GetByID(c *gin.Context) {
	result, err := h.deptSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Update 更新院系
// PUT /api/v1/coordinator/departments/:id
func (h *DepartmentHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.deptSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete 删除院系
// DELETE /api/v1/coordinator/departments/:id
func (h *DepartmentHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.deptSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleError(c, err)
		return
	}
	response.OKMessage(c, "院系已删除", nil)
}

// ListFaculty 院系教职工列表
// GET /api/v1/coordinator/departments/:id/faculty
func (h *DepartmentHandler) ListFaculty(c *gin.Context) {
	result, err := h.deptSvc.ListFaculty(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// AddFaculty 向院系添加教职工
// POST /api/v1/coordinator/departments/:id/faculty
func (h *DepartmentHandler) AddFaculty(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AddFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.deptSvc.AddFaculty(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, result)
}

// RemoveFaculty 从院系移除教职工
// DELETE /api/v1/coordinator/departments/:id/faculty/:facultyId
func (h *DepartmentHandler) RemoveFaculty(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.deptSvc.RemoveFaculty(c.Request.Context(), c.Param("id"), c.Param("facultyId"), callerID); err != nil {
		h.handleError(c, err)
		return
	}
	response.OKMessage(c, "教职工已移除", nil)
}

// TransferFaculty 教职工调动院系
// POST /api/v1/coordinator/faculty/transfer
func (h *DepartmentHandler) TransferFaculty(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.TransferFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.deptSvc.TransferFaculty(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// handleError 统一映射院系模块业务错误
func (h *DepartmentHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, service.ErrDepartmentNotFound.Error())
	case errors.Is(err, service.ErrFacultyNotFound):
		response.NotFound(c, service.ErrFacultyNotFound.Error())
	case errors.Is(err, service.ErrDepartmentNameExists):
		response.Conflict(c, service.ErrDepartmentNameExists.Error())
	case errors.Is(err, service.ErrFacultyEmailExists):
		response.Conflict(c, service.ErrFacultyEmailExists.Error())
	case errors.Is(err, service.ErrDepartmentHasFaculty):
		response.Conflict(c, service.ErrDepartmentHasFaculty.Error())
	case errors.Is(err, service.ErrFacultyHasGroups):
		response.Conflict(c, service.ErrFacultyHasGroups.Error())
	case errors.Is(err, service.ErrFacultyNotInDept):
		response.BadRequest(c, service.ErrFacultyNotInDept.Error())
	case errors.Is(err, service.ErrTransferSameDept):
		response.BadRequest(c, service.ErrTransferSameDept.Error())
	default:
		response.InternalError(c)
	}
}
