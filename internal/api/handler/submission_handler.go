package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/service"
	"fyp-portal/pkg/response"
)

// SubmissionHandler 提案与文档模块 HTTP 处理器
type SubmissionHandler struct {
	subSvc service.SubmissionService
}

// NewSubmissionHandler 创建 SubmissionHandler
func NewSubmissionHandler(subSvc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{subSvc: subSvc}
}

// ── 学生侧：提案 ──

// UploadProposal 上传提案草稿（multipart 字段 file）
// POST /api/v1/project/proposals
func (h *SubmissionHandler) UploadProposal(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "缺少上传文件")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "无法读取上传文件")
		return
	}
	defer f.Close()

	result, err := h.subSvc.UploadProposal(c.Request.Context(), studentID, fileHeader.Filename, f)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, result)
}

// SubmitProposal 提交最新草稿
// POST /api/v1/project/proposals/submit
func (h *SubmissionHandler) SubmitProposal(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.subSvc.SubmitProposal(c.Request.Context(), studentID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// ListMyProposals 当前小组的提案版本列表
// GET /api/v1/project/proposals
func (h *SubmissionHandler) ListMyProposals(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.subSvc.ListMyProposals(c.Request.Context(), studentID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// ── 学生侧：文档 ──

// GetMyDocuments 当前小组的文档及上传资格
// GET /api/v1/project/documents
func (h *SubmissionHandler) GetMyDocuments(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.subSvc.GetMyDocuments(c.Request.Context(), studentID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// UploadDocument 上传项目文档（multipart 字段 file / document_type / description）
// POST /api/v1/project/documents
func (h *SubmissionHandler) UploadDocument(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	documentType := c.PostForm("document_type")
	if documentType == "" {
		response.BadRequest(c, "缺少文档类型")
		return
	}
	description := c.PostForm("description")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "缺少上传文件")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "无法读取上传文件")
		return
	}
	defer f.Close()

	result, err := h.subSvc.UploadDocument(c.Request.Context(), studentID, documentType, description, fileHeader.Filename, f)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, result)
}

// ── 导师侧：提案 ──

// ListProposals 指导小组的提案列表（草稿不可见）
// GET /api/v1/supervisor/proposals
func (h *SubmissionHandler) ListProposals(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.subSvc.ListProposals(c.Request.Context(), supervisorID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// ApproveProposal 通过提案
// POST /api/v1/supervisor/proposals/:id/approve
func (h *SubmissionHandler) ApproveProposal(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ReviewSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.subSvc.ApproveProposal(c.Request.Context(), supervisorID, c.Param("id"), req.Comment)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// RejectProposal 驳回提案（reason 必填）
// POST /api/v1/supervisor/proposals/:id/reject
func (h *SubmissionHandler) RejectProposal(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ReviewSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.subSvc.RejectProposal(c.Request.Context(), supervisorID, c.Param("id"), req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// CommentProposal 追加提案评语
// POST /api/v1/supervisor/proposals/:id/comment
func (h *SubmissionHandler) CommentProposal(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.subSvc.CommentProposal(c.Request.Context(), supervisorID, c.Param("id"), req.Feedback)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// ── 导师侧：文档 ──

// ListDocuments 指导小组的文档列表
// GET /api/v1/supervisor/documents
func (h *SubmissionHandler) ListDocuments(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.subSvc.ListDocuments(c.Request.Context(), supervisorID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// ApproveDocument 通过文档
// POST /api/v1/supervisor/documents/:id/approve
func (h *SubmissionHandler) ApproveDocument(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.subSvc.ApproveDocument(c.Request.Context(), supervisorID, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// RejectDocument 驳回文档（reason 必填）
// POST /api/v1/supervisor/documents/:id/reject
func (h *SubmissionHandler) RejectDocument(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ReviewSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.subSvc.RejectDocument(c.Request.Context(), supervisorID, c.Param("id"), req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// DocumentFeedback 文档评语
// POST /api/v1/supervisor/documents/:id/feedback
func (h *SubmissionHandler) DocumentFeedback(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	result, err := h.subSvc.DocumentFeedback(c.Request.Context(), supervisorID, c.Param("id"), req.Feedback)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// handleError 统一映射提案/文档模块业务错误
func (h *SubmissionHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProposalNotFound):
		response.NotFound(c, service.ErrProposalNotFound.Error())
	case errors.Is(err, service.ErrDocumentNotFound):
		response.NotFound(c, service.ErrDocumentNotFound.Error())
	case errors.Is(err, service.ErrNoGroup):
		response.NotFound(c, service.ErrNoGroup.Error())
	case errors.Is(err, service.ErrRejectReasonMissing):
		response.BadRequest(c, service.ErrRejectReasonMissing.Error())
	case errors.Is(err, service.ErrNoDraftProposal):
		response.BadRequest(c, service.ErrNoDraftProposal.Error())
	case errors.Is(err, service.ErrProposalNotSubmitted):
		response.BadRequest(c, service.ErrProposalNotSubmitted.Error())
	case errors.Is(err, service.ErrProposalTerminal):
		response.Conflict(c, service.ErrProposalTerminal.Error())
	case errors.Is(err, service.ErrDocumentTerminal):
		response.Conflict(c, service.ErrDocumentTerminal.Error())
	case errors.Is(err, service.ErrDocumentsLocked):
		response.Forbidden(c, service.ErrDocumentsLocked.Error())
	case errors.Is(err, service.ErrNotGroupSupervisor):
		response.Forbidden(c, service.ErrNotGroupSupervisor.Error())
	default:
		response.InternalError(c)
	}
}
