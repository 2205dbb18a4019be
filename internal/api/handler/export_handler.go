package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"fyp-portal/internal/service"
	"fyp-portal/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportMarks 导出成绩汇总 Excel
// GET /api/v1/coordinator/export/marks
func (h *ExportHandler) ExportMarks(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportMarks(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	setDownloadHeaders(c, filename, contentTypeXLSX)
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// ExportScheduleICS 导出答辩排期日历
// GET /api/v1/coordinator/export/schedule.ics
func (h *ExportHandler) ExportScheduleICS(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportScheduleICS(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	setDownloadHeaders(c, filename, contentTypeICS)
	c.Data(http.StatusOK, contentTypeICS, buf.Bytes())
}

func setDownloadHeaders(c *gin.Context, filename, contentType string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", contentType)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoEvaluations):
		response.NotFound(c, service.ErrExportNoEvaluations.Error())
	case errors.Is(err, service.ErrExportNoSchedules):
		response.NotFound(c, service.ErrExportNoSchedules.Error())
	default:
		response.InternalError(c)
	}
}
