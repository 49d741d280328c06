package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/johamwon/mealOrd/backend/internal/dto"
	"github.com/johamwon/mealOrd/backend/internal/service"
	"github.com/johamwon/mealOrd/backend/pkg/response"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportCSV 导出日期区间内的报餐明细
// GET /api/v1/admin/export/csv?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	q, ok := bindRange(c)
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.ExportCSV(c.Request.Context(), q.Start, q.End)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.Attachment(c, filename, contentTypeCSV, data)
}

// ExportXLSX 导出 Excel（汇总 + 明细两个工作表）
// GET /api/v1/admin/export/xlsx?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	q, ok := bindRange(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportXLSX(c.Request.Context(), q.Start, q.End)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.Attachment(c, filename, contentTypeXLSX, buf.Bytes())
}

// Meta 导出内容说明
// GET /api/v1/admin/export/meta?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ExportHandler) Meta(c *gin.Context) {
	q, ok := bindRange(c)
	if !ok {
		return
	}

	meta, err := h.exportSvc.Meta(c.Request.Context(), q.Start, q.End)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.OK(c, meta)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		handleLedgerError(c, err)
	}
}

func bindRange(c *gin.Context) (*dto.DateRangeQuery, bool) {
	var q dto.DateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "start 和 end 不能为空")
		return nil, false
	}
	return &q, true
}
