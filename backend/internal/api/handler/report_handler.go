package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/johamwon/mealOrd/backend/internal/dto"
	"github.com/johamwon/mealOrd/backend/internal/service"
	"github.com/johamwon/mealOrd/backend/pkg/response"
)

// ReportHandler 管理端统计 HTTP 处理器
type ReportHandler struct {
	ledger service.MealLedger
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(ledger service.MealLedger) *ReportHandler {
	return &ReportHandler{ledger: ledger}
}

// GetSelections 某日全部显式报餐记录
// GET /api/v1/admin/selections?date=YYYY-MM-DD
func (h *ReportHandler) GetSelections(c *gin.Context) {
	date, ok := h.queryDate(c)
	if !ok {
		return
	}

	list, err := h.ledger.GetSelectionsByDate(date)
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.OK(c, dto.ListResponse{List: dto.NewSelectionList(list), Total: len(list)})
}

// GetSummary 某日各餐别汇总
// GET /api/v1/admin/summary?date=YYYY-MM-DD
func (h *ReportHandler) GetSummary(c *gin.Context) {
	date, ok := h.queryDate(c)
	if !ok {
		return
	}

	summary, err := h.ledger.GetSummary(date)
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.OK(c, summary)
}

// GetDetails 某日汇总 + 在职用户明细
// GET /api/v1/admin/details?date=YYYY-MM-DD
func (h *ReportHandler) GetDetails(c *gin.Context) {
	date, ok := h.queryDate(c)
	if !ok {
		return
	}

	summary, err := h.ledger.GetSummary(date)
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	details, err := h.ledger.GetDetails(date)
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.OK(c, dto.DailyReport{Date: date, Summary: summary, Details: details})
}

func (h *ReportHandler) queryDate(c *gin.Context) (string, bool) {
	var q dto.DateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return "", false
	}
	if q.Date == "" {
		return h.ledger.Today(), true
	}
	return q.Date, true
}
