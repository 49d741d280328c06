package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/johamwon/mealOrd/backend/internal/dto"
	"github.com/johamwon/mealOrd/backend/internal/service"
	"github.com/johamwon/mealOrd/backend/pkg/response"
)

// SelectionHandler 员工报餐 HTTP 处理器
type SelectionHandler struct {
	ledger    service.MealLedger
	exportSvc service.ExportService
}

// NewSelectionHandler 创建 SelectionHandler
func NewSelectionHandler(ledger service.MealLedger, exportSvc service.ExportService) *SelectionHandler {
	return &SelectionHandler{ledger: ledger, exportSvc: exportSvc}
}

// ── 当前用户（共享终端） ──

// GetCurrentUser 当前报餐用户，未选择时 data 为空
// GET /api/v1/meal/current-user
func (h *SelectionHandler) GetCurrentUser(c *gin.Context) {
	user := h.ledger.CurrentUser()
	if user == nil {
		response.OK(c, nil)
		return
	}
	response.OK(c, dto.NewMealUserResponse(user))
}

// SetCurrentUser 切换当前报餐用户，user_id 为空表示清除
// PUT /api/v1/meal/current-user
func (h *SelectionHandler) SetCurrentUser(c *gin.Context) {
	var req dto.SetCurrentUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.ledger.SetCurrentUser(c.Request.Context(), req.UserID)
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	if user == nil {
		response.OK(c, nil)
		return
	}
	response.OK(c, dto.NewMealUserResponse(user))
}

// GetCurrentUserSelections 当前用户某日的显式报餐记录
// GET /api/v1/meal/current-user/selections?date=YYYY-MM-DD
func (h *SelectionHandler) GetCurrentUserSelections(c *gin.Context) {
	date, ok := h.queryDate(c)
	if !ok {
		return
	}

	list, err := h.ledger.GetMySelections(date)
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.OK(c, dto.ListResponse{List: dto.NewSelectionList(list), Total: len(list)})
}

// UpdateCurrentUserSelection 以当前用户身份报餐
// PUT /api/v1/meal/current-user/selections
func (h *SelectionHandler) UpdateCurrentUserSelection(c *gin.Context) {
	var req dto.UpdateSelectionRequest
	if !bindJSON(c, &req) {
		return
	}

	sel, err := h.ledger.UpdateSelection(c.Request.Context(), req.Date, req.MealTypeID, *req.Choice)
	if err != nil {
		h.handleSelectionError(c, req.MealTypeID, err)
		return
	}
	response.OKWithMessage(c, choiceMessage(sel.Choice), dto.NewSelectionResponse(sel))
}

// ── 员工视图（Token 身份） ──

// GetDay 某日报餐卡片，date 缺省为今天
// GET /api/v1/meal/day?date=YYYY-MM-DD
func (h *SelectionHandler) GetDay(c *gin.Context) {
	date, ok := h.queryDate(c)
	if !ok {
		return
	}
	h.renderDay(c, date)
}

// GetToday 今日报餐卡片
// GET /api/v1/meal/today
func (h *SelectionHandler) GetToday(c *gin.Context) {
	h.renderDay(c, h.ledger.Today())
}

// GetTomorrow 明日报餐卡片
// GET /api/v1/meal/tomorrow
func (h *SelectionHandler) GetTomorrow(c *gin.Context) {
	h.renderDay(c, h.ledger.Now().AddDate(0, 0, 1).Format(service.DateLayout))
}

// GetMySelections 本人某日的显式报餐记录
// GET /api/v1/meal/selections/my?date=YYYY-MM-DD
func (h *SelectionHandler) GetMySelections(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	date, ok := h.queryDate(c)
	if !ok {
		return
	}

	list, err := h.ledger.GetSelectionsFor(userID, date)
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.OK(c, dto.ListResponse{List: dto.NewSelectionList(list), Total: len(list)})
}

// UpdateSelection 报餐 / 取消报餐
// PUT /api/v1/meal/selections
func (h *SelectionHandler) UpdateSelection(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSelectionRequest
	if !bindJSON(c, &req) {
		return
	}

	sel, err := h.ledger.UpdateSelectionAs(c.Request.Context(), userID, req.Date, req.MealTypeID, *req.Choice)
	if err != nil {
		h.handleSelectionError(c, req.MealTypeID, err)
		return
	}
	response.OKWithMessage(c, choiceMessage(sel.Choice), dto.NewSelectionResponse(sel))
}

// ExportCalendar 本人报餐日历订阅
// GET /api/v1/meal/calendar.ics?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *SelectionHandler) ExportCalendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var q dto.DateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "start 和 end 不能为空")
		return
	}

	data, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), userID, q.Start, q.End)
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.Attachment(c, filename, "text/calendar; charset=utf-8", data)
}

// ── 内部辅助方法 ──

func (h *SelectionHandler) renderDay(c *gin.Context, date string) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	day, err := h.ledger.GetMealDay(userID, date)
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.OK(c, day)
}

// queryDate 读取 ?date=，缺省为业务时区的今天
func (h *SelectionHandler) queryDate(c *gin.Context) (string, bool) {
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

// handleSelectionError 截止错误带上餐别名称，其余交给通用映射
func (h *SelectionHandler) handleSelectionError(c *gin.Context, mealTypeID string, err error) {
	if errors.Is(err, service.ErrCutoffPassed) {
		name := "该餐别"
		if mt, lookupErr := h.ledger.GetMealType(mealTypeID); lookupErr == nil {
			name = mt.Name
		}
		response.Conflict(c, 20002, name+"已过截止时间，无法修改")
		return
	}
	handleLedgerError(c, err)
}

func choiceMessage(choice bool) string {
	if choice {
		return "已报餐"
	}
	return "已取消报餐"
}
