package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/johamwon/mealOrd/backend/internal/dto"
	"github.com/johamwon/mealOrd/backend/internal/service"
	"github.com/johamwon/mealOrd/backend/pkg/response"
)

// MealTypeHandler 餐别配置 HTTP 处理器
type MealTypeHandler struct {
	ledger service.MealLedger
}

// NewMealTypeHandler 创建 MealTypeHandler
func NewMealTypeHandler(ledger service.MealLedger) *MealTypeHandler {
	return &MealTypeHandler{ledger: ledger}
}

// ListMealTypes 餐别列表（按 sort_order 排序）
// GET /api/v1/admin/meal-types
func (h *MealTypeHandler) ListMealTypes(c *gin.Context) {
	types := h.ledger.ListMealTypes()
	response.OK(c, dto.ListResponse{List: dto.NewMealTypeList(types), Total: len(types)})
}

// GetMealType 餐别详情
// GET /api/v1/admin/meal-types/:id
func (h *MealTypeHandler) GetMealType(c *gin.Context) {
	mt, err := h.ledger.GetMealType(c.Param("id"))
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.OK(c, dto.NewMealTypeResponse(mt))
}

// CreateMealType 新增餐别
// POST /api/v1/admin/meal-types
func (h *MealTypeHandler) CreateMealType(c *gin.Context) {
	var req dto.CreateMealTypeRequest
	if !bindJSON(c, &req) {
		return
	}

	mt, err := h.ledger.AddMealType(c.Request.Context(), &req)
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.CreatedWithMessage(c, "餐别添加成功", dto.NewMealTypeResponse(mt))
}

// UpdateMealType 更新餐别
// PUT /api/v1/admin/meal-types/:id
func (h *MealTypeHandler) UpdateMealType(c *gin.Context) {
	var req dto.UpdateMealTypeRequest
	if !bindJSON(c, &req) {
		return
	}

	mt, err := h.ledger.UpdateMealType(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.OKWithMessage(c, "餐别更新成功", dto.NewMealTypeResponse(mt))
}

// DeleteMealType 删除餐别（历史报餐记录保留）
// DELETE /api/v1/admin/meal-types/:id
func (h *MealTypeHandler) DeleteMealType(c *gin.Context) {
	if err := h.ledger.DeleteMealType(c.Request.Context(), c.Param("id")); err != nil {
		handleLedgerError(c, err)
		return
	}

	response.OKWithMessage(c, "餐别删除成功", nil)
}
