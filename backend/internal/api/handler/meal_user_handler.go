package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/johamwon/mealOrd/backend/internal/dto"
	"github.com/johamwon/mealOrd/backend/internal/service"
	"github.com/johamwon/mealOrd/backend/pkg/response"
)

// MealUserHandler 报餐用户 HTTP 处理器
type MealUserHandler struct {
	ledger service.MealLedger
}

// NewMealUserHandler 创建 MealUserHandler
func NewMealUserHandler(ledger service.MealLedger) *MealUserHandler {
	return &MealUserHandler{ledger: ledger}
}

// ListActiveUsers 在职用户列表（身份选择器）
// GET /api/v1/meal/users
func (h *MealUserHandler) ListActiveUsers(c *gin.Context) {
	users := h.ledger.ListActiveUsers()
	response.OK(c, dto.ListResponse{List: dto.NewMealUserList(users), Total: len(users)})
}

// ListUsers 全部用户列表
// GET /api/v1/admin/users
func (h *MealUserHandler) ListUsers(c *gin.Context) {
	users := h.ledger.ListUsers()
	response.OK(c, dto.ListResponse{List: dto.NewMealUserList(users), Total: len(users)})
}

// GetUser 用户详情
// GET /api/v1/admin/users/:id
func (h *MealUserHandler) GetUser(c *gin.Context) {
	user, err := h.ledger.GetUser(c.Param("id"))
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.OK(c, dto.NewMealUserResponse(user))
}

// CreateUser 新增用户
// POST /api/v1/admin/users
func (h *MealUserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateMealUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.ledger.AddUser(c.Request.Context(), &req)
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.CreatedWithMessage(c, "用户添加成功", dto.NewMealUserResponse(user))
}

// UpdateUser 更新用户
// PUT /api/v1/admin/users/:id
func (h *MealUserHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateMealUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.ledger.UpdateUser(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.OKWithMessage(c, "用户更新成功", dto.NewMealUserResponse(user))
}

// DeleteUser 删除用户（历史报餐记录保留）
// DELETE /api/v1/admin/users/:id
func (h *MealUserHandler) DeleteUser(c *gin.Context) {
	if err := h.ledger.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		handleLedgerError(c, err)
		return
	}

	response.OKWithMessage(c, "用户删除成功", nil)
}
