package dto

import (
	"time"

	"github.com/johamwon/mealOrd/backend/internal/model"
)

// ── 报餐用户 DTO ──

// CreateMealUserRequest 新增用户请求
type CreateMealUserRequest struct {
	Name   string `json:"name"   binding:"max=50"`
	Dept   string `json:"dept"   binding:"max=50"`
	Status string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// UpdateMealUserRequest 更新用户请求（仅更新非 nil 字段）
type UpdateMealUserRequest struct {
	Name   *string `json:"name"   binding:"omitempty,max=50"`
	Dept   *string `json:"dept"   binding:"omitempty,max=50"`
	Status *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// MealUserResponse 用户信息响应
type MealUserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Dept      string `json:"dept,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// NewMealUserResponse 转换为响应
func NewMealUserResponse(u *model.User) MealUserResponse {
	return MealUserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Dept:      u.Dept,
		Status:    u.Status,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// NewMealUserList 批量转换
func NewMealUserList(users []model.User) []MealUserResponse {
	out := make([]MealUserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewMealUserResponse(&users[i]))
	}
	return out
}
