package dto

import (
	"time"

	"github.com/johamwon/mealOrd/backend/internal/model"
)

// ── 餐别配置 DTO ──

// CreateMealTypeRequest 新增餐别请求
// Enabled 缺省为启用；CutoffTime 形如 "10:30"
type CreateMealTypeRequest struct {
	Name          string `json:"name"           binding:"max=20"`
	Enabled       *bool  `json:"enabled"`
	CutoffTime    string `json:"cutoff_time"    binding:"required"`
	DefaultChoice bool   `json:"default_choice"`
	DaysOfWeek    []int  `json:"days_of_week"`
	SortOrder     int    `json:"sort_order"`
}

// UpdateMealTypeRequest 更新餐别请求（仅更新非 nil 字段）
type UpdateMealTypeRequest struct {
	Name          *string `json:"name"           binding:"omitempty,max=20"`
	Enabled       *bool   `json:"enabled"`
	CutoffTime    *string `json:"cutoff_time"`
	DefaultChoice *bool   `json:"default_choice"`
	DaysOfWeek    *[]int  `json:"days_of_week"`
	SortOrder     *int    `json:"sort_order"`
}

// MealTypeResponse 餐别信息响应
type MealTypeResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Enabled       bool   `json:"enabled"`
	CutoffTime    string `json:"cutoff_time"`
	DefaultChoice bool   `json:"default_choice"`
	DaysOfWeek    []int  `json:"days_of_week"`
	SortOrder     int    `json:"sort_order"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// NewMealTypeResponse 转换为响应
func NewMealTypeResponse(m *model.MealType) MealTypeResponse {
	days := make([]int, len(m.DaysOfWeek))
	copy(days, m.DaysOfWeek)
	return MealTypeResponse{
		ID:            m.ID,
		Name:          m.Name,
		Enabled:       m.Enabled,
		CutoffTime:    m.CutoffTime,
		DefaultChoice: m.DefaultChoice,
		DaysOfWeek:    days,
		SortOrder:     m.SortOrder,
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     m.UpdatedAt.Format(time.RFC3339),
	}
}

// NewMealTypeList 批量转换
func NewMealTypeList(types []model.MealType) []MealTypeResponse {
	out := make([]MealTypeResponse, 0, len(types))
	for i := range types {
		out = append(out, NewMealTypeResponse(&types[i]))
	}
	return out
}
