package dto

import (
	"time"

	"github.com/johamwon/mealOrd/backend/internal/model"
)

// ── 报餐选择 DTO ──

// UpdateSelectionRequest 报餐/取消报餐请求
type UpdateSelectionRequest struct {
	Date       string `json:"date"         binding:"required"` // YYYY-MM-DD
	MealTypeID string `json:"meal_type_id" binding:"required"`
	Choice     *bool  `json:"choice"       binding:"required"`
}

// DateQuery 单日查询参数，缺省为今天
type DateQuery struct {
	Date string `form:"date"`
}

// DateRangeQuery 日期区间查询参数（闭区间）
type DateRangeQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end"   binding:"required"`
}

// SelectionResponse 报餐记录响应
type SelectionResponse struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	UserID     string `json:"user_id"`
	MealTypeID string `json:"meal_type_id"`
	Choice     bool   `json:"choice"`
	UpdatedAt  string `json:"updated_at"`
}

// NewSelectionResponse 转换为响应
func NewSelectionResponse(s *model.MealSelection) SelectionResponse {
	return SelectionResponse{
		ID:         s.ID,
		Date:       s.Date,
		UserID:     s.UserID,
		MealTypeID: s.MealTypeID,
		Choice:     s.Choice,
		UpdatedAt:  s.UpdatedAt.Format(time.RFC3339),
	}
}

// NewSelectionList 批量转换
func NewSelectionList(list []model.MealSelection) []SelectionResponse {
	out := make([]SelectionResponse, 0, len(list))
	for i := range list {
		out = append(out, NewSelectionResponse(&list[i]))
	}
	return out
}

// MealCard 员工视图中的单个餐别卡片
type MealCard struct {
	MealType     MealTypeResponse `json:"meal_type"`
	Choice       bool             `json:"choice"`        // 生效选择（显式记录或默认值）
	Explicit     bool             `json:"explicit"`      // 是否存在显式报餐记录
	CutoffPassed bool             `json:"cutoff_passed"` // 仅当日有意义
	Editable     bool             `json:"editable"`
	UpdatedAt    string           `json:"updated_at"` // 无显式记录时为空串
}

// MealDayResponse 员工某日报餐视图
type MealDayResponse struct {
	Date    string     `json:"date"`
	Weekday int        `json:"weekday"` // ISO 星期
	IsToday bool       `json:"is_today"`
	Cards   []MealCard `json:"cards"`
}
