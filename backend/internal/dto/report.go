package dto

// ── 统计报表 DTO ──

// MealSummary 单个餐别的当日汇总
// Total 为在职人数；Total-Eating-NotEating 即未确认人数
type MealSummary struct {
	MealTypeID   string `json:"meal_type_id"`
	MealTypeName string `json:"meal_type_name"`
	Eating       int    `json:"eating"`
	NotEating    int    `json:"not_eating"`
	Total        int    `json:"total"`
}

// Unconfirmed 尚未显式选择的人数
// 停用或已删除用户的历史记录也计入 Eating/NotEating，差值可能为负，此时按 0 计
func (s MealSummary) Unconfirmed() int {
	if n := s.Total - s.Eating - s.NotEating; n > 0 {
		return n
	}
	return 0
}

// MealDetailSelection 明细中单个餐别的选择
// UpdatedAt 为空串表示无显式记录，Choice 取餐别默认值
type MealDetailSelection struct {
	MealTypeID   string `json:"meal_type_id"`
	MealTypeName string `json:"meal_type_name"`
	Choice       bool   `json:"choice"`
	UpdatedAt    string `json:"updated_at"`
	Explicit     bool   `json:"explicit"`
}

// MealDetail 单个在职用户的当日明细
type MealDetail struct {
	UserID     string                `json:"user_id"`
	UserName   string                `json:"user_name"`
	Dept       string                `json:"dept,omitempty"`
	Selections []MealDetailSelection `json:"selections"`
}

// DailyReport 某日汇总 + 明细
type DailyReport struct {
	Date    string        `json:"date"`
	Summary []MealSummary `json:"summary"`
	Details []MealDetail  `json:"details"`
}
