package model

// MealType 餐别配置（早餐、午餐…），持久化于逻辑键 meal_types
type MealType struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Enabled       bool     `json:"enabled"`
	CutoffTime    string   `json:"cutoffTime"`    // HH:mm，当日截止时间
	DefaultChoice bool     `json:"defaultChoice"` // 未报餐时的默认选择：true=吃
	DaysOfWeek    Weekdays `json:"daysOfWeek"`
	SortOrder     int      `json:"sortOrder"`
	Timestamps
}
