package model

import "time"

// MealSelection 某用户某日某餐别的报餐选择，持久化于逻辑键 meal_selections
// (Date, UserID, MealTypeID) 三元组唯一
type MealSelection struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"` // YYYY-MM-DD
	UserID     string    `json:"userId"`
	MealTypeID string    `json:"mealTypeId"`
	Choice     bool      `json:"choice"` // true=吃，false=不吃
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Matches 是否为同一三元组
func (s *MealSelection) Matches(date, userID, mealTypeID string) bool {
	return s.Date == date && s.UserID == userID && s.MealTypeID == mealTypeID
}
