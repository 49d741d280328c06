package service

import (
	"time"

	"github.com/johamwon/mealOrd/backend/internal/model"
)

// 内置默认数据：存储中缺少对应逻辑键时写入

// 默认餐别 ID（固定值，便于前端与测试引用）
const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
)

var workdays = model.Weekdays{1, 2, 3, 4, 5}

func defaultMealTypes(now time.Time) []model.MealType {
	ts := model.Timestamps{CreatedAt: now, UpdatedAt: now}
	return []model.MealType{
		{
			ID:            MealTypeBreakfast,
			Name:          "早餐",
			Enabled:       true,
			CutoffTime:    "08:30",
			DefaultChoice: true,
			DaysOfWeek:    append(model.Weekdays(nil), workdays...),
			SortOrder:     1,
			Timestamps:    ts,
		},
		{
			ID:            MealTypeLunch,
			Name:          "午餐",
			Enabled:       true,
			CutoffTime:    "10:30",
			DefaultChoice: true,
			DaysOfWeek:    append(model.Weekdays(nil), workdays...),
			SortOrder:     2,
			Timestamps:    ts,
		},
	}
}

func defaultUsers(now time.Time) []model.User {
	ts := model.Timestamps{CreatedAt: now, UpdatedAt: now}
	seed := []struct{ id, name, dept string }{
		{"1", "张三", "技术部"},
		{"2", "李四", "产品部"},
		{"3", "王五", "设计部"},
		{"4", "赵六", "运营部"},
		{"5", "孙七", "技术部"},
	}
	users := make([]model.User, 0, len(seed))
	for _, s := range seed {
		users = append(users, model.User{
			ID:         s.id,
			Name:       s.name,
			Dept:       s.dept,
			Status:     model.UserStatusActive,
			Timestamps: ts,
		})
	}
	return users
}
