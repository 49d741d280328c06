package service

import (
	"errors"
	"time"

	"github.com/johamwon/mealOrd/backend/internal/model"
)

// DateLayout 报餐日期格式
const DateLayout = "2006-01-02"

// cutoffLayout 截止时间格式 HH:mm
const cutoffLayout = "15:04"

var (
	ErrInvalidDate       = errors.New("日期格式错误，应为 YYYY-MM-DD")
	ErrInvalidCutoffTime = errors.New("截止时间格式错误，应为 HH:mm")
)

// ParseDate 按业务时区解析 YYYY-MM-DD，返回当日零点
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// NormalizeCutoff 校验截止时间并统一为两位小时，如 "8:30" → "08:30"
func NormalizeCutoff(s string) (string, error) {
	t, err := time.Parse(cutoffLayout, s)
	if err != nil {
		return "", ErrInvalidCutoffTime
	}
	return t.Format(cutoffLayout), nil
}

// CutoffAt 餐别在 day 当日的截止时刻（秒归零），时区取 day 的时区
func CutoffAt(mt *model.MealType, day time.Time) (time.Time, error) {
	t, err := time.Parse(cutoffLayout, mt.CutoffTime)
	if err != nil {
		return time.Time{}, ErrInvalidCutoffTime
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

// IsCutoffPassed now 是否已到达 now 当日的截止时刻
// 只比较"今天"，调用方自行判断是否与所编辑日期相关
func IsCutoffPassed(mt *model.MealType, now time.Time) bool {
	cutoff, err := CutoffAt(mt, now)
	if err != nil {
		return false
	}
	return !now.Before(cutoff)
}

// IsMealTypeActiveOnDate 餐别已启用且 date 的 ISO 星期在 DaysOfWeek 中
func IsMealTypeActiveOnDate(mt *model.MealType, date time.Time) bool {
	return mt.Enabled && mt.DaysOfWeek.Contains(model.ISOWeekday(date))
}
