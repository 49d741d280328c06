package service

import (
	"time"

	"github.com/johamwon/mealOrd/backend/internal/dto"
)

// timeLayout 报表中的更新时间格式
const timeLayout = "2006-01-02 15:04:05"

// ────────────────────── GetSummary ──────────────────────

// GetSummary 每个启用餐别的当日汇总
// Total 为在职人数；Eating/NotEating 统计当日该餐别的全部显式记录，含停用或已删除用户的历史记录
func (l *mealLedger) GetSummary(date string) ([]dto.MealSummary, error) {
	if _, err := l.parseDate(date); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	active := l.activeUsers()
	index := l.selectionIndex(date)

	types := l.enabledMealTypes()
	out := make([]dto.MealSummary, 0, len(types))
	for _, mt := range types {
		summary := dto.MealSummary{
			MealTypeID:   mt.ID,
			MealTypeName: mt.Name,
			Total:        len(active),
		}
		for key, sel := range index {
			if key.mealTypeID != mt.ID {
				continue
			}
			if sel.Choice {
				summary.Eating++
			} else {
				summary.NotEating++
			}
		}
		out = append(out, summary)
	}
	return out, nil
}

// ────────────────────── GetDetails ──────────────────────

// GetDetails 在职用户 × 启用餐别的生效选择
// 无显式记录时 Choice 取餐别默认值，UpdatedAt 为空串
func (l *mealLedger) GetDetails(date string) ([]dto.MealDetail, error) {
	if _, err := l.parseDate(date); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	index := l.selectionIndex(date)
	types := l.enabledMealTypes()
	active := l.activeUsers()

	out := make([]dto.MealDetail, 0, len(active))
	for _, u := range active {
		detail := dto.MealDetail{
			UserID:     u.ID,
			UserName:   u.Name,
			Dept:       u.Dept,
			Selections: make([]dto.MealDetailSelection, 0, len(types)),
		}
		for _, mt := range types {
			item := dto.MealDetailSelection{
				MealTypeID:   mt.ID,
				MealTypeName: mt.Name,
				Choice:       mt.DefaultChoice,
			}
			if sel, ok := index[selectionKey{u.ID, mt.ID}]; ok {
				item.Choice = sel.Choice
				item.Explicit = true
				item.UpdatedAt = formatReportTime(sel.UpdatedAt, l.loc)
			}
			detail.Selections = append(detail.Selections, item)
		}
		out = append(out, detail)
	}
	return out, nil
}

func formatReportTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(timeLayout)
}
