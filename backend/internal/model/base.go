package model

import (
	"fmt"
	"sort"
	"time"
)

// Weekdays ISO 星期集合，1=周一 … 7=周日
// 允许为空：空集合表示该餐别每天都不生效
type Weekdays []int

// Normalize 校验取值范围，去重并升序排列
func (w Weekdays) Normalize() (Weekdays, error) {
	seen := make(map[int]bool, len(w))
	out := make(Weekdays, 0, len(w))
	for _, d := range w {
		if d < 1 || d > 7 {
			return nil, fmt.Errorf("星期取值 %d 超出 1-7", d)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out, nil
}

// Contains 是否包含指定 ISO 星期
func (w Weekdays) Contains(day int) bool {
	for _, d := range w {
		if d == day {
			return true
		}
	}
	return false
}

// ISOWeekday 将 time.Weekday（周日=0）转换为 ISO 星期（周日=7）
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// Timestamps 创建/更新时间（所有持久化实体嵌入）
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
