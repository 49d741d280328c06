package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johamwon/mealOrd/backend/internal/dto"
	"github.com/johamwon/mealOrd/backend/internal/model"
)

// ────────────────────── List / Get ──────────────────────

// ListMealTypes 全部餐别（含停用），按 SortOrder 升序
func (l *mealLedger) ListMealTypes() []model.MealType {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneMealTypes(l.mealTypes)
}

func (l *mealLedger) GetMealType(id string) (*model.MealType, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	mt := l.findMealType(id)
	if mt == nil {
		return nil, ErrMealTypeNotFound
	}
	cp := cloneMealType(*mt)
	return &cp, nil
}

// ────────────────────── Create ──────────────────────

func (l *mealLedger) AddMealType(ctx context.Context, req *dto.CreateMealTypeRequest) (*model.MealType, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameEmpty
	}
	cutoff, err := NormalizeCutoff(req.CutoffTime)
	if err != nil {
		return nil, err
	}
	days, err := model.Weekdays(req.DaysOfWeek).Normalize()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDaysOfWeek, err)
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.Now()
	mt := model.MealType{
		ID:            uuid.NewString(),
		Name:          name,
		Enabled:       enabled,
		CutoffTime:    cutoff,
		DefaultChoice: req.DefaultChoice,
		DaysOfWeek:    days,
		SortOrder:     req.SortOrder,
		Timestamps:    model.Timestamps{CreatedAt: now, UpdatedAt: now},
	}

	next := make([]model.MealType, 0, len(l.mealTypes)+1)
	next = append(next, l.mealTypes...)
	next = append(next, mt)
	sortMealTypes(next)
	if err := l.repo.SaveMealTypes(ctx, next); err != nil {
		l.logger.Error("保存餐别失败", zap.Error(err))
		return nil, err
	}
	l.mealTypes = next

	l.logger.Info("餐别添加成功", zap.String("meal_type_id", mt.ID), zap.String("name", mt.Name))
	out := cloneMealType(mt)
	return &out, nil
}

// ────────────────────── Update ──────────────────────

func (l *mealLedger) UpdateMealType(ctx context.Context, id string, req *dto.UpdateMealTypeRequest) (*model.MealType, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i := range l.mealTypes {
		if l.mealTypes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrMealTypeNotFound
	}

	updated := cloneMealType(l.mealTypes[idx])
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameEmpty
		}
		updated.Name = name
	}
	if req.Enabled != nil {
		updated.Enabled = *req.Enabled
	}
	if req.CutoffTime != nil {
		cutoff, err := NormalizeCutoff(*req.CutoffTime)
		if err != nil {
			return nil, err
		}
		updated.CutoffTime = cutoff
	}
	if req.DefaultChoice != nil {
		updated.DefaultChoice = *req.DefaultChoice
	}
	if req.DaysOfWeek != nil {
		days, err := model.Weekdays(*req.DaysOfWeek).Normalize()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDaysOfWeek, err)
		}
		updated.DaysOfWeek = days
	}
	if req.SortOrder != nil {
		updated.SortOrder = *req.SortOrder
	}
	updated.UpdatedAt = l.Now()

	next := make([]model.MealType, len(l.mealTypes))
	copy(next, l.mealTypes)
	next[idx] = updated
	sortMealTypes(next)
	if err := l.repo.SaveMealTypes(ctx, next); err != nil {
		l.logger.Error("保存餐别失败", zap.String("meal_type_id", id), zap.Error(err))
		return nil, err
	}
	l.mealTypes = next

	out := cloneMealType(updated)
	return &out, nil
}

// ────────────────────── Delete ──────────────────────

// DeleteMealType 仅删除餐别本身，历史报餐记录保留
func (l *mealLedger) DeleteMealType(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.findMealType(id) == nil {
		return ErrMealTypeNotFound
	}

	next := make([]model.MealType, 0, len(l.mealTypes))
	for _, mt := range l.mealTypes {
		if mt.ID != id {
			next = append(next, mt)
		}
	}
	if err := l.repo.SaveMealTypes(ctx, next); err != nil {
		l.logger.Error("保存餐别失败", zap.String("meal_type_id", id), zap.Error(err))
		return err
	}
	l.mealTypes = next

	l.logger.Info("餐别删除成功", zap.String("meal_type_id", id))
	return nil
}

// ────────────────────── Predicates ──────────────────────

// IsCutoffPassed 以账本时钟判断餐别今日是否已截止
func (l *mealLedger) IsCutoffPassed(mt *model.MealType) bool {
	return IsCutoffPassed(mt, l.Now())
}

func (l *mealLedger) IsMealTypeActiveOnDate(mt *model.MealType, date time.Time) bool {
	return IsMealTypeActiveOnDate(mt, date.In(l.loc))
}

// GetActiveMealTypes date 当天生效的餐别，按 SortOrder 升序
func (l *mealLedger) GetActiveMealTypes(date time.Time) []model.MealType {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.activeMealTypes(date.In(l.loc))
}

// ── 内部辅助方法 ──

func (l *mealLedger) activeMealTypes(date time.Time) []model.MealType {
	out := make([]model.MealType, 0, len(l.mealTypes))
	for i := range l.mealTypes {
		if IsMealTypeActiveOnDate(&l.mealTypes[i], date) {
			out = append(out, cloneMealType(l.mealTypes[i]))
		}
	}
	return out
}

func (l *mealLedger) enabledMealTypes() []model.MealType {
	out := make([]model.MealType, 0, len(l.mealTypes))
	for i := range l.mealTypes {
		if l.mealTypes[i].Enabled {
			out = append(out, cloneMealType(l.mealTypes[i]))
		}
	}
	return out
}

// sortMealTypes 按 SortOrder 稳定排序，相同值保持插入顺序
func sortMealTypes(types []model.MealType) {
	sort.SliceStable(types, func(i, j int) bool {
		return types[i].SortOrder < types[j].SortOrder
	})
}

func cloneMealType(mt model.MealType) model.MealType {
	if mt.DaysOfWeek != nil {
		mt.DaysOfWeek = append(make(model.Weekdays, 0, len(mt.DaysOfWeek)), mt.DaysOfWeek...)
	}
	return mt
}

func cloneMealTypes(types []model.MealType) []model.MealType {
	out := make([]model.MealType, 0, len(types))
	for _, mt := range types {
		out = append(out, cloneMealType(mt))
	}
	return out
}
