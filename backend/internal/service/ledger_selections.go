package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johamwon/mealOrd/backend/internal/dto"
	"github.com/johamwon/mealOrd/backend/internal/model"
	"github.com/johamwon/mealOrd/backend/pkg/metrics"
)

// ────────────────────── UpdateSelection ──────────────────────

func (l *mealLedger) UpdateSelection(ctx context.Context, date, mealTypeID string, choice bool) (*model.MealSelection, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentUserID == "" {
		l.metrics.ObserveSelectionWrite(metrics.ResultNoUser)
		return nil, ErrNoActingUser
	}
	return l.upsertSelection(ctx, l.currentUserID, date, mealTypeID, choice)
}

func (l *mealLedger) UpdateSelectionAs(ctx context.Context, userID, date, mealTypeID string, choice bool) (*model.MealSelection, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if userID == "" {
		l.metrics.ObserveSelectionWrite(metrics.ResultNoUser)
		return nil, ErrNoActingUser
	}
	return l.upsertSelection(ctx, userID, date, mealTypeID, choice)
}

// upsertSelection 调用方需持有写锁
//
// 校验顺序：用户 → 日期 → 餐别 → 截止时间；
// 截止规则只对"今天"生效，其他日期不受限制。
func (l *mealLedger) upsertSelection(ctx context.Context, userID, date, mealTypeID string, choice bool) (*model.MealSelection, error) {
	if l.findUser(userID) == nil {
		l.metrics.ObserveSelectionWrite(metrics.ResultNotFound)
		return nil, ErrUserNotFound
	}
	if _, err := l.parseDate(date); err != nil {
		l.metrics.ObserveSelectionWrite(metrics.ResultInvalid)
		return nil, err
	}
	mt := l.findMealType(mealTypeID)
	if mt == nil {
		l.metrics.ObserveSelectionWrite(metrics.ResultNotFound)
		return nil, ErrMealTypeNotFound
	}

	now := l.Now()
	if date == now.Format(DateLayout) && IsCutoffPassed(mt, now) {
		l.metrics.ObserveSelectionWrite(metrics.ResultCutoff)
		return nil, ErrCutoffPassed
	}

	next := make([]model.MealSelection, len(l.selections), len(l.selections)+1)
	copy(next, l.selections)

	var saved model.MealSelection
	idx := -1
	for i := range next {
		if next[i].Matches(date, userID, mealTypeID) {
			idx = i
			break
		}
	}
	if idx >= 0 {
		next[idx].Choice = choice
		next[idx].UpdatedAt = now
		saved = next[idx]
	} else {
		saved = model.MealSelection{
			ID:         uuid.NewString(),
			Date:       date,
			UserID:     userID,
			MealTypeID: mealTypeID,
			Choice:     choice,
			UpdatedAt:  now,
		}
		next = append(next, saved)
	}

	if err := l.repo.SaveSelections(ctx, next); err != nil {
		l.metrics.ObserveSelectionWrite(metrics.ResultStoreFailed)
		l.logger.Error("保存报餐记录失败",
			zap.String("user_id", userID),
			zap.String("date", date),
			zap.String("meal_type_id", mealTypeID),
			zap.Error(err),
		)
		return nil, err
	}
	l.selections = next
	l.metrics.ObserveSelectionWrite(metrics.ResultOK)

	l.logger.Debug("报餐已更新",
		zap.String("user_id", userID),
		zap.String("date", date),
		zap.String("meal_type", mt.Name),
		zap.Bool("choice", choice),
	)
	return &saved, nil
}

// ────────────────────── Queries ──────────────────────

// GetSelectionsByDate 某日全部报餐记录，不区分用户
func (l *mealLedger) GetSelectionsByDate(date string) ([]model.MealSelection, error) {
	if _, err := l.parseDate(date); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.selectionsWhere(func(s *model.MealSelection) bool { return s.Date == date }), nil
}

// GetMySelections 当前用户某日报餐记录；未选择用户时返回空
func (l *mealLedger) GetMySelections(date string) ([]model.MealSelection, error) {
	if _, err := l.parseDate(date); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.currentUserID == "" {
		return []model.MealSelection{}, nil
	}
	userID := l.currentUserID
	return l.selectionsWhere(func(s *model.MealSelection) bool {
		return s.Date == date && s.UserID == userID
	}), nil
}

func (l *mealLedger) GetSelectionsFor(userID, date string) ([]model.MealSelection, error) {
	if _, err := l.parseDate(date); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.selectionsWhere(func(s *model.MealSelection) bool {
		return s.Date == date && s.UserID == userID
	}), nil
}

// GetMealDay 员工某日的报餐卡片：当天生效的餐别 + 生效选择 + 是否可改
func (l *mealLedger) GetMealDay(userID, date string) (*dto.MealDayResponse, error) {
	day, err := l.parseDate(date)
	if err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.findUser(userID) == nil {
		return nil, ErrUserNotFound
	}

	now := l.Now()
	isToday := date == now.Format(DateLayout)
	index := l.selectionIndex(date)

	types := l.activeMealTypes(day)
	cards := make([]dto.MealCard, 0, len(types))
	for i := range types {
		mt := &types[i]
		card := dto.MealCard{
			MealType: dto.NewMealTypeResponse(mt),
			Choice:   mt.DefaultChoice,
		}
		if sel, ok := index[selectionKey{userID, mt.ID}]; ok {
			card.Choice = sel.Choice
			card.Explicit = true
			card.UpdatedAt = sel.UpdatedAt.In(l.loc).Format(time.RFC3339)
		}
		card.CutoffPassed = isToday && IsCutoffPassed(mt, now)
		card.Editable = !card.CutoffPassed
		cards = append(cards, card)
	}

	return &dto.MealDayResponse{
		Date:    date,
		Weekday: model.ISOWeekday(day),
		IsToday: isToday,
		Cards:   cards,
	}, nil
}

// ── 内部辅助方法（调用方需持有读锁） ──

type selectionKey struct {
	userID     string
	mealTypeID string
}

func (l *mealLedger) selectionsWhere(match func(*model.MealSelection) bool) []model.MealSelection {
	out := make([]model.MealSelection, 0)
	for i := range l.selections {
		if match(&l.selections[i]) {
			out = append(out, l.selections[i])
		}
	}
	return out
}

// selectionIndex 某日记录按 (用户, 餐别) 建索引
func (l *mealLedger) selectionIndex(date string) map[selectionKey]model.MealSelection {
	index := make(map[selectionKey]model.MealSelection)
	for _, s := range l.selections {
		if s.Date == date {
			index[selectionKey{s.UserID, s.MealTypeID}] = s
		}
	}
	return index
}
