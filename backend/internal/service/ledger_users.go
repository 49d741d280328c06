package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johamwon/mealOrd/backend/internal/dto"
	"github.com/johamwon/mealOrd/backend/internal/model"
)

// ────────────────────── List / Get ──────────────────────

func (l *mealLedger) ListUsers() []model.User {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.User, len(l.users))
	copy(out, l.users)
	return out
}

// ListActiveUsers 在职用户（身份选择、统计分母）
func (l *mealLedger) ListActiveUsers() []model.User {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.activeUsers()
}

func (l *mealLedger) GetUser(id string) (*model.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	u := l.findUser(id)
	if u == nil {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// ────────────────────── Create ──────────────────────

func (l *mealLedger) AddUser(ctx context.Context, req *dto.CreateMealUserRequest) (*model.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameEmpty
	}
	status := req.Status
	if status == "" {
		status = model.UserStatusActive
	}
	if !validUserStatus(status) {
		return nil, ErrInvalidUserStatus
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.Now()
	user := model.User{
		ID:         uuid.NewString(),
		Name:       name,
		Dept:       strings.TrimSpace(req.Dept),
		Status:     status,
		Timestamps: model.Timestamps{CreatedAt: now, UpdatedAt: now},
	}

	next := make([]model.User, 0, len(l.users)+1)
	next = append(next, l.users...)
	next = append(next, user)
	if err := l.repo.SaveUsers(ctx, next); err != nil {
		l.logger.Error("保存用户失败", zap.Error(err))
		return nil, err
	}
	l.users = next

	l.logger.Info("用户添加成功", zap.String("user_id", user.ID), zap.String("name", user.Name))
	return &user, nil
}

// ────────────────────── Update ──────────────────────

func (l *mealLedger) UpdateUser(ctx context.Context, id string, req *dto.UpdateMealUserRequest) (*model.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i := range l.users {
		if l.users[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrUserNotFound
	}

	updated := l.users[idx]
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameEmpty
		}
		updated.Name = name
	}
	if req.Dept != nil {
		updated.Dept = strings.TrimSpace(*req.Dept)
	}
	if req.Status != nil {
		if !validUserStatus(*req.Status) {
			return nil, ErrInvalidUserStatus
		}
		updated.Status = *req.Status
	}
	updated.UpdatedAt = l.Now()

	next := make([]model.User, len(l.users))
	copy(next, l.users)
	next[idx] = updated
	if err := l.repo.SaveUsers(ctx, next); err != nil {
		l.logger.Error("保存用户失败", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	l.users = next

	return &updated, nil
}

// ────────────────────── Delete ──────────────────────

// DeleteUser 仅删除用户本身，历史报餐记录保留
func (l *mealLedger) DeleteUser(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.findUser(id) == nil {
		return ErrUserNotFound
	}

	next := make([]model.User, 0, len(l.users))
	for _, u := range l.users {
		if u.ID != id {
			next = append(next, u)
		}
	}
	if err := l.repo.SaveUsers(ctx, next); err != nil {
		l.logger.Error("保存用户失败", zap.String("user_id", id), zap.Error(err))
		return err
	}
	l.users = next

	l.logger.Info("用户删除成功", zap.String("user_id", id))
	return nil
}

// ── 内部辅助方法 ──

func (l *mealLedger) activeUsers() []model.User {
	out := make([]model.User, 0, len(l.users))
	for _, u := range l.users {
		if u.IsActive() {
			out = append(out, u)
		}
	}
	return out
}

func validUserStatus(s string) bool {
	return s == model.UserStatusActive || s == model.UserStatusInactive
}
