package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/johamwon/mealOrd/backend/internal/model"
	pkgerrors "github.com/johamwon/mealOrd/backend/pkg/errors"
)

// 持久化逻辑键
const (
	KeyCurrentUser = "current_user"
	KeyUsers       = "users"
	KeyMealTypes   = "meal_types"
	KeySelections  = "meal_selections"
	KeyIsAdmin     = "is_admin"
)

// MealRepository 报餐数据访问接口
// Load* 的 found=false 表示该键从未写入，调用方应回退到内置默认数据
type MealRepository interface {
	LoadUsers(ctx context.Context) ([]model.User, bool, error)
	SaveUsers(ctx context.Context, users []model.User) error
	LoadMealTypes(ctx context.Context) ([]model.MealType, bool, error)
	SaveMealTypes(ctx context.Context, types []model.MealType) error
	LoadSelections(ctx context.Context) ([]model.MealSelection, bool, error)
	SaveSelections(ctx context.Context, selections []model.MealSelection) error
	LoadCurrentUser(ctx context.Context) (*model.User, bool, error)
	SaveCurrentUser(ctx context.Context, user *model.User) error
	LoadIsAdmin(ctx context.Context) (bool, bool, error)
	SaveIsAdmin(ctx context.Context, isAdmin bool) error
}

// mealRepo 以 JSON 编码写入 Store 的 MealRepository 实现
type mealRepo struct {
	store Store
}

// NewMealRepo 创建 MealRepository 实例
func NewMealRepo(store Store) MealRepository {
	return &mealRepo{store: store}
}

func (r *mealRepo) LoadUsers(ctx context.Context) ([]model.User, bool, error) {
	var users []model.User
	found, err := r.loadJSON(ctx, KeyUsers, &users)
	return users, found, err
}

func (r *mealRepo) SaveUsers(ctx context.Context, users []model.User) error {
	return r.saveJSON(ctx, KeyUsers, nonNil(users))
}

func (r *mealRepo) LoadMealTypes(ctx context.Context) ([]model.MealType, bool, error) {
	var types []model.MealType
	found, err := r.loadJSON(ctx, KeyMealTypes, &types)
	return types, found, err
}

func (r *mealRepo) SaveMealTypes(ctx context.Context, types []model.MealType) error {
	return r.saveJSON(ctx, KeyMealTypes, nonNil(types))
}

func (r *mealRepo) LoadSelections(ctx context.Context) ([]model.MealSelection, bool, error) {
	var selections []model.MealSelection
	found, err := r.loadJSON(ctx, KeySelections, &selections)
	return selections, found, err
}

func (r *mealRepo) SaveSelections(ctx context.Context, selections []model.MealSelection) error {
	return r.saveJSON(ctx, KeySelections, nonNil(selections))
}

// LoadCurrentUser 存储值为 null 时返回 (nil, true, nil)
func (r *mealRepo) LoadCurrentUser(ctx context.Context) (*model.User, bool, error) {
	var user *model.User
	found, err := r.loadJSON(ctx, KeyCurrentUser, &user)
	return user, found, err
}

func (r *mealRepo) SaveCurrentUser(ctx context.Context, user *model.User) error {
	return r.saveJSON(ctx, KeyCurrentUser, user)
}

// LoadIsAdmin is_admin 以 "true"/"false" 字符串存储
func (r *mealRepo) LoadIsAdmin(ctx context.Context) (bool, bool, error) {
	raw, err := r.store.Get(ctx, KeyIsAdmin)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrKeyNotFound) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("读取 %s 失败: %w", KeyIsAdmin, err)
	}
	v, err := strconv.ParseBool(string(raw))
	if err != nil {
		return false, true, fmt.Errorf("解析 %s 失败: %w", KeyIsAdmin, err)
	}
	return v, true, nil
}

func (r *mealRepo) SaveIsAdmin(ctx context.Context, isAdmin bool) error {
	if err := r.store.Set(ctx, KeyIsAdmin, []byte(strconv.FormatBool(isAdmin))); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", KeyIsAdmin, err)
	}
	return nil
}

// ── 内部辅助方法 ──

func (r *mealRepo) loadJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("读取 %s 失败: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("解析 %s 失败: %w", key, err)
	}
	return true, nil
}

func (r *mealRepo) saveJSON(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("序列化 %s 失败: %w", key, err)
	}
	if err := r.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", key, err)
	}
	return nil
}

// nonNil 空集合序列化为 [] 而非 null
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
