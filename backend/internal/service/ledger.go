package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/johamwon/mealOrd/backend/config"
	"github.com/johamwon/mealOrd/backend/internal/dto"
	"github.com/johamwon/mealOrd/backend/internal/model"
	"github.com/johamwon/mealOrd/backend/internal/repository"
	"github.com/johamwon/mealOrd/backend/pkg/metrics"
)

// ── 报餐模块业务错误 ──

var (
	ErrNoActingUser      = errors.New("请先选择用户")
	ErrCutoffPassed      = errors.New("已过截止时间，无法修改")
	ErrMealTypeNotFound  = errors.New("餐别不存在")
	ErrUserNotFound      = errors.New("用户不存在")
	ErrNameEmpty         = errors.New("名称不能为空")
	ErrInvalidDaysOfWeek = errors.New("星期取值必须在 1-7 之间")
	ErrInvalidUserStatus = errors.New("用户状态只能是 active 或 inactive")
	ErrAdminAuthFailed   = errors.New("密码错误")
)

// MealLedger 报餐账本：用户、餐别、报餐记录的唯一权威持有者
//
// 所有读写经同一把读写锁串行化；每次变更先校验、再构造新集合、
// 写入持久化存储成功后才替换内存状态。
type MealLedger interface {
	// Load 从存储读取全部逻辑键，缺失的键回退为内置默认数据并写回
	Load(ctx context.Context) error
	Now() time.Time
	Today() string
	Location() *time.Location

	CurrentUser() *model.User
	// SetCurrentUser userID 为空时清除当前用户
	SetCurrentUser(ctx context.Context, userID string) (*model.User, error)

	IsAdmin() bool
	Login(ctx context.Context, password string) error
	Logout(ctx context.Context) error

	ListUsers() []model.User
	ListActiveUsers() []model.User
	GetUser(id string) (*model.User, error)
	AddUser(ctx context.Context, req *dto.CreateMealUserRequest) (*model.User, error)
	UpdateUser(ctx context.Context, id string, req *dto.UpdateMealUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error

	ListMealTypes() []model.MealType
	GetMealType(id string) (*model.MealType, error)
	AddMealType(ctx context.Context, req *dto.CreateMealTypeRequest) (*model.MealType, error)
	UpdateMealType(ctx context.Context, id string, req *dto.UpdateMealTypeRequest) (*model.MealType, error)
	DeleteMealType(ctx context.Context, id string) error
	IsCutoffPassed(mt *model.MealType) bool
	IsMealTypeActiveOnDate(mt *model.MealType, date time.Time) bool
	GetActiveMealTypes(date time.Time) []model.MealType

	// UpdateSelection 以当前用户身份报餐
	UpdateSelection(ctx context.Context, date, mealTypeID string, choice bool) (*model.MealSelection, error)
	// UpdateSelectionAs 以指定用户身份报餐（HTTP 层从 Token 取身份）
	UpdateSelectionAs(ctx context.Context, userID, date, mealTypeID string, choice bool) (*model.MealSelection, error)
	GetSelectionsByDate(date string) ([]model.MealSelection, error)
	GetMySelections(date string) ([]model.MealSelection, error)
	GetSelectionsFor(userID, date string) ([]model.MealSelection, error)
	GetMealDay(userID, date string) (*dto.MealDayResponse, error)
	GetSummary(date string) ([]dto.MealSummary, error)
	GetDetails(date string) ([]dto.MealDetail, error)
}

// LedgerOption MealLedger 可选配置
type LedgerOption func(*mealLedger)

// WithClock 注入时钟（测试用）
func WithClock(now func() time.Time) LedgerOption {
	return func(l *mealLedger) { l.now = now }
}

// WithMetrics 注入 Prometheus 指标
func WithMetrics(m *metrics.Metrics) LedgerOption {
	return func(l *mealLedger) { l.metrics = m }
}

type mealLedger struct {
	mu      sync.RWMutex
	repo    repository.MealRepository
	cfg     *config.MealConfig
	loc     *time.Location
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *zap.Logger

	users         []model.User
	mealTypes     []model.MealType
	selections    []model.MealSelection
	currentUserID string
	isAdmin       bool
}

// NewMealLedger 创建 MealLedger 实例，需调用 Load 后使用
func NewMealLedger(repo *repository.Repository, cfg *config.MealConfig, logger *zap.Logger, opts ...LedgerOption) MealLedger {
	loc, err := cfg.Location()
	if err != nil {
		logger.Warn("业务时区无效，回退为本地时区", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.Local
	}
	l := &mealLedger{
		repo:   repo.Meal,
		cfg:    cfg,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ────────────────────── Load ──────────────────────

func (l *mealLedger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.Now()

	users, found, err := l.repo.LoadUsers(ctx)
	if err != nil {
		return err
	}
	if !found {
		users = defaultUsers(now)
		if err := l.repo.SaveUsers(ctx, users); err != nil {
			return err
		}
		l.logger.Info("未找到用户数据，已写入默认用户", zap.Int("count", len(users)))
	}

	types, found, err := l.repo.LoadMealTypes(ctx)
	if err != nil {
		return err
	}
	if !found {
		types = defaultMealTypes(now)
		if err := l.repo.SaveMealTypes(ctx, types); err != nil {
			return err
		}
		l.logger.Info("未找到餐别数据，已写入默认餐别", zap.Int("count", len(types)))
	}
	sortMealTypes(types)

	selections, found, err := l.repo.LoadSelections(ctx)
	if err != nil {
		return err
	}
	if !found {
		selections = []model.MealSelection{}
		if err := l.repo.SaveSelections(ctx, selections); err != nil {
			return err
		}
	}

	current, found, err := l.repo.LoadCurrentUser(ctx)
	if err != nil {
		return err
	}
	if !found {
		if err := l.repo.SaveCurrentUser(ctx, nil); err != nil {
			return err
		}
	}

	isAdmin, found, err := l.repo.LoadIsAdmin(ctx)
	if err != nil {
		return err
	}
	if !found {
		if err := l.repo.SaveIsAdmin(ctx, false); err != nil {
			return err
		}
	}

	l.users = users
	l.mealTypes = types
	l.selections = selections
	l.currentUserID = ""
	if current != nil {
		l.currentUserID = current.ID
	}
	l.isAdmin = isAdmin

	l.logger.Info("报餐数据加载完成",
		zap.Int("users", len(users)),
		zap.Int("meal_types", len(types)),
		zap.Int("selections", len(selections)),
	)
	return nil
}

// ────────────────────── Clock ──────────────────────

func (l *mealLedger) Now() time.Time {
	return l.now().In(l.loc)
}

func (l *mealLedger) Today() string {
	return l.Now().Format(DateLayout)
}

func (l *mealLedger) Location() *time.Location {
	return l.loc
}

// ────────────────────── Current User ──────────────────────

// CurrentUser 按 ID 取最新用户信息，用户已被删除时返回 nil
func (l *mealLedger) CurrentUser() *model.User {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.currentUserID == "" {
		return nil
	}
	u := l.findUser(l.currentUserID)
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func (l *mealLedger) SetCurrentUser(ctx context.Context, userID string) (*model.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if userID == "" {
		if err := l.repo.SaveCurrentUser(ctx, nil); err != nil {
			l.logger.Error("清除当前用户失败", zap.Error(err))
			return nil, err
		}
		l.currentUserID = ""
		return nil, nil
	}

	u := l.findUser(userID)
	if u == nil {
		return nil, ErrUserNotFound
	}
	cp := *u
	if err := l.repo.SaveCurrentUser(ctx, &cp); err != nil {
		l.logger.Error("保存当前用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	l.currentUserID = userID
	return &cp, nil
}

// ────────────────────── Admin ──────────────────────

func (l *mealLedger) IsAdmin() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.isAdmin
}

// Login 校验管理员共享口令；配置了 bcrypt 哈希时以哈希为准
func (l *mealLedger) Login(ctx context.Context, password string) error {
	if !l.checkAdminPassword(password) {
		return ErrAdminAuthFailed
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.repo.SaveIsAdmin(ctx, true); err != nil {
		l.logger.Error("保存管理员状态失败", zap.Error(err))
		return err
	}
	l.isAdmin = true
	return nil
}

func (l *mealLedger) Logout(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.repo.SaveIsAdmin(ctx, false); err != nil {
		l.logger.Error("保存管理员状态失败", zap.Error(err))
		return err
	}
	l.isAdmin = false
	return nil
}

func (l *mealLedger) checkAdminPassword(password string) bool {
	if l.cfg.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(l.cfg.AdminPasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(l.cfg.AdminPassword), []byte(password)) == 1
}

// ── 内部辅助方法（调用方需持有锁） ──

func (l *mealLedger) findUser(id string) *model.User {
	for i := range l.users {
		if l.users[i].ID == id {
			return &l.users[i]
		}
	}
	return nil
}

func (l *mealLedger) findMealType(id string) *model.MealType {
	for i := range l.mealTypes {
		if l.mealTypes[i].ID == id {
			return &l.mealTypes[i]
		}
	}
	return nil
}

func (l *mealLedger) parseDate(date string) (time.Time, error) {
	d, err := ParseDate(date, l.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", err, date)
	}
	return d, nil
}
