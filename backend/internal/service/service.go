package service

import (
	"go.uber.org/zap"

	"github.com/johamwon/mealOrd/backend/config"
	"github.com/johamwon/mealOrd/backend/internal/repository"
	"github.com/johamwon/mealOrd/backend/pkg/jwt"
	"github.com/johamwon/mealOrd/backend/pkg/metrics"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Ledger     MealLedger
	Auth       AuthService
	Identity   IdentityService
	Permission PermissionService
	Export     ExportService
}

// NewService 创建 Service 聚合；返回前不加载数据，由调用方执行 Ledger.Load
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	ledger := NewMealLedger(repo, &cfg.Meal, logger, WithMetrics(m))
	identity := NewIdentityService(logger)
	return &Service{
		Ledger:     ledger,
		Auth:       NewAuthService(ledger, identity, jwtMgr, blacklist, m, logger),
		Identity:   identity,
		Permission: NewPermissionService(cfg.Permissions, logger),
		Export:     NewExportService(ledger, &cfg.Meal, logger),
	}
}
