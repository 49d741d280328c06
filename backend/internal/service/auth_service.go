package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/johamwon/mealOrd/backend/internal/dto"
	"github.com/johamwon/mealOrd/backend/pkg/jwt"
	"github.com/johamwon/mealOrd/backend/pkg/metrics"
)

var ErrUserInactive = errors.New("用户已停用")

// adminSubject 管理员口令登录签发的 Token 主体
const adminSubject = "admin"

// TokenBlacklist Token 黑名单（Redis 实现见 pkg/redis）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService 认证业务接口
type AuthService interface {
	// AdminLogin 管理员共享口令登录
	AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.TokenResponse, error)
	// Identify 员工选择自己的报餐身份
	Identify(ctx context.Context, req *dto.IdentifyRequest) (*dto.TokenResponse, error)
	// MockDingTalkLogin 开发环境模拟钉钉登录
	MockDingTalkLogin(ctx context.Context, req *dto.MockDingTalkLoginRequest) (*dto.TokenResponse, error)
	// DingTalkLogin 携带身份源用户信息登录，角色由职务/职级推导
	DingTalkLogin(ctx context.Context, req *dto.DingTalkLoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(claims *jwt.Claims) dto.IdentityResponse
}

type authService struct {
	ledger    MealLedger
	identity  IdentityService
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例；blacklist 为 nil 时退出登录不吊销 Token
func NewAuthService(
	ledger MealLedger,
	identity IdentityService,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	m *metrics.Metrics,
	logger *zap.Logger,
) AuthService {
	return &authService{
		ledger:    ledger,
		identity:  identity,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		metrics:   m,
		logger:    logger,
	}
}

// ────────────────────── AdminLogin ──────────────────────

func (s *authService) AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.TokenResponse, error) {
	if err := s.ledger.Login(ctx, req.Password); err != nil {
		s.metrics.ObserveAdminLogin(false)
		if errors.Is(err, ErrAdminAuthFailed) {
			s.logger.Warn("管理员口令错误")
		}
		return nil, err
	}
	s.metrics.ObserveAdminLogin(true)

	return s.issueWith(dto.IdentityResponse{
		UserID:    adminSubject,
		Name:      RoleLabel(RoleAdmin),
		Role:      RoleAdmin,
		RoleLabel: RoleLabel(RoleAdmin),
	}, true)
}

// ────────────────────── Identify ──────────────────────

func (s *authService) Identify(ctx context.Context, req *dto.IdentifyRequest) (*dto.TokenResponse, error) {
	user, err := s.ledger.GetUser(req.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, ErrUserInactive
	}

	return s.issue(dto.IdentityResponse{
		UserID:     user.ID,
		Name:       user.Name,
		Role:       RoleEmployee,
		RoleLabel:  RoleLabel(RoleEmployee),
		Department: user.Dept,
	})
}

// ────────────────────── DingTalk ──────────────────────

func (s *authService) MockDingTalkLogin(_ context.Context, req *dto.MockDingTalkLoginRequest) (*dto.TokenResponse, error) {
	return s.issue(s.identity.Convert(s.identity.MockUser(req.Role)))
}

func (s *authService) DingTalkLogin(_ context.Context, req *dto.DingTalkLoginRequest) (*dto.TokenResponse, error) {
	return s.issue(s.identity.Convert(DingTalkUser{
		UserID:     req.UserID,
		Name:       req.Name,
		Company:    req.Company,
		Department: req.Department,
		Position:   req.Position,
		JobLevel:   req.JobLevel,
	}))
}

// ────────────────────── Logout ──────────────────────

// Logout 吊销当前 Token；口令登录的管理员同时清除 is_admin 标记
func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.blacklist != nil && claims.ID != "" {
		if err := s.blacklist.BlacklistToken(ctx, claims.ID, s.jwtMgr.RemainingTTL(claims)); err != nil {
			s.logger.Error("Token 加入黑名单失败", zap.String("jti", claims.ID), zap.Error(err))
			return err
		}
	}

	if claims.MealAdmin {
		if err := s.ledger.Logout(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *authService) Me(claims *jwt.Claims) dto.IdentityResponse {
	return dto.IdentityResponse{
		UserID:     claims.UserID,
		Name:       claims.Name,
		Role:       claims.Role,
		RoleLabel:  RoleLabel(claims.Role),
		Department: claims.Department,
	}
}

// ── 内部辅助方法 ──

func (s *authService) issue(id dto.IdentityResponse) (*dto.TokenResponse, error) {
	return s.issueWith(id, false)
}

// issueWith mealAdmin 仅由 AdminLogin 置位，钉钉身份即使解析为 admin 也不获得报餐管理权
func (s *authService) issueWith(id dto.IdentityResponse, mealAdmin bool) (*dto.TokenResponse, error) {
	token, err := s.jwtMgr.GenerateAccessToken(jwt.Identity{
		UserID:     id.UserID,
		Name:       id.Name,
		Role:       id.Role,
		Department: id.Department,
		MealAdmin:  mealAdmin,
	})
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		Identity:    id,
	}, nil
}
