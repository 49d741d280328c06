package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/johamwon/mealOrd/backend/internal/dto"
	"github.com/johamwon/mealOrd/backend/internal/service"
	"github.com/johamwon/mealOrd/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
	ledger  service.MealLedger
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService, ledger service.MealLedger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, ledger: ledger}
}

// AdminLogin 管理员口令登录
// POST /api/v1/auth/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.AdminLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.AdminLogin(c.Request.Context(), &req)
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.OKWithMessage(c, "登录成功", result)
}

// Identify 员工选择报餐身份
// POST /api/v1/auth/identify
func (h *AuthHandler) Identify(c *gin.Context) {
	var req dto.IdentifyRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Identify(c.Request.Context(), &req)
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	response.OK(c, result)
}

// MockDingTalkLogin 模拟钉钉登录（role 缺省为 employee）
// POST /api/v1/auth/dingtalk/mock
func (h *AuthHandler) MockDingTalkLogin(c *gin.Context) {
	var req dto.MockDingTalkLoginRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.MockDingTalkLogin(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// DingTalkLogin 钉钉免登
// POST /api/v1/auth/dingtalk/login
func (h *AuthHandler) DingTalkLogin(c *gin.Context) {
	var req dto.DingTalkLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.DingTalkLogin(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Logout 退出登录：吊销当前 Token，管理员同时退出管理状态
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}

	if claims.MealAdmin {
		response.OKWithMessage(c, "已退出管理", nil)
		return
	}
	response.OK(c, nil)
}

// Me 获取当前身份
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	response.OK(c, h.authSvc.Me(claims))
}

// AdminStatus 管理员登录状态
// GET /api/v1/auth/admin/status
func (h *AuthHandler) AdminStatus(c *gin.Context) {
	response.OK(c, dto.AdminStatusResponse{IsAdmin: h.ledger.IsAdmin()})
}
