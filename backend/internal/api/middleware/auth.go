package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/johamwon/mealOrd/backend/pkg/jwt"
	"github.com/johamwon/mealOrd/backend/pkg/response"
)

// 注入 gin.Context 的身份键
const (
	CtxUserID     = "user_id"
	CtxName       = "name"
	CtxRole       = "role"
	CtxDepartment = "department"
	CtxClaims     = "claims"
)

// TokenChecker 查询 Token 是否已被吊销
type TokenChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// PermissionChecker 模块/操作权限判定
type PermissionChecker interface {
	Check(role, module, action string) bool
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token
// blacklist 为 nil 或查询出错时跳过吊销检查（降级放行）
func JWTAuth(jwtMgr *jwt.Manager, blacklist TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "Token 类型无效")
			c.Abort()
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Unauthorized(c, 10002, "Token 已注销")
				c.Abort()
				return
			}
		}

		// 将身份信息注入上下文
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxName, claims.Name)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxDepartment, claims.Department)
		c.Set(CtxClaims, claims)

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(CtxRole)
		if userRole == "" {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "无权限访问")
		c.Abort()
	}
}

// RequirePermission 按权限表检查 module.action
func RequirePermission(checker PermissionChecker, module, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(CtxRole)
		if userRole == "" {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		if !checker.Check(userRole, module, action) {
			response.Forbidden(c, 10003, "无权限访问")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminSession 报餐管理状态（管理员口令登录后置位，退出管理后清除）
type AdminSession interface {
	IsAdmin() bool
}

// MealAdminAuth 报餐管理端鉴权
// 仅放行管理员口令登录签发的 Token，且当前仍处于管理状态
func MealAdminAuth(session AdminSession) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(CtxClaims)
		claims, ok := v.(*jwt.Claims)
		if !exists || !ok || claims == nil {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		if !claims.MealAdmin || !session.IsAdmin() {
			response.Forbidden(c, 10003, "请先使用管理员口令登录")
			c.Abort()
			return
		}

		c.Next()
	}
}
