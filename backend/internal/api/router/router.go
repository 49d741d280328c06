package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/johamwon/mealOrd/backend/config"
	"github.com/johamwon/mealOrd/backend/internal/api/handler"
	"github.com/johamwon/mealOrd/backend/internal/api/middleware"
	"github.com/johamwon/mealOrd/backend/internal/service"
	"github.com/johamwon/mealOrd/backend/pkg/jwt"
	"github.com/johamwon/mealOrd/backend/pkg/metrics"
	"github.com/johamwon/mealOrd/backend/pkg/redis"
)

// Deps 路由所需的外部依赖；Redis 与 Metrics 可为 nil
type Deps struct {
	JWT          *jwt.Manager
	Redis        *redis.Client
	Metrics      *metrics.Metrics
	Permissions  service.PermissionService
	AdminSession middleware.AdminSession
	Logger       *zap.Logger
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	r.Use(middleware.RateLimit(deps.Redis, cfg.Server.RateLimit, cfg.Server.RateWindow))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if cfg.Feature.MetricsEnabled && deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// Redis 不可用时不做吊销检查
	var checker middleware.TokenChecker
	if deps.Redis != nil {
		checker = deps.Redis
	}
	jwtAuth := middleware.JWTAuth(deps.JWT, checker)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/admin/login", h.Auth.AdminLogin)
			auth.POST("/identify", h.Auth.Identify)
			auth.POST("/dingtalk/mock", h.Auth.MockDingTalkLogin)
			auth.POST("/dingtalk/login", h.Auth.DingTalkLogin)
		}

		// 共享终端（无需认证）
		kiosk := v1.Group("/meal")
		{
			kiosk.GET("/users", h.MealUser.ListActiveUsers)
			kiosk.GET("/current-user", h.Selection.GetCurrentUser)
			kiosk.PUT("/current-user", h.Selection.SetCurrentUser)
			kiosk.GET("/current-user/selections", h.Selection.GetCurrentUserSelections)
			kiosk.PUT("/current-user/selections", h.Selection.UpdateCurrentUserSelection)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(jwtAuth)
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.GET("/auth/admin/status", h.Auth.AdminStatus)

			// 员工报餐
			meal := authorized.Group("/meal")
			{
				meal.GET("/day", h.Selection.GetDay)
				meal.GET("/today", h.Selection.GetToday)
				meal.GET("/tomorrow", h.Selection.GetTomorrow)
				meal.GET("/selections/my", h.Selection.GetMySelections)
				meal.PUT("/selections", h.Selection.UpdateSelection)
				meal.GET("/calendar.ics", h.Selection.ExportCalendar)
			}

			// 管理端：钉钉角色只作用于 /dashboard，这里要求管理员口令登录
			admin := authorized.Group("/admin")
			admin.Use(middleware.RoleAuth(service.RoleAdmin), middleware.MealAdminAuth(deps.AdminSession))
			{
				admin.GET("/users", h.MealUser.ListUsers)
				admin.GET("/users/:id", h.MealUser.GetUser)
				admin.POST("/users", h.MealUser.CreateUser)
				admin.PUT("/users/:id", h.MealUser.UpdateUser)
				admin.DELETE("/users/:id", h.MealUser.DeleteUser)

				admin.GET("/meal-types", h.MealType.ListMealTypes)
				admin.GET("/meal-types/:id", h.MealType.GetMealType)
				admin.POST("/meal-types", h.MealType.CreateMealType)
				admin.PUT("/meal-types/:id", h.MealType.UpdateMealType)
				admin.DELETE("/meal-types/:id", h.MealType.DeleteMealType)

				admin.GET("/selections", h.Report.GetSelections)
				admin.GET("/summary", h.Report.GetSummary)
				admin.GET("/details", h.Report.GetDetails)

				admin.GET("/export/csv", h.Export.ExportCSV)
				admin.GET("/export/xlsx", h.Export.ExportXLSX)
				admin.GET("/export/meta", h.Export.Meta)
			}

			// 仪表盘
			dashboard := authorized.Group("/dashboard")
			dashboard.Use(middleware.RequirePermission(deps.Permissions, "dashboard", "basic_stats"))
			{
				dashboard.GET("/permissions", h.Dashboard.GetPermissions)
				dashboard.GET("/modules/:module/:action", h.Dashboard.CheckPermission)
			}
		}
	}

	return r
}
