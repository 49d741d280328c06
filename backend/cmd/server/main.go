package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/johamwon/mealOrd/backend/config"
	"github.com/johamwon/mealOrd/backend/internal/api/handler"
	"github.com/johamwon/mealOrd/backend/internal/api/router"
	"github.com/johamwon/mealOrd/backend/internal/model"
	"github.com/johamwon/mealOrd/backend/internal/repository"
	"github.com/johamwon/mealOrd/backend/internal/service"
	"github.com/johamwon/mealOrd/backend/pkg/database"
	"github.com/johamwon/mealOrd/backend/pkg/jwt"
	applogger "github.com/johamwon/mealOrd/backend/pkg/logger"
	"github.com/johamwon/mealOrd/backend/pkg/metrics"
	"github.com/johamwon/mealOrd/backend/pkg/redis"
)

func main() {
	// 0. 读取 .env（可选，不存在时忽略）
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("timezone", cfg.Meal.Timezone),
	)

	// 3. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与限流功能将不可用", zap.Error(err))
		rdb = nil
	}

	// 4. 初始化报餐数据存储
	store, sqlDB, err := openStore(cfg, rdb, logger)
	if err != nil {
		logger.Fatal("初始化存储失败", zap.Error(err))
	}

	// 5. 初始化 JWT 管理器与指标
	jwtMgr := jwt.NewManager(&cfg.Auth)
	var m *metrics.Metrics
	if cfg.Feature.MetricsEnabled {
		m = metrics.New()
	}

	// 6. 依赖注入: Repository → Service → Handler
	var blacklist service.TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}
	repo := repository.NewRepository(store)
	svc := service.NewService(cfg, repo, jwtMgr, blacklist, m, logger)

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = svc.Ledger.Load(loadCtx)
	loadCancel()
	if err != nil {
		logger.Fatal("加载报餐数据失败", zap.Error(err))
	}

	h := handler.NewHandler(svc)

	// 7. 截止播报定时任务
	var reporter *service.CutoffReporter
	if cfg.Feature.CutoffReportEnabled {
		reporter = service.NewCutoffReporter(svc.Ledger, logger)
		if err := reporter.Start(); err != nil {
			logger.Fatal("启动截止播报任务失败", zap.Error(err))
		}
	}

	// 8. 初始化路由
	engine := router.Setup(cfg, h, router.Deps{
		JWT:          jwtMgr,
		Redis:        rdb,
		Metrics:      m,
		Permissions:  svc.Permission,
		AdminSession: svc.Ledger,
		Logger:       logger,
	})

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if reporter != nil {
		select {
		case <-reporter.Stop().Done():
		case <-ctx.Done():
			logger.Warn("截止播报任务未能按时结束")
		}
	}

	// 关闭数据库连接
	if sqlDB != nil {
		sqlDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// openStore 按 store.driver 创建逻辑键存储；返回的 *sql.DB 仅数据库驱动非空
func openStore(cfg *config.Config, rdb *redis.Client, logger *zap.Logger) (repository.Store, *sql.DB, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			return nil, nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
		return repository.NewGormStore(db), sqlDB, nil

	case config.StoreDriverSQLite:
		db, err := database.NewSQLite(cfg.Store.SQLitePath, cfg.Log.Level, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.AutoMigrate(&model.KVEntry{}); err != nil {
			return nil, nil, fmt.Errorf("SQLite 建表失败: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
		}
		return repository.NewGormStore(db), sqlDB, nil

	case config.StoreDriverRedis:
		if rdb == nil {
			return nil, nil, fmt.Errorf("store.driver=redis 但 Redis 不可用")
		}
		return repository.NewRedisStore(rdb, cfg.Store.KeyPrefix), nil, nil

	default:
		logger.Warn("使用内存存储，进程重启后数据丢失")
		return repository.NewMemoryStore(), nil, nil
	}
}
