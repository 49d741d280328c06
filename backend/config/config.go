package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server      ServerConfig                   `mapstructure:"server"`
	Database    DatabaseConfig                 `mapstructure:"db"`
	Store       StoreConfig                    `mapstructure:"store"`
	Redis       RedisConfig                    `mapstructure:"redis"`
	Auth        AuthConfig                     `mapstructure:"auth"`
	Meal        MealConfig                     `mapstructure:"meal"`
	Log         LogConfig                      `mapstructure:"log"`
	Feature     FeatureConfig                  `mapstructure:"feature"`
	Permissions map[string]map[string][]string `mapstructure:"permissions"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port       int           `mapstructure:"port"`
	CORS       CORSConfig    `mapstructure:"cors"`
	BodyLimit  int64         `mapstructure:"body_limit"` // 请求体上限（字节）
	RateLimit  int           `mapstructure:"rate_limit"` // 每窗口最大请求数
	RateWindow time.Duration `mapstructure:"rate_window"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// 持久化后端
const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverRedis    = "redis"
	StoreDriverMemory   = "memory"
)

// StoreConfig 报餐数据持久化配置
type StoreConfig struct {
	Driver     string `mapstructure:"driver"`      // postgres | sqlite | redis | memory
	SQLitePath string `mapstructure:"sqlite_path"` // driver=sqlite 时的数据库文件
	KeyPrefix  string `mapstructure:"key_prefix"`  // 逻辑键前缀，driver=redis 时避免与黑名单冲突
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// MealConfig 报餐业务配置
type MealConfig struct {
	Timezone          string `mapstructure:"timezone"`
	AdminPassword     string `mapstructure:"admin_password"`      // 明文共享口令（演示用）
	AdminPasswordHash string `mapstructure:"admin_password_hash"` // bcrypt 哈希，配置后优先
	ExportMaxDays     int    `mapstructure:"export_max_days"`
}

// Location 解析业务时区
func (c *MealConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// FeatureConfig 功能开关配置
type FeatureConfig struct {
	CutoffReportEnabled bool `mapstructure:"cutoff_report_enabled"`
	MetricsEnabled      bool `mapstructure:"metrics_enabled"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.rate_limit", 120)
	v.SetDefault("server.rate_window", "1m")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "meal_order")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Shanghai")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)  // 60分钟
	v.SetDefault("db.conn_max_idle_time", 30) // 30分钟

	v.SetDefault("store.driver", StoreDriverSQLite)
	v.SetDefault("store.sqlite_path", "meal-order.db")
	v.SetDefault("store.key_prefix", "")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "12h")

	v.SetDefault("meal.timezone", "Asia/Shanghai")
	v.SetDefault("meal.admin_password", "admin123")
	v.SetDefault("meal.admin_password_hash", "")
	v.SetDefault("meal.export_max_days", 92)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("feature.cutoff_report_enabled", false)
	v.SetDefault("feature.metrics_enabled", true)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("MEAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverRedis, StoreDriverMemory:
	case StoreDriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("配置校验失败: store.sqlite_path 不能为空")
		}
	default:
		return fmt.Errorf("配置校验失败: 未知的 store.driver %q", c.Store.Driver)
	}
	if _, err := c.Meal.Location(); err != nil {
		return fmt.Errorf("配置校验失败: meal.timezone 无效: %w", err)
	}
	if c.Meal.AdminPassword == "" && c.Meal.AdminPasswordHash == "" {
		return fmt.Errorf("配置校验失败: meal.admin_password 与 meal.admin_password_hash 不能同时为空")
	}
	if c.Meal.ExportMaxDays <= 0 {
		return fmt.Errorf("配置校验失败: meal.export_max_days 必须大于 0")
	}
	return nil
}
