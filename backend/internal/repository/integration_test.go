//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johamwon/mealOrd/backend/internal/model"
	"github.com/johamwon/mealOrd/backend/internal/repository"
	"github.com/johamwon/mealOrd/backend/pkg/database"
	pkgerrors "github.com/johamwon/mealOrd/backend/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=meal_order password=meal_order_password dbname=meal_order_test sslmode=disable TimeZone=Asia/Shanghai"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

func cleanupKeys(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		testDB.Where("1 = 1").Delete(&model.KVEntry{})
	})
}

// ═══════════════════════════════════════════════════════════
// Postgres Store
// ═══════════════════════════════════════════════════════════

func TestPostgresStore_Upsert(t *testing.T) {
	cleanupKeys(t)
	ctx := context.Background()
	s := repository.NewGormStore(testDB)

	if _, err := s.Get(ctx, repository.KeyUsers); err != pkgerrors.ErrKeyNotFound {
		t.Fatalf("期望 ErrKeyNotFound，实际: %v", err)
	}

	if err := s.Set(ctx, repository.KeyUsers, []byte(`[]`)); err != nil {
		t.Fatalf("首次写入失败: %v", err)
	}
	if err := s.Set(ctx, repository.KeyUsers, []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("覆盖写入失败: %v", err)
	}

	got, err := s.Get(ctx, repository.KeyUsers)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Errorf("期望覆盖后的值，实际=%s", got)
	}

	var count int64
	testDB.Model(&model.KVEntry{}).Where("name = ?", repository.KeyUsers).Count(&count)
	if count != 1 {
		t.Errorf("期望同一逻辑键仅 1 行，实际=%d", count)
	}
}

func TestPostgresStore_MealRepo(t *testing.T) {
	cleanupKeys(t)
	ctx := context.Background()
	repo := repository.NewRepository(repository.NewGormStore(testDB)).Meal

	types := []model.MealType{{ID: "breakfast", Name: "早餐", Enabled: true, CutoffTime: "08:30", DefaultChoice: true, DaysOfWeek: model.Weekdays{1, 2, 3, 4, 5}, SortOrder: 1}}
	if err := repo.SaveMealTypes(ctx, types); err != nil {
		t.Fatalf("保存餐别失败: %v", err)
	}

	got, found, err := repo.LoadMealTypes(ctx)
	if err != nil || !found {
		t.Fatalf("读取餐别失败: found=%v err=%v", found, err)
	}
	if len(got) != 1 || got[0].CutoffTime != "08:30" {
		t.Errorf("期望读回早餐 08:30，实际=%+v", got)
	}
}
