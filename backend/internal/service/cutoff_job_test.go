package service

import (
	"context"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCutoffReporter_Tick(t *testing.T) {
	ledger, clock, _ := setupTestLedger(t, at(10, 29))
	ledger.UpdateSelectionAs(context.Background(), "1", "2026-03-02", MealTypeLunch, false)
	r := NewCutoffReporter(ledger, zap.NewNop())

	if got := r.Tick(); len(got) != 0 {
		t.Errorf("10:29 不应播报，实际=%+v", got)
	}

	clock.now = at(10, 30).Add(15 * time.Second)
	got := r.Tick()
	if len(got) != 1 || got[0].MealTypeID != MealTypeLunch {
		t.Fatalf("10:30 应播报午餐，实际=%+v", got)
	}
	if got[0].NotEating != 1 || got[0].Total != 5 {
		t.Errorf("汇总错误: %+v", got[0])
	}

	clock.now = at(8, 30)
	if got := r.Tick(); len(got) != 1 || got[0].MealTypeID != MealTypeBreakfast {
		t.Errorf("08:30 应播报早餐，实际=%+v", got)
	}
}

func TestCutoffReporter_Weekend(t *testing.T) {
	ledger, _, _ := setupTestLedger(t, at(10, 30).AddDate(0, 0, 5)) // 周六
	r := NewCutoffReporter(ledger, zap.NewNop())

	if got := r.Tick(); len(got) != 0 {
		t.Errorf("周末无生效餐别，不应播报，实际=%+v", got)
	}
}

func TestCutoffReporter_StartStop(t *testing.T) {
	ledger, _, _ := setupTestLedger(t, at(9, 0))
	r := NewCutoffReporter(ledger, zap.NewNop())

	if err := r.Start(); err != nil {
		t.Fatalf("Start 失败: %v", err)
	}
	<-r.Stop().Done()
}

func TestCronLogger_RecoverWritesToZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	job := cron.Recover(newCronLogger(zap.New(core)))(cron.FuncJob(func() {
		panic("播报失败")
	}))

	job.Run()

	entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条 error 日志，实际=%d", len(entries))
	}
	if entries[0].LoggerName != "cron" || entries[0].Message != "panic" {
		t.Errorf("日志内容错误: name=%s msg=%s", entries[0].LoggerName, entries[0].Message)
	}
	if _, ok := entries[0].ContextMap()["error"]; !ok {
		t.Error("日志应包含 error 字段")
	}
}
