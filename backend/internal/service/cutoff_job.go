package service

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/johamwon/mealOrd/backend/internal/dto"
)

// cutoffSpec 每分钟检查一次
const cutoffSpec = "* * * * *"

// CutoffReporter 餐别到达截止时间时记录当日汇总（供食堂备餐）
type CutoffReporter struct {
	ledger MealLedger
	logger *zap.Logger
	cron   *cron.Cron
}

// cronLogger 将 cron 调度日志（含任务 panic）写入 zap
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func newCronLogger(logger *zap.Logger) cron.Logger {
	return cronLogger{sugar: logger.Named("cron").Sugar()}
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}

// NewCutoffReporter 创建截止播报任务，调度时区与账本一致
func NewCutoffReporter(ledger MealLedger, logger *zap.Logger) *CutoffReporter {
	cl := newCronLogger(logger)
	return &CutoffReporter{
		ledger: ledger,
		logger: logger,
		cron: cron.New(
			cron.WithLocation(ledger.Location()),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
	}
}

// Start 注册并启动定时任务
func (r *CutoffReporter) Start() error {
	if _, err := r.cron.AddFunc(cutoffSpec, func() { r.Tick() }); err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("截止播报任务已启动", zap.String("spec", cutoffSpec))
	return nil
}

// Stop 停止调度，返回的 ctx 在进行中的任务结束后完成
func (r *CutoffReporter) Stop() context.Context {
	return r.cron.Stop()
}

// Tick 找出当前分钟恰好截止的生效餐别，记录并返回其汇总
func (r *CutoffReporter) Tick() []dto.MealSummary {
	now := r.ledger.Now()
	today := now.Format(DateLayout)

	due := make(map[string]bool)
	for _, mt := range r.ledger.GetActiveMealTypes(now) {
		cutoff, err := CutoffAt(&mt, now)
		if err != nil {
			continue
		}
		if cutoff.Hour() == now.Hour() && cutoff.Minute() == now.Minute() {
			due[mt.ID] = true
		}
	}
	if len(due) == 0 {
		return nil
	}

	summary, err := r.ledger.GetSummary(today)
	if err != nil {
		r.logger.Error("生成截止汇总失败", zap.String("date", today), zap.Error(err))
		return nil
	}

	reported := make([]dto.MealSummary, 0, len(due))
	for _, s := range summary {
		if !due[s.MealTypeID] {
			continue
		}
		r.logger.Info("餐别已截止",
			zap.String("date", today),
			zap.String("meal_type", s.MealTypeName),
			zap.Int("eating", s.Eating),
			zap.Int("not_eating", s.NotEating),
			zap.Int("unconfirmed", s.Unconfirmed()),
			zap.Int("total", s.Total),
		)
		reported = append(reported, s)
	}
	return reported
}
