package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/johamwon/mealOrd/backend/internal/dto"
)

// ── 测试辅助 ──

// setupSingleUserExport 只保留用户 1 和午餐
func setupSingleUserExport(t *testing.T) (ExportService, MealLedger) {
	t.Helper()
	ledger, _, _ := setupTestLedger(t, at(9, 0))
	ctx := context.Background()
	for _, u := range ledger.ListUsers() {
		if u.ID != "1" {
			if err := ledger.DeleteUser(ctx, u.ID); err != nil {
				t.Fatalf("DeleteUser 失败: %v", err)
			}
		}
	}
	if err := ledger.DeleteMealType(ctx, MealTypeBreakfast); err != nil {
		t.Fatalf("DeleteMealType 失败: %v", err)
	}
	return NewExportService(ledger, testMealConfig(), zap.NewNop()), ledger
}

// ── CSV ──

func TestExportService_ExportCSV_TwoDays(t *testing.T) {
	svc, _ := setupSingleUserExport(t)

	data, filename, err := svc.ExportCSV(context.Background(), "2026-03-02", "2026-03-03")
	if err != nil {
		t.Fatalf("ExportCSV 失败: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("前 3 字节应为 UTF-8 BOM")
	}
	if filename != "报餐记录_2026-03-02_2026-03-03.csv" {
		t.Errorf("文件名错误: %s", filename)
	}

	lines := strings.Split(string(data[3:]), "\n")
	if len(lines) != 3 {
		t.Fatalf("期望表头 + 2 行数据，实际 %d 行: %q", len(lines), lines)
	}
	if lines[0] != "日期,姓名,部门,餐别,选择,更新时间" {
		t.Errorf("表头错误: %s", lines[0])
	}
	if lines[1] != `"2026-03-02","张三","技术部","午餐","吃",""` {
		t.Errorf("第一行错误: %s", lines[1])
	}
}

func TestExportService_ExportCSV_ExplicitChoice(t *testing.T) {
	svc, ledger := setupSingleUserExport(t)

	if _, err := ledger.UpdateSelectionAs(context.Background(), "1", "2026-03-02", MealTypeLunch, false); err != nil {
		t.Fatalf("UpdateSelectionAs 失败: %v", err)
	}

	data, _, _ := svc.ExportCSV(context.Background(), "2026-03-02", "2026-03-02")
	lines := strings.Split(string(data[3:]), "\n")
	if len(lines) != 2 {
		t.Fatalf("期望 2 行，实际=%d", len(lines))
	}
	if lines[1] != `"2026-03-02","张三","技术部","午餐","不吃","2026-03-02 09:00:00"` {
		t.Errorf("显式记录行错误: %s", lines[1])
	}
}

func TestExportService_ExportCSV_QuoteEscaping(t *testing.T) {
	svc, ledger := setupSingleUserExport(t)
	name := `张"三"`
	ledger.UpdateUser(context.Background(), "1", &dto.UpdateMealUserRequest{Name: &name})

	data, _, _ := svc.ExportCSV(context.Background(), "2026-03-02", "2026-03-02")
	if !strings.Contains(string(data), `"张""三"""`) {
		t.Errorf("单元格内双引号应转义，实际=%s", data)
	}
}

func TestExportService_DateRange(t *testing.T) {
	svc, _ := setupSingleUserExport(t)
	ctx := context.Background()

	if _, _, err := svc.ExportCSV(ctx, "2026-03-05", "2026-03-02"); !errors.Is(err, ErrExportRangeInvalid) {
		t.Errorf("倒序区间期望 ErrExportRangeInvalid，实际: %v", err)
	}
	if _, _, err := svc.ExportCSV(ctx, "2026-01-01", "2026-03-01"); !errors.Is(err, ErrExportRangeInvalid) {
		t.Errorf("超过上限期望 ErrExportRangeInvalid，实际: %v", err)
	}
	if _, _, err := svc.ExportCSV(ctx, "bad", "2026-03-01"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("非法日期期望 ErrInvalidDate，实际: %v", err)
	}
}

func TestExportService_Meta(t *testing.T) {
	svc, _ := setupSingleUserExport(t)

	meta, err := svc.Meta(context.Background(), "2026-03-02", "2026-03-08")
	if err != nil {
		t.Fatalf("Meta 失败: %v", err)
	}
	if meta.Days != 7 {
		t.Errorf("期望 7 天，实际=%d", meta.Days)
	}
	if len(meta.MealTypes) != 1 || meta.MealTypes[0] != "午餐" {
		t.Errorf("期望餐别 [午餐]，实际=%v", meta.MealTypes)
	}
}

// ── XLSX ──

func TestExportService_ExportXLSX(t *testing.T) {
	svc, ledger := setupSingleUserExport(t)
	ledger.UpdateSelectionAs(context.Background(), "1", "2026-03-02", MealTypeLunch, false)

	buf, filename, err := svc.ExportXLSX(context.Background(), "2026-03-02", "2026-03-03")
	if err != nil {
		t.Fatalf("ExportXLSX 失败: %v", err)
	}
	if filename != "报餐汇总_2026-03-02_2026-03-03.xlsx" {
		t.Errorf("文件名错误: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("无法打开生成的 Excel: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("汇总")
	if err != nil {
		t.Fatalf("读取汇总 Sheet 失败: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("期望表头 + 2 行，实际=%d", len(rows))
	}
	// 日期, 餐别, 吃, 不吃, 未确认, 在职人数
	if rows[1][0] != "2026-03-02" || rows[1][2] != "0" || rows[1][3] != "1" || rows[1][5] != "1" {
		t.Errorf("汇总行错误: %v", rows[1])
	}
	if rows[2][4] != "1" {
		t.Errorf("次日应有 1 人未确认，实际=%v", rows[2])
	}

	details, _ := f.GetRows("明细")
	if len(details) != 3 {
		t.Errorf("明细期望表头 + 2 行，实际=%d", len(details))
	}
}

// ── iCalendar ──

func TestExportService_ExportCalendar(t *testing.T) {
	svc, ledger := setupSingleUserExport(t)
	ledger.UpdateSelectionAs(context.Background(), "1", "2026-03-03", MealTypeLunch, false)

	data, filename, err := svc.ExportCalendar(context.Background(), "1", "2026-03-02", "2026-03-08")
	if err != nil {
		t.Fatalf("ExportCalendar 失败: %v", err)
	}
	if filename != "报餐日历_2026-03-02_2026-03-08.ics" {
		t.Errorf("文件名错误: %s", filename)
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("解析 ICS 失败: %v", err)
	}
	events := cal.Events()
	// 周一至周五默认吃午餐，周二显式不吃，周末不生效
	if len(events) != 4 {
		t.Fatalf("期望 4 个事件，实际=%d", len(events))
	}
	if summary := events[0].GetProperty(ics.ComponentPropertySummary); summary == nil || summary.Value != "午餐" {
		t.Errorf("事件标题应为 午餐，实际=%+v", summary)
	}
	start, err := events[0].GetStartAt()
	if err != nil {
		t.Fatalf("读取开始时间失败: %v", err)
	}
	if start.UTC().Hour() != 10 || start.UTC().Minute() != 30 {
		t.Errorf("事件应从截止时间 10:30 开始，实际=%v", start)
	}
}

func TestExportService_ExportCalendar_UnknownUser(t *testing.T) {
	svc, _ := setupSingleUserExport(t)

	if _, _, err := svc.ExportCalendar(context.Background(), "404", "2026-03-02", "2026-03-02"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}
