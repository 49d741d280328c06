package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/johamwon/mealOrd/backend/config"
	"github.com/johamwon/mealOrd/backend/internal/dto"
	"github.com/johamwon/mealOrd/backend/internal/model"
)

// ── 导出模块业务错误 ──

var (
	ErrExportRangeInvalid = errors.New("导出日期区间无效")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// utf8BOM 便于 Excel 以 UTF-8 识别 CSV
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var csvHeader = []string{"日期", "姓名", "部门", "餐别", "选择", "更新时间"}

// ExportService 导出业务接口
//
// 所有导出均按闭区间 [start, end] 逐日展开，区间天数受 meal.export_max_days 限制。
// 返回文件内容与建议文件名，由 Handler 层设置下载响应头。
type ExportService interface {
	// Meta 导出内容说明（区间、天数、包含的餐别、文件名）
	Meta(ctx context.Context, start, end string) (*dto.ExportMeta, error)
	// ExportCSV 报餐明细 CSV：在职用户 × 启用餐别 × 日期
	ExportCSV(ctx context.Context, start, end string) ([]byte, string, error)
	// ExportXLSX 汇总 + 明细两个 Sheet 的 Excel
	ExportXLSX(ctx context.Context, start, end string) (*bytes.Buffer, string, error)
	// ExportCalendar 员工在区间内"吃"的餐次，导出为 iCalendar
	ExportCalendar(ctx context.Context, userID, start, end string) ([]byte, string, error)
}

type exportService struct {
	ledger MealLedger
	cfg    *config.MealConfig
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(ledger MealLedger, cfg *config.MealConfig, logger *zap.Logger) ExportService {
	return &exportService{ledger: ledger, cfg: cfg, logger: logger}
}

// ────────────────────── Meta ──────────────────────

func (s *exportService) Meta(_ context.Context, start, end string) (*dto.ExportMeta, error) {
	dates, err := s.dateRange(start, end)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0)
	for _, mt := range s.ledger.ListMealTypes() {
		if mt.Enabled {
			names = append(names, mt.Name)
		}
	}
	return &dto.ExportMeta{
		Start:     start,
		End:       end,
		Days:      len(dates),
		MealTypes: names,
		Filename:  csvFilename(start, end),
	}, nil
}

// ────────────────────── CSV ──────────────────────

// ExportCSV 表头不加引号，数据行每个单元格加双引号，行间以 \n 分隔
func (s *exportService) ExportCSV(_ context.Context, start, end string) ([]byte, string, error) {
	dates, err := s.dateRange(start, end)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)
	buf.WriteString(strings.Join(csvHeader, ","))

	rows := 0
	for _, date := range dates {
		details, err := s.ledger.GetDetails(date)
		if err != nil {
			return nil, "", err
		}
		for _, d := range details {
			for _, sel := range d.Selections {
				buf.WriteByte('\n')
				writeQuotedRow(&buf, date, d.UserName, d.Dept, sel.MealTypeName, choiceLabel(sel.Choice), sel.UpdatedAt)
				rows++
			}
		}
	}

	s.logger.Info("导出报餐 CSV",
		zap.String("start", start),
		zap.String("end", end),
		zap.Int("rows", rows),
	)
	return buf.Bytes(), csvFilename(start, end), nil
}

// ────────────────────── XLSX ──────────────────────

func (s *exportService) ExportXLSX(_ context.Context, start, end string) (*bytes.Buffer, string, error) {
	dates, err := s.dateRange(start, end)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const summarySheet, detailSheet = "汇总", "明细"
	idx, err := f.NewSheet(summarySheet)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	if _, err := f.NewSheet(detailSheet); err != nil {
		return nil, "", ErrExportGenerateFail
	}
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	summaryHeader := []string{"日期", "餐别", "吃", "不吃", "未确认", "在职人数"}
	writeXLSXRow(f, summarySheet, 1, summaryHeader)
	writeXLSXRow(f, detailSheet, 1, csvHeader)
	f.SetCellStyle(summarySheet, "A1", cell(colName(len(summaryHeader)-1), 1), headerStyle)
	f.SetCellStyle(detailSheet, "A1", cell(colName(len(csvHeader)-1), 1), headerStyle)

	summaryRow, detailRow := 2, 2
	for _, date := range dates {
		summary, err := s.ledger.GetSummary(date)
		if err != nil {
			return nil, "", err
		}
		for _, m := range summary {
			writeXLSXRow(f, summarySheet, summaryRow, []interface{}{date, m.MealTypeName, m.Eating, m.NotEating, m.Unconfirmed(), m.Total})
			summaryRow++
		}

		details, err := s.ledger.GetDetails(date)
		if err != nil {
			return nil, "", err
		}
		for _, d := range details {
			for _, sel := range d.Selections {
				writeXLSXRow(f, detailSheet, detailRow, []interface{}{date, d.UserName, d.Dept, sel.MealTypeName, choiceLabel(sel.Choice), sel.UpdatedAt})
				detailRow++
			}
		}
	}

	f.SetColWidth(summarySheet, "A", "A", 12)
	f.SetColWidth(detailSheet, "A", "A", 12)
	f.SetColWidth(detailSheet, "F", "F", 20)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, fmt.Sprintf("报餐汇总_%s_%s.xlsx", start, end), nil
}

// ────────────────────── iCalendar ──────────────────────

// ExportCalendar 每个生效选择为"吃"的餐次生成一个事件，自截止时刻起持续 30 分钟
func (s *exportService) ExportCalendar(_ context.Context, userID, start, end string) ([]byte, string, error) {
	dates, err := s.dateRange(start, end)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//meal-order//报餐日历//CN")
	cal.SetXWRCalName("报餐日历")

	now := s.ledger.Now()
	events := 0
	for _, date := range dates {
		day, err := s.ledger.GetMealDay(userID, date)
		if err != nil {
			return nil, "", err
		}
		dayStart, err := ParseDate(date, s.ledger.Location())
		if err != nil {
			return nil, "", err
		}
		for _, c := range day.Cards {
			if !c.Choice {
				continue
			}
			startAt, err := CutoffAt(&model.MealType{CutoffTime: c.MealType.CutoffTime}, dayStart)
			if err != nil {
				continue
			}
			evt := cal.AddEvent(fmt.Sprintf("%s-%s-%s@meal-order", date, c.MealType.ID, userID))
			evt.SetDtStampTime(now)
			evt.SetStartAt(startAt)
			evt.SetEndAt(startAt.Add(30 * time.Minute))
			evt.SetSummary(c.MealType.Name)
			evt.SetDescription(calendarDescription(c))
			events++
		}
	}

	s.logger.Info("导出报餐日历",
		zap.String("user_id", userID),
		zap.String("start", start),
		zap.String("end", end),
		zap.Int("events", events),
	)
	return []byte(cal.Serialize()), fmt.Sprintf("报餐日历_%s_%s.ics", start, end), nil
}

// ── 辅助函数 ──

// dateRange 展开闭区间日期，校验顺序与天数上限
func (s *exportService) dateRange(start, end string) ([]string, error) {
	loc := s.ledger.Location()
	from, err := ParseDate(start, loc)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate(end, loc)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: 结束日期早于开始日期", ErrExportRangeInvalid)
	}

	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
		if s.cfg.ExportMaxDays > 0 && len(dates) > s.cfg.ExportMaxDays {
			return nil, fmt.Errorf("%w: 超过 %d 天", ErrExportRangeInvalid, s.cfg.ExportMaxDays)
		}
	}
	return dates, nil
}

func csvFilename(start, end string) string {
	return fmt.Sprintf("报餐记录_%s_%s.csv", start, end)
}

func choiceLabel(choice bool) string {
	if choice {
		return "吃"
	}
	return "不吃"
}

// writeQuotedRow 每个单元格加双引号，内部双引号转义为两个
func writeQuotedRow(buf *bytes.Buffer, cells ...string) {
	for i, c := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(c, `"`, `""`))
		buf.WriteByte('"')
	}
}

func writeXLSXRow[T any](f *excelize.File, sheet string, row int, values []T) {
	for i, v := range values {
		f.SetCellValue(sheet, cell(colName(i), row), v)
	}
}

func calendarDescription(c dto.MealCard) string {
	if c.Explicit {
		return fmt.Sprintf("已报餐，截止时间 %s", c.MealType.CutoffTime)
	}
	return fmt.Sprintf("默认报餐，截止时间 %s", c.MealType.CutoffTime)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
