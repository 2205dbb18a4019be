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

	"fyp-portal/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoEvaluations = errors.New("暂无评分数据可导出")
	ErrExportNoSchedules   = errors.New("暂无排期数据可导出")
	ErrExportGenerateFail  = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 成绩汇总导出为 Excel (.xlsx)，日历导出为 iCalendar (.ics)
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportMarks 导出全部小组成绩汇总为 Excel
	ExportMarks(ctx context.Context) (*bytes.Buffer, string, error)
	// ExportScheduleICS 将答辩排期导出为 iCalendar 日历
	ExportScheduleICS(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportMarks — 导出成绩汇总为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "成绩汇总"
//   - 列：小组 | 开题(10) | 实现(40) | 文档(20) | 答辩(20) | GitHub(10) | 总分(100) | 状态
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportMarks(ctx context.Context) (*bytes.Buffer, string, error) {
	evals, err := s.repo.Evaluation.List(ctx)
	if err != nil {
		s.logger.Error("查询评分数据失败", zap.Error(err))
		return nil, "", err
	}
	if len(evals) == 0 {
		return nil, "", ErrExportNoEvaluations
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "成绩汇总"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 24)
	f.SetColWidth(sheetName, "B", "G", 14)
	f.SetColWidth(sheetName, "H", "H", 10)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"小组", "开题 (10)", "实现 (40)", "文档 (20)", "答辩 (20)", "GitHub (10)", "总分 (100)", "状态"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	row := 2
	for i := range evals {
		e := &evals[i]
		groupName := e.GroupID
		if e.Group != nil {
			groupName = e.Group.Name
		}
		status := "评分中"
		if e.Completed {
			status = "已锁定"
		}

		f.SetCellValue(sheetName, cell("A", row), groupName)
		f.SetCellValue(sheetName, cell("B", row), e.ProposalMarks)
		f.SetCellValue(sheetName, cell("C", row), e.ImplementationMarks)
		f.SetCellValue(sheetName, cell("D", row), e.DocumentationMarks)
		f.SetCellValue(sheetName, cell("E", row), e.PresentationMarks)
		f.SetCellValue(sheetName, cell("F", row), e.GithubMarks)
		f.SetCellValue(sheetName, cell("G", row), e.Total())
		f.SetCellValue(sheetName, cell("H", row), status)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("成绩汇总_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportScheduleICS — 导出答辩排期为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每条排期生成一个 VEVENT：
//   - SUMMARY：小组名答辩
//   - LOCATION：教室
//   - DTSTART / DTEND：由 date + time_slot ("09:00-09:30") 解析

func (s *exportService) ExportScheduleICS(ctx context.Context) (*bytes.Buffer, string, error) {
	items, err := s.repo.Schedule.List(ctx, nil)
	if err != nil {
		s.logger.Error("查询排期数据失败", zap.Error(err))
		return nil, "", err
	}
	if len(items) == 0 {
		return nil, "", ErrExportNoSchedules
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//fyp-portal//presentation-schedule//CN")

	now := time.Now()
	for i := range items {
		item := &items[i]
		start, end, err := parseSlotTimes(item.Date, item.TimeSlot)
		if err != nil {
			s.logger.Warn("跳过无法解析的排期时间段",
				zap.String("schedule_id", item.ScheduleID),
				zap.String("time_slot", item.TimeSlot))
			continue
		}

		groupName := item.GroupID
		if item.Group != nil {
			groupName = item.Group.Name
		}

		evt := cal.AddEvent(item.ScheduleID + "@fyp-portal")
		evt.SetCreatedTime(now)
		evt.SetDtStampTime(now)
		evt.SetStartAt(start)
		evt.SetEndAt(end)
		evt.SetSummary(fmt.Sprintf("%s 答辩", groupName))
		evt.SetLocation(item.Room)
		if item.Panel != nil {
			evt.SetDescription(fmt.Sprintf("评审小组：%s", item.Panel.Name))
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("答辩安排_%s.ics", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

// parseSlotTimes 把 "2026-06-01" + "09:00-09:30" 解析为起止时间
func parseSlotTimes(date, timeSlot string) (time.Time, time.Time, error) {
	parts := strings.SplitN(timeSlot, "-", 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("时间段格式无效: %s", timeSlot)
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+strings.TrimSpace(parts[0]), time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.ParseInLocation("2006-01-02 15:04", date+" "+strings.TrimSpace(parts[1]), time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
