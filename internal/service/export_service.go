package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/victorxmota/downeycleaning/internal/dto"
	"github.com/victorxmota/downeycleaning/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRecords    = errors.New("所选范围内无打卡记录")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 工时报表导出为 Excel (.xlsx)，列结构与前端报表页一致
//   - 聚合口径复用 ReportService，导出与页面永远对账一致
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportReport 导出工时报表为 Excel，权限收敛同 ReportService.Report
	// 返回值：buf（Excel 内容）, filename（建议文件名）, error
	ExportReport(ctx context.Context, callerID string, callerIsAdmin bool, req *dto.ReportRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	report ReportService
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, report ReportService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, report: report, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportReport — 导出工时报表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Timesheet"：明细行（日期/员工/地点/起止/净时长/安全项/状态）
//   - 末尾合计行，净时长同时给毫秒原值与 "Xh Ymin" 展示值
//   - 进行中的记录也导出，结束时间标 "Active"，不计入合计

func (s *exportService) ExportReport(ctx context.Context, callerID string, callerIsAdmin bool, req *dto.ReportRequest) (*bytes.Buffer, string, error) {
	// 1. 复用报表聚合（含非管理员只看本人的收敛）
	report, err := s.report.Report(ctx, callerID, callerIsAdmin, req)
	if err != nil {
		return nil, "", err
	}
	if len(report.Rows) == 0 && len(report.Active) == 0 {
		return nil, "", ErrExportNoRecords
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Timesheet"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 列宽
	widths := map[string]float64{"A": 12, "B": 20, "C": 24, "D": 9, "E": 9, "F": 12, "G": 12, "H": 10}
	for col, w := range widths {
		f.SetColWidth(sheetName, col, col, w)
	}

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", "Downey Cleaning — Timesheet Report")
	f.MergeCell(sheetName, "A1", "H1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"Date", "Employee", "Site", "Start", "End", "Net Time", "Net (ms)", "Safety"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", "H2", headerStyle)

	// 数据行：已完成在前，进行中在后
	row := 3
	writeRow := func(r dto.ReportRow) {
		f.SetCellValue(sheetName, cell("A", row), r.Date)
		f.SetCellValue(sheetName, cell("B", row), r.UserName)
		f.SetCellValue(sheetName, cell("C", row), r.SiteName)
		f.SetCellValue(sheetName, cell("D", row), r.StartTime)
		f.SetCellValue(sheetName, cell("E", row), r.EndTime)
		f.SetCellValue(sheetName, cell("F", row), r.Display)
		f.SetCellValue(sheetName, cell("G", row), r.NetMs)
		f.SetCellValue(sheetName, cell("H", row), fmt.Sprintf("%d/28", r.SafetyChecked))
		row++
	}
	for _, r := range report.Rows {
		writeRow(r)
	}
	for _, r := range report.Active {
		writeRow(r)
	}

	// 合计行
	f.SetCellValue(sheetName, cell("A", row), "Total")
	f.SetCellValue(sheetName, cell("F", row), report.TotalDisplay)
	f.SetCellValue(sheetName, cell("G", row), report.TotalMs)
	f.SetCellStyle(sheetName, cell("A", row), cell("H", row), headerStyle)

	// 3. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("timesheet_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
