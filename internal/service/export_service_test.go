package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/victorxmota/downeycleaning/internal/dto"
)

func TestExportReport(t *testing.T) {
	reportSvc, repo := setupTestReportService()
	reportSvc.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }
	svc := NewExportService(repo, reportSvc, zap.NewNop())

	seedUser(t, repo, "user-1", "Maria")
	seedEnded(t, repo, "user-1",
		time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 13, 0, 0, 0, time.UTC), 0)

	buf, filename, err := svc.ExportReport(context.Background(), "admin-1", true, &dto.ReportRequest{Period: dto.PeriodWeek})
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if !strings.HasPrefix(filename, "timesheet_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名格式应为 timesheet_YYYYMMDD.xlsx，实际=%s", filename)
	}

	// 回读校验内容
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("生成的文件无法打开: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Timesheet")
	if err != nil {
		t.Fatalf("读取 Sheet 失败: %v", err)
	}
	// 标题 + 表头 + 1 明细 + 合计
	if len(rows) != 4 {
		t.Fatalf("期望 4 行，实际=%d", len(rows))
	}
	if rows[2][1] != "Maria" {
		t.Errorf("明细行员工姓名期望 Maria，实际=%q", rows[2][1])
	}
	if rows[2][5] != "4h 0min" {
		t.Errorf("净时长展示期望 4h 0min，实际=%q", rows[2][5])
	}
	if rows[3][0] != "Total" {
		t.Errorf("末行应为合计行，实际=%q", rows[3][0])
	}
}

func TestExportReport_NoRecords(t *testing.T) {
	reportSvc, repo := setupTestReportService()
	reportSvc.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }
	svc := NewExportService(repo, reportSvc, zap.NewNop())

	_, _, err := svc.ExportReport(context.Background(), "admin-1", true, &dto.ReportRequest{Period: dto.PeriodWeek})
	if !errors.Is(err, ErrExportNoRecords) {
		t.Errorf("空范围导出期望 ErrExportNoRecords，实际: %v", err)
	}
}

