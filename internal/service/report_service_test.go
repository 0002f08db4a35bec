package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/victorxmota/downeycleaning/internal/dto"
	"github.com/victorxmota/downeycleaning/internal/model"
	"github.com/victorxmota/downeycleaning/internal/repository"
)

// ── 测试辅助 ──

func setupTestReportService() (*reportService, *repository.Repository) {
	repo := &repository.Repository{
		User:         newMockUserRepo(),
		ShiftRecord:  newMockShiftRecordRepo(),
		Schedule:     newMockScheduleRepo(),
		Office:       newMockOfficeRepo(),
		Notification: newMockNotificationRepo(),
	}
	svc := NewReportService(testCheckinConfig(), repo, nil, zap.NewNop()).(*reportService)
	return svc, repo
}

// seedEnded 直接落一条已结束记录
func seedEnded(t *testing.T, repo *repository.Repository, userID string, start, end time.Time, pausedMs int64) *model.ShiftRecord {
	t.Helper()
	record := &model.ShiftRecord{
		UserID:    userID,
		SiteName:  "Main Street Office",
		WorkDate:  model.DateOnly(start.UTC().Format("2006-01-02")),
		StartTime: start,
		Checklist: fullChecklist(),
	}
	if err := repo.ShiftRecord.CreateActive(context.Background(), record); err != nil {
		t.Fatalf("seed 失败: %v", err)
	}
	if err := repo.ShiftRecord.Update(context.Background(), record.RecordID, map[string]interface{}{
		"end_time":  end,
		"paused_ms": pausedMs,
	}); err != nil {
		t.Fatalf("seed 收班失败: %v", err)
	}
	record.EndTime = &end
	record.PausedMs = pausedMs
	return record
}

func seedActive(t *testing.T, repo *repository.Repository, userID string, start time.Time) *model.ShiftRecord {
	t.Helper()
	record := &model.ShiftRecord{
		UserID:    userID,
		SiteName:  "Main Street Office",
		WorkDate:  model.DateOnly(start.UTC().Format("2006-01-02")),
		StartTime: start,
		Checklist: fullChecklist(),
	}
	if err := repo.ShiftRecord.CreateActive(context.Background(), record); err != nil {
		t.Fatalf("seed 失败: %v", err)
	}
	return record
}

func seedUser(t *testing.T, repo *repository.Repository, id, name string) {
	t.Helper()
	if err := repo.User.Create(context.Background(), &model.User{UserID: id, Name: name, Email: id + "@example.com"}); err != nil {
		t.Fatalf("seed 用户失败: %v", err)
	}
}

// ── 聚合规则 ──

func TestReport_WeekBucketsAndTotal(t *testing.T) {
	svc, repo := setupTestReportService()
	// 2024-01-10 是周三，所在周为 [01-08 周一, 01-15)
	svc.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }

	seedUser(t, repo, "user-1", "Maria")
	// 周一 4h（无暂停）
	seedEnded(t, repo, "user-1",
		time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 13, 0, 0, 0, time.UTC), 0)
	// 周二 3h，暂停 30min → 净 2.5h
	seedEnded(t, repo, "user-1",
		time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC), 30*60*1000)
	// 上周五的记录：窗口之外
	seedEnded(t, repo, "user-1",
		time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 17, 0, 0, 0, time.UTC), 0)

	resp, err := svc.Report(context.Background(), "admin-1", true, &dto.ReportRequest{Period: dto.PeriodWeek})
	if err != nil {
		t.Fatalf("Report 失败: %v", err)
	}

	// 周窗口密集填充：空日也出桶
	if len(resp.Buckets) != 7 {
		t.Fatalf("周报表应有 7 个日桶，实际=%d", len(resp.Buckets))
	}
	if resp.Buckets[0].Date != "2024-01-08" {
		t.Errorf("周起点应为周一 2024-01-08，实际=%s", resp.Buckets[0].Date)
	}
	if resp.Buckets[0].NetMs != 4*3600*1000 {
		t.Errorf("周一净时长期望 4h，实际=%dms", resp.Buckets[0].NetMs)
	}
	if resp.Buckets[1].NetMs != 9000000 {
		t.Errorf("周二净时长期望 2.5h，实际=%dms", resp.Buckets[1].NetMs)
	}
	if resp.Buckets[2].NetMs != 0 || resp.Buckets[2].Sessions != 0 {
		t.Error("无记录的日桶应为零值")
	}

	want := int64(23400000) // 4h + 2.5h
	if resp.TotalMs != want {
		t.Errorf("周合计期望 %dms，实际=%dms", want, resp.TotalMs)
	}
	if resp.TotalDisplay != "6h 30min" {
		t.Errorf("周合计展示期望 6h 30min，实际=%s", resp.TotalDisplay)
	}
	if len(resp.Rows) != 2 {
		t.Errorf("期望 2 行明细，实际=%d", len(resp.Rows))
	}
	for _, row := range resp.Rows {
		if row.UserName != "Maria" {
			t.Errorf("明细行应带员工姓名，实际=%q", row.UserName)
		}
	}
}

func TestReport_MondayBoundaryInclusive(t *testing.T) {
	svc, repo := setupTestReportService()
	svc.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }

	seedUser(t, repo, "user-1", "Maria")
	// 周一 00:00:00 整点开班：含起不含止，应落入本周
	seedEnded(t, repo, "user-1",
		time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 2, 0, 0, 0, time.UTC), 0)
	// 下周一 00:00:00：窗口之外
	seedEnded(t, repo, "user-1",
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 2, 0, 0, 0, time.UTC), 0)

	resp, err := svc.Report(context.Background(), "admin-1", true, &dto.ReportRequest{Period: dto.PeriodWeek})
	if err != nil {
		t.Fatalf("Report 失败: %v", err)
	}
	if len(resp.Rows) != 1 {
		t.Fatalf("期望 1 行明细，实际=%d", len(resp.Rows))
	}
	if resp.Rows[0].Date != "2024-01-08" {
		t.Errorf("期望归入 2024-01-08，实际=%s", resp.Rows[0].Date)
	}
}

func TestReport_OvernightAttributedToStartDay(t *testing.T) {
	svc, repo := setupTestReportService()
	svc.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }

	seedUser(t, repo, "user-1", "Maria")
	// 周二 23:30 → 周三 01:30 的跨夜班
	seedEnded(t, repo, "user-1",
		time.Date(2024, 1, 9, 23, 30, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 1, 30, 0, 0, time.UTC), 0)

	resp, err := svc.Report(context.Background(), "admin-1", true, &dto.ReportRequest{Period: dto.PeriodWeek})
	if err != nil {
		t.Fatalf("Report 失败: %v", err)
	}

	// 整段 2h 计入开班当天 01-09，01-10 不拆分
	for _, b := range resp.Buckets {
		switch b.Date {
		case "2024-01-09":
			if b.NetMs != 2*3600*1000 {
				t.Errorf("跨夜班应整段计入开班日，期望 2h，实际=%dms", b.NetMs)
			}
		case "2024-01-10":
			if b.NetMs != 0 {
				t.Errorf("结束日不应分摊时长，实际=%dms", b.NetMs)
			}
		}
	}
}

func TestReport_ActiveExcludedFromTotals(t *testing.T) {
	svc, repo := setupTestReportService()
	svc.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }

	seedUser(t, repo, "user-1", "Maria")
	seedEnded(t, repo, "user-1",
		time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 13, 0, 0, 0, time.UTC), 0)
	seedUser(t, repo, "user-2", "John")
	seedActive(t, repo, "user-2", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))

	resp, err := svc.Report(context.Background(), "admin-1", true, &dto.ReportRequest{Period: dto.PeriodWeek})
	if err != nil {
		t.Fatalf("Report 失败: %v", err)
	}
	if resp.TotalMs != 4*3600*1000 {
		t.Errorf("进行中记录不应计入合计，期望 4h，实际=%dms", resp.TotalMs)
	}
	if len(resp.Active) != 1 {
		t.Fatalf("进行中记录应单独列出，实际=%d", len(resp.Active))
	}
	if resp.Active[0].EndTime != "Active" {
		t.Errorf("进行中行 EndTime 应为 Active，实际=%q", resp.Active[0].EndTime)
	}
	if resp.Active[0].Completed {
		t.Error("进行中行 Completed 应为 false")
	}
}

func TestReport_CorruptedPauseClampsToZero(t *testing.T) {
	svc, repo := setupTestReportService()
	svc.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }

	seedUser(t, repo, "user-1", "Maria")
	// 暂停时长超过总时长的损坏数据：行净值截断为 0，不得出现负数拉低合计
	seedEnded(t, repo, "user-1",
		time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC), 5*3600*1000)
	seedEnded(t, repo, "user-1",
		time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC), 0)

	resp, err := svc.Report(context.Background(), "admin-1", true, &dto.ReportRequest{Period: dto.PeriodWeek})
	if err != nil {
		t.Fatalf("Report 失败: %v", err)
	}
	if resp.TotalMs != 3*3600*1000 {
		t.Errorf("损坏行按 0 计，合计期望 3h，实际=%dms", resp.TotalMs)
	}
	for _, row := range resp.Rows {
		if row.NetMs < 0 {
			t.Errorf("明细行净值不应为负: %d", row.NetMs)
		}
	}
}

// ── 窗口解析 ──

func TestReport_CustomRange(t *testing.T) {
	svc, repo := setupTestReportService()
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	seedUser(t, repo, "user-1", "Maria")
	seedEnded(t, repo, "user-1",
		time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC), 0)

	// end_date 为闭区间：范围含 01-15 当天
	resp, err := svc.Report(context.Background(), "admin-1", true, &dto.ReportRequest{
		Period:    dto.PeriodCustom,
		StartDate: "2024-01-10",
		EndDate:   "2024-01-15",
	})
	if err != nil {
		t.Fatalf("Report 失败: %v", err)
	}
	if resp.TotalMs != 2*3600*1000 {
		t.Errorf("闭区间终点当日应计入，期望 2h，实际=%dms", resp.TotalMs)
	}
	// 6 天窗口 ≤ 31：密集填充
	if len(resp.Buckets) != 6 {
		t.Errorf("期望 6 个日桶，实际=%d", len(resp.Buckets))
	}
}

func TestReport_CustomRangeValidation(t *testing.T) {
	svc, _ := setupTestReportService()
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	cases := []struct {
		name string
		req  dto.ReportRequest
		want error
	}{
		{"缺起始日期", dto.ReportRequest{Period: dto.PeriodCustom, EndDate: "2024-01-15"}, ErrInvalidDateRange},
		{"日期格式错误", dto.ReportRequest{Period: dto.PeriodCustom, StartDate: "15/01/2024", EndDate: "2024-01-20"}, ErrInvalidDateRange},
		{"终点早于起点", dto.ReportRequest{Period: dto.PeriodCustom, StartDate: "2024-01-20", EndDate: "2024-01-10"}, ErrInvalidDateRange},
		{"未知周期", dto.ReportRequest{Period: "fortnight"}, ErrInvalidPeriod},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Report(context.Background(), "admin-1", true, &tc.req)
			if !errors.Is(err, tc.want) {
				t.Errorf("期望 %v，实际: %v", tc.want, err)
			}
		})
	}
}

func TestReport_LongRangeSparseBuckets(t *testing.T) {
	svc, repo := setupTestReportService()
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }

	seedUser(t, repo, "user-1", "Maria")
	seedEnded(t, repo, "user-1",
		time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 5, 11, 0, 0, 0, time.UTC), 0)
	seedEnded(t, repo, "user-1",
		time.Date(2024, 4, 20, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC), 0)

	// 年度窗口超出密集填充上限：只出有数据的日期
	resp, err := svc.Report(context.Background(), "admin-1", true, &dto.ReportRequest{Period: dto.PeriodYear})
	if err != nil {
		t.Fatalf("Report 失败: %v", err)
	}
	if len(resp.Buckets) != 2 {
		t.Fatalf("年度窗口应只出有数据的日桶，实际=%d", len(resp.Buckets))
	}
	if resp.Buckets[0].Date != "2024-02-05" || resp.Buckets[1].Date != "2024-04-20" {
		t.Errorf("日桶应按日期升序: %s, %s", resp.Buckets[0].Date, resp.Buckets[1].Date)
	}
}

func TestReport_FilterByUser(t *testing.T) {
	svc, repo := setupTestReportService()
	svc.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }

	seedUser(t, repo, "user-1", "Maria")
	seedUser(t, repo, "user-2", "John")
	seedEnded(t, repo, "user-1",
		time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 13, 0, 0, 0, time.UTC), 0)
	seedEnded(t, repo, "user-2",
		time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC), 0)

	resp, err := svc.Report(context.Background(), "admin-1", true, &dto.ReportRequest{Period: dto.PeriodWeek, UserID: "user-2"})
	if err != nil {
		t.Fatalf("Report 失败: %v", err)
	}
	if resp.TotalMs != 3600*1000 {
		t.Errorf("按员工过滤后合计期望 1h，实际=%dms", resp.TotalMs)
	}

	// "all" 与空值等价：全员
	resp, err = svc.Report(context.Background(), "admin-1", true, &dto.ReportRequest{Period: dto.PeriodWeek, UserID: "all"})
	if err != nil {
		t.Fatalf("Report 失败: %v", err)
	}
	if resp.TotalMs != 5*3600*1000 {
		t.Errorf("全员合计期望 5h，实际=%dms", resp.TotalMs)
	}
}

func TestReport_NonAdminForcedToSelf(t *testing.T) {
	svc, repo := setupTestReportService()
	svc.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }

	seedUser(t, repo, "user-1", "Maria")
	seedUser(t, repo, "user-2", "John")
	seedEnded(t, repo, "user-1",
		time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 13, 0, 0, 0, time.UTC), 0)
	seedEnded(t, repo, "user-2",
		time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC), 0)

	// 普通员工即使请求 "all" 或他人 ID，也只能看到本人数据
	for _, userID := range []string{"all", "user-2", ""} {
		resp, err := svc.Report(context.Background(), "user-1", false, &dto.ReportRequest{Period: dto.PeriodWeek, UserID: userID})
		if err != nil {
			t.Fatalf("Report 失败: %v", err)
		}
		if resp.TotalMs != 4*3600*1000 {
			t.Errorf("user_id=%q: 非管理员应只见本人 4h，实际=%dms", userID, resp.TotalMs)
		}
		for _, row := range resp.Rows {
			if row.UserID != "user-1" {
				t.Errorf("user_id=%q: 泄露了他人记录 %s", userID, row.UserID)
			}
		}
	}
}

// ── 总控台 ──

func TestDashboard(t *testing.T) {
	svc, repo := setupTestReportService()
	svc.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }

	seedUser(t, repo, "user-1", "Maria")
	seedUser(t, repo, "user-2", "John")
	seedActive(t, repo, "user-1", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	seedEnded(t, repo, "user-2",
		time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 11, 0, 0, 0, time.UTC), 0)

	resp, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard 失败: %v", err)
	}
	if resp.ActiveCount != 1 {
		t.Errorf("进行中会话数期望 1，实际=%d", resp.ActiveCount)
	}
	if resp.TotalToday != 2 {
		t.Errorf("今日任务数期望 2，实际=%d", resp.TotalToday)
	}
	if len(resp.Sessions) != 1 || resp.Sessions[0].UserName != "Maria" {
		t.Error("进行中会话应带员工姓名")
	}
}

// ── 时长展示 ──

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "0h 0min"},
		{59999, "0h 0min"}, // 向下取整
		{60000, "0h 1min"},
		{13500000, "3h 45min"},
		{8 * 3600 * 1000, "8h 0min"},
		{-5000, "0h 0min"}, // 负值兜底
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.ms); got != tc.want {
			t.Errorf("FormatDuration(%d) = %q，期望 %q", tc.ms, got, tc.want)
		}
	}
}

