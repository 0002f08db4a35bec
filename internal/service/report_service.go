package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/victorxmota/downeycleaning/config"
	"github.com/victorxmota/downeycleaning/internal/dto"
	"github.com/victorxmota/downeycleaning/internal/model"
	"github.com/victorxmota/downeycleaning/internal/repository"
	"github.com/victorxmota/downeycleaning/pkg/redis"
)

// ── 报表模块业务错误 ──

var (
	ErrInvalidPeriod    = errors.New("统计周期参数无效")
	ErrInvalidDateRange = errors.New("自定义日期范围无效")
)

// 总控台统计缓存：前端每分钟轮询，30 秒 TTL 足够摊平全表扫描
const (
	dashboardCacheKey = "dashboard:stats"
	dashboardCacheTTL = 30 * time.Second
)

// 日桶密集填充上限：窗口不超过该天数时空日也出桶（周/月图表要画零柱），
// 年度及超长自定义范围只出有数据的日期
const denseBucketMaxDays = 31

// ReportService 工时报表业务接口
//
// 聚合规则：
//   - 记录按开班日期归桶（跨夜班整段计入开班当天）
//   - 周窗口以周一为起点，窗口边界含起不含止
//   - 单条净时长 = 总时长 - 暂停时长，负值截断为 0 后再累加
//   - 进行中的记录不入桶不计总，单独列出
type ReportService interface {
	// Report 工时报表。权限在查询层收敛：非管理员无论传什么
	// user_id 都强制只看本人数据
	Report(ctx context.Context, callerID string, callerIsAdmin bool, req *dto.ReportRequest) (*dto.ReportResponse, error)
	// Dashboard 总控台实时视图：进行中会话 + 今日任务数
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time // 测试注入
}

// NewReportService 创建 ReportService 实例
func NewReportService(cfg *config.Config, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) ReportService {
	loc, err := time.LoadLocation(cfg.Database.Timezone)
	if err != nil {
		logger.Warn("时区加载失败，回退 UTC", zap.String("timezone", cfg.Database.Timezone))
		loc = time.UTC
	}
	return &reportService{
		repo:   repo,
		rdb:    rdb,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// ════════════════════════════════════════════════════════════
// Report — 工时报表
// ════════════════════════════════════════════════════════════

func (s *reportService) Report(ctx context.Context, callerID string, callerIsAdmin bool, req *dto.ReportRequest) (*dto.ReportResponse, error) {
	// 1. 非管理员收敛为只看本人，导出等所有上游入口统一走这里
	if !callerIsAdmin {
		req.UserID = callerID
	}

	// 2. 解析统计窗口 [start, end)
	start, end, err := s.resolveWindow(req)
	if err != nil {
		return nil, err
	}

	// 3. 拉取记录
	var records []model.ShiftRecord
	if req.UserID == "" || req.UserID == "all" {
		records, err = s.repo.ShiftRecord.ListAll(ctx)
	} else {
		records, err = s.repo.ShiftRecord.ListByUser(ctx, req.UserID)
	}
	if err != nil {
		s.logger.Error("查询打卡记录失败", zap.Error(err))
		return nil, err
	}

	// 4. 员工名册（报表行带姓名）
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}
	nameByID := make(map[string]string, len(users))
	for _, u := range users {
		nameByID[u.UserID] = u.Name
	}

	startDate := start.Format("2006-01-02")
	endDate := end.Format("2006-01-02") // 开区间端点

	// 5. 归桶与汇总
	bucketMs := make(map[string]int64)
	bucketSessions := make(map[string]int)
	var totalMs int64
	rows := make([]dto.ReportRow, 0)
	active := make([]dto.ReportRow, 0)
	now := s.now()

	for i := range records {
		r := &records[i]
		// 按开班日期过滤，window 为 ISO 日期字符串可直接比较
		workDate := r.WorkDate.String()
		if workDate < startDate || workDate >= endDate {
			continue
		}

		row := s.toReportRow(r, nameByID[r.UserID], now)

		if !r.IsEnded() {
			active = append(active, row)
			continue
		}

		bucketMs[workDate] += row.NetMs
		bucketSessions[workDate]++
		totalMs += row.NetMs
		rows = append(rows, row)
	}

	// 6. 出桶：短窗口密集填充（图表需要零柱），长窗口只出有数据的日期
	var buckets []dto.DayBucket
	days := int(end.Sub(start).Hours() / 24)
	if days <= denseBucketMaxDays {
		for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
			date := d.Format("2006-01-02")
			buckets = append(buckets, dto.DayBucket{
				Date:     date,
				NetMs:    bucketMs[date],
				Display:  FormatDuration(bucketMs[date]),
				Sessions: bucketSessions[date],
			})
		}
	} else {
		dates := make([]string, 0, len(bucketMs))
		for date := range bucketMs {
			dates = append(dates, date)
		}
		sort.Strings(dates)
		for _, date := range dates {
			buckets = append(buckets, dto.DayBucket{
				Date:     date,
				NetMs:    bucketMs[date],
				Display:  FormatDuration(bucketMs[date]),
				Sessions: bucketSessions[date],
			})
		}
	}

	return &dto.ReportResponse{
		Buckets:      buckets,
		TotalMs:      totalMs,
		TotalDisplay: FormatDuration(totalMs),
		Rows:         rows,
		Active:       active,
	}, nil
}

// resolveWindow 解析统计窗口，返回 [start, end)（本地时区零点）
func (s *reportService) resolveWindow(req *dto.ReportRequest) (time.Time, time.Time, error) {
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	period := req.Period
	if period == "" {
		period = dto.PeriodWeek
	}

	switch period {
	case dto.PeriodToday:
		return today, today.AddDate(0, 0, 1), nil
	case dto.PeriodWeek:
		// 周一起点
		offset := (int(today.Weekday()) + 6) % 7
		monday := today.AddDate(0, 0, -offset)
		return monday, monday.AddDate(0, 0, 7), nil
	case dto.PeriodMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
		return first, first.AddDate(0, 1, 0), nil
	case dto.PeriodYear:
		first := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, s.loc)
		return first, first.AddDate(1, 0, 0), nil
	case dto.PeriodCustom:
		if req.StartDate == "" || req.EndDate == "" {
			return time.Time{}, time.Time{}, ErrInvalidDateRange
		}
		start, err := time.ParseInLocation("2006-01-02", req.StartDate, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDateRange
		}
		endIncl, err := time.ParseInLocation("2006-01-02", req.EndDate, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDateRange
		}
		if endIncl.Before(start) {
			return time.Time{}, time.Time{}, ErrInvalidDateRange
		}
		// 请求里的 end_date 为闭区间，内部统一转开区间
		return start, endIncl.AddDate(0, 0, 1), nil
	default:
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
}

// toReportRow 转换单条记录为报表行
func (s *reportService) toReportRow(r *model.ShiftRecord, userName string, now time.Time) dto.ReportRow {
	netMs := model.ClampMs(r.ElapsedNet(now))
	row := dto.ReportRow{
		RecordID:      r.RecordID,
		Date:          r.WorkDate.String(),
		UserID:        r.UserID,
		UserName:      userName,
		SiteName:      r.SiteName,
		StartTime:     r.StartTime.In(s.loc).Format("15:04"),
		EndTime:       "Active",
		NetMs:         netMs,
		Display:       FormatDuration(netMs),
		SafetyChecked: r.Checklist.CheckedCount(),
		StartLocation: r.StartLocation,
		EndLocation:   r.EndLocation,
		Completed:     r.IsEnded(),
	}
	if r.EndTime != nil {
		row.EndTime = r.EndTime.In(s.loc).Format("15:04")
	}
	return row
}

// ════════════════════════════════════════════════════════════
// Dashboard — 总控台实时视图
// ════════════════════════════════════════════════════════════

func (s *reportService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	// 1. 缓存命中直接返回
	if s.rdb != nil {
		var cached dto.DashboardResponse
		hit, err := s.rdb.GetJSON(ctx, dashboardCacheKey, &cached)
		if err != nil {
			s.logger.Warn("总控台缓存读取失败", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	// 2. 进行中会话
	records, err := s.repo.ShiftRecord.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询进行中记录失败", zap.Error(err))
		return nil, err
	}

	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}
	nameByID := make(map[string]string, len(users))
	for _, u := range users {
		nameByID[u.UserID] = u.Name
	}

	sessions := make([]dto.ActiveSessionInfo, 0, len(records))
	for i := range records {
		r := &records[i]
		sessions = append(sessions, dto.ActiveSessionInfo{
			RecordID:      r.RecordID,
			UserID:        r.UserID,
			UserName:      nameByID[r.UserID],
			SiteName:      r.SiteName,
			StartTime:     r.StartTime.In(s.loc).Format(time.RFC3339),
			IsPaused:      r.IsPaused,
			StartLocation: r.StartLocation,
		})
	}

	// 3. 今日任务数
	today := s.now().In(s.loc).Format("2006-01-02")
	totalToday, err := s.repo.ShiftRecord.CountByDate(ctx, today)
	if err != nil {
		s.logger.Error("查询今日任务数失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.DashboardResponse{
		ActiveCount: len(sessions),
		TotalToday:  totalToday,
		Sessions:    sessions,
	}

	if s.rdb != nil {
		if err := s.rdb.SetJSON(ctx, dashboardCacheKey, resp, dashboardCacheTTL); err != nil {
			s.logger.Warn("总控台缓存写入失败", zap.Error(err))
		}
	}

	return resp, nil
}

// FormatDuration 毫秒时长转 "Xh Ymin"（向下取整）
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3_600_000
	minutes := (ms % 3_600_000) / 60_000
	return fmt.Sprintf("%dh %dmin", hours, minutes)
}
