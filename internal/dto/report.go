package dto

import "github.com/victorxmota/downeycleaning/internal/model"

// ── 报表模块 DTO ──

// 统计周期预设
const (
	PeriodToday  = "today"
	PeriodWeek   = "week" // 周一为一周起点
	PeriodMonth  = "month"
	PeriodYear   = "year"
	PeriodCustom = "custom"
)

// ReportRequest 工时报表查询参数
type ReportRequest struct {
	Period string `form:"period" binding:"omitempty,oneof=today week month year custom"`
	// StartDate/EndDate 仅 period=custom 时使用，格式 2006-01-02，闭区间
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"omitempty,datetime=2006-01-02"`
	// UserID 员工过滤："all" 或具体用户 ID；非管理员忽略该参数强制为本人
	UserID string `form:"user_id" binding:"omitempty,max=40"`
}

// DayBucket 单日工时桶
type DayBucket struct {
	Date     string `json:"date"` // 2006-01-02
	NetMs    int64  `json:"net_ms"`
	Display  string `json:"display"` // "Xh Ymin"
	Sessions int    `json:"sessions"`
}

// ReportRow 报表明细行（与源系统报表列一致）
type ReportRow struct {
	RecordID      string          `json:"record_id"`
	Date          string          `json:"date"`
	UserID        string          `json:"user_id"`
	UserName      string          `json:"user_name"`
	SiteName      string          `json:"site_name"`
	StartTime     string          `json:"start_time"` // HH:mm
	EndTime       string          `json:"end_time"`   // HH:mm，进行中为 "Active"
	NetMs         int64           `json:"net_ms"`
	Display       string          `json:"display"`
	SafetyChecked int             `json:"safety_checked"`
	StartLocation *model.GeoPoint `json:"start_location,omitempty"`
	EndLocation   *model.GeoPoint `json:"end_location,omitempty"`
	Completed     bool            `json:"completed"`
}

// ReportResponse 工时报表响应
// 进行中的记录不计入桶和总计，单独在 Active 中列出
type ReportResponse struct {
	Buckets      []DayBucket `json:"buckets"`
	TotalMs      int64       `json:"total_ms"`
	TotalDisplay string      `json:"total_display"`
	Rows         []ReportRow `json:"rows"`
	Active       []ReportRow `json:"active"`
}

// ── 总控台 DTO ──

// ActiveSessionInfo 进行中会话（含员工信息）
type ActiveSessionInfo struct {
	RecordID      string          `json:"record_id"`
	UserID        string          `json:"user_id"`
	UserName      string          `json:"user_name"`
	SiteName      string          `json:"site_name"`
	StartTime     string          `json:"start_time"`
	IsPaused      bool            `json:"is_paused"`
	StartLocation *model.GeoPoint `json:"start_location,omitempty"`
}

// DashboardResponse 总控台实时视图响应
type DashboardResponse struct {
	ActiveCount int                 `json:"active_count"`
	TotalToday  int64               `json:"total_today"`
	Sessions    []ActiveSessionInfo `json:"sessions"`
}
