package dto

import "github.com/victorxmota/downeycleaning/internal/model"

// ── 打卡模块 DTO ──

// 定位失败原因（设备端上报的类型化失败信号）
const (
	LocationFailurePermission  = "permission_denied"
	LocationFailureUnavailable = "unavailable"
	LocationFailureTimeout     = "timeout"
)

// StartShiftRequest 开班请求（multipart 表单的 payload 部分，照片另走文件域）
type StartShiftRequest struct {
	SiteName       string                `json:"site_name"    binding:"required,min=1,max=100"`
	SiteAddress    string                `json:"site_address" binding:"omitempty,max=200"`
	ScheduleItemID *string               `json:"schedule_item_id" binding:"omitempty,uuid"`
	Checklist      model.SafetyChecklist `json:"checklist"`
	Location       *model.GeoPoint       `json:"location"`
	// LocationFailure 定位失败原因；Location 为空时用于区分权限拒绝与临时失败
	LocationFailure string  `json:"location_failure" binding:"omitempty,oneof=permission_denied unavailable timeout"`
	Notes           *string `json:"notes" binding:"omitempty,max=2000"`
	// ConfirmLowSafety 勾选项过少时的二次确认（软提醒可覆盖，非校验错误）
	ConfirmLowSafety bool `json:"confirm_low_safety"`
}

// EndShiftRequest 收班请求
type EndShiftRequest struct {
	Location        *model.GeoPoint `json:"location"`
	LocationFailure string          `json:"location_failure" binding:"omitempty,oneof=permission_denied unavailable timeout"`
	Notes           *string         `json:"notes" binding:"omitempty,max=2000"`
}

// ShiftRecordResponse 打卡记录响应
type ShiftRecordResponse struct {
	ID            string                `json:"id"`
	UserID        string                `json:"user_id"`
	SiteName      string                `json:"site_name"`
	SiteAddress   string                `json:"site_address,omitempty"`
	WorkDate      string                `json:"work_date"`
	StartTime     string                `json:"start_time"`
	EndTime       string                `json:"end_time,omitempty"`
	Checklist     model.SafetyChecklist `json:"checklist"`
	StartPhotoURL string                `json:"start_photo_url,omitempty"`
	EndPhotoURL   string                `json:"end_photo_url,omitempty"`
	StartLocation *model.GeoPoint       `json:"start_location,omitempty"`
	EndLocation   *model.GeoPoint       `json:"end_location,omitempty"`
	IsPaused      bool                  `json:"is_paused"`
	PausedAt      string                `json:"paused_at,omitempty"`
	PausedMs      int64                 `json:"paused_ms"`
	Notes         string                `json:"notes,omitempty"`
	// ElapsedMs 截断后的净工作时长（毫秒），进行中记录按服务器当前时间计算
	ElapsedMs int64 `json:"elapsed_ms"`
}

// SiteOption 打卡页地点下拉项（来自员工排班的去重地点）
type SiteOption struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// AdminUpdateShiftRequest 管理员更正打卡记录请求
// 时间字段为 RFC3339；更正已结束记录时服务端校验 end >= start
type AdminUpdateShiftRequest struct {
	SiteName  *string `json:"site_name"  binding:"omitempty,min=1,max=100"`
	StartTime *string `json:"start_time" binding:"omitempty"`
	EndTime   *string `json:"end_time"   binding:"omitempty"`
	PausedMs  *int64  `json:"paused_ms"  binding:"omitempty,min=0"`
	Notes     *string `json:"notes"      binding:"omitempty,max=2000"`
}
