package dto

// ── 排班模块 DTO ──

// CreateScheduleItemRequest 创建排班条目请求
type CreateScheduleItemRequest struct {
	UserID      string  `json:"user_id" binding:"required,uuid"`
	SiteName    string  `json:"site_name" binding:"required,max=200"`
	SiteAddress string  `json:"site_address" binding:"omitempty,max=300"`
	DayOfWeek   int     `json:"day_of_week" binding:"min=0,max=6"` // 0=周日
	HoursPerDay float64 `json:"hours_per_day" binding:"required,gt=0,lte=24"`
	Notes       *string `json:"notes" binding:"omitempty,max=500"`
}

// UpdateScheduleItemRequest 更新排班条目请求，零值字段不更新
type UpdateScheduleItemRequest struct {
	SiteName    *string  `json:"site_name" binding:"omitempty,max=200"`
	SiteAddress *string  `json:"site_address" binding:"omitempty,max=300"`
	DayOfWeek   *int     `json:"day_of_week" binding:"omitempty,min=0,max=6"`
	HoursPerDay *float64 `json:"hours_per_day" binding:"omitempty,gt=0,lte=24"`
	Notes       *string  `json:"notes" binding:"omitempty,max=500"`
}

// ScheduleItemResponse 排班条目响应
type ScheduleItemResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	UserName    string  `json:"user_name,omitempty"`
	SiteName    string  `json:"site_name"`
	SiteAddress string  `json:"site_address,omitempty"`
	DayOfWeek   int     `json:"day_of_week"`
	HoursPerDay float64 `json:"hours_per_day"`
	Notes       *string `json:"notes,omitempty"`
}
