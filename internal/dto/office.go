package dto

import "github.com/victorxmota/downeycleaning/internal/model"

// ── 站点模块 DTO ──

// CreateOfficeRequest 创建站点请求
type CreateOfficeRequest struct {
	Name            string                  `json:"name" binding:"required,max=200"`
	Eircode         string                  `json:"eircode" binding:"omitempty,max=10"`
	Address         string                  `json:"address" binding:"omitempty,max=300"`
	DefaultSchedule []model.OfficeDayConfig `json:"default_schedule" binding:"omitempty,dive"`
}

// UpdateOfficeRequest 更新站点请求
type UpdateOfficeRequest struct {
	Name            *string                 `json:"name" binding:"omitempty,max=200"`
	Eircode         *string                 `json:"eircode" binding:"omitempty,max=10"`
	Address         *string                 `json:"address" binding:"omitempty,max=300"`
	DefaultSchedule []model.OfficeDayConfig `json:"default_schedule" binding:"omitempty,dive"`
}

// OfficeResponse 站点响应
type OfficeResponse struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	Eircode         string                  `json:"eircode,omitempty"`
	Address         string                  `json:"address,omitempty"`
	DefaultSchedule []model.OfficeDayConfig `json:"default_schedule,omitempty"`
}
