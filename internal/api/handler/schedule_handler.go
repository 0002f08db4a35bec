package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/victorxmota/downeycleaning/internal/dto"
	"github.com/victorxmota/downeycleaning/internal/service"
	"github.com/victorxmota/downeycleaning/pkg/response"
)

// ScheduleHandler 排班模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// CreateItem 创建排班项（管理员）
// POST /api/v1/schedules
func (h *ScheduleHandler) CreateItem(c *gin.Context) {
	var req dto.CreateScheduleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateItem 更新排班项（管理员）
// PATCH /api/v1/schedules/:id
func (h *ScheduleHandler) UpdateItem(c *gin.Context) {
	var req dto.UpdateScheduleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteItem 删除排班项（管理员）
// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) DeleteItem(c *gin.Context) {
	if err := h.scheduleSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListMine 本人排班
// GET /api/v1/schedules/me
func (h *ScheduleHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	items, err := h.scheduleSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, items)
}

// ListAll 全员排班（管理员）
// GET /api/v1/schedules
func (h *ScheduleHandler) ListAll(c *gin.Context) {
	items, err := h.scheduleSvc.ListAll(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, items)
}

// ExportICS 本人排班导出为日历订阅
// GET /api/v1/schedules/me/ics
func (h *ScheduleHandler) ExportICS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	content, filename, err := h.scheduleSvc.ExportICS(c.Request.Context(), userID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}

func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleItemNotFound):
		response.NotFound(c, 23001, "排班项不存在")
	case errors.Is(err, service.ErrScheduleUserMissing):
		response.BadRequest(c, 23002, "排班目标用户不存在")
	case errors.Is(err, service.ErrScheduleEmpty):
		response.NotFound(c, 23003, "该员工暂无排班")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 20001, "用户不存在")
	default:
		response.InternalError(c)
	}
}
