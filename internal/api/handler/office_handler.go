package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/victorxmota/downeycleaning/internal/dto"
	"github.com/victorxmota/downeycleaning/internal/service"
	"github.com/victorxmota/downeycleaning/pkg/response"
)

// OfficeHandler 办公点模块 HTTP 处理器
type OfficeHandler struct {
	officeSvc service.OfficeService
}

// NewOfficeHandler 创建 OfficeHandler
func NewOfficeHandler(officeSvc service.OfficeService) *OfficeHandler {
	return &OfficeHandler{officeSvc: officeSvc}
}

// CreateOffice 创建办公点（管理员）
// POST /api/v1/offices
func (h *OfficeHandler) CreateOffice(c *gin.Context) {
	var req dto.CreateOfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.officeSvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// ListOffices 办公点列表
// GET /api/v1/offices
func (h *OfficeHandler) ListOffices(c *gin.Context) {
	offices, err := h.officeSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, offices)
}

// GetOffice 办公点详情
// GET /api/v1/offices/:id
func (h *OfficeHandler) GetOffice(c *gin.Context) {
	result, err := h.officeSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleOfficeError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateOffice 更新办公点（管理员）
// PATCH /api/v1/offices/:id
func (h *OfficeHandler) UpdateOffice(c *gin.Context) {
	var req dto.UpdateOfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.officeSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleOfficeError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteOffice 删除办公点（管理员，不影响历史打卡快照）
// DELETE /api/v1/offices/:id
func (h *OfficeHandler) DeleteOffice(c *gin.Context) {
	if err := h.officeSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleOfficeError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *OfficeHandler) handleOfficeError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrOfficeNotFound) {
		response.NotFound(c, 24001, "办公点不存在")
		return
	}
	response.InternalError(c)
}
