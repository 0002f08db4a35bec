package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/victorxmota/downeycleaning/internal/dto"
	"github.com/victorxmota/downeycleaning/internal/service"
	"github.com/victorxmota/downeycleaning/pkg/response"
)

// ShiftHandler 打卡模块 HTTP 处理器
//
// 开班/收班请求为 multipart 表单：payload 域为 JSON 业务参数，
// photo 域为可选的照片文件。无照片时也接受纯 JSON 请求体。
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// StartShift 开班
// POST /api/v1/shifts/start
func (h *ShiftHandler) StartShift(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.StartShiftRequest
	photo, contentType, ok := bindMultipartPayload(c, &req)
	if !ok {
		return
	}

	result, warning, err := h.shiftSvc.StartShift(c.Request.Context(), userID, &req, photo, contentType)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	if warning != "" {
		response.OKWithWarning(c, result, warning)
		return
	}
	response.Created(c, result)
}

// TogglePause 暂停/恢复切换
// POST /api/v1/shifts/pause
func (h *ShiftHandler) TogglePause(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.shiftSvc.TogglePause(c.Request.Context(), userID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, result)
}

// EndShift 收班
// POST /api/v1/shifts/:id/end
func (h *ShiftHandler) EndShift(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.EndShiftRequest
	photo, contentType, ok := bindMultipartPayload(c, &req)
	if !ok {
		return
	}

	result, warning, err := h.shiftSvc.EndShift(c.Request.Context(), c.Param("id"), userID, IsAdmin(c), &req, photo, contentType)
	if err != nil {
		// 收班已落盘、仅照片上传失败：按成功返回并提示携带照片重新提交补传
		if errors.Is(err, service.ErrEndPhotoUpload) && result != nil {
			response.OKWithWarning(c, result, warning)
			return
		}
		h.handleShiftError(c, err)
		return
	}

	if warning != "" {
		response.OKWithWarning(c, result, warning)
		return
	}
	response.OK(c, result)
}

// GetActive 查询本人进行中的记录
// GET /api/v1/shifts/active
func (h *ShiftHandler) GetActive(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.shiftSvc.GetActive(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	// 无进行中记录时 data 为 null，前端据此渲染开班页
	response.OK(c, result)
}

// SiteOptions 打卡页地点下拉项
// GET /api/v1/shifts/sites
func (h *ShiftHandler) SiteOptions(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	options, err := h.shiftSvc.SiteOptions(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, options)
}

// ListMine 本人打卡历史
// GET /api/v1/shifts
func (h *ShiftHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	records, err := h.shiftSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, records)
}

// AdminUpdateShift 管理员更正打卡记录
// PATCH /api/v1/shifts/:id
func (h *ShiftHandler) AdminUpdateShift(c *gin.Context) {
	var req dto.AdminUpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.shiftSvc.AdminUpdate(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, result)
}

// AdminDeleteShift 管理员删除打卡记录
// DELETE /api/v1/shifts/:id
func (h *ShiftHandler) AdminDeleteShift(c *gin.Context) {
	if err := h.shiftSvc.AdminDelete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleShiftError 打卡模块业务错误映射
func (h *ShiftHandler) handleShiftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrActiveSessionExists):
		response.Conflict(c, 21001, "已有进行中的打卡记录")
	case errors.Is(err, service.ErrNoActiveSession):
		response.NotFound(c, 21002, "当前没有进行中的打卡记录")
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 21003, "打卡记录不存在")
	case errors.Is(err, service.ErrNotRecordOwner):
		response.Forbidden(c, 21004, "无权操作他人的打卡记录")
	case errors.Is(err, service.ErrLocationRequired):
		response.BadRequest(c, 21005, "当前策略要求提供定位后方可打卡")
	case errors.Is(err, service.ErrLowSafetyChecklist):
		// 客户端据此弹二次确认，带 confirm_low_safety 重新提交
		response.BadRequest(c, 21006, "安全核对项勾选过少，请确认后重试")
	case errors.Is(err, service.ErrPauseConflict):
		response.Conflict(c, 21007, "状态已被其他请求变更，请刷新后重试")
	case errors.Is(err, service.ErrPhotoUpload):
		response.Error(c, 502, 21008, "照片上传失败，请重试")
	case errors.Is(err, service.ErrEndPhotoUpload):
		response.Error(c, 502, 21010, "收班照片上传失败，请重新提交补传")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 21009, "结束时间不能早于开始时间")
	default:
		response.InternalError(c)
	}
}

// bindMultipartPayload 解析打卡请求体。
// multipart 时取 payload 域 JSON + photo 文件域；其余按纯 JSON 处理。
// 返回 ok=false 时已写入 400 响应。
func bindMultipartPayload(c *gin.Context, req interface{}) (photo []byte, contentType string, ok bool) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		payload := c.PostForm("payload")
		if payload == "" {
			response.BadRequest(c, 10001, "缺少 payload 域")
			return nil, "", false
		}
		if err := json.Unmarshal([]byte(payload), req); err != nil {
			response.BadRequest(c, 10001, "payload 解析失败")
			return nil, "", false
		}
		if err := binding.Validator.ValidateStruct(req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return nil, "", false
		}

		file, err := c.FormFile("photo")
		if err == nil {
			data, ct, rerr := readUpload(file)
			if rerr != nil {
				response.BadRequest(c, 10001, "照片读取失败")
				return nil, "", false
			}
			return data, ct, true
		}
		return nil, "", true
	}

	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return nil, "", false
	}
	return nil, "", true
}

// readUpload 读取上传文件内容与 Content-Type
func readUpload(fh *multipart.FileHeader) ([]byte, string, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "image/jpeg"
	}
	return data, ct, nil
}
