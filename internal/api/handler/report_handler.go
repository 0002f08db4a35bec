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

// ReportHandler 报表与总控台 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
	exportSvc service.ExportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService, exportSvc service.ExportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, exportSvc: exportSvc}
}

// GetReport 工时报表
// GET /api/v1/reports?period=week&user_id=all
func (h *ReportHandler) GetReport(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	req, ok := h.bindReportRequest(c)
	if !ok {
		return
	}

	result, err := h.reportSvc.Report(c.Request.Context(), userID, IsAdmin(c), req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, result)
}

// ExportReport 工时报表导出为 Excel
// GET /api/v1/reports/export?period=month
func (h *ReportHandler) ExportReport(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	req, ok := h.bindReportRequest(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportReport(c.Request.Context(), userID, IsAdmin(c), req)
	if err != nil {
		if errors.Is(err, service.ErrExportNoRecords) {
			response.NotFound(c, 26001, "所选范围内无打卡记录")
			return
		}
		h.handleReportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// GetDashboard 总控台实时视图（管理员）
// GET /api/v1/dashboard
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	result, err := h.reportSvc.Dashboard(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// bindReportRequest 绑定报表查询参数。
// 非管理员只看本人的权限收敛在 Service 查询层，此处只做参数校验
func (h *ReportHandler) bindReportRequest(c *gin.Context) (*dto.ReportRequest, bool) {
	var req dto.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return nil, false
	}
	return &req, true
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPeriod):
		response.BadRequest(c, 22001, "统计周期参数无效")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 22002, "自定义日期范围无效")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
