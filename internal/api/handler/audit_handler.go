package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roster-guard/internal/dto"
	"roster-guard/internal/service"
	"roster-guard/pkg/response"
)

// AuditHandler 每日审计 HTTP 处理器
type AuditHandler struct {
	auditSvc  service.AuditService
	exportSvc service.ExportService
	loc       *time.Location
	logger    *zap.Logger
}

// NewAuditHandler 创建 AuditHandler
func NewAuditHandler(auditSvc service.AuditService, exportSvc service.ExportService, loc *time.Location, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc, exportSvc: exportSvc, loc: loc, logger: logger}
}

// RunDaily 手动触发每日审计
// POST /api/v1/audits/daily
func (h *AuditHandler) RunDaily(c *gin.Context) {
	operator, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	var req dto.RunAuditRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 30001, "invalid request body")
			return
		}
	}

	date, err := dto.ParseDate(req.Date, h.loc)
	if err != nil {
		response.BadRequest(c, 30001, err.Error())
		return
	}

	h.logger.Info("手动触发每日审计",
		zap.String("operator", operator),
		zap.String("date", date.Format(dto.DateLayout)),
	)
	result, err := h.auditSvc.RunDailyAudit(c.Request.Context(), date)
	if err != nil {
		h.handleAuditError(c, err)
		return
	}

	response.OK(c, dto.NewAuditResponse(result))
}

// List 审计历史
// GET /api/v1/audits?date=&page=&page_size=
func (h *AuditHandler) List(c *gin.Context) {
	var req dto.AuditLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 30001, "invalid query parameters")
		return
	}

	var date *time.Time
	if req.Date != "" {
		d, err := dto.ParseDate(req.Date, h.loc)
		if err != nil {
			response.BadRequest(c, 30001, err.Error())
			return
		}
		date = &d
	}

	logs, total, err := h.auditSvc.ListLogs(c.Request.Context(), date, req.GetPage(), req.GetPageSize())
	if err != nil {
		h.handleAuditError(c, err)
		return
	}

	list := make([]dto.AuditLogResponse, 0, len(logs))
	for i := range logs {
		list = append(list, dto.NewAuditLogResponse(&logs[i]))
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Export 导出审计日志为 Excel
// GET /api/v1/audits/:id/export
func (h *AuditHandler) Export(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 30001, "invalid audit log id")
		return
	}

	buf, filename, err := h.exportSvc.ExportAuditLog(c.Request.Context(), id)
	if err != nil {
		h.handleAuditError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *AuditHandler) handleAuditError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAuditInProgress):
		response.Conflict(c, 30002, "audit for this date is already running")
	case errors.Is(err, service.ErrAuditLogNotFound):
		response.NotFound(c, 30003, "audit log not found")
	case errors.Is(err, service.ErrExportCorruptLog):
		response.Error(c, http.StatusUnprocessableEntity, 30004, "stored audit issues cannot be decoded")
	default:
		response.InternalError(c)
	}
}
