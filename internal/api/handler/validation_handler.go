package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roster-guard/internal/dto"
	"roster-guard/internal/service"
	"roster-guard/pkg/response"
)

// ValidationHandler 排班校验 HTTP 处理器
type ValidationHandler struct {
	validationSvc service.ValidationService
	loc           *time.Location
	logger        *zap.Logger
}

// NewValidationHandler 创建 ValidationHandler
func NewValidationHandler(validationSvc service.ValidationService, loc *time.Location, logger *zap.Logger) *ValidationHandler {
	return &ValidationHandler{validationSvc: validationSvc, loc: loc, logger: logger}
}

// Validate 校验拟排班
// POST /api/v1/schedules/validate
//
// 员工或活动不存在时仍返回 200：{success:false, error}，便于前端内联展示
func (h *ValidationHandler) Validate(c *gin.Context) {
	var req dto.ValidateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "invalid request body")
		return
	}

	at, err := dto.ParseDateTime(req.ScheduleDatetime, h.loc)
	if err != nil {
		response.BadRequest(c, 20002, err.Error())
		return
	}

	result, err := h.validationSvc.ValidateSchedule(c.Request.Context(), service.ValidateScheduleInput{
		EmployeeID:       req.EmployeeID,
		EventID:          req.EventID,
		ScheduleDatetime: at,
		DurationMinutes:  req.DurationMinutes,
	})
	if err != nil {
		var lookupErr *service.LookupError
		if errors.As(err, &lookupErr) {
			response.JSON(c, dto.ValidationFailureResponse{Success: false, Error: lookupErr.Error()})
			return
		}
		h.logger.Error("排班校验失败",
			zap.String("employee_id", req.EmployeeID),
			zap.Int64("event_id", req.EventID),
			zap.Error(err),
		)
		response.InternalError(c)
		return
	}

	response.JSON(c, dto.NewValidateScheduleResponse(result))
}
