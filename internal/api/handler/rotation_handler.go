package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"roster-guard/internal/dto"
	"roster-guard/internal/model"
	"roster-guard/internal/service"
	"roster-guard/pkg/response"
)

// RotationHandler 轮值 HTTP 处理器
type RotationHandler struct {
	rotationSvc service.RotationService
	loc         *time.Location
}

// NewRotationHandler 创建 RotationHandler
func NewRotationHandler(rotationSvc service.RotationService, loc *time.Location) *RotationHandler {
	return &RotationHandler{rotationSvc: rotationSvc, loc: loc}
}

// Get 查询某日某角色的生效员工
// GET /api/v1/rotations/:role?date=YYYY-MM-DD
func (h *RotationHandler) Get(c *gin.Context) {
	role := c.Param("role")
	if !service.IsKnownRole(role) {
		response.BadRequest(c, 40001, "unknown rotation role")
		return
	}

	var q dto.RotationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 40001, "invalid query parameters")
		return
	}
	date, err := dto.ParseDate(q.Date, h.loc)
	if err != nil {
		response.BadRequest(c, 40001, err.Error())
		return
	}

	result, err := h.rotationSvc.GetRotationEmployee(c.Request.Context(), date, role)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, dto.NewRotationResponse(role, date.Format(dto.DateLayout), result))
}

// Calendar 导出轮值日历
// GET /api/v1/rotations/calendar.ics?from=YYYY-MM-DD&days=N&roles=juicer,primary_lead
func (h *RotationHandler) Calendar(c *gin.Context) {
	var q dto.RotationCalendarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 40001, "invalid query parameters")
		return
	}
	from, err := dto.ParseDate(q.From, h.loc)
	if err != nil {
		response.BadRequest(c, 40001, err.Error())
		return
	}

	roles := []string{model.RoleJuicer, model.RolePrimaryLead}
	if q.Roles != "" {
		roles = roles[:0]
		for _, r := range strings.Split(q.Roles, ",") {
			if r = strings.TrimSpace(r); r != "" {
				roles = append(roles, r)
			}
		}
	}

	out, err := h.rotationSvc.BuildCalendar(c.Request.Context(), from, q.Days, roles)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownRole), errors.Is(err, service.ErrCalendarTooLarge):
			response.BadRequest(c, 40001, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=rotations_%s.ics", from.Format(dto.DateLayout)))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(out))
}
