package dto

import "roster-guard/internal/service"

// ── 排班校验 DTO ──

// ValidateScheduleRequest 排班校验请求
type ValidateScheduleRequest struct {
	EmployeeID       string `json:"employee_id"       binding:"required,max=50"`
	EventID          int64  `json:"event_id"          binding:"required"` // 主键或业务编号
	ScheduleDatetime string `json:"schedule_datetime" binding:"required"` // ISO-8601
	DurationMinutes  *int   `json:"duration_minutes"  binding:"omitempty,min=1,max=1440"`
}

// ViolationResponse 单条违规
type ViolationResponse struct {
	Type     string                 `json:"type"`
	Severity string                 `json:"severity"` // error | warning
	Message  string                 `json:"message"`
	Detail   map[string]interface{} `json:"detail"`
}

// ValidateScheduleResponse 排班校验结果
type ValidateScheduleResponse struct {
	Valid     bool                `json:"valid"`
	Conflicts []ViolationResponse `json:"conflicts"`
	Warnings  []ViolationResponse `json:"warnings"`
	Severity  string              `json:"severity"` // error | warning | success
}

// ValidationFailureResponse 前置条件失败（员工/活动不存在），以 200 返回
type ValidationFailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewValidateScheduleResponse 将校验结果转换为对外契约
func NewValidateScheduleResponse(r *service.ValidationResult) ValidateScheduleResponse {
	resp := ValidateScheduleResponse{
		Valid:     r.IsValid,
		Conflicts: toViolationResponses(r.Conflicts(), "error"),
		Warnings:  toViolationResponses(r.Warnings(), "warning"),
	}
	switch {
	case len(resp.Conflicts) > 0:
		resp.Severity = "error"
	case len(resp.Warnings) > 0:
		resp.Severity = "warning"
	default:
		resp.Severity = "success"
	}
	return resp
}

func toViolationResponses(vs []service.Violation, severity string) []ViolationResponse {
	out := make([]ViolationResponse, 0, len(vs))
	for _, v := range vs {
		detail := v.Detail
		if detail == nil {
			detail = map[string]interface{}{}
		}
		out = append(out, ViolationResponse{
			Type:     v.Type,
			Severity: severity,
			Message:  v.Message,
			Detail:   detail,
		})
	}
	return out
}
