package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"roster-guard/internal/model"
	"roster-guard/internal/repository"
)

// ── 校验模块前置条件错误 ──

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEventNotFound    = errors.New("event not found")
)

// LookupError 前置条件失败：员工或活动不存在，发生在任何规则执行之前
type LookupError struct {
	Entity string // "employee" | "event"
	Key    string
}

func (e *LookupError) Error() string {
	if e.Entity == "employee" {
		return fmt.Sprintf("Employee %s not found", e.Key)
	}
	return fmt.Sprintf("Event %s not found", e.Key)
}

// Is 支持 errors.Is(err, ErrEmployeeNotFound / ErrEventNotFound)
func (e *LookupError) Is(target error) bool {
	switch target {
	case ErrEmployeeNotFound:
		return e.Entity == "employee"
	case ErrEventNotFound:
		return e.Entity == "event"
	}
	return false
}

// ValidateScheduleInput 拟排班
type ValidateScheduleInput struct {
	EmployeeID       string
	EventID          int64 // 主键，未命中时按业务编号回退
	ScheduleDatetime time.Time
	DurationMinutes  *int
}

// ValidationService 冲突校验接口
type ValidationService interface {
	ValidateSchedule(ctx context.Context, in ValidateScheduleInput) (*ValidationResult, error)
}

type validationService struct {
	repo   *repository.Repository
	rules  []ScheduleRule
	loc    *time.Location
	logger *zap.Logger
}

// NewValidationService 创建 ValidationService 实例；不持有任何可变状态，可并发调用
func NewValidationService(repo *repository.Repository, proximityWindow time.Duration, loc *time.Location, logger *zap.Logger) ValidationService {
	return newValidationServiceWithRules(repo, NewRuleSet(repo, proximityWindow), loc, logger)
}

func newValidationServiceWithRules(repo *repository.Repository, rules []ScheduleRule, loc *time.Location, logger *zap.Logger) *validationService {
	if loc == nil {
		loc = time.UTC
	}
	return &validationService{repo: repo, rules: rules, loc: loc, logger: logger}
}

func (s *validationService) ValidateSchedule(ctx context.Context, in ValidateScheduleInput) (*ValidationResult, error) {
	employee, err := s.repo.Employee.GetByID(ctx, in.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &LookupError{Entity: "employee", Key: in.EmployeeID}
		}
		s.logger.Error("查询员工失败", zap.String("employee_id", in.EmployeeID), zap.Error(err))
		return nil, err
	}

	event, err := s.resolveEvent(ctx, in.EventID)
	if err != nil {
		return nil, err
	}

	start := in.ScheduleDatetime.In(s.loc)
	minutes := resolveDurationMinutes(in.DurationMinutes, event)
	ruleIn := &RuleInput{
		Employee: employee,
		Event:    event,
		Start:    start,
		Duration: time.Duration(minutes) * time.Minute,
		Date:     model.DateOf(start, s.loc),
		Location: s.loc,
	}

	result := &ValidationResult{
		EmployeeID:       employee.EmployeeID,
		EventID:          event.EventID,
		ScheduleDatetime: start,
		DurationMinutes:  minutes,
		Violations:       make([]Violation, 0),
	}
	for _, rule := range s.rules {
		result.Violations = append(result.Violations, s.runRule(ctx, rule, ruleIn)...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.IsValid = !hasHard(result.Violations)
	return result, nil
}

// resolveEvent 先按主键查找，未命中再按业务编号查找
func (s *validationService) resolveEvent(ctx context.Context, id int64) (*model.Event, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err == nil {
		return event, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询活动失败", zap.Int64("event_id", id), zap.Error(err))
		return nil, err
	}

	event, err = s.repo.Event.GetByRefNum(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &LookupError{Entity: "event", Key: fmt.Sprintf("%d", id)}
		}
		s.logger.Error("按业务编号查询活动失败", zap.Int64("ref_num", id), zap.Error(err))
		return nil, err
	}
	return event, nil
}

// runRule 隔离单条规则：错误或 panic 转为 SOFT 评估错误，不影响其余规则
func (s *validationService) runRule(ctx context.Context, rule ScheduleRule, in *RuleInput) (out []Violation) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("规则执行异常",
				zap.String("rule", rule.Name()),
				zap.String("employee_id", in.Employee.EmployeeID),
				zap.Int64("event_id", in.Event.EventID),
				zap.Any("panic", r),
			)
			out = []Violation{evaluationError(rule.Name(), fmt.Errorf("panic: %v", r))}
		}
	}()

	violations, err := rule.Evaluate(ctx, in)
	if err != nil {
		s.logger.Warn("规则执行失败",
			zap.String("rule", rule.Name()),
			zap.String("employee_id", in.Employee.EmployeeID),
			zap.Int64("event_id", in.Event.EventID),
			zap.Error(err),
		)
		return []Violation{evaluationError(rule.Name(), err)}
	}
	return violations
}

func evaluationError(rule string, err error) Violation {
	return Violation{
		Type:     ConstraintRuleEvaluationError,
		Severity: SeveritySoft,
		Message:  fmt.Sprintf("Could not evaluate %s check", rule),
		Detail: map[string]interface{}{
			"rule":  rule,
			"error": err.Error(),
		},
	}
}

// resolveDurationMinutes 显式时长 → 活动预计时长 → 类别默认时长
func resolveDurationMinutes(explicit *int, event *model.Event) int {
	if explicit != nil && *explicit > 0 {
		return *explicit
	}
	return event.EstimatedMinutes()
}
