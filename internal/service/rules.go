package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"roster-guard/internal/model"
	"roster-guard/internal/repository"
)

// DefaultProximityWindow 时间邻近规则的检索半径
const DefaultProximityWindow = 2 * time.Hour

// NewRuleSet 按固定顺序构造七条规则；顺序只影响消息排列，不影响结果正确性
func NewRuleSet(repo *repository.Repository, proximityWindow time.Duration) []ScheduleRule {
	if proximityWindow <= 0 {
		proximityWindow = DefaultProximityWindow
	}
	return []ScheduleRule{
		&coreDuplicateRule{repo: repo},
		&unavailabilityRule{repo: repo},
		&timeOffRule{repo: repo},
		&weeklyAvailabilityRule{repo: repo},
		&roleRestrictionRule{},
		&timeProximityRule{repo: repo, window: proximityWindow},
		&dateRangeRule{},
	}
}

// ════════════════════════════════════════════════════════════
// 1. Core 每日唯一
// ════════════════════════════════════════════════════════════

type coreDuplicateRule struct {
	repo *repository.Repository
}

func (r *coreDuplicateRule) Name() string { return "core_duplicate" }

func (r *coreDuplicateRule) Evaluate(ctx context.Context, in *RuleInput) ([]Violation, error) {
	if in.Event.Category != model.CategoryCore {
		return nil, nil
	}

	existing, err := r.repo.Schedule.ListCoreByEmployeeBetween(ctx, in.Employee.EmployeeID, in.Date, in.Date.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("query core schedules: %w", err)
	}

	for _, s := range existing {
		// 同一活动的已有排班视为自身
		if s.EventID == in.Event.EventID {
			continue
		}
		start := s.ScheduleDatetime.In(in.Location)
		end := s.EndTime().In(in.Location)
		name := ""
		var refNum int64
		if s.Event != nil {
			name = s.Event.ProjectName
			refNum = s.Event.ProjectRefNum
		}
		return []Violation{{
			Type:     ConstraintCoreAlreadyScheduled,
			Severity: SeverityHard,
			Message: fmt.Sprintf("%s already has a Core event scheduled on %s: %s (%s - %s)",
				in.Employee.Name, in.Date.Format(detailDateLayout), name,
				start.Format(messageTimeLayout), end.Format(messageTimeLayout)),
			Detail: map[string]interface{}{
				"conflicting_schedule_id": s.ScheduleID,
				"conflicting_event_id":    s.EventID,
				"conflicting_ref_num":     refNum,
				"conflicting_event_name":  name,
				"start_time":              start.Format(detailDatetimeLayout),
				"end_time":                end.Format(detailDatetimeLayout),
			},
		}}, nil
	}
	return nil, nil
}

// ════════════════════════════════════════════════════════════
// 2. 按日期显式不可用
// ════════════════════════════════════════════════════════════

type unavailabilityRule struct {
	repo *repository.Repository
}

func (r *unavailabilityRule) Name() string { return "explicit_unavailability" }

func (r *unavailabilityRule) Evaluate(ctx context.Context, in *RuleInput) ([]Violation, error) {
	record, err := r.repo.Availability.GetByEmployeeAndDate(ctx, in.Employee.EmployeeID, in.Date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query availability: %w", err)
	}
	if record.IsAvailable {
		return nil, nil
	}

	msg := fmt.Sprintf("%s is marked unavailable on %s", in.Employee.Name, in.Date.Format(detailDateLayout))
	if record.Reason != "" {
		msg += ": " + record.Reason
	}
	return []Violation{{
		Type:     ConstraintUnavailable,
		Severity: SeverityHard,
		Message:  msg,
		Detail: map[string]interface{}{
			"date":   in.Date.Format(detailDateLayout),
			"reason": record.Reason,
		},
	}}, nil
}

// ════════════════════════════════════════════════════════════
// 3. 已批准休假
// ════════════════════════════════════════════════════════════

type timeOffRule struct {
	repo *repository.Repository
}

func (r *timeOffRule) Name() string { return "time_off" }

func (r *timeOffRule) Evaluate(ctx context.Context, in *RuleInput) ([]Violation, error) {
	offs, err := r.repo.TimeOff.ListByEmployeeCovering(ctx, in.Employee.EmployeeID, in.Date)
	if err != nil {
		return nil, fmt.Errorf("query time off: %w", err)
	}

	for _, off := range offs {
		if !off.Covers(in.Date) {
			continue
		}
		startDate := off.StartDate.Format(detailDateLayout)
		endDate := off.EndDate.Format(detailDateLayout)
		msg := fmt.Sprintf("%s has approved time off from %s to %s", in.Employee.Name, startDate, endDate)
		if off.Reason != "" {
			msg += " (" + off.Reason + ")"
		}
		return []Violation{{
			Type:     ConstraintTimeOff,
			Severity: SeverityHard,
			Message:  msg,
			Detail: map[string]interface{}{
				"time_off_id": off.TimeOffID,
				"start_date":  startDate,
				"end_date":    endDate,
				"reason":      off.Reason,
			},
		}}, nil
	}
	return nil, nil
}

// ════════════════════════════════════════════════════════════
// 4. 每周可用模式（仅提示）
// ════════════════════════════════════════════════════════════

type weeklyAvailabilityRule struct {
	repo *repository.Repository
}

func (r *weeklyAvailabilityRule) Name() string { return "weekly_availability" }

func (r *weeklyAvailabilityRule) Evaluate(ctx context.Context, in *RuleInput) ([]Violation, error) {
	weekly, err := r.repo.WeeklyAvailability.GetByEmployee(ctx, in.Employee.EmployeeID)
	if err != nil {
		// 未配置每周模式即视为全周可用
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query weekly availability: %w", err)
	}

	idx := model.WeekdayIndex(in.Date)
	if weekly.AvailableOn(idx) {
		return nil, nil
	}
	day := model.WeekdayName(idx)
	return []Violation{{
		Type:     ConstraintWeeklyAvailability,
		Severity: SeveritySoft,
		Message:  fmt.Sprintf("%s is typically not available on %ss", in.Employee.Name, day),
		Detail: map[string]interface{}{
			"weekday": day,
			"date":    in.Date.Format(detailDateLayout),
		},
	}}, nil
}

// ════════════════════════════════════════════════════════════
// 5. 岗位资质
// ════════════════════════════════════════════════════════════

type roleRestrictionRule struct{}

func (r *roleRestrictionRule) Name() string { return "role_restriction" }

func (r *roleRestrictionRule) Evaluate(_ context.Context, in *RuleInput) ([]Violation, error) {
	missing := in.Employee.MissingQualification(in.Event.Category)
	if missing == "" {
		return nil, nil
	}
	return []Violation{{
		Type:     ConstraintRoleRestriction,
		Severity: SeverityHard,
		Message: fmt.Sprintf("%s is not qualified for %s events (requires %s qualification)",
			in.Employee.Name, in.Event.Category, missing),
		Detail: map[string]interface{}{
			"event_type":             in.Event.Category.String(),
			"required_qualification": missing,
			"job_title":              in.Employee.JobTitle,
		},
	}}, nil
}

// ════════════════════════════════════════════════════════════
// 6. 时间邻近（真实区间相交，仅提示）
// ════════════════════════════════════════════════════════════

type timeProximityRule struct {
	repo   *repository.Repository
	window time.Duration
}

func (r *timeProximityRule) Name() string { return "time_proximity" }

func (r *timeProximityRule) Evaluate(ctx context.Context, in *RuleInput) ([]Violation, error) {
	// Supervisor 活动与其配对 Core 同时进行，整体豁免
	if in.Event.Category == model.CategorySupervisor {
		return nil, nil
	}

	nearby, err := r.repo.Schedule.ListByEmployeeBetween(ctx, in.Employee.EmployeeID, in.Start.Add(-r.window), in.Start.Add(r.window))
	if err != nil {
		return nil, fmt.Errorf("query nearby schedules: %w", err)
	}

	end := in.End()
	var out []Violation
	for i := range nearby {
		s := &nearby[i]
		if s.EventID == in.Event.EventID {
			continue
		}
		if !s.Overlaps(in.Start, end) {
			continue
		}
		existingStart := s.ScheduleDatetime.In(in.Location)
		existingEnd := s.EndTime().In(in.Location)
		name := ""
		if s.Event != nil {
			name = s.Event.ProjectName
		}
		out = append(out, Violation{
			Type:     ConstraintTimeProximity,
			Severity: SeveritySoft,
			Message: fmt.Sprintf("Overlaps with %s (%s - %s)", name,
				existingStart.Format(messageTimeLayout), existingEnd.Format(messageTimeLayout)),
			Detail: map[string]interface{}{
				"conflicting_schedule_id": s.ScheduleID,
				"conflicting_event_id":    s.EventID,
				"conflicting_event_name":  name,
				"existing_start":          existingStart.Format(detailDatetimeLayout),
				"existing_end":            existingEnd.Format(detailDatetimeLayout),
				"proposed_start":          in.Start.In(in.Location).Format(detailDatetimeLayout),
				"proposed_end":            end.In(in.Location).Format(detailDatetimeLayout),
			},
		})
	}
	return out, nil
}

// ════════════════════════════════════════════════════════════
// 7. 活动日期窗口（两端包含）
// ════════════════════════════════════════════════════════════

type dateRangeRule struct{}

func (r *dateRangeRule) Name() string { return "date_range" }

func (r *dateRangeRule) Evaluate(_ context.Context, in *RuleInput) ([]Violation, error) {
	first := model.DateOf(in.Event.StartDatetime, in.Location)
	last := model.DateOf(in.Event.DueDatetime, in.Location)
	if !in.Date.Before(first) && !in.Date.After(last) {
		return nil, nil
	}
	return []Violation{{
		Type:     ConstraintDateOutOfRange,
		Severity: SeverityHard,
		Message: fmt.Sprintf("Scheduled date %s is outside the event window %s to %s",
			in.Date.Format(detailDateLayout), first.Format(detailDateLayout), last.Format(detailDateLayout)),
		Detail: map[string]interface{}{
			"scheduled_date": in.Date.Format(detailDateLayout),
			"start_date":     first.Format(detailDateLayout),
			"due_date":       last.Format(detailDateLayout),
		},
	}}, nil
}
