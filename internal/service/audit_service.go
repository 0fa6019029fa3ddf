package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"roster-guard/internal/model"
	"roster-guard/internal/repository"
	"roster-guard/pkg/redis"
)

// ── 审计模块业务错误 ──

var (
	ErrAuditInProgress  = errors.New("audit for this date is already running")
	ErrAuditLogNotFound = errors.New("audit log not found")
)

// AuditSeverity 审计问题严重级别
type AuditSeverity string

const (
	AuditCritical AuditSeverity = "CRITICAL"
	AuditWarning  AuditSeverity = "WARNING"
	AuditInfo     AuditSeverity = "INFO"
)

// 审计问题类型
const (
	IssueMissingExpectedEvents    = "missing_expected_events"
	IssueRotationGap              = "rotation_gap"
	IssueUrgentUnscheduled        = "urgent_unscheduled"
	IssueUnscheduledDueTomorrow   = "unscheduled_due_tomorrow"
	IssueTimeOffConflict          = "time_off_conflict"
	IssueDoubleBooking            = "double_booking"
	IssueCoreDailyLimit           = "core_daily_limit"
	IssueUnscheduledUpcoming      = "unscheduled_upcoming"
	IssueRotationEmployeeInactive = "rotation_employee_inactive"
	IssueRotationEmployeeTimeOff  = "rotation_employee_time_off"
	IssueUnpairedSupervisor       = "unpaired_supervisor"
	IssuePairingDateMismatch      = "pairing_date_mismatch"
	IssueAuditCheckFailed         = "audit_check_failed"
)

// AuditIssue 单条审计问题
type AuditIssue struct {
	Type     string                 `json:"type"`
	Category string                 `json:"category"`
	Severity AuditSeverity          `json:"severity"`
	Message  string                 `json:"message"`
	Details  map[string]interface{} `json:"details"`
	Action   string                 `json:"action"`
}

// AuditResult 每日审计结果
type AuditResult struct {
	AuditLogID     int64        `json:"audit_log_id,omitempty"`
	RunID          string       `json:"run_id"`
	Date           time.Time    `json:"date"`
	TotalIssues    int          `json:"total_issues"`
	CriticalIssues int          `json:"critical_issues"`
	WarningIssues  int          `json:"warning_issues"`
	InfoIssues     int          `json:"info_issues"`
	Issues         []AuditIssue `json:"issues"`
	Summary        string       `json:"summary"`
}

// AuditOptions 审计参数
type AuditOptions struct {
	TrackedRoles       []string
	ExpectedCategories []model.EventCategory
	LookaheadDays      int
	LockTTL            time.Duration
	MaxParallelChecks  int
}

// DefaultAuditOptions 默认审计参数
func DefaultAuditOptions() AuditOptions {
	return AuditOptions{
		TrackedRoles:       []string{model.RoleJuicer, model.RolePrimaryLead},
		ExpectedCategories: []model.EventCategory{model.CategoryCore, model.CategorySupervisor},
		LookaheadDays:      3,
		LockTTL:            5 * time.Minute,
		MaxParallelChecks:  4,
	}
}

// RunLocker 审计运行锁，按日期互斥
type RunLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}

// AuditService 每日审计接口
type AuditService interface {
	RunDailyAudit(ctx context.Context, date time.Time) (*AuditResult, error)
	ListLogs(ctx context.Context, date *time.Time, page, pageSize int) ([]model.AuditLog, int64, error)
	GetLog(ctx context.Context, id int64) (*model.AuditLog, error)
}

type auditService struct {
	repo     *repository.Repository
	rotation RotationService
	locker   RunLocker
	opts     AuditOptions
	loc      *time.Location
	logger   *zap.Logger
}

// NewAuditService 创建 AuditService 实例；locker 为 nil 时不加锁
func NewAuditService(repo *repository.Repository, rotation RotationService, locker RunLocker, opts AuditOptions, loc *time.Location, logger *zap.Logger) AuditService {
	if loc == nil {
		loc = time.UTC
	}
	if opts.MaxParallelChecks <= 0 {
		opts.MaxParallelChecks = 1
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 5 * time.Minute
	}
	return &auditService{
		repo:     repo,
		rotation: rotation,
		locker:   locker,
		opts:     opts,
		loc:      loc,
		logger:   logger,
	}
}

// auditSnapshot 所有检查共享的只读快照
type auditSnapshot struct {
	date      time.Time
	schedules []model.Schedule
	rotations map[string]*RotationResult // 未配置的角色值为 nil
}

type auditCheck struct {
	name string
	run  func(ctx context.Context, snap *auditSnapshot) ([]AuditIssue, error)
}

// ════════════════════════════════════════════════════════════
// RunDailyAudit
// ════════════════════════════════════════════════════════════

func (s *auditService) RunDailyAudit(ctx context.Context, date time.Time) (*AuditResult, error) {
	day := model.DateOf(date, s.loc)
	dayStr := day.Format(detailDateLayout)

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, "audit:"+dayStr, s.opts.LockTTL)
		switch {
		case errors.Is(err, redis.ErrLockNotObtained):
			s.logger.Info("审计已在其他实例运行", zap.String("date", dayStr))
			return nil, ErrAuditInProgress
		case err != nil:
			// Redis 出错时降级为无锁运行
			s.logger.Warn("获取审计锁失败，降级为无锁运行", zap.String("date", dayStr), zap.Error(err))
		default:
			defer func() {
				if err := release(context.Background()); err != nil {
					s.logger.Warn("释放审计锁失败", zap.String("date", dayStr), zap.Error(err))
				}
			}()
		}
	}

	snap, err := s.loadSnapshot(ctx, day)
	if err != nil {
		return nil, err
	}

	checks := []auditCheck{
		{"missing_expected_events", s.checkMissingExpectedEvents},
		{"rotation_gaps", s.checkRotationGaps},
		{"urgent_unscheduled", s.checkUrgentUnscheduled},
		{"employee_conflicts", s.checkEmployeeConflicts},
		{"lookahead", s.checkLookahead},
		{"rotation_availability", s.checkRotationAvailability},
		{"paired_events", s.checkPairedEvents},
	}

	// 各检查只读且相互独立，并行执行；结果按检查顺序写回以保证输出稳定
	slots := make([][]AuditIssue, len(checks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxParallelChecks)
	for i, c := range checks {
		i, c := i, c
		g.Go(func() error {
			issues, err := c.run(gctx, snap)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Error("审计检查失败", zap.String("check", c.name), zap.String("date", dayStr), zap.Error(err))
				slots[i] = []AuditIssue{checkFailedIssue(c.name, err)}
				return nil
			}
			slots[i] = issues
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &AuditResult{
		RunID:  uuid.NewString(),
		Date:   day,
		Issues: make([]AuditIssue, 0),
	}
	for _, issues := range slots {
		result.Issues = append(result.Issues, issues...)
	}
	for _, issue := range result.Issues {
		switch issue.Severity {
		case AuditCritical:
			result.CriticalIssues++
		case AuditWarning:
			result.WarningIssues++
		case AuditInfo:
			result.InfoIssues++
		}
	}
	result.TotalIssues = len(result.Issues)
	result.Summary = summarize(result, dayStr)

	s.persist(ctx, result)

	s.logger.Info("每日审计完成",
		zap.String("date", dayStr),
		zap.String("run_id", result.RunID),
		zap.Int("critical", result.CriticalIssues),
		zap.Int("warning", result.WarningIssues),
		zap.Int("info", result.InfoIssues),
	)
	return result, nil
}

func (s *auditService) loadSnapshot(ctx context.Context, day time.Time) (*auditSnapshot, error) {
	schedules, err := s.repo.Schedule.ListBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("查询当日排班失败", zap.Error(err))
		return nil, err
	}

	rotations := make(map[string]*RotationResult, len(s.opts.TrackedRoles))
	for _, role := range s.opts.TrackedRoles {
		res, err := s.rotation.GetRotationEmployee(ctx, day, role)
		if err != nil {
			return nil, err
		}
		rotations[role] = res
	}

	return &auditSnapshot{date: day, schedules: schedules, rotations: rotations}, nil
}

// persist 写入审计摘要；失败只记录日志，不影响审计结果返回
func (s *auditService) persist(ctx context.Context, result *AuditResult) {
	blob, err := json.Marshal(result.Issues)
	if err != nil {
		s.logger.Error("序列化审计问题失败", zap.Error(err))
		return
	}

	log := &model.AuditLog{
		RunID:          result.RunID,
		AuditDate:      result.Date,
		TotalIssues:    result.TotalIssues,
		CriticalIssues: result.CriticalIssues,
		WarningIssues:  result.WarningIssues,
		InfoIssues:     result.InfoIssues,
		Summary:        result.Summary,
		Issues:         datatypes.JSON(blob),
	}
	if err := s.repo.AuditLog.Create(ctx, log); err != nil {
		s.logger.Error("写入审计日志失败",
			zap.String("date", result.Date.Format(detailDateLayout)),
			zap.String("run_id", result.RunID),
			zap.Error(err),
		)
		return
	}
	result.AuditLogID = log.AuditLogID
}

func summarize(r *AuditResult, day string) string {
	switch {
	case r.TotalIssues == 0:
		return fmt.Sprintf("No issues found for %s. Schedule looks healthy.", day)
	case r.CriticalIssues > 0:
		return fmt.Sprintf("Found %d issue(s): %d CRITICAL issue(s) require immediate attention.", r.TotalIssues, r.CriticalIssues)
	case r.WarningIssues > 0:
		return fmt.Sprintf("Found %d issue(s): %d warning(s) should be reviewed.", r.TotalIssues, r.WarningIssues)
	default:
		return fmt.Sprintf("Found %d issue(s): %d informational note(s).", r.TotalIssues, r.InfoIssues)
	}
}

func checkFailedIssue(check string, err error) AuditIssue {
	return AuditIssue{
		Type:     IssueAuditCheckFailed,
		Category: "system",
		Severity: AuditWarning,
		Message:  fmt.Sprintf("Audit check %s could not complete", check),
		Details:  map[string]interface{}{"check": check, "error": err.Error()},
		Action:   "Re-run the audit; if the problem persists check the service logs",
	}
}

// ════════════════════════════════════════════════════════════
// 检查项
// ════════════════════════════════════════════════════════════

// checkMissingExpectedEvents 当日没有某类活动时给出提示（启发式）
func (s *auditService) checkMissingExpectedEvents(_ context.Context, snap *auditSnapshot) ([]AuditIssue, error) {
	counts := make(map[model.EventCategory]int)
	for _, sc := range snap.schedules {
		if sc.Event != nil {
			counts[sc.Event.Category]++
		}
	}

	var issues []AuditIssue
	for _, cat := range s.opts.ExpectedCategories {
		if counts[cat] > 0 {
			continue
		}
		issues = append(issues, AuditIssue{
			Type:     IssueMissingExpectedEvents,
			Category: "events",
			Severity: AuditInfo,
			Message:  fmt.Sprintf("No %s events scheduled for %s", cat, snap.date.Format(detailDateLayout)),
			Details: map[string]interface{}{
				"event_type": cat.String(),
				"date":       snap.date.Format(detailDateLayout),
			},
			Action: "Confirm that no " + cat.String() + " events are expected on this date",
		})
	}
	return issues, nil
}

// checkRotationGaps 追踪角色当日无人轮值
func (s *auditService) checkRotationGaps(_ context.Context, snap *auditSnapshot) ([]AuditIssue, error) {
	weekday := model.WeekdayName(model.WeekdayIndex(snap.date))

	var issues []AuditIssue
	for _, role := range s.opts.TrackedRoles {
		if snap.rotations[role] != nil {
			continue
		}
		issues = append(issues, AuditIssue{
			Type:     IssueRotationGap,
			Category: "rotation",
			Severity: AuditCritical,
			Message:  fmt.Sprintf("No %s rotation assigned for %s (%s)", role, weekday, snap.date.Format(detailDateLayout)),
			Details: map[string]interface{}{
				"role":    role,
				"weekday": weekday,
				"date":    snap.date.Format(detailDateLayout),
			},
			Action: fmt.Sprintf("Assign a %s in the weekly rotation for %s or add a schedule exception", role, weekday),
		})
	}
	return issues, nil
}

// checkUrgentUnscheduled 今日到期未排班为 CRITICAL，明日到期为 WARNING
func (s *auditService) checkUrgentUnscheduled(ctx context.Context, snap *auditSnapshot) ([]AuditIssue, error) {
	tomorrow := snap.date.AddDate(0, 0, 1)

	dueToday, err := s.repo.Event.ListUnstaffedDueBetween(ctx, snap.date, tomorrow)
	if err != nil {
		return nil, fmt.Errorf("query events due today: %w", err)
	}
	dueTomorrow, err := s.repo.Event.ListUnstaffedDueBetween(ctx, tomorrow, tomorrow.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("query events due tomorrow: %w", err)
	}

	issues := make([]AuditIssue, 0, len(dueToday)+len(dueTomorrow))
	for i := range dueToday {
		ev := &dueToday[i]
		issues = append(issues, AuditIssue{
			Type:     IssueUrgentUnscheduled,
			Category: "staffing",
			Severity: AuditCritical,
			Message:  fmt.Sprintf("%s (%d) is due today and has not been scheduled", ev.ProjectName, ev.ProjectRefNum),
			Details:  s.eventDetails(ev),
			Action:   "Schedule an employee for this event today",
		})
	}
	for i := range dueTomorrow {
		ev := &dueTomorrow[i]
		issues = append(issues, AuditIssue{
			Type:     IssueUnscheduledDueTomorrow,
			Category: "staffing",
			Severity: AuditWarning,
			Message:  fmt.Sprintf("%s (%d) is due tomorrow and has not been scheduled", ev.ProjectName, ev.ProjectRefNum),
			Details:  s.eventDetails(ev),
			Action:   "Schedule an employee before the due date",
		})
	}
	return issues, nil
}

// checkEmployeeConflicts 扫描当日全部排班：休假冲突、重复排班、Core 每日上限
func (s *auditService) checkEmployeeConflicts(ctx context.Context, snap *auditSnapshot) ([]AuditIssue, error) {
	offs, err := s.repo.TimeOff.ListCovering(ctx, snap.date)
	if err != nil {
		return nil, fmt.Errorf("query time off: %w", err)
	}
	offByEmployee := make(map[string]model.TimeOff, len(offs))
	for _, off := range offs {
		if _, ok := offByEmployee[off.EmployeeID]; !ok {
			offByEmployee[off.EmployeeID] = off
		}
	}

	byEmployee := make(map[string][]model.Schedule)
	var employeeIDs []string
	for _, sc := range snap.schedules {
		if _, ok := byEmployee[sc.EmployeeID]; !ok {
			employeeIDs = append(employeeIDs, sc.EmployeeID)
		}
		byEmployee[sc.EmployeeID] = append(byEmployee[sc.EmployeeID], sc)
	}
	sort.Strings(employeeIDs)

	var issues []AuditIssue
	for _, empID := range employeeIDs {
		schedules := byEmployee[empID]
		name := employeeName(schedules[0].Employee, empID)

		// 休假冲突（按员工聚合）
		if off, ok := offByEmployee[empID]; ok {
			issues = append(issues, AuditIssue{
				Type:     IssueTimeOffConflict,
				Category: "employee",
				Severity: AuditCritical,
				Message: fmt.Sprintf("%s is scheduled for %d event(s) while on approved time off (%s to %s)",
					name, len(schedules), off.StartDate.Format(detailDateLayout), off.EndDate.Format(detailDateLayout)),
				Details: map[string]interface{}{
					"employee_id": empID,
					"start_date":  off.StartDate.Format(detailDateLayout),
					"end_date":    off.EndDate.Format(detailDateLayout),
					"reason":      off.Reason,
					"events":      s.scheduleRefs(schedules),
				},
				Action: "Reassign these events to another employee",
			})
		}

		issues = append(issues, s.doubleBookings(empID, name, schedules)...)

		// Core 每日上限
		var cores []model.Schedule
		for _, sc := range schedules {
			if sc.Event != nil && sc.Event.Category == model.CategoryCore {
				cores = append(cores, sc)
			}
		}
		if len(cores) > 1 {
			issues = append(issues, AuditIssue{
				Type:     IssueCoreDailyLimit,
				Category: "employee",
				Severity: AuditWarning,
				Message:  fmt.Sprintf("%s has %d Core events scheduled on the same day", name, len(cores)),
				Details: map[string]interface{}{
					"employee_id": empID,
					"count":       len(cores),
					"events":      s.scheduleRefs(cores),
				},
				Action: "Move extra Core events to another employee or day",
			})
		}
	}
	return issues, nil
}

// doubleBookings 同一员工同一时刻承担多个不同活动；全部为 Supervisor 且员工具备资质时豁免
func (s *auditService) doubleBookings(empID, name string, schedules []model.Schedule) []AuditIssue {
	type slot struct {
		at        time.Time
		schedules []model.Schedule
	}
	var slotOrder []int64
	slots := make(map[int64]*slot)
	for _, sc := range schedules {
		k := sc.ScheduleDatetime.Unix()
		if _, ok := slots[k]; !ok {
			slots[k] = &slot{at: sc.ScheduleDatetime}
			slotOrder = append(slotOrder, k)
		}
		slots[k].schedules = append(slots[k].schedules, sc)
	}

	var issues []AuditIssue
	for _, k := range slotOrder {
		sl := slots[k]
		distinct := make(map[int64]bool)
		allSupervisor := true
		for _, sc := range sl.schedules {
			distinct[sc.EventID] = true
			if sc.Event == nil || sc.Event.Category != model.CategorySupervisor {
				allSupervisor = false
			}
		}
		if len(distinct) < 2 {
			continue
		}
		emp := sl.schedules[0].Employee
		if allSupervisor && emp != nil && emp.IsSupervisor {
			continue
		}

		at := sl.at.In(s.loc)
		issues = append(issues, AuditIssue{
			Type:     IssueDoubleBooking,
			Category: "employee",
			Severity: AuditCritical,
			Message:  fmt.Sprintf("%s is double-booked at %s with %d events", name, at.Format(messageTimeLayout), len(distinct)),
			Details: map[string]interface{}{
				"employee_id": empID,
				"datetime":    at.Format(detailDatetimeLayout),
				"events":      s.scheduleRefs(sl.schedules),
			},
			Action: "Reschedule or reassign one of the overlapping events",
		})
	}
	return issues
}

// checkLookahead 未来几日开始但仍未排班的活动（聚合为一条）
func (s *auditService) checkLookahead(ctx context.Context, snap *auditSnapshot) ([]AuditIssue, error) {
	if s.opts.LookaheadDays <= 0 {
		return nil, nil
	}
	events, err := s.repo.Event.ListUnstaffedStartingBetween(ctx, snap.date, snap.date.AddDate(0, 0, s.opts.LookaheadDays+1))
	if err != nil {
		return nil, fmt.Errorf("query upcoming events: %w", err)
	}
	if len(events) == 0 {
		return nil, nil
	}

	refs := make([]map[string]interface{}, 0, len(events))
	for i := range events {
		refs = append(refs, s.eventDetails(&events[i]))
	}
	return []AuditIssue{{
		Type:     IssueUnscheduledUpcoming,
		Category: "staffing",
		Severity: AuditWarning,
		Message:  fmt.Sprintf("%d unscheduled event(s) start within the next %d days", len(events), s.opts.LookaheadDays),
		Details: map[string]interface{}{
			"lookahead_days": s.opts.LookaheadDays,
			"events":         refs,
		},
		Action: "Schedule these events before they start",
	}}, nil
}

// checkRotationAvailability 轮值员工已停用为 CRITICAL；休假且无例外覆盖为 WARNING
func (s *auditService) checkRotationAvailability(ctx context.Context, snap *auditSnapshot) ([]AuditIssue, error) {
	var issues []AuditIssue
	for _, role := range s.opts.TrackedRoles {
		res := snap.rotations[role]
		if res == nil {
			continue
		}
		emp := res.Employee
		details := map[string]interface{}{
			"role":         role,
			"employee_id":  emp.EmployeeID,
			"is_exception": res.IsException,
			"date":         snap.date.Format(detailDateLayout),
		}

		if !emp.IsActive {
			issues = append(issues, AuditIssue{
				Type:     IssueRotationEmployeeInactive,
				Category: "rotation",
				Severity: AuditCritical,
				Message:  fmt.Sprintf("%s rotation is assigned to inactive employee %s", role, emp.Name),
				Details:  details,
				Action:   fmt.Sprintf("Update the %s rotation or add a schedule exception", role),
			})
			continue
		}
		if res.IsException {
			continue
		}

		offs, err := s.repo.TimeOff.ListByEmployeeCovering(ctx, emp.EmployeeID, snap.date)
		if err != nil {
			return nil, fmt.Errorf("query rotation employee time off: %w", err)
		}
		if len(offs) == 0 {
			continue
		}
		details["start_date"] = offs[0].StartDate.Format(detailDateLayout)
		details["end_date"] = offs[0].EndDate.Format(detailDateLayout)
		issues = append(issues, AuditIssue{
			Type:     IssueRotationEmployeeTimeOff,
			Category: "rotation",
			Severity: AuditWarning,
			Message:  fmt.Sprintf("%s rotation employee %s has approved time off and no exception is recorded", role, emp.Name),
			Details:  details,
			Action:   fmt.Sprintf("Add a schedule exception to cover the %s role", role),
		})
	}
	return issues, nil
}

// checkPairedEvents Supervisor 活动需有同编号 Core 活动，且排在同一天
func (s *auditService) checkPairedEvents(ctx context.Context, snap *auditSnapshot) ([]AuditIssue, error) {
	seen := make(map[int64]bool)
	var issues []AuditIssue
	for _, sc := range snap.schedules {
		ev := sc.Event
		if ev == nil || ev.Category != model.CategorySupervisor || seen[ev.EventID] {
			continue
		}
		seen[ev.EventID] = true

		key := ev.PairingKey()
		var cores []model.Event
		if key != "" {
			var err error
			cores, err = s.repo.Event.ListByCategoryAndPairingKey(ctx, model.CategoryCore, key)
			if err != nil {
				return nil, fmt.Errorf("query paired core events: %w", err)
			}
		}
		if len(cores) == 0 {
			issues = append(issues, AuditIssue{
				Type:     IssueUnpairedSupervisor,
				Category: "pairing",
				Severity: AuditWarning,
				Message:  fmt.Sprintf("Supervisor event %s has no matching Core event", ev.ProjectName),
				Details: map[string]interface{}{
					"event_id":    ev.EventID,
					"ref_num":     ev.ProjectRefNum,
					"pairing_key": key,
				},
				Action: "Verify the Supervisor event belongs to a Core event",
			})
			continue
		}

		var coreDates []string
		matched := false
		for _, core := range cores {
			coreSchedules, err := s.repo.Schedule.ListByEvent(ctx, core.EventID)
			if err != nil {
				return nil, fmt.Errorf("query core schedules: %w", err)
			}
			for _, cs := range coreSchedules {
				d := model.DateOf(cs.ScheduleDatetime, s.loc)
				if d.Equal(snap.date) {
					matched = true
				}
				coreDates = append(coreDates, d.Format(detailDateLayout))
			}
		}
		if matched {
			continue
		}
		sort.Strings(coreDates)
		msg := fmt.Sprintf("Supervisor event %s is scheduled on %s but its Core event is not", ev.ProjectName, snap.date.Format(detailDateLayout))
		if len(coreDates) > 0 {
			msg = fmt.Sprintf("Supervisor event %s is scheduled on %s but its Core event is scheduled on %s",
				ev.ProjectName, snap.date.Format(detailDateLayout), strings.Join(coreDates, ", "))
		}
		issues = append(issues, AuditIssue{
			Type:     IssuePairingDateMismatch,
			Category: "pairing",
			Severity: AuditWarning,
			Message:  msg,
			Details: map[string]interface{}{
				"event_id":        ev.EventID,
				"ref_num":         ev.ProjectRefNum,
				"pairing_key":     key,
				"supervisor_date": snap.date.Format(detailDateLayout),
				"core_dates":      coreDates,
			},
			Action: "Schedule the Supervisor event on the same day as its Core event",
		})
	}
	return issues, nil
}

// ── 辅助函数 ──

func (s *auditService) eventDetails(ev *model.Event) map[string]interface{} {
	return map[string]interface{}{
		"event_id":       ev.EventID,
		"ref_num":        ev.ProjectRefNum,
		"project_name":   ev.ProjectName,
		"event_type":     ev.Category.String(),
		"start_datetime": ev.StartDatetime.In(s.loc).Format(detailDatetimeLayout),
		"due_datetime":   ev.DueDatetime.In(s.loc).Format(detailDatetimeLayout),
	}
}

func (s *auditService) scheduleRefs(schedules []model.Schedule) []map[string]interface{} {
	refs := make([]map[string]interface{}, 0, len(schedules))
	for _, sc := range schedules {
		ref := map[string]interface{}{
			"schedule_id": sc.ScheduleID,
			"event_id":    sc.EventID,
			"datetime":    sc.ScheduleDatetime.In(s.loc).Format(detailDatetimeLayout),
		}
		if sc.Event != nil {
			ref["project_name"] = sc.Event.ProjectName
			ref["event_type"] = sc.Event.Category.String()
		}
		refs = append(refs, ref)
	}
	return refs
}

func employeeName(emp *model.Employee, fallback string) string {
	if emp != nil && emp.Name != "" {
		return emp.Name
	}
	return fallback
}

// ════════════════════════════════════════════════════════════
// 历史记录
// ════════════════════════════════════════════════════════════

func (s *auditService) ListLogs(ctx context.Context, date *time.Time, page, pageSize int) ([]model.AuditLog, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	if date != nil {
		d := model.DateOf(*date, s.loc)
		date = &d
	}

	logs, total, err := s.repo.AuditLog.List(ctx, date, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("查询审计日志失败", zap.Error(err))
		return nil, 0, err
	}
	return logs, total, nil
}

func (s *auditService) GetLog(ctx context.Context, id int64) (*model.AuditLog, error) {
	log, err := s.repo.AuditLog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuditLogNotFound
		}
		s.logger.Error("查询审计日志失败", zap.Int64("audit_log_id", id), zap.Error(err))
		return nil, err
	}
	return log, nil
}
