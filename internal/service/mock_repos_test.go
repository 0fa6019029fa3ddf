package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"roster-guard/internal/model"
	"roster-guard/internal/repository"
)

// ── Mock 集合 ──

type mockSet struct {
	employees    *mockEmployeeRepo
	events       *mockEventRepo
	schedules    *mockScheduleRepo
	timeOff      *mockTimeOffRepo
	availability *mockAvailabilityRepo
	weekly       *mockWeeklyAvailabilityRepo
	rotations    *mockRotationRepo
	exceptions   *mockExceptionRepo
	auditLogs    *mockAuditLogRepo
}

func newMockSet() *mockSet {
	employees := newMockEmployeeRepo()
	events := newMockEventRepo()
	return &mockSet{
		employees:    employees,
		events:       events,
		schedules:    &mockScheduleRepo{employees: employees, events: events},
		timeOff:      &mockTimeOffRepo{},
		availability: &mockAvailabilityRepo{},
		weekly:       &mockWeeklyAvailabilityRepo{records: make(map[string]*model.WeeklyAvailability)},
		rotations:    &mockRotationRepo{employees: employees},
		exceptions:   &mockExceptionRepo{employees: employees},
		auditLogs:    &mockAuditLogRepo{},
	}
}

func (m *mockSet) repository() *repository.Repository {
	return &repository.Repository{
		Employee:           m.employees,
		Event:              m.events,
		Schedule:           m.schedules,
		TimeOff:            m.timeOff,
		Availability:       m.availability,
		WeeklyAvailability: m.weekly,
		Rotation:           m.rotations,
		Exception:          m.exceptions,
		AuditLog:           m.auditLogs,
	}
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) add(e *model.Employee) *model.Employee {
	m.employees[e.EmployeeID] = e
	return e
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events map[int64]*model.Event
	err    error
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[int64]*model.Event)}
}

func (m *mockEventRepo) add(e *model.Event) *model.Event {
	m.events[e.EventID] = e
	return e
}

func (m *mockEventRepo) sorted(keep func(*model.Event) bool) []model.Event {
	var out []model.Event
	for _, e := range m.events {
		if keep(e) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventID < out[j].EventID })
	return out
}

func (m *mockEventRepo) GetByID(_ context.Context, id int64) (*model.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) GetByRefNum(_ context.Context, refNum int64) (*model.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, e := range m.events {
		if e.ProjectRefNum == refNum {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) ListUnstaffedDueBetween(_ context.Context, from, to time.Time) ([]model.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(e *model.Event) bool {
		return e.IsUnstaffed() && !e.DueDatetime.Before(from) && e.DueDatetime.Before(to)
	}), nil
}

func (m *mockEventRepo) ListUnstaffedStartingBetween(_ context.Context, from, to time.Time) ([]model.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(e *model.Event) bool {
		return e.IsUnstaffed() && !e.StartDatetime.Before(from) && e.StartDatetime.Before(to)
	}), nil
}

func (m *mockEventRepo) ListByCategoryAndPairingKey(_ context.Context, category model.EventCategory, key string) ([]model.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(e *model.Event) bool {
		return e.Category == category && strings.Contains(e.ProjectName, key)
	}), nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules []model.Schedule
	employees *mockEmployeeRepo
	events    *mockEventRepo
	nextID    int64
	err       error
}

func (m *mockScheduleRepo) add(empID string, eventID int64, at time.Time, minutes *int) model.Schedule {
	m.nextID++
	s := model.Schedule{
		ScheduleID:       m.nextID,
		EventID:          eventID,
		EmployeeID:       empID,
		ScheduleDatetime: at,
		DurationMinutes:  minutes,
	}
	m.schedules = append(m.schedules, s)
	return s
}

// list 模拟 Preload("Event") / Preload("Employee")
func (m *mockScheduleRepo) list(keep func(*model.Schedule) bool) []model.Schedule {
	var out []model.Schedule
	for _, s := range m.schedules {
		if !keep(&s) {
			continue
		}
		s.Event = m.events.events[s.EventID]
		s.Employee = m.employees.employees[s.EmployeeID]
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		if !out[i].ScheduleDatetime.Equal(out[j].ScheduleDatetime) {
			return out[i].ScheduleDatetime.Before(out[j].ScheduleDatetime)
		}
		return out[i].ScheduleID < out[j].ScheduleID
	})
	return out
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (m *mockScheduleRepo) ListByEmployeeBetween(_ context.Context, employeeID string, from, to time.Time) ([]model.Schedule, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.list(func(s *model.Schedule) bool {
		return s.EmployeeID == employeeID && inRange(s.ScheduleDatetime, from, to)
	}), nil
}

func (m *mockScheduleRepo) ListCoreByEmployeeBetween(_ context.Context, employeeID string, from, to time.Time) ([]model.Schedule, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.list(func(s *model.Schedule) bool {
		ev := m.events.events[s.EventID]
		return s.EmployeeID == employeeID && inRange(s.ScheduleDatetime, from, to) &&
			ev != nil && ev.Category == model.CategoryCore
	}), nil
}

func (m *mockScheduleRepo) ListBetween(_ context.Context, from, to time.Time) ([]model.Schedule, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.list(func(s *model.Schedule) bool {
		return inRange(s.ScheduleDatetime, from, to)
	}), nil
}

func (m *mockScheduleRepo) ListByEvent(_ context.Context, eventID int64) ([]model.Schedule, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.list(func(s *model.Schedule) bool {
		return s.EventID == eventID
	}), nil
}

// ── Mock TimeOffRepository ──

type mockTimeOffRepo struct {
	offs []model.TimeOff
	err  error
}

func (m *mockTimeOffRepo) add(empID string, start, end time.Time, reason string) {
	m.offs = append(m.offs, model.TimeOff{
		TimeOffID:  int64(len(m.offs) + 1),
		EmployeeID: empID,
		StartDate:  start,
		EndDate:    end,
		Reason:     reason,
	})
}

func (m *mockTimeOffRepo) ListByEmployeeCovering(_ context.Context, employeeID string, date time.Time) ([]model.TimeOff, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.TimeOff
	for _, off := range m.offs {
		if off.EmployeeID == employeeID && off.Covers(date) {
			out = append(out, off)
		}
	}
	return out, nil
}

func (m *mockTimeOffRepo) ListCovering(_ context.Context, date time.Time) ([]model.TimeOff, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.TimeOff
	for _, off := range m.offs {
		if off.Covers(date) {
			out = append(out, off)
		}
	}
	return out, nil
}

// ── Mock AvailabilityRepository ──

type mockAvailabilityRepo struct {
	records []model.EmployeeAvailability
}

func (m *mockAvailabilityRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*model.EmployeeAvailability, error) {
	for i := range m.records {
		r := &m.records[i]
		if r.EmployeeID == employeeID && sameDay(r.Date, date) {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock WeeklyAvailabilityRepository ──

type mockWeeklyAvailabilityRepo struct {
	records map[string]*model.WeeklyAvailability
}

func (m *mockWeeklyAvailabilityRepo) GetByEmployee(_ context.Context, employeeID string) (*model.WeeklyAvailability, error) {
	if w, ok := m.records[employeeID]; ok {
		return w, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock RotationRepository ──

type mockRotationRepo struct {
	assignments []model.RotationAssignment
	employees   *mockEmployeeRepo
	err         error
}

func (m *mockRotationRepo) add(day int, role, empID string) {
	m.assignments = append(m.assignments, model.RotationAssignment{
		RotationID:   int64(len(m.assignments) + 1),
		DayOfWeek:    day,
		RotationType: role,
		EmployeeID:   empID,
	})
}

func (m *mockRotationRepo) GetByDayAndType(_ context.Context, dayOfWeek int, rotationType string) (*model.RotationAssignment, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, ra := range m.assignments {
		if ra.DayOfWeek == dayOfWeek && ra.RotationType == rotationType {
			ra.Employee = m.employees.employees[ra.EmployeeID]
			return &ra, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ScheduleExceptionRepository ──

type mockExceptionRepo struct {
	exceptions []model.ScheduleException
	employees  *mockEmployeeRepo
}

func (m *mockExceptionRepo) add(date time.Time, role, empID, reason string) {
	m.exceptions = append(m.exceptions, model.ScheduleException{
		ExceptionID:   int64(len(m.exceptions) + 1),
		ExceptionDate: date,
		RotationType:  role,
		EmployeeID:    empID,
		Reason:        reason,
	})
}

func (m *mockExceptionRepo) GetByDateAndType(_ context.Context, date time.Time, rotationType string) (*model.ScheduleException, error) {
	for _, ex := range m.exceptions {
		if sameDay(ex.ExceptionDate, date) && ex.RotationType == rotationType {
			ex.Employee = m.employees.employees[ex.EmployeeID]
			return &ex, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock AuditLogRepository ──

type mockAuditLogRepo struct {
	logs      []model.AuditLog
	createErr error
}

func (m *mockAuditLogRepo) Create(_ context.Context, log *model.AuditLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	log.AuditLogID = int64(len(m.logs) + 1)
	log.CreatedAt = time.Date(2025, 10, 15, 5, 0, 0, 0, time.UTC)
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockAuditLogRepo) GetByID(_ context.Context, id int64) (*model.AuditLog, error) {
	for i := range m.logs {
		if m.logs[i].AuditLogID == id {
			return &m.logs[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAuditLogRepo) List(_ context.Context, date *time.Time, offset, limit int) ([]model.AuditLog, int64, error) {
	var matched []model.AuditLog
	for _, l := range m.logs {
		if date == nil || sameDay(l.AuditDate, *date) {
			matched = append(matched, l)
		}
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return []model.AuditLog{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}
