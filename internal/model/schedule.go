package model

import "time"

// Schedule 排班记录 — 对应 schedules（一名员工在指定时间承担一个活动）
type Schedule struct {
	ScheduleID       int64     `gorm:"primaryKey;autoIncrement"   json:"schedule_id"`
	EventID          int64     `gorm:"not null;index"             json:"event_id"`
	EmployeeID       string    `gorm:"type:varchar(50);not null"  json:"employee_id"`
	ScheduleDatetime time.Time `gorm:"not null;index"             json:"schedule_datetime"`
	DurationMinutes  *int      `json:"duration_minutes,omitempty"`
	BaseModel

	// 关联
	Event    *Event    `gorm:"foreignKey:EventID;references:EventID"       json:"event,omitempty"`
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (Schedule) TableName() string { return "schedules" }

// Duration 实际时长：排班显式时长 > 活动预计时长 > 类别默认时长
func (s *Schedule) Duration() time.Duration {
	if s.DurationMinutes != nil && *s.DurationMinutes > 0 {
		return time.Duration(*s.DurationMinutes) * time.Minute
	}
	if s.Event != nil {
		return time.Duration(s.Event.EstimatedMinutes()) * time.Minute
	}
	return time.Duration(CategoryOther.DefaultMinutes()) * time.Minute
}

// EndTime 实际结束时间 = 开始 + 时长
func (s *Schedule) EndTime() time.Time {
	return s.ScheduleDatetime.Add(s.Duration())
}

// Overlaps 半开区间 [start, end) 是否与该排班实际时段相交
func (s *Schedule) Overlaps(start, end time.Time) bool {
	return s.ScheduleDatetime.Before(end) && start.Before(s.EndTime())
}

// [自证通过] internal/model/schedule.go
