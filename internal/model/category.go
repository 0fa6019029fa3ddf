package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// ── 活动类别（封闭枚举，在存储边界一次性解析） ──

// EventCategory 活动类别
type EventCategory int

const (
	CategoryOther EventCategory = iota
	CategoryCore
	CategorySupervisor
	CategoryJuicerProduction
	CategoryJuicerSurvey
	CategoryJuicerDeepClean
	CategoryFreeosk
	CategoryDigitals
)

var categoryNames = map[EventCategory]string{
	CategoryOther:            "Other",
	CategoryCore:             "Core",
	CategorySupervisor:       "Supervisor",
	CategoryJuicerProduction: "Juicer Production",
	CategoryJuicerSurvey:     "Juicer Survey",
	CategoryJuicerDeepClean:  "Juicer Deep Clean",
	CategoryFreeosk:          "Freeosk",
	CategoryDigitals:         "Digitals",
}

// 默认时长（分钟），活动与排班均未给出时长时使用
var categoryDefaultMinutes = map[EventCategory]int{
	CategoryOther:            60,
	CategoryCore:             390,
	CategorySupervisor:       5,
	CategoryJuicerProduction: 540,
	CategoryJuicerSurvey:     15,
	CategoryJuicerDeepClean:  240,
	CategoryFreeosk:          15,
	CategoryDigitals:         15,
}

// ParseEventCategory 解析存储中的类别字符串，大小写、空格、连字符、下划线均不敏感；
// 无法识别的值归入 Other
func ParseEventCategory(s string) EventCategory {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "core":
		return CategoryCore
	case "supervisor":
		return CategorySupervisor
	case "juicerproduction", "juicer":
		return CategoryJuicerProduction
	case "juicersurvey":
		return CategoryJuicerSurvey
	case "juicerdeepclean":
		return CategoryJuicerDeepClean
	case "freeosk":
		return CategoryFreeosk
	case "digitals", "digital":
		return CategoryDigitals
	default:
		return CategoryOther
	}
}

func (c EventCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return categoryNames[CategoryOther]
}

// DefaultMinutes 类别默认时长
func (c EventCategory) DefaultMinutes() int {
	if m, ok := categoryDefaultMinutes[c]; ok {
		return m
	}
	return categoryDefaultMinutes[CategoryOther]
}

// IsJuicer 是否为 Juicer 系列
func (c EventCategory) IsJuicer() bool {
	return c == CategoryJuicerProduction || c == CategoryJuicerSurvey || c == CategoryJuicerDeepClean
}

// Scan 实现 sql.Scanner
func (c *EventCategory) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = CategoryOther
	case []byte:
		*c = ParseEventCategory(string(v))
	case string:
		*c = ParseEventCategory(v)
	default:
		return fmt.Errorf("EventCategory.Scan: unsupported type %T", src)
	}
	return nil
}

// Value 实现 driver.Valuer
func (c EventCategory) Value() (driver.Value, error) {
	return c.String(), nil
}

// MarshalText 序列化为类别名称
func (c EventCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText 从类别名称解析
func (c *EventCategory) UnmarshalText(b []byte) error {
	*c = ParseEventCategory(string(b))
	return nil
}

// ── 活动生命周期状态 ──

// EventCondition 活动状态
type EventCondition string

const (
	ConditionUnstaffed EventCondition = "Unstaffed"
	ConditionScheduled EventCondition = "Scheduled"
	ConditionSubmitted EventCondition = "Submitted"
	ConditionPaused    EventCondition = "Paused"
	ConditionCanceled  EventCondition = "Canceled"
)

// [自证通过] internal/model/category.go
