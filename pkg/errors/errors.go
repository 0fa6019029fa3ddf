package errors

import "errors"

// ErrInvalidDate 日期格式错误（期望 YYYY-MM-DD）
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// ErrInvalidDateTime 时间格式错误（期望 ISO-8601）
var ErrInvalidDateTime = errors.New("invalid datetime, expected ISO-8601")
