package dto

import (
	"roster-guard/internal/model"
	"roster-guard/internal/service"
)

// ── 每日审计 DTO ──

// RunAuditRequest 手动触发审计请求；date 为空时审计今天
type RunAuditRequest struct {
	Date string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// AuditLogListRequest 审计历史查询参数
type AuditLogListRequest struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	PaginationRequest
}

// AuditResponse 审计结果
type AuditResponse struct {
	AuditLogID     int64                `json:"audit_log_id,omitempty"`
	RunID          string               `json:"run_id"`
	Date           string               `json:"date"`
	TotalIssues    int                  `json:"total_issues"`
	CriticalIssues int                  `json:"critical_issues"`
	WarningIssues  int                  `json:"warning_issues"`
	InfoIssues     int                  `json:"info_issues"`
	Issues         []service.AuditIssue `json:"issues"`
	Summary        string               `json:"summary"`
}

// AuditLogResponse 审计历史条目（不含问题明细）
type AuditLogResponse struct {
	ID             int64  `json:"id"`
	RunID          string `json:"run_id"`
	AuditDate      string `json:"audit_date"`
	TotalIssues    int    `json:"total_issues"`
	CriticalIssues int    `json:"critical_issues"`
	WarningIssues  int    `json:"warning_issues"`
	InfoIssues     int    `json:"info_issues"`
	Summary        string `json:"summary"`
	CreatedAt      string `json:"created_at"`
}

// NewAuditResponse 转换审计结果
func NewAuditResponse(r *service.AuditResult) AuditResponse {
	return AuditResponse{
		AuditLogID:     r.AuditLogID,
		RunID:          r.RunID,
		Date:           r.Date.Format(DateLayout),
		TotalIssues:    r.TotalIssues,
		CriticalIssues: r.CriticalIssues,
		WarningIssues:  r.WarningIssues,
		InfoIssues:     r.InfoIssues,
		Issues:         r.Issues,
		Summary:        r.Summary,
	}
}

// NewAuditLogResponse 转换审计历史条目
func NewAuditLogResponse(l *model.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:             l.AuditLogID,
		RunID:          l.RunID,
		AuditDate:      l.AuditDate.Format(DateLayout),
		TotalIssues:    l.TotalIssues,
		CriticalIssues: l.CriticalIssues,
		WarningIssues:  l.WarningIssues,
		InfoIssues:     l.InfoIssues,
		Summary:        l.Summary,
		CreatedAt:      l.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
