package dto

import "roster-guard/internal/service"

// ── 轮值 DTO ──

// RotationQuery 查询某日轮值
type RotationQuery struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// RotationCalendarQuery 轮值日历导出参数
type RotationCalendarQuery struct {
	From  string `form:"from"  binding:"omitempty,datetime=2006-01-02"`
	Days  int    `form:"days"  binding:"omitempty,min=1,max=62"`
	Roles string `form:"roles"` // 逗号分隔，空为全部角色
}

// EmployeeBrief 员工简要信息
type EmployeeBrief struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	JobTitle string `json:"job_title"`
	IsActive bool   `json:"is_active"`
}

// RotationResponse 轮值查询结果；configured=false 表示该日未配置轮值
type RotationResponse struct {
	Role        string         `json:"role"`
	Date        string         `json:"date"`
	Configured  bool           `json:"configured"`
	Employee    *EmployeeBrief `json:"employee,omitempty"`
	IsException bool           `json:"is_exception"`
	Reason      string         `json:"reason,omitempty"`
}

// NewRotationResponse 转换轮值结果；r 为 nil 表示未配置
func NewRotationResponse(role, date string, r *service.RotationResult) RotationResponse {
	resp := RotationResponse{Role: role, Date: date}
	if r == nil {
		return resp
	}
	resp.Configured = true
	resp.IsException = r.IsException
	resp.Reason = r.Reason
	resp.Employee = &EmployeeBrief{
		ID:       r.Employee.EmployeeID,
		Name:     r.Employee.Name,
		JobTitle: r.Employee.JobTitle,
		IsActive: r.Employee.IsActive,
	}
	return resp
}
