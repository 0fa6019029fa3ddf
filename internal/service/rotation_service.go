package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"roster-guard/internal/model"
	"roster-guard/internal/repository"
)

// ── 轮值模块业务错误 ──

var (
	ErrUnknownRole      = errors.New("unknown rotation role")
	ErrCalendarTooLarge = errors.New("calendar range exceeds 62 days")
)

// MaxCalendarDays 单次导出日历的最大天数
const MaxCalendarDays = 62

// RotationResult 某日某角色的生效员工
type RotationResult struct {
	Role        string          `json:"role"`
	Date        time.Time       `json:"date"`
	Employee    *model.Employee `json:"employee"`
	IsException bool            `json:"is_exception"`
	Reason      string          `json:"reason,omitempty"`
}

// RotationService 轮值解析接口
type RotationService interface {
	// GetRotationEmployee 例外优先于每周轮值表；未配置时返回 (nil, nil)
	GetRotationEmployee(ctx context.Context, date time.Time, role string) (*RotationResult, error)
	// BuildCalendar 导出 [from, from+days) 的轮值日历（iCalendar）
	BuildCalendar(ctx context.Context, from time.Time, days int, roles []string) (string, error)
}

type rotationService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewRotationService 创建 RotationService 实例
func NewRotationService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) RotationService {
	if loc == nil {
		loc = time.UTC
	}
	return &rotationService{repo: repo, loc: loc, logger: logger}
}

// IsKnownRole 判断角色标签是否受支持
func IsKnownRole(role string) bool {
	return role == model.RoleJuicer || role == model.RolePrimaryLead
}

func (s *rotationService) GetRotationEmployee(ctx context.Context, date time.Time, role string) (*RotationResult, error) {
	day := model.DateOf(date, s.loc)

	// 1. 单日例外
	ex, err := s.repo.Exception.GetByDateAndType(ctx, day, role)
	switch {
	case err == nil:
		if ex.Employee == nil {
			s.logger.Warn("轮值例外指向的员工不存在",
				zap.String("role", role),
				zap.String("date", day.Format(detailDateLayout)),
				zap.String("employee_id", ex.EmployeeID),
			)
			return nil, nil
		}
		return &RotationResult{
			Role:        role,
			Date:        day,
			Employee:    ex.Employee,
			IsException: true,
			Reason:      ex.Reason,
		}, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("查询轮值例外失败", zap.String("role", role), zap.Error(err))
		return nil, err
	}

	// 2. 每周轮值表
	ra, err := s.repo.Rotation.GetByDayAndType(ctx, model.WeekdayIndex(day), role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("查询轮值表失败", zap.String("role", role), zap.Error(err))
		return nil, err
	}
	if ra.Employee == nil {
		s.logger.Warn("轮值表指向的员工不存在",
			zap.String("role", role),
			zap.Int("day_of_week", ra.DayOfWeek),
			zap.String("employee_id", ra.EmployeeID),
		)
		return nil, nil
	}
	return &RotationResult{Role: role, Date: day, Employee: ra.Employee}, nil
}

// ════════════════════════════════════════════════════════════
// BuildCalendar — 轮值日历导出
// ════════════════════════════════════════════════════════════

func (s *rotationService) BuildCalendar(ctx context.Context, from time.Time, days int, roles []string) (string, error) {
	if days <= 0 {
		days = 7
	}
	if days > MaxCalendarDays {
		return "", ErrCalendarTooLarge
	}
	for _, role := range roles {
		if !IsKnownRole(role) {
			return "", fmt.Errorf("%w: %s", ErrUnknownRole, role)
		}
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//roster-guard//rotation calendar//EN")
	cal.SetXWRCalName("Rotation Calendar")

	stamp := time.Now().UTC()
	first := model.DateOf(from, s.loc)
	for i := 0; i < days; i++ {
		day := first.AddDate(0, 0, i)
		for _, role := range roles {
			res, err := s.GetRotationEmployee(ctx, day, role)
			if err != nil {
				return "", err
			}
			if res == nil {
				continue
			}

			ev := cal.AddEvent(fmt.Sprintf("%s-%s@roster-guard", day.Format("20060102"), role))
			ev.SetDtStampTime(stamp)
			ev.SetAllDayStartAt(day)
			ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
			ev.SetSummary(fmt.Sprintf("%s: %s", roleTitle(role), res.Employee.Name))
			if res.IsException {
				desc := "Rotation exception"
				if res.Reason != "" {
					desc += ": " + res.Reason
				}
				ev.SetDescription(desc)
			} else {
				ev.SetDescription(fmt.Sprintf("Weekly rotation (%s)", model.WeekdayName(model.WeekdayIndex(day))))
			}
		}
	}
	return cal.Serialize(), nil
}

func roleTitle(role string) string {
	switch role {
	case model.RoleJuicer:
		return "Juicer"
	case model.RolePrimaryLead:
		return "Primary Lead"
	}
	return role
}
