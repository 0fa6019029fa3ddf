package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roster-guard/internal/model"
	"roster-guard/internal/service"
	"roster-guard/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock ValidationService ──

type mockValidationService struct {
	result *service.ValidationResult
	err    error
	got    service.ValidateScheduleInput
}

func (m *mockValidationService) ValidateSchedule(_ context.Context, in service.ValidateScheduleInput) (*service.ValidationResult, error) {
	m.got = in
	return m.result, m.err
}

// ── Mock AuditService ──

type mockAuditService struct {
	runResult *service.AuditResult
	runErr    error
	runDate   time.Time
	logs      []model.AuditLog
	total     int64
	listErr   error
	listDate  *time.Time
}

func (m *mockAuditService) RunDailyAudit(_ context.Context, date time.Time) (*service.AuditResult, error) {
	m.runDate = date
	return m.runResult, m.runErr
}
func (m *mockAuditService) ListLogs(_ context.Context, date *time.Time, _, _ int) ([]model.AuditLog, int64, error) {
	m.listDate = date
	return m.logs, m.total, m.listErr
}
func (m *mockAuditService) GetLog(_ context.Context, _ int64) (*model.AuditLog, error) {
	return nil, service.ErrAuditLogNotFound
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportAuditLog(_ context.Context, _ int64) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── Mock RotationService ──

type mockRotationService struct {
	result   *service.RotationResult
	err      error
	calendar string
	calErr   error
	calRoles []string
	calDays  int
}

func (m *mockRotationService) GetRotationEmployee(_ context.Context, _ time.Time, _ string) (*service.RotationResult, error) {
	return m.result, m.err
}
func (m *mockRotationService) BuildCalendar(_ context.Context, _ time.Time, days int, roles []string) (string, error) {
	m.calDays = days
	m.calRoles = roles
	return m.calendar, m.calErr
}

// ═══════════════════════════════════════════════════════════
// Helpers
// ═══════════════════════════════════════════════════════════

var testLoc = time.UTC

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("employee_id", "E1")
		c.Set("role", "admin")
		c.Next()
	})
	return r
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func parseMap(w *httptest.ResponseRecorder) map[string]interface{} {
	var m map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &m)
	return m
}

// ═══════════════════════════════════════════════════════════
// ValidationHandler
// ═══════════════════════════════════════════════════════════

func serveValidate(mock *mockValidationService, body io.Reader) *httptest.ResponseRecorder {
	h := NewValidationHandler(mock, testLoc, zap.NewNop())
	r := newRouter()
	r.POST("/schedules/validate", h.Validate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/schedules/validate", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestValidationHandler_Validate_Conflict(t *testing.T) {
	mock := &mockValidationService{result: &service.ValidationResult{
		IsValid: false,
		Violations: []service.Violation{
			{Type: service.ConstraintCoreAlreadyScheduled, Severity: service.SeverityHard, Message: "already scheduled"},
			{Type: service.ConstraintTimeProximity, Severity: service.SeveritySoft, Message: "overlap"},
		},
	}}

	w := serveValidate(mock, jsonBody(map[string]interface{}{
		"employee_id":       "E1",
		"event_id":          42,
		"schedule_datetime": "2025-10-15T09:30:00",
		"duration_minutes":  120,
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	body := parseMap(w)
	if body["valid"] != false {
		t.Errorf("期望 valid=false，实际 %v", body["valid"])
	}
	if body["severity"] != "error" {
		t.Errorf("期望 severity=error，实际 %v", body["severity"])
	}
	if conflicts, _ := body["conflicts"].([]interface{}); len(conflicts) != 1 {
		t.Errorf("期望 1 条 conflict，实际 %v", body["conflicts"])
	}
	if warnings, _ := body["warnings"].([]interface{}); len(warnings) != 1 {
		t.Errorf("期望 1 条 warning，实际 %v", body["warnings"])
	}

	if mock.got.EmployeeID != "E1" || mock.got.EventID != 42 {
		t.Errorf("入参透传错误: %+v", mock.got)
	}
	want := time.Date(2025, 10, 15, 9, 30, 0, 0, testLoc)
	if !mock.got.ScheduleDatetime.Equal(want) {
		t.Errorf("期望时间 %v，实际 %v", want, mock.got.ScheduleDatetime)
	}
	if mock.got.DurationMinutes == nil || *mock.got.DurationMinutes != 120 {
		t.Errorf("期望 duration=120，实际 %v", mock.got.DurationMinutes)
	}
}

func TestValidationHandler_Validate_Clean(t *testing.T) {
	mock := &mockValidationService{result: &service.ValidationResult{IsValid: true}}

	w := serveValidate(mock, jsonBody(map[string]interface{}{
		"employee_id":       "E1",
		"event_id":          42,
		"schedule_datetime": "2025-10-15T09:30:00Z",
	}))

	body := parseMap(w)
	if body["valid"] != true || body["severity"] != "success" {
		t.Errorf("期望 valid=true/success，实际 %v", body)
	}
	if conflicts, ok := body["conflicts"].([]interface{}); !ok || len(conflicts) != 0 {
		t.Errorf("conflicts 应为空数组，实际 %v", body["conflicts"])
	}
	if mock.got.DurationMinutes != nil {
		t.Error("未传 duration 时不应填充")
	}
}

func TestValidationHandler_Validate_LookupFailure(t *testing.T) {
	mock := &mockValidationService{err: &service.LookupError{Entity: "employee", Key: "E404"}}

	w := serveValidate(mock, jsonBody(map[string]interface{}{
		"employee_id":       "E404",
		"event_id":          42,
		"schedule_datetime": "2025-10-15T09:30:00",
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("查找失败期望 200，实际 %d", w.Code)
	}
	body := parseMap(w)
	if body["success"] != false {
		t.Errorf("期望 success=false，实际 %v", body["success"])
	}
	if msg, _ := body["error"].(string); !strings.Contains(msg, "E404") {
		t.Errorf("错误信息应包含员工编号，实际 %q", msg)
	}
}

func TestValidationHandler_Validate_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body io.Reader
	}{
		{"非法 JSON", strings.NewReader("{bad")},
		{"缺少 event_id", jsonBody(map[string]interface{}{"employee_id": "E1", "schedule_datetime": "2025-10-15T09:30:00"})},
		{"时间格式错误", jsonBody(map[string]interface{}{"employee_id": "E1", "event_id": 1, "schedule_datetime": "yesterday"})},
		{"时长为负", jsonBody(map[string]interface{}{"employee_id": "E1", "event_id": 1, "schedule_datetime": "2025-10-15T09:30:00", "duration_minutes": -5})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveValidate(&mockValidationService{}, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("期望 400，实际 %d", w.Code)
			}
		})
	}
}

func TestValidationHandler_Validate_InternalError(t *testing.T) {
	mock := &mockValidationService{err: errors.New("db down")}

	w := serveValidate(mock, jsonBody(map[string]interface{}{
		"employee_id":       "E1",
		"event_id":          42,
		"schedule_datetime": "2025-10-15T09:30:00",
	}))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("期望 500，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AuditHandler
// ═══════════════════════════════════════════════════════════

func newAuditRouter(audit *mockAuditService, export *mockExportService) *gin.Engine {
	h := NewAuditHandler(audit, export, testLoc, zap.NewNop())
	r := newRouter()
	r.POST("/audits/daily", h.RunDaily)
	r.GET("/audits", h.List)
	r.GET("/audits/:id/export", h.Export)
	return r
}

func TestAuditHandler_RunDaily_Success(t *testing.T) {
	day := time.Date(2025, 10, 15, 0, 0, 0, 0, testLoc)
	mock := &mockAuditService{runResult: &service.AuditResult{
		AuditLogID:     7,
		RunID:          "run-1",
		Date:           day,
		TotalIssues:    1,
		CriticalIssues: 1,
		Issues: []service.AuditIssue{{
			Type:     service.IssueRotationGap,
			Category: "rotation",
			Severity: service.AuditCritical,
			Message:  "No juicer rotation assigned",
		}},
		Summary: "Found 1 issue(s): 1 CRITICAL issue(s) require immediate attention.",
	}}
	r := newAuditRouter(mock, &mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/audits/daily", jsonBody(map[string]string{"date": "2025-10-15"}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d: %s", w.Code, w.Body.String())
	}
	if !mock.runDate.Equal(day) {
		t.Errorf("期望审计日期 %v，实际 %v", day, mock.runDate)
	}
	resp := parseResponse(w)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data 类型错误: %T", resp.Data)
	}
	if data["date"] != "2025-10-15" {
		t.Errorf("期望 date=2025-10-15，实际 %v", data["date"])
	}
	if data["critical_issues"] != float64(1) {
		t.Errorf("期望 critical_issues=1，实际 %v", data["critical_issues"])
	}
}

func TestAuditHandler_RunDaily_DefaultsToToday(t *testing.T) {
	mock := &mockAuditService{runResult: &service.AuditResult{Issues: []service.AuditIssue{}}}
	r := newAuditRouter(mock, &mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/audits/daily", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	now := time.Now().In(testLoc)
	if mock.runDate.Year() != now.Year() || mock.runDate.YearDay() != now.YearDay() {
		t.Errorf("空请求体应审计今天，实际 %v", mock.runDate)
	}
}

func TestAuditHandler_RunDaily_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{"日期格式错误", `{"date":"15/10/2025"}`, nil, http.StatusBadRequest},
		{"并发运行", `{"date":"2025-10-15"}`, service.ErrAuditInProgress, http.StatusConflict},
		{"内部错误", `{"date":"2025-10-15"}`, errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuditRouter(&mockAuditService{runErr: tt.err}, &mockExportService{})
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/audits/daily", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			if w.Code != tt.wantCode {
				t.Errorf("期望 %d，实际 %d", tt.wantCode, w.Code)
			}
		})
	}
}

func TestAuditHandler_RunDaily_Unauthenticated(t *testing.T) {
	h := NewAuditHandler(&mockAuditService{}, &mockExportService{}, testLoc, zap.NewNop())
	r := gin.New()
	r.POST("/audits/daily", h.RunDaily)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/audits/daily", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际 %d", w.Code)
	}
}

func TestAuditHandler_List(t *testing.T) {
	mock := &mockAuditService{
		logs: []model.AuditLog{{
			AuditLogID: 3,
			RunID:      "run-3",
			AuditDate:  time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC),
			Summary:    "No issues found for 2025-10-14. Schedule looks healthy.",
			CreatedAt:  time.Date(2025, 10, 14, 5, 0, 0, 0, time.UTC),
		}},
		total: 1,
	}
	r := newAuditRouter(mock, &mockExportService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audits?date=2025-10-14&page=1&page_size=10", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if mock.listDate == nil || mock.listDate.Day() != 14 {
		t.Errorf("日期过滤未透传: %v", mock.listDate)
	}
	resp := parseResponse(w)
	data := resp.Data.(map[string]interface{})
	list := data["list"].([]interface{})
	if len(list) != 1 {
		t.Fatalf("期望 1 条记录，实际 %d", len(list))
	}
	if list[0].(map[string]interface{})["audit_date"] != "2025-10-14" {
		t.Errorf("audit_date 格式错误: %v", list[0])
	}
}

func TestAuditHandler_List_BadDate(t *testing.T) {
	r := newAuditRouter(&mockAuditService{}, &mockExportService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audits?date=oct-14", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
}

func TestAuditHandler_Export_Success(t *testing.T) {
	export := &mockExportService{buf: bytes.NewBufferString("excel content"), filename: "audit_2025-10-15_7.xlsx"}
	r := newAuditRouter(&mockAuditService{}, export)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audits/7/export", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "audit_2025-10-15_7.xlsx") {
		t.Errorf("Content-Disposition 缺少文件名: %s", cd)
	}
	if w.Body.String() != "excel content" {
		t.Errorf("响应体不一致: %q", w.Body.String())
	}
}

func TestAuditHandler_Export_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		err      error
		wantCode int
	}{
		{"非法 ID", "/audits/abc/export", nil, http.StatusBadRequest},
		{"日志不存在", "/audits/9/export", service.ErrAuditLogNotFound, http.StatusNotFound},
		{"日志损坏", "/audits/9/export", service.ErrExportCorruptLog, http.StatusUnprocessableEntity},
		{"生成失败", "/audits/9/export", service.ErrExportGenerateFail, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuditRouter(&mockAuditService{}, &mockExportService{err: tt.err})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.wantCode {
				t.Errorf("期望 %d，实际 %d", tt.wantCode, w.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// RotationHandler
// ═══════════════════════════════════════════════════════════

func newRotationRouter(mock *mockRotationService) *gin.Engine {
	h := NewRotationHandler(mock, testLoc)
	r := newRouter()
	r.GET("/rotations/calendar.ics", h.Calendar)
	r.GET("/rotations/:role", h.Get)
	return r
}

func TestRotationHandler_Get_Exception(t *testing.T) {
	mock := &mockRotationService{result: &service.RotationResult{
		Role:        model.RoleJuicer,
		Employee:    &model.Employee{EmployeeID: "J2", Name: "Eli", JobTitle: "Juicer Barista", IsActive: true},
		IsException: true,
		Reason:      "training",
	}}
	r := newRotationRouter(mock)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rotations/juicer?date=2025-10-15", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	data := parseResponse(w).Data.(map[string]interface{})
	if data["configured"] != true || data["is_exception"] != true || data["reason"] != "training" {
		t.Errorf("轮值结果错误: %v", data)
	}
	emp := data["employee"].(map[string]interface{})
	if emp["id"] != "J2" {
		t.Errorf("期望员工 J2，实际 %v", emp["id"])
	}
}

func TestRotationHandler_Get_NotConfigured(t *testing.T) {
	r := newRotationRouter(&mockRotationService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rotations/primary_lead?date=2025-10-15", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	data := parseResponse(w).Data.(map[string]interface{})
	if data["configured"] != false {
		t.Errorf("期望 configured=false，实际 %v", data["configured"])
	}
	if _, ok := data["employee"]; ok {
		t.Error("未配置时不应返回 employee")
	}
}

func TestRotationHandler_Get_UnknownRole(t *testing.T) {
	r := newRotationRouter(&mockRotationService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rotations/barista", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
}

func TestRotationHandler_Calendar(t *testing.T) {
	mock := &mockRotationService{calendar: "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"}
	r := newRotationRouter(mock)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rotations/calendar.ics?from=2025-10-13&days=14&roles=juicer", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("unexpected content type: %s", ct)
	}
	if mock.calDays != 14 {
		t.Errorf("期望 days=14，实际 %d", mock.calDays)
	}
	if len(mock.calRoles) != 1 || mock.calRoles[0] != model.RoleJuicer {
		t.Errorf("角色过滤未透传: %v", mock.calRoles)
	}
}

func TestRotationHandler_Calendar_DefaultRoles(t *testing.T) {
	mock := &mockRotationService{calendar: "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"}
	r := newRotationRouter(mock)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rotations/calendar.ics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if len(mock.calRoles) != 2 {
		t.Errorf("默认应导出全部角色，实际 %v", mock.calRoles)
	}
}

func TestRotationHandler_Calendar_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		err      error
		wantCode int
	}{
		{"天数超限", "/rotations/calendar.ics?days=100", nil, http.StatusBadRequest},
		{"未知角色", "/rotations/calendar.ics?roles=barista", service.ErrUnknownRole, http.StatusBadRequest},
		{"内部错误", "/rotations/calendar.ics", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRotationRouter(&mockRotationService{calErr: tt.err})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.wantCode {
				t.Errorf("期望 %d，实际 %d", tt.wantCode, w.Code)
			}
		})
	}
}
