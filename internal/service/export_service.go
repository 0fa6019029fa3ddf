package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ── 导出模块业务错误 ──

var (
	ErrExportCorruptLog   = errors.New("stored audit issues cannot be decoded")
	ErrExportGenerateFail = errors.New("failed to generate workbook")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出已持久化的审计摘要，不重新运行审计
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - Excel 格式：Summary Sheet + 按严重级别分 Sheet（Critical / Warning / Info）
type ExportService interface {
	// ExportAuditLog 导出审计日志为 Excel
	ExportAuditLog(ctx context.Context, auditLogID int64) (*bytes.Buffer, string, error)
}

type exportService struct {
	audit  AuditService
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(audit AuditService, logger *zap.Logger) ExportService {
	return &exportService{audit: audit, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportAuditLog — 导出审计日志为 Excel
// ═══════════════════════════════════════════════════════════
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportAuditLog(ctx context.Context, auditLogID int64) (*bytes.Buffer, string, error) {
	// 1. 查询审计日志
	log, err := s.audit.GetLog(ctx, auditLogID)
	if err != nil {
		return nil, "", err
	}

	// 2. 解析问题列表
	var issues []AuditIssue
	if len(log.Issues) > 0 {
		if err := json.Unmarshal(log.Issues, &issues); err != nil {
			s.logger.Error("解析审计问题失败", zap.Int64("audit_log_id", auditLogID), zap.Error(err))
			return nil, "", ErrExportCorruptLog
		}
	}

	bySeverity := map[AuditSeverity][]AuditIssue{}
	for _, issue := range issues {
		bySeverity[issue.Severity] = append(bySeverity[issue.Severity], issue)
	}

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	dateStr := log.AuditDate.Format(detailDateLayout)

	// Summary
	summarySheet := "Summary"
	idx, _ := f.NewSheet(summarySheet)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	f.SetColWidth(summarySheet, "A", "A", 18)
	f.SetColWidth(summarySheet, "B", "B", 80)
	rows := [][2]interface{}{
		{"Audit date", dateStr},
		{"Run ID", log.RunID},
		{"Generated at", log.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Total issues", log.TotalIssues},
		{"Critical", log.CriticalIssues},
		{"Warning", log.WarningIssues},
		{"Info", log.InfoIssues},
		{"Summary", log.Summary},
	}
	for i, r := range rows {
		f.SetCellValue(summarySheet, cell("A", i+1), r[0])
		f.SetCellValue(summarySheet, cell("B", i+1), r[1])
	}
	f.SetCellStyle(summarySheet, "A1", cell("A", len(rows)), headerStyle)

	// 按严重级别分 Sheet
	for _, sev := range []AuditSeverity{AuditCritical, AuditWarning, AuditInfo} {
		sheet := severitySheetName(sev)
		f.NewSheet(sheet)
		f.SetColWidth(sheet, "A", "A", 28)
		f.SetColWidth(sheet, "B", "B", 12)
		f.SetColWidth(sheet, "C", "C", 70)
		f.SetColWidth(sheet, "D", "D", 50)
		f.SetColWidth(sheet, "E", "E", 60)

		headers := []string{"Type", "Category", "Message", "Action", "Details"}
		for i, h := range headers {
			f.SetCellValue(sheet, cell(colName(i), 1), h)
		}
		f.SetCellStyle(sheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)

		row := 2
		for _, issue := range bySeverity[sev] {
			f.SetCellValue(sheet, cell("A", row), issue.Type)
			f.SetCellValue(sheet, cell("B", row), issue.Category)
			f.SetCellValue(sheet, cell("C", row), issue.Message)
			f.SetCellValue(sheet, cell("D", row), issue.Action)
			f.SetCellValue(sheet, cell("E", row), formatDetails(issue.Details))
			row++
		}
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("audit_%s_%d.xlsx", dateStr, log.AuditLogID)
	return buf, filename, nil
}

// ── 辅助函数 ──

func severitySheetName(sev AuditSeverity) string {
	switch sev {
	case AuditCritical:
		return "Critical"
	case AuditWarning:
		return "Warning"
	default:
		return "Info"
	}
}

// formatDetails 以 key=value 形式输出，按 key 排序
func formatDetails(details map[string]interface{}) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := ""
	for i, k := range keys {
		if i > 0 {
			out += "; "
		}
		out += fmt.Sprintf("%s=%v", k, details[k])
	}
	return out
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
