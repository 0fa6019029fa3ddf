package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"roster-guard/internal/dto"
	"roster-guard/internal/service"
)

// errCriticalIssues 审计发现 CRITICAL 问题，进程以 2 退出
var errCriticalIssues = errors.New("audit found critical issues")

var (
	auditDate      string
	auditJSON      bool
	auditExportDir string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the daily schedule audit",
	Long: `Run every daily audit check for one date, persist the result and print it.

Exit status is 2 when the audit found CRITICAL issues.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVarP(&auditDate, "date", "d", "", "Audit date YYYY-MM-DD (default today in store timezone)")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "Print the full result as JSON")
	auditCmd.Flags().StringVar(&auditExportDir, "export", "", "Write an xlsx report into this directory")
}

func runAudit(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	date, err := dto.ParseDate(auditDate, a.cfg.Server.Location())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result, err := a.svc.Audit.RunDailyAudit(ctx, date)
	if err != nil {
		return fmt.Errorf("audit %s: %w", date.Format(dto.DateLayout), err)
	}

	out := cmd.OutOrStdout()
	if auditJSON {
		if err := printJSON(out, dto.NewAuditResponse(result)); err != nil {
			return err
		}
	} else {
		printAuditText(out, result)
	}

	if auditExportDir != "" {
		if result.AuditLogID == 0 {
			return fmt.Errorf("audit result was not persisted; nothing to export")
		}
		buf, name, err := a.svc.Export.ExportAuditLog(ctx, result.AuditLogID)
		if err != nil {
			return err
		}
		path := filepath.Join(auditExportDir, name)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(out, "report written to %s\n", path)
	}

	if result.CriticalIssues > 0 {
		return errCriticalIssues
	}
	return nil
}

func printAuditText(w io.Writer, r *service.AuditResult) {
	fmt.Fprintf(w, "Audit %s (run %s)\n", r.Date.Format(dto.DateLayout), r.RunID)
	fmt.Fprintln(w, r.Summary)
	for _, issue := range r.Issues {
		fmt.Fprintf(w, "  [%-8s] %-28s %s\n", issue.Severity, issue.Type, issue.Message)
		if issue.Action != "" {
			fmt.Fprintf(w, "             -> %s\n", issue.Action)
		}
	}
}
