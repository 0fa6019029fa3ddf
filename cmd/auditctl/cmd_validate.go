package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"roster-guard/internal/dto"
	"roster-guard/internal/service"
)

var (
	validateEmployee string
	validateEvent    int64
	validateAt       string
	validateDuration int
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a proposed assignment without committing it",
	Example: `  auditctl validate --employee E1 --event 606001 --at 2025-10-15T09:30:00
  auditctl validate --employee E1 --event 42 --at 2025-10-15T09:30:00-05:00 --duration 120`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateEmployee, "employee", "e", "", "Employee id")
	validateCmd.Flags().Int64Var(&validateEvent, "event", 0, "Event id or project reference number")
	validateCmd.Flags().StringVar(&validateAt, "at", "", "Proposed start (RFC3339 or local YYYY-MM-DDTHH:MM)")
	validateCmd.Flags().IntVar(&validateDuration, "duration", 0, "Duration in minutes (default from event)")
	_ = validateCmd.MarkFlagRequired("employee")
	_ = validateCmd.MarkFlagRequired("event")
	_ = validateCmd.MarkFlagRequired("at")
}

func runValidate(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	at, err := dto.ParseDateTime(validateAt, a.cfg.Server.Location())
	if err != nil {
		return err
	}

	in := service.ValidateScheduleInput{
		EmployeeID:       validateEmployee,
		EventID:          validateEvent,
		ScheduleDatetime: at,
	}
	if validateDuration > 0 {
		in.DurationMinutes = &validateDuration
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result, err := a.svc.Validation.ValidateSchedule(ctx, in)
	if err != nil {
		var lookupErr *service.LookupError
		if errors.As(err, &lookupErr) {
			return printJSON(cmd.OutOrStdout(), dto.ValidationFailureResponse{Success: false, Error: lookupErr.Error()})
		}
		return fmt.Errorf("validate: %w", err)
	}

	return printJSON(cmd.OutOrStdout(), dto.NewValidateScheduleResponse(result))
}
