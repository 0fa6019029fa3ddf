package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"roster-guard/internal/dto"
	"roster-guard/internal/model"
	"roster-guard/internal/service"
)

var (
	rotationRole string
	rotationDate string
	rotationICS  int
)

var rotationCmd = &cobra.Command{
	Use:   "rotation",
	Short: "Show who covers a rotation role on a date",
	Long: `Resolve the effective employee for a rotation role, honouring one-off exceptions.

With --ics N the command prints an iCalendar feed for N days starting at --date
covering every rotation role instead.`,
	RunE: runRotation,
}

func init() {
	rotationCmd.Flags().StringVarP(&rotationRole, "role", "r", model.RoleJuicer, "Rotation role (juicer | primary_lead)")
	rotationCmd.Flags().StringVarP(&rotationDate, "date", "d", "", "Date YYYY-MM-DD (default today)")
	rotationCmd.Flags().IntVar(&rotationICS, "ics", 0, "Print an iCalendar feed for this many days")
}

func runRotation(cmd *cobra.Command, _ []string) error {
	if rotationICS == 0 && !service.IsKnownRole(rotationRole) {
		return fmt.Errorf("unknown rotation role %q", rotationRole)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	date, err := dto.ParseDate(rotationDate, a.cfg.Server.Location())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if rotationICS > 0 {
		cal, err := a.svc.Rotation.BuildCalendar(ctx, date, rotationICS, []string{model.RoleJuicer, model.RolePrimaryLead})
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), cal)
		return err
	}

	result, err := a.svc.Rotation.GetRotationEmployee(ctx, date, rotationRole)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), dto.NewRotationResponse(rotationRole, date.Format(dto.DateLayout), result))
}
