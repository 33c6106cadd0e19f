package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rentwise/internal/database"
	"rentwise/internal/router"
	"rentwise/internal/validator"
)

func reconcileCmd() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Extend open-ended schedules and mark late or overdue entries once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if asOf != "" {
				parsed, err := time.Parse(validator.DateLayout, asOf)
				if err != nil {
					return fmt.Errorf("--as-of must be a date in YYYY-MM-DD format")
				}
				day = parsed
			}

			return withDatabase(func(m *database.Manager) error {
				reconciler := router.NewReconciler(router.NewServices(m.DB(), appConfig))
				report, err := reconciler.RunOnce(cmd.Context(), day)
				if report != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "as_of=%s entries_added=%d marked_late=%d marked_overdue=%d\n",
						report.AsOf.Format(validator.DateLayout), report.EntriesAdded, report.MarkedLate, report.MarkedOverdue)
				}
				return err
			})
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference day (YYYY-MM-DD, default today)")
	return cmd
}
