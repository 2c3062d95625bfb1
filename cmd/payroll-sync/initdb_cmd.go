package main

import (
	"github.com/spf13/cobra"

	"github.com/iota-uz/payroll-sync/modules/payroll/infrastructure/persistence"
)

func newInitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the record-store tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, pool, err := setupApp(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := persistence.EnsureSchema(cmd.Context(), pool); err != nil {
				return withCode(exitDB, err)
			}
			return nil
		},
	}
}
