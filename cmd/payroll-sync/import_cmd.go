package main

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iota-uz/payroll-sync/modules/payroll/services"
	"github.com/iota-uz/payroll-sync/pkg/configuration"
	"github.com/iota-uz/payroll-sync/pkg/metrics"
)

type executionSummary struct {
	Total          int `json:"total"`
	SuccessUpdates int `json:"success_updates"`
	SuccessInserts int `json:"success_inserts"`
	Failed         int `json:"failed"`
}

func newImportCmd() *cobra.Command {
	var file string
	var apply bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Analyze a payroll sheet and commit the classified rows",
		Long: `Analyze a payroll sheet and commit the classified rows.

Without --apply this behaves like analyze: the classification summary is
printed and nothing is written. With --apply the classified set is committed
in chunks with per-row failure isolation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(file) == "" {
				return withCode(exitUsage, errMissingFile)
			}
			ctx, app, pool, err := setupApp(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := app.Service(services.ImportService{}).(*services.ImportService)
			set, err := runAnalysis(ctx, svc, file)
			if err != nil {
				return err
			}

			if !apply {
				return writeJSONLine(summarize(set, false))
			}

			conf := configuration.Use()
			if conf.Prometheus.Enabled {
				listener := metrics.NewListener(conf.Prometheus.Address, conf.Prometheus.Path, conf.Logger())
				listener.Start()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					_ = listener.Stop(shutdownCtx)
				}()
			}

			outcome, err := svc.Execute(ctx)
			if err != nil {
				return withCode(exitExecute, err)
			}
			return writeJSONLine(executionSummary{
				Total:          set.Total,
				SuccessUpdates: outcome.Updates,
				SuccessInserts: outcome.Inserts,
				Failed:         outcome.Failed,
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the payroll .xlsx file (required)")
	cmd.Flags().BoolVar(&apply, "apply", false, "Commit changes (default is dry-run)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
