package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iota-uz/payroll-sync/modules/payroll/domain/reconciliation"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/schema"
	"github.com/iota-uz/payroll-sync/modules/payroll/infrastructure/sheet"
	"github.com/iota-uz/payroll-sync/modules/payroll/services"
)

var errMissingFile = errors.New("--file is required")

type analysisSummary struct {
	Total      int `json:"total"`
	Matched    int `json:"matched"`
	New        int `json:"new"`
	Contract   int `json:"contract"`
	Duplicates int `json:"duplicates"`

	Rows []analysisRow `json:"rows,omitempty"`
}

type analysisRow struct {
	Row        int      `json:"row"`
	Status     string   `json:"status"`
	Name       string   `json:"name"`
	JobNumber  string   `json:"job_number"`
	IsContract bool     `json:"is_contract,omitempty"`
	Changed    []string `json:"changed,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

func newAnalyzeCmd() *cobra.Command {
	var file string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Classify a payroll sheet against the record store (no writes)",
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
			return writeJSONLine(summarize(set, verbose))
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the payroll .xlsx file (required)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Include per-row detail in the output")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runAnalysis(ctx context.Context, svc *services.ImportService, file string) (*reconciliation.Set, error) {
	rows, err := sheet.NewReader().Rows(file)
	if err != nil {
		return nil, withCode(exitStructure, err)
	}
	set, err := svc.Analyze(ctx, rows)
	if err != nil {
		return nil, withCode(exitStructure, err)
	}
	return set, nil
}

func summarize(set *reconciliation.Set, verbose bool) analysisSummary {
	out := analysisSummary{
		Total:      set.Total,
		Matched:    set.Matched,
		New:        set.New,
		Contract:   set.Contract,
		Duplicates: set.Duplicates,
	}
	if !verbose {
		return out
	}
	for _, r := range set.Results {
		row := analysisRow{
			Row:        r.RowIndex,
			Status:     string(r.Status),
			Name:       r.Payload.Text(schema.FieldFullName),
			JobNumber:  r.Payload.Text(schema.FieldJobNumber),
			IsContract: r.IsContract,
			Suggestion: r.NameSuggestion,
		}
		for _, d := range r.Diffs {
			row.Changed = append(row.Changed, string(d.FieldID))
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
