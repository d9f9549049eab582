package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohit83k/bngclients/internal/ingest"
	"github.com/mohit83k/bngclients/internal/logger"
	"github.com/mohit83k/bngclients/internal/model"
)

// dryRun accepts every write and keeps nothing.
type dryRun struct{}

func (dryRun) UpsertBatch(context.Context, []model.ClientRecord) error { return nil }
func (dryRun) Delete(context.Context, string) error                   { return nil }

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate an upload file without storing it",
		Long: `Run every row of a tab-delimited upload through the same checks the
service applies, and list each rejected row with all of its field errors.

Exits non-zero if any row is invalid.

  clientsctl validate clients.tsv
  clientsctl validate clients.tsv --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			svc := ingest.NewService(dryRun{}, nil, logger.Discard())
			report, err := svc.Ingest(cmd.Context(), f)
			if errors.Is(err, model.ErrNoContent) {
				fmt.Println("no rows")
				return nil
			}
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				printReport(report)
			}

			if report.Invalid > 0 {
				return fmt.Errorf("%d of %d rows invalid", report.Invalid, report.Processed)
			}
			return nil
		},
	}
}

func printReport(r *ingest.Report) {
	fmt.Printf("rows: %d  valid: %d  invalid: %d\n", r.Processed, r.Valid, r.Invalid)
	for _, e := range r.InvalidInfo {
		var parts []string
		for _, col := range model.Columns {
			if reason, ok := e.Errors[col]; ok {
				parts = append(parts, fmt.Sprintf("%s=%q %s", col, e.Data[col], reason))
			}
		}
		fmt.Printf("  row %d: %s\n", e.Record, strings.Join(parts, "; "))
	}
}
