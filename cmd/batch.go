package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wattanit/wcm/internal/batch"
	"github.com/wattanit/wcm/internal/cataloging"
	"github.com/wattanit/wcm/internal/storage"
)

const statusFailed = "failed"

func newBatchCmd(a *app) *cobra.Command {
	var path string
	var sample int
	var ebook bool
	var yes bool
	var report string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Add every book listed in a parquet or jsonl file",
		Long: `Runs the add workflow once per row. Each row has an "isbn", or a "title"
and an "author", and optionally "ebook". The ISBN is used when present.
Rows with neither are skipped.`,
		Example: `  # Add the first 5 rows, confirming each
  wcm batch --file books.jsonl --sample 5

  # Add everything without prompting and keep a report
  wcm batch --file books.parquet --yes --report runs/books.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("batch file not found: %s", path)
			}

			rows, err := loadRows(path, sample)
			if err != nil {
				return fmt.Errorf("failed to load batch file: %w", err)
			}
			slog.Info("batch loaded", "rows", len(rows), "path", path)

			svc, err := a.service(cmd.OutOrStdout(), yes)
			if err != nil {
				return err
			}

			journal := storage.New()
			out := cmd.OutOrStdout()
			for i, row := range rows {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				if !row.Valid() {
					slog.Warn("skipping row without isbn or title and author", "row", i+1)
					journal.Record(storage.Outcome{Input: fmt.Sprintf("row %d", i+1), Status: "skipped"})
					continue
				}

				fmt.Fprintf(out, "\n[%d/%d] %s\n", i+1, len(rows), row)
				res, err := svc.Add(cmd.Context(), rowRequest(row, ebook))
				if err != nil {
					slog.Error("failed to add book", "row", i+1, "err", err)
					journal.Record(storage.Outcome{Input: row.String(), Status: statusFailed, Error: err.Error()})
					continue
				}
				journal.Record(storage.Outcome{Input: row.String(), Status: string(res.Status), EntryID: res.EntryID})
			}

			printBatchSummary(cmd, journal)

			if report != "" {
				llmCfg := a.cfg.LLM
				err := journal.SaveYAML(report, storage.RunInfo{
					Source:      path,
					SampleSize:  sample,
					Provider:    string(llmCfg.Provider),
					Model:       llmCfg.Selected().Model,
					Temperature: llmCfg.Temperature,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nReport saved to: %s\n", report)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "Path to a .parquet or .jsonl file")
	cmd.Flags().IntVar(&sample, "sample", 0, "Only process the first N rows (0 for all)")
	cmd.Flags().BoolVar(&ebook, "ebook", false, "Catalog every row as an ebook")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Add without asking for confirmation")
	cmd.Flags().StringVar(&report, "report", "", "Write a YAML report of the run to this path")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func loadRows(path string, sample int) ([]batch.Row, error) {
	loader := batch.NewLoader(path)
	if sample <= 0 {
		return loader.Load()
	}
	return loader.LoadSample(sample)
}

// rowRequest searches by ISBN when the row has one and by title and author
// otherwise.
func rowRequest(row batch.Row, ebook bool) cataloging.Request {
	req := cataloging.Request{Ebook: row.Ebook || ebook}
	if isbn := strings.TrimSpace(row.ISBN); isbn != "" {
		req.ISBN = isbn
		return req
	}
	req.Title = strings.TrimSpace(row.Title)
	req.Author = strings.TrimSpace(row.Author)
	return req
}

func printBatchSummary(cmd *cobra.Command, journal *storage.Journal) {
	out := cmd.OutOrStdout()
	summary := journal.Summary()

	fmt.Fprintln(out, "\nBatch summary:")
	for _, status := range journal.Statuses() {
		fmt.Fprintf(out, "  %-12s %d\n", status, summary[status])
	}

	for _, o := range journal.All() {
		if o.Status == statusFailed {
			fmt.Fprintf(out, "  failed: %s: %s\n", o.Input, o.Error)
		}
	}
}
