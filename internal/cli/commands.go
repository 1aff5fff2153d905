package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stanstork/batchboard-api/internal/aggregate"
	"github.com/stanstork/batchboard-api/internal/export"
)

func newGenerateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Print generated batch runs",
		Example: `  slactl generate --days 3 --env ASYS
  slactl generate --seed 7 --preset uniform -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.checkFormat(FormatTable, FormatJSON, FormatCSV); err != nil {
				return err
			}
			ds, err := opts.load()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch opts.format {
			case FormatJSON:
				return renderJSON(w, ds.records)
			case FormatCSV:
				return export.WriteCSV(w, ds.records)
			default:
				renderRecords(w, ds.records)
				return nil
			}
		},
	}
}

func newSeriesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "series",
		Short: "Print per-day weighted and actual runtime averages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.checkFormat(FormatTable, FormatJSON); err != nil {
				return err
			}
			ds, err := opts.load()
			if err != nil {
				return err
			}
			points := aggregate.Series(ds.records, ds.preset.Weight)
			summary := aggregate.Summary(ds.records)
			w := cmd.OutOrStdout()
			if opts.format == FormatJSON {
				return renderJSON(w, map[string]interface{}{
					"points":  points,
					"summary": summary,
				})
			}
			renderSeries(w, points, summary)
			return nil
		},
	}
}

func newExportCommand(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the SLA application details CSV",
		Long: `Write the filtered records as the SLA application details CSV.

Without --out the file is named sla-application-details-<date>.csv in the
current directory. Use --out - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := opts.load()
			if err != nil {
				return err
			}
			if out == "-" {
				return export.WriteCSV(cmd.OutOrStdout(), ds.records)
			}
			if out == "" {
				out = export.Filename(ds.today)
			}
			if err := os.WriteFile(out, export.CSV(ds.records), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rows to %s\n", len(ds.records), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, - for stdout")
	return cmd
}
