// Package cli provides slactl, the offline SLA report tool.
package cli

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/stanstork/batchboard-api/internal/filter"
	"github.com/stanstork/batchboard-api/internal/generator"
	"github.com/stanstork/batchboard-api/internal/models"
)

// Version information (set at build time).
var Version = "0.1.0"

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// options are the flags shared by every subcommand.
type options struct {
	days         int
	seed         int64
	preset       string
	env          string
	batchType    string
	from         string
	to           string
	today        string
	format       string
	environments []string
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "slactl",
		Short: "slactl - batch SLA reports from generated data",
		Long: `slactl builds the SLA datasets served by the batchboard API offline.

The same seed, preset and reference day always produce the same records,
so reports can be reproduced and diffed.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&opts.days, "days", 7, "Number of calendar days ending today")
	flags.Int64Var(&opts.seed, "seed", 12345, "Generator seed")
	flags.StringVar(&opts.preset, "preset", generator.DefaultPreset, "Generator preset ("+strings.Join(generator.PresetNames(), "|")+")")
	flags.StringVar(&opts.env, "env", filter.All, "Environment filter")
	flags.StringVar(&opts.batchType, "type", filter.All, "Batch type filter (ALL|BANK|CARD)")
	flags.StringVar(&opts.from, "from", "", "First run date, YYYY-MM-DD or MM-DD-YYYY")
	flags.StringVar(&opts.to, "to", "", "Last run date, YYYY-MM-DD or MM-DD-YYYY")
	flags.StringVar(&opts.today, "today", "", "Reference day instead of the current date")
	flags.StringVarP(&opts.format, "format", "f", FormatTable, "Output format (table|json|csv)")
	flags.StringSliceVar(&opts.environments, "environments", generator.DefaultEnvironments, "Environment codes to generate")

	_ = rootCmd.RegisterFlagCompletionFunc("preset", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return generator.PresetNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{FormatTable, FormatJSON, FormatCSV}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newGenerateCommand(opts))
	rootCmd.AddCommand(newSeriesCommand(opts))
	rootCmd.AddCommand(newExportCommand(opts))

	return rootCmd
}

// dataset holds the filtered records of one invocation.
type dataset struct {
	preset  generator.Preset
	today   time.Time
	records []models.BatchRunRecord
}

func (o *options) load() (*dataset, error) {
	preset, err := generator.LookupPreset(o.preset)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if o.today != "" {
		day, err := filter.ParseDate(o.today, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("--today: %w", err)
		}
		now = func() time.Time { return day }
	}

	f, errs := filter.Parse(url.Values{
		filter.KeyEnv:  {o.env},
		filter.KeyType: {o.batchType},
		filter.KeyFrom: {o.from},
		filter.KeyTo:   {o.to},
	}, filter.ParseOptions{})
	if errs.Empty() {
		errs = filter.Validator{Environments: o.environments, Now: now, Location: time.UTC}.Validate(f)
	}
	if !errs.Empty() {
		return nil, fmt.Errorf("invalid filters: %w", errs)
	}

	gen := generator.New(generator.Options{
		Seed:         o.seed,
		Environments: o.environments,
		Preset:       preset,
		Now:          now,
	})
	return &dataset{
		preset:  preset,
		today:   models.DateOnly(now().UTC()),
		records: filter.Apply(gen.Generate(o.days), f),
	}, nil
}

func (o *options) checkFormat(allowed ...string) error {
	for _, f := range allowed {
		if o.format == f {
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q, expected one of %s", o.format, strings.Join(allowed, ", "))
}
