// Package main provides the CLI entry point for sheetpipe.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe"
	"github.com/rcameron/sheetpipe/pkg/sheetpipe/dedupe"
	"github.com/rcameron/sheetpipe/pkg/sheetpipe/diff"
	"github.com/rcameron/sheetpipe/pkg/sheetpipe/logging"
	"github.com/rcameron/sheetpipe/pkg/sheetpipe/models"
	"github.com/rcameron/sheetpipe/pkg/sheetpipe/output"
	"github.com/rcameron/sheetpipe/pkg/sheetpipe/parser"
)

var (
	configPath string
	outputPath string
	pretty     bool
	logLevel   string
	logFormat  string

	sheetName  string
	startDate  string
	endDate    string
	refYear    int
	workers    int
	timeoutSec int
	ndjson     bool

	epsilon   float64
	keyRole   string
	valueRole string
	threshold float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheetpipe",
		Short: "Normalize heterogeneous spreadsheet exports into typed records",
		Long: `sheetpipe ingests schema-less spreadsheet and delimited files
(timecards, billing exports, allocation snapshots) and converts them into
a normalized record stream plus per-file diagnostics.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logLevel, logFormat)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text, json")

	extractCmd := &cobra.Command{
		Use:   "extract [files...]",
		Short: "Extract normalized records from spreadsheet and delimited files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runExtract,
	}
	extractCmd.Flags().StringVar(&sheetName, "sheet", "", "Explicit sheet name (default: first sheet)")
	extractCmd.Flags().StringVar(&startDate, "start", "", "Inclusive start date filter (YYYY-MM-DD)")
	extractCmd.Flags().StringVar(&endDate, "end", "", "Inclusive end date filter (YYYY-MM-DD)")
	extractCmd.Flags().IntVar(&refYear, "reference-year", time.Now().Year(), "Year for month-day date forms (0 disables)")
	extractCmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (default: available cores)")
	extractCmd.Flags().IntVar(&timeoutSec, "timeout", 0, "Per-file timeout in seconds")
	extractCmd.Flags().BoolVar(&ndjson, "ndjson", false, "Emit records as NDJSON instead of a batch document")

	compareCmd := &cobra.Command{
		Use:   "compare [original] [updated]",
		Short: "Diff two keyed snapshots and classify changes",
		Args:  cobra.ExactArgs(2),
		RunE:  runCompare,
	}
	compareCmd.Flags().Float64Var(&epsilon, "epsilon", diff.DefaultEpsilon, "Numeric change tolerance")
	compareCmd.Flags().StringVar(&sheetName, "sheet", "", "Explicit sheet name (default: first sheet)")
	compareCmd.Flags().StringVar(&keyRole, "key-role", "asset", "Record field used as the snapshot key (asset, job, employee, date)")
	compareCmd.Flags().StringVar(&valueRole, "value-role", "cost", "Record field summed per key (cost, hours)")

	dedupeCmd := &cobra.Command{
		Use:   "dedupe [files...]",
		Short: "Detect duplicate and near-duplicate source files",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runDedupe,
	}
	dedupeCmd.Flags().Float64Var(&threshold, "threshold", dedupe.DefaultSimilarityThreshold, "Filename similarity threshold")

	rootCmd.AddCommand(extractCmd, compareCmd, dedupeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildOptions(cmd *cobra.Command) (sheetpipe.Options, error) {
	opts := sheetpipe.DefaultOptions()
	if configPath != "" {
		var err error
		opts, _, err = sheetpipe.LoadConfig(configPath)
		if err != nil {
			return opts, err
		}
	}

	if sheetName != "" {
		opts.SheetName = sheetName
	}
	if workers > 0 {
		opts.Workers = workers
	}
	if timeoutSec > 0 {
		opts.FileTimeout = time.Duration(timeoutSec) * time.Second
	}
	// The flag default is the current year; a config file value wins
	// unless the flag was set explicitly.
	if opts.ReferenceYear == 0 || cmd.Flags().Changed("reference-year") {
		opts.ReferenceYear = refYear
	}

	var err error
	if opts.StartDate, err = parseDateFlag(startDate, "--start"); err != nil {
		return opts, err
	}
	if opts.EndDate, err = parseDateFlag(endDate, "--end"); err != nil {
		return opts, err
	}
	return opts, nil
}

func parseDateFlag(value, flag string) (*models.CalendarDate, error) {
	if value == "" {
		return nil, nil
	}
	d, ok := parser.ParseDate(value)
	if !ok {
		return nil, fmt.Errorf("invalid date for %s: %q", flag, value)
	}
	return &d, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}

	result := sheetpipe.ExtractBatch(cmd.Context(), args, opts)

	if len(result.Succeeded) == 0 && len(result.Failed) > 0 {
		return fmt.Errorf("no file could be processed (%d failed)", len(result.Failed))
	}

	if ndjson {
		w := os.Stdout
		if outputPath != "" {
			f, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("failed to create output: %w", err)
			}
			defer f.Close()
			w = f
		}
		return output.RecordsToNDJSON(w, result.Records)
	}

	jsonData, err := output.ToJSON(&result, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return writeOutput(jsonData)
}

func runCompare(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}

	original, err := sheetpipe.Extract(args[0], opts)
	if err != nil {
		return err
	}
	updated, err := sheetpipe.Extract(args[1], opts)
	if err != nil {
		return err
	}

	var kr, vr models.CanonicalRole
	if err := kr.UnmarshalText([]byte(keyRole)); err != nil || kr == models.RoleUnclassified {
		return fmt.Errorf("unknown key role %q", keyRole)
	}
	if err := vr.UnmarshalText([]byte(valueRole)); err != nil || (vr != models.RoleCost && vr != models.RoleHours) {
		return fmt.Errorf("unknown value role %q", valueRole)
	}

	results := diff.Compare(
		diff.Snapshot(original.Records, kr, vr),
		diff.Snapshot(updated.Records, kr, vr),
		epsilon,
	)

	jsonData, err := output.ComparisonToJSON(results, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return writeOutput(jsonData)
}

func runDedupe(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}

	hashes := make(map[string]string, len(args))
	for _, path := range args {
		grid, err := parser.LoadGrid(path, opts.SheetName)
		if err != nil {
			// Unreadable inputs cannot be hashed; they are skipped, not
			// fatal, matching the batch driver's per-file isolation.
			continue
		}
		hashes[path] = dedupe.ContentHash(grid)
	}

	report := output.DedupeReport{
		Groups:       dedupe.GroupDuplicates(hashes),
		SimilarPairs: dedupe.SimilarFilenames(args, threshold),
	}

	jsonData, err := output.DedupeToJSON(&report, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return writeOutput(jsonData)
}

func writeOutput(data []byte) error {
	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Println(string(data))
	return nil
}
