package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tlcaputi/territories-mortality-stats/internal/config"
	"github.com/tlcaputi/territories-mortality-stats/internal/fixedwidth"
	"github.com/tlcaputi/territories-mortality-stats/internal/icd"
	"github.com/tlcaputi/territories-mortality-stats/internal/ingest"
	"github.com/tlcaputi/territories-mortality-stats/internal/mortality"
	"github.com/tlcaputi/territories-mortality-stats/internal/report"
)

var (
	processFile   string
	processOutDir string
	processFormat string
)

// processCmd aggregates a mortality file and emits the results locally.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Aggregate a mortality file and print or export the statistics",
	Long: `Reads a fixed-width mortality file (plain or zip archive), classifies
every record, and emits per-jurisdiction statistics.

Formats:
  console   summary printed to stdout (default)
  csv       summary + per-code tables written to the output directory
  parquet   per-code table written as a parquet file`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVar(&processFile, "file", "", "Mortality data file or zip archive")
	processCmd.Flags().StringVar(&processOutDir, "out", "output", "Output directory for csv/parquet")
	processCmd.Flags().StringVar(&processFormat, "format", "console", "Output format: console, csv or parquet")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(processFile)
	if err != nil {
		return err
	}

	res, rules, err := aggregate(cfg)
	if err != nil {
		return err
	}

	var sink report.Sink
	switch processFormat {
	case "console":
		sink = report.ConsoleSink{Out: os.Stdout, Rules: rules}
	case "csv":
		sink = report.CSVSink{Dir: processOutDir, Rules: rules}
	case "parquet":
		if err := os.MkdirAll(processOutDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		sink = report.ParquetSink{
			Path:  filepath.Join(processOutDir, "jurisdiction_icd10_codes.parquet"),
			Rules: rules,
		}
	default:
		return fmt.Errorf("unknown format %q (want console, csv or parquet)", processFormat)
	}

	return sink.Write(res)
}

// aggregate runs one full pass over the configured data file.
func aggregate(cfg config.Config) (*mortality.Results, icd.Rules, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return nil, rules, err
	}

	opts := []mortality.Option{
		mortality.WithLayout(fixedwidth.Default().WithMinLength(cfg.MinRecordLength)),
	}
	if cfg.ExcludeForeignResidents {
		opts = append(opts, mortality.ExcludeForeignResidents())
	}
	agg := mortality.NewAggregator(rules, cfg.Registry(), opts...)

	provider := ingest.ForPath(cfg.DataFile)
	reader, err := provider.Open()
	if err != nil {
		return nil, rules, err
	}
	defer reader.Close()

	logger.Info("Processing mortality data",
		zap.String("file", cfg.DataFile),
		zap.String("policy", cfg.Policy),
		zap.Bool("exclude_foreign_residents", cfg.ExcludeForeignResidents))

	start := time.Now()
	if err := agg.Run(reader); err != nil {
		return nil, rules, fmt.Errorf("process %s: %w", cfg.DataFile, err)
	}
	res := agg.Results()

	logger.Info("Aggregation complete",
		zap.Int64("records", res.TotalRecords),
		zap.Duration("elapsed", time.Since(start)))
	return res, rules, nil
}
