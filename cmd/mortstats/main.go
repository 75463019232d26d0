// mortstats extracts drug-related, overdose and suicide death counts
// for US territories (or any configured jurisdiction set) from CDC
// fixed-width public-use mortality files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tlcaputi/territories-mortality-stats/internal/config"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mortstats",
	Short: "Mortality statistics from CDC public-use death records",
	Long: `mortstats processes CDC fixed-width mortality files, classifies each
death record against ICD-10 rule sets (drug overdose, drug-related,
suicide), and aggregates counts per jurisdiction.

Results can be printed, written as CSV or parquet, or loaded into
PostgreSQL.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to yaml configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(loadCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configured yaml file (or defaults) and applies
// shared command-line overrides.
func loadConfig(dataFile string) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if dataFile != "" {
		cfg.DataFile = dataFile
	}
	if cfg.DataFile == "" {
		return config.Config{}, fmt.Errorf("no data file: pass --file or set data_file in the config")
	}
	return cfg, nil
}
