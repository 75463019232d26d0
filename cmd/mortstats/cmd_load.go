package main

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tlcaputi/territories-mortality-stats/internal/config"
	"github.com/tlcaputi/territories-mortality-stats/internal/report"
)

var (
	loadFile   string
	dbHost     string
	dbPort     int
	dbUser     string
	dbPassword string
	dbName     string
	initSchema bool
	loadBatch  int
)

// loadCmd aggregates a mortality file and loads the results into
// PostgreSQL.
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Aggregate a mortality file and load the statistics into PostgreSQL",
	Long: `Runs the same aggregation as process and upserts the results into
PostgreSQL: jurisdictions, per-jurisdiction summary counters, and the
per-code frequency table with classification flags.

Use --init to create the schema first. --init without a data file only
initializes the schema.`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadFile, "file", "", "Mortality data file or zip archive")
	loadCmd.Flags().StringVar(&dbHost, "host", "localhost", "PostgreSQL host")
	loadCmd.Flags().IntVar(&dbPort, "port", 5432, "PostgreSQL port")
	loadCmd.Flags().StringVar(&dbUser, "user", "postgres", "PostgreSQL user")
	loadCmd.Flags().StringVar(&dbPassword, "password", "", "PostgreSQL password")
	loadCmd.Flags().StringVar(&dbName, "dbname", "mortality_stats", "PostgreSQL database name")
	loadCmd.Flags().BoolVar(&initSchema, "init", false, "Initialize database schema")
	loadCmd.Flags().IntVar(&loadBatch, "batch", 1000, "Cause-count rows per transaction")
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if loadFile != "" {
		cfg.DataFile = loadFile
	}
	if cfg.DataFile == "" && !initSchema {
		return fmt.Errorf("no data file: pass --file or set data_file in the config")
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return fmt.Errorf("parse connection string: %w", err)
	}
	poolConfig.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	logger.Debug("Connected to database", zap.String("host", dbHost), zap.String("dbname", dbName))

	if initSchema {
		loader := &report.PGLoader{Pool: pool}
		if err := loader.InitSchema(ctx); err != nil {
			return err
		}
		logger.Info("Schema initialized")
		if cfg.DataFile == "" {
			return nil
		}
	}

	res, rules, err := aggregate(cfg)
	if err != nil {
		return err
	}

	loader := &report.PGLoader{Pool: pool, Rules: rules, BatchSize: loadBatch}
	if err := loader.Load(ctx, res); err != nil {
		return err
	}
	logger.Info("Load complete", zap.Int64("records", res.TotalRecords))
	return nil
}
