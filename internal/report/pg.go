package report

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tlcaputi/territories-mortality-stats/internal/icd"
	"github.com/tlcaputi/territories-mortality-stats/internal/mortality"
)

//go:embed sql/schema.sql
var schema string

const defaultPGBatchSize = 1000

// PGLoader upserts a results snapshot into PostgreSQL. Repeated loads of
// the same jurisdictions overwrite previous values, so a run can be
// repeated after a data refresh.
type PGLoader struct {
	Pool  *pgxpool.Pool
	Rules icd.Rules

	// BatchSize bounds cause_counts rows per transaction; 0 uses 1000.
	BatchSize int
}

// InitSchema creates the tables if they do not exist.
func (l *PGLoader) InitSchema(ctx context.Context) error {
	if _, err := l.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

// Load writes the snapshot. Jurisdictions and their summary rows go in
// one transaction; cause counts are committed in batches of BatchSize,
// since a national file can carry thousands of distinct codes per
// jurisdiction and the code table should not ride one transaction.
func (l *PGLoader) Load(ctx context.Context, res *mortality.Results) error {
	if err := l.loadSummaries(ctx, res); err != nil {
		return err
	}
	return l.loadCauseCounts(ctx, res)
}

func (l *PGLoader) loadSummaries(ctx context.Context, res *mortality.Results) error {
	tx, err := l.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, code := range res.Registry.Codes() {
		if _, err := tx.Exec(ctx,
			`INSERT INTO jurisdictions (code, name) VALUES ($1, $2)
			 ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name`,
			code, res.Registry.Name(code)); err != nil {
			return fmt.Errorf("upsert jurisdiction %s: %w", code, err)
		}

		s := res.Stats(code)
		if _, err := tx.Exec(ctx,
			`INSERT INTO jurisdiction_stats (
			     jurisdiction_code, total_deaths, suicide_deaths,
			     overdose_deaths, drug_related_deaths, accidental_deaths,
			     homicide_deaths, natural_deaths
			 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (jurisdiction_code) DO UPDATE SET
			     total_deaths = EXCLUDED.total_deaths,
			     suicide_deaths = EXCLUDED.suicide_deaths,
			     overdose_deaths = EXCLUDED.overdose_deaths,
			     drug_related_deaths = EXCLUDED.drug_related_deaths,
			     accidental_deaths = EXCLUDED.accidental_deaths,
			     homicide_deaths = EXCLUDED.homicide_deaths,
			     natural_deaths = EXCLUDED.natural_deaths`,
			code, s.TotalDeaths, s.SuicideDeaths, s.OverdoseDeaths,
			s.DrugRelatedDeaths, s.AccidentalDeaths, s.HomicideDeaths,
			s.NaturalDeaths); err != nil {
			return fmt.Errorf("upsert stats for %s: %w", code, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit summaries: %w", err)
	}
	return nil
}

func (l *PGLoader) loadCauseCounts(ctx context.Context, res *mortality.Results) error {
	batchSize := l.BatchSize
	if batchSize <= 0 {
		batchSize = defaultPGBatchSize
	}

	var tx pgx.Tx
	var err error
	var batchCount int

	tx, err = l.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	for _, jcode := range res.Registry.Codes() {
		s, ok := res.Jurisdictions[jcode]
		if !ok {
			continue
		}
		for _, code := range sortedCauses(s) {
			if _, err := tx.Exec(ctx,
				`INSERT INTO cause_counts (
				     jurisdiction_code, icd10_code, deaths,
				     is_overdose, is_drug_related, is_suicide
				 ) VALUES ($1, $2, $3, $4, $5, $6)
				 ON CONFLICT (jurisdiction_code, icd10_code) DO UPDATE SET
				     deaths = EXCLUDED.deaths,
				     is_overdose = EXCLUDED.is_overdose,
				     is_drug_related = EXCLUDED.is_drug_related,
				     is_suicide = EXCLUDED.is_suicide`,
				jcode, displayCode(code), s.UnderlyingCauseCounts[code],
				l.Rules.Overdose(code), l.Rules.DrugRelated(code),
				l.Rules.SuicideByCode(code)); err != nil {
				tx.Rollback(ctx)
				return fmt.Errorf("upsert cause count %s/%s: %w", jcode, code, err)
			}

			batchCount++
			if batchCount >= batchSize {
				if err := tx.Commit(ctx); err != nil {
					return fmt.Errorf("commit cause count batch: %w", err)
				}
				tx, err = l.Pool.Begin(ctx)
				if err != nil {
					return fmt.Errorf("begin new transaction: %w", err)
				}
				batchCount = 0
			}
		}
	}

	if batchCount > 0 {
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit final batch: %w", err)
		}
	} else {
		tx.Rollback(ctx) // Nothing to commit
	}
	return nil
}
