package report

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/tlcaputi/territories-mortality-stats/internal/icd"
	"github.com/tlcaputi/territories-mortality-stats/internal/mortality"
)

// CauseCountRow is the parquet output shape: one row per jurisdiction
// and underlying cause, with classification flags baked in so the file
// is queryable without reimplementing the rules downstream.
type CauseCountRow struct {
	JurisdictionCode string `parquet:"jurisdiction_code,dict"`
	Jurisdiction     string `parquet:"jurisdiction,dict"`
	ICD10Code        string `parquet:"icd10_code"`
	Deaths           int64  `parquet:"deaths"`
	IsOverdose       bool   `parquet:"is_overdose"`
	IsDrugRelated    bool   `parquet:"is_drug_related"`
	IsSuicide        bool   `parquet:"is_suicide"`
}

// ParquetSink writes the per-code table to a snappy-compressed parquet
// file at Path.
type ParquetSink struct {
	Path  string
	Rules icd.Rules
}

const parquetFlushInterval = 50_000

func (p ParquetSink) Write(res *mortality.Results) error {
	f, err := os.Create(p.Path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[CauseCountRow](f,
		parquet.Compression(&parquet.Snappy),
	)

	var written int
	for _, jcode := range res.Registry.Codes() {
		s, ok := res.Jurisdictions[jcode]
		if !ok {
			continue
		}
		name := res.Registry.Name(jcode)
		for _, code := range sortedCauses(s) {
			row := CauseCountRow{
				JurisdictionCode: jcode,
				Jurisdiction:     name,
				ICD10Code:        displayCode(code),
				Deaths:           s.UnderlyingCauseCounts[code],
				IsOverdose:       p.Rules.Overdose(code),
				IsDrugRelated:    p.Rules.DrugRelated(code),
				IsSuicide:        p.Rules.SuicideByCode(code),
			}
			if _, err := writer.Write([]CauseCountRow{row}); err != nil {
				f.Close()
				return fmt.Errorf("write parquet row: %w", err)
			}
			written++
			// Flush row groups periodically to bound memory usage.
			if written%parquetFlushInterval == 0 {
				if err := writer.Flush(); err != nil {
					f.Close()
					return fmt.Errorf("flush parquet row group: %w", err)
				}
			}
		}
	}

	if err := writer.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return f.Close()
}
