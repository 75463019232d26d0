package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tlcaputi/territories-mortality-stats/internal/icd"
	"github.com/tlcaputi/territories-mortality-stats/internal/mortality"
)

// CSVSink writes two files into Dir: a per-jurisdiction summary and a
// per-code table with classification flags re-derived from the rules.
type CSVSink struct {
	Dir   string
	Rules icd.Rules
}

const (
	summaryFileName = "jurisdiction_mortality_summary.csv"
	codesFileName   = "jurisdiction_icd10_codes.csv"
)

func (c CSVSink) Write(res *mortality.Results) error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := c.writeSummary(res); err != nil {
		return err
	}
	return c.writeCodes(res)
}

func (c CSVSink) writeSummary(res *mortality.Results) error {
	path := filepath.Join(c.Dir, summaryFileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"jurisdiction", "jurisdiction_code", "total_deaths",
		"drug_related_deaths", "overdose_deaths", "suicide_deaths",
		"accidental_deaths", "homicide_deaths", "natural_deaths",
	}); err != nil {
		return err
	}

	for _, code := range res.Registry.Codes() {
		s, ok := res.Jurisdictions[code]
		if !ok {
			// Keep jurisdictions without records visible in the output.
			if err := w.Write([]string{
				res.Registry.Name(code), code,
				"0", "0", "0", "0", "0", "0", "0",
			}); err != nil {
				return err
			}
			continue
		}
		if err := w.Write([]string{
			res.Registry.Name(code), code,
			strconv.FormatInt(s.TotalDeaths, 10),
			strconv.FormatInt(s.DrugRelatedDeaths, 10),
			strconv.FormatInt(s.OverdoseDeaths, 10),
			strconv.FormatInt(s.SuicideDeaths, 10),
			strconv.FormatInt(s.AccidentalDeaths, 10),
			strconv.FormatInt(s.HomicideDeaths, 10),
			strconv.FormatInt(s.NaturalDeaths, 10),
		}); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func (c CSVSink) writeCodes(res *mortality.Results) error {
	path := filepath.Join(c.Dir, codesFileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"jurisdiction", "jurisdiction_code", "icd10_code", "deaths",
		"is_overdose", "is_drug_related", "is_suicide",
	}); err != nil {
		return err
	}

	for _, jcode := range res.Registry.Codes() {
		s, ok := res.Jurisdictions[jcode]
		if !ok {
			continue
		}
		name := res.Registry.Name(jcode)
		for _, code := range sortedCauses(s) {
			if err := w.Write([]string{
				name, jcode, displayCode(code),
				strconv.FormatInt(s.UnderlyingCauseCounts[code], 10),
				yesNo(c.Rules.Overdose(code)),
				yesNo(c.Rules.DrugRelated(code)),
				yesNo(c.Rules.SuicideByCode(code)),
			}); err != nil {
				return err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
