package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tlcaputi/territories-mortality-stats/internal/icd"
	"github.com/tlcaputi/territories-mortality-stats/internal/mortality"
)

// testResults builds a small snapshot: PR with three deaths, GU with no
// records at all.
func testResults() *mortality.Results {
	reg := mortality.NewRegistry([]mortality.Jurisdiction{
		{Code: "PR", Name: "Puerto Rico"},
		{Code: "GU", Name: "Guam"},
	})
	return &mortality.Results{
		Registry: reg,
		Jurisdictions: map[string]*mortality.Stats{
			"PR": {
				TotalDeaths:       3,
				SuicideDeaths:     1,
				OverdoseDeaths:    1,
				DrugRelatedDeaths: 1,
				AccidentalDeaths:  1,
				UnderlyingCauseCounts: map[string]int64{
					"X42": 1,
					"I10": 1,
					"Z99": 1,
				},
				ResidentStatusCounts: map[string]int64{"1": 3},
			},
		},
		TotalRecords: 3,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestCSVSinkSummary(t *testing.T) {
	dir := t.TempDir()
	sink := CSVSink{Dir: dir, Rules: icd.NewRules(icd.PolicyNVSRExact)}
	if err := sink.Write(testResults()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	rows := readCSV(t, filepath.Join(dir, summaryFileName))
	if len(rows) != 3 { // header + PR + GU
		t.Fatalf("summary has %d rows, want 3: %v", len(rows), rows)
	}
	if rows[0][0] != "jurisdiction" || rows[0][2] != "total_deaths" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	pr := rows[1]
	if pr[0] != "Puerto Rico" || pr[1] != "PR" || pr[2] != "3" || pr[3] != "1" {
		t.Errorf("PR row = %v", pr)
	}
	// Jurisdictions without records get an explicit zero row.
	gu := rows[2]
	if gu[0] != "Guam" || gu[2] != "0" {
		t.Errorf("GU row = %v", gu)
	}
}

func TestCSVSinkCodes(t *testing.T) {
	dir := t.TempDir()
	sink := CSVSink{Dir: dir, Rules: icd.NewRules(icd.PolicyNVSRExact)}
	if err := sink.Write(testResults()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	rows := readCSV(t, filepath.Join(dir, codesFileName))
	if len(rows) != 4 { // header + 3 PR codes, GU contributes nothing
		t.Fatalf("codes file has %d rows, want 4: %v", len(rows), rows)
	}

	// Equal counts tie-break by code, so order is deterministic.
	wantOrder := []string{"I10", "X42", "Z99"}
	for i, want := range wantOrder {
		if rows[i+1][2] != want {
			t.Errorf("row %d code = %q, want %q", i+1, rows[i+1][2], want)
		}
	}

	// X42 is both overdose and drug-related, not suicide.
	for _, row := range rows[1:] {
		if row[2] != "X42" {
			continue
		}
		if row[4] != "Yes" || row[5] != "Yes" || row[6] != "No" {
			t.Errorf("X42 flags = %v", row[4:7])
		}
	}
}

func TestConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	sink := ConsoleSink{Out: &buf, Rules: icd.NewRules(icd.PolicyNVSRExact)}
	if err := sink.Write(testResults()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Total records processed: 3",
		"Puerto Rico (PR)",
		"Total Deaths:         3",
		"Drug-Related Underlying Causes:",
		"X42: 1",
		"Guam: no records found",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q\n%s", want, out)
		}
	}
}
