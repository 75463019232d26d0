package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/tlcaputi/territories-mortality-stats/internal/icd"
)

func TestParquetSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.parquet")
	sink := ParquetSink{Path: path, Rules: icd.NewRules(icd.PolicyNVSRExact)}
	if err := sink.Write(testResults()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if fi.Size() == 0 {
		t.Fatal("parquet file is empty")
	}

	// Read back and verify using ReadFile helper
	rows, err := parquet.ReadFile[CauseCountRow](path)
	if err != nil {
		t.Fatalf("read parquet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	byCode := make(map[string]CauseCountRow, len(rows))
	for _, row := range rows {
		if row.JurisdictionCode != "PR" || row.Jurisdiction != "Puerto Rico" {
			t.Errorf("unexpected jurisdiction on row: %+v", row)
		}
		byCode[row.ICD10Code] = row
	}

	x42, ok := byCode["X42"]
	if !ok {
		t.Fatalf("no X42 row: %v", byCode)
	}
	if x42.Deaths != 1 || !x42.IsOverdose || !x42.IsDrugRelated || x42.IsSuicide {
		t.Errorf("X42 row = %+v", x42)
	}
	if z99 := byCode["Z99"]; z99.IsOverdose || z99.IsDrugRelated || z99.IsSuicide {
		t.Errorf("Z99 row = %+v", z99)
	}
}
