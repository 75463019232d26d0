package icd

import (
	"fmt"
	"testing"
)

func TestOverdose(t *testing.T) {
	rules := NewRules(PolicyNVSRExact)

	tests := []struct {
		code string
		want bool
	}{
		{"X40", true},
		{"X42", true},
		{"X44", true},
		{"X45", false}, // assault by firearm range starts here
		{"X60", true},
		{"X64", true},
		{"X65", false},
		{"X85", true},
		{"X850", true}, // subcategory of X85
		{"Y10", true},
		{"Y14", true},
		{"Y15", false},
		{"X4", false}, // two characters never match
		{"X6", false},
		{"Y1", false},
		{"", false},
		{"  x42 ", true}, // raw field values are trimmed and upper-cased
		{"I10", false},
	}

	for _, tt := range tests {
		if got := rules.Overdose(tt.code); got != tt.want {
			t.Errorf("Overdose(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestDrugRelated(t *testing.T) {
	rules := NewRules(PolicyNVSRExact)

	tests := []struct {
		code string
		want bool
	}{
		// Overdose codes are always drug-related.
		{"X42", true},
		{"Y12", true},
		// Scattered subcategory allow-list.
		{"D521", true},
		{"D522", false},
		{"E064", true},
		{"G211", true},
		{"I952", true},
		{"J703", true},
		{"K853", true},
		{"L271", true},
		{"M871", true},
		{"R785", true},
		{"R786", false},
		// F chapter: substances 1-6, 8, 9 with subcategories .1-.5, .7-.9.
		{"F111", true},
		{"F115", true},
		{"F117", true},
		{"F118", true},
		{"F110", false}, // acute intoxication excluded
		{"F116", false}, // amnesic syndrome excluded
		{"F101", false}, // alcohol excluded
		{"F191", true},
		// F17 tobacco: only .3-.5, .7-.9.
		{"F173", true},
		{"F175", true},
		{"F178", true},
		{"F171", false},
		{"F172", false},
		{"F170", false},
		{"F11", false}, // no subcategory digit, cannot qualify
		// T codes excluded under the NVSR-exact policy.
		{"T401", false},
		{"T36", false},
		{"T50", false},
	}

	for _, tt := range tests {
		if got := rules.DrugRelated(tt.code); got != tt.want {
			t.Errorf("DrugRelated(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestDrugRelatedBroadTCodes(t *testing.T) {
	broad := NewRules(PolicyBroadTCodes)

	tests := []struct {
		code string
		want bool
	}{
		{"T36", true},
		{"T401", true},
		{"T509", true},
		{"T35", false},
		{"T51", false},
		{"T3X", false}, // malformed numeric suffix
		// The rest of the rule is unchanged.
		{"X42", true},
		{"D521", true},
		{"F110", false},
	}

	for _, tt := range tests {
		if got := broad.DrugRelated(tt.code); got != tt.want {
			t.Errorf("DrugRelated(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestSuicideByCode(t *testing.T) {
	rules := Rules{} // zero value works too

	tests := []struct {
		code string
		want bool
	}{
		{"X60", true},
		{"X72", true},
		{"X84", true},
		{"X59", false},
		{"X85", false}, // assault, not self-harm
		{"U03", true},
		{"U039", true},
		{"Y870", true},
		{"Y871", false},
		{"Y87", false},
		{"XAB", false}, // non-digit suffix must not raise
		{"X6", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := rules.SuicideByCode(tt.code); got != tt.want {
			t.Errorf("SuicideByCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

// TestOverdoseSubsetOfDrugRelated checks that every overdose code is
// drug-related under both policies, over a generated corpus of
// plausible and implausible codes.
func TestOverdoseSubsetOfDrugRelated(t *testing.T) {
	var corpus []string
	for _, ch := range "DEFGIJKLMRTUXY" {
		for n := 0; n < 100; n++ {
			corpus = append(corpus, fmt.Sprintf("%c%02d", ch, n))
			for sub := 0; sub < 10; sub++ {
				corpus = append(corpus, fmt.Sprintf("%c%02d%d", ch, n, sub))
			}
		}
	}

	for _, policy := range []Policy{PolicyNVSRExact, PolicyBroadTCodes} {
		rules := NewRules(policy)
		for _, code := range corpus {
			if rules.Overdose(code) && !rules.DrugRelated(code) {
				t.Errorf("policy %s: %q is overdose but not drug-related", policy, code)
			}
		}
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy("nvsr-exact"); err != nil || p != PolicyNVSRExact {
		t.Errorf("ParsePolicy(nvsr-exact) = %v, %v", p, err)
	}
	if p, err := ParsePolicy("broad-t-codes"); err != nil || p != PolicyBroadTCodes {
		t.Errorf("ParsePolicy(broad-t-codes) = %v, %v", p, err)
	}
	if p, err := ParsePolicy(""); err != nil || p != PolicyNVSRExact {
		t.Errorf("ParsePolicy(empty) = %v, %v, want default", p, err)
	}
	if _, err := ParsePolicy("bogus"); err == nil {
		t.Error("ParsePolicy(bogus) did not fail")
	}
}

func TestRulesAreDeterministic(t *testing.T) {
	rules := NewRules(PolicyBroadTCodes)
	for _, code := range []string{"X42", "F111", "T401", "Z99", ""} {
		first := rules.DrugRelated(code)
		for i := 0; i < 3; i++ {
			if rules.DrugRelated(code) != first {
				t.Fatalf("DrugRelated(%q) changed between calls", code)
			}
		}
	}
}
