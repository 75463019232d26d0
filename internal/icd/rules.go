// Package icd classifies ICD-10 cause-of-death codes into the categories
// this tool reports on: drug overdose, drug-related (the broader NVSR
// drug-induced set), and suicide. Predicates are pure and accept raw
// field values; codes are trimmed and upper-cased before matching.
package icd

import (
	"fmt"
	"strconv"
	"strings"
)

// Policy selects which drug-related definition applies. The source
// material carries two: the NVSR 74-04 list, which excludes the T36-T50
// poisoning range, and a broader variant that includes it. Neither is
// canonical, so the choice is explicit.
type Policy string

const (
	// PolicyNVSRExact matches the NVSR 74-04 drug-induced list exactly.
	// T36-T50 poisoning codes are not drug-related under this policy.
	PolicyNVSRExact Policy = "nvsr-exact"

	// PolicyBroadTCodes additionally counts the T36-T50 poisoning range
	// as drug-related.
	PolicyBroadTCodes Policy = "broad-t-codes"
)

// ParsePolicy maps a configuration string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyNVSRExact, PolicyBroadTCodes:
		return Policy(s), nil
	case "":
		return PolicyNVSRExact, nil
	}
	return "", fmt.Errorf("unknown drug-related policy %q (want %q or %q)",
		s, PolicyNVSRExact, PolicyBroadTCodes)
}

// Rules evaluates the classification predicates under one policy.
// The zero value uses PolicyNVSRExact.
type Rules struct {
	policy Policy
}

// NewRules returns a Rules evaluating drug-related codes under p.
func NewRules(p Policy) Rules {
	return Rules{policy: p}
}

// Policy returns the drug-related policy in effect.
func (r Rules) Policy() Policy {
	if r.policy == "" {
		return PolicyNVSRExact
	}
	return r.policy
}

// drugInducedSubcodes is the NVSR 74-04 scattered allow-list: 4-character
// subcategories across chapters D, E, G, I, J, K, L, M and R that count
// as drug-induced. These are non-contiguous, so a static set keeps the
// rule auditable instead of chained range checks.
var drugInducedSubcodes = map[string]bool{
	// D: drug-induced blood disorders
	"D521": true, "D590": true, "D592": true, "D611": true, "D642": true,
	// E: drug-induced endocrine disorders
	"E064": true, "E231": true, "E242": true, "E273": true, "E661": true,
	// G: drug-induced nervous system disorders
	"G211": true, "G240": true, "G251": true, "G254": true, "G256": true,
	"G444": true, "G620": true, "G720": true,
	// I: drug-induced hypotension
	"I952": true,
	// J: drug-induced respiratory conditions
	"J702": true, "J703": true, "J704": true,
	// K: drug-induced acute pancreatitis
	"K853": true,
	// L: drug-induced skin conditions
	"L105": true, "L270": true, "L271": true,
	// M: drug-induced musculoskeletal disorders
	"M102": true, "M320": true, "M804": true, "M814": true, "M835": true,
	"M871": true,
	// R: drug-related findings
	"R502": true, "R781": true, "R782": true, "R783": true, "R784": true,
	"R785": true,
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Overdose reports whether code is a drug overdose (poisoning) cause:
// X40-X44 accidental, X60-X64 intentional self-poisoning, X85 assault by
// drugs, or Y10-Y14 undetermined intent. Codes shorter than 3 characters
// never match.
func (Rules) Overdose(code string) bool {
	return isOverdose(normalize(code))
}

func isOverdose(c string) bool {
	if len(c) < 3 {
		return false
	}
	switch {
	case strings.HasPrefix(c, "X4") && c[2] >= '0' && c[2] <= '4':
		return true
	case strings.HasPrefix(c, "X6") && c[2] >= '0' && c[2] <= '4':
		return true
	case strings.HasPrefix(c, "X85"):
		return true
	case strings.HasPrefix(c, "Y1") && c[2] >= '0' && c[2] <= '4':
		return true
	}
	return false
}

// DrugRelated reports whether code falls in the drug-induced set under
// the configured policy. Every overdose code is drug-related.
func (r Rules) DrugRelated(code string) bool {
	c := normalize(code)
	if len(c) < 3 {
		return false
	}
	if isOverdose(c) {
		return true
	}
	if len(c) >= 4 {
		if drugInducedSubcodes[c[:4]] {
			return true
		}
		// F10-F19: mental and behavioural disorders due to psychoactive
		// substance use. Substance digit 0 is alcohol and does not count;
		// subcategories .0 (acute intoxication) and .6 (amnesic syndrome)
		// do not count. Tobacco (F17) counts only for .3-.5 and .7-.9.
		if c[0] == 'F' && c[1] == '1' {
			substance, subcat := c[2], c[3]
			switch {
			case substance == '7':
				if strings.IndexByte("345789", subcat) >= 0 {
					return true
				}
			case substance >= '1' && substance <= '9':
				if strings.IndexByte("12345789", subcat) >= 0 {
					return true
				}
			}
		}
	}
	if r.Policy() == PolicyBroadTCodes && c[0] == 'T' {
		if n, err := strconv.Atoi(c[1:3]); err == nil && n >= 36 && n <= 50 {
			return true
		}
	}
	return false
}

// SuicideByCode reports whether code indicates suicide: X60-X84
// intentional self-harm, U03 terrorism involving suicide, or Y87.0
// sequelae of intentional self-harm. A non-numeric suffix after X is a
// non-match, never an error.
func (Rules) SuicideByCode(code string) bool {
	c := normalize(code)
	if len(c) < 3 {
		return false
	}
	if c[0] == 'X' {
		if n, err := strconv.Atoi(c[1:3]); err == nil && n >= 60 && n <= 84 {
			return true
		}
	}
	if strings.HasPrefix(c, "U03") {
		return true
	}
	return strings.HasPrefix(c, "Y870")
}
