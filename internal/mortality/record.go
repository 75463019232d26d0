package mortality

import (
	"strconv"

	"github.com/tlcaputi/territories-mortality-stats/internal/fixedwidth"
)

// Manner-of-death codes as they appear in the file. The field is a single
// byte and a blank means "not specified", so values are kept verbatim.
const (
	MannerAccident = "1"
	MannerSuicide  = "2"
	MannerHomicide = "3"
	MannerNatural  = "7"
)

// ResidentForeign is the resident-status value for deaths occurring in
// the US where the decedent resided abroad. CDC WONDER excludes these.
const ResidentForeign = "4"

// Record is one fixed-width mortality line plus the layout to read it
// with. Accessors on lines too short for a field return "".
type Record struct {
	line   string
	layout fixedwidth.Layout
}

// NewRecord wraps a raw line. The line should already have its trailing
// newline removed.
func NewRecord(line string, layout fixedwidth.Layout) Record {
	return Record{line: line, layout: layout}
}

// Valid reports whether the line meets the layout's minimum length.
// Invalid records are discarded entirely, counted nowhere.
func (r Record) Valid() bool {
	return len(r.line) >= r.layout.MinLength
}

func (r Record) StateOfOccurrence() string {
	return r.layout.StateOfOccurrence.Field(r.line)
}

func (r Record) StateOfResidence() string {
	return r.layout.StateOfResidence.Field(r.line)
}

// MannerOfDeath returns the untrimmed single-byte manner code, "" if the
// line is too short.
func (r Record) MannerOfDeath() string {
	return r.layout.MannerOfDeath.Raw(r.line)
}

func (r Record) ResidentStatus() string {
	return r.layout.ResidentStatus.Raw(r.line)
}

func (r Record) UnderlyingCause() string {
	return r.layout.UnderlyingCause.Field(r.line)
}

// CauseCodes returns the deduplicated cause-code set for the record: the
// underlying cause, if any, followed by the record-axis contributing
// conditions. The stated condition count is clamped to the layout
// maximum so an untrusted count can never over-read, and conditions are
// only read when the line reaches the end of the condition region.
func (r Record) CauseCodes() []string {
	var codes []string
	seen := make(map[string]bool)

	if len(r.line) >= r.layout.ConditionRegionEnd() {
		n := r.conditionCount()
		for i := 0; i < n; i++ {
			code := r.layout.Condition(r.line, i)
			if code != "" && !seen[code] {
				seen[code] = true
				codes = append(codes, code)
			}
		}
	}

	// The underlying cause is always part of the set, listed first.
	if underlying := r.UnderlyingCause(); underlying != "" && !seen[underlying] {
		codes = append([]string{underlying}, codes...)
	}
	return codes
}

// conditionCount parses the 2-digit ASCII condition count. Garbage or a
// missing value defaults to 0; the result is clamped to [0, MaxConditions].
func (r Record) conditionCount() int {
	n, err := strconv.Atoi(r.layout.ConditionCount.Field(r.line))
	if err != nil || n < 0 {
		return 0
	}
	if n > r.layout.MaxConditions {
		return r.layout.MaxConditions
	}
	return n
}
