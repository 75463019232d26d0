// Package report renders final aggregation results. Sinks only read the
// published snapshot; all formatting decisions live here, outside the
// aggregation core.
package report

import (
	"sort"

	"github.com/tlcaputi/territories-mortality-stats/internal/mortality"
)

// Sink consumes one immutable results snapshot.
type Sink interface {
	Write(res *mortality.Results) error
}

// sortedCauses returns the underlying-cause codes of s ordered by
// descending count, ties broken by code, so output is deterministic.
func sortedCauses(s *mortality.Stats) []string {
	codes := make([]string, 0, len(s.UnderlyingCauseCounts))
	for code := range s.UnderlyingCauseCounts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		ci, cj := s.UnderlyingCauseCounts[codes[i]], s.UnderlyingCauseCounts[codes[j]]
		if ci != cj {
			return ci > cj
		}
		return codes[i] < codes[j]
	})
	return codes
}

// displayCode labels the empty underlying-cause key in output.
func displayCode(code string) string {
	if code == "" {
		return "(none)"
	}
	return code
}
