// Package fixedwidth extracts fields from fixed-width mortality records
// by byte offset. Lookups on lines too short to contain a field degrade
// to the empty string rather than failing; length policy lives in Layout
// so variants of the source format can be supported.
package fixedwidth

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Range is a half-open byte range [Start, End) within a record line.
type Range struct {
	Start int
	End   int
}

// Field returns the trimmed contents of r within line, or "" if the line
// does not reach End.
func (r Range) Field(line string) string {
	return strings.TrimSpace(r.Raw(line))
}

// Raw returns the untrimmed contents of r within line, or "" if the line
// does not reach End. The manner-of-death byte must stay untrimmed: a
// blank is the "not specified" category, not missing data.
func (r Range) Raw(line string) string {
	if r.Start < 0 || r.End <= r.Start || len(line) < r.End {
		return ""
	}
	return decodeLatin1(line[r.Start:r.End])
}

// decodeLatin1 converts a field's latin-1 bytes to UTF-8. Lines must
// stay raw for offsets to hold (a decoded high byte occupies two bytes
// in UTF-8), so only extracted values are decoded. The fields this tool
// reads are ASCII in well-formed records, making this a no-op there.
func decodeLatin1(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] < utf8.RuneSelf {
			continue
		}
		var b strings.Builder
		b.Grow(len(s) + utf8.UTFMax)
		for j := 0; j < len(s); j++ {
			b.WriteRune(charmap.ISO8859_1.DecodeByte(s[j]))
		}
		return b.String()
	}
	return s
}

// Layout describes the byte positions of the fields this tool reads from
// the CDC public-use mortality format, plus the minimum line length below
// which a record is discarded entirely.
type Layout struct {
	MinLength int

	ResidentStatus    Range
	StateOfOccurrence Range
	StateOfResidence  Range
	MannerOfDeath     Range
	UnderlyingCause   Range

	// Record-axis (contributing) conditions: a 2-digit ASCII count
	// followed by fixed-width slots of ConditionWidth code bytes at
	// ConditionStride spacing.
	ConditionCount  Range
	FirstCondition  int
	ConditionStride int
	ConditionWidth  int
	MaxConditions   int
}

// Default returns the layout of the CDC public-use mortality file.
// Positions in the CDC documentation are 1-indexed; these are 0-indexed.
func Default() Layout {
	return Layout{
		MinLength:         150,
		ResidentStatus:    Range{19, 20},
		StateOfOccurrence: Range{20, 22},
		StateOfResidence:  Range{28, 30},
		MannerOfDeath:     Range{106, 107},
		UnderlyingCause:   Range{145, 149},
		ConditionCount:    Range{340, 342},
		FirstCondition:    343,
		ConditionStride:   5,
		ConditionWidth:    4,
		MaxConditions:     20,
	}
}

// WithMinLength returns a copy of l with the discard threshold replaced.
func (l Layout) WithMinLength(n int) Layout {
	l.MinLength = n
	return l
}

// ConditionRegionEnd returns the byte offset one past the last condition
// slot. A line must reach this offset before any contributing conditions
// are read (443 for the default layout).
func (l Layout) ConditionRegionEnd() int {
	return l.FirstCondition + l.MaxConditions*l.ConditionStride
}

// Condition returns the trimmed code in condition slot i, or "" for a
// blank slot or a line too short to contain it.
func (l Layout) Condition(line string, i int) string {
	start := l.FirstCondition + i*l.ConditionStride
	return Range{start, start + l.ConditionWidth}.Field(line)
}
