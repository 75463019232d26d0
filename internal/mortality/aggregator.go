// Package mortality implements the record classification and aggregation
// engine: it reads fixed-width death records, collects each record's
// cause-of-death codes, evaluates the classification rules over them and
// folds the outcomes into per-jurisdiction statistics.
package mortality

import (
	"io"

	"github.com/tlcaputi/territories-mortality-stats/internal/fixedwidth"
	"github.com/tlcaputi/territories-mortality-stats/internal/icd"
)

// LineReader yields raw record lines one at a time, returning io.EOF
// when the source is exhausted. internal/ingest provides implementations.
type LineReader interface {
	Next() (string, error)
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLayout replaces the default record layout, e.g. to raise the
// minimum length to the full condition region.
func WithLayout(l fixedwidth.Layout) Option {
	return func(a *Aggregator) { a.layout = l }
}

// ExcludeForeignResidents drops records with resident status 4 (died in
// the US, resided abroad) before counting, matching CDC WONDER.
func ExcludeForeignResidents() Option {
	return func(a *Aggregator) { a.excludeForeign = true }
}

// Aggregator folds mortality records into per-jurisdiction statistics.
// It has exactly one writer for the duration of a pass; the Results
// snapshot is taken after the pass and never mutated again.
type Aggregator struct {
	layout         fixedwidth.Layout
	rules          icd.Rules
	registry       *Registry
	excludeForeign bool

	stats map[string]*Stats
	total int64
}

// NewAggregator returns an empty aggregator counting the registry's
// jurisdictions under the given rules.
func NewAggregator(rules icd.Rules, registry *Registry, opts ...Option) *Aggregator {
	a := &Aggregator{
		layout:   fixedwidth.Default(),
		rules:    rules,
		registry: registry,
		stats:    make(map[string]*Stats),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Suicide reports whether rec counts as a suicide death: manner of death
// 2, or any code in the cause set matching the suicide code rule. This
// is the one classification that consults a non-ICD field.
func Suicide(rec Record, codes []string, rules icd.Rules) bool {
	if rec.MannerOfDeath() == MannerSuicide {
		return true
	}
	for _, c := range codes {
		if rules.SuicideByCode(c) {
			return true
		}
	}
	return false
}

func anyCode(codes []string, match func(string) bool) bool {
	for _, c := range codes {
		if match(c) {
			return true
		}
	}
	return false
}

// Add folds one raw record line into the statistics. Every line results
// in either a no-op or a deterministic update: short lines and records
// outside the registry are skipped silently, never counted, never an
// error.
func (a *Aggregator) Add(line string) {
	rec := NewRecord(line, a.layout)
	if !rec.Valid() {
		return
	}
	if a.excludeForeign && rec.ResidentStatus() == ResidentForeign {
		return
	}

	// Statistics are keyed by state of occurrence, matching the CDC VSRR
	// methodology.
	code := rec.StateOfOccurrence()
	if !a.registry.Contains(code) {
		return
	}

	s := a.stats[code]
	if s == nil {
		s = newStats()
		a.stats[code] = s
	}

	a.total++
	s.TotalDeaths++
	s.UnderlyingCauseCounts[rec.UnderlyingCause()]++
	s.ResidentStatusCounts[rec.ResidentStatus()]++

	codes := rec.CauseCodes()
	if Suicide(rec, codes, a.rules) {
		s.SuicideDeaths++
	}
	if anyCode(codes, a.rules.Overdose) {
		s.OverdoseDeaths++
	}
	if anyCode(codes, a.rules.DrugRelated) {
		s.DrugRelatedDeaths++
	}

	switch rec.MannerOfDeath() {
	case MannerAccident:
		s.AccidentalDeaths++
	case MannerHomicide:
		s.HomicideDeaths++
	case MannerNatural:
		s.NaturalDeaths++
	}
}

// Run consumes r until io.EOF, folding every line. Any other reader
// error stops the pass and is returned; the statistics accumulated so
// far remain valid.
func (a *Aggregator) Run(r LineReader) error {
	for {
		line, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		a.Add(line)
	}
}

// Results returns the final snapshot. The aggregator must not be Added
// to afterwards.
func (a *Aggregator) Results() *Results {
	return &Results{
		Registry:      a.registry,
		Jurisdictions: a.stats,
		TotalRecords:  a.total,
	}
}

// Rules returns the classification rules the aggregator applies, for
// sinks that re-derive per-code flags when rendering.
func (a *Aggregator) Rules() icd.Rules {
	return a.rules
}
