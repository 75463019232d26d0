package mortality

// Stats is the mutable aggregate for one jurisdiction. Created lazily on
// the first record, mutated once per qualifying record, read-only after
// the pass. All counters are commutative, so final values do not depend
// on input order.
type Stats struct {
	TotalDeaths       int64
	SuicideDeaths     int64
	OverdoseDeaths    int64
	DrugRelatedDeaths int64

	// Manner-of-death breakdown. Only accident, homicide and natural get
	// their own counter; everything else is still in TotalDeaths.
	AccidentalDeaths int64
	HomicideDeaths   int64
	NaturalDeaths    int64

	// UnderlyingCauseCounts maps each observed underlying cause to its
	// occurrence count. Frequency tracking is underlying-cause-only, to
	// surface the dominant single cause per jurisdiction.
	UnderlyingCauseCounts map[string]int64

	// ResidentStatusCounts maps the raw resident-status byte to deaths,
	// so WONDER-style foreign-resident exclusions can be reconciled.
	ResidentStatusCounts map[string]int64
}

func newStats() *Stats {
	return &Stats{
		UnderlyingCauseCounts: make(map[string]int64),
		ResidentStatusCounts:  make(map[string]int64),
	}
}

// Results is the final snapshot published to report sinks after the
// input stream is exhausted.
type Results struct {
	Registry *Registry

	// Jurisdictions holds the per-jurisdiction statistics, keyed by
	// jurisdiction code. Codes without any records have no entry.
	Jurisdictions map[string]*Stats

	// TotalRecords is the number of in-scope records aggregated.
	TotalRecords int64
}

// Stats returns the statistics for code, or an empty Stats if the
// jurisdiction saw no records.
func (res *Results) Stats(code string) *Stats {
	if s, ok := res.Jurisdictions[code]; ok {
		return s
	}
	return newStats()
}
