package mortality

// Jurisdiction is one reporting unit of interest, identified by its
// 2-character code in the state-of-occurrence field.
type Jurisdiction struct {
	Code string
	Name string
}

// Registry is the fixed set of jurisdictions to count, with display
// names and a stable output order. Records whose state of occurrence is
// not in the registry are skipped entirely. Immutable after construction
// so multiple configurations can run side by side.
type Registry struct {
	names map[string]string
	order []string
}

// NewRegistry builds a registry from the given jurisdictions; slice
// order becomes the output order. Duplicate codes keep the first name.
func NewRegistry(jurisdictions []Jurisdiction) *Registry {
	r := &Registry{names: make(map[string]string, len(jurisdictions))}
	for _, j := range jurisdictions {
		if _, ok := r.names[j.Code]; ok {
			continue
		}
		r.names[j.Code] = j.Name
		r.order = append(r.order, j.Code)
	}
	return r
}

// Contains reports whether code is a jurisdiction of interest.
func (r *Registry) Contains(code string) bool {
	_, ok := r.names[code]
	return ok
}

// Name returns the display name for code, or the code itself if unknown.
func (r *Registry) Name(code string) string {
	if name, ok := r.names[code]; ok {
		return name
	}
	return code
}

// Codes returns the jurisdiction codes in output order.
func (r *Registry) Codes() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
