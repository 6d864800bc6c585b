package experiment

import (
	"sort"

	"gridexp/internal/sim"
)

// observableSet keeps observables sorted by their string form. Equal
// entries may coexist positionally; Deduped collapses them.
type observableSet struct {
	items []sim.Observable
}

func (s *observableSet) insert(o sim.Observable) {
	key := o.String()
	i := sort.Search(len(s.items), func(i int) bool {
		return s.items[i].String() >= key
	})
	s.items = append(s.items, nil)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = o
}

// deduped returns the sorted set with equal entries collapsed.
func (s *observableSet) deduped() []sim.Observable {
	out := make([]sim.Observable, 0, len(s.items))
	for i, o := range s.items {
		if i > 0 && o.String() == s.items[i-1].String() {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Observables returns the deduplicated, sorted observable set.
func (e *Experiment) Observables() []sim.Observable {
	return e.observables.deduped()
}
