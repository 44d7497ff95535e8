package interval

import (
	"sort"

	"github.com/moxie-gw2/moxie/pkg/encounter"
)

// Cursor measures coverage of successive reference intervals against one
// fixed set of candidates. References must be supplied in nondecreasing start
// order; candidates that end before a reference starts are never revisited.
type Cursor struct {
	candidates []encounter.Interval
	next       int
}

// NewCursor returns a cursor over a start-ordered copy of candidates.
func NewCursor(candidates []encounter.Interval) *Cursor {
	sorted := make([]encounter.Interval, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})
	return &Cursor{candidates: sorted}
}

// Coverage returns the fraction of r covered by the union of the candidates,
// in [0, 1]. A zero-length reference counts as fully covered.
func (c *Cursor) Coverage(r encounter.Interval) float64 {
	if r.End <= r.Start {
		return 1
	}

	for c.next < len(c.candidates) && c.candidates[c.next].End <= r.Start {
		c.next++
	}

	var covered int64
	mark := r.Start
	for i := c.next; i < len(c.candidates); i++ {
		cand := c.candidates[i]
		if cand.Start >= r.End {
			break
		}
		start := max(cand.Start, mark)
		end := min(cand.End, r.End)
		if end > start {
			covered += end - start
			mark = end
		}
	}

	frac := float64(covered) / float64(r.Duration())
	switch {
	case frac < 0:
		return 0
	case frac > 1:
		return 1
	default:
		return frac
	}
}

// Coverage is a one-shot helper for a single reference interval.
func Coverage(r encounter.Interval, candidates []encounter.Interval) float64 {
	return NewCursor(candidates).Coverage(r)
}
