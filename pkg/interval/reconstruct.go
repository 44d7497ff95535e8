// Package interval turns buff event streams into closed time intervals and
// measures how much of one interval a set of others covers.
package interval

import (
	"sort"

	"github.com/moxie-gw2/moxie/pkg/encounter"
)

// Result is the outcome of reconstructing one buff stream.
type Result struct {
	// Intervals are the periods the buff was active, ordered by start.
	Intervals []encounter.Interval

	// Negative holds Apply/Remove pairs whose Remove came first. They are
	// not part of Intervals.
	Negative []encounter.Interval

	// DiscardedRemoves counts Remove events with no open Apply.
	DiscardedRemoves int

	// UnmatchedRemoves holds the times of discarded Removes that occurred
	// after the stream's first Apply. A Remove before any Apply only means
	// the buff was already up when the window opened.
	UnmatchedRemoves []int64
}

// Reconstruct pairs Apply and Remove events last-in-first-out. Applies still
// open when the stream ends are closed at the window end. Zero-length
// intervals are kept.
func Reconstruct(events []encounter.Event, w encounter.Window) Result {
	var (
		res     Result
		open    []int64
		applied bool
	)

	emit := func(start, end int64) {
		iv := encounter.Interval{Start: start, End: end}
		if end < start {
			res.Negative = append(res.Negative, iv)
			return
		}
		res.Intervals = append(res.Intervals, iv)
	}

	for _, ev := range events {
		switch ev.Kind {
		case encounter.Apply:
			open = append(open, ev.Time)
			applied = true
		case encounter.Remove:
			if len(open) == 0 {
				res.DiscardedRemoves++
				if applied {
					res.UnmatchedRemoves = append(res.UnmatchedRemoves, ev.Time)
				}
				continue
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			emit(start, ev.Time)
		}
	}

	for i := len(open) - 1; i >= 0; i-- {
		emit(open[i], w.End)
	}

	// Callers get intervals by start, not in the order they were closed.
	sort.SliceStable(res.Intervals, func(i, j int) bool {
		return res.Intervals[i].Start < res.Intervals[j].Start
	})

	return res
}

// Total returns the summed duration of the intervals.
func Total(intervals []encounter.Interval) int64 {
	var total int64
	for _, iv := range intervals {
		total += iv.Duration()
	}
	return total
}
