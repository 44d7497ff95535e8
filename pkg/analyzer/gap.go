package analyzer

import (
	"context"
	"fmt"

	"github.com/moxie-gw2/moxie/pkg/config"
	"github.com/moxie-gw2/moxie/pkg/encounter"
	"github.com/moxie-gw2/moxie/pkg/grading"
)

// GapResult holds idle and canceled time for a cast sequence.
type GapResult struct {
	// Deadspace is the summed positive time between casts in milliseconds.
	Deadspace int64
	Gaps      []encounter.Interval

	// Cancel is the summed duration of canceled casts in milliseconds.
	Cancel  int64
	Cancels []encounter.Interval

	// Overlaps holds windows where a cast started before the previous
	// activity ended. They never reduce Deadspace.
	Overlaps []encounter.Interval

	// Inverted holds casts that end before they start, as recorded. Their
	// activity ends at their start.
	Inverted []encounter.Interval
}

// AnalyzeGaps scans start-ordered casts, fired or not, for dead time and
// canceled activations. Activity ends at the latest end seen so far, so a
// short cast nested in a long one does not open a gap.
func AnalyzeGaps(casts []encounter.Cast) GapResult {
	var res GapResult
	if len(casts) == 0 {
		return res
	}

	lastEnd := casts[0].Start
	for i, cast := range casts {
		if i > 0 {
			switch wasted := cast.Start - lastEnd; {
			case wasted < 0:
				res.Overlaps = append(res.Overlaps, encounter.Interval{Start: cast.Start, End: lastEnd})
			case wasted > 0:
				res.Deadspace += wasted
				res.Gaps = append(res.Gaps, encounter.Interval{Start: lastEnd, End: cast.Start})
			}
		}

		if cast.End < cast.Start {
			res.Inverted = append(res.Inverted, encounter.Interval{Start: cast.Start, End: cast.End})
			lastEnd = max(lastEnd, cast.Start)
			continue
		}

		if !cast.Fired && cast.End > cast.Start {
			res.Cancel += cast.Duration()
			res.Cancels = append(res.Cancels, encounter.Interval{Start: cast.Start, End: cast.End})
		}

		lastEnd = max(lastEnd, cast.End)
	}

	return res
}

// invertedCast reports a cast recorded as ending before it started.
func invertedCast(iv encounter.Interval) Anomaly {
	return Anomaly{
		Kind:   AnomalyNegativeInterval,
		Start:  iv.End,
		End:    iv.Start,
		Detail: fmt.Sprintf("cast ends at %d before its start at %d", iv.End, iv.Start),
	}
}

// WastedTimeCheck grades idle time between casts and time lost to cancels.
// It reports two independent items.
type WastedTimeCheck struct{}

// NewWastedTimeCheck creates the wasted-time check.
func NewWastedTimeCheck() *WastedTimeCheck {
	return &WastedTimeCheck{}
}

// Name returns the check name.
func (c *WastedTimeCheck) Name() config.CheckName {
	return config.CheckWastedTime
}

// Run analyzes the encounter's casts.
func (c *WastedTimeCheck) Run(ctx context.Context, enc *encounter.Encounter) ([]ReportItem, error) {
	res := AnalyzeGaps(enc.SortedCasts())

	gapMishaps := make([]Mishap, 0, len(res.Gaps))
	for _, g := range res.Gaps {
		gapMishaps = append(gapMishaps, MishapOf(g))
	}

	var anomalies []Anomaly
	for _, o := range res.Overlaps {
		anomalies = append(anomalies, Anomaly{
			Kind:   AnomalyNegativeGap,
			Start:  o.Start,
			End:    o.End,
			Detail: fmt.Sprintf("cast started %dms before previous activity ended", o.Duration()),
		})
	}

	for _, iv := range res.Inverted {
		anomalies = append(anomalies, invertedCast(iv))
	}

	cancelMishaps := make([]Mishap, 0, len(res.Cancels))
	for _, cc := range res.Cancels {
		cancelMishaps = append(cancelMishaps, MishapOf(cc))
	}

	return []ReportItem{
		newItem(c.Name(),
			grading.DeadspaceScale.Classify(float64(res.Deadspace)),
			fmt.Sprintf("Did nothing for %s seconds", grading.Seconds(res.Deadspace)),
			gapMishaps, anomalies),
		newItem(c.Name(),
			grading.CancelScale.Classify(float64(res.Cancel)),
			fmt.Sprintf("Canceled skills for %s seconds", grading.Seconds(res.Cancel)),
			cancelMishaps, nil),
	}, nil
}
