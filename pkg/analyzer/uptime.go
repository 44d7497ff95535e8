package analyzer

import (
	"context"
	"fmt"
	"math"

	"github.com/moxie-gw2/moxie/pkg/config"
	"github.com/moxie-gw2/moxie/pkg/encounter"
	"github.com/moxie-gw2/moxie/pkg/grading"
)

// UptimeResult describes how long a buff was down during the encounter.
type UptimeResult struct {
	// Downtime is the summed length of Gaps in milliseconds.
	Downtime int64

	// Percent is Downtime as a floored percentage of the window.
	Percent int

	// Gaps are the windows between a Remove and the Apply that restored the buff.
	Gaps []encounter.Interval

	// RepeatedRemoves counts Removes that arrived while the buff was already down.
	RepeatedRemoves int
}

// AnalyzeUptime walks a raw buff stream and sums the time between each
// Remove and the next Apply. An Apply with no earlier Remove ends no
// downtime. Further Removes while the buff is down move the last-removed
// time forward without adding downtime.
func AnalyzeUptime(events []encounter.Event, w encounter.Window) UptimeResult {
	var (
		res        UptimeResult
		open       bool
		removed    bool
		lastRemove int64
	)

	for _, ev := range events {
		switch ev.Kind {
		case encounter.Apply:
			if open {
				continue
			}
			if removed && ev.Time > lastRemove {
				res.Gaps = append(res.Gaps, encounter.Interval{Start: lastRemove, End: ev.Time})
				res.Downtime += ev.Time - lastRemove
			}
			open = true
		case encounter.Remove:
			if !open && removed {
				res.RepeatedRemoves++
			}
			lastRemove = ev.Time
			removed = true
			open = false
		}
	}

	if d := w.Duration(); d > 0 {
		res.Percent = int(100 * res.Downtime / d)
	}

	return res
}

// Grade grades dropped time both in seconds and as a share of the
// encounter, returning the worse of the two. Seconds are rounded to the two
// decimals the explanation shows.
func (r *UptimeResult) Grade() grading.Grade {
	seconds := grading.UptimeScale.Classify(math.Round(float64(r.Downtime)/10) / 100)
	share := grading.UptimeScale.ClassifyCount(r.Percent)
	return grading.Worse(seconds, share)
}

// UptimeCheck grades how long a maintained buff was allowed to drop.
type UptimeCheck struct {
	buff uint32
	name string
}

// NewUptimeCheck creates the buff uptime check.
func NewUptimeCheck(cfg *config.UptimeConfig) *UptimeCheck {
	return &UptimeCheck{buff: cfg.Buff, name: cfg.Name}
}

// Name returns the check name.
func (c *UptimeCheck) Name() config.CheckName {
	return config.CheckElementsOfRage
}

// Run analyzes the configured buff stream.
func (c *UptimeCheck) Run(ctx context.Context, enc *encounter.Encounter) ([]ReportItem, error) {
	events, ok := enc.Stream(c.buff)
	if !ok {
		return nil, fmt.Errorf("%s (%d): %w", c.name, c.buff, ErrMissingStream)
	}

	res := AnalyzeUptime(events, enc.Window)

	mishaps := make([]Mishap, 0, len(res.Gaps))
	for _, g := range res.Gaps {
		mishaps = append(mishaps, MishapOf(g))
	}

	explanation := fmt.Sprintf("Dropped %s for %s seconds (%d%%)",
		c.name, grading.Seconds(res.Downtime), res.Percent)
	return []ReportItem{
		newItem(c.Name(), res.Grade(), explanation, mishaps, nil),
	}, nil
}
