package analyzer

import (
	"context"
	"fmt"
	"math"

	"github.com/moxie-gw2/moxie/pkg/config"
	"github.com/moxie-gw2/moxie/pkg/encounter"
	"github.com/moxie-gw2/moxie/pkg/grading"
	"github.com/moxie-gw2/moxie/pkg/interval"
)

// Misalignment is a stance window insufficiently covered by the attunement.
type Misalignment struct {
	Stance   encounter.Interval
	Coverage float64
}

// AlignmentResult summarizes attunement coverage of every stance window.
type AlignmentResult struct {
	// Total counts the stance windows examined.
	Total int

	Misaligned []Misalignment

	// Stance and Attunement are the reconstructions the result was built
	// from; their irregularities become item anomalies.
	Stance     interval.Result
	Attunement interval.Result
}

// AnalyzeAlignment reconstructs both streams and measures, for every stance
// window, the fraction covered by attunement windows. Windows covered less
// than minCoverage are misaligned.
func AnalyzeAlignment(stance, attunement []encounter.Event, w encounter.Window, minCoverage float64) AlignmentResult {
	res := AlignmentResult{
		Stance:     interval.Reconstruct(stance, w),
		Attunement: interval.Reconstruct(attunement, w),
	}

	cursor := interval.NewCursor(res.Attunement.Intervals)
	for _, iv := range res.Stance.Intervals {
		res.Total++
		if cov := cursor.Coverage(iv); cov < minCoverage {
			res.Misaligned = append(res.Misaligned, Misalignment{Stance: iv, Coverage: cov})
		}
	}

	return res
}

// reconstructionAnomalies converts reconstruction irregularities of one
// stream into anomalies.
func reconstructionAnomalies(stream string, r interval.Result) []Anomaly {
	var anomalies []Anomaly
	for _, iv := range r.Negative {
		anomalies = append(anomalies, Anomaly{
			Kind:   AnomalyNegativeInterval,
			Start:  iv.End,
			End:    iv.Start,
			Detail: fmt.Sprintf("%s removed at %d before its apply at %d", stream, iv.End, iv.Start),
		})
	}
	for _, t := range r.UnmatchedRemoves {
		anomalies = append(anomalies, Anomaly{
			Kind:   AnomalyUnmatchedRemove,
			Start:  t,
			End:    t,
			Detail: fmt.Sprintf("%s removed at %d with no active application", stream, t),
		})
	}
	return anomalies
}

// AlignmentCheck grades how well stance windows line up with an attunement.
type AlignmentCheck struct {
	cfg config.AlignmentConfig
}

// NewAlignmentCheck creates the stance alignment check.
func NewAlignmentCheck(cfg *config.AlignmentConfig) *AlignmentCheck {
	return &AlignmentCheck{cfg: *cfg}
}

// Name returns the check name.
func (c *AlignmentCheck) Name() config.CheckName {
	return config.CheckPrimordialAlignment
}

// Run analyzes the stance and attunement streams.
func (c *AlignmentCheck) Run(ctx context.Context, enc *encounter.Encounter) ([]ReportItem, error) {
	stance, ok := enc.Stream(c.cfg.StanceBuff)
	if !ok {
		return nil, fmt.Errorf("%s (%d): %w", c.cfg.StanceName, c.cfg.StanceBuff, ErrMissingStream)
	}
	// A stream that never appeared means the attunement was never entered,
	// which is zero coverage rather than missing data.
	attunement, _ := enc.Stream(c.cfg.AttunementBuff)

	res := AnalyzeAlignment(stance, attunement, enc.Window, c.cfg.MinCoverage)

	mishaps := make([]Mishap, 0, len(res.Misaligned))
	for _, m := range res.Misaligned {
		mishaps = append(mishaps, Mishap{
			Start: m.Stance.Start,
			End:   m.Stance.End,
			Label: fmt.Sprintf("%d%%", int(math.Floor(m.Coverage*100))),
		})
	}

	anomalies := reconstructionAnomalies(c.cfg.StanceName, res.Stance)
	anomalies = append(anomalies, reconstructionAnomalies(enc.Name(c.cfg.AttunementBuff), res.Attunement)...)

	n := len(res.Misaligned)
	explanation := fmt.Sprintf("Misaligned %d/%d %s", n, res.Total, c.cfg.StanceName)
	if n != 1 {
		explanation += "s"
	}
	return []ReportItem{
		newItem(c.Name(), grading.AlignmentScale.ClassifyCount(n), explanation, mishaps, anomalies),
	}, nil
}
