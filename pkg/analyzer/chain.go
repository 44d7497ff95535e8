package analyzer

import (
	"context"
	"fmt"

	"github.com/moxie-gw2/moxie/pkg/config"
	"github.com/moxie-gw2/moxie/pkg/encounter"
	"github.com/moxie-gw2/moxie/pkg/grading"
)

// Chain is a run of casts forming one weapon chain, opener first.
type Chain []encounter.Cast

// Span returns the interval from the opener's start to the last step's end,
// never shorter than zero.
func (c Chain) Span() encounter.Interval {
	if len(c) == 0 {
		return encounter.Interval{}
	}
	return encounter.Interval{Start: c[0].Start, End: max(c[0].Start, c[len(c)-1].End)}
}

// WasteBucket accumulates chains abandoned after the same number of steps.
type WasteBucket struct {
	Chains []Chain

	// Total is the summed span of the chains in milliseconds.
	Total int64
}

func (b *WasteBucket) add(c Chain) {
	b.Chains = append(b.Chains, c)
	b.Total += c.Span().Duration()
}

// ChainResult summarizes the weapon chains found in a cast sequence.
type ChainResult struct {
	// Length is the step count of a complete chain.
	Length int

	// Completed counts chains with exactly Length steps.
	Completed int

	// Wasted holds incomplete chains keyed by executed step count.
	Wasted map[int]*WasteBucket

	// Overlong holds chains with more than Length steps.
	Overlong []Chain

	// Orphans holds chain steps cast while no chain was open.
	Orphans []encounter.Cast

	// Inverted holds chain steps recorded as ending before they start.
	Inverted []encounter.Cast
}

// WastedAt returns the bucket for chains abandoned after steps casts.
func (r *ChainResult) WastedAt(steps int) WasteBucket {
	if b, ok := r.Wasted[steps]; ok {
		return *b
	}
	return WasteBucket{}
}

// MissedFinishers returns chains abandoned one step short of completion.
func (r *ChainResult) MissedFinishers() WasteBucket {
	return r.WastedAt(r.Length - 1)
}

// AnalyzeChains groups fired casts in the given weapon slot into chains.
// A cast whose skill opens a chain starts a new group; a cast whose skill
// continues a chain joins the open group. Casts without metadata, outside
// the slot, or not chain steps are ignored. Casts must be start-ordered.
func AnalyzeChains(casts []encounter.Cast, skills map[uint32]encounter.SkillMetadata, slot string, length int) ChainResult {
	res := ChainResult{
		Length: length,
		Wasted: make(map[int]*WasteBucket),
	}

	var chains []Chain
	for _, cast := range casts {
		if !cast.Fired {
			continue
		}
		meta, ok := skills[cast.SkillID]
		if !ok || meta.Slot != slot {
			continue
		}
		if cast.End < cast.Start && (meta.StartsChain() || meta.ContinuesChain()) {
			res.Inverted = append(res.Inverted, cast)
		}

		switch {
		case meta.StartsChain():
			chains = append(chains, Chain{cast})
		case meta.ContinuesChain():
			if len(chains) == 0 {
				res.Orphans = append(res.Orphans, cast)
				continue
			}
			chains[len(chains)-1] = append(chains[len(chains)-1], cast)
		}
	}

	for _, chain := range chains {
		switch {
		case len(chain) == length:
			res.Completed++
		case len(chain) > length:
			res.Overlong = append(res.Overlong, chain)
		default:
			b, ok := res.Wasted[len(chain)]
			if !ok {
				b = &WasteBucket{}
				res.Wasted[len(chain)] = b
			}
			b.add(chain)
		}
	}

	return res
}

// ChainCheck grades how often auto chains are abandoned before the finisher.
type ChainCheck struct {
	slot   string
	length int
}

// NewChainCheck creates the auto-chain check.
func NewChainCheck(cfg *config.ChainConfig) *ChainCheck {
	return &ChainCheck{slot: cfg.Slot, length: cfg.Length}
}

// Name returns the check name.
func (c *ChainCheck) Name() config.CheckName {
	return config.CheckAutoChains
}

// Run analyzes the encounter's casts.
func (c *ChainCheck) Run(ctx context.Context, enc *encounter.Encounter) ([]ReportItem, error) {
	res := AnalyzeChains(enc.FiredCasts(), enc.Skills, c.slot, c.length)
	missed := res.MissedFinishers()

	mishaps := make([]Mishap, 0, len(missed.Chains))
	for _, chain := range missed.Chains {
		mishaps = append(mishaps, MishapOf(chain.Span()))
	}

	var anomalies []Anomaly
	for _, chain := range res.Overlong {
		span := chain.Span()
		anomalies = append(anomalies, Anomaly{
			Kind:   AnomalyOverlongChain,
			Start:  span.Start,
			End:    span.End,
			Detail: fmt.Sprintf("chain of %d steps, expected %d", len(chain), c.length),
		})
	}
	for _, cast := range res.Orphans {
		anomalies = append(anomalies, Anomaly{
			Kind:   AnomalyOrphanContinuation,
			Start:  cast.Start,
			End:    cast.End,
			Detail: fmt.Sprintf("skill %d continues a chain that was never started", cast.SkillID),
		})
	}

	for _, cast := range res.Inverted {
		anomalies = append(anomalies, invertedCast(encounter.Interval{Start: cast.Start, End: cast.End}))
	}

	n := len(missed.Chains)
	explanation := fmt.Sprintf("Missed %s", grading.Plural(n, "auto chain finisher"))
	return []ReportItem{
		newItem(c.Name(), grading.ChainScale.ClassifyCount(n), explanation, mishaps, anomalies),
	}, nil
}
