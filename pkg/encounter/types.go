// Package encounter provides the in-memory model of a parsed combat encounter.
package encounter

import (
	"fmt"
	"sort"
)

// EventKind distinguishes buff state transitions.
type EventKind uint8

const (
	// Apply marks the buff becoming active.
	Apply EventKind = iota + 1

	// Remove marks the buff ending.
	Remove
)

// String returns the kind name as it appears in encounter files.
func (k EventKind) String() string {
	switch k {
	case Apply:
		return "Apply"
	case Remove:
		return "Remove"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Event is a single Apply or Remove transition in one buff's stream.
type Event struct {
	Kind EventKind
	Time int64
}

// ApplyAt returns an Apply event at t.
func ApplyAt(t int64) Event { return Event{Kind: Apply, Time: t} }

// RemoveAt returns a Remove event at t.
func RemoveAt(t int64) Event { return Event{Kind: Remove, Time: t} }

// Interval is a closed time span in the encounter's millisecond time base.
type Interval struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Duration returns End - Start.
func (i Interval) Duration() int64 {
	return i.End - i.Start
}

// Window bounds the whole analysis.
type Window struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Duration returns the window length, or 0 for an inverted window.
func (w Window) Duration() int64 {
	if w.End < w.Start {
		return 0
	}
	return w.End - w.Start
}

// Cast is one activation attempt of a skill.
type Cast struct {
	SkillID uint32 `json:"id"`
	Start   int64  `json:"start"`
	End     int64  `json:"end"`

	// Fired is false for a canceled activation.
	Fired bool `json:"fired"`
}

// Duration returns End - Start.
func (c Cast) Duration() int64 {
	return c.End - c.Start
}

// SkillMetadata describes a skill's weapon slot and chain links.
// PrevChain and NextChain hold the linked skill ids, zero when absent.
type SkillMetadata struct {
	Slot      string `json:"slot,omitempty"`
	PrevChain uint32 `json:"prev_chain,omitempty"`
	NextChain uint32 `json:"next_chain,omitempty"`
}

// StartsChain reports whether the skill opens a weapon chain.
func (m SkillMetadata) StartsChain() bool {
	return m.PrevChain == 0 && m.NextChain != 0
}

// ContinuesChain reports whether the skill is a later step of a chain.
func (m SkillMetadata) ContinuesChain() bool {
	return m.PrevChain != 0
}

// Encounter is one player's parsed encounter log.
// Analyzers treat every field as read-only.
type Encounter struct {
	Window Window

	Casts []Cast

	// Buffs holds one chronologically ordered stream per buff id.
	Buffs map[uint32][]Event

	// Skills holds chain/slot metadata keyed by skill id.
	Skills map[uint32]SkillMetadata

	// SkillNames maps skill and buff ids to display names.
	SkillNames map[uint32]string
}

// SortedCasts returns a copy of the casts ordered by start time.
// Casts sharing a start time keep their input order.
func (e *Encounter) SortedCasts() []Cast {
	casts := make([]Cast, len(e.Casts))
	copy(casts, e.Casts)
	sort.SliceStable(casts, func(i, j int) bool {
		return casts[i].Start < casts[j].Start
	})
	return casts
}

// FiredCasts returns the start-ordered casts that were not canceled.
func (e *Encounter) FiredCasts() []Cast {
	sorted := e.SortedCasts()
	fired := sorted[:0]
	for _, c := range sorted {
		if c.Fired {
			fired = append(fired, c)
		}
	}
	return fired
}

// Stream returns the event stream for a buff and whether it exists.
func (e *Encounter) Stream(buffID uint32) ([]Event, bool) {
	events, ok := e.Buffs[buffID]
	return events, ok
}

// BuffIDs returns the ids of all buff streams in ascending order.
func (e *Encounter) BuffIDs() []uint32 {
	ids := make([]uint32, 0, len(e.Buffs))
	for id := range e.Buffs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Name returns the display name for a skill or buff id, falling back to the id.
func (e *Encounter) Name(id uint32) string {
	if name, ok := e.SkillNames[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("#%d", id)
}
