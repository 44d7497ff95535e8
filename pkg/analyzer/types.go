// Package analyzer derives graded report card items from a parsed encounter.
package analyzer

import (
	"errors"

	"github.com/moxie-gw2/moxie/pkg/config"
	"github.com/moxie-gw2/moxie/pkg/encounter"
	"github.com/moxie-gw2/moxie/pkg/grading"
)

// ErrMissingStream is returned by checks whose buff stream is absent from
// the encounter.
var ErrMissingStream = errors.New("buff stream not present in encounter")

// Mishap marks a time window worth highlighting for one report item.
type Mishap struct {
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Label string `json:"label,omitempty"`
}

// MishapOf converts an interval into an unlabeled mishap.
func MishapOf(iv encounter.Interval) Mishap {
	return Mishap{Start: iv.Start, End: iv.End}
}

// AnomalyKind categorizes irregular input found while analyzing.
type AnomalyKind string

const (
	// AnomalyNegativeInterval indicates a Remove paired with a later Apply.
	AnomalyNegativeInterval AnomalyKind = "negative_interval"

	// AnomalyUnmatchedRemove indicates a Remove with no open Apply after the
	// stream's first Apply.
	AnomalyUnmatchedRemove AnomalyKind = "unmatched_remove"

	// AnomalyNegativeGap indicates a cast starting before the previous one ended.
	AnomalyNegativeGap AnomalyKind = "negative_gap"

	// AnomalyOrphanContinuation indicates a chain step with no open chain.
	AnomalyOrphanContinuation AnomalyKind = "orphan_continuation"

	// AnomalyOverlongChain indicates a chain with more steps than a full chain.
	AnomalyOverlongChain AnomalyKind = "overlong_chain"
)

// Anomaly is a data irregularity attached to the item whose analysis found
// it. Anomalies never affect grades.
type Anomaly struct {
	Kind   AnomalyKind `json:"kind"`
	Start  int64       `json:"start"`
	End    int64       `json:"end"`
	Detail string      `json:"detail,omitempty"`
}

// ReportItem is one graded line of the report card. Items are not modified
// after their check returns them.
type ReportItem struct {
	Check       config.CheckName `json:"check"`
	Grade       grading.Grade    `json:"grade"`
	Explanation string           `json:"explanation"`
	Mishaps     []Mishap         `json:"mishaps"`
	Anomalies   []Anomaly        `json:"anomalies,omitempty"`
}

// HasIssues reports whether the item is graded below S.
func (i *ReportItem) HasIssues() bool {
	return i.Grade != grading.S
}

func newItem(check config.CheckName, grade grading.Grade, explanation string, mishaps []Mishap, anomalies []Anomaly) ReportItem {
	if mishaps == nil {
		mishaps = []Mishap{}
	}
	return ReportItem{
		Check:       check,
		Grade:       grade,
		Explanation: explanation,
		Mishaps:     mishaps,
		Anomalies:   anomalies,
	}
}
