package analyzer

import (
	"context"

	"github.com/moxie-gw2/moxie/pkg/config"
	"github.com/moxie-gw2/moxie/pkg/encounter"
)

// Check evaluates one aspect of play and produces report items.
// Each built-in check (auto chains, wasted time, alignment, uptime) implements
// this interface. Checks hold no state between runs and never modify the
// encounter.
type Check interface {
	// Name returns the check name for reporting.
	Name() config.CheckName

	// Run analyzes the encounter and returns the check's items in
	// presentation order. An error means the check could not produce any
	// item; the rest of the report is unaffected.
	Run(ctx context.Context, enc *encounter.Encounter) ([]ReportItem, error)
}
