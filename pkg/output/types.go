// Package output provides formatting and output generation for report cards.
package output

import (
	"time"

	"github.com/moxie-gw2/moxie/pkg/analyzer"
	"github.com/moxie-gw2/moxie/pkg/encounter"
	"github.com/moxie-gw2/moxie/pkg/grading"
)

// Report is the complete report card output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Items is the report card in check order.
	Items []analyzer.ReportItem `json:"items"`

	// Outcomes records each check's run, including omitted checks.
	Outcomes []analyzer.CheckOutcome `json:"outcomes"`

	// Metadata provides context about the analysis.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// Overall is the worst grade on the card.
	Overall grading.Grade `json:"overall"`

	// ChecksRun is the number of checks that were executed.
	ChecksRun int `json:"checks_run"`

	// ChecksOmitted is the number of checks that produced no items.
	ChecksOmitted int `json:"checks_omitted"`

	// Items is the number of report items.
	Items int `json:"items"`

	// ItemsWithIssues is the number of items graded below S.
	ItemsWithIssues int `json:"items_with_issues"`

	// Mishaps is the total number of highlighted windows.
	Mishaps int `json:"mishaps"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	RunID string `json:"run_id"`

	// EncounterFile is the path of the analyzed encounter.
	EncounterFile string `json:"encounter_file,omitempty"`

	// ConfigFile is the path to the configuration file used, if any.
	ConfigFile string `json:"config_file,omitempty"`

	Window encounter.Window `json:"window"`

	// AnalyzedAt is when the analysis was performed.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long the analysis took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from an analysis.
func NewReport(result *analyzer.Analysis, encounterFile, configFile string) *Report {
	return &Report{
		Items:    result.Items,
		Outcomes: result.Outcomes,
		Metadata: Metadata{
			RunID:         result.Metadata.RunID,
			EncounterFile: encounterFile,
			ConfigFile:    configFile,
			Window:        result.Metadata.Window,
			AnalyzedAt:    result.Metadata.EndTime,
			Duration:      result.Metadata.EndTime.Sub(result.Metadata.StartTime),
		},
		Summary: Summary{
			Overall:         result.Overall(),
			ChecksRun:       len(result.Outcomes),
			ChecksOmitted:   len(result.OmittedChecks()),
			Items:           len(result.Items),
			ItemsWithIssues: result.ItemsWithIssues(),
			Mishaps:         result.TotalMishaps(),
		},
	}
}

// HasIssues returns true if any item is graded below S.
func (r *Report) HasIssues() bool {
	return r.Summary.ItemsWithIssues > 0
}

// Worst returns the lowest grade among the items, or S for an empty card.
func (r *Report) Worst() grading.Grade {
	worst := grading.S
	for _, item := range r.Items {
		worst = grading.Worse(worst, item.Grade)
	}
	return worst
}
