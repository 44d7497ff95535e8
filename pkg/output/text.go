package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/moxie-gw2/moxie/pkg/analyzer"
	"github.com/moxie-gw2/moxie/pkg/grading"
)

// gradeColors maps each grade to its badge color.
var gradeColors = map[grading.Grade]lipgloss.Color{
	grading.S: lipgloss.Color("#FFD700"),
	grading.A: lipgloss.Color("#32CD32"),
	grading.B: lipgloss.Color("#1E90FF"),
	grading.C: lipgloss.Color("#FFA500"),
	grading.D: lipgloss.Color("#FF4500"),
}

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "Moxie: overall %s, %d items, %d below S, %d mishaps\n",
		report.Summary.Overall,
		report.Summary.Items,
		report.Summary.ItemsWithIssues,
		report.Summary.Mishaps)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	badge := f.badger(w)

	fmt.Fprintln(w, "=== Moxie Report Card ===")
	fmt.Fprintln(w)

	for i := range report.Items {
		f.formatItem(&report.Items[i], report.Metadata.Window.Start, badge, w)
	}

	for _, o := range report.Outcomes {
		if o.Omitted() {
			fmt.Fprintf(w, "[-] %s omitted: %s\n", o.Check, o.Error)
		}
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Overall: %s (%d items, %d below S, %d mishaps)\n",
		badge(report.Summary.Overall),
		report.Summary.Items,
		report.Summary.ItemsWithIssues,
		report.Summary.Mishaps)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Encounter: %ss\n", grading.Seconds(report.Metadata.Window.Duration()))
		fmt.Fprintf(w, "Run: %s\n", report.Metadata.RunID)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e3))
	}

	return nil
}

func (f *TextFormatter) formatItem(item *analyzer.ReportItem, origin int64, badge func(grading.Grade) string, w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", badge(item.Grade), item.Explanation)

	if !f.opts.Verbose {
		return
	}

	for _, m := range item.Mishaps {
		line := fmt.Sprintf("  - %ss to %ss", grading.Seconds(m.Start-origin), grading.Seconds(m.End-origin))
		if m.Label != "" {
			line += " (" + m.Label + ")"
		}
		fmt.Fprintln(w, line)
	}
	for _, a := range item.Anomalies {
		fmt.Fprintf(w, "  ! %s at %ss: %s\n", a.Kind, grading.Seconds(a.Start-origin), a.Detail)
	}
}

// badger returns a function rendering a grade as a bracketed badge, styled
// for the writer's terminal unless color is disabled.
func (f *TextFormatter) badger(w io.Writer) func(grading.Grade) string {
	if f.opts.NoColor {
		return func(g grading.Grade) string {
			return "[" + string(g) + "]"
		}
	}

	r := lipgloss.NewRenderer(w)
	styles := make(map[grading.Grade]lipgloss.Style, len(gradeColors))
	for g, c := range gradeColors {
		styles[g] = r.NewStyle().Bold(true).Foreground(c)
	}

	return func(g grading.Grade) string {
		s, ok := styles[g]
		if !ok {
			return "[" + strings.ToUpper(string(g)) + "]"
		}
		return s.Render("[" + string(g) + "]")
	}
}
