package output

import (
	"context"
	"io"
)

// Formatter renders report cards in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, json, xlsx).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose lists every mishap and anomaly under its item.
	Verbose bool

	// Quiet enables minimal summary-only output.
	Quiet bool

	// NoColor disables styled grade badges in text output.
	NoColor bool
}
