package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/moxie-gw2/moxie/pkg/config"
	"github.com/moxie-gw2/moxie/pkg/encounter"
	"github.com/moxie-gw2/moxie/pkg/grading"
)

// Compiler runs the configured checks over an encounter and assembles the
// report card.
type Compiler struct {
	checks []Check

	// Options
	checkFilter map[config.CheckName]bool // nil means all checks
	parallel    bool
	logger      zerolog.Logger
}

// CompilerOption configures compiler behavior.
type CompilerOption func(*Compiler)

// WithCheckFilter limits the run to the named checks. Report order still
// follows the configuration.
func WithCheckFilter(names []string) CompilerOption {
	return func(c *Compiler) {
		if len(names) > 0 {
			c.checkFilter = make(map[config.CheckName]bool, len(names))
			for _, n := range names {
				c.checkFilter[config.CheckName(n)] = true
			}
		}
	}
}

// WithParallel runs each check in its own goroutine. Item order is the
// same as in a sequential run.
func WithParallel(p bool) CompilerOption {
	return func(c *Compiler) {
		c.parallel = p
	}
}

// WithLogger sets the logger used for anomalies and omitted checks.
func WithLogger(l zerolog.Logger) CompilerOption {
	return func(c *Compiler) {
		c.logger = l
	}
}

// NewCompiler creates a compiler for the checks named in cfg.
func NewCompiler(cfg *config.Config, opts ...CompilerOption) (*Compiler, error) {
	c := &Compiler{
		checks: make([]Check, 0, len(cfg.Checks)),
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	for _, name := range cfg.Checks {
		if c.checkFilter != nil && !c.checkFilter[name] {
			continue
		}

		check, err := createCheck(name, cfg)
		if err != nil {
			return nil, fmt.Errorf("creating check %q: %w", name, err)
		}
		c.checks = append(c.checks, check)
	}

	if len(c.checks) == 0 {
		return nil, fmt.Errorf("no checks to run (check --check filter)")
	}

	return c, nil
}

// NewCompilerFromChecks creates a compiler over an explicit check list.
func NewCompilerFromChecks(checks []Check, opts ...CompilerOption) *Compiler {
	c := &Compiler{
		checks: checks,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// createCheck creates the check implementation for a configured name.
func createCheck(name config.CheckName, cfg *config.Config) (Check, error) {
	switch name {
	case config.CheckAutoChains:
		return NewChainCheck(&cfg.Chains), nil
	case config.CheckWastedTime:
		return NewWastedTimeCheck(), nil
	case config.CheckPrimordialAlignment:
		return NewAlignmentCheck(&cfg.Alignment), nil
	case config.CheckElementsOfRage:
		return NewUptimeCheck(&cfg.Uptime), nil
	default:
		return nil, fmt.Errorf("unknown check: %s", name)
	}
}

// Checks returns the names of the checks the compiler will run, in order.
func (c *Compiler) Checks() []config.CheckName {
	names := make([]config.CheckName, len(c.checks))
	for i, check := range c.checks {
		names[i] = check.Name()
	}
	return names
}

// Analysis is the complete output of one compiler run.
type Analysis struct {
	// Items is the report card in check order.
	Items []ReportItem `json:"items"`

	// Outcomes records what each check produced, including omitted checks.
	Outcomes []CheckOutcome `json:"outcomes"`

	Metadata AnalysisMetadata `json:"metadata"`
}

// CheckOutcome records one check's run.
type CheckOutcome struct {
	Check    config.CheckName `json:"check"`
	Items    int              `json:"items"`
	Error    string           `json:"error,omitempty"`
	Duration time.Duration    `json:"duration"`
}

// Omitted reports whether the check produced no items because it failed.
func (o *CheckOutcome) Omitted() bool {
	return o.Error != ""
}

// AnalysisMetadata provides context about the run.
type AnalysisMetadata struct {
	RunID     string           `json:"run_id"`
	Window    encounter.Window `json:"window"`
	Casts     int              `json:"casts"`
	Buffs     int              `json:"buffs"`
	StartTime time.Time        `json:"start_time"`
	EndTime   time.Time        `json:"end_time"`
}

// Overall returns the worst item grade, or S for an empty report.
func (a *Analysis) Overall() grading.Grade {
	overall := grading.S
	for _, item := range a.Items {
		overall = grading.Worse(overall, item.Grade)
	}
	return overall
}

// ItemsWithIssues counts items graded below S.
func (a *Analysis) ItemsWithIssues() int {
	count := 0
	for i := range a.Items {
		if a.Items[i].HasIssues() {
			count++
		}
	}
	return count
}

// TotalMishaps returns the number of mishaps across all items.
func (a *Analysis) TotalMishaps() int {
	total := 0
	for _, item := range a.Items {
		total += len(item.Mishaps)
	}
	return total
}

// OmittedChecks returns the checks that failed to produce items.
func (a *Analysis) OmittedChecks() []config.CheckName {
	var names []config.CheckName
	for i := range a.Outcomes {
		if a.Outcomes[i].Omitted() {
			names = append(names, a.Outcomes[i].Check)
		}
	}
	return names
}

// checkRun is one check's raw result before assembly.
type checkRun struct {
	items    []ReportItem
	err      error
	duration time.Duration
}

// Compile runs every check and returns the report card. A failing check is
// logged and omitted; only context cancellation fails the whole run.
func (c *Compiler) Compile(ctx context.Context, enc *encounter.Encounter) (*Analysis, error) {
	result := &Analysis{
		Items:    make([]ReportItem, 0, len(c.checks)+1),
		Outcomes: make([]CheckOutcome, 0, len(c.checks)),
		Metadata: AnalysisMetadata{
			RunID:     uuid.NewString(),
			Window:    enc.Window,
			Casts:     len(enc.Casts),
			Buffs:     len(enc.Buffs),
			StartTime: time.Now(),
		},
	}

	runs := make([]checkRun, len(c.checks))
	if c.parallel {
		var g errgroup.Group
		for i, check := range c.checks {
			i, check := i, check
			g.Go(func() error {
				runs[i] = c.run(ctx, check, enc)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, check := range c.checks {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			runs[i] = c.run(ctx, check, enc)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, check := range c.checks {
		run := runs[i]
		outcome := CheckOutcome{
			Check:    check.Name(),
			Items:    len(run.items),
			Duration: run.duration,
		}

		if run.err != nil {
			outcome.Items = 0
			outcome.Error = run.err.Error()
			c.logger.Warn().Err(run.err).Str("check", string(check.Name())).Msg("check omitted from report")
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		for _, item := range run.items {
			for _, a := range item.Anomalies {
				c.logger.Debug().
					Str("check", string(check.Name())).
					Str("kind", string(a.Kind)).
					Int64("start", a.Start).
					Int64("end", a.End).
					Msg(a.Detail)
			}
		}
		result.Items = append(result.Items, run.items...)
		result.Outcomes = append(result.Outcomes, outcome)
	}

	result.Metadata.EndTime = time.Now()

	c.logger.Debug().
		Str("run_id", result.Metadata.RunID).
		Int("items", len(result.Items)).
		Str("overall", string(result.Overall())).
		Msg("report compiled")

	return result, nil
}

// run executes one check, converting a panic into an error so that one
// broken check cannot take down the rest of the report.
func (c *Compiler) run(ctx context.Context, check Check, enc *encounter.Encounter) (r checkRun) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			r = checkRun{err: fmt.Errorf("check %s panicked: %v", check.Name(), p)}
		}
		r.duration = time.Since(start)
	}()

	items, err := check.Run(ctx, enc)
	return checkRun{items: items, err: err}
}
