package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/moxie-gw2/moxie/pkg/analyzer"
	"github.com/moxie-gw2/moxie/pkg/config"
	"github.com/moxie-gw2/moxie/pkg/encounter"
	"github.com/moxie-gw2/moxie/pkg/logging"
	"github.com/moxie-gw2/moxie/pkg/output"
	"github.com/moxie-gw2/moxie/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Config   string
	Skills   string
	Output   string
	OutFile  string
	Checks   []string
	Parallel bool
	Quiet    bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <encounter-file>",
		Short: "Grade an encounter and print its report card",
		Long: `Analyze a recorded encounter and print a graded report card.

Each configured check contributes one or more items. A check whose input is
missing from the encounter is omitted and the rest of the card is still
produced.

Exit codes:
  0 - Every item graded S
  1 - At least one item graded below S
  2 - Configuration, input, or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Configuration file (env "+config.EnvConfig+")")
	cmd.Flags().StringVar(&opts.Skills, "skills", "", "Skill metadata file merged into the encounter")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json|xlsx)")
	cmd.Flags().StringVar(&opts.OutFile, "out-file", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringSliceVar(&opts.Checks, "check", nil, "Run specific check(s) only (can be repeated)")
	cmd.Flags().BoolVar(&opts.Parallel, "parallel", false, "Run checks concurrently")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_issues", "When to fire webhook (on_issues|always|never)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	encounterPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := zerolog.Ctx(ctx)

	configPath := opts.Config
	if configPath == "" {
		configPath = os.Getenv(config.EnvConfig)
	}

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	enc, err := loadEncounter(encounterPath, opts.Skills, log)
	if err != nil {
		return err
	}

	compiler, err := analyzer.NewCompiler(cfg,
		analyzer.WithCheckFilter(opts.Checks),
		analyzer.WithParallel(opts.Parallel),
		analyzer.WithLogger(*log),
	)
	if err != nil {
		return fmt.Errorf("creating analyzer: %w", err)
	}

	result, err := compiler.Compile(ctx, enc)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	report := output.NewReport(result, encounterPath, configPath)

	verbose, _ := cmd.Flags().GetBool("verbose")
	formatter, err := createFormatter(opts, verbose)
	if err != nil {
		return err
	}

	if err := writeReport(ctx, cmd, formatter, report, opts.OutFile); err != nil {
		return err
	}

	// Webhook failures are logged but don't fail the analysis
	sendWebhooks(ctx, cfg, opts, report)

	if report.HasIssues() {
		ExitCode = 1
	}

	return nil
}

// loadEncounter reads and checks an encounter, merging external skill
// metadata when a skills file is given. Structural errors stop the run;
// warnings are logged.
func loadEncounter(path, skillsPath string, log *zerolog.Logger) (*encounter.Encounter, error) {
	enc, err := encounter.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading encounter: %w", err)
	}

	if skillsPath != "" {
		skills, err := encounter.LoadSkills(skillsPath)
		if err != nil {
			return nil, fmt.Errorf("loading skills: %w", err)
		}
		enc.MergeSkills(skills)
	}

	problems := encounter.Validate(enc)
	for _, p := range problems {
		if p.Severity == encounter.SeverityWarning {
			log.Warn().Str("encounter", path).Msg(p.Message)
		}
	}
	if encounter.HasErrors(problems) {
		for _, p := range problems {
			if p.Severity == encounter.SeverityError {
				return nil, fmt.Errorf("invalid encounter: %s", p.Message)
			}
		}
	}

	log.Debug().
		Str("encounter", path).
		Int("casts", len(enc.Casts)).
		Int("buffs", len(enc.Buffs)).
		Int64("duration_ms", enc.Window.Duration()).
		Msg("encounter loaded")

	return enc, nil
}

func createFormatter(opts *AnalyzeOptions, verbose bool) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: verbose,
		Quiet:   opts.Quiet,
		NoColor: opts.OutFile != "",
	}

	switch opts.Output {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	case "xlsx":
		return output.NewXLSXFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text, json or xlsx)", opts.Output)
	}
}

// writeReport renders the report to the output file, or to stdout.
func writeReport(ctx context.Context, cmd *cobra.Command, formatter output.Formatter, report *output.Report, outFile string) error {
	var w io.Writer = cmd.OutOrStdout()

	if outFile == "" {
		if formatter.Name() == "xlsx" && logging.IsTerminal(w) {
			return fmt.Errorf("refusing to write a workbook to a terminal (use --out-file)")
		}
	} else {
		f, err := os.Create(outFile) // #nosec G304 -- user-provided output path is expected
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := formatter.Format(ctx, report, w); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	return nil
}

// sendWebhooks sends the report to all configured webhooks.
// Errors are logged but don't fail the analysis.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *AnalyzeOptions, report *output.Report) {
	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) == 0 {
		return
	}

	log := zerolog.Ctx(ctx)
	client := webhook.NewClient()

	for _, wh := range webhooks {
		if !shouldFireWebhook(&wh, report) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			log.Info().Str("webhook", name).Int("status", resp.StatusCode).Dur("took", resp.Duration).Msg("webhook sent")
		} else {
			log.Error().Str("webhook", name).Err(resp.Error).Msg("webhook failed")
		}
	}
}

// collectWebhooks merges config file webhooks with CLI webhook.
func collectWebhooks(cfg *config.Config, opts *AnalyzeOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnIssues
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire for a report. With
// on_issues, a webhook that sets min_grade only fires when some item is
// graded at or below that grade.
func shouldFireWebhook(wh *config.WebhookConfig, report *output.Report) bool {
	switch wh.Trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		if !report.HasIssues() {
			return false
		}
		if wh.MinGrade == "" {
			return true
		}
		return report.Worst().Rank() >= wh.MinGrade.Rank()
	}
}
