package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moxie-gw2/moxie/pkg/config"
	"github.com/moxie-gw2/moxie/pkg/encounter"
	"github.com/moxie-gw2/moxie/pkg/grading"
)

// ValidateOptions holds command-line options for the validate command.
type ValidateOptions struct {
	Config string
	Skills string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <encounter-file>",
		Short: "Validate an encounter file",
		Long: `Validate an encounter file without grading it.

Checks:
  - JSON syntax
  - Encounter window bounds
  - Buff stream ordering
  - Cast bounds and ordering (warning only)
  - Skill metadata for every cast (warning only)
  - Presence of the buff streams the configured checks read (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Configuration file (env "+config.EnvConfig+")")
	cmd.Flags().StringVar(&opts.Skills, "skills", "", "Skill metadata file merged into the encounter")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string, opts *ValidateOptions) error {
	path := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	configPath := opts.Config
	if configPath == "" {
		configPath = os.Getenv(config.EnvConfig)
	}
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Fprintf(out, "Validating %s...\n", path)

	enc, err := encounter.Load(path)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if opts.Skills != "" {
		skills, err := encounter.LoadSkills(opts.Skills)
		if err != nil {
			return fmt.Errorf("loading skills: %w", err)
		}
		enc.MergeSkills(skills)
	}

	problems := encounter.Validate(enc)
	for _, id := range requiredStreams(cfg) {
		if _, ok := enc.Stream(id); !ok {
			problems = append(problems, encounter.Problem{
				Severity: encounter.SeverityWarning,
				Message:  fmt.Sprintf("buff %d (%s) has no events; its check will be omitted", id, enc.Name(id)),
			})
		}
	}

	for _, p := range problems {
		fmt.Fprintf(out, "  %s: %s\n", p.Severity, p.Message)
	}
	if encounter.HasErrors(problems) {
		return fmt.Errorf("validation failed: %s", countProblems(problems))
	}

	fmt.Fprintf(out, "\nEncounter valid!\n")
	fmt.Fprintf(out, "  Duration: %ss\n", grading.Seconds(enc.Window.Duration()))
	fmt.Fprintf(out, "  Casts:    %d\n", len(enc.Casts))
	fmt.Fprintf(out, "  Buffs:    %d stream(s)\n", len(enc.Buffs))
	fmt.Fprintf(out, "  Skills:   %d with metadata\n", len(enc.Skills))

	return nil
}

// requiredStreams lists the buff ids read by the enabled checks whose
// absence omits the check.
func requiredStreams(cfg *config.Config) []uint32 {
	var ids []uint32
	if cfg.Enabled(config.CheckPrimordialAlignment) {
		ids = append(ids, cfg.Alignment.StanceBuff)
	}
	if cfg.Enabled(config.CheckElementsOfRage) {
		ids = append(ids, cfg.Uptime.Buff)
	}
	return ids
}

func countProblems(problems []encounter.Problem) string {
	errs := 0
	for _, p := range problems {
		if p.Severity == encounter.SeverityError {
			errs++
		}
	}
	return grading.Plural(errs, "error")
}
