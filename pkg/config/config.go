package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/moxie-gw2/moxie/pkg/grading"
)

// Load reads and validates a configuration file. An empty path yields the
// defaults with environment overrides applied.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and fills in defaults.
func Validate(cfg *Config) error {
	if len(cfg.Checks) == 0 {
		return errors.New("checks: at least one check is required")
	}

	seen := make(map[CheckName]bool, len(cfg.Checks))
	for i, name := range cfg.Checks {
		if !isKnownCheck(name) {
			return fmt.Errorf("checks[%d]: unknown check %q (must be one of %s)", i, name, knownCheckList())
		}
		if seen[name] {
			return fmt.Errorf("checks[%d]: %q listed more than once", i, name)
		}
		seen[name] = true
	}

	if err := validateChains(&cfg.Chains); err != nil {
		return fmt.Errorf("chains: %w", err)
	}

	if cfg.Enabled(CheckPrimordialAlignment) {
		if err := validateAlignment(&cfg.Alignment); err != nil {
			return fmt.Errorf("alignment: %w", err)
		}
	}

	if cfg.Enabled(CheckElementsOfRage) {
		if err := validateUptime(&cfg.Uptime); err != nil {
			return fmt.Errorf("uptime: %w", err)
		}
	}

	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func isKnownCheck(name CheckName) bool {
	for _, k := range KnownChecks {
		if k == name {
			return true
		}
	}
	return false
}

func knownCheckList() string {
	names := make([]string, len(KnownChecks))
	for i, k := range KnownChecks {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func validateChains(c *ChainConfig) error {
	if c.Slot == "" {
		c.Slot = DefaultChainSlot
	}
	if c.Length == 0 {
		c.Length = DefaultChainLength
	}
	if c.Length < 2 {
		return fmt.Errorf("length must be >= 2, got %d", c.Length)
	}
	return nil
}

func validateAlignment(a *AlignmentConfig) error {
	if a.StanceBuff == 0 {
		return errors.New("stance_buff is required")
	}
	if a.AttunementBuff == 0 {
		return errors.New("attunement_buff is required")
	}
	if a.StanceBuff == a.AttunementBuff {
		return errors.New("stance_buff and attunement_buff must differ")
	}
	if a.MinCoverage <= 0 || a.MinCoverage > 1 {
		return fmt.Errorf("min_coverage must be in (0, 1], got %v", a.MinCoverage)
	}
	if a.StanceName == "" {
		a.StanceName = DefaultStanceName
	}
	return nil
}

func validateUptime(u *UptimeConfig) error {
	if u.Buff == 0 {
		return errors.New("buff is required")
	}
	if u.Name == "" {
		u.Name = DefaultUptimeName
	}
	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = os.ExpandEnv(wh.Token)

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerOnIssues
	case WebhookTriggerOnIssues, WebhookTriggerAlways, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be on_issues, always, or never)", wh.Trigger)
	}

	if wh.MinGrade != "" {
		if _, err := grading.Parse(string(wh.MinGrade)); err != nil {
			return fmt.Errorf("min_grade: %w", err)
		}
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}
