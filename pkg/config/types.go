// Package config provides configuration loading and validation for moxie.
package config

import (
	"time"

	"github.com/moxie-gw2/moxie/pkg/grading"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Checks lists the checks to run, in report order.
	Checks    []CheckName     `yaml:"checks"`
	Chains    ChainConfig     `yaml:"chains"`
	Alignment AlignmentConfig `yaml:"alignment"`
	Uptime    UptimeConfig    `yaml:"uptime"`
	Webhooks  []WebhookConfig `yaml:"webhooks,omitempty"`
}

// CheckName identifies one report card check.
type CheckName string

const (
	CheckAutoChains          CheckName = "auto_chains"
	CheckWastedTime          CheckName = "wasted_time"
	CheckPrimordialAlignment CheckName = "primordial_alignment"
	CheckElementsOfRage      CheckName = "elements_of_rage"
)

// KnownChecks lists every check in default report order.
var KnownChecks = []CheckName{
	CheckAutoChains,
	CheckWastedTime,
	CheckPrimordialAlignment,
	CheckElementsOfRage,
}

// ChainConfig configures the auto-chain check.
type ChainConfig struct {
	// Slot is the weapon slot whose chains are analyzed.
	Slot string `yaml:"slot"`

	// Length is the step count of a complete chain.
	Length int `yaml:"length"`
}

// AlignmentConfig configures the stance/attunement coverage check.
type AlignmentConfig struct {
	StanceBuff     uint32  `yaml:"stance_buff"`
	StanceName     string  `yaml:"stance_name"`
	AttunementBuff uint32  `yaml:"attunement_buff"`
	MinCoverage    float64 `yaml:"min_coverage"`
}

// UptimeConfig configures the buff uptime check.
type UptimeConfig struct {
	Buff uint32 `yaml:"buff"`
	Name string `yaml:"name"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnIssues fires when any report item is graded below S (default).
	WebhookTriggerOnIssues WebhookTrigger = "on_issues"
	// WebhookTriggerAlways fires after every analysis.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending report cards.
type WebhookConfig struct {
	Name    string         `yaml:"name,omitempty"`
	URL     string         `yaml:"url"`
	Token   string         `yaml:"token,omitempty"`
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`
	Timeout time.Duration  `yaml:"timeout,omitempty"`

	// MinGrade optionally narrows on_issues to items graded at or below it.
	MinGrade grading.Grade `yaml:"min_grade,omitempty"`
}

// Enabled reports whether the named check is configured to run.
func (c *Config) Enabled(name CheckName) bool {
	for _, n := range c.Checks {
		if n == name {
			return true
		}
	}
	return false
}
