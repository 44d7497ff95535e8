package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/moxie-gw2/moxie/pkg/grading"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
checks:
  - elements_of_rage
  - auto_chains
chains:
  slot: Weapon_2
  length: 4
uptime:
  buff: 12345
  name: Fury
`
	t.Setenv(EnvChainSlot, "")
	path := writeTempFile(t, "config.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Checks) != 2 || cfg.Checks[0] != CheckElementsOfRage {
		t.Errorf("Checks = %v, want [elements_of_rage auto_chains]", cfg.Checks)
	}
	if cfg.Chains.Slot != "Weapon_2" || cfg.Chains.Length != 4 {
		t.Errorf("Chains = %+v", cfg.Chains)
	}
	if cfg.Uptime.Buff != 12345 || cfg.Uptime.Name != "Fury" {
		t.Errorf("Uptime = %+v", cfg.Uptime)
	}
	// Sections absent from the file keep their defaults.
	if cfg.Alignment.StanceBuff != DefaultStanceBuff {
		t.Errorf("Alignment.StanceBuff = %d, want default %d", cfg.Alignment.StanceBuff, DefaultStanceBuff)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	t.Setenv(EnvChainSlot, "")
	t.Setenv(EnvMinCoverage, "")

	cfg, err := Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Checks) != len(KnownChecks) {
		t.Errorf("Checks = %v, want all known checks", cfg.Checks)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempFile(t, "invalid.yaml", `invalid: yaml: content: [`)
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvChainSlot, "Weapon_3")
	t.Setenv(EnvMinCoverage, "0.5")

	path := writeTempFile(t, "config.yaml", "chains:\n  slot: Weapon_2\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Chains.Slot != "Weapon_3" {
		t.Errorf("Chains.Slot = %q, want Weapon_3", cfg.Chains.Slot)
	}
	if cfg.Alignment.MinCoverage != 0.5 {
		t.Errorf("Alignment.MinCoverage = %v, want 0.5", cfg.Alignment.MinCoverage)
	}
}

func TestLoad_EnvironmentOverrideInvalid(t *testing.T) {
	t.Setenv(EnvChainSlot, "")
	t.Setenv(EnvMinCoverage, "lots")

	cfg, err := Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Alignment.MinCoverage != DefaultMinCoverage {
		t.Errorf("unparseable override should be ignored, got %v", cfg.Alignment.MinCoverage)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"no checks", func(c *Config) { c.Checks = nil }, "at least one check"},
		{"unknown check", func(c *Config) { c.Checks = []CheckName{"arcane_blasts"} }, "unknown check"},
		{"duplicate check", func(c *Config) { c.Checks = []CheckName{CheckWastedTime, CheckWastedTime} }, "more than once"},
		{"short chain", func(c *Config) { c.Chains.Length = 1 }, "length must be >= 2"},
		{"coverage zero", func(c *Config) { c.Alignment.MinCoverage = 0 }, "min_coverage"},
		{"coverage above one", func(c *Config) { c.Alignment.MinCoverage = 1.5 }, "min_coverage"},
		{"same buffs", func(c *Config) { c.Alignment.AttunementBuff = c.Alignment.StanceBuff }, "must differ"},
		{"no uptime buff", func(c *Config) { c.Uptime.Buff = 0 }, "buff is required"},
		{
			"alignment ignored when disabled",
			func(c *Config) {
				c.Checks = []CheckName{CheckWastedTime}
				c.Alignment.MinCoverage = 5
			},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_FillsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Chains = ChainConfig{}
	cfg.Alignment.StanceName = ""
	cfg.Uptime.Name = ""

	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Chains.Slot != DefaultChainSlot || cfg.Chains.Length != DefaultChainLength {
		t.Errorf("Chains = %+v, want defaults", cfg.Chains)
	}
	if cfg.Alignment.StanceName != DefaultStanceName {
		t.Errorf("StanceName = %q", cfg.Alignment.StanceName)
	}
	if cfg.Uptime.Name != DefaultUptimeName {
		t.Errorf("Uptime.Name = %q", cfg.Uptime.Name)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	for i, name := range KnownChecks {
		if cfg.Checks[i] != name {
			t.Errorf("Checks[%d] = %s, want %s", i, cfg.Checks[i], name)
		}
	}
	if cfg.Alignment.MinCoverage != 0.8 {
		t.Errorf("MinCoverage = %v, want 0.8", cfg.Alignment.MinCoverage)
	}
	if cfg.Uptime.Buff != 42416 {
		t.Errorf("Uptime.Buff = %d, want 42416", cfg.Uptime.Buff)
	}

	// Mutating one default config must not affect the next.
	cfg.Checks[0] = CheckWastedTime
	if DefaultConfig().Checks[0] != CheckAutoChains {
		t.Error("DefaultConfig() shares its checks slice")
	}
}

func TestEnabled(t *testing.T) {
	cfg := &Config{Checks: []CheckName{CheckWastedTime}}
	if !cfg.Enabled(CheckWastedTime) {
		t.Error("Enabled(wasted_time) = false")
	}
	if cfg.Enabled(CheckAutoChains) {
		t.Error("Enabled(auto_chains) = true")
	}
}

func TestValidate_Webhook(t *testing.T) {
	tests := []struct {
		name    string
		webhook WebhookConfig
		wantErr bool
	}{
		{"https", WebhookConfig{URL: "https://hooks.example.com/moxie"}, false},
		{"http", WebhookConfig{URL: "http://localhost:8080/hook"}, false},
		{"missing url", WebhookConfig{Name: "nameless"}, true},
		{"bad scheme", WebhookConfig{URL: "ftp://example.com/hook"}, true},
		{"no host", WebhookConfig{URL: "https:///hook"}, true},
		{"bad trigger", WebhookConfig{URL: "https://example.com", Trigger: "sometimes"}, true},
		{"bad min grade", WebhookConfig{URL: "https://example.com", MinGrade: "F"}, true},
		{"good min grade", WebhookConfig{URL: "https://example.com", MinGrade: grading.C}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Webhooks = []WebhookConfig{tt.webhook}
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Webhook_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Webhooks = []WebhookConfig{{URL: "https://example.com/hook"}}

	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Webhooks[0].Trigger != WebhookTriggerOnIssues {
		t.Errorf("Trigger = %q, want on_issues", cfg.Webhooks[0].Trigger)
	}
	if cfg.Webhooks[0].Timeout != DefaultWebhookTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Webhooks[0].Timeout, DefaultWebhookTimeout)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("MOXIE_TEST_TOKEN", "secret123")

	cfg := DefaultConfig()
	cfg.Webhooks = []WebhookConfig{{URL: "https://example.com", Token: "${MOXIE_TEST_TOKEN}"}}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Webhooks[0].Token != "secret123" {
		t.Errorf("Token = %q, want secret123", cfg.Webhooks[0].Token)
	}
}

func TestLoad_WithWebhooks(t *testing.T) {
	content := `
webhooks:
  - name: discord
    url: https://discord.example/api/webhooks/1
    trigger: always
    timeout: 5s
    min_grade: B
`
	path := writeTempFile(t, "config.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Webhooks) != 1 {
		t.Fatalf("Webhooks = %d, want 1", len(cfg.Webhooks))
	}
	wh := cfg.Webhooks[0]
	if wh.Name != "discord" || wh.Trigger != WebhookTriggerAlways {
		t.Errorf("webhook = %+v", wh)
	}
	if wh.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", wh.Timeout)
	}
	if wh.MinGrade != grading.B {
		t.Errorf("MinGrade = %q, want B", wh.MinGrade)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}
