package config

import (
	"os"
	"strconv"
	"time"
)

// Default values for configuration.
const (
	DefaultChainSlot      = "Weapon_1"
	DefaultChainLength    = 3
	DefaultMinCoverage    = 0.8
	DefaultWebhookTimeout = 10 * time.Second

	DefaultStanceBuff     uint32 = 42086
	DefaultStanceName            = "Primordial Stance"
	DefaultAttunementBuff uint32 = 43470
	DefaultUptimeBuff     uint32 = 42416
	DefaultUptimeName            = "Elements of Rage"
)

// Environment variable names.
const (
	EnvConfig      = "MOXIE_CONFIG"
	EnvChainSlot   = "MOXIE_CHAIN_SLOT"
	EnvMinCoverage = "MOXIE_MIN_COVERAGE"
	EnvLogFile     = "MOXIE_LOG_FILE"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	checks := make([]CheckName, len(KnownChecks))
	copy(checks, KnownChecks)

	return &Config{
		Checks: checks,
		Chains: ChainConfig{
			Slot:   DefaultChainSlot,
			Length: DefaultChainLength,
		},
		Alignment: AlignmentConfig{
			StanceBuff:     DefaultStanceBuff,
			StanceName:     DefaultStanceName,
			AttunementBuff: DefaultAttunementBuff,
			MinCoverage:    DefaultMinCoverage,
		},
		Uptime: UptimeConfig{
			Buff: DefaultUptimeBuff,
			Name: DefaultUptimeName,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if slot := os.Getenv(EnvChainSlot); slot != "" {
		c.Chains.Slot = slot
	}
	if v := os.Getenv(EnvMinCoverage); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Alignment.MinCoverage = f
		}
	}
}
