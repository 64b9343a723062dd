// Package config loads and validates the strategy/runtime configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quantfx/fxrisk/market"
)

// Config is the complete runtime configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Risk     RiskConfig     `json:"risk" yaml:"risk"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
}

// AccountConfig identifies the trading account.
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency"`
	Balance  float64 `json:"balance" yaml:"balance"`
}

// RiskConfig bounds position sizing and the drawdown circuit breaker.
type RiskConfig struct {
	RiskFraction  float64 `json:"risk_fraction" yaml:"risk_fraction"`
	MaxDrawdown   float64 `json:"max_drawdown" yaml:"max_drawdown"`
	StopPips      float64 `json:"stop_pips" yaml:"stop_pips"`
	TrailStepPips float64 `json:"trail_step_pips" yaml:"trail_step_pips"`
	Parts         int     `json:"parts" yaml:"parts"`
}

// StrategyConfig selects the traded instrument and the order label tag.
type StrategyConfig struct {
	Instrument string `json:"instrument" yaml:"instrument"`
	Tag        string `json:"tag" yaml:"tag"`
}

// JournalConfig selects order-history persistence.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "sqlite"
	OrdersFile string `json:"orders_file,omitempty" yaml:"orders_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"` // debug, info, warn, error
	Dir   string `json:"dir" yaml:"dir"`
}

// Load reads a configuration file, YAML first with JSON fallback, and
// validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Risk.RiskFraction <= 0 || c.Risk.RiskFraction > 1 {
		return fmt.Errorf("risk.risk_fraction must be in (0, 1]")
	}
	if c.Risk.MaxDrawdown < 0 || c.Risk.MaxDrawdown > 1 {
		return fmt.Errorf("risk.max_drawdown must be in [0, 1]")
	}
	if c.Risk.StopPips <= 0 {
		return fmt.Errorf("risk.stop_pips must be positive")
	}
	if c.Risk.Parts < 1 {
		return fmt.Errorf("risk.parts must be at least 1")
	}
	if c.Strategy.Instrument == "" {
		return fmt.Errorf("strategy.instrument is required")
	}
	if _, ok := market.Instruments[c.Strategy.Instrument]; !ok {
		return fmt.Errorf("unknown instrument: %s", c.Strategy.Instrument)
	}
	if c.Strategy.Tag == "" {
		return fmt.Errorf("strategy.tag is required")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.OrdersFile == "" {
			return fmt.Errorf("journal.orders_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:       "SIM-001",
			Currency: "USD",
			Balance:  100000,
		},
		Risk: RiskConfig{
			RiskFraction:  0.01,
			MaxDrawdown:   0.10,
			StopPips:      20,
			TrailStepPips: 15,
			Parts:         1,
		},
		Strategy: StrategyConfig{
			Instrument: "EUR_USD",
			Tag:        "fx",
		},
		Journal: JournalConfig{
			Type:       "csv",
			OrdersFile: "./orders.csv",
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "logs",
		},
	}
}
