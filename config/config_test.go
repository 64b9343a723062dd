package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Default().Validate())
}

func TestLoad_YAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
account:
  id: TEST-01
  currency: USD
  balance: 25000
risk:
  risk_fraction: 0.02
  max_drawdown: 0.15
  stop_pips: 30
  trail_step_pips: 12
  parts: 2
strategy:
  instrument: EUR_JPY
  tag: swing
journal:
  type: sqlite
  db_path: ./orders.db
logging:
  level: debug
  dir: logs
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "TEST-01", cfg.Account.ID)
	assert.InDelta(t, 0.02, cfg.Risk.RiskFraction, 1e-12)
	assert.Equal(t, "EUR_JPY", cfg.Strategy.Instrument)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, 2, cfg.Risk.Parts)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing currency", func(c *Config) { c.Account.Currency = "" }},
		{"non-positive balance", func(c *Config) { c.Account.Balance = 0 }},
		{"risk fraction too large", func(c *Config) { c.Risk.RiskFraction = 1.5 }},
		{"negative drawdown", func(c *Config) { c.Risk.MaxDrawdown = -0.1 }},
		{"zero stop pips", func(c *Config) { c.Risk.StopPips = 0 }},
		{"zero parts", func(c *Config) { c.Risk.Parts = 0 }},
		{"unknown instrument", func(c *Config) { c.Strategy.Instrument = "EUR_SEK" }},
		{"missing tag", func(c *Config) { c.Strategy.Tag = "" }},
		{"bad journal type", func(c *Config) { c.Journal.Type = "parquet" }},
		{"csv without path", func(c *Config) { c.Journal.OrdersFile = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
