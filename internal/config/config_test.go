package config

import (
	"os"
	"strings"
	"testing"

	"tripsplit/internal/core"
)

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:         "8081",
			DataBackend:  "memory",
			AMQPExchange: "tripsplit",
			AMQPQueue:    "expense_events",
			Rates:        defaultRates,
		}
	}

	tests := []struct {
		name     string
		mutate   func(*Config)
		wantErr  bool
		contains string
	}{
		{
			name:   "valid memory backend",
			mutate: func(c *Config) {},
		},
		{
			name:     "non-numeric port",
			mutate:   func(c *Config) { c.Port = "abc" },
			wantErr:  true,
			contains: "must be a number",
		},
		{
			name:     "port out of range",
			mutate:   func(c *Config) { c.Port = "70000" },
			wantErr:  true,
			contains: "between 1 and 65535",
		},
		{
			name:     "unknown backend",
			mutate:   func(c *Config) { c.DataBackend = "postgres" },
			wantErr:  true,
			contains: "invalid data backend",
		},
		{
			name:     "sqlite backend needs a path",
			mutate:   func(c *Config) { c.DataBackend = "sqlite"; c.SQLiteDBPath = "" },
			wantErr:  true,
			contains: "database path",
		},
		{
			name:     "bad amqp scheme",
			mutate:   func(c *Config) { c.AMQPURL = "http://localhost:5672" },
			wantErr:  true,
			contains: "must be amqp or amqps",
		},
		{
			name:     "empty rate table",
			mutate:   func(c *Config) { c.Rates = nil },
			wantErr:  true,
			contains: "rate table is empty",
		},
		{
			name:     "non-positive rate",
			mutate:   func(c *Config) { c.Rates = core.Rates{"USD": 0} },
			wantErr:  true,
			contains: "must be positive",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tc.contains) {
					t.Errorf("error %q does not contain %q", err.Error(), tc.contains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("PORT")
	os.Unsetenv("FX_RATES_JSON")

	cfg := Load()
	if cfg.Port != "8081" {
		t.Errorf("default port = %q, want 8081", cfg.Port)
	}
	if cfg.DataBackend != "sqlite" {
		t.Errorf("default backend = %q, want sqlite", cfg.DataBackend)
	}
	if cfg.Rates["USD"] != 1.0 {
		t.Errorf("USD rate = %v, want the 1.0 anchor", cfg.Rates["USD"])
	}
}

func TestLoadRatesOverride(t *testing.T) {
	t.Setenv("FX_RATES_JSON", `{"USD":1.0,"EUR":0.95}`)
	cfg := Load()
	if cfg.Rates["EUR"] != 0.95 {
		t.Errorf("EUR rate = %v, want 0.95 from override", cfg.Rates["EUR"])
	}
	if len(cfg.Rates) != 2 {
		t.Errorf("override should replace the table entirely, got %d entries", len(cfg.Rates))
	}
}

func TestLoadRatesBadJSONFallsBack(t *testing.T) {
	t.Setenv("FX_RATES_JSON", `{not json`)
	cfg := Load()
	if cfg.Rates["USD"] != 1.0 || len(cfg.Rates) != len(defaultRates) {
		t.Errorf("bad override should fall back to defaults, got %v", cfg.Rates)
	}
}
