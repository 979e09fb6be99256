package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tripsplit/internal/core"
)

// Config carries all environment-driven settings for the server and worker.
type Config struct {
	// HTTP server
	Port string

	// Database
	SQLiteDBPath string
	DataBackend  string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Currency conversion: USD-anchored rate table, optionally overridden by
	// FX_RATES_JSON ({"USD":1.0,"EUR":0.92,...}).
	Rates core.Rates

	// Narrative enrichment (optional remote text-generation service)
	NarrativeAPIURL  string
	NarrativeAPIKey  string
	NarrativeTimeout time.Duration

	// Google Sheets export (optional, worker only)
	SheetsSpreadsheetID string
	SheetsSheetName     string

	// Worker
	SweepInterval time.Duration
}

// defaultRates is the stock USD-anchored table used when no override is
// configured. The engine itself never sees a hardcoded table; it always gets
// rates through the caller.
var defaultRates = core.Rates{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 149.50,
	"INR": 83.12,
	"AUD": 1.53,
	"CAD": 1.36,
	"SGD": 1.34,
	"THB": 35.50,
	"MXN": 17.15,
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8081"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/tripsplit.db"),
		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "tripsplit"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_events"),

		Rates: loadRates(),

		NarrativeAPIURL:  getEnv("NARRATIVE_API_URL", ""),
		NarrativeAPIKey:  getEnv("NARRATIVE_API_KEY", ""),
		NarrativeTimeout: getEnvDuration("NARRATIVE_TIMEOUT", 5*time.Second),

		SheetsSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		SheetsSheetName:     getEnv("GOOGLE_SHEET_NAME", "Expenses"),

		SweepInterval: getEnvDuration("SWEEP_INTERVAL", 5*time.Minute),
	}
	return cfg
}

// Validate checks the configuration and returns an error naming every
// problem found.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLite database path cannot be empty with the sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					problems = append(problems, fmt.Sprintf("cannot create database directory %q: %v", dir, err))
				}
			}
		}
	case "memory":
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend %q: must be sqlite or memory", c.DataBackend))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL %q: %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme %q: must be amqp or amqps", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when an AMQP URL is set")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when an AMQP URL is set")
		}
	}

	if c.NarrativeAPIURL != "" {
		if _, err := url.Parse(c.NarrativeAPIURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid narrative API URL %q: %v", c.NarrativeAPIURL, err))
		}
	}

	if len(c.Rates) == 0 {
		problems = append(problems, "rate table is empty")
	}
	for code, rate := range c.Rates {
		if rate <= 0 {
			problems = append(problems, fmt.Sprintf("rate for %s must be positive, got %v", code, rate))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(problems, "; "))
	}
	return nil
}

func loadRates() core.Rates {
	raw := strings.TrimSpace(os.Getenv("FX_RATES_JSON"))
	if raw == "" {
		return defaultRates
	}
	var rates core.Rates
	if err := json.Unmarshal([]byte(raw), &rates); err != nil || len(rates) == 0 {
		return defaultRates
	}
	return rates
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
