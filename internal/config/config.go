package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"budgetbuddy/internal/aggregate"
)

type Config struct {
	// Storage
	DataBackend  string
	SQLiteDBPath string

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	LogLevel string

	// Ledger cache
	LedgerCacheSize int
	LedgerCacheTTL  time.Duration

	// Calendar used by interval summaries
	WeekStart string
	Timezone  string

	BcryptCost int
}

func Load() *Config {
	return &Config{
		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/budgetbuddy.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budgetbuddy"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		LedgerCacheSize: getEnvInt("LEDGER_CACHE_SIZE", 16),
		LedgerCacheTTL:  getEnvDuration("LEDGER_CACHE_TTL", 30*time.Minute),

		WeekStart: getEnv("WEEK_START", "sunday"),
		Timezone:  getEnv("TIMEZONE", "Local"),

		BcryptCost: getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),
	}
}

// Validate validates the configuration and returns an error listing every problem
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if c.LedgerCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid ledger cache size %d: must be at least 1", c.LedgerCacheSize))
	} else if c.LedgerCacheSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid ledger cache size %d: must be at most 10000", c.LedgerCacheSize))
	}
	if c.LedgerCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid ledger cache TTL %v: must be at least 1 second", c.LedgerCacheTTL))
	}

	if _, err := aggregate.ParseWeekday(c.WeekStart); err != nil {
		errors = append(errors, fmt.Sprintf("invalid week start '%s': %v", c.WeekStart, err))
	}
	if _, err := c.Location(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errors = append(errors, fmt.Sprintf("invalid bcrypt cost %d: must be between %d and %d", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Location resolves Timezone; empty and "Local" mean the system zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Calendar builds the interval calendar from WeekStart and Timezone. Call
// Validate first; unparsable values fall back to the defaults.
func (c *Config) Calendar() aggregate.Calendar {
	cal := aggregate.DefaultCalendar()
	if loc, err := c.Location(); err == nil {
		cal.Location = loc
	}
	if wd, err := aggregate.ParseWeekday(c.WeekStart); err == nil {
		cal.WeekStart = wd
	}
	return cal
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
