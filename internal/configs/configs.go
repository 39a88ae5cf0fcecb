/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures the bot by reading operating system environment variables, including the
Telegram bot token, the district timezone, the reminder tick granularity, and the user
store backend. A local .env file is loaded first when present.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Reminder tick granularity bounds in minutes. Values outside the range are clamped,
// not rejected, so a misconfigured deployment still starts.
const (
	MinCronStepMinutes = 1
	MaxCronStepMinutes = 30
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Settings
	Environment string
	Port        int

	// Telegram Settings
	BotToken string

	// Reminder Settings
	Timezone        string
	CronStepMinutes int

	// User Store Settings
	UsersFile   string
	DatabaseDSN string
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for optional configuration items and performs necessary
// type conversions and validation. It returns a pointer to the AppConfig struct and
// any error encountered.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}

	// --- General Settings ---
	// Environment
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Port (operational endpoints: /health, /metrics)
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Telegram Settings ---
	cfg.BotToken = os.Getenv("BOT_TOKEN")
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN environment variable is required to connect to the Telegram Bot API")
	}

	// --- Reminder Settings ---
	// Timezone (district default, used for users without an explicit timezone)
	cfg.Timezone = os.Getenv("TZ")
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Berlin"
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TZ environment variable %q: %w", cfg.Timezone, err)
	}

	// CronStepMinutes, clamped to [MinCronStepMinutes, MaxCronStepMinutes]
	stepStr := os.Getenv("CRON_STEP_MINUTES")
	if stepStr == "" {
		stepStr = "5"
	}
	step, err := strconv.Atoi(stepStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_STEP_MINUTES environment variable: %w", err)
	}
	if step < MinCronStepMinutes {
		step = MinCronStepMinutes
	}
	if step > MaxCronStepMinutes {
		step = MaxCronStepMinutes
	}
	cfg.CronStepMinutes = step

	// --- User Store Settings ---
	// DATABASE_URL switches the user store to Postgres; otherwise a JSON file is used.
	cfg.DatabaseDSN = os.Getenv("DATABASE_URL")

	cfg.UsersFile = os.Getenv("USERS_FILE")
	if cfg.UsersFile == "" {
		cfg.UsersFile = "data/garbage.users.json"
	}

	return cfg, nil
}
