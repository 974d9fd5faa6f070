// Package daemon manages the WalkPal daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"

	"github.com/walkpal/walkpal/internal/app/reward"
	"github.com/walkpal/walkpal/internal/app/streak"
	"github.com/walkpal/walkpal/internal/jobs"
)

// Config holds all daemon configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Reward    RewardConfig    `toml:"reward"`
	Streak    StreakConfig    `toml:"streak"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	Logging   LoggingConfig   `toml:"logging"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	RequestTimeout string `toml:"request_timeout"`
}

// RewardConfig holds billing amounts (minor currency units) and the
// achievement thresholds for each tier.
type RewardConfig struct {
	MonthlyPrice      int64   `toml:"monthly_price"`
	FreeCredit        int64   `toml:"free_credit"`
	DiscountCredit    int64   `toml:"discount_credit"`
	FreeThreshold     float64 `toml:"free_threshold"`
	DiscountThreshold float64 `toml:"discount_threshold"`
}

// StreakConfig selects which days count toward a streak.
type StreakConfig struct {
	Policy string `toml:"policy"` // "lenient" or "strict"
}

// SchedulerConfig controls the daily cycle rollover job.
type SchedulerConfig struct {
	Enabled  bool   `toml:"enabled"`
	Rollover string `toml:"rollover"` // cron spec
	Timezone string `toml:"timezone"` // IANA zone; cycles are calendar days here
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
	File   string `toml:"file"`   // empty = stderr
}

// TelemetryConfig controls metrics and health checks.
type TelemetryConfig struct {
	Prometheus     bool   `toml:"prometheus"`
	HealthInterval string `toml:"health_interval"`
}

// envOverrides are read from WALKPAL_* variables and win over the file.
type envOverrides struct {
	APIHost      string `envconfig:"API_HOST"`
	APIPort      int    `envconfig:"API_PORT"`
	LogLevel     string `envconfig:"LOG_LEVEL"`
	StreakPolicy string `envconfig:"STREAK_POLICY"`
	Timezone     string `envconfig:"TIMEZONE"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	calc := reward.DefaultCalculator()
	return Config{
		API: APIConfig{
			Host:           "127.0.0.1",
			Port:           8427,
			RequestTimeout: "30s",
		},
		Reward: RewardConfig{
			MonthlyPrice:      calc.MonthlyPrice,
			FreeCredit:        calc.FreeCredit,
			DiscountCredit:    calc.DiscountCredit,
			FreeThreshold:     calc.FreeThreshold,
			DiscountThreshold: calc.DiscountThreshold,
		},
		Streak: StreakConfig{
			Policy: string(streak.PolicyLenient),
		},
		Scheduler: SchedulerConfig{
			Enabled:  true,
			Rollover: jobs.DefaultRolloverSpec,
			Timezone: "UTC",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			Prometheus:     true,
			HealthInterval: "60s",
		},
	}
}

// LoadConfig reads config from ~/.walkpal/config.toml, falling back to
// defaults, then applies WALKPAL_* environment overrides.
func LoadConfig() (Config, error) {
	return LoadConfigFrom(filepath.Join(walkpalHome(), "config.toml"))
}

// LoadConfigFrom reads config from path. A missing file is not an error.
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("stat config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("walkpal", &env); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}
	env.apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (e envOverrides) apply(cfg *Config) {
	if e.APIHost != "" {
		cfg.API.Host = e.APIHost
	}
	if e.APIPort > 0 {
		cfg.API.Port = e.APIPort
	}
	if e.LogLevel != "" {
		cfg.Logging.Level = e.LogLevel
	}
	if e.StreakPolicy != "" {
		cfg.Streak.Policy = e.StreakPolicy
	}
	if e.Timezone != "" {
		cfg.Scheduler.Timezone = e.Timezone
	}
}

// Validate checks the parts of the config that would fail at runtime.
func (c Config) Validate() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	if err := c.Reward.Calculator().Validate(); err != nil {
		return fmt.Errorf("reward: %w", err)
	}
	if _, err := streak.ParsePolicy(c.Streak.Policy); err != nil {
		return fmt.Errorf("streak: %w", err)
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// Calculator builds the reward calculator from the configured amounts.
func (r RewardConfig) Calculator() reward.Calculator {
	return reward.Calculator{
		MonthlyPrice:      r.MonthlyPrice,
		FreeCredit:        r.FreeCredit,
		DiscountCredit:    r.DiscountCredit,
		FreeThreshold:     r.FreeThreshold,
		DiscountThreshold: r.DiscountThreshold,
	}
}

// SaveConfig writes the config to ~/.walkpal/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(walkpalHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// ConfigureLogging applies the logging section to the global logrus logger.
// The returned closer releases the log file, if any.
func ConfigureLogging(cfg LoggingConfig) (func() error, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.level: %w", err)
	}
	log.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if cfg.File == "" {
		log.SetOutput(os.Stderr)
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return f.Close, nil
}

// walkpalHome returns the WalkPal data directory.
func walkpalHome() string {
	if env := os.Getenv("WALKPAL_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".walkpal")
}

// Home is exported for use by other packages.
func Home() string {
	return walkpalHome()
}

// parseDuration parses a duration string, returning a fallback on error.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
