package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BaseURL        string
	PageDelay      time.Duration
	RequestTimeout time.Duration
	// Workers bounds how many categories are scraped at once. Pages inside
	// a category are always fetched one after another.
	Workers      int
	OutputDir    string
	CombinedFile string
	LogLevel     string
	LogFormat    string
	// DatabaseURL enables the PostgreSQL sink when set.
	DatabaseURL string
	DBRetries   int
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://dakar-auto.com",
		PageDelay:      2 * time.Second,
		RequestTimeout: 30 * time.Second,
		Workers:        1,
		OutputDir:      "output",
		CombinedFile:   "dakar_auto_combined.csv",
		LogLevel:       "info",
		LogFormat:      "text",
		DBRetries:      3,
	}
}

// LoadConfig starts from DefaultConfig, loads a .env file if one exists and
// applies DAKAR_* overrides. An explicitly named env file must exist; the
// implicit ./.env is optional.
func LoadConfig(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("could not load env file %s: %w", envPath[0], err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env: %w", err)
	}

	cfg := DefaultConfig()
	var err error

	cfg.BaseURL = getEnvAsString("DAKAR_BASE_URL", cfg.BaseURL)
	if cfg.PageDelay, err = getEnvAsDuration("DAKAR_PAGE_DELAY", cfg.PageDelay); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getEnvAsDuration("DAKAR_REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return nil, err
	}
	if cfg.Workers, err = getEnvAsInt("DAKAR_WORKERS", cfg.Workers); err != nil {
		return nil, err
	}
	cfg.OutputDir = getEnvAsString("DAKAR_OUTPUT_DIR", cfg.OutputDir)
	cfg.CombinedFile = getEnvAsString("DAKAR_COMBINED_FILE", cfg.CombinedFile)
	cfg.LogLevel = getEnvAsString("DAKAR_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvAsString("DAKAR_LOG_FORMAT", cfg.LogFormat)
	cfg.DatabaseURL = getEnvAsString("DATABASE_URL", cfg.DatabaseURL)
	if cfg.DBRetries, err = getEnvAsInt("DAKAR_DB_RETRIES", cfg.DBRetries); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.BaseURL) == "":
		return errors.New("base URL is required")
	case c.PageDelay <= 0:
		return fmt.Errorf("page delay must be positive, got %v", c.PageDelay)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("request timeout must be positive, got %v", c.RequestTimeout)
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	case strings.TrimSpace(c.OutputDir) == "":
		return errors.New("output dir is required")
	case strings.TrimSpace(c.CombinedFile) == "":
		return errors.New("combined file name is required")
	}
	return nil
}

func getEnvAsString(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not an integer: %w", key, value, err)
	}
	return n, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a duration: %w", key, value, err)
	}
	return d, nil
}
