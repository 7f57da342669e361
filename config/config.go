package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. It is loaded once at process
// start and passed explicitly to each component.
type Config struct {
	Tickers  []string `yaml:"tickers"`
	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	BackfillStart string `yaml:"backfill_start"`
	LogFile       string `yaml:"log_file"`
	HTTPPort      string `yaml:"http_port"`
	Proxy         string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; everything can be
// supplied through the environment (including a .env file).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TICKERS"); v != "" {
		cfg.Tickers = splitTickers(v)
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		cfg.Database.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("DAILY_CRON"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("BACKFILL_START"); v != "" {
		cfg.BackfillStart = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		cfg.HTTPPort = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.Password == "" {
		cfg.Database.Password = "password"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "stocks"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 18 * * *"
	}
	if cfg.BackfillStart == "" {
		cfg.BackfillStart = "2020-01-01"
	}
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = ":8080"
	}

	normalizeTickers(cfg)
	return cfg, nil
}

// Validate checks that the configuration is usable for a pipeline run.
func (c *Config) Validate() error {
	if len(c.Tickers) == 0 {
		return fmt.Errorf("no tickers configured: set TICKERS or the tickers list")
	}
	if _, err := c.BackfillStartTime(); err != nil {
		return fmt.Errorf("backfill_start: %w", err)
	}
	return nil
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Name)
}

// BackfillStartTime parses the configured backfill start date.
func (c *Config) BackfillStartTime() (time.Time, error) {
	return time.Parse("2006-01-02", c.BackfillStart)
}

func splitTickers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, strings.ToUpper(t))
		}
	}
	return out
}

func normalizeTickers(cfg *Config) {
	for i, t := range cfg.Tickers {
		cfg.Tickers[i] = strings.ToUpper(strings.TrimSpace(t))
	}
}
