package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TICKERS", "aapl, msft")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("DAILY_CRON", "")
	t.Setenv("BACKFILL_START", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Tickers) != 2 || cfg.Tickers[0] != "AAPL" || cfg.Tickers[1] != "MSFT" {
		t.Errorf("Expected uppercased tickers [AAPL MSFT], got %v", cfg.Tickers)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Port != "5432" {
		t.Errorf("Expected database defaults, got %s:%s", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.Schedule.DailyCron != "0 18 * * *" {
		t.Errorf("Expected default daily cron, got %q", cfg.Schedule.DailyCron)
	}
	if cfg.BackfillStart != "2020-01-01" {
		t.Errorf("Expected default backfill start, got %q", cfg.BackfillStart)
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
tickers: [goog]
database:
  host: db.internal
  name: market
backfill_start: "2018-01-01"
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DB_HOST", "override.internal")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Database.Host != "override.internal" {
		t.Errorf("Expected env override for host, got %q", cfg.Database.Host)
	}
	if cfg.Database.Name != "market" {
		t.Errorf("Expected yaml db name market, got %q", cfg.Database.Name)
	}
	if len(cfg.Tickers) != 1 || cfg.Tickers[0] != "GOOG" {
		t.Errorf("Expected yaml ticker GOOG, got %v", cfg.Tickers)
	}
	if cfg.BackfillStart != "2018-01-01" {
		t.Errorf("Expected yaml backfill start, got %q", cfg.BackfillStart)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for empty ticker list, got nil")
	}

	cfg.Tickers = []string{"AAPL"}
	cfg.BackfillStart = "not-a-date"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for malformed backfill start, got nil")
	}

	cfg.BackfillStart = "2020-01-01"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "h"
	cfg.Database.Port = "5432"
	cfg.Database.User = "u"
	cfg.Database.Password = "p"
	cfg.Database.Name = "d"

	want := "host=h port=5432 user=u password=p dbname=d sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("Expected DSN %q, got %q", want, got)
	}
}
