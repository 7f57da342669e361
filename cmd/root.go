package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/skyline-proger/stock-data-pipeline/config"
	"github.com/skyline-proger/stock-data-pipeline/database"
	"github.com/skyline-proger/stock-data-pipeline/store"
)

var cfgPath string

var rootCMD = &cobra.Command{
	Use:   "stockpipe",
	Short: "Daily Stock Data Ingestion and Analysis Tool",
	Long: `A CLI application for ingesting daily OHLCV stock data.
It fetches bars from Yahoo Finance, computes rolling metrics (daily return,
7-day moving average, volatility) and upserts them into PostgreSQL. Stored
data can be explored through an interactive console or a small HTTP API.`,
}

func Execute() {
	err := rootCMD.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCMD.PersistentFlags().StringVar(&cfgPath, "config", "configs/config.yaml", "path to YAML config file")
	log.SetFlags(log.LstdFlags)
}

// loadConfig reads and validates the configuration, and redirects logging to
// the configured file (in addition to stdout) when one is set.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}
	return cfg, nil
}

// openStore connects to the database and wraps it in a Store.
func openStore(cfg *config.Config) (*store.Store, error) {
	log.Println("[INFO] connecting to database...")
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	return store.New(db), nil
}
