package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/skyline-proger/stock-data-pipeline/fetch"
	"github.com/skyline-proger/stock-data-pipeline/pipeline"
)

var backfillCMD = &cobra.Command{
	Use:   "backfill",
	Short: "Load full historical data for all configured tickers",
	Long: `Fetch daily bars from the configured backfill start date through today
for every configured ticker, compute rolling metrics and upsert the rows.
Intended to run once before the daily updater starts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := openStore(cfg)
		if err != nil {
			log.Fatalf("[FATAL] database unavailable: %v", err)
		}

		p := pipeline.New(fetch.NewYahooFetcher(cfg.Proxy), st, cfg)
		if err := p.RunBackfill(context.Background()); err != nil {
			return err
		}

		fmt.Println("Historical backfill completed successfully!")
		return nil
	},
}

func init() {
	rootCMD.AddCommand(backfillCMD)
}
