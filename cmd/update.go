package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skyline-proger/stock-data-pipeline/fetch"
	"github.com/skyline-proger/stock-data-pipeline/pipeline"
	"github.com/skyline-proger/stock-data-pipeline/scheduler"
)

var updateOnce bool

var updateCMD = &cobra.Command{
	Use:   "update",
	Short: "Run the daily incremental update",
	Long: `Run one incremental cycle immediately (last stored date through today
for each ticker), then keep running and repeat on the configured daily cron
schedule. With --once, run a single cycle and exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := openStore(cfg)
		if err != nil {
			log.Fatalf("[FATAL] database unavailable: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		p := pipeline.New(fetch.NewYahooFetcher(cfg.Proxy), st, cfg)

		if updateOnce {
			return p.RunUpdate(ctx)
		}

		sched := scheduler.New(ctx, p)
		if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		// Run an initial cycle so a restart never misses today's bars.
		sched.RunNow()

		log.Printf("[INFO] updater running, schedule %q. Press Ctrl+C to stop.", cfg.Schedule.DailyCron)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("[INFO] shutdown signal received, stopping...")
		cancel()
		return nil
	},
}

func init() {
	updateCMD.Flags().BoolVar(&updateOnce, "once", false, "run a single update cycle and exit")
	rootCMD.AddCommand(updateCMD)
}
