package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/skyline-proger/stock-data-pipeline/console"
)

var consoleCMD = &cobra.Command{
	Use:   "console",
	Short: "Explore stored stock data interactively",
	Long: `Prompt for a ticker and date range, print summary statistics over the
stored rows and optionally render an ASCII chart of the close price.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := openStore(cfg)
		if err != nil {
			log.Fatalf("[FATAL] database unavailable: %v", err)
		}

		return console.New(st, os.Stdin, os.Stdout).Run()
	},
}

func init() {
	rootCMD.AddCommand(consoleCMD)
}
