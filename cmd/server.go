package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/skyline-proger/stock-data-pipeline/api"
)

var serverCMD = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long:  `Start the HTTP API server to serve stock range summaries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := openStore(cfg)
		if err != nil {
			log.Fatalf("[FATAL] database unavailable: %v", err)
		}

		r := api.SetupRoutes(st)

		log.Printf("[INFO] starting server on %s", cfg.HTTPPort)
		return r.Run(cfg.HTTPPort)
	},
}

func init() {
	rootCMD.AddCommand(serverCMD)
}
