package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skyline-proger/stock-data-pipeline/models"
	"github.com/skyline-proger/stock-data-pipeline/pipeline"
)

var migrateCMD = &cobra.Command{
	Use:   "migrate [sqlite-path]",
	Short: "Copy a legacy SQLite stocks_data table into PostgreSQL",
	Long: `Read the stocks_data table from a legacy SQLite database file,
normalize tickers, drop duplicate (ticker, date) rows, recompute the rolling
metrics and upsert everything into PostgreSQL.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sqlitePath := args[0]
		if _, err := os.Stat(sqlitePath); err != nil {
			return fmt.Errorf("sqlite database: %w", err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		src, err := gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}

		var bars []models.PriceBar
		if err := src.Order("ticker, date").Find(&bars).Error; err != nil {
			return fmt.Errorf("read legacy rows: %w", err)
		}
		if len(bars) == 0 {
			return fmt.Errorf("the source table is empty; nothing to migrate")
		}
		normalizeLegacy(bars)

		st, err := openStore(cfg)
		if err != nil {
			log.Fatalf("[FATAL] database unavailable: %v", err)
		}

		n, err := pipeline.ImportBars(st, bars)
		if err != nil {
			return err
		}

		fmt.Printf("Migration completed successfully: %d row(s) written.\n", n)
		return nil
	},
}

func normalizeLegacy(bars []models.PriceBar) {
	for i := range bars {
		bars[i].Ticker = strings.ToUpper(strings.TrimSpace(bars[i].Ticker))
	}
}

func init() {
	rootCMD.AddCommand(migrateCMD)
}
