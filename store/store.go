package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skyline-proger/stock-data-pipeline/metrics"
	"github.com/skyline-proger/stock-data-pipeline/models"
)

// ErrNoRows is returned by queries that found no bars for the requested
// ticker and range.
var ErrNoRows = errors.New("no stored rows for ticker in range")

const upsertBatchSize = 500

// Store wraps the database with the queries the pipeline, console and API
// need.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// UpsertBars writes the rows, replacing any existing row with the same
// (ticker, date). Re-running with identical input leaves the table unchanged.
func (s *Store) UpsertBars(bars []models.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}, {Name: "date"}},
		UpdateAll: true,
	}).CreateInBatches(bars, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("upsert %d bar(s): %w", len(bars), err)
	}
	return nil
}

// LastDate returns the most recent stored date for a ticker. The second
// return value is false when the ticker has no rows at all.
func (s *Store) LastDate(ticker string) (time.Time, bool, error) {
	var bar models.PriceBar
	err := s.db.Where("ticker = ?", ticker).Order("date DESC").First(&bar).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("last date for %s: %w", ticker, err)
	}
	return bar.Date, true, nil
}

// TrailingBars returns up to n rows strictly before the given date, oldest
// first. Used to seed the rolling windows of an incremental update.
func (s *Store) TrailingBars(ticker string, before time.Time, n int) ([]models.PriceBar, error) {
	var bars []models.PriceBar
	err := s.db.Where("ticker = ? AND date < ?", ticker, before).
		Order("date DESC").Limit(n).Find(&bars).Error
	if err != nil {
		return nil, fmt.Errorf("trailing bars for %s: %w", ticker, err)
	}
	// Reverse into chronological order.
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars, nil
}

// BarsInRange returns the ticker's rows between start and end inclusive,
// ordered by date.
func (s *Store) BarsInRange(ticker string, start, end time.Time) ([]models.PriceBar, error) {
	var bars []models.PriceBar
	err := s.db.Where("ticker = ? AND date BETWEEN ? AND ?", ticker, start, end).
		Order("date ASC").Find(&bars).Error
	if err != nil {
		return nil, fmt.Errorf("bars in range for %s: %w", ticker, err)
	}
	return bars, nil
}

// Tickers lists the distinct tickers present in the table.
func (s *Store) Tickers() ([]string, error) {
	var tickers []string
	err := s.db.Model(&models.PriceBar{}).Distinct("ticker").
		Order("ticker").Pluck("ticker", &tickers).Error
	if err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}
	return tickers, nil
}

// Summarize aggregates a ticker's rows over the range: average daily return,
// average volatility and the total percentage change between the first and
// last close. Returns ErrNoRows when the range is empty.
func (s *Store) Summarize(ticker string, start, end time.Time) (*models.RangeSummary, error) {
	bars, err := s.BarsInRange(ticker, start, end)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s %s..%s: %w",
			ticker, start.Format("2006-01-02"), end.Format("2006-01-02"), ErrNoRows)
	}

	returns := make([]*float64, len(bars))
	vols := make([]*float64, len(bars))
	for i, b := range bars {
		returns[i] = b.ReturnPct
		vols[i] = b.Volatility
	}
	avgReturn, _ := metrics.Mean(returns)
	avgVol, _ := metrics.Mean(vols)

	first, last := bars[0].Close, bars[len(bars)-1].Close
	var totalChange float64
	if first != 0 {
		totalChange = (last - first) / first * 100
	}

	return &models.RangeSummary{
		Ticker:         ticker,
		Rows:           len(bars),
		AvgReturnPct:   avgReturn,
		AvgVolatility:  avgVol,
		TotalChangePct: totalChange,
		FirstClose:     first,
		LastClose:      last,
	}, nil
}
