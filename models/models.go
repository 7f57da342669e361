package models

import (
	"time"
)

// PriceBar is one daily OHLCV row for a ticker together with the rolling
// metrics derived from it. Primary key is (ticker, date); re-ingesting the
// same day replaces the row wholesale.
type PriceBar struct {
	Ticker     string    `gorm:"primaryKey;size:12" json:"ticker"`
	Date       time.Time `gorm:"primaryKey;type:date" json:"date"`
	Open       float64   `json:"open"`
	High       float64   `json:"high"`
	Low        float64   `json:"low"`
	Close      float64   `json:"close"`
	Volume     uint64    `json:"volume"`
	ReturnPct  *float64  `json:"return_pct"`
	MA7        *float64  `json:"ma7"`
	Volatility *float64  `json:"volatility"`
}

// TableName keeps the table name used by earlier deployments of the pipeline.
func (PriceBar) TableName() string { return "stocks_data" }

// Day normalizes the bar's date to midnight UTC. Bars coming back from the
// provider carry exchange-local timestamps.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RangeSummary is the aggregate view over a ticker's date range returned by
// the console and the API. Averages skip rows whose metric is NULL.
type RangeSummary struct {
	Ticker         string  `json:"ticker"`
	Rows           int     `json:"rows"`
	AvgReturnPct   float64 `json:"avg_return_pct"`
	AvgVolatility  float64 `json:"avg_volatility"`
	TotalChangePct float64 `json:"total_change_pct"`
	FirstClose     float64 `json:"first_close"`
	LastClose      float64 `json:"last_close"`
}
