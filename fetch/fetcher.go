package fetch

import (
	"context"
	"errors"
	"time"
)

// ErrNoData is returned when the provider answers but has no bars for the
// requested symbol and range.
var ErrNoData = errors.New("no data returned for symbol")

// Bar is a raw daily OHLCV bar as delivered by the provider, before any
// metrics are computed.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume uint64
}

// Fetcher retrieves daily bars for a symbol over an inclusive date range.
// Non-trading days are simply absent from the result.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]Bar, error)
	Name() string
}
