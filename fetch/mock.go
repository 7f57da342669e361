package fetch

import (
	"context"
	"fmt"
	"time"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars map[string][]Bar // per symbol; nil entries fall back to generated bars
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

// FetchDailyBars returns the canned bars for the symbol filtered to the
// requested range.
func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, start, end time.Time) ([]Bar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	bars, ok := m.Bars[symbol]
	if !ok {
		bars = GenerateBars(100, start, end)
	}
	var out []Bar
	for _, b := range bars {
		if b.Date.Before(start) || b.Date.After(end) {
			continue
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("mock %s: %w", symbol, ErrNoData)
	}
	return out, nil
}

// GenerateBars produces one synthetic weekday bar per day in [start, end].
func GenerateBars(basePrice float64, start, end time.Time) []Bar {
	var bars []Bar
	i := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i)*0.001)
		bars = append(bars, Bar{
			Date:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	return bars
}
