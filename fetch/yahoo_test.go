package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const chartResponse = `{
  "chart": {
    "result": [{
      "timestamp": [1704153600, 1704240000, 1704326400],
      "indicators": {
        "quote": [{
          "open":   [184.0, null, 186.0],
          "high":   [186.0, null, 188.0],
          "low":    [183.0, null, 185.0],
          "close":  [185.5, null, 187.2],
          "volume": [52000000, null, 48000000]
        }]
      }
    }],
    "error": null
  }
}`

func TestYahooFetchDailyBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("interval"); got != "1d" {
			t.Errorf("Expected interval 1d, got %q", got)
		}
		fmt.Fprint(w, chartResponse)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	bars, err := f.FetchDailyBars(context.Background(), "AAPL", start, end)
	if err != nil {
		t.Fatalf("FetchDailyBars: %v", err)
	}

	// The middle null bar (holiday) is skipped.
	if len(bars) != 2 {
		t.Fatalf("Expected 2 bars, got %d", len(bars))
	}
	if bars[0].Close != 185.5 {
		t.Errorf("Expected first close 185.5, got %f", bars[0].Close)
	}
	if bars[1].Volume != 48000000 {
		t.Errorf("Expected second volume 48000000, got %d", bars[1].Volume)
	}
	if !bars[0].Date.Before(bars[1].Date) {
		t.Error("Expected bars in chronological order")
	}
}

func TestYahooFetchNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL

	_, err := f.FetchDailyBars(context.Background(), "NOPE",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
}

func TestYahooFetchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL

	_, err := f.FetchDailyBars(context.Background(), "GONE",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatal("Expected error for provider error payload, got nil")
	}
}

func TestYahooFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL

	_, err := f.FetchDailyBars(context.Background(), "AAPL",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatal("Expected error for non-200 status, got nil")
	}
}

func TestMockFetcherRange(t *testing.T) {
	m := &MockFetcher{}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)

	bars, err := m.FetchDailyBars(context.Background(), "AAPL", start, end)
	if err != nil {
		t.Fatalf("FetchDailyBars: %v", err)
	}
	// Jan 1-7 2024 has five weekdays.
	if len(bars) != 5 {
		t.Errorf("Expected 5 weekday bars, got %d", len(bars))
	}
	for _, b := range bars {
		if b.Date.Weekday() == time.Saturday || b.Date.Weekday() == time.Sunday {
			t.Errorf("Unexpected weekend bar on %v", b.Date)
		}
	}
}
