package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/skyline-proger/stock-data-pipeline/config"
	"github.com/skyline-proger/stock-data-pipeline/fetch"
	"github.com/skyline-proger/stock-data-pipeline/metrics"
	"github.com/skyline-proger/stock-data-pipeline/models"
	"github.com/skyline-proger/stock-data-pipeline/store"
)

// ErrInsufficientData is returned when a fetched series cannot be turned
// into computable rows (for example, unordered or empty after filtering).
var ErrInsufficientData = errors.New("insufficient input rows for metrics")

// Pipeline runs the fetch -> compute -> upsert cycle for the configured
// tickers, one ticker at a time.
type Pipeline struct {
	Fetcher fetch.Fetcher
	Store   *store.Store
	Cfg     *config.Config

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func New(f fetch.Fetcher, s *store.Store, cfg *config.Config) *Pipeline {
	return &Pipeline{Fetcher: f, Store: s, Cfg: cfg, Now: time.Now}
}

func (p *Pipeline) today() time.Time {
	return models.Day(p.Now())
}

// RunBackfill loads the full historical range for every configured ticker.
// A single ticker's failure is logged and does not halt the others.
func (p *Pipeline) RunBackfill(ctx context.Context) error {
	start, err := p.Cfg.BackfillStartTime()
	if err != nil {
		return fmt.Errorf("backfill start: %w", err)
	}
	end := p.today()

	log.Printf("[INFO] backfill: %d ticker(s) from %s", len(p.Cfg.Tickers), p.Cfg.BackfillStart)
	for _, ticker := range p.Cfg.Tickers {
		n, err := p.UpdateTicker(ctx, ticker, start, end)
		if err != nil {
			log.Printf("[ERROR] backfill %s: %v", ticker, err)
			continue
		}
		log.Printf("[INFO] backfill %s: upserted %d row(s)", ticker, n)
	}
	log.Println("[INFO] backfill complete")
	return nil
}

// RunUpdate performs one incremental cycle: for each ticker, fetch from the
// day after the last stored date through today. Tickers that are already
// current are skipped.
func (p *Pipeline) RunUpdate(ctx context.Context) error {
	end := p.today()

	log.Printf("[INFO] update: %d ticker(s)", len(p.Cfg.Tickers))
	for _, ticker := range p.Cfg.Tickers {
		start, err := p.updateStart(ticker)
		if err != nil {
			log.Printf("[ERROR] update %s: %v", ticker, err)
			continue
		}
		if start.After(end) {
			log.Printf("[INFO] update %s: already current", ticker)
			continue
		}
		n, err := p.UpdateTicker(ctx, ticker, start, end)
		if err != nil {
			if errors.Is(err, fetch.ErrNoData) {
				log.Printf("[INFO] update %s: no new rows", ticker)
			} else {
				log.Printf("[ERROR] update %s: %v", ticker, err)
			}
			continue
		}
		log.Printf("[INFO] update %s: upserted %d row(s)", ticker, n)
	}
	log.Println("[INFO] update complete")
	return nil
}

func (p *Pipeline) updateStart(ticker string) (time.Time, error) {
	last, ok, err := p.Store.LastDate(ticker)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return p.Cfg.BackfillStartTime()
	}
	return models.Day(last).AddDate(0, 0, 1), nil
}

// UpdateTicker fetches the range, seeds the rolling windows with stored
// trailing history, computes the metrics and upserts the fetched rows.
// Returns the number of rows written.
func (p *Pipeline) UpdateTicker(ctx context.Context, ticker string, start, end time.Time) (int, error) {
	raw, err := p.Fetcher.FetchDailyBars(ctx, ticker, start, end)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}

	fresh := toPriceBars(ticker, raw)
	if len(fresh) == 0 {
		return 0, fmt.Errorf("%s: %w", ticker, ErrInsufficientData)
	}

	seed, err := p.Store.TrailingBars(ticker, fresh[0].Date, metrics.Window)
	if err != nil {
		return 0, err
	}

	history := append(seed, fresh...)
	if !ordered(history) {
		return 0, fmt.Errorf("%s: rows out of order: %w", ticker, ErrInsufficientData)
	}

	computed := metrics.Compute(history)
	rows := computed[len(seed):]

	if err := p.Store.UpsertBars(rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// ImportBars recomputes metrics for externally sourced rows and upserts them.
// Rows may span several tickers and are grouped before computation. Used by
// the SQLite migration command.
func ImportBars(st *store.Store, bars []models.PriceBar) (int, error) {
	groups := groupByTicker(bars)
	total := 0
	for ticker, group := range groups {
		computed := metrics.Compute(group)
		if err := st.UpsertBars(computed); err != nil {
			return total, fmt.Errorf("import %s: %w", ticker, err)
		}
		total += len(computed)
	}
	return total, nil
}

func toPriceBars(ticker string, raw []fetch.Bar) []models.PriceBar {
	bars := make([]models.PriceBar, 0, len(raw))
	var lastDate time.Time
	for _, b := range raw {
		day := models.Day(b.Date)
		if day.Equal(lastDate) {
			continue // provider sometimes repeats the live bar for today
		}
		lastDate = day
		bars = append(bars, models.PriceBar{
			Ticker: ticker,
			Date:   day,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	return bars
}

func ordered(bars []models.PriceBar) bool {
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Date.Before(bars[i].Date) {
			return false
		}
	}
	return true
}

func groupByTicker(bars []models.PriceBar) map[string][]models.PriceBar {
	groups := make(map[string][]models.PriceBar)
	for _, b := range bars {
		b.Date = models.Day(b.Date)
		groups[b.Ticker] = append(groups[b.Ticker], b)
	}
	for ticker, group := range groups {
		groups[ticker] = sortDedupe(group)
	}
	return groups
}

func sortDedupe(bars []models.PriceBar) []models.PriceBar {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	out := bars[:0]
	var lastDate time.Time
	for _, b := range bars {
		if b.Date.Equal(lastDate) {
			out[len(out)-1] = b // later row wins
			continue
		}
		lastDate = b.Date
		out = append(out, b)
	}
	return out
}
