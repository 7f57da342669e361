package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"

	"github.com/skyline-proger/stock-data-pipeline/models"
	"github.com/skyline-proger/stock-data-pipeline/store"
)

// Console is the interactive query tool over the stored bars. It reads from
// In and writes to Out so tests can script a session.
type Console struct {
	Store *store.Store
	In    io.Reader
	Out   io.Writer
}

func New(st *store.Store, in io.Reader, out io.Writer) *Console {
	return &Console{Store: st, In: in, Out: out}
}

// Run drives the prompt loop. Query errors are printed and the session
// continues; an empty ticker ends it.
func (c *Console) Run() error {
	scanner := bufio.NewScanner(c.In)

	tickers, err := c.Store.Tickers()
	if err != nil {
		return err
	}

	fmt.Fprintln(c.Out, "=== Stock Data Console ===")
	if len(tickers) > 0 {
		fmt.Fprintf(c.Out, "Available tickers: %s\n", strings.Join(tickers, ", "))
	} else {
		fmt.Fprintln(c.Out, "No tickers stored yet. Run a backfill first.")
	}

	for {
		ticker := prompt(scanner, c.Out, "\nEnter ticker symbol (empty to quit): ")
		if ticker == "" {
			fmt.Fprintln(c.Out, "Bye.")
			return nil
		}
		ticker = strings.ToUpper(ticker)

		start, ok := promptDate(scanner, c.Out, "Enter start date (YYYY-MM-DD): ")
		if !ok {
			continue
		}
		end, ok := promptDate(scanner, c.Out, "Enter end date (YYYY-MM-DD): ")
		if !ok {
			continue
		}

		summary, err := c.Store.Summarize(ticker, start, end)
		if errors.Is(err, store.ErrNoRows) {
			fmt.Fprintf(c.Out, "No data for %s in this period.\n", ticker)
			continue
		}
		if err != nil {
			return err
		}

		c.printSummary(summary)

		if prompt(scanner, c.Out, "\nShow price chart? (y/n): ") == "y" {
			bars, err := c.Store.BarsInRange(ticker, start, end)
			if err != nil {
				return err
			}
			c.printChart(ticker, bars)
		}
	}
}

func (c *Console) printSummary(s *models.RangeSummary) {
	fmt.Fprintf(c.Out, "\nSummary for %s (%d row(s)):\n", s.Ticker, s.Rows)
	table := tablewriter.NewWriter(c.Out)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Average daily return (%)", fmt.Sprintf("%.3f", s.AvgReturnPct)})
	table.Append([]string{"Average volatility", fmt.Sprintf("%.3f", s.AvgVolatility)})
	table.Append([]string{"Total change over period (%)", fmt.Sprintf("%.2f", s.TotalChangePct)})
	table.Append([]string{"First close", fmt.Sprintf("%.2f", s.FirstClose)})
	table.Append([]string{"Last close", fmt.Sprintf("%.2f", s.LastClose)})
	table.Render()
}

func (c *Console) printChart(ticker string, bars []models.PriceBar) {
	if len(bars) == 0 {
		return
	}
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	caption := fmt.Sprintf("%s close, %s .. %s", ticker,
		bars[0].Date.Format("2006-01-02"), bars[len(bars)-1].Date.Format("2006-01-02"))
	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, asciigraph.Plot(closes,
		asciigraph.Height(12),
		asciigraph.Caption(caption),
	))
}

func prompt(scanner *bufio.Scanner, out io.Writer, msg string) string {
	fmt.Fprint(out, msg)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func promptDate(scanner *bufio.Scanner, out io.Writer, msg string) (time.Time, bool) {
	raw := prompt(scanner, out, msg)
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		fmt.Fprintf(out, "Invalid date %q, expected YYYY-MM-DD.\n", raw)
		return time.Time{}, false
	}
	return t.UTC(), true
}
