package metrics

import (
	"math"

	"github.com/skyline-proger/stock-data-pipeline/models"
)

// Window is the trailing window size for the moving average and volatility.
const Window = 7

// Compute fills in return_pct, ma7 and volatility for a single ticker's bars,
// which must be ordered by date ascending. Rows without a full trailing
// window keep nil metrics rather than a partial-window value.
//
// return_pct[i] is the percentage change of close versus the previous row;
// ma7[i] is the mean close over the trailing 7 rows; volatility[i] is the
// sample standard deviation of return_pct over the same 7 rows, defined only
// once all 7 returns exist.
func Compute(bars []models.PriceBar) []models.PriceBar {
	for i := range bars {
		bars[i].ReturnPct = nil
		bars[i].MA7 = nil
		bars[i].Volatility = nil

		if i > 0 && bars[i-1].Close != 0 {
			r := (bars[i].Close - bars[i-1].Close) / bars[i-1].Close * 100
			bars[i].ReturnPct = &r
		}

		if i >= Window-1 {
			ma := meanClose(bars[i-Window+1 : i+1])
			bars[i].MA7 = &ma
		}

		// Returns seed one row later than closes, so the volatility window
		// first fills at index Window.
		if i >= Window {
			if sd, ok := returnStdDev(bars[i-Window+1 : i+1]); ok {
				bars[i].Volatility = &sd
			}
		}
	}
	return bars
}

func meanClose(window []models.PriceBar) float64 {
	sum := 0.0
	for _, b := range window {
		sum += b.Close
	}
	return sum / float64(len(window))
}

// returnStdDev computes the sample standard deviation of return_pct over the
// window. Reports false when any return in the window is undefined.
func returnStdDev(window []models.PriceBar) (float64, bool) {
	n := len(window)
	if n < 2 {
		return 0, false
	}
	sum := 0.0
	for _, b := range window {
		if b.ReturnPct == nil {
			return 0, false
		}
		sum += *b.ReturnPct
	}
	mean := sum / float64(n)

	var sq float64
	for _, b := range window {
		d := *b.ReturnPct - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(n-1)), true
}

// Mean averages the non-nil values, reporting false when none exist.
func Mean(values []*float64) (float64, bool) {
	sum, n := 0.0, 0
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
