package model

import (
	"fmt"
	"time"
)

// HistogramBin is one equal-width bin of a return distribution.
type HistogramBin struct {
	Lower    float64
	Upper    float64
	Count    int
	Density  float64 // count / (N * width)
	Gaussian float64 // fitted normal pdf at the bin centre
}

// Distribution summarises a sample of returns against a fitted Gaussian.
type Distribution struct {
	N              int
	Mean           float64
	StdDev         float64 // sample, ddof = 1
	ExcessKurtosis float64
	Leptokurtic    bool
	Min            float64
	Max            float64
	Histogram      []HistogramBin
}

// TrailingReturns holds an n-day trailing percent return series and its worst value.
type TrailingReturns struct {
	Label           string
	Days            int
	Returns         []float64
	MaxDrawdown     float64
	MaxDrawdownDate time.Time
}

// VolatilityReport pairs n-day log returns with rolling realized volatility.
type VolatilityReport struct {
	Days        int
	LogReturns  []float64
	Volatility  []float64
	Correlation float64
}

// TickerReport is the full analysis of one symbol.
type TickerReport struct {
	Symbol       string
	Observations int
	From         time.Time
	To           time.Time

	Prices     Series
	Closes     Series // raw close; no values when the source lacks them
	Daily      Distribution
	Quarterly  TrailingReturns
	Annual     TrailingReturns
	Volatility VolatilityReport
}

// Series returns every chartable series of the report, each aligned so that
// element i sits on the later date of the pair it was computed from.
func (r *TickerReport) Series() []Series {
	out := []Series{r.Prices}
	if len(r.Closes.Values) > 0 {
		out = append(out, r.Closes)
	}
	out = append(out,
		r.aligned(r.Quarterly.Label, r.Quarterly.Returns),
		r.aligned(r.Annual.Label, r.Annual.Returns),
		r.aligned(fmt.Sprintf("%d-day log returns", r.Volatility.Days), r.Volatility.LogReturns),
		r.aligned("annualized volatility", r.Volatility.Volatility),
	)
	return out
}

func (r *TickerReport) aligned(label string, values []float64) Series {
	dates := r.Prices.Dates
	n := len(values)
	if n > len(dates) {
		n = len(dates)
	}
	return Series{Label: label, Dates: dates[:n], Values: values[:n]}
}
