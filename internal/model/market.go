package model

import "time"

// PriceSeries holds daily closing data for one symbol.
// Index 0 is the most recent trading day, index N-1 the oldest.
type PriceSeries struct {
	Symbol    string
	Dates     []time.Time
	Prices    []float64 // adjusted close
	Closes    []float64 // raw close, may be nil when the source has no such column
	FetchedAt time.Time
	Source    string
}

// Len returns the number of observations.
func (p *PriceSeries) Len() int { return len(p.Prices) }

// Newest returns the date of the most recent observation.
func (p *PriceSeries) Newest() time.Time {
	if len(p.Dates) == 0 {
		return time.Time{}
	}
	return p.Dates[0]
}

// Oldest returns the date of the oldest observation.
func (p *PriceSeries) Oldest() time.Time {
	if len(p.Dates) == 0 {
		return time.Time{}
	}
	return p.Dates[len(p.Dates)-1]
}

// Series is a labelled sequence of values aligned to dates, newest first.
type Series struct {
	Label  string
	Dates  []time.Time
	Values []float64
}
