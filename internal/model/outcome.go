package model

import "time"

// Outcome is the result of processing one ticker in a batch: either a report
// or the error that aborted it.
type Outcome struct {
	Symbol   string
	Source   string
	Report   *TickerReport
	Err      error
	Started  time.Time
	Duration time.Duration
}

// OK reports whether the ticker was analyzed successfully.
func (o Outcome) OK() bool { return o.Err == nil && o.Report != nil }

// Failed returns the symbols of every failed outcome, in batch order.
func Failed(outcomes []Outcome) []string {
	var out []string
	for _, o := range outcomes {
		if !o.OK() {
			out = append(out, o.Symbol)
		}
	}
	return out
}
