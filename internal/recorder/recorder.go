package recorder

import (
	"time"

	"ReturnScope/internal/model"
)

// Run statuses.
const (
	StatusOK     = "OK"
	StatusFailed = "FAILED"
)

// RunEvent is the persisted summary of one ticker run. Only scalar results
// are kept; price series are never stored.
type RunEvent struct {
	RunAt          time.Time
	Symbol         string
	Source         string
	Status         string
	Error          string
	DurationMs     int64
	Observations   int
	FromDate       string
	ToDate         string
	MeanDaily      float64
	StdDevDaily    float64
	ExcessKurtosis float64
	Drawdown3M     float64
	Drawdown12M    float64
	Correlation    float64
}

// EventFromOutcome builds the run event for one batch outcome.
func EventFromOutcome(o model.Outcome) *RunEvent {
	evt := &RunEvent{
		RunAt:      o.Started,
		Symbol:     o.Symbol,
		Source:     o.Source,
		Status:     StatusOK,
		DurationMs: o.Duration.Milliseconds(),
	}
	if !o.OK() {
		evt.Status = StatusFailed
		if o.Err != nil {
			evt.Error = o.Err.Error()
		}
		return evt
	}

	r := o.Report
	evt.Observations = r.Observations
	evt.FromDate = r.From.Format(time.DateOnly)
	evt.ToDate = r.To.Format(time.DateOnly)
	evt.MeanDaily = r.Daily.Mean
	evt.StdDevDaily = r.Daily.StdDev
	evt.ExcessKurtosis = r.Daily.ExcessKurtosis
	evt.Drawdown3M = r.Quarterly.MaxDrawdown
	evt.Drawdown12M = r.Annual.MaxDrawdown
	evt.Correlation = r.Volatility.Correlation
	return evt
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(evt *RunEvent) error
	// RecentRuns returns up to limit runs for symbol, newest first.
	RecentRuns(symbol string, limit int) ([]RunEvent, error)
	Close() error
}
