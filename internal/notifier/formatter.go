package notifier

import (
	"fmt"
	"strings"
	"time"

	"ReturnScope/internal/model"
)

// FormatReport formats the scalar summary of one analyzed ticker.
func FormatReport(r *model.TickerReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s | %s to %s (%d obs)\n",
		r.Symbol, r.From.Format(time.DateOnly), r.To.Format(time.DateOnly), r.Observations))

	// Daily distribution
	shape := "not leptokurtic"
	if r.Daily.Leptokurtic {
		shape = "leptokurtic"
	}
	b.WriteString(fmt.Sprintf("  daily log returns: mean %+.6f, stddev %.6f, excess kurtosis %.2f (%s)\n",
		r.Daily.Mean, r.Daily.StdDev, r.Daily.ExcessKurtosis, shape))

	// Drawdowns
	for _, tr := range []model.TrailingReturns{r.Quarterly, r.Annual} {
		b.WriteString(fmt.Sprintf("  %s: largest drawdown %+.2f%% on %s\n",
			tr.Label, tr.MaxDrawdown, tr.MaxDrawdownDate.Format(time.DateOnly)))
	}

	b.WriteString(fmt.Sprintf("  %d-day log return vs volatility correlation: %+.3f\n",
		r.Volatility.Days, r.Volatility.Correlation))
	return b.String()
}

// FormatFailure formats the one-line notice for a ticker that was skipped.
func FormatFailure(symbol string, err error) string {
	return fmt.Sprintf("%s | FAILED: %v\n", symbol, err)
}

// FormatSummary formats the batch totals.
func FormatSummary(outcomes []model.Outcome, at time.Time, elapsed time.Duration) string {
	var b strings.Builder
	failed := model.Failed(outcomes)

	b.WriteString(fmt.Sprintf("ReturnScope batch | %s\n", at.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("%d tickers: %d ok, %d failed in %s\n",
		len(outcomes), len(outcomes)-len(failed), len(failed), elapsed.Round(time.Millisecond)))
	if len(failed) > 0 {
		b.WriteString(fmt.Sprintf("failed: %s\n", strings.Join(failed, ", ")))
	}
	return b.String()
}

// FormatBatch formats every outcome in order followed by the batch summary.
func FormatBatch(outcomes []model.Outcome, at time.Time, elapsed time.Duration) string {
	var b strings.Builder
	for _, o := range outcomes {
		if o.OK() {
			b.WriteString(FormatReport(o.Report))
		} else {
			b.WriteString(FormatFailure(o.Symbol, o.Err))
		}
		b.WriteString("\n")
	}
	b.WriteString(FormatSummary(outcomes, at, elapsed))
	return b.String()
}
