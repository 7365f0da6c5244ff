package analyzer

import (
	"fmt"

	"ReturnScope/internal/calculator"
	"ReturnScope/internal/model"
)

// Params holds the trading-day windows and histogram resolution.
type Params struct {
	Month   int
	Quarter int
	Year    int
	Bins    int
}

// DefaultParams returns the 21/63/252-day windows with 100 histogram bins.
func DefaultParams() Params {
	return Params{
		Month:   calculator.TradingDaysPerMonth,
		Quarter: calculator.TradingDaysPerQuarter,
		Year:    calculator.TradingDaysPerYear,
		Bins:    calculator.DefaultBins,
	}
}

// Analyzer turns a price series into a TickerReport.
type Analyzer struct {
	params Params
}

// New creates an Analyzer. Zero fields in p fall back to DefaultParams.
func New(p Params) *Analyzer {
	d := DefaultParams()
	if p.Month <= 0 {
		p.Month = d.Month
	}
	if p.Quarter <= 0 {
		p.Quarter = d.Quarter
	}
	if p.Year <= 0 {
		p.Year = d.Year
	}
	if p.Bins <= 0 {
		p.Bins = d.Bins
	}
	return &Analyzer{params: p}
}

// Params returns the effective parameters.
func (a *Analyzer) Params() Params { return a.params }

// Analyze computes every statistic for one symbol. The first failing stage
// aborts the analysis and is named in the returned error.
func (a *Analyzer) Analyze(series *model.PriceSeries) (*model.TickerReport, error) {
	if series == nil || series.Len() == 0 {
		return nil, fmt.Errorf("analyze: %w: empty series", calculator.ErrDegenerateInput)
	}
	if len(series.Dates) != len(series.Prices) || (series.Closes != nil && len(series.Closes) != len(series.Prices)) {
		return nil, fmt.Errorf("analyze: %w: %d dates, %d prices, %d closes",
			calculator.ErrDegenerateInput, len(series.Dates), len(series.Prices), len(series.Closes))
	}
	p := a.params
	prices := series.Prices

	report := &model.TickerReport{
		Symbol:       series.Symbol,
		Observations: series.Len(),
		From:         series.Oldest(),
		To:           series.Newest(),
		Prices: model.Series{
			Label:  "adjusted close",
			Dates:  series.Dates,
			Values: prices,
		},
	}
	if series.Closes != nil {
		report.Closes = model.Series{Label: "close", Dates: series.Dates, Values: series.Closes}
	}

	// Step a: distribution of 1-day log returns
	daily, err := calculator.LogReturns(prices, 1)
	if err != nil {
		return nil, fmt.Errorf("daily returns: %w", err)
	}
	dist, err := calculator.Describe(daily, p.Bins)
	if err != nil {
		return nil, fmt.Errorf("daily distribution: %w", err)
	}
	report.Daily = *dist

	// Step b: trailing 3- and 12-month percent returns with their worst values
	report.Quarterly, err = trailing("3-month returns", series, p.Quarter)
	if err != nil {
		return nil, fmt.Errorf("3-month returns: %w", err)
	}
	report.Annual, err = trailing("12-month returns", series, p.Year)
	if err != nil {
		return nil, fmt.Errorf("12-month returns: %w", err)
	}

	// Step c: monthly log returns against realized volatility
	monthly, err := calculator.LogReturns(prices, p.Month)
	if err != nil {
		return nil, fmt.Errorf("%d-day log returns: %w", p.Month, err)
	}
	vol, err := calculator.RollingVolatility(prices, p.Month, p.Year)
	if err != nil {
		return nil, fmt.Errorf("volatility: %w", err)
	}
	corr, err := calculator.Correlation(vol, monthly)
	if err != nil {
		return nil, fmt.Errorf("correlation: %w", err)
	}
	report.Volatility = model.VolatilityReport{
		Days:        p.Month,
		LogReturns:  monthly,
		Volatility:  vol,
		Correlation: corr,
	}

	return report, nil
}

func trailing(label string, series *model.PriceSeries, days int) (model.TrailingReturns, error) {
	returns, err := calculator.PercentReturns(series.Prices, days)
	if err != nil {
		return model.TrailingReturns{}, err
	}
	idx, err := calculator.MinIndex(returns)
	if err != nil {
		return model.TrailingReturns{}, err
	}
	return model.TrailingReturns{
		Label:           label,
		Days:            days,
		Returns:         returns,
		MaxDrawdown:     returns[idx],
		MaxDrawdownDate: series.Dates[idx],
	}, nil
}
