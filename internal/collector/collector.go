package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"ReturnScope/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series map[string]*model.PriceSeries
	Errors map[string]error
	// Days and Price drive generated data for symbols not in Series.
	Days  int
	Price float64
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyPrices(_ context.Context, symbol string, _ int) (*model.PriceSeries, error) {
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if s, ok := m.Series[symbol]; ok {
		return s, nil
	}
	days := m.Days
	if days == 0 {
		days = 300
	}
	price := m.Price
	if price == 0 {
		price = 100
	}
	return GenerateMockSeries(symbol, price, days, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)), nil
}

// GenerateMockSeries builds a deterministic newest-first daily series ending at last.
// Prices oscillate around basePrice so every derived statistic is well defined.
func GenerateMockSeries(symbol string, basePrice float64, days int, last time.Time) *model.PriceSeries {
	s := &model.PriceSeries{
		Symbol:    symbol,
		Dates:     make([]time.Time, days),
		Prices:    make([]float64, days),
		Closes:    make([]float64, days),
		FetchedAt: last,
		Source:    "mock",
	}
	for i := 0; i < days; i++ {
		p := basePrice * (1 + 0.05*math.Sin(float64(i)*0.37) + 0.002*float64(i%7-3))
		s.Dates[i] = last.AddDate(0, 0, -i)
		s.Prices[i] = p
		s.Closes[i] = p * 1.01
	}
	return s
}

// Collector fetches price history and enforces the series invariants every
// downstream computation relies on.
type Collector struct {
	Fetcher  Fetcher
	FromYear int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, fromYear int) *Collector {
	return &Collector{Fetcher: fetcher, FromYear: fromYear}
}

// Collect fetches the daily series for symbol and validates it.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	series, err := c.Fetcher.FetchDailyPrices(ctx, symbol, c.FromYear)
	if err != nil {
		return nil, fmt.Errorf("fetch %s from %s: %w", symbol, c.Fetcher.Name(), err)
	}
	if err := Validate(series); err != nil {
		return nil, fmt.Errorf("validate %s: %w", symbol, err)
	}
	return series, nil
}

// Validate checks that a series is non-empty, aligned, strictly newest first
// and holds only positive finite prices.
func Validate(s *model.PriceSeries) error {
	if s == nil || len(s.Prices) == 0 {
		return fmt.Errorf("%w: empty series", ErrParse)
	}
	if len(s.Dates) != len(s.Prices) {
		return fmt.Errorf("%w: %d dates for %d prices", ErrParse, len(s.Dates), len(s.Prices))
	}
	if s.Closes != nil && len(s.Closes) != len(s.Prices) {
		return fmt.Errorf("%w: %d closes for %d prices", ErrParse, len(s.Closes), len(s.Prices))
	}
	for i, p := range s.Prices {
		if !(p > 0) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: price %v on %s", ErrParse, p, s.Dates[i].Format(time.DateOnly))
		}
		if i > 0 && !s.Dates[i].Before(s.Dates[i-1]) {
			return fmt.Errorf("%w: dates not strictly newest first at %s", ErrParse, s.Dates[i].Format(time.DateOnly))
		}
	}
	return nil
}
