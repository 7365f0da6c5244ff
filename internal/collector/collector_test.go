package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ReturnScope/internal/model"
)

func TestCollector_Collect(t *testing.T) {
	c := NewCollector(&MockFetcher{Days: 50}, 2020)
	s, err := c.Collect(context.Background(), "MOCK")
	require.NoError(t, err)
	require.Equal(t, 50, s.Len())
	require.Equal(t, "MOCK", s.Symbol)
}

func TestCollector_PropagatesFetchError(t *testing.T) {
	down := fmt.Errorf("%w: connection refused", ErrFetch)
	c := NewCollector(&MockFetcher{Errors: map[string]error{"GS": down}}, 2020)

	_, err := c.Collect(context.Background(), "GS")
	require.ErrorIs(t, err, ErrFetch)
	require.Contains(t, err.Error(), "mock")
}

func TestCollector_RejectsInvalidSeries(t *testing.T) {
	day := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)
	bad := &model.PriceSeries{
		Symbol: "BAD",
		Dates:  []time.Time{day, day.AddDate(0, 0, -1)},
		Prices: []float64{10, 0},
	}
	c := NewCollector(&MockFetcher{Series: map[string]*model.PriceSeries{"BAD": bad}}, 2020)

	_, err := c.Collect(context.Background(), "BAD")
	require.ErrorIs(t, err, ErrParse)
}

func TestValidate(t *testing.T) {
	d0 := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)
	d1 := d0.AddDate(0, 0, -1)

	tests := []struct {
		name   string
		series *model.PriceSeries
		ok     bool
	}{
		{"valid", &model.PriceSeries{Dates: []time.Time{d0, d1}, Prices: []float64{2, 1}}, true},
		{"nil", nil, false},
		{"empty", &model.PriceSeries{}, false},
		{"misaligned", &model.PriceSeries{Dates: []time.Time{d0}, Prices: []float64{2, 1}}, false},
		{"closes misaligned", &model.PriceSeries{Dates: []time.Time{d0, d1}, Prices: []float64{2, 1}, Closes: []float64{2}}, false},
		{"oldest first", &model.PriceSeries{Dates: []time.Time{d1, d0}, Prices: []float64{2, 1}}, false},
		{"duplicate date", &model.PriceSeries{Dates: []time.Time{d0, d0}, Prices: []float64{2, 1}}, false},
		{"negative price", &model.PriceSeries{Dates: []time.Time{d0, d1}, Prices: []float64{2, -1}}, false},
		{"nan price", &model.PriceSeries{Dates: []time.Time{d0, d1}, Prices: []float64{math.NaN(), 1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.series)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, ErrParse), "got %v", err)
		})
	}
}

func TestGenerateMockSeries(t *testing.T) {
	last := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	s := GenerateMockSeries("M", 50, 400, last)
	require.NoError(t, Validate(s))
	require.Equal(t, last, s.Newest())
	require.Equal(t, last.AddDate(0, 0, -399), s.Oldest())
}
