package calculator

import (
	"errors"
	"fmt"
	"math"
)

// Trading-day conventions.
const (
	TradingDaysPerMonth   = 21
	TradingDaysPerQuarter = 63
	TradingDaysPerYear    = 252
)

var (
	// ErrDegenerateInput reports input no statistic can be computed from:
	// a window that does not fit the series, a non-positive price, a constant series.
	ErrDegenerateInput = errors.New("degenerate input")
	// ErrShapeMismatch reports paired series of different lengths.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// LogReturns computes the n-day trailing log return for each index of a
// newest-first price series: R[i] = ln(P[i] / P[i+n]).
// When len(prices) == n the result is empty.
func LogReturns(prices []float64, n int) ([]float64, error) {
	if err := checkWindow(prices, n); err != nil {
		return nil, err
	}
	out := make([]float64, len(prices)-n)
	for i := range out {
		out[i] = math.Log(prices[i] / prices[i+n])
	}
	return out, nil
}

// PercentReturns computes the n-day trailing percent return for each index of
// a newest-first price series: R[i] = (P[i] - P[i+n]) / P[i+n] * 100.
func PercentReturns(prices []float64, n int) ([]float64, error) {
	if err := checkWindow(prices, n); err != nil {
		return nil, err
	}
	out := make([]float64, len(prices)-n)
	for i := range out {
		out[i] = (prices[i] - prices[i+n]) / prices[i+n] * 100
	}
	return out, nil
}

// MinIndex returns the index of the smallest value, i.e. the largest drawdown
// of a return series.
func MinIndex(values []float64) (int, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: empty series", ErrDegenerateInput)
	}
	idx := 0
	for i, v := range values {
		if v < values[idx] {
			idx = i
		}
	}
	return idx, nil
}

func checkWindow(prices []float64, n int) error {
	if n < 1 {
		return fmt.Errorf("%w: window must be positive, got %d", ErrDegenerateInput, n)
	}
	if n > len(prices) {
		return fmt.Errorf("%w: window %d exceeds series length %d", ErrDegenerateInput, n, len(prices))
	}
	return checkPrices(prices)
}

func checkPrices(prices []float64) error {
	for i, p := range prices {
		if !(p > 0) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: price at index %d is %v", ErrDegenerateInput, i, p)
		}
	}
	return nil
}
