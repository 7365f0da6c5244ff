package calculator

import (
	"fmt"
	"math"
)

// RollingVolatility computes annualized realized volatility over a trailing
// window of `month` days on a newest-first price series:
//
//	V[i] = sqrt(year / month * sum_{j=0}^{month-1} ln(P[i+j] / P[i+j+1])^2)
//
// The result has len(prices) - month elements. Reversing the price order
// changes which direction "trailing" points, so callers must keep newest first.
func RollingVolatility(prices []float64, month, year int) ([]float64, error) {
	if year < 1 {
		return nil, fmt.Errorf("%w: year must be positive, got %d", ErrDegenerateInput, year)
	}
	if err := checkWindow(prices, month); err != nil {
		return nil, err
	}

	out := make([]float64, len(prices)-month)
	if len(out) == 0 {
		return out, nil
	}

	// squared one-day log returns, sq[k] pairs P[k] with P[k+1]
	sq := make([]float64, len(prices)-1)
	for k := range sq {
		r := math.Log(prices[k] / prices[k+1])
		sq[k] = r * r
	}

	scale := float64(year) / float64(month)
	for i := range out {
		sum := 0.0
		for j := 0; j < month; j++ {
			sum += sq[i+j]
		}
		out[i] = math.Sqrt(scale * sum)
	}
	return out, nil
}
