package calculator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Correlation returns the Pearson correlation coefficient of x and y using
// population standard deviations:
//
//	sum((x - mean(x)) * (y - mean(y))) / (L * stdev(x) * stdev(y))
//
// Mismatched lengths fail with ErrShapeMismatch; fewer than two points or a
// constant series fail with ErrDegenerateInput.
func Correlation(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("%w: len(x)=%d, len(y)=%d", ErrShapeMismatch, len(x), len(y))
	}
	if len(x) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 points, got %d", ErrDegenerateInput, len(x))
	}
	if constant(x) || constant(y) {
		return 0, fmt.Errorf("%w: zero variance series", ErrDegenerateInput)
	}

	meanX, sdX := stat.PopMeanStdDev(x, nil)
	meanY, sdY := stat.PopMeanStdDev(y, nil)
	if sdX == 0 || sdY == 0 {
		return 0, fmt.Errorf("%w: zero variance series", ErrDegenerateInput)
	}

	sum := 0.0
	for i := range x {
		sum += (x[i] - meanX) * (y[i] - meanY)
	}
	r := sum / (float64(len(x)) * sdX * sdY)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, fmt.Errorf("%w: correlation is not finite", ErrDegenerateInput)
	}

	// rounding can push |r| a hair past 1
	return math.Max(-1, math.Min(1, r)), nil
}

func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
