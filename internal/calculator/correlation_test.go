package calculator

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestCorrelation_PerfectlyLinear(t *testing.T) {
	c, err := Correlation([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	require.NoError(t, err)
	require.InDelta(t, 1.0, c, 1e-12)

	c, err = Correlation([]float64{1, 2, 3, 4}, []float64{8, 6, 4, 2})
	require.NoError(t, err)
	require.InDelta(t, -1.0, c, 1e-12)
}

func TestCorrelation_Symmetric(t *testing.T) {
	x := []float64{0.3, -1.2, 2.5, 0.9, -0.4, 1.1}
	y := []float64{1.0, 0.2, 1.7, -0.5, 0.0, 2.2}

	xy, err := Correlation(x, y)
	require.NoError(t, err)
	yx, err := Correlation(y, x)
	require.NoError(t, err)
	require.InDelta(t, xy, yx, 1e-15)

	// population and sample normalisations cancel, so gonum must agree
	require.InDelta(t, stat.Correlation(x, y, nil), xy, 1e-12)
}

func TestCorrelation_Self(t *testing.T) {
	x := []float64{4.2, 1.1, 3.3, 9.8, 0.5}
	c, err := Correlation(x, x)
	require.NoError(t, err)
	require.InDelta(t, 1.0, c, 1e-12)
}

func TestCorrelation_Errors(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want error
	}{
		{"length mismatch", []float64{1, 2, 3}, []float64{1, 2}, ErrShapeMismatch},
		{"constant x", []float64{5, 5, 5, 5}, []float64{1, 2, 3, 4}, ErrDegenerateInput},
		{"constant y", []float64{1, 2, 3, 4}, []float64{0.1, 0.1, 0.1, 0.1}, ErrDegenerateInput},
		{"single point", []float64{1}, []float64{2}, ErrDegenerateInput},
		{"empty", nil, nil, ErrDegenerateInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Correlation(tt.x, tt.y)
			require.ErrorIs(t, err, tt.want)
		})
	}
}
