package calculator

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"ReturnScope/internal/model"
)

// DefaultBins is the histogram resolution used for daily return distributions.
const DefaultBins = 100

// Describe summarises a return sample: mean, sample standard deviation,
// excess kurtosis, and an equal-width histogram normalised to a density with
// the fitted Gaussian evaluated at each bin centre.
// A positive excess kurtosis marks the sample as leptokurtic.
func Describe(values []float64, bins int) (*model.Distribution, error) {
	if bins < 1 {
		return nil, fmt.Errorf("%w: bins must be positive, got %d", ErrDegenerateInput, bins)
	}
	if len(values) < 4 {
		return nil, fmt.Errorf("%w: need at least 4 values, got %d", ErrDegenerateInput, len(values))
	}
	if constant(values) {
		return nil, fmt.Errorf("%w: zero variance series", ErrDegenerateInput)
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]

	mean, sd := stat.MeanStdDev(sorted, nil)
	d := &model.Distribution{
		N:              len(values),
		Mean:           mean,
		StdDev:         sd,
		ExcessKurtosis: stat.ExKurtosis(sorted, nil),
		Min:            lo,
		Max:            hi,
	}
	d.Leptokurtic = d.ExcessKurtosis > 0

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// Histogram wants the maximum strictly inside the last bin.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	for i := 0; i < bins; i++ {
		if !(dividers[i+1] > dividers[i]) {
			return nil, fmt.Errorf("%w: spread %g too small for %d bins", ErrDegenerateInput, hi-lo, bins)
		}
	}
	counts := stat.Histogram(nil, dividers, sorted, nil)

	gauss := distuv.Normal{Mu: mean, Sigma: sd}
	n := float64(len(values))
	d.Histogram = make([]model.HistogramBin, bins)
	for i := range d.Histogram {
		width := dividers[i+1] - dividers[i]
		d.Histogram[i] = model.HistogramBin{
			Lower:    dividers[i],
			Upper:    dividers[i+1],
			Count:    int(counts[i]),
			Density:  counts[i] / (n * width),
			Gaussian: gauss.Prob((dividers[i] + dividers[i+1]) / 2),
		}
	}
	return d, nil
}
