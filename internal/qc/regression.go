package qc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// FitLinear fits y = slope*x + intercept by ordinary least squares.
func FitLinear(x, y []float64) (slope, intercept float64, err error) {
	if len(x) != len(y) {
		return 0, 0, fmt.Errorf("%w: %d x values for %d y values", ErrInsufficientData, len(x), len(y))
	}
	if distinct(x) < 2 {
		return 0, 0, fmt.Errorf("%w: need at least 2 distinct x values", ErrInsufficientData)
	}
	intercept, slope = stat.LinearRegression(x, y, nil, false)
	return slope, intercept, nil
}

// Pearson returns the correlation coefficient of x and y.
func Pearson(x, y []float64) (float64, error) {
	if len(x) != len(y) || len(x) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 pairs", ErrUndefinedCorrelation)
	}
	if distinct(x) < 2 || distinct(y) < 2 {
		return 0, ErrUndefinedCorrelation
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0, ErrUndefinedCorrelation
	}
	return math.Max(-1, math.Min(1, r)), nil
}

// distinct counts unique values, stopping once a second one is seen.
func distinct(xs []float64) int {
	seen := make(map[float64]struct{}, len(xs))
	for _, v := range xs {
		seen[v] = struct{}{}
		if len(seen) > 1 {
			return len(seen)
		}
	}
	return len(seen)
}
