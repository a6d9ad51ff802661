package qc

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/geoqaqc-cli/internal/dataset"
)

// Pair names the original and replicate columns of a duplicate check.
type Pair struct {
	Original  string `json:"original" yaml:"original"`
	Replicate string `json:"replicate" yaml:"replicate"`
}

// DuplicateRow is one original/replicate pair.
type DuplicateRow struct {
	Original  float64 `json:"original"`
	Replicate float64 `json:"replicate"`
	AbsDiff   float64 `json:"abs_diff"`
	// RelDiff is |y-x| / ((x+y)/2) * 100, nil when x+y is zero.
	RelDiff *float64 `json:"rel_diff_pct"`
}

// Regression summarizes the agreement between originals and replicates.
type Regression struct {
	N           int     `json:"n"`
	Slope       float64 `json:"slope"`
	Intercept   float64 `json:"intercept"`
	R           float64 `json:"r"`
	RSquared    float64 `json:"r_squared"`
	MeanAbsDiff float64 `json:"mean_abs_diff"`
	// MeanRelDiff averages the defined RelDiff values; nil when none is.
	MeanRelDiff *float64 `json:"mean_rel_diff_pct"`
}

// DuplicateResult is the outcome of a duplicate-pair precision check.
type DuplicateResult struct {
	Regression Regression     `json:"regression"`
	Rows       []DuplicateRow `json:"rows"`
}

// Duplicates regresses replicate values on original values and computes the
// absolute and relative differences of every pair.
func Duplicates(ds *dataset.Dataset, cols Pair, opt dataset.Options) (*DuplicateResult, error) {
	num, err := dataset.CoerceNumeric(ds, opt, cols.Original, cols.Replicate)
	if err != nil {
		return nil, fmt.Errorf("duplicates: %w", err)
	}
	num, err = dataset.DropIncomplete(num, cols.Original, cols.Replicate)
	if err != nil {
		return nil, fmt.Errorf("duplicates: %w", err)
	}
	if num.Len() == 0 {
		return nil, fmt.Errorf("duplicates: %w in columns %q/%q", ErrEmptyDataset, cols.Original, cols.Replicate)
	}
	x, _ := num.Floats(cols.Original)
	y, _ := num.Floats(cols.Replicate)

	slope, intercept, err := FitLinear(x, y)
	if err != nil {
		return nil, fmt.Errorf("duplicates: %w", err)
	}
	r, err := Pearson(x, y)
	if err != nil {
		return nil, fmt.Errorf("duplicates: %w", err)
	}

	res := &DuplicateResult{Rows: make([]DuplicateRow, len(x))}
	var sumAbs, sumRel float64
	var nRel int
	for i := range x {
		row := DuplicateRow{Original: x[i], Replicate: y[i], AbsDiff: math.Abs(y[i] - x[i])}
		if rel, ok := RelativeDifference(x[i], y[i]); ok {
			row.RelDiff = &rel
			sumRel += rel
			nRel++
		}
		sumAbs += row.AbsDiff
		res.Rows[i] = row
	}
	res.Regression = Regression{
		N:           len(x),
		Slope:       slope,
		Intercept:   intercept,
		R:           r,
		RSquared:    r * r,
		MeanAbsDiff: sumAbs / float64(len(x)),
	}
	if nRel > 0 {
		m := sumRel / float64(nRel)
		res.Regression.MeanRelDiff = &m
	}
	return res, nil
}

// RelativeDifference returns |y-x| as a percentage of the pair mean. It is
// undefined when x+y is zero.
func RelativeDifference(x, y float64) (float64, bool) {
	if x+y == 0 {
		return 0, false
	}
	return math.Abs(y-x) / ((x + y) / 2) * 100, true
}
