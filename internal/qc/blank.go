package qc

import (
	"fmt"

	"github.com/KaramelBytes/geoqaqc-cli/internal/dataset"
)

// LODMultiplier is the number of blank standard deviations added to the blank
// mean to estimate the limit of detection.
const LODMultiplier = 3.0

// BlankRow is one measured blank.
type BlankRow struct {
	ID     string  `json:"id"`
	Value  float64 `json:"value"`
	Status Status  `json:"status"`
}

// BlankResult is the outcome of a blank contamination check.
type BlankResult struct {
	Summary  Summary    `json:"summary"`
	LOD      float64    `json:"lod"`
	Elevated int        `json:"elevated"`
	Rows     []BlankRow `json:"rows"`
}

// Blank estimates the limit of detection from a blank series and flags the
// blanks above it.
func Blank(ds *dataset.Dataset, cols Columns, opt dataset.Options) (*BlankResult, error) {
	ms, err := measurements(ds, cols, opt)
	if err != nil {
		return nil, fmt.Errorf("blank: %w", err)
	}
	sum, err := Summarize(values(ms))
	if err != nil {
		return nil, fmt.Errorf("blank: %w", err)
	}
	res := &BlankResult{
		Summary: sum,
		LOD:     sum.Mean + LODMultiplier*sum.StdDev,
		Rows:    make([]BlankRow, len(ms)),
	}
	for i, m := range ms {
		st := ClassifyBlank(m.value, res.LOD)
		if st.Failed() {
			res.Elevated++
		}
		res.Rows[i] = BlankRow{ID: m.id, Value: m.value, Status: st}
	}
	return res, nil
}
