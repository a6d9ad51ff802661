package qc

import (
	"fmt"

	"github.com/KaramelBytes/geoqaqc-cli/internal/dataset"
)

// CRMParams are the certified values a CRM series is checked against.
type CRMParams struct {
	Reference float64
	// ReferenceStdDev enables z-scores when positive and is required by
	// Sigma tolerances.
	ReferenceStdDev float64
	Tolerance       Tolerance
}

// CRMRow is one measured CRM result.
type CRMRow struct {
	ID    string  `json:"id"`
	Value float64 `json:"value"`
	// Deviation is ((value - reference) / reference) * 100.
	Deviation float64  `json:"deviation_pct"`
	ZScore    *float64 `json:"z_score,omitempty"`
	Status    Status   `json:"status"`
}

// CRMResult is the outcome of a CRM recovery check.
type CRMResult struct {
	Summary         Summary   `json:"summary"`
	Reference       float64   `json:"reference"`
	ReferenceStdDev float64   `json:"reference_std_dev"`
	Tolerance       Tolerance `json:"tolerance"`
	Limits          Limits    `json:"limits"`
	// Bias is the percent deviation of the series mean from the reference.
	Bias     float64  `json:"bias_pct"`
	Failures int      `json:"failures"`
	Rows     []CRMRow `json:"rows"`
}

// HasZScores reports whether the rows carry z-scores.
func (r *CRMResult) HasZScores() bool { return r.ReferenceStdDev > 0 }

// CRM checks measured values of a certified reference material against its
// certified value and tolerance.
func CRM(ds *dataset.Dataset, cols Columns, p CRMParams, opt dataset.Options) (*CRMResult, error) {
	ms, err := measurements(ds, cols, opt)
	if err != nil {
		return nil, fmt.Errorf("crm: %w", err)
	}
	sum, err := Summarize(values(ms))
	if err != nil {
		return nil, fmt.Errorf("crm: %w", err)
	}
	if !(p.Reference > 0) {
		return nil, fmt.Errorf("crm: %w (got %g)", ErrInvalidReference, p.Reference)
	}
	lim, err := ComputeLimits(p.Reference, p.Tolerance, p.ReferenceStdDev)
	if err != nil {
		return nil, fmt.Errorf("crm: %w", err)
	}
	res := &CRMResult{
		Summary:         sum,
		Reference:       p.Reference,
		ReferenceStdDev: p.ReferenceStdDev,
		Tolerance:       p.Tolerance,
		Limits:          lim,
		Bias:            (sum.Mean - p.Reference) / p.Reference * 100,
		Rows:            make([]CRMRow, len(ms)),
	}
	for i, m := range ms {
		row := CRMRow{
			ID:        m.id,
			Value:     m.value,
			Deviation: (m.value - p.Reference) / p.Reference * 100,
			Status:    ClassifyCRM(m.value, lim),
		}
		if res.HasZScores() {
			z := (m.value - p.Reference) / p.ReferenceStdDev
			row.ZScore = &z
		}
		if row.Status.Failed() {
			res.Failures++
		}
		res.Rows[i] = row
	}
	return res, nil
}
