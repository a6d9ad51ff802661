package qc

import "errors"

var (
	// ErrEmptyDataset indicates no numeric rows survived coercion.
	ErrEmptyDataset = errors.New("no valid numeric data")
	// ErrInvalidTolerance indicates a negative tolerance, or a standard
	// deviation multiple requested without a positive reference deviation.
	ErrInvalidTolerance = errors.New("invalid tolerance")
	// ErrInvalidReference indicates a non-positive CRM reference value.
	ErrInvalidReference = errors.New("reference value must be greater than zero")
	// ErrInsufficientData indicates fewer than two distinct x values.
	ErrInsufficientData = errors.New("insufficient data for regression")
	// ErrUndefinedCorrelation indicates a zero-variance series.
	ErrUndefinedCorrelation = errors.New("correlation undefined for a constant series")
)
