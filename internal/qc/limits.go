package qc

import (
	"fmt"
	"strings"
)

// ToleranceKind selects how control limits are derived from the reference.
type ToleranceKind int

const (
	// Percent bounds are reference*(1±p), with p a fraction (0.10 for 10%).
	Percent ToleranceKind = iota + 1
	// Sigma bounds are reference±k*referenceStdDev.
	Sigma
)

func (k ToleranceKind) String() string {
	switch k {
	case Percent:
		return "percent"
	case Sigma:
		return "sigma"
	default:
		return "unknown"
	}
}

func (k ToleranceKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ToleranceKind) UnmarshalText(b []byte) error {
	v, err := ParseToleranceKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseToleranceKind accepts the names used on the command line and in job files.
func ParseToleranceKind(s string) (ToleranceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "percent", "pct", "%", "percentage":
		return Percent, nil
	case "sigma", "sd", "stddev", "std":
		return Sigma, nil
	default:
		return 0, fmt.Errorf("%w: unknown tolerance type %q (use percent|sigma)", ErrInvalidTolerance, s)
	}
}

// Tolerance is either a fractional percentage or a multiple of the reference
// standard deviation.
type Tolerance struct {
	Kind  ToleranceKind `json:"kind" yaml:"kind"`
	Value float64       `json:"value" yaml:"value"`
}

// Percentage builds a tolerance of p expressed as a fraction.
func Percentage(p float64) Tolerance { return Tolerance{Kind: Percent, Value: p} }

// StdDevMultiple builds a tolerance of k reference standard deviations.
func StdDevMultiple(k float64) Tolerance { return Tolerance{Kind: Sigma, Value: k} }

func (t Tolerance) String() string {
	switch t.Kind {
	case Percent:
		return fmt.Sprintf("±%.2f%%", t.Value*100)
	case Sigma:
		return fmt.Sprintf("±%.1f × SD", t.Value)
	default:
		return "unset"
	}
}

// Limits is a closed acceptance interval.
type Limits struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Contains reports whether Lower <= v <= Upper.
func (l Limits) Contains(v float64) bool { return v >= l.Lower && v <= l.Upper }

// ComputeLimits derives the acceptance interval around reference.
// refStdDev is only consulted for Sigma tolerances, where it must be positive.
func ComputeLimits(reference float64, tol Tolerance, refStdDev float64) (Limits, error) {
	if tol.Value < 0 {
		return Limits{}, fmt.Errorf("%w: negative tolerance %g", ErrInvalidTolerance, tol.Value)
	}
	switch tol.Kind {
	case Percent:
		return Limits{Lower: reference * (1 - tol.Value), Upper: reference * (1 + tol.Value)}, nil
	case Sigma:
		if !(refStdDev > 0) {
			return Limits{}, fmt.Errorf("%w: reference standard deviation must be greater than zero for a standard deviation tolerance", ErrInvalidTolerance)
		}
		d := tol.Value * refStdDev
		return Limits{Lower: reference - d, Upper: reference + d}, nil
	default:
		return Limits{}, fmt.Errorf("%w: tolerance type not set", ErrInvalidTolerance)
	}
}
