package qc

import "fmt"

// Status is the per-row classification of a QC check.
type Status int

const (
	OK Status = iota
	OutOfLimits
	Elevated
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case OutOfLimits:
		return "OutOfLimits"
	case Elevated:
		return "Elevated"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Label is the display text written to exported tables.
func (s Status) Label() string {
	switch s {
	case OutOfLimits:
		return "Hors limites"
	case Elevated:
		return "Élevé"
	default:
		return "OK"
	}
}

// Failed reports whether the row did not pass its check.
func (s Status) Failed() bool { return s != OK }

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ClassifyCRM returns OK when v lies within the limits, bounds included.
func ClassifyCRM(v float64, l Limits) Status {
	if l.Contains(v) {
		return OK
	}
	return OutOfLimits
}

// ClassifyBlank returns OK when v does not exceed the detection limit.
func ClassifyBlank(v, lod float64) Status {
	if v <= lod {
		return OK
	}
	return Elevated
}
