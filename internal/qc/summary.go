package qc

import (
	"fmt"

	"github.com/KaramelBytes/geoqaqc-cli/internal/dataset"
	"github.com/montanaflynn/stats"
)

// Summary holds descriptive statistics of a measured series. StdDev is the
// population standard deviation (divides by N).
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes the descriptive statistics of values.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrEmptyDataset
	}
	data := stats.Float64Data(values)
	mean, err := stats.Mean(data)
	if err != nil {
		return Summary{}, fmt.Errorf("mean: %w", err)
	}
	sd, err := stats.StandardDeviationPopulation(data)
	if err != nil {
		return Summary{}, fmt.Errorf("standard deviation: %w", err)
	}
	lo, err := stats.Min(data)
	if err != nil {
		return Summary{}, fmt.Errorf("min: %w", err)
	}
	hi, err := stats.Max(data)
	if err != nil {
		return Summary{}, fmt.Errorf("max: %w", err)
	}
	return Summary{N: len(values), Mean: mean, StdDev: sd, Min: lo, Max: hi}, nil
}

// Columns names the identifier and measured-value columns of a check.
type Columns struct {
	ID    string `json:"id" yaml:"id"`
	Value string `json:"value" yaml:"value"`
}

type measurement struct {
	id    string
	value float64
}

// measurements coerces the value column, drops rows missing either column and
// returns what is left in row order.
func measurements(ds *dataset.Dataset, cols Columns, opt dataset.Options) ([]measurement, error) {
	num, err := dataset.CoerceNumeric(ds, opt, cols.Value)
	if err != nil {
		return nil, err
	}
	num, err = dataset.DropIncomplete(num, cols.ID, cols.Value)
	if err != nil {
		return nil, err
	}
	if num.Len() == 0 {
		return nil, fmt.Errorf("%w in column %q", ErrEmptyDataset, cols.Value)
	}
	idIdx, _ := num.Index(cols.ID)
	valIdx, _ := num.Index(cols.Value)
	out := make([]measurement, num.Len())
	for i, row := range num.Rows {
		out[i] = measurement{id: row[idIdx].String(), value: row[valIdx].Num}
	}
	return out, nil
}

func values(ms []measurement) []float64 {
	out := make([]float64, len(ms))
	for i, m := range ms {
		out[i] = m.value
	}
	return out
}
