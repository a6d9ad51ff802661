package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/KaramelBytes/geoqaqc-cli/internal/qc"
)

// Derived column names written next to the selected input columns.
const (
	ColDeviation = "Écart (%)"
	ColZScore    = "Z-score"
	ColStatus    = "Statut"
	ColAbsDiff   = "Diff. Abs."
	ColRelDiff   = "Diff. Rel. (%)"
)

// Value is one exported cell. Numbers keep full precision until formatted.
type Value struct {
	text  string
	num   float64
	isNum bool
}

func Text(s string) Value { return Value{text: s} }
func Num(f float64) Value { return Value{num: f, isNum: true} }
func Empty() Value        { return Value{} }

// OptNum maps a nil pointer to an empty cell.
func OptNum(f *float64) Value {
	if f == nil {
		return Empty()
	}
	return Num(*f)
}

// Format renders the cell with the given number of decimals.
func (v Value) Format(precision int) string {
	if !v.isNum {
		return v.text
	}
	if precision < 0 {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return strconv.FormatFloat(v.num, 'f', precision, 64)
}

// Table is a results table ready for display or export.
type Table struct {
	Columns []string
	Rows    [][]Value
}

// CRMTable lays out CRM results under the selected column names.
func CRMTable(res *qc.CRMResult, cols qc.Columns) Table {
	t := Table{Columns: []string{cols.ID, cols.Value, ColDeviation}}
	if res.HasZScores() {
		t.Columns = append(t.Columns, ColZScore)
	}
	t.Columns = append(t.Columns, ColStatus)
	for _, r := range res.Rows {
		row := []Value{Text(r.ID), Num(r.Value), Num(r.Deviation)}
		if res.HasZScores() {
			row = append(row, OptNum(r.ZScore))
		}
		row = append(row, Text(r.Status.Label()))
		t.Rows = append(t.Rows, row)
	}
	return t
}

// BlankTable lays out blank results under the selected column names.
func BlankTable(res *qc.BlankResult, cols qc.Columns) Table {
	t := Table{Columns: []string{cols.ID, cols.Value, ColStatus}}
	for _, r := range res.Rows {
		t.Rows = append(t.Rows, []Value{Text(r.ID), Num(r.Value), Text(r.Status.Label())})
	}
	return t
}

// DuplicateTable lays out duplicate-pair results under the selected column names.
func DuplicateTable(res *qc.DuplicateResult, cols qc.Pair) Table {
	t := Table{Columns: []string{cols.Original, cols.Replicate, ColAbsDiff, ColRelDiff}}
	for _, r := range res.Rows {
		t.Rows = append(t.Rows, []Value{Num(r.Original), Num(r.Replicate), Num(r.AbsDiff), OptNum(r.RelDiff)})
	}
	return t
}

// WriteCSV writes the table as UTF-8 CSV with a header row.
func (t Table) WriteCSV(w io.Writer, precision int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	rec := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j := range rec {
			rec[j] = ""
			if j < len(row) {
				rec[j] = row[j].Format(precision)
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
