package dataset

import (
	"math"
	"strconv"
	"strings"
)

// CoerceNumeric returns a copy of ds in which every cell of the named columns
// is either a Number or Missing. Text that does not parse as a finite number
// becomes Missing; it never fails the call.
func CoerceNumeric(ds *Dataset, opt Options, columns ...string) (*Dataset, error) {
	idxs, err := resolve(ds, columns)
	if err != nil {
		return nil, err
	}
	out := ds.clone()
	for _, row := range out.Rows {
		for _, j := range idxs {
			c := row[j]
			switch c.Kind {
			case Number:
				if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
					row[j] = MissingCell()
				}
			case Text:
				if x, ok := ParseNumber(c.Text, opt); ok {
					row[j] = NumberCell(x)
				} else {
					row[j] = MissingCell()
				}
			}
		}
	}
	return out, nil
}

// DropIncomplete returns a copy of ds without the rows that hold a missing
// cell in any of the named columns.
func DropIncomplete(ds *Dataset, columns ...string) (*Dataset, error) {
	idxs, err := resolve(ds, columns)
	if err != nil {
		return nil, err
	}
	out := &Dataset{Columns: append([]string(nil), ds.Columns...), Warnings: append([]string(nil), ds.Warnings...)}
	for _, row := range ds.Rows {
		keep := true
		for _, j := range idxs {
			if row[j].IsMissing() {
				keep = false
				break
			}
		}
		if keep {
			out.Rows = append(out.Rows, append([]Cell(nil), row...))
		}
	}
	return out, nil
}

func resolve(ds *Dataset, columns []string) ([]int, error) {
	idxs := make([]int, 0, len(columns))
	for _, name := range columns {
		idx, ok := ds.Index(name)
		if !ok {
			return nil, unknownColumn(ds, name)
		}
		idxs = append(idxs, idx)
	}
	return idxs, nil
}

// ParseNumber reads a locale-formatted number. Non-breaking spaces count as
// plain spaces. Units and signs such as "%" or "<" make the text non-numeric.
// With DecimalSeparator 0 the separator is guessed from the last ',' or '.'.
func ParseNumber(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0:
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou != 0 && thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		if strings.Contains(raw, ".") {
			return 0, false
		}
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
