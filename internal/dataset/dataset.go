package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Kind tags the content of a Cell.
type Kind int

const (
	Missing Kind = iota
	Text
	Number
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	default:
		return "missing"
	}
}

// Cell is a single table value: raw text, a parsed number, or nothing.
type Cell struct {
	Kind Kind
	Text string
	Num  float64
}

// IsMissing reports whether the cell carries no value.
func (c Cell) IsMissing() bool { return c.Kind == Missing }

// String renders the cell the way it would appear in the source file.
func (c Cell) String() string {
	switch c.Kind {
	case Number:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case Text:
		return c.Text
	default:
		return ""
	}
}

// TextCell and NumberCell are small constructors used by loaders and tests.
func TextCell(s string) Cell    { return Cell{Kind: Text, Text: s} }
func NumberCell(f float64) Cell { return Cell{Kind: Number, Num: f} }
func MissingCell() Cell         { return Cell{} }

// Dataset is a rectangular table of named columns. Every row holds exactly
// len(Columns) cells.
type Dataset struct {
	Columns  []string
	Rows     [][]Cell
	Warnings []string
}

// Options controls how delimited text is tokenized and how numbers are read.
type Options struct {
	// Delimiter for CSV. If 0, sniffs among ',', ';', '\t' from the header line.
	Delimiter rune
	// DecimalSeparator used by CoerceNumeric. If 0, auto-detect per value.
	DecimalSeparator rune
	// ThousandsSeparator is stripped before parsing when set.
	ThousandsSeparator rune
}

// DefaultOptions returns comma-delimited, dot-decimal options.
func DefaultOptions() Options {
	return Options{Delimiter: ',', DecimalSeparator: '.'}
}

// LoadString parses delimited text already held in memory, e.g. pasted data.
func LoadString(text string, opt Options) (*Dataset, error) {
	return Load(strings.NewReader(text), opt)
}

// Load reads a header row and data rows from r. Short rows are padded with
// missing cells and extra trailing fields are dropped; both are noted in
// Dataset.Warnings.
func Load(r io.Reader, opt Options) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Line: 0, Err: fmt.Errorf("read input: %w", err)}
	}
	raw = bytes.TrimPrefix(raw, []byte("\ufeff"))
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &ParseError{Line: 1, Err: errors.New("empty input")}
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(raw)
	}
	if !validDelimiter(delim) {
		return nil, &ParseError{Line: 0, Err: fmt.Errorf("unsupported delimiter %q", delim)}
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.FieldsPerRecord = -1
	cr.Comma = delim
	// with a tab delimiter, trimming would swallow empty cells; Load trims each cell anyway
	cr.TrimLeadingSpace = delim != '\t'

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Line: 1, Err: errors.New("missing header row")}
		}
		return nil, &ParseError{Line: 1, Err: err}
	}
	ds := &Dataset{Columns: normalizeHeader(header)}
	ncol := len(ds.Columns)
	var short, long int

	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, &ParseError{Line: line, Err: err}
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" && ncol > 1 {
			// blank line with whitespace only
			continue
		}
		switch {
		case len(rec) < ncol:
			short++
		case len(rec) > ncol:
			long++
		}
		row := make([]Cell, ncol)
		for j := 0; j < ncol && j < len(rec); j++ {
			v := strings.TrimSpace(rec[j])
			if v == "" {
				continue
			}
			row[j] = TextCell(v)
		}
		ds.Rows = append(ds.Rows, row)
	}
	if short > 0 {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("%d row(s) had fewer than %d fields; padded with missing values", short, ncol))
	}
	if long > 0 {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("%d row(s) had more than %d fields; extra fields ignored", long, ncol))
	}
	return ds, nil
}

// Len returns the number of data rows.
func (d *Dataset) Len() int { return len(d.Rows) }

// Index returns the position of the named column.
func (d *Dataset) Index(name string) (int, bool) {
	for i, c := range d.Columns {
		if c == name {
			return i, true
		}
	}
	// tolerate surrounding whitespace and case differences in user input
	want := strings.ToLower(strings.TrimSpace(name))
	for i, c := range d.Columns {
		if strings.ToLower(c) == want {
			return i, true
		}
	}
	return -1, false
}

// Column returns the cells of the named column in row order.
func (d *Dataset) Column(name string) ([]Cell, error) {
	idx, ok := d.Index(name)
	if !ok {
		return nil, unknownColumn(d, name)
	}
	out := make([]Cell, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Floats returns the numeric values of a column, skipping non-numeric cells.
func (d *Dataset) Floats(name string) ([]float64, error) {
	cells, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(cells))
	for _, c := range cells {
		if c.Kind == Number {
			out = append(out, c.Num)
		}
	}
	return out, nil
}

// Head returns a copy holding at most the first n rows.
func (d *Dataset) Head(n int) *Dataset {
	if n < 0 || n > len(d.Rows) {
		n = len(d.Rows)
	}
	return &Dataset{Columns: append([]string(nil), d.Columns...), Rows: cloneRows(d.Rows[:n])}
}

func (d *Dataset) clone() *Dataset {
	return &Dataset{
		Columns:  append([]string(nil), d.Columns...),
		Rows:     cloneRows(d.Rows),
		Warnings: append([]string(nil), d.Warnings...),
	}
}

func cloneRows(rows [][]Cell) [][]Cell {
	out := make([][]Cell, len(rows))
	for i, r := range rows {
		out[i] = append([]Cell(nil), r...)
	}
	return out
}

func normalizeHeader(header []string) []string {
	cols := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		cols[i] = name
	}
	return cols
}

// ParseDelimiter maps user-facing delimiter names onto a rune.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "\t", `\t`, "tab":
		return '\t', nil
	case "", "auto":
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %s (use ','|';'|'tab')", s)
	}
}

func validDelimiter(r rune) bool { return r == ',' || r == ';' || r == '\t' }

// sniffDelimiter picks the most frequent candidate in the header line,
// ignoring quoted text. Ties prefer ';' then tab over ','.
func sniffDelimiter(raw []byte) rune {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}
	counts := map[rune]int{}
	quoted := false
	for _, r := range string(line) {
		switch {
		case r == '"':
			quoted = !quoted
		case !quoted && (r == ',' || r == ';' || r == '\t'):
			counts[r]++
		}
	}
	best, bestN := ',', 0
	for _, c := range []rune{';', '\t', ','} {
		if n := counts[c]; n > bestN {
			best, bestN = c, n
		}
	}
	return best
}
