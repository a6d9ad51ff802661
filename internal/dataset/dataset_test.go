package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCommaSeparated(t *testing.T) {
	ds, err := LoadString("id,val\nS1,10\nS2,10.5\nS3,9.8\n", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "val"}, ds.Columns)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, TextCell("10.5"), ds.Rows[1][1])
	assert.Empty(t, ds.Warnings)
}

func TestLoadSniffsDelimiter(t *testing.T) {
	cases := map[string]string{
		"semicolon": "Sample;Au_ppm;Cu_pct\nA1;0,52;1,2\n",
		"tab":       "Sample\tAu_ppm\tCu_pct\nA1\t0.52\t1.2\n",
	}
	for name, text := range cases {
		opt := DefaultOptions()
		opt.Delimiter = 0
		ds, err := LoadString(text, opt)
		require.NoError(t, err, name)
		assert.Len(t, ds.Columns, 3, name)
	}
}

func TestSniffIgnoresQuotedDelimiters(t *testing.T) {
	cases := map[string]rune{
		`"Au, ppm";Cu` + "\n1;2\n":         ';',
		`"Au; ppm",Cu,Ag` + "\n1,2,3\n":    ',',
		"id\t\"a,b\"\tCu\n1\t2\t3\n":       '\t',
		"single\n1\n":                      ',',
		`id;"x, y, z";Cu` + "\nS1;1;2\n":   ';',
		"a;b\n1;2\n":                       ';',
	}
	for header, want := range cases {
		assert.Equal(t, string(want), string(sniffDelimiter([]byte(header))), "header %q", header)
	}

	opt := DefaultOptions()
	opt.Delimiter = 0
	ds, err := LoadString("\"Au, ppm\";Cu\n1,5;2\n", opt)
	require.NoError(t, err)
	assert.Equal(t, []string{"Au, ppm", "Cu"}, ds.Columns)
}

func TestLoadTabKeepsEmptyCells(t *testing.T) {
	opt := DefaultOptions()
	opt.Delimiter = '\t'
	ds, err := LoadString("id\tAu\tCu\nS1\t\t0.5\nS2\t1.2\t\n", opt)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	assert.Equal(t, "S1", ds.Rows[0][0].Text)
	assert.True(t, ds.Rows[0][1].IsMissing(), "Au for S1 should be missing, got %#v", ds.Rows[0][1])
	assert.Equal(t, "0.5", ds.Rows[0][2].Text)
	assert.Equal(t, "1.2", ds.Rows[1][1].Text)
	assert.True(t, ds.Rows[1][2].IsMissing())

	// the same file with the delimiter left to sniffing
	opt.Delimiter = 0
	ds, err = LoadString("id\tAu\tCu\nB1\t\t5\nB2\t0.01\t1\n", opt)
	require.NoError(t, err)
	au, err := CoerceNumeric(ds, opt, "Au")
	require.NoError(t, err)
	kept, err := DropIncomplete(au, "id", "Au")
	require.NoError(t, err)
	require.Equal(t, 1, kept.Len())
	assert.Equal(t, "B2", kept.Rows[0][0].Text)
}

func TestLoadRaggedRowsPadWithMissing(t *testing.T) {
	ds, err := LoadString("a,b,c\n1,2\n4,5,6,7\n", DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	assert.True(t, ds.Rows[0][2].IsMissing(), "short row not padded: %#v", ds.Rows[0])
	require.Len(t, ds.Rows[1], 3)
	assert.Equal(t, "6", ds.Rows[1][2].Text)
	assert.Len(t, ds.Warnings, 2)
}

func TestLoadNormalizesHeader(t *testing.T) {
	ds, err := LoadString("\ufeffa,a,\n1,2,3\n", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a.1", "Unnamed: 2"}, ds.Columns)
}

func TestLoadParseErrors(t *testing.T) {
	inputs := map[string]string{
		"empty":      "",
		"blank":      "  \n\n",
		"bare quote": "a,b\nx\"y,1\n",
	}
	for name, text := range inputs {
		_, err := LoadString(text, DefaultOptions())
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrParse, name)
		var pe *ParseError
		assert.ErrorAs(t, err, &pe, name)
	}
}

func TestParseDelimiter(t *testing.T) {
	cases := map[string]rune{",": ',', ";": ';', "tab": '\t', `\t`: '\t', "semicolon": ';', "": 0}
	for in, want := range cases {
		got, err := ParseDelimiter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDelimiter("|")
	assert.Error(t, err)
}

func TestCoerceThenDrop(t *testing.T) {
	ds, err := LoadString("id,val\nS1,10\nS2,n.d.\nS3,\n,9.5\nS5,<0.01\nS6,NaN\nS7,12.5%\nS8,12.5\n", DefaultOptions())
	require.NoError(t, err)

	num, err := CoerceNumeric(ds, DefaultOptions(), "val")
	require.NoError(t, err)
	// the input dataset must stay untouched
	assert.Equal(t, Text, ds.Rows[0][1].Kind)
	for i, row := range num.Rows {
		assert.Contains(t, []Kind{Number, Missing}, row[1].Kind, "row %d", i)
	}

	kept, err := DropIncomplete(num, "id", "val")
	require.NoError(t, err)
	var ids []string
	for _, row := range kept.Rows {
		ids = append(ids, row[0].Text)
	}
	assert.Equal(t, []string{"S1", "S8"}, ids)

	vals, err := kept.Floats("val")
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 12.5}, vals)
}

func TestCoerceUnknownColumn(t *testing.T) {
	ds, err := LoadString("id,val\nS1,1\n", DefaultOptions())
	require.NoError(t, err)

	_, err = CoerceNumeric(ds, DefaultOptions(), "Au")
	assert.ErrorIs(t, err, ErrUnknownColumn)
	_, err = DropIncomplete(ds, "Au")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestColumnLookupIgnoresCase(t *testing.T) {
	ds, err := LoadString("Sample,Au_ppm\nA,1\n", DefaultOptions())
	require.NoError(t, err)
	idx, ok := ds.Index(" au_ppm ")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestParseNumberLocales(t *testing.T) {
	cases := []struct {
		in   string
		opt  Options
		want float64
		ok   bool
	}{
		{"10.5", DefaultOptions(), 10.5, true},
		{"1,5", DefaultOptions(), 0, false},
		{"1,5", Options{DecimalSeparator: ','}, 1.5, true},
		{"1.000,25", Options{DecimalSeparator: ',', ThousandsSeparator: '.'}, 1000.25, true},
		{"1 000,25", Options{DecimalSeparator: ',', ThousandsSeparator: ' '}, 1000.25, true},
		{"1.000,25", Options{}, 1000.25, true},
		{"2.5e-3", DefaultOptions(), 0.0025, true},
		{"12.5%", DefaultOptions(), 0, false},
		{"Inf", DefaultOptions(), 0, false},
		{"abc", DefaultOptions(), 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in, c.opt)
		require.Equal(t, c.ok, ok, "ParseNumber(%q)", c.in)
		if ok {
			assert.InDelta(t, c.want, got, 1e-12, "ParseNumber(%q)", c.in)
		}
	}
}

func TestHeadCopiesRows(t *testing.T) {
	ds, err := LoadString("a\n1\n2\n3\n", DefaultOptions())
	require.NoError(t, err)

	h := ds.Head(2)
	require.Equal(t, 2, h.Len())
	h.Rows[0][0] = TextCell("changed")
	assert.Equal(t, "1", ds.Rows[0][0].Text, "Head shares row storage with the source")
	assert.Equal(t, "3", ds.Head(10).Rows[2][0].String())
}
