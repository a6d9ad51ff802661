package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/geoqaqc-cli/internal/dataset"
	"github.com/KaramelBytes/geoqaqc-cli/internal/qc"
)

// Header identifies the analysis a report belongs to.
type Header struct {
	Title  string
	Source string
	RunID  string
	Notes  []string
}

// CRMMarkdown renders the CRM summary block followed by the detailed table.
func CRMMarkdown(h Header, res *qc.CRMResult, cols qc.Columns, precision int) string {
	var b strings.Builder
	writeHeader(&b, "CRM CONTROL", h)
	b.WriteString("[PARAMETERS]\n")
	b.WriteString(fmt.Sprintf("- Reference value: %s\n", f(res.Reference, precision)))
	if res.ReferenceStdDev > 0 {
		b.WriteString(fmt.Sprintf("- Reference std-dev: %s\n", f(res.ReferenceStdDev, precision)))
	}
	b.WriteString(fmt.Sprintf("- Tolerance: %s\n", res.Tolerance))
	b.WriteString(fmt.Sprintf("- Limits: [%s, %s]\n\n", f(res.Limits.Lower, precision), f(res.Limits.Upper, precision)))
	writeSummary(&b, res.Summary, precision)
	b.WriteString(fmt.Sprintf("- Bias: %.2f%%\n", res.Bias))
	b.WriteString(fmt.Sprintf("- Out of limits: %d/%d\n\n", res.Failures, len(res.Rows)))
	writeTable(&b, CRMTable(res, cols), precision)
	writeNotes(&b, h.Notes)
	return b.String()
}

// BlankMarkdown renders the blank summary block followed by the detailed table.
func BlankMarkdown(h Header, res *qc.BlankResult, cols qc.Columns, precision int) string {
	var b strings.Builder
	writeHeader(&b, "BLANK CONTROL", h)
	writeSummary(&b, res.Summary, precision)
	b.WriteString(fmt.Sprintf("- Estimated LOD (mean + %g·SD): %s\n", qc.LODMultiplier, f(res.LOD, precision)))
	b.WriteString(fmt.Sprintf("- Elevated: %d/%d\n\n", res.Elevated, len(res.Rows)))
	writeTable(&b, BlankTable(res, cols), precision)
	writeNotes(&b, h.Notes)
	return b.String()
}

// DuplicateMarkdown renders the regression block followed by the detailed table.
func DuplicateMarkdown(h Header, res *qc.DuplicateResult, cols qc.Pair, precision int) string {
	reg := res.Regression
	var b strings.Builder
	writeHeader(&b, "DUPLICATE PAIRS", h)
	b.WriteString("[REGRESSION]\n")
	b.WriteString(fmt.Sprintf("- Pairs: %d\n", reg.N))
	b.WriteString(fmt.Sprintf("- Equation: %s\n", Equation(reg, precision)))
	b.WriteString(fmt.Sprintf("- r: %s\n", f(reg.R, precision)))
	b.WriteString(fmt.Sprintf("- R²: %s\n", f(reg.RSquared, precision)))
	b.WriteString(fmt.Sprintf("- Mean absolute difference: %s\n", f(reg.MeanAbsDiff, precision)))
	if reg.MeanRelDiff != nil {
		b.WriteString(fmt.Sprintf("- Mean relative difference: %.2f%%\n\n", *reg.MeanRelDiff))
	} else {
		b.WriteString("- Mean relative difference: n/a\n\n")
	}
	writeTable(&b, DuplicateTable(res, cols), precision)
	writeNotes(&b, h.Notes)
	return b.String()
}

// PreviewMarkdown describes a freshly loaded dataset: its shape, its columns
// and the first n rows as raw text.
func PreviewMarkdown(source string, ds *dataset.Dataset, n int) string {
	var b strings.Builder
	b.WriteString("[DATASET]\n")
	if source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", source))
	}
	b.WriteString(fmt.Sprintf("Shape: %d rows × %d columns\n\n", ds.Len(), len(ds.Columns)))
	b.WriteString("[COLUMNS]\n")
	for i, c := range ds.Columns {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, c))
	}
	b.WriteString("\n")
	head := ds.Head(n)
	t := Table{Columns: head.Columns}
	for _, row := range head.Rows {
		vals := make([]Value, len(row))
		for i, c := range row {
			vals[i] = Text(c.String())
		}
		t.Rows = append(t.Rows, vals)
	}
	writeSection(&b, "SAMPLE ROWS", t, -1)
	writeNotes(&b, ds.Warnings)
	return b.String()
}

// Equation formats the fitted line as "y = a·x + b".
func Equation(reg qc.Regression, precision int) string {
	sign, icpt := "+", reg.Intercept
	if icpt < 0 {
		sign, icpt = "-", -icpt
	}
	return fmt.Sprintf("y = %sx %s %s", f(reg.Slope, precision), sign, f(icpt, precision))
}

func writeHeader(b *strings.Builder, kind string, h Header) {
	b.WriteString("[" + kind + "]\n")
	if h.Title != "" {
		b.WriteString(fmt.Sprintf("Check: %s\n", h.Title))
	}
	if h.Source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", h.Source))
	}
	if h.RunID != "" {
		b.WriteString(fmt.Sprintf("Run: %s\n", h.RunID))
	}
	b.WriteString("\n")
}

func writeSummary(b *strings.Builder, s qc.Summary, precision int) {
	b.WriteString("[STATISTICS]\n")
	b.WriteString(fmt.Sprintf("- N: %d\n", s.N))
	b.WriteString(fmt.Sprintf("- Mean: %s\n", f(s.Mean, precision)))
	b.WriteString(fmt.Sprintf("- Std-dev: %s\n", f(s.StdDev, precision)))
	b.WriteString(fmt.Sprintf("- Min: %s\n", f(s.Min, precision)))
	b.WriteString(fmt.Sprintf("- Max: %s\n", f(s.Max, precision)))
}

func writeTable(b *strings.Builder, t Table, precision int) {
	writeSection(b, "RESULTS", t, precision)
}

func writeSection(b *strings.Builder, name string, t Table, precision int) {
	if len(t.Rows) == 0 {
		return
	}
	b.WriteString("[" + name + "]\n")
	b.WriteString("| ")
	b.WriteString(strings.Join(mapStrings(t.Columns, safeVal), " | "))
	b.WriteString(" |\n|")
	b.WriteString(strings.Repeat(" --- |", len(t.Columns)))
	b.WriteString("\n")
	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i := range cells {
			if i < len(row) {
				cells[i] = safeVal(row[i].Format(precision))
			}
		}
		b.WriteString("| ")
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString(" |\n")
	}
}

func writeNotes(b *strings.Builder, notes []string) {
	if len(notes) == 0 {
		return
	}
	b.WriteString("\n[NOTES]\n")
	for _, n := range notes {
		b.WriteString("- ")
		b.WriteString(n)
		b.WriteString("\n")
	}
}

func f(v float64, precision int) string { return Num(v).Format(precision) }

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

func mapStrings(in []string, fn func(string) string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fn(s)
	}
	return out
}
