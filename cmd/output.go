package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/geoqaqc-cli/internal/config"
	"github.com/KaramelBytes/geoqaqc-cli/internal/dataset"
	"github.com/KaramelBytes/geoqaqc-cli/internal/logger"
	"github.com/KaramelBytes/geoqaqc-cli/internal/qc"
	"github.com/KaramelBytes/geoqaqc-cli/internal/report"
	"github.com/KaramelBytes/geoqaqc-cli/internal/utils"
)

const (
	formatMarkdown = "markdown"
	formatCSV      = "csv"
	formatJSON     = "json"
)

// errViolations is returned by --fail-on-violation when rows fail QC.
var errViolations = errors.New("QC violations found")

// ioFlags are the input/output flags shared by the check commands.
type ioFlags struct {
	delimiter       string
	decimal         string
	thousands       string
	format          string
	output          string
	chart           string
	precision       int
	failOnViolation bool
}

func (f *ioFlags) register(c *cobra.Command) {
	f.registerInput(c)
	c.Flags().StringVar(&f.format, "format", formatMarkdown, "output format: markdown|csv|json (inferred from --output extension if omitted)")
	c.Flags().StringVarP(&f.output, "output", "o", "", "write the report to this path instead of stdout")
	c.Flags().StringVar(&f.chart, "chart", "", "also render a PNG chart to this path")
	c.Flags().IntVar(&f.precision, "precision", -1, "decimals for exported numbers (default from config)")
	c.Flags().BoolVar(&f.failOnViolation, "fail-on-violation", false, "exit non-zero when any row is out of limits or elevated")
}

func (f *ioFlags) registerInput(c *cobra.Command) {
	c.Flags().StringVar(&f.delimiter, "delimiter", "", "field delimiter: ','|';'|'tab'|'auto' (default from config)")
	c.Flags().StringVar(&f.decimal, "decimal", "", "decimal separator: '.'|','|'auto' (default from config)")
	c.Flags().StringVar(&f.thousands, "thousands", "", "thousands separator: ','|'.'|'space'|'none' (default from config)")
}

// options starts from the configured separators and applies flag overrides.
func (f *ioFlags) options(c *cobra.Command) (dataset.Options, error) {
	opt, err := currentConfig().DatasetOptions()
	if err != nil {
		return opt, err
	}
	if c.Flags().Changed("delimiter") {
		r, err := dataset.ParseDelimiter(f.delimiter)
		if err != nil {
			return opt, fmt.Errorf("unsupported --delimiter: %w", err)
		}
		opt.Delimiter = r
	}
	if c.Flags().Changed("decimal") {
		r, err := parseSeparatorFlag(f.decimal)
		if err != nil {
			return opt, fmt.Errorf("unsupported --decimal: %w", err)
		}
		opt.DecimalSeparator = r
	}
	if c.Flags().Changed("thousands") {
		r, err := parseSeparatorFlag(f.thousands)
		if err != nil {
			return opt, fmt.Errorf("unsupported --thousands: %w", err)
		}
		opt.ThousandsSeparator = r
	}
	if opt.DecimalSeparator != 0 && opt.DecimalSeparator == opt.ThousandsSeparator {
		return opt, fmt.Errorf("decimal and thousands separators must differ")
	}
	return opt, nil
}

func parseSeparatorFlag(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "comma":
		return ',', nil
	case "dot":
		return '.', nil
	}
	return cfgpkg.ParseSeparator(s)
}

func (f *ioFlags) resolvedPrecision() int {
	if f.precision >= 0 {
		return f.precision
	}
	return currentConfig().Precision
}

// resolvedFormat honors an explicit --format, else the --output extension.
func (f *ioFlags) resolvedFormat(c *cobra.Command) (string, error) {
	if c.Flags().Changed("format") {
		return normalizeFormat(f.format)
	}
	return formatFromPath(f.output), nil
}

func normalizeFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return formatMarkdown, nil
	case "csv":
		return formatCSV, nil
	case "json":
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unsupported --format: %s (use markdown|csv|json)", s)
	}
}

func formatFromPath(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".csv":
		return formatCSV
	case ".json":
		return formatJSON
	default:
		return formatMarkdown
	}
}

// loadInput reads path, or stdin for "-", and logs loader warnings.
func loadInput(c *cobra.Command, path string, opt dataset.Options) (*dataset.Dataset, error) {
	rc, err := utils.OpenInput(path, c.InOrStdin())
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	ds, err := dataset.Load(rc, opt)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", displayName(path), err)
	}
	for _, w := range ds.Warnings {
		logger.Warnf("%s: %s", displayName(path), w)
	}
	logger.Debugf("loaded %s: %d rows, %d columns", displayName(path), ds.Len(), len(ds.Columns))
	return ds, nil
}

func displayName(path string) string {
	if path == utils.StdioName {
		return "stdin"
	}
	return path
}

// checkReport bundles every rendering of one QC result.
type checkReport struct {
	Kind       string
	Markdown   func(precision int) string
	Table      report.Table
	JSON       any
	Chart      func(w io.Writer, size report.ChartSize) error
	Violations int
}

func crmReport(h report.Header, res *qc.CRMResult, cols qc.Columns) checkReport {
	return checkReport{
		Kind:       "CRM",
		Markdown:   func(p int) string { return report.CRMMarkdown(h, res, cols, p) },
		Table:      report.CRMTable(res, cols),
		JSON:       jsonEnvelope{Check: h.Title, Source: h.Source, RunID: h.RunID, Result: res},
		Chart:      func(w io.Writer, s report.ChartSize) error { return report.CRMChart(w, res, h.Title, s) },
		Violations: res.Failures,
	}
}

func blankReport(h report.Header, res *qc.BlankResult, cols qc.Columns) checkReport {
	return checkReport{
		Kind:       "blank",
		Markdown:   func(p int) string { return report.BlankMarkdown(h, res, cols, p) },
		Table:      report.BlankTable(res, cols),
		JSON:       jsonEnvelope{Check: h.Title, Source: h.Source, RunID: h.RunID, Result: res},
		Chart:      func(w io.Writer, s report.ChartSize) error { return report.BlankChart(w, res, h.Title, s) },
		Violations: res.Elevated,
	}
}

func duplicateReport(h report.Header, res *qc.DuplicateResult, cols qc.Pair) checkReport {
	return checkReport{
		Kind:     "duplicate",
		Markdown: func(p int) string { return report.DuplicateMarkdown(h, res, cols, p) },
		Table:    report.DuplicateTable(res, cols),
		JSON:     jsonEnvelope{Check: h.Title, Source: h.Source, RunID: h.RunID, Result: res},
		Chart:    func(w io.Writer, s report.ChartSize) error { return report.DuplicateChart(w, res, h.Title, s) },
	}
}

type jsonEnvelope struct {
	Check  string `json:"check,omitempty"`
	Source string `json:"source,omitempty"`
	RunID  string `json:"run_id,omitempty"`
	Result any    `json:"result"`
}

func (r checkReport) encode(format string, precision int) ([]byte, error) {
	switch format {
	case formatCSV:
		var buf bytes.Buffer
		if err := r.Table.WriteCSV(&buf, precision); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatJSON:
		b, err := utils.PrettyJSON(r.JSON)
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	default:
		return []byte(r.Markdown(precision)), nil
	}
}

// emit writes data to stdout or to a file under the configured output_dir.
func emit(c *cobra.Command, output, what string, data []byte) error {
	if output == "" || output == utils.StdioName {
		_, err := c.OutOrStdout().Write(data)
		return err
	}
	path := utils.ResolveOutput(currentConfig().OutputDir, output)
	if err := utils.SafeWriteFile(path, data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(c.OutOrStdout(), "✓ Wrote %s to %s\n", what, path)
	return nil
}

func writeChart(c *cobra.Command, output string, r checkReport) error {
	if output == "" {
		return nil
	}
	cfg := currentConfig()
	var buf bytes.Buffer
	if err := r.Chart(&buf, report.ChartSize{Width: cfg.ChartWidth, Height: cfg.ChartHeight}); err != nil {
		return err
	}
	return emit(c, output, r.Kind+" chart", buf.Bytes())
}

// finish writes the report and chart for one check.
func (f *ioFlags) finish(c *cobra.Command, r checkReport) error {
	format, err := f.resolvedFormat(c)
	if err != nil {
		return err
	}
	data, err := r.encode(format, f.resolvedPrecision())
	if err != nil {
		return err
	}
	if err := emit(c, f.output, r.Kind+" report", data); err != nil {
		return err
	}
	if err := writeChart(c, f.chart, r); err != nil {
		return err
	}
	if f.failOnViolation && r.Violations > 0 {
		return fmt.Errorf("%w: %d row(s) failed the %s check", errViolations, r.Violations, r.Kind)
	}
	return nil
}

// droppedNote reports rows excluded for missing values.
func droppedNote(ds *dataset.Dataset, kept int) []string {
	notes := append([]string(nil), ds.Warnings...)
	if n := ds.Len() - kept; n > 0 {
		notes = append(notes, fmt.Sprintf("%d row(s) skipped: missing or non-numeric values", n))
	}
	return notes
}
