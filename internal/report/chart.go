package report

import (
	"errors"
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/geoqaqc-cli/internal/qc"
)

// ChartSize is the PNG canvas in pixels.
type ChartSize struct {
	Width  int
	Height int
}

// DefaultChartSize matches the chart_width/chart_height defaults.
var DefaultChartSize = ChartSize{Width: 1024, Height: 600}

// ErrNothingToPlot is returned when a result carries no rows.
var ErrNothingToPlot = errors.New("nothing to plot")

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color, dashed bool) chart.Style {
	st := chart.Style{StrokeWidth: 1.5, StrokeColor: col}
	if dashed {
		st.StrokeDashArray = []float64{6, 4}
	}
	return st
}

// CRMChart draws a control chart: measured values in sample order against
// the reference value and the acceptance limits.
func CRMChart(w io.Writer, res *qc.CRMResult, title string, size ChartSize) error {
	if len(res.Rows) == 0 {
		return ErrNothingToPlot
	}
	xs, ys := make([]float64, len(res.Rows)), make([]float64, len(res.Rows))
	for i, r := range res.Rows {
		xs[i], ys[i] = float64(i+1), r.Value
	}
	x0, x1 := spanX(xs)
	series := []chart.Series{
		chart.ContinuousSeries{Name: "Measured", XValues: padX(xs), YValues: padY(ys), Style: pointStyle(chart.ColorBlue)},
		hline("Reference", x0, x1, res.Reference, lineStyle(chart.ColorGreen, false)),
		hline("Upper limit", x0, x1, res.Limits.Upper, lineStyle(chart.ColorRed, true)),
		hline("Lower limit", x0, x1, res.Limits.Lower, lineStyle(chart.ColorRed, true)),
	}
	lo, hi := bounds(append(ys, res.Limits.Lower, res.Limits.Upper))
	return render(w, chart.Chart{
		Title:  titleOr(title, "CRM control chart"),
		XAxis:  chart.XAxis{Name: "Sample #", Range: &chart.ContinuousRange{Min: x0, Max: x1}},
		YAxis:  chart.YAxis{Name: "Value", Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		Series: series,
	}, size)
}

// BlankChart draws blank values in sample order against the estimated LOD.
func BlankChart(w io.Writer, res *qc.BlankResult, title string, size ChartSize) error {
	if len(res.Rows) == 0 {
		return ErrNothingToPlot
	}
	xs, ys := make([]float64, len(res.Rows)), make([]float64, len(res.Rows))
	for i, r := range res.Rows {
		xs[i], ys[i] = float64(i+1), r.Value
	}
	x0, x1 := spanX(xs)
	series := []chart.Series{
		chart.ContinuousSeries{Name: "Blank", XValues: padX(xs), YValues: padY(ys), Style: pointStyle(chart.ColorBlue)},
		hline("Mean", x0, x1, res.Summary.Mean, lineStyle(chart.ColorAlternateGray, false)),
		hline(fmt.Sprintf("LOD (mean + %g·SD)", qc.LODMultiplier), x0, x1, res.LOD, lineStyle(chart.ColorOrange, true)),
	}
	lo, hi := bounds(append(ys, res.LOD))
	return render(w, chart.Chart{
		Title:  titleOr(title, "Blank control chart"),
		XAxis:  chart.XAxis{Name: "Sample #", Range: &chart.ContinuousRange{Min: x0, Max: x1}},
		YAxis:  chart.YAxis{Name: "Value", Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		Series: series,
	}, size)
}

// DuplicateChart draws replicate against original with the fitted line and
// the 1:1 line.
func DuplicateChart(w io.Writer, res *qc.DuplicateResult, title string, size ChartSize) error {
	if len(res.Rows) == 0 {
		return ErrNothingToPlot
	}
	xs, ys := make([]float64, len(res.Rows)), make([]float64, len(res.Rows))
	for i, r := range res.Rows {
		xs[i], ys[i] = r.Original, r.Replicate
	}
	lo, hi := bounds(append(append([]float64(nil), xs...), ys...))
	reg := res.Regression
	series := []chart.Series{
		chart.ContinuousSeries{Name: "Pairs", XValues: xs, YValues: ys, Style: pointStyle(chart.ColorBlue)},
		chart.ContinuousSeries{
			Name:    Equation(reg, 3),
			XValues: []float64{lo, hi},
			YValues: []float64{reg.Slope*lo + reg.Intercept, reg.Slope*hi + reg.Intercept},
			Style:   lineStyle(chart.ColorRed, false),
		},
		chart.ContinuousSeries{Name: "y = x", XValues: []float64{lo, hi}, YValues: []float64{lo, hi}, Style: lineStyle(chart.ColorAlternateGray, true)},
	}
	return render(w, chart.Chart{
		Title:  titleOr(title, fmt.Sprintf("Duplicates (R² = %.3f)", reg.RSquared)),
		XAxis:  chart.XAxis{Name: "Original", Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		YAxis:  chart.YAxis{Name: "Replicate", Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		Series: series,
	}, size)
}

func render(w io.Writer, ch chart.Chart, size ChartSize) error {
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultChartSize
	}
	ch.Width, ch.Height = size.Width, size.Height
	ch.Background = chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func hline(name string, x0, x1, y float64, st chart.Style) chart.ContinuousSeries {
	return chart.ContinuousSeries{Name: name, XValues: []float64{x0, x1}, YValues: []float64{y, y}, Style: st}
}

// spanX widens a single-sample axis so go-chart gets a non-zero range.
func spanX(xs []float64) (float64, float64) {
	if len(xs) == 1 {
		return xs[0] - 1, xs[0] + 1
	}
	return xs[0], xs[len(xs)-1]
}

// padX and padY keep a lone point plottable; go-chart needs two X values.
func padX(xs []float64) []float64 {
	if len(xs) == 1 {
		return []float64{xs[0], xs[0]}
	}
	return xs
}

func padY(ys []float64) []float64 {
	if len(ys) == 1 {
		return []float64{ys[0], ys[0]}
	}
	return ys
}

// bounds returns a padded [min, max] that is never empty.
func bounds(vs []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.1, 1)
	}
	return lo - pad, hi + pad
}

func titleOr(title, def string) string {
	if title != "" {
		return title
	}
	return def
}
