// Package output renders the run artifacts: PNG figures of the impact
// distributions and phase diagnostics, and the JSON run summary.
package output

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/wildstyl3r/slitorbit/internal/stats"
)

const (
	ComparisonLo   = -40.
	ComparisonHi   = 40.
	ComparisonBins = 400

	AcceptedPhaseBins = 80
)

var (
	figureWidth  = 8 * vg.Inch
	figureHeight = 5 * vg.Inch
)

// Sample is one labelled set of values for a figure.
type Sample struct {
	Label  string
	Values []float64
}

func densityHistogram(h stats.Histogram, fill color.Color) *plotter.Histogram {
	density := h.Density()
	bins := make([]plotter.HistogramBin, len(density))
	for i := range density {
		lo := h.Lo + float64(i)*h.BinWidth()
		bins[i] = plotter.HistogramBin{Min: lo, Max: lo + h.BinWidth(), Weight: density[i]}
	}
	return &plotter.Histogram{
		Bins:      bins,
		Width:     h.BinWidth(),
		FillColor: fill,
		LineStyle: plotter.DefaultLineStyle,
	}
}

func translucent(c color.Color, alpha uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}

func curve(x, y []float64) plotter.XYs {
	xys := make(plotter.XYs, len(x))
	for i := range x {
		xys[i].X, xys[i].Y = x[i], y[i]
	}
	return xys
}

// ImpactDistribution draws the density histogram of the impacts with the
// KDE and the fitted Gaussian on top. Empty curves are skipped.
func ImpactDistribution(path, title, xLabel string, impacts []float64, bins int, grid, kde, gauss []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "density"

	if len(impacts) > 0 {
		hist := densityHistogram(stats.AutoHistogram(impacts, bins), translucent(plotutil.Color(0), 100))
		p.Add(hist)
		p.Legend.Add("hist", hist)
	}
	if len(kde) > 0 {
		kdeLine, err := plotter.NewLine(curve(grid, kde))
		if err != nil {
			return fmt.Errorf("kde curve: %w", err)
		}
		kdeLine.Color = plotutil.Color(1)
		kdeLine.Width = vg.Points(2)

		gaussLine, err := plotter.NewLine(curve(grid, gauss))
		if err != nil {
			return fmt.Errorf("gaussian curve: %w", err)
		}
		gaussLine.Color = plotutil.Color(2)
		gaussLine.Dashes = plotutil.Dashes(1)

		p.Add(kdeLine, gaussLine)
		p.Legend.Add("KDE", kdeLine)
		p.Legend.Add("Gaussian", gaussLine)
	}
	p.Legend.Top = true
	return p.Save(figureWidth, figureHeight, path)
}

// PhaseScatter plots the crossing phase against the sweep offset for
// every crossing, accepted or not.
func PhaseScatter(path, title, xLabel, yLabel string, centerY, theta []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	if len(theta) > 0 {
		scatter, err := plotter.NewScatter(curve(centerY, theta))
		if err != nil {
			return fmt.Errorf("phase scatter: %w", err)
		}
		scatter.GlyphStyle.Radius = vg.Points(1)
		scatter.GlyphStyle.Color = translucent(plotutil.Color(0), 150)
		p.Add(scatter)
	}
	return p.Save(figureWidth, figureHeight, path)
}

// PhaseHistogram is the density histogram of accepted phases on [0, period).
func PhaseHistogram(path, title, xLabel string, theta []float64, period float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "density"

	if len(theta) > 0 {
		p.Add(densityHistogram(stats.NewHistogram(theta, 0, period, AcceptedPhaseBins), plotutil.Color(0)))
	}
	return p.Save(figureWidth, 4*vg.Inch, path)
}

// Comparison overlays the impact densities of several scenarios on the
// fixed range [lo, hi). Samples outside the range are dropped before
// normalization.
func Comparison(path, title, xLabel string, samples []Sample, lo, hi float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "density"

	for i, sample := range samples {
		if len(sample.Values) == 0 {
			continue
		}
		hist := densityHistogram(stats.NewHistogram(sample.Values, lo, hi, ComparisonBins), translucent(plotutil.Color(i), 150))
		hist.LineStyle.Width = 0
		p.Add(hist)
		p.Legend.Add(sample.Label, hist)
	}
	p.X.Min, p.X.Max = lo, hi
	p.Legend.Top = true
	return p.Save(10*vg.Inch, figureHeight, path)
}
