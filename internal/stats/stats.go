// Package stats summarizes impact samples: Gaussian maximum likelihood
// fit, Silverman kernel density estimate and fixed-range histograms.
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/wildstyl3r/slitorbit/internal/utils"
)

// GaussianMLE returns the maximum likelihood mean and standard deviation
// (population, 1/n normalization) of data. Both are NaN for empty data.
func GaussianMLE(data []float64) (mu, sigma float64) {
	if len(data) == 0 {
		return math.NaN(), math.NaN()
	}
	return stat.PopMeanStdDev(data, nil)
}

// GaussianPDF evaluates the normal density with mean mu and deviation sigma.
func GaussianPDF(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma
	return math.Exp(-0.5*z*z) / (sigma * math.Sqrt(2*math.Pi))
}

// Bandwidth is Silverman's rule of thumb, h = 1.06 sigma n^(-1/5).
func Bandwidth(data []float64) float64 {
	_, sigma := GaussianMLE(data)
	return 1.06 * sigma * math.Pow(float64(len(data)), -0.2)
}

// KDESilverman evaluates a Gaussian kernel density estimate of data on
// grid. It returns nil when the bandwidth is not positive.
func KDESilverman(data, grid []float64) []float64 {
	h := Bandwidth(data)
	if !(h > 0) {
		return nil
	}
	norm := float64(len(data)) * h * math.Sqrt(2*math.Pi)
	density := make([]float64, len(grid))
	for i, x := range grid {
		var sum float64
		for _, d := range data {
			z := (x - d) / h
			sum += math.Exp(-0.5 * z * z)
		}
		density[i] = sum / norm
	}
	return density
}

// Grid returns n evenly spaced points on [lo, hi].
func Grid(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Histogram counts samples in equal bins over [Lo, Hi). Samples outside
// the range are counted in Outside.
type Histogram struct {
	Lo, Hi  float64
	Counts  []int
	Outside int
	Total   int
}

func NewHistogram(data []float64, lo, hi float64, bins int) Histogram {
	h := Histogram{Lo: lo, Hi: hi, Counts: make([]int, bins), Total: len(data)}
	width := h.BinWidth()
	for _, d := range data {
		if d < lo || d >= hi || math.IsNaN(d) {
			h.Outside++
			continue
		}
		bin := min(int((d-lo)/width), bins-1)
		h.Counts[bin]++
	}
	return h
}

// AutoHistogram spans the sample range.
func AutoHistogram(data []float64, bins int) Histogram {
	if len(data) == 0 {
		return NewHistogram(nil, 0, 1, bins)
	}
	lo, hi := floats.Min(data), floats.Max(data)
	if hi == lo {
		hi = lo + 1
	}
	// widen by a hair so the maximum lands inside the last bin
	return NewHistogram(data, lo, math.Nextafter(hi, math.Inf(1)), bins)
}

func (h Histogram) BinWidth() float64 {
	return (h.Hi - h.Lo) / float64(len(h.Counts))
}

func (h Histogram) Center(bin int) float64 {
	return h.Lo + (float64(bin)+0.5)*h.BinWidth()
}

// Density normalizes the in-range counts so the bins integrate to one.
func (h Histogram) Density() []float64 {
	density := make([]float64, len(h.Counts))
	inRange := h.InRange()
	if inRange == 0 {
		return density
	}
	for i, c := range h.Counts {
		density[i] = float64(c) / (float64(inRange) * h.BinWidth())
	}
	return density
}

// Mode returns the center of the fullest bin.
func (h Histogram) Mode() float64 {
	return h.Center(utils.Argmax(h.Counts))
}

// InRange is the number of samples that fell into a bin.
func (h Histogram) InRange() int {
	return utils.SumSlice(h.Counts)
}
