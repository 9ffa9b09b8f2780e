// Package sweep generates the transverse orbit-center offsets sampled
// around a central offset D. Every generator covers [D - R/2, D + R/2].
package sweep

import (
	"gonum.org/v1/gonum/floats"
)

// Float64er is the random source a uniform sweep draws from.
type Float64er interface {
	Float64() float64
}

// Bounds returns the closed interval swept around d for orbit radius r.
func Bounds(d, r float64) (lo, hi float64) {
	return d - r/2, d + r/2
}

// Centers returns n evenly spaced offsets spanning [d - r/2, d + r/2],
// both endpoints included. A single sample degenerates to d.
func Centers(d, r float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []float64{d}
	}
	lo, hi := Bounds(d, r)
	return floats.Span(make([]float64, n), lo, hi)
}

// Uniform draws n offsets independently and uniformly from [d - r/2, d + r/2).
func Uniform(d, r float64, n int, rng Float64er) []float64 {
	if n < 1 {
		return nil
	}
	lo, hi := Bounds(d, r)
	centers := make([]float64, n)
	for i := range centers {
		centers[i] = lo + (hi-lo)*rng.Float64()
	}
	return centers
}
