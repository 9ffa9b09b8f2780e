package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/wildstyl3r/slitorbit/internal/config"
)

func TestCrossingFraction(t *testing.T) {
	frac, degenerate := CrossingFraction(-0.2, 0.3)
	assert.Equal(t, 0.4, frac)
	assert.False(t, degenerate)

	thetaPrev, thetaCurr := 1.0, 1.5
	assert.InDelta(t, 1.2, InterpolatePhase(thetaPrev, thetaCurr, frac), 1e-15)
}

func TestCrossingFractionEdges(t *testing.T) {
	tests := []struct {
		name         string
		xPrev, xCurr float64
		frac         float64
		degenerate   bool
	}{
		{"lands on the plane", -0.5, 0, 1, false},
		{"starts on the plane", 0, 0.5, 0, false},
		{"flat step", -0.1, -0.1, 0.5, true},
		{"clamped below", 0.1, 0.3, 0, false},
		{"clamped above", -0.3, -0.1, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frac, degenerate := CrossingFraction(tt.xPrev, tt.xCurr)
			assert.Equal(t, tt.frac, frac)
			assert.Equal(t, tt.degenerate, degenerate)
		})
	}
}

func TestResolveCrossing(t *testing.T) {
	m := &Model{Parameters: config.ModelParameters{R: 2}}
	c := m.resolveCrossing(0.5, 0, math.Pi/2, -0.2, 0.3)
	assert.InDelta(t, 0.4*math.Pi/2, c.Theta, 1e-15)
	assert.InDelta(t, 0.5+2*math.Sin(0.4*math.Pi/2), c.Y, 1e-15)
	assert.Equal(t, 0.5, c.CenterY)
	assert.False(t, c.Degenerate)
}

func TestParticleAdvance(t *testing.T) {
	m := &Model{
		Parameters: config.ModelParameters{R: 1, VCenter: 2, Omega: math.Pi, Dt: 0.5},
		startX:     -5,
		MaxSteps:   100,
	}
	p := m.newParticle(0.3, 0, 9)
	assert.Equal(t, -4., p.x)
	assert.Equal(t, 0.3, p.y)

	p.advance(m)
	assert.Equal(t, 1, p.steps)
	assert.Equal(t, -4., p.centerX)
	assert.InDelta(t, math.Pi/2, p.theta, 1e-15)
	assert.InDelta(t, -4., p.x, 1e-15)
	assert.InDelta(t, 1.3, p.y, 1e-15)
	assert.Equal(t, 9, p.origin)
}

func TestTraceStopsAtBudget(t *testing.T) {
	m := &Model{
		Parameters: config.ModelParameters{R: 1, VCenter: 1, Omega: 1, Dt: 0.01},
		startX:     -5,
		MaxSteps:   10,
	}
	p := m.newParticle(0, 0, 0)
	_, crossed := m.trace(&p)
	assert.False(t, crossed)
	assert.Equal(t, 10, p.steps)
}

func TestEffectiveVelocity(t *testing.T) {
	v := EffectiveVelocity(1, 2*math.Pi, 1, 0)
	assert.Equal(t, 1., v.X)
	assert.InDelta(t, 2*math.Pi, v.Y, 1e-15)

	v = EffectiveVelocity(1, 2*math.Pi, 1, math.Pi/2)
	assert.InDelta(t, 1-2*math.Pi, v.X, 1e-12)
	assert.InDelta(t, 0, v.Y, 1e-12)

	// reversed rotation flips the orbital part
	v = EffectiveVelocity(0.5, -4, 0.25, -math.Pi/2)
	assert.InDelta(t, 0.25-2, v.X, 1e-12)
}

func TestInSlit(t *testing.T) {
	assert.True(t, InSlit(0.025, 0.05))
	assert.True(t, InSlit(-0.025, 0.05))
	assert.False(t, InSlit(0.0251, 0.05))
	assert.True(t, InSlit(0, 0))
	assert.False(t, InSlit(1e-300, 0))
}

func TestProjectToDetector(t *testing.T) {
	y, ok := ProjectToDetector(0.01, r2.Vec{X: 2, Y: 1}, 4)
	require.True(t, ok)
	assert.InDelta(t, 2.01, y, 1e-15)

	y, ok = ProjectToDetector(0.01, r2.Vec{X: 4, Y: -2}, 2)
	require.True(t, ok)
	assert.InDelta(t, -0.99, y, 1e-15)

	for _, vx := range []float64{-1, 0, 1e-10, 1e-9} {
		_, ok = ProjectToDetector(0, r2.Vec{X: vx, Y: 1}, 4)
		assert.False(t, ok, "vx = %v", vx)
	}
}

func TestAccept(t *testing.T) {
	m := &Model{Parameters: config.ModelParameters{R: 1, L: 5, SlitWidth: 0.05, VCenter: 1, Omega: 2 * math.Pi}}

	outcome, _ := m.accept(Crossing{Y: 0.1, Theta: 0})
	assert.Equal(t, RejectedOutsideSlit, outcome)

	// at the top of the orbit the rotation outruns the drift
	outcome, _ = m.accept(Crossing{Y: 0, Theta: math.Pi / 2})
	assert.Equal(t, RejectedBackward, outcome)

	outcome, yHit := m.accept(Crossing{Y: 0.01, Theta: -math.Pi / 2})
	assert.Equal(t, Projected, outcome)
	// vx = 1 + 2pi, vy = 0
	assert.InDelta(t, 0.01, yHit, 1e-12)
}

func TestOutcomeString(t *testing.T) {
	names := map[string]struct{}{}
	for _, o := range Outcomes {
		names[o.String()] = struct{}{}
	}
	assert.Len(t, names, len(Outcomes))
	assert.Equal(t, "unknown", Outcome(42).String())
}
