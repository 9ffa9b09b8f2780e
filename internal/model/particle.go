package model

import (
	"math"

	"github.com/wildstyl3r/slitorbit/internal/constants"
)

// Particle is the state of one trial: a point on a circle of radius R whose
// center drifts along x at a fixed transverse offset.
type Particle struct {
	centerX, centerY float64
	theta            float64
	x, y             float64
	steps            int

	origin int // trial index
}

// Crossing is the interpolated state at the first x = 0 crossing.
type Crossing struct {
	CenterY    float64
	Theta      float64 // unwrapped phase at the crossing
	Y          float64
	Frac       float64 // position of the crossing inside the step, [0, 1]
	Degenerate bool    // x did not change over the step; Frac fell back to 0.5
}

func (m *Model) newParticle(centerY, theta0 float64, origin int) Particle {
	p := Particle{
		centerX: m.startX,
		centerY: centerY,
		theta:   theta0,
		origin:  origin,
	}
	p.place(m.Parameters.R)
	return p
}

func (p *Particle) place(r float64) {
	p.x = p.centerX + r*math.Cos(p.theta)
	p.y = p.centerY + r*math.Sin(p.theta)
}

// advance performs one explicit Euler step.
func (p *Particle) advance(m *Model) {
	p.theta += m.Parameters.Omega * m.Parameters.Dt
	p.centerX += m.Parameters.VCenter * m.Parameters.Dt
	p.place(m.Parameters.R)
	p.steps++
}

// CrossingFraction locates x = 0 inside a step from xPrev to xCurr by
// linear interpolation. The result is clamped to [0, 1].
func CrossingFraction(xPrev, xCurr float64) (frac float64, degenerate bool) {
	if xCurr == xPrev {
		return constants.DegenerateFraction, true
	}
	frac = -xPrev / (xCurr - xPrev)
	return min(max(frac, 0), 1), false
}

// InterpolatePhase returns the phase a fraction frac of the way through a step.
func InterpolatePhase(thetaPrev, thetaCurr, frac float64) float64 {
	return thetaPrev + (thetaCurr-thetaPrev)*frac
}

// trace integrates until the particle first reaches x >= 0. It reports
// false when the step budget runs out first.
func (m *Model) trace(p *Particle) (Crossing, bool) {
	for p.x < 0 && p.steps < m.MaxSteps {
		thetaPrev, xPrev := p.theta, p.x
		p.advance(m)
		if xPrev < 0 && 0 <= p.x {
			return m.resolveCrossing(p.centerY, thetaPrev, p.theta, xPrev, p.x), true
		}
	}
	return Crossing{CenterY: p.centerY}, false
}

func (m *Model) resolveCrossing(centerY, thetaPrev, thetaCurr, xPrev, xCurr float64) Crossing {
	frac, degenerate := CrossingFraction(xPrev, xCurr)
	theta := InterpolatePhase(thetaPrev, thetaCurr, frac)
	return Crossing{
		CenterY:    centerY,
		Theta:      theta,
		Y:          centerY + m.Parameters.R*math.Sin(theta),
		Frac:       frac,
		Degenerate: degenerate,
	}
}
