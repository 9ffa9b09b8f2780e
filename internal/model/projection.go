package model

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/wildstyl3r/slitorbit/internal/constants"
)

// Outcome is how a trial ended. Only Projected trials produce an impact.
type Outcome int

const (
	BudgetExhausted Outcome = iota
	RejectedOutsideSlit
	RejectedBackward
	Projected
)

var Outcomes = []Outcome{BudgetExhausted, RejectedOutsideSlit, RejectedBackward, Projected}

func (o Outcome) String() string {
	switch o {
	case BudgetExhausted:
		return "budget_exhausted"
	case RejectedOutsideSlit:
		return "rejected_outside_slit"
	case RejectedBackward:
		return "rejected_backward"
	case Projected:
		return "projected"
	}
	return "unknown"
}

// EffectiveVelocity is the time derivative of the orbit position at phase theta.
func EffectiveVelocity(r, omega, vCenter, theta float64) r2.Vec {
	return r2.Vec{
		X: vCenter - r*omega*math.Sin(theta),
		Y: r * omega * math.Cos(theta),
	}
}

// InSlit reports whether a crossing at transverse position y passes a slit
// of full width a centered on y = 0.
func InSlit(y, a float64) bool {
	return math.Abs(y) <= a/2
}

// ProjectToDetector extends the straight line through (0, y) with velocity v
// to the plane x = l. It fails for particles not moving forward.
func ProjectToDetector(y float64, v r2.Vec, l float64) (float64, bool) {
	if v.X <= constants.ForwardVelocityEpsilon {
		return 0, false
	}
	flight := l / v.X
	return r2.Add(r2.Vec{Y: y}, r2.Scale(flight, v)).Y, true
}

// accept applies the slit and the forward-motion guard to a crossing.
func (m *Model) accept(c Crossing) (Outcome, float64) {
	if !InSlit(c.Y, m.Parameters.SlitWidth) {
		return RejectedOutsideSlit, 0
	}
	v := EffectiveVelocity(m.Parameters.R, m.Parameters.Omega, m.Parameters.VCenter, c.Theta)
	yHit, forward := ProjectToDetector(c.Y, v, m.Parameters.L)
	if !forward {
		return RejectedBackward, 0
	}
	return Projected, yHit
}
