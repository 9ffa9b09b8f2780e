package model

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstyl3r/slitorbit/internal/config"
	"github.com/wildstyl3r/slitorbit/internal/constants"
	"github.com/wildstyl3r/slitorbit/internal/logging"
	"github.com/wildstyl3r/slitorbit/internal/stats"
	"github.com/wildstyl3r/slitorbit/internal/sweep"
)

func literalParameters(d float64) config.ModelParameters {
	return config.ModelParameters{
		D:         d,
		R:         1.,
		L:         5.,
		SlitWidth: 0.05,
		VCenter:   1.,
		Omega:     2 * math.Pi,
		Dt:        0.002,
		NCenters:  200,
		NTrials:   50,
		Theta0:    config.Theta0Random,
		Sweep:     config.SweepGrid,
		Seed:      20240611,
	}
}

func smallParameters(d float64) config.ModelParameters {
	p := literalParameters(d)
	p.NCenters = 40
	p.NTrials = 10
	p.SlitWidth = 0.2
	return p
}

func newTestModel(t *testing.T, p config.ModelParameters) *Model {
	t.Helper()
	m, err := NewModel(p)
	require.NoError(t, err)
	m.Log = logging.Discard()
	return m
}

func run(t *testing.T, p config.ModelParameters) Result {
	t.Helper()
	result, err := newTestModel(t, p).Run(context.Background())
	require.NoError(t, err)
	return result
}

type countingObserver struct {
	trials, degenerate, runs int
	outcomes                 map[string]int
}

func (o *countingObserver) TrialObserved(outcome string, degenerate bool) {
	o.trials++
	o.outcomes[outcome]++
	if degenerate {
		o.degenerate++
	}
}

func (o *countingObserver) RunObserved(elapsed time.Duration) { o.runs++ }

func TestNewModelRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.ModelParameters)
	}{
		{"zero radius", func(p *config.ModelParameters) { p.R = 0 }},
		{"negative radius", func(p *config.ModelParameters) { p.R = -1 }},
		{"zero time step", func(p *config.ModelParameters) { p.Dt = 0 }},
		{"zero detector distance", func(p *config.ModelParameters) { p.L = 0 }},
		{"no centers", func(p *config.ModelParameters) { p.NCenters = 0 }},
		{"no trials", func(p *config.ModelParameters) { p.NTrials = 0 }},
		{"negative slit", func(p *config.ModelParameters) { p.SlitWidth = -0.1 }},
		{"unknown phase policy", func(p *config.ModelParameters) { p.Theta0 = "sometimes" }},
		{"unknown sweep", func(p *config.ModelParameters) { p.Sweep = "spiral" }},
		{"nan omega", func(p *config.ModelParameters) { p.Omega = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := smallParameters(0.7)
			tt.mutate(&p)
			m, err := NewModel(p)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestStepBudget(t *testing.T) {
	// (5 + 5) / (1 * 0.002) + 1000
	assert.Equal(t, 6000, StepBudget(5, 1, 1, 2*math.Pi, 0.002))
	// ten periods of 1 s at dt = 0.01
	assert.Equal(t, 2000, StepBudget(5, 1, 0, 2*math.Pi, 0.01))
	assert.Equal(t, constants.BudgetExtraSteps, StepBudget(5, 1, 0, 0, 0.01))

	m := newTestModel(t, literalParameters(0.7))
	assert.Equal(t, 6000, m.MaxSteps)

	p := literalParameters(0.7)
	p.MaxSteps = 17
	assert.Equal(t, 17, newTestModel(t, p).MaxSteps)
}

func TestRunTrialStraightLine(t *testing.T) {
	// no rotation: x = -4 + 0.3 k crosses between k = 13 and k = 14
	p := config.ModelParameters{
		D: 0, R: 1, L: 2, SlitWidth: 0.1, VCenter: 1, Omega: 0, Dt: 0.3,
		NCenters: 1, NTrials: 1, Theta0: config.Theta0Fixed, Sweep: config.SweepGrid,
	}
	m := newTestModel(t, p)
	trial := m.RunTrial(0)

	require.True(t, trial.Crossed)
	assert.Equal(t, Projected, trial.Outcome)
	assert.Equal(t, 14, trial.Steps)
	assert.InDelta(t, 1./3, trial.Crossing.Frac, 1e-9)
	assert.False(t, trial.Crossing.Degenerate)
	assert.Zero(t, trial.Crossing.Theta)
	assert.Zero(t, trial.Impact)
}

func TestRunTrialFixedPhaseIsShared(t *testing.T) {
	p := smallParameters(0.7)
	p.Theta0 = config.Theta0Fixed
	p.Theta0Value = 1.2
	m := newTestModel(t, p)
	first := m.RunTrial(0)
	for trial := 1; trial < p.NTrials; trial++ {
		assert.Equal(t, first, m.RunTrial(trial))
	}
}

func TestRunOutputBoundedByTrials(t *testing.T) {
	for _, d := range []float64{0.2, 0.7, 1.4} {
		p := smallParameters(d)
		result := run(t, p)
		assert.LessOrEqual(t, len(result.Impacts), p.NCenters*p.NTrials)
		assert.Equal(t, p.NCenters*p.NTrials, result.Diagnostics.Trials)

		var total int
		for _, outcome := range Outcomes {
			total += result.Diagnostics.Outcomes[outcome]
		}
		assert.Equal(t, result.Diagnostics.Trials, total)
		assert.Equal(t, result.Diagnostics.Outcomes[Projected], len(result.Impacts))
		assert.Len(t, result.Diagnostics.CenterYAll, len(result.Diagnostics.ThetaCrossAll))
	}
}

func TestEmittedImpactsPassSlitAndMoveForward(t *testing.T) {
	p := smallParameters(0.7)
	m := newTestModel(t, p)
	var projected int
	for index := 0; index < m.NumTrials(); index++ {
		trial := m.RunTrial(index)
		if trial.Outcome != Projected {
			continue
		}
		projected++
		assert.LessOrEqual(t, math.Abs(trial.Crossing.Y), p.SlitWidth/2)
		v := EffectiveVelocity(p.R, p.Omega, p.VCenter, trial.Crossing.Theta)
		assert.Greater(t, v.X, constants.ForwardVelocityEpsilon)
		assert.InDelta(t, trial.Crossing.Y+v.Y*p.L/v.X, trial.Impact, 1e-12)
	}
	assert.NotZero(t, projected)
}

func TestRunIsDeterministic(t *testing.T) {
	p := smallParameters(0.7)
	p.SetThreads(1)
	first := run(t, p)
	second := run(t, p)
	require.NotEmpty(t, first.Impacts)
	assert.Equal(t, first.Impacts, second.Impacts)

	p.SetThreads(8)
	parallel := run(t, p)
	assert.Equal(t, first.Impacts, parallel.Impacts)
	assert.Equal(t, first.Diagnostics, parallel.Diagnostics)

	p.Seed++
	other := run(t, p)
	assert.NotEqual(t, first.Impacts, other.Impacts)
}

func TestUniformSweepIsSeeded(t *testing.T) {
	p := smallParameters(0.7)
	p.Sweep = config.SweepUniform
	a, b := newTestModel(t, p), newTestModel(t, p)
	assert.Equal(t, a.Centers, b.Centers)
	lo, hi := sweep.Bounds(p.D, p.R)
	for _, c := range a.Centers {
		assert.GreaterOrEqual(t, c, lo)
		assert.Less(t, c, hi)
	}
}

func TestZeroWidthSlitAcceptsNothing(t *testing.T) {
	p := smallParameters(0.7)
	p.SlitWidth = 0
	result := run(t, p)
	assert.Empty(t, result.Impacts)
	assert.Empty(t, result.Diagnostics.ThetaAccepted)
	assert.Equal(t, p.NCenters*p.NTrials, result.Diagnostics.Outcomes[RejectedOutsideSlit])
}

func TestStationaryCenterNeverCrosses(t *testing.T) {
	p := smallParameters(0.7)
	p.VCenter = 0
	m := newTestModel(t, p)
	observer := &countingObserver{outcomes: map[string]int{}}
	m.Observer = observer

	result, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Impacts)
	assert.Empty(t, result.Diagnostics.ThetaCrossAll)
	assert.Equal(t, 1., result.Diagnostics.ExhaustionRate())
	assert.Equal(t, m.NumTrials(), observer.outcomes[BudgetExhausted.String()])
	assert.Equal(t, 1, observer.runs)
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestModel(t, smallParameters(0.7)).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSpreadDependsOnSweepOffset(t *testing.T) {
	if testing.Short() {
		t.Skip("full sweep")
	}
	below := run(t, literalParameters(0.7))
	above := run(t, literalParameters(1.4))
	require.Greater(t, len(below.Impacts), 100)
	require.Greater(t, len(above.Impacts), 50)

	// with D > R only centers within a/2 of R reach the slit, at phases
	// near the bottom of the orbit where the transverse velocity vanishes
	_, sigmaBelow := stats.GaussianMLE(below.Impacts)
	_, sigmaAbove := stats.GaussianMLE(above.Impacts)
	assert.Greater(t, sigmaBelow, 3*sigmaAbove)
	assert.Greater(t, len(below.Impacts), 2*len(above.Impacts))
}
