package model

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	"github.com/wildstyl3r/slitorbit/internal/config"
	"github.com/wildstyl3r/slitorbit/internal/constants"
	"github.com/wildstyl3r/slitorbit/internal/logging"
	"github.com/wildstyl3r/slitorbit/internal/sweep"
	"github.com/wildstyl3r/slitorbit/internal/utils"
)

// Observer receives per-trial and per-run diagnostics.
type Observer interface {
	TrialObserved(outcome string, degenerate bool)
	RunObserved(elapsed time.Duration)
}

type Model struct {
	Parameters config.ModelParameters
	Centers    []float64 // sweep offsets, one per center
	MaxSteps   int

	startX float64 // initial center x, left of the slit

	Log      logrus.FieldLogger
	Observer Observer
}

// NewModel validates the parameters and prepares the sweep. No trial runs
// for an invalid configuration.
func NewModel(parameters config.ModelParameters) (*Model, error) {
	if err := parameters.Validate(); err != nil {
		return nil, err
	}
	m := Model{Parameters: parameters, Log: logging.NamedLogger("model")}
	m.startX = -constants.StartDistanceRadii * max(parameters.R, 1.)
	m.MaxSteps = parameters.MaxSteps
	if m.MaxSteps == 0 {
		m.MaxSteps = StepBudget(math.Abs(m.startX), parameters.R, parameters.VCenter, parameters.Omega, parameters.Dt)
	}

	switch parameters.Sweep {
	case config.SweepUniform:
		m.Centers = sweep.Uniform(parameters.D, parameters.R, parameters.NCenters, rand.New(rand.NewSource(streamSeed(parameters.Seed, sweepStream))))
	default:
		m.Centers = sweep.Centers(parameters.D, parameters.R, parameters.NCenters)
	}
	return &m, nil
}

// StepBudget is the number of steps a center drifting at vCenter needs to
// carry the orbit from distance start across the slit, with a margin. A
// center that does not drift forward gets a few orbital periods instead.
func StepBudget(start, r, vCenter, omega, dt float64) int {
	if vCenter > 0 {
		return int((start+constants.BudgetMarginRadii*r)/(vCenter*dt)) + constants.BudgetExtraSteps
	}
	if omega != 0 {
		period := constants.TwoPi / math.Abs(omega)
		return int(constants.StalledOrbitPeriods*period/dt) + constants.BudgetExtraSteps
	}
	return constants.BudgetExtraSteps
}

func (m *Model) NumTrials() int {
	return len(m.Centers) * m.Parameters.NTrials
}

// TrialResult is the outcome of one (center, trial) pair.
type TrialResult struct {
	Outcome  Outcome
	Crossed  bool
	Crossing Crossing
	Impact   float64 // valid for Projected only
	Steps    int
}

const sweepStream = math.MaxUint64

func splitMix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// streamSeed derives an independent seed for a trial from the run seed, so
// a trial draws the same phase whichever worker runs it.
func streamSeed(seed, stream uint64) uint64 {
	return splitMix64(seed ^ splitMix64(stream))
}

func (m *Model) initialPhase(trial int) float64 {
	if m.Parameters.Theta0 == config.Theta0Fixed {
		return m.Parameters.Theta0Value
	}
	rng := rand.New(rand.NewSource(streamSeed(m.Parameters.Seed, uint64(trial))))
	return constants.TwoPi * rng.Float64()
}

// RunTrial simulates trial number index: its center is
// Centers[index / NTrials].
func (m *Model) RunTrial(index int) TrialResult {
	p := m.newParticle(m.Centers[index/m.Parameters.NTrials], m.initialPhase(index), index)
	crossing, crossed := m.trace(&p)
	result := TrialResult{Outcome: BudgetExhausted, Crossed: crossed, Crossing: crossing, Steps: p.steps}
	if crossed {
		result.Outcome, result.Impact = m.accept(crossing)
	}
	return result
}

// Result is the output of a run: the impacts on the detector plane in
// trial order plus the diagnostics gathered along the way.
type Result struct {
	Impacts     []float64
	Diagnostics Diagnostics
}

type Diagnostics struct {
	Trials     int
	Outcomes   map[Outcome]int
	Degenerate int
	MaxSteps   int

	CenterYAll    []float64 // center offset of every crossing
	ThetaCrossAll []float64 // phase mod 2pi of every crossing
	ThetaAccepted []float64 // phase mod 2pi of every slit-accepted crossing
}

// ExhaustionRate is the share of trials that never reached the slit.
func (d Diagnostics) ExhaustionRate() float64 {
	return utils.Ratio(d.Outcomes[BudgetExhausted], d.Trials)
}

type trialEvent struct {
	outcome    Outcome
	degenerate bool
}

// Run simulates every (center, trial) pair on Threads() workers. The
// result depends only on the parameters and the seed, not on scheduling.
func (m *Model) Run(ctx context.Context) (Result, error) {
	startTime := time.Now()
	threads := m.Parameters.Threads()
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	numTrials := m.NumTrials()
	slots := make([]TrialResult, numTrials)

	var computeWg, stateWg sync.WaitGroup
	diagnostics := Diagnostics{Trials: numTrials, Outcomes: map[Outcome]int{}, MaxSteps: m.MaxSteps}

	eventflow := make(chan trialEvent, 4096)
	stateWg.Add(1)
	go func() {
		defer stateWg.Done()
		for event := range eventflow {
			diagnostics.Outcomes[event.outcome]++
			if event.degenerate {
				diagnostics.Degenerate++
			}
			if m.Observer != nil {
				m.Observer.TrialObserved(event.outcome.String(), event.degenerate)
			}
		}
	}()

	computeflow := make(chan int, threads*64)
	for i := 0; i < threads; i++ {
		computeWg.Add(1)
		go func() {
			defer computeWg.Done()
			for index := range computeflow {
				slots[index] = m.RunTrial(index)
				eventflow <- trialEvent{slots[index].Outcome, slots[index].Crossed && slots[index].Crossing.Degenerate}
			}
		}()
	}

dispatch:
	for index := 0; index < numTrials; index++ {
		select {
		case computeflow <- index:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(computeflow)
	computeWg.Wait()
	close(eventflow)
	stateWg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("run interrupted: %w", err)
	}

	result := Result{Impacts: make([]float64, 0, diagnostics.Outcomes[Projected])}
	for _, trial := range slots {
		if !trial.Crossed {
			continue
		}
		theta := utils.WrapAngle(trial.Crossing.Theta, constants.TwoPi)
		diagnostics.CenterYAll = append(diagnostics.CenterYAll, trial.Crossing.CenterY)
		diagnostics.ThetaCrossAll = append(diagnostics.ThetaCrossAll, theta)
		if trial.Outcome != RejectedOutsideSlit {
			diagnostics.ThetaAccepted = append(diagnostics.ThetaAccepted, theta)
		}
		if trial.Outcome == Projected {
			result.Impacts = append(result.Impacts, trial.Impact)
		}
	}
	result.Diagnostics = diagnostics

	elapsed := time.Since(startTime)
	if m.Observer != nil {
		m.Observer.RunObserved(elapsed)
	}
	m.report(diagnostics, len(result.Impacts), elapsed)
	return result, nil
}

func (m *Model) report(d Diagnostics, hits int, elapsed time.Duration) {
	fields := logrus.Fields{
		"D":         m.Parameters.D,
		"trials":    d.Trials,
		"hits":      hits,
		"max_steps": d.MaxSteps,
		"elapsed":   elapsed,
	}
	for _, outcome := range Outcomes {
		fields[outcome.String()] = d.Outcomes[outcome]
	}
	m.Log.WithFields(fields).Debug("run finished")
	if d.Degenerate > 0 {
		m.Log.WithField("count", d.Degenerate).Warn("degenerate crossings, time step may be too coarse")
	}
	if rate := d.ExhaustionRate(); rate > 0 {
		m.Log.WithField("rate", rate).Info("trials exhausted the step budget")
	}
}
