// Package runner drives the external engine through each enumerated
// case: artifact generation, session setup, the fixed-step loop with
// its voltage stopping policy, and teardown.
package runner

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"gridexp/internal/experiment"
	"gridexp/internal/sim"
)

// Status is the terminal state a case reached.
type Status string

const (
	StatusCompleted   Status = "completed"
	StatusDiverged    Status = "diverged"
	StatusEngineError Status = "engine_error"
)

// CaseResult records the outcome of one case.
type CaseResult struct {
	Path             string
	SystemTag        string
	DisturbanceTag   string
	ControllerTag    string
	RandomizationTag string
	Status           Status
	LastError        string
	StoppedAt        float64
	Steps            int
	StartedAt        time.Time
	Elapsed          time.Duration
}

// Progress reports the run position. t is the current simulated time of
// the case at index (0-based) out of total cases.
type Progress func(index, total int, t, horizon float64)

// Runner executes an experiment's cases strictly sequentially. Each
// case gets a fresh engine session from the injected factory; sessions
// are never shared across cases.
type Runner struct {
	exp       *experiment.Experiment
	newEngine sim.EngineFactory
	progress  Progress
}

// New returns a runner for exp backed by the given engine factory.
func New(exp *experiment.Experiment, factory sim.EngineFactory) *Runner {
	return &Runner{exp: exp, newEngine: factory}
}

// SetProgress installs an optional progress callback.
func (r *Runner) SetProgress(p Progress) { r.progress = p }

// Run executes every enumerated case. Divergence and engine faults are
// per-case outcomes and never stop the batch; a returned error means
// the batch itself could not proceed (artifact generation failed, or
// the context was canceled between cases).
func (r *Runner) Run(ctx context.Context) ([]CaseResult, error) {
	cases := r.exp.Cases()
	results := make([]CaseResult, 0, len(cases))

	for i, c := range cases {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		res, err := r.runCase(i, len(cases), c)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Runner) runCase(index, total int, c experiment.Case) (CaseResult, error) {
	res := CaseResult{
		Path:             c.Path,
		SystemTag:        c.System.Tag,
		DisturbanceTag:   c.Disturbances.Tag,
		ControllerTag:    c.Controllers.Tag,
		RandomizationTag: c.Randomization.Tag,
		StartedAt:        time.Now(),
	}

	model := c.System.Model
	if len(c.Controllers.Batch) > 0 {
		model.AddControllers(c.Controllers.Batch)
	}
	for _, det := range model.Detectors() {
		if err := r.exp.AddObservables(det.RequiredObservables()...); err != nil {
			return res, fmt.Errorf("runner: detector observables: %w", err)
		}
	}
	model.AddDisturbances(c.Disturbances.Batch)

	// Collapse tap-changer delays so the devices act within one step.
	h := r.exp.Step()
	for _, oltc := range model.OLTCDevices() {
		oltc.SetDelays(3.0/4.0*h, 3.0/4.0*h)
	}

	if err := r.exp.InitFilesAndDirs(); err != nil {
		return res, fmt.Errorf("runner: init artifacts: %w", err)
	}
	if err := model.ExportNative(experiment.InputPath(c.Path, experiment.SystemFile)); err != nil {
		return res, fmt.Errorf("runner: export model: %w", err)
	}

	// A stale output trace would be appended to by the engine.
	outTrace := experiment.OutputPath(c.Path, experiment.OutputTraceFile)
	if err := os.Remove(outTrace); err != nil && !os.IsNotExist(err) {
		return res, fmt.Errorf("runner: remove stale trace: %w", err)
	}

	eng := r.newEngine()
	defer eng.End()

	eng.AddData(experiment.InputPath(c.Path, experiment.SystemFile))
	eng.AddData(experiment.InputPath(c.Path, experiment.SettingsFile))
	eng.AddObservables(experiment.InputPath(c.Path, experiment.ObservablesFile))
	eng.AddDisturbances(experiment.InputPath(c.Path, experiment.DisturbancesFile))
	eng.AddInitTrace(experiment.OutputPath(c.Path, experiment.InitTraceFile))
	eng.AddOutput(outTrace)
	eng.AddTrajectory(experiment.OutputPath(c.Path, experiment.TrajectoryFile))

	if err := eng.Init(); err != nil {
		res.Status = StatusEngineError
		res.LastError = lastError(eng, err)
		res.Elapsed = time.Since(res.StartedAt)
		return res, nil
	}

	buses, err := eng.ComponentNames("BUS")
	if err != nil {
		res.Status = StatusEngineError
		res.LastError = lastError(eng, err)
		res.Elapsed = time.Since(res.StartedAt)
		return res, nil
	}

	vmin, vmax := r.exp.ErrorVoltages()
	window := r.exp.DisturbanceWindow()
	horizon := r.exp.Horizon()

	// The time grid is derived from the step index so accumulated
	// rounding cannot add or drop a step.
	steps := int(math.Ceil(horizon / h))

	res.Status = StatusCompleted
	res.StoppedAt = horizon
	for i := 0; i < steps; i++ {
		t := float64(i) * h
		if r.progress != nil {
			r.progress(index, total, t, horizon)
		}

		voltages, err := eng.BusVoltages(buses)
		if err != nil {
			res.Status = StatusEngineError
			res.LastError = lastError(eng, err)
			res.StoppedAt = t
			break
		}
		if t > window && !withinBand(voltages, vmin, vmax) {
			res.Status = StatusDiverged
			res.StoppedAt = t
			break
		}
		if err := eng.AdvanceTo(t); err != nil {
			res.Status = StatusEngineError
			res.LastError = lastError(eng, err)
			res.StoppedAt = t
			break
		}

		model.UpdateDetectors()
		model.FollowControllers()
		model.SendDisturbancesUntil(t + h)
		res.Steps++
	}
	res.Elapsed = time.Since(res.StartedAt)
	return res, nil
}

func withinBand(voltages []float64, lo, hi float64) bool {
	for _, v := range voltages {
		if v <= lo || v >= hi {
			return false
		}
	}
	return true
}

func lastError(eng sim.Engine, err error) string {
	if msg := eng.LastError(); msg != "" {
		return msg
	}
	return err.Error()
}
