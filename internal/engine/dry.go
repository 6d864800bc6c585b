// Package engine provides the dry engine session: an engine double that
// accepts every artifact and holds all monitored voltages at 1 pu. It
// backs `gridexp run --dry` and lets the run loop be exercised without
// a solver installed.
package engine

import (
	"errors"
	"fmt"

	"gridexp/internal/sim"
)

// Dry is a no-op engine session. The zero value is not usable; create
// sessions through NewDry or Factory.
type Dry struct {
	buses       []string
	files       map[string]string
	initialized bool
	ended       bool
	t           float64
	lastErr     string
}

// NewDry returns a session reporting the given bus names under the
// "BUS" category.
func NewDry(buses ...string) *Dry {
	return &Dry{buses: buses, files: make(map[string]string)}
}

// Factory returns an EngineFactory producing fresh dry sessions with
// the given monitored buses.
func Factory(buses ...string) sim.EngineFactory {
	return func() sim.Engine {
		return NewDry(buses...)
	}
}

func (d *Dry) AddData(path string)         { d.files["data:"+path] = path }
func (d *Dry) AddObservables(path string)  { d.files["obs"] = path }
func (d *Dry) AddDisturbances(path string) { d.files["dst"] = path }
func (d *Dry) AddInitTrace(path string)    { d.files["init"] = path }
func (d *Dry) AddOutput(path string)       { d.files["out"] = path }
func (d *Dry) AddTrajectory(path string)   { d.files["trj"] = path }

func (d *Dry) Init() error {
	if d.initialized {
		return errors.New("dry engine: session already initialized")
	}
	d.initialized = true
	return nil
}

func (d *Dry) AdvanceTo(t float64) error {
	if !d.initialized || d.ended {
		d.lastErr = "dry engine: session not running"
		return errors.New(d.lastErr)
	}
	if t < d.t {
		d.lastErr = fmt.Sprintf("dry engine: time moved backwards (%.3f < %.3f)", t, d.t)
		return errors.New(d.lastErr)
	}
	d.t = t
	return nil
}

// BusVoltages reports 1 pu for every requested bus.
func (d *Dry) BusVoltages(names []string) ([]float64, error) {
	volts := make([]float64, len(names))
	for i := range volts {
		volts[i] = 1.0
	}
	return volts, nil
}

func (d *Dry) ComponentNames(category string) ([]string, error) {
	if category == "BUS" {
		return append([]string(nil), d.buses...), nil
	}
	return nil, nil
}

func (d *Dry) LastError() string { return d.lastErr }

func (d *Dry) End() error {
	d.ended = true
	return nil
}
