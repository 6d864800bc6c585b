// Package model provides a file-backed implementation of the model
// contract, for experiments enumerated over systems that were already
// exported to the engine's native data format.
package model

import (
	"fmt"
	"os"
	"sort"

	"gridexp/internal/sim"
)

// FileModel wraps an exported engine-native data file. It has no
// detectors and no tap-changer devices of its own; controllers and
// disturbances merged in by the run loop are tracked so the per-step
// feed calls behave like a live model's.
type FileModel struct {
	name        string
	source      string
	controllers []sim.Controller
	pending     []sim.Disturbance
	sent        int
}

// NewFile returns a model backed by the data file at source.
func NewFile(name, source string) *FileModel {
	return &FileModel{name: name, source: source}
}

// Name returns the model's name.
func (m *FileModel) Name() string { return m.name }

// Source returns the path of the backing data file.
func (m *FileModel) Source() string { return m.source }

func (m *FileModel) AddControllers(cs []sim.Controller) {
	m.controllers = append(m.controllers, cs...)
}

func (m *FileModel) AddDisturbances(ds []sim.Disturbance) {
	m.pending = append(m.pending, ds...)
	sort.SliceStable(m.pending, func(i, j int) bool {
		return m.pending[i].Time() < m.pending[j].Time()
	})
	m.sent = 0
}

// ExportNative copies the backing file to path.
func (m *FileModel) ExportNative(path string) error {
	data, err := os.ReadFile(m.source)
	if err != nil {
		return fmt.Errorf("model %s: read source: %w", m.name, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("model %s: export: %w", m.name, err)
	}
	return nil
}

func (m *FileModel) Detectors() []sim.Detector     { return nil }
func (m *FileModel) OLTCDevices() []sim.OLTCDevice { return nil }
func (m *FileModel) UpdateDetectors()              {}
func (m *FileModel) FollowControllers()            {}

// SendDisturbancesUntil consumes the pending queue up to t. The
// disturbances reach the engine through the generated input file; the
// cursor only mirrors what a live model would have pushed by now.
func (m *FileModel) SendDisturbancesUntil(t float64) {
	for m.sent < len(m.pending) && m.pending[m.sent].Time() <= t {
		m.sent++
	}
}

// Sent reports how many disturbances have been pushed so far.
func (m *FileModel) Sent() int { return m.sent }

// Clone returns an independent copy sharing only the immutable
// disturbance values.
func (m *FileModel) Clone() sim.Model {
	c := &FileModel{name: m.name, source: m.source, sent: m.sent}
	c.controllers = make([]sim.Controller, len(m.controllers))
	for i, ctrl := range m.controllers {
		c.controllers[i] = ctrl.Clone()
	}
	c.pending = append([]sim.Disturbance(nil), m.pending...)
	return c
}
