package experiment

import (
	"fmt"
	"strings"

	"gridexp/internal/settings"
)

// SettingsText renders the settings file. One directive per line:
// "$" + name + value + ";", with the name and value columns
// left-justified to the widest entry plus one separator space. Widths
// are computed from the file's actual content; downstream tools rely on
// the alignment.
func (e *Experiment) SettingsText() string {
	names := settings.Names()

	nameWidth, valWidth := 0, 0
	for _, name := range names {
		val, ok := e.settings[name]
		if !ok {
			continue
		}
		if len(name) > nameWidth {
			nameWidth = len(name)
		}
		if n := len(val.String()); n > valWidth {
			valWidth = n
		}
	}
	nameWidth++
	valWidth++

	var b strings.Builder
	b.WriteString("# Simulation settings\n\n")
	for _, name := range names {
		val, ok := e.settings[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "$%-*s%-*s;\n", nameWidth, name, valWidth, val.String())
	}
	return b.String()
}

// SolverAndHorizonText renders the solver/horizon file: a CONTINUE
// SOLVER directive at t=0 and a STOP directive at the horizon, with
// both time fields right-justified to the wider of the two.
func (e *Experiment) SolverAndHorizonText() string {
	t0 := fmt.Sprintf("%.3f", 0.0)
	tf := fmt.Sprintf("%.3f", e.horizon)
	width := len(t0)
	if len(tf) > width {
		width = len(tf)
	}

	head := fmt.Sprintf("%*s CONTINUE SOLVER %s %s %s %s %s\n",
		width, t0,
		e.solver["disc_method"],
		e.solver["max_h"],
		e.solver["min_h"],
		e.solver["latency"],
		e.solver["upd_over"])
	tail := fmt.Sprintf("%*s STOP\n", width, tf)

	return head + tail
}

// ObservablesText renders the observables file: the deduplicated,
// sorted set, one string form per line. The output is identical for
// equal input sets regardless of insertion order.
func (e *Experiment) ObservablesText() string {
	var b strings.Builder
	for _, o := range e.observables.deduped() {
		b.WriteString(o.String())
		b.WriteByte('\n')
	}
	return b.String()
}
