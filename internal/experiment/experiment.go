package experiment

import (
	"fmt"
	"sort"

	"gridexp/internal/settings"
	"gridexp/internal/sim"
)

const (
	maxNameLen        = 10
	maxTagLen         = 10
	maxDescriptionLen = 100
)

// SystemEntry pairs a network model with the short tag used in
// directory names. The model is an experiment-owned copy.
type SystemEntry struct {
	Tag   string
	Model sim.Model
}

// DisturbanceEntry is a batch of disturbances applied together, sorted
// by the disturbances' natural order at insertion time.
type DisturbanceEntry struct {
	Tag   string
	Batch []sim.Disturbance
}

// ControllerEntry is a batch of controllers acting together. The
// controllers are experiment-owned copies.
type ControllerEntry struct {
	Tag   string
	Batch []sim.Controller
}

// Randomization describes a network-parameter randomization. Parameter
// sampling itself is future work; the descriptor only names the axis
// entry.
type Randomization struct {
	Description string
}

// RandomizationEntry pairs a randomization with its directory tag.
type RandomizationEntry struct {
	Tag           string
	Randomization Randomization
}

// Case is one concrete combination of the four axes. Its identity is
// the directory path derived from the four tags.
type Case struct {
	System        SystemEntry
	Disturbances  DisturbanceEntry
	Controllers   ControllerEntry
	Randomization RandomizationEntry
	Path          string
}

// Experiment is the aggregate root: the four case axes, the observable
// registry, the settings maps, and the run parameters. Axis collections
// and settings grow monotonically; there is no removal API.
type Experiment struct {
	name        string
	description string
	root        string
	documented  bool
	stamp       string
	repetitions int
	repetition  int

	systems        []SystemEntry
	disturbances   []DisturbanceEntry
	controllers    []ControllerEntry
	randomizations []RandomizationEntry
	observables    observableSet

	settings settings.Map
	solver   settings.Map

	warningVoltages   [2]float64
	errorVoltages     [2]float64
	disturbanceWindow float64
	horizon           float64
	step              float64
}

// New creates an experiment with default settings, a 200 s horizon, a
// 20 ms step, and the built-in "Not random" randomization entry.
func New(name string) (*Experiment, error) {
	if len(name) > maxNameLen {
		return nil, fmt.Errorf("%w: %q", ErrNameLength, name)
	}
	return &Experiment{
		name:        name,
		description: "No description was provided.",
		root:        ".",
		stamp:       Timestamp(),
		repetitions: 1,
		repetition:  1,
		randomizations: []RandomizationEntry{
			{Tag: "Not random", Randomization: Randomization{Description: "Not random"}},
		},
		settings:          settings.Defaults(),
		solver:            settings.SolverDefaults(),
		warningVoltages:   [2]float64{0.85, 1.0},
		errorVoltages:     [2]float64{0.7, 1.2},
		disturbanceWindow: 5,
		horizon:           200,
		step:              20e-3,
	}, nil
}

// Describe sets the experiment's free-text description.
func (e *Experiment) Describe(description string) error {
	if len(description) > maxDescriptionLen {
		return ErrDescriptionLength
	}
	e.description = description
	return nil
}

// SetRoot sets the directory under which the experiment tree is built.
func (e *Experiment) SetRoot(dir string) {
	if dir != "" {
		e.root = dir
	}
}

// SetDocumented switches timestamped directory naming on or off.
func (e *Experiment) SetDocumented(on bool) { e.documented = on }

// SetRepetitions sets how many times the batch is meant to be run.
func (e *Experiment) SetRepetitions(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: got %d", ErrRepetitionCount, n)
	}
	e.repetitions = n
	return nil
}

// AdvanceRepetition bumps the current repetition counter. Nothing
// advances it implicitly; the caller drives repetition semantics.
func (e *Experiment) AdvanceRepetition() { e.repetition++ }

// SetStep sets the fixed run-loop step size in seconds.
func (e *Experiment) SetStep(h float64) error {
	if h <= 0 {
		return ErrInvalidStep
	}
	e.step = h
	return nil
}

// SetDisturbanceWindow sets the observation window after which the
// voltage stopping policy becomes active.
func (e *Experiment) SetDisturbanceWindow(w float64) { e.disturbanceWindow = w }

// SetErrorVoltages sets the band outside which a monitored voltage
// aborts the case.
func (e *Experiment) SetErrorVoltages(lo, hi float64) { e.errorVoltages = [2]float64{lo, hi} }

// SetWarningVoltages sets the advisory voltage band.
func (e *Experiment) SetWarningVoltages(lo, hi float64) { e.warningVoltages = [2]float64{lo, hi} }

// AddSystem registers an independent copy of the model under tag.
// Systems are order-insensitive; no sorting is applied.
func (e *Experiment) AddSystem(tag string, m sim.Model) error {
	if err := checkTag(tag); err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%w: model for %q", ErrNilPayload, tag)
	}
	e.systems = append(e.systems, SystemEntry{Tag: tag, Model: m.Clone()})
	return nil
}

// AddDisturbances appends a batch under tag, sorted by the
// disturbances' natural order. The batch references the immutable
// disturbance values; batches keep call order among themselves.
func (e *Experiment) AddDisturbances(tag string, ds ...sim.Disturbance) error {
	if err := checkTag(tag); err != nil {
		return err
	}
	for _, d := range ds {
		if d == nil {
			return fmt.Errorf("%w: disturbance in %q", ErrNilPayload, tag)
		}
	}
	batch := append([]sim.Disturbance(nil), ds...)
	sort.SliceStable(batch, func(i, j int) bool {
		if batch[i].Time() != batch[j].Time() {
			return batch[i].Time() < batch[j].Time()
		}
		return batch[i].String() < batch[j].String()
	})
	e.disturbances = append(e.disturbances, DisturbanceEntry{Tag: tag, Batch: batch})
	return nil
}

// AddControllers registers independent copies of the controllers as one
// batch under tag. Controllers are unordered within the batch.
func (e *Experiment) AddControllers(tag string, cs ...sim.Controller) error {
	if err := checkTag(tag); err != nil {
		return err
	}
	batch := make([]sim.Controller, 0, len(cs))
	for _, c := range cs {
		if c == nil {
			return fmt.Errorf("%w: controller in %q", ErrNilPayload, tag)
		}
		batch = append(batch, c.Clone())
	}
	e.controllers = append(e.controllers, ControllerEntry{Tag: tag, Batch: batch})
	return nil
}

// AddRandomization registers a randomization descriptor under tag.
// Parameter sampling is not implemented; the entry only extends the
// enumeration axis.
func (e *Experiment) AddRandomization(tag string, description string) error {
	if err := checkTag(tag); err != nil {
		return err
	}
	e.randomizations = append(e.randomizations,
		RandomizationEntry{Tag: tag, Randomization: Randomization{Description: description}})
	return nil
}

// AddObservables inserts observables into the sorted registry.
// Duplicates are tolerated on insertion and collapsed at serialization.
func (e *Experiment) AddObservables(obs ...sim.Observable) error {
	for _, o := range obs {
		if o == nil {
			return fmt.Errorf("%w: observable", ErrNilPayload)
		}
		e.observables.insert(o)
	}
	return nil
}

// SetSettings merges engine settings over the current map. Unknown keys
// fail the call and leave the map untouched.
func (e *Experiment) SetSettings(updates settings.Map) error {
	return e.settings.MergeSettings(updates)
}

// SetSolverAndHorizon merges solver settings and replaces the horizon.
func (e *Experiment) SetSolverAndHorizon(updates settings.Map, horizon float64) error {
	if horizon <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidHorizon, horizon)
	}
	if err := e.solver.MergeSolver(updates); err != nil {
		return err
	}
	e.horizon = horizon
	return nil
}

// Cases enumerates the Cartesian product of the four axes in run order:
// systems, then controllers, then disturbances, then randomizations.
func (e *Experiment) Cases() []Case {
	var out []Case
	for _, sys := range e.systems {
		for _, con := range e.controllers {
			for _, dis := range e.disturbances {
				for _, ran := range e.randomizations {
					out = append(out, Case{
						System:        sys,
						Disturbances:  dis,
						Controllers:   con,
						Randomization: ran,
						Path:          e.CasePath(sys.Tag, dis.Tag, con.Tag, ran.Tag),
					})
				}
			}
		}
	}
	return out
}

// Accessors used by the run loop and the CLI.

func (e *Experiment) Name() string                         { return e.name }
func (e *Experiment) Description() string                  { return e.description }
func (e *Experiment) Systems() []SystemEntry               { return e.systems }
func (e *Experiment) Controllers() []ControllerEntry       { return e.controllers }
func (e *Experiment) Disturbances() []DisturbanceEntry     { return e.disturbances }
func (e *Experiment) Randomizations() []RandomizationEntry { return e.randomizations }
func (e *Experiment) Repetitions() int                     { return e.repetitions }
func (e *Experiment) Repetition() int                      { return e.repetition }
func (e *Experiment) Horizon() float64                     { return e.horizon }
func (e *Experiment) Step() float64                        { return e.step }
func (e *Experiment) DisturbanceWindow() float64           { return e.disturbanceWindow }

// ErrorVoltages returns the abort band as (lo, hi).
func (e *Experiment) ErrorVoltages() (float64, float64) {
	return e.errorVoltages[0], e.errorVoltages[1]
}

// WarningVoltages returns the advisory band as (lo, hi).
func (e *Experiment) WarningVoltages() (float64, float64) {
	return e.warningVoltages[0], e.warningVoltages[1]
}

func checkTag(tag string) error {
	if len(tag) > maxTagLen {
		return fmt.Errorf("%w: %q", ErrTagLength, tag)
	}
	return nil
}
