package sim

// Observable is a requested measurement target (a bus voltage, a machine
// speed). Observables are value objects: two observables are the same
// measurement iff their string forms are equal, and the observables file
// lists them sorted by that form.
type Observable interface {
	String() string
}

// Disturbance is a perturbation scheduled at a simulated time. Batches
// are sorted by (time, string form), the disturbances' natural order.
type Disturbance interface {
	Time() float64
	String() string
}

// Controller acts on the model during a run.
type Controller interface {
	// OverridesOLTCs reports whether the controller replaces the default
	// tap-changer behavior.
	OverridesOLTCs() bool

	// Actions returns the engine directives the controller wants applied
	// at time t.
	Actions(t float64) []string

	// Clone returns an independent copy. Registered controllers are owned
	// by the experiment, never aliased with the caller's originals.
	Clone() Controller
}

// Detector derives higher-level signals from raw simulation state and
// may request observables of its own.
type Detector interface {
	RequiredObservables() []Observable
}

// OLTCDevice is a tap-changer device whose mechanical delays can be
// adjusted before a run.
type OLTCDevice interface {
	SetDelays(first, second float64)
}

// Model is the simulated network. The run loop mutates exactly one owned
// copy per case; implementations need not be safe for concurrent use.
type Model interface {
	AddControllers(cs []Controller)
	AddDisturbances(ds []Disturbance)

	// ExportNative writes the model in the engine's native data format.
	ExportNative(path string) error

	Detectors() []Detector
	OLTCDevices() []OLTCDevice

	UpdateDetectors()
	FollowControllers()
	SendDisturbancesUntil(t float64)

	Clone() Model
}

// Engine is one simulation session. A session is bound to one case's
// artifacts, initialized once, stepped forward, and finalized once.
type Engine interface {
	AddData(path string)
	AddObservables(path string)
	AddDisturbances(path string)
	AddInitTrace(path string)
	AddOutput(path string)
	AddTrajectory(path string)

	Init() error
	AdvanceTo(t float64) error
	BusVoltages(names []string) ([]float64, error)
	ComponentNames(category string) ([]string, error)
	LastError() string
	End() error
}

// EngineFactory creates a fresh session. The run loop calls it once per
// case so no engine state leaks across cases.
type EngineFactory func() Engine
