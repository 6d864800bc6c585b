package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gridexp/internal/experiment"
	"gridexp/internal/interaction"
	"gridexp/internal/model"
	"gridexp/internal/settings"
	"gridexp/internal/sim"
)

// SystemConfig names an exported engine-native data file as one system
// axis entry.
type SystemConfig struct {
	Tag  string `yaml:"tag"`
	File string `yaml:"file"`
}

// EventConfig is one disturbance inside a batch.
type EventConfig struct {
	Time      float64 `yaml:"time"`
	Directive string  `yaml:"directive"`
}

// BatchConfig is a tagged batch of disturbances applied together.
type BatchConfig struct {
	Tag    string        `yaml:"tag"`
	Events []EventConfig `yaml:"events"`
}

// ObservableConfig is one explicit observable request.
type ObservableConfig struct {
	Category string `yaml:"category"`
	Target   string `yaml:"target"`
	Quantity string `yaml:"quantity"`
}

// Config is a YAML experiment definition.
type Config struct {
	Name              string             `yaml:"name"`
	Description       string             `yaml:"description"`
	Root              string             `yaml:"root"`
	Documented        bool               `yaml:"documented"`
	Repetitions       int                `yaml:"repetitions"`
	Horizon           float64            `yaml:"horizon"`
	Step              float64            `yaml:"step"`
	DisturbanceWindow float64            `yaml:"disturbance_window"`
	ErrorVoltages     []float64          `yaml:"error_voltages"`
	WarningVoltages   []float64          `yaml:"warning_voltages"`
	Settings          map[string]any     `yaml:"settings"`
	Solver            map[string]any     `yaml:"solver"`
	Systems           []SystemConfig     `yaml:"systems"`
	Disturbances      []BatchConfig      `yaml:"disturbances"`
	Observables       []ObservableConfig `yaml:"observables"`
	Randomizations    []string           `yaml:"randomizations"`
}

// DefaultConfig returns the defaults applied under a loaded file.
func DefaultConfig() *Config {
	return &Config{
		Name:        "exp",
		Repetitions: 1,
	}
}

// Load reads a YAML experiment definition.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the definition back out as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Build constructs the experiment the definition describes. A
// definition with no controller batches gets a single empty batch
// tagged "No control" so the case product is non-empty.
func (c *Config) Build() (*experiment.Experiment, error) {
	exp, err := experiment.New(c.Name)
	if err != nil {
		return nil, err
	}
	exp.SetRoot(c.Root)
	exp.SetDocumented(c.Documented)
	if c.Repetitions > 0 {
		if err := exp.SetRepetitions(c.Repetitions); err != nil {
			return nil, err
		}
	}
	if c.Description != "" {
		if err := exp.Describe(c.Description); err != nil {
			return nil, err
		}
	}
	if c.Step > 0 {
		if err := exp.SetStep(c.Step); err != nil {
			return nil, err
		}
	}
	if c.DisturbanceWindow > 0 {
		exp.SetDisturbanceWindow(c.DisturbanceWindow)
	}
	if len(c.ErrorVoltages) == 2 {
		exp.SetErrorVoltages(c.ErrorVoltages[0], c.ErrorVoltages[1])
	}
	if len(c.WarningVoltages) == 2 {
		exp.SetWarningVoltages(c.WarningVoltages[0], c.WarningVoltages[1])
	}

	if len(c.Settings) > 0 {
		m, err := toSettings(c.Settings)
		if err != nil {
			return nil, err
		}
		if err := exp.SetSettings(m); err != nil {
			return nil, err
		}
	}
	solver := settings.Map{}
	if len(c.Solver) > 0 {
		solver, err = toSettings(c.Solver)
		if err != nil {
			return nil, err
		}
	}
	horizon := c.Horizon
	if horizon == 0 {
		horizon = exp.Horizon()
	}
	if err := exp.SetSolverAndHorizon(solver, horizon); err != nil {
		return nil, err
	}

	for _, sys := range c.Systems {
		if err := exp.AddSystem(sys.Tag, model.NewFile(sys.Tag, sys.File)); err != nil {
			return nil, err
		}
	}
	for _, batch := range c.Disturbances {
		ds := make([]sim.Disturbance, len(batch.Events))
		for i, ev := range batch.Events {
			ds[i] = interaction.Disturbance{T: ev.Time, Directive: ev.Directive}
		}
		if err := exp.AddDisturbances(batch.Tag, ds...); err != nil {
			return nil, err
		}
	}
	for _, obs := range c.Observables {
		o := interaction.Observable{
			Category: obs.Category,
			Target:   obs.Target,
			Quantity: obs.Quantity,
		}
		if err := exp.AddObservables(o); err != nil {
			return nil, err
		}
	}
	for _, tag := range c.Randomizations {
		if err := exp.AddRandomization(tag, tag); err != nil {
			return nil, err
		}
	}

	if err := exp.AddControllers("No control"); err != nil {
		return nil, err
	}

	return exp, nil
}

func toSettings(raw map[string]any) (settings.Map, error) {
	out := settings.Map{}
	for key, val := range raw {
		v, err := toValue(val)
		if err != nil {
			return nil, fmt.Errorf("config: setting %s: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

func toValue(val any) (settings.Value, error) {
	switch v := val.(type) {
	case string:
		return settings.Token(v), nil
	case int:
		return settings.Scalar(v), nil
	case float64:
		return settings.Scalar(v), nil
	case []any:
		tuple := make(settings.Tuple, len(v))
		for i, item := range v {
			switch n := item.(type) {
			case int:
				tuple[i] = float64(n)
			case float64:
				tuple[i] = n
			default:
				return nil, fmt.Errorf("non-numeric tuple component %v", item)
			}
		}
		return tuple, nil
	default:
		return nil, fmt.Errorf("unsupported value %v", val)
	}
}
