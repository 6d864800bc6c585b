package experiment

import (
	"fmt"
	"os"
	"path/filepath"

	"gridexp/internal/interaction"
)

// Generated input files.
const (
	SystemFile       = "system.dat"
	SettingsFile     = "settings.dat"
	ObservablesFile  = "observables.dat"
	DisturbancesFile = "disturbances.dat"
)

// Engine-produced output files.
const (
	InitTraceFile   = "init.trace"
	OutputTraceFile = "output.trace"
	TrajectoryFile  = "obs.trj"
)

// Per-case directory names.
const (
	InputDir       = "0_Input"
	OutputDir      = "1_Output"
	VisualsDir     = "2_Visualizations"
	ObservablesDir = "3_Explicit observables"
	MetricsDir     = "4_Metrics"
	DetectorsDir   = "5_Detectors"
)

// Per-case bookkeeping files.
const (
	DescriptionFile = "6_description.txt"
	LogFile         = "7_log.txt"
	AnalysisFile    = "8_analysis.txt"
	SummaryFile     = "9_summary.txt"
)

func caseChildDirs() []string {
	return []string{
		InputDir,
		OutputDir,
		VisualsDir,
		ObservablesDir,
		MetricsDir,
		DetectorsDir,
	}
}

// Dir returns the experiment's root directory name. In documented mode
// the name is prefixed with the construction timestamp and, when more
// than one repetition is configured, suffixed with the current
// repetition number.
func (e *Experiment) Dir() string {
	if !e.documented {
		return e.name
	}
	if e.repetitions == 1 {
		return fmt.Sprintf("%s %s", e.stamp, e.name)
	}
	return fmt.Sprintf("%s %s (%d)", e.stamp, e.name, e.repetition)
}

// CasePath returns the case directory for the four axis tags. Distinct
// axis entries sharing all four tags collide; unique tags per axis are
// the caller's obligation.
func (e *Experiment) CasePath(systemTag, disturbanceTag, controllerTag, randomizationTag string) string {
	caseName := fmt.Sprintf("%s, %s, %s, %s",
		systemTag, disturbanceTag, controllerTag, randomizationTag)
	return filepath.Join(e.root, e.Dir(), caseName)
}

// InputPath returns the path of an input artifact inside a case dir.
func InputPath(caseDir, name string) string {
	return filepath.Join(caseDir, InputDir, name)
}

// OutputPath returns the path of an engine output inside a case dir.
func OutputPath(caseDir, name string) string {
	return filepath.Join(caseDir, OutputDir, name)
}

// InitFilesAndDirs enumerates every case, creates its directory tree,
// and writes the generated input artifacts. The operation is
// idempotent: existing directories are kept and artifact files are
// rewritten with identical content.
func (e *Experiment) InitFilesAndDirs() error {
	for _, sys := range e.systems {
		for _, dis := range e.disturbances {
			for _, con := range e.controllers {
				for _, ran := range e.randomizations {
					caseDir := e.CasePath(sys.Tag, dis.Tag, con.Tag, ran.Tag)
					if err := e.initCase(caseDir); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func (e *Experiment) initCase(caseDir string) error {
	for _, child := range caseChildDirs() {
		if err := os.MkdirAll(filepath.Join(caseDir, child), 0755); err != nil {
			return fmt.Errorf("experiment: create %s: %w", child, err)
		}
	}
	for _, category := range interaction.Categories() {
		dir := filepath.Join(caseDir, ObservablesDir, category)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("experiment: create %s: %w", dir, err)
		}
	}

	files := map[string]string{
		InputPath(caseDir, ObservablesFile):  e.ObservablesText(),
		InputPath(caseDir, SettingsFile):     e.SettingsText(),
		InputPath(caseDir, DisturbancesFile): e.SolverAndHorizonText(),

		filepath.Join(caseDir, DescriptionFile): e.description + "\n",
	}
	for path, text := range files {
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			return fmt.Errorf("experiment: write %s: %w", path, err)
		}
	}
	return nil
}
