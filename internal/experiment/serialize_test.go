package experiment

import (
	"sort"
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	"gridexp/internal/interaction"
	"gridexp/internal/settings"
)

func TestObservablesTextOrderIndependent(t *testing.T) {
	g := NewWithT(t)

	obs := []interaction.Observable{
		{Category: interaction.CategorySync, Target: "g2", Quantity: "omega"},
		{Category: interaction.CategoryBus, Target: "B1"},
		{Category: interaction.CategoryBus, Target: "B2"},
	}

	forward, _ := New("fwd")
	for _, o := range obs {
		forward.AddObservables(o)
	}

	reversed, _ := New("rev")
	for i := len(obs) - 1; i >= 0; i-- {
		reversed.AddObservables(obs[i])
		// Duplicate insertions must not change the serialized set.
		reversed.AddObservables(obs[i])
	}

	g.Expect(forward.ObservablesText()).To(Equal(reversed.ObservablesText()))

	lines := strings.Split(strings.TrimRight(forward.ObservablesText(), "\n"), "\n")
	g.Expect(lines).To(HaveLen(3))
	g.Expect(sort.StringsAreSorted(lines)).To(BeTrue(), "lines must be sorted")
}

func TestSettingsTextFormat(t *testing.T) {
	g := NewWithT(t)

	exp, _ := New("exp")
	g.Expect(exp.SetSettings(settings.Map{
		"NB_THREADS": settings.Scalar(4),
		"LATENCY":    settings.Tuple{0.00001, 1},
	})).To(Succeed())

	text := exp.SettingsText()
	g.Expect(text).To(HavePrefix("# Simulation settings\n\n"))
	g.Expect(text).NotTo(ContainSubstring("e-"), "no scientific notation")
	g.Expect(text).To(ContainSubstring("$NB_THREADS"))
	g.Expect(text).To(ContainSubstring("0.00001 1"))

	// Every directive line is padded to the same width, so the
	// terminating semicolons line up.
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	width := -1
	for _, line := range lines {
		if !strings.HasPrefix(line, "$") {
			continue
		}
		g.Expect(line).To(HaveSuffix(";"))
		if width < 0 {
			width = len(line)
		}
		g.Expect(line).To(HaveLen(width))
	}
	g.Expect(width).To(BeNumerically(">", 0))
}

func TestSettingsTextCanonicalOrder(t *testing.T) {
	g := NewWithT(t)

	exp, _ := New("exp")
	text := exp.SettingsText()

	idxPlot := strings.Index(text, "$PLOT_STEP")
	idxSolver := strings.Index(text, "$SPARSE_SOLVER")
	g.Expect(idxPlot).To(BeNumerically(">=", 0))
	g.Expect(idxSolver).To(BeNumerically(">", idxPlot))
}

func TestSolverAndHorizonText(t *testing.T) {
	g := NewWithT(t)

	exp, _ := New("exp")
	g.Expect(exp.SetSolverAndHorizon(settings.Map{}, 200)).To(Succeed())

	text := exp.SolverAndHorizonText()
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	g.Expect(lines).To(HaveLen(2))

	g.Expect(lines[0]).To(Equal("  0.000 CONTINUE SOLVER BD 0.001 0.001 0 ABL"))
	g.Expect(lines[1]).To(Equal("200.000 STOP"))
}
