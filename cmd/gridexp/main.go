package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"gridexp/internal/catalog"
	"gridexp/internal/config"
	"gridexp/internal/engine"
	"gridexp/internal/experiment"
	"gridexp/internal/runner"
)

var (
	configFile string
	dbPath     string
	dryRun     bool
	dryBuses   []string
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff"))
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	warnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridexp",
		Short: "power-system experiment orchestration",
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "experiment.yaml", "experiment definition file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", filepath.Join(".gridexp", "catalog.db"), "case catalog database")

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "list the cases the experiment enumerates",
		RunE:  planCases,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "create case directories and input artifacts",
		RunE:  initLayout,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run every case",
		RunE:  runCases,
	}
	runCmd.Flags().BoolVar(&dryRun, "dry", false, "use the built-in dry engine")
	runCmd.Flags().StringSliceVar(&dryBuses, "dry-bus", nil, "bus names the dry engine reports")

	runsCmd := &cobra.Command{
		Use:   "runs [experiment]",
		Short: "list recorded case outcomes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listRuns,
	}

	rootCmd.AddCommand(planCmd, initCmd, runCmd, runsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func planCases(cmd *cobra.Command, args []string) error {
	exp, err := buildExperiment()
	if err != nil {
		return err
	}

	cases := exp.Cases()
	fmt.Println(headerStyle.Render(fmt.Sprintf("%s: %d case(s)", exp.Name(), len(cases))))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYSTEM\tDISTURBANCE\tCONTROLLER\tRANDOMIZATION\tPATH")
	for _, c := range cases {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.System.Tag, c.Disturbances.Tag, c.Controllers.Tag,
			c.Randomization.Tag, c.Path)
	}
	return w.Flush()
}

func initLayout(cmd *cobra.Command, args []string) error {
	exp, err := buildExperiment()
	if err != nil {
		return err
	}
	if err := exp.InitFilesAndDirs(); err != nil {
		return err
	}
	fmt.Printf("%s %d case(s) under %s\n",
		okStyle.Render("initialized"), len(exp.Cases()), exp.Dir())
	return nil
}

func runCases(cmd *cobra.Command, args []string) error {
	if !dryRun {
		return fmt.Errorf("no engine binding is configured; rerun with --dry, or drive internal/runner with your engine session")
	}

	exp, err := buildExperiment()
	if err != nil {
		return err
	}

	r := runner.New(exp, engine.Factory(dryBuses...))
	r.SetProgress(func(index, total int, t, horizon float64) {
		perc := int(100 * t / horizon)
		fmt.Printf("\rcase %d/%d: %3d%%", index+1, total, perc)
	})

	results, err := r.Run(context.Background())
	fmt.Println()
	if err != nil {
		return err
	}

	if err := recordResults(exp.Name(), results); err != nil {
		return err
	}

	for _, res := range results {
		fmt.Printf("%s %s\n", renderStatus(res.Status), res.Path)
		if res.LastError != "" {
			fmt.Printf("  %s\n", res.LastError)
		}
	}
	return nil
}

func recordResults(name string, results []runner.CaseResult) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return err
	}
	store, err := catalog.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, res := range results {
		entry := catalog.Entry{
			Experiment:       name,
			CasePath:         res.Path,
			SystemTag:        res.SystemTag,
			DisturbanceTag:   res.DisturbanceTag,
			ControllerTag:    res.ControllerTag,
			RandomizationTag: res.RandomizationTag,
			Status:           string(res.Status),
			LastError:        res.LastError,
			StoppedAt:        res.StoppedAt,
			Steps:            res.Steps,
			StartedAt:        res.StartedAt,
			Elapsed:          res.Elapsed,
		}
		if err := store.Record(entry); err != nil {
			return err
		}
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	store, err := catalog.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(name)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no recorded cases")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EXPERIMENT\tCASE\tSTATUS\tSTOPPED\tSTEPS\tSTARTED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%d\t%s\n",
			e.Experiment, filepath.Base(e.CasePath), e.Status,
			e.StoppedAt, e.Steps, e.StartedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func buildExperiment() (*experiment.Experiment, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", configFile, err)
	}
	return cfg.Build()
}

func renderStatus(s runner.Status) string {
	switch s {
	case runner.StatusCompleted:
		return okStyle.Render(string(s))
	case runner.StatusDiverged:
		return warnStyle.Render(string(s))
	default:
		return failStyle.Render(string(s))
	}
}
