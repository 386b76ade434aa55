package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/cookiew/ilqgames/internal/config"
	"github.com/cookiew/ilqgames/internal/examples"
	"github.com/cookiew/ilqgames/internal/metrics"
	"github.com/cookiew/ilqgames/internal/optim"
	"github.com/cookiew/ilqgames/internal/solver"
	"github.com/cookiew/ilqgames/internal/storage"
	"github.com/cookiew/ilqgames/internal/tui"
	"github.com/cookiew/ilqgames/internal/viz"
)

var (
	dataDir        string
	dt             float64
	steps          int
	maxIterations  int
	configFile     string
	finalTime      float64
	plannerRuntime float64
	frameRate      int
	plotDim        int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ilqgames",
		Short: "iterative linear-quadratic game solver",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ilqgames", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "solve a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep (0 = scenario default)")
	runCmd.Flags().IntVar(&steps, "steps", 0, "horizon steps (0 = scenario default)")
	runCmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "iteration cap (0 = default)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	recedingCmd := &cobra.Command{
		Use:   "receding [scenario]",
		Short: "receding-horizon replanning simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runReceding,
	}
	recedingCmd.Flags().Float64Var(&finalTime, "final-time", config.DefaultFinalTime, "simulated time (s)")
	recedingCmd.Flags().Float64Var(&plannerRuntime, "planner-runtime", config.DefaultPlannerRuntime, "per-solve wall-clock budget (s)")
	recedingCmd.Flags().Float64Var(&dt, "dt", 0, "timestep (0 = scenario default)")
	recedingCmd.Flags().IntVar(&steps, "steps", 0, "horizon steps (0 = scenario default)")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "receding-horizon simulation with live replay",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&finalTime, "final-time", config.DefaultFinalTime, "simulated time (s)")
	liveCmd.Flags().Float64Var(&plannerRuntime, "planner-runtime", config.DefaultPlannerRuntime, "per-solve wall-clock budget (s)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot one state dimension of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotDim, "dim", 0, "state dimension")

	svgCmd := &cobra.Command{
		Use:   "export-svg [scenario] [file]",
		Short: "solve and export planar trajectories to SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [scenario]",
		Short: "grid-search solver parameters",
		Args:  cobra.ExactArgs(1),
		RunE:  tuneScenario,
	}

	rootCmd.AddCommand(runCmd, recedingCmd, liveCmd, listCmd, plotCmd, svgCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildScenario(name string) (examples.Scenario, *solver.Problem, error) {
	params := solver.DefaultParams()
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return examples.Scenario{}, nil, err
		}
		params = cfg.Solver
		if dt == 0 {
			dt = cfg.Dt
		}
		if steps == 0 {
			steps = cfg.Steps
		}
	}
	if maxIterations > 0 {
		params.MaxIterations = maxIterations
	}

	scenario, err := examples.NewRegistry().Get(name)
	if err != nil {
		return examples.Scenario{}, nil, err
	}
	problem, err := scenario.Build(steps, dt, params)
	if err != nil {
		return examples.Scenario{}, nil, err
	}
	return scenario, problem, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, problem, err := buildScenario(args[0])
	if err != nil {
		return err
	}

	start := time.Now()
	log, err := problem.Solve(0)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("%s: %s after %d iterates (%.2fs)",
		scenario.Name, log.Termination, len(log.Iterates), elapsed.Seconds())))
	for i, c := range log.Final().Costs {
		fmt.Printf("  player %d cost: %.4f\n", i+1, c)
	}
	if log.Warnings > 0 {
		fmt.Println(viz.WarnStyle.Render(fmt.Sprintf("  %d numerical warnings", log.Warnings)))
	}
	if len(scenario.PositionDims) > 1 {
		fmt.Printf("  min proximity: %.2f m\n",
			metrics.MinProximityAlong(log.FinalOperatingPoint(), scenario.PositionDims))
	}
	fmt.Printf("  mean |u|: %.4f\n", metrics.ControlEffort(log.FinalOperatingPoint()))

	fmt.Println()
	fmt.Println(viz.PlotCosts(log))
	if len(scenario.PositionDims) > 0 {
		fmt.Println(viz.TopView(log.FinalOperatingPoint(), scenario.PositionDims, 80, 24))
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(scenario.Name, log)
	if err != nil {
		return err
	}
	fmt.Printf("saved run %s\n", runID)
	return nil
}

func runReceding(cmd *cobra.Command, args []string) error {
	scenario, problem, err := buildScenario(args[0])
	if err != nil {
		return err
	}

	prox := metrics.NewMinProximity(scenario.PositionDims)
	logs, err := solver.RecedingHorizonSimulator(finalTime,
		time.Duration(plannerRuntime*float64(time.Second)), problem, prox)
	if err != nil {
		return err
	}

	fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("%s: %d receding-horizon solves over %.1fs",
		scenario.Name, len(logs), finalTime)))
	for idx, log := range logs {
		fmt.Printf("  solve %2d: %s after %d iterates\n", idx, log.Termination, len(log.Iterates))
	}
	if len(scenario.PositionDims) > 1 {
		fmt.Printf("  min proximity along true trajectory: %.2f m\n", prox.Value())
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(scenario.Name+"_receding", logs[len(logs)-1])
	if err != nil {
		return err
	}
	fmt.Printf("saved final solve as %s\n", runID)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	scenario, problem, err := buildScenario(args[0])
	if err != nil {
		return err
	}
	if len(scenario.PositionDims) == 0 {
		return fmt.Errorf("scenario %s has no planar positions to draw", scenario.Name)
	}

	recorder := tui.NewRecorder(scenario.PositionDims)
	if _, err := solver.RecedingHorizonSimulator(finalTime,
		time.Duration(plannerRuntime*float64(time.Second)), problem, recorder); err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(scenario.Name, recorder.Samples(), frameRate))
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	metas, err := st.List()
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println("no runs stored")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tSTEPS\tITERATES\tTERMINATION\tWARNINGS")
	for _, m := range metas {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%d\n",
			m.ID, m.Scenario, m.Steps, m.Iterations, m.Termination, m.Warnings)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	_, states, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 || plotDim >= len(states[0]) {
		return fmt.Errorf("state dimension %d out of range", plotDim)
	}

	data := make([]float64, len(states))
	for i := range states {
		data[i] = states[i][plotDim]
	}
	fmt.Printf("run %s (%s)\n\n", meta.ID, meta.Scenario)
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("x%d over time", plotDim))))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	scenario, problem, err := buildScenario(args[0])
	if err != nil {
		return err
	}
	if len(scenario.PositionDims) == 0 {
		return fmt.Errorf("scenario %s has no planar positions to draw", scenario.Name)
	}

	log, err := problem.Solve(0)
	if err != nil {
		return err
	}

	svg := viz.TrajectoryToSVG(log.FinalOperatingPoint(), scenario.PositionDims, 800, 600)
	out := args[1]
	if filepath.Ext(out) == "" {
		out += ".svg"
	}
	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

func tuneScenario(cmd *cobra.Command, args []string) error {
	name := args[0]

	search := optim.NewGridSearch(
		[]string{"line_search_shrink", "trust_region_delta"},
		[][]float64{{0.25, 0.5, 0.75}, {0.5, 1.0, 2.0}},
	)

	bestParams, bestMerit, err := search.Search(context.Background(),
		func(assignment map[string]float64) (*solver.Problem, error) {
			params := solver.DefaultParams()
			params.LineSearchShrink = assignment["line_search_shrink"]
			params.TrustRegionDelta = assignment["trust_region_delta"]

			scenario, err := examples.NewRegistry().Get(name)
			if err != nil {
				return nil, err
			}
			return scenario.Build(0, 0, params)
		})
	if err != nil {
		return err
	}

	fmt.Printf("best merit %.4f with:\n", bestMerit)
	for k, v := range bestParams {
		fmt.Printf("  %s = %g\n", k, v)
	}
	return nil
}
