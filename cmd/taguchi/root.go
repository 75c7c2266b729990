package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/marijaaleksic/taguchi-engine/internal/analysis"
	"github.com/marijaaleksic/taguchi-engine/internal/clierr"
	"github.com/marijaaleksic/taguchi-engine/internal/config"
	"github.com/marijaaleksic/taguchi-engine/internal/design"
	"github.com/marijaaleksic/taguchi-engine/internal/logging"
	"github.com/marijaaleksic/taguchi-engine/internal/model"
	"github.com/marijaaleksic/taguchi-engine/internal/report"
	"github.com/marijaaleksic/taguchi-engine/internal/runner"
	"github.com/marijaaleksic/taguchi-engine/internal/statefile"
	"github.com/spf13/cobra"
)

// engineVersion is stamped into every persisted ExperimentState so
// --recover can, in principle, detect a state file written by an
// incompatible engine build.
const engineVersion = "0.1.0"

var (
	configPath     string
	recoverPath    string
	reportHTMLPath string
	reportMDPath   string
	outputDirFlag  string
	verboseFlag    bool
)

var rootCmd = &cobra.Command{
	Use:   "taguchi",
	Short: "Robust parameter optimization via the Taguchi method",
	Long: `taguchi drives orthogonal-array experiments against an external target
executable, collects repeated-measurement metrics under simulated noise,
and reports S/N ratios, main/interaction effects, pooled ANOVA, and
optimal-configuration predictions with confidence intervals.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "start a new experiment from a YAML config file")
	rootCmd.Flags().StringVar(&recoverPath, "recover", "", "resume an experiment from a persisted state file")
	rootCmd.Flags().StringVar(&reportHTMLPath, "report-html", "", "render an HTML report from a persisted state file")
	rootCmd.Flags().StringVar(&reportMDPath, "report-md", "", "render a Markdown report from a persisted state file")
	rootCmd.Flags().StringVar(&outputDirFlag, "output-dir", "", "override the configured output directory")
	rootCmd.Flags().BoolVar(&verboseFlag, "verbose", false, "enable debug-level logging and target output capture")
}

// Execute runs the root command and returns the process exit code per
// spec.md §6's numeric contract.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return clierr.CodeSuccess
	}
	exit := clierr.Classify(err)
	fmt.Fprintln(os.Stderr, "taguchi:", exit.Error())
	return exit.Code
}

func runRoot(cmd *cobra.Command, args []string) error {
	modes := 0
	for _, v := range []string{configPath, recoverPath, reportHTMLPath, reportMDPath} {
		if v != "" {
			modes++
		}
	}
	if modes != 1 {
		return clierr.Newf(clierr.CodeArgument, "exactly one of --config, --recover, --report-html, --report-md is required")
	}

	switch {
	case configPath != "":
		return runNewExperiment(configPath)
	case recoverPath != "":
		return runRecover(recoverPath)
	case reportHTMLPath != "":
		return renderReport(reportHTMLPath, report.WriteHTML, ".html")
	default:
		return renderReport(reportMDPath, report.WriteMarkdown, ".md")
	}
}

func runNewExperiment(path string) error {
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	outDir := loaded.Raw.OutputDirectory
	if outputDirFlag != "" {
		outDir = outputDirFlag
	}
	verbose := verboseFlag || loaded.Raw.Verbose

	oaDesign, err := design.Build(loaded.ControlFactors, loaded.Interactions)
	if err != nil {
		return err
	}
	configs, err := design.GenerateConfigurations(oaDesign, loaded.ControlFactors)
	if err != nil {
		return err
	}

	now := startTime()
	state := &model.ExperimentState{
		EngineVersion:              engineVersion,
		CreatedAt:                  now,
		UpdatedAt:                  now,
		OriginalConfigHash:         loaded.ConfigHash,
		Repetitions:                loaded.Raw.Repetitions,
		ControlFactors:             loaded.ControlFactors,
		NoiseFactors:               loaded.NoiseFactors,
		Interactions:               loaded.Interactions,
		Metrics:                    loaded.Metrics,
		TargetExecutablePath:       loaded.Raw.TargetExecutablePath,
		FixedCommandLineArguments:  toModelFixedArgs(loaded.Raw.FixedCommandLineArguments),
		FixedEnvironmentVariables:  loaded.Raw.FixedEnvironmentVariables,
		OutputDirectory:            outDir,
		Verbose:                    verbose,
		ShowTargetOutput:           loaded.Raw.ShowTargetOutput,
		PoolingThresholdPercentage: loaded.Raw.PoolingThresholdPercentage,
		Design:                     oaDesign,
		NextRunIndex:               0,
	}

	return executeExperiment(state, configs)
}

func runRecover(path string) error {
	statePath, err := resolveRecoverPath(path)
	if err != nil {
		return err
	}
	state, err := statefile.Load(statePath)
	if err != nil {
		return err
	}
	if outputDirFlag != "" {
		state.OutputDirectory = outputDirFlag
	}
	if verboseFlag {
		state.Verbose = true
	}
	if state.Complete() {
		return recoverAnalysisOnly(&state)
	}

	configs, err := design.GenerateConfigurations(state.Design, state.ControlFactors)
	if err != nil {
		return err
	}
	return executeExperiment(&state, configs)
}

// resolveRecoverPath implements --recover's "resume from the latest
// checkpoint" shorthand: when path names a directory, it is resolved to
// that directory's newest state-*.yaml via statefile.Latest rather than
// loaded directly. An explicit state file path is returned unchanged.
func resolveRecoverPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", clierr.New(clierr.CodeFileNotFound, fmt.Errorf("resolving --recover path: %w", err))
	}
	if !info.IsDir() {
		return path, nil
	}
	return statefile.Latest(path)
}

// recoverAnalysisOnly handles --recover on a state file whose runs already
// completed: nothing to invoke, just (re)produce reports.
func recoverAnalysisOnly(state *model.ExperimentState) error {
	analyze(state)
	persister := statefile.Store{Dir: state.OutputDirectory}
	if err := persister.Persist(*state); err != nil {
		return err
	}
	report.PrintConsoleSummary(os.Stdout, *state)
	return nil
}

func executeExperiment(state *model.ExperimentState, configs []model.ParameterSettings) error {
	logger := logging.New("engine", state.Verbose)
	persister := statefile.Store{Dir: state.OutputDirectory}
	target := runner.ProcessRunner{
		ExecutablePath: state.TargetExecutablePath,
		ShowOutput:     state.ShowTargetOutput,
		Logger:         logger,
	}

	orch := &runner.Orchestrator{
		Target:        target,
		Persister:     persister,
		Logger:        logger,
		Configs:       configs,
		ControlFactor: state.ControlFactors,
		NoiseFactors:  state.NoiseFactors,
		FixedArgs:     toArgTokens(state.FixedCommandLineArguments),
		FixedEnv:      state.FixedEnvironmentVariables,
		Repetitions:   state.Repetitions,
		Verbose:       state.Verbose,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cancel := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(cancel)
	}()

	if err := orch.Run(ctx, state, cancel); err != nil {
		if err == context.Canceled {
			fmt.Fprintln(os.Stderr, "taguchi: interrupted, state saved for --recover")
			return nil
		}
		return clierr.New(clierr.CodeOperational, err)
	}

	analyze(state)
	state.UpdatedAt = startTime()
	if err := persister.Persist(*state); err != nil {
		return err
	}
	report.PrintConsoleSummary(os.Stdout, *state)
	return nil
}

func analyze(state *model.ExperimentState) {
	state.Reports = analysis.Run(state.Design, state.ControlFactors, state.Interactions, state.Metrics, state.RawMetrics, state.PoolingThresholdPercentage, analysis.DefaultWorkerLimit)
}

func renderReport(statePath string, write func(w io.Writer, state model.ExperimentState) error, ext string) error {
	state, err := statefile.Load(statePath)
	if err != nil {
		return err
	}
	outDir := outputDirFlag
	if outDir == "" {
		outDir = filepath.Dir(statePath)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return clierr.New(clierr.CodeOperational, err)
	}
	outPath := filepath.Join(outDir, baseName(statePath)+ext)
	f, err := os.Create(outPath)
	if err != nil {
		return clierr.New(clierr.CodeOperational, err)
	}
	defer f.Close()

	if err := write(f, state); err != nil {
		return clierr.New(clierr.CodeOperational, err)
	}
	fmt.Fprintln(os.Stdout, "wrote", outPath)
	return nil
}

func baseName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}

func toArgTokens(args []model.FixedArgument) []runner.ArgToken {
	out := make([]runner.ArgToken, len(args))
	for i, a := range args {
		out[i] = runner.ArgToken{Key: a.Key, Value: a.Value}
	}
	return out
}

func toModelFixedArgs(args config.FixedArgs) []model.FixedArgument {
	out := make([]model.FixedArgument, len(args))
	for i, a := range args {
		out[i] = model.FixedArgument{Key: a.Key, Value: a.Value}
	}
	return out
}

// startTime is a thin wrapper around time.Now so it is the single call site
// to adapt if the engine ever needs injectable clocks for deterministic
// testing.
func startTime() time.Time {
	return time.Now()
}
