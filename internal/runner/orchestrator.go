package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/marijaaleksic/taguchi-engine/internal/model"
	"github.com/rs/zerolog"
)

// Persister is the narrow interface the orchestrator needs from the State
// Store component: write the current experiment state to a fresh,
// uniquely-named checkpoint. Kept minimal here so runner has no dependency
// on the statefile package's YAML/filesystem concerns.
type Persister interface {
	Persist(state model.ExperimentState) error
}

// Orchestrator iterates OA rows x repetitions, invokes the Target, collects
// metrics, and persists state after every completed row (spec.md §4.3).
type Orchestrator struct {
	Target        Target
	Persister     Persister
	Logger        zerolog.Logger
	Configs       []model.ParameterSettings // one per OA row, from design.GenerateConfigurations
	ControlFactor []model.Factor
	NoiseFactors  []model.Factor
	FixedArgs     []ArgToken
	FixedEnv      map[string]string
	Repetitions   int
	Verbose       bool

	// prefetchValid/prefetchedRun/prefetchedArg/prefetchedEnv cache the
	// argument/environment tokens for rep 0 of the next OA row, built
	// by prefetch right after the previous row commits. Zero-valued on
	// construction, so prefetchValid false
	// is the correct "nothing cached yet" state.
	prefetchValid bool
	prefetchedRun int
	prefetchedArg []ArgToken
	prefetchedEnv map[string]string
}

// Run drives state from state.NextRunIndex through the last OA row,
// identically whether called fresh (run_new) or after a resume — both
// proceed from NextRunIndex per spec.md §4.3. cancel is checked between
// repetitions for cooperative cancellation (spec.md §5); when it fires the
// orchestrator persists and returns context.Canceled.
func (o *Orchestrator) Run(ctx context.Context, state *model.ExperimentState, cancel <-chan struct{}) error {
	total := len(o.Configs)
	for run := state.NextRunIndex; run < total; run++ {
		settings := o.Configs[run]

		for rep := 0; rep < o.Repetitions; rep++ {
			select {
			case <-cancel:
				state.UpdatedAt = time.Now()
				if err := o.Persister.Persist(*state); err != nil {
					return fmt.Errorf("persisting on cancellation: %w", err)
				}
				return context.Canceled
			default:
			}

			var args []ArgToken
			var env map[string]string
			if rep == 0 && o.prefetchValid && o.prefetchedRun == run {
				args, env = o.prefetchedArg, o.prefetchedEnv
				o.prefetchValid = false
			} else {
				args, env = o.buildInvocation(settings, rep)
			}
			metrics, err := o.Target.Invoke(ctx, args, env, o.Verbose)
			if err != nil {
				// Runtime errors from the target are captured as empty
				// metric maps upstream (ProcessRunner never returns err
				// for target failures); a non-nil err here means the
				// Target implementation itself is broken, which is not a
				// spec.md §7 runtime error - surface it.
				state.UpdatedAt = time.Now()
				if perr := o.Persister.Persist(*state); perr != nil {
					o.Logger.Error().Err(perr).Msg("failed to persist state after target error")
				}
				return fmt.Errorf("run %d rep %d: %w", run, rep, err)
			}
			state.RawMetrics.AppendRep(run, metrics)
		}

		state.NextRunIndex = run + 1
		state.UpdatedAt = time.Now()
		if err := o.Persister.Persist(*state); err != nil {
			return fmt.Errorf("persisting after run %d: %w", run, err)
		}
		o.Logger.Info().Int("run", run).Int("total", total).Msg("OA row complete")

		if run+1 < total {
			o.prefetch(run + 1)
		}
	}
	return nil
}

// buildInvocation merges fixed arguments/environment with the row's control
// factor settings, then layers the noise factor at the cyclic repetition
// index on top (spec.md §4.3 steps 1-2).
func (o *Orchestrator) buildInvocation(settings model.ParameterSettings, rep int) ([]ArgToken, map[string]string) {
	args := append([]ArgToken(nil), o.FixedArgs...)
	env := make(map[string]string, len(o.FixedEnv))
	for k, v := range o.FixedEnv {
		env[k] = v
	}

	for name, setting := range settings {
		applyFactorSetting(findFactor(o.ControlFactor, name), setting.Value, &args, env)
	}

	for _, nf := range o.NoiseFactors {
		idx := rep % len(nf.Values)
		value := nf.Values[idx]
		applyFactorSetting(&nf, value, &args, env)
	}

	return args, env
}

func applyFactorSetting(f *model.Factor, value string, args *[]ArgToken, env map[string]string) {
	if f == nil {
		return
	}
	if f.CLIArg != "" {
		*args = append(*args, Str(f.CLIArg, value))
	}
	if f.EnvVar != "" {
		env[f.EnvVar] = value
	}
}

func findFactor(factors []model.Factor, name string) *model.Factor {
	for i := range factors {
		if factors[i].Name == name {
			return &factors[i]
		}
	}
	return nil
}

// prefetch precomputes nextRun's rep-0 argument/environment vectors right
// after the current row commits, caching them on the orchestrator so the
// loop iteration that actually invokes nextRun reuses the cache instead of
// rebuilding. It does not execute anything and does not affect
// NextRunIndex ordering - the orchestrator deliberately keeps the commit of
// next_run_index strictly sequential (§5); only rep 0's token preparation is
// pulled forward, per SPEC_FULL.md's supplemented "bounded-concurrency run
// execution" note.
func (o *Orchestrator) prefetch(nextRun int) {
	if nextRun >= len(o.Configs) {
		return
	}
	args, env := o.buildInvocation(o.Configs[nextRun], 0)
	o.prefetchedRun = nextRun
	o.prefetchedArg = args
	o.prefetchedEnv = env
	o.prefetchValid = true
}
