package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// sentinel is the literal marker line the reference runner's subprocess
// emits on stdout before the JSON metrics payload, per spec.md §6.
const sentinel = "v^v^v^RESULT^v^v^v"

// resultEnvelope is the `{"result": {...}}` JSON object that follows the
// sentinel line.
type resultEnvelope struct {
	Result map[string]float64 `json:"result"`
}

// ProcessRunner invokes the target executable as a subprocess, satisfying
// the Target interface via os/exec. Per SPEC_FULL.md §4.3 it never assumes
// stdout is line-buffered: the full output is captured before the sentinel
// is located and everything after it is parsed as JSON.
type ProcessRunner struct {
	ExecutablePath string
	Timeout        time.Duration
	ShowOutput     bool
	Logger         zerolog.Logger
}

// Invoke runs the target executable with the given argument tokens and
// environment, enforcing Timeout via context.WithTimeout. A non-zero exit
// code or a timeout returns an empty metric map rather than an error, per
// spec.md §7's runtime-errors policy: the run is recorded, not retried.
func (p ProcessRunner) Invoke(ctx context.Context, args []ArgToken, env map[string]string, verbose bool) (map[string]float64, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	cmdArgs := tokensToArgs(args)
	cmd := exec.CommandContext(ctx, p.ExecutablePath, cmdArgs...)
	cmd.Env = mergeEnv(os.Environ(), env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if p.ShowOutput || verbose {
		p.Logger.Debug().Str("stdout", stdout.String()).Str("stderr", stderr.String()).Msg("target invocation output")
	}

	if ctx.Err() == context.DeadlineExceeded {
		p.Logger.Warn().Str("executable", p.ExecutablePath).Msg("target invocation timed out")
		return map[string]float64{}, nil
	}
	if runErr != nil {
		p.Logger.Warn().Err(runErr).Str("stderr", stderr.String()).Msg("target invocation failed")
		return map[string]float64{}, nil
	}

	metrics, err := parseResult(stdout.Bytes())
	if err != nil {
		p.Logger.Warn().Err(err).Msg("target invocation produced no parseable result")
		return map[string]float64{}, nil
	}
	return metrics, nil
}

// parseResult implements spec.md §9's "streaming log sentinel parsing"
// design note: find the LAST occurrence of the sentinel (so any incidental
// earlier match in the target's own chatter is ignored), then parse
// everything after the following newline as the `{"result": {...}}` JSON
// object.
func parseResult(output []byte) (map[string]float64, error) {
	idx := bytes.LastIndex(output, []byte(sentinel))
	if idx < 0 {
		return nil, fmt.Errorf("sentinel %q not found in target output", sentinel)
	}
	rest := output[idx+len(sentinel):]
	nl := bytes.IndexByte(rest, '\n')
	if nl >= 0 {
		rest = rest[nl+1:]
	}
	var envelope resultEnvelope
	if err := json.Unmarshal(bytes.TrimSpace(rest), &envelope); err != nil {
		return nil, fmt.Errorf("decoding result JSON: %w", err)
	}
	if len(envelope.Result) == 0 {
		return nil, fmt.Errorf("result JSON carried no metrics")
	}
	return envelope.Result, nil
}

func tokensToArgs(args []ArgToken) []string {
	out := make([]string, 0, len(args)*2)
	for _, a := range args {
		out = append(out, a.Key)
		if a.Value != nil {
			out = append(out, *a.Value)
		}
	}
	return out
}

func mergeEnv(base []string, overrides map[string]string) []string {
	out := append([]string(nil), base...)
	for k, v := range overrides {
		out = append(out, k+"="+v)
	}
	return out
}
