package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
repetitions: 3
outputDirectory: /tmp/taguchi-out
targetExecutablePath: /usr/local/bin/sortbench-target
verbose: false
showTargetOutput: false
poolingThresholdPercentage: 5.0
metricsToAnalyze:
  - name: Time
    method: SmallerIsBetter
fixedCommandLineArguments:
  --size: "2000000"
  --quiet: null
fixedEnvironmentVariables:
  GOMAXPROCS: "4"
controlFactors:
  - name: MaxWorkers
    cliArg: --workers
    levels: ["4", "8", "16"]
  - name: Algorithm
    cliArg: --algorithm
    levels: ["quicksort", "radixsort"]
noiseFactors:
  - name: DataPattern
    cliArg: --pattern
    levels: ["random", "sorted"]
interactions:
  - firstFactorName: MaxWorkers
    secondFactorName: Algorithm
`

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeTempConfig(t, sampleConfig)
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.ControlFactors) != 2 {
		t.Fatalf("ControlFactors = %d, want 2", len(loaded.ControlFactors))
	}
	if len(loaded.NoiseFactors) != 1 {
		t.Fatalf("NoiseFactors = %d, want 1", len(loaded.NoiseFactors))
	}
	if len(loaded.Interactions) != 1 {
		t.Fatalf("Interactions = %d, want 1", len(loaded.Interactions))
	}
	if loaded.Interactions[0].Key() != "Algorithm*MaxWorkers" {
		t.Errorf("interaction key = %q, want canonical lexicographic order", loaded.Interactions[0].Key())
	}
	if loaded.ConfigHash == "" {
		t.Error("ConfigHash is empty")
	}
}

func TestLoad_PreservesFixedArgumentOrder(t *testing.T) {
	path := writeTempConfig(t, sampleConfig)
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	args := loaded.Raw.FixedCommandLineArguments
	if len(args) != 2 {
		t.Fatalf("FixedCommandLineArguments = %d entries, want 2", len(args))
	}
	if args[0].Key != "--size" || args[1].Key != "--quiet" {
		t.Errorf("fixed argument order = %v, want [--size --quiet]", args)
	}
	if args[0].Value == nil || *args[0].Value != "2000000" {
		t.Errorf("args[0].Value = %v, want \"2000000\"", args[0].Value)
	}
	if args[1].Value != nil {
		t.Errorf("args[1].Value = %v, want nil (flag-style)", *args[1].Value)
	}
}

func TestLoad_DuplicateFactorNameAcrossControlAndNoise(t *testing.T) {
	bad := `
repetitions: 1
outputDirectory: /tmp/x
targetExecutablePath: /bin/true
metricsToAnalyze:
  - name: Score
    method: LargerIsBetter
controlFactors:
  - name: A
    cliArg: --a
    levels: ["1", "2"]
noiseFactors:
  - name: A
    cliArg: --a2
    levels: ["1", "2"]
`
	path := writeTempConfig(t, bad)
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected an error for a factor name reused across control and noise sets")
	}
}

func TestLoad_NominalMetricWithoutTargetIsRejected(t *testing.T) {
	bad := `
repetitions: 1
outputDirectory: /tmp/x
targetExecutablePath: /bin/true
metricsToAnalyze:
  - name: Score
    method: Nominal
controlFactors:
  - name: A
    cliArg: --a
    levels: ["1", "2"]
`
	path := writeTempConfig(t, bad)
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected an error for a Nominal metric with no target")
	}
}

func TestLoad_FactorMissingLevelSourceIsRejected(t *testing.T) {
	bad := `
repetitions: 1
outputDirectory: /tmp/x
targetExecutablePath: /bin/true
metricsToAnalyze:
  - name: Score
    method: LargerIsBetter
controlFactors:
  - name: A
    cliArg: --a
`
	path := writeTempConfig(t, bad)
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected an error when a factor supplies none of levels/floatRange/intRange")
	}
}

func TestLoad_EnvOverridesOutputDirectory(t *testing.T) {
	path := writeTempConfig(t, sampleConfig)
	t.Setenv("TAGUCHI_OUTPUTDIRECTORY", "/tmp/overridden")
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Raw.OutputDirectory != "/tmp/overridden" {
		t.Errorf("OutputDirectory = %q, want env override to take effect", loaded.Raw.OutputDirectory)
	}
}

func TestCanonicalHash_StableAcrossMapOrdering(t *testing.T) {
	cfg1 := Config{
		Repetitions:               1,
		FixedEnvironmentVariables: map[string]string{"A": "1", "B": "2"},
	}
	cfg2 := Config{
		Repetitions:               1,
		FixedEnvironmentVariables: map[string]string{"B": "2", "A": "1"},
	}
	if CanonicalHash(cfg1) != CanonicalHash(cfg2) {
		t.Error("CanonicalHash should not depend on map iteration order")
	}
}
