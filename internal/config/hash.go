package config

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"gopkg.in/yaml.v3"
)

// CanonicalHash computes the originalConfigHash spec.md §5 stores alongside
// experiment state: a SHA-256 over a re-serialization of cfg with any
// non-deterministic map iteration order (fixedEnvironmentVariables) replaced
// by a sorted-key encoding, so two loads of the same semantic config always
// hash identically regardless of map ordering.
func CanonicalHash(cfg Config) string {
	type canonicalEnvEntry struct {
		Key   string `yaml:"key"`
		Value string `yaml:"value"`
	}
	type canonical struct {
		Repetitions                int                 `yaml:"repetitions"`
		OutputDirectory            string              `yaml:"outputDirectory"`
		TargetExecutablePath       string              `yaml:"targetExecutablePath"`
		Verbose                    bool                `yaml:"verbose"`
		ShowTargetOutput           bool                `yaml:"showTargetOutput"`
		PoolingThresholdPercentage float64             `yaml:"poolingThresholdPercentage"`
		MetricsToAnalyze           []MetricConfig      `yaml:"metricsToAnalyze"`
		FixedCommandLineArguments  FixedArgs           `yaml:"fixedCommandLineArguments"`
		FixedEnvironmentVariables  []canonicalEnvEntry `yaml:"fixedEnvironmentVariables"`
		ControlFactors             []FactorConfig      `yaml:"controlFactors"`
		NoiseFactors               []FactorConfig      `yaml:"noiseFactors"`
		Interactions               []InteractionConfig `yaml:"interactions"`
	}

	envKeys := make([]string, 0, len(cfg.FixedEnvironmentVariables))
	for k := range cfg.FixedEnvironmentVariables {
		envKeys = append(envKeys, k)
	}
	sort.Strings(envKeys)
	env := make([]canonicalEnvEntry, 0, len(envKeys))
	for _, k := range envKeys {
		env = append(env, canonicalEnvEntry{Key: k, Value: cfg.FixedEnvironmentVariables[k]})
	}

	c := canonical{
		Repetitions:                cfg.Repetitions,
		OutputDirectory:            cfg.OutputDirectory,
		TargetExecutablePath:       cfg.TargetExecutablePath,
		Verbose:                    cfg.Verbose,
		ShowTargetOutput:           cfg.ShowTargetOutput,
		PoolingThresholdPercentage: cfg.PoolingThresholdPercentage,
		MetricsToAnalyze:           cfg.MetricsToAnalyze,
		FixedCommandLineArguments:  cfg.FixedCommandLineArguments,
		FixedEnvironmentVariables:  env,
		ControlFactors:             cfg.ControlFactors,
		NoiseFactors:               cfg.NoiseFactors,
		Interactions:               cfg.Interactions,
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		// yaml.Marshal on a plain literal struct of primitives/slices never
		// fails; a panic here would indicate a type was added to canonical
		// that yaml.v3 can't encode.
		panic("config: canonical hash marshal failed: " + err.Error())
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
