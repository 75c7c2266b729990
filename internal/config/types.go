// Package config loads and validates the experiment configuration file
// (spec.md §6), expands range-specified factor levels, and computes the
// canonical configuration hash used to detect drift on --recover.
package config

import "gopkg.in/yaml.v3"

// FixedArg is one entry of the ordered fixedCommandLineArguments map: Value
// is nil for a flag-style argument. A plain Go map can't preserve YAML
// mapping order, so this type supplies its own UnmarshalYAML that walks the
// mapping node's Content pairs directly.
type FixedArg struct {
	Key   string
	Value *string
}

// FixedArgs is the ordered list decoded from the fixedCommandLineArguments
// YAML mapping.
type FixedArgs []FixedArg

// UnmarshalYAML preserves the source mapping's key order, since
// fixedCommandLineArguments order becomes command-line argument order.
func (f *FixedArgs) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return nil
	}
	out := make(FixedArgs, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]
		arg := FixedArg{Key: keyNode.Value}
		if valNode.Tag != "!!null" {
			v := valNode.Value
			arg.Value = &v
		}
		out = append(out, arg)
	}
	*f = out
	return nil
}

// MetricConfig is one entry of metricsToAnalyze.
type MetricConfig struct {
	Name   string   `yaml:"name"`
	Method string   `yaml:"method"` // LargerIsBetter | SmallerIsBetter | Nominal
	Target *float64 `yaml:"target"`
}

// FactorConfig is one control/noise factor entry. Exactly one of Levels,
// FloatRange, or IntRange must be set.
type FactorConfig struct {
	Name       string    `yaml:"name"`
	CLIArg     string    `yaml:"cliArg"`
	EnvVar     string    `yaml:"envVar"`
	Levels     []string  `yaml:"levels"`
	FloatRange []float64 `yaml:"floatRange"`
	IntRange   []int     `yaml:"intRange"`
}

// InteractionConfig names a requested 2-factor interaction.
type InteractionConfig struct {
	FirstFactorName  string `yaml:"firstFactorName"`
	SecondFactorName string `yaml:"secondFactorName"`
}

// Config is the top-level YAML configuration, per spec.md §6.
type Config struct {
	Repetitions                int                  `yaml:"repetitions"`
	OutputDirectory            string               `yaml:"outputDirectory"`
	TargetExecutablePath       string               `yaml:"targetExecutablePath"`
	Verbose                    bool                 `yaml:"verbose"`
	ShowTargetOutput           bool                 `yaml:"showTargetOutput"`
	PoolingThresholdPercentage float64              `yaml:"poolingThresholdPercentage"`
	MetricsToAnalyze           []MetricConfig       `yaml:"metricsToAnalyze"`
	FixedCommandLineArguments  FixedArgs            `yaml:"fixedCommandLineArguments"`
	FixedEnvironmentVariables  map[string]string    `yaml:"fixedEnvironmentVariables"`
	ControlFactors             []FactorConfig       `yaml:"controlFactors"`
	NoiseFactors               []FactorConfig       `yaml:"noiseFactors"`
	Interactions               []InteractionConfig  `yaml:"interactions"`
}
