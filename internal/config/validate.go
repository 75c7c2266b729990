package config

import "github.com/marijaaleksic/taguchi-engine/internal/model"

// validateRaw checks the structural invariants of the raw YAML document that
// buildFactors/buildInteractions/buildMetrics don't already cover: mandatory
// top-level fields, a sane repetition count, and factor-name collisions
// between the control and noise sets (each factor name must be unique across
// both, since the orchestrator looks factors up by name alone).
func validateRaw(cfg Config) error {
	if cfg.TargetExecutablePath == "" {
		return model.NewConfigError("targetExecutablePath is required")
	}
	if cfg.OutputDirectory == "" {
		return model.NewConfigError("outputDirectory is required")
	}
	if cfg.Repetitions < 1 {
		return model.NewConfigError("repetitions must be at least 1, got %d", cfg.Repetitions)
	}
	if len(cfg.ControlFactors) == 0 {
		return model.NewConfigError("controlFactors must list at least one factor")
	}
	if len(cfg.MetricsToAnalyze) == 0 {
		return model.NewConfigError("metricsToAnalyze must list at least one metric")
	}

	seen := map[string]bool{}
	for _, fc := range cfg.ControlFactors {
		if seen[fc.Name] {
			return model.NewConfigError("duplicate factor name %q", fc.Name)
		}
		seen[fc.Name] = true
	}
	for _, fc := range cfg.NoiseFactors {
		if seen[fc.Name] {
			return model.NewConfigError("factor name %q used by both a control and a noise factor", fc.Name)
		}
		seen[fc.Name] = true
	}

	for _, ic := range cfg.Interactions {
		if ic.FirstFactorName == ic.SecondFactorName {
			return model.NewConfigError("interaction: factors must be distinct, got %q twice", ic.FirstFactorName)
		}
	}

	metricNames := map[string]bool{}
	for _, mc := range cfg.MetricsToAnalyze {
		if mc.Name == "" {
			return model.NewConfigError("metric entry missing a name")
		}
		if metricNames[mc.Name] {
			return model.NewConfigError("duplicate metric name %q", mc.Name)
		}
		metricNames[mc.Name] = true
	}

	return nil
}
