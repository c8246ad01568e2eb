// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/huangsam/ebb/internal/contract"
	"github.com/huangsam/ebb/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteGaps prints a gated gap analysis using the configured output format.
func (ow *OutWriter) WriteGaps(analysis schema.GapAnalysis, cfg *contract.Config) error {
	return WriteGapAnalysis(analysis, cfg)
}

// WritePatterns prints detected patterns using the configured output format.
func (ow *OutWriter) WritePatterns(patterns []schema.DetectedPattern, cfg *contract.Config) error {
	return WritePatterns(patterns, cfg)
}

// WriteSuggestion prints a suggestion using the configured output format.
func (ow *OutWriter) WriteSuggestion(s *schema.PatternSuggestion, cfg *contract.Config) error {
	return WriteSuggestion(s, cfg)
}

// WriteExperiments prints the experiment list using the configured output format.
func (ow *OutWriter) WriteExperiments(experiments []schema.Experiment, cfg *contract.Config) error {
	return WriteExperiments(experiments, cfg)
}

// WriteExperiment prints one experiment and its days using the configured output format.
func (ow *OutWriter) WriteExperiment(exp schema.Experiment, days []schema.ExperimentDay, cfg *contract.Config) error {
	return WriteExperimentDetail(exp, days, cfg)
}

// WriteResult prints an experiment result using the configured output format.
func (ow *OutWriter) WriteResult(result schema.ExperimentResult, cfg *contract.Config) error {
	return WriteExperimentResult(result, cfg)
}

// WriteSignals prints signals using the configured output format.
func (ow *OutWriter) WriteSignals(signals []schema.Signal, cfg *contract.Config) error {
	return WriteSignals(signals, cfg)
}
