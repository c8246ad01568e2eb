// Package core wires signal sources, the analysis packages and the output writers
// together for each ebb command.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/ebb/core/experiment"
	"github.com/huangsam/ebb/core/gap"
	"github.com/huangsam/ebb/core/pattern"
	"github.com/huangsam/ebb/internal/contract"
	"github.com/huangsam/ebb/internal/outwriter"
	"github.com/huangsam/ebb/internal/parquet"
	"github.com/huangsam/ebb/internal/signalstore"
	"github.com/huangsam/ebb/schema"
)

// Parquet export file names.
const (
	ExperimentsParquetFile    = "experiments.parquet"
	ExperimentDaysParquetFile = "experiment_days.parquet"
)

var (
	writer = outwriter.NewOutWriter()

	// out receives confirmation messages
	out io.Writer = os.Stdout
)

// loadSignals reads the full signal history from the configured source.
func loadSignals(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.Signal, error) {
	src := signalstore.Open(cfg.SignalsPath, mgr.GetStore(), LoggerFrom(ctx))
	signals, err := src.ListSignals()
	if err != nil {
		return nil, fmt.Errorf("failed to load signals: %w", err)
	}
	return signals, nil
}

// newManager returns an experiment manager pinned to the configured reference time.
func newManager(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) *experiment.Manager {
	now := cfg.Now
	return experiment.NewManager(
		mgr.GetStore(),
		experiment.WithClock(func() time.Time { return now }),
		experiment.WithLogger(LoggerFrom(ctx)),
	)
}

// trailingWindow keeps the signals within [now - periodDays, now].
func trailingWindow(signals []schema.Signal, now time.Time, periodDays int) []schema.Signal {
	start := now.AddDate(0, 0, -periodDays).UnixMilli()
	end := now.UnixMilli()
	window := make([]schema.Signal, 0, len(signals))
	for _, s := range signals {
		if s.Timestamp >= start && s.Timestamp <= end {
			window = append(window, s)
		}
	}
	return window
}

// BuildGapAnalysis runs the gated gap analysis over the configured period.
// With UseSpan the period is the span of the signal history itself.
func BuildGapAnalysis(cfg *contract.Config, signals []schema.Signal) schema.GapAnalysis {
	if cfg.UseSpan {
		return gap.AnalyzeGapsFromSpan(signals, cfg.MinDays)
	}
	return gap.AnalyzeGaps(trailingWindow(signals, cfg.Now, cfg.PeriodDays), cfg.PeriodDays, cfg.MinDays)
}

// GetGapAnalysis loads signals and runs the gated gap analysis.
func GetGapAnalysis(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.GapAnalysis, error) {
	signals, err := loadSignals(ctx, cfg, mgr)
	if err != nil {
		return schema.GapAnalysis{}, err
	}
	return BuildGapAnalysis(cfg, signals), nil
}

// ExecuteGaps prints the gated gap and coverage analysis.
func ExecuteGaps(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	analysis, err := GetGapAnalysis(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteGaps(analysis, cfg)
}

// GetPatterns loads signals and detects patterns as of cfg.Now.
func GetPatterns(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.DetectedPattern, error) {
	signals, err := loadSignals(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	return pattern.DetectPatterns(signals, cfg.Now), nil
}

// ExecutePatterns prints the patterns found in the trailing detection window.
func ExecutePatterns(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	patterns, err := GetPatterns(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WritePatterns(patterns, cfg)
}

// PeekSuggestion returns the suggestion that would be shown without recording a
// prompt. It is nil while an experiment is active.
func PeekSuggestion(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.PatternSuggestion, error) {
	signals, err := loadSignals(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	m := newManager(ctx, cfg, mgr)
	if m.Active() != nil {
		return nil, nil
	}
	return TopSuggestion(signals, m, cfg.Now), nil
}

// ExecuteSuggest prints the next suggestion, honoring the prompt interval.
// With decline, the current top suggestion is declined instead and its pattern
// type stays suppressed for experiment.DeclineCooldown. Nothing is declined while
// an experiment is active, since no suggestion is shown then.
func ExecuteSuggest(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, decline bool) error {
	signals, err := loadSignals(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	m := newManager(ctx, cfg, mgr)

	if decline {
		var s *schema.PatternSuggestion
		if m.Active() == nil {
			s = TopSuggestion(signals, m, cfg.Now)
		}
		if s == nil {
			_, err := fmt.Fprintln(out, "Nothing to decline right now.")
			return err
		}
		record, err := m.RecordDecline(s.PatternType)
		if err != nil {
			return fmt.Errorf("failed to record decline: %w", err)
		}
		until := record.DeclinedAt.Add(experiment.DeclineCooldown)
		_, err = fmt.Fprintf(out, "Declined %s suggestions until %s.\n", s.PatternType, until.Format(contract.DateTimeFormat))
		return err
	}

	interval := time.Duration(cfg.PromptIntervalDays) * 24 * time.Hour
	s, err := NextSuggestion(signals, m, cfg.Now, interval)
	if err != nil {
		return fmt.Errorf("failed to record suggestion prompt: %w", err)
	}
	return writer.WriteSuggestion(s, cfg)
}

// CreateOptions describes a new experiment. Choice is the 1-based index of a
// suggested hypothesis; zero means Hypothesis is used as given.
type CreateOptions struct {
	Hypothesis  string
	Choice      int
	PatternType schema.PatternType
	Description string
	Weeks       int
}

// resolveHypothesis picks the hypothesis text and the trigger pattern for a new experiment.
func resolveHypothesis(opts CreateOptions, top *schema.PatternSuggestion) (string, schema.PatternType, string, error) {
	var suggestion schema.PatternSuggestion
	switch {
	case opts.PatternType != "":
		if _, ok := schema.ValidPatternTypes[opts.PatternType]; !ok {
			return "", "", "", fmt.Errorf("invalid pattern type %q", opts.PatternType)
		}
		description := opts.Description
		if description == "" && top != nil && top.PatternType == opts.PatternType {
			description = top.PatternDescription
		}
		suggestion = pattern.SuggestionFor(opts.PatternType, description)
	case top != nil:
		suggestion = *top
	default:
		return "", "", "", errors.New("no pattern to base an experiment on; pass --pattern")
	}

	hypothesis := strings.TrimSpace(opts.Hypothesis)
	if opts.Choice != 0 {
		if opts.Choice < 1 || opts.Choice > len(suggestion.Hypotheses) {
			return "", "", "", fmt.Errorf("choice must be between 1 and %d (received %d)", len(suggestion.Hypotheses), opts.Choice)
		}
		picked := suggestion.Hypotheses[opts.Choice-1]
		if picked == pattern.OtherHypothesis {
			if hypothesis == "" {
				return "", "", "", errors.New("write your own hypothesis with --hypothesis")
			}
		} else {
			hypothesis = picked
		}
	}
	if hypothesis == "" {
		return "", "", "", experiment.ErrEmptyHypothesis
	}
	return hypothesis, suggestion.PatternType, suggestion.PatternDescription, nil
}

// ExecuteExperimentCreate starts a new experiment from a suggestion or explicit pattern.
func ExecuteExperimentCreate(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, opts CreateOptions) error {
	m := newManager(ctx, cfg, mgr)

	var top *schema.PatternSuggestion
	if opts.PatternType == "" || opts.Description == "" {
		signals, err := loadSignals(ctx, cfg, mgr)
		if err != nil {
			return err
		}
		top = TopSuggestion(signals, m, cfg.Now)
	}

	hypothesis, patternType, description, err := resolveHypothesis(opts, top)
	if err != nil {
		return err
	}
	if opts.Description != "" {
		description = opts.Description
	}

	exp, err := m.Create(hypothesis, patternType, description, opts.Weeks)
	if err != nil {
		if errors.Is(err, experiment.ErrActiveExperimentExists) {
			return fmt.Errorf("conclude or abandon your current experiment first: %w", err)
		}
		return err
	}
	return writer.WriteExperiment(exp, nil, cfg)
}

// resolveExperiment finds an experiment by ID or unique ID prefix. An empty
// reference or "active" selects the active experiment.
func resolveExperiment(m *experiment.Manager, ref string) (schema.Experiment, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || ref == "active" {
		if active := m.Active(); active != nil {
			return *active, nil
		}
		return schema.Experiment{}, fmt.Errorf("%w: no active experiment", experiment.ErrExperimentNotFound)
	}

	var matches []schema.Experiment
	for _, exp := range m.List() {
		if exp.ID == ref {
			return exp, nil
		}
		if strings.HasPrefix(exp.ID, ref) {
			matches = append(matches, exp)
		}
	}
	switch len(matches) {
	case 0:
		return schema.Experiment{}, fmt.Errorf("%w: %s", experiment.ErrExperimentNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return schema.Experiment{}, fmt.Errorf("experiment reference %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// ExecuteExperimentList prints every experiment.
func ExecuteExperimentList(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return writer.WriteExperiments(newManager(ctx, cfg, mgr).List(), cfg)
}

// ExecuteExperimentShow prints one experiment with its day log.
func ExecuteExperimentShow(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, ref string) error {
	m := newManager(ctx, cfg, mgr)
	exp, err := resolveExperiment(m, ref)
	if err != nil {
		return err
	}
	return writer.WriteExperiment(exp, m.Days(exp.ID), cfg)
}

// RecordOptions describes a follow-up entry. Day accepts the same forms as
// contract.ParseDay and State is an optional capacity state for that day.
type RecordOptions struct {
	Ref      string
	Day      string
	Followed string
	State    string
}

// ExecuteExperimentRecord records whether the experiment was followed on a day.
func ExecuteExperimentRecord(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, opts RecordOptions) error {
	m := newManager(ctx, cfg, mgr)
	exp, err := resolveExperiment(m, opts.Ref)
	if err != nil {
		return err
	}

	date, err := contract.ParseDay(opts.Day, cfg.Now)
	if err != nil {
		return fmt.Errorf("invalid --day value: %w", err)
	}
	followed, err := schema.ParseFollowedStatus(opts.Followed)
	if err != nil {
		return err
	}
	var capacity *float64
	if opts.State != "" {
		state, err := schema.ParseCapacityState(opts.State)
		if err != nil {
			return err
		}
		v := state.Capacity()
		capacity = &v
	}
	if followed == nil && capacity == nil {
		return errors.New("nothing to record; pass --followed or --state")
	}
	if !experiment.IsDateActive(exp, date) {
		end, _ := schema.AddDays(exp.StartDate, exp.DurationWeeks*7)
		return fmt.Errorf("%s is outside the experiment window %s to %s", date, exp.StartDate, end)
	}

	if _, err := m.RecordDay(exp.ID, date, followed, "", capacity); err != nil {
		return err
	}
	updated, err := m.Get(exp.ID)
	if err != nil {
		return err
	}
	return writer.WriteExperiment(updated, m.Days(exp.ID), cfg)
}

// ExecuteExperimentConclude concludes an experiment and prints its result.
func ExecuteExperimentConclude(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, ref string) error {
	m := newManager(ctx, cfg, mgr)
	exp, err := resolveExperiment(m, ref)
	if err != nil {
		return err
	}
	if _, err := m.Conclude(exp.ID); err != nil {
		return err
	}
	result, err := m.Result(exp.ID)
	if err != nil {
		return err
	}
	return writer.WriteResult(result, cfg)
}

// ExecuteExperimentAbandon abandons an experiment.
func ExecuteExperimentAbandon(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, ref string) error {
	m := newManager(ctx, cfg, mgr)
	exp, err := resolveExperiment(m, ref)
	if err != nil {
		return err
	}
	if _, err := m.Abandon(exp.ID); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Abandoned experiment %s.\n", exp.ID)
	return err
}

// GetExperimentResult analyzes the referenced experiment.
func GetExperimentResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, ref string) (schema.ExperimentResult, error) {
	m := newManager(ctx, cfg, mgr)
	exp, err := resolveExperiment(m, ref)
	if err != nil {
		return schema.ExperimentResult{}, err
	}
	return m.Result(exp.ID)
}

// ExecuteExperimentResult prints the followed versus not-followed comparison.
func ExecuteExperimentResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, ref string) error {
	result, err := GetExperimentResult(ctx, cfg, mgr, ref)
	if err != nil {
		return err
	}
	return writer.WriteResult(result, cfg)
}

// ExecuteExperimentExport writes every experiment and day log to Parquet files in dir.
func ExecuteExperimentExport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, dir string) error {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	m := newManager(ctx, cfg, mgr)
	experiments := m.List()
	var days []schema.ExperimentDay
	for _, exp := range experiments {
		days = append(days, m.Days(exp.ID)...)
	}

	expPath := filepath.Join(dir, ExperimentsParquetFile)
	if err := parquet.WriteExperimentsParquet(parquet.FromExperiments(experiments), expPath); err != nil {
		return fmt.Errorf("failed to export experiments: %w", err)
	}
	dayPath := filepath.Join(dir, ExperimentDaysParquetFile)
	if err := parquet.WriteExperimentDaysParquet(parquet.FromExperimentDays(days), dayPath); err != nil {
		return fmt.Errorf("failed to export experiment days: %w", err)
	}

	LoggerFrom(ctx).Info("exported experiments", "experiments", len(experiments), "days", len(days), "dir", dir)
	_, err := fmt.Fprintf(out, "Exported %d experiment(s) to %s and %d day(s) to %s.\n", len(experiments), expPath, len(days), dayPath)
	return err
}

// SignalOptions describes a new check-in. When accepts the same forms as contract.ParseWhen.
type SignalOptions struct {
	State     string
	Category  string
	Tags      []string
	When      string
	LocalDate string
}

// storeSource returns the writable signal source, refusing when signals come from a file.
func storeSource(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*signalstore.StoreSource, error) {
	if cfg.SignalsPath != "" {
		return nil, fmt.Errorf("signals are read from %s; unset --signals to write to the store", cfg.SignalsPath)
	}
	return signalstore.NewStoreSource(mgr.GetStore(), LoggerFrom(ctx)), nil
}

// ExecuteSignalAdd stores a new signal. A signal inside the active experiment's
// window is linked to that day along with its capacity value.
func ExecuteSignalAdd(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, opts SignalOptions) error {
	src, err := storeSource(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	state, err := schema.ParseCapacityState(opts.State)
	if err != nil {
		return err
	}
	when, err := contract.ParseWhen(opts.When, cfg.Now)
	if err != nil {
		return fmt.Errorf("invalid --at value: %w", err)
	}
	// Experiment days follow the calendar of cfg.Now, so the signal carries that day too
	localDate := strings.TrimSpace(opts.LocalDate)
	if localDate == "" {
		if _, err := schema.ParseDate(strings.TrimSpace(opts.When)); err == nil {
			localDate = strings.TrimSpace(opts.When)
		} else {
			localDate = schema.FormatDate(when.In(cfg.Now.Location()))
		}
	}
	batch := []schema.Signal{{
		Timestamp: when.UnixMilli(),
		State:     state,
		Category:  schema.Category(strings.ToLower(strings.TrimSpace(opts.Category))),
		Tags:      opts.Tags,
		LocalDate: localDate,
	}}
	if err := src.AppendSignals(batch...); err != nil {
		return err
	}
	sig := batch[0]

	m := newManager(ctx, cfg, mgr)
	if active := m.Active(); active != nil && experiment.IsDateActive(*active, sig.Day()) {
		capacity := sig.State.Capacity()
		if _, err := m.RecordDay(active.ID, sig.Day(), nil, sig.ID, &capacity); err != nil {
			return fmt.Errorf("signal stored but not linked to experiment: %w", err)
		}
		LoggerFrom(ctx).Debug("linked signal to experiment", "signal", sig.ID, "experiment", active.ID, "day", sig.Day())
	}
	return writer.WriteSignals(batch, cfg)
}

// ExecuteSignalList prints the signal history.
func ExecuteSignalList(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	signals, err := loadSignals(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteSignals(signals, cfg)
}

// ExecuteSignalImport copies signals from a JSON, JSON lines or CSV file into the store.
func ExecuteSignalImport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, path string) error {
	src, err := storeSource(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	signals, err := signalstore.NewFileSource(path).ListSignals()
	if err != nil {
		return err
	}
	if err := src.AppendSignals(signals...); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Imported %d signal(s) from %s.\n", len(signals), path)
	return err
}
