// Package experiment manages the single active hypothesis experiment, its
// per-day follow-up log and the suggestion decline log, all persisted as
// whole-value blobs in a key/value store.
package experiment

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/ebb/internal/contract"
	"github.com/huangsam/ebb/schema"
)

// Store keys.
const (
	ExperimentsKey    = "experiments"
	ExperimentDaysKey = "experiment_days"
	LastPromptKey     = "last_suggestion_prompt"
	DeclineLogKey     = "declined_patterns"
)

// blobVersion is written with every blob. Blobs carrying another version read as empty.
const blobVersion = 1

// Duration bounds in weeks.
const (
	MinDurationWeeks = 2
	MaxDurationWeeks = 8
)

// Errors returned by the Manager.
var (
	ErrActiveExperimentExists = errors.New("an experiment is already active")
	ErrExperimentNotFound     = errors.New("experiment not found")
	ErrExperimentNotActive    = errors.New("experiment is not active")
	ErrInvalidDuration        = fmt.Errorf("duration must be between %d and %d weeks", MinDurationWeeks, MaxDurationWeeks)
	ErrEmptyHypothesis        = errors.New("hypothesis cannot be empty")
)

// Manager owns every mutation of persisted experiment state. It reads and writes
// whole values with no locking, so concurrent writers can lose updates.
type Manager struct {
	store  contract.CacheStore
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides experiment ID generation.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// WithLogger sets the logger used for fail-open read warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// NewManager returns a Manager over the given store.
func NewManager(store contract.CacheStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Now returns the manager's current time.
func (m *Manager) Now() time.Time {
	return m.now()
}

// load reads a JSON blob. Missing, unreadable, corrupt or foreign-version blobs read as empty.
func load[T any](m *Manager, key string) []T {
	data, version, _, err := m.store.Get(key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			m.logger.Warn("store read failed, treating as empty", "key", key, "error", err)
		}
		return []T{}
	}
	if version != blobVersion {
		m.logger.Warn("store blob version mismatch, treating as empty", "key", key, "version", version, "expected", blobVersion)
		return []T{}
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		m.logger.Warn("store blob is corrupt, treating as empty", "key", key, "error", err)
		return []T{}
	}
	if out == nil {
		out = []T{}
	}
	return out
}

// save writes a JSON blob.
func (m *Manager) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := m.store.Set(key, data, blobVersion, m.now().Unix()); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// List returns every experiment in creation order.
func (m *Manager) List() []schema.Experiment {
	return load[schema.Experiment](m, ExperimentsKey)
}

// Active returns the active experiment, if any.
func (m *Manager) Active() *schema.Experiment {
	for _, exp := range m.List() {
		if exp.Status == schema.ActiveExperiment {
			return &exp
		}
	}
	return nil
}

// Get returns the experiment with the given ID.
func (m *Manager) Get(id string) (schema.Experiment, error) {
	for _, exp := range m.List() {
		if exp.ID == id {
			return exp, nil
		}
	}
	return schema.Experiment{}, fmt.Errorf("%w: %s", ErrExperimentNotFound, id)
}

// Create starts a new experiment. It fails with ErrActiveExperimentExists while
// another experiment is active.
func (m *Manager) Create(hypothesis string, triggerPatternType schema.PatternType, triggerDescription string, durationWeeks int) (schema.Experiment, error) {
	hypothesis = strings.TrimSpace(hypothesis)
	if hypothesis == "" {
		return schema.Experiment{}, ErrEmptyHypothesis
	}
	if durationWeeks < MinDurationWeeks || durationWeeks > MaxDurationWeeks {
		return schema.Experiment{}, fmt.Errorf("%w (received %d)", ErrInvalidDuration, durationWeeks)
	}

	experiments := m.List()
	for _, exp := range experiments {
		if exp.Status == schema.ActiveExperiment {
			return schema.Experiment{}, ErrActiveExperimentExists
		}
	}

	now := m.now()
	exp := schema.Experiment{
		ID:                 m.newID(),
		Hypothesis:         hypothesis,
		TriggerPatternType: triggerPatternType,
		TriggerDescription: strings.TrimSpace(triggerDescription),
		StartDate:          schema.FormatDate(now),
		DurationWeeks:      durationWeeks,
		Status:             schema.ActiveExperiment,
		LinkedSignalIDs:    []string{},
		CreatedAt:          now,
	}
	if err := m.save(ExperimentsKey, append(experiments, exp)); err != nil {
		return schema.Experiment{}, err
	}
	return exp, nil
}

// Conclude ends an active experiment.
func (m *Manager) Conclude(id string) (schema.Experiment, error) {
	return m.finish(id, schema.ConcludedExperiment)
}

// Abandon ends an active experiment without concluding it.
func (m *Manager) Abandon(id string) (schema.Experiment, error) {
	return m.finish(id, schema.AbandonedExperiment)
}

// finish moves an active experiment to a terminal status.
func (m *Manager) finish(id string, status schema.ExperimentStatus) (schema.Experiment, error) {
	experiments := m.List()
	for i := range experiments {
		if experiments[i].ID != id {
			continue
		}
		if experiments[i].Status != schema.ActiveExperiment {
			return schema.Experiment{}, fmt.Errorf("%w: %s is %s", ErrExperimentNotActive, id, experiments[i].Status)
		}
		now := m.now()
		experiments[i].Status = status
		experiments[i].EndDate = schema.FormatDate(now)
		experiments[i].ConcludedAt = &now
		if err := m.save(ExperimentsKey, experiments); err != nil {
			return schema.Experiment{}, err
		}
		return experiments[i], nil
	}
	return schema.Experiment{}, fmt.Errorf("%w: %s", ErrExperimentNotFound, id)
}

// IsDateActive reports whether date falls within [startDate, startDate + durationWeeks*7 days].
func IsDateActive(exp schema.Experiment, date string) bool {
	start, err := schema.ParseDate(exp.StartDate)
	if err != nil {
		return false
	}
	d, err := schema.ParseDate(date)
	if err != nil {
		return false
	}
	end := start.AddDate(0, 0, exp.DurationWeeks*7)
	return !d.Before(start) && !d.After(end)
}

// IsDateActive looks up the experiment and reports whether date is inside its window.
func (m *Manager) IsDateActive(id, date string) (bool, error) {
	exp, err := m.Get(id)
	if err != nil {
		return false, err
	}
	return IsDateActive(exp, date), nil
}

// Days returns the day records of an experiment, in the order they were first recorded.
func (m *Manager) Days(id string) []schema.ExperimentDay {
	all := load[schema.ExperimentDay](m, ExperimentDaysKey)
	days := make([]schema.ExperimentDay, 0, len(all))
	for _, d := range all {
		if d.ExperimentID == id {
			days = append(days, d)
		}
	}
	return days
}

// RecordDay upserts the (experiment, date) record of an active experiment. Signal IDs
// merge as a set and the capacity value is appended. Counters track the latest followed
// status of each day, so recording the same day again moves the count instead of
// adding to it. A nil followed status leaves the day's status and the counters untouched.
func (m *Manager) RecordDay(experimentID, date string, followed *schema.FollowedStatus, signalID string, capacityValue *float64) (schema.ExperimentDay, error) {
	if _, err := schema.ParseDate(date); err != nil {
		return schema.ExperimentDay{}, err
	}
	if followed != nil {
		if _, ok := schema.ValidFollowedStatuses[*followed]; !ok {
			return schema.ExperimentDay{}, fmt.Errorf("invalid followed value %q", *followed)
		}
	}

	experiments := m.List()
	idx := -1
	for i := range experiments {
		if experiments[i].ID == experimentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return schema.ExperimentDay{}, fmt.Errorf("%w: %s", ErrExperimentNotFound, experimentID)
	}
	exp := &experiments[idx]
	if exp.Status != schema.ActiveExperiment {
		return schema.ExperimentDay{}, fmt.Errorf("%w: %s is %s", ErrExperimentNotActive, experimentID, exp.Status)
	}

	days := load[schema.ExperimentDay](m, ExperimentDaysKey)
	dayIdx := -1
	for i := range days {
		if days[i].ExperimentID == experimentID && days[i].Date == date {
			dayIdx = i
			break
		}
	}
	if dayIdx < 0 {
		days = append(days, schema.ExperimentDay{
			ExperimentID:   experimentID,
			Date:           date,
			SignalIDs:      []string{},
			CapacityValues: []float64{},
		})
		dayIdx = len(days) - 1
	}
	day := &days[dayIdx]

	if followed != nil {
		adjustCounter(exp, day.Followed, -1)
		status := *followed
		day.Followed = &status
		adjustCounter(exp, day.Followed, 1)
	}
	if signalID != "" {
		day.SignalIDs = schema.MergeUnique(day.SignalIDs, signalID)
		exp.LinkedSignalIDs = schema.MergeUnique(exp.LinkedSignalIDs, signalID)
	}
	if capacityValue != nil {
		day.CapacityValues = append(day.CapacityValues, *capacityValue)
	}

	if err := m.save(ExperimentDaysKey, days); err != nil {
		return schema.ExperimentDay{}, err
	}
	if err := m.save(ExperimentsKey, experiments); err != nil {
		return schema.ExperimentDay{}, err
	}
	return *day, nil
}

// adjustCounter moves the lifetime counter that matches status by delta.
func adjustCounter(exp *schema.Experiment, status *schema.FollowedStatus, delta int) {
	if status == nil {
		return
	}
	switch *status {
	case schema.FollowedYes:
		exp.FollowedCount = max(0, exp.FollowedCount+delta)
	case schema.FollowedNo:
		exp.NotFollowedCount = max(0, exp.NotFollowedCount+delta)
	case schema.FollowedSkipped:
		exp.SkippedCount = max(0, exp.SkippedCount+delta)
	}
}

// Result analyzes the recorded days of an experiment.
func (m *Manager) Result(id string) (schema.ExperimentResult, error) {
	if _, err := m.Get(id); err != nil {
		return schema.ExperimentResult{}, err
	}
	return Analyze(id, m.Days(id)), nil
}
