package signalstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/ebb/internal/contract"
	"github.com/huangsam/ebb/schema"
)

// SignalsKey is the store key holding the signal history.
const SignalsKey = "capacity_signals"

const signalsVersion = 1

// StoreSource keeps the signal history as one JSON blob in a key/value store.
type StoreSource struct {
	store  contract.CacheStore
	logger *slog.Logger
}

var _ contract.SignalAppender = &StoreSource{} // Compile-time check

// NewStoreSource returns a source backed by store.
func NewStoreSource(store contract.CacheStore, logger *slog.Logger) *StoreSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreSource{store: store, logger: logger}
}

// ListSignals returns the stored history ordered by timestamp. A missing,
// unreadable or corrupt blob reads as an empty history.
func (s *StoreSource) ListSignals() ([]schema.Signal, error) {
	data, version, _, err := s.store.Get(SignalsKey)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("signal read failed, treating as empty", "key", SignalsKey, "error", err)
		}
		return []schema.Signal{}, nil
	}
	if version != signalsVersion {
		s.logger.Warn("signal blob version mismatch, treating as empty", "version", version)
		return []schema.Signal{}, nil
	}
	var signals []schema.Signal
	if err := json.Unmarshal(data, &signals); err != nil {
		s.logger.Warn("signal blob is corrupt, treating as empty", "error", err)
		return []schema.Signal{}, nil
	}
	if signals == nil {
		signals = []schema.Signal{}
	}
	return signals, nil
}

// AppendSignals validates and stores new signals. Signals without an ID get a
// generated one, written back into the passed slice; signals whose ID is
// already stored are skipped.
func (s *StoreSource) AppendSignals(signals ...schema.Signal) error {
	for i := range signals {
		if err := signals[i].Validate(); err != nil {
			return fmt.Errorf("signal %d: %w", i+1, err)
		}
		if signals[i].ID == "" {
			signals[i].ID = uuid.NewString()
		}
	}
	existing, err := s.ListSignals()
	if err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, sig := range existing {
		if sig.ID != "" {
			seen[sig.ID] = struct{}{}
		}
	}
	for _, sig := range signals {
		if _, dup := seen[sig.ID]; dup {
			continue
		}
		seen[sig.ID] = struct{}{}
		existing = append(existing, sig)
	}
	sort.SliceStable(existing, func(i, j int) bool {
		return existing[i].Timestamp < existing[j].Timestamp
	})

	data, err := json.Marshal(existing)
	if err != nil {
		return fmt.Errorf("failed to encode signals: %w", err)
	}
	if err := s.store.Set(SignalsKey, data, signalsVersion, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to write signals: %w", err)
	}
	return nil
}

// Open returns a file source when path is set, otherwise the store source.
func Open(path string, store contract.CacheStore, logger *slog.Logger) contract.SignalSource {
	if path != "" {
		return NewFileSource(path)
	}
	return NewStoreSource(store, logger)
}
