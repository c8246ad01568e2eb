package schema

import "time"

// Experiment is a time-boxed test of a user-chosen hypothesis.
type Experiment struct {
	ID                 string           `json:"id" yaml:"id"`
	Hypothesis         string           `json:"hypothesis" yaml:"hypothesis"`
	TriggerPatternType PatternType      `json:"triggerPatternType" yaml:"triggerPatternType"`
	TriggerDescription string           `json:"triggerDescription" yaml:"triggerDescription"`
	StartDate          string           `json:"startDate" yaml:"startDate"` // YYYY-MM-DD
	DurationWeeks      int              `json:"durationWeeks" yaml:"durationWeeks"`
	Status             ExperimentStatus `json:"status" yaml:"status"`
	LinkedSignalIDs    []string         `json:"linkedSignalIds" yaml:"linkedSignalIds"`
	FollowedCount      int              `json:"followedCount" yaml:"followedCount"`
	NotFollowedCount   int              `json:"notFollowedCount" yaml:"notFollowedCount"`
	SkippedCount       int              `json:"skippedCount" yaml:"skippedCount"`
	CreatedAt          time.Time        `json:"createdAt" yaml:"createdAt"`
	EndDate            string           `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	ConcludedAt        *time.Time       `json:"concludedAt,omitempty" yaml:"concludedAt,omitempty"`
}

// ExperimentDay is the per-day log of an experiment, keyed by experiment and date.
type ExperimentDay struct {
	ExperimentID   string          `json:"experimentId" yaml:"experimentId"`
	Date           string          `json:"date" yaml:"date"` // YYYY-MM-DD
	Followed       *FollowedStatus `json:"followed" yaml:"followed"`
	SignalIDs      []string        `json:"signalIds" yaml:"signalIds"`
	CapacityValues []float64       `json:"capacityValues" yaml:"capacityValues"`
}

// BucketDistribution counts capacity values per bucket: high >=75, mid 25-74, low <25.
type BucketDistribution struct {
	High int `json:"high" yaml:"high"`
	Mid  int `json:"mid" yaml:"mid"`
	Low  int `json:"low" yaml:"low"`
}

// ExperimentResult is the comparison of followed and not-followed days.
type ExperimentResult struct {
	ExperimentID            string             `json:"experimentId" yaml:"experimentId"`
	FollowedDays            int                `json:"followedDays" yaml:"followedDays"`
	NotFollowedDays         int                `json:"notFollowedDays" yaml:"notFollowedDays"`
	SkippedDays             int                `json:"skippedDays" yaml:"skippedDays"`
	FollowedMean            float64            `json:"followedMean" yaml:"followedMean"`
	NotFollowedMean         float64            `json:"notFollowedMean" yaml:"notFollowedMean"`
	FollowedDistribution    BucketDistribution `json:"followedDistribution" yaml:"followedDistribution"`
	NotFollowedDistribution BucketDistribution `json:"notFollowedDistribution" yaml:"notFollowedDistribution"`
	Difference              float64            `json:"difference" yaml:"difference"` // followed minus not-followed
	HasSufficientData       bool               `json:"hasSufficientData" yaml:"hasSufficientData"`
	CorrelationObserved     bool               `json:"correlationObserved" yaml:"correlationObserved"`
	Direction               Direction          `json:"direction" yaml:"direction"`
	Summary                 string             `json:"summary" yaml:"summary"`
}
