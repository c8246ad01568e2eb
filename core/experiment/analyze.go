package experiment

import (
	"fmt"
	"math"

	"github.com/huangsam/ebb/schema"
)

// Analyzer thresholds. Buckets cut the 0..100 scale at 25 and 75, so the fixed
// state values high=100, mid=50, low=0 land in the high, mid and low buckets.
const (
	HighBucketMin        = 75.0
	MidBucketMin         = 25.0
	CorrelationThreshold = 15.0
	MinFollowedDays      = 2
	MinNotFollowedDays   = 1
)

// BucketOf returns the bucket a capacity value falls into.
func BucketOf(value float64) schema.CapacityState {
	switch {
	case value >= HighBucketMin:
		return schema.HighState
	case value >= MidBucketMin:
		return schema.MidState
	default:
		return schema.LowState
	}
}

// partition collects the flattened capacity values of one side of the comparison.
type partition struct {
	days   int
	values []float64
}

func (p partition) mean() float64 {
	if len(p.values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range p.values {
		sum += v
	}
	return sum / float64(len(p.values))
}

func (p partition) distribution() schema.BucketDistribution {
	var d schema.BucketDistribution
	for _, v := range p.values {
		switch BucketOf(v) {
		case schema.HighState:
			d.High++
		case schema.MidState:
			d.Mid++
		case schema.LowState:
			d.Low++
		}
	}
	return d
}

// Analyze compares capacity on followed days against not-followed days.
// Records belonging to other experiments are ignored. The result describes a
// correlation only and never recommends an action.
func Analyze(experimentID string, days []schema.ExperimentDay) schema.ExperimentResult {
	var followed, notFollowed partition
	skipped := 0
	for _, d := range days {
		if d.ExperimentID != experimentID || d.Followed == nil {
			continue
		}
		switch *d.Followed {
		case schema.FollowedYes:
			followed.days++
			followed.values = append(followed.values, d.CapacityValues...)
		case schema.FollowedNo:
			notFollowed.days++
			notFollowed.values = append(notFollowed.values, d.CapacityValues...)
		case schema.FollowedSkipped:
			skipped++
		}
	}

	result := schema.ExperimentResult{
		ExperimentID:            experimentID,
		FollowedDays:            followed.days,
		NotFollowedDays:         notFollowed.days,
		SkippedDays:             skipped,
		FollowedMean:            followed.mean(),
		NotFollowedMean:         notFollowed.mean(),
		FollowedDistribution:    followed.distribution(),
		NotFollowedDistribution: notFollowed.distribution(),
		Direction:               schema.NoDirection,
	}

	if followed.days < MinFollowedDays || notFollowed.days < MinNotFollowedDays ||
		len(followed.values) == 0 || len(notFollowed.values) == 0 {
		result.Summary = fmt.Sprintf(
			"Insufficient data: %d followed and %d not-followed days with capacity recorded so far. At least %d and %d are needed to compare.",
			followed.days, notFollowed.days, MinFollowedDays, MinNotFollowedDays)
		return result
	}

	result.HasSufficientData = true
	result.Difference = result.FollowedMean - result.NotFollowedMean

	if math.Abs(result.Difference) < CorrelationThreshold {
		result.Summary = fmt.Sprintf(
			"No clear correlation: capacity averaged %.0f on followed days and %.0f on other days.",
			result.FollowedMean, result.NotFollowedMean)
		return result
	}

	result.CorrelationObserved = true
	word := "higher"
	result.Direction = schema.PositiveDirection
	if result.Difference < 0 {
		word = "lower"
		result.Direction = schema.NegativeDirection
	}
	result.Summary = fmt.Sprintf(
		"Capacity tended to be %s on followed days (average %.0f) than on other days (average %.0f). This is a correlation and does not show cause.",
		word, result.FollowedMean, result.NotFollowedMean)
	return result
}
