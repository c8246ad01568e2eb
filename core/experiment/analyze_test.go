package experiment

import (
	"testing"

	"github.com/huangsam/ebb/schema"
	"github.com/stretchr/testify/assert"
)

func day(status schema.FollowedStatus, values ...float64) schema.ExperimentDay {
	return schema.ExperimentDay{ExperimentID: "e", Followed: &status, CapacityValues: values}
}

func TestBucketOf(t *testing.T) {
	tests := []struct {
		value float64
		want  schema.CapacityState
	}{
		{100, schema.HighState},
		{75, schema.HighState},
		{74.9, schema.MidState},
		{50, schema.MidState},
		{25, schema.MidState},
		{24.9, schema.LowState},
		{0, schema.LowState},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketOf(tt.value), "value %v", tt.value)
	}
}

func TestAnalyze(t *testing.T) {
	t.Run("positive correlation", func(t *testing.T) {
		days := []schema.ExperimentDay{
			day(schema.FollowedYes, 100, 50, 100),
			day(schema.FollowedYes, 70),
			day(schema.FollowedNo, 50, 70),
			day(schema.FollowedSkipped, 0),
		}
		result := Analyze("e", days)
		assert.Equal(t, 2, result.FollowedDays)
		assert.Equal(t, 1, result.NotFollowedDays)
		assert.Equal(t, 1, result.SkippedDays)
		assert.InDelta(t, 80.0, result.FollowedMean, 0.001)
		assert.InDelta(t, 60.0, result.NotFollowedMean, 0.001)
		assert.InDelta(t, 20.0, result.Difference, 0.001)
		assert.True(t, result.HasSufficientData)
		assert.True(t, result.CorrelationObserved)
		assert.Equal(t, schema.PositiveDirection, result.Direction)
		assert.Equal(t, schema.BucketDistribution{High: 2, Mid: 2}, result.FollowedDistribution)
		assert.Equal(t, schema.BucketDistribution{Mid: 2}, result.NotFollowedDistribution)
		assert.Contains(t, result.Summary, "correlation")
		assert.NotContains(t, result.Summary, "should")
	})

	t.Run("negative correlation", func(t *testing.T) {
		result := Analyze("e", []schema.ExperimentDay{
			day(schema.FollowedYes, 0),
			day(schema.FollowedYes, 50),
			day(schema.FollowedNo, 100),
		})
		assert.InDelta(t, -75.0, result.Difference, 0.001)
		assert.True(t, result.CorrelationObserved)
		assert.Equal(t, schema.NegativeDirection, result.Direction)
		assert.Equal(t, schema.BucketDistribution{Mid: 1, Low: 1}, result.FollowedDistribution)
	})

	t.Run("difference below threshold", func(t *testing.T) {
		result := Analyze("e", []schema.ExperimentDay{
			day(schema.FollowedYes, 60),
			day(schema.FollowedYes, 60),
			day(schema.FollowedNo, 50),
		})
		assert.True(t, result.HasSufficientData)
		assert.False(t, result.CorrelationObserved)
		assert.Equal(t, schema.NoDirection, result.Direction)
		assert.Contains(t, result.Summary, "No clear correlation")
	})

	t.Run("difference exactly at threshold", func(t *testing.T) {
		result := Analyze("e", []schema.ExperimentDay{
			day(schema.FollowedYes, 65),
			day(schema.FollowedYes, 65),
			day(schema.FollowedNo, 50),
		})
		assert.True(t, result.CorrelationObserved)
	})

	t.Run("one followed day is insufficient", func(t *testing.T) {
		result := Analyze("e", []schema.ExperimentDay{
			day(schema.FollowedYes, 100),
			day(schema.FollowedNo, 0),
			day(schema.FollowedNo, 0),
		})
		assert.False(t, result.HasSufficientData)
		assert.False(t, result.CorrelationObserved)
		assert.Equal(t, schema.NoDirection, result.Direction)
		assert.Zero(t, result.Difference)
		assert.Contains(t, result.Summary, "Insufficient data")
	})

	t.Run("no not-followed days is insufficient", func(t *testing.T) {
		result := Analyze("e", []schema.ExperimentDay{
			day(schema.FollowedYes, 100),
			day(schema.FollowedYes, 100),
		})
		assert.False(t, result.HasSufficientData)
	})

	t.Run("days without values on one side are insufficient", func(t *testing.T) {
		result := Analyze("e", []schema.ExperimentDay{
			day(schema.FollowedYes, 100),
			day(schema.FollowedYes, 100),
			day(schema.FollowedNo),
		})
		assert.False(t, result.HasSufficientData)
	})

	t.Run("unset and foreign days are ignored", func(t *testing.T) {
		other := day(schema.FollowedYes, 0)
		other.ExperimentID = "other"
		result := Analyze("e", []schema.ExperimentDay{
			{ExperimentID: "e", CapacityValues: []float64{0}},
			other,
		})
		assert.Zero(t, result.FollowedDays)
		assert.Zero(t, result.NotFollowedDays)
		assert.Zero(t, result.SkippedDays)
	})
}
