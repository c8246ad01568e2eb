package pattern

import (
	"testing"
	"time"

	"github.com/huangsam/ebb/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.March, 31, 20, 0, 0, 0, time.UTC)

// sig builds a signal at noon UTC of the given date.
func sig(date string, state schema.CapacityState, tags ...string) schema.Signal {
	t, err := time.Parse(schema.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return schema.Signal{Timestamp: t.Add(12 * time.Hour).UnixMilli(), State: state, Tags: tags}
}

func withCategory(s schema.Signal, c schema.Category) schema.Signal {
	s.Category = c
	return s
}

// februaryHistory returns n high signals outside the detection window.
func februaryHistory(n int) []schema.Signal {
	out := make([]schema.Signal, 0, n)
	for i := range n {
		out = append(out, sig(schema.FormatDate(time.Date(2024, 2, 1+i, 0, 0, 0, 0, time.UTC)), schema.HighState))
	}
	return out
}

func TestDetectDayOfWeek(t *testing.T) {
	t.Run("lowest weekday", func(t *testing.T) {
		signals := []schema.Signal{
			sig("2024-03-04", schema.LowState), sig("2024-03-11", schema.LowState),
			sig("2024-03-18", schema.LowState), sig("2024-03-25", schema.MidState),
			sig("2024-03-05", schema.HighState), sig("2024-03-12", schema.HighState), sig("2024-03-19", schema.HighState),
		}
		p := DetectDayOfWeek(signals)
		require.NotNil(t, p)
		assert.Equal(t, schema.DayOfWeekPattern, p.Type)
		require.NotNil(t, p.Weekday)
		assert.Equal(t, time.Monday, *p.Weekday)
		assert.Equal(t, 4, p.SampleSize)
		assert.InDelta(t, 0.75, p.Confidence, 1e-9)
		assert.Equal(t, "Lower capacity often shows up on Mondays", p.Description)
	})

	t.Run("confidence capped", func(t *testing.T) {
		signals := []schema.Signal{
			sig("2024-03-04", schema.LowState), sig("2024-03-11", schema.LowState), sig("2024-03-18", schema.LowState),
		}
		p := DetectDayOfWeek(signals)
		require.NotNil(t, p)
		assert.InDelta(t, 0.9, p.Confidence, 1e-9)
	})

	t.Run("first weekday wins ties", func(t *testing.T) {
		signals := []schema.Signal{
			sig("2024-03-04", schema.LowState), sig("2024-03-11", schema.LowState), sig("2024-03-18", schema.LowState), // Mondays
			sig("2024-03-03", schema.LowState), sig("2024-03-10", schema.LowState), sig("2024-03-17", schema.LowState), // Sundays
		}
		p := DetectDayOfWeek(signals)
		require.NotNil(t, p)
		assert.Equal(t, time.Sunday, *p.Weekday)
	})

	t.Run("borderline average with enough lows", func(t *testing.T) {
		signals := []schema.Signal{
			sig("2024-03-04", schema.LowState), sig("2024-03-11", schema.LowState), sig("2024-03-18", schema.HighState),
		}
		p := DetectDayOfWeek(signals)
		require.NotNil(t, p)
		assert.InDelta(t, 2.0/3.0, p.Confidence, 1e-9)
	})

	t.Run("not reported", func(t *testing.T) {
		tests := map[string][]schema.Signal{
			"too few lows": {
				sig("2024-03-04", schema.LowState), sig("2024-03-11", schema.MidState), sig("2024-03-18", schema.MidState),
			},
			"average too high": {
				sig("2024-03-04", schema.LowState), sig("2024-03-11", schema.LowState),
				sig("2024-03-18", schema.HighState), sig("2024-03-25", schema.HighState),
			},
			"weekday under three signals": {
				sig("2024-03-04", schema.LowState), sig("2024-03-11", schema.LowState),
			},
			"empty": nil,
		}
		for name, signals := range tests {
			t.Run(name, func(t *testing.T) {
				assert.Nil(t, DetectDayOfWeek(signals))
			})
		}
	})

	t.Run("local date decides weekday", func(t *testing.T) {
		signals := make([]schema.Signal, 0, 3)
		for _, d := range []string{"2024-03-04", "2024-03-11", "2024-03-18"} {
			s := sig(d, schema.LowState)
			local, _ := schema.AddDays(d, 1)
			s.LocalDate = local
			signals = append(signals, s)
		}
		p := DetectDayOfWeek(signals)
		require.NotNil(t, p)
		assert.Equal(t, time.Tuesday, *p.Weekday)
	})
}

func TestDetectCategory(t *testing.T) {
	t.Run("most lows wins", func(t *testing.T) {
		signals := []schema.Signal{
			withCategory(sig("2024-03-01", schema.LowState), schema.SensoryCategory),
			withCategory(sig("2024-03-02", schema.LowState), schema.SensoryCategory),
			withCategory(sig("2024-03-03", schema.LowState), schema.SensoryCategory),
			sig("2024-03-04", schema.LowState, "demand"),
			sig("2024-03-05", schema.LowState, "Demand"),
			sig("2024-03-06", schema.LowState, "DEMAND", "work"),
			sig("2024-03-07", schema.LowState, "demand"),
			sig("2024-03-08", schema.HighState, "demand"),
		}
		p := DetectCategory(signals)
		require.NotNil(t, p)
		assert.Equal(t, schema.CategoryDemandPattern, p.Type)
		assert.Equal(t, schema.DemandCategory, p.Category)
		assert.Equal(t, 5, p.SampleSize)
		assert.InDelta(t, 0.8, p.Confidence, 1e-9)
	})

	t.Run("ties favor earlier category and confidence is capped", func(t *testing.T) {
		signals := []schema.Signal{
			sig("2024-03-01", schema.LowState, "social"),
			sig("2024-03-02", schema.LowState, "social"),
			sig("2024-03-03", schema.LowState, "social"),
			withCategory(sig("2024-03-04", schema.LowState), schema.SensoryCategory),
			withCategory(sig("2024-03-05", schema.LowState), schema.SensoryCategory),
			withCategory(sig("2024-03-06", schema.LowState), schema.SensoryCategory),
		}
		p := DetectCategory(signals)
		require.NotNil(t, p)
		assert.Equal(t, schema.CategorySensoryPattern, p.Type)
		assert.InDelta(t, 0.85, p.Confidence, 1e-9)
	})

	t.Run("field and tag count once", func(t *testing.T) {
		signals := []schema.Signal{
			withCategory(sig("2024-03-01", schema.LowState, "sensory"), schema.SensoryCategory),
			withCategory(sig("2024-03-02", schema.LowState, "sensory"), schema.SensoryCategory),
		}
		assert.Nil(t, DetectCategory(signals), "two signals must not count as four")
	})

	t.Run("too few lows", func(t *testing.T) {
		signals := []schema.Signal{
			sig("2024-03-01", schema.LowState, "social"),
			sig("2024-03-02", schema.LowState, "social"),
			sig("2024-03-03", schema.MidState, "social"),
			sig("2024-03-04", schema.HighState, "social"),
		}
		assert.Nil(t, DetectCategory(signals))
	})
}

func TestDetectConsecutiveDepletion(t *testing.T) {
	tests := []struct {
		name       string
		signals    []schema.Signal
		wantStreak int
		wantConf   float64
	}{
		{
			name:       "three consecutive days",
			signals:    []schema.Signal{sig("2024-03-01", schema.LowState), sig("2024-03-02", schema.LowState), sig("2024-03-03", schema.LowState)},
			wantStreak: 3,
			wantConf:   0.5,
		},
		{
			name: "calendar gap restarts the run",
			signals: []schema.Signal{
				sig("2024-03-01", schema.LowState), sig("2024-03-02", schema.LowState),
				sig("2024-03-04", schema.LowState), sig("2024-03-05", schema.LowState),
				sig("2024-03-06", schema.LowState), sig("2024-03-07", schema.LowState),
			},
			wantStreak: 4,
			wantConf:   0.6,
		},
		{
			name:       "same day entries extend the run",
			signals:    []schema.Signal{sig("2024-03-01", schema.LowState), sig("2024-03-01", schema.LowState), sig("2024-03-01", schema.LowState)},
			wantStreak: 3,
			wantConf:   0.5,
		},
		{
			name: "confidence capped",
			signals: []schema.Signal{
				sig("2024-03-01", schema.LowState), sig("2024-03-02", schema.LowState), sig("2024-03-03", schema.LowState),
				sig("2024-03-04", schema.LowState), sig("2024-03-05", schema.LowState), sig("2024-03-06", schema.LowState),
				sig("2024-03-07", schema.LowState),
			},
			wantStreak: 7,
			wantConf:   0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DetectConsecutiveDepletion(tt.signals)
			require.NotNil(t, p)
			assert.Equal(t, schema.ConsecutiveDepletionPattern, p.Type)
			assert.Equal(t, tt.wantStreak, p.StreakLength)
			assert.InDelta(t, tt.wantConf, p.Confidence, 1e-9)
		})
	}

	t.Run("non-low entry resets", func(t *testing.T) {
		signals := []schema.Signal{
			sig("2024-03-01", schema.LowState), sig("2024-03-02", schema.LowState),
			sig("2024-03-02", schema.MidState),
			sig("2024-03-03", schema.LowState), sig("2024-03-04", schema.LowState),
		}
		assert.Nil(t, DetectConsecutiveDepletion(signals))
	})
}

// fullFixture triggers all three detectors inside the window.
func fullFixture() []schema.Signal {
	signals := februaryHistory(10)
	signals = append(signals,
		sig("2024-03-04", schema.LowState, "social"),
		sig("2024-03-05", schema.HighState),
		sig("2024-03-07", schema.HighState),
		sig("2024-03-08", schema.HighState),
		sig("2024-03-11", schema.LowState, "social"),
		sig("2024-03-18", schema.LowState, "social"),
		sig("2024-03-25", schema.LowState, "social"),
		sig("2024-03-26", schema.LowState),
		sig("2024-03-27", schema.LowState),
	)
	return signals
}

func TestDetectPatterns(t *testing.T) {
	t.Run("all detectors sorted by confidence", func(t *testing.T) {
		signals := fullFixture()
		// Reverse to show input order does not matter
		for i, j := 0, len(signals)-1; i < j; i, j = i+1, j-1 {
			signals[i], signals[j] = signals[j], signals[i]
		}

		patterns := DetectPatterns(signals, now)
		require.Len(t, patterns, 3)
		assert.Equal(t, schema.DayOfWeekPattern, patterns[0].Type)
		assert.InDelta(t, 0.9, patterns[0].Confidence, 1e-9)
		assert.Equal(t, schema.CategorySocialPattern, patterns[1].Type)
		assert.InDelta(t, 0.85, patterns[1].Confidence, 1e-9)
		assert.Equal(t, schema.ConsecutiveDepletionPattern, patterns[2].Type)
		assert.Equal(t, 3, patterns[2].StreakLength)
	})

	t.Run("not enough history", func(t *testing.T) {
		signals := fullFixture()[6:] // 13 signals
		assert.Empty(t, DetectPatterns(signals, now))
	})

	t.Run("not enough in window", func(t *testing.T) {
		signals := append(februaryHistory(20), sig("2024-03-04", schema.LowState))
		assert.Empty(t, DetectPatterns(signals, now))
	})

	t.Run("nothing to report", func(t *testing.T) {
		signals := februaryHistory(10)
		for _, d := range []string{"2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07", "2024-03-08", "2024-03-09", "2024-03-10"} {
			signals = append(signals, sig(d, schema.HighState))
		}
		patterns := DetectPatterns(signals, now)
		assert.NotNil(t, patterns)
		assert.Empty(t, patterns)
	})
}

func TestWindow(t *testing.T) {
	future := sig("2024-04-02", schema.LowState)
	edge := schema.Signal{Timestamp: now.UnixMilli(), State: schema.LowState}
	start := schema.Signal{Timestamp: now.AddDate(0, 0, -WindowDays).UnixMilli(), State: schema.LowState}
	before := schema.Signal{Timestamp: start.Timestamp - 1, State: schema.LowState}

	window := Window([]schema.Signal{future, edge, before, start}, now)
	assert.Equal(t, []schema.Signal{start, edge}, window)
}
