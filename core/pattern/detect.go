// Package pattern finds recurring low-capacity regularities in recent signals
// and maps them to fixed, neutral experiment suggestions.
package pattern

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/ebb/schema"
)

// Detection thresholds.
const (
	WindowDays        = 30
	MinHistorySignals = 14
	MinWindowSignals  = 7

	minBucketSignals    = 3
	maxDayOfWeekAverage = 40.0
	minDayOfWeekLows    = 2
	minCategoryLows     = 3
	minStreak           = 3

	dayOfWeekCap   = 0.9
	categoryCap    = 0.85
	consecutiveCap = 0.8
)

// weekdayAggregate accumulates capacity per weekday.
type weekdayAggregate struct {
	count int
	lows  int
	sum   float64
}

// categoryAggregate accumulates signal and low counts per category.
type categoryAggregate struct {
	count int
	lows  int
}

// DetectPatterns runs every detector over the trailing window ending at now.
// It returns nothing unless the full history and the window carry enough signals.
// Results are ordered by confidence, highest first.
func DetectPatterns(signals []schema.Signal, now time.Time) []schema.DetectedPattern {
	if len(signals) < MinHistorySignals {
		return []schema.DetectedPattern{}
	}
	window := Window(signals, now)
	if len(window) < MinWindowSignals {
		return []schema.DetectedPattern{}
	}

	patterns := make([]schema.DetectedPattern, 0, 3)
	for _, detect := range []func([]schema.Signal) *schema.DetectedPattern{
		DetectDayOfWeek,
		DetectCategory,
		DetectConsecutiveDepletion,
	} {
		if p := detect(window); p != nil {
			patterns = append(patterns, *p)
		}
	}

	slices.SortStableFunc(patterns, func(a, b schema.DetectedPattern) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		default:
			return 0
		}
	})
	return patterns
}

// Window returns the signals within the last WindowDays up to now, in chronological order.
func Window(signals []schema.Signal, now time.Time) []schema.Signal {
	end := now.UnixMilli()
	start := now.AddDate(0, 0, -WindowDays).UnixMilli()
	window := make([]schema.Signal, 0, len(signals))
	for _, s := range signals {
		if s.Timestamp >= start && s.Timestamp <= end {
			window = append(window, s)
		}
	}
	slices.SortStableFunc(window, func(a, b schema.Signal) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		default:
			return 0
		}
	})
	return window
}

// DetectDayOfWeek finds the weekday with the lowest average capacity.
// Weekdays are scanned Sunday first and a later weekday must be strictly lower to win.
func DetectDayOfWeek(signals []schema.Signal) *schema.DetectedPattern {
	var days [7]weekdayAggregate
	for _, s := range signals {
		agg := &days[s.Weekday()]
		agg.count++
		agg.sum += s.State.Capacity()
		if s.State == schema.LowState {
			agg.lows++
		}
	}

	best := -1
	bestAvg := math.Inf(1)
	for wd := range days {
		agg := days[wd]
		if agg.count < minBucketSignals {
			continue
		}
		if avg := agg.sum / float64(agg.count); avg < bestAvg {
			best, bestAvg = wd, avg
		}
	}
	if best < 0 || bestAvg >= maxDayOfWeekAverage || days[best].lows < minDayOfWeekLows {
		return nil
	}

	agg := days[best]
	weekday := time.Weekday(best)
	return &schema.DetectedPattern{
		Type:        schema.DayOfWeekPattern,
		Description: fmt.Sprintf("Lower capacity often shows up on %ss", weekday),
		Confidence:  math.Min(dayOfWeekCap, float64(agg.lows)/float64(agg.count)),
		SampleSize:  agg.count,
		Weekday:     &weekday,
	}
}

// DetectCategory finds the category with the most low-capacity signals.
// A signal counts once per category whether it matched by field or by tag.
// Earlier categories win ties.
func DetectCategory(signals []schema.Signal) *schema.DetectedPattern {
	aggs := make(map[schema.Category]*categoryAggregate, len(schema.AllCategories))
	for _, c := range schema.AllCategories {
		aggs[c] = &categoryAggregate{}
	}
	for _, s := range signals {
		for _, c := range schema.AllCategories {
			if !s.HasCategory(c) {
				continue
			}
			aggs[c].count++
			if s.State == schema.LowState {
				aggs[c].lows++
			}
		}
	}

	var best schema.Category
	bestLows := 0
	for _, c := range schema.AllCategories {
		agg := aggs[c]
		if agg.count < minBucketSignals {
			continue
		}
		if agg.lows > bestLows {
			best, bestLows = c, agg.lows
		}
	}
	if best == "" || bestLows < minCategoryLows {
		return nil
	}

	agg := aggs[best]
	return &schema.DetectedPattern{
		Type:        schema.CategoryPatternTypes[best],
		Description: fmt.Sprintf("Check-ins tagged %s are often low capacity", strings.ToLower(string(best))),
		Confidence:  math.Min(categoryCap, float64(agg.lows)/float64(agg.count)),
		SampleSize:  agg.count,
		Category:    best,
	}
}

// DetectConsecutiveDepletion finds the longest run of low-capacity entries where
// each entry falls on the same or the next calendar day as the one before it.
// Any non-low entry ends the run. The input must be in chronological order.
func DetectConsecutiveDepletion(signals []schema.Signal) *schema.DetectedPattern {
	streak, longest := 0, 0
	var prevDay time.Time
	for _, s := range signals {
		if s.State != schema.LowState {
			streak = 0
			continue
		}
		day := s.DayTime()
		if streak > 0 {
			if diff := schema.DaysBetween(prevDay, day); diff >= 0 && diff <= 1 {
				streak++
			} else {
				streak = 1
			}
		} else {
			streak = 1
		}
		prevDay = day
		longest = max(longest, streak)
	}
	if longest < minStreak {
		return nil
	}

	return &schema.DetectedPattern{
		Type:         schema.ConsecutiveDepletionPattern,
		Description:  fmt.Sprintf("Low capacity has run for %d check-ins in a row", longest),
		Confidence:   math.Min(consecutiveCap, 0.5+0.1*float64(longest-minStreak)),
		SampleSize:   longest,
		StreakLength: longest,
	}
}
