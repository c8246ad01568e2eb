// Package gap derives absences and coverage from signal history and gates
// their exposure behind a minimum history window.
package gap

import (
	"slices"

	"github.com/huangsam/ebb/schema"
)

// CategorizeGap classifies a gap length in whole days.
func CategorizeGap(days int) schema.GapCategory {
	switch {
	case days < 4:
		return schema.ShortGap
	case days < 15:
		return schema.MediumGap
	default:
		return schema.ExtendedGap
	}
}

// sortedByTime returns a copy of signals in ascending timestamp order.
// Equal timestamps keep their input order.
func sortedByTime(signals []schema.Signal) []schema.Signal {
	sorted := slices.Clone(signals)
	slices.SortStableFunc(sorted, func(a, b schema.Signal) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		default:
			return 0
		}
	})
	return sorted
}

// DetectGaps returns the absences between consecutive signals that last at least
// one whole day, in chronological order. The input is not modified.
func DetectGaps(signals []schema.Signal) []schema.DerivedGap {
	if len(signals) < 2 {
		return []schema.DerivedGap{}
	}

	sorted := sortedByTime(signals)
	gaps := make([]schema.DerivedGap, 0)
	for i := 1; i < len(sorted); i++ {
		prev, next := sorted[i-1].Timestamp, sorted[i].Timestamp
		days := int((next - prev) / schema.MsPerDay)
		if days < 1 {
			continue
		}
		gaps = append(gaps, schema.DerivedGap{
			StartTimestamp: prev,
			EndTimestamp:   next,
			DurationDays:   days,
			Category:       CategorizeGap(days),
		})
	}
	return gaps
}

// LongestGap returns the gap with the largest duration, or nil when there are none.
// The earliest gap wins ties.
func LongestGap(gaps []schema.DerivedGap) *schema.DerivedGap {
	if len(gaps) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(gaps); i++ {
		if gaps[i].DurationDays > gaps[best].DurationDays {
			best = i
		}
	}
	g := gaps[best]
	return &g
}

// CountGapsByCategory counts gaps per category. Every category is present in the result.
func CountGapsByCategory(gaps []schema.DerivedGap) map[schema.GapCategory]int {
	counts := make(map[schema.GapCategory]int, len(schema.AllGapCategories))
	for _, c := range schema.AllGapCategories {
		counts[c] = 0
	}
	for _, g := range gaps {
		counts[g.Category]++
	}
	return counts
}
