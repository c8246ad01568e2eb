package gap

import (
	"fmt"
	"math"

	"github.com/huangsam/ebb/schema"
)

// CalculateCoverage counts distinct calendar days with at least one signal over periodDays.
// A non-positive period or empty input yields a zero metric.
func CalculateCoverage(signals []schema.Signal, periodDays int) schema.CoverageMetric {
	if periodDays <= 0 || len(signals) == 0 {
		return schema.CoverageMetric{PeriodDays: max(periodDays, 0)}
	}

	days := make(map[string]struct{}, len(signals))
	for _, s := range signals {
		days[s.Day()] = struct{}{}
	}

	gaps := DetectGaps(signals)
	longest := 0
	if g := LongestGap(gaps); g != nil {
		longest = g.DurationDays
	}

	return schema.CoverageMetric{
		PeriodDays:      periodDays,
		SignalDays:      len(days),
		CoveragePercent: coveragePercent(len(days), periodDays),
		GapCount:        len(gaps),
		LongestGapDays:  longest,
	}
}

// CalculateCoverageFromSignalSpan derives the period from the first and last signal.
// A single signal covers its one day completely.
func CalculateCoverageFromSignalSpan(signals []schema.Signal) schema.CoverageMetric {
	if len(signals) == 0 {
		return schema.CoverageMetric{}
	}
	if len(signals) == 1 {
		return schema.CoverageMetric{PeriodDays: 1, SignalDays: 1, CoveragePercent: 100}
	}
	return CalculateCoverage(signals, SpanDays(signals))
}

// SpanDays returns the number of days between the first and last signal, rounded up,
// with a minimum of 1. Empty input yields 0.
func SpanDays(signals []schema.Signal) int {
	if len(signals) == 0 {
		return 0
	}
	first, last := signals[0].Timestamp, signals[0].Timestamp
	for _, s := range signals[1:] {
		first = min(first, s.Timestamp)
		last = max(last, s.Timestamp)
	}
	span := int(math.Ceil(float64(last-first) / float64(schema.MsPerDay)))
	return max(span, 1)
}

// coveragePercent rounds to the nearest whole percent, never above 100.
// Signals straddling midnight in a sub-day span can yield more signal days than period days.
func coveragePercent(signalDays, periodDays int) int {
	pct := int(math.Round(float64(signalDays) / float64(periodDays) * 100))
	return min(pct, 100)
}

// FormatCoverage renders the long coverage phrase.
func FormatCoverage(m schema.CoverageMetric) string {
	return fmt.Sprintf("Signals present on %d of %d days (%d%%)", m.SignalDays, m.PeriodDays, m.CoveragePercent)
}

// FormatCoverageShort renders the short coverage phrase.
func FormatCoverageShort(m schema.CoverageMetric) string {
	return fmt.Sprintf("%d%% coverage", m.CoveragePercent)
}
