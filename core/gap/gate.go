package gap

import (
	"fmt"

	"github.com/huangsam/ebb/schema"
)

// Gate thresholds.
const (
	DefaultMinDays = 90
	MinSignalCount = 7
)

// AnalyzeGaps is the single entry point through which gap and coverage data is exposed.
// When the period is shorter than minDays, or there are fewer than MinSignalCount
// signals, the result is unavailable and carries only a reason.
// A non-positive minDays selects DefaultMinDays.
func AnalyzeGaps(signals []schema.Signal, periodDays, minDays int) schema.GapAnalysis {
	if minDays <= 0 {
		minDays = DefaultMinDays
	}

	result := schema.GapAnalysis{
		PeriodDays:  periodDays,
		MinDays:     minDays,
		SignalCount: len(signals),
	}

	if periodDays < minDays {
		result.UnavailableReason = fmt.Sprintf("Gap analysis needs at least %d days of history (currently %d)", minDays, periodDays)
		return result
	}
	if len(signals) < MinSignalCount {
		result.UnavailableReason = fmt.Sprintf("Gap analysis needs at least %d signals (currently %d)", MinSignalCount, len(signals))
		return result
	}

	gaps := DetectGaps(signals)
	coverage := CalculateCoverage(signals, periodDays)

	result.IsAvailable = true
	result.Coverage = &coverage
	result.Gaps = gaps
	result.GapCounts = CountGapsByCategory(gaps)
	result.LongestGap = LongestGap(gaps)
	result.CoverageText = FormatCoverage(coverage)
	result.CoverageShortText = FormatCoverageShort(coverage)
	return result
}

// AnalyzeGapsFromSpan derives the period from the data and applies the same floor.
func AnalyzeGapsFromSpan(signals []schema.Signal, minDays int) schema.GapAnalysis {
	return AnalyzeGaps(signals, SpanDays(signals), minDays)
}
