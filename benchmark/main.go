// Package main is a performance benchmarking tool for the ebb analysis core.
// It generates synthetic signal histories of increasing size, times gap analysis,
// pattern detection and experiment analysis over each one, treating the first run
// as cold and averaging the rest as warm, and writes the timings to a CSV file.
//
// Usage: go run benchmark/main.go [runs]
//
//	runs: Number of timed runs per operation (default 5)
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/ebb/core/experiment"
	"github.com/huangsam/ebb/core/gap"
	"github.com/huangsam/ebb/core/pattern"
	"github.com/huangsam/ebb/schema"
)

// BenchmarkResult holds the cold run and the average of warm runs for one operation.
type BenchmarkResult struct {
	History   string
	Operation string
	ColdTime  string
	WarmTime  string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Runs      int
	Now       time.Time
	Histories map[string]int // label to number of days of history
	PerDay    int            // signals per day
}

func main() {
	runs := 5
	if len(os.Args) > 2 {
		fmt.Printf("Usage: %s [runs]\n", os.Args[0])
		os.Exit(1)
	}
	if len(os.Args) == 2 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil || n < 2 {
			fmt.Printf("runs must be an integer of at least 2\n")
			os.Exit(1)
		}
		runs = n
	}

	config := BenchmarkConfig{
		Runs: runs,
		Now:  time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		Histories: map[string]int{
			"quarter": 90,
			"year":    365,
			"decade":  3650,
		},
		PerDay: 4,
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// syntheticHistory returns days of signals ending at now with a low-leaning Monday.
func syntheticHistory(now time.Time, days, perDay int) []schema.Signal {
	rng := rand.New(rand.NewPCG(42, uint64(days)))
	categories := []schema.Category{schema.SensoryCategory, schema.DemandCategory, schema.SocialCategory}
	signals := make([]schema.Signal, 0, days*perDay)
	for d := days; d > 0; d-- {
		day := now.AddDate(0, 0, -d)
		if rng.IntN(10) == 0 {
			continue // leave occasional gaps
		}
		for i := range perDay {
			state := []schema.CapacityState{schema.HighState, schema.MidState, schema.LowState}[rng.IntN(3)]
			if day.Weekday() == time.Monday && rng.IntN(3) > 0 {
				state = schema.LowState
			}
			signals = append(signals, schema.Signal{
				ID:        fmt.Sprintf("sig-%d-%d", d, i),
				Timestamp: day.Add(time.Duration(8+3*i) * time.Hour).UnixMilli(),
				State:     state,
				Category:  categories[rng.IntN(len(categories))],
			})
		}
	}
	return signals
}

// syntheticDays returns an experiment day log alternating followed and not followed.
func syntheticDays(signals []schema.Signal) []schema.ExperimentDay {
	days := make([]schema.ExperimentDay, 0, len(signals))
	for i, s := range signals {
		followed := schema.FollowedNo
		if i%2 == 0 {
			followed = schema.FollowedYes
		}
		days = append(days, schema.ExperimentDay{
			ExperimentID:   "bench",
			Date:           s.Day(),
			Followed:       &followed,
			SignalIDs:      []string{s.ID},
			CapacityValues: []float64{s.State.Capacity()},
		})
	}
	return days
}

// runBenchmarks times every operation over every synthetic history.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult
	for _, label := range []string{"quarter", "year", "decade"} {
		signals := syntheticHistory(config.Now, config.Histories[label], config.PerDay)
		days := syntheticDays(signals)
		fmt.Printf("Benchmarking %s history (%d signals)...\n", label, len(signals))

		operations := []struct {
			name string
			fn   func()
		}{
			{"gaps", func() { gap.AnalyzeGaps(signals, 90, 90) }},
			{"span", func() { gap.AnalyzeGapsFromSpan(signals, 90) }},
			{"patterns", func() { pattern.DetectPatterns(signals, config.Now) }},
			{"analyze", func() { experiment.Analyze("bench", days) }},
		}
		for _, op := range operations {
			cold, warm := runBenchmark(op.fn, config.Runs)
			results = append(results, BenchmarkResult{
				History:   label,
				Operation: op.name,
				ColdTime:  formatDuration(cold),
				WarmTime:  formatDuration(average(warm)),
			})
		}
	}
	return results
}

// runBenchmark runs fn numRuns times and splits the timings into cold and warm.
func runBenchmark(fn func(), numRuns int) (coldTime time.Duration, warmTimes []time.Duration) {
	times := make([]time.Duration, 0, numRuns)
	for range numRuns {
		start := time.Now()
		fn()
		times = append(times, time.Since(start))
	}
	return times[0], times[1:]
}

func average(times []time.Duration) time.Duration {
	if len(times) == 0 {
		return 0
	}
	var total time.Duration
	for _, t := range times {
		total += t
	}
	return total / time.Duration(len(times))
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/ebb_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"history", "operation", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.History, result.Operation, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-8s %-9s: Cold: %s, Warm: %s\n", result.History, result.Operation, result.ColdTime, result.WarmTime)
	}
}
