// Package parquet provides data structures and functions for exporting experiment
// logs to Parquet files using github.com/parquet-go/parquet-go.
//
// Gaps and coverage are derived on demand and never exported.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/ebb/schema"
	"github.com/parquet-go/parquet-go"
)

// ExperimentRecord is one experiment with its counters.
type ExperimentRecord struct {
	// ExperimentID is the unique identifier of the experiment
	ExperimentID string `parquet:"experiment_id,snappy"`

	// Hypothesis is the behavior the user chose to try
	Hypothesis string `parquet:"hypothesis,snappy"`

	// TriggerPatternType is the pattern type that prompted the experiment
	TriggerPatternType string `parquet:"trigger_pattern_type,snappy"`

	// TriggerDescription is the pattern description shown at creation (nullable)
	TriggerDescription *string `parquet:"trigger_description,optional,snappy"`

	// StartDate is the first day of the experiment (YYYY-MM-DD)
	StartDate string `parquet:"start_date,snappy"`

	// PlannedEndDate is the last day inside the experiment window (YYYY-MM-DD)
	PlannedEndDate string `parquet:"planned_end_date,snappy"`

	// EndDate is the day the experiment was concluded or abandoned (nullable)
	EndDate *string `parquet:"end_date,optional,snappy"`

	DurationWeeks     int32  `parquet:"duration_weeks,snappy"`
	Status            string `parquet:"status,snappy"`
	FollowedCount     int32  `parquet:"followed_count,snappy"`
	NotFollowedCount  int32  `parquet:"not_followed_count,snappy"`
	SkippedCount      int32  `parquet:"skipped_count,snappy"`
	LinkedSignalCount int32  `parquet:"linked_signal_count,snappy"`

	// CreatedAt is when the experiment was created (stored as TIMESTAMP with nanosecond precision)
	CreatedAt time.Time `parquet:"created_at,snappy"`

	// ConcludedAt is when the experiment ended (nullable)
	ConcludedAt *time.Time `parquet:"concluded_at,optional,snappy"`
}

// ExperimentDayRecord is one (experiment, date) entry of the follow-up log.
type ExperimentDayRecord struct {
	ExperimentID string `parquet:"experiment_id,snappy"`
	Date         string `parquet:"date,snappy"`

	// Followed is yes, no or skipped (nullable when never answered)
	Followed *string `parquet:"followed,optional,snappy"`

	SignalCount   int32 `parquet:"signal_count,snappy"`
	CapacityCount int32 `parquet:"capacity_count,snappy"`

	// CapacityMean is the mean capacity value of the day (nullable without values)
	CapacityMean *float64 `parquet:"capacity_mean,optional,snappy"`
}

// writeRecords writes rows to outputPath using the schema inferred from T.
func writeRecords[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteExperimentsParquet writes experiment records to a Parquet file.
func WriteExperimentsParquet(data []ExperimentRecord, outputPath string) error {
	return writeRecords(data, outputPath)
}

// WriteExperimentDaysParquet writes experiment day records to a Parquet file.
func WriteExperimentDaysParquet(data []ExperimentDayRecord, outputPath string) error {
	return writeRecords(data, outputPath)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// FromExperiments converts experiments to Parquet records.
func FromExperiments(experiments []schema.Experiment) []ExperimentRecord {
	result := make([]ExperimentRecord, len(experiments))
	for i, e := range experiments {
		plannedEnd, err := schema.AddDays(e.StartDate, e.DurationWeeks*7)
		if err != nil {
			plannedEnd = ""
		}
		result[i] = ExperimentRecord{
			ExperimentID:       e.ID,
			Hypothesis:         e.Hypothesis,
			TriggerPatternType: string(e.TriggerPatternType),
			TriggerDescription: optionalString(e.TriggerDescription),
			StartDate:          e.StartDate,
			PlannedEndDate:     plannedEnd,
			EndDate:            optionalString(e.EndDate),
			DurationWeeks:      int32(e.DurationWeeks),
			Status:             string(e.Status),
			FollowedCount:      int32(e.FollowedCount),
			NotFollowedCount:   int32(e.NotFollowedCount),
			SkippedCount:       int32(e.SkippedCount),
			LinkedSignalCount:  int32(len(e.LinkedSignalIDs)),
			CreatedAt:          e.CreatedAt,
			ConcludedAt:        e.ConcludedAt,
		}
	}
	return result
}

// FromExperimentDays converts experiment days to Parquet records.
func FromExperimentDays(days []schema.ExperimentDay) []ExperimentDayRecord {
	result := make([]ExperimentDayRecord, len(days))
	for i, d := range days {
		rec := ExperimentDayRecord{
			ExperimentID:  d.ExperimentID,
			Date:          d.Date,
			SignalCount:   int32(len(d.SignalIDs)),
			CapacityCount: int32(len(d.CapacityValues)),
		}
		if d.Followed != nil {
			rec.Followed = optionalString(string(*d.Followed))
		}
		if len(d.CapacityValues) > 0 {
			var sum float64
			for _, v := range d.CapacityValues {
				sum += v
			}
			mean := sum / float64(len(d.CapacityValues))
			rec.CapacityMean = &mean
		}
		result[i] = rec
	}
	return result
}
