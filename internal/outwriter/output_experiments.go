package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/ebb/internal/contract"
	"github.com/huangsam/ebb/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// shortIDLength is how much of an experiment ID the tables show.
const shortIDLength = 8

// ExperimentDetail is an experiment together with its day log.
type ExperimentDetail struct {
	Experiment schema.Experiment      `json:"experiment" yaml:"experiment"`
	Days       []schema.ExperimentDay `json:"days" yaml:"days"`
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

// plannedEnd is the last day inside the experiment window.
func plannedEnd(exp schema.Experiment) string {
	if exp.EndDate != "" {
		return exp.EndDate
	}
	end, err := schema.AddDays(exp.StartDate, exp.DurationWeeks*7)
	if err != nil {
		return ""
	}
	return end
}

func followedText(f *schema.FollowedStatus) string {
	if f == nil {
		return "unset"
	}
	return string(*f)
}

// WriteExperiments prints the experiment list.
func WriteExperiments(experiments []schema.Experiment, cfg *contract.Config) error {
	return writeFormatted(cfg, cfg.OutputFile, experimentListOutput(experiments, cfg))
}

func experimentListOutput(experiments []schema.Experiment, cfg *contract.Config) formatted {
	return formatted{
		data: experiments,
		header: []string{"id", "status", "start_date", "end_date", "duration_weeks", "followed", "not_followed",
			"skipped", "trigger_pattern", "hypothesis"},
		rows: func(w *csv.Writer) error {
			for _, e := range experiments {
				rec := []string{
					e.ID,
					string(e.Status),
					e.StartDate,
					plannedEnd(e),
					strconv.Itoa(e.DurationWeeks),
					strconv.Itoa(e.FollowedCount),
					strconv.Itoa(e.NotFollowedCount),
					strconv.Itoa(e.SkippedCount),
					string(e.TriggerPatternType),
					e.Hypothesis,
				}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			return nil
		},
		table: func(w io.Writer) error { return writeExperimentTable(experiments, cfg, w) },
	}
}

func writeExperimentTable(experiments []schema.Experiment, cfg *contract.Config, w io.Writer) error {
	if len(experiments) == 0 {
		_, err := fmt.Fprintln(w, "No experiments yet.")
		return err
	}
	textWidth := getMaxTextWidth(cfg, 70)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Status", "Start", "End", "Yes/No/Skip", "Hypothesis"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	var data [][]string
	for _, e := range experiments {
		data = append(data, []string{
			shortID(e.ID),
			statusLabel(cfg, e.Status),
			e.StartDate,
			plannedEnd(e),
			fmt.Sprintf("%d/%d/%d", e.FollowedCount, e.NotFollowedCount, e.SkippedCount),
			contract.TruncateText(e.Hypothesis, textWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteExperimentDetail prints one experiment and its day log.
func WriteExperimentDetail(exp schema.Experiment, days []schema.ExperimentDay, cfg *contract.Config) error {
	return writeFormatted(cfg, cfg.OutputFile, experimentDetailOutput(exp, days, cfg))
}

func experimentDetailOutput(exp schema.Experiment, days []schema.ExperimentDay, cfg *contract.Config) formatted {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return formatted{
		data:   ExperimentDetail{Experiment: exp, Days: days},
		header: []string{"experiment_id", "date", "followed", "signal_ids", "capacity_values"},
		rows: func(w *csv.Writer) error {
			for _, d := range days {
				if err := w.Write(dayRecord(d, fmtFloat)); err != nil {
					return err
				}
			}
			return nil
		},
		table: func(w io.Writer) error { return writeExperimentDetailTable(exp, days, cfg, w) },
	}
}

func dayRecord(d schema.ExperimentDay, fmtFloat func(float64) string) []string {
	values := make([]string, len(d.CapacityValues))
	for i, v := range d.CapacityValues {
		values[i] = fmtFloat(v)
	}
	return []string{
		d.ExperimentID,
		d.Date,
		followedText(d.Followed),
		strings.Join(d.SignalIDs, "|"),
		strings.Join(values, "|"),
	}
}

func writeExperimentDetailTable(exp schema.Experiment, days []schema.ExperimentDay, cfg *contract.Config, w io.Writer) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	info := tablewriter.NewWriter(w)
	info.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	rows := [][]string{
		{"ID", exp.ID},
		{"Hypothesis", exp.Hypothesis},
		{"Status", statusLabel(cfg, exp.Status)},
		{"Window", fmt.Sprintf("%s to %s (%d weeks)", exp.StartDate, plannedEnd(exp), exp.DurationWeeks)},
		{"Trigger", strings.TrimSpace(fmt.Sprintf("%s %s", exp.TriggerPatternType, exp.TriggerDescription))},
		{"Followed / Not / Skipped", fmt.Sprintf("%d / %d / %d", exp.FollowedCount, exp.NotFollowedCount, exp.SkippedCount)},
		{"Linked Signals", strconv.Itoa(len(exp.LinkedSignalIDs))},
	}
	if err := info.Bulk(rows); err != nil {
		return err
	}
	if err := info.Render(); err != nil {
		return err
	}
	if len(days) == 0 {
		_, err := fmt.Fprintln(w, "No days recorded yet.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Followed", "Signals", "Capacity"})
	var data [][]string
	for _, d := range days {
		rec := dayRecord(d, fmtFloat)
		data = append(data, []string{rec[1], rec[2], strconv.Itoa(len(d.SignalIDs)), strings.ReplaceAll(rec[4], "|", ", ")})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteExperimentResult prints the followed versus not-followed comparison.
func WriteExperimentResult(result schema.ExperimentResult, cfg *contract.Config) error {
	return writeFormatted(cfg, cfg.OutputFile, resultOutput(result, cfg))
}

func resultOutput(r schema.ExperimentResult, cfg *contract.Config) formatted {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return formatted{
		data:   r,
		header: []string{"group", "days", "mean", "high", "mid", "low"},
		rows: func(w *csv.Writer) error {
			for _, rec := range resultRows(r, fmtFloat) {
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			return nil
		},
		table: func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Group", "Days", "Mean", "High", "Mid", "Low"})
			table.Configure(func(cfg *tablewriter.Config) {
				cfg.Row.Alignment.Global = tw.AlignRight
			})
			if err := table.Bulk(resultRows(r, fmtFloat)); err != nil {
				return err
			}
			if err := table.Render(); err != nil {
				return err
			}
			if r.SkippedDays > 0 {
				if _, err := fmt.Fprintf(w, "Skipped days: %d\n", r.SkippedDays); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintln(w, r.Summary)
			return err
		},
	}
}

func resultRows(r schema.ExperimentResult, fmtFloat func(float64) string) [][]string {
	row := func(group string, days int, mean float64, d schema.BucketDistribution) []string {
		return []string{group, strconv.Itoa(days), fmtFloat(mean), strconv.Itoa(d.High), strconv.Itoa(d.Mid), strconv.Itoa(d.Low)}
	}
	return [][]string{
		row("followed", r.FollowedDays, r.FollowedMean, r.FollowedDistribution),
		row("not_followed", r.NotFollowedDays, r.NotFollowedMean, r.NotFollowedDistribution),
	}
}
