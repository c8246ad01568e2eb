package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/ebb/internal/contract"
	"github.com/huangsam/ebb/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteGapAnalysis prints a gated gap analysis. Derived absence data only goes
// to stdout, so --output-file is ignored here.
func WriteGapAnalysis(analysis schema.GapAnalysis, cfg *contract.Config) error {
	if cfg.OutputFile != "" {
		contract.LogWarn("Ignoring --output-file", errors.New("gap analysis is only written to stdout"))
	}
	return writeFormatted(cfg, "", gapOutput(analysis))
}

func gapOutput(a schema.GapAnalysis) formatted {
	return formatted{
		data:   a,
		header: []string{"index", "start", "end", "duration_days", "category"},
		rows: func(w *csv.Writer) error {
			for i, g := range a.Gaps {
				rec := []string{
					strconv.Itoa(i + 1),
					formatDay(g.StartTimestamp),
					formatDay(g.EndTimestamp),
					strconv.Itoa(g.DurationDays),
					string(g.Category),
				}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			return nil
		},
		table: func(w io.Writer) error { return writeGapTable(a, w) },
	}
}

// writeGapTable renders coverage, the per-category counts and the gap list.
func writeGapTable(a schema.GapAnalysis, w io.Writer) error {
	if !a.IsAvailable {
		_, err := fmt.Fprintf(w, "Gap analysis is not available yet. %s.\n", a.UnavailableReason)
		return err
	}

	if _, err := fmt.Fprintf(w, "%s\n", a.CoverageText); err != nil {
		return err
	}

	counts := tablewriter.NewWriter(w)
	counts.Header([]string{"Gap Length", "Count"})
	counts.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var countRows [][]string
	for _, c := range schema.AllGapCategories {
		countRows = append(countRows, []string{string(c), strconv.Itoa(a.GapCounts[c])})
	}
	if err := counts.Bulk(countRows); err != nil {
		return err
	}
	if err := counts.Render(); err != nil {
		return err
	}

	if a.LongestGap != nil {
		if _, err := fmt.Fprintf(w, "Longest stretch without signals: %d days (%s to %s)\n",
			a.LongestGap.DurationDays, formatDay(a.LongestGap.StartTimestamp), formatDay(a.LongestGap.EndTimestamp)); err != nil {
			return err
		}
	}
	if len(a.Gaps) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "From", "To", "Days", "Length"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for i, g := range a.Gaps {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			formatDay(g.StartTimestamp),
			formatDay(g.EndTimestamp),
			strconv.Itoa(g.DurationDays),
			string(g.Category),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
