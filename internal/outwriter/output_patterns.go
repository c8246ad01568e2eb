package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/ebb/internal/contract"
	"github.com/huangsam/ebb/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// rankedPattern adds the rank and plain label to a pattern for json and yaml output.
type rankedPattern struct {
	Rank                   int    `json:"rank" yaml:"rank"`
	Label                  string `json:"label" yaml:"label"`
	schema.DetectedPattern `yaml:",inline"`
}

// WritePatterns prints detected patterns in rank order.
func WritePatterns(patterns []schema.DetectedPattern, cfg *contract.Config) error {
	return writeFormatted(cfg, cfg.OutputFile, patternOutput(patterns, cfg))
}

func patternOutput(patterns []schema.DetectedPattern, cfg *contract.Config) formatted {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	ranked := make([]rankedPattern, len(patterns))
	for i, p := range patterns {
		ranked[i] = rankedPattern{Rank: i + 1, Label: contract.GetPlainConfidenceLabel(p.Confidence), DetectedPattern: p}
	}

	return formatted{
		data:   ranked,
		header: []string{"rank", "type", "description", "confidence", "label", "sample_size", "weekday", "category", "streak_length"},
		rows: func(w *csv.Writer) error {
			for _, r := range ranked {
				weekday := ""
				if r.Weekday != nil {
					weekday = r.Weekday.String()
				}
				rec := []string{
					strconv.Itoa(r.Rank),
					string(r.Type),
					r.Description,
					fmtFloat(r.Confidence),
					r.Label,
					fmt.Sprintf(intFmt, r.SampleSize),
					weekday,
					string(r.Category),
					fmt.Sprintf(intFmt, r.StreakLength),
				}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			return nil
		},
		table: func(w io.Writer) error { return writePatternTable(patterns, cfg, w) },
	}
}

func writePatternTable(patterns []schema.DetectedPattern, cfg *contract.Config, w io.Writer) error {
	if len(patterns) == 0 {
		_, err := fmt.Fprintln(w, "No recurring patterns in the last 30 days.")
		return err
	}
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	textWidth := getMaxTextWidth(cfg, 60)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Pattern", "Description", "Confidence", "Label", "Sample"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for i, p := range patterns {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			string(p.Type),
			contract.TruncateText(p.Description, textWidth),
			fmtFloat(p.Confidence),
			confidenceLabel(cfg, p.Confidence),
			fmt.Sprintf(intFmt, p.SampleSize),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Found %d pattern(s) as of %s\n", len(patterns), cfg.Now.Format(schema.DateLayout))
	return err
}

// WriteSuggestion prints a suggestion, or a short note when there is none.
func WriteSuggestion(s *schema.PatternSuggestion, cfg *contract.Config) error {
	return writeFormatted(cfg, cfg.OutputFile, suggestionOutput(s))
}

func suggestionOutput(s *schema.PatternSuggestion) formatted {
	return formatted{
		data:   s,
		header: []string{"pattern_type", "pattern_description", "question", "option", "hypothesis"},
		rows: func(w *csv.Writer) error {
			if s == nil {
				return nil
			}
			for i, h := range s.Hypotheses {
				if err := w.Write([]string{string(s.PatternType), s.PatternDescription, s.Question, strconv.Itoa(i + 1), h}); err != nil {
					return err
				}
			}
			return nil
		},
		table: func(w io.Writer) error { return writeSuggestionText(s, w) },
	}
}

func writeSuggestionText(s *schema.PatternSuggestion, w io.Writer) error {
	if s == nil {
		_, err := fmt.Fprintln(w, "No suggestion right now.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Noticed: %s\n%s\n", s.PatternDescription, s.Question); err != nil {
		return err
	}
	for i, h := range s.Hypotheses {
		if _, err := fmt.Fprintf(w, "  %d. %s\n", i+1, h); err != nil {
			return err
		}
	}
	return nil
}
