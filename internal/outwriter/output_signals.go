package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/ebb/internal/contract"
	"github.com/huangsam/ebb/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSignals prints the signal history in its stored order.
func WriteSignals(signals []schema.Signal, cfg *contract.Config) error {
	return writeFormatted(cfg, cfg.OutputFile, signalOutput(signals, cfg))
}

func signalOutput(signals []schema.Signal, cfg *contract.Config) formatted {
	return formatted{
		data:   signals,
		header: []string{"id", "timestamp", "state", "category", "tags", "local_date"},
		rows: func(w *csv.Writer) error {
			for _, s := range signals {
				rec := []string{
					s.ID,
					strconv.FormatInt(s.Timestamp, 10),
					string(s.State),
					string(s.Category),
					strings.Join(s.Tags, "|"),
					s.LocalDate,
				}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			return nil
		},
		table: func(w io.Writer) error { return writeSignalTable(signals, cfg, w) },
	}
}

func writeSignalTable(signals []schema.Signal, cfg *contract.Config, w io.Writer) error {
	if len(signals) == 0 {
		_, err := fmt.Fprintln(w, "No signals recorded.")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Day", "Time", "State", "Category", "Tags"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	var data [][]string
	for _, s := range signals {
		data = append(data, []string{
			s.Day(),
			time.UnixMilli(s.Timestamp).UTC().Format("15:04"),
			stateLabel(cfg, s.State),
			string(s.Category),
			contract.TruncateText(strings.Join(s.Tags, ", "), getMaxTextWidth(cfg, 45)),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d signal(s)\n", len(signals))
	return err
}
