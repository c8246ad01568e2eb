package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/ebb/internal/contract"
	"github.com/huangsam/ebb/schema"
	"gopkg.in/yaml.v3"
)

// formatted bundles the renderers of one result type for every output mode.
type formatted struct {
	data   any                     // value encoded by the json and yaml modes
	header []string                // csv header
	rows   func(*csv.Writer) error // csv body
	table  func(io.Writer) error   // human-readable text
}

// writeFormatted renders f in the configured mode to outputFile, or stdout when empty.
func writeFormatted(cfg *contract.Config, outputFile string, f formatted) error {
	return writeWithFile(outputFile, func(w io.Writer) error {
		return render(w, cfg.Output, f)
	}, "Wrote "+string(cfg.Output))
}

// render dispatches on the output mode.
func render(w io.Writer, mode schema.OutputMode, f formatted) error {
	switch mode {
	case schema.JSONOut:
		return writeJSON(w, f.data)
	case schema.YAMLOut:
		return writeYAML(w, f.data)
	case schema.CSVOut:
		return writeCSVWithHeader(w, f.header, f.rows)
	default:
		return f.table(w)
	}
}

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "%s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeYAML mirrors writeJSON for YAML output.
func writeYAML(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if writeRows == nil {
		return nil
	}
	return writeRows(csvWriter)
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// formatDay renders epoch milliseconds as a UTC calendar day.
func formatDay(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(schema.DateLayout)
}

// stateLabel colors a capacity state when colors are enabled.
func stateLabel(cfg *contract.Config, state schema.CapacityState) string {
	if cfg.UseColors {
		return contract.GetColorStateLabel(state)
	}
	return string(state)
}

// statusLabel colors an experiment status when colors are enabled.
func statusLabel(cfg *contract.Config, status schema.ExperimentStatus) string {
	if cfg.UseColors {
		return contract.GetColorStatusLabel(status)
	}
	return string(status)
}

// confidenceLabel colors a confidence label when colors are enabled.
func confidenceLabel(cfg *contract.Config, confidence float64) string {
	if cfg.UseColors {
		return contract.GetColorConfidenceLabel(confidence)
	}
	return contract.GetPlainConfidenceLabel(confidence)
}
