// Package signalstore provides the signal sources used by the CLI: flat files
// exported from the app and the key/value store backing `ebb signal add`.
package signalstore

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/ebb/internal/contract"
	"github.com/huangsam/ebb/schema"
)

// Format is the encoding of a signals file.
type Format string

// Supported signal file formats.
const (
	JSONFormat      Format = "json"
	JSONLinesFormat Format = "jsonl"
	CSVFormat       Format = "csv"
)

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONFormat, nil
	case ".jsonl", ".ndjson":
		return JSONLinesFormat, nil
	case ".csv":
		return CSVFormat, nil
	default:
		return "", fmt.Errorf("unsupported signals file %q", path)
	}
}

// FileSource reads the complete signal history from a file on every call.
type FileSource struct {
	Path string
}

var _ contract.SignalSource = &FileSource{} // Compile-time check

// NewFileSource returns a source backed by the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// ListSignals decodes the file.
func (f *FileSource) ListSignals() ([]schema.Signal, error) {
	format, err := FormatForPath(f.Path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open signals file: %w", err)
	}
	defer func() { _ = file.Close() }()

	signals, err := Decode(file, format)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}
	return signals, nil
}

// Decode reads signals in the given format and validates every record.
func Decode(r io.Reader, format Format) ([]schema.Signal, error) {
	var (
		signals []schema.Signal
		err     error
	)
	switch format {
	case JSONFormat:
		signals, err = decodeJSON(r)
	case JSONLinesFormat:
		signals, err = decodeJSONLines(r)
	case CSVFormat:
		signals, err = decodeCSV(r)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}
	for i, s := range signals {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	if signals == nil {
		signals = []schema.Signal{}
	}
	return signals, nil
}

func decodeJSON(r io.Reader) ([]schema.Signal, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var signals []schema.Signal
	if err := json.Unmarshal(data, &signals); err != nil {
		return nil, fmt.Errorf("invalid JSON signals: %w", err)
	}
	return signals, nil
}

func decodeJSONLines(r io.Reader) ([]schema.Signal, error) {
	var signals []schema.Signal
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var s schema.Signal
		if err := json.Unmarshal([]byte(text), &s); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		signals = append(signals, s)
	}
	return signals, scanner.Err()
}

// decodeCSV reads a header row followed by one signal per row. Columns are
// matched by name; timestamp and state are required.
func decodeCSV(r io.Reader) ([]schema.Signal, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		name = strings.ReplaceAll(name, "_", "")
		cols[name] = i
	}
	for _, required := range []string{"timestamp", "state"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("CSV header is missing the %q column", required)
		}
	}
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var signals []schema.Signal
	row := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		ts, err := ParseTimestamp(field(rec, "timestamp"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		state, err := schema.ParseCapacityState(field(rec, "state"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		signals = append(signals, schema.Signal{
			ID:        field(rec, "id"),
			Timestamp: ts,
			State:     state,
			Category:  schema.Category(strings.ToLower(field(rec, "category"))),
			Tags:      splitTags(field(rec, "tags")),
			LocalDate: field(rec, "localdate"),
		})
	}
	return signals, nil
}

// ParseTimestamp accepts epoch milliseconds, RFC3339 or a YYYY-MM-DD date (UTC midnight).
func ParseTimestamp(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("timestamp is empty")
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UnixMilli(), nil
	}
	if t, err := time.Parse(schema.DateLayout, s); err == nil {
		return t.UnixMilli(), nil
	}
	return 0, fmt.Errorf("invalid timestamp %q. must be epoch ms, RFC3339 or YYYY-MM-DD", s)
}

// splitTags splits a tag cell on '|' or ';'.
func splitTags(cell string) []string {
	if cell == "" {
		return nil
	}
	parts := strings.FieldsFunc(cell, func(r rune) bool { return r == '|' || r == ';' })
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
