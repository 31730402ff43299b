package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Options controls ingestion behavior.
type Options struct {
	// StrictHeaders rejects repeated header names instead of letting the
	// last value win.
	StrictHeaders bool
}

// DefaultOptions returns the permissive defaults.
func DefaultOptions() Options {
	return Options{}
}

// Ingest parses raw delimited text into a Dataset with an empty file label.
//
// The splitter is deliberately naive: fields are separated on every comma,
// so quoted commas, embedded newlines and escaped quotes are not supported.
func Ingest(raw, target string) (*Dataset, error) {
	return IngestNamed("", raw, target, DefaultOptions())
}

// IngestNamed is Ingest with an explicit file label and options.
func IngestNamed(label, raw, target string, opt Options) (*Dataset, error) {
	lines := nonBlankLines(raw)
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: CSV must have at least a header and one data row", ErrMalformedInput)
	}
	header := splitFields(lines[0])
	dups := duplicateNames(header)
	if len(dups) > 0 && opt.StrictHeaders {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, strings.Join(dups, ", "))
	}
	if !contains(header, target) {
		return nil, &UnknownTargetError{Target: target, Columns: header}
	}
	// A repeated target would drop more than one column from the features.
	if contains(dups, target) {
		return nil, fmt.Errorf("%w: target column %q appears more than once", ErrDuplicateColumn, target)
	}

	ds := &Dataset{
		FileLabel:    label,
		Columns:      header,
		TargetColumn: target,
		duplicates:   dups,
	}
	ds.Rows = make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		vals := splitFields(line)
		row := make(Row, len(header))
		for i, name := range header {
			v := ""
			if i < len(vals) {
				v = vals[i]
			}
			row[name] = v
		}
		ds.Rows = append(ds.Rows, row)
	}
	ds.RowCount = len(ds.Rows)

	ds.Features = make([]string, 0, len(header))
	for _, c := range header {
		if c != target {
			ds.Features = append(ds.Features, c)
		}
	}

	seen := make(map[string]struct{})
	for _, r := range ds.Rows {
		v := r[target]
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		ds.Classes = append(ds.Classes, v)
	}
	return ds, nil
}

// Header returns the cleaned header names of raw, so callers can offer a
// target column before ingesting.
func Header(raw string) ([]string, error) {
	lines := nonBlankLines(raw)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedInput)
	}
	return splitFields(lines[0]), nil
}

// LoadFile reads a .csv file from disk and ingests it. The file label is the
// base name with its extension stripped.
func LoadFile(path, target string, opt Options) (*Dataset, error) {
	if !IsCSV(path) {
		return nil, fmt.Errorf("%w: please upload a CSV file (%s)", ErrMalformedInput, filepath.Base(path))
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return IngestNamed(Label(path), string(b), target, opt)
}

// ReadHeader reads only enough of a .csv file to report its header names.
func ReadHeader(path string) ([]string, error) {
	if !IsCSV(path) {
		return nil, fmt.Errorf("%w: please upload a CSV file (%s)", ErrMalformedInput, filepath.Base(path))
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return Header(string(b))
}

// IsCSV reports whether path carries a .csv extension (case-insensitive).
func IsCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// Label derives a file label from a path: base name minus extension.
func Label(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func nonBlankLines(raw string) []string {
	parts := strings.Split(raw, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSuffix(p, "\r")
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = cleanField(p)
	}
	return parts
}

// cleanField trims whitespace and strips one wrapping pair of matching quotes.
// Whitespace inside the quotes is kept.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			s = s[1 : len(s)-1]
		}
	}
	return s
}

func duplicateNames(names []string) []string {
	count := make(map[string]int, len(names))
	var dups []string
	for _, n := range names {
		count[n]++
		if count[n] == 2 {
			dups = append(dups, n)
		}
	}
	return dups
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
