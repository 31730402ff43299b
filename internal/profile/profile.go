package profile

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/classify-cli/internal/dataset"
)

// Column kinds.
const (
	KindNumeric     = "numeric"
	KindCategorical = "categorical"
)

const (
	// kindSampleRows is how many leading rows decide whether a feature is numeric.
	kindSampleRows = 10
	// maxOptions caps the suggested values offered for a categorical feature.
	maxOptions = 10
	// maxTopValues caps the categories listed in a column summary.
	maxTopValues = 8
)

// Options controls profiling behavior.
type Options struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
}

// DefaultOptions returns reasonable defaults for dataset profiling.
func DefaultOptions() Options {
	return Options{SampleRows: 5}
}

// Report is a markdown-friendly overview of an ingested dataset.
type Report struct {
	Name      string
	Rows      int
	Features  int
	Target    string
	Classes   []ClassCount
	Cols      []ColumnSummary
	Samples   [][]string
	Warnings  []string
	sampleHdr []string
}

// ColumnSummary captures inferred kind and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Categorical top values
	TopValues []ClassCount
}

// ClassCount is a value and how many rows carry it.
type ClassCount struct {
	Value string
	Count int
}

// Kind reports whether feature looks numeric, judged on the first rows: every
// sampled value must be non-empty and parse as a number.
func Kind(ds *dataset.Dataset, feature string) string {
	n := len(ds.Rows)
	if n > kindSampleRows {
		n = kindSampleRows
	}
	if n == 0 {
		return KindCategorical
	}
	for _, r := range ds.Rows[:n] {
		if _, ok := parseNumeric(r[feature]); !ok {
			return KindCategorical
		}
	}
	return KindNumeric
}

// Suggestions returns up to ten distinct non-empty values of feature in
// first-seen order, for offering as choices.
func Suggestions(ds *dataset.Dataset, feature string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range ds.Rows {
		v := r[feature]
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == maxOptions {
			break
		}
	}
	return out
}

// ClassDistribution counts rows per class, in class order.
func ClassDistribution(ds *dataset.Dataset) []ClassCount {
	counts := make(map[string]int, len(ds.Classes))
	for _, r := range ds.Rows {
		counts[r[ds.TargetColumn]]++
	}
	out := make([]ClassCount, len(ds.Classes))
	for i, c := range ds.Classes {
		out[i] = ClassCount{Value: c, Count: counts[c]}
	}
	return out
}

// Summarize profiles every column of ds.
func Summarize(ds *dataset.Dataset, opt Options) *Report {
	rep := &Report{Name: ds.FileLabel, Rows: ds.RowCount, Features: len(ds.Features), Target: ds.TargetColumn}
	rep.Classes = ClassDistribution(ds)

	sampleRows := opt.SampleRows
	if sampleRows < 0 {
		sampleRows = 0
	}
	for i, r := range ds.Rows {
		if i >= sampleRows {
			break
		}
		row := make([]string, len(ds.Columns))
		for j, c := range ds.Columns {
			row[j] = r[c]
		}
		rep.Samples = append(rep.Samples, row)
	}
	rep.sampleHdr = ds.Columns

	seenCol := make(map[string]bool, len(ds.Columns))
	for _, c := range ds.Columns {
		if seenCol[c] {
			continue
		}
		seenCol[c] = true
		rep.Cols = append(rep.Cols, summarizeColumn(ds, c))
	}
	for _, d := range ds.DuplicateColumns() {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %q appears more than once; the last value on each row is used", d))
	}
	if len(ds.Classes) == 1 {
		rep.Warnings = append(rep.Warnings, "target has a single class")
	}
	if len(ds.Classes) == 0 {
		rep.Warnings = append(rep.Warnings, "target has no non-empty values")
	}
	return rep
}

func summarizeColumn(ds *dataset.Dataset, name string) ColumnSummary {
	s := ColumnSummary{Name: name}
	var n int
	var mean, m2 float64
	minV, maxV := math.Inf(1), math.Inf(-1)
	numCnt := 0
	cats := make(map[string]int)
	for _, r := range ds.Rows {
		v := r[name]
		if v == "" {
			s.Missing++
			continue
		}
		s.NonNull++
		cats[v]++
		if x, ok := parseNumeric(v); ok {
			numCnt++
			// Welford update
			n++
			if x < minV {
				minV = x
			}
			if x > maxV {
				maxV = x
			}
			delta := x - mean
			mean += delta / float64(n)
			m2 += delta * (x - mean)
		}
	}
	s.Unique = len(cats)
	if numCnt > 0 && numCnt == s.NonNull {
		s.Kind = KindNumeric
		s.Min, s.Max, s.Mean = minV, maxV, mean
		if n > 1 {
			s.Std = math.Sqrt(m2 / float64(n-1))
		}
		return s
	}
	s.Kind = KindCategorical
	tops := make([]ClassCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, ClassCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > maxTopValues {
		tops = tops[:maxTopValues]
	}
	s.TopValues = tops
	return s
}

func parseNumeric(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Markdown renders a compact overview suitable for the terminal.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET OVERVIEW]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Samples: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Features: %d\n", r.Features))
	b.WriteString(fmt.Sprintf("Classes: %d\n", len(r.Classes)))
	b.WriteString(fmt.Sprintf("Target: %s\n\n", r.Target))

	if len(r.Classes) > 0 {
		b.WriteString("[CLASS DISTRIBUTION]\n")
		for _, c := range r.Classes {
			pct := 0.0
			if r.Rows > 0 {
				pct = float64(c.Count) * 100 / float64(r.Rows)
			}
			b.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", safeVal(c.Value), c.Count, pct))
		}
		b.WriteString("\n")
	}

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		name := safeName(c.Name)
		if c.Name == r.Target {
			name += " (target)"
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", name, c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case KindNumeric:
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
		case KindCategorical:
			if len(c.TopValues) > 0 {
				b.WriteString(" — top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}

	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n| ")
		for i, h := range r.sampleHdr {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(h))
		}
		b.WriteString(" |\n| ")
		for i := range r.sampleHdr {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i, val := range row {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(safeVal(truncate(val, 80)))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}
func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
