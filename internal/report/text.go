package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/KaramelBytes/classify-cli/internal/insight"
)

const (
	barWidth     = 30
	recentInText = 5
	textTopBars  = 5
)

// Text renders the report as sectioned plain text for the terminal.
type Text struct{}

func (Text) Format() string { return FormatText }

func (Text) DefaultName(label string) string { return labelOrDefault(label) + "_ml_report.md" }

func (Text) Render(w io.Writer, in Input) error {
	if err := in.validate(); err != nil {
		return err
	}
	ds, m := in.Dataset, in.Metrics
	var b strings.Builder

	b.WriteString("# " + reportTitle + "\n")
	b.WriteString(fmt.Sprintf("Generated on: %s\n\n", in.GeneratedAt.Format("2006-01-02 15:04 MST")))

	b.WriteString("[DATASET OVERVIEW]\n")
	b.WriteString(fmt.Sprintf("File: %s\n", labelOrDefault(ds.FileLabel)))
	b.WriteString(fmt.Sprintf("Samples: %d\n", ds.RowCount))
	b.WriteString(fmt.Sprintf("Features: %d\n", len(ds.Features)))
	b.WriteString(fmt.Sprintf("Target: %s\n", ds.TargetColumn))
	b.WriteString(fmt.Sprintf("Classes: %s\n\n", strings.Join(ds.Classes, ", ")))

	b.WriteString("[MODEL PERFORMANCE]\n")
	b.WriteString(fmt.Sprintf("Model: %s\n", insight.ModelType))
	b.WriteString(fmt.Sprintf("Accuracy:  %s\n", pct(m.Accuracy)))
	b.WriteString(fmt.Sprintf("Precision: %s\n", pct(m.Precision)))
	b.WriteString(fmt.Sprintf("Recall:    %s\n", pct(m.Recall)))
	b.WriteString(fmt.Sprintf("F1-Score:  %s\n\n", pct(m.F1Score)))

	if len(m.ConfusionMatrix) > 0 {
		b.WriteString("[CONFUSION MATRIX]\n")
		b.WriteString("| actual \\ predicted |")
		for _, c := range ds.Classes {
			b.WriteString(" " + cellText(c) + " |")
		}
		b.WriteString("\n|---|")
		b.WriteString(strings.Repeat("---|", len(ds.Classes)))
		b.WriteString("\n")
		for i, row := range m.ConfusionMatrix {
			name := ""
			if i < len(ds.Classes) {
				name = ds.Classes[i]
			}
			b.WriteString("| " + cellText(name) + " |")
			for j, v := range row {
				if i == j {
					b.WriteString(fmt.Sprintf(" **%d** |", v))
				} else {
					b.WriteString(fmt.Sprintf(" %d |", v))
				}
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(m.FeatureImportances) > 0 {
		b.WriteString("[FEATURE IMPORTANCE]\n")
		width := 0
		for i, f := range m.FeatureImportances {
			if i == textTopBars {
				break
			}
			width = max(width, len(f.Feature))
		}
		for i, f := range m.FeatureImportances {
			if i == textTopBars {
				break
			}
			n := int(f.Importance*barWidth + 0.5)
			b.WriteString(fmt.Sprintf("%d. %-*s %s%s %.1f%%\n", i+1, width, f.Feature,
				strings.Repeat("█", n), strings.Repeat("░", barWidth-n), f.Importance*100))
		}
		if extra := len(m.FeatureImportances) - textTopBars; extra > 0 {
			b.WriteString(fmt.Sprintf("   (+%d more)\n", extra))
		}
		b.WriteString("\n")
	}

	if obs := insight.Generate(ds, m); len(obs) > 0 {
		b.WriteString("[INSIGHTS]\n")
		for _, o := range obs {
			b.WriteString(fmt.Sprintf("- %s: %s\n", o.Title, o.Text))
		}
		b.WriteString("\n")
	}

	if len(in.Predictions) > 0 {
		b.WriteString(fmt.Sprintf("[RECENT PREDICTIONS] (%d total)\n", len(in.Predictions)))
		for i := len(in.Predictions) - 1; i >= 0 && i >= len(in.Predictions)-recentInText; i-- {
			p := in.Predictions[i]
			b.WriteString(fmt.Sprintf("- %s %s (%.1f%% confidence) %s\n",
				p.Timestamp.Format("15:04:05"), p.PredictedClass, p.Confidence, formatInputs(p.Inputs)))
		}
		b.WriteString("\n")
	}

	b.WriteString("[SUMMARY]\n")
	b.WriteString(insight.Summary(ds, m))
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write text report: %w", err)
	}
	return nil
}

func cellText(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}

func formatInputs(in map[string]string) string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + in[k]
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
