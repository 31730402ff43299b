// Package report renders a trained session as JSON, PDF or terminal text.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/classify-cli/internal/dataset"
	"github.com/KaramelBytes/classify-cli/internal/model"
	"github.com/KaramelBytes/classify-cli/internal/session"
	"github.com/KaramelBytes/classify-cli/internal/utils"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatPDF  = "pdf"
	FormatText = "text"
)

const (
	reportTitle  = "ClassifyMyData - ML Analysis Report"
	reportFooter = "Generated by ClassifyMyData - No-Code ML Simulation"
)

var (
	// ErrUnknownFormat is returned by ForFormat for unsupported names.
	ErrUnknownFormat = errors.New("unknown report format")
	// ErrIncomplete is returned when the input has no dataset or metrics.
	ErrIncomplete = errors.New("report needs a dataset and trained metrics")
)

// Input is everything a renderer reads. Renderers never modify it.
type Input struct {
	Dataset     *dataset.Dataset
	Metrics     *model.Metrics
	Predictions []model.Prediction
	GeneratedAt time.Time
}

// FromSnapshot builds an Input stamped with now.
func FromSnapshot(s session.Snapshot, now time.Time) Input {
	return Input{
		Dataset:     s.Dataset,
		Metrics:     s.Metrics,
		Predictions: s.Predictions,
		GeneratedAt: now.UTC(),
	}
}

func (in Input) validate() error {
	if in.Dataset == nil || in.Metrics == nil {
		return ErrIncomplete
	}
	return nil
}

// Renderer writes one report format.
type Renderer interface {
	Format() string
	// DefaultName is the file name used when the caller gives no path.
	DefaultName(label string) string
	Render(w io.Writer, in Input) error
}

// ForFormat returns the renderer for name (json, pdf, text).
func ForFormat(name string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FormatJSON:
		return JSON{}, nil
	case FormatPDF:
		return PDF{}, nil
	case FormatText, "md", "markdown":
		return Text{}, nil
	default:
		return nil, fmt.Errorf("%w: %s (use json, pdf or text)", ErrUnknownFormat, name)
	}
}

// Path resolves where a report is written: path when given, otherwise the
// renderer's default name inside dir.
func Path(r Renderer, dir, path, label string) string {
	if path != "" {
		return path
	}
	return filepath.Join(dir, r.DefaultName(label))
}

// WriteFile renders in completely and then writes it atomically to path.
func WriteFile(r Renderer, path string, in Input) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, in); err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s report: %w", r.Format(), err)
	}
	return nil
}

func labelOrDefault(label string) string {
	if strings.TrimSpace(label) == "" {
		return "dataset"
	}
	return label
}
