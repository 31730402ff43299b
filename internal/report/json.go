package report

import (
	"fmt"
	"io"
	"time"

	"github.com/KaramelBytes/classify-cli/internal/model"
	"github.com/KaramelBytes/classify-cli/internal/utils"
)

// Document is the JSON report layout. Dataset carries the file label only.
type Document struct {
	Dataset     string             `json:"dataset"`
	Metrics     *model.Metrics     `json:"metrics"`
	Predictions []model.Prediction `json:"predictions"`
	GeneratedAt string             `json:"generatedAt"`
}

// JSON renders the file label, metrics and the full prediction log.
type JSON struct{}

func (JSON) Format() string { return FormatJSON }

func (JSON) DefaultName(label string) string { return labelOrDefault(label) + "_ml_report.json" }

func (JSON) Render(w io.Writer, in Input) error {
	if err := in.validate(); err != nil {
		return err
	}
	doc := Document{
		Dataset:     in.Dataset.FileLabel,
		Metrics:     in.Metrics,
		Predictions: in.Predictions,
		GeneratedAt: in.GeneratedAt.UTC().Format(time.RFC3339),
	}
	if doc.Predictions == nil {
		doc.Predictions = []model.Prediction{}
	}
	b, err := utils.PrettyJSON(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	return nil
}
