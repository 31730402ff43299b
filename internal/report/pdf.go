package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KaramelBytes/classify-cli/internal/insight"
	"github.com/go-pdf/fpdf"
)

type rgb struct{ r, g, b int }

var (
	teal      = rgb{13, 148, 136}
	gray      = rgb{75, 85, 99}
	lightGray = rgb{156, 163, 175}
	red       = rgb{239, 68, 68}
	white     = rgb{255, 255, 255}
)

const (
	pdfMargin     = 20.0
	pdfColumn2    = 120.0
	pdfTextWidth  = 170.0
	pdfFooterY    = 285.0
	pdfPageBottom = 270.0
	pdfMaxCell    = 25.0
	pdfGridWidth  = 150.0
	pdfTopBars    = 5
)

// PDF renders a one-to-few page A4 summary.
type PDF struct{}

func (PDF) Format() string { return FormatPDF }

func (PDF) DefaultName(label string) string { return labelOrDefault(label) + "_ML_Report.pdf" }

func (PDF) Render(w io.Writer, in Input) error {
	if err := in.validate(); err != nil {
		return err
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(in.GeneratedAt)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(reportTitle, false)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetFont("Helvetica", "", 8)
		color(pdf.SetTextColor, lightGray)
		pdf.Text(pdfMargin, pdfFooterY, reportFooter)
		pdf.Text(170, pdfFooterY, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()))
	})
	pdf.AddPage()

	p := &pdfWriter{pdf: pdf, tr: tr, y: 20}
	ds, m := in.Dataset, in.Metrics

	pdf.SetFont("Helvetica", "B", 24)
	color(pdf.SetTextColor, teal)
	p.text(pdfMargin, p.y, reportTitle)
	p.y += 15
	pdf.SetFont("Helvetica", "", 12)
	color(pdf.SetTextColor, gray)
	p.text(pdfMargin, p.y, "Generated on: "+in.GeneratedAt.Format("2006-01-02"))
	p.y += 20

	p.heading("Dataset Overview")
	p.pairs([][2]string{
		{"Filename: " + ds.FileLabel, fmt.Sprintf("Samples: %d", ds.RowCount)},
		{fmt.Sprintf("Features: %d", len(ds.Features)), fmt.Sprintf("Classes: %d", len(ds.Classes))},
		{"Target Column: " + ds.TargetColumn, "Classes: " + strings.Join(ds.Classes, ", ")},
	})
	p.y += 15

	p.heading("Model Performance Metrics")
	p.pairs([][2]string{
		{"Accuracy: " + pct(m.Accuracy), "Precision: " + pct(m.Precision)},
		{"Recall: " + pct(m.Recall), "F1-Score: " + pct(m.F1Score)},
	})
	p.y += 15

	if n := len(m.ConfusionMatrix); n > 0 {
		cell := min(pdfMaxCell, pdfGridWidth/float64(n))
		p.ensure(10 + cell*float64(n) + 10)
		p.heading("Confusion Matrix")
		p.grid(ds.Classes, m.ConfusionMatrix, cell)
		p.y += cell*float64(n) + 20
	}

	p.ensure(60)
	p.heading("Top Feature Importances")
	for i, f := range m.FeatureImportances {
		if i == pdfTopBars {
			break
		}
		bar := f.Importance * 100
		color(pdf.SetTextColor, gray)
		p.text(pdfMargin, p.y, fmt.Sprintf("%d. %s", i+1, f.Feature))
		color(pdf.SetFillColor, teal)
		if bar > 0 {
			pdf.Rect(pdfColumn2, p.y-4, bar*0.5, 6, "F")
		}
		p.text(pdfColumn2+bar*0.5+5, p.y, fmt.Sprintf("%.1f%%", bar))
		p.y += 10
	}
	p.y += 15

	p.ensure(60)
	p.heading("Model Insights")
	for _, line := range insight.Highlights(m, len(in.Predictions)) {
		p.paragraph(line)
		p.y += 3
	}
	for _, obs := range insight.Generate(ds, m) {
		p.paragraph(obs.Title + ": " + obs.Text)
		p.y += 3
	}
	p.y += 15

	p.ensure(40)
	p.heading("Executive Summary")
	p.paragraph(insight.Summary(ds, m))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf report: %w", err)
	}
	return nil
}

// pdfWriter tracks the vertical cursor; fpdf's own cursor is not used
// because everything is placed with absolute Text calls.
type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	y   float64
}

func (p *pdfWriter) text(x, y float64, s string) { p.pdf.Text(x, y, p.tr(s)) }

func (p *pdfWriter) ensure(h float64) {
	if p.y+h > pdfPageBottom {
		p.pdf.AddPage()
		p.y = 20
	}
}

func (p *pdfWriter) heading(s string) {
	p.pdf.SetFont("Helvetica", "B", 16)
	color(p.pdf.SetTextColor, teal)
	p.text(pdfMargin, p.y, s)
	p.y += 10
	p.pdf.SetFont("Helvetica", "", 11)
	color(p.pdf.SetTextColor, gray)
}

func (p *pdfWriter) pairs(rows [][2]string) {
	for _, r := range rows {
		p.text(pdfMargin, p.y, r[0])
		p.text(pdfColumn2, p.y, r[1])
		p.y += 7
	}
}

func (p *pdfWriter) paragraph(s string) {
	color(p.pdf.SetTextColor, gray)
	for _, line := range p.pdf.SplitText(p.tr(s), pdfTextWidth) {
		p.ensure(6)
		p.pdf.Text(pdfMargin, p.y, line)
		p.y += 6
	}
}

// grid draws the confusion matrix: actual classes down, predicted across,
// diagonal cells teal and the rest red.
func (p *pdfWriter) grid(classes []string, cm [][]int, cell float64) {
	x0, y0 := 40.0, p.y
	side := cell * float64(len(cm))
	p.pdf.SetFont("Helvetica", "", 10)
	color(p.pdf.SetTextColor, gray)
	p.text(x0+side/2-10, y0-5, "Predicted")
	p.pdf.TransformBegin()
	p.pdf.TransformRotate(90, x0-14, y0+side/2+8)
	p.text(x0-14, y0+side/2+8, "Actual")
	p.pdf.TransformEnd()
	for i, c := range classes {
		if i >= len(cm) {
			break
		}
		short := abbreviate(c)
		p.text(x0+float64(i)*cell+cell/2-3, y0-1, short)
		p.text(x0-10, y0+float64(i)*cell+cell/2+1, short)
	}
	p.pdf.SetFont("Helvetica", "B", 12)
	for i, row := range cm {
		for j, v := range row {
			x, y := x0+float64(j)*cell, y0+float64(i)*cell
			if i == j {
				color(p.pdf.SetFillColor, teal)
			} else {
				color(p.pdf.SetFillColor, red)
			}
			p.pdf.Rect(x, y, cell, cell, "F")
			color(p.pdf.SetTextColor, white)
			s := strconv.Itoa(v)
			p.pdf.Text(x+cell/2-p.pdf.GetStringWidth(s)/2, y+cell/2+2, s)
		}
	}
	p.pdf.SetFont("Helvetica", "", 11)
	color(p.pdf.SetTextColor, gray)
}

func abbreviate(s string) string {
	r := []rune(s)
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

func color(set func(r, g, b int), c rgb) { set(c.r, c.g, c.b) }

func pct(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) + "%" }
