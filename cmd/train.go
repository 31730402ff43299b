package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/KaramelBytes/classify-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	trainSim      simFlags
	trainJSONPath string
	trainPDFPath  string
	trainExport   []string
	trainFormat   string
)

var trainCmd = &cobra.Command{
	Use:   "train <file.csv>",
	Short: "Load a CSV, simulate training and show the metrics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printer, err := report.ForFormat(trainFormat)
		if err != nil {
			return err
		}
		if printer.Format() == report.FormatPDF {
			return fmt.Errorf("--format pdf is not printable; use --pdf <path> or --export pdf")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		ds, err := loadDataset(ctx, args[0], trainSim.target)
		if err != nil {
			return err
		}
		seed, delay := trainSim.resolve(cmd)
		s := newSession(seed, delay)
		if delay > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Training model on %d samples...\n", ds.RowCount)
		}
		if _, err := s.Load(ctx, ds); err != nil {
			return fmt.Errorf("train: %w", err)
		}
		snap, err := s.Snapshot()
		if err != nil {
			return err
		}
		if err := printer.Render(cmd.OutOrStdout(), report.FromSnapshot(snap, time.Now())); err != nil {
			return err
		}

		exports := map[string]string{}
		for _, f := range trainExport {
			r, err := report.ForFormat(f)
			if err != nil {
				return err
			}
			exports[r.Format()] = ""
		}
		if trainJSONPath != "" {
			exports[report.FormatJSON] = trainJSONPath
		}
		if trainPDFPath != "" {
			exports[report.FormatPDF] = trainPDFPath
		}
		for _, format := range []string{report.FormatJSON, report.FormatPDF, report.FormatText} {
			path, ok := exports[format]
			if !ok {
				continue
			}
			out, err := exportReport(s, format, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s report to %s\n", format, out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)
	trainSim.register(trainCmd)
	trainCmd.Flags().StringVar(&trainJSONPath, "json", "", "write the JSON report to this path")
	trainCmd.Flags().StringVar(&trainPDFPath, "pdf", "", "write the PDF report to this path")
	trainCmd.Flags().StringSliceVar(&trainExport, "export", nil, "write reports with default names into reports_dir (json,pdf,text)")
	trainCmd.Flags().StringVar(&trainFormat, "format", "text", "stdout format: text|json")
}
