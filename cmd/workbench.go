package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/classify-cli/internal/dataset"
	"github.com/KaramelBytes/classify-cli/internal/model"
	"github.com/KaramelBytes/classify-cli/internal/report"
	"github.com/KaramelBytes/classify-cli/internal/session"
	"github.com/KaramelBytes/classify-cli/internal/utils"
	"github.com/KaramelBytes/classify-cli/pkg/logger"
	"github.com/spf13/cobra"
)

// simFlags are shared by every command that trains.
type simFlags struct {
	target string
	seed   int64
	delay  time.Duration
}

func (f *simFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.target, "target", "t", "", "target (class) column")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed for reproducible output (0 = random; overrides config)")
	cmd.Flags().DurationVar(&f.delay, "delay", 0, "simulated training time, e.g. 0s or 500ms (overrides config)")
	_ = cmd.MarkFlagRequired("target")
}

// resolve applies config values for flags the user did not set.
func (f *simFlags) resolve(cmd *cobra.Command) (seed int64, delay time.Duration) {
	c := settings()
	seed, delay = c.Seed, c.TrainingDelay()
	if cmd.Flags().Changed("seed") {
		seed = f.seed
	}
	if cmd.Flags().Changed("delay") && f.delay >= 0 {
		delay = f.delay
	}
	return seed, delay
}

// loadDataset reads and ingests a CSV file, recording the outcome in the
// process metrics.
func loadDataset(ctx context.Context, path, target string) (*dataset.Dataset, error) {
	log := logger.Named("ingest")
	c := settings()
	if mb, err := utils.FileSizeMB(path); err == nil && c.MaxFileMB > 0 && mb > float64(c.MaxFileMB) {
		log.Warn(ctx, "file is larger than the suggested limit",
			logger.String("file", path),
			logger.Float64("size_mb", mb),
			logger.Int("limit_mb", c.MaxFileMB))
	}
	opt := dataset.DefaultOptions()
	opt.StrictHeaders = c.StrictHeaders
	ds, err := dataset.LoadFile(path, target, opt)
	if err != nil {
		mm.IngestFailed(ingestReason(err))
		log.Debug(ctx, "ingest failed", logger.String("file", path), logger.Error(err))
		return nil, err
	}
	mm.DatasetLoaded()
	if dups := ds.DuplicateColumns(); len(dups) > 0 {
		log.Warn(ctx, "duplicate header names; the last value on each row wins",
			logger.String("columns", strings.Join(dups, ", ")))
	}
	log.Info(ctx, "dataset loaded",
		logger.String("file", ds.FileLabel),
		logger.Int("rows", ds.RowCount),
		logger.Int("classes", len(ds.Classes)))
	return ds, nil
}

func ingestReason(err error) string {
	var ute *dataset.UnknownTargetError
	switch {
	case errors.As(err, &ute):
		return "unknown_target"
	case errors.Is(err, dataset.ErrDuplicateColumn):
		return "duplicate_column"
	case errors.Is(err, dataset.ErrParse):
		return "read"
	default:
		return "malformed"
	}
}

// newSession wires a session from config and the resolved seed and delay.
// A non-zero seed makes metrics and predictions reproducible.
func newSession(seed int64, delay time.Duration) *session.Session {
	genSrc, predSrc := model.NewSource(seed), model.NewSource(seed)
	if seed != 0 {
		predSrc = model.NewSource(seed + 1)
	}
	tr := model.NewTrainer(model.NewGenerator(genSrc), model.WithDelay(delay))
	return session.New(tr, model.NewPredictor(predSrc),
		session.WithTopK(settings().TopFeatures),
		session.WithMetrics(mm))
}

// exportReport writes the session's report in format to path, or to the
// default file name inside the configured reports directory.
func exportReport(s *session.Session, format, path string) (string, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return "", err
	}
	r, err := report.ForFormat(format)
	if err != nil {
		return "", err
	}
	out := report.Path(r, settings().ReportsDir, path, snap.Dataset.FileLabel)
	if err := report.WriteFile(r, out, report.FromSnapshot(snap, time.Now())); err != nil {
		return "", err
	}
	mm.ReportWritten(r.Format())
	return out, nil
}

// parseAssignments turns k=v pairs into a map. Keys and values are trimmed.
func parseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid input %q (use feature=value)", p)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

func printMissing(w io.Writer, err error) {
	var mie *model.MissingInputError
	if errors.As(err, &mie) {
		fmt.Fprintf(w, "  provide values with: %s\n", strings.Join(assignmentHints(mie.Features), " "))
	}
}

func assignmentHints(features []string) []string {
	out := make([]string, len(features))
	for i, f := range features {
		out[i] = f + "=<value>"
	}
	return out
}

func sortedPairs(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k + "=" + m[k]
	}
	return out
}
