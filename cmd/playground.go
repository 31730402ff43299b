package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/KaramelBytes/classify-cli/internal/profile"
	"github.com/KaramelBytes/classify-cli/internal/report"
	"github.com/KaramelBytes/classify-cli/internal/session"
	"github.com/spf13/cobra"
)

var pgSim simFlags

var playgroundCmd = &cobra.Command{
	Use:   "playground <file.csv>",
	Short: "Interactive prediction playground on a trained dataset",
	Long: `Load a CSV, train, then read commands from stdin:

  set k=v [k=v ...]   set feature inputs
  clear               drop all inputs
  features            show the top features and suggested values
  predict             fabricate a prediction from the inputs
  history             show recent predictions, newest first
  report              print the full text report
  load <file> <col>   replace the dataset and retrain
  reset               drop dataset, metrics and predictions
  export json|pdf|text [path]
  help | quit`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, delay := pgSim.resolve(cmd)
		pg := &playground{
			s:       newSession(seed, delay),
			out:     cmd.OutOrStdout(),
			inputs:  map[string]string{},
			history: settings().HistorySize,
		}
		ctx := cmd.Context()
		if err := pg.load(ctx, args[0], pgSim.target); err != nil {
			return err
		}
		return pg.run(ctx, cmd.InOrStdin())
	},
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
	pgSim.register(playgroundCmd)
}

type playground struct {
	s       *session.Session
	out     io.Writer
	inputs  map[string]string
	history int
}

func (p *playground) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(p.out, "Type 'help' for commands.")
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(p.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(p.out)
			return sc.Err()
		}
		quit, err := p.exec(ctx, sc.Text())
		if err != nil {
			fmt.Fprintln(p.out, "✗", err)
			printMissing(p.out, err)
		}
		if quit {
			return nil
		}
	}
}

func (p *playground) exec(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	args := fields[1:]
	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprintln(p.out, "commands: set k=v, clear, features, predict, history, report, load <file> <target>, reset, export json|pdf|text [path], quit")
	case "set":
		return false, p.set(args)
	case "clear":
		p.inputs = map[string]string{}
		fmt.Fprintln(p.out, "✓ Inputs cleared")
	case "features":
		return false, p.features()
	case "predict":
		return false, p.predict(ctx)
	case "history":
		p.showHistory()
	case "report":
		snap, err := p.s.Snapshot()
		if err != nil {
			return false, err
		}
		return false, report.Text{}.Render(p.out, report.FromSnapshot(snap, time.Now()))
	case "load":
		if len(args) != 2 {
			return false, errors.New("usage: load <file.csv> <target>")
		}
		return false, p.load(ctx, args[0], args[1])
	case "reset":
		p.s.Reset()
		p.inputs = map[string]string{}
		fmt.Fprintln(p.out, "✓ Session reset; use 'load' to start again")
	case "export":
		if len(args) < 1 || len(args) > 2 {
			return false, errors.New("usage: export json|pdf|text [path]")
		}
		path := ""
		if len(args) == 2 {
			path = args[1]
		}
		out, err := exportReport(p.s, args[0], path)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(p.out, "✓ Wrote %s\n", out)
	default:
		return false, fmt.Errorf("unknown command %q (try 'help')", fields[0])
	}
	return false, nil
}

func (p *playground) load(ctx context.Context, path, target string) error {
	ds, err := loadDataset(ctx, path, target)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Training model on %d samples...\n", ds.RowCount)
	m, err := p.s.Load(ctx, ds)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	p.inputs = map[string]string{}
	fmt.Fprintf(p.out, "✓ Trained on '%s': accuracy %.1f%%, F1 %.1f%%\n", ds.FileLabel, m.Accuracy, m.F1Score)
	return p.features()
}

func (p *playground) set(args []string) error {
	ds := p.s.Dataset()
	if ds == nil {
		return session.ErrNoDataset
	}
	kv, err := parseAssignments(args)
	if err != nil {
		return err
	}
	for k := range kv {
		if k == ds.TargetColumn || !ds.HasColumn(k) {
			return fmt.Errorf("unknown feature %q", k)
		}
	}
	for k, v := range kv {
		if v == "" {
			delete(p.inputs, k)
			continue
		}
		p.inputs[k] = v
	}
	fmt.Fprintf(p.out, "  inputs: %s\n", strings.Join(sortedPairs(p.inputs), ", "))
	return nil
}

func (p *playground) features() error {
	ds := p.s.Dataset()
	if ds == nil {
		return session.ErrNoDataset
	}
	if p.s.Metrics() == nil {
		return session.ErrNotTrained
	}
	top := p.s.TopFeatures()
	if len(top) == 0 {
		fmt.Fprintln(p.out, "(no features; predict needs no inputs)")
		return nil
	}
	fmt.Fprintln(p.out, "Top features:")
	for i, f := range top {
		kind := profile.Kind(ds, f.Feature)
		line := fmt.Sprintf("  %d. %s (%.1f%%, %s)", i+1, f.Feature, f.Importance*100, kind)
		if kind == profile.KindCategorical {
			if opts := profile.Suggestions(ds, f.Feature); len(opts) > 0 {
				line += " options: " + strings.Join(opts, ", ")
			}
		}
		if v, ok := p.inputs[f.Feature]; ok {
			line += " = " + v
		}
		fmt.Fprintln(p.out, line)
	}
	return nil
}

func (p *playground) predict(ctx context.Context) error {
	rec, err := p.s.Predict(ctx, p.inputs)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "✓ Prediction: %s (%.1f%% confidence)\n", rec.PredictedClass, rec.Confidence)
	return nil
}

func (p *playground) showHistory() {
	recent := p.s.Recent(p.history)
	if len(recent) == 0 {
		fmt.Fprintln(p.out, "(no predictions)")
		return
	}
	for _, r := range recent {
		fmt.Fprintf(p.out, "- %s %s (%.1f%%) %s\n", r.Timestamp.Local().Format("15:04:05"),
			r.PredictedClass, r.Confidence, strings.Join(sortedPairs(r.Inputs), ", "))
	}
	if total := len(p.s.Predictions()); total > len(recent) {
		fmt.Fprintf(p.out, "  (%d total)\n", total)
	}
}
