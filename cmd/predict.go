package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/classify-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	predSim    simFlags
	predInputs []string
	predFormat string
)

var predictCmd = &cobra.Command{
	Use:   "predict <file.csv>",
	Short: "Train on a CSV and fabricate one prediction from feature inputs",
	Long: `Train on a CSV and fabricate one prediction. Values are required for the
most important features (see "top_features" in config); run without --input
to list them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch predFormat {
		case "text", "json":
		default:
			return fmt.Errorf("unsupported --format: %s (use text|json)", predFormat)
		}
		inputs, err := parseAssignments(predInputs)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		ds, err := loadDataset(ctx, args[0], predSim.target)
		if err != nil {
			return err
		}
		seed, delay := predSim.resolve(cmd)
		s := newSession(seed, delay)
		if _, err := s.Load(ctx, ds); err != nil {
			return fmt.Errorf("train: %w", err)
		}

		out := cmd.OutOrStdout()
		rec, err := s.Predict(ctx, inputs)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Top features:")
			for i, f := range s.TopFeatures() {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %d. %s (%.1f%%)\n", i+1, f.Feature, f.Importance*100)
			}
			printMissing(cmd.ErrOrStderr(), err)
			return err
		}
		if predFormat == "json" {
			b, err := utils.PrettyJSON(rec)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		fmt.Fprintf(out, "✓ Prediction: %s\n", rec.PredictedClass)
		fmt.Fprintf(out, "  Confidence: %.1f%%\n", rec.Confidence)
		fmt.Fprintf(out, "  Inputs: %s\n", strings.Join(sortedPairs(rec.Inputs), ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)
	predSim.register(predictCmd)
	predictCmd.Flags().StringArrayVarP(&predInputs, "input", "i", nil, "feature value as feature=value (repeatable)")
	predictCmd.Flags().StringVar(&predFormat, "format", "text", "output format: text|json")
}
