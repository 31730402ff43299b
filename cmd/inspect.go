package cmd

import (
	"fmt"

	"github.com/KaramelBytes/classify-cli/internal/profile"
	"github.com/KaramelBytes/classify-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	inspTarget     string
	inspOutputPath string
	inspSampleRows int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.csv>",
	Short: "Show the dataset overview and a per-column profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(cmd.Context(), args[0], inspTarget)
		if err != nil {
			return err
		}
		opt := profile.DefaultOptions()
		if inspSampleRows >= 0 {
			opt.SampleRows = inspSampleRows
		}
		md := profile.Summarize(ds, opt).Markdown()

		if inspOutputPath != "" {
			if err := utils.SafeWriteFile(inspOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote profile to %s\n", inspOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inspTarget, "target", "t", "", "target (class) column")
	inspectCmd.Flags().StringVarP(&inspOutputPath, "output", "o", "", "optional path to write the profile (Markdown)")
	inspectCmd.Flags().IntVar(&inspSampleRows, "sample-rows", 5, "number of sample rows to include")
	_ = inspectCmd.MarkFlagRequired("target")
}
