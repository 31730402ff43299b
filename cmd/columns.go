package cmd

import (
	"fmt"

	"github.com/KaramelBytes/classify-cli/internal/dataset"
	"github.com/spf13/cobra"
)

var columnsCmd = &cobra.Command{
	Use:   "columns <file.csv>",
	Short: "List the header columns of a CSV file (candidate targets)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cols, err := dataset.ReadHeader(args[0])
		if err != nil {
			mm.IngestFailed(ingestReason(err))
			return err
		}
		out := cmd.OutOrStdout()
		for i, c := range cols {
			fmt.Fprintf(out, "%d. %s\n", i+1, c)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
}
