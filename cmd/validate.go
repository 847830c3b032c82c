package cmd

import (
	"fmt"

	"github.com/KaramelBytes/dataloom-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var valLoad loadFlags

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a dataset for emptiness, size, and mostly-empty columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := valLoad.load(cmd, args[0])
		if err != nil {
			return err
		}
		warnings := analysis.ValidateData(t)
		if len(warnings) == 0 {
			okf(cmd.OutOrStdout(), "%s looks valid (%d rows, %d columns)", args[0], t.Len(), len(t.Columns))
			return nil
		}
		for _, w := range warnings {
			fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", w)
		}
		return fmt.Errorf("%d validation issue(s) in %s", len(warnings), args[0])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	valLoad.bind(validateCmd)
}
