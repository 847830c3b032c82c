package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/dataloom-cli/internal/analysis"
	"github.com/KaramelBytes/dataloom-cli/internal/deck"
	"github.com/KaramelBytes/dataloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	outLoad      loadFlags
	outAI        aiFlags
	outTitle     string
	outMaxSlides int
	outOffline   bool
	outFormat    string
	outOutput    string
)

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Draft a presentation outline from a dataset profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(outFormat)
		if format != "markdown" && format != "json" {
			return fmt.Errorf("unsupported --format: %s (use markdown|json)", outFormat)
		}
		t, err := outLoad.load(cmd, args[0])
		if err != nil {
			return err
		}
		p := analysis.BuildProfile(t, profileOptions(cfg))

		var o deck.Outline
		if outOffline {
			o = deck.FallbackOutline(outTitle, p)
		} else {
			rt, _, err := buildRuntime(cfg, outAI)
			if err == nil {
				o, err = deck.GenerateOutline(cmd.Context(), rt, selectModel(cfg, outAI.model), outTitle, p, outMaxSlides)
			}
			if err != nil {
				warnf(cmd, "AI outline unavailable, using local summary: %v", err)
				o = deck.FallbackOutline(outTitle, p)
			}
		}

		var body []byte
		if format == "json" {
			b, err := utils.PrettyJSON(o)
			if err != nil {
				return err
			}
			body = append(b, '\n')
		} else {
			body = []byte(o.Markdown())
		}
		return emit(cmd, body, outOutput, "outline")
	},
}

// emit writes body to path, or to stdout when path is empty.
func emit(cmd *cobra.Command, body []byte, path, what string) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(body)
		return err
	}
	if err := utils.SafeWriteFile(path, body); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	okf(cmd.ErrOrStderr(), "Wrote %s to %s", what, path)
	return nil
}

func init() {
	rootCmd.AddCommand(outlineCmd)
	outLoad.bind(outlineCmd)
	outAI.bind(outlineCmd)
	outlineCmd.Flags().StringVar(&outTitle, "title", "", "presentation title (default derived from the row count)")
	outlineCmd.Flags().IntVar(&outMaxSlides, "max-slides", 6, "maximum number of slides")
	outlineCmd.Flags().BoolVar(&outOffline, "offline", false, "skip the LLM and build the outline locally")
	outlineCmd.Flags().StringVar(&outFormat, "format", "markdown", "output format: markdown|json")
	outlineCmd.Flags().StringVarP(&outOutput, "output", "o", "", "write to this file instead of stdout")
}
