package cmd

import (
	"github.com/KaramelBytes/dataloom-cli/internal/analysis"
	"github.com/KaramelBytes/dataloom-cli/internal/deck"
	"github.com/KaramelBytes/dataloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	dashLoad    loadFlags
	dashAI      aiFlags
	dashOffline bool
	dashSample  int
	dashOutput  string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <file>",
	Short: "Produce a dashboard configuration (summary, key metrics, charts) as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := dashLoad.load(cmd, args[0])
		if err != nil {
			return err
		}
		var d deck.Dashboard
		if dashOffline {
			d = deck.LocalDashboard(t, analysis.BuildProfile(t, profileOptions(cfg)))
		} else {
			rt, _, err := buildRuntime(cfg, dashAI)
			if err == nil {
				d, err = deck.GenerateDashboard(cmd.Context(), rt, selectModel(cfg, dashAI.model), t, dashSample)
			}
			if err != nil {
				warnf(cmd, "AI dashboard unavailable, using local heuristics: %v", err)
				d = deck.LocalDashboard(t, analysis.BuildProfile(t, profileOptions(cfg)))
			}
		}
		b, err := utils.PrettyJSON(d)
		if err != nil {
			return err
		}
		return emit(cmd, append(b, '\n'), dashOutput, "dashboard")
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashLoad.bind(dashboardCmd)
	dashAI.bind(dashboardCmd)
	dashboardCmd.Flags().BoolVar(&dashOffline, "offline", false, "skip the LLM and derive the dashboard locally")
	dashboardCmd.Flags().IntVar(&dashSample, "sample-rows", 5, "rows sent to the model as a structure sample")
	dashboardCmd.Flags().StringVarP(&dashOutput, "output", "o", "", "write to this file instead of stdout")
}
