package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/dataloom-cli/internal/analysis"
	"github.com/KaramelBytes/dataloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	profLoad         loadFlags
	profCategory     string
	profMeasure      string
	profDateCol      string
	profTrendMeasure string
	profMaxPairCols  int
	profFormat       string
	profOutput       string
)

var profileCmd = &cobra.Command{
	Use:   "profile <files...>",
	Short: "Profile CSV/TSV/XLSX files: schema, KPIs, trends, correlations, anomalies",
	Example: `  dataloom profile sales.csv
  dataloom profile data/*.xlsx --sheet-name Orders --format html --output reports/
  dataloom profile orders.csv --category Region --measure Revenue --format table`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(profFormat)
		ext, ok := formatExt[format]
		if !ok {
			return fmt.Errorf("unsupported --format: %s (use markdown|json|html|table)", profFormat)
		}
		files, err := utils.ExpandInputs(args)
		if err != nil {
			return err
		}
		opt := profileOptions(cfg)
		opt.PrimaryCategorical = profCategory
		opt.PrimaryNumeric = profMeasure
		opt.PrimaryDate = profDateCol
		opt.TrendMeasure = profTrendMeasure
		if profMaxPairCols > 0 {
			opt.MaxPairColumns = profMaxPairCols
		}

		batch := len(files) > 1
		failed := 0
		for i, path := range files {
			if batch {
				fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] Processing %s...\n", i+1, len(files), filepath.Base(path))
			}
			if err := profileOne(cmd, path, opt, format, ext, batch); err != nil {
				if !batch {
					return err
				}
				warnf(cmd, "%s: %v", path, err)
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(files))
		}
		return nil
	},
}

var formatExt = map[string]string{
	"markdown": ".md",
	"md":       ".md",
	"json":     ".json",
	"html":     ".html",
	"table":    ".txt",
}

func profileOne(cmd *cobra.Command, path string, opt analysis.Options, format, ext string, batch bool) error {
	t, err := profLoad.load(cmd, path)
	if err != nil {
		return err
	}
	for _, w := range analysis.ValidateData(t) {
		warnf(cmd, "%s: %s", filepath.Base(path), w)
	}
	p := analysis.BuildProfile(t, opt)
	body, err := renderProfile(p, format)
	if err != nil {
		return err
	}

	if profOutput == "" {
		_, err := cmd.OutOrStdout().Write(body)
		return err
	}
	dest := profOutput
	if batch || isDir(dest) {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		dest = filepath.Join(profOutput, base+".profile"+ext)
	}
	if err := utils.SafeWriteFile(dest, body); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	okf(cmd.ErrOrStderr(), "Wrote profile to %s", dest)
	return nil
}

func renderProfile(p *analysis.Profile, format string) ([]byte, error) {
	switch format {
	case "json":
		b, err := utils.PrettyJSON(p)
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case "html":
		return []byte(p.HTML()), nil
	case "table":
		return []byte(analysis.RenderTables(p)), nil
	default:
		return []byte(p.Markdown()), nil
	}
}

func isDir(path string) bool {
	if strings.HasSuffix(path, string(os.PathSeparator)) {
		return true
	}
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profLoad.bind(profileCmd)
	profileCmd.Flags().StringVar(&profCategory, "category", "", "categorical column for top categories and category KPIs")
	profileCmd.Flags().StringVar(&profMeasure, "measure", "", "numeric column for category KPIs and the distribution")
	profileCmd.Flags().StringVar(&profDateCol, "date-col", "", "date column for the monthly trend")
	profileCmd.Flags().StringVar(&profTrendMeasure, "trend-measure", "", "sum this column per month instead of counting rows")
	profileCmd.Flags().IntVar(&profMaxPairCols, "max-pair-cols", 0, "limit numeric columns used for correlations (overrides config)")
	profileCmd.Flags().StringVar(&profFormat, "format", "markdown", "output format: markdown|json|html|table")
	profileCmd.Flags().StringVarP(&profOutput, "output", "o", "", "write to this file (or directory for several inputs)")
}
