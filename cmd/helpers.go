package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/KaramelBytes/dataloom-cli/internal/ai"
	"github.com/KaramelBytes/dataloom-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/dataloom-cli/internal/config"
	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/spf13/cobra"
)

// loadFlags are the input options shared by every command that reads a file.
type loadFlags struct {
	delimiter  string
	sheetName  string
	sheetIndex int
	maxRows    int
}

func (l *loadFlags) bind(c *cobra.Command) {
	c.Flags().StringVar(&l.delimiter, "delimiter", "", "CSV delimiter: ',', ';', '|', or 'tab' (sniffed when empty)")
	c.Flags().StringVar(&l.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	c.Flags().IntVar(&l.sheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used when --sheet-name is empty)")
	c.Flags().IntVar(&l.maxRows, "max-rows", 0, "read at most this many data rows (0 = all)")
}

func (l *loadFlags) options() (dataset.LoadOptions, error) {
	opt := dataset.LoadOptions{MaxRows: l.maxRows, SheetName: l.sheetName, SheetIndex: l.sheetIndex}
	switch l.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case ";":
		opt.Delimiter = ';'
	case "|":
		opt.Delimiter = '|'
	case "\t", "tab":
		opt.Delimiter = '\t'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", l.delimiter)
	}
	return opt, nil
}

func (l *loadFlags) load(cmd *cobra.Command, path string) (*dataset.Table, error) {
	opt, err := l.options()
	if err != nil {
		return nil, err
	}
	t, err := dataset.Load(path, opt)
	if err != nil {
		return nil, err
	}
	if t.Truncated {
		warnf(cmd, "read %d of %d rows from %s (--max-rows)", t.Len(), t.Total, path)
	}
	return t, nil
}

// profileOptions maps the analysis section of the config onto profile bounds.
func profileOptions(c *cfgpkg.Global) analysis.Options {
	opt := analysis.DefaultOptions()
	if c == nil {
		return opt
	}
	if c.Analysis.KPILimit > 0 {
		opt.KPILimit = c.Analysis.KPILimit
	}
	if c.Analysis.TopCategories > 0 {
		opt.TopCategories = c.Analysis.TopCategories
	}
	if c.Analysis.TopCorrelations > 0 {
		opt.TopCorrelations = c.Analysis.TopCorrelations
	}
	opt.MaxPairColumns = c.Analysis.MaxPairColumns
	return opt
}

// aiFlags select the LLM backend for commands that can call one.
type aiFlags struct {
	provider   string
	model      string
	ollamaHost string
}

func (a *aiFlags) bind(c *cobra.Command) {
	c.Flags().StringVar(&a.provider, "provider", "", "LLM provider: openrouter or ollama (default from config)")
	c.Flags().StringVar(&a.model, "model", "", "model name (default from config)")
	c.Flags().StringVar(&a.ollamaHost, "ollama-host", "", "Ollama base URL (overrides config)")
}

func buildRuntime(c *cfgpkg.Global, a aiFlags) (ai.Runtime, string, error) {
	if c == nil {
		c = &cfgpkg.Global{}
	}
	rc := ai.RuntimeConfig{
		HTTPTimeout: time.Duration(c.HTTPTimeoutSec) * time.Second,
		RetryMax:    c.RetryMaxAttempts,
		BaseDelay:   time.Duration(c.RetryBaseDelayMs) * time.Millisecond,
		MaxDelay:    time.Duration(c.RetryMaxDelayMs) * time.Millisecond,
		APIKey:      c.APIKey,
		Host:        c.OllamaHost,
	}
	if h := strings.TrimSpace(a.ollamaHost); h != "" {
		rc.Host = h
	}
	name := strings.ToLower(strings.TrimSpace(a.provider))
	if name == "" {
		name = strings.ToLower(c.DefaultProvider)
	}
	switch name {
	case "":
		name = ai.ProviderOpenRouter
	case "local":
		name = ai.ProviderOllama
	}
	rt, ok := ai.GetRuntime(name, rc)
	if !ok {
		return nil, name, fmt.Errorf("provider not supported: %s (use %s)", name, strings.Join(ai.Providers(), " or "))
	}
	slog.Debug("runtime selected", "provider", name)
	return rt, name, nil
}

func selectModel(c *cfgpkg.Global, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if c != nil && c.DefaultModel != "" {
		return c.DefaultModel
	}
	return "openai/gpt-4o-mini"
}

func warnf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: "+format+"\n", args...)
}

func okf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "✓ "+format+"\n", args...)
}
