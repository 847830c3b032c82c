package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KaramelBytes/dataloom-cli/internal/ai"
	"github.com/KaramelBytes/dataloom-cli/internal/analysis"
	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/KaramelBytes/dataloom-cli/internal/query"
	"github.com/KaramelBytes/dataloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	askLoad  loadFlags
	askAI    aiFlags
	askUseAI bool
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask <file> <question...>",
	Short: "Answer a natural-language question from the data",
	Example: `  dataloom ask sales.csv "top region by revenue"
  dataloom ask sales.csv total revenue by channel
  dataloom ask sales.csv "why did March dip?" --ai`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, args[0], &askLoad, askAI, askUseAI)
		if err != nil {
			return err
		}
		question := strings.Join(args[1:], " ")
		res, err := s.ask(cmd.Context(), question)
		if err != nil {
			return err
		}
		if askJSON {
			b, err := utils.PrettyJSON(res)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Text)
		return nil
	},
}

// session holds one loaded dataset and the follow-up context across questions.
type session struct {
	table   *dataset.Table
	profile *analysis.Profile
	schema  query.Schema
	qctx    query.QueryContext

	useAI      bool
	rt         ai.Runtime
	req        ai.GenerateRequest
	tokenLimit int
}

type askResult struct {
	Question string             `json:"question"`
	Text     string             `json:"text"`
	Source   string             `json:"source"`
	Answer   *query.Answer      `json:"answer,omitempty"`
	Context  query.QueryContext `json:"context"`
}

func newSession(cmd *cobra.Command, path string, lf *loadFlags, af aiFlags, useAI bool) (*session, error) {
	t, err := lf.load(cmd, path)
	if err != nil {
		return nil, err
	}
	p := analysis.BuildProfile(t, profileOptions(cfg))
	s := &session{table: t, profile: p, schema: query.InferGenericSchema(p, t), useAI: useAI}
	if useAI {
		rt, _, err := buildRuntime(cfg, af)
		if err != nil {
			return nil, err
		}
		s.rt = rt
		s.req = ai.GenerateRequest{Model: selectModel(cfg, af.model), MaxTokens: cfg.MaxTokens, Temperature: cfg.Temperature}
		s.tokenLimit = cfg.PromptTokenLimit
	}
	return s, nil
}

// ask answers locally and, when enabled, falls back to the model for
// questions the local engine cannot resolve.
func (s *session) ask(ctx context.Context, question string) (askResult, error) {
	ans, next := query.AnswerWithSchema(question, s.table, s.schema, s.qctx)
	s.qctx = next
	res := askResult{Question: question, Answer: ans, Source: "local"}
	if ans != nil && ans.Text != query.CannotAnswer {
		res.Text = ans.Text
		res.Context = s.qctx
		return res, nil
	}
	res.Text = query.CannotAnswer
	res.Context = s.qctx
	if !s.useAI {
		return res, nil
	}
	text, err := s.fallback(ctx, question)
	if err != nil {
		return res, fmt.Errorf("ai fallback: %w", err)
	}
	res.Text, res.Source = text, "ai"
	return res, nil
}

func (s *session) fallback(ctx context.Context, question string) (string, error) {
	stats, err := json.Marshal(s.profile)
	if err != nil {
		return "", fmt.Errorf("encode stats: %w", err)
	}
	budget := 0
	if s.tokenLimit > 0 {
		budget = max(1, s.tokenLimit-utils.CountTokens(string(stats)))
	}
	rows, n, err := utils.FitJSONPrefix(s.table.Rows, budget)
	if err != nil {
		return "", err
	}
	if n < s.table.Len() {
		slog.Info("rows trimmed to prompt budget", "sent", n, "rows", s.table.Len(), "limit", s.tokenLimit)
	}
	return ai.Ask(ctx, s.rt, s.req, ai.QuestionPrompt(question, string(rows), string(stats)))
}

func init() {
	rootCmd.AddCommand(askCmd)
	askLoad.bind(askCmd)
	askAI.bind(askCmd)
	askCmd.Flags().BoolVar(&askUseAI, "ai", false, "fall back to the configured LLM when the question cannot be answered locally")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the answer, intent and follow-up context as JSON")
}
