package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	chatLoad  loadFlags
	chatAI    aiFlags
	chatUseAI bool
)

var chatCmd = &cobra.Command{
	Use:   "chat <file>",
	Short: "Ask questions interactively; follow-ups like \"what is the region?\" use the previous answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, args[0], &chatLoad, chatAI, chatUseAI)
		if err != nil {
			return err
		}
		log := slog.With("session", uuid.NewString())
		log.Debug("chat started", "file", args[0], "ai", chatUseAI)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Loaded %s: %d rows x %d columns. Type exit or quit to leave.\n", args[0], s.table.Len(), len(s.table.Columns))
		sc := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")
			if !sc.Scan() {
				break
			}
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			switch strings.ToLower(line) {
			case "exit", "quit":
				return nil
			}
			res, err := s.ask(cmd.Context(), line)
			log.Debug("turn", "question", line, "source", res.Source, "dim", res.Context.Dim, "measure", res.Context.Measure)
			if err != nil {
				warnf(cmd, "%v", err)
			}
			fmt.Fprintln(out, res.Text)
		}
		fmt.Fprintln(out)
		return sc.Err()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatLoad.bind(chatCmd)
	chatAI.bind(chatCmd)
	chatCmd.Flags().BoolVar(&chatUseAI, "ai", false, "fall back to the configured LLM for questions the data cannot answer")
}
