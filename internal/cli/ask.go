// internal/cli/ask.go
package wikirag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mwiater/wikirag/internal/pipeline"
	"github.com/mwiater/wikirag/internal/util"
	"github.com/spf13/cobra"
)

var stageNotice = color.New(color.FgCyan).SprintFunc()
var warnNotice = color.New(color.FgYellow).SprintFunc()

// askCmd represents the 'ask' command for one-shot questions.
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question and print the answer",
	Long:  `The 'ask' command retrieves Wikipedia context for a question, generates an answer, and exits.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.TrimSpace(strings.Join(args, " "))
		if question == "" {
			return fmt.Errorf("question is required")
		}

		cfg := getConfig()
		session, provider, err := newSession(cfg)
		if err != nil {
			return err
		}
		defer provider.Close()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
		defer cancel()

		onStage := func(format string, a ...any) {
			fmt.Fprintln(cmd.OutOrStdout(), stageNotice(fmt.Sprintf(format, a...)))
		}

		answer, retrieved, err := session.Answer(ctx, question, cfg.Style, onStage)
		if err != nil {
			if errors.Is(err, pipeline.ErrNoContent) {
				fmt.Fprintln(cmd.OutOrStdout(), warnNotice("No relevant Wikipedia content found for your question."))
				return nil
			}
			return err
		}

		if retrieved.Retrieved.Fallback {
			fmt.Fprintln(cmd.OutOrStdout(), warnNotice("Similarity search unavailable, answering from leading article content."))
		}

		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), util.WrapToWidth(answer, 100))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
