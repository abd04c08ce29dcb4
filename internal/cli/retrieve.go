// internal/cli/retrieve.go
package wikirag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mwiater/wikirag/internal/pipeline"
	"github.com/mwiater/wikirag/internal/prompt"
	"github.com/mwiater/wikirag/internal/util"
	"github.com/spf13/cobra"
)

var chunkHeading = color.New(color.FgGreen).SprintFunc()

// retrieveCmd previews retrieval without generating an answer.
var retrieveCmd = &cobra.Command{
	Use:   "retrieve <question>",
	Short: "Preview the Wikipedia chunks retrieved for a question",
	Long:  `The 'retrieve' command runs the retrieval pipeline and shows the ranked chunks without calling the chat model.`,
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

		out := cmd.OutOrStdout()
		onStage := func(format string, a ...any) {
			fmt.Fprintln(out, stageNotice(fmt.Sprintf(format, a...)))
		}

		retrieved, err := session.Retrieve(ctx, question, onStage)
		if err != nil {
			if errors.Is(err, pipeline.ErrNoContent) {
				fmt.Fprintln(out, warnNotice("No relevant Wikipedia content found for your question."))
				return nil
			}
			return err
		}

		fmt.Fprintln(out)
		fmt.Fprintf(out, "Topic:        %s\n", retrieved.Topic)
		fmt.Fprintf(out, "Chunks:       %d\n", retrieved.ChunkCount)
		fmt.Fprintf(out, "Fallback:     %v\n", retrieved.Retrieved.Fallback)
		fmt.Fprintf(out, "Retrieval ms: %d\n", retrieved.Retrieved.RetrievalMs)

		for i, chunk := range retrieved.Retrieved.Chunks {
			fmt.Fprintln(out)
			if retrieved.Retrieved.Fallback {
				fmt.Fprintln(out, chunkHeading(fmt.Sprintf("Chunk %d (row %d, document order)", i+1, chunk.Row)))
			} else {
				fmt.Fprintln(out, chunkHeading(fmt.Sprintf("Chunk %d (row %d, distance %.6f)", i+1, chunk.Row, chunk.Distance)))
			}
			fmt.Fprintln(out, util.TruncateRunes(chunk.Text, 150))
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Context preview:")
		fmt.Fprintln(out, prompt.ContextPreview(retrieved.Retrieved.Texts(), 300))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(retrieveCmd)
}
