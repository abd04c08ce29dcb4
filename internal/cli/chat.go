// internal/cli/chat.go
package wikirag

import (
	"context"
	"log"

	"github.com/mwiater/wikirag/cli"
	"github.com/spf13/cobra"
)

var startGUI = cli.StartGUI

// chatCmd represents the 'chat' command.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive Wikipedia chat session",
	Long:  `The 'chat' command starts an interactive session that answers questions using retrieved Wikipedia content.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()

		ctx, cancel := context.WithCancel(context.Background())
		session, provider, err := newSession(cfg)
		if err != nil {
			cancel()
			log.Fatalf("Failed to initialize provider: %v", err)
		}
		defer provider.Close()

		startGUI(ctx, cfg, session, cancel)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
