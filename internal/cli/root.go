// internal/cli/root.go
package wikirag

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mwiater/wikirag/internal/appconfig"
	"github.com/mwiater/wikirag/internal/logging"
	"github.com/mwiater/wikirag/internal/pipeline"
	"github.com/mwiater/wikirag/internal/providers/gateway"
	"github.com/mwiater/wikirag/internal/rag"
	"github.com/mwiater/wikirag/internal/wiki"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:   "wikirag",
	Short: "wikirag — terminal companion for Wikipedia-grounded question answering",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load config (file or defaults)
		cfg, err := appconfig.Load(cfgFile)
		if err != nil {
			return err
		}

		// 2) If the user did NOT set a flag, copy the config value into the
		//    flag so both pflags and viper reflect the same, final value.
		if !cmd.Flags().Changed("debug") {
			_ = cmd.Flags().Set("debug", strconv.FormatBool(cfg.Debug))
		}
		if !cmd.Flags().Changed("style") && cfg.Style != "" {
			_ = cmd.Flags().Set("style", cfg.Style)
		}
		if !cmd.Flags().Changed("topK") {
			_ = cmd.Flags().Set("topK", strconv.Itoa(cfg.TopK))
		}

		// 3) Materialize the fully merged configuration into currentConfig
		//    (flags > config > defaults). This gives other packages a stable snapshot.
		cfg.Debug = viper.GetBool("debug")
		cfg.Style = viper.GetString("style")
		if cmd.Flags().Changed("style") {
			cfg.StyleSet = true
		}
		if k := viper.GetInt("topK"); k > 0 {
			cfg.TopK = k
		}
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// --config (empty means the default path, which may be absent)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default config/config.json)")

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("style", "", "answer style (default, pirate, kid, bullets)")
	rootCmd.PersistentFlags().Int("topK", 0, "number of chunks to retrieve per question")

	// Bind flags to Viper keys (flags override config)
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("style", rootCmd.PersistentFlags().Lookup("style"))
	_ = viper.BindPFlag("topK", rootCmd.PersistentFlags().Lookup("topK"))
}

// getConfig returns the loaded application configuration for other packages.
func getConfig() *appconfig.Config {
	return currentConfig
}

// newSession wires the Wikipedia source, embedding gateway, retriever, and
// chat provider into a ready pipeline session.
func newSession(cfg *appconfig.Config) (*pipeline.Session, *gateway.Provider, error) {
	provider, err := gateway.New(cfg)
	if err != nil {
		return nil, nil, err
	}

	source := wiki.New(cfg)
	embedder := rag.NewEmbedder(provider, cfg.EmbeddingDimensions)
	retriever := rag.NewRetriever(embedder, cfg.TopK)
	session := pipeline.New(source, embedder, retriever, provider, cfg.ChunkSize, cfg.MaxChunks)
	return session, provider, nil
}
