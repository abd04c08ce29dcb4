// internal/cli/show_config.go
package wikirag

import (
	"github.com/k0kubun/pp"
	"github.com/mwiater/wikirag/internal/appconfig"
	"github.com/spf13/cobra"
)

// showConfigCmd prints the merged configuration after flags are applied.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config is loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()

		var file string
		if cfg != nil {
			file = cfg.ConfigPath
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), file, cfg)

		if cfg != nil && cfg.Debug {
			pp.Println(cfg)
		}
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
