// internal/cli/styles.go
package wikirag

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/mwiater/wikirag/internal/prompt"
	"github.com/spf13/cobra"
)

var styleName = color.New(color.FgMagenta, color.Bold).SprintFunc()

// stylesCmd lists the available answer styles.
var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List available answer styles",
	Long:  `The 'styles' command lists the answer styles that can be selected with --style or in the chat UI.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Available answer styles:")
		fmt.Fprintln(out)
		for _, name := range prompt.Styles() {
			fmt.Fprintf(out, "  %s\n      %s\n", styleName(name), prompt.Describe(name))
		}
	},
}

func init() {
	rootCmd.AddCommand(stylesCmd)
}
