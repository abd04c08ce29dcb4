// internal/cli/show_config_test.go
package wikirag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mwiater/wikirag/internal/appconfig"
	"github.com/mwiater/wikirag/internal/prompt"
)

// TestShowConfigCmd verifies that 'show config' prints the merged configuration.
func TestShowConfigCmd(t *testing.T) {
	cfg := appconfig.Defaults()
	cfg.ChatModel = "test-model"
	cfg.ConfigPath = "config/config.json"

	originalConfig := currentConfig
	defer func() { currentConfig = originalConfig }()
	currentConfig = &cfg

	b := new(bytes.Buffer)
	showConfigCmd.SetOut(b)
	showConfigCmd.SetErr(b)

	showConfigCmd.Run(showConfigCmd, []string{})

	out := b.String()
	if !strings.Contains(out, "Config file: config/config.json") {
		t.Fatalf("expected config file path in output; got: %s", out)
	}
	if !strings.Contains(out, "test-model") {
		t.Fatalf("expected chat model in output; got: %s", out)
	}
}

// TestStylesCmd verifies that every answer style is listed.
func TestStylesCmd(t *testing.T) {
	b := new(bytes.Buffer)
	stylesCmd.SetOut(b)
	stylesCmd.SetErr(b)

	stylesCmd.Run(stylesCmd, []string{})

	out := b.String()
	for _, name := range prompt.Styles() {
		if !strings.Contains(out, name) {
			t.Fatalf("expected style %q in output; got: %s", name, out)
		}
	}
}
