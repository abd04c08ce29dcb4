// internal/cli/chat_test.go
package wikirag

import (
	"bytes"
	"context"
	"testing"

	"github.com/mwiater/wikirag/internal/appconfig"
	"github.com/mwiater/wikirag/internal/pipeline"
)

// TestChatCmd tests the functionality of the chat command. It ensures that the
// command builds a pipeline session from the loaded configuration and invokes
// the interactive UI with it. The gateway credentials are stubbed so provider
// construction succeeds without reaching a live endpoint.
func TestChatCmd(t *testing.T) {
	cfg := appconfig.Defaults()
	cfg.GatewayToken = "test-token"
	cfg.GatewayBaseURL = "http://localhost:9"

	originalConfig := currentConfig
	originalStartGUI := startGUI
	defer func() {
		currentConfig = originalConfig
		startGUI = originalStartGUI
	}()
	currentConfig = &cfg

	b := new(bytes.Buffer)
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)

	startCalled := false
	var receivedCfg *appconfig.Config
	var receivedSession *pipeline.Session
	startGUI = func(ctx context.Context, cfg *appconfig.Config, session *pipeline.Session, cancel context.CancelFunc) {
		startCalled = true
		receivedCfg = cfg
		receivedSession = session
		cancel()
	}

	chatCmd.Run(chatCmd, []string{})

	if !startCalled {
		t.Fatal("expected startGUI to be invoked")
	}
	if receivedCfg != getConfig() {
		t.Fatal("expected startGUI to receive the loaded configuration")
	}
	if receivedSession == nil {
		t.Fatal("expected startGUI to receive an initialized session")
	}
}
