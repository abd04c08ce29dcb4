package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		fallback := Defaults()
		cfg = &fallback
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:                %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Style:                %s\n", cfg.Style)
	fmt.Fprintf(out, "  Chat Model:           %s\n", cfg.ChatModel)
	fmt.Fprintf(out, "  Embedding Model:      %s\n", cfg.EmbeddingModel)
	fmt.Fprintf(out, "  Embedding Dimensions: %d\n", cfg.EmbeddingDimensions)
	fmt.Fprintf(out, "  Chunk Size:           %d\n", cfg.ChunkSize)
	fmt.Fprintf(out, "  Max Chunks:           %d\n", cfg.MaxChunks)
	fmt.Fprintf(out, "  Top K:                %d\n", cfg.TopK)
	fmt.Fprintf(out, "  Temperature:          %.2f\n", cfg.Temperature)
	fmt.Fprintf(out, "  Request Timeout:      %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Wikipedia API:        %s\n", cfg.WikiBaseURL)
	fmt.Fprintf(out, "  Log File:             %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Gateway Configured:   %v\n", cfg.HasGateway())
}
