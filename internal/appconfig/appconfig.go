// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.json"
	// defaultRequestTimeout is the default timeout for HTTP requests.
	defaultRequestTimeout = 120 * time.Second

	// DefaultChunkSize is the maximum chunk length in characters.
	DefaultChunkSize = 800
	// DefaultMaxChunks caps how many chunks are produced per document.
	DefaultMaxChunks = 10
	// DefaultTopK is how many chunks are retrieved per question.
	DefaultTopK = 3
	// DefaultDimensions is the embedding vector width.
	DefaultDimensions = 1536

	defaultChatModel      = "gpt-3.5-turbo"
	defaultEmbeddingModel = "text-embedding-ada-002"
	defaultTemperature    = 0.3
	defaultStyle          = "default"
	defaultWikiBaseURL    = "https://en.wikipedia.org/w/api.php"

	// envGatewayToken and envGatewayBaseURL name the API gateway credentials
	// in the environment (or a .env file).
	envGatewayToken   = "KONG_API_TOKEN"
	envGatewayBaseURL = "KONG_BASE_URL"
)

// Config represents the top-level application configuration.
type Config struct {
	Debug               bool    `json:"debug"`
	Style               string  `json:"style,omitempty"`
	ChatModel           string  `json:"chatModel,omitempty"`
	EmbeddingModel      string  `json:"embeddingModel,omitempty"`
	EmbeddingDimensions int     `json:"embeddingDimensions,omitempty"`
	ChunkSize           int     `json:"chunkSize,omitempty"`
	MaxChunks           int     `json:"maxChunks,omitempty"`
	TopK                int     `json:"topK,omitempty"`
	Temperature         float64 `json:"temperature,omitempty"`
	TimeoutSeconds      int     `json:"timeout,omitempty"`
	WikiBaseURL         string  `json:"wikiBaseURL,omitempty"`
	LogFile             string  `json:"logFile,omitempty"`

	// Gateway credentials come from the environment, never the config file.
	GatewayToken   string `json:"-"`
	GatewayBaseURL string `json:"-"`
	ConfigPath     string `json:"-"`

	// StyleSet records whether the style came from the config file or a
	// flag rather than the built-in default. The chat UI skips the style
	// selector only for an explicitly chosen style.
	StyleSet bool `json:"-"`
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "wikirag.log"
}

// HasGateway reports whether both gateway credentials are present.
func (c Config) HasGateway() bool {
	return strings.TrimSpace(c.GatewayToken) != "" && strings.TrimSpace(c.GatewayBaseURL) != ""
}

// Defaults returns a configuration with every field at its default value.
func Defaults() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Style) == "" {
		c.Style = defaultStyle
	} else {
		c.StyleSet = true
	}
	if strings.TrimSpace(c.ChatModel) == "" {
		c.ChatModel = defaultChatModel
	}
	if strings.TrimSpace(c.EmbeddingModel) == "" {
		c.EmbeddingModel = defaultEmbeddingModel
	}
	if c.EmbeddingDimensions <= 0 {
		c.EmbeddingDimensions = DefaultDimensions
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.MaxChunks <= 0 {
		c.MaxChunks = DefaultMaxChunks
	}
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	if c.Temperature <= 0 {
		c.Temperature = defaultTemperature
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}
	if strings.TrimSpace(c.WikiBaseURL) == "" {
		c.WikiBaseURL = defaultWikiBaseURL
	}
}

// Load reads the application configuration from the specified path, with
// fallback to a legacy path, and resolves gateway credentials from the
// environment (a .env file is honored when present). A missing config file
// at the default path is not an error; defaults apply.
func Load(path string) (Config, error) {
	// Credentials may live in a .env file, as in the original deployment.
	_ = godotenv.Load()

	explicit := path != ""
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		config.readEnv()
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if explicit {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		config, legacyErr := loadFromPath(legacyConfigPath)
		if legacyErr == nil {
			config.ConfigPath = legacyConfigPath
			config.readEnv()
			return config, nil
		}
		if errors.Is(legacyErr, os.ErrNotExist) {
			config = Defaults()
			config.readEnv()
			return config, nil
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

func (c *Config) readEnv() {
	c.GatewayToken = os.Getenv(envGatewayToken)
	c.GatewayBaseURL = os.Getenv(envGatewayBaseURL)
}

// loadFromPath is a helper function that loads and validates the
// configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	if err := validateRaw(raw); err != nil {
		return Config{}, fmt.Errorf("config file %q is invalid: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(raw, &config); err != nil {
		return Config{}, err
	}
	config.applyDefaults()

	return config, nil
}
