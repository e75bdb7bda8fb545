// Package config resolves saturday's settings. Sources are applied in order:
// built-in defaults, the TOML config file, a .env file, the environment, and
// finally command-line flags (bound in package cmd).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultOllamaHost = "http://127.0.0.1:11434"
	DefaultModel      = "gpt-oss:20b"
	DefaultAddr       = ":8080"
	DefaultRelayURL   = "http://localhost:8080"
	DefaultRenderRate = 30

	envOllamaHost = "OLLAMA_HOST"
	envModel      = "OLLAMA_MODEL"
	envAddr       = "SATURDAY_ADDR"
	envRelayURL   = "SATURDAY_RELAY_URL"

	dirName  = ".saturday"
	fileName = "config.toml"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Dev     bool   `toml:"dev"`
	LogPath string `toml:"log_path"`

	Relay  RelayConfig  `toml:"relay"`
	Ollama OllamaConfig `toml:"ollama"`
	Chat   ChatConfig   `toml:"chat"`
}

// RelayConfig is the listening side of the relay.
type RelayConfig struct {
	Addr string `toml:"addr"`
}

// OllamaConfig is the upstream model server the relay forwards to.
type OllamaConfig struct {
	Host  string `toml:"host"`
	Model string `toml:"model"`
}

// ChatConfig drives the chat clients.
type ChatConfig struct {
	RelayURL string `toml:"relay_url"`
	// RenderRate caps TUI redraws per second while a reply streams in.
	RenderRate int `toml:"render_rate"`
	// Options are generation options forwarded verbatim to the model server.
	Options map[string]any `toml:"options"`
}

func Default() *Config {
	return &Config{
		Relay:  RelayConfig{Addr: DefaultAddr},
		Ollama: OllamaConfig{Host: DefaultOllamaHost, Model: DefaultModel},
		Chat:   ChatConfig{RelayURL: DefaultRelayURL, RenderRate: DefaultRenderRate},
	}
}

// DefaultPath returns ~/.saturday/config.toml.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, dirName, fileName)
}

// Load builds a Config from defaults, the TOML file at path (a missing file
// is not an error), .env and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// .env is optional.
	_ = godotenv.Load()
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(envOllamaHost); v != "" {
		c.Ollama.Host = v
	}
	if v := os.Getenv(envModel); v != "" {
		c.Ollama.Model = v
	}
	if v := os.Getenv(envAddr); v != "" {
		c.Relay.Addr = v
	}
	if v := os.Getenv(envRelayURL); v != "" {
		c.Chat.RelayURL = v
	}
}

func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Relay.Addr) == "":
		return fmt.Errorf("%w: relay address is empty", ErrInvalid)
	case strings.TrimSpace(c.Ollama.Host) == "":
		return fmt.Errorf("%w: ollama host is empty", ErrInvalid)
	case strings.TrimSpace(c.Ollama.Model) == "":
		return fmt.Errorf("%w: model is empty", ErrInvalid)
	case strings.TrimSpace(c.Chat.RelayURL) == "":
		return fmt.Errorf("%w: relay url is empty", ErrInvalid)
	case c.Chat.RenderRate <= 0:
		return fmt.Errorf("%w: render rate must be positive", ErrInvalid)
	}
	return nil
}

// GenerationOptions encodes Chat.Options for the request envelope. It
// returns nil when no options are configured so the field is omitted.
func (c *Config) GenerationOptions() (json.RawMessage, error) {
	if len(c.Chat.Options) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(c.Chat.Options)
	if err != nil {
		return nil, fmt.Errorf("encode generation options: %w", err)
	}
	return raw, nil
}
