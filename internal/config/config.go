package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Parse mirrors webvtt.Options.
type Parse struct {
	ValidateTiming     bool `toml:"validate_timing"`
	RequireFullInput   bool `toml:"require_full_input"`
	StopAtMalformedCue bool `toml:"stop_at_malformed_cue"`
}

// Translate configures the LLM translation providers.
type Translate struct {
	Provider        string `toml:"provider"`
	Model           string `toml:"model"`
	Concurrency     int    `toml:"concurrency"`
	BatchSize       int    `toml:"batch_size"`
	GeminiAPIKey    string `toml:"gemini_api_key"`
	OpenAIAPIKey    string `toml:"openai_api_key"`
	AnthropicAPIKey string `toml:"anthropic_api_key"`
}

// Cache configures the translation memory database.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// FFmpeg holds explicit binary locations. Empty values fall back to the
// environment and then PATH.
type FFmpeg struct {
	FFmpegPath  string `toml:"ffmpeg_path"`
	FFprobePath string `toml:"ffprobe_path"`
}

type Logging struct {
	Level string `toml:"level"`
}

// Config is the top-level configuration file.
type Config struct {
	Parse     Parse     `toml:"parse"`
	Translate Translate `toml:"translate"`
	Cache     Cache     `toml:"cache"`
	FFmpeg    FFmpeg    `toml:"ffmpeg"`
	Logging   Logging   `toml:"logging"`
}

const defaultConfigPath = "~/.config/subtitles/config.toml"

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. A missing file
// is not an error: defaults and environment fallbacks apply. It returns the
// resolved path and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// APIKey returns the configured key for a translation provider.
func (c *Config) APIKey(provider string) string {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gemini":
		return c.Translate.GeminiAPIKey
	case "openai":
		return c.Translate.OpenAIAPIKey
	case "anthropic":
		return c.Translate.AnthropicAPIKey
	default:
		return ""
	}
}

// APIKeyEnv names the environment variable consulted for provider.
func APIKeyEnv(provider string) string {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gemini":
		return "GEMINI_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	default:
		return "API_KEY"
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %q is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
