package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultProvider    = "gemini"
	defaultConcurrency = 3
	defaultBatchSize   = 50
	defaultLogLevel    = "info"
)

// Default returns a Config populated with default values.
func Default() Config {
	return Config{
		Translate: Translate{
			Provider:    defaultProvider,
			Concurrency: defaultConcurrency,
			BatchSize:   defaultBatchSize,
		},
		Cache: Cache{
			Enabled: true,
			Path:    defaultCachePath(),
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}

func defaultCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "subtitles", "translations.db")
	}
	return "~/.cache/subtitles/translations.db"
}
