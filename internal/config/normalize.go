package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeTranslate()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	if err := c.normalizeFFmpeg(); err != nil {
		return err
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

func (c *Config) normalizeTranslate() {
	c.Translate.Provider = strings.ToLower(strings.TrimSpace(c.Translate.Provider))
	if c.Translate.Provider == "" {
		c.Translate.Provider = defaultProvider
	}
	c.Translate.Model = strings.TrimSpace(c.Translate.Model)

	envFallback(&c.Translate.GeminiAPIKey, "GEMINI_API_KEY")
	envFallback(&c.Translate.OpenAIAPIKey, "OPENAI_API_KEY")
	envFallback(&c.Translate.AnthropicAPIKey, "ANTHROPIC_API_KEY")
}

func envFallback(target *string, name string) {
	*target = strings.TrimSpace(*target)
	if *target != "" {
		return
	}
	if value, ok := os.LookupEnv(name); ok {
		*target = strings.TrimSpace(value)
	}
}

func (c *Config) normalizeCache() error {
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath()
	}
	var err error
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	return nil
}

// bare binary names are left for PATH lookup
func (c *Config) normalizeFFmpeg() error {
	var err error
	if c.FFmpeg.FFmpegPath, err = expandBinary(c.FFmpeg.FFmpegPath); err != nil {
		return fmt.Errorf("ffmpeg.ffmpeg_path: %w", err)
	}
	if c.FFmpeg.FFprobePath, err = expandBinary(c.FFmpeg.FFprobePath); err != nil {
		return fmt.Errorf("ffmpeg.ffprobe_path: %w", err)
	}
	return nil
}

func expandBinary(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" || !strings.ContainsAny(value, `/\~`) {
		return value, nil
	}
	return expandPath(value)
}
