package config

import (
	"errors"
	"fmt"

	"github.com/egemengol/subtitles/internal/logging"
)

// Validate ensures the configuration is usable. API keys are not required
// here; only the translate command needs one.
func (c *Config) Validate() error {
	if err := c.validateTranslate(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranslate() error {
	switch c.Translate.Provider {
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf(
			"translate.provider %q is not supported (use gemini, openai, or anthropic)",
			c.Translate.Provider,
		)
	}
	if c.Translate.Concurrency <= 0 {
		return errors.New("translate.concurrency must be positive")
	}
	if c.Translate.BatchSize <= 0 {
		return errors.New("translate.batch_size must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level %q is not supported", c.Logging.Level)
	}
	return nil
}
