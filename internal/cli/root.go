package cli

import (
	"context"
	"fmt"

	"github.com/egemengol/subtitles/internal/config"
	"github.com/egemengol/subtitles/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "subtitles",
	Short: "Parse, convert and translate WebVTT subtitles",
	Long: `Subtitles is a CLI tool for working with WebVTT subtitle files.

It parses and validates WebVTT documents, converts them to SRT and ASS,
translates cue text with AI providers, and extracts embedded subtitle
streams from video files.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, path, exists, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		logger, err = logging.New(logging.Options{
			Level:   cfg.Logging.Level,
			Verbose: verbose,
		})
		if err != nil {
			return err
		}
		logger.Debugw("Loaded configuration", "path", path, "exists", exists)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the command tree with ctx, which commands use for
// cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file path (default ~/.config/subtitles/config.toml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en, es, fr)")
}
