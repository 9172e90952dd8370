package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/egemengol/subtitles/internal/subtitle"
	"github.com/egemengol/subtitles/internal/webvtt"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func addParseFlags(cmd *cobra.Command) {
	cmd.Flags().
		Bool("validate-timing", false, "Reject cues that end before they start or start before the previous cue")
	cmd.Flags().
		Bool("require-full-input", false, "Fail when input remains after the last cue")
	cmd.Flags().
		Bool("stop-at-malformed", false, "Keep the cues before the first malformed cue instead of failing")
}

// parseOptions starts from the [parse] config section and applies any
// parse flag the user set explicitly.
func parseOptions(cmd *cobra.Command) webvtt.Options {
	var opts webvtt.Options
	if cfg != nil {
		opts = webvtt.Options{
			ValidateTiming:     cfg.Parse.ValidateTiming,
			RequireFullInput:   cfg.Parse.RequireFullInput,
			StopAtMalformedCue: cfg.Parse.StopAtMalformedCue,
		}
	}

	flags := cmd.Flags()
	if flags.Changed("validate-timing") {
		opts.ValidateTiming, _ = flags.GetBool("validate-timing")
	}
	if flags.Changed("require-full-input") {
		opts.RequireFullInput, _ = flags.GetBool("require-full-input")
	}
	if flags.Changed("stop-at-malformed") {
		opts.StopAtMalformedCue, _ = flags.GetBool("stop-at-malformed")
	}
	return opts
}

func openSubtitle(path string, opts webvtt.Options) (*subtitle.VTTFile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("subtitle file not found: %s", path)
	}

	file, err := subtitle.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subtitle file: %w", err)
	}

	if residual := file.Residual(); strings.TrimSpace(residual) != "" {
		logger.Warnw("Input left unparsed after the last cue",
			"path", path,
			"bytes", len(residual),
		)
	}
	logger.Debugw("Parsed subtitle file",
		"path", path,
		"cues", file.Len(),
	)
	return file, nil
}

// outputPathFor derives an output path next to the input, inserting each
// non-empty tag before the extension: movie.vtt -> movie.ja.srt.
func outputPathFor(inputPath string, format subtitle.Format, tags ...string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			base += "." + tag
		}
	}
	return base + subtitle.GetExtensionForFormat(format)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
