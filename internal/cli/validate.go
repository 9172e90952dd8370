package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [vtt_file]",
	Short: "Check that a WebVTT file is well formed",
	Long: `Parse a WebVTT file strictly and report the first problem found.

By default the whole file must parse and cue timings must be ordered.
The exit status is non-zero when the file is invalid.

Examples:
  subtitles validate movie.vtt
  subtitles validate movie.vtt --skip-timing`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().
		Bool("skip-timing", false, "Do not check cue timing order")
	validateCmd.Flags().
		Bool("allow-trailing", false, "Accept unparsed input after the last cue")
}

func runValidate(cmd *cobra.Command, args []string) error {
	skipTiming, _ := cmd.Flags().GetBool("skip-timing")
	allowTrailing, _ := cmd.Flags().GetBool("allow-trailing")

	opts := parseOptions(cmd)
	opts.ValidateTiming = !skipTiming
	opts.RequireFullInput = !allowTrailing
	opts.StopAtMalformedCue = false

	file, err := openSubtitle(args[0], opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: OK (%d cues)\n", args[0], file.Len())
	return nil
}
