package cli

import (
	"fmt"
	"time"

	"github.com/egemengol/subtitles/internal/subtitle"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [vtt_file]",
	Short: "Convert a WebVTT file to SRT, ASS or normalized WebVTT",
	Long: `Parse a WebVTT file and write its cues in another subtitle format.

--reflow rewraps long cues to at most --max-chars per line and splits
cues that need more than --max-lines lines or run longer than
--max-duration.

Examples:
  subtitles convert movie.vtt --format srt
  subtitles convert movie.vtt -f ass -o movie.ass
  subtitles convert movie.vtt --reflow --max-chars 32`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		StringP("format", "f", "srt", "Output subtitle format (srt, vtt, ass)")
	convertCmd.Flags().
		Bool("reflow", false, "Rewrap and split long cues")
	convertCmd.Flags().
		Int("max-chars", 42, "Maximum characters per line when reflowing")
	convertCmd.Flags().
		Int("max-lines", 2, "Maximum lines per cue when reflowing")
	convertCmd.Flags().
		Duration("max-duration", 7*time.Second, "Maximum cue duration when reflowing")
	addParseFlags(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	formatStr, _ := cmd.Flags().GetString("format")
	reflow, _ := cmd.Flags().GetBool("reflow")
	maxChars, _ := cmd.Flags().GetInt("max-chars")
	maxLines, _ := cmd.Flags().GetInt("max-lines")
	maxDuration, _ := cmd.Flags().GetDuration("max-duration")
	outputPath, _ := cmd.Flags().GetString("output")

	format, err := subtitle.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	if reflow && (maxChars <= 0 || maxLines <= 0 || maxDuration <= 0) {
		return fmt.Errorf("max-chars, max-lines and max-duration must be positive")
	}

	file, err := openSubtitle(inputPath, parseOptions(cmd))
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = outputPathFor(inputPath, format)
		if outputPath == inputPath {
			outputPath = outputPathFor(inputPath, format, "converted")
		}
	}

	doc := file.Document()
	if reflow {
		reflower := &subtitle.Reflower{
			MaxCharsPerLine: maxChars,
			MaxLinesPerCue:  maxLines,
			MaxDuration:     maxDuration,
		}
		doc = reflower.Reflow(doc)
		logger.Infow("Reflowed cues",
			"before", file.Len(),
			"after", len(doc.Cues),
		)
	}

	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return err
	}

	logger.Infow("Writing output file",
		"output", outputPath,
		"format", format,
	)
	if err := writer.Write(doc, outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subtitles converted successfully: %s\n", absPath(outputPath))
	fmt.Fprintf(out, "  Cues: %d\n", len(doc.Cues))
	fmt.Fprintf(out, "  Format: %s\n", format)
	return nil
}
