package cli

import (
	"fmt"
	"strconv"

	"github.com/egemengol/subtitles/internal/media"
	"github.com/egemengol/subtitles/internal/subtitle"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [media_file]",
	Short: "Extract an embedded subtitle stream from a video file",
	Long: `Extract a subtitle stream from a video or audio container with ffmpeg,
parse it as WebVTT and save it in the chosen format.

Without --stream the stream matching --language is used, otherwise the
default stream, otherwise the first one. Image-based subtitles (PGS,
VobSub) cannot be extracted as text.

Examples:
  subtitles extract movie.mkv --list
  subtitles extract movie.mkv
  subtitles extract movie.mkv --stream 2 -f srt -o movie.srt
  subtitles extract movie.mkv -l jpn`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().
		Bool("list", false, "List the subtitle streams and exit")
	extractCmd.Flags().
		IntP("stream", "s", -1, "Subtitle stream number as shown by --list")
	extractCmd.Flags().
		StringP("format", "f", "vtt", "Output subtitle format (srt, vtt, ass)")
	addParseFlags(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := cmd.Context()

	list, _ := cmd.Flags().GetBool("list")
	streamNumber, _ := cmd.Flags().GetInt("stream")
	formatStr, _ := cmd.Flags().GetString("format")
	language, _ := cmd.Flags().GetString("language")
	outputPath, _ := cmd.Flags().GetString("output")

	if !media.IsMediaFile(mediaPath) {
		logger.Warnw("Unrecognized media extension, trying anyway", "path", mediaPath)
	}

	format, err := subtitle.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	paths, err := media.Locate(media.BinaryPaths{
		FFmpeg:  cfg.FFmpeg.FFmpegPath,
		FFprobe: cfg.FFmpeg.FFprobePath,
	})
	if err != nil {
		return err
	}
	logger.Debugw("Using ffmpeg binaries",
		"ffmpeg", paths.FFmpeg,
		"ffprobe", paths.FFprobe,
	)
	extractor := media.NewExtractor(paths)

	streams, err := extractor.ProbeSubtitleStreams(ctx, mediaPath)
	if err != nil {
		return fmt.Errorf("failed to probe media file: %w", err)
	}

	if list {
		return printStreams(cmd, streams)
	}

	var stream media.SubtitleStream
	if streamNumber >= 0 {
		if streamNumber >= len(streams) {
			return fmt.Errorf(
				"subtitle stream %d not found: file has %d subtitle streams",
				streamNumber,
				len(streams),
			)
		}
		stream = streams[streamNumber]
	} else {
		stream, err = media.SelectStream(streams, language)
		if err != nil {
			return fmt.Errorf("%s: %w", mediaPath, err)
		}
	}

	if outputPath == "" {
		outputPath = outputPathFor(mediaPath, format, stream.Language)
	}

	logger.Infow("Extracting subtitles",
		"media", mediaPath,
		"stream", stream.Number,
		"codec", stream.Codec,
		"language", stream.Language,
		"output", outputPath,
	)

	text, err := extractor.ExtractWebVTT(ctx, mediaPath, stream.Number)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	file, err := subtitle.Read(text, parseOptions(cmd))
	if err != nil {
		return fmt.Errorf("ffmpeg produced invalid WebVTT: %w", err)
	}

	if err := file.WriteAs(format, outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subtitles extracted successfully: %s\n", absPath(outputPath))
	fmt.Fprintf(out, "  Cues: %d\n", file.Len())
	fmt.Fprintf(out, "  Stream: %d (%s)\n", stream.Number, stream.Codec)

	return nil
}

func printStreams(cmd *cobra.Command, streams []media.SubtitleStream) error {
	out := cmd.OutOrStdout()
	if len(streams) == 0 {
		_, err := fmt.Fprintln(out, "No subtitle streams found")
		return err
	}

	headers := []string{"#", "INDEX", "CODEC", "LANGUAGE", "TITLE", "FLAGS"}
	rows := make([][]string, 0, len(streams))
	for _, s := range streams {
		flags := ""
		if s.Default {
			flags = "default"
		}
		if s.Forced {
			if flags != "" {
				flags += ","
			}
			flags += "forced"
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Number),
			strconv.Itoa(s.Index),
			s.Codec,
			s.Language,
			s.Title,
			flags,
		})
	}

	if isTerminal(out) {
		_, err := fmt.Fprintln(out, renderTable(
			headers,
			rows,
			[]columnAlignment{alignRight, alignRight},
		))
		return err
	}
	_, err := fmt.Fprint(out, renderTSV(headers, rows))
	return err
}
