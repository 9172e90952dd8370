// Package media reads subtitle streams embedded in audio and video
// containers through ffprobe and ffmpeg.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// SubtitleStream describes one subtitle track of a container. Number is the
// position among subtitle streams and is what ExtractWebVTT takes.
type SubtitleStream struct {
	Number   int
	Index    int // absolute stream index in the container
	Codec    string
	Language string
	Title    string
	Default  bool
	Forced   bool
}

// ErrNoSubtitleStreams is returned when a container carries no subtitles.
var ErrNoSubtitleStreams = errors.New("no subtitle streams")

// JSON output from ffprobe
type ffprobeOutput struct {
	Streams []struct {
		Index       int               `json:"index"`
		CodecName   string            `json:"codec_name"`
		CodecType   string            `json:"codec_type"`
		Tags        map[string]string `json:"tags"`
		Disposition map[string]int    `json:"disposition"`
	} `json:"streams"`
}

type Extractor struct {
	paths BinaryPaths
}

func NewExtractor(paths BinaryPaths) *Extractor {
	return &Extractor{paths: paths}
}

// ProbeSubtitleStreams lists the subtitle streams of a media file in
// container order.
func (e *Extractor) ProbeSubtitleStreams(
	ctx context.Context,
	path string,
) ([]SubtitleStream, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("media file not found: %s", path)
	}

	cmd := exec.CommandContext(ctx, e.paths.FFprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		path,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbeOutput(out.Bytes())
}

func parseProbeOutput(data []byte) ([]SubtitleStream, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	var streams []SubtitleStream
	for _, s := range probe.Streams {
		if s.CodecType != "subtitle" {
			continue
		}
		streams = append(streams, SubtitleStream{
			Number:   len(streams),
			Index:    s.Index,
			Codec:    s.CodecName,
			Language: s.Tags["language"],
			Title:    s.Tags["title"],
			Default:  s.Disposition["default"] == 1,
			Forced:   s.Disposition["forced"] == 1,
		})
	}
	return streams, nil
}

// SelectStream picks the stream to extract. An empty language selects the
// default stream, or the first one when none is marked default.
func SelectStream(streams []SubtitleStream, language string) (SubtitleStream, error) {
	if len(streams) == 0 {
		return SubtitleStream{}, ErrNoSubtitleStreams
	}

	language = strings.TrimSpace(language)
	if language == "" {
		for _, s := range streams {
			if s.Default {
				return s, nil
			}
		}
		return streams[0], nil
	}

	for _, s := range streams {
		if strings.EqualFold(s.Language, language) {
			return s, nil
		}
	}
	return SubtitleStream{}, fmt.Errorf("no subtitle stream with language %q", language)
}

// ExtractWebVTT converts subtitle stream number n of a media file to WebVTT
// text. Image-based subtitle codecs cannot be converted and make ffmpeg fail.
func (e *Extractor) ExtractWebVTT(
	ctx context.Context,
	path string,
	n int,
) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("media file not found: %s", path)
	}
	if n < 0 {
		return "", fmt.Errorf("subtitle stream must be non-negative, got %d", n)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	compiled := ffmpeg.Input(path).
		Output("pipe:", ffmpeg.KwArgs{
			"map": fmt.Sprintf("0:s:%d", n),
			"f":   "webvtt",
		}).
		GlobalArgs("-nostdin", "-loglevel", "error").
		SetFfmpegPath(e.paths.FFmpeg).
		Compile()

	// Rebuilt so cancelling ctx kills ffmpeg.
	var out, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.paths.FFmpeg, compiled.Args[1:]...)
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("ffmpeg extraction cancelled: %w", ctxErr)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("ffmpeg extraction failed: %w: %s", err, msg)
		}
		return "", fmt.Errorf("ffmpeg extraction failed: %w", err)
	}

	return out.String(), nil
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".avi":  true,
		".mov":  true,
		".webm": true,
		".m4v":  true,
		".ts":   true,
		".m2ts": true,
		".mpeg": true,
		".mpg":  true,
	}
	return videoExts[ext]
}

// checks if the file is an audio container that may carry lyrics or captions
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	audioExts := map[string]bool{
		".mka": true,
		".m4a": true,
		".ogg": true,
	}
	return audioExts[ext]
}

// checks if the file is either audio or video
func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}
