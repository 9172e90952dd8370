package subtitle

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/egemengol/subtitles/internal/webvtt"
)

// represents supported output formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatASS Format = "ass"
)

// interface for writing parsed cues in a target format
type Writer interface {
	Encode(doc *webvtt.Document) string
	Write(doc *webvtt.Document, path string) error
}

// ParseFormat accepts a format name or file extension, with or without the
// leading dot.
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".") {
	case "srt":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	case "ass", "ssa":
		return FormatASS, nil
	default:
		return "", fmt.Errorf("unsupported subtitle format %q: use vtt, srt, or ass", name)
	}
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) Format {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return FormatVTT
	}
	return format
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatSRT:
		return ".srt"
	case FormatASS:
		return ".ass"
	default:
		return ".vtt"
	}
}
