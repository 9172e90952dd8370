package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/egemengol/subtitles/internal/webvtt"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format, cue identifiers preserved
type VTTWriter struct{}

// Advanced SubStation Alpha format
type ASSWriter struct {
	Title    string
	FontName string
	FontSize int
}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	case FormatASS:
		return &ASSWriter{
			Title:    "Converted Subtitles",
			FontName: "Arial",
			FontSize: 20,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func (w *SRTWriter) Encode(doc *webvtt.Document) string {
	var sb strings.Builder
	for i, cue := range doc.Cues {
		// index (1-based)
		sb.WriteString(fmt.Sprintf("%d\n", i+1))

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatSRTTime(cue.Start.Duration()),
			formatSRTTime(cue.End.Duration())))

		sb.WriteString(normalizeNewlines(cue.Text))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// writes the cues to an SRT file
func (w *SRTWriter) Write(doc *webvtt.Document, path string) error {
	return writeFile(path, w.Encode(doc))
}

func (w *VTTWriter) Encode(doc *webvtt.Document) string {
	return webvtt.Render(doc)
}

// writes the document to a VTT file
func (w *VTTWriter) Write(doc *webvtt.Document, path string) error {
	return writeFile(path, w.Encode(doc))
}

func (w *ASSWriter) Encode(doc *webvtt.Document) string {
	var sb strings.Builder

	// script info section
	sb.WriteString("[Script Info]\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", w.Title))
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString("Collisions: Normal\n")
	sb.WriteString("PlayDepth: 0\n\n")

	// v4+ styles section
	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	sb.WriteString(fmt.Sprintf("Style: Default,%s,%d,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1\n\n",
		w.FontName, w.FontSize))

	// events section
	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, cue := range doc.Cues {
		sb.WriteString(fmt.Sprintf("Dialogue: 0,%s,%s,Default,%s,0,0,0,,%s\n",
			formatASSTime(cue.Start.Duration()),
			formatASSTime(cue.End.Duration()),
			escapeASSField(cue.ID()),
			escapeASSText(cue.Text)))
	}

	return sb.String()
}

// writes the cues to an ASS file
func (w *ASSWriter) Write(doc *webvtt.Document, path string) error {
	return writeFile(path, w.Encode(doc))
}

func formatSRTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

func formatASSTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	centis := (int(d.Milliseconds()) % 1000) / 10

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}

func normalizeNewlines(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

func escapeASSText(text string) string {
	return strings.ReplaceAll(normalizeNewlines(text), "\n", "\\N")
}

// the Name column is comma separated like every other field
func escapeASSField(text string) string {
	return strings.ReplaceAll(text, ",", ";")
}

func writeFile(path, content string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
