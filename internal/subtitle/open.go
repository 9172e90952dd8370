package subtitle

import (
	"fmt"
	"os"
	"strings"

	"github.com/egemengol/subtitles/internal/webvtt"
)

// VTTFile is a parsed WebVTT file whose cue text can be edited and written
// back out in any supported format.
type VTTFile struct {
	path     string
	doc      *webvtt.Document
	residual string
}

// Open reads and parses the WebVTT file at path.
func Open(path string, opts webvtt.Options) (*VTTFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open VTT file: %w", err)
	}
	file, err := Read(string(data), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	file.path = path
	return file, nil
}

// Read parses WebVTT text that did not come from a file, such as ffmpeg
// output. A leading byte order mark is ignored.
func Read(content string, opts webvtt.Options) (*VTTFile, error) {
	content = strings.TrimPrefix(content, "\ufeff")

	doc, residual, err := webvtt.NewParser(opts).Parse(content)
	if err != nil {
		return nil, err
	}
	return &VTTFile{doc: doc, residual: residual}, nil
}

func (f *VTTFile) Format() Format {
	return FormatVTT
}

// Path is empty for files built with Read.
func (f *VTTFile) Path() string {
	return f.path
}

func (f *VTTFile) Document() *webvtt.Document {
	return f.doc
}

// Residual is the input the parser left unconsumed after the last cue.
func (f *VTTFile) Residual() string {
	return f.residual
}

func (f *VTTFile) Len() int {
	return len(f.doc.Cues)
}

func (f *VTTFile) SetText(index int, text string) error {
	if index < 0 || index >= len(f.doc.Cues) {
		return fmt.Errorf(
			"index %d out of range (0-%d)",
			index,
			len(f.doc.Cues)-1,
		)
	}
	f.doc.Cues[index].Text = text
	return nil
}

// Write saves the document as WebVTT.
func (f *VTTFile) Write(path string) error {
	return f.WriteAs(FormatVTT, path)
}

func (f *VTTFile) WriteAs(format Format, path string) error {
	writer, err := NewWriter(format)
	if err != nil {
		return err
	}
	return writer.Write(f.doc, path)
}
