package webvtt

import (
	"io"
	"strings"
)

// Render formats doc as WebVTT text in long timestamp form.
//
// Parsing the result yields doc again as long as every cue has text without
// empty lines, no identifier reads as a timestamp line, and the first cue's
// identifier is not empty (the whitespace after the signature swallows it).
func Render(doc *Document) string {
	var sb strings.Builder

	sb.WriteString(Signature)
	sb.WriteString("\n\n")

	for i, cue := range doc.Cues {
		if i > 0 {
			sb.WriteString("\n")
		}

		// optional cue identifier
		if cue.Identifier != nil {
			sb.WriteString(*cue.Identifier)
			sb.WriteString("\n")
		}

		// timestamps: 00:00:00.000 --> 00:00:00.000
		sb.WriteString(cue.Start.String())
		sb.WriteString(" --> ")
		sb.WriteString(cue.End.String())
		sb.WriteString("\n")

		sb.WriteString(cue.Text)
		sb.WriteString("\n")
	}

	return sb.String()
}

// WriteTo writes the rendered document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, Render(d))
	return int64(n), err
}

// Clone returns a deep copy, so callers can edit cue text without touching
// the parsed original.
func (d *Document) Clone() *Document {
	out := &Document{Header: d.Header, Cues: make([]Cue, len(d.Cues))}
	for i, cue := range d.Cues {
		if cue.Identifier != nil {
			id := *cue.Identifier
			cue.Identifier = &id
		}
		out.Cues[i] = cue
	}
	return out
}
