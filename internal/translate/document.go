package translate

import (
	"strings"

	"github.com/egemengol/subtitles/internal/webvtt"
)

// ItemsFromDocument returns one item per cue, indexed by cue position.
// Cues whose text is only whitespace have nothing to translate and are
// skipped.
func ItemsFromDocument(doc *webvtt.Document) []TranslationItem {
	items := make([]TranslationItem, 0, len(doc.Cues))
	for i, cue := range doc.Cues {
		if strings.TrimSpace(cue.Text) == "" {
			continue
		}
		items = append(items, TranslationItem{
			Index: i,
			Text:  cue.Text,
		})
	}
	return items
}

// ApplyToDocument writes translated text into doc. With overlay the
// translation goes first and the original stays on the following lines.
// Blank lines are dropped from the translation so the cue block stays
// intact. Results whose index does not name a cue, or whose text is blank,
// are returned unapplied.
func ApplyToDocument(
	doc *webvtt.Document,
	results []TranslationResult,
	overlay bool,
) []TranslationResult {
	var skipped []TranslationResult
	for _, result := range results {
		if result.Index < 0 || result.Index >= len(doc.Cues) {
			skipped = append(skipped, result)
			continue
		}

		text := dropBlankLines(result.Text)
		if text == "" {
			skipped = append(skipped, result)
			continue
		}

		cue := &doc.Cues[result.Index]
		if overlay {
			// translated + newline + original
			cue.Text = text + "\n" + cue.Text
		} else {
			cue.Text = text
		}
	}
	return skipped
}

func dropBlankLines(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
