package subtitle

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/egemengol/subtitles/internal/webvtt"
)

// Reflower rewraps cue text and splits cues that are too long to read.
type Reflower struct {
	MaxCharsPerLine int
	MaxLinesPerCue  int
	MaxDuration     time.Duration
}

func NewReflower() *Reflower {
	return &Reflower{
		MaxCharsPerLine: 42, // Standard subtitle line length
		MaxLinesPerCue:  2,  // Most players support 2 lines
		MaxDuration:     7 * time.Second,
	}
}

// Reflow returns a new document; doc is not modified. Split cues keep the
// original identifier on the first part and number the rest "<id>-2",
// "<id>-3" and so on.
func (r *Reflower) Reflow(doc *webvtt.Document) *webvtt.Document {
	out := &webvtt.Document{Header: doc.Header}

	for _, cue := range doc.Clone().Cues {
		text := strings.Join(strings.Fields(cue.Text), " ")
		if text == "" {
			out.Cues = append(out.Cues, cue)
			continue
		}

		if r.needsSplit(text, cue.Duration()) {
			out.Cues = append(out.Cues, r.splitCue(cue, text)...)
			continue
		}

		cue.Text = r.formatText(text)
		out.Cues = append(out.Cues, cue)
	}

	return out
}

func (r *Reflower) needsSplit(text string, duration time.Duration) bool {
	// if text is too long, split
	if utf8.RuneCountInString(text) > r.MaxCharsPerLine*r.MaxLinesPerCue {
		return true
	}

	// if duration is too long, split
	if r.MaxDuration > 0 && duration > r.MaxDuration {
		return true
	}

	return false
}

// splits a long cue into consecutive cues covering the same time span
func (r *Reflower) splitCue(cue webvtt.Cue, text string) []webvtt.Cue {
	words := strings.Fields(text)
	start := cue.Start.Duration()
	totalDuration := max(cue.Duration(), 0)

	// approximate characters per cue
	maxChars := r.MaxCharsPerLine * r.MaxLinesPerCue
	totalChars := utf8.RuneCountInString(text)

	// estimate of splits needed
	numSplits := max((totalChars+maxChars-1)/maxChars, 1)
	if r.MaxDuration > 0 {
		numSplits = max(numSplits, int(totalDuration/r.MaxDuration)+1)
	}
	numSplits = min(numSplits, len(words))

	// distribute words across splits
	wordsPerSplit := (len(words) + numSplits - 1) / numSplits
	durationPerSplit := totalDuration / time.Duration(numSplits)

	var cues []webvtt.Cue
	currentStart := start

	for i := 0; len(words) > 0; i++ {
		endIdx := min(wordsPerSplit, len(words))
		splitWords := words[:endIdx]
		words = words[endIdx:]

		currentEnd := currentStart + durationPerSplit
		// last split ends at the original end time
		if len(words) == 0 {
			currentEnd = cue.End.Duration()
		}

		part := webvtt.Cue{
			Start: webvtt.TimestampFromDuration(currentStart),
			End:   webvtt.TimestampFromDuration(currentEnd),
			Text:  r.formatText(strings.Join(splitWords, " ")),
		}
		if cue.Identifier != nil {
			id := *cue.Identifier
			if i > 0 {
				id = fmt.Sprintf("%s-%d", id, i+1)
			}
			part.Identifier = &id
		}
		cues = append(cues, part)

		currentStart = currentEnd
	}

	return cues
}

// formatText wraps text onto two lines at the space closest to the middle
func (r *Reflower) formatText(text string) string {
	text = strings.TrimSpace(text)
	runeCount := utf8.RuneCountInString(text)

	// if text fits on one line, return as is
	if runeCount <= r.MaxCharsPerLine {
		return text
	}

	words := strings.Fields(text)
	if len(words) < 2 {
		return text
	}

	middle := runeCount / 2
	bestSplit := 0
	bestDiff := runeCount

	currentLen := 0
	for i, word := range words[:len(words)-1] {
		currentLen += utf8.RuneCountInString(word)
		if i > 0 {
			currentLen++ // space
		}

		diff := abs(currentLen - middle)
		if diff < bestDiff {
			bestDiff = diff
			bestSplit = i + 1
		}
	}

	if bestSplit > 0 && bestSplit < len(words) {
		line1 := strings.Join(words[:bestSplit], " ")
		line2 := strings.Join(words[bestSplit:], " ")
		return line1 + "\n" + line2
	}

	return text
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
