package webvtt

import (
	"errors"
	"fmt"
)

var ErrInvalidTiming = errors.New("invalid cue timing")

// TimingError describes a cue whose times are individually valid but
// inconsistent with each other or with the previous cue.
type TimingError struct {
	// 0-based position in Document.Cues
	Index  int
	Cue    Cue
	Reason string
}

func (e *TimingError) Error() string {
	if id := e.Cue.ID(); id != "" {
		return fmt.Sprintf("webvtt: cue %d (%s): %s", e.Index+1, id, e.Reason)
	}
	return fmt.Sprintf("webvtt: cue %d: %s", e.Index+1, e.Reason)
}

func (e *TimingError) Unwrap() error {
	return ErrInvalidTiming
}

// ValidateTiming checks that every cue ends no earlier than it starts and
// that start times never go backwards. All violations are joined into the
// returned error.
func ValidateTiming(doc *Document) error {
	if doc == nil {
		return nil
	}
	var errs []error
	for i, cue := range doc.Cues {
		if cue.End.Compare(cue.Start) < 0 {
			errs = append(errs, &TimingError{
				Index:  i,
				Cue:    cue,
				Reason: fmt.Sprintf("ends at %s before it starts at %s", cue.End, cue.Start),
			})
		}
		if i > 0 && cue.Start.Compare(doc.Cues[i-1].Start) < 0 {
			errs = append(errs, &TimingError{
				Index: i,
				Cue:   cue,
				Reason: fmt.Sprintf(
					"starts at %s, before the previous cue's start %s",
					cue.Start,
					doc.Cues[i-1].Start,
				),
			})
		}
	}
	return errors.Join(errs...)
}
