// Package webvtt parses WebVTT subtitle text into a header and an ordered
// list of timed cues.
//
// The parser is a small recursive-descent parser built from plain functions
// over an immutable cursor. Every step consumes a prefix of the remaining
// input and returns the advanced cursor, or a *ParseError describing where
// and why nothing matched. Parsing never performs I/O and keeps no shared
// state, so concurrent calls need no synchronization.
package webvtt

import (
	"cmp"
	"fmt"
	"time"
)

// Signature is the literal every WebVTT document starts with.
const Signature = "WEBVTT"

// Document is a parsed WebVTT file.
type Document struct {
	Header string `json:"header"`
	Cues   []Cue  `json:"cues"`
}

// Cue is one timed subtitle entry.
type Cue struct {
	// nil when the block starts directly with its timestamp line
	Identifier *string   `json:"identifier,omitempty"`
	Start      Timestamp `json:"start"`
	End        Timestamp `json:"end"`
	Text       string    `json:"text"`
}

// ID returns the cue identifier, or "" when the cue has none.
func (c Cue) ID() string {
	if c.Identifier == nil {
		return ""
	}
	return *c.Identifier
}

// Duration is End minus Start; negative when the cue runs backwards.
func (c Cue) Duration() time.Duration {
	return c.End.Duration() - c.Start.Duration()
}

// MaxHours is the largest hour value a Timestamp accepts. The full
// timestamp MaxHours:59:59.999 still fits in a time.Duration.
const MaxHours = 2_562_046

// Timestamp is a cue time with millisecond precision.
//
// Hours may run past 23, so a Timestamp behaves like a duration split into
// fields rather than a clock time. NewTimestamp caps them at MaxHours.
type Timestamp struct {
	Hours        int
	Minutes      int
	Seconds      int
	Milliseconds int
}

// NewTimestamp validates the field ranges and builds a Timestamp.
func NewTimestamp(hours, minutes, seconds, millis int) (Timestamp, error) {
	switch {
	case hours < 0 || hours > MaxHours:
		return Timestamp{}, fmt.Errorf("hours %d out of range (0-%d)", hours, MaxHours)
	case minutes < 0 || minutes > 59:
		return Timestamp{}, fmt.Errorf("minutes %d out of range (0-59)", minutes)
	case seconds < 0 || seconds > 59:
		return Timestamp{}, fmt.Errorf("seconds %d out of range (0-59)", seconds)
	case millis < 0 || millis > 999:
		return Timestamp{}, fmt.Errorf("milliseconds %d out of range (0-999)", millis)
	}
	return Timestamp{
		Hours:        hours,
		Minutes:      minutes,
		Seconds:      seconds,
		Milliseconds: millis,
	}, nil
}

// TimestampFromDuration splits a non-negative duration into timestamp
// fields, truncating below a millisecond.
func TimestampFromDuration(d time.Duration) Timestamp {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return Timestamp{
		Hours:        int(ms / 3_600_000),
		Minutes:      int(ms/60_000) % 60,
		Seconds:      int(ms/1000) % 60,
		Milliseconds: int(ms % 1000),
	}
}

func (t Timestamp) Duration() time.Duration {
	return time.Duration(t.Hours)*time.Hour +
		time.Duration(t.Minutes)*time.Minute +
		time.Duration(t.Seconds)*time.Second +
		time.Duration(t.Milliseconds)*time.Millisecond
}

// Compare returns -1, 0 or +1 depending on whether t is before, equal to or
// after other.
func (t Timestamp) Compare(other Timestamp) int {
	if c := cmp.Compare(t.Hours, other.Hours); c != 0 {
		return c
	}
	if c := cmp.Compare(t.Minutes, other.Minutes); c != 0 {
		return c
	}
	if c := cmp.Compare(t.Seconds, other.Seconds); c != 0 {
		return c
	}
	return cmp.Compare(t.Milliseconds, other.Milliseconds)
}

// String formats the timestamp in long form, HH:MM:SS.mmm.
func (t Timestamp) String() string {
	return fmt.Sprintf(
		"%02d:%02d:%02d.%03d",
		t.Hours,
		t.Minutes,
		t.Seconds,
		t.Milliseconds,
	)
}

func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts either timestamp form and rejects trailing bytes.
func (t *Timestamp) UnmarshalText(data []byte) error {
	ts, rest, err := ParseTimestamp(string(data))
	if err != nil {
		return err
	}
	if rest != "" {
		return fmt.Errorf("webvtt: unexpected %q after timestamp", rest)
	}
	*t = ts
	return nil
}
