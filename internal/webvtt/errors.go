package webvtt

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrorKind names the construct the parser expected when it failed.
type ErrorKind int

const (
	MissingSignature ErrorKind = iota + 1
	NoCues
	MissingIdentifierTerminator
	InvalidTimestampLine
	MissingLineBreakAfterTimestamp
	EmptyCueText
	InvalidTimeValue
	MissingArrow
	TrailingInput
)

var (
	ErrMissingSignature               = errors.New("missing WEBVTT signature")
	ErrNoCues                         = errors.New("document has no cues")
	ErrMissingIdentifierTerminator    = errors.New("cue identifier not terminated by a line break")
	ErrInvalidTimestampLine           = errors.New("invalid timestamp line")
	ErrMissingLineBreakAfterTimestamp = errors.New("missing line break after timestamp line")
	ErrEmptyCueText                   = errors.New("cue has no text")
	ErrInvalidTimeValue               = errors.New("timestamp field out of range")
	ErrMissingArrow                   = errors.New("missing --> between timestamps")
	ErrTrailingInput                  = errors.New("unexpected input after last cue")
)

var kindSentinels = map[ErrorKind]error{
	MissingSignature:               ErrMissingSignature,
	NoCues:                         ErrNoCues,
	MissingIdentifierTerminator:    ErrMissingIdentifierTerminator,
	InvalidTimestampLine:           ErrInvalidTimestampLine,
	MissingLineBreakAfterTimestamp: ErrMissingLineBreakAfterTimestamp,
	EmptyCueText:                   ErrEmptyCueText,
	InvalidTimeValue:               ErrInvalidTimeValue,
	MissingArrow:                   ErrMissingArrow,
	TrailingInput:                  ErrTrailingInput,
}

var kindNames = map[ErrorKind]string{
	MissingSignature:               "MissingSignature",
	NoCues:                         "NoCues",
	MissingIdentifierTerminator:    "MissingIdentifierTerminator",
	InvalidTimestampLine:           "InvalidTimestampLine",
	MissingLineBreakAfterTimestamp: "MissingLineBreakAfterTimestamp",
	EmptyCueText:                   "EmptyCueText",
	InvalidTimeValue:               "InvalidTimeValue",
	MissingArrow:                   "MissingArrow",
	TrailingInput:                  "TrailingInput",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError reports where in the input parsing stopped and what was
// expected there. errors.Is matches it against the Err* sentinel of its
// Kind.
type ParseError struct {
	Kind ErrorKind
	// byte offset into the input
	Offset int
	// 1-based line and rune column of Offset
	Line   int
	Column int
	// start of the input at Offset, cut at the end of its line
	Near   string
	Detail string
}

const nearLimit = 24

func newParseError(c cursor, kind ErrorKind, detail string) *ParseError {
	line, col := c.position()
	return &ParseError{
		Kind:   kind,
		Offset: c.pos,
		Line:   line,
		Column: col,
		Near:   excerpt(c.rest()),
		Detail: detail,
	}
}

func (e *ParseError) Error() string {
	msg := kindSentinels[e.Kind]
	if msg == nil {
		msg = errors.New(e.Kind.String())
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("webvtt: %v at line %d, column %d", msg, e.Line, e.Column))
	if e.Near != "" {
		sb.WriteString(fmt.Sprintf(" near %q", e.Near))
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return kindSentinels[e.Kind]
}

// IsKind reports whether err is a *ParseError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == kind
}

func excerpt(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	if len(s) <= nearLimit {
		return s
	}
	cut := nearLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
