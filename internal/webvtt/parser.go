package webvtt

import (
	"strconv"
	"strings"
)

// Options tune a Parser. The zero value parses exactly the WebVTT subset
// the package documents and fails on the first malformed cue.
type Options struct {
	// ValidateTiming rejects cues that end before they start and cues whose
	// start goes backwards relative to the previous cue.
	ValidateTiming bool
	// RequireFullInput rejects residual input other than whitespace.
	RequireFullInput bool
	// StopAtMalformedCue keeps the cues parsed so far when a later cue is
	// malformed and returns everything from that cue's separator onward as
	// residual input.
	StopAtMalformedCue bool
}

type Parser struct {
	opts Options
}

func NewParser(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Parse parses a complete document with default options. It returns the
// document and the input the grammar did not consume.
func Parse(input string) (*Document, string, error) {
	return NewParser(Options{}).Parse(input)
}

func (p *Parser) Parse(input string) (*Document, string, error) {
	c, doc, err := p.parseDocument(newCursor(input))
	if err != nil {
		return nil, "", err
	}

	if p.opts.RequireFullInput && !onlySpace(c) {
		return nil, "", newParseError(
			space0(c),
			TrailingInput,
			"input continues after the last cue",
		)
	}

	if p.opts.ValidateTiming {
		if err := ValidateTiming(doc); err != nil {
			return nil, "", err
		}
	}

	return doc, c.rest(), nil
}

// document := "WEBVTT" ws* cue ("\n" cue)*
func (p *Parser) parseDocument(c cursor) (cursor, *Document, error) {
	c, err := literal(c, Signature, MissingSignature)
	if err != nil {
		return c, nil, err
	}

	c = space0(c)
	if c.atEOF() {
		return c, nil, newParseError(c, NoCues, "expected at least one cue after the signature")
	}

	c, first, err := parseCue(c)
	if err != nil {
		return c, nil, err
	}
	cues := []Cue{first}

	for {
		next, err := lineBreak(c, InvalidTimestampLine)
		if err != nil {
			break
		}
		if onlySpace(next) {
			break
		}
		next, cue, err := parseCue(next)
		if err != nil {
			if p.opts.StopAtMalformedCue {
				break
			}
			return next, nil, err
		}
		cues = append(cues, cue)
		c = next
	}

	return c, &Document{Header: Signature, Cues: cues}, nil
}

// ParseCue parses a single cue block at the start of input.
func ParseCue(input string) (Cue, string, error) {
	c, cue, err := parseCue(newCursor(input))
	if err != nil {
		return Cue{}, "", err
	}
	return cue, c.rest(), nil
}

// cue := (identifier "\n")? timestamp_line "\n" text_lines
func parseCue(c cursor) (cursor, Cue, error) {
	var cue Cue

	// A first line that is not a timestamp line is an identifier. If that
	// path fails too, a lookahead error past the start timestamp wins.
	_, _, lookErr := peek[[2]Timestamp](parseTimestampLine)(c)
	preferLook := IsKind(lookErr, InvalidTimeValue) || IsKind(lookErr, MissingArrow)
	if lookErr != nil {
		next, id, err := parseIdentifier(c)
		if err != nil {
			if preferLook {
				return c, cue, lookErr
			}
			return c, cue, err
		}
		cue.Identifier = &id
		c = next
	}

	next, times, err := parseTimestampLine(c)
	if err != nil {
		if preferLook {
			return c, cue, lookErr
		}
		return c, cue, err
	}
	c = next
	cue.Start, cue.End = times[0], times[1]

	c, err = lineBreak(c, MissingLineBreakAfterTimestamp)
	if err != nil {
		return c, cue, err
	}

	c, cue.Text, err = parseCueText(c)
	if err != nil {
		return c, cue, err
	}
	return c, cue, nil
}

// identifier is the whole first line, possibly empty, and must be followed
// by a line break.
func parseIdentifier(c cursor) (cursor, string, error) {
	rest := c.rest()
	end := strings.IndexByte(rest, '\n')
	if end < 0 {
		eof := c.advance(len(rest))
		return eof, "", newParseError(
			eof,
			MissingIdentifierTerminator,
			"expected line break after cue identifier",
		)
	}
	return c.advance(end + 1), strings.TrimSuffix(rest[:end], "\r"), nil
}

// parseCueText collects lines until the next line is blank or input ends.
// The boundary itself is left unconsumed for the document separator.
func parseCueText(c cursor) (cursor, string, error) {
	start := c
	lines := 0
	for !c.atEOF() && lineBreakLen(c) == 0 {
		rest := c.rest()
		end := strings.IndexByte(rest, '\n')
		lines++
		if end < 0 {
			c = c.advance(len(rest))
			break
		}
		c = c.advance(end + 1)
	}
	if lines == 0 {
		return c, "", newParseError(c, EmptyCueText, "expected at least one line of cue text")
	}

	text := start.src[start.pos:c.pos]
	switch {
	case strings.HasSuffix(text, "\r\n"):
		text = text[:len(text)-2]
	case strings.HasSuffix(text, "\n"):
		text = text[:len(text)-1]
	}
	return c, text, nil
}

// ParseTimestampLine parses "start --> end" at the start of input.
func ParseTimestampLine(input string) (Timestamp, Timestamp, string, error) {
	c, times, err := parseTimestampLine(newCursor(input))
	if err != nil {
		return Timestamp{}, Timestamp{}, "", err
	}
	return times[0], times[1], c.rest(), nil
}

// timestamp_line := timestamp ws+ "-->" ws+ timestamp
func parseTimestampLine(c cursor) (cursor, [2]Timestamp, error) {
	var times [2]Timestamp

	c, start, err := parseTimestamp(c)
	if err != nil {
		return c, times, err
	}

	afterStart := c
	c, spaceErr := hspace1(c, InvalidTimestampLine, `before "-->"`)
	c, err = literal(c, "-->", MissingArrow)
	if err != nil {
		return c, times, err
	}
	if spaceErr != nil {
		return afterStart, times, spaceErr
	}

	c, err = hspace1(c, InvalidTimestampLine, `after "-->"`)
	if err != nil {
		return c, times, err
	}

	c, end, err := parseTimestamp(c)
	if err != nil {
		return c, times, err
	}

	times[0], times[1] = start, end
	return c, times, nil
}

// ParseTimestamp parses one timestamp in short (mm:ss.mmm) or long
// (hh:mm:ss.mmm) form at the start of input.
func ParseTimestamp(input string) (Timestamp, string, error) {
	c, ts, err := parseTimestamp(newCursor(input))
	if err != nil {
		return Timestamp{}, "", err
	}
	return ts, c.rest(), nil
}

// short form is tried first
var parseTimestamp = either[Timestamp](parseShortTimestamp, parseLongTimestamp)

// short_time := digits ":" digits "." digits
func parseShortTimestamp(c cursor) (cursor, Timestamp, error) {
	start := c
	fields, c, err := timestampFields(c, ":", ".")
	if err != nil {
		return start, Timestamp{}, err
	}
	return buildTimestamp(start, c, 0, fields[0], fields[1], fields[2])
}

// long_time := digits ":" digits ":" digits "." digits
func parseLongTimestamp(c cursor) (cursor, Timestamp, error) {
	start := c
	fields, c, err := timestampFields(c, ":", ":", ".")
	if err != nil {
		return start, Timestamp{}, err
	}
	return buildTimestamp(start, c, fields[0], fields[1], fields[2], fields[3])
}

// timestampFields reads len(seps)+1 numbers with the given separators
// between them.
func timestampFields(c cursor, seps ...string) ([]uint64, cursor, error) {
	fields := make([]uint64, 0, len(seps)+1)
	for i := 0; ; i++ {
		fieldStart := c
		next, raw, err := digits(c, InvalidTimestampLine)
		if err != nil {
			return nil, c, err
		}
		v, convErr := strconv.ParseUint(raw, 10, 32)
		if convErr != nil {
			return nil, c, newParseError(fieldStart, InvalidTimeValue, "number "+raw+" too large")
		}
		fields = append(fields, v)
		c = next
		if i == len(seps) {
			return fields, c, nil
		}
		c, err = literal(c, seps[i], InvalidTimestampLine)
		if err != nil {
			return nil, c, err
		}
	}
}

func buildTimestamp(start, end cursor, h, m, s, ms uint64) (cursor, Timestamp, error) {
	ts, err := NewTimestamp(int(h), int(m), int(s), int(ms))
	if err != nil {
		return start, Timestamp{}, newParseError(start, InvalidTimeValue, err.Error())
	}
	return end, ts, nil
}
