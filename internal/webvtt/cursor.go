package webvtt

import (
	"strings"
	"unicode/utf8"
)

// cursor is a read position into an immutable input. Parsers take a cursor
// by value and return an advanced copy, so keeping the old value is all it
// takes to backtrack.
type cursor struct {
	src string
	pos int
}

func newCursor(src string) cursor {
	return cursor{src: src}
}

func (c cursor) rest() string {
	return c.src[c.pos:]
}

func (c cursor) atEOF() bool {
	return c.pos >= len(c.src)
}

func (c cursor) advance(n int) cursor {
	return cursor{src: c.src, pos: min(c.pos+n, len(c.src))}
}

func (c cursor) hasPrefix(s string) bool {
	return strings.HasPrefix(c.rest(), s)
}

// position converts the byte offset into a 1-based line and rune column.
func (c cursor) position() (int, int) {
	consumed := c.src[:c.pos]
	line := strings.Count(consumed, "\n") + 1
	lineStart := strings.LastIndexByte(consumed, '\n') + 1
	return line, utf8.RuneCountInString(consumed[lineStart:]) + 1
}

// parser is the shape shared by every grammar rule.
type parser[T any] func(cursor) (cursor, T, error)

// peek runs p and reports its value without consuming input.
func peek[T any](p parser[T]) parser[T] {
	return func(c cursor) (cursor, T, error) {
		_, v, err := p(c)
		return c, v, err
	}
}

// either tries first, then second from the same position. When both fail
// the more informative error wins: a range failure beats a structural one,
// and otherwise the error that got further into the input.
func either[T any](first, second parser[T]) parser[T] {
	return func(c cursor) (cursor, T, error) {
		next, v, err1 := first(c)
		if err1 == nil {
			return next, v, nil
		}
		next, v, err2 := second(c)
		if err2 == nil {
			return next, v, nil
		}
		return c, v, preferError(err1, err2)
	}
}

func preferError(a, b error) error {
	pa, okA := a.(*ParseError)
	pb, okB := b.(*ParseError)
	if !okA || !okB {
		return a
	}
	if (pa.Kind == InvalidTimeValue) != (pb.Kind == InvalidTimeValue) {
		if pa.Kind == InvalidTimeValue {
			return a
		}
		return b
	}
	if pb.Offset > pa.Offset {
		return b
	}
	return a
}

func literal(c cursor, s string, kind ErrorKind) (cursor, error) {
	if !c.hasPrefix(s) {
		return c, newParseError(c, kind, "expected "+quote(s))
	}
	return c.advance(len(s)), nil
}

// digits matches one or more ASCII decimal digits.
func digits(c cursor, kind ErrorKind) (cursor, string, error) {
	rest := c.rest()
	n := 0
	for n < len(rest) && rest[n] >= '0' && rest[n] <= '9' {
		n++
	}
	if n == 0 {
		return c, "", newParseError(c, kind, "expected digits")
	}
	return c.advance(n), rest[:n], nil
}

func isHorizontalSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func isSpace(b byte) bool {
	return isHorizontalSpace(b) || b == '\r' || b == '\n'
}

// space0 skips any run of spaces, tabs and line breaks.
func space0(c cursor) cursor {
	rest := c.rest()
	n := 0
	for n < len(rest) && isSpace(rest[n]) {
		n++
	}
	return c.advance(n)
}

// hspace1 requires at least one space or tab.
func hspace1(c cursor, kind ErrorKind, what string) (cursor, error) {
	rest := c.rest()
	n := 0
	for n < len(rest) && isHorizontalSpace(rest[n]) {
		n++
	}
	if n == 0 {
		return c, newParseError(c, kind, "expected whitespace "+what)
	}
	return c.advance(n), nil
}

// lineBreakLen returns the width of the line break at c, or 0 if there is
// none. Both "\n" and "\r\n" count.
func lineBreakLen(c cursor) int {
	switch {
	case c.hasPrefix("\n"):
		return 1
	case c.hasPrefix("\r\n"):
		return 2
	default:
		return 0
	}
}

func lineBreak(c cursor, kind ErrorKind) (cursor, error) {
	n := lineBreakLen(c)
	if n == 0 {
		return c, newParseError(c, kind, "expected line break")
	}
	return c.advance(n), nil
}

// onlySpace reports whether nothing but whitespace remains.
func onlySpace(c cursor) bool {
	return space0(c).atEOF()
}

func quote(s string) string {
	return `"` + s + `"`
}
