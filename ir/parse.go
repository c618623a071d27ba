package ir

import (
	"github.com/pkg/errors"
)

type scanner struct {
	src string
	pos int
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) skipSpaces() {
	for !s.eof() && isSpace(s.src[s.pos]) {
		s.pos++
	}
}

// readName reads an identifier: a letter or underscore followed by letters, digits or underscores.
func (s *scanner) readName() string {
	if s.eof() || !isLetter(s.src[s.pos]) {
		return ""
	}
	start := s.pos
	for !s.eof() && (isLetter(s.src[s.pos]) || isDigit(s.src[s.pos])) {
		s.pos++
	}
	return s.src[start:s.pos]
}

func (s *scanner) accept(lit string) bool {
	if len(s.src)-s.pos >= len(lit) && s.src[s.pos:s.pos+len(lit)] == lit {
		s.pos += len(lit)
		return true
	}
	return false
}

// Parse reads a single operation:
//
//	<switch>=0
//	<src>-><dst>
//	<src>-><dst>(<tag>)
//
// Surrounding whitespace is ignored, interior whitespace is not allowed.
func Parse(text string) (Operation, error) {
	s := &scanner{src: text}
	s.skipSpaces()
	first := s.readName()
	if first == "" {
		return Operation{}, errors.Wrapf(ErrParse, "%q: expected switch name at offset %d", text, s.pos)
	}
	var op Operation
	switch {
	case s.accept("=0"):
		op = NewReset(first)
	case s.accept("->"):
		dst := s.readName()
		if dst == "" {
			return Operation{}, errors.Wrapf(ErrParse, "%q: expected destination switch at offset %d", text, s.pos)
		}
		tag := ""
		if s.accept("(") {
			tag = s.readName()
			if tag == "" || !s.accept(")") {
				return Operation{}, errors.Wrapf(ErrParse, "%q: malformed output tag at offset %d", text, s.pos)
			}
		}
		op = NewTransfer(first, dst, tag)
	default:
		return Operation{}, errors.Wrapf(ErrParse, "%q: expected \"=0\" or \"->\" at offset %d", text, s.pos)
	}
	s.skipSpaces()
	if !s.eof() {
		return Operation{}, errors.Wrapf(ErrParse, "%q: trailing input at offset %d", text, s.pos)
	}
	return op, nil
}

// ParseSequence parses every line, reporting the index of the first malformed one.
func ParseSequence(lines []string) ([]Operation, error) {
	ops := make([]Operation, len(lines))
	for i, line := range lines {
		op, err := Parse(line)
		if err != nil {
			return nil, errors.WithMessagef(err, "operation %d", i)
		}
		ops[i] = op
	}
	return ops, nil
}

// MustParseSequence is like ParseSequence but panics on error. It is meant for
// the built-in primitive scripts.
func MustParseSequence(lines ...string) []Operation {
	ops, err := ParseSequence(lines)
	if err != nil {
		panic(err)
	}
	return ops
}
