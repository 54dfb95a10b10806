package deck

import (
	"fmt"
	"strings"
)

// Position represents a location in an input deck.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

// PhysicalLine is one line of raw input without its terminator.
type PhysicalLine struct {
	Text   string
	Number int
	Offset int
	File   string
}

func (l PhysicalLine) Start() Position {
	return Position{File: l.File, Offset: l.Offset, Line: l.Number, Column: 1}
}

func (l PhysicalLine) End() Position {
	return Position{
		File:   l.File,
		Offset: l.Offset + len(l.Text),
		Line:   l.Number,
		Column: len(l.Text) + 1,
	}
}

func (l PhysicalLine) Span() Span {
	return Span{Start: l.Start(), End: l.End()}
}

// Scanner splits an input buffer into physical lines on '\n'.
// A trailing newline does not produce an extra empty line.
type Scanner struct {
	input string
	file  string
	pos   int
	line  int
}

func NewScanner(input []byte, file string) *Scanner {
	return &Scanner{
		input: string(input),
		file:  file,
		pos:   0,
		line:  0,
	}
}

// Next returns the next physical line, or false at end of input.
func (s *Scanner) Next() (PhysicalLine, bool) {
	if s.pos >= len(s.input) {
		return PhysicalLine{}, false
	}

	start := s.pos
	end := len(s.input)
	if i := strings.IndexByte(s.input[start:], '\n'); i >= 0 {
		end = start + i
		s.pos = end + 1
	} else {
		s.pos = end
	}
	s.line++

	return PhysicalLine{
		Text:   s.input[start:end],
		Number: s.line,
		Offset: start,
		File:   s.file,
	}, true
}

// Line returns the number of the last line returned by Next.
func (s *Scanner) Line() int {
	return s.line
}
