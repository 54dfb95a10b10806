package deck

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// BlankSpaceContinue is the number of leading spaces that mark a line as
// continuing the previous record.
const BlankSpaceContinue = 5

const trailingSpace = " \t\r\f\v"

type LineKind int

const (
	LineTerminator LineKind = iota
	LineComment
	LineExplicitContinuation
	LineIndentedContinuation
	LineRecordStart
)

var lineKindNames = map[LineKind]string{
	LineTerminator:           "Terminator",
	LineComment:              "Comment",
	LineExplicitContinuation: "ExplicitContinuation",
	LineIndentedContinuation: "IndentedContinuation",
	LineRecordStart:          "RecordStart",
}

func (k LineKind) String() string {
	if name, ok := lineKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("LineKind(%d)", int(k))
}

// IsContinuation reports whether the kind extends an open record.
func (k LineKind) IsContinuation() bool {
	return k == LineExplicitContinuation || k == LineIndentedContinuation
}

// LineClass is the classification of one physical line.
type LineClass struct {
	Kind LineKind
	Line PhysicalLine

	// Payload is the line content with continuation markers removed.
	Payload string

	// Continues is set when the line ends in a single '&' right before the
	// line break, so the next line is an explicit continuation.
	Continues bool

	// Indented is set when the line starts with at least
	// BlankSpaceContinue space characters.
	Indented bool

	// DanglingAmpersand is set when an '&' is followed only by trailing
	// whitespace. Such a line does not continue.
	DanglingAmpersand bool

	// Err is set when the line is not valid UTF-8.
	Err *Diagnostic

	// Notes holds warnings raised while reading the line.
	Notes []*Diagnostic
}

func (c LineClass) String() string {
	return fmt.Sprintf("%d %s %q", c.Line.Number, c.Kind, c.Payload)
}

// Skipped reports whether the assembler drops this line.
func (c *LineClass) Skipped() bool {
	return c.Err != nil && c.Err.Severity == SeverityError
}

// holdsRecord reports whether a line classified as c leaves a record open
// for the following line to continue.
func (c *LineClass) holdsRecord() bool {
	if c == nil || c.Skipped() {
		return false
	}
	return c.Kind == LineRecordStart || c.Kind.IsContinuation()
}

// Classify labels line given the classification of the line before it.
// prev is nil at the start of the stream. The result depends on nothing
// but line and prev.
func Classify(line PhysicalLine, prev *LineClass) LineClass {
	c := LineClass{Line: line}
	text := line.Text

	if !utf8.ValidString(text) {
		c.Err = newDiagnostic(MalformedLine, SeverityError, line, "line %d is not valid UTF-8", line.Number)
	}

	if isBlank(text) {
		c.Kind = LineTerminator
		return c
	}

	if IsComment(text) {
		c.Kind = LineComment
		c.Payload = strings.TrimRight(text, trailingSpace)
		return c
	}

	c.Indented = leadingSpaces(text) >= BlankSpaceContinue
	payload, continues := cutAmpersand(text)
	c.Continues = continues
	c.DanglingAmpersand = !continues && danglingAmpersand(text)

	switch {
	case prev.holdsRecord() && prev.Continues:
		c.Kind = LineExplicitContinuation
		c.Payload = payload
	case c.Indented && prev.holdsRecord():
		c.Kind = LineIndentedContinuation
		c.Payload = payload[BlankSpaceContinue:]
	default:
		c.Kind = LineRecordStart
		c.Payload = payload
	}
	return c
}

// IsComment reports whether text is a comment line: after any leading
// spaces, a 'c' or 'C' followed by a space or the end of the content.
func IsComment(text string) bool {
	t := strings.TrimRight(strings.TrimLeft(text, " "), trailingSpace)
	if t == "" || (t[0] != 'c' && t[0] != 'C') {
		return false
	}
	return len(t) == 1 || t[1] == ' '
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// leadingSpaces counts the space characters before the first other byte.
// Tabs end the run.
func leadingSpaces(text string) int {
	n := 0
	for n < len(text) && text[n] == ' ' {
		n++
	}
	return n
}

func cutAmpersand(text string) (string, bool) {
	if !strings.HasSuffix(text, "&") || strings.HasSuffix(text, "&&") {
		return text, false
	}
	return text[:len(text)-1], true
}

func danglingAmpersand(text string) bool {
	t := strings.TrimRight(text, trailingSpace)
	if len(t) == len(text) {
		return false
	}
	return strings.HasSuffix(t, "&") && !strings.HasSuffix(t, "&&")
}

// Classifier carries the one line of lookback Classify needs and applies
// the reader's line policies. The lookback is the last line that was not
// skipped.
type Classifier struct {
	prev           *LineClass
	lineLimit      int
	replaceInvalid bool
}

func NewClassifier(opts ...Option) *Classifier {
	cfg := newConfig(opts)
	return &Classifier{
		lineLimit:      cfg.lineLimit,
		replaceInvalid: cfg.replaceInvalid,
	}
}

// Next classifies line against the previously classified line.
func (c *Classifier) Next(line PhysicalLine) LineClass {
	var notes []*Diagnostic

	if c.lineLimit > 0 && utf8.RuneCountInString(line.Text) > c.lineLimit {
		notes = append(notes, newDiagnostic(LineTooLong, SeverityWarning, line,
			"line exceeds the allowed length of %d characters and was truncated", c.lineLimit))
		line.Text = truncateRunes(line.Text, c.lineLimit)
	}

	var replaced *Diagnostic
	if c.replaceInvalid && !utf8.ValidString(line.Text) {
		replaced = newDiagnostic(MalformedLine, SeverityWarning, line,
			"line %d is not valid UTF-8; invalid bytes replaced with spaces", line.Number)
		line.Text = strings.ToValidUTF8(line.Text, " ")
	}

	class := Classify(line, c.prev)
	if replaced != nil {
		class.Err = replaced
	}

	if class.Kind != LineTerminator && class.Kind != LineComment && verticalFormat(line.Text) {
		notes = append(notes, newDiagnostic(VerticalFormat, SeverityWarning, line,
			"'#' in the first %d columns: vertical input format is not supported", BlankSpaceContinue))
	}
	class.Notes = notes

	// A skipped line is invisible to the next one, so an open record and
	// a pending '&' carry across it.
	if !class.Skipped() {
		c.prev = &class
	}
	return class
}

// Reset clears the lookback so the next line is treated as stream start.
func (c *Classifier) Reset() {
	c.prev = nil
}

func verticalFormat(text string) bool {
	if len(text) > BlankSpaceContinue {
		text = text[:BlankSpaceContinue]
	}
	return strings.Contains(text, "#")
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
