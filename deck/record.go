package deck

import (
	"fmt"
	"strings"
)

type RecordKind int

const (
	KindData RecordKind = iota
	KindComment
	KindMessage
	KindTitle
)

func (k RecordKind) String() string {
	switch k {
	case KindData:
		return "Data"
	case KindComment:
		return "Comment"
	case KindMessage:
		return "Message"
	case KindTitle:
		return "Title"
	default:
		return fmt.Sprintf("RecordKind(%d)", int(k))
	}
}

// Block is the blank-line separated section of a deck a record belongs to.
type Block int

const (
	BlockHeader Block = iota
	BlockCell
	BlockSurface
	BlockData
)

func (b Block) String() string {
	switch b {
	case BlockHeader:
		return "header"
	case BlockCell:
		return "cell"
	case BlockSurface:
		return "surface"
	case BlockData:
		return "data"
	default:
		return fmt.Sprintf("Block(%d)", int(b))
	}
}

// Record is one logical record (card) assembled from one or more
// contiguous physical lines.
type Record struct {
	Kind RecordKind

	// Content is the joined payload of all lines. Reparsing it yields the
	// same content, except when a line ended in '&' followed by spaces:
	// that '&' is kept here and becomes a continuation marker on reparse.
	Content string
	Span    Span
	Block   Block
	Lines   []PhysicalLine

	segments []string
}

func (r *Record) StartLine() int {
	return r.Span.Start.Line
}

func (r *Record) EndLine() int {
	return r.Span.End.Line
}

// CommentText returns the text of a comment record after the "c" marker.
func (r *Record) CommentText() string {
	if r.Kind != KindComment {
		return ""
	}
	t := strings.TrimLeft(r.Content, " ")
	if len(t) <= 1 {
		return ""
	}
	return strings.TrimSpace(t[1:])
}

func (r *Record) String() string {
	return fmt.Sprintf("%d-%d %s %q", r.StartLine(), r.EndLine(), r.Kind, r.Content)
}

func (r *Record) add(line PhysicalLine, payload string) {
	if len(r.Lines) == 0 {
		r.Span.Start = line.Start()
	}
	r.Span.End = line.End()
	r.Lines = append(r.Lines, line)
	r.segments = append(r.segments, payload)
}

func (r *Record) finish() *Record {
	r.Content = joinSegments(r.segments)
	r.segments = nil
	return r
}

// joinSegments trims every segment, drops empty ones and joins the rest
// with a single space.
func joinSegments(segments []string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if t := strings.TrimSpace(s); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Item is one element of the output stream. Exactly one field is set.
type Item struct {
	Record     *Record
	Diagnostic *Diagnostic
}

func (it Item) Line() int {
	if it.Record != nil {
		return it.Record.StartLine()
	}
	if it.Diagnostic != nil {
		return it.Diagnostic.Line()
	}
	return 0
}

func (it Item) String() string {
	if it.Record != nil {
		return it.Record.String()
	}
	if it.Diagnostic != nil {
		return it.Diagnostic.Error()
	}
	return "<empty>"
}
