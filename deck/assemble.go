package deck

import "iter"

// Assembler folds classified lines into records. It holds at most one
// open record at a time.
type Assembler struct {
	open     *Record
	block    Block
	lastKind LineKind
	started  bool
}

func NewAssembler() *Assembler {
	return &Assembler{block: BlockCell}
}

// Block returns the block the next record will be assigned to.
func (a *Assembler) Block() Block {
	return a.block
}

// Push consumes one classified line and returns the items it completes.
func (a *Assembler) Push(c LineClass) []Item {
	var out []Item

	if c.Skipped() {
		out = append(out, Item{Diagnostic: c.Err})
		return appendNotes(out, c.Notes)
	}

	switch c.Kind {
	case LineTerminator:
		out = a.close(out)
		out = appendNotes(out, c.Notes)
		if a.block < BlockData {
			a.block++
		}

	case LineComment:
		out = a.close(out)
		out = appendNotes(out, c.Notes)
		r := &Record{Kind: KindComment, Block: a.block}
		r.add(c.Line, c.Payload)
		r.segments = nil
		r.Content = c.Payload
		out = append(out, Item{Record: r})

	case LineRecordStart:
		out = a.close(out)
		out = appendLineDiagnostics(out, c)
		if c.Indented {
			out = append(out, Item{Diagnostic: a.dangling(c)})
		}
		a.openWith(c)

	case LineExplicitContinuation, LineIndentedContinuation:
		if a.open == nil {
			out = appendLineDiagnostics(out, c)
			out = append(out, Item{Diagnostic: a.dangling(c)})
			a.openWith(c)
			break
		}
		out = appendLineDiagnostics(out, c)
		a.open.add(c.Line, c.Payload)
	}

	a.note(c.Kind)
	return out
}

// Flush closes the open record at end of stream.
func (a *Assembler) Flush() []Item {
	return a.close(nil)
}

func (a *Assembler) openWith(c LineClass) {
	a.open = &Record{Kind: KindData, Block: a.block}
	a.open.add(c.Line, c.Payload)
}

func (a *Assembler) close(out []Item) []Item {
	if a.open == nil {
		return out
	}
	r := a.open.finish()
	a.open = nil
	return append(out, Item{Record: r})
}

func (a *Assembler) note(k LineKind) {
	a.lastKind = k
	a.started = true
}

func (a *Assembler) dangling(c LineClass) *Diagnostic {
	after := "the start of the input"
	if a.started {
		switch a.lastKind {
		case LineTerminator:
			after = "a blank line"
		case LineComment:
			after = "a comment"
		default:
			after = "a line that does not continue"
		}
	}
	return newDiagnostic(DanglingContinuation, SeverityError, c.Line,
		"continuation line %d follows %s and has no record to continue; starting a new record", c.Line.Number, after)
}

func appendLineDiagnostics(out []Item, c LineClass) []Item {
	if c.Err != nil {
		out = append(out, Item{Diagnostic: c.Err})
	}
	out = appendNotes(out, c.Notes)
	if c.DanglingAmpersand {
		out = append(out, Item{Diagnostic: newDiagnostic(TrailingAmpersand, SeverityWarning, c.Line,
			"'&' is followed by trailing whitespace and does not continue the record")})
	}
	return out
}

func appendNotes(out []Item, notes []*Diagnostic) []Item {
	for _, n := range notes {
		out = append(out, Item{Diagnostic: n})
	}
	return out
}

// Fold assembles a sequence of classified lines into items. The returned
// sequence is single-pass: every iteration starts a fresh Assembler.
func Fold(classes iter.Seq[LineClass]) iter.Seq[Item] {
	return func(yield func(Item) bool) {
		a := NewAssembler()
		for c := range classes {
			for _, it := range a.Push(c) {
				if !yield(it) {
					return
				}
			}
		}
		for _, it := range a.Flush() {
			if !yield(it) {
				return
			}
		}
	}
}
