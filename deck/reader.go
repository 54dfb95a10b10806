package deck

import (
	"iter"
	"strings"
)

// Reader runs the scanner, classifier and assembler over one input buffer
// and yields items on demand. A Reader is not safe for concurrent use;
// create one per input.
type Reader struct {
	scanner    *Scanner
	classifier *Classifier
	assembler  *Assembler
	cfg        config

	pending []Item
	header  bool
	done    bool
}

func NewReader(input []byte, opts ...Option) *Reader {
	cfg := newConfig(opts)
	r := &Reader{
		scanner:    NewScanner(input, cfg.file),
		classifier: NewClassifier(opts...),
		assembler:  NewAssembler(),
		cfg:        cfg,
		header:     cfg.frontMatter,
	}
	if cfg.startBlock > BlockHeader {
		r.assembler.block = cfg.startBlock
		r.header = false
	}
	return r
}

// Next returns the next item, or false once the input is exhausted.
func (r *Reader) Next() (Item, bool) {
	for len(r.pending) == 0 {
		if r.done {
			return Item{}, false
		}
		r.fill()
	}
	it := r.pending[0]
	r.pending = r.pending[1:]
	return it, true
}

// All returns the remaining items as a sequence. Stopping the iteration
// early discards any record still being assembled.
func (r *Reader) All() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for {
			it, ok := r.Next()
			if !ok || !yield(it) {
				return
			}
		}
	}
}

func (r *Reader) fill() {
	if r.header {
		r.header = false
		r.pending = append(r.pending, r.readFrontMatter()...)
		return
	}

	line, ok := r.scanner.Next()
	if !ok {
		r.pending = append(r.pending, r.assembler.Flush()...)
		r.done = true
		return
	}
	r.pending = append(r.pending, r.assembler.Push(r.classifier.Next(line))...)
}

// readFrontMatter consumes the optional MESSAGE block and the title line.
func (r *Reader) readFrontMatter() []Item {
	var out []Item

	line, ok := r.scanner.Next()
	if !ok {
		return nil
	}

	if isMessage(line.Text) {
		msg := &Record{Kind: KindMessage, Block: BlockHeader}
		msg.add(line, line.Text[len("MESSAGE:"):])
		for {
			line, ok = r.scanner.Next()
			if !ok {
				return append(out, Item{Record: msg.finish()})
			}
			if isBlank(line.Text) {
				break
			}
			msg.add(line, line.Text)
		}
		out = append(out, Item{Record: msg.finish()})

		line, ok = r.scanner.Next()
		if !ok {
			return out
		}
	}

	title := &Record{Kind: KindTitle, Block: BlockHeader}
	title.add(line, line.Text)
	title.segments = nil
	title.Content = strings.TrimRight(line.Text, trailingSpace)
	return append(out, Item{Record: title})
}

func isMessage(text string) bool {
	const prefix = "MESSAGE:"
	return len(text) >= len(prefix) && strings.EqualFold(text[:len(prefix)], prefix)
}

// Result collects the whole item stream of one input.
type Result struct {
	Records     []*Record
	Diagnostics []*Diagnostic
	Items       []Item
}

// HasErrors reports whether any diagnostic has error severity.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Add appends it to the item stream and to Records or Diagnostics.
func (r *Result) Add(it Item) {
	r.Items = append(r.Items, it)
	if it.Record != nil {
		r.Records = append(r.Records, it.Record)
	}
	if it.Diagnostic != nil {
		r.Diagnostics = append(r.Diagnostics, it.Diagnostic)
	}
}

// Parse reads input to the end and collects every item.
func Parse(input []byte, opts ...Option) *Result {
	res := &Result{}
	for it := range NewReader(input, opts...).All() {
		res.Add(it)
	}
	return res
}

// ClassifyAll classifies every physical line of input without assembling.
func ClassifyAll(input []byte, opts ...Option) iter.Seq[LineClass] {
	return func(yield func(LineClass) bool) {
		cfg := newConfig(opts)
		s := NewScanner(input, cfg.file)
		c := NewClassifier(opts...)
		for {
			line, ok := s.Next()
			if !ok || !yield(c.Next(line)) {
				return
			}
		}
	}
}
