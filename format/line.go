package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/mcnpdeck/deck"
)

// LineEncoder writes one tab separated line per item:
//
//	record	<start>-<end>	<kind>	<block>	<content>
//	diagnostic	<line>	<kind>	<severity>	<message>
type LineEncoder struct {
	w   io.Writer
	res *deck.Result
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(res *deck.Result) error {
	e.res = res
	return write(e.w, e)
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	if e.res == nil {
		return nil, nil
	}

	for _, it := range e.res.Items {
		switch {
		case it.Record != nil:
			r := it.Record
			fmt.Fprintf(&sb, "record\t%d-%d\t%s\t%s\t%s\n",
				r.StartLine(),
				r.EndLine(),
				r.Kind,
				r.Block,
				r.Content,
			)
		case it.Diagnostic != nil:
			d := it.Diagnostic
			fmt.Fprintf(&sb, "diagnostic\t%d\t%s\t%s\t%s\n",
				d.Line(),
				d.Kind,
				d.Severity,
				d.Message,
			)
		}
	}

	return []byte(sb.String()), nil
}

// WriteClasses writes one tab separated line per classified line:
//
//	<line>	<kind>	<quoted payload>	<flags>
func WriteClasses(w io.Writer, classes []deck.LineClass) error {
	for _, c := range classes {
		flags := classFlags(c)
		if _, err := fmt.Fprintf(w, "%d\t%s\t%q\t%s\n", c.Line.Number, c.Kind, c.Payload, flags); err != nil {
			return err
		}
	}
	return nil
}

func classFlags(c deck.LineClass) string {
	var flags []string
	if c.Continues {
		flags = append(flags, "continues")
	}
	if c.Indented {
		flags = append(flags, "indented")
	}
	if c.DanglingAmpersand {
		flags = append(flags, "dangling-ampersand")
	}
	if c.Err != nil {
		flags = append(flags, "malformed")
	}
	return strings.Join(flags, ",")
}
