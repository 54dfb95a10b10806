package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/mcnpdeck/deck"
)

type JSONEncoder struct {
	w   io.Writer
	res *deck.Result
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(res *deck.Result) error {
	e.res = res
	return write(e.w, e)
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data, err := json.MarshalIndent(buildDocument(e.res), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// document is the serialised form shared by the JSON and YAML encoders.
type document struct {
	Items []item `json:"items" yaml:"items"`
}

type item struct {
	Type       string      `json:"type" yaml:"type"`
	Record     *record     `json:"record,omitempty" yaml:"record,omitempty"`
	Diagnostic *diagnostic `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
}

type record struct {
	Kind      string `json:"kind" yaml:"kind"`
	Block     string `json:"block" yaml:"block"`
	Content   string `json:"content" yaml:"content"`
	StartLine int    `json:"startLine" yaml:"start_line"`
	EndLine   int    `json:"endLine" yaml:"end_line"`
	Offset    int    `json:"offset" yaml:"offset"`
}

type diagnostic struct {
	Kind     string `json:"kind" yaml:"kind"`
	Severity string `json:"severity" yaml:"severity"`
	Message  string `json:"message" yaml:"message"`
	File     string `json:"file,omitempty" yaml:"file,omitempty"`
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column" yaml:"column"`
}

func buildDocument(res *deck.Result) document {
	doc := document{Items: []item{}}
	if res == nil {
		return doc
	}
	for _, it := range res.Items {
		switch {
		case it.Record != nil:
			r := it.Record
			doc.Items = append(doc.Items, item{
				Type: "record",
				Record: &record{
					Kind:      r.Kind.String(),
					Block:     r.Block.String(),
					Content:   r.Content,
					StartLine: r.StartLine(),
					EndLine:   r.EndLine(),
					Offset:    r.Span.Start.Offset,
				},
			})
		case it.Diagnostic != nil:
			d := it.Diagnostic
			doc.Items = append(doc.Items, item{
				Type: "diagnostic",
				Diagnostic: &diagnostic{
					Kind:     d.Kind.String(),
					Severity: d.Severity.String(),
					Message:  d.Message,
					File:     d.Span.Start.File,
					Line:     d.Span.Start.Line,
					Column:   d.Span.Start.Column,
				},
			})
		}
	}
	return doc
}
