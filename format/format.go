// Package format renders parsed decks for output.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/mcnpdeck/deck"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(res *deck.Result) error
}

// NewEncoder returns the encoder for name: json, yaml or line.
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "yaml":
		return NewYAMLEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", name)
	}
}

func write(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
