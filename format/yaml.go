package format

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/mcnpdeck/deck"
)

type YAMLEncoder struct {
	w   io.Writer
	res *deck.Result
}

func NewYAMLEncoder(w io.Writer) *YAMLEncoder {
	return &YAMLEncoder{w: w}
}

func (e *YAMLEncoder) Encode(res *deck.Result) error {
	e.res = res
	return write(e.w, e)
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	return yaml.Marshal(buildDocument(e.res))
}
