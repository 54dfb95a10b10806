package deck

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoReadFile is returned by ReadFile for a READ card without a FILE
// parameter.
var ErrNoReadFile = errors.New("READ card has no FILE parameter")

// IsRead reports whether r is a READ card, which pulls the cards of
// another file into the deck.
func (r *Record) IsRead() bool {
	if r.Kind != KindData {
		return false
	}
	fields := strings.Fields(r.Content)
	return len(fields) > 0 && strings.EqualFold(fields[0], "read")
}

// ReadFile returns the FILE parameter of a READ card: "geom.i" for
// "READ FILE=geom.i NOECHO". The key may be separated from the value by
// '=', spaces or both.
func (r *Record) ReadFile() (string, error) {
	if !r.IsRead() {
		return "", fmt.Errorf("not a READ card: %q", r.Content)
	}
	fields := strings.Fields(strings.ReplaceAll(r.Content, "=", " = "))
	for i := 1; i < len(fields); i++ {
		if !strings.EqualFold(fields[i], "file") {
			continue
		}
		j := i + 1
		if j < len(fields) && fields[j] == "=" {
			j++
		}
		if j < len(fields) && fields[j] != "=" {
			return fields[j], nil
		}
		break
	}
	return "", ErrNoReadFile
}

// NewReadDiagnostic reports a READ card whose file could not be included.
func NewReadDiagnostic(r *Record, err error) *Diagnostic {
	return &Diagnostic{
		Kind:     ReadFailed,
		Severity: SeverityError,
		Message:  fmt.Sprintf("READ card on line %d: %v", r.StartLine(), err),
		Span:     r.Span,
	}
}
