package deck

import "fmt"

type DiagnosticKind int

const (
	MalformedLine DiagnosticKind = iota
	DanglingContinuation
	TrailingAmpersand
	LineTooLong
	VerticalFormat
	ReadFailed
)

var diagnosticKindNames = map[DiagnosticKind]string{
	MalformedLine:        "MalformedLine",
	DanglingContinuation: "DanglingContinuation",
	TrailingAmpersand:    "TrailingAmpersand",
	LineTooLong:          "LineTooLong",
	VerticalFormat:       "VerticalFormat",
	ReadFailed:           "ReadFailed",
}

func (k DiagnosticKind) String() string {
	if name, ok := diagnosticKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Diagnostic is a non-fatal problem found while assembling records.
// Parsing always continues past a diagnostic.
type Diagnostic struct {
	Kind     DiagnosticKind
	Severity Severity
	Message  string
	Span     Span
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Span.Start, d.Severity, d.Message)
}

// Line returns the 1-based line the diagnostic starts on.
func (d *Diagnostic) Line() int {
	return d.Span.Start.Line
}

func newDiagnostic(kind DiagnosticKind, sev Severity, line PhysicalLine, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Kind:     kind,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		Span:     line.Span(),
	}
}
