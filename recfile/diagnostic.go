package recfile

import (
	"fmt"
	"strings"
)

// Severity classifies a Diagnostic. Only Error severity fails a check or
// blocks a destructive transform; Warning is informational.
type Severity int

const (
	Warning Severity = iota + 1
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is the single diagnostic kind used across the parser, the
// integrity checker and the transform engine: a severity, a message, and
// optional context about where it applies.
type Diagnostic struct {
	Severity    Severity
	Message     string
	Pos         Pos
	RecordType  string // record type (descriptor %rec value), if known
	RecordIndex int    // index within the record set, -1 if not applicable
	FieldName   string // field name, if applicable
}

func (d Diagnostic) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s: %s", d.Severity, d.Message)
	if d.Pos.File != "" {
		fmt.Fprintf(&buf, " (%s:%d:%d)", d.Pos.File, d.Pos.Line, d.Pos.Col)
	}
	if d.RecordType != "" {
		fmt.Fprintf(&buf, " [type=%s]", d.RecordType)
	}
	if d.RecordIndex >= 0 {
		fmt.Fprintf(&buf, " [record=%d]", d.RecordIndex)
	}
	if d.FieldName != "" {
		fmt.Fprintf(&buf, " [field=%s]", d.FieldName)
	}
	return buf.String()
}

// Diagnostics is a list of Diagnostic that also implements error, so a
// caller that wants to fail fast can do `return diags.AsError()`.
type Diagnostics []Diagnostic

func (ds Diagnostics) Error() string {
	lines := make([]string, 0, len(ds))
	for _, d := range ds {
		lines = append(lines, d.String())
	}
	return strings.Join(lines, "\n")
}

// HasErrors reports whether any diagnostic has Error severity.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// AsError returns nil if there are no Error-severity diagnostics, else an
// error wrapping the full list (warnings included, for context).
func (ds Diagnostics) AsError() error {
	if !ds.HasErrors() {
		return nil
	}
	return ds
}
