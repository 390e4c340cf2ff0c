// Package diag is the diagnostic sink: the single place every compiler
// phase reports lexical, syntax, type and internal errors/warnings to.
// It keeps a buffer-and-count accumulator shape with no goroutines,
// because the pipeline itself is strictly single-threaded.
package diag

import (
	"fmt"
	"io"

	"la/src/token"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Kind is the diagnostic's taxonomy bucket: which phase raised it.
type Kind string

const (
	Lexical  Kind = "lexical"
	Syntax   Kind = "syntax"
	TypeErr  Kind = "type"
	Internal Kind = "internal"
)

// Diagnostic is one reported issue, bound to a source span.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Message  string
	Span     token.Span
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s (%s)", d.Span, d.Severity, d.Message, d.Kind)
}

// Sink accumulates diagnostics in traversal order and exposes per-severity
// counts. There is exactly one Sink per compilation unit; every phase
// (lexer, parser, resolver, emitter) is handed the same instance.
type Sink struct {
	diags []Diagnostic
	count [2]int
}

// NewSink returns an empty diagnostic sink.
func NewSink() *Sink {
	return &Sink{diags: make([]Diagnostic, 0, 16)}
}

func (s *Sink) add(sev Severity, kind Kind, span token.Span, msg string) {
	s.diags = append(s.diags, Diagnostic{Severity: sev, Kind: kind, Message: msg, Span: span})
	s.count[sev]++
}

// Errorf records a source-bound error diagnostic.
func (s *Sink) Errorf(span token.Span, kind Kind, format string, args ...interface{}) {
	s.add(Error, kind, span, fmt.Sprintf(format, args...))
}

// Warnf records a source-bound warning diagnostic.
func (s *Sink) Warnf(span token.Span, kind Kind, format string, args ...interface{}) {
	s.add(Warning, kind, span, fmt.Sprintf(format, args...))
}

// Count returns how many diagnostics of the given severity have been recorded.
func (s *Sink) Count(sev Severity) int {
	return s.count[sev]
}

// HasErrors reports whether any Error-severity diagnostic was recorded.
func (s *Sink) HasErrors() bool {
	return s.count[Error] > 0
}

// Diagnostics returns all recorded diagnostics in traversal order.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.diags
}

// Report writes every diagnostic to w. Warnings are omitted unless
// reportWarnings is true, matching the driver's configured policy.
func (s *Sink) Report(w io.Writer, reportWarnings bool) {
	for _, d := range s.diags {
		if d.Severity == Warning && !reportWarnings {
			continue
		}
		_, _ = fmt.Fprintln(w, d.String())
	}
}
