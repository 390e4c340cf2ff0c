package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"la/src/token"
)

func TestSinkCountsBySeverity(t *testing.T) {
	s := NewSink()
	s.Warnf(token.Span{Line: 1, Col: 1}, Syntax, "unused variable %q", "x")
	s.Errorf(token.Span{Line: 2, Col: 1}, TypeErr, "undefined name %q", "y")
	s.Errorf(token.Span{Line: 3, Col: 1}, Internal, "invariant violated")

	assert.Equal(t, 1, s.Count(Warning))
	assert.Equal(t, 2, s.Count(Error))
	assert.True(t, s.HasErrors())
	require.Len(t, s.Diagnostics(), 3)
}

func TestSinkHasErrorsFalseWhenOnlyWarnings(t *testing.T) {
	s := NewSink()
	s.Warnf(token.Span{}, Syntax, "minor issue")
	assert.False(t, s.HasErrors())
}

func TestSinkReportOmitsWarningsUnlessConfigured(t *testing.T) {
	s := NewSink()
	s.Warnf(token.Span{Line: 1, Col: 1}, Syntax, "a warning")
	s.Errorf(token.Span{Line: 2, Col: 1}, TypeErr, "an error")

	var quiet bytes.Buffer
	s.Report(&quiet, false)
	assert.NotContains(t, quiet.String(), "a warning")
	assert.Contains(t, quiet.String(), "an error")

	var loud bytes.Buffer
	s.Report(&loud, true)
	assert.Contains(t, loud.String(), "a warning")
	assert.Contains(t, loud.String(), "an error")
}

func TestDiagnosticsPreserveTraversalOrder(t *testing.T) {
	s := NewSink()
	s.Errorf(token.Span{Line: 1, Col: 1}, Syntax, "first")
	s.Errorf(token.Span{Line: 2, Col: 1}, Syntax, "second")
	diags := s.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, "first", diags[0].Message)
	assert.Equal(t, "second", diags[1].Message)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "error", Error.String())
}
