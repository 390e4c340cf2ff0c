package llvm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"la/src/diag"
	"la/src/frontend"
	"la/src/resolve"
)

func emitSource(t *testing.T, src string) *Emitter {
	t.Helper()
	sink := diag.NewSink()
	unit := frontend.Parse(0, "test.la", src, sink)
	require.False(t, sink.HasErrors(), "parse errors: %v", sink.Diagnostics())
	resolve.Resolve(unit, sink)
	require.False(t, sink.HasErrors(), "resolve errors: %v", sink.Diagnostics())

	e := New(sink, "test")
	err := e.Emit(unit)
	require.NoError(t, err)
	require.False(t, sink.HasErrors(), "emit errors: %v", sink.Diagnostics())
	return e
}

func TestEmitSimpleFunctionProducesVerifiedModule(t *testing.T) {
	e := emitSource(t, `
fun add(a i32, b i32) i32 {
	return a + b;
}`)
	defer e.Dispose()

	ir := e.mod.String()
	assert.Contains(t, ir, "define")
	assert.Contains(t, ir, "add")
}

func TestEmitIRWritesTextualModule(t *testing.T) {
	e := emitSource(t, `
fun main() i32 {
	return 0;
}`)
	defer e.Dispose()

	path := filepath.Join(t.TempDir(), "out.ll")
	require.NoError(t, e.EmitIR(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "define")
}

func TestEmitGlobalAndIfElse(t *testing.T) {
	e := emitSource(t, `
var counter : i32 = 0;

fun classify(n i32) i32 {
	if n < 0 {
		return -1;
	} else if n == 0 {
		return 0;
	} else {
		return 1;
	}
}`)
	defer e.Dispose()

	ir := e.mod.String()
	assert.Contains(t, ir, "counter")
	assert.Contains(t, ir, "classify")
}

func TestEmitStructFieldAccess(t *testing.T) {
	e := emitSource(t, `
struct Point {
	x i32;
	y i32;
}

fun sum(p Point) i32 {
	return p.x + p.y;
}`)
	defer e.Dispose()

	ir := e.mod.String()
	assert.Contains(t, ir, "sum")
}
