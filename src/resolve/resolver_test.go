package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"la/src/diag"
	"la/src/frontend"
	"la/src/tree"
	"la/src/types"
)

func resolveSource(t *testing.T, src string) (*tree.Unit, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink()
	unit := frontend.Parse(0, "test.la", src, sink)
	require.False(t, sink.HasErrors(), "parse errors: %v", sink.Diagnostics())
	Resolve(unit, sink)
	return unit, sink
}

// TestResolveHelloWorldStructure exercises a plain function body: it must
// resolve without errors, and the call to the extern puts must be bound to
// puts' declared signature.
func TestResolveHelloWorldStructure(t *testing.T) {
	unit, sink := resolveSource(t, `
@extern fun puts(s *i8) i32;

fun main() i32 {
	puts("hello");
	return 0;
}`)
	require.False(t, sink.HasErrors())
	main := unit.Statements[1].(*tree.FunctionDeclaration)
	call := main.Body[0].(*tree.ExpressionStatement).Expr.(*tree.CallExpr)
	assert.NotNil(t, call.ResolvedTarget)
	assert.Equal(t, "puts", call.ResolvedTarget.Name)
}

// TestResolveGenericIdentityMonomorphization checks that two calls to a
// generic identity function with different argument types resolve to
// distinct concrete return types rather than sharing one instantiation.
func TestResolveGenericIdentityMonomorphization(t *testing.T) {
	unit, sink := resolveSource(t, `
fun identity<T>(x T) T {
	return x;
}

fun main() i32 {
	var a = identity(1i64);
	var b = identity(2.0f64);
	return 0;
}`)
	require.False(t, sink.HasErrors())
	main := unit.Statements[1].(*tree.FunctionDeclaration)
	declA := main.Body[0].(*tree.FieldDeclaration)
	declB := main.Body[1].(*tree.FieldDeclaration)

	callA := declA.Value.(*tree.CallExpr)
	callB := declB.Value.(*tree.CallExpr)

	require.NotNil(t, callA.ResolvedTarget)
	require.NotNil(t, callB.ResolvedTarget)
	assert.NotEqual(t, callA.ResolvedTarget.Name, callB.ResolvedTarget.Name,
		"distinct instantiations must mangle to distinct names")

	kindA, ok := types.AsNumber(callA.Type())
	require.True(t, ok)
	assert.Equal(t, types.I64, kindA)

	kindB, ok := types.AsNumber(callB.Type())
	require.True(t, ok)
	assert.Equal(t, types.F64, kindB)
}

// TestResolveIncompleteSwitchIsTypeError checks that a switch statement
// over an enum without an else arm and missing a member is rejected.
func TestResolveIncompleteSwitchIsTypeError(t *testing.T) {
	sink := diag.NewSink()
	unit := frontend.Parse(0, "test.la", `
enum Color {
	Red, Green, Blue,
}

fun name(c Color) i32 {
	switch c {
		case Color::Red -> return 1;
		case Color::Green -> return 2;
	}
	return 0;
}`, sink)
	require.False(t, sink.HasErrors())
	Resolve(unit, sink)
	assert.True(t, sink.HasErrors(), "a non-exhaustive switch with no else arm should be a type error")
}

// TestResolveNullToNonPointerIsTypeError checks that assigning `null` to a
// variable whose declared type is not a pointer is rejected.
func TestResolveNullToNonPointerIsTypeError(t *testing.T) {
	sink := diag.NewSink()
	unit := frontend.Parse(0, "test.la", `
fun f() {
	var x : i32 = null;
}`, sink)
	require.False(t, sink.HasErrors())
	Resolve(unit, sink)
	assert.True(t, sink.HasErrors(), "null assigned to a non-pointer variable should be a type error")
	found := false
	for _, d := range sink.Diagnostics() {
		if d.Kind == diag.TypeErr {
			found = true
		}
	}
	assert.True(t, found, "expected at least one TypeErr diagnostic")
}

func TestResolveStructFieldAccess(t *testing.T) {
	unit, sink := resolveSource(t, `
struct Point {
	x i32;
	y i32;
}

fun sum(p Point) i32 {
	return p.x + p.y;
}`)
	require.False(t, sink.HasErrors())
	fn := unit.Statements[1].(*tree.FunctionDeclaration)
	ret := fn.Body[0].(*tree.Return)
	bin := ret.Value.(*tree.BinaryExpr)
	kind, ok := types.AsNumber(bin.Type())
	require.True(t, ok)
	assert.Equal(t, types.I32, kind)
}
