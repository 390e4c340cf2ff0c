package frontend

import (
	"testing"

	"la/src/diag"
	"la/src/token"
	"la/src/tree"
	"la/src/types"
)

func parseOK(t *testing.T, src string) *tree.Unit {
	t.Helper()
	sink := diag.NewSink()
	unit := Parse(0, "test.la", src, sink)
	if sink.HasErrors() {
		t.Fatalf("Parse(%q) reported errors: %v", src, sink.Diagnostics())
	}
	return unit
}

func TestParseFunctionDeclaration(t *testing.T) {
	unit := parseOK(t, `fun add(a i32, b i32) i32 { return a + b; }`)
	if len(unit.Statements) != 1 {
		t.Fatalf("got %d top-level statements, want 1", len(unit.Statements))
	}
	fn, ok := unit.Statements[0].(*tree.FunctionDeclaration)
	if !ok {
		t.Fatalf("statement is %T, want *tree.FunctionDeclaration", unit.Statements[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("fn = %+v, want name add with 2 params", fn)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("fn.Body has %d statements, want 1", len(fn.Body))
	}
	ret, ok := fn.Body[0].(*tree.Return)
	if !ok || !ret.HasValue {
		t.Fatalf("body statement = %+v, want a return with a value", fn.Body[0])
	}
	bin, ok := ret.Value.(*tree.BinaryExpr)
	if !ok || bin.Op != token.Plus {
		t.Fatalf("return value = %+v, want a + BinaryExpr", ret.Value)
	}
}

// TestParseBareShiftReassembly regression-tests open question (a): the
// lexer splits a bare ">>" into two Greater tokens, and the shift-level
// Pratt rule must read them back as a single RightShift operator.
func TestParseBareShiftReassembly(t *testing.T) {
	unit := parseOK(t, `fun f() i32 { return a >> b; }`)
	fn := unit.Statements[0].(*tree.FunctionDeclaration)
	ret := fn.Body[0].(*tree.Return)
	shift, ok := ret.Value.(*tree.BitwiseExpr)
	if !ok {
		t.Fatalf("return value = %T, want *tree.BitwiseExpr", ret.Value)
	}
	if shift.Op != token.RightShift {
		t.Fatalf("shift.Op = %s, want RightShift", shift.Op)
	}
	left, ok := shift.Left.(*tree.LiteralExpr)
	if !ok || left.Name != "a" {
		t.Fatalf("shift.Left = %+v, want identifier a", shift.Left)
	}
}

// TestParseNestedGenericClose exercises the companion half of open
// question (a): two adjacent '>' characters closing a nested generic
// argument list must NOT be reassembled into a shift operator.
func TestParseNestedGenericClose(t *testing.T) {
	unit := parseOK(t, `var x : Box<Box<i64>>;`)
	decl, ok := unit.Statements[0].(*tree.FieldDeclaration)
	if !ok {
		t.Fatalf("statement = %T, want *tree.FieldDeclaration", unit.Statements[0])
	}
	outer, ok := decl.Annotation.(*types.GenericStruct)
	if !ok {
		t.Fatalf("Annotation = %T, want *types.GenericStruct", decl.Annotation)
	}
	inner, ok := outer.Parameters[0].(*types.GenericStruct)
	if !ok || len(inner.Parameters) != 1 {
		t.Fatalf("Parameters[0] = %+v, want a nested *types.GenericStruct", outer.Parameters[0])
	}
}

func TestParseIfElseIfElse(t *testing.T) {
	unit := parseOK(t, `
fun f(n i32) i32 {
	if n == 0 {
		return 0;
	} else if n == 1 {
		return 1;
	} else {
		return 2;
	}
}`)
	fn := unit.Statements[0].(*tree.FunctionDeclaration)
	ifStmt, ok := fn.Body[0].(*tree.If)
	if !ok {
		t.Fatalf("body[0] = %T, want *tree.If", fn.Body[0])
	}
	if len(ifStmt.Branches) != 2 {
		t.Fatalf("len(Branches) = %d, want 2", len(ifStmt.Branches))
	}
	if !ifStmt.HasElse || len(ifStmt.Else) != 1 {
		t.Fatalf("If = %+v, want a trailing else with one statement", ifStmt)
	}
}

func TestParseSwitchStatement(t *testing.T) {
	unit := parseOK(t, `
fun f(n i32) {
	switch n {
		case 1, 2 -> return;
		else -> return;
	}
}`)
	fn := unit.Statements[0].(*tree.FunctionDeclaration)
	sw, ok := fn.Body[0].(*tree.Switch)
	if !ok {
		t.Fatalf("body[0] = %T, want *tree.Switch", fn.Body[0])
	}
	if len(sw.Cases) != 1 || len(sw.Cases[0].Values) != 2 {
		t.Fatalf("Cases = %+v, want one case with two values", sw.Cases)
	}
	if !sw.HasDefault || !sw.ShouldPerformCompleteCheck {
		t.Fatalf("Switch = %+v, want HasDefault and ShouldPerformCompleteCheck", sw)
	}
}

func TestParseForRangeWithStep(t *testing.T) {
	unit := parseOK(t, `
fun f() {
	for i = 0, 10, 2 {
	}
}`)
	fn := unit.Statements[0].(*tree.FunctionDeclaration)
	fr, ok := fn.Body[0].(*tree.ForRange)
	if !ok {
		t.Fatalf("body[0] = %T, want *tree.ForRange", fn.Body[0])
	}
	if fr.Name != "i" || !fr.HasStep {
		t.Fatalf("ForRange = %+v, want name i with a step", fr)
	}
}

func TestParseForEachWithIndex(t *testing.T) {
	unit := parseOK(t, `
fun f(xs [4]i32) {
	for v, i in xs {
	}
}`)
	fn := unit.Statements[0].(*tree.FunctionDeclaration)
	fe, ok := fn.Body[0].(*tree.ForEach)
	if !ok {
		t.Fatalf("body[0] = %T, want *tree.ForEach", fn.Body[0])
	}
	if fe.ElemName != "v" || fe.IndexName != "i" || !fe.HasIndex {
		t.Fatalf("ForEach = %+v, want elem v, index i", fe)
	}
}

func TestParseBreakContinueWithDepth(t *testing.T) {
	unit := parseOK(t, `
fun f() {
	while true {
		while true {
			break 2;
			continue 1;
		}
	}
}`)
	fn := unit.Statements[0].(*tree.FunctionDeclaration)
	outer := fn.Body[0].(*tree.While)
	inner := outer.Body[0].(*tree.While)
	brk, ok := inner.Body[0].(*tree.Break)
	if !ok || brk.Times != 2 {
		t.Fatalf("Break = %+v, want Times 2", inner.Body[0])
	}
	cont, ok := inner.Body[1].(*tree.Continue)
	if !ok || cont.Times != 1 {
		t.Fatalf("Continue = %+v, want Times 1", inner.Body[1])
	}
}

func TestParseDestructuringDeclaration(t *testing.T) {
	unit := parseOK(t, `var (a, b) = pair();`)
	decl, ok := unit.Statements[0].(*tree.DestructuringDeclaration)
	if !ok {
		t.Fatalf("statement = %T, want *tree.DestructuringDeclaration", unit.Statements[0])
	}
	if len(decl.Names) != 2 || decl.Names[0] != "a" || decl.Names[1] != "b" {
		t.Fatalf("Names = %v, want [a b]", decl.Names)
	}
}

func TestParseDeferRequiresCallExpression(t *testing.T) {
	sink := diag.NewSink()
	Parse(0, "test.la", `fun f() { defer 1 + 1; }`, sink)
	if !sink.HasErrors() {
		t.Fatal("defer on a non-call expression should report an error")
	}
}

func TestParseSyntaxErrorAbortsWithoutPanicking(t *testing.T) {
	sink := diag.NewSink()
	unit := Parse(0, "test.la", `fun f( { }`, sink)
	if !sink.HasErrors() {
		t.Fatal("malformed parameter list should report a syntax error")
	}
	if unit == nil {
		t.Fatal("Parse should still return a non-nil unit after a recovered syntax error")
	}
}

func TestParseStructDeclarationWithGenerics(t *testing.T) {
	unit := parseOK(t, `
struct Box<T> {
	value T;
}`)
	decl, ok := unit.Statements[0].(*tree.StructDeclaration)
	if !ok {
		t.Fatalf("statement = %T, want *tree.StructDeclaration", unit.Statements[0])
	}
	if decl.Name != "Box" || len(decl.GenericParameters) != 1 || decl.GenericParameters[0] != "T" {
		t.Fatalf("StructDeclaration = %+v, want generic parameter T", decl)
	}
	if len(decl.Fields) != 1 || decl.Fields[0].Name != "value" {
		t.Fatalf("Fields = %+v, want one field named value", decl.Fields)
	}
}

func TestParseEnumDeclarationWithExplicitValues(t *testing.T) {
	unit := parseOK(t, `
enum Color {
	Red = 1,
	Green = 2,
	Blue,
}`)
	decl, ok := unit.Statements[0].(*tree.EnumDeclaration)
	if !ok {
		t.Fatalf("statement = %T, want *tree.EnumDeclaration", unit.Statements[0])
	}
	if len(decl.Members) != 3 {
		t.Fatalf("Members = %+v, want 3 entries", decl.Members)
	}
	if decl.Members[0].Value == nil || *decl.Members[0].Value != 1 {
		t.Fatalf("Members[0] = %+v, want explicit value 1", decl.Members[0])
	}
	if decl.Members[2].Value != nil {
		t.Fatalf("Members[2] = %+v, want no explicit value", decl.Members[2])
	}
}

func TestParseExternPrototypeHasNoBody(t *testing.T) {
	unit := parseOK(t, `@extern fun puts(s *i8) i32;`)
	proto, ok := unit.Statements[0].(*tree.FunctionPrototype)
	if !ok {
		t.Fatalf("statement = %T, want *tree.FunctionPrototype", unit.Statements[0])
	}
	if proto.Name != "puts" {
		t.Fatalf("Name = %q, want puts", proto.Name)
	}
}
