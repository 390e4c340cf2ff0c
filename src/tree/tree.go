// Package tree implements the typed syntax/semantic tree: the
// sealed Statement and Expression unions, the compilation unit, and a
// visitor surface used by the ast.json printer.
//
// Rather than one generic node type dispatched through a type-erased
// function-pointer table, the unions here are sealed with unexported
// marker methods and one concrete struct per variant, dispatched with
// ordinary type switches — idiomatic Go, and it gives the resolver and
// emitter compile-time exhaustiveness instead of a runtime tag lookup.
package tree

import "la/src/types"

// Statement is implemented by every statement variant.
type Statement interface {
	stmt()
}

// Expression is implemented by every expression variant. Every expression
// carries a mutable ValueType slot: the parser seeds it with a
// best-effort placeholder and the resolver is the sole authority that
// fills it in for good.
type Expression interface {
	stmt() // expressions are usable in statement position (ExpressionStatement)
	expr()
	Type() types.Type
	SetType(types.Type)
	// IsConstant reports whether the expression is foldable to a
	// compile-time constant; the emitter consults this at module scope.
	IsConstant() bool
}

// ExprBase is embedded by every Expression variant to provide the mutable
// ValueType slot and a default (non-constant) IsConstant. Literal kinds
// that are always constant override IsConstant explicitly. It is exported
// (unlike the sealed Statement/Expression interfaces themselves) so that
// the parser, which lives in a different package, can populate it in a
// struct literal when it builds each node.
type ExprBase struct {
	ValueType types.Type
}

func (e *ExprBase) stmt()                {}
func (e *ExprBase) expr()                {}
func (e *ExprBase) Type() types.Type     { return e.ValueType }
func (e *ExprBase) SetType(t types.Type) { e.ValueType = t }
func (e *ExprBase) IsConstant() bool     { return false }

// Base returns a fresh ExprBase with the placeholder None type, the
// parser's default for any expression whose type isn't known until the
// resolver runs.
func Base() ExprBase { return ExprBase{ValueType: types.None} }

// BaseWith returns a fresh ExprBase seeded with a known best-effort type,
// used for literals the parser can classify directly (numbers, strings,
// booleans, ...).
func BaseWith(t types.Type) ExprBase { return ExprBase{ValueType: t} }

// Unit is the compilation unit: an ordered sequence of
// top-level statements. The unit owns all tree nodes; later phases mutate
// annotation slots in place but never delete nodes.
type Unit struct {
	File       string
	Statements []Statement
}
