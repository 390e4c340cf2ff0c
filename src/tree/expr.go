package tree

import (
	"la/src/token"
	"la/src/types"
)

// IfExpr is the expression-position form of if/else; unlike
// the statement form it always carries an else.
type IfExpr struct {
	ExprBase
	Span      token.Span
	Condition Expression
	Then      Expression
	Else      Expression
}

// IsConstant holds iff the condition and both branches are constant.
func (i *IfExpr) IsConstant() bool {
	return i.Condition.IsConstant() && i.Then.IsConstant() && i.Else.IsConstant()
}

// SwitchCaseExpr is one `case values -> body` arm of a switch expression.
type SwitchCaseExpr struct {
	Values []Expression
	Body   Expression
}

// SwitchExpr is the expression-position form of switch. A switch expression requires an else branch
// unless the argument is an enum and all elements are covered.
type SwitchExpr struct {
	ExprBase
	Span                      token.Span
	Argument                  Expression
	Cases                     []SwitchCaseExpr
	Else                      Expression
	HasElse                   bool
	Op                        token.Kind
	ShouldPerformCompleteCheck bool
}

// IsConstant holds iff the argument and every case/else body are
// constant.
func (s *SwitchExpr) IsConstant() bool {
	if !s.Argument.IsConstant() {
		return false
	}
	for _, c := range s.Cases {
		if !c.Body.IsConstant() {
			return false
		}
	}
	return !s.HasElse || s.Else.IsConstant()
}

// TupleExpr is a tuple literal `(a, b, c)`.
type TupleExpr struct {
	ExprBase
	Span     token.Span
	Elements []Expression
}

// IsConstant holds iff every element is constant.
func (t *TupleExpr) IsConstant() bool {
	for _, e := range t.Elements {
		if !e.IsConstant() {
			return false
		}
	}
	return true
}

// AssignExpr is `lhs = rhs` and the compound forms `lhs op= rhs`; Op is the
// assignment token as scanned (token.Equal, token.PlusEqual, ...).
type AssignExpr struct {
	ExprBase
	Span token.Span
	Op   token.Kind
	LHS  Expression
	RHS  Expression
}

// BinaryExpr covers arithmetic `+ - * / %`.
type BinaryExpr struct {
	ExprBase
	Span  token.Span
	Op    token.Kind
	Left  Expression
	Right Expression
}

// IsConstant holds iff both operands are constant.
func (b *BinaryExpr) IsConstant() bool { return b.Left.IsConstant() && b.Right.IsConstant() }

// BitwiseExpr covers `& | ^ << >>`.
type BitwiseExpr struct {
	ExprBase
	Span  token.Span
	Op    token.Kind
	Left  Expression
	Right Expression
}

// IsConstant holds iff both operands are constant.
func (b *BitwiseExpr) IsConstant() bool { return b.Left.IsConstant() && b.Right.IsConstant() }

// ComparisonExpr covers `== != < <= > >=`.
type ComparisonExpr struct {
	ExprBase
	Span  token.Span
	Op    token.Kind
	Left  Expression
	Right Expression
}

// IsConstant holds iff both operands are constant.
func (c *ComparisonExpr) IsConstant() bool { return c.Left.IsConstant() && c.Right.IsConstant() }

// LogicalExpr covers `&& ||`.
type LogicalExpr struct {
	ExprBase
	Span  token.Span
	Op    token.Kind
	Left  Expression
	Right Expression
}

// IsConstant holds iff both operands are constant.
func (l *LogicalExpr) IsConstant() bool { return l.Left.IsConstant() && l.Right.IsConstant() }

// PrefixUnaryExpr covers `- ! ~ ++ -- * &` in prefix position. `++`/`--`
// and `&`/`*` are never constant (they read or take the address of a
// storage location).
type PrefixUnaryExpr struct {
	ExprBase
	Span    token.Span
	Op      token.Kind
	Operand Expression
}

func (p *PrefixUnaryExpr) IsConstant() bool {
	switch p.Op {
	case token.PlusPlus, token.MinusMinus, token.Amp, token.Star:
		return false
	}
	return p.Operand.IsConstant()
}

// PostfixUnaryExpr covers `++ --` in postfix position; never constant.
type PostfixUnaryExpr struct {
	ExprBase
	Span    token.Span
	Op      token.Kind
	Operand Expression
}

// CallExpr is a function call, with optional explicit generic arguments
// (`id<int64>(42)`).
type CallExpr struct {
	ExprBase
	Span           token.Span
	Callee         Expression
	Arguments      []Expression
	GenericArgs    []types.Type
	ResolvedTarget *types.Function
}

// InitField is one `name: value` pair of a struct/tuple initializer.
type InitField struct {
	Name  string
	Value Expression
}

// InitExpr is a struct or tuple literal `S { a: 1, b: 2 }` / `(1, 2)` with
// named fields; positional tuple literals use TupleExpr instead.
type InitExpr struct {
	ExprBase
	Span      token.Span
	TypeName  string
	Generics  []types.Type
	Fields    []InitField
}

// IsConstant holds iff every field value is constant.
func (i *InitExpr) IsConstant() bool {
	for _, f := range i.Fields {
		if !f.Value.IsConstant() {
			return false
		}
	}
	return true
}

// LambdaParam is one explicit lambda parameter.
type LambdaParam struct {
	Name string
	Type types.Type
}

// ImplicitCapture is a lambda's inferred capture: a name resolved from an
// enclosing scope, re-bound as an implicit leading parameter.
type ImplicitCapture struct {
	Name string
	Type types.Type
}

// LambdaExpr is `fun (params) -> ret { body }`. ImplicitCaptures starts
// empty and is populated by the resolver; FuncType is finalized only once
// captures are known (implicit params prepended to explicit ones).
type LambdaExpr struct {
	ExprBase
	Span              token.Span
	Params            []LambdaParam
	ReturnType        types.Type
	Body              []Statement
	ImplicitCaptures  []ImplicitCapture
	FuncType          *types.Function
	// NoCapturesAllowed is set by the parser when the lambda appears in a
	// call-argument position, where capturing is illegal.
	NoCapturesAllowed bool
}

// DotExpr is `target.name`, covering struct/tuple field access, pointer
// autoderef, and the `.count` pseudo-field on strings/arrays/vectors.
type DotExpr struct {
	ExprBase
	Span       token.Span
	Target     Expression
	Name       string
	FieldIndex int
}

// IsConstant holds for `.count` on a string literal, and on array/vector
// targets (whose size is always known at compile time); field/tuple
// access defers to the ExprBase default.
func (d *DotExpr) IsConstant() bool {
	if d.Name != "count" {
		return false
	}
	switch d.Target.(type) {
	case *StringExpr, *ArrayExpr, *VectorExpr:
		return true
	}
	switch d.Target.Type().(type) {
	case types.StaticArray, types.StaticVector:
		return true
	}
	return false
}

// CastExpr is `cast(target-type) value` (validated against the type
// model's castability rule by the resolver).
type CastExpr struct {
	ExprBase
	Span   token.Span
	Target types.Type
	Value  Expression
}

func (c *CastExpr) IsConstant() bool { return c.Value.IsConstant() }

// TypeSizeExpr is `type_size(T)`, always an i64 constant.
type TypeSizeExpr struct {
	ExprBase
	Span token.Span
	Of   types.Type
}

func (t *TypeSizeExpr) IsConstant() bool { return true }

// TypeAlignExpr is `type_align(T)`, always an i64 constant.
type TypeAlignExpr struct {
	ExprBase
	Span token.Span
	Of   types.Type
}

func (t *TypeAlignExpr) IsConstant() bool { return true }

// ValueSizeExpr is `value_size(expr)`, always an i64 constant.
type ValueSizeExpr struct {
	ExprBase
	Span token.Span
	Of   Expression
}

func (v *ValueSizeExpr) IsConstant() bool { return true }

// IndexExpr is `target[index]`.
type IndexExpr struct {
	ExprBase
	Span   token.Span
	Target Expression
	Index  Expression
}

func (i *IndexExpr) IsConstant() bool { return i.Target.IsConstant() && i.Index.IsConstant() }

// EnumAccessExpr is `Enum::Member`; always constant (a discriminant).
type EnumAccessExpr struct {
	ExprBase
	Span     token.Span
	EnumName string
	Member   string
}

func (e *EnumAccessExpr) IsConstant() bool { return true }

// ArrayExpr is a static-array literal `[1, 2, 3]`.
type ArrayExpr struct {
	ExprBase
	Span     token.Span
	Elements []Expression
}

// IsConstant holds iff every element is constant.
func (a *ArrayExpr) IsConstant() bool {
	for _, e := range a.Elements {
		if !e.IsConstant() {
			return false
		}
	}
	return true
}

// VectorExpr is a SIMD-vector literal `<1, 2, 3, 4>`.
type VectorExpr struct {
	ExprBase
	Span     token.Span
	Elements []Expression
}

// IsConstant holds iff every element is constant.
func (v *VectorExpr) IsConstant() bool {
	for _, e := range v.Elements {
		if !e.IsConstant() {
			return false
		}
	}
	return true
}

// StringExpr is a string literal; always constant.
type StringExpr struct {
	ExprBase
	Span  token.Span
	Value string
}

func (s *StringExpr) IsConstant() bool { return true }

// LiteralExpr is an identifier use; not to be confused with a
// numeric/string/char constant.
type LiteralExpr struct {
	ExprBase
	Span token.Span
	Name string
}

// NumberExpr is a numeric literal; always constant. Kind is the
// refined NumberKind once the resolver has classified it; Unclassified is
// true when the lexer produced an unsuffixed Int/Float token.
type NumberExpr struct {
	ExprBase
	Span          token.Span
	Text          string
	IsFloat       bool
	Kind          types.NumberKind
	Unclassified  bool
}

func (n *NumberExpr) IsConstant() bool { return true }

// CharacterExpr is a character literal; always constant.
type CharacterExpr struct {
	ExprBase
	Span  token.Span
	Value byte
}

func (c *CharacterExpr) IsConstant() bool { return true }

// BoolExpr is `true`/`false`; always constant.
type BoolExpr struct {
	ExprBase
	Span  token.Span
	Value bool
}

func (b *BoolExpr) IsConstant() bool { return true }

// NullExpr is the `null` literal; always constant. Base starts nil and is
// set by the resolver the first time null meets a concrete pointer type.
type NullExpr struct {
	ExprBase
	Span token.Span
	Base types.Type
}

func (n *NullExpr) IsConstant() bool { return true }

// UndefinedExpr is the `undefined` literal (lexed from `---`); always
// constant, and the emitter lowers it to an LLVM `undef` value.
type UndefinedExpr struct {
	ExprBase
	Span token.Span
}

func (u *UndefinedExpr) IsConstant() bool { return true }

// InfinityExpr is the floating-point infinity literal; always constant.
type InfinityExpr struct {
	ExprBase
	Span     token.Span
	Negative bool
}

func (i *InfinityExpr) IsConstant() bool { return true }
