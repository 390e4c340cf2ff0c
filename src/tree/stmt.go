package tree

import (
	"la/src/token"
	"la/src/types"
)

// stmtMarker is embedded by pure-statement variants (those that are not
// also Expressions) to implement Statement.
type stmtMarker struct{}

func (stmtMarker) stmt() {}

// Block is a brace-delimited sequence of statements; it introduces a new
// lexical scope.
type Block struct {
	stmtMarker
	Span  token.Span
	Body  []Statement
}

// ConstDeclaration binds an immutable name to a value.
type ConstDeclaration struct {
	stmtMarker
	Span  token.Span
	Name  string
	Value Expression
}

// FieldDeclaration is `var name [: Type] [= value];`. ExplicitType records
// whether an annotation was written (vs. inferred from Value); Global
// marks a top-level declaration, whose initializer must be a compile-time
// constant.
type FieldDeclaration struct {
	stmtMarker
	Span         token.Span
	Name         string
	Annotation   types.Type
	ExplicitType bool
	Value        Expression
	Global       bool
}

// DestructuringDeclaration is `var (a, b, c) = tupleExpr;`, legal only at
// function scope.
type DestructuringDeclaration struct {
	stmtMarker
	Span  token.Span
	Names []string
	Value Expression
}

// Param is one function/prototype parameter.
type Param struct {
	Name string
	Type types.Type
}

// FunctionPrototype is an `@extern` declaration with no body.
type FunctionPrototype struct {
	stmtMarker
	Span       token.Span
	Name       string
	Params     []Param
	Return     types.Type
	HasVarargs bool
	Varargs    types.Type
}

// IntrinsicPrototype is an `@intrinsic(native_name)` declaration with no
// body, delegated at emission time to a known IR-library intrinsic.
type IntrinsicPrototype struct {
	stmtMarker
	Span       token.Span
	Name       string
	NativeName string
	Params     []Param
	Return     types.Type
}

// FunctionDeclaration is a `fun name<generics>(params) Return { body }`
// declaration. Generic declarations (len(GenericNames) > 0) are stored
// unresolved by the resolver and monomorphized on use.
type FunctionDeclaration struct {
	stmtMarker
	Span          token.Span
	Name          string
	GenericNames  []string
	Params        []Param
	Return        types.Type
	Body          []Statement
	ResolvedType  *types.Function
	// MonomorphizedName is set once a generic instantiation has a
	// concrete, mangled name.
	MonomorphizedName string
}

// OperatorFunctionDeclaration overloads an operator token for one or more
// non-primitive operand types.
type OperatorFunctionDeclaration struct {
	stmtMarker
	Span         token.Span
	Op           token.Kind
	Prefix       bool
	Postfix      bool
	Params       []Param
	Return       types.Type
	Body         []Statement
	ResolvedType *types.Function
	MangledName  string
}

// FieldDef is one field of a struct declaration.
type FieldDef struct {
	Name string
	Type types.Type
}

// StructDeclaration declares a (possibly generic) struct type.
type StructDeclaration struct {
	stmtMarker
	Span              token.Span
	Name              string
	GenericParameters []string
	Fields            []FieldDef
	IsPacked          bool
	IsExtern          bool
	ResolvedType      *types.Struct
}

// EnumMember is one `Name[ = value]` of an enum declaration.
type EnumMember struct {
	Name  string
	Value *int64 // nil if the discriminant is implicit (previous + 1)
}

// EnumDeclaration declares an enum whose element type must be an integer
// kind.
type EnumDeclaration struct {
	stmtMarker
	Span         token.Span
	Name         string
	Element      types.Type
	Members      []EnumMember
	ResolvedType *types.Enum
}

// IfBranch is one `if`/`else if` arm of an If statement.
type IfBranch struct {
	Condition Expression
	Body      []Statement
}

// If is the statement-position chain of (condition, body) arms with an
// optional trailing else.
type If struct {
	stmtMarker
	Span      token.Span
	Branches  []IfBranch
	Else      []Statement
	HasElse   bool
}

// SwitchCase is one `case values -> body` arm of a switch statement.
type SwitchCase struct {
	Values []Expression
	Body   []Statement
}

// Switch is the statement-position switch.
type Switch struct {
	stmtMarker
	Span                       token.Span
	Argument                   Expression
	Cases                      []SwitchCase
	Default                    []Statement
	HasDefault                 bool
	Op                         token.Kind
	ShouldPerformCompleteCheck bool
}

// ForRange is `for name = start, end[, step] { body }`.
type ForRange struct {
	stmtMarker
	Span     token.Span
	Name     string
	Start    Expression
	End      Expression
	Step     Expression
	HasStep  bool
	Body     []Statement
}

// ForEach is `for elem[, index] in collection { body }`.
// Either binding name may be "_" to skip that binding.
type ForEach struct {
	stmtMarker
	Span       token.Span
	ElemName   string
	IndexName  string
	HasIndex   bool
	Collection Expression
	Body       []Statement
}

// ForEver is the unconditional `for { body }` loop.
type ForEver struct {
	stmtMarker
	Span token.Span
	Body []Statement
}

// While is `while condition { body }`.
type While struct {
	stmtMarker
	Span      token.Span
	Condition Expression
	Body      []Statement
}

// Return is `return [value];`.
type Return struct {
	stmtMarker
	Span  token.Span
	Value Expression
	HasValue bool
}

// Defer is `defer call-expression;` — the parser only accepts a call
// expression as the deferred form.
type Defer struct {
	stmtMarker
	Span token.Span
	Call *CallExpr
}

// Break is `break [N];`, N defaulting to 1 and required positive.
type Break struct {
	stmtMarker
	Span  token.Span
	Times int
}

// Continue is `continue [N];`, N defaulting to 1 and required positive.
type Continue struct {
	stmtMarker
	Span  token.Span
	Times int
}

// Load is a parsed `load "path";` / `import "path";` statement. No module
// graph elaboration exists: this node exists so the grammar accepts the
// syntax, but the resolver and emitter both treat it as a no-op.
type Load struct {
	stmtMarker
	Span token.Span
	Path string
}

// ExpressionStatement wraps an Expression used in statement position
// (e.g. a bare call). Expression already implements Statement directly,
// but this wrapper lets a driver-side visitor distinguish "a statement
// that happens to be an expression" from the sites where an Expression is
// embedded structurally (If/Switch conditions, call arguments, etc).
type ExpressionStatement struct {
	stmtMarker
	Span token.Span
	Expr Expression
}
