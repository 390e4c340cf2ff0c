// Package resolve implements the single post-order type-resolution walk
// over a parsed compilation unit: name/type binding,
// monomorphization of generic functions and structs, operator-overload
// resolution, lambda capture inference, missing-return analysis and
// switch-exhaustiveness checking.
//
// The walk mutates the tree in place (post-order, switch on node kind)
// and treats two numeric operands as compatible only when their kinds are
// equal, with types.Equal deciding over the full type lattice in src/types.
package resolve

import (
	"la/src/diag"
	"la/src/token"
	"la/src/tree"
	"la/src/types"
	"la/src/util"
)

// lambdaFrame tracks one active lambda body: the scope level of the
// lambda's enclosing environment, and the set of names already
// folded into its implicit-parameter list.
type lambdaFrame struct {
	lam          *tree.LambdaExpr
	parentLevel  int
	capturedSeen map[string]bool
}

// Resolver owns every piece of state the single post-order walk needs: the
// scoped name/type table, the declaration tables that let forward
// references between functions/structs/enums resolve, the pending generic
// substitution used while instantiating a generic function or struct, the
// nested return-type stack and the lambda-frame stack.
type Resolver struct {
	sink  *diag.Sink
	scope *util.ScopedMap[types.Type]

	funcs        map[string]*types.Function          // resolved non-generic function signatures
	genericFuncs map[string]*tree.FunctionDeclaration // unresolved generic declarations, by name
	funcInstances map[string]*types.Function          // monomorphized generic-function instances, by mangled name

	structDecls map[string]*tree.StructDeclaration // every struct declaration, generic or not
	structs     map[string]*types.Struct            // resolved non-generic struct types
	structInsts map[string]*types.Struct            // monomorphized generic-struct instances, by mangled name

	enums map[string]*types.Enum

	operators map[string]*types.Function // operator overloads, keyed by mangled name

	tupleInsts map[string]*types.Tuple // interned tuple types, keyed by mangled name

	genericSubst map[string]types.Type // active substitution while resolving inside a generic instantiation

	returnStack  util.Stack[types.Type]
	lambdaStack  []*lambdaFrame

	// loopDepth tracks how many loop statements (ForRange/ForEach/ForEver/
	// While) enclose the statement currently being resolved, used to
	// validate `break N;`/`continue N;` against the enclosing nesting depth.
	loopDepth int
}

// New returns a Resolver ready to process one compilation unit.
func New(sink *diag.Sink) *Resolver {
	return &Resolver{
		sink:          sink,
		scope:         util.NewScopedMap[types.Type](),
		funcs:         make(map[string]*types.Function),
		genericFuncs:  make(map[string]*tree.FunctionDeclaration),
		funcInstances: make(map[string]*types.Function),
		structDecls:   make(map[string]*tree.StructDeclaration),
		structs:       make(map[string]*types.Struct),
		structInsts:   make(map[string]*types.Struct),
		enums:         make(map[string]*types.Enum),
		operators:     make(map[string]*types.Function),
		tupleInsts:    make(map[string]*types.Tuple),
	}
}

// Resolve runs the resolver over unit in place: every Expression's
// ValueType slot and every declaration's Resolved* field is filled in (or
// the sink gains a diag.TypeErr diagnostic and resolution of that node
// stops short). Two sweeps over the top-level statements: the first
// registers every struct/enum/function signature so mutually-recursive
// top-level declarations see each other regardless of source order; the
// second resolves struct fields, global initializers and function/operator
// bodies.
func Resolve(unit *tree.Unit, sink *diag.Sink) {
	r := New(sink)
	for _, s := range unit.Statements {
		r.declareSignature(s)
	}
	for _, s := range unit.Statements {
		r.resolveTopLevel(s)
	}
}

// declareSignature is the first sweep: record names and shapes without
// resolving bodies, so later declarations can reference earlier ones and
// vice versa.
func (r *Resolver) declareSignature(s tree.Statement) {
	switch d := s.(type) {
	case *tree.StructDeclaration:
		r.structDecls[d.Name] = d
		if len(d.GenericParameters) == 0 {
			r.structs[d.Name] = &types.Struct{Name: d.Name, IsPacked: d.IsPacked, IsExtern: d.IsExtern}
		}
	case *tree.EnumDeclaration:
		r.declareEnum(d)
	case *tree.FunctionDeclaration:
		if len(d.GenericNames) > 0 {
			r.genericFuncs[d.Name] = d
			return
		}
		ft := r.functionSignature(d.Name, d.Params, d.Return, false, types.None, d.Span, nil)
		r.funcs[d.Name] = ft
	case *tree.FunctionPrototype:
		ft := r.functionSignature(d.Name, d.Params, d.Return, d.HasVarargs, d.Varargs, d.Span, nil)
		r.funcs[d.Name] = ft
	case *tree.IntrinsicPrototype:
		ft := r.functionSignature(d.Name, d.Params, d.Return, false, types.None, d.Span, nil)
		ft.IsIntrinsic = true
		r.funcs[d.Name] = ft
	}
}

// functionSignature resolves a parameter/return list into a *types.Function
// under the (possibly nil) generic-name set. Called both for ordinary
// declarations and while instantiating a generic one.
func (r *Resolver) functionSignature(name string, params []tree.Param, ret types.Type, hasVarargs bool, varargs types.Type, span token.Span, generics map[string]bool) *types.Function {
	pts := make([]types.Type, len(params))
	for i, p := range params {
		pts[i] = r.resolveTypeRef(p.Type, generics, span)
	}
	rt := r.resolveTypeRef(ret, generics, span)
	var vt types.Type
	if hasVarargs {
		vt = r.resolveTypeRef(varargs, generics, span)
	}
	return &types.Function{Name: name, Params: pts, Return: rt, HasVarargs: hasVarargs, Varargs: vt}
}

func (r *Resolver) declareEnum(d *tree.EnumDeclaration) {
	elem := r.resolveTypeRef(d.Element, nil, d.Span)
	kind, ok := types.AsNumber(elem)
	if !ok || !kind.IsInteger() {
		r.sink.Errorf(d.Span, diag.TypeErr, "enum %q element type must be an integer", d.Name)
		return
	}
	if kind == types.I1 && len(d.Members) > 2 {
		r.sink.Errorf(d.Span, diag.TypeErr, "i1-typed enum %q cannot have more than two members", d.Name)
	}
	values := make([]types.EnumValue, 0, len(d.Members))
	next := uint32(0)
	for _, m := range d.Members {
		v := next
		if m.Value != nil {
			v = uint32(*m.Value)
		}
		values = append(values, types.EnumValue{Name: m.Name, Value: v})
		next = v + 1
	}
	et := &types.Enum{Name: d.Name, Values: values, Element: elem}
	d.ResolvedType = et
	r.enums[d.Name] = et
}

// resolveTopLevel is the second sweep.
func (r *Resolver) resolveTopLevel(s tree.Statement) {
	switch d := s.(type) {
	case *tree.StructDeclaration:
		r.resolveStructDecl(d)
	case *tree.EnumDeclaration:
		// fully handled in declareSignature.
	case *tree.ConstDeclaration:
		r.resolveConstDeclaration(d)
	case *tree.FieldDeclaration:
		r.resolveFieldDeclaration(d)
	case *tree.FunctionPrototype, *tree.IntrinsicPrototype:
		// no body to resolve.
	case *tree.FunctionDeclaration:
		r.resolveFunctionBody(d)
	case *tree.OperatorFunctionDeclaration:
		r.resolveOperatorFunctionDecl(d)
	}
}

func numberOf(t types.Type) (types.NumberKind, bool) { return types.AsNumber(t) }
