package resolve

import (
	"strconv"
	"strings"

	"la/src/diag"
	"la/src/token"
	"la/src/tree"
	"la/src/types"
)

// parseLiteralInt parses a numeric literal's text as a signed integer,
// used by the shift-amount check. The tree's text still carries the
// lexer's `_` digit separators, so they are stripped here first.
func parseLiteralInt(text string) (int64, error) {
	return strconv.ParseInt(strings.ReplaceAll(text, "_", ""), 0, 64)
}

// resolveCall resolves the four callee forms: a plain function name, a
// local variable, an inline lambda literal, or an arbitrary expression.
func (r *Resolver) resolveCall(v *tree.CallExpr) {
	switch callee := v.Callee.(type) {
	case *tree.LiteralExpr:
		r.resolveCallByName(v, callee)
	case *tree.CallExpr:
		r.resolveExpr(callee)
		r.checkIndirectCall(v, callee.Type())
	case *tree.LambdaExpr:
		r.resolveExpr(callee)
		r.checkIndirectCall(v, callee.FuncType)
	case *tree.DotExpr:
		r.resolveExpr(callee)
		r.checkIndirectCall(v, callee.Type())
	default:
		r.resolveExpr(v.Callee)
		r.checkIndirectCall(v, v.Callee.Type())
	}
}

// resolveCallByName is form (i): a bare name, either a concrete function
// (possibly reached via a function-pointer variable) or a generic
// function declaration requiring inference and monomorphization.
func (r *Resolver) resolveCallByName(v *tree.CallExpr, callee *tree.LiteralExpr) {
	if decl, ok := r.genericFuncs[callee.Name]; ok {
		argTypes := r.resolveArguments(v.Arguments)
		ft, ok := r.monomorphizeGenericFunction(decl, argTypes, v.GenericArgs, v.Span)
		if !ok {
			v.SetType(types.None)
			return
		}
		callee.SetType(*ft)
		v.ResolvedTarget = ft
		r.checkArgsAgainst(v, ft)
		v.SetType(ft.Return)
		return
	}
	if ft, _, ok := r.scope.LookupLevel(callee.Name); ok {
		if fn, ok := ft.(types.Function); ok {
			callee.SetType(fn)
			v.ResolvedTarget = &fn
			r.resolveArgumentsAgainst(v, &fn)
			v.SetType(fn.Return)
			return
		}
		if p, ok := ft.(types.Pointer); ok {
			if fn, ok := p.Base.(types.Function); ok {
				callee.SetType(p)
				v.ResolvedTarget = &fn
				r.resolveArgumentsAgainst(v, &fn)
				v.SetType(fn.Return)
				return
			}
		}
		r.sink.Errorf(v.Span, diag.TypeErr, "%q is not callable", callee.Name)
		v.SetType(types.None)
		return
	}
	// Not a local/parameter: a bare call by name of an ordinary top-level
	// function (the common case) resolves through the signature table
	// instead, since function names live in r.funcs rather than r.scope.
	if fn, ok := r.funcs[callee.Name]; ok {
		callee.SetType(*fn)
		v.ResolvedTarget = fn
		r.resolveArgumentsAgainst(v, fn)
		v.SetType(fn.Return)
		return
	}
	r.sink.Errorf(v.Span, diag.TypeErr, "undefined function %q", callee.Name)
	v.SetType(types.None)
}

// checkIndirectCall covers forms (ii)-(iv): the callee expression's own
// type must resolve to a Function (directly, or through one level of
// Pointer-to-Function for a loaded function-pointer value).
func (r *Resolver) checkIndirectCall(v *tree.CallExpr, calleeType types.Type) {
	fn, ok := calleeType.(types.Function)
	if !ok {
		if p, pok := calleeType.(types.Pointer); pok {
			fn, ok = p.Base.(types.Function)
		}
	}
	if !ok {
		r.sink.Errorf(v.Span, diag.TypeErr, "call target is not a function, got %s", calleeType)
		v.SetType(types.None)
		return
	}
	v.ResolvedTarget = &fn
	r.resolveArgumentsAgainst(v, &fn)
	v.SetType(fn.Return)
}

func (r *Resolver) resolveArguments(args []tree.Expression) []types.Type {
	out := make([]types.Type, len(args))
	for i, a := range args {
		r.resolveExpr(a)
		out[i] = a.Type()
	}
	return out
}

// resolveArgumentsAgainst resolves each argument (if not already resolved)
// and checks it against ft's parameter/varargs list, applying the
// null-to-pointer and empty-array-to-typed-array adoptions uniformly
// across every callee form.
func (r *Resolver) resolveArgumentsAgainst(v *tree.CallExpr, ft *types.Function) {
	for _, a := range v.Arguments {
		if types.IsNone(a.Type()) {
			r.resolveExpr(a)
		}
	}
	r.checkArgsAgainst(v, ft)
}

// checkArgsAgainst checks arity and, for each declared parameter, applies
// the adoption rules and a type match. Arguments past the declared
// parameters are accepted as-is for a varargs function: they were already
// resolved in resolveArgumentsAgainst and carry no further constraint.
func (r *Resolver) checkArgsAgainst(v *tree.CallExpr, ft *types.Function) {
	if len(v.Arguments) < len(ft.Params) || (!ft.HasVarargs && len(v.Arguments) != len(ft.Params)) {
		r.sink.Errorf(v.Span, diag.TypeErr, "%s: expected %d arguments, got %d", ft.Name, len(ft.Params), len(v.Arguments))
		return
	}
	for i, param := range ft.Params {
		arg := v.Arguments[i]
		r.adoptArgument(arg, param)
		if !types.Equal(arg.Type(), param) && !types.IsNone(arg.Type()) {
			r.sink.Errorf(v.Span, diag.TypeErr, "argument %d: expected %s, got %s", i+1, param, arg.Type())
		}
	}
}

// adoptArgument applies the null-to-pointer-parameter and
// empty-array-to-typed-array-parameter adoptions.
func (r *Resolver) adoptArgument(arg tree.Expression, param types.Type) {
	if n, ok := arg.(*tree.NullExpr); ok && types.IsNull(arg.Type()) {
		if p, ok := types.AsPointer(param); ok {
			n.Base = param
			n.SetType(p)
		}
		return
	}
	if a, ok := arg.(*tree.ArrayExpr); ok && len(a.Elements) == 0 {
		if pa, ok := param.(types.StaticArray); ok {
			a.SetType(types.StaticArray{Element: pa.Element, Size: 0})
		}
	}
}

// resolveInitExpr resolves a struct or tuple initializer `Name { field:
// value, ... }`.
func (r *Resolver) resolveInitExpr(v *tree.InitExpr) {
	for _, f := range v.Fields {
		r.resolveExpr(f.Value)
	}
	var st *types.Struct
	if len(v.Generics) > 0 {
		params := make([]types.Type, len(v.Generics))
		for i, g := range v.Generics {
			params[i] = r.resolveTypeRef(g, nil, v.Span)
		}
		decl, ok := r.structDecls[v.TypeName]
		if !ok {
			r.sink.Errorf(v.Span, diag.TypeErr, "unknown generic type %q", v.TypeName)
			v.SetType(types.None)
			return
		}
		base := &types.Struct{Name: decl.Name, IsGeneric: true, GenericParameters: decl.GenericParameters}
		st = r.monomorphizeGenericStruct(&types.GenericStruct{Struct: base, Parameters: params}, decl, v.Span)
	} else {
		var ok bool
		st, ok = r.structs[v.TypeName]
		if !ok {
			r.sink.Errorf(v.Span, diag.TypeErr, "unknown struct type %q", v.TypeName)
			v.SetType(types.None)
			return
		}
	}
	for _, f := range v.Fields {
		idx := st.FieldIndex(f.Name)
		if idx < 0 {
			r.sink.Errorf(v.Span, diag.TypeErr, "struct %q has no field %q", st.Name, f.Name)
			continue
		}
		r.adoptArgument(f.Value, st.FieldTypes[idx])
		if !types.Equal(f.Value.Type(), st.FieldTypes[idx]) && !types.IsNone(f.Value.Type()) {
			r.sink.Errorf(v.Span, diag.TypeErr, "field %q: expected %s, got %s", f.Name, st.FieldTypes[idx], f.Value.Type())
		}
	}
	v.SetType(st)
}

// resolveLambda resolves explicit parameter types under a fresh scope,
// tracks the lambda as the active capture frame, and
// finalizes FuncType by prepending implicit-capture types to the explicit
// parameter list. A lambda in call-argument position must end up with no
// captures (NoCapturesAllowed, set by the parser).
func (r *Resolver) resolveLambda(v *tree.LambdaExpr) {
	parentLevel := r.scope.CurrentLevel()
	r.scope.Push()
	paramTypes := make([]types.Type, len(v.Params))
	for i := range v.Params {
		v.Params[i].Type = r.resolveTypeRef(v.Params[i].Type, nil, v.Span)
		paramTypes[i] = v.Params[i].Type
		r.scope.Define(v.Params[i].Name, paramTypes[i])
	}
	retType := r.resolveTypeRef(v.ReturnType, nil, v.Span)

	frame := &lambdaFrame{lam: v, parentLevel: parentLevel, capturedSeen: map[string]bool{}}
	r.lambdaStack = append(r.lambdaStack, frame)
	r.returnStack.Push(retType)
	for _, s := range v.Body {
		r.resolveStatement(s)
	}
	r.returnStack.Pop()
	r.lambdaStack = r.lambdaStack[:len(r.lambdaStack)-1]
	r.scope.Pop()

	if v.NoCapturesAllowed && len(v.ImplicitCaptures) > 0 {
		r.sink.Errorf(v.Span, diag.TypeErr, "lambda passed as a call argument may not capture outer-scope names")
	}

	allParams := make([]types.Type, 0, len(v.ImplicitCaptures)+len(paramTypes))
	for _, c := range v.ImplicitCaptures {
		allParams = append(allParams, c.Type)
	}
	allParams = append(allParams, paramTypes...)
	v.FuncType = &types.Function{
		Params:             allParams,
		Return:             retType,
		ImplicitParamCount: uint32(len(v.ImplicitCaptures)),
	}
	v.SetType(*v.FuncType)

	if !types.IsVoid(retType) && !alwaysReturns(v.Body) {
		r.sink.Errorf(v.Span, diag.TypeErr, "lambda: missing return on some path")
	}
}

// resolveDot implements the Dot contract: struct field
// access (with pointer autoderef), tuple numeric-index access, and the
// `.count` pseudo-field on strings/arrays/vectors.
func (r *Resolver) resolveDot(v *tree.DotExpr) {
	r.resolveExpr(v.Target)
	t := v.Target.Type()
	if p, ok := types.AsPointer(t); ok {
		if _, isStruct := p.Base.(*types.Struct); isStruct {
			t = p.Base
		} else if n, ok := types.AsNumber(p.Base); ok && n == types.I8 && v.Name == "count" {
			// *i8 string .count resolves to i64; codegen folds it to a
			// constant for a string literal and emits a runtime NUL scan otherwise.
			v.SetType(types.Number{Kind: types.I64})
			return
		}
	}
	switch st := t.(type) {
	case *types.Struct:
		idx := st.FieldIndex(v.Name)
		if idx < 0 {
			r.sink.Errorf(v.Span, diag.TypeErr, "struct %q has no field %q", st.Name, v.Name)
			v.SetType(types.None)
			return
		}
		v.FieldIndex = idx
		v.SetType(st.FieldTypes[idx])
	case *types.Tuple:
		idx, err := strconv.Atoi(v.Name)
		if err != nil || idx < 0 || idx >= len(st.FieldTypes) {
			r.sink.Errorf(v.Span, diag.TypeErr, "tuple accessor must be a valid numeric index, got %q", v.Name)
			v.SetType(types.None)
			return
		}
		v.FieldIndex = idx
		v.SetType(st.FieldTypes[idx])
	case types.StaticArray:
		if v.Name != "count" {
			r.sink.Errorf(v.Span, diag.TypeErr, "array has no field %q", v.Name)
			v.SetType(types.None)
			return
		}
		v.SetType(types.Number{Kind: types.I64})
	case types.StaticVector:
		if v.Name != "count" {
			r.sink.Errorf(v.Span, diag.TypeErr, "vector has no field %q", v.Name)
			v.SetType(types.None)
			return
		}
		v.SetType(types.Number{Kind: types.I64})
	default:
		r.sink.Errorf(v.Span, diag.TypeErr, "cannot access field %q on type %s", v.Name, t)
		v.SetType(types.None)
	}
}
