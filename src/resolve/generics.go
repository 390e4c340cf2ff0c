package resolve

import (
	"la/src/diag"
	"la/src/token"
	"la/src/tree"
	"la/src/types"
)

// unify walks pattern (a parameter type that may mention names in names)
// against the concrete argument type arg, recording bindings into subst
//. It recurses through Pointer, StaticArray, StaticVector,
// Function, Tuple and GenericStruct; anything else falls back to
// structural equality.
func unify(pattern, arg types.Type, names map[string]bool, subst map[string]types.Type) bool {
	if types.IsNull(arg) || types.IsVoid(arg) {
		return false
	}
	switch p := pattern.(type) {
	case types.GenericParameter:
		if !names[p.Name] {
			return types.Equal(pattern, arg)
		}
		if existing, ok := subst[p.Name]; ok {
			return types.Equal(existing, arg)
		}
		subst[p.Name] = arg
		return true
	case types.Pointer:
		a, ok := arg.(types.Pointer)
		return ok && unify(p.Base, a.Base, names, subst)
	case types.StaticArray:
		a, ok := arg.(types.StaticArray)
		return ok && a.Size == p.Size && unify(p.Element, a.Element, names, subst)
	case types.StaticVector:
		a, ok := arg.(types.StaticVector)
		return ok && a.Array.Size == p.Array.Size && unify(p.Array.Element, a.Array.Element, names, subst)
	case types.Function:
		a, ok := arg.(types.Function)
		if !ok || len(a.Params) != len(p.Params) {
			return false
		}
		for i := range p.Params {
			if !unify(p.Params[i], a.Params[i], names, subst) {
				return false
			}
		}
		return unify(p.Return, a.Return, names, subst)
	case *types.Tuple:
		a, ok := arg.(*types.Tuple)
		if !ok || len(a.FieldTypes) != len(p.FieldTypes) {
			return false
		}
		for i := range p.FieldTypes {
			if !unify(p.FieldTypes[i], a.FieldTypes[i], names, subst) {
				return false
			}
		}
		return true
	case *types.GenericStruct:
		a, ok := arg.(*types.GenericStruct)
		if !ok || a.Struct.Name != p.Struct.Name || len(a.Parameters) != len(p.Parameters) {
			return false
		}
		for i := range p.Parameters {
			if !unify(p.Parameters[i], a.Parameters[i], names, subst) {
				return false
			}
		}
		return true
	case *types.Struct:
		a, ok := arg.(*types.Struct)
		return ok && a.Name == p.Name
	default:
		return types.Equal(pattern, arg)
	}
}

// monomorphizeGenericFunction performs type-parameter inference (unifying
// decl's raw parameter list against argTypes) followed by substitution,
// interning one resolved *types.Function per distinct mangled argument
// list. The body is resolved exactly once per distinct instantiation,
// under the generic substitution active for that instantiation.
func (r *Resolver) monomorphizeGenericFunction(decl *tree.FunctionDeclaration, argTypes []types.Type, explicit []types.Type, span token.Span) (*types.Function, bool) {
	names := make(map[string]bool, len(decl.GenericNames))
	for _, n := range decl.GenericNames {
		names[n] = true
	}
	subst := make(map[string]types.Type, len(names))
	if len(explicit) == len(decl.GenericNames) && len(explicit) > 0 {
		// Explicit generic arguments (`id<int64>(42)`) are trusted
		// directly, bypassing unification.
		for i, n := range decl.GenericNames {
			subst[n] = explicit[i]
		}
	} else {
		for i, p := range decl.Params {
			if i >= len(argTypes) {
				break
			}
			// p.Type is still the raw parser-produced placeholder; resolve
			// its generic-parameter occurrences against names before
			// unifying so a nested shape like *T or [4]T matches
			// structurally.
			raw := r.rawGenericShape(p.Type, names)
			unify(raw, argTypes[i], names, subst)
		}
	}
	for _, n := range decl.GenericNames {
		if _, ok := subst[n]; !ok {
			r.sink.Errorf(decl.Span, diag.TypeErr, "can't resolve generic type %q from arguments of %q", n, decl.Name)
			return nil, false
		}
	}
	mangledArgs := make([]types.Type, 0, len(decl.GenericNames))
	for _, n := range decl.GenericNames {
		mangledArgs = append(mangledArgs, subst[n])
	}
	name := decl.Name
	for _, t := range mangledArgs {
		name += t.Mangle()
	}
	if existing, ok := r.funcInstances[name]; ok {
		return existing, true
	}
	savedSubst := r.genericSubst
	r.genericSubst = subst
	ft := r.functionSignature(name, decl.Params, decl.Return, false, types.None, decl.Span, names)
	r.funcInstances[name] = ft // present before resolving the body, guards recursive calls

	r.scope.Push()
	for i, p := range decl.Params {
		r.scope.Define(p.Name, ft.Params[i])
	}
	r.returnStack.Push(ft.Return)
	for _, s := range decl.Body {
		r.resolveStatement(s)
	}
	r.returnStack.Pop()
	r.scope.Pop()
	r.genericSubst = savedSubst

	if !types.IsVoid(ft.Return) && !alwaysReturns(decl.Body) {
		r.sink.Errorf(decl.Span, diag.TypeErr, "function %q: missing return on some path", name)
	}
	return ft, true
}

// rawGenericShape resolves everything in t except bare names that are
// themselves a generic parameter, which unify needs to see as
// types.GenericParameter rather than the parser's placeholder *types.Struct.
func (r *Resolver) rawGenericShape(t types.Type, names map[string]bool) types.Type {
	return r.resolveTypeRef(t, names, token.Span{})
}
