package resolve

import (
	"la/src/diag"
	"la/src/token"
	"la/src/tree"
	"la/src/types"
)

// resolveTypeRef turns a type as written by the parser into a resolved
// type. The parser cannot tell a generic parameter name from a struct
// name from an as-yet-undeclared struct, so every bare name it emits comes
// through as a placeholder *types.Struct{Name: ...}; this is where that
// ambiguity is finally settled, against the generics set in scope (nil or
// empty outside a generic declaration) and the struct/enum declaration
// tables. GenericStruct placeholders are resolved parameter-wise and, once
// every parameter is concrete, monomorphized.
func (r *Resolver) resolveTypeRef(t types.Type, generics map[string]bool, span token.Span) types.Type {
	if t == nil {
		return types.Void
	}
	switch v := t.(type) {
	case *types.Struct:
		if generics[v.Name] {
			if c, ok := r.genericSubst[v.Name]; ok {
				return c
			}
			return types.GenericParameter{Name: v.Name}
		}
		if decl, ok := r.structDecls[v.Name]; ok && len(decl.GenericParameters) > 0 {
			r.sink.Errorf(span, diag.TypeErr, "generic type %q used without type arguments", v.Name)
			return types.None
		}
		if def, ok := r.structs[v.Name]; ok {
			return def
		}
		if et, ok := r.enums[v.Name]; ok {
			return et
		}
		r.sink.Errorf(span, diag.TypeErr, "unknown type %q", v.Name)
		return types.None
	case *types.GenericStruct:
		params := make([]types.Type, len(v.Parameters))
		for i, p := range v.Parameters {
			params[i] = r.resolveTypeRef(p, generics, span)
		}
		decl, ok := r.structDecls[v.Struct.Name]
		if !ok || len(decl.GenericParameters) != len(params) {
			r.sink.Errorf(span, diag.TypeErr, "unknown generic type %q", v.Struct.Name)
			return types.None
		}
		base := &types.Struct{Name: decl.Name, IsGeneric: true, GenericParameters: decl.GenericParameters}
		return r.monomorphizeGenericStruct(&types.GenericStruct{Struct: base, Parameters: params}, decl, span)
	case types.Pointer:
		return types.Pointer{Base: r.resolveTypeRef(v.Base, generics, span)}
	case types.StaticArray:
		return types.StaticArray{Element: r.resolveTypeRef(v.Element, generics, span), Size: v.Size}
	case types.StaticVector:
		e := r.resolveTypeRef(v.Array.Element, generics, span)
		return types.StaticVector{Array: types.StaticArray{Element: e, Size: v.Array.Size}}
	case types.Function:
		params := make([]types.Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = r.resolveTypeRef(p, generics, span)
		}
		nv := v
		nv.Params = params
		if v.Return != nil {
			nv.Return = r.resolveTypeRef(v.Return, generics, span)
		}
		return nv
	default:
		return t
	}
}

// monomorphizeGenericStruct interns the concrete struct named by mangling
// decl's name with the resolved parameter types,
// resolving each field exactly once per distinct parameter list.
func (r *Resolver) monomorphizeGenericStruct(gs *types.GenericStruct, decl *tree.StructDeclaration, span token.Span) *types.Struct {
	name := gs.Mangle()
	if existing, ok := r.structInsts[name]; ok {
		return existing
	}
	subst := make(map[string]types.Type, len(gs.Parameters))
	for i, pn := range gs.Struct.GenericParameters {
		if i < len(gs.Parameters) {
			subst[pn] = gs.Parameters[i]
		}
	}
	concrete := &types.Struct{
		Name:                  name,
		IsPacked:              gs.Struct.IsPacked,
		IsExtern:              gs.Struct.IsExtern,
		GenericParameters:     gs.Struct.GenericParameters,
		GenericParameterTypes: gs.Parameters,
	}
	r.structInsts[name] = concrete // present before resolving fields, guards recursive structs

	names := make(map[string]bool, len(gs.Struct.GenericParameters))
	for _, pn := range gs.Struct.GenericParameters {
		names[pn] = true
	}
	saved := r.genericSubst
	r.genericSubst = subst
	for _, f := range decl.Fields {
		concrete.FieldNames = append(concrete.FieldNames, f.Name)
		concrete.FieldTypes = append(concrete.FieldTypes, r.resolveTypeRef(f.Type, names, span))
	}
	r.genericSubst = saved
	return concrete
}
