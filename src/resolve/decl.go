package resolve

import (
	"la/src/diag"
	"la/src/tree"
	"la/src/types"
)

// resolveStructDecl resolves the field list of a non-generic struct
// (generic ones are resolved lazily, once per distinct instantiation, by
// monomorphizeGenericStruct).
func (r *Resolver) resolveStructDecl(d *tree.StructDeclaration) {
	if len(d.GenericParameters) > 0 {
		return
	}
	st := r.structs[d.Name]
	for _, f := range d.Fields {
		st.FieldNames = append(st.FieldNames, f.Name)
		st.FieldTypes = append(st.FieldTypes, r.resolveTypeRef(f.Type, nil, d.Span))
	}
	d.ResolvedType = st
}

// resolveConstDeclaration evaluates the value for its type and defines the
// name in the current (top-level) scope.
func (r *Resolver) resolveConstDeclaration(d *tree.ConstDeclaration) {
	r.resolveExpr(d.Value)
	if !d.Value.IsConstant() {
		r.sink.Errorf(d.Span, diag.TypeErr, "const %q initializer must be a compile-time constant", d.Name)
	}
	if !r.scope.Define(d.Name, d.Value.Type()) {
		r.sink.Errorf(d.Span, diag.TypeErr, "redefinition of %q", d.Name)
	}
}

// resolveFieldDeclaration implements the FieldDeclaration contract:
// equality/adoption between the annotation and the value's type, with the
// null/None relaxations, and the global-initializer-must-be-constant rule.
func (r *Resolver) resolveFieldDeclaration(d *tree.FieldDeclaration) {
	var annotated types.Type
	if d.ExplicitType {
		annotated = r.resolveTypeRef(d.Annotation, nil, d.Span)
		d.Annotation = annotated
	}
	if d.Value != nil {
		r.resolveExpr(d.Value)
	}
	final := annotated
	switch {
	case d.ExplicitType && d.Value != nil:
		vt := d.Value.Type()
		if types.IsNull(vt) {
			if _, ok := types.AsPointer(annotated); ok {
				if n, ok := d.Value.(*tree.NullExpr); ok {
					n.Base = annotated
					n.SetType(annotated)
				}
			} else {
				r.sink.Errorf(d.Span, diag.TypeErr, "cannot assign null to non-pointer %q", d.Name)
			}
		} else if !types.Equal(annotated, vt) {
			r.sink.Errorf(d.Span, diag.TypeErr, "variable %q: annotation %s does not match value type %s", d.Name, annotated, vt)
		}
	case d.ExplicitType:
		// annotation only
	case d.Value != nil:
		vt := d.Value.Type()
		if types.IsNone(vt) {
			r.sink.Errorf(d.Span, diag.TypeErr, "variable %q: please add type", d.Name)
		}
		final = vt
	default:
		r.sink.Errorf(d.Span, diag.TypeErr, "variable %q: please add type", d.Name)
		final = types.None
	}
	if d.Global && d.Value != nil && !d.Value.IsConstant() {
		r.sink.Errorf(d.Span, diag.TypeErr, "global %q initializer must be a compile-time constant", d.Name)
	}
	if !r.scope.Define(d.Name, final) {
		r.sink.Errorf(d.Span, diag.TypeErr, "redefinition of %q", d.Name)
	}
}

// resolveFunctionBody resolves a non-generic function's body under a fresh
// scope with its parameters bound, pushing/popping the return-type stack,
// and runs missing-return analysis when the return type is non-Void.
func (r *Resolver) resolveFunctionBody(d *tree.FunctionDeclaration) {
	if len(d.GenericNames) > 0 {
		return // generic bodies resolve lazily, once per call-site instantiation
	}
	ft := r.funcs[d.Name]
	d.ResolvedType = ft
	r.scope.Push()
	for i, p := range d.Params {
		r.scope.Define(p.Name, ft.Params[i])
	}
	r.returnStack.Push(ft.Return)
	for _, s := range d.Body {
		r.resolveStatement(s)
	}
	r.returnStack.Pop()
	r.scope.Pop()
	if !types.IsVoid(ft.Return) && !alwaysReturns(d.Body) {
		r.sink.Errorf(d.Span, diag.TypeErr, "function %q: missing return on some path", d.Name)
	}
}

// resolveOperatorFunctionDecl implements the OperatorFunctionDeclaration
// contract: at least one parameter must be of non-primitive type, guarding
// against overloading built-in-type operators.
func (r *Resolver) resolveOperatorFunctionDecl(d *tree.OperatorFunctionDeclaration) {
	pts := make([]types.Type, len(d.Params))
	hasNonPrimitive := false
	for i, p := range d.Params {
		pts[i] = r.resolveTypeRef(p.Type, nil, d.Span)
		switch pts[i].(type) {
		case types.Number, types.EnumElement:
		default:
			hasNonPrimitive = true
		}
	}
	if !hasNonPrimitive {
		r.sink.Errorf(d.Span, diag.TypeErr, "operator overload must have at least one non-primitive operand")
	}
	ret := r.resolveTypeRef(d.Return, nil, d.Span)
	d.MangledName = MangleOperator(d.Op, d.Prefix, d.Postfix, pts)
	ft := &types.Function{Name: d.MangledName, Params: pts, Return: ret}
	d.ResolvedType = ft
	r.operators[d.MangledName] = ft

	r.scope.Push()
	for i, p := range d.Params {
		r.scope.Define(p.Name, pts[i])
	}
	r.returnStack.Push(ret)
	for _, s := range d.Body {
		r.resolveStatement(s)
	}
	r.returnStack.Pop()
	r.scope.Pop()
	if !types.IsVoid(ret) && !alwaysReturns(d.Body) {
		r.sink.Errorf(d.Span, diag.TypeErr, "operator %q: missing return on some path", d.MangledName)
	}
}
