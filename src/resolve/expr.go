package resolve

import (
	"la/src/diag"
	"la/src/token"
	"la/src/tree"
	"la/src/types"
)

// resolveExpr dispatches on e, filling its ValueType slot. It is the sole
// authority for a node's value type: once this returns, e.Type() is never
// None for a node on a path the type checker judged successful.
func (r *Resolver) resolveExpr(e tree.Expression) {
	switch v := e.(type) {
	case *tree.IfExpr:
		r.resolveIfExpr(v)
	case *tree.SwitchExpr:
		r.resolveSwitchExpr(v)
	case *tree.TupleExpr:
		r.resolveTupleExpr(v)
	case *tree.AssignExpr:
		r.resolveAssignExpr(v)
	case *tree.BinaryExpr:
		r.resolveArithmeticLike(v.Span, v.Op, v.Left, v.Right, &v.ExprBase, false)
	case *tree.BitwiseExpr:
		r.resolveArithmeticLike(v.Span, v.Op, v.Left, v.Right, &v.ExprBase, false)
	case *tree.ComparisonExpr:
		r.resolveArithmeticLike(v.Span, v.Op, v.Left, v.Right, &v.ExprBase, true)
	case *tree.LogicalExpr:
		r.resolveArithmeticLike(v.Span, v.Op, v.Left, v.Right, &v.ExprBase, true)
	case *tree.PrefixUnaryExpr:
		r.resolvePrefixUnary(v)
	case *tree.PostfixUnaryExpr:
		r.resolvePostfixUnary(v)
	case *tree.CallExpr:
		r.resolveCall(v)
	case *tree.InitExpr:
		r.resolveInitExpr(v)
	case *tree.LambdaExpr:
		r.resolveLambda(v)
	case *tree.DotExpr:
		r.resolveDot(v)
	case *tree.CastExpr:
		r.resolveCast(v)
	case *tree.TypeSizeExpr, *tree.TypeAlignExpr:
		// already typed i64 by the parser; nothing to resolve.
	case *tree.ValueSizeExpr:
		r.resolveExpr(v.Of)
	case *tree.IndexExpr:
		r.resolveIndex(v)
	case *tree.EnumAccessExpr:
		r.resolveEnumAccess(v)
	case *tree.ArrayExpr:
		r.resolveArray(v)
	case *tree.VectorExpr:
		r.resolveVector(v)
	case *tree.StringExpr, *tree.CharacterExpr, *tree.BoolExpr, *tree.UndefinedExpr, *tree.InfinityExpr:
		// already typed by the parser.
	case *tree.NullExpr:
		// stays types.Null until a concrete pointer context sets Base.
	case *tree.NumberExpr:
		r.resolveNumber(v)
	case *tree.LiteralExpr:
		r.resolveLiteral(v)
	default:
		panic("resolve: unhandled expression variant")
	}
}

// resolveNumber classifies an unsuffixed literal as i32 (integer) or f64
// (float). The kind is not adjusted afterwards to an annotation or
// parameter type, so an unsuffixed literal only matches i32/f64 contexts.
func (r *Resolver) resolveNumber(n *tree.NumberExpr) {
	if !n.Unclassified {
		return
	}
	if n.IsFloat {
		n.Kind = types.F64
	} else {
		n.Kind = types.I32
	}
	n.SetType(types.Number{Kind: n.Kind})
}

// resolveLiteral looks up a bare name. Inside a lambda body, a name found
// at a scope level above the global scope (level 0) and at or below
// the lambda's own parent scope is a capture: it is
// appended to the lambda's implicit-parameter list and re-bound in the
// lambda's local scope.
func (r *Resolver) resolveLiteral(l *tree.LiteralExpr) {
	t, level, ok := r.scope.LookupLevel(l.Name)
	if !ok {
		// Not a local/parameter: a bare reference to a top-level function
		// (e.g. `&inc`, or passing a function by name) names a value at the
		// global scope, which local variables shadow but never capture.
		if ft, ok := r.funcs[l.Name]; ok {
			l.SetType(*ft)
			return
		}
		r.sink.Errorf(l.Span, diag.TypeErr, "undefined name %q", l.Name)
		l.SetType(types.None)
		return
	}
	if len(r.lambdaStack) > 0 {
		frame := r.lambdaStack[len(r.lambdaStack)-1]
		if level > 0 && level <= frame.parentLevel && !frame.capturedSeen[l.Name] {
			frame.capturedSeen[l.Name] = true
			frame.lam.ImplicitCaptures = append(frame.lam.ImplicitCaptures, tree.ImplicitCapture{Name: l.Name, Type: t})
			r.scope.Define(l.Name, t)
		}
	}
	l.SetType(t)
}

// resolveIfExpr: the expression-position if always carries an else; then
// and else must agree on type.
func (r *Resolver) resolveIfExpr(v *tree.IfExpr) {
	r.resolveExpr(v.Condition)
	if _, ok := types.AsNumber(v.Condition.Type()); !ok {
		r.sink.Errorf(v.Span, diag.TypeErr, "if-expression condition must be a number type")
	}
	r.resolveExpr(v.Then)
	r.resolveExpr(v.Else)
	tt, et := v.Then.Type(), v.Else.Type()
	if !types.Equal(tt, et) {
		r.sink.Errorf(v.Span, diag.TypeErr, "if-expression branches disagree on type: %s vs %s", tt, et)
	}
	v.SetType(tt)
}

func (r *Resolver) resolveSwitchExpr(v *tree.SwitchExpr) {
	r.resolveExpr(v.Argument)
	argType := v.Argument.Type()
	_, isInt := types.AsNumber(argType)
	isEnum := false
	switch argType.(type) {
	case types.EnumElement, *types.Enum:
		isEnum = true
	}
	if !isInt && !isEnum {
		r.sink.Errorf(v.Span, diag.TypeErr, "switch-expression argument must be an integer or enum-element type")
	}
	var resultType types.Type = types.None
	for i := range v.Cases {
		c := &v.Cases[i]
		for _, val := range c.Values {
			r.resolveExpr(val)
		}
		r.resolveExpr(c.Body)
		if types.IsNone(resultType) {
			resultType = c.Body.Type()
		} else if !types.Equal(resultType, c.Body.Type()) {
			r.sink.Errorf(v.Span, diag.TypeErr, "switch-expression cases disagree on type")
		}
	}
	if v.HasElse {
		r.resolveExpr(v.Else)
		if types.IsNone(resultType) {
			resultType = v.Else.Type()
		} else if !types.Equal(resultType, v.Else.Type()) {
			r.sink.Errorf(v.Span, diag.TypeErr, "switch-expression else disagrees with case type")
		}
	} else if !(v.ShouldPerformCompleteCheck && isEnum) {
		r.sink.Errorf(v.Span, diag.TypeErr, "switch-expression requires an else branch unless the argument is an exhaustively-covered enum")
	}
	v.SetType(resultType)
}

// resolveTupleExpr interns the Tuple type by mangled field-type list.
func (r *Resolver) resolveTupleExpr(v *tree.TupleExpr) {
	fields := make([]types.Type, len(v.Elements))
	for i, el := range v.Elements {
		r.resolveExpr(el)
		fields[i] = el.Type()
	}
	name := types.MangleTupleName(fields)
	tup, ok := r.tupleInsts[name]
	if !ok {
		tup = &types.Tuple{Name: name, FieldTypes: fields}
		r.tupleInsts[name] = tup
	}
	v.SetType(tup)
}

// resolveAssignExpr validates that LHS is one of the assignable shapes
// (name, index, dot, prefix `*`), enforced here at resolve time so codegen
// can assume it.
func (r *Resolver) resolveAssignExpr(v *tree.AssignExpr) {
	r.resolveExpr(v.LHS)
	r.resolveExpr(v.RHS)
	switch lhs := v.LHS.(type) {
	case *tree.LiteralExpr, *tree.IndexExpr, *tree.DotExpr:
	case *tree.PrefixUnaryExpr:
		if lhs.Op != token.Star {
			r.sink.Errorf(v.Span, diag.TypeErr, "invalid assignment target")
		}
	default:
		r.sink.Errorf(v.Span, diag.TypeErr, "invalid assignment target")
	}
	lt, rt := v.LHS.Type(), v.RHS.Type()
	if types.IsNull(rt) {
		if p, ok := types.AsPointer(lt); ok {
			if n, ok := v.RHS.(*tree.NullExpr); ok {
				n.Base = lt
				n.SetType(p)
			}
		} else {
			r.sink.Errorf(v.Span, diag.TypeErr, "cannot assign null to non-pointer target")
		}
	} else if !types.Equal(lt, rt) && !types.IsNone(rt) {
		r.sink.Errorf(v.Span, diag.TypeErr, "assignment type mismatch: %s = %s", lt, rt)
	}
	v.SetType(lt)
}

// resolveArithmeticLike implements Binary/Bitwise/Comparison/Logical
// resolution: numeric operands of equal kind resolve to the
// arithmetic type (comparisons/logical resolve to i1); vector operands of
// equal shape resolve similarly; otherwise the operator is an overload
// named by the mangling scheme, erroring if undefined. Shift
// operators additionally require a non-negative literal RHS smaller than
// the LHS bit width.
func (r *Resolver) resolveArithmeticLike(span token.Span, op token.Kind, left, right tree.Expression, base *tree.ExprBase, boolResult bool) {
	r.resolveExpr(left)
	r.resolveExpr(right)
	lt, rt := left.Type(), right.Type()

	if lk, lok := types.AsNumber(lt); lok {
		if rk, rok := types.AsNumber(rt); rok && lk == rk {
			if op == token.LessLess || op == token.RightShift {
				r.checkShiftAmount(span, right, lk)
			}
			if boolResult {
				base.ValueType = types.Number{Kind: types.I1}
			} else {
				base.ValueType = lt
			}
			return
		}
	}
	if lv, lok := lt.(types.StaticVector); lok {
		if rv, rok := rt.(types.StaticVector); rok && types.Equal(lv, rv) {
			if boolResult {
				base.ValueType = types.StaticVector{Array: types.StaticArray{Element: types.Number{Kind: types.I1}, Size: lv.Array.Size}}
			} else {
				base.ValueType = lt
			}
			return
		}
	}
	// Pointer equality comparisons, including null-on-either-side: null
	// comparisons set the null side's base type to match the other operand.
	if _, ok := lt.(types.Pointer); ok && types.IsNull(rt) {
		if n, ok := right.(*tree.NullExpr); ok {
			n.Base = lt
			n.SetType(lt)
		}
		base.ValueType = types.Number{Kind: types.I1}
		return
	}
	if _, ok := rt.(types.Pointer); ok && types.IsNull(lt) {
		if n, ok := left.(*tree.NullExpr); ok {
			n.Base = rt
			n.SetType(rt)
		}
		base.ValueType = types.Number{Kind: types.I1}
		return
	}
	if lp, ok := lt.(types.Pointer); ok {
		if rp, ok := rt.(types.Pointer); ok && types.Equal(lp, rp) {
			base.ValueType = types.Number{Kind: types.I1}
			return
		}
	}

	mangled := MangleOperator(op, false, false, []types.Type{lt, rt})
	if ft, ok := r.operators[mangled]; ok {
		base.ValueType = ft.Return
		return
	}
	r.sink.Errorf(span, diag.TypeErr, "operator %s is undefined for operand types %s and %s", op, lt, rt)
	base.ValueType = types.None
}

// checkShiftAmount rejects a literal shift amount equal to the LHS bit
// width as undefined behavior in the target IR; width-1 is accepted.
func (r *Resolver) checkShiftAmount(span token.Span, rhs tree.Expression, lk types.NumberKind) {
	n, ok := rhs.(*tree.NumberExpr)
	if !ok {
		return
	}
	amount, err := parseLiteralInt(n.Text)
	if err != nil {
		return
	}
	if amount < 0 {
		r.sink.Errorf(span, diag.TypeErr, "shift amount must be non-negative")
		return
	}
	if amount >= int64(lk.BitWidth()) {
		r.sink.Errorf(span, diag.TypeErr, "shift amount %d is not smaller than the %d-bit operand width", amount, lk.BitWidth())
	}
}

func (r *Resolver) resolvePrefixUnary(v *tree.PrefixUnaryExpr) {
	r.resolveExpr(v.Operand)
	ot := v.Operand.Type()
	switch v.Op {
	case token.Star:
		p, ok := types.AsPointer(ot)
		if !ok {
			r.sink.Errorf(v.Span, diag.TypeErr, "cannot dereference non-pointer type %s", ot)
			v.SetType(types.None)
			return
		}
		v.SetType(p.Base)
		return
	case token.Amp:
		if lit, ok := v.Operand.(*tree.LiteralExpr); ok {
			if fn, ok := v.Operand.Type().(types.Function); ok && fn.IsIntrinsic {
				r.sink.Errorf(v.Span, diag.TypeErr, "cannot take the address of intrinsic function %q", lit.Name)
			}
		}
		v.SetType(types.Pointer{Base: ot})
		return
	}
	if _, ok := types.AsNumber(ot); ok {
		v.SetType(ot)
		return
	}
	mangled := MangleOperator(v.Op, true, false, []types.Type{ot})
	if ft, ok := r.operators[mangled]; ok {
		v.SetType(ft.Return)
		return
	}
	r.sink.Errorf(v.Span, diag.TypeErr, "prefix operator %s is undefined for operand type %s", v.Op, ot)
	v.SetType(types.None)
}

func (r *Resolver) resolvePostfixUnary(v *tree.PostfixUnaryExpr) {
	r.resolveExpr(v.Operand)
	ot := v.Operand.Type()
	if _, ok := types.AsNumber(ot); ok {
		v.SetType(ot)
		return
	}
	mangled := MangleOperator(v.Op, false, true, []types.Type{ot})
	if ft, ok := r.operators[mangled]; ok {
		v.SetType(ft.Return)
		return
	}
	r.sink.Errorf(v.Span, diag.TypeErr, "postfix operator %s is undefined for operand type %s", v.Op, ot)
	v.SetType(types.None)
}

func (r *Resolver) resolveCast(v *tree.CastExpr) {
	r.resolveExpr(v.Value)
	if !types.Castable(v.Value.Type(), v.Target) {
		r.sink.Errorf(v.Span, diag.TypeErr, "cannot cast %s to %s", v.Value.Type(), v.Target)
	} else if types.Equal(v.Value.Type(), v.Target) {
		r.sink.Warnf(v.Span, diag.TypeErr, "redundant cast: value is already %s", v.Target)
	}
	v.SetType(v.Target)
}

// resolveIndex implements `target[index]` (used by both array/vector
// element access and the pointer element access).
func (r *Resolver) resolveIndex(v *tree.IndexExpr) {
	r.resolveExpr(v.Target)
	r.resolveExpr(v.Index)
	if _, ok := types.AsNumber(v.Index.Type()); !ok {
		r.sink.Errorf(v.Span, diag.TypeErr, "index must be a number type")
	}
	switch t := v.Target.Type().(type) {
	case types.StaticArray:
		v.SetType(t.Element)
	case types.StaticVector:
		v.SetType(t.Array.Element)
	case types.Pointer:
		v.SetType(t.Base)
	default:
		r.sink.Errorf(v.Span, diag.TypeErr, "cannot index type %s", v.Target.Type())
		v.SetType(types.None)
	}
}

// resolveEnumAccess resolves `Enum::Member`.
func (r *Resolver) resolveEnumAccess(v *tree.EnumAccessExpr) {
	en, ok := r.enums[v.EnumName]
	if !ok {
		r.sink.Errorf(v.Span, diag.TypeErr, "unknown enum %q", v.EnumName)
		v.SetType(types.None)
		return
	}
	if _, ok := en.Lookup(v.Member); !ok {
		r.sink.Errorf(v.Span, diag.TypeErr, "enum %q has no member %q", v.EnumName, v.Member)
	}
	v.SetType(types.EnumElement{EnumName: en.Name, Element: en.Element})
}

// resolveArray implements the Array literal contract: all elements must
// share a type; the StaticArray's element is that common type; the
// literal is constant iff every element is.
func (r *Resolver) resolveArray(v *tree.ArrayExpr) {
	var elemType types.Type = types.None
	for _, el := range v.Elements {
		r.resolveExpr(el)
		if types.IsNone(elemType) {
			elemType = el.Type()
		} else if !types.Equal(elemType, el.Type()) {
			r.sink.Errorf(v.Span, diag.TypeErr, "array elements must share a type: %s vs %s", elemType, el.Type())
		}
	}
	v.SetType(types.StaticArray{Element: elemType, Size: uint32(len(v.Elements))})
}

// resolveVector implements the Vector literal contract: the element type
// must be an unsigned integer or float.
func (r *Resolver) resolveVector(v *tree.VectorExpr) {
	var elemType types.Type = types.None
	for _, el := range v.Elements {
		r.resolveExpr(el)
		if types.IsNone(elemType) {
			elemType = el.Type()
		} else if !types.Equal(elemType, el.Type()) {
			r.sink.Errorf(v.Span, diag.TypeErr, "vector elements must share a type: %s vs %s", elemType, el.Type())
		}
	}
	if k, ok := types.AsNumber(elemType); !ok || !(k.IsUnsigned() || k.IsFloat()) {
		r.sink.Errorf(v.Span, diag.TypeErr, "vector element type must be an unsigned integer or float, got %s", elemType)
	}
	v.SetType(types.StaticVector{Array: types.StaticArray{Element: elemType, Size: uint32(len(v.Elements))}})
}
