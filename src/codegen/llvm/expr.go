package llvm

import (
	"fmt"
	"math"
	"strconv"

	"tinygo.org/x/go-llvm"

	"la/src/resolve"
	"la/src/token"
	"la/src/tree"
	"la/src/types"
)

// genExpr lowers a single expression to the LLVM value it evaluates to
//. Every expression kind in src/tree's
// sealed union is dispatched here; assignable forms additionally go
// through genAddr to locate their storage.
func (e *Emitter) genExpr(expr tree.Expression) (llvm.Value, error) {
	switch v := expr.(type) {
	case *tree.IfExpr:
		return e.genIfExpr(v)
	case *tree.SwitchExpr:
		return e.genSwitchExpr(v)
	case *tree.TupleExpr:
		return e.genTuple(v)
	case *tree.AssignExpr:
		return e.genAssign(v)
	case *tree.BinaryExpr:
		return e.genBinaryLike(v.Op, v.Left, v.Right)
	case *tree.BitwiseExpr:
		return e.genBinaryLike(v.Op, v.Left, v.Right)
	case *tree.ComparisonExpr:
		return e.genComparison(v)
	case *tree.LogicalExpr:
		return e.genLogical(v)
	case *tree.PrefixUnaryExpr:
		return e.genPrefixUnary(v)
	case *tree.PostfixUnaryExpr:
		return e.genPostfixUnary(v)
	case *tree.CallExpr:
		callee, args, err := e.resolveCallTarget(v)
		if err != nil {
			return llvm.Value{}, err
		}
		return e.b.CreateCall(callee, args, ""), nil
	case *tree.InitExpr:
		return e.genInit(v)
	case *tree.LambdaExpr:
		return e.genLambdaValue(v)
	case *tree.DotExpr:
		return e.genDot(v)
	case *tree.CastExpr:
		return e.genCast(v)
	case *tree.TypeSizeExpr:
		sz := e.ensureDataLayout().TypeAllocSize(e.llvmType(v.Of))
		return llvm.ConstInt(e.ctx.Int64Type(), sz, false), nil
	case *tree.TypeAlignExpr:
		al := e.ensureDataLayout().ABITypeAlignment(e.llvmType(v.Of))
		return llvm.ConstInt(e.ctx.Int64Type(), uint64(al), false), nil
	case *tree.ValueSizeExpr:
		sz := e.ensureDataLayout().TypeAllocSize(e.llvmType(v.Of.Type()))
		return llvm.ConstInt(e.ctx.Int64Type(), sz, false), nil
	case *tree.IndexExpr:
		return e.genIndex(v)
	case *tree.EnumAccessExpr:
		return e.constEnumAccess(v), nil
	case *tree.ArrayExpr:
		return e.genArray(v)
	case *tree.VectorExpr:
		return e.genVector(v)
	case *tree.StringExpr:
		return e.constString(v.Value), nil
	case *tree.LiteralExpr:
		return e.genLiteral(v)
	case *tree.NumberExpr:
		return e.constNumber(v), nil
	case *tree.CharacterExpr:
		return llvm.ConstInt(e.ctx.Int8Type(), uint64(v.Value), false), nil
	case *tree.BoolExpr:
		b := uint64(0)
		if v.Value {
			b = 1
		}
		return llvm.ConstInt(e.ctx.Int1Type(), b, false), nil
	case *tree.NullExpr:
		return llvm.ConstNull(e.llvmType(v.Type())), nil
	case *tree.UndefinedExpr:
		return llvm.Undef(e.llvmType(v.Type())), nil
	case *tree.InfinityExpr:
		kind, _ := types.AsNumber(v.Type())
		f := math.Inf(1)
		if v.Negative {
			f = math.Inf(-1)
		}
		return llvm.ConstFloat(e.numberType(kind), f), nil
	default:
		return llvm.Value{}, fmt.Errorf("codegen: unhandled expression variant %T", expr)
	}
}

// genAddr locates the storage of an assignable expression: a name, a struct/tuple field (with pointer
// autoderef), an array/pointer index, or a `*expr` dereference.
func (e *Emitter) genAddr(expr tree.Expression) (llvm.Value, error) {
	switch v := expr.(type) {
	case *tree.LiteralExpr:
		slot, ok := e.values.Lookup(v.Name)
		if !ok {
			return llvm.Value{}, fmt.Errorf("codegen: unresolved identifier %q", v.Name)
		}
		return slot.ptr, nil
	case *tree.DotExpr:
		var base llvm.Value
		if _, ok := types.AsPointer(v.Target.Type()); ok {
			ptr, err := e.genExpr(v.Target)
			if err != nil {
				return llvm.Value{}, err
			}
			base = ptr
		} else {
			addr, err := e.genAddr(v.Target)
			if err != nil {
				return llvm.Value{}, err
			}
			base = addr
		}
		zero := llvm.ConstInt(e.ctx.Int32Type(), 0, false)
		idx := llvm.ConstInt(e.ctx.Int32Type(), uint64(v.FieldIndex), false)
		return e.b.CreateGEP(base, []llvm.Value{zero, idx}, ""), nil
	case *tree.IndexExpr:
		idx, err := e.genExpr(v.Index)
		if err != nil {
			return llvm.Value{}, err
		}
		if _, ok := v.Target.Type().(types.Pointer); ok {
			ptr, err := e.genExpr(v.Target)
			if err != nil {
				return llvm.Value{}, err
			}
			return e.b.CreateGEP(ptr, []llvm.Value{idx}, ""), nil
		}
		if _, ok := v.Target.Type().(types.StaticArray); ok {
			base, err := e.genAddr(v.Target)
			if err != nil {
				return llvm.Value{}, err
			}
			zero := llvm.ConstInt(e.ctx.Int32Type(), 0, false)
			return e.b.CreateGEP(base, []llvm.Value{zero, idx}, ""), nil
		}
		return llvm.Value{}, fmt.Errorf("codegen: cannot take the address of an index into %s", v.Target.Type())
	case *tree.PrefixUnaryExpr:
		if v.Op == token.Star {
			return e.genExpr(v.Operand)
		}
	}
	return llvm.Value{}, fmt.Errorf("codegen: %T is not an addressable expression", expr)
}

func (e *Emitter) genLiteral(v *tree.LiteralExpr) (llvm.Value, error) {
	if slot, ok := e.values.Lookup(v.Name); ok {
		return e.b.CreateLoad(slot.ptr, ""), nil
	}
	if fn, ok := e.funcs[v.Name]; ok {
		return fn, nil
	}
	return llvm.Value{}, fmt.Errorf("codegen: unresolved identifier %q", v.Name)
}

func (e *Emitter) genIfExpr(v *tree.IfExpr) (llvm.Value, error) {
	fn := e.curFunc
	resultType := e.llvmType(v.Type())
	alloc := e.b.CreateAlloca(resultType, "ifexpr.result")

	cond, err := e.genExpr(v.Condition)
	if err != nil {
		return llvm.Value{}, err
	}
	cond = e.truthy(cond, v.Condition.Type())

	thenBB := e.ctx.AddBasicBlock(fn, "ifexpr.then")
	elseBB := e.ctx.AddBasicBlock(fn, "ifexpr.else")
	mergeBB := e.ctx.AddBasicBlock(fn, "ifexpr.merge")
	e.b.CreateCondBr(cond, thenBB, elseBB)

	e.b.SetInsertPointAtEnd(thenBB)
	thenVal, err := e.genExpr(v.Then)
	if err != nil {
		return llvm.Value{}, err
	}
	e.b.CreateStore(e.coerce(thenVal, v.Then.Type(), v.Type()), alloc)
	e.b.CreateBr(mergeBB)

	e.b.SetInsertPointAtEnd(elseBB)
	elseVal, err := e.genExpr(v.Else)
	if err != nil {
		return llvm.Value{}, err
	}
	e.b.CreateStore(e.coerce(elseVal, v.Else.Type(), v.Type()), alloc)
	e.b.CreateBr(mergeBB)

	e.b.SetInsertPointAtEnd(mergeBB)
	return e.b.CreateLoad(alloc, ""), nil
}

func (e *Emitter) genSwitchExpr(v *tree.SwitchExpr) (llvm.Value, error) {
	fn := e.curFunc
	resultType := e.llvmType(v.Type())
	alloc := e.b.CreateAlloca(resultType, "switchexpr.result")

	argV, err := e.genExpr(v.Argument)
	if err != nil {
		return llvm.Value{}, err
	}

	mergeBB := e.ctx.AddBasicBlock(fn, "switchexpr.merge")
	defaultBB := e.ctx.AddBasicBlock(fn, "switchexpr.default")
	sw := e.b.CreateSwitch(argV, defaultBB, len(v.Cases))

	for _, c := range v.Cases {
		caseBB := e.ctx.AddBasicBlock(fn, "switchexpr.case")
		for _, val := range c.Values {
			cv, err := e.genExpr(val)
			if err != nil {
				return llvm.Value{}, err
			}
			sw.AddCase(cv, caseBB)
		}
		e.b.SetInsertPointAtEnd(caseBB)
		bodyVal, err := e.genExpr(c.Body)
		if err != nil {
			return llvm.Value{}, err
		}
		e.b.CreateStore(e.coerce(bodyVal, c.Body.Type(), v.Type()), alloc)
		e.b.CreateBr(mergeBB)
	}

	e.b.SetInsertPointAtEnd(defaultBB)
	if v.HasElse {
		elseVal, err := e.genExpr(v.Else)
		if err != nil {
			return llvm.Value{}, err
		}
		e.b.CreateStore(e.coerce(elseVal, v.Else.Type(), v.Type()), alloc)
		e.b.CreateBr(mergeBB)
	} else {
		e.b.CreateUnreachable()
	}

	e.b.SetInsertPointAtEnd(mergeBB)
	return e.b.CreateLoad(alloc, ""), nil
}

func (e *Emitter) genTuple(v *tree.TupleExpr) (llvm.Value, error) {
	tup := v.Type().(*types.Tuple)
	agg := llvm.Undef(e.llvmType(tup))
	for i, el := range v.Elements {
		val, err := e.genExpr(el)
		if err != nil {
			return llvm.Value{}, err
		}
		val = e.coerce(val, el.Type(), tup.FieldTypes[i])
		agg = e.b.CreateInsertValue(agg, val, i, "")
	}
	return agg, nil
}

// initFieldIndex resolves an InitExpr field name to its position in the
// struct or tuple type it is initializing.
func initFieldIndex(t types.Type, name string) int {
	switch st := t.(type) {
	case *types.Struct:
		return st.FieldIndex(name)
	case *types.Tuple:
		idx, err := strconv.Atoi(name)
		if err != nil {
			return -1
		}
		return idx
	}
	return -1
}

func initFieldTypes(t types.Type) []types.Type {
	switch st := t.(type) {
	case *types.Struct:
		return st.FieldTypes
	case *types.Tuple:
		return st.FieldTypes
	}
	return nil
}

func (e *Emitter) genInit(v *tree.InitExpr) (llvm.Value, error) {
	t := v.Type()
	fieldTypes := initFieldTypes(t)
	agg := llvm.Undef(e.llvmType(t))
	for _, f := range v.Fields {
		idx := initFieldIndex(t, f.Name)
		if idx < 0 {
			continue
		}
		val, err := e.genExpr(f.Value)
		if err != nil {
			return llvm.Value{}, err
		}
		val = e.coerce(val, f.Value.Type(), fieldTypes[idx])
		agg = e.b.CreateInsertValue(agg, val, idx, "")
	}
	return agg, nil
}

func (e *Emitter) genArray(v *tree.ArrayExpr) (llvm.Value, error) {
	at := v.Type().(types.StaticArray)
	agg := llvm.Undef(e.llvmType(at))
	for i, el := range v.Elements {
		val, err := e.genExpr(el)
		if err != nil {
			return llvm.Value{}, err
		}
		val = e.coerce(val, el.Type(), at.Element)
		agg = e.b.CreateInsertValue(agg, val, i, "")
	}
	return agg, nil
}

func (e *Emitter) genVector(v *tree.VectorExpr) (llvm.Value, error) {
	vt := v.Type().(types.StaticVector)
	agg := llvm.Undef(e.llvmType(vt))
	for i, el := range v.Elements {
		val, err := e.genExpr(el)
		if err != nil {
			return llvm.Value{}, err
		}
		val = e.coerce(val, el.Type(), vt.Array.Element)
		idx := llvm.ConstInt(e.ctx.Int32Type(), uint64(i), false)
		agg = e.b.CreateInsertElement(agg, val, idx, "")
	}
	return agg, nil
}

// genAssign lowers `lhs = rhs` and the compound forms `lhs op= rhs`, whose
// operator is still the compound Kind at this point.
func (e *Emitter) genAssign(v *tree.AssignExpr) (llvm.Value, error) {
	addr, err := e.genAddr(v.LHS)
	if err != nil {
		return llvm.Value{}, err
	}
	rhsVal, err := e.genExpr(v.RHS)
	if err != nil {
		return llvm.Value{}, err
	}
	lhsType := v.LHS.Type()
	rhsVal = e.coerce(rhsVal, v.RHS.Type(), lhsType)

	if v.Op != token.Equal {
		op := compoundBinaryOp(v.Op)
		cur := e.b.CreateLoad(addr, "")
		if kind, ok := types.AsNumber(lhsType); ok {
			rhsVal = e.genArith(op, cur, rhsVal, kind)
		} else {
			mangled := resolve.MangleOperator(op, false, false, []types.Type{lhsType, v.RHS.Type()})
			fn, ok := e.funcs[mangled]
			if !ok {
				return llvm.Value{}, fmt.Errorf("codegen: no operator overload %q for compound assignment", mangled)
			}
			rhsVal = e.b.CreateCall(fn, []llvm.Value{cur, rhsVal}, "")
		}
	}

	e.b.CreateStore(rhsVal, addr)
	if lam, ok := v.RHS.(*tree.LambdaExpr); ok {
		if lit, ok := v.LHS.(*tree.LiteralExpr); ok {
			e.lambdaDefs[lit.Name] = lam
		}
	}
	return rhsVal, nil
}

// compoundBinaryOp maps a compound-assignment Kind to the plain binary
// operator it applies; token.Equal is returned (and
// never used as an operator) for the non-compound case.
func compoundBinaryOp(op token.Kind) token.Kind {
	switch op {
	case token.PlusEqual:
		return token.Plus
	case token.MinusEqual:
		return token.Minus
	case token.StarEqual:
		return token.Star
	case token.SlashEqual:
		return token.Slash
	case token.PercentEqual:
		return token.Percent
	case token.LessLessEqual:
		return token.LessLess
	case token.RightShiftEqual:
		return token.RightShift
	}
	return token.Equal
}

// genBinaryLike lowers Binary/Bitwise expressions: same-kind numeric or
// same-shape vector operands go straight to genArith; anything else must
// resolve to a mangled operator overload.
func (e *Emitter) genBinaryLike(op token.Kind, left, right tree.Expression) (llvm.Value, error) {
	lt, rt := left.Type(), right.Type()
	lv, err := e.genExpr(left)
	if err != nil {
		return llvm.Value{}, err
	}
	rv, err := e.genExpr(right)
	if err != nil {
		return llvm.Value{}, err
	}
	if kind, ok := types.AsNumber(lt); ok {
		if _, ok2 := types.AsNumber(rt); ok2 {
			return e.genArith(op, lv, rv, kind), nil
		}
	}
	if vl, ok := lt.(types.StaticVector); ok {
		if _, ok2 := rt.(types.StaticVector); ok2 {
			ek, _ := types.AsNumber(vl.Array.Element)
			return e.genArith(op, lv, rv, ek), nil
		}
	}
	mangled := resolve.MangleOperator(op, false, false, []types.Type{lt, rt})
	fn, ok := e.funcs[mangled]
	if !ok {
		return llvm.Value{}, fmt.Errorf("codegen: no operator overload %q for %s, %s", mangled, lt, rt)
	}
	return e.b.CreateCall(fn, []llvm.Value{lv, rv}, ""), nil
}

// genArith dispatches one arithmetic/bitwise operator to its builder
// method, choosing the signed/unsigned or integer/float form from kind.
func (e *Emitter) genArith(op token.Kind, l, r llvm.Value, kind types.NumberKind) llvm.Value {
	if kind.IsFloat() {
		switch op {
		case token.Plus:
			return e.b.CreateFAdd(l, r, "")
		case token.Minus:
			return e.b.CreateFSub(l, r, "")
		case token.Star:
			return e.b.CreateFMul(l, r, "")
		case token.Slash:
			return e.b.CreateFDiv(l, r, "")
		case token.Percent:
			return e.b.CreateFRem(l, r, "")
		}
		return l
	}
	signed := kind.IsSigned()
	switch op {
	case token.Plus:
		return e.b.CreateAdd(l, r, "")
	case token.Minus:
		return e.b.CreateSub(l, r, "")
	case token.Star:
		return e.b.CreateMul(l, r, "")
	case token.Slash:
		if signed {
			return e.b.CreateSDiv(l, r, "")
		}
		return e.b.CreateUDiv(l, r, "")
	case token.Percent:
		if signed {
			return e.b.CreateSRem(l, r, "")
		}
		return e.b.CreateURem(l, r, "")
	case token.Amp:
		return e.b.CreateAnd(l, r, "")
	case token.Pipe:
		return e.b.CreateOr(l, r, "")
	case token.Caret:
		return e.b.CreateXor(l, r, "")
	case token.LessLess:
		return e.b.CreateShl(l, r, "")
	case token.RightShift:
		if signed {
			return e.b.CreateAShr(l, r, "")
		}
		return e.b.CreateLShr(l, r, "")
	}
	return l
}

func (e *Emitter) genComparison(v *tree.ComparisonExpr) (llvm.Value, error) {
	lt, rt := v.Left.Type(), v.Right.Type()
	lv, err := e.genExpr(v.Left)
	if err != nil {
		return llvm.Value{}, err
	}
	rv, err := e.genExpr(v.Right)
	if err != nil {
		return llvm.Value{}, err
	}
	if kind, ok := types.AsNumber(lt); ok {
		if _, ok2 := types.AsNumber(rt); ok2 {
			return e.genCompareNumbers(v.Op, lv, rv, kind), nil
		}
	}
	if vl, ok := lt.(types.StaticVector); ok {
		if _, ok2 := rt.(types.StaticVector); ok2 {
			ek, _ := types.AsNumber(vl.Array.Element)
			return e.genCompareNumbers(v.Op, lv, rv, ek), nil
		}
	}
	if _, ok := lt.(types.Pointer); ok {
		return e.b.CreateICmp(e.icmpPredicate(v.Op, false), lv, rv, ""), nil
	}
	mangled := resolve.MangleOperator(v.Op, false, false, []types.Type{lt, rt})
	fn, ok := e.funcs[mangled]
	if !ok {
		return llvm.Value{}, fmt.Errorf("codegen: no operator overload %q for %s, %s", mangled, lt, rt)
	}
	return e.b.CreateCall(fn, []llvm.Value{lv, rv}, ""), nil
}

func (e *Emitter) genCompareNumbers(op token.Kind, lv, rv llvm.Value, kind types.NumberKind) llvm.Value {
	if kind.IsFloat() {
		return e.b.CreateFCmp(e.fcmpPredicate(op), lv, rv, "")
	}
	return e.b.CreateICmp(e.icmpPredicate(op, kind.IsSigned()), lv, rv, "")
}

func (e *Emitter) icmpPredicate(op token.Kind, signed bool) llvm.IntPredicate {
	switch op {
	case token.EqualEqual:
		return llvm.IntEQ
	case token.BangEqual:
		return llvm.IntNE
	case token.Less:
		if signed {
			return llvm.IntSLT
		}
		return llvm.IntULT
	case token.LessEqual:
		if signed {
			return llvm.IntSLE
		}
		return llvm.IntULE
	case token.Greater:
		if signed {
			return llvm.IntSGT
		}
		return llvm.IntUGT
	case token.GreaterEqual:
		if signed {
			return llvm.IntSGE
		}
		return llvm.IntUGE
	}
	return llvm.IntEQ
}

func (e *Emitter) fcmpPredicate(op token.Kind) llvm.FloatPredicate {
	switch op {
	case token.EqualEqual:
		return llvm.FloatOEQ
	case token.BangEqual:
		return llvm.FloatONE
	case token.Less:
		return llvm.FloatOLT
	case token.LessEqual:
		return llvm.FloatOLE
	case token.Greater:
		return llvm.FloatOGT
	case token.GreaterEqual:
		return llvm.FloatOGE
	}
	return llvm.FloatOEQ
}

// genLogical lowers `&&`/`||` with short-circuit control flow: the right operand's basic block is only reached when its
// value could change the result.
func (e *Emitter) genLogical(v *tree.LogicalExpr) (llvm.Value, error) {
	fn := e.curFunc
	resultAlloc := e.b.CreateAlloca(e.ctx.Int1Type(), "logical.result")

	lv, err := e.genExpr(v.Left)
	if err != nil {
		return llvm.Value{}, err
	}
	lv = e.truthy(lv, v.Left.Type())
	e.b.CreateStore(lv, resultAlloc)

	rhsBB := e.ctx.AddBasicBlock(fn, "logical.rhs")
	mergeBB := e.ctx.AddBasicBlock(fn, "logical.merge")
	if v.Op == token.AmpAmp {
		e.b.CreateCondBr(lv, rhsBB, mergeBB)
	} else {
		e.b.CreateCondBr(lv, mergeBB, rhsBB)
	}

	e.b.SetInsertPointAtEnd(rhsBB)
	rv, err := e.genExpr(v.Right)
	if err != nil {
		return llvm.Value{}, err
	}
	rv = e.truthy(rv, v.Right.Type())
	e.b.CreateStore(rv, resultAlloc)
	e.b.CreateBr(mergeBB)

	e.b.SetInsertPointAtEnd(mergeBB)
	return e.b.CreateLoad(resultAlloc, ""), nil
}

func (e *Emitter) genPrefixUnary(v *tree.PrefixUnaryExpr) (llvm.Value, error) {
	switch v.Op {
	case token.Amp:
		return e.genAddr(v.Operand)
	case token.Star:
		ptr, err := e.genExpr(v.Operand)
		if err != nil {
			return llvm.Value{}, err
		}
		return e.b.CreateLoad(ptr, ""), nil
	case token.PlusPlus, token.MinusMinus:
		addr, err := e.genAddr(v.Operand)
		if err != nil {
			return llvm.Value{}, err
		}
		kind, ok := types.AsNumber(v.Operand.Type())
		if !ok {
			return e.genUnaryOverload(v.Op, true, false, v.Operand)
		}
		cur := e.b.CreateLoad(addr, "")
		next := e.stepNumber(cur, kind, v.Op == token.PlusPlus)
		e.b.CreateStore(next, addr)
		return next, nil
	}

	operand, err := e.genExpr(v.Operand)
	if err != nil {
		return llvm.Value{}, err
	}
	if kind, ok := types.AsNumber(v.Operand.Type()); ok {
		switch v.Op {
		case token.Minus:
			if kind.IsFloat() {
				return e.b.CreateFSub(llvm.ConstFloat(operand.Type(), 0), operand, ""), nil
			}
			return e.b.CreateSub(llvm.ConstInt(operand.Type(), 0, false), operand, ""), nil
		case token.Bang:
			return e.b.CreateXor(operand, llvm.ConstInt(operand.Type(), 1, false), ""), nil
		case token.Tilde:
			allOnes := llvm.ConstInt(operand.Type(), ^uint64(0), true)
			return e.b.CreateXor(operand, allOnes, ""), nil
		}
	}
	return e.genUnaryOverloadValue(v.Op, true, false, v.Operand.Type(), operand)
}

func (e *Emitter) genPostfixUnary(v *tree.PostfixUnaryExpr) (llvm.Value, error) {
	addr, err := e.genAddr(v.Operand)
	if err != nil {
		return llvm.Value{}, err
	}
	kind, ok := types.AsNumber(v.Operand.Type())
	if !ok {
		return e.genUnaryOverload(v.Op, false, true, v.Operand)
	}
	cur := e.b.CreateLoad(addr, "")
	next := e.stepNumber(cur, kind, v.Op == token.PlusPlus)
	e.b.CreateStore(next, addr)
	return cur, nil
}

func (e *Emitter) stepNumber(v llvm.Value, kind types.NumberKind, inc bool) llvm.Value {
	one := e.constOne(kind)
	if kind.IsFloat() {
		if inc {
			return e.b.CreateFAdd(v, one, "")
		}
		return e.b.CreateFSub(v, one, "")
	}
	if inc {
		return e.b.CreateAdd(v, one, "")
	}
	return e.b.CreateSub(v, one, "")
}

func (e *Emitter) constOne(kind types.NumberKind) llvm.Value {
	if kind.IsFloat() {
		return llvm.ConstFloat(e.numberType(kind), 1.0)
	}
	return llvm.ConstInt(e.numberType(kind), 1, false)
}

func (e *Emitter) genUnaryOverload(op token.Kind, prefix, postfix bool, operand tree.Expression) (llvm.Value, error) {
	val, err := e.genExpr(operand)
	if err != nil {
		return llvm.Value{}, err
	}
	return e.genUnaryOverloadValue(op, prefix, postfix, operand.Type(), val)
}

func (e *Emitter) genUnaryOverloadValue(op token.Kind, prefix, postfix bool, operandType types.Type, val llvm.Value) (llvm.Value, error) {
	mangled := resolve.MangleOperator(op, prefix, postfix, []types.Type{operandType})
	fn, ok := e.funcs[mangled]
	if !ok {
		return llvm.Value{}, fmt.Errorf("codegen: no operator overload %q for %s", mangled, operandType)
	}
	return e.b.CreateCall(fn, []llvm.Value{val}, ""), nil
}

func (e *Emitter) genDot(v *tree.DotExpr) (llvm.Value, error) {
	if v.Name == "count" {
		return e.genCount(v)
	}
	addr, err := e.genAddr(v)
	if err != nil {
		return llvm.Value{}, err
	}
	return e.b.CreateLoad(addr, ""), nil
}

func (e *Emitter) genCount(v *tree.DotExpr) (llvm.Value, error) {
	switch t := v.Target.Type().(type) {
	case types.StaticArray:
		return llvm.ConstInt(e.ctx.Int64Type(), uint64(t.Size), false), nil
	case types.StaticVector:
		return llvm.ConstInt(e.ctx.Int64Type(), uint64(t.Array.Size), false), nil
	case types.Pointer:
		if s, ok := v.Target.(*tree.StringExpr); ok {
			return llvm.ConstInt(e.ctx.Int64Type(), uint64(len(s.Value)), false), nil
		}
		return e.genStrlen(v.Target)
	}
	return llvm.Value{}, fmt.Errorf("codegen: .count on unsupported type %s", v.Target.Type())
}

// genStrlen scans a NUL-terminated *i8 to compute its length at runtime.
func (e *Emitter) genStrlen(target tree.Expression) (llvm.Value, error) {
	ptr, err := e.genExpr(target)
	if err != nil {
		return llvm.Value{}, err
	}
	fn := e.curFunc
	idxAlloc := e.b.CreateAlloca(e.ctx.Int64Type(), "strlen.idx")
	e.b.CreateStore(llvm.ConstInt(e.ctx.Int64Type(), 0, false), idxAlloc)

	head := e.ctx.AddBasicBlock(fn, "strlen.head")
	body := e.ctx.AddBasicBlock(fn, "strlen.body")
	end := e.ctx.AddBasicBlock(fn, "strlen.end")

	e.b.CreateBr(head)
	e.b.SetInsertPointAtEnd(head)
	idx := e.b.CreateLoad(idxAlloc, "")
	ch := e.b.CreateGEP(ptr, []llvm.Value{idx}, "")
	loaded := e.b.CreateLoad(ch, "")
	cond := e.b.CreateICmp(llvm.IntNE, loaded, llvm.ConstInt(e.ctx.Int8Type(), 0, false), "")
	e.b.CreateCondBr(cond, body, end)

	e.b.SetInsertPointAtEnd(body)
	next := e.b.CreateAdd(idx, llvm.ConstInt(e.ctx.Int64Type(), 1, false), "")
	e.b.CreateStore(next, idxAlloc)
	e.b.CreateBr(head)

	e.b.SetInsertPointAtEnd(end)
	return e.b.CreateLoad(idxAlloc, ""), nil
}

func (e *Emitter) genIndex(v *tree.IndexExpr) (llvm.Value, error) {
	if _, ok := v.Target.Type().(types.StaticVector); ok {
		vecVal, err := e.genExpr(v.Target)
		if err != nil {
			return llvm.Value{}, err
		}
		idx, err := e.genExpr(v.Index)
		if err != nil {
			return llvm.Value{}, err
		}
		kind, _ := types.AsNumber(v.Index.Type())
		return e.b.CreateExtractElement(vecVal, e.toI32Index(idx, kind), ""), nil
	}
	addr, err := e.genAddr(v)
	if err != nil {
		return llvm.Value{}, err
	}
	return e.b.CreateLoad(addr, ""), nil
}

func (e *Emitter) toI32Index(v llvm.Value, kind types.NumberKind) llvm.Value {
	switch {
	case kind.BitWidth() == 32:
		return v
	case kind.BitWidth() > 32:
		return e.b.CreateTrunc(v, e.ctx.Int32Type(), "")
	default:
		if kind.IsSigned() {
			return e.b.CreateSExt(v, e.ctx.Int32Type(), "")
		}
		return e.b.CreateZExt(v, e.ctx.Int32Type(), "")
	}
}

// genCast lowers `cast(T) value`. A StaticArray decaying to a Pointer
// needs the array's address rather than its (aggregate) value; every
// other castable pair goes through coerce.
func (e *Emitter) genCast(v *tree.CastExpr) (llvm.Value, error) {
	if _, ok := v.Value.Type().(types.StaticArray); ok {
		if p, ok := v.Target.(types.Pointer); ok {
			addr, err := e.genAddr(v.Value)
			if err != nil {
				return llvm.Value{}, err
			}
			zero := llvm.ConstInt(e.ctx.Int32Type(), 0, false)
			gep := e.b.CreateGEP(addr, []llvm.Value{zero, zero}, "")
			return e.b.CreateBitCast(gep, e.llvmType(p), ""), nil
		}
	}
	val, err := e.genExpr(v.Value)
	if err != nil {
		return llvm.Value{}, err
	}
	return e.coerce(val, v.Value.Type(), v.Target), nil
}

// coerce adapts a runtime value from one resolved type to another: numeric
// widening/narrowing and signed/float conversions, pointer bitcasts, and
// null materialization. Always used where a live
// builder insertion point is guaranteed.
func (e *Emitter) coerce(v llvm.Value, from, to types.Type) llvm.Value {
	if types.Equal(from, to) {
		return v
	}
	if types.IsNull(from) {
		if _, ok := types.AsPointer(to); ok {
			return llvm.ConstNull(e.llvmType(to))
		}
	}
	if fk, fok := types.AsNumber(from); fok {
		if tk, tok := types.AsNumber(to); tok {
			return e.coerceNumber(v, fk, tk)
		}
	}
	if _, ok := types.AsPointer(from); ok {
		if _, ok := types.AsPointer(to); ok {
			return e.b.CreateBitCast(v, e.llvmType(to), "")
		}
	}
	if _, ok := from.(types.StaticArray); ok {
		if _, ok := to.(types.Pointer); ok {
			tmp := e.b.CreateAlloca(v.Type(), "")
			e.b.CreateStore(v, tmp)
			zero := llvm.ConstInt(e.ctx.Int32Type(), 0, false)
			gep := e.b.CreateGEP(tmp, []llvm.Value{zero, zero}, "")
			return e.b.CreateBitCast(gep, e.llvmType(to), "")
		}
	}
	return v
}

func (e *Emitter) coerceNumber(v llvm.Value, from, to types.NumberKind) llvm.Value {
	if from == to {
		return v
	}
	toType := e.numberType(to)
	switch {
	case from.IsFloat() && to.IsFloat():
		if to.BitWidth() > from.BitWidth() {
			return e.b.CreateFPExt(v, toType, "")
		}
		return e.b.CreateFPTrunc(v, toType, "")
	case from.IsFloat() && !to.IsFloat():
		if to.IsSigned() {
			return e.b.CreateFPToSI(v, toType, "")
		}
		return e.b.CreateFPToUI(v, toType, "")
	case !from.IsFloat() && to.IsFloat():
		if from.IsSigned() {
			return e.b.CreateSIToFP(v, toType, "")
		}
		return e.b.CreateUIToFP(v, toType, "")
	default:
		if to.BitWidth() > from.BitWidth() {
			if from.IsSigned() {
				return e.b.CreateSExt(v, toType, "")
			}
			return e.b.CreateZExt(v, toType, "")
		}
		if to.BitWidth() < from.BitWidth() {
			return e.b.CreateTrunc(v, toType, "")
		}
		return e.b.CreateBitCast(v, toType, "")
	}
}

// truthy reduces a value to an i1 branch condition.
func (e *Emitter) truthy(cond llvm.Value, t types.Type) llvm.Value {
	if kind, ok := types.AsNumber(t); ok {
		if kind == types.I1 {
			return cond
		}
		if kind.IsFloat() {
			return e.b.CreateFCmp(llvm.FloatONE, cond, llvm.ConstFloat(cond.Type(), 0), "")
		}
		return e.b.CreateICmp(llvm.IntNE, cond, llvm.ConstInt(cond.Type(), 0, false), "")
	}
	if _, ok := types.AsPointer(t); ok {
		return e.b.CreateICmp(llvm.IntNE, cond, llvm.ConstNull(cond.Type()), "")
	}
	return cond
}

// resolveCallTarget locates the callee value and evaluates the argument
// list for every call form: a plain function name, a call through a local
// variable bound to a lambda literal (whose implicit captures are reloaded
// from the live enclosing scope), an inline lambda literal, or an indirect
// call through an arbitrary expression.
func (e *Emitter) resolveCallTarget(call *tree.CallExpr) (llvm.Value, []llvm.Value, error) {
	switch callee := call.Callee.(type) {
	case *tree.LiteralExpr:
		if lam, ok := e.lambdaDefs[callee.Name]; ok {
			fn, err := e.genLambdaValue(lam)
			if err != nil {
				return llvm.Value{}, nil, err
			}
			implicit := make([]llvm.Value, 0, len(lam.ImplicitCaptures))
			for _, c := range lam.ImplicitCaptures {
				slot, ok := e.values.Lookup(c.Name)
				if !ok {
					return llvm.Value{}, nil, fmt.Errorf("codegen: missing capture %q for lambda call", c.Name)
				}
				implicit = append(implicit, e.b.CreateLoad(slot.ptr, ""))
			}
			rest, err := e.genArgList(call.Arguments, call.ResolvedTarget)
			if err != nil {
				return llvm.Value{}, nil, err
			}
			return fn, append(implicit, rest...), nil
		}
		if fn, ok := e.funcs[callee.Name]; ok {
			args, err := e.genArgList(call.Arguments, call.ResolvedTarget)
			return fn, args, err
		}
		if slot, ok := e.values.Lookup(callee.Name); ok {
			ptr := e.b.CreateLoad(slot.ptr, "")
			args, err := e.genArgList(call.Arguments, call.ResolvedTarget)
			return ptr, args, err
		}
		return llvm.Value{}, nil, fmt.Errorf("codegen: unresolved call target %q", callee.Name)
	case *tree.LambdaExpr:
		fn, err := e.genLambdaValue(callee)
		if err != nil {
			return llvm.Value{}, nil, err
		}
		args, err := e.genArgList(call.Arguments, call.ResolvedTarget)
		return fn, args, err
	default:
		fnVal, err := e.genExpr(call.Callee)
		if err != nil {
			return llvm.Value{}, nil, err
		}
		args, err := e.genArgList(call.Arguments, call.ResolvedTarget)
		return fnVal, args, err
	}
}

func (e *Emitter) genArgList(args []tree.Expression, ft *types.Function) ([]llvm.Value, error) {
	out := make([]llvm.Value, 0, len(args))
	for i, a := range args {
		val, err := e.genExpr(a)
		if err != nil {
			return nil, err
		}
		if ft != nil && i < len(ft.Params) {
			val = e.coerce(val, a.Type(), ft.Params[i])
		}
		out = append(out, val)
	}
	return out, nil
}

// genLambdaValue lifts a lambda literal to a module-level function on
// first use, caching the result by the literal's own tree node. Implicit captures become its leading parameters; the
// values passed for them are supplied by the caller (resolveCallTarget),
// not by this function.
func (e *Emitter) genLambdaValue(lam *tree.LambdaExpr) (llvm.Value, error) {
	if fn, ok := e.lambdaFuncs[lam]; ok {
		return fn, nil
	}
	name := fmt.Sprintf("lambda.%d", e.lambdaSeq)
	e.lambdaSeq++
	ft := lam.FuncType
	fn := llvm.AddFunction(e.mod, name, e.functionType(*ft))
	e.lambdaFuncs[lam] = fn

	savedFunc, savedRet := e.curFunc, e.curRetType
	savedBlock := e.b.GetInsertBlock()

	entry := llvm.AddBasicBlock(fn, "entry")
	e.b.SetInsertPointAtEnd(entry)
	e.curFunc, e.curRetType = fn, ft.Return

	e.values.Push()
	e.pushDeferScope()

	llvmParams := fn.Params()
	paramIdx := 0
	for _, c := range lam.ImplicitCaptures {
		alloc := e.b.CreateAlloca(e.llvmType(c.Type), c.Name)
		e.b.CreateStore(llvmParams[paramIdx], alloc)
		e.values.Define(c.Name, namedValue{ptr: alloc, typ: c.Type})
		paramIdx++
	}
	for _, lp := range lam.Params {
		alloc := e.b.CreateAlloca(e.llvmType(lp.Type), lp.Name)
		e.b.CreateStore(llvmParams[paramIdx], alloc)
		e.values.Define(lp.Name, namedValue{ptr: alloc, typ: lp.Type})
		paramIdx++
	}

	terminated, err := e.genBody(lam.Body)
	e.popDeferScope(terminated)
	e.values.Pop()
	if err == nil && !terminated {
		if types.IsVoid(ft.Return) {
			e.b.CreateRetVoid()
		} else {
			e.b.CreateUnreachable()
		}
	}

	e.curFunc, e.curRetType = savedFunc, savedRet
	if !savedBlock.IsNil() {
		e.b.SetInsertPointAtEnd(savedBlock)
	}
	return fn, err
}

// ensureDataLayout builds (once) the target data needed to answer
// type_size/type_align/value_size queries, using the same
// target-machine sequence EmitObject uses.
func (e *Emitter) ensureDataLayout() llvm.TargetData {
	if e.dataLayoutReady {
		return e.dataLayout
	}
	llvm.InitializeAllTargetInfos()
	llvm.InitializeAllTargetMCs()
	llvm.InitializeAllAsmParsers()
	llvm.InitializeAllAsmPrinters()
	llvm.InitializeAllTargets()

	triple := llvm.DefaultTargetTriple()
	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		e.internError(token.Span{}, "could not resolve target triple %q for type_size/type_align: %s", triple, err)
		e.dataLayoutReady = true
		return e.dataLayout
	}
	tm := target.CreateTargetMachine(triple, "generic", "",
		llvm.CodeGenLevelDefault, llvm.RelocDefault, llvm.CodeModelDefault)
	e.dataLayout = tm.CreateTargetData()
	e.dataLayoutReady = true
	return e.dataLayout
}

// ---- constant-context lowering: module-scope global initializers run before any
// function body exists, so this path never touches the builder. Local
// `const` declarations reuse it too (genLocalConst, stmt.go); it is a
// strict superset of what a local constant initializer needs.

// constNum is a small numeric value folded purely in Go, used to build a
// final llvm.ConstInt/ConstFloat without any LLVM constant-expression API.
type constNum struct {
	kind    types.NumberKind
	isFloat bool
	i       int64
	f       float64
}

func boolToI64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (e *Emitter) foldNumber(expr tree.Expression) (constNum, bool) {
	switch v := expr.(type) {
	case *tree.NumberExpr:
		return e.foldNumberLiteral(v), true
	case *tree.BoolExpr:
		return constNum{kind: types.I1, i: boolToI64(v.Value)}, true
	case *tree.CharacterExpr:
		return constNum{kind: types.I8, i: int64(v.Value)}, true
	case *tree.PrefixUnaryExpr:
		operand, ok := e.foldNumber(v.Operand)
		if !ok {
			return constNum{}, false
		}
		switch v.Op {
		case token.Minus:
			if operand.isFloat {
				operand.f = -operand.f
			} else {
				operand.i = -operand.i
			}
			return operand, true
		case token.Tilde:
			operand.i = ^operand.i
			return operand, true
		case token.Bang:
			operand.i = boolToI64(operand.i == 0)
			return operand, true
		}
		return constNum{}, false
	case *tree.BinaryExpr:
		return e.foldBinaryNumber(v.Op, v.Left, v.Right)
	case *tree.BitwiseExpr:
		return e.foldBinaryNumber(v.Op, v.Left, v.Right)
	case *tree.ComparisonExpr:
		l, ok := e.foldNumber(v.Left)
		r, ok2 := e.foldNumber(v.Right)
		if !ok || !ok2 {
			return constNum{}, false
		}
		return constNum{kind: types.I1, i: boolToI64(compareFolded(v.Op, l, r))}, true
	case *tree.LogicalExpr:
		l, ok := e.foldNumber(v.Left)
		r, ok2 := e.foldNumber(v.Right)
		if !ok || !ok2 {
			return constNum{}, false
		}
		var res bool
		if v.Op == token.AmpAmp {
			res = l.i != 0 && r.i != 0
		} else {
			res = l.i != 0 || r.i != 0
		}
		return constNum{kind: types.I1, i: boolToI64(res)}, true
	}
	return constNum{}, false
}

func (e *Emitter) foldNumberLiteral(v *tree.NumberExpr) constNum {
	text := v.Text
	if s := v.Kind.String(); !v.Unclassified && len(text) > len(s) && text[len(text)-len(s):] == s {
		text = text[:len(text)-len(s)] // a sized literal's text ends with its suffix
	}
	if v.Kind.IsFloat() {
		f, _ := strconv.ParseFloat(text, 64)
		return constNum{kind: v.Kind, isFloat: true, f: f}
	}
	n, _ := strconv.ParseUint(text, 0, 64)
	return constNum{kind: v.Kind, i: int64(n)}
}

func (e *Emitter) foldBinaryNumber(op token.Kind, leftExpr, rightExpr tree.Expression) (constNum, bool) {
	l, ok := e.foldNumber(leftExpr)
	if !ok {
		return constNum{}, false
	}
	r, ok2 := e.foldNumber(rightExpr)
	if !ok2 {
		return constNum{}, false
	}
	kind := l.kind
	if kind.IsFloat() {
		var res float64
		switch op {
		case token.Plus:
			res = l.f + r.f
		case token.Minus:
			res = l.f - r.f
		case token.Star:
			res = l.f * r.f
		case token.Slash:
			res = l.f / r.f
		default:
			return constNum{}, false
		}
		return constNum{kind: kind, isFloat: true, f: res}, true
	}
	var res int64
	switch op {
	case token.Plus:
		res = l.i + r.i
	case token.Minus:
		res = l.i - r.i
	case token.Star:
		res = l.i * r.i
	case token.Slash:
		if r.i == 0 {
			return constNum{}, false
		}
		res = l.i / r.i
	case token.Percent:
		if r.i == 0 {
			return constNum{}, false
		}
		res = l.i % r.i
	case token.Amp:
		res = l.i & r.i
	case token.Pipe:
		res = l.i | r.i
	case token.Caret:
		res = l.i ^ r.i
	case token.LessLess:
		res = l.i << uint(r.i)
	case token.RightShift:
		res = l.i >> uint(r.i)
	default:
		return constNum{}, false
	}
	return constNum{kind: kind, i: res}, true
}

func compareFolded(op token.Kind, l, r constNum) bool {
	if l.isFloat {
		switch op {
		case token.EqualEqual:
			return l.f == r.f
		case token.BangEqual:
			return l.f != r.f
		case token.Less:
			return l.f < r.f
		case token.LessEqual:
			return l.f <= r.f
		case token.Greater:
			return l.f > r.f
		case token.GreaterEqual:
			return l.f >= r.f
		}
		return false
	}
	switch op {
	case token.EqualEqual:
		return l.i == r.i
	case token.BangEqual:
		return l.i != r.i
	case token.Less:
		return l.i < r.i
	case token.LessEqual:
		return l.i <= r.i
	case token.Greater:
		return l.i > r.i
	case token.GreaterEqual:
		return l.i >= r.i
	}
	return false
}

func (e *Emitter) materialize(c constNum) llvm.Value {
	t := e.numberType(c.kind)
	if c.isFloat {
		return llvm.ConstFloat(t, c.f)
	}
	return llvm.ConstInt(t, uint64(c.i), c.kind.IsSigned())
}

func (e *Emitter) constEnumAccess(v *tree.EnumAccessExpr) llvm.Value {
	en, ok := e.enums[v.EnumName]
	if !ok {
		e.internError(token.Span{}, "unknown enum %q in %s::%s", v.EnumName, v.EnumName, v.Member)
		return llvm.ConstInt(e.ctx.Int32Type(), 0, false)
	}
	disc, _ := en.Lookup(v.Member)
	kind, _ := types.AsNumber(en.Element)
	return llvm.ConstInt(e.numberType(kind), uint64(disc), false)
}

// constString interns a NUL-terminated byte-array global for s and
// returns an i8* constant pointing at its first element, built entirely
// from constant array/bitcast operations so it is safe at module scope.
func (e *Emitter) constString(s string) llvm.Value {
	if v, ok := e.strings[s]; ok {
		return v
	}
	bytes := []byte(s)
	elems := make([]llvm.Value, len(bytes)+1)
	for i, c := range bytes {
		elems[i] = llvm.ConstInt(e.ctx.Int8Type(), uint64(c), false)
	}
	elems[len(bytes)] = llvm.ConstInt(e.ctx.Int8Type(), 0, false)
	init := llvm.ConstArray(e.ctx.Int8Type(), elems)

	g := llvm.AddGlobal(e.mod, init.Type(), fmt.Sprintf(".str.%d", e.stringSeq))
	e.stringSeq++
	g.SetInitializer(init)
	g.SetGlobalConstant(true)
	g.SetLinkage(llvm.PrivateLinkage)

	ptr := llvm.ConstBitCast(g, llvm.PointerType(e.ctx.Int8Type(), 0))
	e.strings[s] = ptr
	return ptr
}

func (e *Emitter) constNumber(v *tree.NumberExpr) llvm.Value {
	return e.materialize(e.foldNumberLiteral(v))
}

func (e *Emitter) constArray(v *tree.ArrayExpr) (llvm.Value, error) {
	at := v.Type().(types.StaticArray)
	elems := make([]llvm.Value, len(v.Elements))
	for i, el := range v.Elements {
		val, err := e.genConstant(el)
		if err != nil {
			return llvm.Value{}, err
		}
		elems[i] = e.constCoerce(val, el.Type(), at.Element)
	}
	return llvm.ConstArray(e.llvmType(at.Element), elems), nil
}

// constVector builds a vector constant as a byte-identical array constant
// bitcast to the vector type, sidestepping the rarely-needed
// element-by-element vector constant builder entirely.
func (e *Emitter) constVector(v *tree.VectorExpr) (llvm.Value, error) {
	vt := v.Type().(types.StaticVector)
	elems := make([]llvm.Value, len(v.Elements))
	for i, el := range v.Elements {
		val, err := e.genConstant(el)
		if err != nil {
			return llvm.Value{}, err
		}
		elems[i] = e.constCoerce(val, el.Type(), vt.Array.Element)
	}
	arr := llvm.ConstArray(e.llvmType(vt.Array.Element), elems)
	return llvm.ConstBitCast(arr, e.llvmType(vt)), nil
}

func (e *Emitter) constTuple(v *tree.TupleExpr) (llvm.Value, error) {
	tup := v.Type().(*types.Tuple)
	vals := make([]llvm.Value, len(v.Elements))
	for i, el := range v.Elements {
		val, err := e.genConstant(el)
		if err != nil {
			return llvm.Value{}, err
		}
		vals[i] = e.constCoerce(val, el.Type(), tup.FieldTypes[i])
	}
	return llvm.ConstNamedStruct(e.tupleType(tup), vals), nil
}

func (e *Emitter) constInit(v *tree.InitExpr) (llvm.Value, error) {
	t := v.Type()
	fieldTypes := initFieldTypes(t)
	if fieldTypes == nil {
		return llvm.Value{}, fmt.Errorf("codegen: unsupported constant initializer target %s", t)
	}
	vals := make([]llvm.Value, len(fieldTypes))
	set := make([]bool, len(fieldTypes))
	for _, f := range v.Fields {
		idx := initFieldIndex(t, f.Name)
		if idx < 0 {
			continue
		}
		val, err := e.genConstant(f.Value)
		if err != nil {
			return llvm.Value{}, err
		}
		vals[idx] = e.constCoerce(val, f.Value.Type(), fieldTypes[idx])
		set[idx] = true
	}
	for i, ok := range set {
		if !ok {
			vals[i] = llvm.ConstNull(e.llvmType(fieldTypes[i]))
		}
	}
	switch st := t.(type) {
	case *types.Struct:
		return llvm.ConstNamedStruct(e.structType(st), vals), nil
	case *types.Tuple:
		return llvm.ConstNamedStruct(e.tupleType(st), vals), nil
	}
	return llvm.Value{}, fmt.Errorf("codegen: unsupported constant initializer target %T", t)
}

// constCoerce adapts a constant integer value across numeric kinds
// without a live builder; float sources pass through unchanged, a rare
// enough case in a global initializer that the value is surfaced as-is
// rather than risking a wrong constant fold.
func (e *Emitter) constCoerce(v llvm.Value, from, to types.Type) llvm.Value {
	if types.Equal(from, to) {
		return v
	}
	fk, fok := types.AsNumber(from)
	tk, tok := types.AsNumber(to)
	if !fok || !tok || fk.IsFloat() {
		return v
	}
	var raw uint64
	if fk.IsSigned() {
		raw = uint64(v.SExtValue())
	} else {
		raw = v.ZExtValue()
	}
	if tk.IsFloat() {
		if fk.IsSigned() {
			return llvm.ConstFloat(e.numberType(tk), float64(int64(raw)))
		}
		return llvm.ConstFloat(e.numberType(tk), float64(raw))
	}
	return llvm.ConstInt(e.numberType(tk), raw, tk.IsSigned())
}

// genConstant lowers an expression the resolver has already established
// as a compile-time constant (global initializers, and local `const`
// declarations) without depending on a live builder insertion point.
func (e *Emitter) genConstant(expr tree.Expression) (llvm.Value, error) {
	if cn, ok := e.foldNumber(expr); ok {
		return e.materialize(cn), nil
	}
	switch v := expr.(type) {
	case *tree.StringExpr:
		return e.constString(v.Value), nil
	case *tree.NullExpr:
		return llvm.ConstNull(e.llvmType(v.Type())), nil
	case *tree.UndefinedExpr:
		return llvm.Undef(e.llvmType(v.Type())), nil
	case *tree.InfinityExpr:
		kind, _ := types.AsNumber(v.Type())
		f := math.Inf(1)
		if v.Negative {
			f = math.Inf(-1)
		}
		return llvm.ConstFloat(e.numberType(kind), f), nil
	case *tree.EnumAccessExpr:
		return e.constEnumAccess(v), nil
	case *tree.ArrayExpr:
		return e.constArray(v)
	case *tree.VectorExpr:
		return e.constVector(v)
	case *tree.TupleExpr:
		return e.constTuple(v)
	case *tree.InitExpr:
		return e.constInit(v)
	case *tree.LambdaExpr:
		return e.genLambdaValue(v)
	case *tree.CastExpr:
		inner, err := e.genConstant(v.Value)
		if err != nil {
			return llvm.Value{}, err
		}
		return e.constCoerce(inner, v.Value.Type(), v.Target), nil
	default:
		e.internError(token.Span{}, "unsupported constant-context expression %T", expr)
		return llvm.ConstNull(e.llvmType(expr.Type())), nil
	}
}
