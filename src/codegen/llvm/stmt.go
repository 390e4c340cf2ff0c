package llvm

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"la/src/tree"
	"la/src/types"
)

// genBody emits a sequence of statements, returning true if the current
// basic block was terminated (by a Return, or a break/continue reaching a
// target) partway through — later statements in body are then unreachable
// and are not generated, so a block whose last live statement already
// returned never needs a trailing Unreachable inserted after it.
func (e *Emitter) genBody(body []tree.Statement) (bool, error) {
	for _, s := range body {
		terminated, err := e.genStatement(s)
		if err != nil {
			return terminated, err
		}
		if terminated {
			return true, nil
		}
	}
	return false, nil
}

func (e *Emitter) genStatement(s tree.Statement) (bool, error) {
	switch v := s.(type) {
	case *tree.Block:
		e.values.Push()
		e.pushDeferScope()
		terminated, err := e.genBody(v.Body)
		e.popDeferScope(terminated)
		e.values.Pop()
		return terminated, err
	case *tree.ConstDeclaration:
		return false, e.genLocalConst(v)
	case *tree.FieldDeclaration:
		return false, e.genLocalField(v)
	case *tree.DestructuringDeclaration:
		return false, e.genDestructuring(v)
	case *tree.StructDeclaration, *tree.EnumDeclaration, *tree.FunctionPrototype, *tree.IntrinsicPrototype:
		return false, nil // purely declarative; already handled at module scope.
	case *tree.FunctionDeclaration:
		if v.ResolvedType == nil {
			return false, nil
		}
		return false, e.defineFunction(v.Name, v.ResolvedType, v.Params, v.Body)
	case *tree.OperatorFunctionDeclaration:
		if v.ResolvedType == nil {
			return false, nil
		}
		return false, e.defineFunction(v.MangledName, v.ResolvedType, v.Params, v.Body)
	case *tree.If:
		return e.genIf(v)
	case *tree.Switch:
		return e.genSwitch(v)
	case *tree.ForRange:
		return e.genForRange(v)
	case *tree.ForEach:
		return e.genForEach(v)
	case *tree.ForEver:
		return e.genForEver(v)
	case *tree.While:
		return e.genWhile(v)
	case *tree.Return:
		return true, e.genReturn(v)
	case *tree.Defer:
		return false, e.genDefer(v)
	case *tree.Break:
		return true, e.genBreak(v)
	case *tree.Continue:
		return true, e.genContinue(v)
	case *tree.Load:
		return false, nil
	case *tree.ExpressionStatement:
		_, err := e.genExpr(v.Expr)
		return false, err
	case tree.Expression:
		_, err := e.genExpr(v)
		return false, err
	default:
		return false, fmt.Errorf("codegen: unhandled statement variant %T", s)
	}
}

func (e *Emitter) genLocalConst(d *tree.ConstDeclaration) error {
	c, err := e.genConstant(d.Value)
	if err != nil {
		return err
	}
	alloc := e.b.CreateAlloca(c.Type(), d.Name)
	e.b.CreateStore(c, alloc)
	e.values.Define(d.Name, namedValue{ptr: alloc, typ: d.Value.Type()})
	return nil
}

func (e *Emitter) genLocalField(d *tree.FieldDeclaration) error {
	t := d.Annotation
	if !d.ExplicitType && d.Value != nil {
		t = d.Value.Type()
	}
	alloc := e.b.CreateAlloca(e.llvmType(t), d.Name)
	e.values.Define(d.Name, namedValue{ptr: alloc, typ: t})
	if d.Value != nil {
		v, err := e.genExpr(d.Value)
		if err != nil {
			return err
		}
		e.b.CreateStore(e.coerce(v, d.Value.Type(), t), alloc)
		if lam, ok := d.Value.(*tree.LambdaExpr); ok {
			e.lambdaDefs[d.Name] = lam
		}
	}
	return nil
}

// genDestructuring binds each name of a tuple-valued declaration to the
// corresponding field of the evaluated tuple.
func (e *Emitter) genDestructuring(d *tree.DestructuringDeclaration) error {
	tupVal, err := e.genExpr(d.Value)
	if err != nil {
		return err
	}
	tup := d.Value.Type().(*types.Tuple)
	for i, name := range d.Names {
		if name == "_" {
			continue
		}
		ft := tup.FieldTypes[i]
		elem := e.b.CreateExtractValue(tupVal, i, "")
		alloc := e.b.CreateAlloca(e.llvmType(ft), name)
		e.b.CreateStore(elem, alloc)
		e.values.Define(name, namedValue{ptr: alloc, typ: ft})
	}
	return nil
}

func (e *Emitter) genIf(v *tree.If) (bool, error) {
	fn := e.curFunc
	merge := e.ctx.AddBasicBlock(fn, "if.end")

	allTerminated := true
	for bi, branch := range v.Branches {
		cond, err := e.genExpr(branch.Condition)
		if err != nil {
			return false, err
		}
		cond = e.truthy(cond, branch.Condition.Type())
		then := e.ctx.AddBasicBlock(fn, "if.then")
		var next llvm.BasicBlock
		isLast := bi == len(v.Branches)-1
		if isLast && !v.HasElse {
			next = merge
		} else {
			next = e.ctx.AddBasicBlock(fn, "if.next")
		}
		e.b.CreateCondBr(cond, then, next)

		e.b.SetInsertPointAtEnd(then)
		e.values.Push()
		e.pushDeferScope()
		terminated, err := e.genBody(branch.Body)
		e.popDeferScope(terminated)
		e.values.Pop()
		if err != nil {
			return false, err
		}
		if !terminated {
			allTerminated = false
			e.b.CreateBr(merge)
		}
		e.b.SetInsertPointAtEnd(next)
	}
	if v.HasElse {
		e.values.Push()
		e.pushDeferScope()
		terminated, err := e.genBody(v.Else)
		e.popDeferScope(terminated)
		e.values.Pop()
		if err != nil {
			return false, err
		}
		if !terminated {
			allTerminated = false
			e.b.CreateBr(merge)
		}
	} else {
		allTerminated = false
	}

	if allTerminated {
		merge.EraseFromParent()
		return true, nil
	}
	e.b.SetInsertPointAtEnd(merge)
	return false, nil
}

func (e *Emitter) genWhile(v *tree.While) (bool, error) {
	fn := e.curFunc
	head := e.ctx.AddBasicBlock(fn, "while.head")
	body := e.ctx.AddBasicBlock(fn, "while.body")
	end := e.ctx.AddBasicBlock(fn, "while.end")

	e.b.CreateBr(head)
	e.b.SetInsertPointAtEnd(head)
	cond, err := e.genExpr(v.Condition)
	if err != nil {
		return false, err
	}
	e.b.CreateCondBr(e.truthy(cond, v.Condition.Type()), body, end)

	e.b.SetInsertPointAtEnd(body)
	e.pushLoopTargets(head, end)
	e.values.Push()
	e.pushDeferScope()
	terminated, err := e.genBody(v.Body)
	e.popDeferScope(terminated)
	e.values.Pop()
	e.popLoopTargets()
	if err != nil {
		return false, err
	}
	if !terminated {
		e.b.CreateBr(head)
	}
	e.b.SetInsertPointAtEnd(end)
	return false, nil
}

func (e *Emitter) genForEver(v *tree.ForEver) (bool, error) {
	fn := e.curFunc
	body := e.ctx.AddBasicBlock(fn, "for.body")
	end := e.ctx.AddBasicBlock(fn, "for.end")

	e.b.CreateBr(body)
	e.b.SetInsertPointAtEnd(body)
	e.pushLoopTargets(body, end)
	e.values.Push()
	e.pushDeferScope()
	terminated, err := e.genBody(v.Body)
	e.popDeferScope(terminated)
	e.values.Pop()
	e.popLoopTargets()
	if err != nil {
		return false, err
	}
	if !terminated {
		e.b.CreateBr(body)
	}
	e.b.SetInsertPointAtEnd(end)
	if end.FirstUse().IsNil() {
		// no break ever targeted this loop: unreachable, but kept so any
		// branch generated above still has a valid destination.
	}
	return false, nil
}

// genForRange lowers `for name = start, end[, step] { body }` to a
// counted loop with an explicit induction variable.
func (e *Emitter) genForRange(v *tree.ForRange) (bool, error) {
	fn := e.curFunc
	startV, err := e.genExpr(v.Start)
	if err != nil {
		return false, err
	}
	endV, err := e.genExpr(v.End)
	if err != nil {
		return false, err
	}
	kind, _ := types.AsNumber(v.Start.Type())
	it := e.llvmType(v.Start.Type())
	alloc := e.b.CreateAlloca(it, v.Name)
	e.b.CreateStore(startV, alloc)

	head := e.ctx.AddBasicBlock(fn, "forrange.head")
	body := e.ctx.AddBasicBlock(fn, "forrange.body")
	step := e.ctx.AddBasicBlock(fn, "forrange.step")
	end := e.ctx.AddBasicBlock(fn, "forrange.end")

	e.b.CreateBr(head)
	e.b.SetInsertPointAtEnd(head)
	cur := e.b.CreateLoad(alloc, "")
	var cond llvm.Value
	if kind.IsFloat() {
		cond = e.b.CreateFCmp(llvm.FloatOLE, cur, endV, "")
	} else if kind.IsUnsigned() {
		cond = e.b.CreateICmp(llvm.IntULE, cur, endV, "")
	} else {
		cond = e.b.CreateICmp(llvm.IntSLE, cur, endV, "")
	}
	e.b.CreateCondBr(cond, body, end)

	e.b.SetInsertPointAtEnd(body)
	e.pushLoopTargets(step, end)
	e.values.Push()
	e.pushDeferScope()
	e.values.Define(v.Name, namedValue{ptr: alloc, typ: v.Start.Type()})
	terminated, err := e.genBody(v.Body)
	e.popDeferScope(terminated)
	e.values.Pop()
	e.popLoopTargets()
	if err != nil {
		return false, err
	}
	if !terminated {
		e.b.CreateBr(step)
	}

	e.b.SetInsertPointAtEnd(step)
	cur2 := e.b.CreateLoad(alloc, "")
	var stepV llvm.Value
	if v.HasStep {
		stepV, err = e.genExpr(v.Step)
		if err != nil {
			return false, err
		}
	} else if kind.IsFloat() {
		stepV = llvm.ConstFloat(it, 1.0)
	} else {
		stepV = llvm.ConstInt(it, 1, false)
	}
	var next llvm.Value
	if kind.IsFloat() {
		next = e.b.CreateFAdd(cur2, stepV, "")
	} else {
		next = e.b.CreateAdd(cur2, stepV, "")
	}
	e.b.CreateStore(next, alloc)
	e.b.CreateBr(head)

	e.b.SetInsertPointAtEnd(end)
	return false, nil
}

// genForEach lowers `for elem[, index] in collection { body }` over a
// StaticArray/StaticVector (fixed-trip-count GEP loop) or a *i8 string
// (NUL-terminated scan).
func (e *Emitter) genForEach(v *tree.ForEach) (bool, error) {
	fn := e.curFunc
	collV, err := e.genExpr(v.Collection)
	if err != nil {
		return false, err
	}

	idxAlloc := e.b.CreateAlloca(e.ctx.Int64Type(), "foreach.idx")
	e.b.CreateStore(llvm.ConstInt(e.ctx.Int64Type(), 0, false), idxAlloc)

	var tripCount llvm.Value
	var elemType types.Type
	collAlloc := e.b.CreateAlloca(collV.Type(), "foreach.coll")
	e.b.CreateStore(collV, collAlloc)

	isString := false
	switch ct := v.Collection.Type().(type) {
	case types.StaticArray:
		tripCount = llvm.ConstInt(e.ctx.Int64Type(), uint64(ct.Size), false)
		elemType = ct.Element
	case types.StaticVector:
		tripCount = llvm.ConstInt(e.ctx.Int64Type(), uint64(ct.Array.Size), false)
		elemType = ct.Array.Element
	case types.Pointer:
		isString = true
		elemType = types.Number{Kind: types.I8}
	}

	head := e.ctx.AddBasicBlock(fn, "foreach.head")
	body := e.ctx.AddBasicBlock(fn, "foreach.body")
	step := e.ctx.AddBasicBlock(fn, "foreach.step")
	end := e.ctx.AddBasicBlock(fn, "foreach.end")

	e.b.CreateBr(head)
	e.b.SetInsertPointAtEnd(head)
	idx := e.b.CreateLoad(idxAlloc, "")
	var cond llvm.Value
	if isString {
		ptr := e.b.CreateLoad(collAlloc, "")
		ch := e.b.CreateGEP(ptr, []llvm.Value{idx}, "")
		loaded := e.b.CreateLoad(ch, "")
		cond = e.b.CreateICmp(llvm.IntNE, loaded, llvm.ConstInt(e.ctx.Int8Type(), 0, false), "")
	} else {
		cond = e.b.CreateICmp(llvm.IntULT, idx, tripCount, "")
	}
	e.b.CreateCondBr(cond, body, end)

	e.b.SetInsertPointAtEnd(body)
	e.pushLoopTargets(step, end)
	e.values.Push()
	e.pushDeferScope()

	var elemVal llvm.Value
	if isString {
		ptr := e.b.CreateLoad(collAlloc, "")
		ch := e.b.CreateGEP(ptr, []llvm.Value{idx}, "")
		elemVal = e.b.CreateLoad(ch, "")
	} else {
		zero := llvm.ConstInt(e.ctx.Int32Type(), 0, false)
		gep := e.b.CreateGEP(collAlloc, []llvm.Value{zero, e.b.CreateTrunc(idx, e.ctx.Int32Type(), "")}, "")
		elemVal = e.b.CreateLoad(gep, "")
	}
	if v.ElemName != "_" {
		ea := e.b.CreateAlloca(e.llvmType(elemType), v.ElemName)
		e.b.CreateStore(elemVal, ea)
		e.values.Define(v.ElemName, namedValue{ptr: ea, typ: elemType})
	}
	if v.HasIndex && v.IndexName != "_" {
		ia := e.b.CreateAlloca(e.ctx.Int64Type(), v.IndexName)
		e.b.CreateStore(idx, ia)
		e.values.Define(v.IndexName, namedValue{ptr: ia, typ: types.Number{Kind: types.I64}})
	}

	terminated, err := e.genBody(v.Body)
	e.popDeferScope(terminated)
	e.values.Pop()
	e.popLoopTargets()
	if err != nil {
		return false, err
	}
	if !terminated {
		e.b.CreateBr(step)
	}

	e.b.SetInsertPointAtEnd(step)
	next := e.b.CreateAdd(idx, llvm.ConstInt(e.ctx.Int64Type(), 1, false), "")
	e.b.CreateStore(next, idxAlloc)
	e.b.CreateBr(head)

	e.b.SetInsertPointAtEnd(end)
	return false, nil
}

// genSwitch lowers the statement-position switch to an LLVM switch
// instruction over integer discriminants (enum members lower to their
// backing integer constant), with a default block for the else/default
// arm.
func (e *Emitter) genSwitch(v *tree.Switch) (bool, error) {
	fn := e.curFunc
	argV, err := e.genExpr(v.Argument)
	if err != nil {
		return false, err
	}
	end := e.ctx.AddBasicBlock(fn, "switch.end")
	defaultBB := e.ctx.AddBasicBlock(fn, "switch.default")

	sw := e.b.CreateSwitch(argV, defaultBB, len(v.Cases))
	allTerminated := true

	for _, c := range v.Cases {
		caseBB := e.ctx.AddBasicBlock(fn, "switch.case")
		for _, val := range c.Values {
			cv, err := e.genExpr(val)
			if err != nil {
				return false, err
			}
			sw.AddCase(cv, caseBB)
		}
		e.b.SetInsertPointAtEnd(caseBB)
		e.values.Push()
		e.pushDeferScope()
		terminated, err := e.genBody(c.Body)
		e.popDeferScope(terminated)
		e.values.Pop()
		if err != nil {
			return false, err
		}
		if !terminated {
			allTerminated = false
			e.b.CreateBr(end)
		}
	}

	e.b.SetInsertPointAtEnd(defaultBB)
	if v.HasDefault {
		e.values.Push()
		e.pushDeferScope()
		terminated, err := e.genBody(v.Default)
		e.popDeferScope(terminated)
		e.values.Pop()
		if err != nil {
			return false, err
		}
		if !terminated {
			allTerminated = false
			e.b.CreateBr(end)
		}
	} else {
		e.b.CreateUnreachable()
	}

	if allTerminated && v.HasDefault {
		end.EraseFromParent()
		return true, nil
	}
	e.b.SetInsertPointAtEnd(end)
	return false, nil
}

func (e *Emitter) genReturn(v *tree.Return) error {
	e.expandAllDefers()
	if !v.HasValue {
		e.b.CreateRetVoid()
		return nil
	}
	val, err := e.genExpr(v.Value)
	if err != nil {
		return err
	}
	e.b.CreateRet(e.coerce(val, v.Value.Type(), e.curRetType))
	return nil
}

// genDefer captures the callee and already-evaluated argument IR values
// at the defer site, scheduling them on the innermost live defer scope.
func (e *Emitter) genDefer(v *tree.Defer) error {
	if v.Call == nil {
		return nil
	}
	callee, args, err := e.resolveCallTarget(v.Call)
	if err != nil {
		return err
	}
	top := e.deferStack[len(e.deferStack)-1]
	*top = append(*top, deferredCall{callee: callee, args: args})
	return nil
}

func (e *Emitter) genBreak(v *tree.Break) error {
	e.b.CreateBr(e.breakTarget(v.Times))
	return nil
}

func (e *Emitter) genContinue(v *tree.Continue) error {
	e.b.CreateBr(e.continueTarget(v.Times))
	return nil
}
