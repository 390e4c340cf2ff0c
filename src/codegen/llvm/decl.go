package llvm

import (
	"tinygo.org/x/go-llvm"

	"la/src/tree"
	"la/src/types"
)

// declareFunction registers a module-level function header under name,
// shared by ordinary, monomorphized-generic and operator-overload
// declarations (they all reach here with a concrete, already-mangled
// name and a fully resolved *types.Function).
func (e *Emitter) declareFunction(name string, ft *types.Function) llvm.Value {
	if fn, ok := e.funcs[name]; ok {
		return fn
	}
	fn := llvm.AddFunction(e.mod, name, e.functionType(*ft))
	e.funcs[name] = fn
	return fn
}

func (e *Emitter) declarePrototype(d *tree.FunctionPrototype) {
	params := make([]types.Type, len(d.Params))
	for i, p := range d.Params {
		params[i] = p.Type
	}
	ft := &types.Function{Name: d.Name, Params: params, Return: d.Return, HasVarargs: d.HasVarargs, Varargs: d.Varargs}
	e.declareFunction(d.Name, ft)
}

// declareIntrinsic registers an @intrinsic(native_name) prototype under
// its *source* name but pointing at the native LLVM/libc symbol, so calls
// in the tree (which always reference the source name) resolve correctly
// while the emitted declaration carries the real linkage name.
func (e *Emitter) declareIntrinsic(d *tree.IntrinsicPrototype) {
	params := make([]types.Type, len(d.Params))
	for i, p := range d.Params {
		params[i] = p.Type
	}
	ft := &types.Function{Name: d.NativeName, Params: params, Return: d.Return}
	fn := llvm.AddFunction(e.mod, d.NativeName, e.functionType(*ft))
	e.funcs[d.Name] = fn
}

// defineFunction emits a function body under a fresh basic block, binding
// parameters as stack-allocated locals: each parameter is immediately
// stored to an alloca so later reassignment has somewhere to write.
func (e *Emitter) defineFunction(name string, ft *types.Function, params []tree.Param, body []tree.Statement) error {
	fn := e.funcs[name]
	if fn.IsNil() {
		fn = e.declareFunction(name, ft)
	}
	if fn.BasicBlocksCount() > 0 {
		return nil // already defined (can happen for interned generic instances)
	}

	savedFunc, savedRet := e.curFunc, e.curRetType
	e.curFunc, e.curRetType = fn, ft.Return
	defer func() { e.curFunc, e.curRetType = savedFunc, savedRet }()

	entry := llvm.AddBasicBlock(fn, "entry")
	e.b.SetInsertPointAtEnd(entry)

	e.values.Push()
	defer e.values.Pop()
	e.pushDeferScope()

	for i, p := range fn.Params() {
		pt := ft.Params[i]
		alloc := e.b.CreateAlloca(e.llvmType(pt), params[i].Name)
		e.b.CreateStore(p, alloc)
		e.values.Define(params[i].Name, namedValue{ptr: alloc, typ: pt})
	}

	terminated, err := e.genBody(body)
	if err != nil {
		e.popDeferScope(true)
		return err
	}
	e.popDeferScope(terminated)
	if !terminated {
		if types.IsVoid(ft.Return) {
			e.b.CreateRetVoid()
		} else {
			e.b.CreateUnreachable()
		}
	}
	return nil
}

// declareGlobal registers a global variable's storage.
func (e *Emitter) declareGlobal(d *tree.FieldDeclaration) error {
	t := d.Annotation
	if !d.ExplicitType && d.Value != nil {
		t = d.Value.Type()
	}
	g := llvm.AddGlobal(e.mod, e.llvmType(t), d.Name)
	e.values.Define(d.Name, namedValue{ptr: g, typ: t})
	return nil
}

// defineGlobal sets a global's initializer from its constant-folded value.
func (e *Emitter) defineGlobal(d *tree.FieldDeclaration) error {
	slot, _ := e.values.Lookup(d.Name)
	g := slot.ptr
	if d.Value == nil {
		g.SetInitializer(llvm.ConstNull(e.llvmType(slot.typ)))
		return nil
	}
	c, err := e.genConstant(d.Value)
	if err != nil {
		return err
	}
	g.SetInitializer(c)
	if lam, ok := d.Value.(*tree.LambdaExpr); ok {
		e.lambdaDefs[d.Name] = lam
	}
	return nil
}
