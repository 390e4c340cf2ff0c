// Package llvm implements the IR emitter: a second post-order walk
// over the resolved tree that lowers it into LLVM IR and, on success, an
// object file on disk. The context/module/builder lifecycle and the
// target-machine-to-object-file tail follow the standard
// tinygo.org/x/go-llvm usage pattern; per-node generation walks the
// richer type lattice and sealed tree in src/types and src/tree with a
// single sequential walk.
package llvm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tinygo.org/x/go-llvm"

	"la/src/diag"
	"la/src/token"
	"la/src/tree"
	"la/src/types"
	"la/src/util"
)

// deferredCall is one scheduled `defer f(args);` captured at the defer
// site: the callee value (a function or a loaded function pointer) and the
// already-evaluated argument IR values.
type deferredCall struct {
	callee llvm.Value
	args   []llvm.Value
}

// namedValue is what the value-scope table binds a name to: the storage
// location (an alloca or a global) plus the source type, needed to decide
// signed-vs-unsigned load/store semantics and struct/array GEP shapes.
type namedValue struct {
	ptr llvm.Value
	typ types.Type
}

// Emitter owns every piece of state the emission walk needs: the LLVM
// context/module/builder triple, the scoped value table, the defer/break/continue target
// stacks, and the interning tables for strings, struct layouts and lifted
// lambdas.
type Emitter struct {
	ctx llvm.Context
	mod llvm.Module
	b   llvm.Builder

	sink *diag.Sink

	values *util.ScopedMap[namedValue]

	funcs map[string]llvm.Value // module-level function values, by source/mangled name
	structTypes map[string]llvm.Type // interned named struct/tuple bodies, by mangled name
	enums map[string]*types.Enum // enum declarations, by name, for Enum::Member lowering

	strings   map[string]llvm.Value // interned constant string pointers, by literal bytes
	stringSeq int

	dataLayout      llvm.TargetData // ABI size/alignment queries for type_size/type_align, built lazily
	dataLayoutReady bool

	deferStack      []*[]deferredCall // one entry per live block scope, LIFO within
	breakTargets    []llvm.BasicBlock
	continueTargets []llvm.BasicBlock

	// lambdaFuncs caches the module function lifted for a given lambda
	// literal, keyed by the literal's own tree node so re-evaluating the
	// same AST position (e.g. inside a loop body) reuses one definition.
	lambdaFuncs map[*tree.LambdaExpr]llvm.Value
	lambdaSeq   int

	// lambdaDefs tracks, in one map for the whole module, which name was last bound
	// directly to a lambda literal (`var f = fun(...){...};`), so a later
	// call through that name can reload the literal's implicit captures
	// from the still-visible enclosing scope.
	lambdaDefs map[string]*tree.LambdaExpr

	curFunc    llvm.Value
	curRetType types.Type
}

// New returns an Emitter with a fresh LLVM context, module and builder;
// the module is named moduleName.
func New(sink *diag.Sink, moduleName string) *Emitter {
	ctx := llvm.NewContext()
	return &Emitter{
		ctx:         ctx,
		mod:         ctx.NewModule(moduleName),
		b:           ctx.NewBuilder(),
		sink:        sink,
		values:      util.NewScopedMap[namedValue](),
		funcs:       make(map[string]llvm.Value),
		structTypes: make(map[string]llvm.Type),
		enums:       make(map[string]*types.Enum),
		strings:     make(map[string]llvm.Value),
		lambdaFuncs: make(map[*tree.LambdaExpr]llvm.Value),
		lambdaDefs:  make(map[string]*tree.LambdaExpr),
	}
}

// Dispose releases the context/module/builder. Safe to call once, after
// Emit (or instead of it, if emission is abandoned).
func (e *Emitter) Dispose() {
	if e.dataLayoutReady {
		e.dataLayout.Dispose()
	}
	e.b.Dispose()
	e.mod.Dispose()
	e.ctx.Dispose()
}

// Emit lowers every top-level statement of unit into e's module: struct
// declarations register named types, function/prototype declarations
// register headers, then every function body is generated. Global
// variables are declared and initialized.
func (e *Emitter) Emit(unit *tree.Unit) error {
	// First pass: struct layouts and function headers, so forward
	// references between top-level declarations resolve regardless of
	// source order (mirroring the resolver's two-sweep shape).
	for _, s := range unit.Statements {
		if err := e.declareTopLevel(s); err != nil {
			return err
		}
	}
	// Second pass: global initializers and function bodies.
	for _, s := range unit.Statements {
		if err := e.defineTopLevel(s); err != nil {
			return err
		}
	}
	if err := llvm.VerifyModule(e.mod, llvm.ReturnStatusAction); err != nil {
		return fmt.Errorf("module verification failed: %w", err)
	}
	return nil
}

func (e *Emitter) declareTopLevel(s tree.Statement) error {
	switch d := s.(type) {
	case *tree.StructDeclaration:
		if d.ResolvedType != nil {
			e.structType(d.ResolvedType)
		}
	case *tree.EnumDeclaration:
		if d.ResolvedType != nil {
			e.enums[d.Name] = d.ResolvedType
		}
	case *tree.FunctionDeclaration:
		if d.ResolvedType != nil {
			e.declareFunction(d.Name, d.ResolvedType)
		}
	case *tree.FunctionPrototype:
		e.declarePrototype(d)
	case *tree.IntrinsicPrototype:
		e.declareIntrinsic(d)
	case *tree.OperatorFunctionDeclaration:
		if d.ResolvedType != nil {
			e.declareFunction(d.MangledName, d.ResolvedType)
		}
	case *tree.FieldDeclaration:
		if err := e.declareGlobal(d); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) defineTopLevel(s tree.Statement) error {
	switch d := s.(type) {
	case *tree.FunctionDeclaration:
		if d.ResolvedType == nil {
			return nil // unresolved generic template; only instantiations emit.
		}
		return e.defineFunction(d.Name, d.ResolvedType, d.Params, d.Body)
	case *tree.OperatorFunctionDeclaration:
		if d.ResolvedType == nil {
			return nil
		}
		return e.defineFunction(d.MangledName, d.ResolvedType, d.Params, d.Body)
	case *tree.FieldDeclaration:
		return e.defineGlobal(d)
	}
	return nil
}

// EmitObject runs target-machine selection and writes the module as a
// native object file to path.
func (e *Emitter) EmitObject(path string) error {
	llvm.InitializeAllTargetInfos()
	llvm.InitializeAllTargetMCs()
	llvm.InitializeAllAsmParsers()
	llvm.InitializeAllAsmPrinters()
	llvm.InitializeAllTargets()

	triple := llvm.DefaultTargetTriple()
	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return err
	}
	tm := target.CreateTargetMachine(triple, "generic", "",
		llvm.CodeGenLevelDefault, llvm.RelocDefault, llvm.CodeModelDefault)
	defer tm.Dispose()

	td := tm.CreateTargetData()
	defer td.Dispose()
	e.mod.SetDataLayout(td.String())
	e.mod.SetTarget(tm.Triple())

	buf, err := tm.EmitToMemoryBuffer(e.mod, llvm.ObjectFile)
	if err != nil {
		return err
	}
	if buf.IsNil() {
		return errors.New("could not emit compiled code to memory")
	}
	return writeObjectFile(path, buf.Bytes())
}

// EmitIR writes the module's textual IR representation to path.
func (e *Emitter) EmitIR(path string) error {
	return os.WriteFile(path, []byte(e.mod.String()), 0o644)
}

func writeObjectFile(path string, contents []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, contents, 0o755)
}

// internError records an emission invariant violation as an Internal
// diagnostic on the sink; it returns nothing.
func (e *Emitter) internError(span token.Span, format string, args ...interface{}) {
	e.sink.Errorf(span, diag.Internal, format, args...)
}
