package llvm

import (
	"tinygo.org/x/go-llvm"

	"la/src/types"
)

// llvmType lowers a resolved source type to its LLVM representation.
// Struct, Tuple and GenericStruct instantiations are interned as named
// struct types keyed by their mangled name (structType); every other
// variant is computed directly since LLVM already interns scalar/pointer/
// array/vector types itself.
func (e *Emitter) llvmType(t types.Type) llvm.Type {
	switch v := t.(type) {
	case types.Number:
		return e.numberType(v.Kind)
	case types.Pointer:
		base := v.Base
		if types.IsVoid(base) || types.IsNone(base) {
			return llvm.PointerType(e.ctx.Int8Type(), 0)
		}
		return llvm.PointerType(e.llvmType(base), 0)
	case types.StaticArray:
		return llvm.ArrayType(e.llvmType(v.Element), int(v.Size))
	case types.StaticVector:
		return llvm.VectorType(e.llvmType(v.Array.Element), int(v.Array.Size))
	case types.Function:
		// A Function-typed value (a lambda-bound variable, a parameter
		// received by value) is always a pointer to the callable in LLVM;
		// only a top-level declaration's own header uses functionType bare.
		return llvm.PointerType(e.functionType(v), 0)
	case *types.Struct:
		return e.structType(v)
	case *types.Tuple:
		return e.tupleType(v)
	case *types.Enum:
		return e.llvmType(v.Element)
	case types.EnumElement:
		return e.llvmType(v.Element)
	default:
		if types.IsVoid(t) {
			return e.ctx.VoidType()
		}
		// None/Null reaching codegen is an emitter invariant violation; fall
		// back to i64 so generation can continue far enough to report it
		// through the normal diagnostic path at the call site.
		return e.ctx.Int64Type()
	}
}

func (e *Emitter) numberType(k types.NumberKind) llvm.Type {
	switch k {
	case types.I1:
		return e.ctx.Int1Type()
	case types.I8, types.U8:
		return e.ctx.Int8Type()
	case types.I16, types.U16:
		return e.ctx.Int16Type()
	case types.I32, types.U32:
		return e.ctx.Int32Type()
	case types.I64, types.U64:
		return e.ctx.Int64Type()
	case types.F32:
		return e.ctx.FloatType()
	case types.F64:
		return e.ctx.DoubleType()
	default:
		return e.ctx.Int64Type()
	}
}

func (e *Emitter) functionType(f types.Function) llvm.Type {
	params := make([]llvm.Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = e.llvmType(p)
	}
	var ret llvm.Type
	if f.Return == nil || types.IsVoid(f.Return) {
		ret = e.ctx.VoidType()
	} else {
		ret = e.llvmType(f.Return)
	}
	return llvm.FunctionType(ret, params, f.HasVarargs)
}

// structType interns a named LLVM struct type for a resolved struct,
// including monomorphized generic instances (already carrying their
// mangled name by the time the resolver hands them here). The
// opaque type is created and registered before its field types are
// resolved, so a self-referential struct (always behind a Pointer field)
// can see its own named type mid-resolution.
func (e *Emitter) structType(s *types.Struct) llvm.Type {
	if t, ok := e.structTypes[s.Name]; ok {
		return t
	}
	named := e.ctx.StructCreateNamed(s.Name)
	e.structTypes[s.Name] = named
	fields := make([]llvm.Type, len(s.FieldTypes))
	for i, ft := range s.FieldTypes {
		fields[i] = e.llvmType(ft)
	}
	named.StructSetBody(fields, s.IsPacked)
	return named
}

func (e *Emitter) tupleType(t *types.Tuple) llvm.Type {
	if existing, ok := e.structTypes[t.Name]; ok {
		return existing
	}
	named := e.ctx.StructCreateNamed(t.Name)
	e.structTypes[t.Name] = named
	fields := make([]llvm.Type, len(t.FieldTypes))
	for i, ft := range t.FieldTypes {
		fields[i] = e.llvmType(ft)
	}
	named.StructSetBody(fields, false)
	return named
}
