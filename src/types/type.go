// Package types implements the closed tagged union of compile-time types:
// equality, castability, mangling and literal printing. Number types are
// equal only when their kinds are equal; there is no per-pair numeric
// compatibility table.
package types

import (
	"fmt"
	"strings"
)

// Type is the sealed interface implemented by every type variant. The
// unexported method seals the set to this package rather than relying on
// a type-erased interface{} encoding.
type Type interface {
	typ()
	// String renders the type the way a diagnostic or -vb dump should.
	String() string
	// Mangle renders the mangled name fragment for this type.
	Mangle() string
}

// ---- Number ----

type Number struct{ Kind NumberKind }

func (Number) typ()             {}
func (n Number) String() string { return n.Kind.String() }
func (n Number) Mangle() string { return n.Kind.Mangle() }

// ---- Pointer ----

type Pointer struct{ Base Type }

func (Pointer) typ()             {}
func (p Pointer) String() string { return "*" + p.Base.String() }
func (p Pointer) Mangle() string { return "p" + p.Base.Mangle() }

// ---- StaticArray ----

type StaticArray struct {
	Element Type
	Size    uint32
}

func (StaticArray) typ() {}
func (a StaticArray) String() string {
	return fmt.Sprintf("[%d]%s", a.Size, a.Element.String())
}
func (a StaticArray) Mangle() string {
	return fmt.Sprintf("_a%d%s", a.Size, a.Element.Mangle())
}

// ---- StaticVector ----

// StaticVector wraps a StaticArray whose element must be an unsigned
// integer or float (enforced by the resolver, not this package).
type StaticVector struct{ Array StaticArray }

func (StaticVector) typ() {}
func (v StaticVector) String() string {
	return fmt.Sprintf("<%d x %s>", v.Array.Size, v.Array.Element.String())
}
func (v StaticVector) Mangle() string { return "_v" + v.Array.Mangle() }

// ---- Function ----

type Function struct {
	Name                string
	Params              []Type
	Return              Type
	HasVarargs          bool
	Varargs             Type
	IsIntrinsic         bool
	IsGeneric           bool
	GenericNames        []string
	ImplicitParamCount  uint32
}

func (Function) typ() {}
func (f Function) String() string {
	parts := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		parts = append(parts, p.String())
	}
	if f.HasVarargs {
		parts = append(parts, "varargs")
	}
	ret := "void"
	if f.Return != nil {
		ret = f.Return.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), ret)
}
func (f Function) Mangle() string {
	sb := strings.Builder{}
	sb.WriteString("_fn")
	for _, p := range f.Params {
		sb.WriteString(p.Mangle())
	}
	if f.Return != nil {
		sb.WriteString(f.Return.Mangle())
	}
	return sb.String()
}

// ---- Struct ----

type Struct struct {
	Name                   string
	FieldNames             []string
	FieldTypes             []Type
	GenericParameters      []string
	GenericParameterTypes  []Type
	IsPacked               bool
	IsGeneric              bool
	IsExtern               bool
}

func (*Struct) typ()             {}
func (s *Struct) String() string { return s.Name }
func (s *Struct) Mangle() string { return s.Name }

// FieldIndex returns the index of the named field, or -1.
func (s *Struct) FieldIndex(name string) int {
	for i, n := range s.FieldNames {
		if n == name {
			return i
		}
	}
	return -1
}

// ---- Tuple ----

type Tuple struct {
	Name       string
	FieldTypes []Type
}

func (*Tuple) typ()             {}
func (t *Tuple) String() string { return t.Name }
func (t *Tuple) Mangle() string { return t.Name }

// MangleTupleName computes the interned tuple name from its field types:
// "_tuple_" + concatenated mangled field types.
func MangleTupleName(fields []Type) string {
	sb := strings.Builder{}
	sb.WriteString("_tuple_")
	for _, f := range fields {
		sb.WriteString(f.Mangle())
	}
	return sb.String()
}

// ---- Enum ----

// EnumValue is one ordered (name, discriminant) pair of an Enum.
type EnumValue struct {
	Name  string
	Value uint32
}

type Enum struct {
	Name    string
	Values  []EnumValue
	Element Type // must be an integer Number type
}

func (*Enum) typ()             {}
func (e *Enum) String() string { return e.Name }
func (e *Enum) Mangle() string { return e.Name }

// Lookup returns the discriminant of the named member.
func (e *Enum) Lookup(name string) (uint32, bool) {
	for _, v := range e.Values {
		if v.Name == name {
			return v.Value, true
		}
	}
	return 0, false
}

// ---- EnumElement ----

// EnumElement is the type of `Enum::Member` expressions: it carries the
// enum's name (for Equal-by-name) and its backing element type.
type EnumElement struct {
	EnumName string
	Element  Type
}

func (EnumElement) typ()             {}
func (e EnumElement) String() string { return e.EnumName }
func (e EnumElement) Mangle() string { return e.EnumName }

// ---- GenericParameter ----

type GenericParameter struct{ Name string }

func (GenericParameter) typ()             {}
func (g GenericParameter) String() string { return g.Name }
func (g GenericParameter) Mangle() string { return g.Name }

// ---- GenericStruct ----

type GenericStruct struct {
	Struct     *Struct
	Parameters []Type
}

func (*GenericStruct) typ() {}
func (g *GenericStruct) String() string {
	parts := make([]string, 0, len(g.Parameters))
	for _, p := range g.Parameters {
		parts = append(parts, p.String())
	}
	return fmt.Sprintf("%s<%s>", g.Struct.Name, strings.Join(parts, ", "))
}

// Mangle concatenates the original struct name with the mangled parameter
// types: this is also the interned name of the monomorphized struct.
func (g *GenericStruct) Mangle() string {
	sb := strings.Builder{}
	sb.WriteString(g.Struct.Name)
	for _, p := range g.Parameters {
		sb.WriteString(p.Mangle())
	}
	return sb.String()
}

// ---- None / Void / Null ----

type noneType struct{}
type voidType struct{}
type nullType struct{}

func (noneType) typ()             {}
func (noneType) String() string   { return "<none>" }
func (noneType) Mangle() string   { return "_none" }
func (voidType) typ()             {}
func (voidType) String() string   { return "void" }
func (voidType) Mangle() string   { return "v" }
func (nullType) typ()             {}
func (nullType) String() string   { return "null" }
func (nullType) Mangle() string   { return "_null" }

// None is the placeholder type the parser assigns before resolution fills
// in a real type. Void is the absence of a return value. Null is the type
// of the `null` literal before its pointer base is inferred.
var (
	None Type = noneType{}
	Void Type = voidType{}
	Null Type = nullType{}
)

// IsNone reports whether t is the unresolved placeholder type.
func IsNone(t Type) bool {
	_, ok := t.(noneType)
	return ok
}

// IsVoid reports whether t is Void.
func IsVoid(t Type) bool {
	_, ok := t.(voidType)
	return ok
}

// IsNull reports whether t is the (possibly not-yet-based) Null type.
func IsNull(t Type) bool {
	_, ok := t.(nullType)
	return ok
}

// AsNumber returns the Number kind of t, if t is a Number.
func AsNumber(t Type) (NumberKind, bool) {
	if n, ok := t.(Number); ok {
		return n.Kind, true
	}
	return 0, false
}

// AsPointer returns the Pointer, if t is a Pointer.
func AsPointer(t Type) (Pointer, bool) {
	p, ok := t.(Pointer)
	return p, ok
}

// Equal implements the type model's equality rules: Number equality is kind
// equality; Pointer/StaticArray/StaticVector equality recurses; Struct,
// Tuple and Enum equality is by name; GenericStruct equality requires the
// underlying struct names and all parameter types to match pairwise;
// Function equality requires arity, element-wise parameter equality and
// return equality.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		return ok && av.Kind == bv.Kind
	case Pointer:
		bv, ok := b.(Pointer)
		return ok && Equal(av.Base, bv.Base)
	case StaticArray:
		bv, ok := b.(StaticArray)
		return ok && av.Size == bv.Size && Equal(av.Element, bv.Element)
	case StaticVector:
		bv, ok := b.(StaticVector)
		return ok && Equal(av.Array, bv.Array)
	case Function:
		bv, ok := b.(Function)
		if !ok || len(av.Params) != len(bv.Params) || av.HasVarargs != bv.HasVarargs {
			return false
		}
		for i := range av.Params {
			if !Equal(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return Equal(av.Return, bv.Return)
	case *Struct:
		bv, ok := b.(*Struct)
		return ok && av.Name == bv.Name
	case *Tuple:
		bv, ok := b.(*Tuple)
		return ok && av.Name == bv.Name
	case *Enum:
		bv, ok := b.(*Enum)
		return ok && av.Name == bv.Name
	case EnumElement:
		bv, ok := b.(EnumElement)
		return ok && av.EnumName == bv.EnumName
	case GenericParameter:
		bv, ok := b.(GenericParameter)
		return ok && av.Name == bv.Name
	case *GenericStruct:
		bv, ok := b.(*GenericStruct)
		if !ok || av.Struct.Name != bv.Struct.Name || len(av.Parameters) != len(bv.Parameters) {
			return false
		}
		for i := range av.Parameters {
			if !Equal(av.Parameters[i], bv.Parameters[i]) {
				return false
			}
		}
		return true
	case noneType:
		_, ok := b.(noneType)
		return ok
	case voidType:
		_, ok := b.(voidType)
		return ok
	case nullType:
		_, ok := b.(nullType)
		return ok
	}
	return false
}

// Castable implements the type model's castability rule: numeric<->numeric casts
// are always permitted (narrowing/widening and signed<->unsigned<->float
// conversions are a codegen concern, not a type-system one); any type may
// cast to or from a pointer-to-void; a StaticArray may cast to a Pointer
// of the same element type (array-to-pointer decay); and Void, None,
// Enum, EnumElement and Function are forbidden on either side.
func Castable(from, to Type) bool {
	if isForbiddenCastOperand(from) || isForbiddenCastOperand(to) {
		return false
	}
	if _, ok := from.(Number); ok {
		if _, ok := to.(Number); ok {
			return true
		}
	}
	if p, ok := to.(Pointer); ok && IsVoid(p.Base) {
		return true
	}
	if p, ok := from.(Pointer); ok && IsVoid(p.Base) {
		return true
	}
	if a, ok := from.(StaticArray); ok {
		if p, ok := to.(Pointer); ok {
			return Equal(a.Element, p.Base)
		}
	}
	return Equal(from, to)
}

func isForbiddenCastOperand(t Type) bool {
	switch t.(type) {
	case voidType, noneType, *Enum, EnumElement, Function:
		return true
	}
	return false
}
