package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberKindProperties(t *testing.T) {
	require.True(t, I64.IsSigned())
	require.True(t, U64.IsUnsigned())
	require.True(t, F32.IsFloat())
	require.False(t, F32.IsInteger())
	require.Equal(t, 1, I1.BitWidth())
	require.Equal(t, 64, I64.BitWidth())
	require.Equal(t, "u32", U32.String())
}

func TestEqualNumber(t *testing.T) {
	assert.True(t, Equal(Number{Kind: I32}, Number{Kind: I32}))
	assert.False(t, Equal(Number{Kind: I32}, Number{Kind: I64}))
}

func TestEqualPointerRecurses(t *testing.T) {
	a := Pointer{Base: Number{Kind: I8}}
	b := Pointer{Base: Number{Kind: I8}}
	c := Pointer{Base: Number{Kind: I16}}
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
}

func TestEqualStructByName(t *testing.T) {
	s1 := &Struct{Name: "Point", FieldNames: []string{"x"}, FieldTypes: []Type{Number{Kind: I32}}}
	s2 := &Struct{Name: "Point", FieldNames: []string{"x", "y"}, FieldTypes: []Type{Number{Kind: I32}, Number{Kind: I32}}}
	s3 := &Struct{Name: "Vec", FieldNames: []string{"x"}, FieldTypes: []Type{Number{Kind: I32}}}
	assert.True(t, Equal(s1, s2), "struct equality is by name only")
	assert.False(t, Equal(s1, s3))
}

func TestEqualGenericStructParameterWise(t *testing.T) {
	base := &Struct{Name: "Box", IsGeneric: true, GenericParameters: []string{"T"}}
	g1 := &GenericStruct{Struct: base, Parameters: []Type{Number{Kind: I32}}}
	g2 := &GenericStruct{Struct: base, Parameters: []Type{Number{Kind: I32}}}
	g3 := &GenericStruct{Struct: base, Parameters: []Type{Number{Kind: F64}}}
	assert.True(t, Equal(g1, g2))
	assert.False(t, Equal(g1, g3))
}

func TestEqualFunctionArityAndElementwise(t *testing.T) {
	f1 := Function{Params: []Type{Number{Kind: I64}}, Return: Number{Kind: I64}}
	f2 := Function{Params: []Type{Number{Kind: I64}}, Return: Number{Kind: I64}}
	f3 := Function{Params: []Type{Number{Kind: I64}, Number{Kind: I64}}, Return: Number{Kind: I64}}
	assert.True(t, Equal(f1, f2))
	assert.False(t, Equal(f1, f3))
}

func TestCastableNumericToNumeric(t *testing.T) {
	assert.True(t, Castable(Number{Kind: I32}, Number{Kind: F64}))
}

func TestCastableAnyToVoidPointer(t *testing.T) {
	voidPtr := Pointer{Base: Void}
	assert.True(t, Castable(Number{Kind: I8}, voidPtr))
	assert.True(t, Castable(voidPtr, Pointer{Base: Number{Kind: I8}}))
}

func TestCastableArrayToPointerDecay(t *testing.T) {
	arr := StaticArray{Element: Number{Kind: I8}, Size: 4}
	assert.True(t, Castable(arr, Pointer{Base: Number{Kind: I8}}))
	assert.False(t, Castable(arr, Pointer{Base: Number{Kind: I16}}))
}

func TestCastableForbidsVoidNoneEnumFunction(t *testing.T) {
	e := &Enum{Name: "Color", Element: Number{Kind: I8}}
	assert.False(t, Castable(Void, Number{Kind: I32}))
	assert.False(t, Castable(None, Number{Kind: I32}))
	assert.False(t, Castable(e, Number{Kind: I32}))
	assert.False(t, Castable(EnumElement{EnumName: "Color", Element: Number{Kind: I8}}, Number{Kind: I32}))
	assert.False(t, Castable(Function{Return: Void}, Number{Kind: I32}))
}

func TestMangleNumberKinds(t *testing.T) {
	assert.Equal(t, "i64", Number{Kind: I64}.Mangle())
	assert.Equal(t, "f32", Number{Kind: F32}.Mangle())
}

func TestManglePointerAndArray(t *testing.T) {
	p := Pointer{Base: Number{Kind: I8}}
	assert.Equal(t, "pi8", p.Mangle())

	a := StaticArray{Element: Number{Kind: I32}, Size: 4}
	assert.Equal(t, "_a4i32", a.Mangle())
}

func TestMangleGenericStructDeterministic(t *testing.T) {
	base := &Struct{Name: "Box", IsGeneric: true}
	g1 := &GenericStruct{Struct: base, Parameters: []Type{Number{Kind: I64}, Number{Kind: F64}}}
	g2 := &GenericStruct{Struct: base, Parameters: []Type{Number{Kind: I64}, Number{Kind: F64}}}
	assert.Equal(t, g1.Mangle(), g2.Mangle(), "equal parameter sequences must yield identical names")
	assert.Equal(t, "Boxi64f64", g1.Mangle())
}

func TestMangleTupleName(t *testing.T) {
	name := MangleTupleName([]Type{Number{Kind: I32}, Number{Kind: F64}})
	assert.Equal(t, "_tuple_i32f64", name)
}

func TestIsNoneVoidNull(t *testing.T) {
	assert.True(t, IsNone(None))
	assert.True(t, IsVoid(Void))
	assert.True(t, IsNull(Null))
	assert.False(t, IsNone(Void))
}

func TestAsNumber(t *testing.T) {
	k, ok := AsNumber(Number{Kind: U16})
	require.True(t, ok)
	assert.Equal(t, U16, k)

	_, ok = AsNumber(Void)
	assert.False(t, ok)
}
