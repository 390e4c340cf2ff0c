package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"la/src/token"
	"la/src/types"
)

func TestMangleOperatorBinary(t *testing.T) {
	i64 := types.Number{Kind: types.I64}
	got := MangleOperator(token.Plus, false, false, []types.Type{i64, i64})
	assert.Equal(t, "_operator_add"+i64.Mangle()+i64.Mangle(), got)
}

func TestMangleOperatorPrefixVsPostfix(t *testing.T) {
	i32 := types.Number{Kind: types.I32}
	prefix := MangleOperator(token.PlusPlus, true, false, []types.Type{i32})
	postfix := MangleOperator(token.PlusPlus, false, true, []types.Type{i32})
	assert.NotEqual(t, prefix, postfix)
	assert.Contains(t, prefix, "_prefix")
	assert.Contains(t, postfix, "_postfix")
}

func TestMangleOperatorIsDeterministic(t *testing.T) {
	operands := []types.Type{types.Number{Kind: types.F64}, types.Number{Kind: types.I8}}
	a := MangleOperator(token.EqualEqual, false, false, operands)
	b := MangleOperator(token.EqualEqual, false, false, operands)
	assert.Equal(t, a, b)
}

func TestMangleOperatorDistinguishesOperators(t *testing.T) {
	i64 := types.Number{Kind: types.I64}
	eq := MangleOperator(token.EqualEqual, false, false, []types.Type{i64, i64})
	ne := MangleOperator(token.BangEqual, false, false, []types.Type{i64, i64})
	assert.NotEqual(t, eq, ne)
}
