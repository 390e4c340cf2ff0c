package resolve

import (
	"strings"

	"la/src/token"
	"la/src/types"
)

// operatorSymbol gives each overloadable operator token a short,
// identifier-safe word for use in a mangled symbol name.
func operatorSymbol(op token.Kind) string {
	switch op {
	case token.Plus:
		return "add"
	case token.Minus:
		return "sub"
	case token.Star:
		return "mul"
	case token.Slash:
		return "div"
	case token.Percent:
		return "mod"
	case token.Amp:
		return "and"
	case token.Pipe:
		return "or"
	case token.Caret:
		return "xor"
	case token.LessLess:
		return "shl"
	case token.RightShift:
		return "shr"
	case token.EqualEqual:
		return "eq"
	case token.BangEqual:
		return "ne"
	case token.Less:
		return "lt"
	case token.LessEqual:
		return "le"
	case token.Greater:
		return "gt"
	case token.GreaterEqual:
		return "ge"
	case token.Bang:
		return "not"
	case token.Tilde:
		return "bnot"
	case token.PlusPlus:
		return "inc"
	case token.MinusMinus:
		return "dec"
	default:
		return op.String()
	}
}

// MangleOperator computes the operator-overload symbol name:
// "_operator_<op>" followed by the concatenated type manglings of the
// operands, prefixed with "_prefix"/"_postfix" for unary forms.
func MangleOperator(op token.Kind, prefix, postfix bool, operands []types.Type) string {
	var sb strings.Builder
	if prefix {
		sb.WriteString("_prefix")
	} else if postfix {
		sb.WriteString("_postfix")
	}
	sb.WriteString("_operator_")
	sb.WriteString(operatorSymbol(op))
	for _, t := range operands {
		sb.WriteString(t.Mangle())
	}
	return sb.String()
}
