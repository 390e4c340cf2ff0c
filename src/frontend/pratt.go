package frontend

import (
	"la/src/token"
	"la/src/tree"
	"la/src/types"
)

// parseExpression is the entry point of the Pratt parser:
// assignment < logical-or < logical-and < bitwise < comparison < shift <
// additive < multiplicative < unary < postfix/call/index/dot < primary.
func (p *parser) parseExpression() tree.Expression {
	return p.parseAssignment()
}

func (p *parser) parseAssignment() tree.Expression {
	left := p.parseLogicalOr()
	switch p.cur().Kind {
	case token.Equal, token.PlusEqual, token.MinusEqual, token.StarEqual,
		token.SlashEqual, token.PercentEqual, token.LessLessEqual, token.RightShiftEqual:
		span := p.cur().Span
		op := p.advance().Kind
		right := p.parseAssignment() // right-associative
		return &tree.AssignExpr{Span: span, Op: op, LHS: left, RHS: right, ExprBase: tree.Base()}
	}
	return left
}

func (p *parser) parseLogicalOr() tree.Expression {
	left := p.parseLogicalAnd()
	for p.at(token.PipePipe) {
		span := p.cur().Span
		op := p.advance().Kind
		right := p.parseLogicalAnd()
		left = &tree.LogicalExpr{Span: span, Op: op, Left: left, Right: right, ExprBase: tree.Base()}
	}
	return left
}

func (p *parser) parseLogicalAnd() tree.Expression {
	left := p.parseBitwise()
	for p.at(token.AmpAmp) {
		span := p.cur().Span
		op := p.advance().Kind
		right := p.parseBitwise()
		left = &tree.LogicalExpr{Span: span, Op: op, Left: left, Right: right, ExprBase: tree.Base()}
	}
	return left
}

func (p *parser) parseBitwise() tree.Expression {
	left := p.parseComparison()
	for p.at(token.Amp) || p.at(token.Pipe) || p.at(token.Caret) {
		span := p.cur().Span
		op := p.advance().Kind
		right := p.parseComparison()
		left = &tree.BitwiseExpr{Span: span, Op: op, Left: left, Right: right, ExprBase: tree.Base()}
	}
	return left
}

func (p *parser) parseComparison() tree.Expression {
	left := p.parseShift()
	for {
		switch p.cur().Kind {
		case token.EqualEqual, token.BangEqual, token.Less, token.LessEqual,
			token.Greater, token.GreaterEqual:
			span := p.cur().Span
			op := p.advance().Kind
			right := p.parseShift()
			left = &tree.ComparisonExpr{Span: span, Op: op, Left: left, Right: right, ExprBase: tree.Base()}
			continue
		}
		return left
	}
}

// parseShift reassembles `>>` from two adjacent Greater tokens: the lexer
// always emits a bare `>>` as two Greater tokens so that generic-argument
// lists close correctly; here, at shift precedence, two Greater tokens in
// a row are read back as one RightShift operator. A lone `<<` needs no
// such reassembly.
func (p *parser) parseShift() tree.Expression {
	left := p.parseAdditive()
	for {
		if p.at(token.LessLess) {
			span := p.cur().Span
			p.advance()
			right := p.parseAdditive()
			left = &tree.BitwiseExpr{Span: span, Op: token.LessLess, Left: left, Right: right, ExprBase: tree.Base()}
			continue
		}
		if p.at(token.Greater) && p.peekKind(1) == token.Greater {
			span := p.cur().Span
			p.advance()
			p.advance()
			right := p.parseAdditive()
			left = &tree.BitwiseExpr{Span: span, Op: token.RightShift, Left: left, Right: right, ExprBase: tree.Base()}
			continue
		}
		return left
	}
}

func (p *parser) peekKind(n int) token.Kind {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return token.EOF
	}
	return p.tokens[idx].Kind
}

func (p *parser) parseAdditive() tree.Expression {
	left := p.parseMultiplicative()
	for p.at(token.Plus) || p.at(token.Minus) {
		span := p.cur().Span
		op := p.advance().Kind
		right := p.parseMultiplicative()
		left = &tree.BinaryExpr{Span: span, Op: op, Left: left, Right: right, ExprBase: tree.Base()}
	}
	return left
}

func (p *parser) parseMultiplicative() tree.Expression {
	left := p.parseUnary()
	for p.at(token.Star) || p.at(token.Slash) || p.at(token.Percent) {
		span := p.cur().Span
		op := p.advance().Kind
		right := p.parseUnary()
		left = &tree.BinaryExpr{Span: span, Op: op, Left: left, Right: right, ExprBase: tree.Base()}
	}
	return left
}

func (p *parser) parseUnary() tree.Expression {
	switch p.cur().Kind {
	case token.Minus, token.Bang, token.Tilde, token.PlusPlus, token.MinusMinus, token.Star, token.Amp:
		span := p.cur().Span
		op := p.advance().Kind
		operand := p.parseUnary()
		return &tree.PrefixUnaryExpr{Span: span, Op: op, Operand: operand, ExprBase: tree.Base()}
	case token.KwCast:
		return p.parseCast()
	case token.KwTypeSize:
		return p.parseTypeSize()
	case token.KwTypeAlign:
		return p.parseTypeAlign()
	case token.KwValueSize:
		return p.parseValueSize()
	}
	return p.parsePostfix()
}

func (p *parser) parseCast() tree.Expression {
	span := p.cur().Span
	p.advance() // 'cast'
	p.expect(token.LParen, "'(' opening cast target type")
	target := p.parseTypeAnnotation()
	p.expect(token.RParen, "')' closing cast target type")
	value := p.parseUnary()
	return &tree.CastExpr{Span: span, Target: target, Value: value, ExprBase: tree.Base()}
}

func (p *parser) parseTypeSize() tree.Expression {
	span := p.cur().Span
	p.advance()
	p.expect(token.LParen, "'(' after type_size")
	t := p.parseTypeAnnotation()
	p.expect(token.RParen, "')' closing type_size")
	return &tree.TypeSizeExpr{Span: span, Of: t, ExprBase: tree.BaseWith(types.Number{Kind: types.I64})}
}

func (p *parser) parseTypeAlign() tree.Expression {
	span := p.cur().Span
	p.advance()
	p.expect(token.LParen, "'(' after type_align")
	t := p.parseTypeAnnotation()
	p.expect(token.RParen, "')' closing type_align")
	return &tree.TypeAlignExpr{Span: span, Of: t, ExprBase: tree.BaseWith(types.Number{Kind: types.I64})}
}

func (p *parser) parseValueSize() tree.Expression {
	span := p.cur().Span
	p.advance()
	p.expect(token.LParen, "'(' after value_size")
	v := p.parseExpression()
	p.expect(token.RParen, "')' closing value_size")
	return &tree.ValueSizeExpr{Span: span, Of: v, ExprBase: tree.BaseWith(types.Number{Kind: types.I64})}
}

// parsePostfix handles the postfix/call/index/dot precedence level.
func (p *parser) parsePostfix() tree.Expression {
	expr := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.LParen:
			expr = p.parseCallArguments(expr, nil)
		case token.Dot:
			span := p.advance().Span
			name := p.identifier("field/method name")
			expr = &tree.DotExpr{Span: span, Target: expr, Name: name, FieldIndex: -1, ExprBase: tree.Base()}
		case token.LBracket:
			span := p.advance().Span
			idx := p.parseExpression()
			p.expect(token.RBracket, "']' closing index expression")
			expr = &tree.IndexExpr{Span: span, Target: expr, Index: idx, ExprBase: tree.Base()}
		case token.PlusPlus, token.MinusMinus:
			span := p.cur().Span
			op := p.advance().Kind
			expr = &tree.PostfixUnaryExpr{Span: span, Op: op, Operand: expr, ExprBase: tree.Base()}
		default:
			return expr
		}
	}
}

func (p *parser) parseCallArguments(callee tree.Expression, generics []types.Type) tree.Expression {
	span := p.advance().Span // '('
	var args []tree.Expression
	for !p.at(token.RParen) {
		args = append(args, p.parseCallArgument())
		if !p.check(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, "')' closing call arguments")
	return &tree.CallExpr{Span: span, Callee: callee, Arguments: args, GenericArgs: generics, ExprBase: tree.Base()}
}

// parseCallArgument parses one call argument; a lambda in argument
// position is marked as disallowed to capture.
func (p *parser) parseCallArgument() tree.Expression {
	if p.at(token.KwFun) {
		lam := p.parseLambda()
		lam.(*tree.LambdaExpr).NoCapturesAllowed = true
		return lam
	}
	return p.parseExpression()
}

func (p *parser) parseLambda() tree.Expression {
	span := p.cur().Span
	p.advance() // 'fun'
	params, _, _ := p.parseParamList()
	ret := p.parseReturnTypeAnnotation()
	body := p.parseBlockStatements()
	var lparams []tree.LambdaParam
	for _, prm := range params {
		lparams = append(lparams, tree.LambdaParam{Name: prm.Name, Type: prm.Type})
	}
	return &tree.LambdaExpr{
		Span: span, Params: lparams, ReturnType: ret, Body: body,
		ExprBase: tree.Base(),
	}
}

// parsePrimary parses literals, parenthesized/tuple expressions, array
// and vector literals, identifiers (with optional generic call arguments
// and struct/tuple initializers), if-expressions and switch-expressions.
func (p *parser) parsePrimary() tree.Expression {
	t := p.cur()
	switch t.Kind {
	case token.Int:
		p.advance()
		return &tree.NumberExpr{Span: t.Span, Text: t.Lexeme, Unclassified: true, ExprBase: tree.BaseWith(types.None)}
	case token.Float:
		p.advance()
		return &tree.NumberExpr{Span: t.Span, Text: t.Lexeme, IsFloat: true, Unclassified: true, ExprBase: tree.BaseWith(types.None)}
	case token.I1, token.I8, token.I16, token.I32, token.I64,
		token.U8, token.U16, token.U32, token.U64, token.F32, token.F64:
		// A sized-kind keyword appearing where an expression is expected
		// can only be a numeric-literal lexeme that the lexer classified
		// directly into its suffix kind at scan time; the
		// lexeme text still carries the literal's digits plus suffix.
		p.advance()
		kind := numberKindFor(t.Kind)
		return &tree.NumberExpr{Span: t.Span, Text: t.Lexeme, IsFloat: kind.IsFloat(), Kind: kind, ExprBase: tree.BaseWith(types.Number{Kind: kind})}
	case token.String:
		p.advance()
		return &tree.StringExpr{Span: t.Span, Value: t.Lexeme, ExprBase: tree.BaseWith(types.Pointer{Base: types.Number{Kind: types.I8}})}
	case token.Character:
		p.advance()
		var b byte
		if len(t.Lexeme) > 0 {
			b = t.Lexeme[0]
		}
		return &tree.CharacterExpr{Span: t.Span, Value: b, ExprBase: tree.BaseWith(types.Number{Kind: types.I8})}
	case token.KwTrue:
		p.advance()
		return &tree.BoolExpr{Span: t.Span, Value: true, ExprBase: tree.BaseWith(types.Number{Kind: types.I1})}
	case token.KwFalse:
		p.advance()
		return &tree.BoolExpr{Span: t.Span, Value: false, ExprBase: tree.BaseWith(types.Number{Kind: types.I1})}
	case token.KwNull:
		p.advance()
		return &tree.NullExpr{Span: t.Span, ExprBase: tree.BaseWith(types.Null)}
	case token.KwUndefined:
		p.advance()
		return &tree.UndefinedExpr{Span: t.Span, ExprBase: tree.Base()}
	case token.Minus:
		// handled in parseUnary; reaching here means a bare '-' before a
		// non-numeric primary, which parseUnary already consumed — unreachable.
	case token.Identifier:
		if t.Lexeme == "infinity" {
			p.advance()
			return &tree.InfinityExpr{Span: t.Span, ExprBase: tree.BaseWith(types.Number{Kind: types.F64})}
		}
		return p.parseIdentifierPrimary()
	case token.LParen:
		return p.parseParenOrTuple()
	case token.LBracket:
		return p.parseArrayLiteral()
	case token.Less:
		return p.parseVectorLiteral()
	case token.KwIf:
		return p.parseIfExpr()
	case token.KwSwitch:
		return p.parseSwitchExpr()
	case token.KwFun:
		return p.parseLambda()
	}
	p.errorf("unexpected token %q in expression", t.Lexeme)
	return nil
}

// parseIdentifierPrimary parses a bare name, an `Enum::Member` access, a
// generic call `name<T>(args)`, or a struct/tuple initializer `Name {
// field: value, ... }`.
func (p *parser) parseIdentifierPrimary() tree.Expression {
	t := p.advance()
	if p.check(token.ColonColon) {
		member := p.identifier("enum member name")
		return &tree.EnumAccessExpr{Span: t.Span, EnumName: t.Lexeme, Member: member, ExprBase: tree.Base()}
	}
	var generics []types.Type
	if p.at(token.Less) && p.looksLikeGenericArgs() {
		p.advance()
		for {
			generics = append(generics, p.parseTypeAnnotation())
			if !p.check(token.Comma) {
				break
			}
		}
		p.closeGenericArgs()
	}
	if p.at(token.LBrace) && p.allowInitExpr() {
		return p.parseInitExpr(t.Lexeme, generics)
	}
	name := &tree.LiteralExpr{Span: t.Span, Name: t.Lexeme, ExprBase: tree.BaseWith(types.None)}
	if len(generics) == 0 && !p.at(token.LParen) {
		return name
	}
	if p.at(token.LParen) {
		return p.parseCallArguments(name, generics)
	}
	return name
}

// looksLikeGenericArgs is a conservative heuristic: a '<' after an
// identifier starts a generic-argument list only when a matching close
// can be found before a statement terminator, avoiding misreading `x < y`
// comparisons as `x<y>(...)`.
func (p *parser) looksLikeGenericArgs() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case token.Less:
			depth++
		case token.Greater:
			depth--
			if depth == 0 {
				return i+1 < len(p.tokens) && p.tokens[i+1].Kind == token.LParen
			}
		case token.Semicolon, token.LBrace, token.RBrace, token.EOF:
			return false
		}
	}
	return false
}

func (p *parser) closeGenericArgs() {
	// A bare '>' closes here; a '>>' was split by the lexer into two
	// Greater tokens, so closing a nested generic-argument list only ever
	// needs to consume one Greater at a time regardless of how the source
	// spelled the boundary.
	p.expect(token.Greater, "'>' closing generic argument list")
}

// allowInitExpr is a heuristic guard so that `if cond { ... }` and
// `while cond { ... }` are not misread as a struct initializer when cond
// is a bare identifier: callers that want an Init expression (Dot/Call
// targets, assignment right-hand sides) still reach parseIdentifierPrimary
// directly. Top-level statement contexts that parse a condition expression
// call parseExpressionNoInit instead.
func (p *parser) allowInitExpr() bool {
	return !p.noInit
}

// parseExpressionNoInit parses an expression in a context (if/while/
// switch-argument/for-range bound) where a following '{' must start a
// block or case body rather than a struct initializer.
func (p *parser) parseExpressionNoInit() tree.Expression {
	save := p.noInit
	p.noInit = true
	defer func() { p.noInit = save }()
	return p.parseExpression()
}

// parseParenOrTuple parses `(expr)` or, when a comma follows the first
// element, a positional tuple literal `(a, b, c)`.
func (p *parser) parseParenOrTuple() tree.Expression {
	span := p.advance().Span // '('
	first := p.parseExpression()
	if !p.at(token.Comma) {
		p.expect(token.RParen, "')' closing parenthesized expression")
		return first
	}
	elems := []tree.Expression{first}
	for p.check(token.Comma) {
		if p.at(token.RParen) {
			break
		}
		elems = append(elems, p.parseExpression())
	}
	p.expect(token.RParen, "')' closing tuple literal")
	return &tree.TupleExpr{Span: span, Elements: elems, ExprBase: tree.Base()}
}

// parseArrayLiteral parses `[e1, e2, e3]`.
func (p *parser) parseArrayLiteral() tree.Expression {
	span := p.advance().Span // '['
	var elems []tree.Expression
	for !p.at(token.RBracket) {
		elems = append(elems, p.parseExpression())
		if !p.check(token.Comma) {
			break
		}
	}
	p.expect(token.RBracket, "']' closing array literal")
	return &tree.ArrayExpr{Span: span, Elements: elems, ExprBase: tree.Base()}
}

// parseVectorLiteral parses `<e1, e2, e3, e4>`, distinguished from a
// comparison chain by the caller only reaching here in primary position.
func (p *parser) parseVectorLiteral() tree.Expression {
	span := p.advance().Span // '<'
	var elems []tree.Expression
	for !p.at(token.Greater) {
		elems = append(elems, p.parseExpression())
		if !p.check(token.Comma) {
			break
		}
	}
	p.expect(token.Greater, "'>' closing vector literal")
	return &tree.VectorExpr{Span: span, Elements: elems, ExprBase: tree.Base()}
}

// parseIfExpr parses the expression-position `if cond { then } else { else
// }`, which (unlike the statement form) always carries an else.
func (p *parser) parseIfExpr() tree.Expression {
	span := p.advance().Span // 'if'
	cond := p.parseExpressionNoInit()
	p.expect(token.LBrace, "'{' opening if-expression then branch")
	then := p.parseExpression()
	p.expect(token.RBrace, "'}' closing if-expression then branch")
	p.expect(token.KwElse, "'else' in if-expression")
	p.expect(token.LBrace, "'{' opening if-expression else branch")
	els := p.parseExpression()
	p.expect(token.RBrace, "'}' closing if-expression else branch")
	return &tree.IfExpr{Span: span, Condition: cond, Then: then, Else: els, ExprBase: tree.Base()}
}

// parseSwitchExpr parses the expression-position switch: an else branch is required unless the argument is
// an enum and every element is covered, which the resolver checks.
func (p *parser) parseSwitchExpr() tree.Expression {
	span := p.advance().Span // 'switch'
	arg := p.parseExpressionNoInit()
	p.expect(token.LBrace, "'{' opening switch-expression body")
	var cases []tree.SwitchCaseExpr
	var els tree.Expression
	hasElse := false
	for !p.at(token.RBrace) {
		if p.check(token.KwElse) {
			p.expect(token.Arrow, "'->' after else")
			els = p.parseExpression()
			hasElse = true
			p.check(token.Semicolon)
			continue
		}
		p.expectContextual("case")
		var values []tree.Expression
		for {
			values = append(values, p.parseExpression())
			if !p.check(token.Comma) {
				break
			}
		}
		p.expect(token.Arrow, "'->' after case values")
		body := p.parseExpression()
		p.check(token.Semicolon)
		cases = append(cases, tree.SwitchCaseExpr{Values: values, Body: body})
	}
	p.expect(token.RBrace, "'}' closing switch-expression body")
	return &tree.SwitchExpr{
		Span: span, Argument: arg, Cases: cases, Else: els, HasElse: hasElse,
		ShouldPerformCompleteCheck: !hasElse, ExprBase: tree.Base(),
	}
}

// parseInitExpr parses a struct/tuple initializer `Name { field: value,
// ... }` or `Name<T> { ... }` following an identifier already consumed by
// the caller.
func (p *parser) parseInitExpr(typeName string, generics []types.Type) tree.Expression {
	span := p.cur().Span
	p.expect(token.LBrace, "'{' opening initializer")
	var fields []tree.InitField
	for !p.at(token.RBrace) {
		name := p.identifier("initializer field name")
		p.expect(token.Colon, "':' in initializer field")
		val := p.parseExpression()
		fields = append(fields, tree.InitField{Name: name, Value: val})
		if !p.check(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace, "'}' closing initializer")
	return &tree.InitExpr{
		Span: span, TypeName: typeName, Generics: generics, Fields: fields,
		ExprBase: tree.Base(),
	}
}
