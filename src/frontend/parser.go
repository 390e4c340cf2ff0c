package frontend

import (
	"fmt"
	"strconv"

	"la/src/diag"
	"la/src/token"
	"la/src/tree"
	"la/src/types"
)

// parser is a hand-written recursive-descent parser for statements, with
// a Pratt (operator-precedence) parser for expressions. This
// file and pratt.go are written from scratch in the lexer's state-function
// idiom: small methods, explicit token classes, errors reported to the
// sink with a token span.
type parser struct {
	file   int
	tokens []token.Token
	pos    int
	sink   *diag.Sink
	// noInit suppresses struct/tuple-initializer parsing for a bare
	// identifier primary, so `if cond { ... }` doesn't swallow the block
	// as `cond { ... }`.
	noInit bool
}

// abortParse is the sentinel panic value used to unwind out of a deeply
// nested recursive-descent call stack on the first syntax error: parsing
// stops hard with no error recovery.
type abortParse struct{}

// Parse runs the full lexer+parser pipeline over src and returns the
// resulting compilation unit. On a syntax error, the unit returned is
// whatever was built before the error and the sink carries the error;
// the driver is responsible for not proceeding to resolution.
func Parse(file int, filename string, src string, sink *diag.Sink) (unit *tree.Unit) {
	toks := Lex(file, src, sink)
	p := &parser{file: file, tokens: toks, sink: sink}
	unit = &tree.Unit{File: filename}

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(abortParse); !ok {
				panic(r)
			}
		}
	}()

	for !p.atEOF() {
		unit.Statements = append(unit.Statements, p.parseTopLevel())
	}
	return unit
}

// ---- token-stream primitives ----

func (p *parser) cur() token.Token  { return p.tokens[p.pos] }
func (p *parser) atEOF() bool       { return p.cur().Kind == token.EOF }
func (p *parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *parser) advance() token.Token {
	t := p.tokens[p.pos]
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *parser) check(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(k token.Kind, context string) token.Token {
	if !p.at(k) {
		p.errorf("expected %s %s, found %q", k, context, p.cur().Lexeme)
	}
	return p.advance()
}

func (p *parser) errorf(format string, args ...interface{}) {
	p.sink.Errorf(p.cur().Span, diag.Syntax, format, args...)
	panic(abortParse{})
}

func (p *parser) identifier(context string) string {
	t := p.expect(token.Identifier, context)
	return t.Lexeme
}

// ---- top level ----

func (p *parser) parseTopLevel() tree.Statement {
	attrs := p.parseAttributes()
	switch p.cur().Kind {
	case token.KwVar:
		return p.parseVarDeclaration(true)
	case token.KwConst:
		return p.parseConstDeclaration()
	case token.KwFun:
		return p.parseFunctionLike(attrs)
	case token.KwOperator:
		return p.parseOperatorFunction(attrs)
	case token.KwStruct:
		return p.parseStructDeclaration(attrs)
	case token.KwEnum:
		return p.parseEnumDeclaration()
	case token.KwLoad, token.KwImport:
		return p.parseLoad()
	default:
		p.errorf("expected a top-level declaration, found %q", p.cur().Lexeme)
		return nil
	}
}

// parseLoad parses `load "path";` / `import "path";`. The token exists but
// loading is never elaborated, so this only builds the node; nothing
// resolves the path.
func (p *parser) parseLoad() tree.Statement {
	span := p.cur().Span
	p.advance() // 'load' or 'import'
	path := p.expect(token.String, "path string after load/import").Lexeme
	p.expect(token.Semicolon, "';' after load/import statement")
	return &tree.Load{Span: span, Path: path}
}

// attributeSet collects the syntactic `@extern`/`@intrinsic(name)`/`@packed`
// markers the parser recognizes ahead of a declaration.
type attributeSet struct {
	extern      bool
	intrinsic   bool
	nativeName  string
	packed      bool
}

func (p *parser) parseAttributes() attributeSet {
	var a attributeSet
	for p.at(token.At) {
		p.advance()
		name := p.identifier("attribute name")
		switch name {
		case "extern":
			a.extern = true
		case "packed":
			a.packed = true
		case "intrinsic":
			p.expect(token.LParen, "'(' after @intrinsic")
			a.intrinsic = true
			a.nativeName = p.identifier("intrinsic native name")
			p.expect(token.RParen, "')' closing @intrinsic")
		default:
			p.errorf("unknown attribute @%s", name)
		}
	}
	return a
}

// parseTypeAnnotation parses a type expression as written in source:
// number-kind keywords, `*T`, `[N]T`, `<N x T>`, a struct/tuple/enum name
// (optionally with generic arguments), or a function-pointer type
// `((params) -> ret)`.
func (p *parser) parseTypeAnnotation() types.Type {
	switch p.cur().Kind {
	case token.Star:
		p.advance()
		return types.Pointer{Base: p.parseTypeAnnotation()}
	case token.LBracket:
		p.advance()
		sizeTok := p.expect(token.Int, "array size")
		size, _ := strconv.ParseUint(sizeTok.Lexeme, 10, 32)
		p.expect(token.RBracket, "']' closing array type")
		return types.StaticArray{Element: p.parseTypeAnnotation(), Size: uint32(size)}
	case token.Less:
		p.advance()
		sizeTok := p.expect(token.Int, "vector size")
		size, _ := strconv.ParseUint(sizeTok.Lexeme, 10, 32)
		p.expect(token.Identifier, "'x' separator")
		elem := p.parseTypeAnnotation()
		p.expect(token.Greater, "'>' closing vector type")
		return types.StaticVector{Array: types.StaticArray{Element: elem, Size: uint32(size)}}
	case token.LParen:
		p.advance()
		p.expect(token.LParen, "'(' opening function-pointer parameter list")
		var params []types.Type
		for !p.at(token.RParen) {
			params = append(params, p.parseTypeAnnotation())
			if !p.check(token.Comma) {
				break
			}
		}
		p.expect(token.RParen, "')' closing function-pointer parameters")
		p.expect(token.Arrow, "'->' in function-pointer type")
		ret := p.parseReturnTypeAnnotation()
		p.expect(token.RParen, "')' closing function-pointer type")
		return types.Pointer{Base: types.Function{Params: params, Return: ret}}
	default:
		if token.IsSizedNumberSuffix(p.cur().Kind) {
			return types.Number{Kind: numberKindFor(p.advance().Kind)}
		}
		name := p.identifier("type name")
		t := &types.Struct{Name: name}
		if p.check(token.Less) {
			var gen []types.Type
			for {
				gen = append(gen, p.parseTypeAnnotation())
				if !p.check(token.Comma) {
					break
				}
			}
			p.expect(token.Greater, "'>' closing generic arguments")
			return &types.GenericStruct{Struct: t, Parameters: gen}
		}
		return t
	}
}

func (p *parser) parseReturnTypeAnnotation() types.Type {
	if p.at(token.LBrace) || p.at(token.Semicolon) {
		return types.Void
	}
	return p.parseTypeAnnotation()
}

func numberKindFor(k token.Kind) types.NumberKind {
	switch k {
	case token.I1:
		return types.I1
	case token.I8:
		return types.I8
	case token.I16:
		return types.I16
	case token.I32:
		return types.I32
	case token.I64:
		return types.I64
	case token.U8:
		return types.U8
	case token.U16:
		return types.U16
	case token.U32:
		return types.U32
	case token.U64:
		return types.U64
	case token.F32:
		return types.F32
	case token.F64:
		return types.F64
	}
	panic(fmt.Sprintf("numberKindFor: not a sized-number kind: %s", k))
}

// ---- declarations ----

func (p *parser) parseVarDeclaration(global bool) tree.Statement {
	span := p.cur().Span
	p.advance() // 'var'
	if p.at(token.LParen) {
		return p.parseDestructuringDeclaration(span)
	}
	name := p.identifier("variable name")
	var annotation types.Type = types.None
	explicit := false
	if p.check(token.Colon) {
		annotation = p.parseTypeAnnotation()
		explicit = true
	}
	var value tree.Expression
	if p.check(token.Equal) {
		value = p.parseExpression()
	}
	p.expect(token.Semicolon, "';' after variable declaration")
	return &tree.FieldDeclaration{
		Span: span, Name: name, Annotation: annotation,
		ExplicitType: explicit, Value: value, Global: global,
	}
}

func (p *parser) parseDestructuringDeclaration(span token.Span) tree.Statement {
	p.expect(token.LParen, "'(' opening destructuring target list")
	var names []string
	for {
		names = append(names, p.identifier("destructuring target name"))
		if !p.check(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, "')' closing destructuring target list")
	p.expect(token.Equal, "'=' in destructuring declaration")
	value := p.parseExpression()
	p.expect(token.Semicolon, "';' after destructuring declaration")
	return &tree.DestructuringDeclaration{Span: span, Names: names, Value: value}
}

func (p *parser) parseConstDeclaration() tree.Statement {
	span := p.cur().Span
	p.advance() // 'const'
	name := p.identifier("constant name")
	p.expect(token.Equal, "'=' in const declaration")
	value := p.parseExpression()
	p.expect(token.Semicolon, "';' after const declaration")
	return &tree.ConstDeclaration{Span: span, Name: name, Value: value}
}

// parseParamList parses `(name Type, name Type, ..., [varargs Type])`. The
// trailing `varargs Type` form must be the last
// entry, if present.
func (p *parser) parseParamList() (params []tree.Param, hasVarargs bool, varargsType types.Type) {
	p.expect(token.LParen, "'(' opening parameter list")
	for !p.at(token.RParen) {
		if p.check(token.KwVarargs) {
			hasVarargs = true
			varargsType = p.parseTypeAnnotation()
			break
		}
		name := p.identifier("parameter name")
		typ := p.parseTypeAnnotation()
		params = append(params, tree.Param{Name: name, Type: typ})
		if !p.check(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, "')' closing parameter list")
	return params, hasVarargs, varargsType
}

func (p *parser) parseGenericNames() []string {
	if !p.check(token.Less) {
		return nil
	}
	var names []string
	for {
		names = append(names, p.identifier("generic parameter name"))
		if !p.check(token.Comma) {
			break
		}
	}
	p.expect(token.Greater, "'>' closing generic parameter list")
	return names
}

// parseFunctionLike parses `fun name<generics>(params) ret { body }`,
// an `@extern fun ...;` prototype, or an `@intrinsic(name) fun ...;`
// prototype, distinguished by the attributes already collected.
func (p *parser) parseFunctionLike(a attributeSet) tree.Statement {
	span := p.cur().Span
	p.advance() // 'fun'
	name := p.identifier("function name")
	generics := p.parseGenericNames()
	params, hasVarargs, varargs := p.parseParamList()
	ret := p.parseReturnTypeAnnotation()

	if a.extern {
		p.expect(token.Semicolon, "';' after extern prototype")
		return &tree.FunctionPrototype{
			Span: span, Name: name, Params: params, Return: ret,
			HasVarargs: hasVarargs, Varargs: varargs,
		}
	}
	if a.intrinsic {
		p.expect(token.Semicolon, "';' after intrinsic prototype")
		return &tree.IntrinsicPrototype{
			Span: span, Name: name, NativeName: a.nativeName, Params: params, Return: ret,
		}
	}
	body := p.parseBlockStatements()
	return &tree.FunctionDeclaration{
		Span: span, Name: name, GenericNames: generics, Params: params,
		Return: ret, Body: body,
	}
}

func (p *parser) parseOperatorFunction(a attributeSet) tree.Statement {
	span := p.cur().Span
	p.advance() // 'operator'
	prefix := false
	postfix := false
	if id := p.cur(); id.Kind == token.Identifier {
		switch id.Lexeme {
		case "prefix":
			prefix = true
			p.advance()
		case "postfix":
			postfix = true
			p.advance()
		}
	}
	op := p.advance().Kind
	params, _, _ := p.parseParamList()
	ret := p.parseReturnTypeAnnotation()
	body := p.parseBlockStatements()
	return &tree.OperatorFunctionDeclaration{
		Span: span, Op: op, Prefix: prefix, Postfix: postfix,
		Params: params, Return: ret, Body: body,
	}
}

func (p *parser) parseStructDeclaration(a attributeSet) tree.Statement {
	span := p.cur().Span
	p.advance() // 'struct'
	name := p.identifier("struct name")
	generics := p.parseGenericNames()
	p.expect(token.LBrace, "'{' opening struct body")
	var fields []tree.FieldDef
	for !p.at(token.RBrace) {
		fname := p.identifier("field name")
		ftype := p.parseTypeAnnotation()
		fields = append(fields, tree.FieldDef{Name: fname, Type: ftype})
		p.expect(token.Semicolon, "';' after struct field")
	}
	p.expect(token.RBrace, "'}' closing struct body")
	return &tree.StructDeclaration{
		Span: span, Name: name, GenericParameters: generics, Fields: fields,
		IsPacked: a.packed, IsExtern: a.extern,
	}
}

func (p *parser) parseEnumDeclaration() tree.Statement {
	span := p.cur().Span
	p.advance() // 'enum'
	name := p.identifier("enum name")
	var elem types.Type = types.Number{Kind: types.I32}
	if p.check(token.Colon) {
		elem = p.parseTypeAnnotation()
	}
	p.expect(token.LBrace, "'{' opening enum body")
	var members []tree.EnumMember
	for !p.at(token.RBrace) {
		mname := p.identifier("enum member name")
		var val *int64
		if p.check(token.Equal) {
			neg := p.check(token.Minus)
			tok := p.expect(token.Int, "enum member value")
			n, _ := strconv.ParseInt(tok.Lexeme, 0, 64)
			if neg {
				n = -n
			}
			val = &n
		}
		members = append(members, tree.EnumMember{Name: mname, Value: val})
		if !p.check(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace, "'}' closing enum body")
	return &tree.EnumDeclaration{Span: span, Name: name, Element: elem, Members: members}
}

// ---- statements ----

func (p *parser) parseBlockStatements() []tree.Statement {
	p.expect(token.LBrace, "'{' opening block")
	var stmts []tree.Statement
	for !p.at(token.RBrace) {
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(token.RBrace, "'}' closing block")
	return stmts
}

func (p *parser) parseStatement() tree.Statement {
	switch p.cur().Kind {
	case token.LBrace:
		span := p.cur().Span
		return &tree.Block{Span: span, Body: p.parseBlockStatements()}
	case token.KwVar:
		return p.parseVarDeclaration(false)
	case token.KwConst:
		return p.parseConstDeclaration()
	case token.KwIf:
		return p.parseIfStatement()
	case token.KwSwitch:
		return p.parseSwitchStatement()
	case token.KwFor:
		return p.parseForStatement()
	case token.KwWhile:
		return p.parseWhileStatement()
	case token.KwReturn:
		return p.parseReturnStatement()
	case token.KwDefer:
		return p.parseDeferStatement()
	case token.KwBreak:
		return p.parseBreakStatement()
	case token.KwContinue:
		return p.parseContinueStatement()
	case token.KwFun, token.KwStruct, token.KwEnum, token.KwOperator, token.At,
		token.KwLoad, token.KwImport:
		return p.parseTopLevel()
	default:
		span := p.cur().Span
		expr := p.parseExpression()
		p.expect(token.Semicolon, "';' after expression statement")
		return &tree.ExpressionStatement{Span: span, Expr: expr}
	}
}

func (p *parser) parseIfStatement() tree.Statement {
	span := p.cur().Span
	var branches []tree.IfBranch
	p.advance() // 'if'
	cond := p.parseExpressionNoInit()
	body := p.parseBlockStatements()
	branches = append(branches, tree.IfBranch{Condition: cond, Body: body})
	var elseBody []tree.Statement
	hasElse := false
	for p.check(token.KwElse) {
		if p.check(token.KwIf) {
			c := p.parseExpressionNoInit()
			b := p.parseBlockStatements()
			branches = append(branches, tree.IfBranch{Condition: c, Body: b})
			continue
		}
		elseBody = p.parseBlockStatements()
		hasElse = true
		break
	}
	return &tree.If{Span: span, Branches: branches, Else: elseBody, HasElse: hasElse}
}

// parseSwitchStatement parses `switch arg { case v1, v2 -> stmt; ... [else
// -> stmt;] }`: "case" is a contextual keyword, matched by identifier lexeme;
// "else" is the ordinary reserved keyword reused from if/else. Each arm
// binds exactly one statement.
func (p *parser) parseSwitchStatement() tree.Statement {
	span := p.cur().Span
	p.advance() // 'switch'
	arg := p.parseExpressionNoInit()
	p.expect(token.LBrace, "'{' opening switch body")
	var cases []tree.SwitchCase
	var def []tree.Statement
	hasDefault := false
	for !p.at(token.RBrace) {
		if p.check(token.KwElse) {
			p.expect(token.Arrow, "'->' after else")
			def = []tree.Statement{p.parseStatement()}
			hasDefault = true
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
		cases = append(cases, tree.SwitchCase{Values: values, Body: []tree.Statement{p.parseStatement()}})
	}
	p.expect(token.RBrace, "'}' closing switch body")
	return &tree.Switch{
		Span: span, Argument: arg, Cases: cases, Default: def,
		HasDefault: hasDefault, ShouldPerformCompleteCheck: true,
	}
}

// expectContextual consumes an identifier with the exact lexeme word, or
// reports a syntax error: used for "case"/"in", which are not reserved.
func (p *parser) expectContextual(word string) {
	if p.cur().Kind != token.Identifier || p.cur().Lexeme != word {
		p.errorf("expected %q, found %q", word, p.cur().Lexeme)
	}
	p.advance()
}

func (p *parser) parseForStatement() tree.Statement {
	span := p.cur().Span
	p.advance() // 'for'
	if p.at(token.LBrace) {
		return &tree.ForEver{Span: span, Body: p.parseBlockStatements()}
	}
	// Disambiguate ForRange ("name = start, end[, step]") from ForEach
	// ("name[, name] in collection") by the token following the name.
	first := p.identifier("loop variable name")
	if p.check(token.Equal) {
		start := p.parseExpressionNoInit()
		p.expect(token.Comma, "',' separating for-range bounds")
		end := p.parseExpressionNoInit()
		hasStep := false
		var step tree.Expression
		if p.check(token.Comma) {
			step = p.parseExpressionNoInit()
			hasStep = true
		}
		body := p.parseBlockStatements()
		return &tree.ForRange{
			Span: span, Name: first, Start: start, End: end,
			Step: step, HasStep: hasStep, Body: body,
		}
	}
	// ForEach: "in" is a contextual keyword, like "case".
	indexName := ""
	hasIndex := false
	if p.check(token.Comma) {
		indexName = p.identifier("index variable name")
		hasIndex = true
	}
	p.expectContextual("in")
	coll := p.parseExpressionNoInit()
	body := p.parseBlockStatements()
	return &tree.ForEach{
		Span: span, ElemName: first, IndexName: indexName, HasIndex: hasIndex,
		Collection: coll, Body: body,
	}
}

func (p *parser) parseWhileStatement() tree.Statement {
	span := p.cur().Span
	p.advance() // 'while'
	cond := p.parseExpressionNoInit()
	body := p.parseBlockStatements()
	return &tree.While{Span: span, Condition: cond, Body: body}
}

func (p *parser) parseReturnStatement() tree.Statement {
	span := p.cur().Span
	p.advance() // 'return'
	if p.check(token.Semicolon) {
		return &tree.Return{Span: span, HasValue: false}
	}
	value := p.parseExpression()
	p.expect(token.Semicolon, "';' after return value")
	return &tree.Return{Span: span, Value: value, HasValue: true}
}

func (p *parser) parseDeferStatement() tree.Statement {
	span := p.cur().Span
	p.advance() // 'defer'
	expr := p.parseExpression()
	call, ok := expr.(*tree.CallExpr)
	if !ok {
		p.sink.Errorf(span, diag.Syntax, "defer only accepts a call expression")
	}
	p.expect(token.Semicolon, "';' after defer statement")
	return &tree.Defer{Span: span, Call: call}
}

func (p *parser) parseBreakStatement() tree.Statement {
	span := p.cur().Span
	p.advance() // 'break'
	times := 1
	if p.at(token.Int) {
		n, _ := strconv.Atoi(p.advance().Lexeme)
		times = n
	}
	p.expect(token.Semicolon, "';' after break statement")
	return &tree.Break{Span: span, Times: times}
}

func (p *parser) parseContinueStatement() tree.Statement {
	span := p.cur().Span
	p.advance() // 'continue'
	times := 1
	if p.at(token.Int) {
		n, _ := strconv.Atoi(p.advance().Lexeme)
		times = n
	}
	p.expect(token.Semicolon, "';' after continue statement")
	return &tree.Continue{Span: span, Times: times}
}
