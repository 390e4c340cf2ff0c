package resolve

import (
	"la/src/diag"
	"la/src/token"
	"la/src/tree"
	"la/src/types"
)

// resolveStatement dispatches on s and resolves it in place.
// Declarations that are also legal at function scope (nested fun/struct/
// enum/operator, forwarded here by the parser) are resolved the same way
// the top-level sweep resolves them, since nothing in the grammar
// distinguishes the two positions once parsing is done.
func (r *Resolver) resolveStatement(s tree.Statement) {
	switch v := s.(type) {
	case *tree.Block:
		r.scope.Push()
		for _, b := range v.Body {
			r.resolveStatement(b)
		}
		r.scope.Pop()
	case *tree.ConstDeclaration:
		r.resolveConstDeclaration(v)
	case *tree.FieldDeclaration:
		r.resolveFieldDeclaration(v)
	case *tree.DestructuringDeclaration:
		r.resolveDestructuring(v)
	case *tree.StructDeclaration:
		r.declareSignature(v)
		r.resolveStructDecl(v)
	case *tree.EnumDeclaration:
		r.declareSignature(v)
	case *tree.FunctionPrototype:
		r.declareSignature(v)
	case *tree.IntrinsicPrototype:
		r.declareSignature(v)
	case *tree.FunctionDeclaration:
		r.declareSignature(v)
		r.resolveFunctionBody(v)
	case *tree.OperatorFunctionDeclaration:
		r.resolveOperatorFunctionDecl(v)
	case *tree.If:
		r.resolveIf(v)
	case *tree.Switch:
		r.resolveSwitch(v)
	case *tree.ForRange:
		r.resolveForRange(v)
	case *tree.ForEach:
		r.resolveForEach(v)
	case *tree.ForEver:
		r.loopDepth++
		r.scope.Push()
		for _, b := range v.Body {
			r.resolveStatement(b)
		}
		r.scope.Pop()
		r.loopDepth--
	case *tree.While:
		r.resolveWhile(v)
	case *tree.Return:
		r.resolveReturn(v)
	case *tree.Defer:
		r.resolveDefer(v)
	case *tree.Break:
		r.resolveBreakContinue(v.Span, v.Times, "break")
	case *tree.Continue:
		r.resolveBreakContinue(v.Span, v.Times, "continue")
	case *tree.ExpressionStatement:
		r.resolveExpr(v.Expr)
	case *tree.Load:
		// load/import is parsed but never elaborated: no module graph exists.
	case tree.Expression:
		r.resolveExpr(v)
	default:
		panic("resolve: unhandled statement variant")
	}
}

func (r *Resolver) resolveBody(body []tree.Statement) {
	for _, s := range body {
		r.resolveStatement(s)
	}
}

// resolveDestructuring implements the DestructuringDeclaration contract:
// illegal at global scope, value must be a Tuple whose arity matches the
// name count.
func (r *Resolver) resolveDestructuring(d *tree.DestructuringDeclaration) {
	if r.scope.CurrentLevel() == 0 {
		r.sink.Errorf(d.Span, diag.TypeErr, "destructuring declaration is not allowed at global scope")
		return
	}
	r.resolveExpr(d.Value)
	tup, ok := d.Value.Type().(*types.Tuple)
	if !ok {
		r.sink.Errorf(d.Span, diag.TypeErr, "destructuring value must be a tuple")
		return
	}
	if len(tup.FieldTypes) != len(d.Names) {
		r.sink.Errorf(d.Span, diag.TypeErr, "destructuring expects %d names, tuple has %d fields", len(d.Names), len(tup.FieldTypes))
		return
	}
	for i, name := range d.Names {
		if name == "_" {
			continue
		}
		if !r.scope.Define(name, tup.FieldTypes[i]) {
			r.sink.Errorf(d.Span, diag.TypeErr, "redefinition of %q", name)
		}
	}
}

// resolveIf pushes a nested scope per branch; the condition of each arm
// must be a number type.
func (r *Resolver) resolveIf(v *tree.If) {
	for _, b := range v.Branches {
		r.resolveExpr(b.Condition)
		if _, ok := types.AsNumber(b.Condition.Type()); !ok {
			r.sink.Errorf(v.Span, diag.TypeErr, "if condition must be a number type, got %s", b.Condition.Type())
		}
		r.scope.Push()
		r.resolveBody(b.Body)
		r.scope.Pop()
	}
	if v.HasElse {
		r.scope.Push()
		r.resolveBody(v.Else)
		r.scope.Pop()
	}
}

func (r *Resolver) resolveWhile(v *tree.While) {
	r.resolveExpr(v.Condition)
	if _, ok := types.AsNumber(v.Condition.Type()); !ok {
		r.sink.Errorf(v.Span, diag.TypeErr, "while condition must be a number type, got %s", v.Condition.Type())
	}
	r.loopDepth++
	r.scope.Push()
	r.resolveBody(v.Body)
	r.scope.Pop()
	r.loopDepth--
}

// resolveForRange implements the ForRange contract: start/end must be
// number types of equal kind, an optional step must match, and the
// iteration variable is defined in a new scope.
func (r *Resolver) resolveForRange(v *tree.ForRange) {
	r.resolveExpr(v.Start)
	r.resolveExpr(v.End)
	startKind, sok := types.AsNumber(v.Start.Type())
	endKind, eok := types.AsNumber(v.End.Type())
	if !sok || !eok || startKind != endKind {
		r.sink.Errorf(v.Span, diag.TypeErr, "for-range start/end must be number types of equal kind")
	}
	if v.HasStep {
		r.resolveExpr(v.Step)
		if stepKind, ok := types.AsNumber(v.Step.Type()); !ok || (sok && stepKind != startKind) {
			r.sink.Errorf(v.Span, diag.TypeErr, "for-range step must match the start/end kind")
		}
	}
	r.loopDepth++
	r.scope.Push()
	iterType := types.Type(types.Number{Kind: startKind})
	if !sok {
		iterType = types.None
	}
	r.scope.Define(v.Name, iterType)
	r.resolveBody(v.Body)
	r.scope.Pop()
	r.loopDepth--
}

// resolveForEach implements the ForEach contract: the collection must be a
// StaticArray, StaticVector, or pointer-to-i8 (string); element/index names
// bind to the element type and i64 respectively, "_" skipping a binding.
func (r *Resolver) resolveForEach(v *tree.ForEach) {
	r.resolveExpr(v.Collection)
	var elemType types.Type = types.None
	switch c := v.Collection.Type().(type) {
	case types.StaticArray:
		elemType = c.Element
	case types.StaticVector:
		elemType = c.Array.Element
	case types.Pointer:
		if n, ok := types.AsNumber(c.Base); ok && n == types.I8 {
			elemType = types.Number{Kind: types.I8}
		} else {
			r.sink.Errorf(v.Span, diag.TypeErr, "for-each collection must be an array, vector, or *i8 string")
		}
	default:
		r.sink.Errorf(v.Span, diag.TypeErr, "for-each collection must be an array, vector, or *i8 string")
	}
	r.loopDepth++
	r.scope.Push()
	if v.ElemName != "_" {
		r.scope.Define(v.ElemName, elemType)
	}
	if v.HasIndex && v.IndexName != "_" {
		r.scope.Define(v.IndexName, types.Number{Kind: types.I64})
	}
	r.resolveBody(v.Body)
	r.scope.Pop()
	r.loopDepth--
}

// resolveSwitch implements the Switch statement contract:
// argument must be integer or enum-element; each case value must match
// the argument type; integer case values are compared by literal text for
// duplication, enum case values by discriminant; a complete check requires
// every enum discriminant to be covered unless a default branch exists.
func (r *Resolver) resolveSwitch(v *tree.Switch) {
	r.resolveExpr(v.Argument)
	argType := v.Argument.Type()
	_, isInt := types.AsNumber(argType)
	var enumName string
	isEnum := false
	switch t := argType.(type) {
	case types.EnumElement:
		isEnum = true
		enumName = t.EnumName
	case *types.Enum:
		isEnum = true
		enumName = t.Name
	}
	if !isInt && !isEnum {
		r.sink.Errorf(v.Span, diag.TypeErr, "switch argument must be an integer or enum-element type, got %s", argType)
	}
	seenInts := map[string]bool{}
	seenEnum := map[string]bool{}
	covered := map[string]bool{}
	for _, c := range v.Cases {
		r.scope.Push()
		for _, val := range c.Values {
			r.resolveExpr(val)
			if isInt {
				if nexpr, ok := val.(*tree.NumberExpr); ok {
					if seenInts[nexpr.Text] {
						r.sink.Errorf(v.Span, diag.TypeErr, "duplicate case value %q", nexpr.Text)
					}
					seenInts[nexpr.Text] = true
				}
			} else if isEnum {
				if ea, ok := val.(*tree.EnumAccessExpr); ok {
					if ea.EnumName != enumName {
						r.sink.Errorf(v.Span, diag.TypeErr, "case value %s::%s does not match switch argument type %s", ea.EnumName, ea.Member, argType)
					}
					if seenEnum[ea.Member] {
						r.sink.Errorf(v.Span, diag.TypeErr, "duplicate case value %q", ea.Member)
					}
					seenEnum[ea.Member] = true
					covered[ea.Member] = true
				}
			}
			if isInt {
				if _, k := types.AsNumber(val.Type()); !k && !types.IsNone(val.Type()) {
					r.sink.Errorf(v.Span, diag.TypeErr, "case value type %s does not match switch argument type %s", val.Type(), argType)
				}
			}
		}
		r.resolveBody(c.Body)
		r.scope.Pop()
	}
	if v.HasDefault {
		r.scope.Push()
		r.resolveBody(v.Default)
		r.scope.Pop()
	}
	if v.ShouldPerformCompleteCheck && isEnum && !v.HasDefault {
		if en, ok := r.enums[enumName]; ok {
			for _, ev := range en.Values {
				if !covered[ev.Name] {
					r.sink.Errorf(v.Span, diag.TypeErr, "switch is incomplete and must have an else branch (missing %s::%s)", en.Name, ev.Name)
					return
				}
			}
		}
	}
}

// resolveReturn implements the Return contract: without a value, the
// enclosing return type must be Void; with a value, its type must match
// the head of the return-type stack, with the pointer/null relaxation and
// a guard against returning a lambda that captures from a non-global
// scope.
func (r *Resolver) resolveReturn(v *tree.Return) {
	want, ok := r.returnStack.Peek()
	if !ok {
		want = types.Void
	}
	if !v.HasValue {
		if !types.IsVoid(want) {
			r.sink.Errorf(v.Span, diag.TypeErr, "missing return value, expected %s", want)
		}
		return
	}
	r.resolveExpr(v.Value)
	got := v.Value.Type()
	if types.IsNull(got) {
		if p, ok := types.AsPointer(want); ok {
			if n, ok := v.Value.(*tree.NullExpr); ok {
				n.Base = want
				n.SetType(p)
			}
			return
		}
	}
	if lam, ok := v.Value.(*tree.LambdaExpr); ok && len(lam.ImplicitCaptures) > 0 && r.scope.CurrentLevel() > 0 {
		r.sink.Errorf(v.Span, diag.TypeErr, "cannot return a lambda that captures from a non-global scope")
	}
	if !types.Equal(want, got) && !types.IsNone(got) {
		r.sink.Errorf(v.Span, diag.TypeErr, "return type mismatch: expected %s, got %s", want, got)
	}
}

func (r *Resolver) resolveDefer(v *tree.Defer) {
	if v.Call != nil {
		r.resolveExpr(v.Call)
	}
}

// resolveBreakContinue validates `break N;`/`continue N;` against the
// current loop nesting depth: exceeding the depth is a resolver TypeError,
// not undefined behavior. It also warns on the redundant `break 1;`/
// `continue 1;` spelling.
func (r *Resolver) resolveBreakContinue(span token.Span, times int, word string) {
	if times < 1 {
		r.sink.Errorf(span, diag.TypeErr, "%s count must be positive", word)
		return
	}
	if times == 1 {
		r.sink.Warnf(span, diag.TypeErr, "%s 1 is equivalent to bare %s", word, word)
	}
	if times > r.loopDepth {
		r.sink.Errorf(span, diag.TypeErr, "%s depth %d exceeds enclosing loop nesting of depth %d", word, times, r.loopDepth)
	}
}
