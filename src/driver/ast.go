package driver

import (
	"encoding/json"
	"os"

	"la/src/token"
	"la/src/tree"
)

// astNode mirrors one tree.Statement/tree.Expression node for the
// `ast.json` debug artifact: a kind tag, its source span, any
// literal/scalar data worth surfacing, and nested children in source
// order. This is deliberately a flat, JSON-friendly shadow of the sealed
// tree rather than a marshalled Go struct per variant, since several tree
// fields (types.Type, *types.Function, ...) are interfaces without a
// useful JSON shape of their own.
type astNode struct {
	Kind     string      `json:"kind"`
	Span     string      `json:"span"`
	Data     interface{} `json:"data,omitempty"`
	Children []*astNode  `json:"children,omitempty"`
}

// astPrinter implements tree.Visitor, building one astNode per visited
// node into `out`. Grounded on tree.Visitor's one-method-per-variant
// contract; this is the "one external consumer" tree.go's doc comment
// names.
type astPrinter struct {
	out *astNode
}

func dumpStatements(stmts []tree.Statement) []*astNode {
	children := make([]*astNode, 0, len(stmts))
	for _, s := range stmts {
		children = append(children, dumpStatement(s))
	}
	return children
}

func dumpStatement(s tree.Statement) *astNode {
	p := &astPrinter{}
	tree.Walk(p, s)
	return p.out
}

func dumpExpr(e tree.Expression) *astNode {
	if e == nil {
		return nil
	}
	p := &astPrinter{}
	tree.WalkExpr(p, e)
	return p.out
}

func dumpExprList(es []tree.Expression) []*astNode {
	out := make([]*astNode, 0, len(es))
	for _, e := range es {
		out = append(out, dumpExpr(e))
	}
	return out
}

func node(kind string, span token.Span, data interface{}, children ...*astNode) *astNode {
	var cs []*astNode
	for _, c := range children {
		if c != nil {
			cs = append(cs, c)
		}
	}
	return &astNode{Kind: kind, Span: span.String(), Data: data, Children: cs}
}

// WriteASTJSON marshals unit as the pretty-printed `ast.json` artifact.
func WriteASTJSON(path string, unit *tree.Unit) error {
	doc := struct {
		File  string     `json:"file"`
		Nodes []*astNode `json:"statements"`
	}{File: unit.File, Nodes: dumpStatements(unit.Statements)}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// ---- statements ----

func (p *astPrinter) VisitBlock(n *tree.Block) {
	p.out = node("Block", n.Span, nil, dumpStatements(n.Body)...)
}

func (p *astPrinter) VisitConstDeclaration(n *tree.ConstDeclaration) {
	p.out = node("ConstDeclaration", n.Span, n.Name, dumpExpr(n.Value))
}

func (p *astPrinter) VisitFieldDeclaration(n *tree.FieldDeclaration) {
	p.out = node("FieldDeclaration", n.Span, map[string]interface{}{
		"name": n.Name, "explicitType": n.ExplicitType, "global": n.Global,
	}, dumpExpr(n.Value))
}

func (p *astPrinter) VisitDestructuringDeclaration(n *tree.DestructuringDeclaration) {
	p.out = node("DestructuringDeclaration", n.Span, n.Names, dumpExpr(n.Value))
}

func (p *astPrinter) VisitFunctionPrototype(n *tree.FunctionPrototype) {
	p.out = node("FunctionPrototype", n.Span, n.Name)
}

func (p *astPrinter) VisitIntrinsicPrototype(n *tree.IntrinsicPrototype) {
	p.out = node("IntrinsicPrototype", n.Span, map[string]string{"name": n.Name, "native": n.NativeName})
}

func (p *astPrinter) VisitFunctionDeclaration(n *tree.FunctionDeclaration) {
	p.out = node("FunctionDeclaration", n.Span, n.Name, dumpStatements(n.Body)...)
}

func (p *astPrinter) VisitOperatorFunctionDeclaration(n *tree.OperatorFunctionDeclaration) {
	p.out = node("OperatorFunctionDeclaration", n.Span, n.Op.String(), dumpStatements(n.Body)...)
}

func (p *astPrinter) VisitStructDeclaration(n *tree.StructDeclaration) {
	p.out = node("StructDeclaration", n.Span, n.Name)
}

func (p *astPrinter) VisitEnumDeclaration(n *tree.EnumDeclaration) {
	p.out = node("EnumDeclaration", n.Span, n.Name)
}

func (p *astPrinter) VisitIf(n *tree.If) {
	var children []*astNode
	for _, br := range n.Branches {
		children = append(children, dumpExpr(br.Condition))
		children = append(children, dumpStatements(br.Body)...)
	}
	if n.HasElse {
		children = append(children, dumpStatements(n.Else)...)
	}
	p.out = node("If", n.Span, nil, children...)
}

func (p *astPrinter) VisitSwitch(n *tree.Switch) {
	children := []*astNode{dumpExpr(n.Argument)}
	for _, c := range n.Cases {
		children = append(children, dumpExprList(c.Values)...)
		children = append(children, dumpStatements(c.Body)...)
	}
	if n.HasDefault {
		children = append(children, dumpStatements(n.Default)...)
	}
	p.out = node("Switch", n.Span, nil, children...)
}

func (p *astPrinter) VisitForRange(n *tree.ForRange) {
	children := []*astNode{dumpExpr(n.Start), dumpExpr(n.End)}
	if n.HasStep {
		children = append(children, dumpExpr(n.Step))
	}
	children = append(children, dumpStatements(n.Body)...)
	p.out = node("ForRange", n.Span, n.Name, children...)
}

func (p *astPrinter) VisitForEach(n *tree.ForEach) {
	children := append([]*astNode{dumpExpr(n.Collection)}, dumpStatements(n.Body)...)
	p.out = node("ForEach", n.Span, map[string]string{"elem": n.ElemName, "index": n.IndexName}, children...)
}

func (p *astPrinter) VisitForEver(n *tree.ForEver) {
	p.out = node("ForEver", n.Span, nil, dumpStatements(n.Body)...)
}

func (p *astPrinter) VisitWhile(n *tree.While) {
	children := append([]*astNode{dumpExpr(n.Condition)}, dumpStatements(n.Body)...)
	p.out = node("While", n.Span, nil, children...)
}

func (p *astPrinter) VisitReturn(n *tree.Return) {
	p.out = node("Return", n.Span, nil, dumpExpr(n.Value))
}

func (p *astPrinter) VisitDefer(n *tree.Defer) {
	p.out = node("Defer", n.Span, nil, dumpExpr(n.Call))
}

func (p *astPrinter) VisitBreak(n *tree.Break) {
	p.out = node("Break", n.Span, n.Times)
}

func (p *astPrinter) VisitContinue(n *tree.Continue) {
	p.out = node("Continue", n.Span, n.Times)
}

func (p *astPrinter) VisitExpressionStatement(n *tree.ExpressionStatement) {
	p.out = node("ExpressionStatement", n.Span, nil, dumpExpr(n.Expr))
}

func (p *astPrinter) VisitLoad(n *tree.Load) {
	p.out = node("Load", n.Span, n.Path)
}

// ---- expressions ----

func (p *astPrinter) VisitIfExpr(n *tree.IfExpr) {
	p.out = node("IfExpr", n.Span, nil, dumpExpr(n.Condition), dumpExpr(n.Then), dumpExpr(n.Else))
}

func (p *astPrinter) VisitSwitchExpr(n *tree.SwitchExpr) {
	children := []*astNode{dumpExpr(n.Argument)}
	for _, c := range n.Cases {
		children = append(children, dumpExprList(c.Values)...)
		children = append(children, dumpExpr(c.Body))
	}
	if n.HasElse {
		children = append(children, dumpExpr(n.Else))
	}
	p.out = node("SwitchExpr", n.Span, nil, children...)
}

func (p *astPrinter) VisitTupleExpr(n *tree.TupleExpr) {
	p.out = node("TupleExpr", n.Span, nil, dumpExprList(n.Elements)...)
}

func (p *astPrinter) VisitAssignExpr(n *tree.AssignExpr) {
	p.out = node("AssignExpr", n.Span, n.Op.String(), dumpExpr(n.LHS), dumpExpr(n.RHS))
}

func (p *astPrinter) VisitBinaryExpr(n *tree.BinaryExpr) {
	p.out = node("BinaryExpr", n.Span, n.Op.String(), dumpExpr(n.Left), dumpExpr(n.Right))
}

func (p *astPrinter) VisitBitwiseExpr(n *tree.BitwiseExpr) {
	p.out = node("BitwiseExpr", n.Span, n.Op.String(), dumpExpr(n.Left), dumpExpr(n.Right))
}

func (p *astPrinter) VisitComparisonExpr(n *tree.ComparisonExpr) {
	p.out = node("ComparisonExpr", n.Span, n.Op.String(), dumpExpr(n.Left), dumpExpr(n.Right))
}

func (p *astPrinter) VisitLogicalExpr(n *tree.LogicalExpr) {
	p.out = node("LogicalExpr", n.Span, n.Op.String(), dumpExpr(n.Left), dumpExpr(n.Right))
}

func (p *astPrinter) VisitPrefixUnaryExpr(n *tree.PrefixUnaryExpr) {
	p.out = node("PrefixUnaryExpr", n.Span, n.Op.String(), dumpExpr(n.Operand))
}

func (p *astPrinter) VisitPostfixUnaryExpr(n *tree.PostfixUnaryExpr) {
	p.out = node("PostfixUnaryExpr", n.Span, n.Op.String(), dumpExpr(n.Operand))
}

func (p *astPrinter) VisitCallExpr(n *tree.CallExpr) {
	children := append([]*astNode{dumpExpr(n.Callee)}, dumpExprList(n.Arguments)...)
	p.out = node("CallExpr", n.Span, nil, children...)
}

func (p *astPrinter) VisitInitExpr(n *tree.InitExpr) {
	var children []*astNode
	for _, f := range n.Fields {
		children = append(children, dumpExpr(f.Value))
	}
	p.out = node("InitExpr", n.Span, n.TypeName, children...)
}

func (p *astPrinter) VisitLambdaExpr(n *tree.LambdaExpr) {
	p.out = node("LambdaExpr", n.Span, nil, dumpStatements(n.Body)...)
}

func (p *astPrinter) VisitDotExpr(n *tree.DotExpr) {
	p.out = node("DotExpr", n.Span, n.Name, dumpExpr(n.Target))
}

func (p *astPrinter) VisitCastExpr(n *tree.CastExpr) {
	p.out = node("CastExpr", n.Span, n.Target.String(), dumpExpr(n.Value))
}

func (p *astPrinter) VisitTypeSizeExpr(n *tree.TypeSizeExpr) {
	p.out = node("TypeSizeExpr", n.Span, n.Of.String())
}

func (p *astPrinter) VisitTypeAlignExpr(n *tree.TypeAlignExpr) {
	p.out = node("TypeAlignExpr", n.Span, n.Of.String())
}

func (p *astPrinter) VisitValueSizeExpr(n *tree.ValueSizeExpr) {
	p.out = node("ValueSizeExpr", n.Span, nil, dumpExpr(n.Of))
}

func (p *astPrinter) VisitIndexExpr(n *tree.IndexExpr) {
	p.out = node("IndexExpr", n.Span, nil, dumpExpr(n.Target), dumpExpr(n.Index))
}

func (p *astPrinter) VisitEnumAccessExpr(n *tree.EnumAccessExpr) {
	p.out = node("EnumAccessExpr", n.Span, map[string]string{"enum": n.EnumName, "member": n.Member})
}

func (p *astPrinter) VisitArrayExpr(n *tree.ArrayExpr) {
	p.out = node("ArrayExpr", n.Span, nil, dumpExprList(n.Elements)...)
}

func (p *astPrinter) VisitVectorExpr(n *tree.VectorExpr) {
	p.out = node("VectorExpr", n.Span, nil, dumpExprList(n.Elements)...)
}

func (p *astPrinter) VisitStringExpr(n *tree.StringExpr) {
	p.out = node("StringExpr", n.Span, n.Value)
}

func (p *astPrinter) VisitLiteralExpr(n *tree.LiteralExpr) {
	p.out = node("LiteralExpr", n.Span, n.Name)
}

func (p *astPrinter) VisitNumberExpr(n *tree.NumberExpr) {
	p.out = node("NumberExpr", n.Span, n.Text)
}

func (p *astPrinter) VisitCharacterExpr(n *tree.CharacterExpr) {
	p.out = node("CharacterExpr", n.Span, n.Value)
}

func (p *astPrinter) VisitBoolExpr(n *tree.BoolExpr) {
	p.out = node("BoolExpr", n.Span, n.Value)
}

func (p *astPrinter) VisitNullExpr(n *tree.NullExpr) {
	p.out = node("NullExpr", n.Span, nil)
}

func (p *astPrinter) VisitUndefinedExpr(n *tree.UndefinedExpr) {
	p.out = node("UndefinedExpr", n.Span, nil)
}

func (p *astPrinter) VisitInfinityExpr(n *tree.InfinityExpr) {
	p.out = node("InfinityExpr", n.Span, n.Negative)
}
