// Package parser turns JavaScript source into a [jsast.Tree] using the goja parser.
package parser

import (
	"fmt"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	"github.com/dop251/goja/parser"
	"github.com/dop251/goja/token"

	"github.com/lcalzada-xor/blockscope/pkg/jsast"
)

// UnsupportedError reports syntax that must be lowered before block scoping.
type UnsupportedError struct {
	Input string
	Line  int
	What  string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s:%d: unsupported syntax: %s", e.Input, e.Line, e.What)
}

// Parse parses code and converts it. input names the compilation unit.
func Parse(input, code string) (*jsast.Tree, error) {
	prog, err := parser.ParseFile(nil, input, code, 0)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", input, err)
	}
	c := &converter{tree: jsast.NewTree(input), file: prog.File}
	if err := c.program(prog); err != nil {
		return nil, err
	}
	return c.tree, nil
}

// MustParse is Parse for tests and fixtures; it panics on error.
func MustParse(input, code string) *jsast.Tree {
	t, err := Parse(input, code)
	if err != nil {
		panic(err)
	}
	return t
}

type converter struct {
	tree *jsast.Tree
	file *file.File
	err  error
}

// unsupported records the first error and returns a placeholder node so that
// conversion can unwind without nil checks at every level.
func (c *converter) unsupported(n ast.Node, format string, args ...any) jsast.NodeID {
	if c.err == nil {
		c.err = &UnsupportedError{Input: c.tree.Input, Line: c.line(n), What: fmt.Sprintf(format, args...)}
	}
	return c.tree.NewEmpty()
}

func (c *converter) line(n ast.Node) int {
	if n == nil || c.file == nil {
		return 0
	}
	return c.file.Position(int(n.Idx0()) - c.file.Base()).Line
}

func (c *converter) node(src ast.Node, k jsast.Kind, str string, children ...jsast.NodeID) jsast.NodeID {
	id := c.tree.New(k, str, children...)
	c.tree.SetLine(id, c.line(src))
	return id
}

func (c *converter) feature(f jsast.Feature) {
	c.tree.Features = c.tree.Features.With(f)
}

func (c *converter) program(p *ast.Program) error {
	root := c.tree.Root()
	for _, s := range p.Body {
		c.tree.AddChildToBack(root, c.stmt(s))
	}
	return c.err
}

func (c *converter) stmts(list []ast.Statement) []jsast.NodeID {
	out := make([]jsast.NodeID, 0, len(list))
	for _, s := range list {
		out = append(out, c.stmt(s))
	}
	return out
}

// body converts a loop or branch body and forces it into a Block.
func (c *converter) body(s ast.Statement) jsast.NodeID {
	if b, ok := s.(*ast.BlockStatement); ok {
		return c.block(b)
	}
	return c.node(s, jsast.Block, "", c.stmt(s))
}

func (c *converter) block(b *ast.BlockStatement) jsast.NodeID {
	return c.node(b, jsast.Block, "", c.stmts(b.List)...)
}

func (c *converter) optional(s ast.Statement) jsast.NodeID {
	if s == nil {
		return c.tree.NewEmpty()
	}
	return c.body(s)
}

func (c *converter) optExpr(e ast.Expression) jsast.NodeID {
	if e == nil {
		return c.tree.NewEmpty()
	}
	return c.expr(e)
}

func (c *converter) stmt(s ast.Statement) jsast.NodeID {
	switch n := s.(type) {
	case *ast.BlockStatement:
		return c.block(n)
	case *ast.EmptyStatement:
		return c.node(n, jsast.Empty, "")
	case *ast.ExpressionStatement:
		return c.node(n, jsast.ExprResult, "", c.expr(n.Expression))
	case *ast.VariableStatement:
		return c.bindings(n, jsast.Var, n.List)
	case *ast.LexicalDeclaration:
		return c.lexical(n)
	case *ast.FunctionDeclaration:
		return c.function(n.Function)
	case *ast.ReturnStatement:
		if n.Argument == nil {
			return c.node(n, jsast.Return, "")
		}
		return c.node(n, jsast.Return, "", c.expr(n.Argument))
	case *ast.IfStatement:
		id := c.node(n, jsast.If, "", c.expr(n.Test), c.body(n.Consequent))
		if n.Alternate != nil {
			if _, ok := n.Alternate.(*ast.IfStatement); ok {
				c.tree.AddChildToBack(id, c.stmt(n.Alternate))
			} else {
				c.tree.AddChildToBack(id, c.body(n.Alternate))
			}
		}
		return id
	case *ast.ForStatement:
		return c.forStmt(n)
	case *ast.ForInStatement:
		return c.node(n, jsast.ForIn, "", c.forInto(n.Into), c.expr(n.Source), c.body(n.Body))
	case *ast.ForOfStatement:
		c.feature(jsast.ForOfLoops)
		return c.node(n, jsast.ForOf, "", c.forInto(n.Into), c.expr(n.Source), c.body(n.Body))
	case *ast.WhileStatement:
		return c.node(n, jsast.While, "", c.expr(n.Test), c.body(n.Body))
	case *ast.DoWhileStatement:
		return c.node(n, jsast.DoWhile, "", c.body(n.Body), c.expr(n.Test))
	case *ast.LabelledStatement:
		return c.node(n, jsast.Label, "", c.node(n.Label, jsast.LabelName, string(n.Label.Name)), c.stmt(n.Statement))
	case *ast.BranchStatement:
		k := jsast.Break
		if n.Token == token.CONTINUE {
			k = jsast.Continue
		}
		id := c.node(n, k, "")
		if n.Label != nil {
			c.tree.AddChildToBack(id, c.node(n.Label, jsast.LabelName, string(n.Label.Name)))
		}
		return id
	case *ast.ThrowStatement:
		return c.node(n, jsast.Throw, "", c.expr(n.Argument))
	case *ast.TryStatement:
		return c.try(n)
	case *ast.SwitchStatement:
		id := c.node(n, jsast.Switch, "", c.expr(n.Discriminant))
		for _, cs := range n.Body {
			var k jsast.NodeID
			if cs.Test == nil {
				k = c.node(cs, jsast.DefaultCase, "", c.stmts(cs.Consequent)...)
			} else {
				k = c.node(cs, jsast.Case, "", append([]jsast.NodeID{c.expr(cs.Test)}, c.stmts(cs.Consequent)...)...)
			}
			c.tree.AddChildToBack(id, k)
		}
		return id
	case *ast.DebuggerStatement:
		return c.node(n, jsast.Debugger, "")
	case *ast.ClassDeclaration:
		return c.unsupported(n, "class declaration")
	case *ast.WithStatement:
		return c.unsupported(n, "with statement")
	}
	return c.unsupported(s, "statement %T", s)
}

func (c *converter) lexical(n *ast.LexicalDeclaration) jsast.NodeID {
	k := jsast.Let
	if n.Token == token.CONST {
		k = jsast.Const
		c.feature(jsast.ConstDeclarations)
	} else {
		c.feature(jsast.LetDeclarations)
	}
	return c.bindings(n, k, n.List)
}

func (c *converter) bindings(src ast.Node, k jsast.Kind, list []*ast.Binding) jsast.NodeID {
	id := c.node(src, k, "")
	for _, b := range list {
		c.tree.AddChildToBack(id, c.binding(b))
	}
	return id
}

// binding converts a declared name with its optional initializer.
func (c *converter) binding(b *ast.Binding) jsast.NodeID {
	ident, ok := b.Target.(*ast.Identifier)
	if !ok {
		return c.unsupported(b, "destructuring declaration")
	}
	name := c.node(ident, jsast.Name, string(ident.Name))
	if b.Initializer != nil {
		c.tree.AddChildToBack(name, c.expr(b.Initializer))
	}
	return name
}

func (c *converter) forStmt(n *ast.ForStatement) jsast.NodeID {
	var init jsast.NodeID
	switch in := n.Initializer.(type) {
	case nil:
		init = c.tree.NewEmpty()
	case *ast.ForLoopInitializerExpression:
		init = c.expr(in.Expression)
	case *ast.ForLoopInitializerVarDeclList:
		init = c.bindings(n, jsast.Var, in.List)
	case *ast.ForLoopInitializerLexicalDecl:
		init = c.lexical(&in.LexicalDeclaration)
	default:
		init = c.unsupported(n, "for initializer %T", in)
	}
	return c.node(n, jsast.For, "", init, c.optExpr(n.Test), c.optExpr(n.Update), c.body(n.Body))
}

func (c *converter) forInto(into ast.ForInto) jsast.NodeID {
	switch in := into.(type) {
	case *ast.ForIntoVar:
		return c.bindings(in.Binding, jsast.Var, []*ast.Binding{in.Binding})
	case *ast.ForDeclaration:
		ident, ok := in.Target.(*ast.Identifier)
		if !ok {
			return c.unsupported(in, "destructuring loop variable")
		}
		k := jsast.Let
		if in.IsConst {
			k = jsast.Const
			c.feature(jsast.ConstDeclarations)
		} else {
			c.feature(jsast.LetDeclarations)
		}
		return c.node(in, k, "", c.node(ident, jsast.Name, string(ident.Name)))
	case *ast.ForIntoExpression:
		return c.expr(in.Expression)
	}
	return c.unsupported(nil, "loop target %T", into)
}

func (c *converter) try(n *ast.TryStatement) jsast.NodeID {
	catch := c.tree.NewEmpty()
	if n.Catch != nil {
		param := c.tree.NewEmpty()
		switch p := n.Catch.Parameter.(type) {
		case nil:
		case *ast.Identifier:
			param = c.node(p, jsast.Name, string(p.Name))
		default:
			param = c.unsupported(n.Catch, "destructuring catch parameter")
		}
		catch = c.node(n.Catch, jsast.Catch, "", param, c.block(n.Catch.Body))
	}
	finally := c.tree.NewEmpty()
	if n.Finally != nil {
		finally = c.block(n.Finally)
	}
	return c.node(n, jsast.Try, "", c.block(n.Body), catch, finally)
}

func (c *converter) params(pl *ast.ParameterList) jsast.NodeID {
	id := c.node(pl, jsast.ParamList, "")
	for _, b := range pl.List {
		ident, ok := b.Target.(*ast.Identifier)
		if !ok {
			c.tree.AddChildToBack(id, c.unsupported(b, "destructuring parameter"))
			continue
		}
		name := c.node(ident, jsast.Name, string(ident.Name))
		if b.Initializer != nil {
			name = c.node(b, jsast.DefaultValue, "", name, c.expr(b.Initializer))
		}
		c.tree.AddChildToBack(id, name)
	}
	if pl.Rest != nil {
		ident, ok := pl.Rest.(*ast.Identifier)
		if !ok {
			c.tree.AddChildToBack(id, c.unsupported(pl.Rest, "destructuring rest parameter"))
		} else {
			c.tree.AddChildToBack(id, c.node(pl.Rest, jsast.Rest, "", c.node(ident, jsast.Name, string(ident.Name))))
		}
	}
	return id
}

func (c *converter) function(f *ast.FunctionLiteral) jsast.NodeID {
	name := ""
	if f.Name != nil {
		name = string(f.Name.Name)
	}
	id := c.node(f, jsast.Function, "", c.tree.NewName(name), c.params(f.ParameterList), c.block(f.Body))
	if f.Async {
		c.tree.SetFlag(id, jsast.FlagAsync, true)
		c.feature(jsast.AsyncFunctions)
	}
	if f.Generator {
		c.tree.SetFlag(id, jsast.FlagGenerator, true)
		c.feature(jsast.Generators)
	}
	return id
}

func (c *converter) arrow(f *ast.ArrowFunctionLiteral) jsast.NodeID {
	c.feature(jsast.ArrowFunctions)
	var body jsast.NodeID
	flags := jsast.FlagArrow
	switch b := f.Body.(type) {
	case *ast.BlockStatement:
		body = c.block(b)
	case *ast.ExpressionBody:
		body = c.expr(b.Expression)
		flags |= jsast.FlagExprBody
	default:
		body = c.unsupported(f, "arrow body %T", b)
	}
	id := c.node(f, jsast.Function, "", c.tree.NewName(""), c.params(f.ParameterList), body)
	c.tree.SetFlag(id, flags, true)
	if f.Async {
		c.tree.SetFlag(id, jsast.FlagAsync, true)
		c.feature(jsast.AsyncFunctions)
	}
	return id
}

func (c *converter) exprs(list []ast.Expression) []jsast.NodeID {
	out := make([]jsast.NodeID, 0, len(list))
	for _, e := range list {
		out = append(out, c.expr(e))
	}
	return out
}

func (c *converter) expr(e ast.Expression) jsast.NodeID {
	switch n := e.(type) {
	case *ast.Identifier:
		return c.node(n, jsast.Name, string(n.Name))
	case *ast.NumberLiteral:
		return c.node(n, jsast.NumberLit, n.Literal)
	case *ast.StringLiteral:
		return c.node(n, jsast.StringLit, n.Literal)
	case *ast.BooleanLiteral:
		if n.Value {
			return c.node(n, jsast.True, "")
		}
		return c.node(n, jsast.False, "")
	case *ast.NullLiteral:
		return c.node(n, jsast.Null, "")
	case *ast.RegExpLiteral:
		return c.node(n, jsast.RegExpLit, n.Literal)
	case *ast.ThisExpression:
		return c.node(n, jsast.This, "")
	case *ast.TemplateLiteral:
		return c.template(n)
	case *ast.ArrayLiteral:
		id := c.node(n, jsast.ArrayLit, "")
		for _, v := range n.Value {
			c.tree.AddChildToBack(id, c.optExpr(v))
		}
		return id
	case *ast.ObjectLiteral:
		return c.object(n)
	case *ast.FunctionLiteral:
		return c.function(n)
	case *ast.ArrowFunctionLiteral:
		return c.arrow(n)
	case *ast.AssignExpression:
		op := "="
		if n.Operator != token.ASSIGN {
			op = n.Operator.String() + "="
		}
		if !isAssignable(n.Left) {
			return c.unsupported(n, "destructuring assignment")
		}
		return c.node(n, jsast.Assign, op, c.expr(n.Left), c.expr(n.Right))
	case *ast.BinaryExpression:
		return c.node(n, jsast.Binary, n.Operator.String(), c.expr(n.Left), c.expr(n.Right))
	case *ast.UnaryExpression:
		id := c.node(n, jsast.Unary, n.Operator.String(), c.expr(n.Operand))
		if n.Postfix {
			c.tree.SetFlag(id, jsast.FlagPostfix, true)
		}
		return id
	case *ast.ConditionalExpression:
		return c.node(n, jsast.Conditional, "", c.expr(n.Test), c.expr(n.Consequent), c.expr(n.Alternate))
	case *ast.SequenceExpression:
		return c.node(n, jsast.Comma, "", c.exprs(n.Sequence)...)
	case *ast.CallExpression:
		id := c.node(n, jsast.Call, "", append([]jsast.NodeID{c.expr(n.Callee)}, c.exprs(n.ArgumentList)...)...)
		if _, ok := n.Callee.(*ast.Identifier); ok {
			c.tree.SetFlag(id, jsast.FlagFreeCall, true)
		}
		return id
	case *ast.NewExpression:
		return c.node(n, jsast.New, "", append([]jsast.NodeID{c.expr(n.Callee)}, c.exprs(n.ArgumentList)...)...)
	case *ast.DotExpression:
		return c.node(n, jsast.GetProp, string(n.Identifier.Name), c.expr(n.Left))
	case *ast.BracketExpression:
		return c.node(n, jsast.GetElem, "", c.expr(n.Left), c.expr(n.Member))
	case *ast.SpreadElement:
		return c.node(n, jsast.Spread, "", c.expr(n.Expression))
	case *ast.AwaitExpression:
		return c.node(n, jsast.Await, "", c.expr(n.Argument))
	case *ast.YieldExpression:
		id := c.node(n, jsast.Yield, "")
		if n.Argument != nil {
			c.tree.AddChildToBack(id, c.expr(n.Argument))
		}
		if n.Delegate {
			c.tree.SetFlag(id, jsast.FlagDelegate, true)
		}
		return id
	case *ast.ClassLiteral:
		return c.unsupported(n, "class expression")
	case *ast.ObjectPattern, *ast.ArrayPattern:
		return c.unsupported(n, "destructuring pattern")
	}
	return c.unsupported(e, "expression %T", e)
}

func isAssignable(e ast.Expression) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.DotExpression, *ast.BracketExpression:
		return true
	}
	return false
}

func (c *converter) template(n *ast.TemplateLiteral) jsast.NodeID {
	c.feature(jsast.TemplateLiterals)
	if n.Tag != nil {
		return c.unsupported(n, "tagged template")
	}
	id := c.node(n, jsast.TemplateLit, "")
	for i, el := range n.Elements {
		c.tree.AddChildToBack(id, c.node(el, jsast.TemplateString, el.Literal))
		if i < len(n.Expressions) {
			c.tree.AddChildToBack(id, c.expr(n.Expressions[i]))
		}
	}
	return id
}

func (c *converter) object(n *ast.ObjectLiteral) jsast.NodeID {
	id := c.node(n, jsast.ObjectLit, "")
	for _, p := range n.Value {
		c.tree.AddChildToBack(id, c.property(p))
	}
	return id
}

func (c *converter) property(p ast.Property) jsast.NodeID {
	switch prop := p.(type) {
	case *ast.PropertyShort:
		if prop.Initializer != nil {
			return c.unsupported(prop, "shorthand property initializer")
		}
		name := string(prop.Name.Name)
		return c.node(prop, jsast.StringKey, name, c.node(&prop.Name, jsast.Name, name))
	case *ast.PropertyKeyed:
		value := c.expr(prop.Value)
		if prop.Computed {
			if prop.Kind != ast.PropertyKindValue {
				return c.unsupported(prop, "computed accessor")
			}
			return c.node(prop, jsast.ComputedProp, "", c.expr(prop.Key), value)
		}
		key, ok := propertyKey(prop.Key)
		if !ok {
			return c.unsupported(prop, "property key %T", prop.Key)
		}
		switch prop.Kind {
		case ast.PropertyKindGet:
			return c.node(prop, jsast.GetterDef, key, value)
		case ast.PropertyKindSet:
			return c.node(prop, jsast.SetterDef, key, value)
		case ast.PropertyKindMethod:
			return c.node(prop, jsast.MemberFunctionDef, key, value)
		}
		return c.node(prop, jsast.StringKey, key, value)
	case *ast.SpreadElement:
		return c.node(prop, jsast.Spread, "", c.expr(prop.Expression))
	}
	return c.unsupported(nil, "property %T", p)
}

// propertyKey returns the raw source text of a literal key.
func propertyKey(e ast.Expression) (string, bool) {
	switch k := e.(type) {
	case *ast.StringLiteral:
		return k.Literal, true
	case *ast.NumberLiteral:
		return k.Literal, true
	case *ast.Identifier:
		return string(k.Name), true
	}
	return "", false
}
