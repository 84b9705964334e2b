// Package printer emits JavaScript source from a [jsast.Tree].
package printer

import (
	"bytes"
	"strings"

	"github.com/lcalzada-xor/blockscope/pkg/jsast"
)

// level is an operator precedence; higher binds tighter.
type level uint8

const (
	lowest level = iota
	comma
	spread
	yield
	assign
	conditional
	nullish
	logicalOr
	logicalAnd
	bitwiseOr
	bitwiseXor
	bitwiseAnd
	equals
	compare
	shift
	add
	multiply
	exponent
	prefix
	postfix
	newExpr
	call
	member
)

var binaryLevels = map[string]level{
	"??": nullish,
	"||": logicalOr, "&&": logicalAnd,
	"|": bitwiseOr, "^": bitwiseXor, "&": bitwiseAnd,
	"==": equals, "!=": equals, "===": equals, "!==": equals,
	"<": compare, ">": compare, "<=": compare, ">=": compare, "instanceof": compare, "in": compare,
	"<<": shift, ">>": shift, ">>>": shift,
	"+": add, "-": add,
	"*": multiply, "/": multiply, "%": multiply,
	"**": exponent,
}

// Printer renders one tree. The zero value is not usable; call New.
type Printer struct {
	t           *jsast.Tree
	buf         bytes.Buffer
	indentLevel int
}

// New returns a printer for t.
func New(t *jsast.Tree) *Printer {
	return &Printer{t: t}
}

// Print renders the whole tree.
func Print(t *jsast.Tree) string {
	return New(t).Node(t.Root())
}

// Node renders the subtree rooted at n. Statements end with a newline.
func (p *Printer) Node(n jsast.NodeID) string {
	p.buf.Reset()
	p.indentLevel = 0
	switch k := p.t.Kind(n); {
	case k == jsast.Script:
		p.statements(n)
	case isStatement(p.t, n):
		p.statement(n)
	default:
		p.expr(n, lowest)
	}
	return p.buf.String()
}

func isStatement(t *jsast.Tree, n jsast.NodeID) bool {
	switch t.Kind(n) {
	case jsast.Block, jsast.Empty, jsast.ExprResult, jsast.Var, jsast.Let, jsast.Const,
		jsast.Return, jsast.If, jsast.For, jsast.ForIn, jsast.ForOf, jsast.While, jsast.DoWhile,
		jsast.Label, jsast.Break, jsast.Continue, jsast.Throw, jsast.Try, jsast.Switch, jsast.Debugger:
		return true
	case jsast.Function:
		return t.IsFunctionDeclaration(n)
	}
	return false
}

func (p *Printer) indent() {
	p.indentLevel++
}

func (p *Printer) dedent() {
	if p.indentLevel > 0 {
		p.indentLevel--
	}
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indentLevel; i++ {
		p.buf.WriteString("  ")
	}
}

func (p *Printer) write(s ...string) {
	for _, str := range s {
		p.buf.WriteString(str)
	}
}

func (p *Printer) statements(parent jsast.NodeID) {
	for _, c := range p.t.Children(parent) {
		p.statement(c)
	}
}

func (p *Printer) statement(n jsast.NodeID) {
	p.writeIndent()
	p.statementBody(n)
}

// statementBody prints n without leading indentation.
func (p *Printer) statementBody(n jsast.NodeID) {
	t := p.t
	if d := t.Doc(n); !d.Empty() && !t.Kind(n).IsNameDeclaration() {
		p.write(d.String(), " ")
	}
	switch t.Kind(n) {
	case jsast.Block:
		p.block(n)
		p.write("\n")
	case jsast.Empty:
		p.write(";\n")
	case jsast.ExprResult:
		e := t.FirstChild(n)
		if p.needsStatementParens(e) {
			p.write("(")
			p.expr(e, lowest)
			p.write(")")
		} else {
			p.expr(e, lowest)
		}
		p.write(";\n")
	case jsast.Var, jsast.Let, jsast.Const:
		p.declaration(n)
		p.write(";\n")
	case jsast.Function:
		p.function(n)
		p.write("\n")
	case jsast.Return, jsast.Throw:
		p.write(strings.ToLower(t.Kind(n).String()))
		if t.HasChildren(n) {
			p.write(" ")
			p.expr(t.FirstChild(n), lowest)
		}
		p.write(";\n")
	case jsast.If:
		p.ifStatement(n)
	case jsast.For:
		p.write("for (")
		if init := t.ChildAt(n, 0); t.Kind(init).IsNameDeclaration() {
			p.declaration(init)
		} else if t.Kind(init) != jsast.Empty {
			p.expr(init, lowest)
		}
		p.write(";")
		p.clause(t.ChildAt(n, 1))
		p.write(";")
		p.clause(t.ChildAt(n, 2))
		p.write(") ")
		p.body(t.ChildAt(n, 3))
	case jsast.ForIn, jsast.ForOf:
		p.write("for (")
		if target := t.ChildAt(n, 0); t.Kind(target).IsNameDeclaration() {
			p.declaration(target)
		} else {
			p.expr(target, postfix)
		}
		if t.Kind(n) == jsast.ForIn {
			p.write(" in ")
			p.expr(t.ChildAt(n, 1), lowest)
		} else {
			p.write(" of ")
			p.expr(t.ChildAt(n, 1), assign)
		}
		p.write(") ")
		p.body(t.ChildAt(n, 2))
	case jsast.While:
		p.write("while (")
		p.expr(t.ChildAt(n, 0), lowest)
		p.write(") ")
		p.body(t.ChildAt(n, 1))
	case jsast.DoWhile:
		p.write("do ")
		p.block(t.ChildAt(n, 0))
		p.write(" while (")
		p.expr(t.ChildAt(n, 1), lowest)
		p.write(");\n")
	case jsast.Label:
		p.write(t.Str(t.FirstChild(n)), ": ")
		p.statementBody(t.ChildAt(n, 1))
	case jsast.Break, jsast.Continue:
		p.write(strings.ToLower(t.Kind(n).String()))
		if t.HasChildren(n) {
			p.write(" ", t.Str(t.FirstChild(n)))
		}
		p.write(";\n")
	case jsast.Try:
		p.write("try ")
		p.block(t.ChildAt(n, 0))
		if c := t.ChildAt(n, 1); t.Kind(c) == jsast.Catch {
			p.write(" catch ")
			if param := t.FirstChild(c); t.Kind(param) == jsast.Name {
				p.write("(", t.Str(param), ") ")
			}
			p.block(t.ChildAt(c, 1))
		}
		if f := t.ChildAt(n, 2); t.Kind(f) == jsast.Block {
			p.write(" finally ")
			p.block(f)
		}
		p.write("\n")
	case jsast.Switch:
		p.write("switch (")
		p.expr(t.FirstChild(n), lowest)
		p.write(") {\n")
		for _, c := range t.Children(n)[1:] {
			p.writeIndent()
			stmts := t.Children(c)
			if t.Kind(c) == jsast.Case {
				p.write("case ")
				p.expr(stmts[0], lowest)
				stmts = stmts[1:]
			} else {
				p.write("default")
			}
			p.write(":\n")
			p.indent()
			for _, s := range stmts {
				p.statement(s)
			}
			p.dedent()
		}
		p.writeIndent()
		p.write("}\n")
	case jsast.Debugger:
		p.write("debugger;\n")
	default:
		p.expr(n, lowest)
		p.write(";\n")
	}
}

// clause prints an optional for-loop test or update.
func (p *Printer) clause(n jsast.NodeID) {
	if p.t.Kind(n) == jsast.Empty {
		return
	}
	p.write(" ")
	p.expr(n, lowest)
}

func (p *Printer) ifStatement(n jsast.NodeID) {
	t := p.t
	p.write("if (")
	p.expr(t.ChildAt(n, 0), lowest)
	p.write(") ")
	if t.NumChildren(n) < 3 {
		p.body(t.ChildAt(n, 1))
		return
	}
	cons := t.ChildAt(n, 1)
	if t.Kind(cons) == jsast.Block {
		p.block(cons)
		p.write(" else ")
	} else {
		p.write("\n")
		p.indent()
		p.statement(cons)
		p.dedent()
		p.writeIndent()
		p.write("else ")
	}
	alt := t.ChildAt(n, 2)
	if t.Kind(alt) == jsast.If {
		p.ifStatement(alt)
		return
	}
	p.body(alt)
}

// body prints a loop or branch body that follows a header on the same line.
func (p *Printer) body(n jsast.NodeID) {
	if p.t.Kind(n) == jsast.Block {
		p.block(n)
		p.write("\n")
		return
	}
	p.write("\n")
	p.indent()
	p.statement(n)
	p.dedent()
}

// block prints braces and contents without a trailing newline.
func (p *Printer) block(n jsast.NodeID) {
	if !p.t.HasChildren(n) {
		p.write("{}")
		return
	}
	p.write("{\n")
	p.indent()
	p.statements(n)
	p.dedent()
	p.writeIndent()
	p.write("}")
}

// declaration prints a var, let or const list without a terminator.
func (p *Printer) declaration(n jsast.NodeID) {
	t := p.t
	if d := t.Doc(n); !d.Empty() {
		p.write(d.String(), " ")
	}
	p.write(strings.ToLower(t.Kind(n).String()), " ")
	for i, name := range t.Children(n) {
		if i > 0 {
			p.write(", ")
		}
		p.write(t.Str(name))
		if t.HasChildren(name) {
			p.write(" = ")
			p.expr(t.FirstChild(name), assign)
		}
	}
}

// needsStatementParens reports whether an expression statement would be
// misread as a declaration or block.
func (p *Printer) needsStatementParens(e jsast.NodeID) bool {
	t := p.t
	for {
		switch t.Kind(e) {
		case jsast.ObjectLit:
			return true
		case jsast.Function:
			return !t.Has(e, jsast.FlagArrow)
		case jsast.Call, jsast.GetProp, jsast.GetElem:
			e = t.FirstChild(e)
			if t.Kind(e) == jsast.Function && !t.Has(e, jsast.FlagArrow) {
				// Already wrapped as a callee or member object.
				return false
			}
		case jsast.Binary, jsast.Assign, jsast.Comma, jsast.Conditional:
			e = t.FirstChild(e)
		case jsast.Unary:
			if !t.Has(e, jsast.FlagPostfix) {
				return false
			}
			e = t.FirstChild(e)
		default:
			return false
		}
	}
}

func (p *Printer) params(fn jsast.NodeID) {
	t := p.t
	p.write("(")
	for i, param := range t.Children(t.ChildAt(fn, 1)) {
		if i > 0 {
			p.write(", ")
		}
		switch t.Kind(param) {
		case jsast.DefaultValue:
			p.write(t.Str(t.FirstChild(param)), " = ")
			p.expr(t.ChildAt(param, 1), assign)
		case jsast.Rest:
			p.write("...", t.Str(t.FirstChild(param)))
		default:
			p.write(t.Str(param))
		}
	}
	p.write(")")
}

func (p *Printer) function(fn jsast.NodeID) {
	t := p.t
	if t.Has(fn, jsast.FlagAsync) {
		p.write("async ")
	}
	if t.Has(fn, jsast.FlagArrow) {
		p.params(fn)
		p.write(" => ")
		body := t.FunctionBody(fn)
		if t.Kind(body) == jsast.Block {
			p.block(body)
			return
		}
		if t.Kind(body) == jsast.ObjectLit {
			p.write("(")
			p.expr(body, lowest)
			p.write(")")
			return
		}
		p.expr(body, assign)
		return
	}
	p.write("function")
	if t.Has(fn, jsast.FlagGenerator) {
		p.write("*")
	}
	if name := t.Str(t.FunctionName(fn)); name != "" {
		p.write(" ", name)
	}
	p.params(fn)
	p.write(" ")
	p.block(t.FunctionBody(fn))
}

// method prints an accessor or method body after its key.
func (p *Printer) method(keyword, key string, fn jsast.NodeID) {
	t := p.t
	if t.Has(fn, jsast.FlagAsync) {
		p.write("async ")
	}
	if t.Has(fn, jsast.FlagGenerator) {
		p.write("*")
	}
	p.write(keyword, key)
	p.params(fn)
	p.write(" ")
	p.block(t.FunctionBody(fn))
}

func (p *Printer) list(children []jsast.NodeID, lvl level) {
	for i, c := range children {
		if i > 0 {
			p.write(", ")
		}
		p.expr(c, lvl)
	}
}

func (p *Printer) expr(n jsast.NodeID, lvl level) {
	t := p.t
	wrap := func(own level) bool {
		if own < lvl {
			p.write("(")
			return true
		}
		return false
	}
	closeIf := func(open bool) {
		if open {
			p.write(")")
		}
	}

	switch t.Kind(n) {
	case jsast.Name, jsast.NumberLit, jsast.StringLit, jsast.RegExpLit:
		p.write(t.Str(n))
	case jsast.True:
		p.write("true")
	case jsast.False:
		p.write("false")
	case jsast.Null:
		p.write("null")
	case jsast.This:
		p.write("this")
	case jsast.Empty:
	case jsast.TemplateLit:
		p.write("`")
		for _, c := range t.Children(n) {
			if t.Kind(c) == jsast.TemplateString {
				p.write(t.Str(c))
				continue
			}
			p.write("${")
			p.expr(c, lowest)
			p.write("}")
		}
		p.write("`")
	case jsast.ArrayLit:
		p.write("[")
		children := t.Children(n)
		p.list(children, assign)
		if len(children) > 0 && t.Kind(children[len(children)-1]) == jsast.Empty {
			p.write(",")
		}
		p.write("]")
	case jsast.ObjectLit:
		p.object(n)
	case jsast.Function:
		if t.Has(n, jsast.FlagArrow) {
			open := wrap(assign)
			p.function(n)
			closeIf(open)
			return
		}
		p.function(n)
	case jsast.Spread:
		p.write("...")
		p.expr(t.FirstChild(n), assign)
	case jsast.Assign:
		open := wrap(assign)
		p.expr(t.ChildAt(n, 0), assign+1)
		p.write(" ", t.Str(n), " ")
		p.expr(t.ChildAt(n, 1), assign)
		closeIf(open)
	case jsast.Binary:
		p.binary(n, lvl)
	case jsast.Unary:
		p.unary(n, lvl)
	case jsast.Conditional:
		open := wrap(conditional)
		p.expr(t.ChildAt(n, 0), nullish)
		p.write(" ? ")
		p.expr(t.ChildAt(n, 1), assign)
		p.write(" : ")
		p.expr(t.ChildAt(n, 2), assign)
		closeIf(open)
	case jsast.Comma:
		open := wrap(comma)
		p.list(t.Children(n), spread)
		closeIf(open)
	case jsast.Call:
		open := wrap(call)
		callee := t.FirstChild(n)
		if t.Kind(callee) == jsast.Function && !t.Has(callee, jsast.FlagArrow) {
			p.write("(")
			p.function(callee)
			p.write(")")
		} else {
			p.expr(callee, call)
		}
		p.write("(")
		p.list(t.Children(n)[1:], assign)
		p.write(")")
		closeIf(open)
	case jsast.New:
		open := wrap(call)
		p.write("new ")
		p.expr(t.FirstChild(n), member)
		p.write("(")
		p.list(t.Children(n)[1:], assign)
		p.write(")")
		closeIf(open)
	case jsast.GetProp:
		open := wrap(member)
		p.memberObject(t.FirstChild(n))
		p.write(".", t.Str(n))
		closeIf(open)
	case jsast.GetElem:
		open := wrap(member)
		p.memberObject(t.FirstChild(n))
		p.write("[")
		p.expr(t.ChildAt(n, 1), lowest)
		p.write("]")
		closeIf(open)
	case jsast.Await:
		open := wrap(prefix)
		p.write("await ")
		p.expr(t.FirstChild(n), prefix)
		closeIf(open)
	case jsast.Yield:
		open := wrap(yield)
		p.write("yield")
		if t.Has(n, jsast.FlagDelegate) {
			p.write("*")
		}
		if t.HasChildren(n) {
			p.write(" ")
			p.expr(t.FirstChild(n), yield)
		}
		closeIf(open)
	default:
		p.write("/* unsupported ", t.Kind(n).String(), " */")
	}
}

// memberObject prints the object operand of a member access.
func (p *Printer) memberObject(obj jsast.NodeID) {
	t := p.t
	if t.Kind(obj) == jsast.NumberLit && !strings.ContainsAny(t.Str(obj), ".eExXoObB") {
		p.write("(", t.Str(obj), ")")
		return
	}
	if t.Kind(obj) == jsast.Function && !t.Has(obj, jsast.FlagArrow) {
		p.write("(")
		p.function(obj)
		p.write(")")
		return
	}
	p.expr(obj, call)
}

func (p *Printer) object(n jsast.NodeID) {
	t := p.t
	props := t.Children(n)
	if len(props) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	for i, prop := range props {
		if i > 0 {
			p.write(", ")
		}
		switch t.Kind(prop) {
		case jsast.StringKey:
			p.write(t.Str(prop), ": ")
			p.expr(t.FirstChild(prop), assign)
		case jsast.GetterDef:
			p.method("get ", t.Str(prop), t.FirstChild(prop))
		case jsast.SetterDef:
			p.method("set ", t.Str(prop), t.FirstChild(prop))
		case jsast.MemberFunctionDef:
			p.method("", t.Str(prop), t.FirstChild(prop))
		case jsast.ComputedProp:
			p.write("[")
			p.expr(t.FirstChild(prop), assign)
			p.write("]: ")
			p.expr(t.ChildAt(prop, 1), assign)
		default:
			p.expr(prop, assign)
		}
	}
	p.write("}")
}

func (p *Printer) binary(n jsast.NodeID, lvl level) {
	t := p.t
	op := t.Str(n)
	own, ok := binaryLevels[op]
	if !ok {
		own = compare
	}
	open := own < lvl
	if open {
		p.write("(")
	}
	left, right := own, own+1
	switch op {
	case "**":
		left, right = own+1, own
	case "??":
		left, right = bitwiseOr, bitwiseOr
	}
	l := t.ChildAt(n, 0)
	if op == "**" && (t.Kind(l) == jsast.Unary && !t.Has(l, jsast.FlagPostfix) || t.Kind(l) == jsast.Await) {
		p.write("(")
		p.expr(l, lowest)
		p.write(")")
	} else {
		p.expr(l, left)
	}
	p.write(" ", op, " ")
	p.expr(t.ChildAt(n, 1), right)
	if open {
		p.write(")")
	}
}

func (p *Printer) unary(n jsast.NodeID, lvl level) {
	t := p.t
	op := t.Str(n)
	operand := t.FirstChild(n)
	if t.Has(n, jsast.FlagPostfix) {
		open := postfix < lvl
		if open {
			p.write("(")
		}
		p.expr(operand, postfix)
		p.write(op)
		if open {
			p.write(")")
		}
		return
	}
	open := prefix < lvl
	if open {
		p.write("(")
	}
	p.write(op)
	switch {
	case op == "typeof" || op == "void" || op == "delete":
		p.write(" ")
	case (op == "-" || op == "+" || op == "--" || op == "++") && t.Kind(operand) == jsast.Unary &&
		!t.Has(operand, jsast.FlagPostfix) && strings.HasPrefix(t.Str(operand), op[:1]):
		p.write(" ")
	}
	p.expr(operand, prefix)
	if open {
		p.write(")")
	}
}
