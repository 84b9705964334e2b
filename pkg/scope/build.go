package scope

import (
	"github.com/lcalzada-xor/blockscope/pkg/jsast"
)

// Build creates the scope tree for t and resolves every Name against it.
// The result describes t as it is now; rebuild after structural edits.
func Build(t *jsast.Tree) *Analysis {
	a := &Analysis{
		tree:   t,
		byRoot: make(map[jsast.NodeID]int32),
		refs:   make(map[jsast.NodeID]*Var),
	}
	b := builder{a: a, t: t}
	global := a.newScope(Global, Scope{}, t.Root())
	b.statements(t.Root(), global)
	b.resolve()
	return a
}

type builder struct {
	a *Analysis
	t *jsast.Tree
}

func (b *builder) statements(parent jsast.NodeID, s Scope) {
	for _, c := range b.t.Children(parent) {
		b.visit(c, s)
	}
}

// visit declares the bindings introduced under n and opens nested scopes.
func (b *builder) visit(n jsast.NodeID, s Scope) {
	t := b.t
	switch t.Kind(n) {
	case jsast.Var:
		hoist := s.ClosestHoistScope()
		for _, name := range t.Children(n) {
			b.declareVar(hoist, name)
			b.children(name, s)
		}
		return
	case jsast.Let, jsast.Const:
		kind := LetDecl
		if t.Kind(n) == jsast.Const {
			kind = ConstDecl
		}
		for _, name := range t.Children(n) {
			s.Declare(t.Str(name), name, kind)
			b.children(name, s)
		}
		return
	case jsast.Function:
		b.function(n, s)
		return
	case jsast.Block:
		b.statements(n, b.a.newScope(Block, s, n))
		return
	case jsast.For, jsast.ForIn, jsast.ForOf:
		b.children(n, b.a.newScope(LoopHeader, s, n))
		return
	case jsast.Switch:
		b.children(n, b.a.newScope(Block, s, n))
		return
	case jsast.Catch:
		cs := b.a.newScope(Catch, s, n)
		param := t.FirstChild(n)
		if t.Kind(param) == jsast.Name {
			cs.Declare(t.Str(param), param, CatchDecl)
		}
		b.visit(t.ChildAt(n, 1), cs)
		return
	}
	b.children(n, s)
}

func (b *builder) children(n jsast.NodeID, s Scope) {
	for _, c := range b.t.Children(n) {
		b.visit(c, s)
	}
}

// declareVar binds a var in its hoist scope unless the name is already bound
// there or, for a function body, as a parameter.
func (b *builder) declareVar(hoist Scope, name jsast.NodeID) {
	str := b.t.Str(name)
	if hoist.HasOwnSlot(str) {
		return
	}
	if hoist.IsFunctionBlockScope() && hoist.Parent().HasOwnSlot(str) {
		return
	}
	hoist.Declare(str, name, VarDecl)
}

func (b *builder) function(fn jsast.NodeID, s Scope) {
	t := b.t
	name := t.FunctionName(fn)
	if t.IsFunctionDeclaration(fn) {
		if !s.HasOwnSlot(t.Str(name)) {
			s.Declare(t.Str(name), name, FunctionDecl)
		}
	}
	fs := b.a.newScope(Function, s, fn)
	if !t.IsFunctionDeclaration(fn) && t.Str(name) != "" {
		fs.Declare(t.Str(name), name, FunctionNameDecl)
	}
	for _, p := range t.Children(t.ChildAt(fn, 1)) {
		switch t.Kind(p) {
		case jsast.Name:
			fs.Declare(t.Str(p), p, ParamDecl)
		case jsast.DefaultValue:
			param := t.FirstChild(p)
			fs.Declare(t.Str(param), param, ParamDecl)
			b.visit(t.ChildAt(p, 1), fs)
		case jsast.Rest:
			param := t.FirstChild(p)
			fs.Declare(t.Str(param), param, ParamDecl)
		}
	}
	body := t.FunctionBody(fn)
	if t.Kind(body) == jsast.Block {
		b.statements(body, b.a.newScope(FunctionBlock, fs, body))
		return
	}
	b.visit(body, fs)
}

// resolve binds every Name in the tree to the variable it refers to.
func (b *builder) resolve() {
	for n := range b.t.Names(b.t.Root()) {
		v := b.a.ScopeOf(n).GetVar(b.t.Str(n))
		if v == nil {
			continue
		}
		b.a.refs[n] = v
		v.refs = append(v.refs, n)
	}
}
