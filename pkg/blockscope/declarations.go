package blockscope

import (
	"slices"

	"github.com/lcalzada-xor/blockscope/pkg/jsast"
	"github.com/lcalzada-xor/blockscope/pkg/scope"
)

// visitDeclarations visits every block-scoped declaration in post-order and
// moves its binding into the hoist scope, renaming it on collision.
func (p *Pass) visitDeclarations(a *scope.Analysis) {
	t := p.tree
	for n := range t.PostOrder(t.Root()) {
		switch k := t.Kind(n); {
		case k == jsast.Let || k == jsast.Const:
			if t.Kind(t.Parent(n)) == jsast.ForOf {
				p.internalErrorf(n, "for-of loops must be lowered before block-scoped declarations")
			}
			p.letConsts.add(n)
			for _, name := range slices.Clone(t.Children(n)) {
				p.visitBlockScopedName(a, n, name)
			}
		case k == jsast.Function && t.IsBlockScopedFunctionDeclaration(n):
			p.visitBlockScopedName(a, n, t.FunctionName(n))
		case k == jsast.Catch:
			if name := t.FirstChild(n); t.Kind(name) == jsast.Name {
				p.visitBlockScopedName(a, n, name)
			}
		}
	}
}

func (p *Pass) visitBlockScopedName(a *scope.Analysis, decl, nameNode jsast.NodeID) {
	t := p.tree
	k := t.Kind(decl)
	switch k {
	case jsast.Let, jsast.Const, jsast.Function, jsast.Catch:
	default:
		p.internalErrorf(decl, "unexpected block-scoped declaration")
	}

	// A loop variable becomes a state object property later on. Without an
	// explicit initializer it would keep the previous iteration's value.
	if (k == jsast.Let || k == jsast.Const) && !t.HasChildren(nameNode) &&
		t.Kind(t.Parent(decl)) != jsast.ForIn && p.inLoop(decl) {
		undef := t.NewUndefined()
		t.SetLine(undef, t.Line(nameNode))
		t.AddChildToFront(nameNode, undef)
		t.ReportChange(undef)
		p.stats.Normalized++
	}

	s := a.ScopeOf(nameNode)
	oldName := t.Str(nameNode)
	v := s.Vars()[oldName]
	if v == nil {
		if k == jsast.Function {
			// A repeated sloppy-mode function declaration; the first one
			// already moved the binding.
			return
		}
		p.internalErrorf(nameNode, "%s is not declared in %v", oldName, s)
	}

	hoist := s.ClosestHoistScope()
	if s == hoist {
		return
	}
	newName := oldName
	if p.taken(hoist, oldName) {
		for {
			newName = oldName + "$" + p.ids.UniqueID(t.Input)
			if !p.taken(hoist, newName) {
				break
			}
		}
		p.renames.put(s.RootNode(), oldName, newName)
		t.ReportChange(nameNode)
		p.stats.Renamed++
		p.log.Detail("%s:%d: rename %s to %s", t.Input, t.Line(nameNode), oldName, newName)
	}
	s.Undeclare(v)
	hoist.Declare(newName, nameNode, v.Kind)
}

// taken reports whether name would collide once hoisted into hoist.
func (p *Pass) taken(hoist scope.Scope, name string) bool {
	return hoist.HasSlot(name) || p.undeclared[name] || p.externs[name]
}

// inLoop reports whether the nearest enclosing loop or function of n is a loop.
func (p *Pass) inLoop(n jsast.NodeID) bool {
	t := p.tree
	enclosing := t.EnclosingOf(n, func(c jsast.NodeID) bool {
		k := t.Kind(c)
		return k.IsLoop() || k == jsast.Function
	})
	return enclosing.Valid() && t.Kind(enclosing) != jsast.Function
}
