package blockscope

import (
	"github.com/lcalzada-xor/blockscope/pkg/jsast"
)

// rewriteLoop declares the state object of st before its loop, refreshes it
// every iteration and redirects each captured variable to a property of it.
//
// The object is replaced rather than mutated on every iteration, so a
// closure that captured last iteration's object keeps last iteration's
// values.
func (p *Pass) rewriteLoop(lc *loopClosures, st *loopState) {
	t := p.tree
	loop := st.loop

	next := t.NewObjectLit()
	for _, cv := range st.vars {
		t.AddChildToBack(next, t.NewStringKey(cv.prop, p.stateRef(st, cv)))
	}
	update := t.NewAssign(t.NewName(st.name), next)

	decl := t.NewVar(st.name, t.NewObjectLit())
	t.SetLine(decl, t.Line(loop))
	p.insertBeforeLoop(decl, loop)

	if t.Kind(loop) == jsast.For {
		p.hoistForInitializer(loop)
		incr := t.ChildAt(loop, 2)
		if t.Kind(incr) == jsast.Empty {
			t.ReplaceWith(incr, update)
		} else {
			hole := t.NewEmpty()
			t.ReplaceWith(incr, hole)
			t.ReplaceWith(hole, t.NewComma(update, incr))
		}
	} else {
		t.AddChildToFront(t.LoopBody(loop), t.NewExprResult(update))
	}
	t.ReportChange(loop)
	p.log.Detail("%s:%d: %v loop state %s with %d variables", t.Input, t.Line(loop), t.Kind(loop), st.name, len(st.vars))

	for _, cv := range st.vars {
		for _, ref := range lc.refs[cv.decl] {
			parent := t.Parent(ref)
			switch {
			case !parent.Valid():
				continue
			case t.Kind(parent) == jsast.ForOf:
				p.internalErrorf(parent, "for-of loops must be lowered before block-scoped declarations")
			case t.Kind(parent).IsNameDeclaration():
				if owner := t.Parent(parent); t.Kind(owner) == jsast.ForIn {
					p.copyForInVariable(st, cv, owner, ref)
				} else {
					p.replaceDeclarationWithProperty(st, cv, ref)
				}
			default:
				p.replaceReferenceWithProperty(st, cv, ref)
			}
		}
	}
}

// stateRef builds `$loop$N.<prop>`.
func (p *Pass) stateRef(st *loopState, cv *capturedVar) jsast.NodeID {
	t := p.tree
	return t.NewGetProp(t.NewName(st.name), cv.prop)
}

// insertBeforeLoop places n before loop, or before the outermost label
// attached to it.
func (p *Pass) insertBeforeLoop(n, loop jsast.NodeID) {
	t := p.tree
	spot := loop
	for t.Kind(t.Parent(spot)) == jsast.Label {
		spot = t.Parent(spot)
	}
	t.InsertBefore(n, spot)
	t.ReportChange(n)
}

// hoistForInitializer moves the init clause of a C-style for loop in front
// of the loop as a statement.
func (p *Pass) hoistForInitializer(loop jsast.NodeID) {
	t := p.tree
	init := t.FirstChild(loop)
	if t.Kind(init) == jsast.Empty {
		return
	}
	t.ReplaceWith(init, t.NewEmpty())
	if !t.Kind(init).IsNameDeclaration() {
		stmt := t.NewExprResult(init)
		t.SetLine(stmt, t.Line(init))
		init = stmt
	}
	p.insertBeforeLoop(init, loop)
}

// copyForInVariable keeps the for-in variable itself and copies it into the
// state object right after the per-iteration refresh.
func (p *Pass) copyForInVariable(st *loopState, cv *capturedVar, loop, ref jsast.NodeID) {
	t := p.tree
	body := t.LoopBody(loop)
	stmt := t.NewExprResult(t.NewAssign(p.stateRef(st, cv), t.CloneNode(ref)))
	t.SetLine(stmt, t.Line(ref))
	t.InsertAfter(stmt, t.FirstChild(body))
	t.ReportChange(stmt)
}

// replaceDeclarationWithProperty turns `let x = v` into `$loop$N.prop = v`.
// A declaration without initializer is dropped.
func (p *Pass) replaceDeclarationWithProperty(st *loopState, cv *capturedVar, ref jsast.NodeID) {
	t := p.tree
	decl := t.Parent(ref)
	if !t.Kind(t.Parent(decl)).IsStatementContainer() {
		p.internalErrorf(decl, "captured declaration in %v", t.Kind(t.Parent(decl)))
	}
	p.splitDeclaration(decl)
	// ref may have moved into a declaration of its own.
	decl = t.Parent(ref)

	if t.HasChildren(ref) {
		init := t.RemoveFirstChild(ref)
		stmt := t.NewExprResult(t.NewAssign(p.stateRef(st, cv), init))
		t.SetDoc(stmt, t.Doc(decl).Clone())
		t.SetLine(stmt, t.Line(decl))
		t.ReplaceWith(decl, stmt)
	} else {
		t.Detach(decl)
	}
	p.letConsts.remove(decl)
}

func (p *Pass) replaceReferenceWithProperty(st *loopState, cv *capturedVar, ref jsast.NodeID) {
	t := p.tree
	parent := t.Parent(ref)
	if t.Kind(parent) == jsast.Call && t.FirstChild(parent) == ref {
		t.SetFlag(parent, jsast.FlagFreeCall, false)
	}
	t.ReplaceWith(ref, p.stateRef(st, cv))
	t.ReportChange(parent)
}

// wrapUnit freezes the current state objects for a capturing unit.
func (p *Pass) wrapUnit(unit jsast.NodeID, states []*loopState) {
	t := p.tree
	if !t.Parent(unit).Valid() {
		p.internalErrorf(unit, "capturing %v is detached", t.Kind(unit))
	}
	names := make([]string, len(states))
	for i, st := range states {
		names[i] = st.name
	}
	FreezeCapture(t, unit, names)
	p.stats.Wrapped++
	p.log.Detail("%s:%d: wrap %v over %v", t.Input, t.Line(unit), t.Kind(unit), names)
}
