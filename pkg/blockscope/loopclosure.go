package blockscope

import (
	"github.com/lcalzada-xor/blockscope/pkg/jsast"
	"github.com/lcalzada-xor/blockscope/pkg/scope"
)

// capturedVar is a loop variable that moved into a loop state object.
type capturedVar struct {
	decl jsast.NodeID // declaring Name node
	prop string
}

// loopState is the synthesized per-iteration record of one loop.
type loopState struct {
	loop jsast.NodeID
	name string
	vars []*capturedVar
}

type unitVar struct {
	unit, decl jsast.NodeID
}

// loopClosures is the result of the capture analysis. All maps are keyed by
// node handles, which survive the rewrites that follow.
type loopClosures struct {
	loops    []jsast.NodeID
	states   map[jsast.NodeID]*loopState
	captured map[jsast.NodeID]*capturedVar
	refs     map[jsast.NodeID][]jsast.NodeID

	units      []jsast.NodeID
	unitStates map[jsast.NodeID][]*loopState
	seen       map[unitVar]bool
}

func (p *Pass) transformLoopClosures(a *scope.Analysis) {
	lc := p.analyzeLoopClosures(a)
	if len(lc.loops) == 0 {
		return
	}
	p.log.Section("loop closures: " + p.tree.Input)
	for _, loop := range lc.loops {
		p.rewriteLoop(lc, lc.states[loop])
	}
	for _, unit := range lc.units {
		p.wrapUnit(unit, lc.unitStates[unit])
	}
}

// analyzeLoopClosures finds let and const variables declared in a loop that
// are referenced from a function created inside that loop. Capture is
// syntactic: crossing a function boundary between the reference and the
// loop is enough, whether or not the function outlives the iteration.
func (p *Pass) analyzeLoopClosures(a *scope.Analysis) *loopClosures {
	t := p.tree
	lc := &loopClosures{
		states:     make(map[jsast.NodeID]*loopState),
		captured:   make(map[jsast.NodeID]*capturedVar),
		refs:       make(map[jsast.NodeID][]jsast.NodeID),
		unitStates: make(map[jsast.NodeID][]*loopState),
		seen:       make(map[unitVar]bool),
	}
	for n := range t.Names(t.Root()) {
		v := a.Resolve(n)
		if v == nil || !v.IsLetOrConst() {
			continue
		}
		declaredIn := v.Scope()
		loop := p.enclosingLoop(declaredIn)
		if !loop.Valid() {
			continue
		}
		lc.refs[v.NameNode] = append(lc.refs[v.NameNode], n)

		fn := outermostFunction(a.ScopeOf(n), declaredIn, loop)
		if !fn.Valid() {
			continue
		}
		unit := p.capturingUnit(fn)
		key := unitVar{unit: unit, decl: v.NameNode}
		if lc.seen[key] {
			continue
		}
		lc.seen[key] = true

		st := p.stateFor(lc, loop)
		if _, ok := lc.captured[v.NameNode]; !ok {
			cv := &capturedVar{
				decl: v.NameNode,
				prop: "$loop$prop$" + v.Name + "$" + p.ids.UniqueID(t.Input),
			}
			lc.captured[v.NameNode] = cv
			st.vars = append(st.vars, cv)
			p.stats.Captured++
		}
		lc.addUnit(unit, st)
	}
	return lc
}

// enclosingLoop walks outward from the declaring scope to the loop the
// declaration belongs to, either as a loop header or as part of its body.
// It gives up at the enclosing function body or the global scope.
func (p *Pass) enclosingLoop(s scope.Scope) jsast.NodeID {
	t := p.tree
	for ; s.Valid(); s = s.Parent() {
		root := s.RootNode()
		if t.Kind(root).IsLoop() {
			return root
		}
		if parent := t.Parent(root); parent.Valid() && t.Kind(parent).IsLoop() {
			return parent
		}
		if s.IsFunctionBlockScope() || s.IsGlobal() {
			break
		}
	}
	return jsast.InvalidNode
}

// outermostFunction returns the outermost function crossed on the way from a
// reference up to its declaring scope or loop.
func outermostFunction(from, declaredIn scope.Scope, loop jsast.NodeID) jsast.NodeID {
	fn := jsast.InvalidNode
	for s := from; s.Valid() && s != declaredIn && s.RootNode() != loop; s = s.Parent() {
		if s.IsFunctionScope() {
			fn = s.RootNode()
		}
	}
	return fn
}

// capturingUnit returns the node to wrap for a capturing function. An
// accessor or method cannot be replaced by a call, so its object literal
// is wrapped instead.
func (p *Pass) capturingUnit(fn jsast.NodeID) jsast.NodeID {
	t := p.tree
	member := t.Parent(fn)
	if !t.Kind(member).IsGetterOrSetterOrMethod() {
		return fn
	}
	obj := t.Parent(member)
	if t.Kind(obj) != jsast.ObjectLit {
		p.internalErrorf(member, "object member outside an object literal")
	}
	return obj
}

func (p *Pass) stateFor(lc *loopClosures, loop jsast.NodeID) *loopState {
	if st, ok := lc.states[loop]; ok {
		return st
	}
	st := &loopState{loop: loop, name: "$loop$" + p.ids.UniqueID(p.tree.Input)}
	lc.states[loop] = st
	lc.loops = append(lc.loops, loop)
	p.stats.LoopObjects++
	return st
}

func (lc *loopClosures) addUnit(unit jsast.NodeID, st *loopState) {
	states, ok := lc.unitStates[unit]
	if !ok {
		lc.units = append(lc.units, unit)
	}
	for _, s := range states {
		if s == st {
			return
		}
	}
	lc.unitStates[unit] = append(states, st)
}
