package blockscope

import "github.com/lcalzada-xor/blockscope/pkg/scope"

// collectUndeclaredNames records every name that resolves to no binding.
// A hoisted declaration must not take such a name, or it would capture the
// free reference.
func (p *Pass) collectUndeclaredNames(a *scope.Analysis) {
	t := p.tree
	for n := range t.Names(t.Root()) {
		name := t.Str(n)
		if !a.ScopeOf(n).HasSlot(name) {
			p.undeclared[name] = true
		}
	}
}
