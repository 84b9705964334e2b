package blockscope

import (
	"github.com/lcalzada-xor/blockscope/pkg/jsast"
	"github.com/lcalzada-xor/blockscope/pkg/scope"
)

// renameTable maps (declaring scope root, original name) to the hoisted name.
type renameTable map[jsast.NodeID]map[string]string

func (r renameTable) put(root jsast.NodeID, oldName, newName string) {
	row, ok := r[root]
	if !ok {
		row = make(map[string]string)
		r[root] = row
	}
	if _, ok := row[oldName]; ok {
		return
	}
	row[oldName] = newName
}

func (r renameTable) get(root jsast.NodeID, name string) (string, bool) {
	newName, ok := r[root][name]
	return newName, ok
}

// renameReferences applies the rename table. Each name is looked up scope by
// scope from where it appears; a scope that declares the name without a
// rename entry shadows any outer entry.
func (p *Pass) renameReferences(a *scope.Analysis) {
	if len(p.renames) == 0 {
		return
	}
	t := p.tree
	for n := range t.Names(t.Root()) {
		name := t.Str(n)
		for s := a.ScopeOf(n); s.Valid(); s = s.Parent() {
			if newName, ok := p.renames.get(s.RootNode(), name); ok {
				t.SetStr(n, newName)
				t.ReportChange(n)
				break
			}
			if s.HasOwnSlot(name) {
				break
			}
		}
	}
}
