package jsast

import "slices"

// ReportChange records that the change scope enclosing id was modified.
// A change scope is the nearest enclosing Function or the Script.
func (t *Tree) ReportChange(id NodeID) {
	root := t.EnclosingOf(id, func(n NodeID) bool {
		k := t.Kind(n)
		return k == Function || k == Script
	})
	if !root.Valid() {
		// Detached subtree; it is reported again once it is attached.
		return
	}
	if t.changed == nil {
		t.changed = make(map[NodeID]struct{})
	}
	t.changed[root] = struct{}{}
}

// ChangedScopes returns the change scope roots reported so far, in allocation order.
func (t *Tree) ChangedScopes() []NodeID {
	out := make([]NodeID, 0, len(t.changed))
	for id := range t.changed {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// ResetChanges forgets all reported changes.
func (t *Tree) ResetChanges() {
	clear(t.changed)
}
