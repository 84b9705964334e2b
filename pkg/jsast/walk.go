package jsast

import (
	"iter"
	"slices"
)

// PostOrder yields the subtree rooted at id, children before parents.
// Each child list is snapshotted before it is descended into, so the
// consumer may mutate the node it is handed and anything already visited.
func (t *Tree) PostOrder(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		t.postOrder(id, yield)
	}
}

func (t *Tree) postOrder(id NodeID, yield func(NodeID) bool) bool {
	for _, c := range slices.Clone(t.nodes[id].Children) {
		if !t.postOrder(c, yield) {
			return false
		}
	}
	return yield(id)
}

// PreOrder yields the subtree rooted at id, parents before children.
func (t *Tree) PreOrder(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		t.preOrder(id, yield)
	}
}

func (t *Tree) preOrder(id NodeID, yield func(NodeID) bool) bool {
	if !yield(id) {
		return false
	}
	for _, c := range slices.Clone(t.nodes[id].Children) {
		if !t.preOrder(c, yield) {
			return false
		}
	}
	return true
}

// Names yields every non-empty Name node under id in post-order.
func (t *Tree) Names(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for n := range t.PostOrder(id) {
			if t.nodes[n].Kind == Name && t.nodes[n].Str != "" && !yield(n) {
				return
			}
		}
	}
}
