package jsast

import (
	"fmt"
	"slices"
)

// Tree owns every node of one compilation unit.
type Tree struct {
	// Input names the compilation unit, e.g. the source file.
	Input string

	// Features lists the language features the unit still uses.
	Features FeatureSet

	nodes   []Node
	root    NodeID
	changed map[NodeID]struct{}
}

// NewTree returns an empty tree whose root is an empty Script.
func NewTree(input string) *Tree {
	t := &Tree{Input: input, root: InvalidNode}
	t.root = t.New(Script, "")
	return t
}

// Root returns the Script node.
func (t *Tree) Root() NodeID {
	return t.root
}

// Len returns the number of allocated nodes, attached or not.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// At returns the node for id. The pointer is only valid until the next allocation.
func (t *Tree) At(id NodeID) *Node {
	return &t.nodes[id]
}

func (t *Tree) Kind(id NodeID) Kind {
	if !id.Valid() {
		return Invalid
	}
	return t.nodes[id].Kind
}

func (t *Tree) Str(id NodeID) string {
	return t.nodes[id].Str
}

func (t *Tree) SetStr(id NodeID, s string) {
	t.nodes[id].Str = s
}

// SetKind retags a node in place, e.g. turning a Let into a Var.
func (t *Tree) SetKind(id NodeID, k Kind) {
	t.nodes[id].Kind = k
}

func (t *Tree) Flags(id NodeID) Flags {
	return t.nodes[id].Flags
}

func (t *Tree) Has(id NodeID, f Flags) bool {
	return id.Valid() && t.nodes[id].Has(f)
}

func (t *Tree) SetFlag(id NodeID, f Flags, on bool) {
	if on {
		t.nodes[id].Flags |= f
	} else {
		t.nodes[id].Flags &^= f
	}
}

func (t *Tree) Doc(id NodeID) *JSDoc {
	return t.nodes[id].Doc
}

func (t *Tree) SetDoc(id NodeID, d *JSDoc) {
	t.nodes[id].Doc = d
}

func (t *Tree) Line(id NodeID) int {
	return t.nodes[id].Line
}

func (t *Tree) SetLine(id NodeID, line int) {
	t.nodes[id].Line = line
}

// Parent returns the parent handle or InvalidNode for detached nodes and the root.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].Parent
}

// GrandParent returns the parent's parent or InvalidNode.
func (t *Tree) GrandParent(id NodeID) NodeID {
	p := t.Parent(id)
	if !p.Valid() {
		return InvalidNode
	}
	return t.Parent(p)
}

// Children returns the child list. Callers must not modify it; clone it
// before mutating the tree while iterating.
func (t *Tree) Children(id NodeID) []NodeID {
	return t.nodes[id].Children
}

func (t *Tree) NumChildren(id NodeID) int {
	return len(t.nodes[id].Children)
}

func (t *Tree) HasChildren(id NodeID) bool {
	return len(t.nodes[id].Children) > 0
}

// ChildAt returns the i-th child or InvalidNode when out of range.
func (t *Tree) ChildAt(id NodeID, i int) NodeID {
	c := t.nodes[id].Children
	if i < 0 || i >= len(c) {
		return InvalidNode
	}
	return c[i]
}

func (t *Tree) FirstChild(id NodeID) NodeID {
	return t.ChildAt(id, 0)
}

func (t *Tree) LastChild(id NodeID) NodeID {
	return t.ChildAt(id, len(t.nodes[id].Children)-1)
}

// IndexInParent returns the position of id among its siblings, or -1.
func (t *Tree) IndexInParent(id NodeID) int {
	p := t.nodes[id].Parent
	if !p.Valid() {
		return -1
	}
	return slices.Index(t.nodes[p].Children, id)
}

// Next returns the following sibling or InvalidNode.
func (t *Tree) Next(id NodeID) NodeID {
	i := t.IndexInParent(id)
	if i < 0 {
		return InvalidNode
	}
	return t.ChildAt(t.nodes[id].Parent, i+1)
}

// New allocates a node. The children must be detached.
func (t *Tree) New(k Kind, str string, children ...NodeID) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{Kind: k, Str: str, Parent: InvalidNode})
	for _, c := range children {
		t.AddChildToBack(id, c)
	}
	return id
}

// AddChildToBack appends a detached child.
func (t *Tree) AddChildToBack(parent, child NodeID) {
	t.checkDetached(child)
	t.nodes[parent].Children = append(t.nodes[parent].Children, child)
	t.nodes[child].Parent = parent
}

// AddChildToFront prepends a detached child.
func (t *Tree) AddChildToFront(parent, child NodeID) {
	t.insertChildAt(parent, 0, child)
}

// InsertBefore places a detached node immediately before ref.
func (t *Tree) InsertBefore(node, ref NodeID) {
	p := t.mustParent(ref)
	t.insertChildAt(p, t.IndexInParent(ref), node)
}

// InsertAfter places a detached node immediately after ref.
func (t *Tree) InsertAfter(node, ref NodeID) {
	p := t.mustParent(ref)
	t.insertChildAt(p, t.IndexInParent(ref)+1, node)
}

// Detach removes id from its parent and returns it.
func (t *Tree) Detach(id NodeID) NodeID {
	p := t.nodes[id].Parent
	if !p.Valid() {
		return id
	}
	i := t.IndexInParent(id)
	t.nodes[p].Children = slices.Delete(t.nodes[p].Children, i, i+1)
	t.nodes[id].Parent = InvalidNode
	return id
}

// RemoveFirstChild detaches and returns the first child, or InvalidNode.
func (t *Tree) RemoveFirstChild(id NodeID) NodeID {
	c := t.FirstChild(id)
	if !c.Valid() {
		return InvalidNode
	}
	return t.Detach(c)
}

// ReplaceWith puts a detached replacement where old is and detaches old.
func (t *Tree) ReplaceWith(old, replacement NodeID) {
	p := t.mustParent(old)
	t.checkDetached(replacement)
	i := t.IndexInParent(old)
	t.nodes[p].Children[i] = replacement
	t.nodes[replacement].Parent = p
	t.nodes[old].Parent = InvalidNode
}

// CloneNode copies a single node without its children.
func (t *Tree) CloneNode(id NodeID) NodeID {
	n := t.nodes[id]
	c := t.New(n.Kind, n.Str)
	t.nodes[c].Flags = n.Flags
	t.nodes[c].Line = n.Line
	t.nodes[c].Doc = n.Doc.Clone()
	return c
}

// CloneTree deep-copies the subtree rooted at id.
func (t *Tree) CloneTree(id NodeID) NodeID {
	c := t.CloneNode(id)
	for _, child := range slices.Clone(t.nodes[id].Children) {
		t.AddChildToBack(c, t.CloneTree(child))
	}
	return c
}

// IsAncestor reports whether anc is a proper ancestor of id.
func (t *Tree) IsAncestor(anc, id NodeID) bool {
	for p := t.Parent(id); p.Valid(); p = t.Parent(p) {
		if p == anc {
			return true
		}
	}
	return false
}

// EnclosingOf returns the nearest ancestor-or-self satisfying pred, or InvalidNode.
func (t *Tree) EnclosingOf(id NodeID, pred func(NodeID) bool) NodeID {
	for n := id; n.Valid(); n = t.Parent(n) {
		if pred(n) {
			return n
		}
	}
	return InvalidNode
}

func (t *Tree) insertChildAt(parent NodeID, i int, child NodeID) {
	t.checkDetached(child)
	t.nodes[parent].Children = slices.Insert(t.nodes[parent].Children, i, child)
	t.nodes[child].Parent = parent
}

func (t *Tree) mustParent(id NodeID) NodeID {
	p := t.nodes[id].Parent
	if !p.Valid() {
		panic(fmt.Sprintf("jsast: %v node %d has no parent", t.nodes[id].Kind, id))
	}
	return p
}

func (t *Tree) checkDetached(id NodeID) {
	if t.nodes[id].Parent.Valid() {
		panic(fmt.Sprintf("jsast: %v node %d is still attached", t.nodes[id].Kind, id))
	}
	if id == t.root {
		panic("jsast: cannot attach the root")
	}
}
