// Package scope builds the lexical scope tree of a [jsast.Tree].
//
// Scopes and variables live in arenas owned by an [Analysis]. A [Scope] is a
// small handle into that arena, so moving a variable between scopes never
// leaves a stale lookup behind.
package scope

import (
	"fmt"

	"github.com/lcalzada-xor/blockscope/pkg/jsast"
)

//go:generate go tool stringer -type=Kind,VarKind

// Kind classifies a scope by the construct that introduces it.
type Kind uint8

const (
	Global Kind = iota
	Function
	FunctionBlock
	Block
	Catch
	LoopHeader
)

// VarKind is the declaration form that introduced a variable.
type VarKind uint8

const (
	VarDecl VarKind = iota
	LetDecl
	ConstDecl
	FunctionDecl
	CatchDecl
	ParamDecl
	FunctionNameDecl
)

type scopeData struct {
	kind   Kind
	parent int32
	root   jsast.NodeID
	vars   map[string]*Var
}

// Var is a declared name.
type Var struct {
	Name string
	// NameNode is the declaring Name node.
	NameNode jsast.NodeID
	Kind     VarKind

	scope Scope
	refs  []jsast.NodeID
}

// Scope returns the scope that currently owns v.
func (v *Var) Scope() Scope {
	return v.scope
}

// References returns the Name nodes resolved to v, the declaration included.
func (v *Var) References() []jsast.NodeID {
	return v.refs
}

// IsLetOrConst reports whether v is block scoped by a let or const declaration.
func (v *Var) IsLetOrConst() bool {
	return v.Kind == LetDecl || v.Kind == ConstDecl
}

func (v *Var) String() string {
	return fmt.Sprintf("%s %s in %v", v.Kind, v.Name, v.scope)
}

// Analysis is the scope tree of one tree snapshot.
type Analysis struct {
	tree   *jsast.Tree
	scopes []scopeData
	byRoot map[jsast.NodeID]int32
	refs   map[jsast.NodeID]*Var
}

// Scope is a handle to one scope of an Analysis. The zero Scope is invalid.
type Scope struct {
	a  *Analysis
	id int32
}

func (s Scope) data() *scopeData {
	return &s.a.scopes[s.id]
}

// Valid reports whether s refers to a scope.
func (s Scope) Valid() bool {
	return s.a != nil
}

func (s Scope) Kind() Kind {
	return s.data().kind
}

// RootNode returns the node that introduced the scope.
func (s Scope) RootNode() jsast.NodeID {
	return s.data().root
}

// Parent returns the enclosing scope, or an invalid Scope for the global scope.
func (s Scope) Parent() Scope {
	p := s.data().parent
	if p < 0 {
		return Scope{}
	}
	return Scope{a: s.a, id: p}
}

func (s Scope) IsGlobal() bool        { return s.Kind() == Global }
func (s Scope) IsFunctionScope() bool { return s.Kind() == Function }

// IsFunctionBlockScope reports whether s is the top-level block of a function body.
func (s Scope) IsFunctionBlockScope() bool { return s.Kind() == FunctionBlock }

// IsHoistScope reports whether var declarations bind in s.
func (s Scope) IsHoistScope() bool {
	switch s.Kind() {
	case Global, Function, FunctionBlock:
		return true
	}
	return false
}

// ClosestHoistScope returns the nearest hoist scope, s included.
func (s Scope) ClosestHoistScope() Scope {
	for c := s; c.Valid(); c = c.Parent() {
		if c.IsHoistScope() {
			return c
		}
	}
	panic(fmt.Sprintf("scope: %v has no hoist scope", s))
}

// HasOwnSlot reports whether name is declared directly in s.
func (s Scope) HasOwnSlot(name string) bool {
	_, ok := s.data().vars[name]
	return ok
}

// HasSlot reports whether name is declared in s or any enclosing scope.
func (s Scope) HasSlot(name string) bool {
	return s.GetVar(name) != nil
}

// GetVar resolves name lexically starting at s. It returns nil when the
// name is not declared anywhere up the chain.
func (s Scope) GetVar(name string) *Var {
	for c := s; c.Valid(); c = c.Parent() {
		if v, ok := c.data().vars[name]; ok {
			return v
		}
	}
	return nil
}

// Declare binds name in s and returns the new variable. Any previous
// binding of the same name in s is replaced.
func (s Scope) Declare(name string, nameNode jsast.NodeID, kind VarKind) *Var {
	d := s.data()
	if d.vars == nil {
		d.vars = make(map[string]*Var)
	}
	v := &Var{Name: name, NameNode: nameNode, Kind: kind, scope: s}
	d.vars[name] = v
	return v
}

// Undeclare removes v from its owning scope.
func (s Scope) Undeclare(v *Var) {
	d := s.data()
	if d.vars[v.Name] != v {
		panic(fmt.Sprintf("scope: %v is not declared in %v", v, s))
	}
	delete(d.vars, v.Name)
	v.scope = Scope{}
}

// Vars returns the variables declared directly in s.
func (s Scope) Vars() map[string]*Var {
	return s.data().vars
}

func (s Scope) String() string {
	if !s.Valid() {
		return "<no scope>"
	}
	return fmt.Sprintf("%s@%d", s.Kind(), s.RootNode())
}

// Global returns the outermost scope.
func (a *Analysis) Global() Scope {
	return Scope{a: a, id: 0}
}

// Len returns the number of scopes.
func (a *Analysis) Len() int {
	return len(a.scopes)
}

// ScopeFor returns the scope rooted at root, if any.
func (a *Analysis) ScopeFor(root jsast.NodeID) (Scope, bool) {
	id, ok := a.byRoot[root]
	if !ok {
		return Scope{}, false
	}
	return Scope{a: a, id: id}, true
}

// ScopeOf returns the innermost scope that contains n, excluding a scope
// rooted at n itself. The name of a function declaration belongs to the
// scope around the function, not to the function's own scope.
func (a *Analysis) ScopeOf(n jsast.NodeID) Scope {
	t := a.tree
	child := n
	for p := t.Parent(n); p.Valid(); child, p = p, t.Parent(p) {
		id, ok := a.byRoot[p]
		if !ok {
			continue
		}
		if t.Kind(p) == jsast.Function && child == t.FunctionName(p) && t.IsFunctionDeclaration(p) {
			continue
		}
		return Scope{a: a, id: id}
	}
	return a.Global()
}

// Resolve returns the variable a Name node was bound to when the analysis
// was built, or nil for free names.
func (a *Analysis) Resolve(name jsast.NodeID) *Var {
	return a.refs[name]
}

func (a *Analysis) newScope(kind Kind, parent Scope, root jsast.NodeID) Scope {
	p := int32(-1)
	if parent.Valid() {
		p = parent.id
	}
	a.scopes = append(a.scopes, scopeData{kind: kind, parent: p, root: root})
	id := int32(len(a.scopes) - 1)
	a.byRoot[root] = id
	return Scope{a: a, id: id}
}
