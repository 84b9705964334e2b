// Package jsast holds the arena syntax tree the lowering passes operate on.
//
// Nodes live in a single slice owned by a [Tree] and are addressed by
// [NodeID]. Handles stay valid across every mutation, so passes may key maps
// by NodeID while they detach, move and replace subtrees.
package jsast

//go:generate go tool stringer -type=Kind

// NodeID is a stable handle into a [Tree].
type NodeID int32

// InvalidNode is the zero handle for "no node".
const InvalidNode NodeID = -1

// Valid reports whether the handle refers to a node.
func (id NodeID) Valid() bool {
	return id >= 0
}

// Kind is the closed set of node variants.
type Kind uint8

const (
	Invalid Kind = iota

	// Statements.
	Script
	Block
	Empty
	ExprResult
	Var
	Let
	Const
	Function
	ParamList
	Rest
	DefaultValue
	Return
	If
	For
	ForIn
	ForOf
	While
	DoWhile
	Label
	LabelName
	Break
	Continue
	Throw
	Try
	Catch
	Switch
	Case
	DefaultCase
	Debugger

	// Expressions.
	Name
	NumberLit
	StringLit
	TemplateLit
	TemplateString
	RegExpLit
	True
	False
	Null
	This
	ArrayLit
	ObjectLit
	StringKey
	GetterDef
	SetterDef
	MemberFunctionDef
	ComputedProp
	Spread
	Assign
	Binary
	Unary
	Conditional
	Comma
	Call
	New
	GetProp
	GetElem
	Await
	Yield
)

// Flags carry per-node syntax bits that don't warrant their own Kind.
type Flags uint16

const (
	FlagArrow Flags = 1 << iota
	FlagAsync
	FlagGenerator
	FlagExprBody
	FlagPostfix
	FlagFreeCall
	FlagDelegate
)

// Node is one arena slot.
//
// Children layout per kind:
//
//	Script, Block              statements
//	Var, Let, Const            Name... (a Name's single child is its initializer)
//	Function                   Name (Str "" when anonymous), ParamList, Block | expression
//	ParamList                  Name | DefaultValue | Rest
//	For                        init, test, update, body (Empty for omitted clauses)
//	ForIn, ForOf               target, object, body
//	While                      test, body
//	DoWhile                    body, test
//	Label                      LabelName, statement
//	Try                        Block, Catch | Empty, Block | Empty
//	Catch                      Name | Empty, Block
//	Switch                     discriminant, Case | DefaultCase...
//	Case                       test, statements...
//	GetProp                    object (Str is the property)
//	StringKey, GetterDef, ...  value (Str is the raw key text)
type Node struct {
	Kind     Kind
	Str      string
	Flags    Flags
	Parent   NodeID
	Children []NodeID
	Doc      *JSDoc
	Line     int
}

// Has reports whether all bits in f are set.
func (n *Node) Has(f Flags) bool {
	return n.Flags&f == f
}

// IsLoop reports whether k is a loop structure.
func (k Kind) IsLoop() bool {
	switch k {
	case For, ForIn, ForOf, While, DoWhile:
		return true
	}
	return false
}

// IsNameDeclaration reports whether k is a var, let or const list.
func (k Kind) IsNameDeclaration() bool {
	return k == Var || k == Let || k == Const
}

// IsStatementContainer reports whether children of k are in statement position.
func (k Kind) IsStatementContainer() bool {
	switch k {
	case Script, Block, Case, DefaultCase:
		return true
	}
	return false
}
