package jsast

// FunctionName returns the Name child of a Function.
func (t *Tree) FunctionName(fn NodeID) NodeID {
	return t.FirstChild(fn)
}

// FunctionBody returns the body of a Function: a Block or, for
// expression-bodied arrows, an expression.
func (t *Tree) FunctionBody(fn NodeID) NodeID {
	return t.ChildAt(fn, 2)
}

// IsFunctionDeclaration reports whether fn is a named function in statement position.
func (t *Tree) IsFunctionDeclaration(fn NodeID) bool {
	if t.Kind(fn) != Function || t.Has(fn, FlagArrow) || t.Str(t.FunctionName(fn)) == "" {
		return false
	}
	p := t.Parent(fn)
	return p.Valid() && (t.Kind(p).IsStatementContainer() || t.Kind(p) == Label)
}

// IsFunctionBody reports whether block is the body of a function.
func (t *Tree) IsFunctionBody(block NodeID) bool {
	p := t.Parent(block)
	return t.Kind(block) == Block && t.Kind(p) == Function && t.FunctionBody(p) == block
}

// IsBlockScopedFunctionDeclaration reports whether fn is a function declaration
// nested in a block other than a function body or the script.
func (t *Tree) IsBlockScopedFunctionDeclaration(fn NodeID) bool {
	if !t.IsFunctionDeclaration(fn) {
		return false
	}
	p := t.Parent(fn)
	switch t.Kind(p) {
	case Block:
		return !t.IsFunctionBody(p)
	case Case, DefaultCase:
		return true
	}
	return false
}

// LoopBody returns the body statement of a loop.
func (t *Tree) LoopBody(loop NodeID) NodeID {
	switch t.Kind(loop) {
	case DoWhile:
		return t.FirstChild(loop)
	case For, ForIn, ForOf, While:
		return t.LastChild(loop)
	}
	return InvalidNode
}

// IsGetterOrSetterOrMethod reports whether k defines an object literal member function.
func (k Kind) IsGetterOrSetterOrMethod() bool {
	return k == GetterDef || k == SetterDef || k == MemberFunctionDef
}
