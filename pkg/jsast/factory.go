package jsast

// Constructors for synthesized code. All returned nodes are detached.

func (t *Tree) NewName(name string) NodeID {
	return t.New(Name, name)
}

// NewUndefined returns `void 0`, which cannot be shadowed.
func (t *Tree) NewUndefined() NodeID {
	return t.New(Unary, "void", t.New(NumberLit, "0"))
}

func (t *Tree) NewEmpty() NodeID {
	return t.New(Empty, "")
}

func (t *Tree) NewBlock(stmts ...NodeID) NodeID {
	return t.New(Block, "", stmts...)
}

func (t *Tree) NewExprResult(expr NodeID) NodeID {
	return t.New(ExprResult, "", expr)
}

// NewVar declares a single name with an optional initializer.
func (t *Tree) NewVar(name string, init NodeID) NodeID {
	n := t.NewName(name)
	if init.Valid() {
		t.AddChildToBack(n, init)
	}
	return t.New(Var, "", n)
}

// NewDeclaration wraps already-built Name nodes in a declaration of kind k.
func (t *Tree) NewDeclaration(k Kind, names ...NodeID) NodeID {
	return t.New(k, "", names...)
}

func (t *Tree) NewAssign(lhs, rhs NodeID) NodeID {
	return t.New(Assign, "=", lhs, rhs)
}

func (t *Tree) NewGetProp(obj NodeID, prop string) NodeID {
	return t.New(GetProp, prop, obj)
}

// NewComma sequences a and b; nested commas are flattened.
func (t *Tree) NewComma(a, b NodeID) NodeID {
	c := t.New(Comma, "")
	for _, e := range []NodeID{a, b} {
		if t.Kind(e) == Comma {
			for t.HasChildren(e) {
				t.AddChildToBack(c, t.RemoveFirstChild(e))
			}
			continue
		}
		t.AddChildToBack(c, e)
	}
	return c
}

func (t *Tree) NewCall(callee NodeID, args ...NodeID) NodeID {
	return t.New(Call, "", append([]NodeID{callee}, args...)...)
}

func (t *Tree) NewObjectLit(props ...NodeID) NodeID {
	return t.New(ObjectLit, "", props...)
}

func (t *Tree) NewStringKey(key string, value NodeID) NodeID {
	return t.New(StringKey, key, value)
}

func (t *Tree) NewReturn(expr NodeID) NodeID {
	if !expr.Valid() {
		return t.New(Return, "")
	}
	return t.New(Return, "", expr)
}

func (t *Tree) NewParamList(names ...string) NodeID {
	pl := t.New(ParamList, "")
	for _, n := range names {
		t.AddChildToBack(pl, t.NewName(n))
	}
	return pl
}

// NewFunction builds a non-arrow function; name may be empty.
func (t *Tree) NewFunction(name string, params, body NodeID) NodeID {
	return t.New(Function, "", t.NewName(name), params, body)
}
