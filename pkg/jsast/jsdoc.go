package jsast

import "strings"

// JSDoc is advisory documentation attached to a node. After lowering, constancy
// survives only here since the output has no block-scoped const.
type JSDoc struct {
	Description string
	Const       bool
}

// Clone returns a copy; nil stays nil.
func (d *JSDoc) Clone() *JSDoc {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// WithConst returns a copy of d with constancy recorded.
func (d *JSDoc) WithConst() *JSDoc {
	c := d.Clone()
	if c == nil {
		c = &JSDoc{}
	}
	c.Const = true
	return c
}

// Empty reports whether the doc would print nothing.
func (d *JSDoc) Empty() bool {
	return d == nil || (!d.Const && d.Description == "")
}

// String renders the doc as a block comment.
func (d *JSDoc) String() string {
	if d.Empty() {
		return ""
	}
	var parts []string
	if d.Description != "" {
		parts = append(parts, strings.TrimSpace(d.Description))
	}
	if d.Const {
		parts = append(parts, "@const")
	}
	return "/** " + strings.Join(parts, " ") + " */"
}
