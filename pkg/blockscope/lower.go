package blockscope

import "github.com/lcalzada-xor/blockscope/pkg/jsast"

// lowerDeclarations retags every remaining let and const as var.
func (p *Pass) lowerDeclarations() {
	p.letConsts.each(func(decl jsast.NodeID) {
		p.splitDeclaration(decl)
		p.stats.Lowered++
	})
}

// splitDeclaration makes decl a var. In statement position a list of several
// names becomes one declaration per name, in source order; in a loop head
// it stays a single list. Constancy is kept as a @const annotation on every
// resulting declaration.
func (p *Pass) splitDeclaration(decl jsast.NodeID) {
	t := p.tree
	k := t.Kind(decl)
	if t.Kind(t.Parent(decl)).IsStatementContainer() {
		for t.NumChildren(decl) > 1 {
			name := t.Detach(t.LastChild(decl))
			split := t.NewDeclaration(jsast.Var, name)
			t.SetDoc(split, declarationDoc(k, t.Doc(decl)))
			t.SetLine(split, t.Line(decl))
			t.InsertAfter(split, decl)
		}
	}
	t.SetDoc(decl, declarationDoc(k, t.Doc(decl)))
	t.SetKind(decl, jsast.Var)
	t.ReportChange(decl)
}

func declarationDoc(k jsast.Kind, doc *jsast.JSDoc) *jsast.JSDoc {
	if k == jsast.Const {
		return doc.WithConst()
	}
	return doc.Clone()
}
