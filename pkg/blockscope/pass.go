// Package blockscope lowers let and const declarations to var.
//
// Block scoping survives the rewrite: names that would collide once hoisted
// into the enclosing function are renamed, and variables captured by
// closures created inside a loop are moved into a per-iteration state object
// so each closure keeps seeing the binding of its own iteration.
//
// The pass runs in five ordered steps over one tree:
//
//  1. collect names with no lexical binding (transpile-only mode),
//  2. normalize and rename block-scoped declarations,
//  3. apply the renames to every reference,
//  4. rewrite loop closures to use loop state objects,
//  5. retag the remaining declarations as var.
//
// Each step rebuilds the scope analysis from the tree as it is at that point.
package blockscope

import (
	"github.com/lcalzada-xor/blockscope/pkg/jsast"
	"github.com/lcalzada-xor/blockscope/pkg/logger"
	"github.com/lcalzada-xor/blockscope/pkg/models"
	"github.com/lcalzada-xor/blockscope/pkg/scope"
	"github.com/lcalzada-xor/blockscope/pkg/uniqueid"
)

// Config controls a Pass.
type Config struct {
	// TranspileOnly treats names without a declaration as taken, so hoisted
	// names never shadow a global the compiler cannot see.
	TranspileOnly bool

	// Externs are names declared outside the compilation unit.
	Externs []string

	// IDs supplies rename suffixes. A fresh supplier is used when nil.
	IDs *uniqueid.Supplier

	// Logger receives per-rewrite details at very verbose level.
	Logger *logger.Logger
}

// Stats counts what a Pass changed.
type Stats = models.Stats

// Pass rewrites one tree. It is not safe for concurrent use; run one Pass
// per compilation unit.
type Pass struct {
	tree *jsast.Tree
	log  *logger.Logger
	ids  *uniqueid.Supplier

	transpileOnly bool
	externs       map[string]bool
	undeclared    map[string]bool
	renames       renameTable
	letConsts     declSet
	stats         Stats
}

// New prepares a pass over tree.
func New(tree *jsast.Tree, cfg Config) *Pass {
	p := &Pass{
		tree:          tree,
		log:           cfg.Logger,
		ids:           cfg.IDs,
		transpileOnly: cfg.TranspileOnly,
		externs:       make(map[string]bool, len(cfg.Externs)),
		undeclared:    make(map[string]bool),
		renames:       make(renameTable),
	}
	if p.log == nil {
		p.log = logger.NewLogger(int(logger.VerboseSilent))
	}
	if p.ids == nil {
		p.ids = uniqueid.NewSupplier()
	}
	for _, name := range cfg.Externs {
		p.externs[name] = true
	}
	return p
}

// Rewrite runs a fresh Pass over tree.
func Rewrite(tree *jsast.Tree, cfg Config) (Stats, error) {
	return New(tree, cfg).Process()
}

// Process runs all steps. Trees that use neither let nor const are left
// untouched. An *InternalError is returned when the tree contains a shape
// the pass cannot lower; the tree may be partially rewritten in that case.
func (p *Pass) Process() (stats Stats, err error) {
	t := p.tree
	if !t.Features.Has(jsast.LetDeclarations) && !t.Features.Has(jsast.ConstDeclarations) {
		return p.stats, nil
	}

	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InternalError)
			if !ok {
				panic(r)
			}
			stats, err = p.stats, ie
		}
	}()

	p.log.Section("block scope: " + t.Input)
	if p.transpileOnly {
		p.collectUndeclaredNames(scope.Build(t))
	}
	p.visitDeclarations(scope.Build(t))
	p.renameReferences(scope.Build(t))
	p.transformLoopClosures(scope.Build(t))
	p.lowerDeclarations()

	t.MarkTranspiledAway(jsast.LetDeclarations, jsast.ConstDeclarations)
	p.log.VV("%s: %d renamed, %d loop objects, %d wrapped, %d lowered",
		t.Input, p.stats.Renamed, p.stats.LoopObjects, p.stats.Wrapped, p.stats.Lowered)
	return p.stats, nil
}

// declSet is an insertion-ordered set of declaration nodes.
type declSet struct {
	order   []jsast.NodeID
	members map[jsast.NodeID]bool
}

func (s *declSet) add(n jsast.NodeID) {
	if s.members == nil {
		s.members = make(map[jsast.NodeID]bool)
	}
	if _, ok := s.members[n]; ok {
		return
	}
	s.members[n] = true
	s.order = append(s.order, n)
}

func (s *declSet) remove(n jsast.NodeID) {
	if _, ok := s.members[n]; ok {
		s.members[n] = false
	}
}

func (s *declSet) each(f func(jsast.NodeID)) {
	for _, n := range s.order {
		if s.members[n] {
			f(n)
		}
	}
}
