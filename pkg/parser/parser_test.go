package parser

import (
	"errors"
	"testing"

	"github.com/lcalzada-xor/blockscope/pkg/jsast"
)

func TestParseShapes(t *testing.T) {
	tree, err := Parse("shapes.js", `let a = 1, b;
const c = () => a;
for (let i = 0; i < 3; i++) x();
for (const k in o) {}
lbl: while (a) { break lbl; }
try { f(); } catch (e) {}`)
	if err != nil {
		t.Fatal(err)
	}

	stmts := tree.Children(tree.Root())
	expected := []jsast.Kind{jsast.Let, jsast.Const, jsast.For, jsast.ForIn, jsast.Label, jsast.Try}
	if len(stmts) != len(expected) {
		t.Fatalf("expected %d statements, got %d", len(expected), len(stmts))
	}
	for i, k := range expected {
		if got := tree.Kind(stmts[i]); got != k {
			t.Errorf("statement %d: expected %v, got %v", i, k, got)
		}
	}

	let := stmts[0]
	if tree.NumChildren(let) != 2 || tree.HasChildren(tree.ChildAt(let, 1)) {
		t.Error("expected two names, the second without initializer")
	}

	arrow := tree.FirstChild(tree.FirstChild(stmts[1]))
	if !tree.Has(arrow, jsast.FlagArrow|jsast.FlagExprBody) {
		t.Error("expected an expression-bodied arrow")
	}

	forLoop := stmts[2]
	if tree.Kind(tree.FirstChild(forLoop)) != jsast.Let {
		t.Error("expected let in the for head")
	}
	if tree.Kind(tree.LoopBody(forLoop)) != jsast.Block {
		t.Error("loop body should be wrapped in a block")
	}

	catch := tree.ChildAt(stmts[5], 1)
	if tree.Kind(catch) != jsast.Catch || tree.Str(tree.FirstChild(catch)) != "e" {
		t.Error("expected catch clause with parameter e")
	}

	for _, f := range []jsast.Feature{jsast.LetDeclarations, jsast.ConstDeclarations, jsast.ArrowFunctions} {
		if !tree.Features.Has(f) {
			t.Errorf("expected feature %v in %v", f, tree.Features)
		}
	}
	if tree.Line(stmts[2]) != 3 {
		t.Errorf("expected for loop on line 3, got %d", tree.Line(stmts[2]))
	}
}

func TestForOfFeature(t *testing.T) {
	tree := MustParse("forof.js", `for (var x of xs) { use(x); }`)
	loop := tree.FirstChild(tree.Root())
	if tree.Kind(loop) != jsast.ForOf {
		t.Fatalf("expected ForOf node, got %v", tree.Kind(loop))
	}
	if !tree.Features.Has(jsast.ForOfLoops) {
		t.Errorf("expected for-of feature, got %v", tree.Features)
	}
	if got := tree.Features.String(); got != "[for-of]" {
		t.Errorf("expected [for-of], got %s", got)
	}
}

func TestFreeCallFlag(t *testing.T) {
	tree := MustParse("calls.js", `f(); o.m();`)
	stmts := tree.Children(tree.Root())

	if call := tree.FirstChild(stmts[0]); !tree.Has(call, jsast.FlagFreeCall) {
		t.Error("expected f() to be a free call")
	}
	if call := tree.FirstChild(stmts[1]); tree.Has(call, jsast.FlagFreeCall) {
		t.Error("o.m() is not a free call")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name        string
		code        string
		unsupported bool
	}{
		{"syntax error", `let = ;`, false},
		{"class", `class A {}`, true},
		{"destructuring", `let {a} = o;`, true},
		{"with", `with (o) {}`, true},
		{"tagged template", "tag`x`;", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.js", tt.code)
			if err == nil {
				t.Fatal("expected an error")
			}
			var ue *UnsupportedError
			if got := errors.As(err, &ue); got != tt.unsupported {
				t.Errorf("expected unsupported=%v, got %v (%v)", tt.unsupported, got, err)
			}
		})
	}
}
