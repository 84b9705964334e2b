package printer

import (
	"testing"

	"github.com/lcalzada-xor/blockscope/pkg/jsast"
	"github.com/lcalzada-xor/blockscope/pkg/parser"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"declarations", "let a = 1, b;\nconst c = a;\n"},
		{"for loop", "for (var i = 0; i < 3; i++) {\n  f(i);\n}\n"},
		{"empty for clauses", "lbl: for (;;) {\n  break lbl;\n}\n"},
		{"for in", "for (const k in o) {\n  use(k);\n}\n"},
		{"precedence left", "(a + b) * c;\n"},
		{"precedence right", "a - (b - c);\n"},
		{"nullish mixed with or", "a ?? (b || c);\n"},
		{"typeof comparison", "typeof x === \"undefined\";\n"},
		{"iife", "(function() {})();\n"},
		{"object statement", "({a: 1});\n"},
		{"arrow returning object", "x = () => ({});\n"},
		{"number member", "(1).toString();\n"},
		{"else if chain", "if (a) {\n  b();\n} else if (c) {\n  d();\n} else {\n  e();\n}\n"},
		{"try catch", "try {\n  f();\n} catch (e) {}\n"},
		{"switch", "switch (x) {\ncase 1:\n  a();\ndefault:\n  b();\n}\n"},
		{"accessors", "o = {get a() {\n  return 1;\n}, b(x) {}};\n"},
		{"do while", "do {\n  n++;\n} while (n < 3);\n"},
		{"void", "x = void 0;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := parser.Parse(tt.name, tt.code)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := Print(tree); got != tt.code {
				t.Errorf("expected:\n%s\ngot:\n%s", tt.code, got)
			}
		})
	}
}

func TestConstDoc(t *testing.T) {
	tree := parser.MustParse("doc.js", "var a = 1;\nfor (var k in o) {}\n")
	stmts := tree.Children(tree.Root())
	tree.SetDoc(stmts[0], (*jsast.JSDoc)(nil).WithConst())
	tree.SetDoc(tree.FirstChild(stmts[1]), (*jsast.JSDoc)(nil).WithConst())

	expected := "/** @const */ var a = 1;\nfor (/** @const */ var k in o) {}\n"
	if got := Print(tree); got != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, got)
	}
}

func TestNodeExpression(t *testing.T) {
	tree := jsast.NewTree("synth.js")
	sum := tree.New(jsast.Binary, "+", tree.NewName("a"), tree.NewName("b"))
	call := tree.NewCall(tree.NewGetProp(tree.NewName("L"), "f"), sum)

	p := New(tree)
	if got := p.Node(call); got != "L.f(a + b)" {
		t.Errorf("expected %q, got %q", "L.f(a + b)", got)
	}
	if got := p.Node(tree.NewComma(tree.NewName("x"), tree.NewUndefined())); got != "x, void 0" {
		t.Errorf("expected %q, got %q", "x, void 0", got)
	}
}
