package blockscope

import (
	"testing"

	"github.com/lcalzada-xor/blockscope/pkg/jsast"
	"github.com/lcalzada-xor/blockscope/pkg/parser"
	"github.com/lcalzada-xor/blockscope/pkg/printer"
)

func firstOf(tree *jsast.Tree, k jsast.Kind) jsast.NodeID {
	for n := range tree.PreOrder(tree.Root()) {
		if tree.Kind(n) == k {
			return n
		}
	}
	return jsast.InvalidNode
}

func TestFreezeCapture(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		unit     jsast.Kind
		names    []string
		expected string
	}{
		{
			name:     "function expression",
			code:     `use(function() { return a; });`,
			unit:     jsast.Function,
			names:    []string{"a"},
			expected: `use((function(a) { return function() { return a; }; })(a));`,
		},
		{
			name:     "function declaration keeps its binding",
			code:     `function g() { return a + b; }`,
			unit:     jsast.Function,
			names:    []string{"a", "b"},
			expected: `var g = (function(a, b) { return function g() { return a + b; }; })(a, b);`,
		},
		{
			name:     "object literal",
			code:     `use({ get v() { return a; } });`,
			unit:     jsast.ObjectLit,
			names:    []string{"a"},
			expected: `use((function(a) { return { get v() { return a; } }; })(a));`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parser.MustParse("freeze.js", tt.code)
			unit := firstOf(tree, tt.unit)
			if !unit.Valid() {
				t.Fatalf("no %v in input", tt.unit)
			}

			replacement := FreezeCapture(tree, unit, tt.names)

			if tree.Parent(unit) == tree.Root() {
				t.Error("unit was not moved into the wrapper")
			}
			call := replacement
			if tree.Kind(call) == jsast.Var {
				call = tree.FirstChild(tree.FirstChild(call))
			}
			if !tree.Has(call, jsast.FlagFreeCall) {
				t.Error("wrapper call is not marked as a free call")
			}

			got := normalize(t, "got", printer.Print(tree))
			want := normalize(t, "want", tt.expected)
			if got != want {
				t.Errorf("expected\n%s\ngot\n%s", want, got)
			}
		})
	}
}
