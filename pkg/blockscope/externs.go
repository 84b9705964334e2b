package blockscope

import (
	"slices"

	"github.com/lcalzada-xor/blockscope/pkg/jsast"
	"github.com/lcalzada-xor/blockscope/pkg/scope"
)

// CollectExternNames returns the names an externs file declares globally,
// sorted.
func CollectExternNames(externs *jsast.Tree) []string {
	vars := scope.Build(externs).Global().Vars()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
