package jsast

import "strings"

// Feature is a language feature tracked per compilation unit.
type Feature uint32

const (
	LetDeclarations Feature = 1 << iota
	ConstDeclarations
	ArrowFunctions
	TemplateLiterals
	ForOfLoops
	AsyncFunctions
	Generators
)

var featureNames = []struct {
	f    Feature
	name string
}{
	{LetDeclarations, "let"},
	{ConstDeclarations, "const"},
	{ArrowFunctions, "arrow"},
	{TemplateLiterals, "template"},
	{ForOfLoops, "for-of"},
	{AsyncFunctions, "async"},
	{Generators, "generator"},
}

// FeatureSet is a bitmask of Features.
type FeatureSet uint32

func (s FeatureSet) Has(f Feature) bool {
	return uint32(s)&uint32(f) != 0
}

func (s FeatureSet) With(fs ...Feature) FeatureSet {
	for _, f := range fs {
		s |= FeatureSet(f)
	}
	return s
}

func (s FeatureSet) Without(fs ...Feature) FeatureSet {
	for _, f := range fs {
		s &^= FeatureSet(f)
	}
	return s
}

func (s FeatureSet) String() string {
	var names []string
	for _, fn := range featureNames {
		if s.Has(fn.f) {
			names = append(names, fn.name)
		}
	}
	return "[" + strings.Join(names, " ") + "]"
}

// MarkTranspiledAway removes features the tree no longer uses.
func (t *Tree) MarkTranspiledAway(fs ...Feature) {
	t.Features = t.Features.Without(fs...)
}
