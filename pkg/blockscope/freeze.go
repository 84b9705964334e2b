package blockscope

import "github.com/lcalzada-xor/blockscope/pkg/jsast"

// FreezeCapture turns the variables in names from captured by reference into
// captured by value for the closure unit, by routing them through the
// parameters of an immediately invoked function:
//
//	unit  =>  (function(a, b) { return unit; })(a, b)
//
// A function declaration keeps its binding:
//
//	function f() {}  =>  var f = (function(a) { return function f() {}; })(a);
//
// unit may be any attached expression or a function declaration. FreezeCapture
// returns the node now standing where unit was.
func FreezeCapture(t *jsast.Tree, unit jsast.NodeID, names []string) jsast.NodeID {
	ret := t.NewReturn(jsast.InvalidNode)
	iife := t.NewFunction("", t.NewParamList(names...), t.NewBlock(ret))
	args := make([]jsast.NodeID, len(names))
	for i, name := range names {
		args[i] = t.NewName(name)
	}
	call := t.NewCall(iife, args...)
	t.SetFlag(call, jsast.FlagFreeCall, true)
	t.SetLine(call, t.Line(unit))

	replacement := call
	if t.IsFunctionDeclaration(unit) {
		replacement = t.NewVar(t.Str(t.FunctionName(unit)), call)
		t.SetLine(replacement, t.Line(unit))
	}
	t.ReplaceWith(unit, replacement)
	t.AddChildToBack(ret, unit)
	t.ReportChange(replacement)
	return replacement
}
