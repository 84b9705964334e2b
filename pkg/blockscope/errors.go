package blockscope

import (
	"fmt"

	"github.com/lcalzada-xor/blockscope/pkg/jsast"
)

// InternalError reports a tree shape that earlier lowering passes should have
// removed. It indicates a defect in the pipeline, not in the user's code.
type InternalError struct {
	Input string
	Node  jsast.NodeID
	Kind  jsast.Kind
	Line  int
	Msg   string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("Internal Error: %s:%d: %s (%v node %d)", e.Input, e.Line, e.Msg, e.Kind, e.Node)
}

// internalErrorf aborts the pass. Process turns the panic back into an error.
func (p *Pass) internalErrorf(n jsast.NodeID, format string, args ...any) {
	e := &InternalError{Input: p.tree.Input, Node: n, Msg: fmt.Sprintf(format, args...)}
	if n.Valid() {
		e.Kind = p.tree.Kind(n)
		e.Line = p.tree.Line(n)
	}
	panic(e)
}
