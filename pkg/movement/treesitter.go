package movement

import (
	"fmt"

	"github.com/nrframe/texcore/pkg/rope"
	"github.com/nrframe/texcore/pkg/selection"
)

// SyntaxNode is the minimal shape goto_treesitter_object needs from a
// parsed syntax node. Tree-sitter integration itself stays out of scope
// (spec 1, Non-goals); this interface lets a caller that does own a
// parsed tree plug it in without this package depending on the grammar
// bindings.
type SyntaxNode interface {
	StartByte() int
	EndByte() int
}

// TextobjectQuery resolves the nodes captured under a set of capture
// names (e.g. "function.around", "function.inside") against whatever
// tree and language the caller is holding.
type TextobjectQuery interface {
	CaptureNodesAny(names []string) []SyntaxNode
}

// GotoTreesitterObject implements spec 4.3.6: find the nearest node
// captured as name.movement/.around/.inside on the cursor's far side in
// dir, and return a range spanning it with head before anchor (the
// selection is reversed by convention). count repeats the search that
// many times, each hop starting from the previous result's cursor.
func GotoTreesitterObject(text *rope.Rope, r selection.Range, objectName string, dir Direction, query TextobjectQuery, count int) selection.Range {
	names := []string{
		fmt.Sprintf("%s.movement", objectName),
		fmt.Sprintf("%s.around", objectName),
		fmt.Sprintf("%s.inside", objectName),
	}

	for i := 0; i < count; i++ {
		next, ok := nextTreesitterRange(text, r, names, dir, query)
		if !ok {
			break
		}
		r = next
	}
	return r
}

func nextTreesitterRange(text *rope.Rope, r selection.Range, names []string, dir Direction, query TextobjectQuery) (selection.Range, bool) {
	bytePos := text.CharToByte(r.Cursor())
	nodes := query.CaptureNodesAny(names)

	var best SyntaxNode
	for _, n := range nodes {
		switch dir {
		case Forward:
			if n.StartByte() > bytePos && (best == nil || n.StartByte() < best.StartByte()) {
				best = n
			}
		case Backward:
			if n.StartByte() < bytePos && (best == nil || n.StartByte() > best.StartByte()) {
				best = n
			}
		}
	}
	if best == nil {
		return r, false
	}

	lenBytes := text.LengthBytes()
	startByte, endByte := best.StartByte(), best.EndByte()
	if startByte >= lenBytes || endByte > lenBytes {
		return r, false
	}

	startChar := text.ByteToChar(startByte)
	endChar := text.ByteToChar(endByte)
	return selection.NewRange(endChar, startChar), true
}
