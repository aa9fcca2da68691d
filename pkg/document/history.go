package document

import (
	"github.com/nrframe/texcore/pkg/ot"
	"github.com/nrframe/texcore/pkg/rope"
)

// changesetToOperation converts a rope.ChangeSet into the ot.Operation
// representation concordia.History stores revisions as. Both are
// retain/insert/delete sequences over the same document coordinate
// space, so the conversion is a straight walk.
func changesetToOperation(cs *rope.ChangeSet) *ot.Operation {
	op := ot.NewOperation()
	it := cs.ChangesIterator()
	for it.HasMore() {
		info := it.Next()
		switch info.Operation.OpType {
		case rope.OpRetain:
			op.Retain(info.Operation.Length)
		case rope.OpDelete:
			op.Delete(info.Operation.Length)
		case rope.OpInsert:
			op.Insert(info.Operation.Text)
		}
	}
	return op
}

// isNoopChangeset reports whether cs has no observable effect: empty, or
// made up entirely of retains. Mirrors ot.Operation.IsNoop, which is what
// concordia.History.CommitRevision itself uses to decide whether a
// revision is worth recording.
func isNoopChangeset(cs *rope.ChangeSet) bool {
	it := cs.ChangesIterator()
	for it.HasMore() {
		if it.Next().Operation.OpType != rope.OpRetain {
			return false
		}
	}
	return true
}

// operationToChangeSet converts an ot.Operation, such as the ones
// concordia.History.Undo/Redo hand back, into a rope.ChangeSet so the
// result can go through rope.ChangeSet.Apply and selection.Range.Map
// like any other edit.
func operationToChangeSet(op *ot.Operation, lenBefore int) *rope.ChangeSet {
	cs := rope.NewChangeSet(lenBefore)
	for _, entry := range op.ToJSON() {
		switch v := entry.(type) {
		case int:
			if v > 0 {
				cs.Retain(v)
			} else if v < 0 {
				cs.Delete(-v)
			}
		case string:
			cs.Insert(v)
		}
	}
	return cs
}
