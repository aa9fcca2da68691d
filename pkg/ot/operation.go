package ot

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Operation is an immutable sequence of retain/insert/delete ops that
// transforms a document from one length to another. concordia.History
// stores one per revision: the forward op it applies on redo, and its
// Invert on undo.
type Operation struct {
	ops          []Op
	baseLength   int
	targetLength int
}

// NewOperation creates a new empty operation, ready to be built up with
// Retain/Insert/Delete.
func NewOperation() *Operation {
	return &Operation{
		ops:          make([]Op, 0, 16),
		baseLength:   0,
		targetLength: 0,
	}
}

// Retain appends a retain of n characters.
func (op *Operation) Retain(n int) *Operation {
	if n == 0 {
		return op
	}
	op.ops = append(op.ops, RetainOp(n))
	op.baseLength += n
	op.targetLength += n
	return op
}

// Insert appends an insertion of str.
func (op *Operation) Insert(str string) *Operation {
	if str == "" {
		return op
	}
	op.ops = append(op.ops, InsertOp(str))
	op.targetLength += utf8.RuneCountInString(str)
	return op
}

// Delete appends a deletion of n characters.
func (op *Operation) Delete(n int) *Operation {
	if n == 0 {
		return op
	}
	op.ops = append(op.ops, DeleteOp(-n))
	op.baseLength += n
	return op
}

// BaseLength is the length of the document this operation expects to be
// applied to.
func (op *Operation) BaseLength() int {
	return op.baseLength
}

// TargetLength is the length of the document after applying this operation.
func (op *Operation) TargetLength() int {
	return op.targetLength
}

// IsNoop reports whether this operation has no effect: empty, or a
// single retain.
func (op *Operation) IsNoop() bool {
	if len(op.ops) == 0 {
		return true
	}
	if len(op.ops) == 1 && IsRetain(op.ops[0]) {
		return true
	}
	return false
}

// Equals reports whether op and other have the same base/target length
// and the same sequence of ops.
func (op *Operation) Equals(other *Operation) bool {
	if op.baseLength != other.baseLength {
		return false
	}
	if op.targetLength != other.targetLength {
		return false
	}
	if len(op.ops) != len(other.ops) {
		return false
	}
	for i := range op.ops {
		if op.ops[i] != other.ops[i] {
			return false
		}
	}
	return true
}

// String renders the operation for debugging, e.g. "retain 5, insert
// 'Hello', delete 3, retain 2".
func (op *Operation) String() string {
	parts := make([]string, len(op.ops))
	for i, o := range op.ops {
		parts[i] = o.String()
	}
	return strings.Join(parts, ", ")
}

// Invert builds the inverse of op given str, the document as it was
// before op was applied. concordia.History.CommitRevision calls this to
// record the operation an undo should apply.
func (op *Operation) Invert(str string) *Operation {
	inverse := NewOperation()
	runes := []rune(str)
	strIndex := 0

	for _, o := range op.ops {
		switch v := o.(type) {
		case RetainOp:
			inverse.Retain(int(v))
			strIndex += int(v)

		case InsertOp:
			inverse.Delete(utf8.RuneCountInString(string(v)))

		case DeleteOp:
			deleteLen := -int(v)
			endIndex := strIndex + deleteLen
			if endIndex > len(runes) {
				endIndex = len(runes)
			}
			inverse.Insert(string(runes[strIndex:endIndex]))
			strIndex += deleteLen
		}
	}

	return inverse
}

// ToJSON converts op to a slice where positive ints are retains, strings
// are inserts, and negative ints are deletes.
func (op *Operation) ToJSON() []interface{} {
	result := make([]interface{}, len(op.ops))
	for i, o := range op.ops {
		switch v := o.(type) {
		case RetainOp:
			result[i] = int(v)
		case InsertOp:
			result[i] = string(v)
		case DeleteOp:
			result[i] = int(v)
		}
	}
	return result
}

// FromJSON is the inverse of ToJSON.
func FromJSON(ops []interface{}) (*Operation, error) {
	op := NewOperation()

	for _, entry := range ops {
		switch v := entry.(type) {
		case int:
			if v > 0 {
				op.Retain(v)
			} else if v < 0 {
				op.Delete(-v)
			}
		case string:
			op.Insert(v)
		default:
			return nil, fmt.Errorf("unknown operation type: %T", entry)
		}
	}

	return op, nil
}

// ShouldBeComposedWith reports whether op and other are consecutive edits
// at the same position that a caller collapsing a run of keystrokes into
// one undo step should merge.
func (op *Operation) ShouldBeComposedWith(other *Operation) bool {
	if op.IsNoop() || other.IsNoop() {
		return true
	}

	startA := getStartIndex(op)
	startB := getStartIndex(other)
	simpleA := getSimpleOp(op)
	simpleB := getSimpleOp(other)

	if simpleA == nil || simpleB == nil {
		return false
	}

	if IsInsert(simpleA) && IsInsert(simpleB) {
		return startA+simpleA.Length() == startB
	}

	if IsDelete(simpleA) && IsDelete(simpleB) {
		// DeleteOp lengths are stored negative, so backspacing through text
		// (deletes shift left) and pressing delete in place (deletes stay put)
		// are the two orderings that count as consecutive.
		return (startB+simpleB.Length() == startA) || startA == startB
	}

	return false
}

// getStartIndex returns the position the operation's single non-retain
// op starts at.
func getStartIndex(op *Operation) int {
	if len(op.ops) > 0 && IsRetain(op.ops[0]) {
		return int(op.ops[0].(RetainOp))
	}
	return 0
}

// getSimpleOp returns op's lone insert/delete if it has the shape
// [retain?, insert|delete, retain?], or nil otherwise.
func getSimpleOp(op *Operation) Op {
	switch len(op.ops) {
	case 1:
		return op.ops[0]
	case 2:
		if IsRetain(op.ops[0]) {
			return op.ops[1]
		}
		if IsRetain(op.ops[1]) {
			return op.ops[0]
		}
	case 3:
		if IsRetain(op.ops[0]) && IsRetain(op.ops[2]) {
			return op.ops[1]
		}
	}
	return nil
}
