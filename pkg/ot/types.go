package ot

import "fmt"

// OperationType represents the type of an OT operation.
type OperationType int

const (
	// OpRetain retains (skips over) characters without modification.
	OpRetain OperationType = iota
	// OpInsert inserts new text at the current position.
	OpInsert
	// OpDelete removes characters from the current position.
	OpDelete
)

// Op is one element of an Operation's op list: a retain, an insert, or
// a delete.
type Op interface {
	// Type returns the operation type.
	Type() OperationType
	// Length returns the length of the operation.
	// For retain: number of characters retained
	// For insert: length of inserted string
	// For delete: number of characters deleted
	Length() int
	// String returns a string representation for debugging.
	String() string
}

// RetainOp retains (skips over) n characters without modification.
type RetainOp int

// Type returns OpRetain for RetainOp.
func (o RetainOp) Type() OperationType {
	return OpRetain
}

// Length returns the number of characters to retain.
func (o RetainOp) Length() int {
	return int(o)
}

// String returns a string representation for debugging.
func (o RetainOp) String() string {
	return fmt.Sprintf("retain %d", int(o))
}

// InsertOp inserts its text at the current position.
type InsertOp string

// Type returns OpInsert for InsertOp.
func (o InsertOp) Type() OperationType {
	return OpInsert
}

// Length returns the length of the string to be inserted.
func (o InsertOp) Length() int {
	return len(o)
}

// String returns a string representation for debugging.
func (o InsertOp) String() string {
	return fmt.Sprintf("insert '%s'", string(o))
}

// DeleteOp removes characters from the current position. Its stored
// value is the negated count, so a DeleteOp's zero value composes with
// RetainOp's under the same "length of this op" reading.
type DeleteOp int

// Type returns OpDelete for DeleteOp.
func (o DeleteOp) Type() OperationType {
	return OpDelete
}

// Length returns the number of characters to delete (absolute value).
func (o DeleteOp) Length() int {
	return -int(o)
}

// String returns a string representation for debugging.
func (o DeleteOp) String() string {
	return fmt.Sprintf("delete %d", -int(o))
}

// Helper functions for working with Op interface

// IsRetain returns true if the op is a RetainOp.
func IsRetain(op Op) bool {
	return op.Type() == OpRetain
}

// IsInsert returns true if the op is an InsertOp.
func IsInsert(op Op) bool {
	return op.Type() == OpInsert
}

// IsDelete returns true if the op is a DeleteOp.
func IsDelete(op Op) bool {
	return op.Type() == OpDelete
}
