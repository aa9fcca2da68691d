package concordia

import (
	"sync"

	"github.com/nrframe/texcore/pkg/ot"
	"github.com/nrframe/texcore/pkg/rope"
)

// Revision is a single commit in the undo/redo history tree.
type Revision struct {
	parent    int           // index of the parent revision, -1 for root
	lastChild int           // index of the most recently committed child, -1 if none
	operation *ot.Operation // forward op, applied on redo
	inversion *ot.Operation // its inverse, applied on undo
}

// History is a tree of document revisions, not a linear stack: undoing
// then making a new edit doesn't discard the branch that was undone, it
// just stops being the lastChild walked by Redo.
type History struct {
	mu        sync.RWMutex
	revisions []*Revision
	current   int // index of the current revision, -1 at root
	maxSize   int // 0 means unlimited
}

// NewHistory creates an empty history sitting at the root revision.
func NewHistory() *History {
	return &History{
		revisions: make([]*Revision, 0, 128),
		current:   -1,
		maxSize:   1000,
	}
}

// SetMaxSize bounds how many revisions are kept, pruning the oldest ones
// past the limit.
func (h *History) SetMaxSize(size int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.maxSize = size
	h.prune()
}

func (h *History) MaxSize() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.maxSize
}

// CommitRevision records operation, applied against original, as a new
// child of the current revision. A nil or no-op operation is not worth a
// revision and is silently skipped.
func (h *History) CommitRevision(operation *ot.Operation, original *rope.Rope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if operation == nil || operation.IsNoop() {
		return
	}

	revision := &Revision{
		parent:    h.current,
		lastChild: -1,
		operation: operation,
		inversion: operation.Invert(original.String()),
	}

	h.revisions = append(h.revisions, revision)
	newIndex := len(h.revisions) - 1

	if h.current >= 0 && h.current < len(h.revisions)-1 {
		h.revisions[h.current].lastChild = newIndex
	}

	h.current = newIndex
	h.prune()
}

// CanUndo reports whether there is a parent revision to undo to.
func (h *History) CanUndo() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current >= 0
}

// CanRedo reports whether the current revision has a child to redo to.
func (h *History) CanRedo() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.current == -1 {
		return len(h.revisions) > 0
	}
	if h.current >= len(h.revisions) {
		return false
	}
	return h.revisions[h.current].lastChild >= 0
}

// Undo moves to the current revision's parent and returns the inverse
// operation to apply. Returns nil at the root.
func (h *History) Undo() *ot.Operation {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current < 0 {
		return nil
	}

	current := h.revisions[h.current]
	h.current = current.parent
	return current.inversion
}

// Redo moves to the current revision's last committed child and returns
// the operation to apply. Returns nil at the tip.
func (h *History) Redo() *ot.Operation {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current == -1 {
		if len(h.revisions) == 0 {
			return nil
		}
		h.current = 0
		return h.revisions[0].operation
	}

	if h.current >= len(h.revisions) {
		return nil
	}
	current := h.revisions[h.current]
	if current.lastChild < 0 {
		return nil
	}

	h.current = current.lastChild
	return h.revisions[h.current].operation
}

// Earlier undoes up to steps revisions in one call, returning the last
// inverse operation applied, or nil if already at the root.
func (h *History) Earlier(steps int) *ot.Operation {
	if steps <= 0 {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var result *ot.Operation
	for i := 0; i < steps && h.current >= 0; i++ {
		current := h.revisions[h.current]
		h.current = current.parent
		result = current.inversion
	}
	return result
}

// Later redoes up to steps revisions in one call, returning the last
// operation applied, or nil if already at the tip.
func (h *History) Later(steps int) *ot.Operation {
	if steps <= 0 {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var result *ot.Operation
	for i := 0; i < steps; i++ {
		if h.current == -1 {
			if len(h.revisions) == 0 {
				return result
			}
			h.current = 0
			result = h.revisions[0].operation
			continue
		}
		if h.current >= len(h.revisions) {
			return result
		}
		current := h.revisions[h.current]
		if current.lastChild < 0 {
			return result
		}
		h.current = current.lastChild
		result = h.revisions[h.current].operation
	}
	return result
}

// CurrentIndex is the index of the current revision, -1 at the root.
func (h *History) CurrentIndex() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// RevisionCount is the total number of revisions ever committed
// (including ones off the current undo/redo path).
func (h *History) RevisionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.revisions)
}

// AtRoot reports whether the current revision is the root.
func (h *History) AtRoot() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current < 0
}

// AtTip reports whether the current revision has no committed child.
func (h *History) AtTip() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.current == -1 {
		return len(h.revisions) == 0
	}
	if h.current >= len(h.revisions) {
		return true
	}
	return h.revisions[h.current].lastChild < 0
}

// Clear discards all revisions, returning to an empty root history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.revisions = make([]*Revision, 0, 128)
	h.current = -1
}

// prune drops the oldest revisions once the tree exceeds maxSize,
// reindexing parent/lastChild pointers to match. It keeps only the
// revisions at and after the new root, so a branch that forked off an
// otherwise-pruned ancestor is lost along with it.
func (h *History) prune() {
	if h.maxSize <= 0 || len(h.revisions) <= h.maxSize {
		return
	}

	excess := len(h.revisions) - h.maxSize
	newRoot := excess
	if newRoot >= len(h.revisions) {
		newRoot = len(h.revisions) - 1
	}

	h.revisions = h.revisions[newRoot:]
	for _, rev := range h.revisions {
		if rev.parent >= 0 {
			rev.parent -= newRoot
		}
		if rev.lastChild >= 0 {
			rev.lastChild -= newRoot
		}
	}

	h.current -= newRoot
	if h.current < -1 {
		h.current = -1
	}
}
