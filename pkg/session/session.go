package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/nrframe/texcore/pkg/document"
	"github.com/nrframe/texcore/pkg/rope"
	"github.com/nrframe/texcore/pkg/selection"
)

// View is a document opened into one editing surface: its own live
// selection, jump-label overlay (the labels shown over candidate targets
// while a jump motion is pending), and object-selection stack (the
// history shrink-selection walks back through). A document may be open
// in several views at once, each with independent state here, while the
// rope, history and config scope they all share live on the Document
// itself.
type View struct {
	mu sync.RWMutex

	id  uuid.UUID
	doc *document.Document

	selection   *selection.Selection
	jumpLabels  map[rune]int
	objectStack []selection.Range
}

func newView(doc *document.Document) *View {
	return &View{
		id:        uuid.New(),
		doc:       doc,
		selection: selection.Single(0, 0),
	}
}

func (v *View) ID() uuid.UUID { return v.id }

func (v *View) Document() *document.Document { return v.doc }

func (v *View) Selection() *selection.Selection {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selection
}

func (v *View) SetSelection(s *selection.Selection) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selection = s
}

// JumpLabels returns the rune-keyed overlay a pending jump motion
// assigned to candidate targets. A nil map means no jump is pending.
func (v *View) JumpLabels() map[rune]int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.jumpLabels
}

func (v *View) SetJumpLabels(labels map[rune]int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.jumpLabels = labels
}

func (v *View) ClearJumpLabels() {
	v.SetJumpLabels(nil)
}

// PushObject records r on the object-selection stack, so a later
// shrink-selection can restore it.
func (v *View) PushObject(r selection.Range) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.objectStack = append(v.objectStack, r)
}

// PopObject removes and returns the most recently pushed object range.
func (v *View) PopObject() (selection.Range, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := len(v.objectStack)
	if n == 0 {
		return selection.Range{}, false
	}
	r := v.objectStack[n-1]
	v.objectStack = v.objectStack[:n-1]
	return r, true
}

func (v *View) ObjectStackDepth() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.objectStack)
}

// ClearObjectStack empties the object-selection stack, e.g. when a fresh
// selection replaces the one shrink-selection was operating over.
func (v *View) ClearObjectStack() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.objectStack = nil
}

// Remap re-maps the view's selection and object-selection stack across
// cs, the same changeset a Document.Apply/Undo/Redo just committed.
// Views left stale across an edit they didn't originate would otherwise
// point at the wrong characters.
func (v *View) Remap(cs *rope.ChangeSet, assoc rope.Assoc) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.selection = v.selection.Transform(func(r selection.Range) selection.Range {
		return r.Map(cs, assoc)
	})
	for i, r := range v.objectStack {
		v.objectStack[i] = r.Map(cs, assoc)
	}
}
