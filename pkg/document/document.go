// Package document ties a rope, its undo/redo history, and its
// configuration scope together into the unit a view is opened onto.
package document

import (
	"fmt"
	"sync"

	"github.com/nrframe/texcore/pkg/concordia"
	"github.com/nrframe/texcore/pkg/config"
	"github.com/nrframe/texcore/pkg/rope"
)

// IndentKind distinguishes hard-tab buffers from soft-tab ones.
type IndentKind int

const (
	IndentTabs IndentKind = iota
	IndentSpaces
)

// IndentStyle is a document's indentation convention: hard tabs, or a
// soft-tab width between 1 and 8 columns.
type IndentStyle struct {
	Kind  IndentKind
	Width int // meaningful only when Kind == IndentSpaces, 1..=8
}

// Diagnostic is a single diagnostic message anchored to a char range.
type Diagnostic struct {
	Start, End int
	Severity   string
	Message    string
}

// Document owns a rope's current state along with the metadata that
// doesn't belong to any one view: line ending, indent style, tab width,
// language id, diagnostics, and the undo/redo history tree. A document's
// live selection, jump-label overlay, and object-selection stack are
// per-view state held by pkg/session.View instead, since a document may
// be open in several views at once, each with an independent selection.
type Document struct {
	mu sync.RWMutex

	id       config.DocumentID
	language string
	scope    config.ScopeID
	store    *config.ConfigStore

	text       *rope.Rope
	lineEnding rope.LineEnding
	indent     IndentStyle
	tabWidth   int
	version    uint64

	history *concordia.History

	diagnostics []Diagnostic
	baseline    *rope.Rope // see diff.go
}

// New creates a document over text, registering its configuration scope
// with store under language (store.CreateDocumentConfig gives it a
// per-document layer inheriting from language's, which in turn inherits
// from the global editor scope).
func New(store *config.ConfigStore, id config.DocumentID, language, text string) *Document {
	r := rope.New(text)
	scope := store.CreateDocumentConfig(id, language)
	doc := &Document{
		id:         id,
		language:   language,
		scope:      scope,
		store:      store,
		text:       r,
		lineEnding: rope.DominantLineEnding(text),
		indent:     IndentStyle{Kind: IndentSpaces, Width: 4},
		tabWidth:   4,
		history:    concordia.NewHistory(),
		baseline:   r,
	}
	logger.Debugf("document %d opened: language=%s chars=%d", id, language, r.Length())
	return doc
}

func (d *Document) ID() config.DocumentID { return d.id }

func (d *Document) Language() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.language
}

// SetLanguage updates the document's language and re-parents its
// configuration scope onto the new language's scope.
func (d *Document) SetLanguage(language string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.language = language
	d.scope = d.store.UpdateDocumentLanguage(d.id, language)
}

func (d *Document) ConfigScope() config.ScopeID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.scope
}

// Get resolves a configuration option against the document's scope,
// falling back through its language scope and the global editor scope.
func (d *Document) Get(option string) (any, bool) {
	d.mu.RLock()
	scope := d.scope
	d.mu.RUnlock()
	return d.store.Get(scope, option)
}

// Text returns the document's current rope. The rope is immutable and
// cheap to clone, so callers may hold onto the returned value across
// further edits without it changing underneath them.
func (d *Document) Text() *rope.Rope {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

// Version is the document's edit counter, bumped by Apply, Undo and
// Redo. A pkg/task.Job's callback is only delivered when this still
// matches the version the job was submitted against.
func (d *Document) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

func (d *Document) LineEnding() rope.LineEnding {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lineEnding
}

func (d *Document) SetLineEnding(le rope.LineEnding) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lineEnding = le
}

func (d *Document) IndentStyle() IndentStyle {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.indent
}

func (d *Document) SetIndentStyle(style IndentStyle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.indent = style
}

func (d *Document) TabWidth() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tabWidth
}

func (d *Document) SetTabWidth(width int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tabWidth = width
}

func (d *Document) Diagnostics() []Diagnostic {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Diagnostic, len(d.diagnostics))
	copy(out, d.diagnostics)
	return out
}

func (d *Document) SetDiagnostics(diags []Diagnostic) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.diagnostics = diags
}

// Apply commits cs to the document, replacing its rope with the result
// and recording the edit in the undo tree.
func (d *Document) Apply(cs *rope.ChangeSet) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if cs.LenBefore() != d.text.Length() {
		return fmt.Errorf("changeset length %d does not match document length %d", cs.LenBefore(), d.text.Length())
	}
	if isNoopChangeset(cs) {
		return nil
	}

	original := d.text
	d.text = cs.Apply(d.text)
	d.version++
	d.history.CommitRevision(changesetToOperation(cs), original)
	logger.Debugf("document %d: applied changeset, version=%d", d.id, d.version)
	return nil
}

// Undo reverts the most recent revision and returns the changeset that
// performed the reversion, so a view's live selection can be remapped
// across it via selection.Range.Map the same way it's remapped across a
// forward edit.
func (d *Document) Undo() (*rope.ChangeSet, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.history.CanUndo() {
		return nil, false
	}
	lenBefore := d.text.Length()
	inverse := d.history.Undo()
	if inverse == nil {
		return nil, false
	}
	cs := operationToChangeSet(inverse, lenBefore)
	d.text = cs.Apply(d.text)
	d.version++
	logger.Debugf("document %d: undo, version=%d", d.id, d.version)
	return cs, true
}

// Redo re-applies the revision most recently undone.
func (d *Document) Redo() (*rope.ChangeSet, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.history.CanRedo() {
		return nil, false
	}
	lenBefore := d.text.Length()
	op := d.history.Redo()
	if op == nil {
		return nil, false
	}
	cs := operationToChangeSet(op, lenBefore)
	d.text = cs.Apply(d.text)
	d.version++
	logger.Debugf("document %d: redo, version=%d", d.id, d.version)
	return cs, true
}

func (d *Document) CanUndo() bool {
	return d.history.CanUndo()
}

func (d *Document) CanRedo() bool {
	return d.history.CanRedo()
}

// JumpBack undoes up to steps revisions in a single call, one revision
// at a time, stopping early at the root; ok is false only if no revision
// was undone at all. The returned changeset is the one that undid the
// last revision; the changesets of the earlier steps are not composed
// into it.
func (d *Document) JumpBack(steps int) (*rope.ChangeSet, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.history.CanUndo() {
		return nil, false
	}
	var cs *rope.ChangeSet
	for i := 0; i < steps && d.history.CanUndo(); i++ {
		inverse := d.history.Undo()
		if inverse == nil {
			break
		}
		cs = operationToChangeSet(inverse, d.text.Length())
		d.text = cs.Apply(d.text)
	}
	if cs == nil {
		return nil, false
	}
	d.version++
	logger.Debugf("document %d: jump back %d, version=%d", d.id, steps, d.version)
	return cs, true
}

// JumpForward redoes up to steps revisions in a single call. See JumpBack;
// the returned changeset is likewise the one that redid the last revision.
func (d *Document) JumpForward(steps int) (*rope.ChangeSet, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.history.CanRedo() {
		return nil, false
	}
	var cs *rope.ChangeSet
	for i := 0; i < steps && d.history.CanRedo(); i++ {
		op := d.history.Redo()
		if op == nil {
			break
		}
		cs = operationToChangeSet(op, d.text.Length())
		d.text = cs.Apply(d.text)
	}
	if cs == nil {
		return nil, false
	}
	d.version++
	logger.Debugf("document %d: jump forward %d, version=%d", d.id, steps, d.version)
	return cs, true
}
