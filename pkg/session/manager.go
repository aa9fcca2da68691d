package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/nrframe/texcore/pkg/config"
	"github.com/nrframe/texcore/pkg/document"
)

// ErrViewNotFound is returned when a view id doesn't name an open view.
var ErrViewNotFound = errors.New("view not found")

// Manager is the per-view registry: it opens and closes Views over
// Documents and keeps track of which views belong to which document, so
// an edit committed through one view can find and remap the others. It
// also runs a PubSub so a view lifecycle or a committed edit can be
// observed by anything subscribed to that document's channel (e.g. a
// second window open on the same document, refreshing after the first
// window edits it).
type Manager struct {
	mu     sync.RWMutex
	views  map[uuid.UUID]*View
	byDoc  map[config.DocumentID][]uuid.UUID
	pubsub *PubSub
}

// NewManager creates an empty view registry.
func NewManager() *Manager {
	return &Manager{
		views:  make(map[uuid.UUID]*View),
		byDoc:  make(map[config.DocumentID][]uuid.UUID),
		pubsub: NewPubSub(),
	}
}

func channelForDoc(id config.DocumentID) string {
	return fmt.Sprintf("doc:%d", id)
}

// Subscribe subscribes to view-lifecycle and document-change events for
// doc. See PubSub.Subscribe.
func (m *Manager) Subscribe(doc *document.Document, subscriber string, filter func(*PubSubEvent) bool) (*Subscription, error) {
	return m.pubsub.Subscribe(channelForDoc(doc.ID()), subscriber, filter)
}

// NotifyDocumentChanged publishes an EventTypeDocumentChanged event for
// doc, so every other open view on it knows to remap its selection (see
// View.Remap) and redraw.
func (m *Manager) NotifyDocumentChanged(doc *document.Document) {
	m.pubsub.Publish(channelForDoc(doc.ID()), &PubSubEvent{Type: EventTypeDocumentChanged})
}

// OpenView opens a new view onto doc with a fresh point selection at 0.
func (m *Manager) OpenView(doc *document.Document) *View {
	v := newView(doc)

	m.mu.Lock()
	m.views[v.id] = v
	m.byDoc[doc.ID()] = append(m.byDoc[doc.ID()], v.id)
	m.mu.Unlock()

	logger.Debugf("view %s opened on document %d", v.id, doc.ID())
	m.pubsub.Publish(channelForDoc(doc.ID()), &PubSubEvent{Type: EventTypeViewOpened, Data: v.id})
	return v
}

// CloseView closes the view with the given id, returning false if it
// wasn't open.
func (m *Manager) CloseView(id uuid.UUID) bool {
	m.mu.Lock()
	v, ok := m.views[id]
	if !ok {
		m.mu.Unlock()
		return false
	}
	delete(m.views, id)

	docID := v.doc.ID()
	siblings := m.byDoc[docID]
	for i, sibling := range siblings {
		if sibling == id {
			m.byDoc[docID] = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	if len(m.byDoc[docID]) == 0 {
		delete(m.byDoc, docID)
	}
	m.mu.Unlock()

	logger.Debugf("view %s closed", id)
	m.pubsub.Publish(channelForDoc(docID), &PubSubEvent{Type: EventTypeViewClosed, Data: id})
	return true
}

// View retrieves an open view by id.
func (m *Manager) View(id uuid.UUID) (*View, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.views[id]
	return v, ok
}

// ViewsForDocument returns every open view onto doc, e.g. so an edit
// made through one can be remapped across the others.
func (m *Manager) ViewsForDocument(doc *document.Document) []*View {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byDoc[doc.ID()]
	views := make([]*View, 0, len(ids))
	for _, id := range ids {
		if v, ok := m.views[id]; ok {
			views = append(views, v)
		}
	}
	return views
}

// ListViews returns the ids of every currently open view.
func (m *Manager) ListViews() []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(m.views))
	for id := range m.views {
		ids = append(ids, id)
	}
	return ids
}
