package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/nrframe/texcore/pkg/invariant"
)

// Layer holds the config values set at one point in a scope chain. Each
// layer has its own lock so that writing one document's config never
// blocks a reader resolving another document's, or the global scope's.
type Layer struct {
	mu     sync.RWMutex
	values map[string]any
}

func newLayer() *Layer {
	return &Layer{values: make(map[string]any)}
}

func (l *Layer) get(key string) (any, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.values[key]
	return v, ok
}

func (l *Layer) set(key string, value any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values[key] = value
}

func (l *Layer) clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values = make(map[string]any)
}

// scopeNode links a layer to the scope it inherits unset options from.
// parent is NoScope at the root of a hierarchy.
type scopeNode struct {
	layer  LayerID
	parent ScopeID
}

type languageEntry struct {
	name  string
	scope ScopeID
}

// ConfigStore is the process-wide configuration store described in spec
// 4.5: one global scope, per-language scopes inheriting from it, per-
// document scopes inheriting from their language, and a separate per-
// language-server hierarchy that does not inherit from the editor scope.
//
// Each arena and lookup table carries its own RWMutex rather than one lock
// guarding the whole store, so resolving one document's indent width never
// blocks a concurrent lookup against another document or language. The
// language and language-server locks stay held while a new layer and scope
// are allocated under the layer and scope arena locks; the layer, scope and
// document locks are never held while taking another lock. Locks are thus
// always taken in the same order, so there is no cycle to deadlock on.
type ConfigStore struct {
	layersMu sync.RWMutex
	layers   *slotArena[*Layer]

	scopesMu sync.RWMutex
	scopes   *slotArena[scopeNode]

	globalLayer LayerID
	globalScope ScopeID

	languagesMu    sync.RWMutex
	languages      *slotArena[languageEntry]
	languageByName map[string]LanguageID

	languageServersMu sync.RWMutex
	languageServers   map[string]ScopeID

	documentsMu sync.RWMutex
	documents   map[DocumentID]ScopeID
}

// New creates a ConfigStore with a single, empty global scope.
func New() *ConfigStore {
	layers := newSlotArena[*Layer]()
	scopes := newSlotArena[scopeNode]()

	globalLayer := LayerID(layers.insert(newLayer()))
	globalScope := ScopeID(scopes.insert(scopeNode{layer: globalLayer, parent: NoScope}))

	return &ConfigStore{
		layers:          layers,
		scopes:          scopes,
		globalLayer:     globalLayer,
		globalScope:     globalScope,
		languages:       newSlotArena[languageEntry](),
		languageByName:  make(map[string]LanguageID),
		languageServers: make(map[string]ScopeID),
		documents:       make(map[DocumentID]ScopeID),
	}
}

// GlobalScope returns the root scope of the editor config hierarchy.
func (s *ConfigStore) GlobalScope() ScopeID { return s.globalScope }

func (s *ConfigStore) createLayer() LayerID {
	s.layersMu.Lock()
	defer s.layersMu.Unlock()
	return LayerID(s.layers.insert(newLayer()))
}

func (s *ConfigStore) createScope(layer LayerID, parent ScopeID) ScopeID {
	s.scopesMu.Lock()
	defer s.scopesMu.Unlock()
	return ScopeID(s.scopes.insert(scopeNode{layer: layer, parent: parent}))
}

func (s *ConfigStore) layerByID(id LayerID) (*Layer, bool) {
	s.layersMu.RLock()
	defer s.layersMu.RUnlock()
	return s.layers.get(uint32(id))
}

func (s *ConfigStore) scopeByID(id ScopeID) (scopeNode, bool) {
	s.scopesMu.RLock()
	defer s.scopesMu.RUnlock()
	return s.scopes.get(uint32(id))
}

// GetOrCreateLanguage returns the LanguageID for name, creating a language
// scope inheriting from the global scope if one doesn't exist yet. Uses a
// read-then-double-checked-write pattern so the common case (language
// already registered) only ever takes a read lock.
func (s *ConfigStore) GetOrCreateLanguage(name string) LanguageID {
	s.languagesMu.RLock()
	if id, ok := s.languageByName[name]; ok {
		s.languagesMu.RUnlock()
		return id
	}
	s.languagesMu.RUnlock()

	s.languagesMu.Lock()
	defer s.languagesMu.Unlock()
	if id, ok := s.languageByName[name]; ok {
		return id
	}

	layer := s.createLayer()
	scope := s.createScope(layer, s.globalScope)
	id := LanguageID(s.languages.insert(languageEntry{name: name, scope: scope}))
	s.languageByName[name] = id
	return id
}

// LanguageID looks up a previously registered language by name.
func (s *ConfigStore) LanguageID(name string) (LanguageID, bool) {
	s.languagesMu.RLock()
	defer s.languagesMu.RUnlock()
	id, ok := s.languageByName[name]
	return id, ok
}

// LanguageName returns the name a LanguageID was registered under.
func (s *ConfigStore) LanguageName(id LanguageID) (string, bool) {
	s.languagesMu.RLock()
	defer s.languagesMu.RUnlock()
	entry, ok := s.languages.get(uint32(id))
	if !ok {
		return "", false
	}
	return entry.name, true
}

// LanguageScope returns the scope for a language, or NoScope if id is
// unknown.
func (s *ConfigStore) LanguageScope(id LanguageID) ScopeID {
	s.languagesMu.RLock()
	defer s.languagesMu.RUnlock()
	entry, ok := s.languages.get(uint32(id))
	if !ok {
		return NoScope
	}
	return entry.scope
}

// LanguageNames returns every registered language name, in no particular
// order.
func (s *ConfigStore) LanguageNames() []string {
	s.languagesMu.RLock()
	defer s.languagesMu.RUnlock()
	names := make([]string, 0, len(s.languageByName))
	for name := range s.languageByName {
		names = append(names, name)
	}
	return names
}

// GetOrCreateLanguageServer returns the scope for a language server by
// name, creating one with no parent (language server configs don't inherit
// from the editor scope) if it doesn't exist yet.
func (s *ConfigStore) GetOrCreateLanguageServer(name string) ScopeID {
	s.languageServersMu.RLock()
	if scope, ok := s.languageServers[name]; ok {
		s.languageServersMu.RUnlock()
		return scope
	}
	s.languageServersMu.RUnlock()

	s.languageServersMu.Lock()
	defer s.languageServersMu.Unlock()
	if scope, ok := s.languageServers[name]; ok {
		return scope
	}

	layer := s.createLayer()
	scope := s.createScope(layer, NoScope)
	s.languageServers[name] = scope
	return scope
}

// LanguageServerScope looks up a previously registered language server's
// scope by name.
func (s *ConfigStore) LanguageServerScope(name string) (ScopeID, bool) {
	s.languageServersMu.RLock()
	defer s.languageServersMu.RUnlock()
	scope, ok := s.languageServers[name]
	return scope, ok
}

// LanguageServerNames returns every registered language server name.
func (s *ConfigStore) LanguageServerNames() []string {
	s.languageServersMu.RLock()
	defer s.languageServersMu.RUnlock()
	names := make([]string, 0, len(s.languageServers))
	for name := range s.languageServers {
		names = append(names, name)
	}
	return names
}

// CreateDocumentConfig creates a document scope inheriting from language's
// scope (creating the language, if new) and records it under id, replacing
// any existing config for that document. This is the three-level hierarchy
// of spec 4.5: global -> language -> document.
func (s *ConfigStore) CreateDocumentConfig(id DocumentID, language string) ScopeID {
	langID := s.GetOrCreateLanguage(language)
	parent := s.LanguageScope(langID)

	layer := s.createLayer()
	scope := s.createScope(layer, parent)

	s.documentsMu.Lock()
	s.documents[id] = scope
	s.documentsMu.Unlock()
	return scope
}

// DocumentScope returns the scope previously created for id, if any.
func (s *ConfigStore) DocumentScope(id DocumentID) (ScopeID, bool) {
	s.documentsMu.RLock()
	defer s.documentsMu.RUnlock()
	scope, ok := s.documents[id]
	return scope, ok
}

// RemoveDocument drops a document's config scope and frees its layer. Safe
// to call on an id with no config; returns false in that case.
func (s *ConfigStore) RemoveDocument(id DocumentID) bool {
	s.documentsMu.Lock()
	scope, ok := s.documents[id]
	delete(s.documents, id)
	s.documentsMu.Unlock()
	if !ok {
		return false
	}

	node, ok := s.scopeByID(scope)
	if ok {
		s.layersMu.Lock()
		s.layers.remove(uint32(node.layer))
		s.layersMu.Unlock()
	}
	return true
}

// UpdateDocumentLanguage replaces a document's config with a fresh scope
// under newLanguage, called when e.g. `:set-language` changes a buffer's
// language mid-session.
func (s *ConfigStore) UpdateDocumentLanguage(id DocumentID, newLanguage string) ScopeID {
	s.RemoveDocument(id)
	return s.CreateDocumentConfig(id, newLanguage)
}

// Get walks scope's parent chain, returning the first value found for
// option. ok is false if no layer in the chain has set it.
func (s *ConfigStore) Get(scope ScopeID, option string) (any, bool) {
	current := scope
	visited := make(map[ScopeID]bool)
	for !current.IsNone() {
		if visited[current] {
			// A scope's parent should never loop back on an ancestor; the
			// tree is only ever grown by createScope, which fixes a
			// scope's parent at creation time and never reparents it. If
			// this fires, walking the chain has found a cycle anyway.
			invariant.Check("ConfigStore.Get", fmt.Sprintf("scope %v parent chain cycles back on itself", scope))
			return nil, false
		}
		visited[current] = true

		node, ok := s.scopeByID(current)
		if !ok {
			return nil, false
		}
		if layer, ok := s.layerByID(node.layer); ok {
			if v, ok := layer.get(option); ok {
				return v, true
			}
		}
		current = node.parent
	}
	return nil, false
}

// Set stores value for option directly on scope's own layer, shadowing
// (without altering) whatever its ancestors provide.
func (s *ConfigStore) Set(scope ScopeID, option string, value any) error {
	node, ok := s.scopeByID(scope)
	if !ok {
		return fmt.Errorf("config: unknown scope")
	}
	layer, ok := s.layerByID(node.layer)
	if !ok {
		return fmt.Errorf("config: scope has no layer")
	}
	layer.set(option, value)
	return nil
}

// ClearEditorConfig empties the global layer. An option with no
// document/language override then reads as unset: the store keeps no
// per-option default to fall back to. Calling it before reloading
// config.toml keeps options removed from the file from lingering from a
// previous load.
func (s *ConfigStore) ClearEditorConfig() {
	if layer, ok := s.layerByID(s.globalLayer); ok {
		layer.clear()
	}
}

// Resolve looks up a scope by the name patterns commands like :set use:
// "" or "editor" for the global scope, "language:NAME", "lsp:NAME", or
// "document:ID". It never creates anything; see ResolveOrCreate for that.
func (s *ConfigStore) Resolve(name string) (ScopeID, bool) {
	switch {
	case name == "" || name == "editor":
		return s.globalScope, true
	case strings.HasPrefix(name, "language:"):
		id, ok := s.LanguageID(strings.TrimPrefix(name, "language:"))
		if !ok {
			return NoScope, false
		}
		return s.LanguageScope(id), true
	case strings.HasPrefix(name, "lsp:"):
		return s.LanguageServerScope(strings.TrimPrefix(name, "lsp:"))
	case strings.HasPrefix(name, "document:"):
		idStr := strings.TrimPrefix(name, "document:")
		n, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			return NoScope, false
		}
		return s.DocumentScope(DocumentID(n))
	default:
		return NoScope, false
	}
}

// ResolveOrCreate is Resolve, but creates a language or language-server
// scope that doesn't exist yet rather than failing. Document scopes still
// can't be conjured without a language name, so an unknown document id
// still fails.
func (s *ConfigStore) ResolveOrCreate(name string) (ScopeID, bool) {
	switch {
	case name == "" || name == "editor":
		return s.globalScope, true
	case strings.HasPrefix(name, "language:"):
		id := s.GetOrCreateLanguage(strings.TrimPrefix(name, "language:"))
		return s.LanguageScope(id), true
	case strings.HasPrefix(name, "lsp:"):
		return s.GetOrCreateLanguageServer(strings.TrimPrefix(name, "lsp:")), true
	case strings.HasPrefix(name, "document:"):
		idStr := strings.TrimPrefix(name, "document:")
		n, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			return NoScope, false
		}
		return s.DocumentScope(DocumentID(n))
	default:
		return NoScope, false
	}
}
