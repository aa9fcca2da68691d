// Package config implements the hierarchical configuration store: a
// global editor scope, per-language scopes inheriting from it, per-document
// scopes inheriting from their language, and a separate per-language-server
// hierarchy, per spec 4.5.
package config

// LayerID names a slot in the layer arena. The zero value is a valid id
// (the first layer allocated, which is the global layer); use NoLayer as
// the explicit "absent" sentinel.
type LayerID uint32

// NoLayer is the sentinel LayerID meaning "no layer", analogous to a null
// parent pointer.
const NoLayer LayerID = ^LayerID(0)

func (id LayerID) IsNone() bool { return id == NoLayer }

// ScopeID names a slot in the scope arena.
type ScopeID uint32

// NoScope is the sentinel ScopeID used as the root's parent.
const NoScope ScopeID = ^ScopeID(0)

func (id ScopeID) IsNone() bool { return id == NoScope }

// LanguageID names a slot in the language arena.
type LanguageID uint32

// NoLanguage is the sentinel LanguageID meaning "no language assigned".
const NoLanguage LanguageID = ^LanguageID(0)

func (id LanguageID) IsNone() bool { return id == NoLanguage }

// DocumentID identifies a document's config layer. Documents are looked up
// through a plain map rather than arena-allocated, since they come and go
// far more often than layers or scopes and don't need slot reuse.
type DocumentID uint64
