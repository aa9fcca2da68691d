// Package commands implements the `:`-command surface (spec section 6.1):
// a name/alias-keyed registry of commands, each with a cmdline.Signature
// describing its arguments, wired to pkg/document, pkg/config, pkg/session
// and pkg/shell.
package commands

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nrframe/texcore/pkg/cmdline"
	"github.com/nrframe/texcore/pkg/config"
	"github.com/nrframe/texcore/pkg/document"
	"github.com/nrframe/texcore/pkg/session"
	"github.com/nrframe/texcore/pkg/shell"
)

// ExecContext is everything a command handler needs to run: the view it
// was invoked from, the manager that owns it, the config store, and the
// shell to run %sh{} expansions and run-shell-command through.
type ExecContext struct {
	View    *session.View
	Manager *session.Manager
	Store   *config.ConfigStore
	Shell   shell.Shell
}

// HandlerFunc is a command's implementation. args has already been parsed
// and validated against the command's Signature.
type HandlerFunc func(ctx *ExecContext, args *cmdline.Args) error

// Command is one registered `:`-command.
type Command struct {
	Name      string
	Aliases   []string
	Signature cmdline.Signature
	Run       HandlerFunc
}

// Registry looks commands up by name or alias and parses their arguments
// according to each command's Signature.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
	aliases  map[string]*Command

	bufMu   sync.Mutex
	buffers map[config.DocumentID]*bufferState

	lastDocID uint64
}

type bufferState struct {
	path         string
	savedVersion uint64
	everSaved    bool
}

// NewRegistry builds a Registry with the representative command table of
// spec section 6.1 already registered.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
		buffers:  make(map[config.DocumentID]*bufferState),
	}
	registerBuiltins(r)
	return r
}

// Register adds cmd under its name and every alias, overwriting any
// previous registration with the same name.
func (r *Registry) Register(cmd *Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Lookup finds a command by its registered name or one of its aliases.
func (r *Registry) Lookup(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cmd, ok := r.commands[name]; ok {
		return cmd, true
	}
	cmd, ok := r.aliases[name]
	return cmd, ok
}

// Execute splits line into a command name and its argument tail, looks up
// the command, parses the tail against its Signature with expand applied
// to each token, and runs it. An unknown command name is a user-input
// error (spec section 7.1).
func (r *Registry) Execute(ctx *ExecContext, line string, expand cmdline.ExpandFunc) error {
	name, rest, _ := cmdline.Split(line)
	if name == "" {
		return nil
	}

	cmd, ok := r.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown command '%s'", name)
	}

	args, err := cmdline.ParseArgs(rest, cmd.Signature, true, expand)
	if err != nil {
		return err
	}
	return cmd.Run(ctx, args)
}

func (r *Registry) bufferState(id config.DocumentID) *bufferState {
	r.bufMu.Lock()
	defer r.bufMu.Unlock()
	st, ok := r.buffers[id]
	if !ok {
		st = &bufferState{}
		r.buffers[id] = st
	}
	return st
}

// IsDirty reports whether doc has edits since its last successful write
// (or was never written at all and has at least one edit applied).
func (r *Registry) IsDirty(doc *document.Document) bool {
	st := r.bufferState(doc.ID())
	if !st.everSaved {
		return doc.Version() != 0
	}
	return doc.Version() != st.savedVersion
}

func (r *Registry) markSaved(doc *document.Document, path string) {
	st := r.bufferState(doc.ID())
	st.path = path
	st.savedVersion = doc.Version()
	st.everSaved = true
}

func (r *Registry) forgetBuffer(id config.DocumentID) {
	r.bufMu.Lock()
	defer r.bufMu.Unlock()
	delete(r.buffers, id)
}

// nextDocID hands out document ids for buffers opened by the open command.
// Callers that create documents through other paths (tests, a host
// application wiring its own ids) never touch this counter.
func (r *Registry) nextDocID() config.DocumentID {
	return config.DocumentID(atomic.AddUint64(&r.lastDocID, 1))
}
