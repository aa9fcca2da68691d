package cmdline

import "strings"

// Flag is a Unix-style flag a command may accept, optionally with a short
// alias and, if Completions is non-nil, an argument of its own.
type Flag struct {
	Name        string
	Alias       rune // 0 when the flag has no short alias
	Doc         string
	Completions []string // non-nil iff the flag takes an argument
}

func (f Flag) takesArgument() bool { return f.Completions != nil }

// Signature describes how a command's input is parsed: how many
// positionals it accepts, which flags it recognizes, and an optional
// cutoff after which the rest of the line is taken as one raw positional
// (used by commands like :toggle-option that do their own parsing of
// everything past the first argument).
type Signature struct {
	MinPositionals int
	MaxPositionals int // ignored when HasMaxPositionals is false
	HasMaxPositionals bool

	RawAfter    int
	HasRawAfter bool

	Flags []Flag
}

func (s Signature) checkPositionalCount(actual int) error {
	if actual < s.MinPositionals {
		return &ParseArgsError{Kind: "WrongPositionalCount", Min: s.MinPositionals, Max: s.MaxPositionals, HasMax: s.HasMaxPositionals, Actual: actual}
	}
	if s.HasMaxPositionals && actual > s.MaxPositionals {
		return &ParseArgsError{Kind: "WrongPositionalCount", Min: s.MinPositionals, Max: s.MaxPositionals, HasMax: s.HasMaxPositionals, Actual: actual}
	}
	return nil
}

func (s Signature) findFlagByLonghand(name string) (Flag, bool) {
	for _, f := range s.Flags {
		if f.Name == name {
			return f, true
		}
	}
	return Flag{}, false
}

func (s Signature) findFlagByAlias(alias string) (Flag, bool) {
	r := []rune(alias)
	if len(r) != 1 {
		return Flag{}, false
	}
	for _, f := range s.Flags {
		if f.Alias != 0 && f.Alias == r[0] {
			return f, true
		}
	}
	return Flag{}, false
}

// CompletionStateKind distinguishes what kind of thing the prompt should
// offer completions for, based on the last argument pushed.
type CompletionStateKind int

const (
	CompletePositional CompletionStateKind = iota
	CompleteFlag
	CompleteFlagArgument
)

// CompletionState reports the argument kind expected next, for the
// command-line prompt's completion menu.
type CompletionState struct {
	Kind CompletionStateKind
	Flag Flag // valid when Kind != CompletePositional
}

// Args is the parsed result of a command line: a signature-validated split
// into positional arguments and flags.
type Args struct {
	signature Signature
	validate  bool

	onlyPositionals bool
	state           CompletionState

	positionals []string
	flags       map[string]string
}

func NewArgs(signature Signature, validate bool) *Args {
	return &Args{
		signature: signature,
		validate:  validate,
		flags:     make(map[string]string),
	}
}

// RawArgs builds an Args directly from a slice of positionals, bypassing
// tokenization entirely (used when a caller already has split arguments).
func RawArgs(positionals []string) *Args {
	return &Args{positionals: positionals, flags: make(map[string]string)}
}

// ExpandFunc maps a raw Token to its expanded argument text (variable,
// unicode, or shell expansion per the token's kind).
type ExpandFunc func(Token) (string, error)

// ReadToken pulls the next token from parser, switching to Tokenizer.Rest
// once the signature's RawAfter positional count has been reached.
func (a *Args) ReadToken(parser *Tokenizer) (Token, error, bool) {
	if a.signature.HasRawAfter && a.Len() >= a.signature.RawAfter {
		a.onlyPositionals = true
		tok, ok := parser.Rest()
		return tok, nil, ok
	}
	return parser.Next()
}

// ParseArgs tokenizes line according to signature, expanding each token
// with expand and classifying it as a flag or positional via Push, then
// runs the closing validations.
func ParseArgs(line string, signature Signature, validate bool, expand ExpandFunc) (*Args, error) {
	tokenizer := NewTokenizer(line, validate)
	args := NewArgs(signature, validate)

	for {
		token, err, ok := args.ReadToken(tokenizer)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		arg, err := expand(token)
		if err != nil {
			return nil, err
		}
		if err := args.Push(arg); err != nil {
			return nil, err
		}
	}

	if err := args.finish(); err != nil {
		return nil, err
	}
	return args, nil
}

// Push classifies one already-expanded argument: the flags terminator
// "--", a pending flag's argument, a flag (long or short form), or a
// plain positional.
func (a *Args) Push(arg string) error {
	switch {
	case !a.onlyPositionals && arg == "--":
		a.onlyPositionals = true
		a.state = CompletionState{Kind: CompleteFlag}
		return nil

	case a.flagAwaitingArgument() != nil:
		flag := *a.flagAwaitingArgument()
		a.flags[flag.Name] = arg
		a.state = CompletionState{Kind: CompleteFlagArgument, Flag: flag}
		return nil

	case !a.onlyPositionals && strings.HasPrefix(arg, "-"):
		var flag Flag
		var found bool
		if longhand, ok := strings.CutPrefix(arg, "--"); ok {
			flag, found = a.signature.findFlagByLonghand(longhand)
		} else {
			shorthand, _ := strings.CutPrefix(arg, "-")
			flag, found = a.signature.findFlagByAlias(shorthand)
		}

		if !found {
			if a.validate {
				return &ParseArgsError{Kind: "UnknownFlag", Text: arg}
			}
			a.positionals = append(a.positionals, arg)
			a.state = CompletionState{Kind: CompleteFlag}
			return nil
		}

		if a.validate {
			if _, dup := a.flags[flag.Name]; dup {
				return &ParseArgsError{Kind: "DuplicatedFlag", FlagName: flag.Name}
			}
		}

		a.flags[flag.Name] = ""
		a.state = CompletionState{Kind: CompleteFlag, Flag: flag}
		return nil

	default:
		a.positionals = append(a.positionals, arg)
		a.state = CompletionState{Kind: CompletePositional}
		return nil
	}
}

func (a *Args) finish() error {
	if !a.validate {
		return nil
	}
	if flag := a.flagAwaitingArgument(); flag != nil {
		return &ParseArgsError{Kind: "FlagMissingArgument", FlagName: flag.Name}
	}
	return a.signature.checkPositionalCount(len(a.positionals))
}

func (a *Args) flagAwaitingArgument() *Flag {
	if a.state.Kind != CompleteFlag {
		return nil
	}
	if a.state.Flag.Name == "" || !a.state.Flag.takesArgument() {
		return nil
	}
	return &a.state.Flag
}

func (a *Args) CompletionState() CompletionState { return a.state }

// Len returns the number of positional arguments (flags are not counted).
func (a *Args) Len() int { return len(a.positionals) }

func (a *Args) IsEmpty() bool { return len(a.positionals) == 0 }

func (a *Args) First() (string, bool) {
	if len(a.positionals) == 0 {
		return "", false
	}
	return a.positionals[0], true
}

func (a *Args) Get(index int) (string, bool) {
	if index < 0 || index >= len(a.positionals) {
		return "", false
	}
	return a.positionals[index], true
}

func (a *Args) Join(sep string) string { return strings.Join(a.positionals, sep) }

func (a *Args) Positionals() []string { return a.positionals }

// GetFlag returns the value of a flag that takes an argument, if present.
func (a *Args) GetFlag(name string) (string, bool) {
	v, ok := a.flags[name]
	return v, ok
}

// HasFlag reports whether a boolean flag was provided.
func (a *Args) HasFlag(name string) bool {
	_, ok := a.flags[name]
	return ok
}
