// Package cmdline tokenizes and parses the text typed at the `:` prompt:
// quoting, percent-expansions, and positional/flag argument signatures.
package cmdline

import (
	"fmt"
	"strings"
)

// TokenKind classifies how a token's content should be expanded when the
// command line is executed.
type TokenKind int

const (
	Unquoted TokenKind = iota
	QuotedSingle
	QuotedBacktick
	Expand
	ExpansionVariable
	ExpansionUnicode
	ExpansionShell
	expansionKindUnknown // completion-only: content is the bare "%name" typed so far
)

// ExpansionKind is the subset of TokenKind values that denote a percent
// expansion, named separately for ExpansionKindFromString/AsString.
type ExpansionKind int

const (
	KindVariable ExpansionKind = iota
	KindUnicode
	KindShell
)

func (k ExpansionKind) AsString() string {
	switch k {
	case KindUnicode:
		return "u"
	case KindShell:
		return "sh"
	default:
		return ""
	}
}

func ExpansionKindFromString(name string) (ExpansionKind, bool) {
	switch name {
	case "":
		return KindVariable, true
	case "u":
		return KindUnicode, true
	case "sh":
		return KindShell, true
	default:
		return 0, false
	}
}

// Token is one lexical unit of a command line.
type Token struct {
	Kind TokenKind
	// ContentStart is the byte offset into the input just after the
	// token's opening delimiter (or the token's start, for Unquoted).
	ContentStart int
	Content      string
	IsTerminated bool
}

// ParseArgsError is the error type raised while tokenizing or classifying
// a command line, carrying enough context for a status-line message.
type ParseArgsError struct {
	Kind string

	Min, Max int
	HasMax   bool
	Actual   int

	Token Token

	FlagName string
	Text     string

	Expansion string
}

func (e *ParseArgsError) Error() string {
	switch e.Kind {
	case "WrongPositionalCount":
		plural := func(n int) string {
			if n == 1 {
				return ""
			}
			return "s"
		}
		var want string
		switch {
		case e.Min == 0 && e.HasMax && e.Max == 0:
			want = "no arguments"
		case e.HasMax && e.Min == e.Max:
			want = fmt.Sprintf("exactly %d argument%s", e.Min, plural(e.Min))
		case e.Actual < e.Min:
			want = fmt.Sprintf("at least %d argument%s", e.Min, plural(e.Min))
		case e.HasMax && e.Actual > e.Max:
			want = fmt.Sprintf("at most %d argument%s", e.Max, plural(e.Max))
		default:
			want = "a different number of arguments"
		}
		return fmt.Sprintf("expected %s, got %d", want, e.Actual)
	case "UnterminatedToken":
		return fmt.Sprintf("unterminated token %s", e.Token.Content)
	case "DuplicatedFlag":
		return fmt.Sprintf("flag '--%s' specified more than once", e.FlagName)
	case "UnknownFlag":
		return fmt.Sprintf("unknown flag '%s'", e.Text)
	case "FlagMissingArgument":
		return fmt.Sprintf("flag '--%s' missing an argument", e.FlagName)
	case "MissingExpansionDelimiter":
		if e.Expansion == "" {
			return "'%' was not properly escaped. Please use '%%'"
		}
		return fmt.Sprintf("missing a string delimiter after '%%%s'", e.Expansion)
	case "UnknownExpansion":
		return fmt.Sprintf("unknown expansion '%s'", e.Expansion)
	default:
		return e.Kind
	}
}

// Tokenizer walks a command line byte-by-byte, producing Tokens according
// to the quoting/expansion grammar in spec 4.4.1. validate controls
// whether unterminated tokens and unknown expansion kinds become errors
// (command execution) or partial tokens (completion).
type Tokenizer struct {
	input    string
	validate bool
	pos      int
}

func NewTokenizer(input string, validate bool) *Tokenizer {
	return &Tokenizer{input: input, validate: validate}
}

func (t *Tokenizer) Pos() int { return t.pos }

// Rest consumes the remainder of the input (after skipping leading blanks)
// as a single unexpanded Expand token, with no quoting rules applied.
// Returns false if the tokenizer was already at the end of the input.
func (t *Tokenizer) Rest() (Token, bool) {
	t.skipBlanks()
	if t.pos == len(t.input) {
		return Token{}, false
	}
	contentStart := t.pos
	t.pos = len(t.input)
	return Token{
		Kind:         Expand,
		ContentStart: contentStart,
		Content:      t.input[contentStart:],
		IsTerminated: false,
	}, true
}

func (t *Tokenizer) byteAt(i int) (byte, bool) {
	if i < 0 || i >= len(t.input) {
		return 0, false
	}
	return t.input[i], true
}

func (t *Tokenizer) current() (byte, bool)  { return t.byteAt(t.pos) }
func (t *Tokenizer) peek() (byte, bool)     { return t.byteAt(t.pos + 1) }
func (t *Tokenizer) prevByte() (byte, bool) { return t.byteAt(t.pos - 1) }

func (t *Tokenizer) skipBlanks() {
	for {
		b, ok := t.current()
		if !ok || (b != ' ' && b != '\t') {
			return
		}
		t.pos++
	}
}

// parseUnquoted consumes a run of non-blank bytes, honoring a trailing
// backslash as an escape for the next space/tab. A lone trailing backslash
// at end-of-input is dropped from the content to aid completion.
func (t *Tokenizer) parseUnquoted() string {
	var escaped strings.Builder
	start := t.pos

	for {
		b, ok := t.current()
		if !ok {
			break
		}
		if b == ' ' || b == '\t' {
			if prev, hasPrev := t.prevByte(); hasPrev && prev == '\\' {
				escaped.WriteString(t.input[start : t.pos-1])
				escaped.WriteByte(b)
				start = t.pos + 1
			} else if escaped.Len() == 0 {
				return t.input[start:t.pos]
			} else {
				break
			}
		}
		t.pos++
	}

	end := t.pos
	if prev, hasPrev := t.prevByte(); hasPrev && prev == '\\' {
		end = t.pos - 1
	}

	if escaped.Len() == 0 {
		return t.input[start:end]
	}
	escaped.WriteString(t.input[start:end])
	return escaped.String()
}

// parseQuoted parses a string delimited by quote on both sides, assuming
// the cursor sits immediately after the opening quote. A doubled quote
// escapes a literal quote inside the string.
func (t *Tokenizer) parseQuoted(quote byte) (string, bool) {
	t.pos++ // past the opening quote, asserted present by the caller

	var escaped strings.Builder
	for {
		idx := strings.IndexByte(t.input[t.pos:], quote)
		if idx < 0 {
			break
		}
		idx += t.pos
		if next, ok := t.byteAt(idx + 1); ok && next == quote {
			escaped.WriteString(t.input[t.pos : idx+1])
			t.pos = idx + 2
			continue
		}
		var quoted string
		if escaped.Len() == 0 {
			quoted = t.input[t.pos:idx]
		} else {
			escaped.WriteString(t.input[t.pos:idx])
			quoted = escaped.String()
		}
		t.pos = idx + 1
		return quoted, true
	}

	var quoted string
	if escaped.Len() == 0 {
		quoted = t.input[t.pos:]
	} else {
		escaped.WriteString(t.input[t.pos:])
		quoted = escaped.String()
	}
	t.pos = len(t.input)
	return quoted, false
}

// parseQuotedBalanced parses a string between distinct open/close
// delimiters, tracking nesting depth so e.g. %sh{echo {x}} consumes to the
// outer closing brace.
func (t *Tokenizer) parseQuotedBalanced(open, close byte) (string, bool) {
	t.pos++ // past the opening delimiter
	start := t.pos
	level := 1

loop:
	for {
		rel := strings.IndexAny(t.input[t.pos:], string([]byte{open, close}))
		if rel < 0 {
			break
		}
		idx := t.pos + rel
		t.pos = idx + 1
		switch t.input[idx] {
		case open:
			level++
		case close:
			level--
			if level == 0 {
				break loop
			}
		}
	}
	isTerminated := level == 0
	var end int
	if isTerminated {
		end = t.pos - 1
	} else {
		t.pos = len(t.input)
		end = t.pos
	}
	return t.input[start:end], isTerminated
}

// ParsePercentToken parses the expansion under the cursor, which must sit
// on an unescaped '%'.
func (t *Tokenizer) ParsePercentToken() (Token, error, bool) {
	t.pos++ // past '%'
	kindStart := t.pos
	for {
		b, ok := t.current()
		if !ok || b < 'a' || b > 'z' {
			break
		}
		t.pos++
	}
	kindName := t.input[kindStart:t.pos]

	b, ok := t.current()
	var open, close byte
	switch {
	case ok && b == '(':
		open, close = '(', ')'
	case ok && b == '[':
		open, close = '[', ']'
	case ok && b == '{':
		open, close = '{', '}'
	case ok && b == '<':
		open, close = '<', '>'
	case ok && b == '\'':
		open, close = '\'', '\''
	case ok && b == '"':
		open, close = '"', '"'
	case ok && b == '|':
		open, close = '|', '|'
	default:
		if t.validate {
			return Token{}, &ParseArgsError{Kind: "MissingExpansionDelimiter", Expansion: kindName}, true
		}
		return Token{
			Kind:         expansionKindUnknown,
			ContentStart: kindStart,
			Content:      kindName,
			IsTerminated: false,
		}, nil, true
	}

	contentStart := t.pos + 1
	kind, known := ExpansionKindFromString(kindName)
	var tokenKind TokenKind
	switch {
	case known && kind == KindVariable:
		tokenKind = ExpansionVariable
	case known && kind == KindUnicode:
		tokenKind = ExpansionUnicode
	case known && kind == KindShell:
		tokenKind = ExpansionShell
	case t.validate:
		return Token{}, &ParseArgsError{Kind: "UnknownExpansion", Expansion: kindName}, true
	default:
		tokenKind = Expand
	}

	var content string
	var isTerminated bool
	if open == close {
		content, isTerminated = t.parseQuoted(open)
	} else {
		content, isTerminated = t.parseQuotedBalanced(open, close)
	}

	token := Token{
		Kind:         tokenKind,
		ContentStart: contentStart,
		Content:      content,
		IsTerminated: isTerminated,
	}

	if t.validate && !isTerminated {
		return Token{}, &ParseArgsError{Kind: "UnterminatedToken", Token: token}, true
	}
	return token, nil, true
}

// Next returns the next token from the input, or ok=false when the input
// is exhausted.
func (t *Tokenizer) Next() (Token, error, bool) {
	t.skipBlanks()
	b, ok := t.current()
	if !ok {
		return Token{}, nil, false
	}

	switch b {
	case '"', '\'', '`':
		contentStart := t.pos + 1
		content, isTerminated := t.parseQuoted(b)
		var kind TokenKind
		switch b {
		case '"':
			kind = Expand
		case '\'':
			kind = QuotedSingle
		case '`':
			kind = QuotedBacktick
		}
		token := Token{Kind: kind, ContentStart: contentStart, Content: content, IsTerminated: isTerminated}
		if t.validate && !isTerminated {
			return Token{}, &ParseArgsError{Kind: "UnterminatedToken", Token: token}, true
		}
		return token, nil, true
	case '%':
		return t.ParsePercentToken()
	default:
		contentStart := t.pos
		if b == '\\' {
			if next, ok := t.peek(); ok && (next == '"' || next == '\'' || next == '`' || next == '%') {
				t.pos++
			}
		}
		content := t.parseUnquoted()
		return Token{Kind: Unquoted, ContentStart: contentStart, Content: content, IsTerminated: false}, nil, true
	}
}
