package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nrframe/texcore/pkg/cmdline"
)

// Expand is an ExecContext's cmdline.ExpandFunc: it resolves percent-token
// expansions per spec section 6.3. Quoted/unquoted tokens pass through
// unchanged; %{var}, %u{HEX} and %sh{cmd} tokens (and the same sequences
// found inside a double-quoted or raw-rest token, which the tokenizer
// leaves as an Expand-kind token for the caller to scan) are resolved
// against the view, config and shell.
func (ctx *ExecContext) Expand(tok cmdline.Token) (string, error) {
	switch tok.Kind {
	case cmdline.ExpansionVariable:
		return ctx.resolveVariable(tok.Content)
	case cmdline.ExpansionUnicode:
		return expandUnicode(tok.Content)
	case cmdline.ExpansionShell:
		return ctx.Shell.Run(context.Background(), tok.Content, nil)
	case cmdline.Expand:
		return expandPercentContent(tok.Content, ctx.resolveExpansion)
	default:
		return tok.Content, nil
	}
}

func (ctx *ExecContext) resolveExpansion(kind, name string) (string, error) {
	switch kind {
	case "":
		return ctx.resolveVariable(name)
	case "u":
		return expandUnicode(name)
	case "sh":
		return ctx.Shell.Run(context.Background(), name, nil)
	default:
		return "", fmt.Errorf("unknown expansion '%s'", kind)
	}
}

// resolveVariable implements the %{var} family named in spec section 6.3:
// the cursor's 1-based line and column ("line", "col") and the primary
// selection's text ("selection"). The name "filename" is recognized but
// always returns an error; the buffer's path is not resolved.
func (ctx *ExecContext) resolveVariable(name string) (string, error) {
	doc := ctx.View.Document()
	text := doc.Text()
	sel := ctx.View.Selection().Primary()

	switch name {
	case "line":
		line, err := text.CharToLine(sel.Cursor())
		if err != nil {
			return "", fmt.Errorf("%%{line}: %w", err)
		}
		return strconv.Itoa(line + 1), nil
	case "col":
		line, err := text.CharToLine(sel.Cursor())
		if err != nil {
			return "", fmt.Errorf("%%{col}: %w", err)
		}
		lineStart, err := text.LineToChar(line)
		if err != nil {
			return "", fmt.Errorf("%%{col}: %w", err)
		}
		return strconv.Itoa(sel.Cursor() - lineStart + 1), nil
	case "filename":
		return "", fmt.Errorf("unknown expansion variable 'filename'")
	case "selection":
		s, err := sel.Text(text)
		if err != nil {
			return "", fmt.Errorf("%%{selection}: %w", err)
		}
		return s, nil
	default:
		return "", fmt.Errorf("unknown expansion variable '%s'", name)
	}
}

// expandUnicode decodes %u{HEX} into its codepoint's literal text.
func expandUnicode(hex string) (string, error) {
	cp, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return "", fmt.Errorf("invalid unicode codepoint '%s'", hex)
	}
	return string(rune(cp)), nil
}

// expandPercentContent scans s (the content of a double-quoted token or a
// raw command-line remainder) for %{...}/%u{...}/%sh{...} sequences and a
// literal %% escape, calling resolve for each one found. Anything else
// passes through unchanged.
func expandPercentContent(s string, resolve func(kind, name string) (string, error)) (string, error) {
	var out []byte
	i := 0
	for i < len(s) {
		c := s[i]
		if c != '%' {
			out = append(out, c)
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == '%' {
			out = append(out, '%')
			i += 2
			continue
		}

		j := i + 1
		for j < len(s) && s[j] >= 'a' && s[j] <= 'z' {
			j++
		}
		kindName := s[i+1 : j]

		if j >= len(s) {
			return "", fmt.Errorf("'%%' was not properly escaped. Please use '%%%%'")
		}
		open := s[j]
		var closeByte byte
		switch open {
		case '{':
			closeByte = '}'
		case '(':
			closeByte = ')'
		case '[':
			closeByte = ']'
		case '<':
			closeByte = '>'
		case '\'', '"', '|':
			closeByte = open
		default:
			return "", fmt.Errorf("missing a string delimiter after '%%%s'", kindName)
		}

		k := j + 1
		for k < len(s) && s[k] != closeByte {
			k++
		}
		if k >= len(s) {
			return "", fmt.Errorf("unterminated token %%%s%c%s", kindName, open, s[j+1:])
		}

		expanded, err := resolve(kindName, s[j+1:k])
		if err != nil {
			return "", err
		}
		out = append(out, expanded...)
		i = k + 1
	}
	return string(out), nil
}
