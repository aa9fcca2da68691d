package movement

import (
	"unicode"

	"github.com/nrframe/texcore/pkg/rope"
	"github.com/nrframe/texcore/pkg/selection"
)

// ObjectKind is the textobject operation requested: select the object's
// interior, select it plus its surrounding delimiters/whitespace, or jump
// to one of its edges without selecting.
type ObjectKind int

const (
	Inside ObjectKind = iota
	Around
	MoveStart
	MoveEnd
)

// pairs maps a textobject specifier rune to its (open, close) delimiter,
// per spec 4.3.7's pair-surround list.
var pairs = map[rune][2]rune{
	'(': {'(', ')'}, ')': {'(', ')'},
	'[': {'[', ']'}, ']': {'[', ']'},
	'{': {'{', '}'}, '}': {'{', '}'},
	'<': {'<', '>'}, '>': {'<', '>'},
	'\'': {'\'', '\''},
	'"':  {'"', '"'},
	'`':  {'`', '`'},
}

// HunkLookup resolves the after-hunk line range of the diff hunk
// covering line, used by the 'g' (change hunk) specifier. Kept as an
// injected function rather than a pkg/document import so this package
// doesn't need to know about diff handles.
type HunkLookup func(line int) (startLine, endLine int, ok bool)

// Textobject dispatches spec 4.3.7's textobject specifiers:
//   - "w" / "W": word / WORD around the cursor.
//   - "p": paragraph.
//   - a pair-surround rune ('(', '"', …) or 'm' for the closest match:
//     the bracket/quote pair enclosing the cursor.
//   - "g": the diff change hunk covering the cursor's line, via hunks.
//
// Tree-sitter-backed specifiers are handled separately through
// GotoTreesitterObject, since they need a TextobjectQuery collaborator
// this dispatch has no reason to require for the plain-text objects.
func Textobject(text *rope.Rope, r selection.Range, kind ObjectKind, specifier string, count int, hunks HunkLookup) selection.Range {
	if count < 1 {
		count = 1
	}
	switch specifier {
	case "w":
		return wordObject(text, r, kind, count, false)
	case "W":
		return wordObject(text, r, kind, count, true)
	case "p":
		return paragraphObject(text, r, kind, count)
	case "g":
		return hunkObject(text, r, kind, hunks)
	default:
		runes := []rune(specifier)
		if len(runes) == 1 {
			if _, ok := pairs[runes[0]]; ok || runes[0] == 'm' {
				return pairObject(text, r, kind, runes[0])
			}
		}
		return r
	}
}

func sameRun(a, b rune, long bool) bool {
	if long {
		return unicode.IsSpace(a) == unicode.IsSpace(b)
	}
	return CategorizeChar(a) == CategorizeChar(b)
}

func wordObject(text *rope.Rope, r selection.Range, kind ObjectKind, count int, long bool) selection.Range {
	length := text.Length()
	if length == 0 {
		return r
	}
	refPos := r.Cursor()
	if refPos >= length {
		refPos = length - 1
	}
	ch, err := text.CharAt(refPos)
	if err != nil {
		return r
	}

	start := refPos
	for start > 0 {
		prev, err := text.CharAt(start - 1)
		if err != nil || !sameRun(prev, ch, long) {
			break
		}
		start--
	}
	end := refPos + 1
	for end < length {
		next, err := text.CharAt(end)
		if err != nil || !sameRun(next, ch, long) {
			break
		}
		end++
	}

	for n := 1; n < count; n++ {
		if end >= length {
			break
		}
		next, err := text.CharAt(end)
		if err != nil {
			break
		}
		for end < length {
			c, err := text.CharAt(end)
			if err != nil || !sameRun(c, next, long) {
				break
			}
			end++
		}
	}

	switch kind {
	case MoveStart:
		return selection.Point(start)
	case MoveEnd:
		return selection.Point(end)
	case Around:
		if end < length {
			if c, err := text.CharAt(end); err == nil && unicode.IsSpace(c) {
				for end < length {
					c, err := text.CharAt(end)
					if err != nil || !unicode.IsSpace(c) {
						break
					}
					end++
				}
				return selection.NewRange(start, end)
			}
		}
		for start > 0 {
			c, err := text.CharAt(start - 1)
			if err != nil || !unicode.IsSpace(c) {
				break
			}
			start--
		}
		return selection.NewRange(start, end)
	default: // Inside
		return selection.NewRange(start, end)
	}
}

func paragraphObject(text *rope.Rope, r selection.Range, kind ObjectKind, count int) selection.Range {
	line, _ := text.CharToLine(r.Cursor())
	lastLine := text.LineCount() - 1

	startLine := line
	for startLine > 0 && !lineIsEmpty(text, startLine-1) {
		startLine--
	}
	endLine := line
	for n := 0; n < count; n++ {
		for endLine < lastLine && !lineIsEmpty(text, endLine) {
			endLine++
		}
		if n < count-1 && endLine < lastLine {
			endLine++
		}
	}

	start, _ := text.LineToChar(startLine)
	end, _ := text.LineToChar(endLine)
	if endLine == lastLine {
		end = text.Length()
	}

	if kind == Around {
		for endLine < lastLine && lineIsEmpty(text, endLine) {
			endLine++
			end, _ = text.LineToChar(endLine)
		}
	}

	switch kind {
	case MoveStart:
		return selection.Point(start)
	case MoveEnd:
		return selection.Point(end)
	default:
		return selection.NewRange(start, end)
	}
}

// pairObject finds the delimiter pair enclosing the cursor via plain-text
// nesting-aware scanning (no syntax tree available to this package).
// specifier 'm' matches whichever of the bracket kinds is closest on
// either side of the cursor.
func pairObject(text *rope.Rope, r selection.Range, kind ObjectKind, specifier rune) selection.Range {
	candidates := []rune{'(', '[', '{', '<', '\'', '"', '`'}
	if specifier != 'm' {
		candidates = []rune{specifier}
	}

	var bestOpen, bestClose int = -1, -1
	for _, c := range candidates {
		pair := pairs[c]
		open, close, ok := findEnclosingPair(text, r.Cursor(), pair[0], pair[1])
		if !ok {
			continue
		}
		if bestOpen == -1 || open > bestOpen {
			bestOpen, bestClose = open, close
		}
	}
	if bestOpen == -1 {
		return r
	}

	switch kind {
	case MoveStart:
		return selection.Point(bestOpen)
	case MoveEnd:
		return selection.Point(bestClose + 1)
	case Around:
		return selection.NewRange(bestOpen, bestClose+1)
	default: // Inside
		return selection.NewRange(bestOpen+1, bestClose)
	}
}

// findEnclosingPair scans backward from pos for an unmatched openCh,
// tracking nesting depth, then forward from there for its matching
// closeCh. Quote-style pairs (open==close) look for the nearest quote on
// each side instead of nesting; a backslash-escaped quote counts like any
// other.
func findEnclosingPair(text *rope.Rope, pos int, openCh, closeCh rune) (openPos, closePos int, ok bool) {
	if openCh == closeCh {
		return findEnclosingQuote(text, pos, openCh)
	}

	depth := 0
	found := -1
	for i := pos - 1; i >= 0; i-- {
		c, err := text.CharAt(i)
		if err != nil {
			break
		}
		switch c {
		case closeCh:
			depth++
		case openCh:
			if depth == 0 {
				found = i
			} else {
				depth--
			}
		}
		if found != -1 {
			break
		}
	}
	if found == -1 {
		return 0, 0, false
	}

	depth = 0
	for i := found + 1; i < text.Length(); i++ {
		c, err := text.CharAt(i)
		if err != nil {
			break
		}
		switch c {
		case openCh:
			depth++
		case closeCh:
			if depth == 0 {
				return found, i, true
			}
			depth--
		}
	}
	return 0, 0, false
}

func findEnclosingQuote(text *rope.Rope, pos int, quote rune) (openPos, closePos int, ok bool) {
	open := -1
	for i := pos - 1; i >= 0; i-- {
		c, err := text.CharAt(i)
		if err != nil {
			break
		}
		if c == quote {
			open = i
			break
		}
		if c == '\n' {
			break
		}
	}
	if open == -1 {
		return 0, 0, false
	}
	for i := open + 1; i < text.Length(); i++ {
		c, err := text.CharAt(i)
		if err != nil {
			break
		}
		if c == quote {
			return open, i, true
		}
		if c == '\n' {
			break
		}
	}
	return 0, 0, false
}

func hunkObject(text *rope.Rope, r selection.Range, kind ObjectKind, hunks HunkLookup) selection.Range {
	if hunks == nil {
		return r
	}
	line, _ := text.CharToLine(r.Cursor())
	startLine, endLine, ok := hunks(line)
	if !ok {
		return r
	}
	start, _ := text.LineToChar(startLine)
	var end int
	if endLine >= text.LineCount()-1 {
		end = text.Length()
	} else {
		end, _ = text.LineToChar(endLine + 1)
	}

	switch kind {
	case MoveStart:
		return selection.Point(start)
	case MoveEnd:
		return selection.Point(end)
	default:
		return selection.NewRange(start, end)
	}
}
