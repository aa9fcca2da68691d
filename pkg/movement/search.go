package movement

import (
	"github.com/dlclark/regexp2"
	"github.com/nrframe/texcore/pkg/rope"
	"github.com/nrframe/texcore/pkg/selection"
)

// SearchStatus reports the outcome of a search for display in the status
// line, per spec 4.3.5.
type SearchStatus int

const (
	SearchFound SearchStatus = iota
	SearchWrapped
	SearchNoMatch
)

// SearchImpl runs a search register's regex against text starting just
// past (forward) or just before (backward) the primary range's far/near
// edge, wrapping around the document when wrapAround is set and nothing
// was found in the initial direction. On a match it returns the updated
// selection: in Extend mode the match is pushed as a new range, in Move
// mode it replaces the primary.
func SearchImpl(text *rope.Rope, sel *selection.Selection, re *regexp2.Regexp, dir Direction, mode Mode, wrapAround bool) (*selection.Selection, SearchStatus) {
	primary := sel.Primary()

	var startChar int
	if dir == Forward {
		startChar = text.NextGraphemeBoundary(primary.To())
	} else {
		startChar = text.PrevGraphemeBoundary(primary.From())
	}
	startByte := text.CharToByte(startChar)

	content := text.String()

	match, wrapped := findMatch(re, content, startByte, dir, wrapAround)
	if match == nil {
		return sel, SearchNoMatch
	}

	fromByte, toByte := match.Index, match.Index+match.Length
	if fromByte == 0 && toByte == 0 {
		return sel, SearchNoMatch
	}

	fromChar := text.ByteToChar(fromByte)
	toChar := text.ByteToChar(toByte)

	var newRange selection.Range
	if primary.IsBackward() {
		newRange = selection.NewRange(toChar, fromChar)
	} else {
		newRange = selection.NewRange(fromChar, toChar)
	}

	var result *selection.Selection
	if mode == Extend {
		ranges := append(append([]selection.Range(nil), sel.Iter()...), newRange)
		result = selection.NewSelectionWithPrimary(ranges, len(ranges)-1)
	} else {
		ranges := append([]selection.Range(nil), sel.Iter()...)
		ranges[sel.PrimaryIndex()] = newRange
		result = selection.NewSelectionWithPrimary(ranges, sel.PrimaryIndex())
	}

	if wrapped {
		return result, SearchWrapped
	}
	return result, SearchFound
}

// findMatch locates the match nearest startByte in dir, wrapping to the
// other end of content when requested and nothing was found in range.
func findMatch(re *regexp2.Regexp, content string, startByte int, dir Direction, wrapAround bool) (m *regexp2.Match, wrapped bool) {
	matches := allMatches(re, content)
	if len(matches) == 0 {
		return nil, false
	}

	if dir == Forward {
		for _, cand := range matches {
			if cand.Index >= startByte {
				return cand, false
			}
		}
		if wrapAround {
			return matches[0], true
		}
		return nil, false
	}

	for i := len(matches) - 1; i >= 0; i-- {
		if matches[i].Index+matches[i].Length <= startByte {
			return matches[i], false
		}
	}
	if wrapAround {
		return matches[len(matches)-1], true
	}
	return nil, false
}

func allMatches(re *regexp2.Regexp, content string) []*regexp2.Match {
	var out []*regexp2.Match
	m, err := re.FindStringMatch(content)
	for err == nil && m != nil {
		out = append(out, m)
		m, err = re.FindNextMatch(m)
	}
	return out
}
