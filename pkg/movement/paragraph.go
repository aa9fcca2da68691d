package movement

import (
	"github.com/nrframe/texcore/pkg/rope"
	"github.com/nrframe/texcore/pkg/selection"
)

// lineIsEmpty reports whether line contains only its terminator.
func lineIsEmpty(text *rope.Rope, line int) bool {
	return text.Line(line) == ""
}

func clampLine(text *rope.Rope, line int) int {
	last := text.LineCount() - 1
	if line < 0 {
		return 0
	}
	if line > last {
		return last
	}
	return line
}

// MovePrevParagraph advances count empty-to-non-empty transitions
// backward (spec 4.3.3): a paragraph boundary is the transition from a
// non-empty line into an empty one, read in the direction of travel.
func MovePrevParagraph(text *rope.Rope, r selection.Range, count int, mode Mode) selection.Range {
	line, _ := text.CharToLine(r.Cursor())
	lineStart, _ := text.LineToChar(line)
	firstChar := lineStart == r.Cursor()

	prevLineEmpty := lineIsEmpty(text, clampLine(text, line-1))
	currLineEmpty := lineIsEmpty(text, line)
	prevEmptyToLine := prevLineEmpty && !currLineEmpty

	if prevEmptyToLine && !firstChar {
		line++
	}

	for n := 0; n < count; n++ {
		for line > 0 && lineIsEmpty(text, line-1) {
			line--
		}
		for line > 0 && !lineIsEmpty(text, line-1) {
			line--
		}
	}

	head, _ := text.LineToChar(line)

	var anchor int
	if mode == Move {
		if prevEmptyToLine && firstChar {
			anchor = r.Cursor()
		} else {
			anchor = r.Head
		}
	} else {
		anchor = selection.PutCursor(text, r, head, true).Anchor
	}
	return selection.NewRange(anchor, head)
}

// MoveNextParagraph is the forward counterpart of MovePrevParagraph.
func MoveNextParagraph(text *rope.Rope, r selection.Range, count int, mode Mode) selection.Range {
	line, _ := text.CharToLine(r.Cursor())
	nextLineStart, _ := text.LineToChar(clampLine(text, line+1))
	lastChar := text.PrevGraphemeBoundary(nextLineStart) == r.Cursor()

	currLineEmpty := lineIsEmpty(text, line)
	nextLineEmpty := lineIsEmpty(text, clampLine(text, line+1))
	currEmptyToLine := currLineEmpty && !nextLineEmpty

	if currEmptyToLine && lastChar {
		line++
	}

	lastLine := text.LineCount() - 1
	for n := 0; n < count; n++ {
		for line < lastLine && !lineIsEmpty(text, line) {
			line++
		}
		for line < lastLine && lineIsEmpty(text, line) {
			line++
		}
	}

	head, _ := text.LineToChar(line)

	var anchor int
	if mode == Move {
		if currEmptyToLine && lastChar {
			anchor = r.Head
		} else {
			anchor = r.Cursor()
		}
	} else {
		anchor = selection.PutCursor(text, r, head, true).Anchor
	}
	return selection.NewRange(anchor, head)
}
