package movement

import (
	"github.com/nrframe/texcore/pkg/rope"
	"github.com/nrframe/texcore/pkg/selection"
)

// Position is a (row, col) visual coordinate: row is a logical line index,
// col is a visual column counted in display cells (tabs expand to the next
// tab stop; every other grapheme counts as one cell).
type Position struct {
	Row int
	Col int
}

// VisualCoordsAtPos converts a char position into the visual coordinate of
// the line containing it, expanding tabs to tabWidth-wide stops.
func VisualCoordsAtPos(text *rope.Rope, pos int, tabWidth int) Position {
	line, _ := text.CharToLine(pos)
	lineStart, _ := text.LineToChar(line)

	col := 0
	i := lineStart
	for i < pos {
		next := text.NextGraphemeBoundary(i)
		if next <= i {
			break
		}
		ch, err := text.CharAt(i)
		if err == nil && ch == '\t' && tabWidth > 0 {
			col += tabWidth - (col % tabWidth)
		} else {
			col++
		}
		i = next
	}
	return Position{Row: line, Col: col}
}

// PosAtVisualCoords converts a visual coordinate back to a char position,
// clamping the column to the line's actual width (landing on the line's
// trailing boundary when the requested column overruns it).
func PosAtVisualCoords(text *rope.Rope, p Position, tabWidth int) int {
	lineStart, _ := text.LineToChar(p.Row)
	lineEnd, err := text.LineEnd(p.Row)
	if err != nil {
		lineEnd = text.Length()
	}

	col := 0
	i := lineStart
	for i < lineEnd {
		if col >= p.Col {
			break
		}
		next := text.NextGraphemeBoundary(i)
		if next <= i {
			break
		}
		ch, err := text.CharAt(i)
		if err == nil && ch == '\t' && tabWidth > 0 {
			col += tabWidth - (col % tabWidth)
		} else {
			col++
		}
		i = next
	}
	return i
}

// MoveVertically moves the cursor count logical lines in dir, preserving
// (or adopting) the range's horizontal memory so a ragged sequence of
// moves tracks the original visual column rather than drifting to
// whatever a short intervening line happens to have.
func MoveVertically(text *rope.Rope, r selection.Range, dir Direction, count int, mode Mode, tabWidth int) selection.Range {
	pos := r.Cursor()
	coords := VisualCoordsAtPos(text, pos, tabWidth)

	horiz := coords.Col
	if r.Horiz != nil {
		horiz = *r.Horiz
	}

	lastLine := text.LineCount() - 1
	newRow := coords.Row
	switch dir {
	case Forward:
		newRow += count
		if newRow > lastLine {
			newRow = lastLine
		}
	case Backward:
		newRow -= count
		if newRow < 0 {
			newRow = 0
		}
	}

	newCol := coords.Col
	if horiz > newCol {
		newCol = horiz
	}
	newPos := PosAtVisualCoords(text, Position{Row: newRow, Col: newCol}, tabWidth)

	if mode == Extend {
		lineStart, _ := text.LineToChar(newRow)
		lineEnd, err := text.LineEnd(newRow)
		if err != nil {
			lineEnd = text.Length()
		}
		if lineEnd == lineStart {
			return r
		}
	}

	out := selection.PutCursor(text, r, newPos, mode == Extend)
	out = out.WithHoriz(horiz)
	return out
}
