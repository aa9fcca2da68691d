package movement

import (
	"github.com/nrframe/texcore/pkg/rope"
	"github.com/nrframe/texcore/pkg/selection"
)

// Direction is the direction of travel for a motion.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Mode distinguishes a plain cursor move from one that extends the
// selection.
type Mode int

const (
	Move Mode = iota
	Extend
)

// MoveHorizontally walks count grapheme boundaries from the range's cursor
// and returns the range produced by putting the cursor at the result,
// saturating at the document's start/end rather than erroring.
func MoveHorizontally(text *rope.Rope, r selection.Range, dir Direction, count int, mode Mode) selection.Range {
	pos := r.Cursor()

	newPos := pos
	switch dir {
	case Forward:
		for i := 0; i < count; i++ {
			newPos = text.NextGraphemeBoundary(newPos)
		}
	case Backward:
		for i := 0; i < count; i++ {
			newPos = text.PrevGraphemeBoundary(newPos)
		}
	}

	return selection.PutCursor(text, r, newPos, mode == Extend)
}
