package movement

import (
	"github.com/nrframe/texcore/pkg/rope"
	"github.com/nrframe/texcore/pkg/selection"
)

// FindChar searches from r's cursor for the count-th occurrence of target
// in dir and returns the range landing on (inclusive) or just short of
// (exclusive, a "till") that occurrence. The caller is responsible for
// mapping the awaited key to target — Enter becomes a line-ending rune,
// Tab becomes '\t', per spec 4.3.4. ok is false if there's no such
// occurrence, in which case r is returned unchanged.
func FindChar(text *rope.Rope, r selection.Range, target rune, dir Direction, inclusive bool, count int, mode Mode) (selection.Range, bool) {
	pos := r.Cursor()
	effective := count

	if !inclusive {
		var peek int
		if dir == Forward {
			peek = pos
		} else {
			peek = pos - 1
		}
		if peek >= 0 && peek < text.Length() {
			if ch, err := text.CharAt(peek); err == nil && ch == target {
				effective = count + 1
			}
		}
	}

	found := -1
	seen := 0
	if dir == Forward {
		for i := pos; i < text.Length(); i++ {
			ch, err := text.CharAt(i)
			if err != nil {
				break
			}
			if ch == target {
				seen++
				if seen == effective {
					found = i
					break
				}
			}
		}
	} else {
		for i := pos - 1; i >= 0; i-- {
			ch, err := text.CharAt(i)
			if err != nil {
				break
			}
			if ch == target {
				seen++
				if seen == effective {
					found = i
					break
				}
			}
		}
	}

	if found == -1 {
		return r, false
	}

	var landPos int
	switch {
	case dir == Forward && inclusive:
		landPos = found
	case dir == Forward:
		// "till": land one grapheme short of the match.
		landPos = text.PrevGraphemeBoundary(found)
	case inclusive:
		landPos = found
	default:
		landPos = text.NextGraphemeBoundary(found)
	}

	return selection.PutCursor(text, r, landPos, mode == Extend), true
}
