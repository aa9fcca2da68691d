// Package selection implements the selection algebra: oriented ranges over
// a rope's char indices, grouped into a non-empty ordered Selection with a
// distinguished primary range.
//
// Positions use gap indexing: position i sits between character i-1 and
// character i. A Range is inclusive on the left and exclusive on the right
// regardless of which of anchor/head is larger.
package selection

import (
	"github.com/nrframe/texcore/pkg/rope"
)

// Direction is the orientation of a Range: Forward when head >= anchor,
// Backward otherwise.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Range is a single selection range: an anchor (the side that doesn't move
// when extending) and a head (the side that does), plus an optional cached
// visual column ("horizontal memory") used to keep vertical motion stable
// across lines of different length.
type Range struct {
	Anchor int
	Head   int
	Horiz  *int
}

// NewRange builds a Range from an explicit anchor/head pair.
func NewRange(anchor, head int) Range {
	return Range{Anchor: anchor, Head: head}
}

// Point builds a zero-width Range (a cursor) at pos.
func Point(pos int) Range {
	return Range{Anchor: pos, Head: pos}
}

// From returns min(anchor, head).
func (r Range) From() int {
	if r.Anchor < r.Head {
		return r.Anchor
	}
	return r.Head
}

// To returns max(anchor, head).
func (r Range) To() int {
	if r.Anchor > r.Head {
		return r.Anchor
	}
	return r.Head
}

// Len returns To() - From().
func (r Range) Len() int {
	return r.To() - r.From()
}

// IsCursor reports whether the range is zero-width.
func (r Range) IsCursor() bool {
	return r.Anchor == r.Head
}

// Contains reports whether pos falls within [From(), To()).
func (r Range) Contains(pos int) bool {
	return pos >= r.From() && pos < r.To()
}

// Direction reports Forward when head >= anchor, Backward otherwise.
func (r Range) Direction() Direction {
	if r.Head < r.Anchor {
		return Backward
	}
	return Forward
}

// IsForward reports whether anchor <= head.
func (r Range) IsForward() bool {
	return r.Direction() == Forward
}

// IsBackward reports whether anchor > head.
func (r Range) IsBackward() bool {
	return r.Direction() == Backward
}

// Cursor returns the logical cursor char index for this range: head,
// regardless of direction. Use BlockCursor for the visually-rendered
// grapheme a block cursor occupies.
func (r Range) Cursor() int {
	return r.Head
}

// BlockCursor returns the grapheme a block cursor renders over. For a
// non-empty forward range this is the grapheme starting one boundary
// before head (the range is exclusive on the right, so head itself sits
// past the last selected grapheme); for a backward or empty range it is
// the grapheme starting at head.
func BlockCursor(text *rope.Rope, r Range) int {
	if r.IsCursor() || r.IsBackward() {
		return r.Head
	}
	return text.PrevGraphemeBoundary(r.Head)
}

// ClearHoriz returns a copy of r with the cached visual column cleared.
func (r Range) ClearHoriz() Range {
	r.Horiz = nil
	return r
}

// WithHoriz returns a copy of r with the cached visual column set.
func (r Range) WithHoriz(col int) Range {
	r.Horiz = &col
	return r
}

// WithDirection returns a copy of r whose anchor/head order matches the
// requested direction, preserving From()/To().
func (r Range) WithDirection(dir Direction) Range {
	if (dir == Forward) == r.IsForward() {
		return r
	}
	return Range{Anchor: r.Head, Head: r.Anchor, Horiz: r.Horiz}
}

// PutCursor derives a new range at pos. When extend is true the anchor is
// kept and only the head moves (growing or shrinking the selection);
// otherwise the result is a fresh point range at pos. pos is snapped to
// the nearest grapheme boundary in the direction of travel from the
// range's current head. The cached horiz is always cleared; callers that
// want to preserve it (vertical motion) must re-set it explicitly.
func PutCursor(text *rope.Rope, r Range, pos int, extend bool) Range {
	snapped := pos
	if !text.IsGraphemeBoundary(pos) {
		if pos >= r.Head {
			snapped = text.NextGraphemeBoundary(pos)
		} else {
			snapped = text.PrevGraphemeBoundary(pos)
		}
	}
	if extend {
		return Range{Anchor: r.Anchor, Head: snapped}
	}
	return Point(snapped)
}

// Slice returns (From(), To()).
func (r Range) Slice() (int, int) {
	return r.From(), r.To()
}

// Text returns the rope slice this range covers.
func (r Range) Text(doc *rope.Rope) (string, error) {
	return doc.Slice(r.From(), r.To())
}

// Map carries this range across an edit described by cs, snapping the
// anchor to stick with the text before it (AssocBefore) and the head
// according to assoc (AssocBefore keeps the head pinned to text before an
// insertion at the boundary; AssocAfter grows to include it — callers
// doing an insert-and-extend pass AssocAfter for the head).
func (r Range) Map(cs *rope.ChangeSet, assoc rope.Assoc) Range {
	anchorMapper := rope.NewPositionMapper(cs)
	anchorMapper.AddPosition(r.Anchor, rope.AssocBefore)
	anchorMapped := anchorMapper.Map()

	headMapper := rope.NewPositionMapper(cs)
	headMapper.AddPosition(r.Head, assoc)
	headMapped := headMapper.Map()

	out := Range{Anchor: anchorMapped[0], Head: headMapped[0]}
	if r.Horiz != nil {
		out.Horiz = r.Horiz
	}
	return out
}

// Merge returns the smallest range covering both r and other, keeping r's
// direction.
func (r Range) Merge(other Range) Range {
	from, to := r.From(), r.To()
	if other.From() < from {
		from = other.From()
	}
	if other.To() > to {
		to = other.To()
	}
	if r.IsBackward() {
		return Range{Anchor: to, Head: from}
	}
	return Range{Anchor: from, Head: to}
}

// Overlaps reports whether r and other share any char position.
func (r Range) Overlaps(other Range) bool {
	return r.From() < other.To() && r.To() > other.From()
}

// touches reports whether r and other share only a boundary point, with
// at least one of them empty — the one case normalize() is allowed to
// merge beyond strict overlap.
func (r Range) touches(other Range) bool {
	return (r.To() == other.From() || other.To() == r.From()) && (r.IsCursor() || other.IsCursor())
}

// ContainsRange reports whether r fully contains other.
func (r Range) ContainsRange(other Range) bool {
	return r.From() <= other.From() && r.To() >= other.To()
}
