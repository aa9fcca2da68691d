package rope

import (
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/graphemes"
)

// Grapheme represents a user-perceived character (extended grapheme
// cluster per Unicode UAX #29): a single ASCII character, a single
// precomposed code point, or several code points (base + combining marks,
// emoji ZWJ sequences, …).
type Grapheme struct {
	Text     string
	StartPos int // char position in the rope where this grapheme starts
	byteLen  int
	CharLen  int
}

// GraphemeIterator iterates over the grapheme clusters of a rope.
type GraphemeIterator struct {
	rope      *Rope
	graphemes []Grapheme
	index     int
	exhausted bool
}

// Graphemes returns a forward iterator over the rope's grapheme clusters.
func (r *Rope) Graphemes() *GraphemeIterator {
	if r == nil || r.Length() == 0 {
		return &GraphemeIterator{rope: r, exhausted: true}
	}

	content := r.String()
	segs := make([]Grapheme, 0, r.Length())
	charPos := 0
	iter := graphemes.FromString(content)
	for iter.Next() {
		seg := iter.Value()
		charLen := utf8.RuneCountInString(seg)
		segs = append(segs, Grapheme{
			Text:     seg,
			StartPos: charPos,
			byteLen:  len(seg),
			CharLen:  charLen,
		})
		charPos += charLen
	}

	return &GraphemeIterator{
		rope:      r,
		graphemes: segs,
		index:     -1,
		exhausted: len(segs) == 0,
	}
}

// Next advances to the next grapheme cluster, returning false once exhausted.
func (it *GraphemeIterator) Next() bool {
	if it.exhausted {
		return false
	}
	it.index++
	if it.index >= len(it.graphemes) {
		it.exhausted = true
		return false
	}
	return true
}

// Current returns the grapheme the iterator currently sits on.
func (it *GraphemeIterator) Current() Grapheme {
	if it.exhausted || it.index < 0 || it.index >= len(it.graphemes) {
		return Grapheme{}
	}
	return it.graphemes[it.index]
}

// Position returns the char position of the current grapheme, or the
// rope's grapheme count once the iterator is exhausted.
func (it *GraphemeIterator) Position() int {
	if it.exhausted {
		return it.rope.LenGraphemes()
	}
	return it.Current().StartPos
}

// Reset rewinds the iterator to the start of the rope.
func (it *GraphemeIterator) Reset() {
	if it.rope == nil || it.rope.Length() == 0 {
		it.exhausted = true
		return
	}
	fresh := it.rope.Graphemes()
	it.graphemes = fresh.graphemes
	it.index = -1
	it.exhausted = len(it.graphemes) == 0
}

// Collect drains the iterator into a slice.
func (it *GraphemeIterator) Collect() []Grapheme {
	var out []Grapheme
	for it.Next() {
		out = append(out, it.Current())
	}
	return out
}

// LenGraphemes returns the number of grapheme clusters in the rope.
func (r *Rope) LenGraphemes() int {
	if r == nil || r.Length() == 0 {
		return 0
	}
	count := 0
	it := r.Graphemes()
	for it.Next() {
		count++
	}
	return count
}

// IsGraphemeBoundary reports whether charIdx sits on a grapheme cluster
// boundary. 0 and Length() are always boundaries.
func (r *Rope) IsGraphemeBoundary(charIdx int) bool {
	if charIdx < 0 || charIdx > r.Length() {
		return false
	}
	if charIdx == 0 || charIdx == r.Length() {
		return true
	}
	it := r.Graphemes()
	for it.Next() {
		g := it.Current()
		if g.StartPos == charIdx {
			return true
		}
		if g.StartPos > charIdx {
			return false
		}
	}
	return false
}

// NextGraphemeBoundary returns the smallest boundary j > charIdx: the end
// of the grapheme that starts at or contains charIdx. Returns Length()
// when charIdx is at or past the end.
func (r *Rope) NextGraphemeBoundary(charIdx int) int {
	if charIdx < 0 {
		return 0
	}
	if charIdx >= r.Length() {
		return r.Length()
	}
	it := r.Graphemes()
	for it.Next() {
		g := it.Current()
		if end := g.StartPos + g.CharLen; end > charIdx {
			return end
		}
	}
	return r.Length()
}

// PrevGraphemeBoundary returns the largest boundary j < charIdx: the start
// of the grapheme that ends at or contains charIdx. Returns 0 when charIdx
// is 0 or less; a charIdx past the end is treated as Length().
func (r *Rope) PrevGraphemeBoundary(charIdx int) int {
	if charIdx <= 0 {
		return 0
	}
	if charIdx >= r.Length() {
		charIdx = r.Length()
	}
	boundary := 0
	it := r.Graphemes()
	for it.Next() {
		g := it.Current()
		if g.StartPos >= charIdx {
			break
		}
		boundary = g.StartPos
	}
	return boundary
}

// NthNextGraphemeBoundary applies NextGraphemeBoundary n times, stepping
// one full grapheme forward each time rather than snapping in place.
func (r *Rope) NthNextGraphemeBoundary(charIdx, n int) int {
	pos := r.NextGraphemeBoundary(charIdx)
	for i := 1; i < n; i++ {
		if pos >= r.Length() {
			break
		}
		pos = r.nextGraphemeAfter(pos)
	}
	return pos
}

// NthPrevGraphemeBoundary applies PrevGraphemeBoundary n times, stepping
// one full grapheme backward each time.
func (r *Rope) NthPrevGraphemeBoundary(charIdx, n int) int {
	pos := r.PrevGraphemeBoundary(charIdx)
	for i := 1; i < n; i++ {
		if pos <= 0 {
			break
		}
		pos = r.PrevGraphemeBoundary(pos)
	}
	return pos
}

// nextGraphemeAfter returns the boundary strictly after a position that is
// already known to be on a boundary.
func (r *Rope) nextGraphemeAfter(charIdx int) int {
	if charIdx >= r.Length() {
		return r.Length()
	}
	it := r.Graphemes()
	for it.Next() {
		g := it.Current()
		if g.StartPos == charIdx {
			return g.StartPos + g.CharLen
		}
	}
	return r.Length()
}

// GraphemeAt returns the grapheme cluster starting at or containing charIdx.
func (r *Rope) GraphemeAt(charIdx int) Grapheme {
	start := r.PrevGraphemeBoundary(charIdx + 1)
	it := r.Graphemes()
	for it.Next() {
		g := it.Current()
		if g.StartPos == start {
			return g
		}
	}
	return Grapheme{}
}

// String returns the grapheme's text.
func (g Grapheme) String() string { return g.Text }

// Len returns the grapheme's length in chars.
func (g Grapheme) Len() int { return g.CharLen }

// ByteLen returns the grapheme's length in bytes.
func (g Grapheme) ByteLen() int { return g.byteLen }
