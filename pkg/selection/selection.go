package selection

import (
	"sort"

	"github.com/dlclark/regexp2"
	"github.com/nrframe/texcore/pkg/invariant"
	"github.com/nrframe/texcore/pkg/rope"
)

// Selection is a non-empty, ordered set of Ranges with a distinguished
// primary range. Ranges never overlap. Two non-empty ranges may share an
// endpoint; an empty range that shares an endpoint with another range is
// merged into it.
type Selection struct {
	ranges       []Range
	primaryIndex int
}

// NewSelection builds a Selection from the given ranges, with the primary
// at index 0. A Selection with no ranges is not representable; passing none
// yields a single cursor at position 0.
func NewSelection(ranges ...Range) *Selection {
	if len(ranges) == 0 {
		ranges = []Range{Point(0)}
	}
	s := &Selection{ranges: ranges}
	s.normalizeFrom(0)
	return s
}

// NewSelectionWithPrimary builds a Selection with an explicit primary index.
func NewSelectionWithPrimary(ranges []Range, primaryIndex int) *Selection {
	if len(ranges) == 0 {
		ranges = []Range{Point(0)}
	}
	if primaryIndex < 0 || primaryIndex >= len(ranges) {
		primaryIndex = 0
	}
	s := &Selection{ranges: ranges}
	s.normalizeFrom(primaryIndex)
	return s
}

// Single builds a Selection holding one range from a to b.
func Single(a, b int) *Selection {
	return NewSelection(NewRange(a, b))
}

// Primary returns the distinguished primary range.
func (s *Selection) Primary() Range {
	if s.primaryIndex < 0 || s.primaryIndex >= len(s.ranges) {
		invariant.Check("Selection.Primary", "primary index out of bounds")
		return Point(0)
	}
	return s.ranges[s.primaryIndex]
}

// PrimaryIndex returns the index of the primary range.
func (s *Selection) PrimaryIndex() int {
	return s.primaryIndex
}

// Len returns the number of ranges.
func (s *Selection) Len() int {
	return len(s.ranges)
}

// Iter returns the ranges in order. The returned slice must not be mutated.
func (s *Selection) Iter() []Range {
	return s.ranges
}

// Add appends a range and renormalizes, tracking the primary by its
// original index.
func (s *Selection) Add(r Range) {
	s.ranges = append(s.ranges, r)
	s.normalizeFrom(s.primaryIndex)
}

// SetPrimary sets the primary index, ignoring out-of-range values.
func (s *Selection) SetPrimary(index int) {
	if index >= 0 && index < len(s.ranges) {
		s.primaryIndex = index
	}
}

// Transform applies f to every range, then normalizes the result. f must be
// pure: it must not retain or mutate the ranges it is given.
func (s *Selection) Transform(f func(Range) Range) *Selection {
	out := make([]Range, len(s.ranges))
	for i, r := range s.ranges {
		out[i] = f(r)
	}
	result := &Selection{ranges: out, primaryIndex: s.primaryIndex}
	result.normalizeFrom(s.primaryIndex)
	return result
}

// rangeIdx pairs a range with its position before sorting, so normalize can
// relocate the primary by tracking which original range a merged span
// absorbed rather than by comparing Range values (Horiz pointers make value
// equality an unreliable notion of identity).
type rangeIdx struct {
	Range
	orig int
}

// normalizeFrom restores the Selection invariants (sort by From(), merge
// overlapping or touching-empty ranges into their covering range keeping
// the direction of the earlier one) and sets primaryIndex to the merged
// range that absorbed the range originally at primaryOrig.
func (s *Selection) normalizeFrom(primaryOrig int) {
	if len(s.ranges) == 0 {
		invariant.Check("Selection.normalizeFrom", "selection had no ranges")
		s.ranges = []Range{Point(0)}
		s.primaryIndex = 0
		return
	}
	tagged := make([]rangeIdx, len(s.ranges))
	for i, r := range s.ranges {
		tagged[i] = rangeIdx{Range: r, orig: i}
	}
	sort.SliceStable(tagged, func(i, j int) bool {
		return tagged[i].From() < tagged[j].From()
	})

	merged := make([]rangeIdx, 0, len(tagged))
	primaryNew := 0
	for _, t := range tagged {
		if n := len(merged); n > 0 && (merged[n-1].Overlaps(t.Range) || merged[n-1].touches(t.Range)) {
			merged[n-1].Range = merged[n-1].Merge(t.Range)
			if t.orig == primaryOrig {
				primaryNew = n - 1
			}
			continue
		}
		if t.orig == primaryOrig {
			primaryNew = len(merged)
		}
		merged = append(merged, t)
	}

	out := make([]Range, len(merged))
	for i, t := range merged {
		out[i] = t.Range
	}
	s.ranges = out
	s.primaryIndex = primaryNew
}

// MergeRanges canonicalizes overlapping ranges, preserving the primary by
// original index.
func (s *Selection) MergeRanges() *Selection {
	out := &Selection{ranges: append([]Range(nil), s.ranges...)}
	out.normalizeFrom(s.primaryIndex)
	return out
}

// MergeConsecutiveRanges additionally merges ranges that merely touch (the
// end of one equals the start of the next), regardless of emptiness.
func (s *Selection) MergeConsecutiveRanges() *Selection {
	tagged := make([]rangeIdx, len(s.ranges))
	for i, r := range s.ranges {
		tagged[i] = rangeIdx{Range: r, orig: i}
	}
	sort.SliceStable(tagged, func(i, j int) bool {
		return tagged[i].From() < tagged[j].From()
	})

	merged := make([]rangeIdx, 0, len(tagged))
	primaryNew := 0
	for _, t := range tagged {
		if n := len(merged); n > 0 && (merged[n-1].Overlaps(t.Range) || merged[n-1].To() == t.From()) {
			merged[n-1].Range = merged[n-1].Merge(t.Range)
			if t.orig == s.primaryIndex {
				primaryNew = n - 1
			}
			continue
		}
		if t.orig == s.primaryIndex {
			primaryNew = len(merged)
		}
		merged = append(merged, t)
	}

	out := make([]Range, len(merged))
	for i, t := range merged {
		out[i] = t.Range
	}
	return &Selection{ranges: out, primaryIndex: primaryNew}
}

// SplitOnMatches splits every range in s by the matches of re found within
// it, producing the sub-ranges that lie between consecutive matches (the
// matched text itself is excluded from the result). A range with no matches
// is kept as-is.
func SplitOnMatches(text *rope.Rope, s *Selection, re *regexp2.Regexp) (*Selection, error) {
	var out []Range
	for _, r := range s.Iter() {
		slice, err := r.Text(text)
		if err != nil {
			return nil, err
		}
		bounds, err := matchBounds(re, slice)
		if err != nil {
			return nil, err
		}
		if len(bounds) == 0 {
			out = append(out, r)
			continue
		}
		base := r.From()
		pos := 0
		for _, b := range bounds {
			if b[0] > pos {
				out = append(out, NewRange(base+pos, base+b[0]))
			}
			pos = b[1]
		}
		if pos < r.Len() {
			out = append(out, NewRange(base+pos, base+r.Len()))
		}
	}
	if len(out) == 0 {
		out = []Range{Point(0)}
	}
	return NewSelection(out...), nil
}

// SelectOnMatches replaces every range in s with one range per match of re
// found within it. A range with no matches is dropped; if every range is
// dropped the result is an empty-at-0 selection so callers never receive a
// Selection with no ranges.
func SelectOnMatches(text *rope.Rope, s *Selection, re *regexp2.Regexp) (*Selection, error) {
	var out []Range
	for _, r := range s.Iter() {
		slice, err := r.Text(text)
		if err != nil {
			return nil, err
		}
		bounds, err := matchBounds(re, slice)
		if err != nil {
			return nil, err
		}
		base := r.From()
		for _, b := range bounds {
			out = append(out, NewRange(base+b[0], base+b[1]))
		}
	}
	if len(out) == 0 {
		out = []Range{Point(0)}
	}
	return NewSelection(out...), nil
}

// KeepOrRemoveMatches filters the ranges of s by whether their slice
// matches re: remove=false keeps only matching ranges, remove=true keeps
// only non-matching ranges. The primary is preserved by identity if it
// survives the filter, otherwise the closest surviving range by original
// index is promoted, and if nothing survives the original Selection is
// returned unchanged.
func KeepOrRemoveMatches(text *rope.Rope, s *Selection, re *regexp2.Regexp, remove bool) (*Selection, error) {
	primaryIdx := s.primaryIndex
	var kept []Range
	keptOrigIdx := -1
	bestDist := -1
	for i, r := range s.Iter() {
		slice, err := r.Text(text)
		if err != nil {
			return nil, err
		}
		m, err := re.FindStringMatch(slice)
		if err != nil {
			return nil, err
		}
		matched := m != nil
		if matched == remove {
			continue
		}
		dist := i - primaryIdx
		if dist < 0 {
			dist = -dist
		}
		if bestDist == -1 || dist < bestDist {
			bestDist = dist
			keptOrigIdx = len(kept)
		}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		return s, nil
	}
	if keptOrigIdx < 0 || keptOrigIdx >= len(kept) {
		keptOrigIdx = 0
	}
	return NewSelectionWithPrimary(kept, keptOrigIdx), nil
}

// matchBounds returns the [start, end) char-offset pairs of every
// non-overlapping match of re within slice, in order.
func matchBounds(re *regexp2.Regexp, slice string) ([][2]int, error) {
	var bounds [][2]int
	m, err := re.FindStringMatch(slice)
	if err != nil {
		return nil, err
	}
	for m != nil {
		bounds = append(bounds, [2]int{m.Index, m.Index + m.Length})
		m, err = re.FindNextMatch(m)
		if err != nil {
			return nil, err
		}
	}
	return bounds, nil
}

// RotatePrimary moves the primary index by count, wrapping around the
// number of ranges. Negative count rotates backward.
func (s *Selection) RotatePrimary(count int) *Selection {
	n := len(s.ranges)
	idx := ((s.primaryIndex+count)%n + n) % n
	out := &Selection{ranges: append([]Range(nil), s.ranges...), primaryIndex: idx}
	return out
}

// RotateContents rewrites text so each range's slice moves to the next (or,
// for a negative count, previous) range's position, leaving the ranges
// themselves covering their new contents. primary_index tracks the range
// holding the fragment that was at the original primary's position.
//
// A reversed (negative count) rotation by an even amount is a no-op,
// matching the behavior carried over from sibling editors' selection
// rotation semantics.
func (s *Selection) RotateContents(text *rope.Rope, count int) (*rope.Rope, *Selection, error) {
	n := len(s.ranges)
	if n < 2 || count == 0 {
		return text, s, nil
	}
	if count < 0 && count%2 == 0 {
		return text, s, nil
	}

	slices := make([]string, n)
	for i, r := range s.ranges {
		slice, err := r.Text(text)
		if err != nil {
			return nil, nil, err
		}
		slices[i] = slice
	}

	rotated := make([]string, n)
	for i := 0; i < n; i++ {
		src := ((i-count)%n + n) % n
		rotated[i] = slices[src]
	}

	newText := text
	newRanges := make([]Range, n)
	offset := 0
	for i, r := range s.ranges {
		from, to := r.From()+offset, r.To()+offset
		var err error
		newText, err = newText.Replace(from, to, rotated[i])
		if err != nil {
			return nil, nil, err
		}
		newFrom := from
		newTo := from + len([]rune(rotated[i]))
		if r.IsBackward() {
			newRanges[i] = Range{Anchor: newTo, Head: newFrom, Horiz: r.Horiz}
		} else {
			newRanges[i] = Range{Anchor: newFrom, Head: newTo, Horiz: r.Horiz}
		}
		offset += newTo - newFrom - (to - from)
	}

	primaryDest := ((s.primaryIndex+count)%n + n) % n
	return newText, NewSelectionWithPrimary(newRanges, primaryDest), nil
}
