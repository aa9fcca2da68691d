package selection

import (
	"testing"

	"github.com/dlclark/regexp2"
	"github.com/nrframe/texcore/pkg/rope"
)

func TestSelection_NewSelection(t *testing.T) {
	sel := NewSelection(Point(5))
	if sel.Len() != 1 {
		t.Errorf("Expected length 1, got %d", sel.Len())
	}
	if sel.PrimaryIndex() != 0 {
		t.Errorf("Expected primary index 0, got %d", sel.PrimaryIndex())
	}

	ranges := []Range{
		NewRange(0, 5),
		NewRange(10, 15),
		Point(20),
	}
	sel = NewSelection(ranges...)
	if sel.Len() != 3 {
		t.Errorf("Expected length 3, got %d", sel.Len())
	}
	primary := sel.Primary()
	if primary.From() != 0 || primary.To() != 5 {
		t.Errorf("Expected primary range 0-5, got %d-%d", primary.From(), primary.To())
	}
}

func TestSelection_NewSelectionWithPrimary(t *testing.T) {
	ranges := []Range{
		NewRange(0, 5),
		NewRange(10, 15),
		Point(20),
	}

	sel := NewSelectionWithPrimary(ranges, 1)
	if sel.PrimaryIndex() != 1 {
		t.Errorf("Expected primary index 1, got %d", sel.PrimaryIndex())
	}
	primary := sel.Primary()
	if primary.From() != 10 || primary.To() != 15 {
		t.Errorf("Expected primary range 10-15, got %d-%d", primary.From(), primary.To())
	}

	sel = NewSelectionWithPrimary(ranges, 5)
	if sel.PrimaryIndex() != 0 {
		t.Errorf("Expected primary index 0 (out of bounds), got %d", sel.PrimaryIndex())
	}
}

func TestSelection_NoEmptySelection(t *testing.T) {
	sel := NewSelection()
	if sel.Len() != 1 {
		t.Fatalf("Expected a fallback cursor range, got len %d", sel.Len())
	}
	if !sel.Primary().IsCursor() || sel.Primary().From() != 0 {
		t.Errorf("Expected fallback cursor at 0, got %v", sel.Primary())
	}
}

func TestSelection_NormalizeMergesOverlaps(t *testing.T) {
	sel := NewSelection(NewRange(0, 5), NewRange(3, 8), NewRange(20, 25))
	if sel.Len() != 2 {
		t.Fatalf("Expected overlaps merged to 2 ranges, got %d: %v", sel.Len(), sel.Iter())
	}
	if sel.Iter()[0].From() != 0 || sel.Iter()[0].To() != 8 {
		t.Errorf("Expected merged range 0-8, got %d-%d", sel.Iter()[0].From(), sel.Iter()[0].To())
	}
}

func TestSelection_NormalizeMergesTouchingEmpty(t *testing.T) {
	// A cursor touching the edge of a range merges into it.
	sel := NewSelection(NewRange(0, 5), Point(5))
	if sel.Len() != 1 {
		t.Fatalf("Expected touching empty range merged, got %d: %v", sel.Len(), sel.Iter())
	}
	if sel.Iter()[0].From() != 0 || sel.Iter()[0].To() != 5 {
		t.Errorf("Expected merged range 0-5, got %d-%d", sel.Iter()[0].From(), sel.Iter()[0].To())
	}
}

func TestSelection_NormalizeKeepsNonTouchingNonEmpty(t *testing.T) {
	// Two adjacent non-empty ranges that only touch (no overlap) stay separate.
	sel := NewSelection(NewRange(0, 5), NewRange(5, 10))
	if sel.Len() != 2 {
		t.Fatalf("Expected two adjacent non-empty ranges to stay separate, got %d", sel.Len())
	}
}

func TestSelection_PrimaryTrackedThroughSort(t *testing.T) {
	// Ranges given out of order; primary index 0 refers to the unsorted slice
	// and must follow the same logical range after normalize sorts them.
	ranges := []Range{NewRange(10, 15), NewRange(0, 5)}
	sel := NewSelectionWithPrimary(ranges, 0)
	if sel.Primary().From() != 10 {
		t.Errorf("Expected primary to remain range 10-15 after sort, got %d-%d", sel.Primary().From(), sel.Primary().To())
	}
}

func TestSelection_Transform(t *testing.T) {
	sel := NewSelection(NewRange(0, 5), NewRange(10, 15))
	moved := sel.Transform(func(r Range) Range {
		return NewRange(r.From()+1, r.To()+1)
	})
	if moved.Iter()[0].From() != 1 || moved.Iter()[1].From() != 11 {
		t.Errorf("Unexpected transform result: %v", moved.Iter())
	}
}

func TestSelection_TransformPreservesPrimary(t *testing.T) {
	sel := NewSelectionWithPrimary([]Range{NewRange(10, 15), NewRange(0, 5)}, 0)
	moved := sel.Transform(func(r Range) Range {
		return NewRange(r.From()+1, r.To()+1)
	})
	if moved.Primary().From() != 11 {
		t.Errorf("Expected primary to stay with range originally at 10-15, got %d-%d", moved.Primary().From(), moved.Primary().To())
	}
}

func TestSelection_Add(t *testing.T) {
	sel := NewSelection(Point(0))
	sel.Add(NewRange(10, 15))
	if sel.Len() != 2 {
		t.Fatalf("Expected 2 ranges after Add, got %d", sel.Len())
	}
}

func TestSelection_MergeConsecutiveRanges(t *testing.T) {
	sel := NewSelection(NewRange(0, 5), NewRange(5, 10))
	if sel.Len() != 2 {
		t.Fatalf("Expected MergeRanges to leave adjacent non-empty ranges separate, got %d", sel.Len())
	}
	merged := sel.MergeConsecutiveRanges()
	if merged.Len() != 1 {
		t.Fatalf("Expected MergeConsecutiveRanges to fuse touching ranges, got %d", merged.Len())
	}
	if merged.Iter()[0].From() != 0 || merged.Iter()[0].To() != 10 {
		t.Errorf("Expected fused range 0-10, got %d-%d", merged.Iter()[0].From(), merged.Iter()[0].To())
	}
}

func TestSplitOnMatches(t *testing.T) {
	text := rope.New("one,two,three")
	sel := NewSelection(NewRange(0, 13))
	re := regexp2.MustCompile(",", 0)

	out, err := SplitOnMatches(text, sel, re)
	if err != nil {
		t.Fatalf("SplitOnMatches error: %v", err)
	}
	if out.Len() != 3 {
		t.Fatalf("Expected 3 pieces, got %d: %v", out.Len(), out.Iter())
	}
	want := [][2]int{{0, 3}, {4, 7}, {8, 13}}
	for i, r := range out.Iter() {
		if r.From() != want[i][0] || r.To() != want[i][1] {
			t.Errorf("piece %d: expected %v, got %d-%d", i, want[i], r.From(), r.To())
		}
	}
}

func TestSelectOnMatches(t *testing.T) {
	text := rope.New("one,two,three")
	sel := NewSelection(NewRange(0, 13))
	re := regexp2.MustCompile("[a-z]+", 0)

	out, err := SelectOnMatches(text, sel, re)
	if err != nil {
		t.Fatalf("SelectOnMatches error: %v", err)
	}
	if out.Len() != 3 {
		t.Fatalf("Expected 3 words selected, got %d: %v", out.Len(), out.Iter())
	}
	if out.Iter()[0].From() != 0 || out.Iter()[0].To() != 3 {
		t.Errorf("Expected first word 0-3, got %d-%d", out.Iter()[0].From(), out.Iter()[0].To())
	}
}

func TestKeepOrRemoveMatches(t *testing.T) {
	text := rope.New("foo bar foobar baz")
	sel := NewSelection(
		NewRange(0, 3),   // foo
		NewRange(4, 7),   // bar
		NewRange(8, 14),  // foobar
		NewRange(15, 18), // baz
	)
	re := regexp2.MustCompile("foo", 0)

	kept, err := KeepOrRemoveMatches(text, sel, re, false)
	if err != nil {
		t.Fatalf("KeepOrRemoveMatches error: %v", err)
	}
	if kept.Len() != 2 {
		t.Fatalf("Expected 2 ranges matching 'foo', got %d", kept.Len())
	}

	removed, err := KeepOrRemoveMatches(text, sel, re, true)
	if err != nil {
		t.Fatalf("KeepOrRemoveMatches error: %v", err)
	}
	if removed.Len() != 2 {
		t.Fatalf("Expected 2 ranges not matching 'foo', got %d", removed.Len())
	}
}

func TestKeepOrRemoveMatches_NoneSurviveReturnsOriginal(t *testing.T) {
	text := rope.New("abc def")
	sel := NewSelection(NewRange(0, 3), NewRange(4, 7))
	re := regexp2.MustCompile("zzz", 0)

	kept, err := KeepOrRemoveMatches(text, sel, re, false)
	if err != nil {
		t.Fatalf("KeepOrRemoveMatches error: %v", err)
	}
	if kept != sel {
		t.Error("Expected original selection to be returned unchanged when nothing survives")
	}
}

func TestRotatePrimary(t *testing.T) {
	sel := NewSelection(Point(0), Point(10), Point(20))
	rotated := sel.RotatePrimary(1)
	if rotated.PrimaryIndex() != 1 {
		t.Errorf("Expected primary index 1, got %d", rotated.PrimaryIndex())
	}
	back := rotated.RotatePrimary(-1)
	if back.PrimaryIndex() != 0 {
		t.Errorf("Expected primary index 0 after rotating back, got %d", back.PrimaryIndex())
	}
}

func TestRotateContents(t *testing.T) {
	text := rope.New("one two three")
	sel := NewSelection(NewRange(0, 3), NewRange(4, 7), NewRange(8, 13))

	newText, newSel, err := sel.RotateContents(text, 1)
	if err != nil {
		t.Fatalf("RotateContents error: %v", err)
	}
	if got := newText.String(); got != "three one two" {
		t.Errorf("Expected rotated text %q, got %q", "three one two", got)
	}
	if newSel.Len() != 3 {
		t.Fatalf("Expected 3 ranges after rotation, got %d", newSel.Len())
	}
}

func TestRotateContents_EvenReverseIsNoop(t *testing.T) {
	text := rope.New("one two three four")
	sel := NewSelection(NewRange(0, 3), NewRange(4, 7), NewRange(8, 13), NewRange(14, 19))

	newText, newSel, err := sel.RotateContents(text, -2)
	if err != nil {
		t.Fatalf("RotateContents error: %v", err)
	}
	if newText.String() != text.String() {
		t.Errorf("Expected no-op for reversed even count, got %q", newText.String())
	}
	if newSel != sel {
		t.Error("Expected the original selection to be returned for a no-op rotation")
	}
}
