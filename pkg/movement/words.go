package movement

import (
	"unicode"

	"github.com/nrframe/texcore/pkg/rope"
	"github.com/nrframe/texcore/pkg/selection"
)

// WordMotionTarget is the destination kind of a word motion.
type WordMotionTarget int

const (
	NextWordStart WordMotionTarget = iota
	NextWordEnd
	PrevWordStart
	PrevWordEnd
	NextLongWordStart
	NextLongWordEnd
	PrevLongWordStart
	PrevLongWordEnd
	NextSubWordStart
	NextSubWordEnd
	PrevSubWordStart
	PrevSubWordEnd
)

func isPrevTarget(target WordMotionTarget) bool {
	switch target {
	case PrevWordStart, PrevWordEnd, PrevLongWordStart, PrevLongWordEnd, PrevSubWordStart, PrevSubWordEnd:
		return true
	default:
		return false
	}
}

// MoveNextWordStart, MoveNextWordEnd, MovePrevWordStart, MovePrevWordEnd,
// and their long/sub-word counterparts are the eight (plus sub-word)
// entry points named in spec 4.3.2.
func MoveNextWordStart(text *rope.Rope, r selection.Range, count int) selection.Range {
	return wordMove(text, r, count, NextWordStart)
}

func MoveNextWordEnd(text *rope.Rope, r selection.Range, count int) selection.Range {
	return wordMove(text, r, count, NextWordEnd)
}

func MovePrevWordStart(text *rope.Rope, r selection.Range, count int) selection.Range {
	return wordMove(text, r, count, PrevWordStart)
}

func MovePrevWordEnd(text *rope.Rope, r selection.Range, count int) selection.Range {
	return wordMove(text, r, count, PrevWordEnd)
}

func MoveNextLongWordStart(text *rope.Rope, r selection.Range, count int) selection.Range {
	return wordMove(text, r, count, NextLongWordStart)
}

func MoveNextLongWordEnd(text *rope.Rope, r selection.Range, count int) selection.Range {
	return wordMove(text, r, count, NextLongWordEnd)
}

func MovePrevLongWordStart(text *rope.Rope, r selection.Range, count int) selection.Range {
	return wordMove(text, r, count, PrevLongWordStart)
}

func MovePrevLongWordEnd(text *rope.Rope, r selection.Range, count int) selection.Range {
	return wordMove(text, r, count, PrevLongWordEnd)
}

func MoveNextSubWordStart(text *rope.Rope, r selection.Range, count int) selection.Range {
	return wordMove(text, r, count, NextSubWordStart)
}

func MoveNextSubWordEnd(text *rope.Rope, r selection.Range, count int) selection.Range {
	return wordMove(text, r, count, NextSubWordEnd)
}

func MovePrevSubWordStart(text *rope.Rope, r selection.Range, count int) selection.Range {
	return wordMove(text, r, count, PrevSubWordStart)
}

func MovePrevSubWordEnd(text *rope.Rope, r selection.Range, count int) selection.Range {
	return wordMove(text, r, count, PrevSubWordEnd)
}

// wordMove is the shared word-motion procedure (spec 4.3.2 steps 1-3).
func wordMove(text *rope.Rope, r selection.Range, count int, target WordMotionTarget) selection.Range {
	isPrev := isPrevTarget(target)

	if (isPrev && r.Head == 0) || (!isPrev && r.Head == text.Length()) {
		return r
	}

	var start selection.Range
	switch {
	case isPrev && r.Anchor < r.Head:
		start = selection.NewRange(r.Head, text.PrevGraphemeBoundary(r.Head))
	case isPrev:
		start = selection.NewRange(text.NextGraphemeBoundary(r.Head), r.Head)
	case r.Anchor < r.Head:
		start = selection.NewRange(text.PrevGraphemeBoundary(r.Head), r.Head)
	default:
		start = selection.NewRange(r.Head, text.NextGraphemeBoundary(r.Head))
	}

	for i := 0; i < count; i++ {
		start = rangeToTarget(text, target, start)
	}
	return start
}

// stepChar returns the char one position away from head in the direction
// of travel (without moving head), and the head that results from
// consuming it.
func stepChar(text *rope.Rope, head int, isPrev bool) (ch rune, newHead int, ok bool) {
	if isPrev {
		if head <= 0 {
			return 0, head, false
		}
		r, err := text.CharAt(head - 1)
		if err != nil {
			return 0, head, false
		}
		return r, head - 1, true
	}
	if head >= text.Length() {
		return 0, head, false
	}
	r, err := text.CharAt(head)
	if err != nil {
		return 0, head, false
	}
	return r, head + 1, true
}

// rangeToTarget walks from origin.head in the target's direction until
// reachedTarget fires twice: the first firing relocates the anchor to
// that point (it's where the word we're leaving/entering starts), the
// second firing stops the walk without consuming the triggering char.
func rangeToTarget(text *rope.Rope, target WordMotionTarget, origin selection.Range) selection.Range {
	isPrev := isPrevTarget(target)

	anchor := origin.Anchor
	head := origin.Head

	// The first comparison needs the character already behind head, on the
	// opposite side from the direction we're about to scan - not the next
	// one we'd consume by stepping forward/backward from head.
	prevCh, _, havePrevCh := stepChar(text, head, !isPrev)

	for {
		ch, newHead, ok := stepChar(text, head, isPrev)
		if !ok {
			break
		}
		if !CharIsLineEnding(ch) {
			break
		}
		prevCh = ch
		havePrevCh = true
		head = newHead
	}
	if havePrevCh && CharIsLineEnding(prevCh) {
		anchor = head
	}

	headStart := head
	for {
		nextCh, newHead, ok := stepChar(text, head, isPrev)
		if !ok {
			break
		}
		if !havePrevCh || reachedTarget(target, prevCh, nextCh) {
			if head == headStart {
				anchor = head
			} else {
				break
			}
		}
		prevCh = nextCh
		havePrevCh = true
		head = newHead
	}

	return selection.NewRange(anchor, head)
}

func reachedTarget(target WordMotionTarget, prevCh, nextCh rune) bool {
	switch target {
	case NextWordStart, PrevWordEnd:
		return IsWordBoundary(prevCh, nextCh) && (CharIsLineEnding(nextCh) || !unicode.IsSpace(nextCh))
	case NextWordEnd, PrevWordStart:
		return IsWordBoundary(prevCh, nextCh) && (!unicode.IsSpace(prevCh) || CharIsLineEnding(nextCh))
	case NextLongWordStart, PrevLongWordEnd:
		return IsLongWordBoundary(prevCh, nextCh) && (CharIsLineEnding(nextCh) || !unicode.IsSpace(nextCh))
	case NextLongWordEnd, PrevLongWordStart:
		return IsLongWordBoundary(prevCh, nextCh) && (!unicode.IsSpace(prevCh) || CharIsLineEnding(nextCh))
	case NextSubWordStart, PrevSubWordEnd:
		boundary := IsWordBoundary(prevCh, nextCh) || isSubWordBoundary(prevCh, nextCh)
		return boundary && (CharIsLineEnding(nextCh) || !unicode.IsSpace(nextCh))
	case NextSubWordEnd, PrevSubWordStart:
		boundary := IsWordBoundary(prevCh, nextCh) || isSubWordBoundary(prevCh, nextCh)
		return boundary && (!unicode.IsSpace(prevCh) || CharIsLineEnding(nextCh))
	default:
		return false
	}
}

// NthPrevWordBoundary walks backward count times, each time skipping any
// trailing line endings then the whitespace and word run before index,
// landing at the start of the previous run of non-whitespace content.
// Grounded on the skip_newlines().end_of_word() composition in words.rs.
func NthPrevWordBoundary(text *rope.Rope, index, count int) int {
	pos := index
	for n := 0; n < count; n++ {
		p := pos
		for p > 0 {
			ch, err := text.CharAt(p - 1)
			if err != nil || !CharIsLineEnding(ch) {
				break
			}
			p--
		}
		for p > 0 {
			ch, err := text.CharAt(p - 1)
			if err != nil || !unicode.IsSpace(ch) {
				break
			}
			p--
		}
		for p > 0 {
			ch, err := text.CharAt(p - 1)
			if err != nil || unicode.IsSpace(ch) || CharIsLineEnding(ch) {
				break
			}
			p--
		}
		pos = p
	}
	if pos < 0 {
		pos = 0
	}
	return pos
}
