package rope

import "unicode/utf8"

// Line indexing. Every internal node already caches its left subtree's
// line-break count alongside length/size, so char-to-line and
// line-to-char walk a single root-to-leaf path: O(log N) over internal
// nodes plus O(leaf size) at the one leaf they land on, same complexity
// class as Slice/CharAt elsewhere in this package.

// LineCount returns the number of lines in the rope. A rope with no line
// breaks has exactly one line.
func (r *Rope) LineCount() int {
	if r == nil {
		return 1
	}
	return r.Newlines() + 1
}

// CharToLine returns the zero-based line number containing charIdx.
func (r *Rope) CharToLine(charIdx int) (int, error) {
	if r == nil {
		if charIdx == 0 {
			return 0, nil
		}
		return 0, errCharOutOfBounds(charIdx, 0)
	}
	if charIdx < 0 || charIdx > r.length {
		return 0, errCharOutOfBounds(charIdx, r.length)
	}
	if r.length == 0 {
		return 0, nil
	}
	return charToLineNode(r.root, charIdx), nil
}

func charToLineNode(node RopeNode, charIdx int) int {
	if node.IsLeaf() {
		leaf := node.(*LeafNode)
		byteOff := charToByteInLeaf(leaf.text, charIdx)
		return countLineBreaks(leaf.text[:byteOff])
	}
	internal := node.(*InternalNode)
	leftLen := internal.left.Length()
	if charIdx <= leftLen {
		return charToLineNode(internal.left, charIdx)
	}
	return internal.breaks + charToLineNode(internal.right, charIdx-leftLen)
}

// LineToChar returns the char position where line lineIdx (zero-based)
// begins.
func (r *Rope) LineToChar(lineIdx int) (int, error) {
	if r == nil {
		if lineIdx == 0 {
			return 0, nil
		}
		return 0, errCharOutOfBounds(lineIdx, 0)
	}
	if lineIdx < 0 || lineIdx >= r.LineCount() {
		return 0, errCharOutOfBounds(lineIdx, r.LineCount())
	}
	if lineIdx == 0 {
		return 0, nil
	}
	return lineToCharNode(r.root, lineIdx), nil
}

func lineToCharNode(node RopeNode, lineIdx int) int {
	if lineIdx == 0 {
		return 0
	}
	if node.IsLeaf() {
		leaf := node.(*LeafNode)
		return byteOffsetOfLineStart(leaf.text, lineIdx)
	}
	internal := node.(*InternalNode)
	if lineIdx <= internal.breaks {
		return lineToCharNode(internal.left, lineIdx)
	}
	return internal.left.Length() + lineToCharNode(internal.right, lineIdx-internal.breaks)
}

// LineStart is an alias of LineToChar, named to match line/char
// terminology used elsewhere (LineEnd, LineLength).
func (r *Rope) LineStart(lineIdx int) (int, error) {
	return r.LineToChar(lineIdx)
}

// LineEnd returns the char position of the end of line lineIdx's
// content, excluding its terminator. The last line's end is the rope's
// length.
func (r *Rope) LineEnd(lineIdx int) (int, error) {
	count := r.LineCount()
	if lineIdx < 0 || lineIdx >= count {
		return 0, errCharOutOfBounds(lineIdx, count)
	}
	if lineIdx == count-1 {
		return r.Length(), nil
	}
	nextStart, err := r.LineToChar(lineIdx + 1)
	if err != nil {
		return 0, err
	}
	windowStart := nextStart - 2
	if windowStart < 0 {
		windowStart = 0
	}
	window, err := r.Slice(windowStart, nextStart)
	if err != nil {
		return 0, err
	}
	return nextStart - suffixLineEndingChars(window), nil
}

// Line returns the content of line lineIdx, excluding its terminator.
// Returns "" if lineIdx is out of range.
func (r *Rope) Line(lineIdx int) string {
	start, err := r.LineStart(lineIdx)
	if err != nil {
		return ""
	}
	end, err := r.LineEnd(lineIdx)
	if err != nil {
		return ""
	}
	text, err := r.Slice(start, end)
	if err != nil {
		return ""
	}
	return text
}

// LineLength returns the number of chars in line lineIdx's content,
// excluding its terminator.
func (r *Rope) LineLength(lineIdx int) (int, error) {
	start, err := r.LineStart(lineIdx)
	if err != nil {
		return 0, err
	}
	end, err := r.LineEnd(lineIdx)
	if err != nil {
		return 0, err
	}
	return end - start, nil
}

// charToByteInLeaf converts a char offset within leaf text to a byte offset.
func charToByteInLeaf(text string, charIdx int) int {
	byteOff := 0
	for i := 0; i < charIdx; i++ {
		_, size := utf8.DecodeRuneInString(text[byteOff:])
		byteOff += size
	}
	return byteOff
}

// byteOffsetOfLineStart returns the char offset of the position right
// after the lineIdx-th (1-based) line break in text.
func byteOffsetOfLineStart(text string, lineIdx int) int {
	seen := 0
	charPos := 0
	for i := 0; i < len(text); {
		le, width := DetectLineEndingAt(text, i)
		if width == 0 {
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
			charPos++
			continue
		}
		seen++
		i += width
		charPos += le.LenChars()
		if seen == lineIdx {
			return charPos
		}
	}
	return charPos
}
