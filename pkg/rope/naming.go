// Code: texere/pkg/rope/naming.go
//
// This file documents the API naming conventions used in the rope package.
// It serves as a reference for understanding the patterns and consistency
// across the API surface.

/*
API NAMING CONVENTIONS
======================

1. POSITION-BASED OPERATIONS
   Pattern: *At(pos int)
   - CharAt(pos) - Get rune at character position
   - ByteAt(pos) - Get byte at byte position
   - GraphemeAt(pos) - Get grapheme cluster at character position

2. BYTE-BASED OPERATIONS
   Pattern: *Bytes()
   - LengthBytes() - Get length in bytes
   - Bytes() - Get content as byte slice
   - ByteAt(pos) - Get byte at position

3. CHARACTER/RUNE-BASED OPERATIONS
   Pattern: *Char*() or *Rune()
   - LengthChars() - Get length in characters
   - CharAt(pos) - Get rune at position
   - Runes() - Get all runes

4. GRAPHEME CLUSTER OPERATIONS
   Pattern: *Grapheme*()
   - Graphemes() - Get grapheme iterator
   - LenGraphemes() - Count grapheme clusters
   - IsGraphemeBoundary(pos) - Check for a cluster boundary
   - NextGraphemeBoundary(pos) / PrevGraphemeBoundary(pos) - Step one cluster

5. LINE-BASED OPERATIONS
   Pattern: *Line*()
   - Line(lineNum) - Get line content
   - Lines() - Get all lines
   - LineCount() - Count lines
   - LineStart(lineNum) / LineEnd(lineNum) - Get a line's char bounds
   - CharToLine(pos) / LineToChar(lineNum) - Convert between chars and lines

6. QUERY OPERATIONS (no mutation)
   Pattern: Is*(), Has*(), Can*()
   - IsLeaf() - Check if node is leaf
   - IsGraphemeBoundary(pos) - Check for a cluster boundary
   - HasCRLF(text) - Check for CRLF sequences
   - CanAppendWithoutRebalancing() - Check if efficient to append

7. METADATA OPERATIONS
   Pattern: Size, Newlines, Chunk*
   - Size() - Get size in bytes (use LengthBytes() instead)
   - Newlines() - Get line-break count
   - ChunkCount() - Get number of chunks

8. TRANSFORMATION OPERATIONS (return new Rope)
   - Insert(pos, text) - Insert text (returns *Rope, error)
   - Delete(start, end) - Delete range (returns *Rope, error)
   - Replace(start, end, text) - Replace range (returns *Rope, error)
   - Split(pos) - Split into two (returns *Rope, *Rope, error)
   - Concat(other) - Concatenate (returns *Rope)
   - Clone() - Create copy (returns *Rope)

9. ITERATOR OPERATIONS
   Pattern: *Iterator() or Iter*()
   - NewIterator() - Create new forward rune iterator
   - IteratorAt(pos) - Create forward rune iterator starting at pos
   - NewBytesIterator() - Create byte iterator
   - Chunks() - Create chunk iterator
   - Graphemes() - Create grapheme iterator

10. BUILDER OPERATIONS
    Pattern: Method chaining with *Builder
    - NewBuilder() - Create new builder
    - Append(text) - Add to end (returns *Builder)
    - Insert(pos, text) - Insert at position (returns *Builder)
    - Delete(start, end) - Delete range (returns *Builder)
    - Build() - Build final Rope (returns *Rope)

DEPRECATED NAMES (use alternatives instead)
    - Size() → Use LengthBytes() instead

ERROR HANDLING CONVENTIONS
--------------------------
These operations return (result, error):
- Bounds checking: Insert, Delete, Replace, Split, Slice, CharAt, ByteAt

Builder operations discard errors. Iterators report exhaustion through
Next() bool; Current() panics when the iterator is not positioned on an
element. The chunk lookups (ChunkAtChar, ChunksAtChar, ...) panic on an
out-of-range index.

Operations that don't fail:
- Length queries: Length(), LengthBytes(), LengthChars()
- Content access: String(), Bytes() (no bounds checking)
- Concatenation: Concat() (always valid)
- Cloning: Clone() (immutable, no copy needed)
- Search: Contains(), Index(), LastIndex() (return -1 if not found)

CONSISTENCY RULES
----------------
1. Always use "start, end" for ranges (end is exclusive)
2. Character positions are 0-indexed
3. Byte positions are 0-indexed
4. Line numbers are 0-indexed
5. All mutation operations return a new Rope (immutable)
6. Methods that can fail MUST return (result, error)
7. Query methods that can't find something return -1 or false, not error
8. Iterator methods follow: Next() bool, Current() T, Reset()
*/
package rope

// This file contains only documentation. No code is needed.
// The conventions are documented here for reference and to ensure
// consistency across future additions to the API.
