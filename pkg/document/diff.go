package document

import (
	"strings"
	"sync"

	"github.com/nrframe/texcore/pkg/movement"
	"github.com/nrframe/texcore/pkg/rope"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// HunkKind classifies a diff hunk the way a gutter diff marker would.
type HunkKind int

const (
	HunkChange HunkKind = iota
	HunkInsert
	HunkDelete
)

// Hunk is a single changed region between a document's baseline snapshot
// and its current text, expressed as an inclusive 0-indexed line range in
// the CURRENT text. A HunkDelete carries no surviving lines of its own
// (StartLine == EndLine), anchored to the line immediately following the
// deletion point, the same convention a gutter diff marker uses.
type Hunk struct {
	Kind               HunkKind
	StartLine, EndLine int
}

var dmpOnce sync.Once
var dmp *diffmatchpatch.DiffMatchPatch

func sharedDMP() *diffmatchpatch.DiffMatchPatch {
	dmpOnce.Do(func() { dmp = diffmatchpatch.New() })
	return dmp
}

// SetBaseline replaces the snapshot Hunks are computed against, e.g.
// with the file's VCS head revision or its on-disk contents as of the
// last save.
func (d *Document) SetBaseline(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.baseline = rope.New(text)
}

// Hunks diffs the document's current text against its stored baseline
// and returns the resulting line hunks, in current-text line order.
func (d *Document) Hunks() []Hunk {
	d.mu.RLock()
	baseline := d.baseline.String()
	current := d.text.String()
	d.mu.RUnlock()
	return computeLineHunks(baseline, current)
}

// HunkLookup adapts Hunks into the movement package's HunkLookup
// signature, so the "g" (change hunk) textobject specifier can find the
// hunk overlapping a given line.
func (d *Document) HunkLookup() movement.HunkLookup {
	return func(line int) (int, int, bool) {
		for _, h := range d.Hunks() {
			if line >= h.StartLine && line <= h.EndLine {
				return h.StartLine, h.EndLine, true
			}
		}
		return 0, 0, false
	}
}

func countEncodedLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// computeLineHunks diffs baseline against current in line mode (via
// diffmatchpatch's line-to-chars encoding, the standard technique for
// turning a character-level diff into line-level hunks) and walks the
// result into Hunk ranges expressed in current-text line numbers. A
// delete immediately followed by an insert is merged into one
// HunkChange, matching how a unified diff groups a replaced region.
func computeLineHunks(baseline, current string) []Hunk {
	engine := sharedDMP()
	a, b, lines := engine.DiffLinesToChars(baseline, current)
	diffs := engine.DiffMain(a, b, false)
	diffs = engine.DiffCharsToLines(diffs, lines)
	diffs = engine.DiffCleanupSemantic(diffs)

	var hunks []Hunk
	curLine := 0
	var pending *Hunk

	flush := func() {
		if pending != nil {
			hunks = append(hunks, *pending)
			pending = nil
		}
	}

	for _, entry := range diffs {
		n := countEncodedLines(entry.Text)
		switch entry.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			curLine += n
		case diffmatchpatch.DiffDelete:
			flush()
			pending = &Hunk{Kind: HunkDelete, StartLine: curLine, EndLine: curLine}
		case diffmatchpatch.DiffInsert:
			if pending != nil && pending.Kind == HunkDelete {
				pending.Kind = HunkChange
				pending.EndLine = curLine + n - 1
				hunks = append(hunks, *pending)
				pending = nil
			} else {
				hunks = append(hunks, Hunk{Kind: HunkInsert, StartLine: curLine, EndLine: curLine + n - 1})
			}
			curLine += n
		}
	}
	flush()
	return hunks
}
