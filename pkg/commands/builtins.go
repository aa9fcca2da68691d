package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nrframe/texcore/pkg/cmdline"
	"github.com/nrframe/texcore/pkg/config"
	"github.com/nrframe/texcore/pkg/document"
	"github.com/nrframe/texcore/pkg/rope"
	"github.com/nrframe/texcore/pkg/selection"
)

func registerBuiltins(r *Registry) {
	r.Register(&Command{
		Name:      "quit",
		Aliases:   []string{"q"},
		Signature: cmdline.Signature{HasMaxPositionals: true},
		Run:       r.cmdQuit(false),
	})
	r.Register(&Command{
		Name:      "quit!",
		Aliases:   []string{"q!"},
		Signature: cmdline.Signature{HasMaxPositionals: true},
		Run:       r.cmdQuit(true),
	})
	r.Register(&Command{
		Name:      "write",
		Aliases:   []string{"w"},
		Signature: cmdline.Signature{MaxPositionals: 1, HasMaxPositionals: true},
		Run:       r.cmdWrite(false),
	})
	r.Register(&Command{
		Name:      "write!",
		Aliases:   []string{"w!"},
		Signature: cmdline.Signature{MaxPositionals: 1, HasMaxPositionals: true},
		Run:       r.cmdWrite(true),
	})
	r.Register(&Command{
		Name:      "buffer-close",
		Aliases:   []string{"bc"},
		Signature: cmdline.Signature{},
		Run:       r.cmdBufferClose,
	})
	r.Register(&Command{
		Name:      "set-option",
		Aliases:   []string{"set"},
		Signature: cmdline.Signature{MinPositionals: 2, MaxPositionals: 2, HasMaxPositionals: true, HasRawAfter: true, RawAfter: 1},
		Run:       r.cmdSetOption,
	})
	r.Register(&Command{
		Name:      "toggle-option",
		Aliases:   []string{"toggle"},
		Signature: cmdline.Signature{MinPositionals: 1, HasRawAfter: true, RawAfter: 1},
		Run:       r.cmdToggleOption,
	})
	r.Register(&Command{
		Name:      "set-language",
		Aliases:   []string{"lang"},
		Signature: cmdline.Signature{MinPositionals: 1, MaxPositionals: 1, HasMaxPositionals: true},
		Run:       r.cmdSetLanguage,
	})
	r.Register(&Command{
		Name: "sort",
		Signature: cmdline.Signature{
			HasMaxPositionals: true,
			Flags:             []cmdline.Flag{{Name: "reverse", Alias: 'r'}},
		},
		Run: r.cmdSort(false),
	})
	r.Register(&Command{
		Name: "rsort",
		Signature: cmdline.Signature{
			HasMaxPositionals: true,
			Flags:             []cmdline.Flag{{Name: "reverse", Alias: 'r'}},
		},
		Run: r.cmdSort(true),
	})
	r.Register(&Command{
		Name:      "goto",
		Aliases:   []string{"g"},
		Signature: cmdline.Signature{MinPositionals: 1, MaxPositionals: 1, HasMaxPositionals: true},
		Run:       r.cmdGoto,
	})
	r.Register(&Command{
		Name:      "run-shell-command",
		Aliases:   []string{"sh"},
		Signature: cmdline.Signature{MinPositionals: 1},
		Run:       r.cmdRunShellCommand,
	})
	r.Register(&Command{
		Name:      "open",
		Aliases:   []string{"o"},
		Signature: cmdline.Signature{MinPositionals: 1},
		Run:       r.cmdOpen,
	})
	r.Register(&Command{
		Name:      "reflow",
		Signature: cmdline.Signature{MaxPositionals: 1, HasMaxPositionals: true},
		Run:       r.cmdReflow,
	})
}

func (r *Registry) cmdQuit(force bool) HandlerFunc {
	return func(ctx *ExecContext, args *cmdline.Args) error {
		if !force {
			views := ctx.Manager.ListViews()
			if len(views) <= 1 && r.IsDirty(ctx.View.Document()) {
				return fmt.Errorf("unsaved changes (add ! to force)")
			}
		}
		ctx.Manager.CloseView(ctx.View.ID())
		return nil
	}
}

func (r *Registry) cmdWrite(createDirs bool) HandlerFunc {
	return func(ctx *ExecContext, args *cmdline.Args) error {
		doc := ctx.View.Document()
		path, ok := args.First()
		if !ok {
			st := r.bufferState(doc.ID())
			if st.path == "" {
				return fmt.Errorf("no file name")
			}
			path = st.path
		}

		if createDirs {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}

		if err := os.WriteFile(path, []byte(doc.Text().String()), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		r.markSaved(doc, path)
		return nil
	}
}

func (r *Registry) cmdBufferClose(ctx *ExecContext, args *cmdline.Args) error {
	if args.IsEmpty() {
		id := ctx.View.Document().ID()
		if !ctx.Manager.CloseView(ctx.View.ID()) {
			return fmt.Errorf("no current buffer")
		}
		r.forgetBuffer(id)
		return nil
	}
	for _, idStr := range args.Positionals() {
		n, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid buffer id '%s'", idStr)
		}
		r.forgetBuffer(config.DocumentID(n))
	}
	return nil
}

func (r *Registry) cmdSetOption(ctx *ExecContext, args *cmdline.Args) error {
	key, _ := args.Get(0)
	value, _ := args.Get(1)
	scope := ctx.View.Document().ConfigScope()
	return ctx.Store.Set(scope, key, parseOptionValue(value))
}

func (r *Registry) cmdToggleOption(ctx *ExecContext, args *cmdline.Args) error {
	key, _ := args.First()
	scope := ctx.View.Document().ConfigScope()

	if args.Len() > 1 {
		value, _ := args.Get(1)
		return ctx.Store.Set(scope, key, parseOptionValue(value))
	}

	current, ok := ctx.Store.Get(scope, key)
	if !ok {
		return fmt.Errorf("unknown option '%s'", key)
	}
	b, ok := current.(bool)
	if !ok {
		return fmt.Errorf("option '%s' is not a boolean, pass an explicit value to toggle it", key)
	}
	return ctx.Store.Set(scope, key, !b)
}

func (r *Registry) cmdSetLanguage(ctx *ExecContext, args *cmdline.Args) error {
	language, _ := args.First()
	ctx.View.Document().SetLanguage(language)
	return nil
}

// cmdGoto moves the cursor to the start of the given 1-indexed line,
// clamping out-of-range requests to the nearest real line rather than
// erroring (spec section 8, scenario S6).
func (r *Registry) cmdGoto(ctx *ExecContext, args *cmdline.Args) error {
	lineStr, _ := args.First()
	line, err := strconv.Atoi(lineStr)
	if err != nil {
		return fmt.Errorf("invalid line number '%s'", lineStr)
	}

	text := ctx.View.Document().Text()
	_, lastLine := selectionLineRange(text, selection.Point(0))
	target := line - 1
	if target < 0 {
		target = 0
	}
	if target > lastLine {
		target = lastLine
	}
	pos, err := text.LineToChar(target)
	if err != nil {
		return fmt.Errorf("goto %d: %w", line, err)
	}

	ctx.View.SetSelection(selection.Single(pos, pos))
	return nil
}

func (r *Registry) cmdRunShellCommand(ctx *ExecContext, args *cmdline.Args) error {
	out, err := ctx.Shell.Run(context.Background(), args.Join(" "), nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, out)
	return nil
}

// cmdOpen reads each argument path from disk into a new buffer and opens a
// view onto it, focusing the last one opened. An arg may carry a trailing
// `:line[:col]` position, applied once the buffer's content is loaded.
func (r *Registry) cmdOpen(ctx *ExecContext, args *cmdline.Args) error {
	for _, arg := range args.Positionals() {
		path, line, col := splitOpenPosition(arg)

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}

		id := r.nextDocID()
		doc := document.New(ctx.Store, id, languageForExt(filepath.Ext(path)), string(content))
		view := ctx.Manager.OpenView(doc)
		r.markSaved(doc, path)

		if line > 0 {
			text := doc.Text()
			_, lastLine := selectionLineRange(text, selection.Point(0))
			target := line - 1
			if target < 0 {
				target = 0
			}
			if target > lastLine {
				target = lastLine
			}
			pos, err := text.LineToChar(target)
			if err == nil {
				if col > 0 {
					lineLen, lerr := text.LineLength(target)
					if lerr == nil {
						c := col - 1
						if c > lineLen {
							c = lineLen
						}
						pos += c
					}
				}
				view.SetSelection(selection.Single(pos, pos))
			}
		}

		ctx.View = view
	}
	return nil
}

// splitOpenPosition splits "path:line:col" or "path:line" off of arg. A
// trailing segment that doesn't parse as a line (and, for three parts, a
// column) is treated as part of the path instead.
func splitOpenPosition(arg string) (path string, line, col int) {
	parts := strings.Split(arg, ":")
	if len(parts) >= 3 {
		if l, err := strconv.Atoi(parts[len(parts)-2]); err == nil {
			if c, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
				return strings.Join(parts[:len(parts)-2], ":"), l, c
			}
		}
	}
	if len(parts) >= 2 {
		if l, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			return strings.Join(parts[:len(parts)-1], ":"), l, 0
		}
	}
	return arg, 0, 0
}

var extLanguages = map[string]string{
	".rs":   "rust",
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".ts":   "typescript",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".toml": "toml",
	".md":   "markdown",
	".json": "json",
}

func languageForExt(ext string) string {
	if lang, ok := extLanguages[ext]; ok {
		return lang
	}
	return "text"
}

// cmdReflow rewraps the paragraphs spanned by the primary selection (or the
// whole buffer, for a bare cursor) to the given width, falling back to the
// document's configured text-width when no width argument is given.
func (r *Registry) cmdReflow(ctx *ExecContext, args *cmdline.Args) error {
	width := 0
	if w, ok := args.First(); ok {
		n, err := strconv.Atoi(w)
		if err != nil {
			return fmt.Errorf("invalid width '%s'", w)
		}
		width = n
	} else if v, ok := ctx.Store.Get(ctx.View.Document().ConfigScope(), "text-width"); ok {
		switch n := v.(type) {
		case int64:
			width = int(n)
		case float64:
			width = int(n)
		}
	}
	if width <= 0 {
		width = 80
	}

	doc := ctx.View.Document()
	text := doc.Text()
	sel := ctx.View.Selection().Primary()
	startLine, endLine := selectionLineRange(text, sel)

	lines := make([]string, 0, endLine-startLine+1)
	for i := startLine; i <= endLine; i++ {
		lines = append(lines, text.Line(i))
	}
	wrapped := reflowLines(lines, width)

	startChar, err := text.LineToChar(startLine)
	if err != nil {
		return fmt.Errorf("reflow: %w", err)
	}
	endChar, err := text.LineToChar(endLine)
	if err != nil {
		return fmt.Errorf("reflow: %w", err)
	}
	lineLen, err := text.LineLength(endLine)
	if err != nil {
		return fmt.Errorf("reflow: %w", err)
	}
	endChar += lineLen

	replacement := strings.Join(wrapped, doc.LineEnding().String())

	cs := rope.NewChangeSet(text.Length())
	cs.Retain(startChar)
	cs.Delete(endChar - startChar)
	cs.Insert(replacement)
	cs.Retain(text.Length() - endChar)

	return doc.Apply(cs)
}

// reflowLines greedily fills words into lines no wider than width, treating
// blank lines as paragraph separators that pass through unchanged.
func reflowLines(lines []string, width int) []string {
	var out []string
	var para []string

	flush := func() {
		if len(para) == 0 {
			return
		}
		words := strings.Fields(strings.Join(para, " "))
		var cur strings.Builder
		for _, w := range words {
			switch {
			case cur.Len() == 0:
				cur.WriteString(w)
			case cur.Len()+1+len(w) <= width:
				cur.WriteByte(' ')
				cur.WriteString(w)
			default:
				out = append(out, cur.String())
				cur.Reset()
				cur.WriteString(w)
			}
		}
		if cur.Len() > 0 {
			out = append(out, cur.String())
		}
		para = nil
	}

	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			flush()
			out = append(out, l)
		} else {
			para = append(para, l)
		}
	}
	flush()
	return out
}

// cmdSort sorts the lines spanned by the view's primary selection,
// ascending unless descending (set by the command's own reverse flag, or
// flipped by --reverse). A cursor with no selection sorts the whole
// document, the common "sort the buffer" shorthand.
func (r *Registry) cmdSort(descending bool) HandlerFunc {
	return func(ctx *ExecContext, args *cmdline.Args) error {
		if args.HasFlag("reverse") {
			descending = !descending
		}
		doc := ctx.View.Document()
		text := doc.Text()
		sel := ctx.View.Selection().Primary()

		startLine, endLine := selectionLineRange(text, sel)
		lines := make([]string, 0, endLine-startLine+1)
		for i := startLine; i <= endLine; i++ {
			lines = append(lines, text.Line(i))
		}

		sort.SliceStable(lines, func(i, j int) bool {
			if descending {
				return lines[i] > lines[j]
			}
			return lines[i] < lines[j]
		})

		startChar, err := text.LineToChar(startLine)
		if err != nil {
			return fmt.Errorf("sort: %w", err)
		}
		endChar, err := text.LineToChar(endLine)
		if err != nil {
			return fmt.Errorf("sort: %w", err)
		}
		lineLen, err := text.LineLength(endLine)
		if err != nil {
			return fmt.Errorf("sort: %w", err)
		}
		endChar += lineLen

		replacement := strings.Join(lines, doc.LineEnding().String())

		cs := rope.NewChangeSet(text.Length())
		cs.Retain(startChar)
		cs.Delete(endChar - startChar)
		cs.Insert(replacement)
		cs.Retain(text.Length() - endChar)

		return doc.Apply(cs)
	}
}

// selectionLineRange returns the inclusive 0-indexed line range a
// selection range spans. A cursor (zero-length range) spans the whole
// document, since there's nothing else to sort - except the phantom empty
// final line a trailing line break produces, which isn't a real line to
// reorder.
func selectionLineRange(text *rope.Rope, sel selection.Range) (int, int) {
	if sel.IsCursor() {
		endLine := text.LineCount() - 1
		if endLine > 0 {
			if start, err := text.LineToChar(endLine); err == nil && start == text.Length() {
				endLine--
			}
		}
		return 0, endLine
	}
	startLine, _ := text.CharToLine(sel.From())
	endLine, _ := text.CharToLine(sel.To())
	return startLine, endLine
}

func parseOptionValue(raw string) interface{} {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
