package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nrframe/texcore/pkg/cmdline"
	"github.com/nrframe/texcore/pkg/config"
	"github.com/nrframe/texcore/pkg/document"
	"github.com/nrframe/texcore/pkg/rope"
	"github.com/nrframe/texcore/pkg/session"
	"github.com/nrframe/texcore/pkg/shell"
)

func identityExpand(tok cmdline.Token) (string, error) {
	return tok.Content, nil
}

func newTestContext(t *testing.T, text string) (*Registry, *ExecContext) {
	t.Helper()
	store := config.New()
	doc := document.New(store, 1, "plain", text)
	mgr := session.NewManager()
	view := mgr.OpenView(doc)

	r := NewRegistry()
	ctx := &ExecContext{
		View:    view,
		Manager: mgr,
		Store:   store,
		Shell:   shell.New([]string{"sh", "-c"}),
	}
	return r, ctx
}

func TestExecuteUnknownCommand(t *testing.T) {
	r, ctx := newTestContext(t, "")
	if err := r.Execute(ctx, "bogus", identityExpand); err == nil {
		t.Fatal("expected an error for an unknown command")
	}
}

func TestSetAndGetOption(t *testing.T) {
	r, ctx := newTestContext(t, "")
	if err := r.Execute(ctx, "set tab-width 2", identityExpand); err != nil {
		t.Fatalf("set-option: %v", err)
	}
	v, ok := ctx.Store.Get(ctx.View.Document().ConfigScope(), "tab-width")
	if !ok {
		t.Fatal("expected tab-width to be set")
	}
	if v != int64(2) {
		t.Errorf("tab-width = %v (%T), want int64(2)", v, v)
	}
}

func TestToggleOptionFlipsBoolean(t *testing.T) {
	r, ctx := newTestContext(t, "")
	scope := ctx.View.Document().ConfigScope()
	if err := ctx.Store.Set(scope, "line-numbers", true); err != nil {
		t.Fatal(err)
	}

	if err := r.Execute(ctx, "toggle line-numbers", identityExpand); err != nil {
		t.Fatalf("toggle-option: %v", err)
	}
	v, _ := ctx.Store.Get(scope, "line-numbers")
	if v != false {
		t.Errorf("line-numbers = %v, want false after toggling true", v)
	}
}

func TestSetLanguageReparentsScope(t *testing.T) {
	r, ctx := newTestContext(t, "")
	before := ctx.View.Document().ConfigScope()

	if err := r.Execute(ctx, "lang rust", identityExpand); err != nil {
		t.Fatalf("set-language: %v", err)
	}
	if ctx.View.Document().Language() != "rust" {
		t.Errorf("Language() = %q, want rust", ctx.View.Document().Language())
	}
	if ctx.View.Document().ConfigScope() == before {
		t.Error("expected the config scope to change when the language changes")
	}
}

func TestGotoMovesCursorToLineStart(t *testing.T) {
	r, ctx := newTestContext(t, "one\ntwo\nthree\n")
	if err := r.Execute(ctx, "goto 2", identityExpand); err != nil {
		t.Fatalf("goto: %v", err)
	}
	if got := ctx.View.Selection().Primary().Cursor(); got != 4 {
		t.Errorf("cursor = %d, want 4 (start of line 2)", got)
	}
}

func TestGotoOutOfRangeClampsToLastLine(t *testing.T) {
	r, ctx := newTestContext(t, "line1\nline2\nline3\n")
	if err := r.Execute(ctx, "goto 99", identityExpand); err != nil {
		t.Fatalf("goto: %v", err)
	}
	if got := ctx.View.Selection().Primary().Cursor(); got != 12 {
		t.Errorf("cursor = %d, want 12 (start of the last real line)", got)
	}
}

func TestSortWholeBufferAscending(t *testing.T) {
	r, ctx := newTestContext(t, "banana\napple\ncherry\n")
	if err := r.Execute(ctx, "sort", identityExpand); err != nil {
		t.Fatalf("sort: %v", err)
	}
	want := "apple\nbanana\ncherry\n"
	if got := ctx.View.Document().Text().String(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestRsortDescending(t *testing.T) {
	r, ctx := newTestContext(t, "banana\napple\ncherry\n")
	if err := r.Execute(ctx, "rsort", identityExpand); err != nil {
		t.Fatalf("rsort: %v", err)
	}
	want := "cherry\nbanana\napple\n"
	if got := ctx.View.Document().Text().String(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestWriteAndQuitDirtyCheck(t *testing.T) {
	r, ctx := newTestContext(t, "hello")
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if err := r.Execute(ctx, "write "+path, identityExpand); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Errorf("file content = %q, want %q", got, "hello")
	}
	if r.IsDirty(ctx.View.Document()) {
		t.Error("expected the buffer to be clean right after write")
	}

	if err := r.Execute(ctx, "quit", identityExpand); err != nil {
		t.Fatalf("quit after a clean write should succeed: %v", err)
	}
}

func TestOpenCreatesViewAndDetectsLanguage(t *testing.T) {
	r, ctx := newTestContext(t, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rs")
	if err := os.WriteFile(path, []byte("fn main() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := r.Execute(ctx, "open "+path, identityExpand); err != nil {
		t.Fatalf("open: %v", err)
	}
	if ctx.View.Document().Language() != "rust" {
		t.Errorf("Language() = %q, want rust", ctx.View.Document().Language())
	}
	if got := ctx.View.Document().Text().String(); got != "fn main() {}\n" {
		t.Errorf("Text() = %q", got)
	}
	if r.IsDirty(ctx.View.Document()) {
		t.Error("a freshly opened buffer should not be dirty")
	}
}

func TestOpenWithLineColumnPosition(t *testing.T) {
	r, ctx := newTestContext(t, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := r.Execute(ctx, "open "+path+":2:2", identityExpand); err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := ctx.View.Selection().Primary().Cursor(); got != 5 {
		t.Errorf("cursor = %d, want 5 (line 2 col 2)", got)
	}
}

func TestReflowWrapsParagraph(t *testing.T) {
	r, ctx := newTestContext(t, "one two three four five\n")
	if err := r.Execute(ctx, "reflow 11", identityExpand); err != nil {
		t.Fatalf("reflow: %v", err)
	}
	want := "one two\nthree four\nfive\n"
	if got := ctx.View.Document().Text().String(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestExpandResolvesVariablesAndShell(t *testing.T) {
	r, ctx := newTestContext(t, "hello\nworld\n")
	if err := r.Execute(ctx, "goto 2", identityExpand); err != nil {
		t.Fatalf("goto: %v", err)
	}

	got, err := expandPercentContent("line %{line} says %sh{echo hi}", ctx.resolveExpansion)
	if err != nil {
		t.Fatalf("expandPercentContent: %v", err)
	}
	want := "line 2 says hi"
	if got != want {
		t.Errorf("expanded = %q, want %q", got, want)
	}
}

func TestExpandUnicodeAndLiteralPercent(t *testing.T) {
	_, ctx := newTestContext(t, "")
	got, err := expandPercentContent("%u{41}%%", ctx.resolveExpansion)
	if err != nil {
		t.Fatalf("expandPercentContent: %v", err)
	}
	if got != "A%" {
		t.Errorf("expanded = %q, want %q", got, "A%")
	}
}

func TestExpandUnknownVariableIsError(t *testing.T) {
	_, ctx := newTestContext(t, "")
	if _, err := expandPercentContent("%{bogus}", ctx.resolveExpansion); err == nil {
		t.Fatal("expected an error for an unknown expansion variable")
	}
}

func TestQuitRefusesWithUnsavedChanges(t *testing.T) {
	r, ctx := newTestContext(t, "hello")
	doc := ctx.View.Document()

	// Apply an edit so the buffer is dirty, then the lone view should
	// refuse to quit without force.
	cs := rope.NewChangeSet(doc.Text().Length())
	cs.Retain(5).Insert("!")
	if err := doc.Apply(cs); err != nil {
		t.Fatal(err)
	}

	if err := r.Execute(ctx, "quit", identityExpand); err == nil {
		t.Fatal("expected quit to refuse with unsaved changes and only one view")
	}
	if err := r.Execute(ctx, "quit!", identityExpand); err != nil {
		t.Fatalf("quit! should force past unsaved changes: %v", err)
	}
}
