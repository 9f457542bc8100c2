package entry

import (
	"math/rand"
	"testing"

	"tableflip.dev/jot/pkg/glyph"
)

func kinds(l *List) []string {
	out := make([]string, 0, l.Len())
	for _, e := range l.Entries() {
		switch {
		case e.Placeholder:
			out = append(out, "_")
		case e.IsHeader():
			out = append(out, "#"+e.Content)
		case e.IsTask():
			out = append(out, "-"+e.Content)
		default:
			out = append(out, e.Content)
		}
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewListEmpty(t *testing.T) {
	l := NewList()
	if got := kinds(l); !equal(got, []string{"_"}) {
		t.Fatalf("expected a single placeholder, got %v", got)
	}
}

func TestEnsurePlaceholders(t *testing.T) {
	l := &List{entries: []*Entry{
		New("## Work"),
		New("- ship it"),
		New("## Home"),
		New("note"),
	}}
	if !l.EnsurePlaceholders() {
		t.Fatalf("expected a change")
	}
	want := []string{"_", "#Work", "-ship it", "_", "#Home", "note", "_"}
	if got := kinds(l); !equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if err := l.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
	if l.EnsurePlaceholders() {
		t.Fatalf("second pass should be a no-op")
	}
}

func TestEnsurePlaceholdersCollapsesRuns(t *testing.T) {
	l := &List{entries: []*Entry{New("a"), NewPlaceholder(), NewPlaceholder()}}
	l.EnsurePlaceholders()
	if got := kinds(l); !equal(got, []string{"a", "_"}) {
		t.Fatalf("expected run collapsed, got %v", got)
	}
}

func TestEnsurePlaceholdersIdempotentRandom(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	texts := []string{"## h", "- t", "n", ""}
	for round := 0; round < 200; round++ {
		n := r.Intn(8)
		l := &List{}
		for i := 0; i < n; i++ {
			if r.Intn(4) == 0 {
				l.entries = append(l.entries, NewPlaceholder())
				continue
			}
			l.entries = append(l.entries, New(texts[r.Intn(len(texts))]))
		}
		l.EnsurePlaceholders()
		if err := l.CheckInvariants(); err != nil {
			t.Fatalf("round %d: %v (%v)", round, err, kinds(l))
		}
		once := kinds(l)
		if l.EnsurePlaceholders() {
			t.Fatalf("round %d: second pass changed %v into %v", round, once, kinds(l))
		}
	}
}

func TestAddEntry(t *testing.T) {
	l := NewList(New("a"), New("b"), New("c"))
	added := l.AddEntry(0, "x")
	if l.At(1) != added {
		t.Fatalf("expected new entry at 1, got %v", kinds(l))
	}
	if err := l.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}

	appended := l.AddEntry(99, "z")
	if l.IndexOf(appended) != l.Len()-2 {
		t.Fatalf("expected append before the new trailing placeholder, got %v", kinds(l))
	}
	if err := l.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestAddEntryHeaderGetsSeparator(t *testing.T) {
	l := NewList(New("a"))
	h := l.AddEntry(0, "## Later")
	i := l.IndexOf(h)
	if !l.At(i - 1).Placeholder {
		t.Fatalf("expected placeholder before header, got %v", kinds(l))
	}
}

func TestAppendFillsPlaceholder(t *testing.T) {
	l := NewList()
	e := l.Append("- first")
	if got := kinds(l); !equal(got, []string{"-first", "_"}) {
		t.Fatalf("unexpected list %v", got)
	}
	if e.Placeholder {
		t.Fatalf("appended entry must not stay a placeholder")
	}
}

func TestRemoveEntryRestoresTrailingPlaceholder(t *testing.T) {
	l := NewList(New("a"))
	last := l.Last()
	l.RemoveEntry(last)
	if err := l.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
	if got := kinds(l); !equal(got, []string{"a", "_"}) {
		t.Fatalf("unexpected list %v", got)
	}
}

func TestRemoveHeaderCollapsesSeparators(t *testing.T) {
	l := NewList(New("a"), New("## h"))
	var h *Entry
	for _, e := range l.Entries() {
		if e.IsHeader() {
			h = e
		}
	}
	l.RemoveEntry(h)
	if got := kinds(l); !equal(got, []string{"a", "_"}) {
		t.Fatalf("unexpected list %v", got)
	}
}

func TestSetContentPromotesPlaceholder(t *testing.T) {
	l := NewList(New("a"))
	p := l.Last()
	l.SetContent(p, "- b")
	if p.Placeholder || !p.IsTask() || p.Content != "b" {
		t.Fatalf("unexpected entry %+v", p)
	}
	if got := kinds(l); !equal(got, []string{"a", "-b", "_"}) {
		t.Fatalf("unexpected list %v", got)
	}
}

func TestSetContentToHeaderInsertsSeparator(t *testing.T) {
	l := NewList(New("a"), New("b"))
	l.SetContent(l.At(1), "## b")
	if got := kinds(l); !equal(got, []string{"a", "_", "#b", "_"}) {
		t.Fatalf("unexpected list %v", got)
	}
}

func TestBackspaceTaskDemotes(t *testing.T) {
	l := NewList(New("a"), New("- "))
	task := l.At(1)
	focus := l.Backspace(task)
	if focus != task {
		t.Fatalf("focus should stay on the demoted entry")
	}
	if !task.IsNote() || l.IndexOf(task) != 1 {
		t.Fatalf("task should be kept as a note, got %v", kinds(l))
	}
}

func TestBackspaceNoteRemoves(t *testing.T) {
	l := NewList(New("a"), New(""))
	prev := l.At(0)
	empty := l.At(1)
	focus := l.Backspace(empty)
	if focus != prev {
		t.Fatalf("focus should move to the previous entry")
	}
	if l.IndexOf(empty) >= 0 {
		t.Fatalf("empty note should be removed, got %v", kinds(l))
	}
	if err := l.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestBackspaceFirstEntryKept(t *testing.T) {
	l := NewList(New(""), New("b"))
	first := l.At(0)
	if focus := l.Backspace(first); focus != first {
		t.Fatalf("first entry should keep focus")
	}
	if l.At(0) != first {
		t.Fatalf("first entry must not be removed")
	}
}

func TestBackspaceNonEmptyIgnored(t *testing.T) {
	l := NewList(New("a"), New("b"))
	b := l.At(1)
	if l.Backspace(b) != b || l.IndexOf(b) != 1 {
		t.Fatalf("non-empty entry must not be touched")
	}
}

func TestBackspacePlaceholderMovesFocus(t *testing.T) {
	l := NewList(New("a"))
	p := l.Last()
	if focus := l.Backspace(p); focus != l.At(0) {
		t.Fatalf("expected focus to move up")
	}
	if l.Last() != p {
		t.Fatalf("placeholder must not be replaced")
	}
}

func TestEnter(t *testing.T) {
	l := NewList(New("- a"), New("b"))
	task := l.At(0)
	n := l.Enter(task)
	if l.IndexOf(n) != 1 || !n.IsTask() || n.Content != "" {
		t.Fatalf("expected a new empty task after the task, got %v", kinds(l))
	}
	last := l.At(l.Len() - 2)
	if focus := l.Enter(last); focus != l.Last() {
		t.Fatalf("enter before a placeholder should focus it")
	}
}

func TestPaste(t *testing.T) {
	l := NewList(New("a"))
	p := l.Last()
	written := l.Paste(p, "one\r\n\n  - two  \n## three\n")
	if len(written) != 3 {
		t.Fatalf("expected 3 entries written, got %d", len(written))
	}
	want := []string{"a", "one", "-two", "_", "#three", "_"}
	if got := kinds(l); !equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestChangeHook(t *testing.T) {
	l := NewList()
	var calls int
	l.OnChange(func(*Entry) { calls++ })
	e := l.Append("x")
	l.SetContent(e, "x")
	l.SetDone(e, false)
	if calls != 1 {
		t.Fatalf("no-op edits must not notify, got %d calls", calls)
	}
	l.ToggleCheck(e)
	l.SetLink(e, &Link{URL: "https://example.com"})
	l.SetLink(e, &Link{URL: "https://example.com"})
	l.RemoveEntry(e)
	if calls != 4 {
		t.Fatalf("expected 4 calls, got %d", calls)
	}
}

func TestRecordsSkipPlaceholders(t *testing.T) {
	l := NewList(New("## h"), New("- t"))
	recs := l.Records("")
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Type != glyph.Header || recs[1].Type != glyph.Task {
		t.Fatalf("unexpected records %+v", recs)
	}
}

func TestAppendAsStoresVerbatim(t *testing.T) {
	l := NewList(New("first"))
	e := l.AppendAs(glyph.Note, "- not a task", true)
	if !e.IsNote() || e.Content != "- not a task" || e.Done || e.Placeholder {
		t.Fatalf("unexpected entry %+v", e)
	}
	h := l.AppendAs(glyph.Header, "## sub", false)
	if !h.IsHeader() || h.Content != "## sub" {
		t.Fatalf("unexpected header %+v", h)
	}
	if err := l.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
	if i := l.IndexOf(h); !l.At(i - 1).Placeholder || !l.Last().Placeholder {
		t.Fatalf("placeholders not restored around header")
	}
}
