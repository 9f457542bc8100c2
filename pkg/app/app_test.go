package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"tableflip.dev/jot/pkg/entry"
	"tableflip.dev/jot/pkg/glyph"
	"tableflip.dev/jot/pkg/store"
	"tableflip.dev/jot/pkg/store/storetest"
)

type memoryPersistence struct {
	mu    sync.Mutex
	data  []byte
	saves int
	err   error
}

func newMemoryPersistence(records ...entry.Record) *memoryPersistence {
	m := &memoryPersistence{}
	if len(records) > 0 {
		doc := store.NewDocument()
		doc.Entries = records
		m.data, _ = doc.Marshal()
	}
	return m
}

func (m *memoryPersistence) Path() string { return "memory" }

func (m *memoryPersistence) Load(_ context.Context) (*store.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return store.UnmarshalDocument(m.data)
}

func (m *memoryPersistence) Save(_ context.Context, doc *store.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	m.data = data
	m.saves++
	return nil
}

func (m *memoryPersistence) Watch(_ context.Context) (<-chan store.Event, error) {
	return make(chan store.Event), nil
}

func (m *memoryPersistence) setErr(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

func (m *memoryPersistence) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *memoryPersistence) stored(t *testing.T) *store.Document {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, err := store.UnmarshalDocument(m.data)
	if err != nil {
		t.Fatalf("decode stored document: %v", err)
	}
	return doc
}

type fakeTitles struct {
	mu     sync.Mutex
	titles map[string]string
	block  map[string]chan struct{}
}

func (f *fakeTitles) FetchTitle(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	title, ok := f.titles[url]
	ch := f.block[url]
	f.mu.Unlock()
	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if !ok {
		return "", errors.New("no such page")
	}
	return title, nil
}

type fixture struct {
	svc    *Service
	mem    *memoryPersistence
	clock  *storetest.Clock
	titles *fakeTitles
}

func newFixture(t *testing.T, records ...entry.Record) *fixture {
	t.Helper()
	f := &fixture{
		mem:    newMemoryPersistence(records...),
		clock:  storetest.NewClock(),
		titles: &fakeTitles{titles: map[string]string{}, block: map[string]chan struct{}{}},
	}
	f.svc = New(Options{
		Persistence: f.mem,
		Titles:      f.titles,
		Clock:       f.clock,
		SaveDelay:   2 * time.Second,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err := f.svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = f.svc.Close(ctx)
	})
	return f
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (f *fixture) status(t *testing.T) string {
	t.Helper()
	s, err := f.svc.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	return s
}

func (f *fixture) entry(t *testing.T, id string) *entry.Entry {
	t.Helper()
	entries, err := f.svc.Entries(context.Background())
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	for _, e := range entries {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("entry %s not found", id)
	return nil
}

func TestStartEmpty(t *testing.T) {
	f := newFixture(t)
	entries, err := f.svc.Entries(context.Background())
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 1 || !entries[0].Placeholder {
		t.Fatalf("expected a single placeholder, got %v", entries)
	}
	if f.svc.SavePending() {
		t.Fatalf("loading should not schedule a save")
	}
}

func TestNotStarted(t *testing.T) {
	svc := New(Options{Persistence: newMemoryPersistence(), Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	defer svc.Close(context.Background())
	if _, err := svc.Entries(context.Background()); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
}

func TestDebouncedSaveCoalescesBurst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := f.svc.Append(ctx, "- task"); err != nil {
			t.Fatalf("append: %v", err)
		}
		f.clock.Advance(400 * time.Millisecond)
	}
	if n := f.mem.saveCount(); n != 0 {
		t.Fatalf("expected no save during the burst, got %d", n)
	}

	f.clock.Advance(2 * time.Second)
	eventually(t, "saved status", func() bool { return f.status(t) == StatusSaved })
	if n := f.mem.saveCount(); n != 1 {
		t.Fatalf("expected exactly one save, got %d", n)
	}

	doc := f.mem.stored(t)
	if len(doc.Entries) != 5 {
		t.Fatalf("expected 5 stored entries, got %d", len(doc.Entries))
	}
	for _, r := range doc.Entries {
		if r.Type != glyph.Task || r.Content != "- task" {
			t.Fatalf("unexpected record %+v", r)
		}
	}

	f.clock.Advance(StatusDelay)
	eventually(t, "status to clear", func() bool { return f.status(t) == "" })
}

func TestNewerSaveKeepsStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Append(ctx, "first"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.clock.Advance(2 * time.Second)
	eventually(t, "first save", func() bool { return f.status(t) == StatusSaved })

	f.clock.Advance(time.Second)
	if err := f.svc.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := f.status(t); got != StatusSaved {
		t.Fatalf("expected %q, got %q", StatusSaved, got)
	}

	// The first save's clear timer fires now and must leave the newer status.
	f.clock.Advance(2 * time.Second)
	if got := f.status(t); got != StatusSaved {
		t.Fatalf("older save cleared the status: %q", got)
	}

	f.clock.Advance(time.Second)
	if got := f.status(t); got != "" {
		t.Fatalf("expected status to clear, got %q", got)
	}
}

func TestSaveErrorKeepsState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mem.setErr(errors.New("disk full"))

	if _, err := f.svc.Append(ctx, "keep me"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := f.svc.Save(ctx); err == nil {
		t.Fatalf("expected save error")
	}
	if got := f.status(t); got != StatusError {
		t.Fatalf("expected %q, got %q", StatusError, got)
	}
	entries, _ := f.svc.Entries(ctx)
	if len(Numbered(entries)) != 1 {
		t.Fatalf("in-memory state lost: %v", entries)
	}
}

func TestLinkTitleFetched(t *testing.T) {
	f := newFixture(t)
	f.titles.titles["https://example.com"] = "Example Domain"

	e, err := f.svc.Append(context.Background(), "Check this out https://example.com for details")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if e.Link == nil || e.Link.URL != "https://example.com" || e.Link.Title != "" {
		t.Fatalf("expected pending link, got %+v", e.Link)
	}
	eventually(t, "title", func() bool {
		got := f.entry(t, e.ID)
		return got.Link != nil && got.Link.Title == "Example Domain"
	})
}

func TestLinkFetchFailureUsesURL(t *testing.T) {
	f := newFixture(t)
	e, err := f.svc.Append(context.Background(), "https://missing.example/page")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	eventually(t, "fallback title", func() bool {
		got := f.entry(t, e.ID)
		return got.Link != nil && got.Link.Title == "https://missing.example/page"
	})
}

func TestStaleTitleIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	release := make(chan struct{})
	f.titles.mu.Lock()
	f.titles.titles["https://a.example"] = "A"
	f.titles.titles["https://b.example"] = "B"
	f.titles.block["https://a.example"] = release
	f.titles.mu.Unlock()

	e, err := f.svc.Append(ctx, "see https://a.example")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := f.svc.Edit(ctx, e.ID, "see https://b.example"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	close(release)

	eventually(t, "title for the new url", func() bool {
		got := f.entry(t, e.ID)
		return got.Link != nil && got.Link.Title == "B"
	})

	// A late result for the old URL must not land.
	if err := f.svc.loop.Call(ctx, func() { f.svc.applyTitle(e.ID, "https://a.example", "A") }); err != nil {
		t.Fatalf("call: %v", err)
	}
	if got := f.entry(t, e.ID); got.Link.URL != "https://b.example" || got.Link.Title != "B" {
		t.Fatalf("stale title applied: %+v", got.Link)
	}
}

func TestLinkClearedWhenURLRemoved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, _ := f.svc.Append(ctx, "https://example.com")
	got, err := f.svc.Edit(ctx, e.ID, "no link anymore")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got.Link != nil {
		t.Fatalf("expected link to be cleared, got %+v", got.Link)
	}
}

func TestResumeFetchOnStart(t *testing.T) {
	f := newFixture(t, entry.Record{
		Type:     glyph.Note,
		Content:  "https://example.com",
		Metadata: &entry.Link{URL: "https://example.com"},
	})
	f.titles.mu.Lock()
	f.titles.titles["https://example.com"] = "unused"
	f.titles.mu.Unlock()

	entries, _ := f.svc.Entries(context.Background())
	id := Numbered(entries)[0].ID
	eventually(t, "resumed title", func() bool {
		got := f.entry(t, id)
		return got.Link != nil && got.Link.Title != ""
	})
}

func TestEditingThroughService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entries, _ := f.svc.Entries(ctx)
	written, err := f.svc.Paste(ctx, entries[0].ID, "## Today\r\n- one\n\n  two  ")
	if err != nil {
		t.Fatalf("paste: %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("expected 3 pasted entries, got %d", len(written))
	}

	task := written[1]
	next, err := f.svc.Enter(ctx, task.ID)
	if err != nil {
		t.Fatalf("enter: %v", err)
	}
	if !next.IsTask() || next.Content != "" {
		t.Fatalf("expected a new empty task, got %+v", next)
	}

	focus, err := f.svc.Backspace(ctx, next.ID)
	if err != nil {
		t.Fatalf("backspace: %v", err)
	}
	if focus != next.ID || !f.entry(t, next.ID).IsNote() {
		t.Fatalf("expected empty task to become a note in place")
	}
	focus, err = f.svc.Backspace(ctx, next.ID)
	if err != nil {
		t.Fatalf("backspace: %v", err)
	}
	if focus != task.ID {
		t.Fatalf("expected focus to move to the previous entry")
	}

	toggled, err := f.svc.ToggleCheck(ctx, task.ID)
	if err != nil || !toggled.Done {
		t.Fatalf("expected toggled task, got %+v %v", toggled, err)
	}

	if err := f.svc.Remove(ctx, written[2].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := f.svc.Remove(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	entries, _ = f.svc.Entries(ctx)
	l := entry.NewList(entries...)
	if err := l.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
	if n := len(Numbered(entries)); n != 2 {
		t.Fatalf("expected header and task, got %d entries", n)
	}
}

func TestEntryAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.Append(ctx, "## Head")
	f.svc.Append(ctx, "body")

	e, err := f.svc.EntryAt(ctx, 2)
	if err != nil {
		t.Fatalf("entry at: %v", err)
	}
	if e.Content != "body" {
		t.Fatalf("expected body, got %q", e.Content)
	}
	if _, err := f.svc.EntryAt(ctx, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetSetting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.SetSetting(ctx, "backgroundColor", "not-a-color"); err == nil {
		t.Fatalf("expected invalid color to be rejected")
	}
	s, err := f.svc.SetSetting(ctx, "backgroundColor", "#FF102030")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if s.BackgroundColor != "#FF102030" {
		t.Fatalf("unexpected color %q", s.BackgroundColor)
	}
	if !f.svc.SavePending() {
		t.Fatalf("expected a save to be scheduled")
	}
}

func TestImport(t *testing.T) {
	f := newFixture(t)
	done := entry.New("- old")
	done.Done = true
	in := []*entry.Entry{
		entry.New("## Imported"),
		done,
		entry.NewAs(glyph.Note, "- not really a task"),
		entry.NewAs(glyph.Task, "## sub"),
	}

	out, err := f.svc.Import(context.Background(), in)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(out))
	}
	if !out[0].IsHeader() || !out[1].Done || !out[2].IsNote() || !out[3].IsTask() {
		t.Fatalf("kinds not kept: %v", out)
	}
	if out[2].Content != "- not really a task" || out[3].Content != "## sub" {
		t.Fatalf("content must be kept verbatim: %q %q", out[2].Content, out[3].Content)
	}
}

func TestReloadDoesNotSave(t *testing.T) {
	f := newFixture(t)
	f.mem.mu.Lock()
	doc := store.NewDocument()
	doc.Entries = []entry.Record{{Type: glyph.Note, Content: "external"}}
	f.mem.data, _ = doc.Marshal()
	f.mem.mu.Unlock()

	if err := f.svc.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	entries, _ := f.svc.Entries(context.Background())
	if n := Numbered(entries); len(n) != 1 || n[0].Content != "external" {
		t.Fatalf("unexpected entries after reload: %v", entries)
	}
	if f.svc.SavePending() {
		t.Fatalf("reload should not schedule a save")
	}
}

func TestCloseFlushes(t *testing.T) {
	mem := newMemoryPersistence()
	svc := New(Options{
		Persistence: mem,
		Clock:       storetest.NewClock(),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	ctx := context.Background()
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Append(ctx, "- unsaved"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := svc.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if n := mem.saveCount(); n != 1 {
		t.Fatalf("expected a final save, got %d", n)
	}
	if _, err := svc.Entries(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	done := entry.New("- b")
	done.Done = true
	l := entry.NewList(
		entry.New("loose"),
		entry.New("## One"),
		entry.New("- a"),
		done,
		entry.New("## Two"),
		entry.New("see https://x.example"),
	)
	l.At(l.Len() - 2).Link = &entry.Link{URL: "https://x.example"}

	sum := Summarize(l.Entries())
	if sum.Entries != 6 || sum.Headers != 2 || sum.Tasks != 2 || sum.Done != 1 || sum.Notes != 2 || sum.Links != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.Open() != 1 {
		t.Fatalf("expected one open task")
	}
	if len(sum.Sections) != 3 || sum.Sections[1].Header != "One" || sum.Sections[1].Done != 1 {
		t.Fatalf("unexpected sections %+v", sum.Sections)
	}
}
