package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tableflip.dev/jot/pkg/entry"
	"tableflip.dev/jot/pkg/glyph"
	"tableflip.dev/jot/pkg/link"
	"tableflip.dev/jot/pkg/settings"
	"tableflip.dev/jot/pkg/store"
)

var (
	ErrNotFound   = errors.New("app: entry not found")
	ErrNotStarted = errors.New("app: service not started")
)

// StatusDelay is how long "Saved" stays visible.
const StatusDelay = 3 * time.Second

// Options configures a Service. Only Persistence is required.
type Options struct {
	Persistence store.Persistence
	// Titles resolves page titles for detected links. nil records links
	// without fetching titles.
	Titles      link.Fetcher
	Clock       store.Clock
	SaveDelay   time.Duration
	StatusDelay time.Duration
	Logger      *slog.Logger
}

// Service owns the entry list and settings. Every public method marshals onto
// a single loop goroutine and waits, so UIs and CLIs can share it freely.
// Saving, title fetches and status timers run in the background and post
// their results back onto the loop.
type Service struct {
	persistence store.Persistence
	titles      link.Fetcher
	clock       store.Clock
	statusDelay time.Duration
	log         *slog.Logger

	loop  *Loop
	saver *store.Debouncer

	ctx    context.Context
	cancel context.CancelFunc

	// Loop owned.
	list     *entry.List
	settings settings.Settings
	status   string
	gen      uint64
	quiet    bool
	closing  bool
	fetches  map[string]*fetch

	fetchWG sync.WaitGroup
	writeMu sync.Mutex
	written uint64

	updates chan struct{}
}

// New creates a Service and starts its loop. Call Start to load the document.
func New(opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = store.SystemClock()
	}
	if opts.StatusDelay <= 0 {
		opts.StatusDelay = StatusDelay
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		persistence: opts.Persistence,
		titles:      opts.Titles,
		clock:       opts.Clock,
		statusDelay: opts.StatusDelay,
		log:         opts.Logger,
		loop:        NewLoop(),
		ctx:         ctx,
		cancel:      cancel,
		settings:    settings.Default(),
		fetches:     make(map[string]*fetch),
		updates:     make(chan struct{}, 1),
	}
	s.saver = store.NewDebouncer(opts.Clock, opts.SaveDelay, func() {
		s.loop.Post(s.flush)
	})
	go s.loop.Run()
	return s
}

// Start loads the document. A missing or unreadable file yields an empty
// list; the problem is logged and not returned.
func (s *Service) Start(ctx context.Context) error {
	if s.persistence == nil {
		return errors.New("app: no persistence configured")
	}
	doc, err := s.persistence.Load(ctx)
	if err != nil {
		s.log.Warn("load failed, starting empty", "path", s.persistence.Path(), "err", err)
	}
	return s.loop.Call(ctx, func() {
		s.replace(doc)
		s.resumeFetches()
	})
}

// Reload replaces the in-memory state with what is on disk, as after another
// process edited the file. Pending saves are dropped.
func (s *Service) Reload(ctx context.Context) error {
	doc, err := s.persistence.Load(ctx)
	if err != nil {
		return fmt.Errorf("app: reload: %w", err)
	}
	return s.do(ctx, func() error {
		s.saver.Cancel()
		s.replace(doc)
		s.resumeFetches()
		return nil
	})
}

// replace swaps in doc without scheduling a save.
func (s *Service) replace(doc *store.Document) {
	entries := make([]*entry.Entry, 0, len(doc.Entries))
	for _, r := range doc.Entries {
		entries = append(entries, entry.FromRecord(r))
	}
	for id, f := range s.fetches {
		f.cancel()
		delete(s.fetches, id)
	}
	s.settings = doc.Settings
	s.quiet = true
	if s.list == nil {
		s.list = entry.NewList(entries...)
		s.list.OnChange(s.changed)
	} else {
		s.list.Replace(entries)
	}
	s.quiet = false
	s.notify()
}

// changed runs on the loop for every list mutation.
func (s *Service) changed(e *entry.Entry) {
	if s.quiet {
		return
	}
	s.saver.Trigger()
	s.notify()
	if e != nil {
		s.detectLink(e)
	}
}

// Watch subscribes to changes made to the document by other processes.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.persistence.Watch(ctx)
}

// Updates delivers a coalesced signal whenever entries, settings or status
// change.
func (s *Service) Updates() <-chan struct{} {
	return s.updates
}

func (s *Service) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// do runs fn on the loop once the document is loaded.
func (s *Service) do(ctx context.Context, fn func() error) error {
	var err error
	if cerr := s.loop.Call(ctx, func() {
		if s.list == nil {
			err = ErrNotStarted
			return
		}
		err = fn()
	}); cerr != nil {
		return cerr
	}
	return err
}

func (s *Service) find(id string) (*entry.Entry, error) {
	e := s.list.Find(id)
	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}

// Entries returns copies of every row, placeholders included, in order.
func (s *Service) Entries(ctx context.Context) ([]*entry.Entry, error) {
	var out []*entry.Entry
	err := s.do(ctx, func() error {
		out = clones(s.list.Entries())
		return nil
	})
	return out, err
}

// Numbered filters out placeholders. The CLI numbers what remains from 1.
func Numbered(entries []*entry.Entry) []*entry.Entry {
	out := make([]*entry.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Placeholder {
			out = append(out, e)
		}
	}
	return out
}

// EntryAt returns a copy of the n-th non-placeholder entry, counting from 1.
func (s *Service) EntryAt(ctx context.Context, n int) (*entry.Entry, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	numbered := Numbered(entries)
	if n < 1 || n > len(numbered) {
		return nil, fmt.Errorf("%w: no entry %d (have %d)", ErrNotFound, n, len(numbered))
	}
	return numbered[n-1], nil
}

// Add inserts content after the entry afterID. An empty afterID appends to
// the end of the list.
func (s *Service) Add(ctx context.Context, afterID, content string) (*entry.Entry, error) {
	var out *entry.Entry
	err := s.do(ctx, func() error {
		if afterID == "" {
			out = s.list.Append(content).Clone()
			return nil
		}
		after, err := s.find(afterID)
		if err != nil {
			return err
		}
		out = s.list.AddEntry(s.list.IndexOf(after), content).Clone()
		return nil
	})
	return out, err
}

// Append adds content at the end of the list.
func (s *Service) Append(ctx context.Context, content string) (*entry.Entry, error) {
	return s.Add(ctx, "", content)
}

// Edit replaces the text of an entry. Typed markers change its kind.
func (s *Service) Edit(ctx context.Context, id, content string) (*entry.Entry, error) {
	return s.mutate(ctx, id, func(e *entry.Entry) { s.list.SetContent(e, content) })
}

func (s *Service) SetKind(ctx context.Context, id string, k glyph.Kind) (*entry.Entry, error) {
	return s.mutate(ctx, id, func(e *entry.Entry) { s.list.SetKind(e, k) })
}

func (s *Service) SetDone(ctx context.Context, id string, done bool) (*entry.Entry, error) {
	return s.mutate(ctx, id, func(e *entry.Entry) {
		if !e.IsTask() {
			s.list.SetKind(e, glyph.Task)
		}
		s.list.SetDone(e, done)
	})
}

// ToggleCheck makes a non-task an open task, or flips a task.
func (s *Service) ToggleCheck(ctx context.Context, id string) (*entry.Entry, error) {
	return s.mutate(ctx, id, func(e *entry.Entry) { s.list.ToggleCheck(e) })
}

func (s *Service) mutate(ctx context.Context, id string, fn func(e *entry.Entry)) (*entry.Entry, error) {
	var out *entry.Entry
	err := s.do(ctx, func() error {
		e, err := s.find(id)
		if err != nil {
			return err
		}
		fn(e)
		out = e.Clone()
		return nil
	})
	return out, err
}

// Remove deletes an entry.
func (s *Service) Remove(ctx context.Context, id string) error {
	return s.do(ctx, func() error {
		e, err := s.find(id)
		if err != nil {
			return err
		}
		s.cancelFetch(e.ID)
		s.list.RemoveEntry(e)
		return nil
	})
}

// Backspace applies backspace on an empty entry and returns the id that
// should hold focus.
func (s *Service) Backspace(ctx context.Context, id string) (string, error) {
	var focus string
	err := s.do(ctx, func() error {
		e, err := s.find(id)
		if err != nil {
			return err
		}
		f := s.list.Backspace(e)
		if s.list.IndexOf(e) < 0 {
			s.cancelFetch(e.ID)
		}
		focus = f.ID
		return nil
	})
	return focus, err
}

// Enter applies the return key on an entry and returns the entry to focus.
func (s *Service) Enter(ctx context.Context, id string) (*entry.Entry, error) {
	var out *entry.Entry
	err := s.do(ctx, func() error {
		e, err := s.find(id)
		if err != nil {
			return err
		}
		out = s.list.Enter(e).Clone()
		return nil
	})
	return out, err
}

// Paste writes multi-line text starting at the entry id.
func (s *Service) Paste(ctx context.Context, id, text string) ([]*entry.Entry, error) {
	var out []*entry.Entry
	err := s.do(ctx, func() error {
		e, err := s.find(id)
		if err != nil {
			return err
		}
		out = clones(s.list.Paste(e, text))
		return nil
	})
	return out, err
}

// Import appends entries at the end of the list, keeping their kind,
// completion and link.
func (s *Service) Import(ctx context.Context, entries []*entry.Entry) ([]*entry.Entry, error) {
	var out []*entry.Entry
	err := s.do(ctx, func() error {
		for _, in := range entries {
			if in == nil || in.Placeholder {
				continue
			}
			e := s.list.AppendAs(in.Kind, in.Content, in.Done)
			if l := in.Link; l != nil && l.Title != "" && e.Link != nil && e.Link.URL == l.URL {
				s.cancelFetch(e.ID)
				s.list.SetLink(e, l)
			}
			out = append(out, e.Clone())
		}
		return nil
	})
	return out, err
}

// Settings returns the current settings.
func (s *Service) Settings(ctx context.Context) (settings.Settings, error) {
	var out settings.Settings
	err := s.do(ctx, func() error {
		out = s.settings
		return nil
	})
	return out, err
}

// SetSetting changes one setting by key and schedules a save.
func (s *Service) SetSetting(ctx context.Context, key, value string) (settings.Settings, error) {
	var out settings.Settings
	err := s.do(ctx, func() error {
		next := s.settings
		if err := next.Set(key, value); err != nil {
			return err
		}
		s.settings = next
		s.saver.Trigger()
		s.notify()
		out = next
		return nil
	})
	return out, err
}

// Document snapshots the persistable state.
func (s *Service) Document(ctx context.Context) (*store.Document, error) {
	var out *store.Document
	err := s.do(ctx, func() error {
		out = s.snapshot()
		return nil
	})
	return out, err
}

func (s *Service) snapshot() *store.Document {
	return &store.Document{
		Entries:  s.list.Records(s.settings.DefaultHeaderColor),
		Settings: s.settings,
	}
}

// Close waits, bounded by ctx, for outstanding title fetches, writes the
// document one last time and stops the loop.
func (s *Service) Close(ctx context.Context) error {
	started := false
	if err := s.loop.Call(ctx, func() {
		s.closing = true
		s.saver.Stop()
		started = s.list != nil
	}); err != nil {
		return err
	}

	waited := make(chan struct{})
	go func() {
		s.fetchWG.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-ctx.Done():
		s.log.Warn("abandoning title fetches", "err", ctx.Err())
	}
	s.cancel()

	var err error
	if started {
		err = s.Save(context.WithoutCancel(ctx))
	}
	s.loop.Stop()
	return err
}

func clones(in []*entry.Entry) []*entry.Entry {
	out := make([]*entry.Entry, 0, len(in))
	for _, e := range in {
		out = append(out, e.Clone())
	}
	return out
}
