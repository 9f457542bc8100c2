package app

import (
	"context"

	"tableflip.dev/jot/pkg/entry"
	"tableflip.dev/jot/pkg/link"
)

type fetch struct {
	url    string
	cancel context.CancelFunc
}

// detectLink keeps e's link in step with its content. A new URL is recorded
// right away with no title, and its title is fetched in the background.
func (s *Service) detectLink(e *entry.Entry) {
	if s.list.IndexOf(e) < 0 {
		return
	}
	url := link.ExtractURL(e.Content)
	switch {
	case url == "":
		if e.Link != nil {
			s.cancelFetch(e.ID)
			s.list.SetLink(e, nil)
		}
		return
	case e.Link != nil && e.Link.URL == url:
		return
	}
	s.list.SetLink(e, &entry.Link{URL: url})
	s.startFetch(e.ID, url)
}

// resumeFetches restarts title lookups for links loaded without a title, and
// picks up URLs in entries that were stored without link metadata.
func (s *Service) resumeFetches() {
	for _, e := range s.list.Entries() {
		switch {
		case e.Placeholder:
		case e.Link == nil:
			s.detectLink(e)
		case e.Link.URL != "" && e.Link.Title == "":
			s.startFetch(e.ID, e.Link.URL)
		}
	}
}

// startFetch replaces any lookup already running for id.
func (s *Service) startFetch(id, url string) {
	s.cancelFetch(id)
	if s.titles == nil || s.closing {
		return
	}
	ctx, cancel := context.WithCancel(s.ctx)
	f := &fetch{url: url, cancel: cancel}
	s.fetches[id] = f

	s.fetchWG.Add(1)
	go func() {
		defer s.fetchWG.Done()
		defer cancel()
		title := link.Title(ctx, s.titles, url)
		if ctx.Err() != nil {
			s.loop.Post(func() { s.dropFetch(id, f) })
			return
		}
		s.loop.Post(func() {
			s.dropFetch(id, f)
			s.applyTitle(id, url, title)
		})
	}()
	s.log.Debug("fetching title", "id", id, "url", url)
}

func (s *Service) cancelFetch(id string) {
	if f, ok := s.fetches[id]; ok {
		f.cancel()
		delete(s.fetches, id)
	}
}

func (s *Service) dropFetch(id string, f *fetch) {
	if s.fetches[id] == f {
		delete(s.fetches, id)
	}
}

// applyTitle sets the fetched title only if the entry still exists and still
// points at the URL that was fetched.
func (s *Service) applyTitle(id, url, title string) {
	if s.list == nil {
		return
	}
	e := s.list.Find(id)
	if e == nil || e.Link == nil || e.Link.URL != url {
		s.log.Debug("discarding stale title", "id", id, "url", url)
		return
	}
	s.list.SetLink(e, &entry.Link{URL: url, Title: title})
}

// PendingFetches counts title lookups in flight.
func (s *Service) PendingFetches(ctx context.Context) (int, error) {
	var n int
	err := s.loop.Call(ctx, func() { n = len(s.fetches) })
	return n, err
}
