package app

import (
	"context"

	"tableflip.dev/jot/pkg/store"
)

const (
	StatusSaving = "Saving..."
	StatusSaved  = "Saved"
	StatusError  = "Error saving"
)

// Status returns the save indicator text, "" when idle.
func (s *Service) Status(ctx context.Context) (string, error) {
	var out string
	err := s.loop.Call(ctx, func() { out = s.status })
	return out, err
}

// SavePending reports whether a debounced save is scheduled.
func (s *Service) SavePending() bool {
	return s.saver.Pending()
}

// flush runs on the loop when the debounce timer fires. The snapshot is taken
// here and written in the background.
func (s *Service) flush() {
	if s.list == nil || s.closing {
		return
	}
	gen, doc := s.beginSave()
	go func() {
		err := s.write(context.Background(), gen, doc)
		s.loop.Post(func() { s.finishSave(gen, err) })
	}()
}

// Save writes the document now and waits for the write.
func (s *Service) Save(ctx context.Context) error {
	var (
		gen uint64
		doc *store.Document
	)
	if err := s.do(ctx, func() error {
		s.saver.Cancel()
		gen, doc = s.beginSave()
		return nil
	}); err != nil {
		return err
	}
	err := s.write(ctx, gen, doc)
	s.loop.Post(func() { s.finishSave(gen, err) })
	return err
}

func (s *Service) beginSave() (uint64, *store.Document) {
	s.gen++
	s.setStatus(StatusSaving)
	return s.gen, s.snapshot()
}

// write serializes writers and never lets an older snapshot overwrite a newer
// one.
func (s *Service) write(ctx context.Context, gen uint64, doc *store.Document) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if gen <= s.written {
		return nil
	}
	if err := s.persistence.Save(ctx, doc); err != nil {
		return err
	}
	s.written = gen
	return nil
}

// finishSave updates the status for save gen. Only the newest save may move
// the indicator, and "Saved" is cleared after a delay unless another save
// started in the meantime.
func (s *Service) finishSave(gen uint64, err error) {
	if err != nil {
		s.log.Error("save failed", "path", s.persistence.Path(), "err", err)
	}
	if gen != s.gen {
		return
	}
	if err != nil {
		s.setStatus(StatusError)
		return
	}
	s.setStatus(StatusSaved)
	s.clock.AfterFunc(s.statusDelay, func() {
		s.loop.Post(func() {
			if s.gen == gen && s.status == StatusSaved {
				s.setStatus("")
			}
		})
	})
}

func (s *Service) setStatus(v string) {
	if s.status == v {
		return
	}
	s.status = v
	s.notify()
}
