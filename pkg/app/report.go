package app

import (
	"context"

	"tableflip.dev/jot/pkg/entry"
	"tableflip.dev/jot/pkg/glyph"
)

// Section counts the entries under one header. Entries before the first
// header land in a section with an empty Header.
type Section struct {
	Header string
	Tasks  int
	Done   int
	Notes  int
}

// Summary describes the list as a whole.
type Summary struct {
	Path     string
	Entries  int
	Headers  int
	Tasks    int
	Done     int
	Notes    int
	Links    int
	Sections []Section
	Status   string
}

// Open is the number of tasks not yet done.
func (s Summary) Open() int {
	return s.Tasks - s.Done
}

// Summarize counts entries by kind. Placeholders are ignored.
func Summarize(entries []*entry.Entry) Summary {
	var sum Summary
	cur := -1
	for _, e := range entries {
		if e.Placeholder {
			continue
		}
		sum.Entries++
		if e.HasLink() {
			sum.Links++
		}
		if e.Kind == glyph.Header {
			sum.Headers++
			sum.Sections = append(sum.Sections, Section{Header: e.Content})
			cur = len(sum.Sections) - 1
			continue
		}
		if cur < 0 {
			sum.Sections = append(sum.Sections, Section{})
			cur = 0
		}
		sec := &sum.Sections[cur]
		switch e.Kind {
		case glyph.Task:
			sum.Tasks++
			sec.Tasks++
			if e.Done {
				sum.Done++
				sec.Done++
			}
		default:
			sum.Notes++
			sec.Notes++
		}
	}
	return sum
}

// Summary reports counts for the loaded list along with the save status.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.do(ctx, func() error {
		sum = Summarize(s.list.Entries())
		sum.Status = s.status
		if s.persistence != nil {
			sum.Path = s.persistence.Path()
		}
		return nil
	})
	return sum, err
}
