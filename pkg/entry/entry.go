package entry

import (
	"strings"

	"github.com/google/uuid"

	"tableflip.dev/jot/pkg/glyph"
)

const (
	ColorDone   = "#4CAF50"
	ColorHeader = "#FFFFFF"
	ColorText   = "#CCFFFFFF"
)

// Link is the URL detected in an entry and the page title shown for it.
type Link struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Entry is one row of the list.
type Entry struct {
	ID          string
	Kind        glyph.Kind
	Content     string
	Done        bool
	Link        *Link
	Placeholder bool
}

// New creates an entry from typed text, so a leading marker selects the kind.
func New(content string) *Entry {
	e := &Entry{ID: uuid.New().String()}
	e.SetContent(content)
	return e
}

// NewAs creates an entry of kind k holding content as given. Markers in
// content are kept as text.
func NewAs(k glyph.Kind, content string) *Entry {
	return &Entry{ID: uuid.New().String(), Kind: k, Content: content}
}

// NewPlaceholder creates the blank structural row.
func NewPlaceholder() *Entry {
	return &Entry{ID: uuid.New().String(), Placeholder: true}
}

// SetContent stores text, reclassifying the entry when it starts with a kind
// marker. It reports whether anything changed.
func (e *Entry) SetContent(v string) bool {
	kind := e.Kind
	switch {
	case strings.HasPrefix(v, glyph.HeaderMarker):
		kind = glyph.Header
		v = v[len(glyph.HeaderMarker):]
	case strings.HasPrefix(v, glyph.TaskMarker):
		kind = glyph.Task
		v = v[len(glyph.TaskMarker):]
	}
	changed := e.SetKind(kind)
	if e.Content != v {
		e.Content = v
		changed = true
	}
	return changed
}

// SetKind changes the kind. Leaving Task clears completion.
func (e *Entry) SetKind(k glyph.Kind) bool {
	if e.Kind == k {
		return false
	}
	e.Kind = k
	if k != glyph.Task {
		e.Done = false
	}
	return true
}

func (e *Entry) SetDone(done bool) bool {
	if e.Done == done {
		return false
	}
	e.Done = done
	return true
}

// ToggleCheck makes any non-task an open task, and flips a task's completion.
func (e *Entry) ToggleCheck() {
	if e.Kind != glyph.Task {
		e.Kind = glyph.Task
		e.Done = false
		return
	}
	e.Done = !e.Done
}

func (e *Entry) IsHeader() bool { return e.Kind == glyph.Header }
func (e *Entry) IsTask() bool   { return e.Kind == glyph.Task }
func (e *Entry) IsNote() bool   { return e.Kind == glyph.Note }

// Color derives the display color. headerColor overrides the default white
// for headers when set.
func (e *Entry) Color(headerColor string) string {
	switch {
	case e.Done && e.IsTask():
		return ColorDone
	case e.IsHeader():
		if headerColor != "" {
			return headerColor
		}
		return ColorHeader
	default:
		return ColorText
	}
}

// DisplayTitle is what a link renders as: its title, or the bare URL while the
// title is unknown.
func (e *Entry) DisplayTitle() string {
	if e.Link == nil {
		return ""
	}
	if e.Link.Title != "" {
		return e.Link.Title
	}
	return e.Link.URL
}

func (e *Entry) HasLink() bool {
	return e.Link != nil && (e.Link.URL != "" || e.Link.Title != "")
}

// Clone returns a deep copy safe to hand to another goroutine.
func (e *Entry) Clone() *Entry {
	c := *e
	if e.Link != nil {
		l := *e.Link
		c.Link = &l
	}
	return &c
}

func (e *Entry) String() string {
	return e.Kind.Symbol(e.Done) + " " + e.Content
}
