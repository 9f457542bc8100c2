package entry

import (
	"strings"

	"github.com/google/uuid"

	"tableflip.dev/jot/pkg/glyph"
)

// Record is the persisted form of an entry.
type Record struct {
	Type     glyph.Kind `json:"type"`
	Content  string     `json:"content"`
	IsDone   bool       `json:"isDone"`
	Color    string     `json:"color,omitempty"`
	Metadata *Link      `json:"metadata,omitempty"`
}

// Encode prefixes content with the kind's marker.
func Encode(k glyph.Kind, content string) string {
	return k.Marker() + content
}

// Decode classifies a line of text by its marker and strips it.
func Decode(s string) (glyph.Kind, string) {
	switch {
	case strings.HasPrefix(s, glyph.HeaderMarker):
		return glyph.Header, s[len(glyph.HeaderMarker):]
	case strings.HasPrefix(s, glyph.TaskMarker):
		return glyph.Task, s[len(glyph.TaskMarker):]
	}
	return glyph.Note, s
}

// Record converts the entry for storage. headerColor feeds the derived color.
func (e *Entry) Record(headerColor string) Record {
	r := Record{
		Type:    e.Kind,
		Content: Encode(e.Kind, e.Content),
		IsDone:  e.Done,
		Color:   e.Color(headerColor),
	}
	if e.HasLink() {
		l := *e.Link
		r.Metadata = &l
	}
	return r
}

// FromRecord rebuilds an entry. The stored type wins; the marker is stripped
// only when it matches that type, so content written without markers loads
// unchanged.
func FromRecord(r Record) *Entry {
	content := r.Content
	if m := r.Type.Marker(); m != "" {
		content = strings.TrimPrefix(content, m)
	}
	e := &Entry{
		ID:      uuid.New().String(),
		Kind:    r.Type,
		Content: content,
		Done:    r.IsDone,
	}
	if r.Metadata != nil {
		l := *r.Metadata
		e.Link = &l
	}
	return e
}
