package entry

import (
	"fmt"
	"strings"

	"tableflip.dev/jot/pkg/glyph"
)

// ChangeFunc is told about every mutation of a List. e is the entry whose
// fields changed, or nil when only membership or order changed.
type ChangeFunc func(e *Entry)

// List is the ordered set of entries. All mutations go through its methods so
// that placeholder maintenance and change notification always run.
type List struct {
	entries  []*Entry
	onChange ChangeFunc
}

// NewList builds a list and brings it into shape. nil entries are dropped.
func NewList(entries ...*Entry) *List {
	l := &List{entries: make([]*Entry, 0, len(entries)+1)}
	for _, e := range entries {
		if e != nil {
			l.entries = append(l.entries, e)
		}
	}
	l.EnsurePlaceholders()
	return l
}

// OnChange registers the mutation hook, replacing any previous one.
func (l *List) OnChange(fn ChangeFunc) {
	l.onChange = fn
}

func (l *List) notify(e *Entry) {
	if l.onChange != nil {
		l.onChange(e)
	}
}

func (l *List) Len() int {
	return len(l.entries)
}

// At returns the entry at i, or nil when out of range.
func (l *List) At(i int) *Entry {
	if i < 0 || i >= len(l.entries) {
		return nil
	}
	return l.entries[i]
}

// Entries returns the backing entries in order. The slice is a copy; the
// entries are not.
func (l *List) Entries() []*Entry {
	out := make([]*Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *List) IndexOf(e *Entry) int {
	for i, c := range l.entries {
		if c == e {
			return i
		}
	}
	return -1
}

func (l *List) Find(id string) *Entry {
	for _, c := range l.entries {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Last returns the trailing entry, which is the placeholder in a well-formed
// list.
func (l *List) Last() *Entry {
	return l.At(len(l.entries) - 1)
}

func (l *List) insert(at int, e *Entry) {
	l.entries = append(l.entries, nil)
	copy(l.entries[at+1:], l.entries[at:])
	l.entries[at] = e
}

func (l *List) removeAt(i int) {
	copy(l.entries[i:], l.entries[i+1:])
	l.entries[len(l.entries)-1] = nil
	l.entries = l.entries[:len(l.entries)-1]
}

// EnsurePlaceholders restores the structural blank rows: one at the end of
// the list and one immediately before every header. A run of adjacent
// placeholders is collapsed to its first row. It reports whether the list
// changed and is idempotent.
func (l *List) EnsurePlaceholders() bool {
	changed := false
	for i := 1; i < len(l.entries); {
		if l.entries[i].Placeholder && l.entries[i-1].Placeholder {
			l.removeAt(i)
			changed = true
			continue
		}
		i++
	}
	if last := l.Last(); last == nil || !last.Placeholder {
		l.entries = append(l.entries, NewPlaceholder())
		changed = true
	}
	for i := 0; i < len(l.entries); i++ {
		e := l.entries[i]
		if e.Placeholder || !e.IsHeader() {
			continue
		}
		if i > 0 && l.entries[i-1].Placeholder {
			continue
		}
		l.insert(i, NewPlaceholder())
		changed = true
		i++
	}
	return changed
}

// AddEntry inserts a new entry right after index after, or appends it when
// after is out of range. It returns the new entry.
func (l *List) AddEntry(after int, content string) *Entry {
	e := New(content)
	if after < 0 || after >= len(l.entries) {
		l.entries = append(l.entries, e)
	} else {
		l.insert(after+1, e)
	}
	l.EnsurePlaceholders()
	l.notify(e)
	return e
}

// Append types content into the trailing placeholder, which turns it into a
// real entry, and returns that entry.
func (l *List) Append(content string) *Entry {
	e := l.Last()
	if e == nil || !e.Placeholder {
		return l.AddEntry(-1, content)
	}
	if !l.SetContent(e, content) {
		// Blank content still claims the row.
		l.promote(e)
		l.EnsurePlaceholders()
		l.notify(e)
	}
	return e
}

// AppendAs adds an entry with the given kind, content and completion at the
// end of the list. Unlike Append, content is stored verbatim.
func (l *List) AppendAs(k glyph.Kind, content string, done bool) *Entry {
	e := l.Last()
	if e == nil || !e.Placeholder {
		e = NewPlaceholder()
		l.entries = append(l.entries, e)
	}
	e.Kind = k
	e.Content = content
	e.Done = done && k == glyph.Task
	l.promote(e)
	l.EnsurePlaceholders()
	l.notify(e)
	return e
}

// RemoveEntry removes e and reports whether it was present.
func (l *List) RemoveEntry(e *Entry) bool {
	i := l.IndexOf(e)
	if i < 0 {
		return false
	}
	l.removeAt(i)
	l.EnsurePlaceholders()
	l.notify(nil)
	return true
}

func (l *List) promote(e *Entry) {
	e.Placeholder = false
}

// SetContent applies typed text to e, including the kind markers. Editing a
// placeholder makes it a real entry.
func (l *List) SetContent(e *Entry, v string) bool {
	if l.IndexOf(e) < 0 {
		return false
	}
	if !e.SetContent(v) {
		return false
	}
	l.promote(e)
	l.EnsurePlaceholders()
	l.notify(e)
	return true
}

func (l *List) SetKind(e *Entry, k glyph.Kind) bool {
	if l.IndexOf(e) < 0 || !e.SetKind(k) {
		return false
	}
	l.promote(e)
	l.EnsurePlaceholders()
	l.notify(e)
	return true
}

func (l *List) SetDone(e *Entry, done bool) bool {
	if l.IndexOf(e) < 0 || !e.SetDone(done) {
		return false
	}
	l.promote(e)
	l.notify(e)
	return true
}

// ToggleCheck turns e into an open task, or flips it when already a task.
func (l *List) ToggleCheck(e *Entry) bool {
	if l.IndexOf(e) < 0 {
		return false
	}
	e.ToggleCheck()
	l.promote(e)
	l.EnsurePlaceholders()
	l.notify(e)
	return true
}

// SetLink replaces the link metadata of e.
func (l *List) SetLink(e *Entry, link *Link) bool {
	if l.IndexOf(e) < 0 {
		return false
	}
	switch {
	case link == nil && e.Link == nil:
		return false
	case link != nil && e.Link != nil && *link == *e.Link:
		return false
	}
	if link != nil {
		cp := *link
		link = &cp
	}
	e.Link = link
	l.notify(e)
	return true
}

// Backspace handles backspace pressed on an empty entry and returns the entry
// that should hold focus afterwards. An empty task becomes a note and keeps
// its row. An empty note or header after the first row is removed and focus
// moves to the previous row. A placeholder is never removed; focus just moves
// up.
func (l *List) Backspace(e *Entry) *Entry {
	i := l.IndexOf(e)
	if i < 0 || e.Content != "" {
		return e
	}
	switch {
	case e.IsTask():
		e.Kind = glyph.Note
		e.Done = false
		l.promote(e)
		l.notify(e)
		return e
	case i == 0:
		return e
	case e.Placeholder:
		return l.entries[i-1]
	}
	prev := l.entries[i-1]
	l.removeAt(i)
	l.EnsurePlaceholders()
	l.notify(nil)
	return prev
}

// Enter handles the return key on e and returns the entry to focus. When the
// next row is a placeholder it takes focus; otherwise a new row is opened
// after e, pre-typed as a task when e is one.
func (l *List) Enter(e *Entry) *Entry {
	i := l.IndexOf(e)
	if i < 0 {
		return nil
	}
	if e.Placeholder {
		return e
	}
	if next := l.At(i + 1); next != nil && next.Placeholder {
		return next
	}
	prefix := ""
	if e.IsTask() {
		prefix = glyph.TaskMarker
	}
	return l.AddEntry(i, prefix)
}

// SplitLines breaks pasted text into trimmed, non-blank lines.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Paste writes the first pasted line into e and inserts the remaining lines
// after it, in order. It returns the entries written, e first.
func (l *List) Paste(e *Entry, text string) []*Entry {
	at := l.IndexOf(e)
	lines := SplitLines(text)
	if at < 0 || len(lines) == 0 {
		return nil
	}
	e.SetContent(lines[0])
	l.promote(e)
	written := []*Entry{e}
	for _, line := range lines[1:] {
		at++
		n := New(line)
		l.insert(at, n)
		written = append(written, n)
	}
	l.EnsurePlaceholders()
	for _, n := range written {
		l.notify(n)
	}
	return written
}

// Replace swaps the whole content of the list, as on reload.
func (l *List) Replace(entries []*Entry) {
	l.entries = l.entries[:0]
	for _, e := range entries {
		if e != nil {
			l.entries = append(l.entries, e)
		}
	}
	l.EnsurePlaceholders()
	l.notify(nil)
}

// Records returns the persistable entries, placeholders excluded.
func (l *List) Records(headerColor string) []Record {
	out := make([]Record, 0, len(l.entries))
	for _, e := range l.entries {
		if e.Placeholder {
			continue
		}
		out = append(out, e.Record(headerColor))
	}
	return out
}

// CheckInvariants reports the first structural problem found, if any.
func (l *List) CheckInvariants() error {
	last := l.Last()
	if last == nil || !last.Placeholder {
		return fmt.Errorf("entry: list does not end with a placeholder")
	}
	for i, e := range l.entries {
		if e.Placeholder || !e.IsHeader() {
			continue
		}
		if i == 0 || !l.entries[i-1].Placeholder {
			return fmt.Errorf("entry: header %d %q has no placeholder before it", i, e.Content)
		}
	}
	return nil
}
