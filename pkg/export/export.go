// Package export renders the list as plain text or JSON, and reads the plain
// text form back.
package export

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"tableflip.dev/jot/pkg/entry"
	"tableflip.dev/jot/pkg/glyph"
	"tableflip.dev/jot/pkg/store"
)

type Format string

const (
	FormatText Format = "txt"
	FormatJSON Format = "json"
)

const (
	checked   = "[x] "
	unchecked = "[ ] "
)

// ParseFormat accepts "txt", "text" and "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "txt", "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("export: unknown format %q", s)
}

// FormatFor picks the format from a file extension, defaulting to text.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatText
}

// Line renders one entry the way the text export writes it.
func Line(e *entry.Entry) string {
	switch e.Kind {
	case glyph.Header:
		return glyph.HeaderMarker + e.Content
	case glyph.Task:
		if e.Done {
			return glyph.TaskMarker + checked + e.Content
		}
		return glyph.TaskMarker + unchecked + e.Content
	default:
		return e.Content
	}
}

// Text renders entries one per line. Placeholders are skipped.
func Text(entries []*entry.Entry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Placeholder {
			continue
		}
		lines = append(lines, Line(e))
	}
	return strings.Join(lines, "\n")
}

// JSON renders the document in the storage schema.
func JSON(doc *store.Document) ([]byte, error) {
	return doc.Marshal()
}

// Write renders doc in format f to w.
func Write(w io.Writer, f Format, doc *store.Document) error {
	var data []byte
	switch f {
	case FormatJSON:
		var err error
		if data, err = JSON(doc); err != nil {
			return fmt.Errorf("export: encode: %w", err)
		}
	default:
		entries := make([]*entry.Entry, 0, len(doc.Entries))
		for _, r := range doc.Entries {
			entries = append(entries, entry.FromRecord(r))
		}
		data = []byte(Text(entries) + "\n")
	}
	_, err := w.Write(data)
	return err
}

// ToFile writes doc to path in format f.
func ToFile(path string, f Format, doc *store.Document) error {
	var b strings.Builder
	if err := Write(&b, f, doc); err != nil {
		return err
	}
	return store.WriteFileAtomic(path, []byte(b.String()))
}

// ParseLine is the inverse of Line. A leading marker selects the kind, and a
// task may carry a [x] or [ ] checkbox.
func ParseLine(line string) *entry.Entry {
	k, content := entry.Decode(line)
	e := entry.NewAs(k, content)
	if !e.IsTask() {
		return e
	}
	switch {
	case strings.HasPrefix(e.Content, checked), strings.HasPrefix(e.Content, "[X] "):
		e.Content = e.Content[len(checked):]
		e.Done = true
	case strings.HasPrefix(e.Content, unchecked):
		e.Content = e.Content[len(unchecked):]
	}
	return e
}

// ParseText reads entries written by Text. Blank lines are skipped.
func ParseText(r io.Reader) ([]*entry.Entry, error) {
	var out []*entry.Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, ParseLine(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("export: read: %w", err)
	}
	return out, nil
}

// ParseJSON reads a document in the storage schema and returns its entries.
func ParseJSON(r io.Reader) ([]*entry.Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("export: read: %w", err)
	}
	doc, err := store.UnmarshalDocument(data)
	if err != nil {
		return nil, fmt.Errorf("export: decode: %w", err)
	}
	out := make([]*entry.Entry, 0, len(doc.Entries))
	for _, rec := range doc.Entries {
		out = append(out, entry.FromRecord(rec))
	}
	return out, nil
}

// Parse reads entries in format f.
func Parse(r io.Reader, f Format) ([]*entry.Entry, error) {
	if f == FormatJSON {
		return ParseJSON(r)
	}
	return ParseText(r)
}
