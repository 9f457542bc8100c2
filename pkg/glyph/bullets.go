// Package glyph defines the entry kinds and the symbols used to draw them.
package glyph

import (
	"fmt"
	"strings"
)

type Glyph struct {
	Key     string
	Symbol  string
	Meaning string
}

// Kind is the variant of a list entry.
type Kind int

const (
	Note Kind = iota
	Task
	Header
)

const (
	HeaderMarker = "## "
	TaskMarker   = "- "
)

// Symbols for the legend and the terminal renderers.
const (
	SymbolHeader   = "▍"
	SymbolTask     = "☐"
	SymbolDone     = "☑"
	SymbolNote     = "·"
	SymbolLink     = "↗"
	SymbolBlankRow = " "
)

func DefaultGlyphs() []Glyph {
	return []Glyph{{
		Key:     HeaderMarker,
		Symbol:  SymbolHeader,
		Meaning: "header",
	}, {
		Key:     TaskMarker,
		Symbol:  SymbolTask,
		Meaning: "task",
	}, {
		Key:     "- [x] ",
		Symbol:  SymbolDone,
		Meaning: "task completed",
	}, {
		Key:     "",
		Symbol:  SymbolNote,
		Meaning: "note",
	}, {
		Key:     "http(s)://",
		Symbol:  SymbolLink,
		Meaning: "link, shown by page title",
	}}
}

func (g Glyph) String() string {
	return g.Symbol
}

// Marker is the text prefix that selects the kind when typed, and the prefix
// used when the kind is encoded for storage or export.
func (k Kind) Marker() string {
	switch k {
	case Header:
		return HeaderMarker
	case Task:
		return TaskMarker
	default:
		return ""
	}
}

// Symbol returns the display glyph, taking completion into account for tasks.
func (k Kind) Symbol(done bool) string {
	switch k {
	case Header:
		return SymbolHeader
	case Task:
		if done {
			return SymbolDone
		}
		return SymbolTask
	default:
		return SymbolNote
	}
}

func (k Kind) String() string {
	switch k {
	case Header:
		return "Header"
	case Task:
		return "Task"
	default:
		return "Note"
	}
}

// ParseKind accepts the stored names and a few aliases, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "header", "headers", "h", "section":
		return Header, nil
	case "task", "tasks", "t", "todo":
		return Task, nil
	case "note", "notes", "n", "":
		return Note, nil
	}
	return Note, fmt.Errorf("glyph: unknown kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
