package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"tableflip.dev/jot/pkg/entry"
	"tableflip.dev/jot/pkg/settings"
)

// Document is everything persisted: the entries and the settings.
type Document struct {
	Entries  []entry.Record    `json:"entries"`
	Settings settings.Settings `json:"settings"`
}

// NewDocument returns the empty default document.
func NewDocument() *Document {
	return &Document{
		Entries:  []entry.Record{},
		Settings: settings.Default(),
	}
}

// Marshal encodes the document as indented UTF-8 JSON.
func (d *Document) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// UnmarshalDocument decodes data over the defaults, so missing fields keep
// their default values.
func UnmarshalDocument(data []byte) (*Document, error) {
	doc := NewDocument()
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return NewDocument(), err
	}
	if doc.Entries == nil {
		doc.Entries = []entry.Record{}
	}
	doc.Settings.Normalize()
	return doc, nil
}

// Persistence defines the persistence contract for the document.
type Persistence interface {
	Path() string
	// Load always returns a usable document. A missing file is not an error;
	// an unreadable one yields the default document and the error.
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Option configures the Persistence returned by Load.
type Option func(*persistence)

// WithLogger sends watcher diagnostics to log instead of slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(p *persistence) {
		if log != nil {
			p.log = log
		}
	}
}

// Load creates a Persistence backed by a single JSON file.
func Load(cfg Config, opts ...Option) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	path := cfg.DataPath()
	if path == "" {
		return nil, errors.New("store: data path unknown")
	}
	p := &persistence{path: path, log: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

type persistence struct {
	path string
	log  *slog.Logger

	mu      sync.Mutex
	lastSum [sha256.Size]byte
	hasSum  bool
}

func (p *persistence) Path() string {
	return p.path
}

func (p *persistence) remember(data []byte) {
	p.mu.Lock()
	p.lastSum = sha256.Sum256(data)
	p.hasSum = true
	p.mu.Unlock()
}

// known reports whether data is what this process last read or wrote.
func (p *persistence) known(data []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasSum && p.lastSum == sha256.Sum256(data)
}

func (p *persistence) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return NewDocument(), err
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDocument(), nil
		}
		return NewDocument(), fmt.Errorf("store: read %s: %w", p.path, err)
	}
	doc, err := UnmarshalDocument(data)
	if err != nil {
		return doc, fmt.Errorf("store: decode %s: %w", p.path, err)
	}
	p.remember(data)
	return doc, nil
}

func (p *persistence) Save(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil {
		return errors.New("store: nil document")
	}
	data, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	if err := WriteFileAtomic(p.path, data); err != nil {
		return err
	}
	p.remember(data)
	return nil
}

// WriteFileAtomic writes data next to path and renames it into place.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: ensure directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return fmt.Errorf("store: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("store: close %s: %w", name, err)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("store: chmod %s: %w", name, err)
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("store: rename into %s: %w", path, err)
	}
	return nil
}
