package store

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestPersistenceWatchIgnoresOwnWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), DataFileName)
	p, err := Load(NewConfig(path))
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe before writing.
	time.Sleep(50 * time.Millisecond)

	if err := p.Save(context.Background(), NewDocument()); err != nil {
		t.Fatalf("save: %v", err)
	}

	select {
	case evt := <-ch:
		t.Fatalf("unexpected event for own write: %+v", evt)
	case <-time.After(400 * time.Millisecond):
	}

	if err := os.WriteFile(path, []byte(`{"entries":[{"type":"Note","content":"from elsewhere"}]}`), 0o644); err != nil {
		t.Fatalf("external write: %v", err)
	}

	select {
	case evt := <-ch:
		if evt.Type != EventChanged {
			t.Fatalf("expected EventChanged, got %+v", evt)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestPersistenceWatchLogsThroughLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), DataFileName)
	var out lockedBuffer
	log := slog.New(slog.NewTextHandler(&out, nil))
	p, err := Load(NewConfig(path), WithLogger(log))
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if _, err := p.Watch(ctx); err != nil {
		t.Fatalf("watch: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	// A directory in place of the file can not be read.
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "store: read watched file") {
		if time.Now().After(deadline) {
			t.Fatalf("expected the read failure to be logged, got %q", out.String())
		}
		time.Sleep(20 * time.Millisecond)
	}
}
