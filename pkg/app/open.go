package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"tableflip.dev/jot/pkg/link"
	"tableflip.dev/jot/pkg/store"
)

// Open wires a Service to the configured document and title cache and
// starts it. A nil cfg loads the user configuration.
func Open(ctx context.Context, cfg store.Config, log *slog.Logger) (*Service, error) {
	if cfg == nil {
		var err error
		if cfg, err = store.LoadConfig(); err != nil {
			return nil, err
		}
	}
	if log == nil {
		log = NewLogger(os.Stderr, cfg.LogLevel())
	}
	p, err := store.Load(cfg, store.WithLogger(log))
	if err != nil {
		return nil, err
	}

	var cache link.Cache
	if c, err := store.LoadTitleCache(cfg); err != nil {
		log.Warn("title cache unavailable", "err", err)
	} else {
		cache = c
	}

	svc := New(Options{
		Persistence: p,
		Titles:      link.NewResolver(cfg.FetchTimeout(), cache),
		SaveDelay:   cfg.SaveDelay(),
		Logger:      log,
	})
	if err := svc.Start(ctx); err != nil {
		_ = svc.Close(ctx)
		return nil, err
	}
	return svc, nil
}

// NewLogger returns a text logger at the named level. Unknown levels mean
// warn.
func NewLogger(w io.Writer, level string) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	var l slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}
