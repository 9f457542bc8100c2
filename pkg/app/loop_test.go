package app

import (
	"context"
	"testing"
	"time"
)

func TestLoopRunsInOrder(t *testing.T) {
	l := NewLoop()
	go l.Run()

	var got []int
	for i := 0; i < 10; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}
	if err := l.Call(context.Background(), func() {}); err != nil {
		t.Fatalf("call: %v", err)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("out of order: %v", got)
		}
	}
	l.Stop()
	if l.Post(func() {}) {
		t.Fatalf("post after stop should fail")
	}
}

func TestLoopPostFromLoop(t *testing.T) {
	l := NewLoop()
	go l.Run()
	defer l.Stop()

	done := make(chan struct{})
	l.Post(func() {
		l.Post(func() { close(done) })
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("nested post never ran")
	}
}

func TestLoopCallHonoursContext(t *testing.T) {
	l := NewLoop()
	go l.Run()
	defer l.Stop()

	block := make(chan struct{})
	l.Post(func() { <-block })
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Call(ctx, func() {}); err == nil {
		t.Fatalf("expected context error")
	}
	close(block)
}
