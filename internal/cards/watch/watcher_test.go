package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherRequiresCallback(t *testing.T) {
	if _, err := New(nil, Options{}); err == nil {
		t.Error("New() accepted a nil callback")
	}
}

func TestWatcherFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.ydk")
	if err := os.WriteFile(path, []byte("#main\n1001\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan string, 1)
	w, err := New(func(p string) {
		select {
		case changed <- p:
		default:
		}
	}, Options{ReloadsPerSecond: 100})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	// Give the watcher a moment to register before touching the file.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("#main\n1001\n1001\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		abs, _ := filepath.Abs(path)
		if got != abs {
			t.Errorf("callback path = %q, want %q", got, abs)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change event within 5s")
	}
}

func TestWatcherIgnoresUnregisteredFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "deck.ydk")
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(watched, []byte("#main\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan string, 4)
	w, err := New(func(p string) { changed <- p }, Options{ReloadsPerSecond: 100})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := w.Watch(watched); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(other, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		t.Errorf("callback fired for unregistered file %q", got)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	w, err := New(func(string) {}, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not stop after cancel")
	}
}
