package watcher

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func collect() (func([]string), <-chan []string) {
	ch := make(chan []string, 8)
	return func(paths []string) { ch <- paths }, ch
}

func TestDebounceBatchesChanges(t *testing.T) {
	onChange, got := collect()
	w := NewWatcher(20*time.Millisecond, onChange)
	defer w.Stop()

	w.FileChanged("b.yaml")
	w.FileChanged("a.yaml")
	w.FilesChanged([]string{"b.yaml", "c.yaml"})

	select {
	case paths := <-got:
		want := []string{"a.yaml", "b.yaml", "c.yaml"}
		if !reflect.DeepEqual(paths, want) {
			t.Errorf("paths = %v, want %v", paths, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case paths := <-got:
		t.Errorf("unexpected second batch %v", paths)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestShouldIgnore(t *testing.T) {
	w := NewWatcher(time.Millisecond, nil)
	tests := []struct {
		path string
		want bool
	}{
		{"catalog.yaml", false},
		{"content/catalog.yml", false},
		{".catalog.yaml.swp", true},
		{"catalog.yaml~", true},
		{"quote.db", true},
		{"waypoints.log", true},
		{"repo/.git/HEAD", true},
	}
	for _, tt := range tests {
		if got := w.shouldIgnore(tt.path); got != tt.want {
			t.Errorf("shouldIgnore(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIgnoredChangesDoNotFire(t *testing.T) {
	onChange, got := collect()
	w := NewWatcher(10*time.Millisecond, onChange)
	w.FilesChanged([]string{"x.swp", "y.tmp"})

	select {
	case paths := <-got:
		t.Errorf("unexpected batch %v", paths)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStopDropsPending(t *testing.T) {
	onChange, got := collect()
	w := NewWatcher(20*time.Millisecond, onChange)
	w.FileChanged("catalog.yaml")
	w.Stop()
	w.FileChanged("catalog.yaml")

	select {
	case paths := <-got:
		t.Errorf("unexpected batch %v", paths)
	case <-time.After(80 * time.Millisecond):
	}
}

func TestWatchReportsFileWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "catalog.yaml")
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(target, []byte("title: a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	onChange, got := collect()
	w := NewWatcher(30*time.Millisecond, onChange)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, target) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("title: b\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-got:
		if len(paths) != 1 || filepath.Base(paths[0]) != "catalog.yaml" {
			t.Errorf("paths = %v, want only catalog.yaml", paths)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("write not reported")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchFailsForMissingDirectory(t *testing.T) {
	w := NewWatcher(time.Millisecond, nil)
	err := w.Watch(context.Background(), filepath.Join(t.TempDir(), "missing", "catalog.yaml"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestWatchReportsTargetsMatchingIgnoreList(t *testing.T) {
	tests := []struct {
		name, dir, file string
	}{
		{"vendor directory", "vendor-site", "catalog.yaml"},
		{"git directory", ".git", "catalog.yaml"},
		{"dotfile", "site", ".catalog.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), tt.dir)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				t.Fatal(err)
			}
			target := filepath.Join(dir, tt.file)
			if err := os.WriteFile(target, []byte("title: a\n"), 0o644); err != nil {
				t.Fatal(err)
			}

			onChange, got := collect()
			w := NewWatcher(30*time.Millisecond, onChange)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go func() { _ = w.Watch(ctx, target) }()

			time.Sleep(100 * time.Millisecond)
			if err := os.WriteFile(target, []byte("title: b\n"), 0o644); err != nil {
				t.Fatal(err)
			}

			select {
			case paths := <-got:
				if len(paths) != 1 || filepath.Base(paths[0]) != tt.file {
					t.Errorf("paths = %v, want only %s", paths, tt.file)
				}
			case <-time.After(3 * time.Second):
				t.Fatalf("write to %s not reported", target)
			}
		})
	}
}
