package sketch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// newTestWatcher writes an initial script to a temp dir and starts a
// watcher on it that counts reloads.
func newTestWatcher(t *testing.T, debounce time.Duration, onChange func() error, onError func(error)) (*scriptWatcher, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sketch.lua")
	if err := os.WriteFile(path, []byte("function draw() end"), 0o644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	w, err := newScriptWatcher(path, debounce, onChange, onError)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	w.Start()
	t.Cleanup(w.Stop)

	// Give the loop time to start.
	time.Sleep(50 * time.Millisecond)
	return w, path
}

func TestScriptWatcherDetectsSave(t *testing.T) {
	var reloads atomic.Int32
	_, path := newTestWatcher(t, 50*time.Millisecond, func() error {
		reloads.Add(1)
		return nil
	}, nil)

	if err := os.WriteFile(path, []byte("function draw() set_pixel(0, 0, 'red') end"), 0o644); err != nil {
		t.Fatalf("failed to modify script: %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	if n := reloads.Load(); n != 1 {
		t.Errorf("expected 1 reload, got %d", n)
	}
}

func TestScriptWatcherDebouncesBursts(t *testing.T) {
	var reloads atomic.Int32
	_, path := newTestWatcher(t, 100*time.Millisecond, func() error {
		reloads.Add(1)
		return nil
	}, nil)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("-- edit "+string(rune('0'+i))), 0o644); err != nil {
			t.Fatalf("failed to modify script: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(250 * time.Millisecond)

	if n := reloads.Load(); n != 1 {
		t.Errorf("expected 1 debounced reload, got %d", n)
	}
}

func TestScriptWatcherRenameSave(t *testing.T) {
	var reloads atomic.Int32
	_, path := newTestWatcher(t, 50*time.Millisecond, func() error {
		reloads.Add(1)
		return nil
	}, nil)

	tmp := path + ".swp"
	if err := os.WriteFile(tmp, []byte("function draw() end -- saved"), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("failed to rename temp file: %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	if n := reloads.Load(); n < 1 {
		t.Errorf("expected at least 1 reload after rename, got %d", n)
	}
}

func TestScriptWatcherIgnoresSiblings(t *testing.T) {
	var reloads atomic.Int32
	_, path := newTestWatcher(t, 50*time.Millisecond, func() error {
		reloads.Add(1)
		return nil
	}, nil)

	other := filepath.Join(filepath.Dir(path), "notes.txt")
	if err := os.WriteFile(other, []byte("unrelated"), 0o644); err != nil {
		t.Fatalf("failed to write sibling: %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	if n := reloads.Load(); n != 0 {
		t.Errorf("expected 0 reloads, got %d", n)
	}
}

func TestScriptWatcherReportsReloadErrors(t *testing.T) {
	var gotErr atomic.Bool
	_, path := newTestWatcher(t, 50*time.Millisecond, func() error {
		return ErrScript
	}, func(err error) {
		gotErr.Store(true)
	})

	if err := os.WriteFile(path, []byte("function draw("), 0o644); err != nil {
		t.Fatalf("failed to modify script: %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	if !gotErr.Load() {
		t.Error("expected error callback")
	}
}

func TestScriptWatcherStop(t *testing.T) {
	var reloads atomic.Int32
	w, path := newTestWatcher(t, 50*time.Millisecond, func() error {
		reloads.Add(1)
		return nil
	}, nil)

	w.Stop()
	w.Stop()

	if err := os.WriteFile(path, []byte("-- after stop"), 0o644); err != nil {
		t.Fatalf("failed to modify script: %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	if n := reloads.Load(); n != 0 {
		t.Errorf("expected 0 reloads after stop, got %d", n)
	}
}

func TestScriptWatcherStopWithoutStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketch.lua")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	w, err := newScriptWatcher(path, 0, nil, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	if w.debounce != DefaultWatchDebounce {
		t.Errorf("debounce = %v, want %v", w.debounce, DefaultWatchDebounce)
	}
	w.Stop()
	w.Start()
	if w.running {
		t.Error("a stopped watcher must not restart")
	}
}

func TestNewScriptWatcherMissingDir(t *testing.T) {
	_, err := newScriptWatcher(filepath.Join(t.TempDir(), "missing", "sketch.lua"), 0, nil, nil)
	if err == nil {
		t.Error("expected error for a missing directory")
	}
}
