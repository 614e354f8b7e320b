package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/tilawa-app/tilawa/internal/config"
)

func TestWatcher_InitialLoad(t *testing.T) {
	path := writeConfig(t, sampleYAML)

	w, err := config.NewWatcher(path, nil, config.WithInterval(time.Hour))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	if got := w.Current().Server.ListenAddr; got != ":8080" {
		t.Errorf("Current().Server.ListenAddr = %q, want :8080", got)
	}
}

func TestWatcher_InitialLoadFailure(t *testing.T) {
	path := writeConfig(t, "server:\n  log_level: loud\n")

	if _, err := config.NewWatcher(path, nil); err == nil {
		t.Fatal("expected an error for an invalid initial config, got nil")
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	path := writeConfig(t, "engine:\n  unrelated_threshold: 0.4\n")

	changed := make(chan *config.Config, 1)
	w, err := config.NewWatcher(path, func(_, updated *config.Config) {
		changed <- updated
	}, config.WithInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	// The poller compares mtimes; make sure the rewrite lands on a later one.
	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(path, []byte("engine:\n  unrelated_threshold: 0.5\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	future := time.Now().Add(time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("adjust mtime: %v", err)
	}

	select {
	case updated := <-changed:
		if updated.Engine.UnrelatedThreshold != 0.5 {
			t.Errorf("reloaded threshold = %f, want 0.5", updated.Engine.UnrelatedThreshold)
		}
		if w.Current().Engine.UnrelatedThreshold != 0.5 {
			t.Errorf("Current() not updated after reload")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the reload callback")
	}
}

func TestWatcher_KeepsPreviousOnInvalidEdit(t *testing.T) {
	path := writeConfig(t, "engine:\n  unrelated_threshold: 0.4\n")

	w, err := config.NewWatcher(path, func(_, _ *config.Config) {
		t.Error("onChange fired for an invalid config")
	}, config.WithInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("engine:\n  unrelated_threshold: 7\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	future := time.Now().Add(time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("adjust mtime: %v", err)
	}

	// Give the poller a few cycles to see the bad edit.
	time.Sleep(100 * time.Millisecond)

	if got := w.Current().Engine.UnrelatedThreshold; got != 0.4 {
		t.Errorf("Current() threshold = %f, want the previous valid 0.4", got)
	}
}
