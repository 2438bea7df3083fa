package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func TestNewConfigWatcherRequiresFields(t *testing.T) {
	if _, err := NewConfigWatcher(&WatcherConfig{OnChange: func(_, _ *Config) {}}); err != ErrMissingConfigFile {
		t.Errorf("expected ErrMissingConfigFile, got %v", err)
	}
	if _, err := NewConfigWatcher(&WatcherConfig{FilePath: "rdl2.yaml"}); err != ErrMissingOnChange {
		t.Errorf("expected ErrMissingOnChange, got %v", err)
	}
}

func TestConfigWatcherReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rdl2.yaml")
	writeFile(t, path, "writer:\n  elemsPerLine: 1\n")

	changes := make(chan *Config, 4)
	w, err := NewConfigWatcher(&WatcherConfig{
		FilePath: path,
		Debounce: 50 * time.Millisecond,
		OnChange: func(_, newCfg *Config) { changes <- newCfg },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := w.GetCurrentConfig().Writer.ElemsPerLine; got != 1 {
		t.Fatalf("expected initial elems per line 1, got %d", got)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer w.Stop()
	if !w.IsRunning() {
		t.Error("expected watcher to be running")
	}

	writeFile(t, path, "writer:\n  elemsPerLine: 6\n")

	select {
	case cfg := <-changes:
		if cfg.Writer.ElemsPerLine != 6 {
			t.Errorf("expected reloaded elems per line 6, got %d", cfg.Writer.ElemsPerLine)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	if got := w.GetCurrentConfig().Writer.ElemsPerLine; got != 6 {
		t.Errorf("expected current elems per line 6, got %d", got)
	}
}

func TestConfigWatcherRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rdl2.yaml")
	writeFile(t, path, "writer:\n  elemsPerLine: 1\n")

	errCh := make(chan error, 4)
	w, err := NewConfigWatcher(&WatcherConfig{
		FilePath: path,
		Debounce: 50 * time.Millisecond,
		OnChange: func(_, _ *Config) { t.Error("unexpected reload of an invalid config") },
		OnError:  func(err error) { errCh <- err },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer w.Stop()

	writeFile(t, path, "writer:\n  splitVectorSize: 0\n")

	select {
	case <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for validation error")
	}
	if got := w.GetCurrentConfig().Writer.ElemsPerLine; got != 1 {
		t.Errorf("expected previous config to stay current, got elems per line %d", got)
	}
}

func TestConfigWatcherStopIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rdl2.yaml")
	writeFile(t, path, "")

	w, err := NewConfigWatcher(&WatcherConfig{FilePath: path, OnChange: func(_, _ *Config) {}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.Stop()
	if err := w.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	w.Stop()
	w.Stop()
	if w.IsRunning() {
		t.Error("expected watcher to be stopped")
	}
}
