package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLevelsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loglevel.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func startWatcher(t *testing.T, w *Watcher[LevelsConfig]) {
	t.Helper()
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := w.Stop(); err != nil {
			t.Errorf("watcher.Stop failed: %v", err)
		}
	})
	time.Sleep(100 * time.Millisecond)
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcher_BasicReload(t *testing.T) {
	path := newLevelsFile(t, "[logging]\nlevel = \"info\"\n")

	received := make(chan LevelsConfig, 1)
	watcher := NewWatcher(path, LoadLevelsConfig, newTestLogger(),
		WithDebounce[LevelsConfig](50*time.Millisecond))
	watcher.OnReload(func(cfg LevelsConfig) { received <- cfg })
	startWatcher(t, watcher)

	write(t, path, "[logging]\nlevel = \"debug\"\n[loggers]\napi = \"trace\"\n")

	select {
	case cfg := <-received:
		if cfg.Level != "debug" || cfg.Loggers["api"] != "trace" {
			t.Errorf("got %+v, want level=debug api=trace", cfg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for config reload")
	}
}

func TestWatcher_AtomicReplace(t *testing.T) {
	path := newLevelsFile(t, "[logging]\nlevel = \"info\"\n")

	received := make(chan LevelsConfig, 4)
	watcher := NewWatcher(path, LoadLevelsConfig, newTestLogger(),
		WithDebounce[LevelsConfig](50*time.Millisecond))
	watcher.OnReload(func(cfg LevelsConfig) { received <- cfg })
	startWatcher(t, watcher)

	tmp := filepath.Join(filepath.Dir(path), ".loglevel.toml.swp")
	write(t, tmp, "[logging]\nlevel = \"error\"\n")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-received:
		if cfg.Level != "error" {
			t.Errorf("level = %q, want error", cfg.Level)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("rename over the config file was not picked up")
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	path := newLevelsFile(t, "[logging]\nlevel = \"info\"\n")

	var count atomic.Int32
	watcher := NewWatcher(path, LoadLevelsConfig, newTestLogger(),
		WithDebounce[LevelsConfig](50*time.Millisecond))
	watcher.OnReload(func(LevelsConfig) { count.Add(1) })
	startWatcher(t, watcher)

	write(t, filepath.Join(filepath.Dir(path), "other.toml"), "x = 1\n")
	time.Sleep(200 * time.Millisecond)

	if got := count.Load(); got != 0 {
		t.Errorf("expected no reloads for sibling files, got %d", got)
	}
}

func TestWatcher_MultipleHandlers(t *testing.T) {
	path := newLevelsFile(t, "[logging]\nlevel = \"info\"\n")

	var count atomic.Int32
	var configs []LevelsConfig
	var mu sync.Mutex

	watcher := NewWatcher(path, LoadLevelsConfig, newTestLogger(),
		WithDebounce[LevelsConfig](50*time.Millisecond))
	for range 3 {
		watcher.OnReload(func(cfg LevelsConfig) {
			count.Add(1)
			mu.Lock()
			configs = append(configs, cfg)
			mu.Unlock()
		})
	}
	startWatcher(t, watcher)

	write(t, path, "[logging]\nlevel = \"warn\"\n")
	time.Sleep(300 * time.Millisecond)

	if got := count.Load(); got != 3 {
		t.Errorf("expected 3 handlers called, got %d", got)
	}
	mu.Lock()
	defer mu.Unlock()
	for i, cfg := range configs {
		if cfg.Level != "warn" {
			t.Errorf("handler %d got wrong config: %+v", i, cfg)
		}
	}
}

func TestWatcher_Unsubscribe(t *testing.T) {
	path := newLevelsFile(t, "[logging]\nlevel = \"info\"\n")

	var count1, count2 atomic.Int32
	watcher := NewWatcher(path, LoadLevelsConfig, newTestLogger(),
		WithDebounce[LevelsConfig](50*time.Millisecond))
	watcher.OnReload(func(LevelsConfig) { count1.Add(1) })
	unsub2 := watcher.OnReload(func(LevelsConfig) { count2.Add(1) })
	startWatcher(t, watcher)

	write(t, path, "[logging]\nlevel = \"debug\"\n")
	time.Sleep(300 * time.Millisecond)

	unsub2()

	write(t, path, "[logging]\nlevel = \"trace\"\n")
	time.Sleep(300 * time.Millisecond)

	if got := count1.Load(); got != 2 {
		t.Errorf("handler1: expected 2 calls, got %d", got)
	}
	if got := count2.Load(); got != 1 {
		t.Errorf("handler2: expected 1 call, got %d", got)
	}
}

func TestWatcher_ErrorHandler(t *testing.T) {
	path := newLevelsFile(t, "[logging]\nlevel = \"info\"\n")

	errorReceived := make(chan error, 1)
	configReceived := make(chan LevelsConfig, 1)

	watcher := NewWatcher(path, LoadLevelsConfig, newTestLogger(),
		WithDebounce[LevelsConfig](50*time.Millisecond),
		WithErrorHandler[LevelsConfig](func(err error) { errorReceived <- err }),
	)
	watcher.OnReload(func(cfg LevelsConfig) { configReceived <- cfg })
	startWatcher(t, watcher)

	write(t, path, "invalid toml [[[")

	select {
	case <-errorReceived:
	case <-configReceived:
		t.Fatal("config handler should not be called on error")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for error handler")
	}
}

func TestWatcher_Debounce(t *testing.T) {
	path := newLevelsFile(t, "[loggers]\nn = \"trace\"\n")

	var count atomic.Int32
	var last atomic.Value

	watcher := NewWatcher(path, LoadLevelsConfig, newTestLogger(),
		WithDebounce[LevelsConfig](200*time.Millisecond))
	watcher.OnReload(func(cfg LevelsConfig) {
		count.Add(1)
		last.Store(cfg.Loggers["n"])
	})
	startWatcher(t, watcher)

	levels := []string{"debug", "info", "warn", "error", "silent"}
	for _, lvl := range levels {
		write(t, path, fmt.Sprintf("[loggers]\nn = %q\n", lvl))
		time.Sleep(50 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond)

	if got := count.Load(); got != 1 {
		t.Errorf("expected 1 debounced call, got %d", got)
	}
	if got := last.Load(); got != "silent" {
		t.Errorf("expected final level silent, got %v", got)
	}
}

func TestWatcher_ThreadSafety(t *testing.T) {
	path := newLevelsFile(t, "[logging]\nlevel = \"info\"\n")

	watcher := NewWatcher(path, LoadLevelsConfig, newTestLogger(),
		WithDebounce[LevelsConfig](10*time.Millisecond))
	startWatcher(t, watcher)

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := watcher.OnReload(func(LevelsConfig) {})
			time.Sleep(time.Millisecond)
			unsub()
		}()
	}

	for i := range 10 {
		write(t, path, fmt.Sprintf("[loggers]\nn%d = \"debug\"\n", i))
		time.Sleep(20 * time.Millisecond)
	}

	wg.Wait()
}

func TestWatcher_Stop(t *testing.T) {
	path := newLevelsFile(t, "[logging]\nlevel = \"info\"\n")

	var count atomic.Int32
	watcher := NewWatcher(path, LoadLevelsConfig, newTestLogger(),
		WithDebounce[LevelsConfig](50*time.Millisecond))
	watcher.OnReload(func(LevelsConfig) { count.Add(1) })

	if err := watcher.Start(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	if err := watcher.Stop(); err != nil {
		t.Fatal(err)
	}

	write(t, path, "[logging]\nlevel = \"error\"\n")
	time.Sleep(200 * time.Millisecond)

	if got := count.Load(); got != 0 {
		t.Errorf("expected 0 calls after stop, got %d", got)
	}
}

func TestWatcher_ReloadNow(t *testing.T) {
	path := newLevelsFile(t, "[logging]\nformat = \"json\"\n")

	var got LevelsConfig
	watcher := NewWatcher(path, LoadLevelsConfig, newTestLogger())
	watcher.OnReload(func(cfg LevelsConfig) { got = cfg })
	watcher.Reload()

	if got.Format != "json" {
		t.Errorf("Format = %q, want json", got.Format)
	}
}
