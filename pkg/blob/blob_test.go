package blob

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	path    string
	backend string
}

func (t testConfig) BasePath() string  { return t.path }
func (t testConfig) Backend() string   { return t.backend }
func (t testConfig) TeamPath() string  { return "" }
func (t testConfig) InviteURL() string { return DefaultInviteURL }

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	if _, ok, err := s.Get("gap_logs"); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}
	if err := s.Set("gap_logs", `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("gap_logs", `[{"id":"a"}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := s.Get("gap_logs")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if v != `[{"id":"a"}]` {
		t.Fatalf("unexpected value %q", v)
	}
	if _, ok, _ := s.Get("gap_user"); ok {
		t.Fatalf("keys must be independent")
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory(nil)
	exerciseStore(t, m)
	if m.Writes() != 2 {
		t.Fatalf("expected 2 writes, got %d", m.Writes())
	}

	var zero Memory
	if err := zero.Set("k", "v"); err != nil {
		t.Fatalf("zero value set: %v", err)
	}
}

func TestDiskv(t *testing.T) {
	s := NewDiskv(t.TempDir())
	exerciseStore(t, s)
	if keys := s.Keys(); len(keys) != 1 || keys[0] != "gap_logs" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestSQLite(t *testing.T) {
	s, err := OpenSQLite(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	s, closer, err := Open(testConfig{path: dir, backend: BackendSQLite})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, ok := s.(*SQLite); !ok {
		t.Fatalf("expected *SQLite, got %T", s)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, closer, err = Open(testConfig{path: filepath.Join(dir, "disk"), backend: BackendDiskv})
	if err != nil {
		t.Fatalf("open diskv: %v", err)
	}
	defer closer.Close()
	if _, ok := s.(*Diskv); !ok {
		t.Fatalf("expected *Diskv, got %T", s)
	}

	if _, _, err := Open(testConfig{path: dir, backend: "redis"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GAPFLOW_CONFIG_PATH", dir)
	t.Setenv("GAPFLOW_PATH", filepath.Join(dir, "data"))
	t.Setenv("GAPFLOW_BACKEND", "SQLite")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BasePath() != filepath.Join(dir, "data") {
		t.Fatalf("unexpected path %q", cfg.BasePath())
	}
	if cfg.Backend() != BackendSQLite {
		t.Fatalf("unexpected backend %q", cfg.Backend())
	}
	if cfg.InviteURL() != DefaultInviteURL {
		t.Fatalf("unexpected invite url %q", cfg.InviteURL())
	}
}

func TestDiskvWatchEmitsKeyChanges(t *testing.T) {
	base := t.TempDir()
	s := NewDiskv(base)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow the watcher goroutine to subscribe before writing.
	time.Sleep(50 * time.Millisecond)

	if err := s.Set("gap_logs", `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Key == "gap_logs" {
				return
			}
			t.Fatalf("unexpected key %q", evt.Key)
		case <-deadline:
			t.Fatal("timed out waiting for key change event")
		}
	}
}

func TestKeyForPath(t *testing.T) {
	s := NewDiskv("/data")
	cases := map[string]string{
		"/data/gap_logs":  "gap_logs",
		"/data/.tmp/123":  "",
		"/data":           "",
		"/other/gap_user": "",
		"/data/.hidden":   "",
	}
	for in, want := range cases {
		if got := s.keyForPath(in); got != want {
			t.Fatalf("keyForPath(%q) = %q, want %q", in, got, want)
		}
	}
}
