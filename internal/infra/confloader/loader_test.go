package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadServerConfigDefaultsOnly(t *testing.T) {
	cfg, err := NewLoader().LoadServerConfig()
	if err != nil {
		t.Fatalf("LoadServerConfig: %v", err)
	}
	if cfg.Storage.Backend != "redis" {
		t.Fatalf("Backend = %q, want redis", cfg.Storage.Backend)
	}
	if cfg.Records.AccessMaxAge != "20m" {
		t.Fatalf("AccessMaxAge = %q, want 20m", cfg.Records.AccessMaxAge)
	}
}

func TestLoadServerConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	data := `
server:
  http:
    addr: 0.0.0.0:7080
storage:
  backend: memory
records:
  access_max_age: 10m
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewLoader(WithConfigFile(path)).LoadServerConfig()
	if err != nil {
		t.Fatalf("LoadServerConfig: %v", err)
	}
	if cfg.Server.HTTP.Addr != "0.0.0.0:7080" {
		t.Fatalf("Addr = %q", cfg.Server.HTTP.Addr)
	}
	if cfg.Storage.Backend != "memory" {
		t.Fatalf("Backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Records.AccessMaxAge != "10m" {
		t.Fatalf("AccessMaxAge = %q, want 10m", cfg.Records.AccessMaxAge)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Level = %q, want debug", cfg.Log.Level)
	}
	// untouched sections keep defaults
	if cfg.Records.SessionMaxAge != "5m" {
		t.Fatalf("SessionMaxAge = %q, want default 5m", cfg.Records.SessionMaxAge)
	}
}

func TestLoadServerConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TOKENSTORE_LOG_LEVEL", "error")

	cfg, err := NewLoader(WithConfigFile(path)).LoadServerConfig()
	if err != nil {
		t.Fatalf("LoadServerConfig: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Fatalf("Level = %q, want env override error", cfg.Log.Level)
	}
}

func TestLoadServerConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  backend: dynamo\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := NewLoader(WithConfigFile(path)).LoadServerConfig(); err == nil {
		t.Fatal("invalid backend should fail verification")
	}
}

func TestLoadMap(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{"log.level": "debug"}); err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	if got := l.GetString("log.level"); got != "debug" {
		t.Fatalf("GetString = %q, want debug", got)
	}
}

func TestWatcherSeesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	changed := make(chan string, 1)
	w.OnChange(func(p string) {
		select {
		case changed <- p:
		default:
		}
	})
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	w.StartAsync()

	// give the watcher goroutine a beat to be scheduled
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not report the write")
	}
}
