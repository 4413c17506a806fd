package config

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/imui/internal/errors"
	"github.com/vango-dev/imui/pkg/imui"
	"github.com/vango-dev/imui/pkg/retained"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Session.MaxDepth != imui.DefaultMaxDepth {
		t.Errorf("Session.MaxDepth = %d, want %d", cfg.Session.MaxDepth, imui.DefaultMaxDepth)
	}
	if cfg.Session.Strategy != "scan" {
		t.Errorf("Session.Strategy = %q, want %q", cfg.Session.Strategy, "scan")
	}
	if cfg.Session.Duplicates != "warn" {
		t.Errorf("Session.Duplicates = %q, want %q", cfg.Session.Duplicates, "warn")
	}
	if cfg.Inspect.Address != DefaultInspectAddress {
		t.Errorf("Inspect.Address = %q, want %q", cfg.Inspect.Address, DefaultInspectAddress)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if err == nil {
		t.Fatal("Expected error for missing config")
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Code != "E141" {
		t.Errorf("Expected E141, got: %v", err)
	}

	configJSON := `{
  "session": {
    "maxDepth": 8,
    "strategy": "auto",
    "indexThreshold": 16
  },
  "metrics": {
    "enabled": true
  },
  "log": {
    "level": "debug"
  }
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Session.MaxDepth != 8 {
		t.Errorf("Session.MaxDepth = %d, want %d", cfg.Session.MaxDepth, 8)
	}
	if cfg.Session.Strategy != "auto" {
		t.Errorf("Session.Strategy = %q, want %q", cfg.Session.Strategy, "auto")
	}
	if cfg.Session.Duplicates != "warn" {
		t.Errorf("Session.Duplicates = %q, want the default", cfg.Session.Duplicates)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be true")
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel())
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) {
		t.Errorf("Path = %q", cfg.Path())
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configYAML := `session:
  strategy: evict
  duplicates: reject
inspect:
  enabled: true
  address: ":9000"
log:
  format: json
`
	if err := os.WriteFile(filepath.Join(tmpDir, "imui.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Session.Strategy != "evict" || cfg.Session.Duplicates != "reject" {
		t.Errorf("Session = %+v", cfg.Session)
	}
	if !cfg.Inspect.Enabled || cfg.Inspect.Address != ":9000" {
		t.Errorf("Inspect = %+v", cfg.Inspect)
	}
	if cfg.Session.MaxDepth != imui.DefaultMaxDepth {
		t.Errorf("Session.MaxDepth = %d, want the default", cfg.Session.MaxDepth)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", ConfigFileName, "not valid json"},
		{"yaml", "imui.yml", "session: [unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := LoadFile(configPath)
			if err == nil {
				t.Fatal("Expected error for invalid file")
			}
			if !strings.Contains(err.Error(), "E120") {
				t.Errorf("Expected E120 error, got: %v", err)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	for _, name := range []string{ConfigFileName, "imui.yaml"} {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), name)

			cfg := New()
			cfg.Session.MaxDepth = 12
			cfg.Log.Format = "json"
			if err := cfg.SaveTo(configPath); err != nil {
				t.Fatalf("SaveTo error: %v", err)
			}
			if cfg.Path() != configPath {
				t.Errorf("Path = %q, want %q", cfg.Path(), configPath)
			}

			loaded, err := LoadFile(configPath)
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			if loaded.Session.MaxDepth != 12 {
				t.Errorf("Session.MaxDepth = %d, want %d", loaded.Session.MaxDepth, 12)
			}
			if loaded.Log.Format != "json" {
				t.Errorf("Log.Format = %q, want json", loaded.Log.Format)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"max depth", func(c *Config) { c.Session.MaxDepth = 0 }},
		{"index threshold", func(c *Config) { c.Session.IndexThreshold = -1 }},
		{"strategy", func(c *Config) { c.Session.Strategy = "random" }},
		{"duplicates", func(c *Config) { c.Session.Duplicates = "ignore" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate should fail")
			}
			if !strings.Contains(err.Error(), "E122") {
				t.Errorf("Expected E122 error, got: %v", err)
			}
		})
	}
}

func TestSessionOptions(t *testing.T) {
	cfg := New()
	cfg.Session.MaxDepth = 2

	tree := retained.New()
	sess := imui.NewSession(tree, tree.Root(), func(s *imui.Session) {
		s.Panel(1, 0)
		s.Panel(1, 0)
	}, cfg.SessionOptions()...)

	defer func() {
		err, ok := imui.IsViolation(recover())
		if !ok || !stderrors.Is(err, imui.ErrStackOverflow) {
			t.Errorf("expected a stack overflow with maxDepth 2, got %v", err)
		}
	}()
	sess.Render(context.Background())
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := New()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info records should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected a JSON record, got %q", out)
	}
}

func TestTodoDBPath(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := New()
	if got := cfg.TodoDBPath(); got != DefaultTodoDB {
		t.Errorf("TodoDBPath without a file = %q, want %q", got, DefaultTodoDB)
	}

	cfg.SaveTo(filepath.Join(tmpDir, ConfigFileName))
	if got := cfg.TodoDBPath(); got != filepath.Join(tmpDir, DefaultTodoDB) {
		t.Errorf("TodoDBPath = %q", got)
	}

	cfg.Demo.TodoDB = "/absolute/todo.db"
	if got := cfg.TodoDBPath(); got != "/absolute/todo.db" {
		t.Errorf("TodoDBPath absolute = %q", got)
	}
}

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()

	if Exists(tmpDir) {
		t.Error("Exists should be false for empty directory")
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "imui.yml"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	if !Exists(tmpDir) {
		t.Error("Exists should be true after creating config")
	}
}

func TestFindRoot(t *testing.T) {
	// Create nested directory structure
	tmpDir := t.TempDir()
	nestedDir := filepath.Join(tmpDir, "a", "b", "c")
	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatal(err)
	}

	// Should fail when no config exists
	if _, err := FindRoot(nestedDir); err == nil {
		t.Error("FindRoot should fail when no config exists")
	}

	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	root, err := FindRoot(nestedDir)
	if err != nil {
		t.Fatalf("FindRoot error: %v", err)
	}
	if root != tmpDir {
		t.Errorf("FindRoot = %q, want %q", root, tmpDir)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Session.MaxDepth != imui.DefaultMaxDepth {
		t.Errorf("Session.MaxDepth = %d, want %d", cfg.Session.MaxDepth, imui.DefaultMaxDepth)
	}
	if cfg.Session.IndexThreshold != imui.DefaultIndexThreshold {
		t.Errorf("Session.IndexThreshold = %d, want %d", cfg.Session.IndexThreshold, imui.DefaultIndexThreshold)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Demo.TodoDB != DefaultTodoDB {
		t.Errorf("Demo.TodoDB = %q", cfg.Demo.TodoDB)
	}
}
