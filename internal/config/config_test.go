package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// cliWithPath returns a CLI struct pointing at the given config file.
func cliWithPath(path string) *CLI {
	return &CLI{Config: path}
}

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
[server]
host = "127.0.0.1"
port = 9000
body_max_bytes = 5242880

[backend]
base_url = "http://10.0.0.5:8009"
timeout_seconds = 20
idle_connections = 50
idle_timeout_seconds = 5

[cors]
allowed_origins = ["https://example.com"]

[log]
level = "debug"
format = "text"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cliWithPath(path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9000)
	}
	if cfg.Backend.BaseURL != "http://10.0.0.5:8009" {
		t.Errorf("Backend.BaseURL = %q, want %q", cfg.Backend.BaseURL, "http://10.0.0.5:8009")
	}
	if cfg.Backend.TimeoutSeconds != 20 {
		t.Errorf("Backend.TimeoutSeconds = %d, want %d", cfg.Backend.TimeoutSeconds, 20)
	}
	if cfg.Backend.IdleTimeoutSeconds != 5 {
		t.Errorf("Backend.IdleTimeoutSeconds = %d, want %d", cfg.Backend.IdleTimeoutSeconds, 5)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("CORS.AllowedOrigins = %v, want [https://example.com]", cfg.CORS.AllowedOrigins)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "text")
	}
}

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	// Empty CLI and no file on the search paths: built-in defaults apply.
	cfg, err := Load(&CLI{})
	if err != nil {
		t.Fatalf("Load() error = %v; missing config file should not be fatal", err)
	}

	if cfg.Backend.BaseURL != "http://127.0.0.1:8009" {
		t.Errorf("Backend.BaseURL = %q, want %q", cfg.Backend.BaseURL, "http://127.0.0.1:8009")
	}
	if got := cfg.Server.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Server.Addr() = %q, want %q", got, "0.0.0.0:8080")
	}
	if cfg.Server.BodyMaxBytes != 10*1024*1024 {
		t.Errorf("Server.BodyMaxBytes = %d, want %d", cfg.Server.BodyMaxBytes, 10*1024*1024)
	}
	if cfg.Backend.TimeoutSeconds != 15 {
		t.Errorf("Backend.TimeoutSeconds = %d, want %d", cfg.Backend.TimeoutSeconds, 15)
	}
	if cfg.Backend.IdleTimeoutSeconds != 10 {
		t.Errorf("Backend.IdleTimeoutSeconds = %d, want %d", cfg.Backend.IdleTimeoutSeconds, 10)
	}
	wantOrigins := []string{"https://ase-bot.live", "https://www.ase-bot.live"}
	if len(cfg.CORS.AllowedOrigins) != len(wantOrigins) {
		t.Fatalf("CORS.AllowedOrigins = %v, want %v", cfg.CORS.AllowedOrigins, wantOrigins)
	}
	for i, want := range wantOrigins {
		if cfg.CORS.AllowedOrigins[i] != want {
			t.Errorf("CORS.AllowedOrigins[%d] = %q, want %q", i, cfg.CORS.AllowedOrigins[i], want)
		}
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Log defaults = %q/%q, want info/json", cfg.Log.Level, cfg.Log.Format)
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	cli := &CLI{
		Host:        "127.0.0.1",
		Port:        9999,
		BackendBase: "http://backend.internal:9000",
		LogLevel:    "warn",
	}

	cfg, err := Load(cli)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9999)
	}
	if cfg.Backend.BaseURL != "http://backend.internal:9000" {
		t.Errorf("Backend.BaseURL = %q, want %q", cfg.Backend.BaseURL, "http://backend.internal:9000")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "warn")
	}
}

func TestLoad_InvalidBackendScheme(t *testing.T) {
	cfg, err := Load(&CLI{BackendBase: "ftp://backend:21"})
	if err == nil {
		t.Fatalf("Load() = %+v, expected error for non-http scheme", cfg)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	_, err := Load(&CLI{Port: 70000})
	if err == nil {
		t.Fatal("Load() expected error for out-of-range port, got nil")
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	_, err := Load(&CLI{LogLevel: "verbose"})
	if err == nil {
		t.Fatal("Load() expected error for invalid log level, got nil")
	}
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
[log]
format = "xml"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(cliWithPath(path)); err == nil {
		t.Fatal("Load() expected error for invalid log format, got nil")
	}
}

func TestLoad_MetricsPathConflicts(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"default path ok", "/metrics", false},
		{"custom path ok", "/internal/metrics", false},
		{"health reserved", "/health", true},
		{"status reserved", "/gateway/status", true},
		{"login reserved", "/api/login", true},
		{"analysis reserved", "/api/analysis/market", true},
		{"no leading slash", "metrics", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")
			data := `
[metrics]
enabled = true
path = "` + tt.path + `"
`
			if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := Load(cliWithPath(path))
			if tt.wantErr && err == nil {
				t.Errorf("Load() expected error for metrics path %q, got nil", tt.path)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Load() error = %v for metrics path %q", err, tt.path)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(cliWithPath("/nonexistent/config.toml")); err == nil {
		t.Fatal("Load() expected error for explicitly given missing file, got nil")
	}
}

func TestFindConfigInPaths(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "exists.toml")
	if err := os.WriteFile(existing, []byte(""), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"first existing wins", []string{filepath.Join(dir, "missing.toml"), existing}, existing},
		{"none exist", []string{filepath.Join(dir, "a.toml"), filepath.Join(dir, "b.toml")}, ""},
		{"empty list", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findConfigInPaths(tt.paths); got != tt.want {
				t.Errorf("findConfigInPaths() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWarnPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file permission bits are not meaningful on Windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cfg := &Config{filePath: path}
	cfg.WarnPermissions(logger)

	if !strings.Contains(buf.String(), "chmod 600") {
		t.Errorf("expected permission warning for 0644 file, log = %q", buf.String())
	}

	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	cfg.WarnPermissions(logger)
	if buf.Len() != 0 {
		t.Errorf("expected no warning for 0600 file, log = %q", buf.String())
	}
}
