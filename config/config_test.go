package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/artpar/occigate/config"
)

// writeAndLoad writes a config file into a temp dir and loads it.
func writeAndLoad(t *testing.T, content string) (*config.Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "occigate.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return config.Load(path)
}

func TestLoad_Valid(t *testing.T) {
	cfg, err := writeAndLoad(t, `
server:
  host: 127.0.0.1
  port: 9000
  read_timeout: 10s
backend:
  url: http://nova.example:8774/v2
  timeout: 5s
logging:
  level: debug
  format: console
metrics:
  enabled: true
`)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("read_timeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Backend.URL != "http://nova.example:8774/v2" || cfg.Backend.Timeout != 5*time.Second {
		t.Errorf("backend = %+v", cfg.Backend)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics not enabled")
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := writeAndLoad(t, `
backend:
  url: http://nova.example:8774/v2
`)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8787 {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Server.ReadTimeout != 30*time.Second || cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("timeout defaults = %+v", cfg.Server)
	}
	if cfg.Backend.MaxIdleConns != 100 || cfg.Backend.IdleConnTimeout != 90*time.Second {
		t.Errorf("backend defaults = %+v", cfg.Backend)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("metrics path = %q", cfg.Metrics.Path)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(config.EnvBackendURL, "http://other.example:8774/v2")
	t.Setenv(config.EnvServerPort, "9999")
	t.Setenv(config.EnvLogLevel, "warn")

	cfg, err := writeAndLoad(t, `
backend:
  url: http://nova.example:8774/v2
server:
  port: 9000
`)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend.URL != "http://other.example:8774/v2" {
		t.Errorf("backend url = %q", cfg.Backend.URL)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestLoad_ExpandsVariables(t *testing.T) {
	t.Setenv("NOVA_HOST", "nova.internal")

	cfg, err := writeAndLoad(t, `
backend:
  url: http://${NOVA_HOST}:8774/v2
`)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend.URL != "http://nova.internal:8774/v2" {
		t.Errorf("backend url = %q", cfg.Backend.URL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing backend url", `
server:
  port: 9000
`},
		{"port out of range", `
backend:
  url: http://nova.example:8774/v2
server:
  port: 70000
`},
		{"bad log level", `
backend:
  url: http://nova.example:8774/v2
logging:
  level: loud
`},
		{"bad log format", `
backend:
  url: http://nova.example:8774/v2
logging:
  format: xml
`},
		{"not yaml", `{{{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := writeAndLoad(t, tt.content); err == nil {
				t.Error("Load() succeeded, want error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() succeeded, want error")
	}
}
