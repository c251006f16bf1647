package config

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/app-estudos/estudos/internal/errors"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.BasePath != "/" {
		t.Errorf("BasePath = %q, want /", cfg.BasePath)
	}
	if cfg.Modules.Source != SourceEmbed {
		t.Errorf("Modules.Source = %q, want %q", cfg.Modules.Source, SourceEmbed)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q", cfg.Metrics.Namespace)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), dir)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{
  "name": "Meus estudos",
  "basePath": "/app",
  "server": {"host": "0.0.0.0", "port": 9090, "readTimeout": "5s"},
  "log": {"level": "debug", "format": "json"},
  "modules": {"source": "dir", "dir": "content"},
  "metrics": {"enabled": true}
}
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Name != "Meus estudos" || cfg.BasePath != "/app" {
		t.Errorf("Name, BasePath = %q, %q", cfg.Name, cfg.BasePath)
	}
	if cfg.Address() != "0.0.0.0:9090" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.ReadTimeout() != 5*time.Second {
		t.Errorf("ReadTimeout() = %v, want 5s", cfg.ReadTimeout())
	}
	if cfg.WriteTimeout() != 15*time.Second {
		t.Errorf("WriteTimeout() = %v, want default 15s", cfg.WriteTimeout())
	}
	if cfg.ModulesDir() != filepath.Join(dir, "content") {
		t.Errorf("ModulesDir() = %q", cfg.ModulesDir())
	}
	if !cfg.Metrics.Enabled || cfg.Tracing.Enabled {
		t.Errorf("Metrics.Enabled = %v, Tracing.Enabled = %v", cfg.Metrics.Enabled, cfg.Tracing.Enabled)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoadSyntaxError(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "{\n  \"server\": {\n    \"port\": ,\n  }\n}\n")

	_, err := Load(dir)
	if errors.CodeOf(err) != "E100" {
		t.Fatalf("Load() error = %v, want E100", err)
	}
	var e *errors.Error
	stderrors.As(err, &e)
	if e.Location == nil || e.Location.Line != 3 {
		t.Errorf("Location = %v, want line 3", e.Location)
	}
}

func TestLoadTypeError(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"server": {"port": "eighty"}}`)

	_, err := Load(dir)
	if errors.CodeOf(err) != "E101" {
		t.Fatalf("Load() error = %v, want E101", err)
	}
	if !strings.Contains(err.Error(), "port") {
		t.Errorf("error %q should name the field", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantCode string
		wantText string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "E101", "server.port"},
		{"relative base", func(c *Config) { c.BasePath = "app" }, "E101", "basePath"},
		{"bad timeout", func(c *Config) { c.Server.ReadTimeout = "soon" }, "E101", "readTimeout"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "E101", "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "E101", "log.format"},
		{"dir without path", func(c *Config) { c.Modules.Source = SourceDir }, "E101", "modules.dir"},
		{"s3 without bucket", func(c *Config) { c.Modules.Source = SourceS3; c.Modules.S3.Region = "us-east-1" }, "E101", "bucket"},
		{"unknown source", func(c *Config) { c.Modules.Source = "ftp" }, "E300", "ftp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if errors.CodeOf(err) != tt.wantCode {
				t.Fatalf("Validate() error = %v, want code %s", err, tt.wantCode)
			}
			if !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("Validate() error %q should mention %q", err, tt.wantText)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ESTUDOS_PORT":                 "9999",
		"ESTUDOS_BASE_PATH":            "/estudos",
		"ESTUDOS_MODULES_SOURCE":       "s3",
		"ESTUDOS_S3_BUCKET":            "content",
		"ESTUDOS_S3_REGION":            "sa-east-1",
		"ESTUDOS_S3_USE_PATH_STYLE":    "true",
		"ESTUDOS_S3_SECRET_ACCESS_KEY": "secret",
		"ESTUDOS_TRACING_ENABLED":      "1",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := New()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if cfg.Server.Port != 9999 || cfg.BasePath != "/estudos" {
		t.Errorf("Port, BasePath = %d, %q", cfg.Server.Port, cfg.BasePath)
	}
	if cfg.Modules.Source != SourceS3 || cfg.Modules.S3.Bucket != "content" || !cfg.Modules.S3.UsePathStyle {
		t.Errorf("Modules = %+v", cfg.Modules)
	}
	if cfg.Modules.S3.SecretAccessKey != "secret" || !cfg.Tracing.Enabled {
		t.Error("credentials or tracing override not applied")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}

	bad := map[string]string{"ESTUDOS_PORT": "x", "ESTUDOS_METRICS_ENABLED": "maybe"}
	err := New().ApplyEnv(func(k string) (string, bool) { v, ok := bad[k]; return v, ok })
	if errors.CodeOf(err) != "E102" {
		t.Fatalf("ApplyEnv(bad) error = %v, want E102", err)
	}
	if !strings.Contains(err.Error(), "ESTUDOS_PORT") || !strings.Contains(err.Error(), "ESTUDOS_METRICS_ENABLED") {
		t.Errorf("ApplyEnv(bad) error %q should list both variables", err)
	}
}

func TestLoadWithEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"server": {"port": 9090}}`)
	if err := os.WriteFile(filepath.Join(dir, EnvFileName), []byte("ESTUDOS_NAME=\"Do arquivo\"\nESTUDOS_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ESTUDOS_LOG_LEVEL", "warn")
	t.Cleanup(func() { os.Unsetenv("ESTUDOS_NAME") })

	cfg, err := LoadWithEnv(dir)
	if err != nil {
		t.Fatalf("LoadWithEnv() error: %v", err)
	}
	if cfg.Name != "Do arquivo" {
		t.Errorf("Name = %q, want value from .env", cfg.Name)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want the process environment to win", cfg.Log.Level)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Name = "Salvo"
	cfg.Modules.S3.SecretAccessKey = "never written"

	path := filepath.Join(dir, FileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if bytes.Contains(data, []byte("never written")) {
		t.Error("credentials were written to the config file")
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Name != "Salvo" || loaded.Path() != path {
		t.Errorf("reloaded Name, Path = %q, %q", loaded.Name, loaded.Path())
	}

	if err := (&Config{}).Save(); err == nil {
		t.Error("Save() without a path should fail")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf).Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %q", buf.String())
	}

	LogConfig{Level: "debug", Format: "json"}.NewLogger(&buf).Debug("shown", "k", "v")
	if !strings.Contains(buf.String(), `"msg":"shown"`) || !strings.Contains(buf.String(), `"k":"v"`) {
		t.Errorf("json output = %q", buf.String())
	}

	buf.Reset()
	LogConfig{Level: "info", Format: "text"}.NewLogger(&buf).Info("plain")
	if !strings.Contains(buf.String(), "msg=plain") {
		t.Errorf("text output = %q", buf.String())
	}
}
