package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/app-estudos/estudos/internal/config"
	"github.com/app-estudos/estudos/internal/errors"
	"github.com/app-estudos/estudos/pkg/server"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--dir", t.TempDir()}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRoutesFormats(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		out, err := run(t, "routes")
		if err != nil {
			t.Fatalf("routes: %v", err)
		}
		for _, want := range []string{"ROUTE", "(default)", "trabalhos/novo/diagrama", "unloaded"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "routes", "--format=json", "--load")
		if err != nil {
			t.Fatalf("routes: %v", err)
		}
		var routes []server.RouteInfo
		if err := json.Unmarshal([]byte(out), &routes); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		if len(routes) != 8 {
			t.Fatalf("got %d routes, want 8", len(routes))
		}
		for _, r := range routes {
			if r.State != "loaded" || r.Loads != 1 {
				t.Errorf("%s: state %s loads %d after --load", r.FullPath, r.State, r.Loads)
			}
		}
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := run(t, "routes", "-f", "yaml")
		if err != nil {
			t.Fatalf("routes: %v", err)
		}
		var routes []server.RouteInfo
		if err := yaml.Unmarshal([]byte(out), &routes); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		if len(routes) != 8 || routes[1].Name != "dashboard" || !routes[1].Default {
			t.Errorf("routes = %+v", routes)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := run(t, "routes", "--format=xml")
		if errors.CodeOf(err) != "E400" {
			t.Errorf("err = %v, want E400", err)
		}
	})
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode string
		want     []string
	}{
		{"path", []string{"resolve", "/trabalhos/novo"}, "", []string{"/trabalhos/novo", "trabalhos/novo [trabalhos-novo]"}},
		{"default", []string{"resolve", "/"}, "", []string{"(default) [dashboard]"}},
		{"name", []string{"resolve", "--name", "vuetify"}, "", []string{"/vuetify", "vuetify [vuetify]"}},
		{"render", []string{"resolve", "/", "--render"}, "", []string{"<h1>Dashboard</h1>", `class="layout"`}},
		{"no match", []string{"resolve", "/nope"}, "E201", nil},
		{"unknown name", []string{"resolve", "-n", "nope"}, "E201", nil},
		{"no args", []string{"resolve"}, "E401", nil},
		{"both", []string{"resolve", "/", "--name", "dashboard"}, "E401", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if got := errors.CodeOf(err); got != tt.wantCode {
				t.Fatalf("code = %q (%v), want %q", got, err, tt.wantCode)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q", out)
	}
}

func TestModuleSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "dashboard.md"), []byte("title: Local\n\nhi\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		modules  config.ModulesConfig
		wantCode string
	}{
		{"embed", config.ModulesConfig{Source: config.SourceEmbed}, ""},
		{"dir", config.ModulesConfig{Source: config.SourceDir, Dir: dir}, ""},
		{"missing dir", config.ModulesConfig{Source: config.SourceDir, Dir: filepath.Join(dir, "nope")}, "E302"},
		{"s3", config.ModulesConfig{Source: config.SourceS3, S3: config.S3Config{Bucket: "b", Region: "us-east-1"}}, ""},
		{"unknown", config.ModulesConfig{Source: "ftp"}, "E300"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Modules = tt.modules
			src, err := moduleSource(cfg)
			if got := errors.CodeOf(err); got != tt.wantCode {
				t.Fatalf("code = %q (%v), want %q", got, err, tt.wantCode)
			}
			if tt.wantCode == "" && src == nil {
				t.Error("nil source")
			}
		})
	}
}

func TestNewAppWithMetrics(t *testing.T) {
	dir := t.TempDir()
	body := `{"name": "Teste", "metrics": {"enabled": true}, "tracing": {"enabled": true}}`
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := newApp(dir, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	if a.metrics == nil || a.registry == nil {
		t.Fatal("metrics not wired")
	}
	if a.cfg.Name != "Teste" || a.table.Len() != 8 {
		t.Errorf("app = %+v", a.cfg)
	}
}
