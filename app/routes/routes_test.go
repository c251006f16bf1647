package routes

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/app-estudos/estudos/app/views"
	"github.com/app-estudos/estudos/pkg/router"
	"github.com/app-estudos/estudos/pkg/view"
)

func newTable(t *testing.T) *router.Table {
	t.Helper()
	table, err := New(views.NewLoaders(views.Options{}))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return table
}

func TestDeclaredRoutes(t *testing.T) {
	table := newTable(t)

	tests := []struct {
		path string
		leaf string
	}{
		{"/", "dashboard"},
		{"/primevue", "primevue"},
		{"/vuetify", "vuetify"},
		{"/blank-template", "blank-template"},
		{"/trabalhos", "trabalhos-list"},
		{"/trabalhos/novo", "trabalhos-novo"},
		{"/trabalhos/novo/diagrama", "trabalhos-novo-diagrama"},
	}
	for _, tt := range tests {
		m, err := table.Resolve(tt.path)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", tt.path, err)
		}
		if len(m.Chain) != 2 || m.Chain[0] != table.Root() {
			t.Errorf("Resolve(%q) chain length %d, want layout and page", tt.path, len(m.Chain))
		}
		if m.Name() != tt.leaf {
			t.Errorf("Resolve(%q) = %s, want %s", tt.path, m.Leaf(), tt.leaf)
		}

		byName, err := table.ResolveByName(tt.leaf, nil)
		if err != nil || !byName.Equal(m) {
			t.Errorf("ResolveByName(%q) differs from Resolve(%q)", tt.leaf, tt.path)
		}
	}

	if _, err := table.Resolve("/does-not-exist"); !errors.Is(err, router.ErrNotFound) {
		t.Errorf("Resolve(/does-not-exist) error = %v, want ErrNotFound", err)
	}
}

func TestRenderEveryRoute(t *testing.T) {
	table := newTable(t)
	for _, name := range table.Names() {
		m, _ := table.ResolveByName(name, nil)
		tree, err := table.Render(context.Background(), m)
		if err != nil {
			t.Fatalf("Render(%s) error: %v", name, err)
		}
		out, err := view.RenderToString(tree)
		if err != nil {
			t.Fatalf("RenderToString(%s) error: %v", name, err)
		}
		if !strings.Contains(out, `class="layout"`) || !strings.Contains(out, "page-"+name) {
			t.Errorf("Render(%s) is not a page inside the layout:\n%s", name, out)
		}
	}
}

func TestLayoutLoadedOnce(t *testing.T) {
	table := newTable(t)
	if err := table.Prefetch(context.Background()); err != nil {
		t.Fatalf("Prefetch() error: %v", err)
	}
	if n := table.Root().LoadCount(); n != 1 {
		t.Errorf("layout loaded %d times, want 1", n)
	}
}
