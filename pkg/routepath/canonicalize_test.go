package routepath

import (
	"reflect"
	"testing"
)

func TestCanonicalizePath(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantPath    string
		wantQuery   string
		wantChanged bool
		wantErr     error
	}{
		{name: "root", input: "/", wantPath: "/"},
		{name: "empty string", input: "", wantPath: "/", wantChanged: true},
		{name: "relative", input: "vuetify", wantPath: "/vuetify", wantChanged: true},
		{name: "collapse slashes", input: "/trabalhos//novo", wantPath: "/trabalhos/novo", wantChanged: true},
		{name: "single dot", input: "/trabalhos/./novo", wantPath: "/trabalhos/novo", wantChanged: true},
		{name: "double dot", input: "/trabalhos/novo/../lista", wantPath: "/trabalhos/lista", wantChanged: true},
		{name: "double dot to root", input: "/primevue/../", wantPath: "/", wantChanged: true},
		{name: "trailing slash", input: "/vuetify/", wantPath: "/vuetify", wantChanged: true},
		{name: "query split", input: "/trabalhos?page=2", wantPath: "/trabalhos", wantQuery: "page=2"},
		{name: "fragment dropped", input: "/trabalhos#top", wantPath: "/trabalhos"},
		{name: "backslash", input: `/trabalhos\novo`, wantErr: ErrBackslashInPath},
		{name: "null byte", input: "/a\x00b", wantErr: ErrNullByteInPath},
		{name: "encoded null byte", input: "/a%00b", wantErr: ErrNullByteInPath},
		{name: "bad escape", input: "/a%zz", wantErr: ErrInvalidPercentEscape},
		{name: "truncated escape", input: "/a%2", wantErr: ErrInvalidPercentEscape},
		{name: "escapes root", input: "/../etc", wantErr: ErrPathEscapesRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalizePath(tt.input)
			if err != tt.wantErr {
				t.Fatalf("CanonicalizePath(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", got.Path, tt.wantPath)
			}
			if got.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", got.Query, tt.wantQuery)
			}
			if got.Changed != tt.wantChanged {
				t.Errorf("Changed = %v, want %v", got.Changed, tt.wantChanged)
			}
		})
	}
}

func TestSegments(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/", nil},
		{"/trabalhos/novo/diagrama", []string{"trabalhos", "novo", "diagrama"}},
		{"/blank%20template", []string{"blank template"}},
	}
	for _, tt := range tests {
		got, err := Segments(tt.path)
		if err != nil {
			t.Fatalf("Segments(%q) error: %v", tt.path, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Segments(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		parent, child, want string
	}{
		{"/", "", "/"},
		{"/", "vuetify", "/vuetify"},
		{"/", "trabalhos/novo", "/trabalhos/novo"},
		{"/app", "trabalhos", "/app/trabalhos"},
		{"/app/", "/trabalhos/", "/app/trabalhos"},
		{"/app", "", "/app"},
		{"", "", "/"},
	}
	for _, tt := range tests {
		if got := Join(tt.parent, tt.child); got != tt.want {
			t.Errorf("Join(%q, %q) = %q, want %q", tt.parent, tt.child, got, tt.want)
		}
	}
}

func TestCanonicalizeAndValidateNavPath(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"/trabalhos//novo", "/trabalhos/novo", false},
		{"/trabalhos?page=1", "/trabalhos?page=1", false},
		{"https://evil.example/", "", true},
		{"//evil.example", "", true},
		{"vuetify", "", true},
	}
	for _, tt := range tests {
		got, err := CanonicalizeAndValidateNavPath(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("CanonicalizeAndValidateNavPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("CanonicalizeAndValidateNavPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
