package modules

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/app-estudos/estudos/pkg/view"
)

func TestFSSource(t *testing.T) {
	src := NewFSSource(fstest.MapFS{
		"dashboard.md":      {Data: []byte("title: Dashboard\n\nhello")},
		"trabalhos/novo.md": {Data: []byte("novo")},
	})

	data, err := src.Fetch(context.Background(), "trabalhos/novo.md")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if string(data) != "novo" {
		t.Errorf("Fetch() = %q", data)
	}

	if _, err := src.Fetch(context.Background(), "missing.md"); !errors.Is(err, ErrModuleNotFound) {
		t.Errorf("Fetch(missing) error = %v, want %v", err, ErrModuleNotFound)
	}
	if _, err := src.Fetch(context.Background(), "../etc/passwd"); err == nil || errors.Is(err, ErrModuleNotFound) {
		t.Errorf("Fetch(../etc/passwd) error = %v, want invalid key", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Fetch(ctx, "dashboard.md"); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() with cancelled context error = %v", err)
	}
}

type fakeS3 struct {
	objects map[string]string
	err     error
	gotKey  string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.gotKey = aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Source(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"modules/vuetify.md": "# Vuetify"}}
	src := NewS3Source(fake, "content", "modules/")

	data, err := src.Fetch(context.Background(), "vuetify.md")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if string(data) != "# Vuetify" {
		t.Errorf("Fetch() = %q", data)
	}
	if fake.gotKey != "content/modules/vuetify.md" {
		t.Errorf("requested %q", fake.gotKey)
	}

	if _, err := src.Fetch(context.Background(), "missing.md"); !errors.Is(err, ErrModuleNotFound) {
		t.Errorf("Fetch(missing) error = %v, want %v", err, ErrModuleNotFound)
	}
}

func TestS3SourceErrors(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantNotFound bool
	}{
		{"api not found", &smithy.GenericAPIError{Code: "NotFound"}, true},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{"transport", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewS3Source(&fakeS3{err: tt.err}, "content", "")
			_, err := src.Fetch(context.Background(), "x.md")
			if err == nil {
				t.Fatal("Fetch() should fail")
			}
			if got := errors.Is(err, ErrModuleNotFound); got != tt.wantNotFound {
				t.Errorf("errors.Is(ErrModuleNotFound) = %v, want %v (%v)", got, tt.wantNotFound, err)
			}
		})
	}
}

func TestS3SourceRejectsLargeObjects(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"big.md": strings.Repeat("a", maxObjectSize+1)}}
	if _, err := NewS3Source(fake, "content", "").Fetch(context.Background(), "big.md"); err == nil {
		t.Error("Fetch() of an oversized object should fail")
	}
}

func TestNewS3Client(t *testing.T) {
	client := NewS3Client(S3ClientOptions{
		Region:       "us-east-1",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
	})
	opts := client.Options()
	if opts.Region != "us-east-1" || !opts.UsePathStyle || aws.ToString(opts.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("Options() = region %q, path style %v, endpoint %q", opts.Region, opts.UsePathStyle, aws.ToString(opts.BaseEndpoint))
	}
}

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantTitle string
		wantHTML  string
	}{
		{
			name:      "title and body",
			in:        "title: Trabalhos\n\nLista de **trabalhos**.",
			wantTitle: "Trabalhos",
			wantHTML:  "<p>Lista de <strong>trabalhos</strong>.</p>\n",
		},
		{
			name:     "no front matter",
			in:       "# Heading",
			wantHTML: "<h1>Heading</h1>\n",
		},
		{
			name:     "script is removed",
			in:       "ok <script>alert(1)</script>",
			wantHTML: "<p>ok </p>\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument("k.md", []byte(tt.in))
			if err != nil {
				t.Fatalf("ParseDocument() error: %v", err)
			}
			if doc.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", doc.Title, tt.wantTitle)
			}
			if doc.HTML != tt.wantHTML {
				t.Errorf("HTML = %q, want %q", doc.HTML, tt.wantHTML)
			}
		})
	}
}

func TestDocumentRender(t *testing.T) {
	doc := &Document{Key: "dashboard.md", Title: "Dashboard", HTML: "<p>hi</p>"}
	got, err := view.RenderToString(doc.Render())
	if err != nil {
		t.Fatalf("RenderToString() error: %v", err)
	}
	want := `<article class="module" data-module="dashboard.md"><h1>Dashboard</h1><p>hi</p></article>`
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestLoad(t *testing.T) {
	src := NewFSSource(fstest.MapFS{"a.md": {Data: []byte("title: A\n\ntext")}})
	doc, err := Load(context.Background(), src, "a.md")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if doc.Title != "A" || doc.Key != "a.md" {
		t.Errorf("Load() = %+v", doc)
	}
	if _, err := Load(context.Background(), src, "b.md"); !errors.Is(err, ErrModuleNotFound) {
		t.Errorf("Load(b.md) error = %v", err)
	}
}
