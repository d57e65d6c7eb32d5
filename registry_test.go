package folio_test

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"impractical.co/folio"
)

func TestRegistryCachesTemplates(t *testing.T) {
	t.Parallel()

	ctx := folio.LoggingContext(context.Background(), slog.Default())
	templateFS := fstest.MapFS(map[string]*fstest.MapFile{
		"_layout.tmpl": {
			Data:    []byte(`<main>{{ page }}</main>`),
			Mode:    0777,
			ModTime: time.Now(),
		},
		"foo.tmpl": {
			Data:    []byte(`foo.tmpl`),
			Mode:    0777,
			ModTime: time.Now(),
		},
		"bar.html": {
			Data:    []byte(`bar.html{{ 'baz' | partial }}`),
			Mode:    0777,
			ModTime: time.Now(),
		},
		"baz.html": {
			Data:    []byte(` included baz.html`),
			Mode:    0777,
			ModTime: time.Now(),
		},
	})
	engine := folio.New(folio.NewFSSource(templateFS))
	renderChangeAndRerender(ctx, t, templateFS, engine, "foo", "foo.tmpl", "<main>foo.tmpl</main>", "foo.tmpl")
	renderChangeAndRerender(ctx, t, templateFS, engine, "bar", "bar.html", "<main>bar.html included baz.html</main>", "bar.html")
	renderChangeAndRerender(ctx, t, templateFS, engine, "bar", "baz.html", "<main>bar.html included baz.html</main>", "included baz.html")
	renderChangeAndRerender(ctx, t, templateFS, engine, "foo", "_layout.tmpl", "<main>foo.tmpl</main>", "<main>")

	for _, page := range []string{"foo", "bar"} {
		if _, err := engine.Render(ctx, page, nil); err != nil {
			t.Fatalf("unexpected error rendering %q: %s", page, err)
		}
	}
	if n := engine.Registry().Len(); n != 4 {
		t.Errorf("Expected 4 cached templates, got %d", n)
	}
}

// renderChangeAndRerender renders page, changes text in file, and checks
// the change only shows up once the Registry forgets file.
func renderChangeAndRerender(ctx context.Context, t *testing.T, fs fstest.MapFS, engine *folio.Engine, page, file, expected, text string) {
	t.Helper()

	output, err := engine.Render(ctx, page, nil)
	if err != nil {
		t.Fatalf("unexpected error rendering %q: %s", page, err)
	}
	if output != expected {
		t.Errorf("Expected to get %q, got %q", expected, output)
	}

	oldData := slices.Clone(fs[file].Data)
	fs[file].Data = []byte(strings.ReplaceAll(string(fs[file].Data), text, "changed-"+text))
	defer func() { fs[file].Data = oldData }()

	output, err = engine.Render(ctx, page, nil)
	if err != nil {
		t.Fatalf("unexpected error rendering %q: %s", page, err)
	}
	if output != expected {
		t.Errorf("Expected to get %q after modifying underlying data, got %q", expected, output)
	}

	engine.Registry().Forget(strings.TrimSuffix(file, file[strings.LastIndex(file, "."):]))
	output, err = engine.Render(ctx, page, nil)
	if err != nil {
		t.Fatalf("unexpected error rendering %q: %s", page, err)
	}
	changed := strings.ReplaceAll(expected, text, "changed-"+text)
	if output != changed {
		t.Errorf("Expected to get %q after forgetting %q, got %q", changed, file, output)
	}

	// start the next check from an empty cache
	engine.Registry().Reset()
}

// countingSource counts reads and holds every read until release is
// closed.
type countingSource struct {
	templates folio.MapSource
	reads     atomic.Int64
	release   chan struct{}
}

func (s *countingSource) ReadTemplate(ctx context.Context, id string) (string, error) {
	s.reads.Add(1)
	<-s.release
	return s.templates.ReadTemplate(ctx, id)
}

func TestRegistrySharesConcurrentLoads(t *testing.T) {
	t.Parallel()

	source := &countingSource{
		templates: folio.MapSource{"page": "hello"},
		release:   make(chan struct{}),
	}
	engine := folio.New(source, folio.WithLayoutName(""))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tmpl, err := engine.Registry().Template(context.Background(), "/page")
			if err != nil {
				t.Errorf("unexpected error: %s", err)
				return
			}
			if tmpl.Name != "page" {
				t.Errorf("Expected template name %q, got %q", "page", tmpl.Name)
			}
		}()
	}
	time.Sleep(10 * time.Millisecond)
	close(source.release)
	wg.Wait()

	if reads := source.reads.Load(); reads != 1 {
		t.Errorf("Expected 1 read, got %d", reads)
	}
}

// contextSource fails reads made with a done context, the way a network
// backed Source would.
type contextSource struct {
	templates folio.MapSource
}

func (s contextSource) ReadTemplate(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.templates.ReadTemplate(ctx, id)
}

func TestRegistryLoadOutlivesCanceledCaller(t *testing.T) {
	t.Parallel()

	engine := folio.New(contextSource{templates: folio.MapSource{"page": "hello"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tmpl, err := engine.Registry().Template(ctx, "page")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if tmpl.Source() != "hello" {
		t.Errorf("Expected %q, got %q", "hello", tmpl.Source())
	}
	if engine.Registry().Len() != 1 {
		t.Errorf("Expected the template to be cached, got %d templates", engine.Registry().Len())
	}
}

func TestRegistryDoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	source := folio.MapSource{}
	engine := folio.New(source)

	_, err := engine.Render(context.Background(), "late", nil)
	if !errors.Is(err, folio.ErrTemplateNotFound) {
		t.Fatalf("Expected %v, got %v", folio.ErrTemplateNotFound, err)
	}

	source["late"] = "{{ oops"
	_, err = engine.Render(context.Background(), "late", nil)
	var syntaxErr *folio.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("Expected a syntax error, got %v", err)
	}

	source["late"] = "here now"
	out, err := engine.Render(context.Background(), "late", nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if out != "here now" {
		t.Errorf("Expected %q, got %q", "here now", out)
	}
}

func TestRegistryInline(t *testing.T) {
	t.Parallel()

	registry := folio.New(folio.MapSource{}).Registry()

	first, err := registry.Inline("<li>{{ it }}</li>")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	second, err := registry.Inline("<li>{{ it }}</li>")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if first != second {
		t.Error("Expected the same text to return the cached template")
	}
	if first.Source() != "<li>{{ it }}</li>" {
		t.Errorf("Expected the template to keep its source, got %q", first.Source())
	}

	other, err := registry.Inline("<li>{{ item }}</li>")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if other == first {
		t.Error("Expected different text to parse a different template")
	}

	if _, err := registry.Inline("{{ it"); err == nil {
		t.Error("Expected an error parsing a broken inline template")
	}

	registry.Reset()
	third, err := registry.Inline("<li>{{ it }}</li>")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if third == first {
		t.Error("Expected Reset to drop cached inline templates")
	}
	if registry.Len() != 0 {
		t.Errorf("Expected inline templates not to count towards Len, got %d", registry.Len())
	}
}

func TestRegistryInvalidIDs(t *testing.T) {
	t.Parallel()

	engine := folio.New(folio.NewFSSource(staticFS{}))
	for _, id := range []string{"", "   ", "/", "."} {
		_, err := engine.Registry().Template(context.Background(), id)
		if !errors.Is(err, folio.ErrInvalidTemplateID) {
			t.Errorf("Expected %v for %q, got %v", folio.ErrInvalidTemplateID, id, err)
		}
	}
}
