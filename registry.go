package folio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// inlineName is the name inline templates are parsed under.
const inlineName = "<inline>"

// maxInlineTemplates bounds the inline cache. Inline text can come from
// template data, so the set of distinct texts isn't bounded by the Source.
const maxInlineTemplates = 1024

// Registry caches parsed templates so each template is read from the Source
// and parsed once, no matter how many renders use it. Parsed templates are
// immutable, so the cached ones are shared by every render. A Registry is
// created by New and can be used by multiple goroutines.
//
// The Registry never invalidates anything on its own; callers that know a
// template changed can use Forget or Reset.
type Registry struct {
	source Source
	tracer trace.Tracer

	// templates are keyed by cleaned template id
	templates   map[string]*Template
	templatesMu sync.RWMutex

	// inline templates, like the ones forEach repeats, are keyed by a
	// hash of their text
	inline      map[uint64]*Template
	inlineMu    sync.RWMutex
	inlineLimit int

	loads singleflight.Group
}

func newRegistry(source Source, tracer trace.Tracer) *Registry {
	return &Registry{
		source:    source,
		tracer:    tracer,
		templates: map[string]*Template{},
		inline:    map[uint64]*Template{},

		inlineLimit: maxInlineTemplates,
	}
}

// Template returns the parsed template identified by id, reading and parsing
// it if it isn't cached yet. Concurrent first requests for the same id share
// a single read and parse.
func (r *Registry) Template(ctx context.Context, id string) (*Template, error) {
	id, err := cleanID(id)
	if err != nil {
		return nil, err
	}
	if tmpl := r.cached(id); tmpl != nil {
		return tmpl, nil
	}
	res, err, _ := r.loads.Do(id, func() (any, error) {
		if tmpl := r.cached(id); tmpl != nil {
			return tmpl, nil
		}
		// the load is shared, so one caller going away can't fail it for
		// the rest
		tmpl, err := r.load(context.WithoutCancel(ctx), id)
		if err != nil {
			return nil, err
		}
		r.templatesMu.Lock()
		defer r.templatesMu.Unlock()
		r.templates[id] = tmpl
		return tmpl, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*Template), nil
}

func (r *Registry) cached(id string) *Template {
	r.templatesMu.RLock()
	defer r.templatesMu.RUnlock()
	return r.templates[id]
}

func (r *Registry) load(ctx context.Context, id string) (_ *Template, err error) {
	ctx, span := r.tracer.Start(ctx, "folio.Registry.load", trace.WithAttributes(
		attribute.String("folio.template", id),
	))
	defer func() { endSpan(span, err) }()

	text, err := r.source.ReadTemplate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading template %q: %w", id, err)
	}
	tmpl, err := Parse(id, text)
	if err != nil {
		return nil, err
	}
	logger(ctx).DebugContext(ctx, "parsed template",
		slog.String("template", id),
		slog.Int("nodes", len(tmpl.Nodes)))
	return tmpl, nil
}

// Inline returns text parsed as a template. Parse errors aren't cached, so
// a broken inline template is re-parsed (and fails again) every time. At
// most 1024 inline templates are cached; when the cache is full it's
// emptied before the next one is added.
func (r *Registry) Inline(text string) (*Template, error) {
	key := xxhash.Sum64String(text)
	r.inlineMu.RLock()
	tmpl, ok := r.inline[key]
	r.inlineMu.RUnlock()
	if ok && tmpl.source == text {
		return tmpl, nil
	}
	tmpl, err := Parse(inlineName, text)
	if err != nil {
		return nil, err
	}
	r.inlineMu.Lock()
	defer r.inlineMu.Unlock()
	if _, ok := r.inline[key]; !ok && len(r.inline) >= r.inlineLimit {
		clear(r.inline)
	}
	r.inline[key] = tmpl
	return tmpl, nil
}

// Forget drops the cached template for id, so the next render that needs it
// reads it from the Source again.
func (r *Registry) Forget(id string) {
	id, err := cleanID(id)
	if err != nil {
		return
	}
	r.templatesMu.Lock()
	defer r.templatesMu.Unlock()
	delete(r.templates, id)
}

// Reset drops every cached template.
func (r *Registry) Reset() {
	r.templatesMu.Lock()
	r.templates = map[string]*Template{}
	r.templatesMu.Unlock()

	r.inlineMu.Lock()
	r.inline = map[uint64]*Template{}
	r.inlineMu.Unlock()
}

// Len returns the number of templates cached by id.
func (r *Registry) Len() int {
	r.templatesMu.RLock()
	defer r.templatesMu.RUnlock()
	return len(r.templates)
}
