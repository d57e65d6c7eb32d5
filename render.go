package folio

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Engine renders pages, partials, and inline templates. Its filters and
// defaults are fixed when New returns, so an Engine can be used by multiple
// goroutines; renders only share the Engine's Registry.
type Engine struct {
	registry   *Registry
	filters    map[string]Filter
	defaults   Map
	maxDepth   int
	layoutName string
	errorPage  string
	tracer     trace.Tracer
}

// New returns an Engine that reads templates from source.
func New(source Source, opts ...Option) *Engine {
	e := &Engine{
		filters:    builtinFilters(),
		defaults:   Map{},
		maxDepth:   DefaultMaxDepth,
		layoutName: DefaultLayoutName,
		tracer:     otel.GetTracerProvider().Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.registry = newRegistry(source, e.tracer)
	return e
}

// Registry returns the cache of parsed templates the Engine uses.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// PageResult describes a single render of a page.
type PageResult struct {
	// Page identifies the template to render.
	Page string

	// Args are visible only to the page's own body, and to the partials
	// and forEach blocks it uses. The layout doesn't see them, so values
	// the layout renders, like a page title, belong in Defaults.
	Args Args

	// Defaults are layered over the Engine's defaults for this render
	// only, and are visible to the page and its layout.
	Defaults Args
}

// Render renders page with args, wrapped in its layout.
func (e *Engine) Render(ctx context.Context, page string, args Args) (string, error) {
	return e.Result(ctx, PageResult{Page: page, Args: args})
}

// Result renders the page described by result. Either the whole output is
// returned or an error is; rendering the same PageResult twice produces the
// same output.
func (e *Engine) Result(ctx context.Context, result PageResult) (_ string, err error) {
	ctx, span := e.tracer.Start(ctx, "folio.Engine.Result", trace.WithAttributes(
		attribute.String("folio.page", result.Page),
	))
	defer func() { endSpan(span, err) }()

	r := e.newRenderer(ctx)
	root := e.rootScope(r, result.Defaults)
	out, err := r.page(result.Page, argsMap(result.Args), root)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.Int("folio.output_bytes", len(out)))
	return out, nil
}

// RenderInline renders text as a template with args, skipping the Registry
// and layouts. Partials used by text are still loaded through the Registry.
func (e *Engine) RenderInline(ctx context.Context, text string, args Args) (_ string, err error) {
	ctx, span := e.tracer.Start(ctx, "folio.Engine.RenderInline")
	defer func() { endSpan(span, err) }()

	tmpl, err := Parse(inlineName, text)
	if err != nil {
		return "", err
	}
	r := e.newRenderer(ctx)
	root := e.rootScope(r, nil)
	return r.render(tmpl, r.scopes.push(argsMap(args), root))
}

func (e *Engine) rootScope(r *renderer, defaults Args) scopeID {
	root := r.scopes.push(e.defaults, noScope)
	if len(defaults) > 0 {
		root = r.scopes.push(argsMap(defaults), root)
	}
	return root
}

// Write renders the page described by result to out. If the page can't be
// rendered, nothing of it is written; the error is logged and the page set
// with WithErrorPage is written instead, or a plain "Server error." if
// there's no error page or it can't be rendered either. Only errors writing
// to out are returned. If out is an io.Closer, it's closed once Write is
// done with it.
func (e *Engine) Write(ctx context.Context, out io.Writer, result PageResult) error {
	defer func() {
		closer, ok := out.(io.Closer)
		if !ok {
			return
		}
		// logging is about all we can do with an error here
		if err := closer.Close(); err != nil {
			logger(ctx).ErrorContext(ctx, "error closing writer",
				slog.String("page", result.Page),
				slog.Any("error", err))
		}
	}()

	// try to render the page
	html, err := e.Result(ctx, result)

	// if there's no error, we're done here
	if err == nil {
		_, err = io.WriteString(out, html)
		return err
	}

	// log whatever went wrong before falling back
	logger(ctx).ErrorContext(ctx, "error rendering page",
		slog.String("page", result.Page),
		slog.Any("error", err))

	if e.errorPage != "" {
		html, err = e.Result(ctx, PageResult{Page: e.errorPage, Defaults: result.Defaults})
		if err == nil {
			_, err = io.WriteString(out, html)
			return err
		}
		// if we can't do that, everything's doomed, doomed, doomed
		logger(ctx).ErrorContext(ctx, "error rendering error page",
			slog.String("page", e.errorPage),
			slog.Any("error", err))
	}

	// there's no usable error page, write a server error message
	_, err = io.WriteString(out, "Server error.")
	if err != nil {
		return fmt.Errorf("error writing server error message: %w", err)
	}
	return nil
}
