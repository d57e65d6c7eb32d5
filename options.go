package folio

import (
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxDepth is how deeply partials and forEach blocks may nest unless
// WithMaxDepth says otherwise.
const DefaultMaxDepth = 64

// DefaultLayoutName is the template name looked up to wrap pages.
const DefaultLayoutName = "_layout"

// PagePlaceholder is the variable a layout uses to include the rendered
// page.
const PagePlaceholder = "page"

// Option configures an Engine.
type Option func(*Engine)

// WithFilter registers a filter under name, replacing any filter of the same
// name, built-ins included. A Filter with a nil Func removes the filter.
func WithFilter(name string, filter Filter) Option {
	return func(e *Engine) {
		if filter.Func == nil {
			delete(e.filters, name)
			return
		}
		e.filters[name] = filter
	}
}

// WithDefaults sets the default args: the outermost scope of every render,
// visible to pages, layouts, and partials alike. Each PageResult can add its
// own defaults on top of these.
func WithDefaults(args Args) Option {
	return func(e *Engine) {
		e.defaults = argsMap(args)
	}
}

// WithMaxDepth bounds how deeply partials and forEach blocks can nest.
// Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// WithLayoutName changes the template name looked up to wrap pages. An
// empty name turns layouts off.
func WithLayoutName(name string) Option {
	return func(e *Engine) {
		e.layoutName = name
	}
}

// WithErrorPage names a page Write renders when the requested page can't be
// rendered.
func WithErrorPage(id string) Option {
	return func(e *Engine) {
		e.errorPage = id
	}
}

// WithTracerProvider sets the TracerProvider used to trace renders. The
// global provider is used by default.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(e *Engine) {
		e.tracer = provider.Tracer(instrumentationName)
	}
}
