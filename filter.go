package folio

import (
	"context"
)

// FilterFunc implements a filter. It receives the value piped into it and
// its evaluated arguments, and returns the value passed on to the next
// stage.
type FilterFunc func(call *Call, in Value, args []Value) (Value, error)

// Filter is a named transform that can appear after a | in an expression.
// The Engine checks the argument count against MinArgs and MaxArgs before
// calling Func; a negative MaxArgs means there's no upper bound.
type Filter struct {
	MinArgs int
	MaxArgs int
	Func    FilterFunc
}

func (f Filter) accepts(n int) bool {
	if n < f.MinArgs {
		return false
	}
	return f.MaxArgs < 0 || n <= f.MaxArgs
}

// Call gives a FilterFunc access to the render it's running in.
type Call struct {
	r     *renderer
	name  string
	scope scopeID
}

// Context returns the context of the render the filter is part of.
func (c *Call) Context() context.Context {
	return c.r.ctx
}

// Name returns the name the filter was invoked by.
func (c *Call) Name() string {
	return c.name
}

// Lookup resolves name in the scope the filter's expression is evaluated
// in.
func (c *Call) Lookup(name string) (Value, bool) {
	return c.r.scopes.resolve(name, c.scope)
}

// RenderTemplate renders the template identified by id in a new scope that
// holds bindings and falls through to the caller's scope. bindings may be
// nil.
func (c *Call) RenderTemplate(id string, bindings Object) (string, error) {
	return c.r.partial(id, bindings, c.scope)
}

// RenderString parses text as a template and renders it like
// RenderTemplate. Parsed text is cached, so calling it repeatedly with the
// same text only parses it once.
func (c *Call) RenderString(text string, bindings Object) (string, error) {
	tmpl, err := c.r.engine.registry.Inline(text)
	if err != nil {
		return "", err
	}
	return c.r.inline(tmpl, bindings, c.scope)
}
