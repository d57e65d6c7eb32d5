package folio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
)

// renderer holds the state of a single render. It is never shared between
// goroutines; everything it allocates is dropped when the render returns.
type renderer struct {
	ctx    context.Context
	engine *Engine
	scopes scopeArena
	depth  int
}

func (e *Engine) newRenderer(ctx context.Context) *renderer {
	return &renderer{ctx: ctx, engine: e}
}

// execute writes the output of tmpl, evaluated in scope, to buf.
func (r *renderer) execute(buf *strings.Builder, tmpl *Template, scope scopeID) error {
	for _, n := range tmpl.Nodes {
		switch n := n.(type) {
		case *TextNode:
			buf.WriteString(n.Text)
		case *ExprNode:
			v, err := r.eval(tmpl, n.Expr, scope)
			if err != nil {
				return err
			}
			buf.WriteString(v.String())
		}
	}
	return nil
}

func (r *renderer) render(tmpl *Template, scope scopeID) (string, error) {
	var buf strings.Builder
	if err := r.execute(&buf, tmpl, scope); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *renderer) enter() error {
	if r.depth >= r.engine.maxDepth {
		return fmt.Errorf("%w (%d)", ErrMaxDepth, r.engine.maxDepth)
	}
	r.depth++
	return nil
}

func (r *renderer) leave() {
	r.depth--
}

// partial renders the template identified by id in a child of caller that
// holds bindings.
func (r *renderer) partial(id string, bindings Object, caller scopeID) (string, error) {
	if err := r.enter(); err != nil {
		return "", err
	}
	defer r.leave()
	tmpl, err := r.engine.registry.Template(r.ctx, id)
	if err != nil {
		return "", err
	}
	out, err := r.render(tmpl, r.scopes.push(bindings, caller))
	if err != nil {
		return "", fmt.Errorf("error rendering partial %q: %w", tmpl.Name, err)
	}
	return out, nil
}

// inline renders an already-parsed inline template in a child of caller
// that holds bindings.
func (r *renderer) inline(tmpl *Template, bindings Object, caller scopeID) (string, error) {
	if err := r.enter(); err != nil {
		return "", err
	}
	defer r.leave()
	return r.render(tmpl, r.scopes.push(bindings, caller))
}

// page renders the page identified by id and wraps it in its layout, if it
// has one. root is the scope holding the default args; the page body gets a
// child scope holding local, the layout a sibling scope holding only the
// rendered body as "page".
func (r *renderer) page(id string, local Object, root scopeID) (string, error) {
	tmpl, err := r.engine.registry.Template(r.ctx, id)
	if err != nil {
		return "", err
	}
	body, err := r.render(tmpl, r.scopes.push(local, root))
	if err != nil {
		return "", fmt.Errorf("error rendering page %q: %w", tmpl.Name, err)
	}
	layout, err := r.layoutFor(tmpl.Name)
	if err != nil {
		return "", err
	}
	if layout == nil {
		return body, nil
	}
	out, err := r.render(layout, r.scopes.push(Map{PagePlaceholder: FromString(body)}, root))
	if err != nil {
		return "", fmt.Errorf("error rendering layout %q for page %q: %w", layout.Name, tmpl.Name, err)
	}
	return out, nil
}

// layoutFor finds the layout nearest to the page identified by id, looking
// in the page's own directory first and then in each parent directory. It
// returns nil if there's no layout anywhere on the way up.
func (r *renderer) layoutFor(id string) (*Template, error) {
	name := r.engine.layoutName
	if name == "" {
		return nil, nil
	}
	dir := path.Dir(id)
	for {
		candidate := path.Join(dir, name)
		if candidate != id {
			tmpl, err := r.engine.registry.Template(r.ctx, candidate)
			if err == nil {
				logger(r.ctx).DebugContext(r.ctx, "using layout",
					slog.String("page", id),
					slog.String("layout", candidate))
				return tmpl, nil
			}
			if !errors.Is(err, ErrTemplateNotFound) {
				return nil, err
			}
		}
		if dir == "." || dir == "/" {
			return nil, nil
		}
		dir = path.Dir(dir)
	}
}
