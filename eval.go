package folio

// eval evaluates an expression in scope. Unresolved names evaluate to Null.
// Filter arguments are evaluated in the same scope as the pipeline they
// belong to, before the filter is called.
func (r *renderer) eval(tmpl *Template, e Expr, scope scopeID) (Value, error) {
	switch e := e.(type) {
	case *Literal:
		return e.Value, nil
	case *Path:
		v, ok := r.scopes.resolve(e.Name, scope)
		if !ok {
			return Null, nil
		}
		return v.Property(e.Fields...), nil
	case *ArrayLit:
		items := make([]Value, len(e.Items))
		for i, item := range e.Items {
			v, err := r.eval(tmpl, item, scope)
			if err != nil {
				return Null, err
			}
			items[i] = v
		}
		return FromSlice(items...), nil
	case *ObjectLit:
		m := make(Map, len(e.Keys))
		for i, key := range e.Keys {
			v, err := r.eval(tmpl, e.Values[i], scope)
			if err != nil {
				return Null, err
			}
			m[key] = v
		}
		return FromObject(m), nil
	case *Pipeline:
		return r.evalPipeline(tmpl, e, scope)
	}
	return Null, nil
}

func (r *renderer) evalPipeline(tmpl *Template, pipe *Pipeline, scope scopeID) (Value, error) {
	val, err := r.eval(tmpl, pipe.Root, scope)
	if err != nil {
		return Null, err
	}
	for _, stage := range pipe.Stages {
		filter, ok := r.engine.filters[stage.Name]
		if !ok {
			return Null, stageError(tmpl, stage, ErrUnknownFilter)
		}
		if !filter.accepts(len(stage.Args)) {
			return Null, stageError(tmpl, stage, ErrFilterArity)
		}
		args := make([]Value, len(stage.Args))
		for i, arg := range stage.Args {
			v, err := r.eval(tmpl, arg, scope)
			if err != nil {
				return Null, err
			}
			args[i] = v
		}
		call := &Call{r: r, name: stage.Name, scope: scope}
		val, err = filter.Func(call, val, args)
		if err != nil {
			return Null, stageError(tmpl, stage, err)
		}
	}
	return val, nil
}

func stageError(tmpl *Template, stage Stage, err error) *FilterError {
	line, col := lineCol(tmpl.source, stage.Pos)
	return &FilterError{
		Template: tmpl.Name,
		Filter:   stage.Name,
		Line:     line,
		Column:   col,
		Err:      err,
	}
}
