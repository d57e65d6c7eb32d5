package folio

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultBinding is the name forEach binds each element to when no binding
// name is given.
const DefaultBinding = "it"

func builtinFilters() map[string]Filter {
	return map[string]Filter{
		"otherwise": {MinArgs: 1, MaxArgs: 1, Func: filterOtherwise},
		"upper":     {Func: filterUpper},
		"lower":     {Func: filterLower},
		"join":      {MaxArgs: 1, Func: filterJoin},
		"json":      {Func: filterJSON},
		"length":    {Func: filterLength},
		"partial":   {MaxArgs: 1, Func: filterPartial},
		"forEach":   {MinArgs: 1, MaxArgs: 2, Func: filterForEach},
	}
}

func filterOtherwise(_ *Call, in Value, args []Value) (Value, error) {
	if in.IsNull() {
		return args[0], nil
	}
	return in, nil
}

// upper and lower pass null through, and join turns it into "", so an
// unset variable doesn't fail the render.
func filterUpper(_ *Call, in Value, _ []Value) (Value, error) {
	if in.IsNull() {
		return Null, nil
	}
	s, ok := in.AsString()
	if !ok {
		return Null, fmt.Errorf("%w: expected a string, got %s", ErrTypeMismatch, in.Kind())
	}
	// a Caser keeps state between calls, so each call gets its own
	return FromString(cases.Upper(language.Und).String(s)), nil
}

func filterLower(_ *Call, in Value, _ []Value) (Value, error) {
	if in.IsNull() {
		return Null, nil
	}
	s, ok := in.AsString()
	if !ok {
		return Null, fmt.Errorf("%w: expected a string, got %s", ErrTypeMismatch, in.Kind())
	}
	return FromString(cases.Lower(language.Und).String(s)), nil
}

func filterJoin(_ *Call, in Value, args []Value) (Value, error) {
	if in.IsNull() {
		return FromString(""), nil
	}
	items, ok := in.AsSlice()
	if !ok {
		return Null, fmt.Errorf("%w: expected an array, got %s", ErrTypeMismatch, in.Kind())
	}
	sep := ","
	if len(args) > 0 {
		sep = args[0].String()
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return FromString(strings.Join(parts, sep)), nil
}

func filterJSON(_ *Call, in Value, _ []Value) (Value, error) {
	out, err := json.Marshal(in)
	if err != nil {
		return Null, err
	}
	return FromString(string(out)), nil
}

func filterLength(_ *Call, in Value, _ []Value) (Value, error) {
	switch in.Kind() {
	case KindNull:
		return FromNumber(0), nil
	case KindString:
		s, _ := in.AsString()
		return FromNumber(float64(utf8.RuneCountInString(s))), nil
	case KindArray:
		items, _ := in.AsSlice()
		return FromNumber(float64(len(items))), nil
	case KindObject:
		return FromNumber(float64(len(in.objectKeys()))), nil
	}
	return Null, fmt.Errorf("%w: %s has no length", ErrTypeMismatch, in.Kind())
}

// filterPartial renders the template named by its input. The arguments
// object has already been evaluated in the caller's scope by the time it
// gets here.
func filterPartial(call *Call, in Value, args []Value) (Value, error) {
	id, ok := in.AsString()
	if !ok || id == "" {
		return Null, fmt.Errorf("%w: partial expects a template identifier, got %s", ErrTypeMismatch, in.Kind())
	}
	var bindings Object
	if len(args) > 0 && !args[0].IsNull() {
		obj, ok := args[0].AsObject()
		if !ok {
			return Null, fmt.Errorf("%w: partial arguments must be an object, got %s", ErrTypeMismatch, args[0].Kind())
		}
		bindings = obj
	}
	out, err := call.RenderTemplate(id, bindings)
	if err != nil {
		return Null, err
	}
	return FromString(out), nil
}

// filterForEach renders its input, an inline template, once per element of
// the collection, binding the element in a fresh scope each time.
func filterForEach(call *Call, in Value, args []Value) (Value, error) {
	text, ok := in.AsString()
	if !ok {
		return Null, fmt.Errorf("%w: forEach expects a template string, got %s", ErrTypeMismatch, in.Kind())
	}
	if args[0].IsNull() {
		return FromString(""), nil
	}
	items, ok := args[0].AsSlice()
	if !ok {
		return Null, fmt.Errorf("%w: forEach expects an array, got %s", ErrTypeMismatch, args[0].Kind())
	}
	binding := DefaultBinding
	if len(args) > 1 {
		name, ok := args[1].AsString()
		if !ok || name == "" {
			return Null, fmt.Errorf("%w: forEach binding name must be a non-empty string", ErrTypeMismatch)
		}
		binding = name
	}
	tmpl, err := call.r.engine.registry.Inline(text)
	if err != nil {
		return Null, err
	}
	var b strings.Builder
	for _, item := range items {
		out, err := call.r.inline(tmpl, Map{binding: item}, call.scope)
		if err != nil {
			return Null, err
		}
		b.WriteString(out)
	}
	return FromString(b.String()), nil
}
