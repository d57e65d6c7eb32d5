package folio_test

import (
	"errors"
	"reflect"
	"testing"

	"impractical.co/folio"
)

func TestParseNodes(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		text     string
		expected []folio.Node
	}{
		"text-only": {
			text:     "<p>\n  plain\n</p>\n",
			expected: []folio.Node{&folio.TextNode{Text: "<p>\n  plain\n</p>\n"}},
		},
		"pipeline": {
			text: "Hello {{ name | upper }}!",
			expected: []folio.Node{
				&folio.TextNode{Text: "Hello "},
				&folio.ExprNode{Pos: 6, Expr: &folio.Pipeline{
					Pos:    9,
					Root:   &folio.Path{Pos: 9, Name: "name"},
					Stages: []folio.Stage{{Pos: 16, Name: "upper"}},
				}},
				&folio.TextNode{Text: "!"},
			},
		},
		"adjacent-actions": {
			text: "{{a}}{{b}}",
			expected: []folio.Node{
				&folio.ExprNode{Pos: 0, Expr: &folio.Path{Pos: 2, Name: "a"}},
				&folio.ExprNode{Pos: 5, Expr: &folio.Path{Pos: 7, Name: "b"}},
			},
		},
		"dotted-path": {
			text: "{{ it.Object.0.Prop }}",
			expected: []folio.Node{
				&folio.ExprNode{Pos: 0, Expr: &folio.Path{Pos: 3, Name: "it", Fields: []string{"Object", "0", "Prop"}}},
			},
		},
		"close-braces-in-string": {
			text: "{{ '}}' }}",
			expected: []folio.Node{
				&folio.ExprNode{Pos: 0, Expr: &folio.Literal{Pos: 3, Value: folio.FromString("}}")}},
			},
		},
		"literals": {
			text: `{{ [1, -2.5, "two", true, false, null] }}`,
			expected: []folio.Node{
				&folio.ExprNode{Pos: 0, Expr: &folio.ArrayLit{Pos: 3, Items: []folio.Expr{
					&folio.Literal{Pos: 4, Value: folio.FromNumber(1)},
					&folio.Literal{Pos: 7, Value: folio.FromNumber(-2.5)},
					&folio.Literal{Pos: 13, Value: folio.FromString("two")},
					&folio.Literal{Pos: 20, Value: folio.FromBool(true)},
					&folio.Literal{Pos: 26, Value: folio.FromBool(false)},
					&folio.Literal{Pos: 33, Value: folio.Null},
				}}},
			},
		},
		"object-closing-braces": {
			text: "{{ {a: 1, 'b c': x, title}}}",
			expected: []folio.Node{
				&folio.ExprNode{Pos: 0, Expr: &folio.ObjectLit{
					Pos:  3,
					Keys: []string{"a", "b c", "title"},
					Values: []folio.Expr{
						&folio.Literal{Pos: 7, Value: folio.FromNumber(1)},
						&folio.Path{Pos: 17, Name: "x"},
						&folio.Path{Pos: 20, Name: "title"},
					},
				}},
			},
		},
		"filter-arguments": {
			text: "{{ 'card' | partial({ t: title | upper }) }}",
			expected: []folio.Node{
				&folio.ExprNode{Pos: 0, Expr: &folio.Pipeline{
					Pos:  3,
					Root: &folio.Literal{Pos: 3, Value: folio.FromString("card")},
					Stages: []folio.Stage{{
						Pos:  12,
						Name: "partial",
						Args: []folio.Expr{&folio.ObjectLit{
							Pos:  20,
							Keys: []string{"t"},
							Values: []folio.Expr{&folio.Pipeline{
								Pos:    25,
								Root:   &folio.Path{Pos: 25, Name: "title"},
								Stages: []folio.Stage{{Pos: 33, Name: "upper"}},
							}},
						}},
					}},
				}},
			},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tmpl, err := folio.Parse(name, test.text)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if tmpl.Source() != test.text {
				t.Errorf("Expected source %q, got %q", test.text, tmpl.Source())
			}
			if !reflect.DeepEqual(tmpl.Nodes, test.expected) {
				t.Errorf("Expected nodes %#v, got %#v", test.expected, tmpl.Nodes)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		text   string
		line   int
		column int
	}{
		"unclosed":              {text: "<p>{{ title", line: 1, column: 4},
		"unclosed-at-end":       {text: "ok\n  {{ title", line: 2, column: 3},
		"empty":                 {text: "a\n{{ }}", line: 2, column: 1},
		"unexpected-token":      {text: "{{ a b }}", line: 1, column: 6},
		"missing-filter-name":   {text: "{{ a | }}", line: 1, column: 8},
		"unterminated-string":   {text: "{{ 'abc }}", line: 1, column: 4},
		"unknown-escape":        {text: `{{ 'a\qb' }}`, line: 1, column: 6},
		"unexpected-character":  {text: "{{ a + b }}", line: 1, column: 6},
		"stray-brace":           {text: "{{ a } }}", line: 1, column: 6},
		"unclosed-argument":     {text: "{{ a | join(', ' }}", line: 1, column: 18},
		"bad-object-key":        {text: "{{ {1: 2} }}", line: 1, column: 5},
		"missing-colon":         {text: "{{ {'a' 2} }}", line: 1, column: 9},
		"bad-property-name":     {text: "{{ a.'b' }}", line: 1, column: 6},
		"error-on-later-line":   {text: "one\ntwo\n  three {{ | }}", line: 3, column: 12},
		"multibyte-column":      {text: "héllo {{ ! }}", line: 1, column: 10},
		"unclosed-after-action": {text: "{{ a }} {{", line: 1, column: 9},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tmpl, err := folio.Parse(name, test.text)
			if tmpl != nil {
				t.Errorf("Expected no template, got %#v", tmpl)
			}
			var syntaxErr *folio.SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("Expected a *folio.SyntaxError, got %v", err)
			}
			if syntaxErr.Template != name {
				t.Errorf("Expected template %q, got %q", name, syntaxErr.Template)
			}
			if syntaxErr.Line != test.line || syntaxErr.Column != test.column {
				t.Errorf("Expected error at %d:%d, got %d:%d (%s)", test.line, test.column, syntaxErr.Line, syntaxErr.Column, syntaxErr.Msg)
			}
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("Expected MustParse to panic on a broken template")
		}
	}()
	folio.MustParse("broken", "{{")
}
