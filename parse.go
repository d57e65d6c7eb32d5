package folio

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	leftDelim  = "{{"
	rightDelim = "}}"
)

// Parse splits text into literal text and {{ }} expressions. Literal text is
// kept exactly as written, newlines included. The name is only used to
// identify the template in errors.
func Parse(name, text string) (*Template, error) {
	tmpl := &Template{Name: name, source: text}
	pos := 0
	for pos < len(text) {
		i := strings.Index(text[pos:], leftDelim)
		if i < 0 {
			tmpl.Nodes = append(tmpl.Nodes, &TextNode{Text: text[pos:]})
			break
		}
		if i > 0 {
			tmpl.Nodes = append(tmpl.Nodes, &TextNode{Text: text[pos : pos+i]})
		}
		start := pos + i
		p := &parser{name: name, text: text, lex: newLexer(text, start+len(leftDelim))}
		expr, end, err := p.parseAction(start)
		if err != nil {
			return nil, err
		}
		tmpl.Nodes = append(tmpl.Nodes, &ExprNode{Pos: start, Expr: expr})
		pos = end
	}
	return tmpl, nil
}

// MustParse is like Parse but panics if the template can't be parsed. It's
// meant for templates compiled into the program.
func MustParse(name, text string) *Template {
	tmpl, err := Parse(name, text)
	if err != nil {
		panic(err)
	}
	return tmpl
}

type parser struct {
	name string
	text string
	lex  *lexer
	tok  token
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	line, col := lineCol(p.text, pos)
	return &SyntaxError{
		Template: p.name,
		Offset:   pos,
		Line:     line,
		Column:   col,
		Msg:      fmt.Sprintf(format, args...),
	}
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		var lexErr *lexError
		if errors.As(err, &lexErr) {
			return p.errorf(lexErr.pos, "%s", lexErr.msg)
		}
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(kind tokenKind) error {
	if p.tok.kind != kind {
		return p.unexpected(kind.String())
	}
	return p.advance()
}

func (p *parser) unexpected(want string) error {
	if p.tok.kind == tokEOF {
		return p.errorf(p.tok.pos, "unexpected end of template, expected %s", want)
	}
	return p.errorf(p.tok.pos, "unexpected %s, expected %s", p.describe(), want)
}

func (p *parser) describe() string {
	switch p.tok.kind {
	case tokIdent, tokNumber:
		return strconv.Quote(p.tok.val)
	case tokString:
		return "string " + strconv.Quote(p.tok.val)
	default:
		return strconv.Quote(p.tok.kind.String())
	}
}

// parseAction parses everything between the {{ at start and its matching
// }}, returning the offset just past the }}.
func (p *parser) parseAction(start int) (Expr, int, error) {
	if err := p.advance(); err != nil {
		return nil, 0, err
	}
	switch p.tok.kind {
	case tokEOF:
		return nil, 0, p.errorf(start, "unclosed action")
	case tokClose:
		return nil, 0, p.errorf(start, "empty expression")
	}
	expr, err := p.parsePipeline()
	if err != nil {
		return nil, 0, err
	}
	switch p.tok.kind {
	case tokClose:
		return expr, p.lex.pos, nil
	case tokEOF:
		return nil, 0, p.errorf(start, "unclosed action")
	}
	return nil, 0, p.unexpected(`"|" or "}}"`)
}

func (p *parser) parsePipeline() (Expr, error) {
	root, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokPipe {
		return root, nil
	}
	pipe := &Pipeline{Pos: root.Position(), Root: root}
	for p.tok.kind == tokPipe {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokIdent {
			return nil, p.unexpected("filter name")
		}
		stage := Stage{Pos: p.tok.pos, Name: p.tok.val}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokLParen {
			args, err := p.parseList(tokRParen)
			if err != nil {
				return nil, err
			}
			stage.Args = args
		}
		pipe.Stages = append(pipe.Stages, stage)
	}
	return pipe, nil
}

// parseList parses a comma-separated list of pipelines, starting on the
// opening bracket and ending past the closing one. A trailing comma is
// allowed.
func (p *parser) parseList(end tokenKind) ([]Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	var items []Expr
	for p.tok.kind != end {
		item, err := p.parsePipeline()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.tok.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(end); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.tok
	switch tok.kind {
	case tokString:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Literal{Pos: tok.pos, Value: FromString(tok.val)}, nil
	case tokNumber:
		f, err := strconv.ParseFloat(tok.val, 64)
		if err != nil {
			return nil, p.errorf(tok.pos, "invalid number %q", tok.val)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Literal{Pos: tok.pos, Value: FromNumber(f)}, nil
	case tokIdent:
		return p.parseIdent()
	case tokLBrack:
		items, err := p.parseList(tokRBrack)
		if err != nil {
			return nil, err
		}
		return &ArrayLit{Pos: tok.pos, Items: items}, nil
	case tokLBrace:
		return p.parseObject()
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parsePipeline()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return nil, p.unexpected("expression")
}

func (p *parser) parseIdent() (Expr, error) {
	tok := p.tok
	if err := p.advance(); err != nil {
		return nil, err
	}
	switch tok.val {
	case "true":
		return &Literal{Pos: tok.pos, Value: FromBool(true)}, nil
	case "false":
		return &Literal{Pos: tok.pos, Value: FromBool(false)}, nil
	case "null":
		return &Literal{Pos: tok.pos, Value: Null}, nil
	}
	path := &Path{Pos: tok.pos, Name: tok.val}
	for p.tok.kind == tokDot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch {
		case p.tok.kind == tokIdent:
		case p.tok.kind == tokNumber && !strings.ContainsAny(p.tok.val, "-."):
		default:
			return nil, p.unexpected("property name")
		}
		path.Fields = append(path.Fields, p.tok.val)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return path, nil
}

func (p *parser) parseObject() (Expr, error) {
	obj := &ObjectLit{Pos: p.tok.pos}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.tok.kind != tokRBrace {
		key := p.tok
		if key.kind != tokIdent && key.kind != tokString {
			return nil, p.unexpected("object key")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		var val Expr
		switch {
		case p.tok.kind == tokColon:
			if err := p.advance(); err != nil {
				return nil, err
			}
			v, err := p.parsePipeline()
			if err != nil {
				return nil, err
			}
			val = v
		case key.kind == tokIdent:
			// { title } is short for { title: title }
			val = &Path{Pos: key.pos, Name: key.val}
		default:
			return nil, p.unexpected(`":"`)
		}
		obj.Keys = append(obj.Keys, key.val)
		obj.Values = append(obj.Values, val)
		if p.tok.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return obj, nil
}
