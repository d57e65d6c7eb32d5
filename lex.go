package folio

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokClose
	tokIdent
	tokString
	tokNumber
	tokPipe
	tokDot
	tokComma
	tokColon
	tokLParen
	tokRParen
	tokLBrack
	tokRBrack
	tokLBrace
	tokRBrace
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of template"
	case tokClose:
		return "}}"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	case tokPipe:
		return "|"
	case tokDot:
		return "."
	case tokComma:
		return ","
	case tokColon:
		return ":"
	case tokLParen:
		return "("
	case tokRParen:
		return ")"
	case tokLBrack:
		return "["
	case tokRBrack:
		return "]"
	case tokLBrace:
		return "{"
	case tokRBrace:
		return "}"
	default:
		return "token"
	}
}

type token struct {
	kind tokenKind
	pos  int
	// val holds the identifier name, the unquoted string, or the number
	// text.
	val string
}

// lexer scans the inside of a single {{ }} action. It tracks how many
// brackets are open so a }} that closes an object literal isn't mistaken for
// the end of the action.
type lexer struct {
	text  string
	pos   int
	depth int
	last  tokenKind
}

// lexError is turned into a *SyntaxError by the parser, which knows the
// template name.
type lexError struct {
	pos int
	msg string
}

func (e *lexError) Error() string { return e.msg }

func newLexer(text string, pos int) *lexer {
	return &lexer{text: text, pos: pos, last: tokEOF}
}

func (l *lexer) next() (token, error) {
	tok, err := l.scan()
	if err != nil {
		return tok, err
	}
	l.last = tok.kind
	return tok, nil
}

func (l *lexer) scan() (token, error) {
	for l.pos < len(l.text) {
		r, size := utf8.DecodeRuneInString(l.text[l.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		l.pos += size
	}
	if l.pos >= len(l.text) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}
	start := l.pos
	c := l.text[l.pos]
	switch {
	case c == '}' && l.depth == 0:
		if strings.HasPrefix(l.text[l.pos:], "}}") {
			l.pos += 2
			return token{kind: tokClose, pos: start}, nil
		}
		return token{}, &lexError{pos: start, msg: "unexpected }"}
	case c == '\'' || c == '"':
		return l.scanString(c)
	case isDigit(c) || (c == '-' && l.pos+1 < len(l.text) && isDigit(l.text[l.pos+1])):
		return l.scanNumber(), nil
	case isIdentStart(l.text[l.pos:]):
		return l.scanIdent(), nil
	}
	l.pos++
	switch c {
	case '|':
		return token{kind: tokPipe, pos: start}, nil
	case '.':
		return token{kind: tokDot, pos: start}, nil
	case ',':
		return token{kind: tokComma, pos: start}, nil
	case ':':
		return token{kind: tokColon, pos: start}, nil
	case '(':
		l.depth++
		return token{kind: tokLParen, pos: start}, nil
	case ')':
		l.depth--
		return token{kind: tokRParen, pos: start}, nil
	case '[':
		l.depth++
		return token{kind: tokLBrack, pos: start}, nil
	case ']':
		l.depth--
		return token{kind: tokRBrack, pos: start}, nil
	case '{':
		l.depth++
		return token{kind: tokLBrace, pos: start}, nil
	case '}':
		l.depth--
		return token{kind: tokRBrace, pos: start}, nil
	}
	r, _ := utf8.DecodeRuneInString(l.text[start:])
	return token{}, &lexError{pos: start, msg: fmt.Sprintf("unexpected character %q", r)}
}

func (l *lexer) scanString(quote byte) (token, error) {
	start := l.pos
	l.pos++
	var b strings.Builder
	for l.pos < len(l.text) {
		c := l.text[l.pos]
		switch c {
		case quote:
			l.pos++
			return token{kind: tokString, pos: start, val: b.String()}, nil
		case '\\':
			if l.pos+1 >= len(l.text) {
				return token{}, &lexError{pos: start, msg: "unterminated string"}
			}
			esc := l.text[l.pos+1]
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '\'', '"':
				b.WriteByte(esc)
			default:
				return token{}, &lexError{pos: l.pos, msg: fmt.Sprintf("unknown escape sequence \\%c", esc)}
			}
			l.pos += 2
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return token{}, &lexError{pos: start, msg: "unterminated string"}
}

// scanNumber reads an optionally signed decimal number. Right after a dot
// only the integer part is read, so items.1.2 stays a path of two indexes.
func (l *lexer) scanNumber() token {
	start := l.pos
	if l.text[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.text) && isDigit(l.text[l.pos]) {
		l.pos++
	}
	if l.last != tokDot && l.pos+1 < len(l.text) && l.text[l.pos] == '.' && isDigit(l.text[l.pos+1]) {
		l.pos++
		for l.pos < len(l.text) && isDigit(l.text[l.pos]) {
			l.pos++
		}
	}
	return token{kind: tokNumber, pos: start, val: l.text[start:l.pos]}
}

func (l *lexer) scanIdent() token {
	start := l.pos
	for l.pos < len(l.text) {
		r, size := utf8.DecodeRuneInString(l.text[l.pos:])
		if r != '_' && r != '$' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.pos += size
	}
	return token{kind: tokIdent, pos: start, val: l.text[start:l.pos]}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || r == '$' || unicode.IsLetter(r)
}
