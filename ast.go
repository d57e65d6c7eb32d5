package folio

// Template is a parsed template: literal text interleaved with expressions.
// A Template is never modified after Parse returns it, so it can be shared by
// any number of concurrent renders.
type Template struct {
	// Name is the identifier the template was parsed under.
	Name string

	// Nodes holds the template contents in source order.
	Nodes []Node

	source string
}

// Source returns the text the template was parsed from.
func (t *Template) Source() string {
	return t.source
}

// Node is either a *TextNode or an *ExprNode.
type Node interface {
	node()
}

// TextNode is literal text, copied to the output verbatim.
type TextNode struct {
	Text string
}

// ExprNode is a {{ ... }} action. Pos is the offset of its opening braces.
type ExprNode struct {
	Pos  int
	Expr Expr
}

func (*TextNode) node() {}
func (*ExprNode) node() {}

// Expr is a node of an expression tree: *Literal, *Path, *ArrayLit,
// *ObjectLit, or *Pipeline.
type Expr interface {
	// Position returns the byte offset of the expression within the
	// template text.
	Position() int
}

// Literal is a string, number, boolean, or null constant.
type Literal struct {
	Pos   int
	Value Value
}

// Path is an identifier optionally followed by dotted property names, like
// it.Object.Prop.
type Path struct {
	Pos    int
	Name   string
	Fields []string
}

// ArrayLit is an array literal, [a, b].
type ArrayLit struct {
	Pos   int
	Items []Expr
}

// ObjectLit is an object literal, { k: v, k2: v2 }. Keys and Values line up
// by index and keep source order.
type ObjectLit struct {
	Pos    int
	Keys   []string
	Values []Expr
}

// Pipeline is a root expression piped through one or more filter stages,
// applied left to right.
type Pipeline struct {
	Pos    int
	Root   Expr
	Stages []Stage
}

// Stage is a single filter call within a Pipeline. Its arguments are
// expressions, evaluated in the scope the pipeline runs in.
type Stage struct {
	Pos  int
	Name string
	Args []Expr
}

func (e *Literal) Position() int   { return e.Pos }
func (e *Path) Position() int      { return e.Pos }
func (e *ArrayLit) Position() int  { return e.Pos }
func (e *ObjectLit) Position() int { return e.Pos }
func (e *Pipeline) Position() int  { return e.Pos }
