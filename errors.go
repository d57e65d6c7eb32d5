package folio

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrTemplateNotFound is returned when a page, partial, or layout
	// identifier doesn't match any template the Source knows about. A
	// missing layout is never reported; the page just renders unwrapped.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidTemplateID is returned when a template identifier can't
	// be turned into a path, e.g. because it's empty.
	ErrInvalidTemplateID = errors.New("invalid template identifier")

	// ErrUnknownFilter is returned when an expression pipes into a filter
	// name that was never registered.
	ErrUnknownFilter = errors.New("unknown filter")

	// ErrFilterArity is returned when a filter is called with fewer or
	// more arguments than it accepts.
	ErrFilterArity = errors.New("wrong number of filter arguments")

	// ErrTypeMismatch is returned by filters that receive a value of a
	// kind they can't work with, like upper on an array.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrMaxDepth is returned when partials and forEach blocks nest
	// deeper than the Engine allows. It almost always means a partial
	// includes itself.
	ErrMaxDepth = errors.New("maximum composition depth exceeded")
)

// SyntaxError describes a malformed template: an unclosed {{, an empty
// expression, or an expression that doesn't follow the grammar.
type SyntaxError struct {
	// Template is the name of the template being parsed.
	Template string

	// Offset is the byte offset of the problem within the template
	// text. Line and Column are 1-based and derived from it.
	Offset int
	Line   int
	Column int

	// Msg describes what went wrong.
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %q at line %d, column %d: %s", e.Template, e.Line, e.Column, e.Msg)
}

// LogValue implements slog.LogValuer.
func (e *SyntaxError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Msg),
		slog.String("template", e.Template),
		slog.Int("line", e.Line),
		slog.Int("column", e.Column),
	)
}

// FilterError wraps a failure that happened while applying a filter stage,
// whether the filter was unknown, called with the wrong number of arguments,
// or failed on its own.
type FilterError struct {
	Template string
	Filter   string
	Line     int
	Column   int
	Err      error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("filter %q in %q at line %d, column %d: %s", e.Filter, e.Template, e.Line, e.Column, e.Err)
}

func (e *FilterError) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *FilterError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Err.Error()),
		slog.String("filter", e.Filter),
		slog.String("template", e.Template),
		slog.Int("line", e.Line),
		slog.Int("column", e.Column),
	)
}

// lineCol turns a byte offset into 1-based line and column numbers.
func lineCol(text string, offset int) (int, int) {
	if offset > len(text) {
		offset = len(text)
	}
	line, col := 1, 1
	for _, r := range text[:offset] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
