package folio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Source supplies the raw text of templates. It is the only place the
// Engine does I/O.
type Source interface {
	// ReadTemplate returns the text of the template identified by id.
	// If there's no such template, the error must match
	// ErrTemplateNotFound when checked with errors.Is.
	ReadTemplate(ctx context.Context, id string) (string, error)
}

var (
	_ Source = &FSSource{}
	_ Source = MapSource{}
)

// FSSource is a Source that reads templates from an fs.FS. A template id is
// looked up as-is first, and then with each of Extensions appended, so
// "blog/post" can live in blog/post.html.
type FSSource struct {
	// FS holds the templates.
	FS fs.FS

	// Extensions are tried in order when no file matches the id
	// exactly.
	Extensions []string
}

// DefaultExtensions are the extensions NewFSSource tries.
var DefaultExtensions = []string{".html", ".tmpl"}

// NewFSSource returns an FSSource reading from fsys. If no extensions are
// passed, DefaultExtensions are used.
func NewFSSource(fsys fs.FS, extensions ...string) *FSSource {
	if len(extensions) < 1 {
		extensions = DefaultExtensions
	}
	return &FSSource{FS: fsys, Extensions: extensions}
}

// ReadTemplate reads the file backing id.
func (s *FSSource) ReadTemplate(_ context.Context, id string) (string, error) {
	id, err := cleanID(id)
	if err != nil {
		return "", err
	}
	if !fs.ValidPath(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTemplateID, id)
	}
	candidates := make([]string, 0, len(s.Extensions)+1)
	candidates = append(candidates, id)
	for _, ext := range s.Extensions {
		candidates = append(candidates, id+ext)
	}
	for _, name := range candidates {
		contents, err := fs.ReadFile(s.FS, name)
		if err == nil {
			return string(contents), nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		// a directory named like the page shouldn't hide page.html
		if info, statErr := fs.Stat(s.FS, name); statErr == nil && info.IsDir() {
			continue
		}
		return "", fmt.Errorf("error reading %q: %w", name, err)
	}
	return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
}

// MapSource is a Source backed by a map from template id to template text.
type MapSource map[string]string

// ReadTemplate returns the text stored under id.
func (s MapSource) ReadTemplate(_ context.Context, id string) (string, error) {
	id, err := cleanID(id)
	if err != nil {
		return "", err
	}
	text, ok := s[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}
	return text, nil
}

// cleanID normalizes a template id so "/blog/post", "blog/./post", and
// "blog/post" all refer to the same template.
func cleanID(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%w: empty identifier", ErrInvalidTemplateID)
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+id), "/")
	if cleaned == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidTemplateID, id)
	}
	return cleaned, nil
}
