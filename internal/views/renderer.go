// Package views renders the wizard HTML pages from the embedded templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Data is the context handed to a template
type Data = pongo2.Context

// Renderer executes the embedded page templates
type Renderer struct {
	set *pongo2.TemplateSet
}

// New creates a renderer over the embedded templates
func New() (*Renderer, error) {
	files, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("views: open templates: %w", err)
	}
	return NewFromFS(files), nil
}

// NewFromFS creates a renderer reading templates from files
func NewFromFS(files fs.FS) *Renderer {
	return &Renderer{
		set: pongo2.NewSet("seopress", pongo2.NewFSLoader(files)),
	}
}

// Render executes the named template into w. Nothing is written on failure.
func (r *Renderer) Render(w io.Writer, name string, data Data) error {
	tpl, err := r.set.FromCache(name)
	if err != nil {
		return fmt.Errorf("views: load template %q: %w", name, err)
	}
	if err := tpl.ExecuteWriter(data, w); err != nil {
		return fmt.Errorf("views: execute template %q: %w", name, err)
	}
	return nil
}

// RenderString executes the named template and returns the output
func (r *Renderer) RenderString(name string, data Data) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
