// Package render converts a document body to a standalone HTML page:
// wikilink transform, then markdown conversion, then the page shell.
//
// Rendering is a pure transform over a Document and an already-populated
// link registry; it performs no I/O.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/lightkb/internal/document"
	"git.home.luguber.info/inful/lightkb/internal/wikilinks"
)

// Renderer holds the configured markdown converter and page template.
type Renderer struct {
	md   goldmark.Markdown
	page *template.Template
}

// New returns a Renderer with table, footnote, strikethrough and task-list
// extensions enabled.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Table,
				extension.Footnote,
				extension.Strikethrough,
				extension.TaskList,
			),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
		page: template.Must(template.New("page").Parse(pageTemplate)),
	}
}

// Fragment runs the wikilink transform over body and converts the result
// to an HTML fragment.
func (r *Renderer) Fragment(body string, reg *wikilinks.Registry) (string, error) {
	resolved := reg.Transform(body)

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(resolved), &buf); err != nil {
		return "", fmt.Errorf("render: convert markdown: %w", err)
	}
	return buf.String(), nil
}

type pageData struct {
	Title     string
	Created   string
	Tags      []string
	IndexHref string
	Content   template.HTML
}

// Page renders doc as a complete HTML page: breadcrumb back to the site
// index, the title heading, a metadata line, and the converted body.
// indexHref is the relative path from the rendered page back to the site
// index; pages in nested output directories need a "../" prefix per level.
func (r *Renderer) Page(doc *document.Document, reg *wikilinks.Registry, indexHref string) (string, error) {
	fragment, err := r.Fragment(doc.Body, reg)
	if err != nil {
		return "", fmt.Errorf("render: %s: %w", doc.Path, err)
	}

	data := pageData{
		Title:     doc.Title,
		Tags:      doc.Tags,
		IndexHref: indexHref,
		Content:   template.HTML(fragment),
	}
	if doc.Created != nil {
		data.Created = doc.Created.Format("02.01.2006")
	}

	var buf strings.Builder
	if err := r.page.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render: page template for %s: %w", doc.Path, err)
	}
	return buf.String(), nil
}
