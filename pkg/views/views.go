// Package views renders the starter's pages.
//
// Views are deliberately minimal server-side templates. Every page renders
// inside the document landmarks an accessibility scan expects: a language
// attribute, a skip link, a labelled navigation and a single main region.
package views

import (
	"embed"
	"html/template"
	"io"

	"github.com/vango-dev/starter/pkg/nav"
	"github.com/vango-dev/starter/pkg/route"
	"github.com/vango-dev/starter/pkg/state"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("views").Funcs(template.FuncMap{
	"href": nav.JoinBase,
}).ParseFS(templateFS, "templates/*.html"))

// Page is a renderable unit produced by a route's factory.
type Page struct {
	// Title is the document title.
	Title string

	template string
	params   route.Params
}

// Factory builds the page for a matched route.
type Factory func(route.Params) Page

// Param returns a route parameter captured for the page.
func (p Page) Param(name string) string {
	return p.params.Get(name)
}

// Context is what a page sees while rendering.
type Context struct {
	// Base is the deployment base path, "" at the root.
	Base string

	State  state.Snapshot
	Params route.Params
}

// Document holds the fields of a full HTML document.
type Document struct {
	Context
	Title    string
	Content  template.HTML
	ClientJS string
	Socket   string
}

// Render writes the page body, the content of the main region.
func (p Page) Render(w io.Writer, base string, st *state.State) error {
	return templates.ExecuteTemplate(w, p.template, Context{
		Base:   base,
		State:  st.Snapshot(),
		Params: p.params,
	})
}

// RenderDocument writes a complete HTML document around content.
func RenderDocument(w io.Writer, doc Document) error {
	return templates.ExecuteTemplate(w, "document.html", doc)
}
