package views

import (
	"github.com/vango-dev/starter/pkg/route"
)

// Home is the landing page with the counter demo.
func Home(params route.Params) Page {
	return Page{Title: "Home", template: "home.html", params: params}
}

// Contact is the contact form page.
func Contact(params route.Params) Page {
	return Page{Title: "Contact", template: "contact.html", params: params}
}

// Greet greets the person named by the :name parameter.
func Greet(params route.Params) Page {
	return Page{Title: "Hello, " + params.Get("name"), template: "greet.html", params: params}
}

// NotFound is rendered when no route matches.
func NotFound(params route.Params) Page {
	return Page{Title: "Page not found", template: "notfound.html", params: params}
}

// Routes returns the app's route table. Order is match priority.
func Routes() *route.Table[Factory] {
	return route.NewBuilder[Factory]().
		Add("/", Home).
		Add("/contact", Contact).
		Add("/greet/:name", Greet).
		Build()
}

// Resolve matches path against table and returns the page to render and
// whether a route matched. Unmatched paths yield the NotFound page.
func Resolve(table *route.Table[Factory], path string) (Page, bool) {
	m := table.Match(path)
	if !m.Found() {
		return NotFound(route.Params{"path": path}), false
	}
	return m.Handler(m.Params), true
}
