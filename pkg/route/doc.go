// Package route implements the ordered route table used by the starter app.
//
// A table binds path patterns to handler factories in registration order:
//
//	b := route.NewBuilder[views.Factory]()
//	b.Add("/", views.Home)
//	b.Add("/greet/:name", views.Greet)
//	b.Add("/docs/*rest", views.Docs)
//	table := b.Build()
//
//	m := table.Match("/greet/ada")
//	if !m.Found() {
//	    // render the not-found view
//	}
//	name := m.Params.Get("name")
//
// # Patterns
//
// A pattern is a slash-separated list of segments:
//
//	about     literal, must equal the path segment exactly
//	:name     parameter, matches one non-empty segment and captures it
//	*rest     wildcard, matches all remaining segments (zero or more)
//	*         anonymous wildcard, captured under "*"
//
// A wildcard must be the last segment of its pattern.
//
// # Priority
//
// Patterns are tried in registration order and the first full match wins.
// A general pattern registered before a specific one shadows it. This is
// never reported as an error at match time; Shadowed can be used to list
// unreachable patterns at startup.
package route
