package route

// Params maps capture names to the path segments they matched.
type Params map[string]string

// Get returns the value captured under name, or "" if absent.
func (p Params) Get(name string) string {
	return p[name]
}

// Lookup returns the value captured under name and whether it was captured.
func (p Params) Lookup(name string) (string, bool) {
	v, ok := p[name]
	return v, ok
}

// Match is the outcome of resolving a path against a Table.
type Match[H any] struct {
	// Pattern is the matched pattern. Zero when nothing matched.
	Pattern Pattern

	// Params holds the captured values. Nil when the pattern captures
	// nothing or nothing matched.
	Params Params

	// Handler is the factory registered for Pattern.
	Handler H

	found bool
}

// Found reports whether a route matched.
func (m Match[H]) Found() bool {
	return m.found
}

// NoMatch returns the "no handler resolves this path" value.
func NoMatch[H any]() Match[H] {
	return Match[H]{}
}
