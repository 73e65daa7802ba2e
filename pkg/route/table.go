package route

// entry binds a pattern to its handler factory. H is typically a function
// type owned by the view layer.
type entry[H any] struct {
	pattern Pattern
	handler H
}

// Builder collects route registrations. It is not safe for concurrent use;
// build the table once at startup.
type Builder[H any] struct {
	entries []entry[H]
}

// NewBuilder returns an empty Builder.
func NewBuilder[H any]() *Builder[H] {
	return &Builder[H]{}
}

// Add registers handler for pattern. Registration order is match priority.
// Add panics if the pattern is invalid.
func (b *Builder[H]) Add(pattern string, handler H) *Builder[H] {
	b.entries = append(b.entries, entry[H]{pattern: MustParse(pattern), handler: handler})
	return b
}

// AddPattern registers handler for an already parsed pattern.
func (b *Builder[H]) AddPattern(p Pattern, handler H) *Builder[H] {
	b.entries = append(b.entries, entry[H]{pattern: p, handler: handler})
	return b
}

// Build returns an immutable Table holding the registrations made so far.
// The builder may be reused; later registrations do not affect the table.
func (b *Builder[H]) Build() *Table[H] {
	return &Table[H]{entries: append([]entry[H](nil), b.entries...)}
}

// Table is an immutable, ordered route table.
type Table[H any] struct {
	entries []entry[H]
}

// Len returns the number of registered routes.
func (t *Table[H]) Len() int {
	return len(t.entries)
}

// Routes returns the registered patterns in priority order.
func (t *Table[H]) Routes() []Pattern {
	out := make([]Pattern, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.pattern
	}
	return out
}

// Match resolves path against the table. The path must begin with "/" and
// carry no query or fragment. An unmatched path yields a Match whose Found
// method reports false.
func (t *Table[H]) Match(path string) Match[H] {
	parts := splitPath(path)
	for _, e := range t.entries {
		if params, ok := e.pattern.match(parts); ok {
			return Match[H]{
				Pattern: e.pattern,
				Params:  params,
				Handler: e.handler,
				found:   true,
			}
		}
	}
	return Match[H]{}
}

// Shadowed returns, for each unreachable pattern, the earlier pattern that
// captures every path it could match. Matching is unaffected.
func (t *Table[H]) Shadowed() map[string]string {
	out := make(map[string]string)
	for i, later := range t.entries {
		for _, earlier := range t.entries[:i] {
			if earlier.pattern.covers(later.pattern) {
				out[later.pattern.raw] = earlier.pattern.raw
				break
			}
		}
	}
	return out
}
