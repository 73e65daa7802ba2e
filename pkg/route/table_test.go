package route

import (
	"fmt"
	"reflect"
	"testing"
)

func newTable(patterns ...string) *Table[string] {
	b := NewBuilder[string]()
	for _, p := range patterns {
		b.Add(p, p)
	}
	return b.Build()
}

func TestTableMatchScenario(t *testing.T) {
	b := NewBuilder[string]()
	b.Add("/", "Home")
	b.Add("/contact", "Contact")
	table := b.Build()

	tests := []struct {
		path  string
		want  string
		found bool
	}{
		{"/contact", "Contact", true},
		{"/unknown", "", false},
		{"/", "Home", true},
	}

	for _, tt := range tests {
		m := table.Match(tt.path)
		if m.Found() != tt.found {
			t.Errorf("Match(%q).Found() = %v, want %v", tt.path, m.Found(), tt.found)
			continue
		}
		if m.Handler != tt.want {
			t.Errorf("Match(%q).Handler = %q, want %q", tt.path, m.Handler, tt.want)
		}
	}
}

func TestTableMatchParams(t *testing.T) {
	table := newTable("/users/:id", "/users/:id/posts/:post", "/docs/*rest", "/files/*")

	tests := []struct {
		path    string
		pattern string
		params  Params
	}{
		{"/users/42", "/users/:id", Params{"id": "42"}},
		{"/users/42/posts/hello", "/users/:id/posts/:post", Params{"id": "42", "post": "hello"}},
		{"/docs/guide/intro", "/docs/*rest", Params{"rest": "guide/intro"}},
		{"/docs", "/docs/*rest", Params{"rest": ""}},
		{"/files/a/b/c.txt", "/files/*", Params{"*": "a/b/c.txt"}},
	}

	for _, tt := range tests {
		m := table.Match(tt.path)
		if !m.Found() {
			t.Fatalf("Match(%q) found nothing", tt.path)
		}
		if m.Pattern.String() != tt.pattern {
			t.Errorf("Match(%q) pattern = %q, want %q", tt.path, m.Pattern, tt.pattern)
		}
		if !reflect.DeepEqual(m.Params, tt.params) {
			t.Errorf("Match(%q) params = %v, want %v", tt.path, m.Params, tt.params)
		}
	}
}

func TestTableParamRejectsEmptySegment(t *testing.T) {
	table := newTable("/users/:id")
	if m := table.Match("/users/"); m.Found() {
		t.Errorf("Match(/users/) matched %q, want no match", m.Pattern)
	}
}

func TestTableNoParamsForLiteral(t *testing.T) {
	m := newTable("/about").Match("/about")
	if m.Params != nil {
		t.Errorf("Params = %v, want nil", m.Params)
	}
	if got := m.Params.Get("missing"); got != "" {
		t.Errorf("Get on nil params = %q", got)
	}
}

func TestTableFirstRegisteredWins(t *testing.T) {
	tests := []struct {
		first, second, path string
	}{
		{"/contact", "/*", "/contact"},
		{"/contact", "/:page", "/contact"},
		{"/*", "/contact", "/contact"},
		{"/:page", "/contact", "/contact"},
		{"/docs/*rest", "/docs/:page", "/docs/intro"},
	}

	for _, tt := range tests {
		m := newTable(tt.first, tt.second).Match(tt.path)
		if m.Handler != tt.first {
			t.Errorf("[%s, %s] Match(%q) = %q, want %q", tt.first, tt.second, tt.path, m.Handler, tt.first)
		}
	}
}

func TestTableSegmentCountMismatchNeverMatches(t *testing.T) {
	patterns := []string{"/", "/a", "/:x", "/a/:y", "/:x/:y/:z"}
	paths := []string{"/", "/a", "/b", "/a/b", "/a/b/c", "/a/b/c/d", "/a//c"}

	for _, pattern := range patterns {
		want := len(splitPath(pattern))
		table := newTable(pattern)
		for _, path := range paths {
			if len(splitPath(path)) == want {
				continue
			}
			if m := table.Match(path); m.Found() {
				t.Errorf("pattern %q matched %q with a different segment count", pattern, path)
			}
		}
	}
}

func TestTableMatchDoesNotPanicOnOddPaths(t *testing.T) {
	table := newTable("/", "/a/:b", "/c/*")
	for _, path := range []string{"", "/", "//", "///", "/a//", "/c", "/c/", "/%2F"} {
		_ = table.Match(path)
	}
}

func TestNoMatch(t *testing.T) {
	m := NoMatch[string]()
	if m.Found() {
		t.Error("NoMatch().Found() = true")
	}
}

func TestBuilderBuildIsImmutable(t *testing.T) {
	b := NewBuilder[string]()
	b.Add("/", "Home")
	table := b.Build()
	b.Add("/later", "Later")

	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
	if m := table.Match("/later"); m.Found() {
		t.Error("table saw a registration made after Build")
	}
}

func TestTableRoutesOrder(t *testing.T) {
	table := newTable("/", "/contact", "/users/:id", "/*")
	var got []string
	for _, p := range table.Routes() {
		got = append(got, p.String())
	}
	want := []string{"/", "/contact", "/users/:id", "/*"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Routes() = %v, want %v", got, want)
	}
}

func TestTableShadowed(t *testing.T) {
	table := newTable("/", "/*", "/contact", "/users/:id")
	got := table.Shadowed()
	want := map[string]string{
		"/contact":   "/*",
		"/users/:id": "/*",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Shadowed() = %v, want %v", got, want)
	}

	if s := newTable("/", "/contact", "/*").Shadowed(); len(s) != 0 {
		t.Errorf("Shadowed() = %v, want none", s)
	}
}

func BenchmarkTableMatch(b *testing.B) {
	builder := NewBuilder[int]()
	for i := 0; i < 20; i++ {
		builder.Add(fmt.Sprintf("/section%d/:id", i), i)
	}
	builder.Add("/*", -1)
	table := builder.Build()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		table.Match("/section19/abc")
	}
}
