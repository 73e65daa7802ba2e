package route

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw    string
		kinds  []SegmentKind
		params []string
	}{
		{"/", nil, nil},
		{"/contact", []SegmentKind{Literal}, nil},
		{"/users/:id", []SegmentKind{Literal, Param}, []string{"id"}},
		{"/users/:id/posts/:post", []SegmentKind{Literal, Param, Literal, Param}, []string{"id", "post"}},
		{"/docs/*rest", []SegmentKind{Literal, Wildcard}, []string{"rest"}},
		{"/*", []SegmentKind{Wildcard}, []string{"*"}},
	}

	for _, tt := range tests {
		p, err := Parse(tt.raw)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tt.raw, err)
		}
		var kinds []SegmentKind
		for _, seg := range p.Segments() {
			kinds = append(kinds, seg.Kind)
		}
		if !reflect.DeepEqual(kinds, tt.kinds) {
			t.Errorf("Parse(%q) kinds = %v, want %v", tt.raw, kinds, tt.kinds)
		}
		if !reflect.DeepEqual(p.Params(), tt.params) {
			t.Errorf("Parse(%q) params = %v, want %v", tt.raw, p.Params(), tt.params)
		}
		if p.String() != tt.raw {
			t.Errorf("String() = %q, want %q", p.String(), tt.raw)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []string{
		"",
		"contact",
		"/users/:",
		"/docs/*rest/more",
		"/a/:id/b/:id",
		"/a/:rest/*rest",
	}

	for _, raw := range tests {
		_, err := Parse(raw)
		if !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidPattern", raw, err)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse should panic on an invalid pattern")
		}
	}()
	MustParse("/*a/b")
}

func TestPatternCovers(t *testing.T) {
	tests := []struct {
		p, q string
		want bool
	}{
		{"/contact", "/contact", true},
		{"/:page", "/contact", true},
		{"/contact", "/:page", false},
		{"/*", "/users/:id", true},
		{"/users/*rest", "/users", true},
		{"/users/*rest", "/", false},
		{"/users/:id", "/users/*rest", false},
		{"/users/:id", "/users/:id/edit", false},
		{"/a/:x", "/a/", false},
	}

	for _, tt := range tests {
		got := MustParse(tt.p).covers(MustParse(tt.q))
		if got != tt.want {
			t.Errorf("%q covers %q = %v, want %v", tt.p, tt.q, got, tt.want)
		}
	}
}
