package route

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPattern is returned by Parse for malformed patterns.
var ErrInvalidPattern = errors.New("invalid route pattern")

// SegmentKind identifies how a pattern segment matches.
type SegmentKind uint8

const (
	// Literal segments match a path segment exactly.
	Literal SegmentKind = iota
	// Param segments match any single non-empty path segment.
	Param
	// Wildcard segments match all remaining path segments.
	Wildcard
)

// String returns the kind name.
func (k SegmentKind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Param:
		return "param"
	case Wildcard:
		return "wildcard"
	default:
		return fmt.Sprintf("SegmentKind(%d)", uint8(k))
	}
}

// Segment is one parsed element of a Pattern.
type Segment struct {
	Kind SegmentKind

	// Value is the literal text for Literal segments and the capture name
	// for Param and Wildcard segments.
	Value string
}

// wildcardName is the capture name of an anonymous "*" segment.
const wildcardName = "*"

// Pattern is a parsed route template.
type Pattern struct {
	raw      string
	segments []Segment
	params   []string
}

// Parse parses a route pattern such as "/users/:id" or "/docs/*rest".
func Parse(raw string) (Pattern, error) {
	if !strings.HasPrefix(raw, "/") {
		return Pattern{}, fmt.Errorf("%w %q: must begin with /", ErrInvalidPattern, raw)
	}

	p := Pattern{raw: raw}
	parts := splitPath(raw)
	seen := make(map[string]bool, len(parts))

	for i, part := range parts {
		var seg Segment
		switch {
		case strings.HasPrefix(part, ":"):
			name := part[1:]
			if name == "" {
				return Pattern{}, fmt.Errorf("%w %q: empty parameter name", ErrInvalidPattern, raw)
			}
			seg = Segment{Kind: Param, Value: name}

		case strings.HasPrefix(part, "*"):
			if i != len(parts)-1 {
				return Pattern{}, fmt.Errorf("%w %q: wildcard must be the last segment", ErrInvalidPattern, raw)
			}
			name := part[1:]
			if name == "" {
				name = wildcardName
			}
			seg = Segment{Kind: Wildcard, Value: name}

		default:
			seg = Segment{Kind: Literal, Value: part}
		}

		if seg.Kind != Literal {
			if seen[seg.Value] {
				return Pattern{}, fmt.Errorf("%w %q: duplicate parameter %q", ErrInvalidPattern, raw, seg.Value)
			}
			seen[seg.Value] = true
			p.params = append(p.params, seg.Value)
		}
		p.segments = append(p.segments, seg)
	}

	return p, nil
}

// MustParse is like Parse but panics on error.
func MustParse(raw string) Pattern {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the pattern as it was registered.
func (p Pattern) String() string {
	return p.raw
}

// Segments returns a copy of the parsed segments.
func (p Pattern) Segments() []Segment {
	return append([]Segment(nil), p.segments...)
}

// Params returns the capture names of the pattern in path order.
func (p Pattern) Params() []string {
	return append([]string(nil), p.params...)
}

// HasWildcard reports whether the pattern ends in a wildcard segment.
func (p Pattern) HasWildcard() bool {
	n := len(p.segments)
	return n > 0 && p.segments[n-1].Kind == Wildcard
}

// match matches path segments against the pattern. Captures are written
// into params only on success.
func (p Pattern) match(parts []string) (Params, bool) {
	wild := p.HasWildcard()
	fixed := len(p.segments)
	if wild {
		fixed--
		if len(parts) < fixed {
			return nil, false
		}
	} else if len(parts) != fixed {
		return nil, false
	}

	var params Params
	capture := func(name, value string) {
		if params == nil {
			params = make(Params, len(p.params))
		}
		params[name] = value
	}

	for i := 0; i < fixed; i++ {
		seg := p.segments[i]
		switch seg.Kind {
		case Literal:
			if parts[i] != seg.Value {
				return nil, false
			}
		case Param:
			if parts[i] == "" {
				return nil, false
			}
			capture(seg.Value, parts[i])
		}
	}

	if wild {
		capture(p.segments[fixed].Value, strings.Join(parts[fixed:], "/"))
	}
	return params, true
}

// covers reports whether every path matched by q is also matched by p.
func (p Pattern) covers(q Pattern) bool {
	pw, qw := p.HasWildcard(), q.HasWildcard()
	pn, qn := len(p.segments), len(q.segments)
	if pw {
		pn--
	}
	if qw {
		qn--
	}

	switch {
	case !pw && qw:
		return false
	case !pw && pn != qn:
		return false
	case pw && qn < pn:
		return false
	}

	for i := 0; i < pn; i++ {
		ps, qs := p.segments[i], q.segments[i]
		switch ps.Kind {
		case Literal:
			if qs.Kind != Literal || qs.Value != ps.Value {
				return false
			}
		case Param:
			if qs.Kind == Literal && qs.Value == "" {
				return false
			}
		}
	}
	return true
}

// splitPath splits a rooted path into its segments. The root path has none.
// Interior and trailing empty segments are kept so that "/a/" and "/a" differ.
func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
