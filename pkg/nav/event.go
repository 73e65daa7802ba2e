package nav

import "fmt"

// Kind is the origin of a navigation event.
type Kind uint8

const (
	// KindLoad is the initial page load.
	KindLoad Kind = iota
	// KindLink is a link activation inside the app.
	KindLink
	// KindProgram is a navigation requested by application code.
	KindProgram
	// KindPop is a history back/forward navigation.
	KindPop
)

var kindNames = [...]string{
	KindLoad:    "load",
	KindLink:    "link",
	KindProgram: "program",
	KindPop:     "pop",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind parses a wire name produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown navigation kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Offset is a document scroll position in CSS pixels.
type Offset struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Event is one navigation reported by the client.
type Event struct {
	Kind Kind `json:"kind"`

	// Href is the navigation target: an absolute URL, a rooted path or a
	// path relative to the current location.
	Href string `json:"href"`

	// Key identifies the target history entry. Set for pops and for reloads
	// of an existing entry; forward navigations always get a new key.
	Key string `json:"key,omitempty"`

	// From is the key of the entry being left, and FromScroll its scroll
	// offset at the time of leaving.
	From       string `json:"from,omitempty"`
	FromScroll Offset `json:"from_scroll"`

	// EntryScroll is the offset the client kept in the target entry's
	// history state, used when the listener has no memory of the entry.
	EntryScroll *Offset `json:"entry_scroll,omitempty"`
}

// Scroll is the scroll instruction for the consumer of a State.
type Scroll struct {
	// Restore is true when the offset should be restored rather than reset.
	Restore bool `json:"restore"`
	X       int  `json:"x"`
	Y       int  `json:"y"`
}

// State is the normalized result of one navigation.
type State struct {
	// Path is the in-app path: base prefix stripped, canonical, no query.
	Path string `json:"path"`

	// Query is the raw query string without "?".
	Query string `json:"query,omitempty"`

	Kind Kind `json:"kind"`

	// Key identifies the history entry now current.
	Key string `json:"key"`

	Scroll Scroll `json:"scroll"`
}

// Pop reports whether the state came from a history back/forward.
func (s State) Pop() bool {
	return s.Kind == KindPop
}

// Push reports whether the client must push a new history entry.
func (s State) Push() bool {
	return s.Kind == KindLink || s.Kind == KindProgram
}
