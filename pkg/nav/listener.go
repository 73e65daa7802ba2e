package nav

import (
	"crypto/rand"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// DefaultMaxEntries is the default number of history entries whose scroll
// offsets a Listener remembers.
const DefaultMaxEntries = 128

// Listener normalizes navigation events into States.
type Listener struct {
	origin     *url.URL
	base       string
	maxEntries int
	keyPrefix  string
	excluded   []string

	// handleMu serializes Handle so subscribers see states in event order.
	handleMu sync.Mutex

	mu      sync.Mutex
	seq     uint64
	current State
	offsets map[string]Offset
	order   []string
	subs    []listenerSub
	subSeq  uint64
}

type listenerSub struct {
	id uint64
	fn func(State)
}

// Option configures a Listener.
type Option func(*Listener)

// WithOrigin sets the app origin ("https://example.com"). Absolute targets
// are intercepted only when their scheme and host match it. Without an
// origin, absolute targets are never intercepted.
func WithOrigin(origin *url.URL) Option {
	return func(l *Listener) {
		l.origin = origin
	}
}

// WithBasePath sets the normalized deployment base path.
func WithBasePath(base string) Option {
	return func(l *Listener) {
		l.base = base
	}
}

// WithExcludedPrefixes marks in-base paths served by the server rather than
// the app, such as "/api/". A prefix ending in "/" also covers the path
// without the slash. Targets under an excluded prefix are not intercepted.
func WithExcludedPrefixes(prefixes ...string) Option {
	return func(l *Listener) {
		for _, p := range prefixes {
			if p == "" || p == "/" {
				continue
			}
			l.excluded = append(l.excluded, p)
		}
	}
}

// WithMaxEntries bounds the number of remembered scroll offsets.
func WithMaxEntries(n int) Option {
	return func(l *Listener) {
		if n > 0 {
			l.maxEntries = n
		}
	}
}

// NewListener creates a Listener positioned at the app root.
func NewListener(opts ...Option) *Listener {
	l := &Listener{
		maxEntries: DefaultMaxEntries,
		offsets:    make(map[string]Offset),
		keyPrefix:  randomPrefix(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.current = State{Path: "/", Kind: KindLoad}
	return l
}

// Base returns the base path the listener strips.
func (l *Listener) Base() string {
	return l.base
}

// Current returns the most recently published State.
func (l *Listener) Current() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Subscribe registers fn to receive every published State, in order.
func (l *Listener) Subscribe(fn func(State)) (unsubscribe func()) {
	l.mu.Lock()
	l.subSeq++
	id := l.subSeq
	l.subs = append(l.subs, listenerSub{id: id, fn: fn})
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, sub := range l.subs {
			if sub.id == id {
				l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
				return
			}
		}
	}
}

// Resolve maps href to an in-app path and raw query. It reports false when
// the target must be left to the browser.
func (l *Listener) Resolve(href string) (path, query string, ok bool) {
	l.mu.Lock()
	current := l.current.Path
	l.mu.Unlock()
	return l.resolve(href, current)
}

func (l *Listener) resolve(href, current string) (string, string, bool) {
	u, err := url.Parse(href)
	if err != nil || u.Opaque != "" {
		return "", "", false
	}

	if u.Scheme != "" || u.Host != "" {
		if l.origin == nil {
			return "", "", false
		}
		scheme := u.Scheme
		if scheme == "" {
			scheme = l.origin.Scheme
		}
		if !strings.EqualFold(scheme, l.origin.Scheme) || !strings.EqualFold(u.Host, l.origin.Host) {
			return "", "", false
		}
	} else if u.Path == "" && u.RawQuery == "" {
		// Same-document fragment or empty target.
		return "", "", false
	}

	// Relative references resolve against the current location.
	from := &url.URL{Path: JoinBase(l.base, current)}
	target := from.ResolveReference(&url.URL{Path: u.Path, RawPath: u.RawPath, RawQuery: u.RawQuery})
	if u.Path == "" {
		target.Path = from.Path
	}

	stripped, ok := StripBase(l.base, target.Path)
	if !ok {
		return "", "", false
	}
	canon, err := CanonicalizePath(stripped)
	if err != nil || l.isExcluded(canon) {
		return "", "", false
	}
	return canon, target.RawQuery, true
}

func (l *Listener) isExcluded(path string) bool {
	for _, p := range l.excluded {
		if strings.HasSuffix(p, "/") {
			if path == strings.TrimSuffix(p, "/") || strings.HasPrefix(path, p) {
				return true
			}
		} else if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Handle processes one event. It returns the published State and true, or a
// zero State and false when the target is not intercepted. Subscribers run
// before Handle returns and must not call Handle themselves.
func (l *Listener) Handle(ev Event) (State, bool) {
	l.handleMu.Lock()
	defer l.handleMu.Unlock()

	l.mu.Lock()
	path, query, ok := l.resolve(ev.Href, l.current.Path)
	if !ok {
		l.mu.Unlock()
		return State{}, false
	}

	if ev.From != "" {
		l.remember(ev.From, ev.FromScroll)
	}

	st := State{Path: path, Query: query, Kind: ev.Kind}
	switch ev.Kind {
	case KindPop, KindLoad:
		st.Key = ev.Key
		if st.Key == "" {
			st.Key = l.newKey()
		}
		if off, known := l.offsets[st.Key]; known {
			st.Scroll = Scroll{Restore: true, X: off.X, Y: off.Y}
		} else if ev.EntryScroll != nil {
			st.Scroll = Scroll{Restore: true, X: ev.EntryScroll.X, Y: ev.EntryScroll.Y}
		} else if ev.Kind == KindPop {
			st.Scroll = Scroll{Restore: true}
		}
	default:
		st.Key = l.newKey()
	}

	l.current = st
	subs := make([]listenerSub, len(l.subs))
	copy(subs, l.subs)
	l.mu.Unlock()

	for _, sub := range subs {
		sub.fn(st)
	}
	return st, true
}

// Offset returns the remembered scroll offset for a history entry.
func (l *Listener) Offset(key string) (Offset, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	off, ok := l.offsets[key]
	return off, ok
}

// remember stores the offset of an entry, evicting the oldest entry when
// the memory is full. Caller holds l.mu.
func (l *Listener) remember(key string, off Offset) {
	if _, exists := l.offsets[key]; !exists {
		if len(l.order) >= l.maxEntries {
			oldest := l.order[0]
			l.order = l.order[1:]
			delete(l.offsets, oldest)
		}
		l.order = append(l.order, key)
	}
	l.offsets[key] = off
}

// newKey returns a fresh history entry key. Caller holds l.mu.
func (l *Listener) newKey() string {
	l.seq++
	return l.keyPrefix + "-" + strconv.FormatUint(l.seq, 10)
}

func randomPrefix() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "k"
	}
	return hex.EncodeToString(b[:])
}
