package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/starter/pkg/nav"
	"github.com/vango-dev/starter/pkg/state"
)

// Server upgrades WebSocket requests into live sessions.
type Server struct {
	config   *SessionConfig
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	states   map[string]*state.State
	closed   bool
}

// SessionInfo describes a live session for debugging.
type SessionInfo struct {
	ID       string         `json:"id"`
	State    state.Snapshot `json:"state"`
	Location nav.State      `json:"location"`
}

// New creates a Server. A nil config uses DefaultSessionConfig.
func New(config *SessionConfig) *Server {
	if config == nil {
		config = DefaultSessionConfig()
	}
	config = config.withDefaults()

	s := &Server{
		config:   config,
		logger:   config.Logger.With("component", "server"),
		sessions: make(map[string]*Session),
		states:   make(map[string]*state.State),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     config.CheckOrigin,
	}
	if s.upgrader.CheckOrigin == nil {
		s.upgrader.CheckOrigin = s.sameOrigin
	}
	return s
}

// Config returns the effective session configuration.
func (s *Server) Config() *SessionConfig {
	return s.config
}

// ServeHTTP upgrades the request and starts a session. The session waits
// for the client's "load" navigation before rendering.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		s.logger.Debug("upgrade failed", "error", err)
		return
	}

	id := generateSessionID()
	var opts []state.Option
	if s.config.Debug {
		opts = append(opts, state.WithDebugHook(func(st *state.State) {
			s.mu.Lock()
			s.states[id] = st
			s.mu.Unlock()
		}))
	}
	sess := newSession(id, RequestBase(r, s.config), conn, s.config, opts...)
	sess.onClose = s.remove

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sess.Close()
		return
	}
	s.sessions[id] = sess
	s.mu.Unlock()

	if m := s.config.Metrics; m != nil {
		m.SessionOpened()
	}
	s.logger.Info("session opened", "session_id", id, "remote", r.RemoteAddr)
	sess.Start()
}

func (s *Server) remove(sess *Session) {
	s.mu.Lock()
	_, ok := s.sessions[sess.ID]
	delete(s.sessions, sess.ID)
	delete(s.states, sess.ID)
	s.mu.Unlock()

	if ok && s.config.Metrics != nil {
		s.config.Metrics.SessionClosed()
	}
}

// Session returns the live session with id.
func (s *Server) Session(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// States returns the states exposed through the debug hook, ordered by
// session ID. It is empty unless Debug is set.
func (s *Server) States() []SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(s.states))
	for id, st := range s.states {
		info := SessionInfo{ID: id, State: st.Snapshot()}
		if sess, ok := s.sessions[id]; ok {
			info.Location = sess.Location()
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Shutdown closes every session and rejects new ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		if err := ctx.Err(); err != nil {
			return err
		}
		sess.Close()
	}
	s.logger.Info("sessions closed", "count", len(sessions))
	return nil
}

// sameOrigin accepts requests without an Origin header and those whose
// Origin host equals the request host or the configured public origin.
func (s *Server) sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	if pub := s.config.Origin; pub != nil {
		return strings.EqualFold(u.Scheme, pub.Scheme) && strings.EqualFold(u.Host, pub.Host)
	}
	return false
}
