package server

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	starterrors "github.com/vango-dev/starter/internal/errors"
	"github.com/vango-dev/starter/pkg/nav"
	"github.com/vango-dev/starter/pkg/state"
	"github.com/vango-dev/starter/pkg/views"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Session is one live browser connection.
type Session struct {
	// ID uniquely identifies the session.
	ID string

	conn   *websocket.Conn
	config *SessionConfig
	base   string
	logger *slog.Logger

	state    *state.State
	listener *nav.Listener

	events     chan ClientMessage
	dispatchCh chan func()
	done       chan struct{}
	closed     atomic.Bool
	closeOnce  sync.Once

	writeMu sync.Mutex

	// dirty is set by state subscribers and cleared when an update is sent.
	dirty  atomic.Bool
	unsubs []func()

	timersMu sync.Mutex
	timers   []*time.Timer

	onClose func(*Session)

	eventCount atomic.Uint64
	sentCount  atomic.Uint64
}

func generateSessionID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(b[:])
}

// newSession creates a session on conn. stateOpts are applied to the
// session's state.State.
func newSession(id, base string, conn *websocket.Conn, config *SessionConfig, stateOpts ...state.Option) *Session {
	s := &Session{
		ID:         id,
		base:       base,
		conn:       conn,
		config:     config,
		logger:     config.Logger.With("component", "session", "session_id", id),
		events:     make(chan ClientMessage, config.MaxEventQueue),
		dispatchCh: make(chan func(), config.MaxEventQueue),
		done:       make(chan struct{}),
	}

	s.state = state.New(stateOpts...)
	s.listener = nav.NewListener(
		nav.WithBasePath(base),
		nav.WithOrigin(config.Origin),
		nav.WithExcludedPrefixes(config.NativePrefixes...),
	)

	markDirty := func() { s.dirty.Store(true) }
	s.unsubs = append(s.unsubs,
		s.listener.Subscribe(func(st nav.State) {
			state.SetRoute(s.state, st.Path)
		}),
		s.state.Counter.Subscribe(func(int) { markDirty() }),
		s.state.Submitting.Subscribe(func(bool) { markDirty() }),
		s.state.Submitted.Subscribe(func(bool) { markDirty() }),
	)
	return s
}

// State returns the session state. Reads are safe from any goroutine;
// writes belong on the event loop, see Dispatch.
func (s *Session) State() *state.State {
	return s.state
}

// Location returns the current navigation state.
func (s *Session) Location() nav.State {
	return s.listener.Current()
}

// Start starts all session loops.
func (s *Session) Start() {
	go s.ReadLoop()
	go s.WriteLoop()
	go s.EventLoop()
}

// ReadLoop reads and decodes client messages and queues them for the event
// loop in arrival order. It blocks until the connection fails or the
// session closes.
func (s *Session) ReadLoop() {
	defer s.Close()

	s.conn.SetReadLimit(s.config.MaxMessageSize)
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	})

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("message decode error", "error", err)
			s.sendError(starterrors.New("E120").Wrap(err))
			continue
		}

		// Block rather than drop: dropping would reorder navigations.
		select {
		case s.events <- msg:
		case <-s.done:
			return
		}
	}
}

// WriteLoop sends heartbeat pings until the session closes.
func (s *Session) WriteLoop() {
	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.config.WriteTimeout))
			if err != nil {
				s.logger.Debug("ping error", "error", err)
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// EventLoop runs queued messages and dispatched callbacks one at a time.
func (s *Session) EventLoop() {
	for {
		select {
		case msg := <-s.events:
			s.run(func() { s.handleMessage(msg) })
		case fn := <-s.dispatchCh:
			s.run(fn)
		case <-s.done:
			return
		}
	}
}

// run executes fn with panic recovery and flushes pending state changes.
func (s *Session) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("handler panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
	if s.dirty.Swap(false) {
		s.sendUpdate()
	}
}

// Dispatch queues fn to run on the session's event loop. It is safe to call
// from any goroutine; fn is dropped when the session is closing.
func (s *Session) Dispatch(fn func()) {
	if s.closed.Load() {
		return
	}
	select {
	case s.dispatchCh <- fn:
	case <-s.done:
	}
}

// Navigate performs a programmatic navigation to href on the event loop.
func (s *Session) Navigate(href string) {
	s.Dispatch(func() {
		s.navigate(nav.Event{Kind: nav.KindProgram, Href: href})
	})
}

func (s *Session) handleMessage(msg ClientMessage) {
	s.eventCount.Add(1)

	switch msg.Type {
	case MessageNav:
		s.navigate(msg.Event)
	case MessageAction:
		s.handleAction(msg)
	default:
		s.sendError(starterrors.New("E120").WithDetail("unknown message type " + msg.Type))
	}
}

func (s *Session) handleAction(msg ClientMessage) {
	switch msg.Name {
	case ActionIncrement:
		state.Increment(s.state)
	case ActionDecrement:
		state.Decrement(s.state)
	case ActionContactSubmit:
		s.submitContact()
	case ActionNavigate:
		s.navigate(nav.Event{
			Kind:       nav.KindProgram,
			Href:       msg.Value,
			From:       msg.From,
			FromScroll: msg.FromScroll,
		})
	default:
		s.sendError(starterrors.New("E121").WithDetail(msg.Name))
		return
	}
	if m := s.config.Metrics; m != nil {
		m.RecordAction(msg.Name)
	}
}

// submitContact simulates an asynchronous form submission. A second submit
// while one is in flight, or after it resolved, is ignored.
func (s *Session) submitContact() {
	if s.state.Submitting.Get() || s.state.Submitted.Get() {
		return
	}
	s.state.Submitting.Set(true)

	t := time.AfterFunc(s.config.SubmitDelay, func() {
		s.Dispatch(func() {
			s.state.Submitting.Set(false)
			s.state.Submitted.Set(true)
		})
	})
	s.timersMu.Lock()
	s.timers = append(s.timers, t)
	s.timersMu.Unlock()
}

// navigate hands ev to the listener and renders the resulting page, or asks
// the client to navigate natively when the target is not the app's.
func (s *Session) navigate(ev nav.Event) {
	var span trace.Span
	if s.config.Tracer != nil {
		_, span = s.config.Tracer.Start(context.Background(), "navigation "+ev.Kind.String(),
			trace.WithAttributes(
				attribute.String("nav.kind", ev.Kind.String()),
				attribute.String("nav.href", ev.Href),
				attribute.String("session.id", s.ID),
			))
		defer span.End()
	}

	st, ok := s.listener.Handle(ev)
	if !ok {
		s.logger.Debug("external navigation", "href", ev.Href)
		if m := s.config.Metrics; m != nil {
			m.RecordNavigation(ev.Kind.String(), false)
		}
		if span != nil {
			span.SetAttributes(attribute.Bool("nav.external", true))
		}
		s.send(ServerMessage{Type: MessageExternal, Href: ev.Href})
		return
	}

	page, matched := views.Resolve(s.config.Routes, st.Path)
	if m := s.config.Metrics; m != nil {
		m.RecordNavigation(st.Kind.String(), matched)
	}

	html, err := s.renderPage(page)
	if err != nil {
		s.logger.Error("render error", "path", st.Path, "error", err)
		if span != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		s.send(ServerMessage{Type: MessageError, Message: "render failed"})
		return
	}
	if span != nil {
		span.SetAttributes(
			attribute.String("nav.path", st.Path),
			attribute.Bool("nav.matched", matched),
		)
	}

	scroll := st.Scroll
	s.send(ServerMessage{
		Type:   MessageRender,
		Title:  page.Title,
		HTML:   html,
		Path:   st.Path,
		URL:    locationURL(s.base, st),
		Key:    st.Key,
		Push:   st.Push(),
		Scroll: &scroll,
	})
	// The render already reflects every pending change.
	s.dirty.Store(false)
}

// sendUpdate re-renders the current page in place.
func (s *Session) sendUpdate() {
	page, _ := views.Resolve(s.config.Routes, s.state.Path.Get())
	html, err := s.renderPage(page)
	if err != nil {
		s.logger.Error("render error", "error", err)
		return
	}
	s.send(ServerMessage{Type: MessageUpdate, Title: page.Title, HTML: html})
}

func (s *Session) renderPage(page views.Page) (string, error) {
	var buf bytes.Buffer
	if err := page.Render(&buf, s.base, s.state); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func locationURL(base string, st nav.State) string {
	u := nav.JoinBase(base, st.Path)
	if st.Query != "" {
		u += "?" + st.Query
	}
	return u
}

func (s *Session) sendError(err *starterrors.StarterError) {
	msg := err.Message
	if err.Detail != "" {
		msg += ": " + err.Detail
	}
	s.send(ServerMessage{Type: MessageError, Code: err.Code, Message: msg})
}

// send writes msg as one JSON text frame.
func (s *Session) send(msg ServerMessage) {
	if s.closed.Load() {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("message encode error", "error", err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Debug("write error", "error", err)
		return
	}
	s.sentCount.Add(1)
}

// Close closes the session and its connection. It is safe to call more
// than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)

		s.timersMu.Lock()
		for _, t := range s.timers {
			t.Stop()
		}
		s.timers = nil
		s.timersMu.Unlock()

		for _, unsub := range s.unsubs {
			unsub()
		}

		s.writeMu.Lock()
		s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.writeMu.Unlock()
		s.conn.Close()

		s.logger.Info("session closed",
			"events", s.eventCount.Load(),
			"sent", s.sentCount.Load())

		if s.onClose != nil {
			s.onClose(s)
		}
	})
}

// IsClosed reports whether the session is closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Done returns a channel that is closed when the session closes.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
