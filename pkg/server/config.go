package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/vango-dev/starter/pkg/middleware"
	"github.com/vango-dev/starter/pkg/route"
	"github.com/vango-dev/starter/pkg/views"
	"go.opentelemetry.io/otel/trace"
)

// SessionConfig configures live sessions.
type SessionConfig struct {
	// BasePath is the normalized deployment prefix, "" at the root.
	BasePath string

	// TrustForwardedPrefix prepends the X-Forwarded-Prefix of the upgrade
	// request to BasePath.
	TrustForwardedPrefix bool

	// Origin is the public origin used to decide whether absolute link
	// targets belong to the app. Nil means absolute targets are external.
	Origin *url.URL

	// NativePrefixes are in-base paths served by the server, not by the
	// app. Links to them are left to the browser. Default:
	// DefaultNativePrefixes.
	NativePrefixes []string

	// Routes selects the page for a path. Default: views.Routes().
	Routes *route.Table[views.Factory]

	// ReadTimeout is the maximum time between client messages or pongs.
	// Default: 60s.
	ReadTimeout time.Duration

	// WriteTimeout bounds a single write. Default: 10s.
	WriteTimeout time.Duration

	// HeartbeatInterval is the ping interval. Default: 30s.
	HeartbeatInterval time.Duration

	// MaxEventQueue is the number of decoded messages buffered ahead of the
	// event loop. Default: 64.
	MaxEventQueue int

	// SubmitDelay simulates the latency of the contact form submission.
	// Default: 800ms.
	SubmitDelay time.Duration

	// MaxMessageSize limits inbound frames. Default: 64KB.
	MaxMessageSize int64

	// Debug exposes session states through Server.States.
	Debug bool

	// CheckOrigin validates the Origin header of upgrade requests.
	// Nil accepts same-host requests only.
	CheckOrigin func(r *http.Request) bool

	// Metrics records sessions, navigations and actions. Optional.
	Metrics *middleware.Metrics

	// Tracer starts one span per navigation. Optional.
	Tracer trace.Tracer

	// Logger is the base logger. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultNativePrefixes covers the functions and the starter's own
// endpoints.
var DefaultNativePrefixes = []string{"/api/", "/_starter/"}

// DefaultSessionConfig returns a SessionConfig with defaults.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxEventQueue:     64,
		SubmitDelay:       800 * time.Millisecond,
		MaxMessageSize:    64 * 1024,
		NativePrefixes:    DefaultNativePrefixes,
	}
}

// withDefaults fills zero fields from DefaultSessionConfig.
func (c *SessionConfig) withDefaults() *SessionConfig {
	out := *c
	def := DefaultSessionConfig()
	if out.Routes == nil {
		out.Routes = views.Routes()
	}
	if out.NativePrefixes == nil {
		out.NativePrefixes = def.NativePrefixes
	}
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = def.ReadTimeout
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = def.WriteTimeout
	}
	if out.HeartbeatInterval <= 0 {
		out.HeartbeatInterval = def.HeartbeatInterval
	}
	if out.MaxEventQueue <= 0 {
		out.MaxEventQueue = def.MaxEventQueue
	}
	if out.SubmitDelay < 0 {
		out.SubmitDelay = 0
	}
	if out.MaxMessageSize <= 0 {
		out.MaxMessageSize = def.MaxMessageSize
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}
