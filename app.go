package starter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/starter/internal/config"
	"github.com/vango-dev/starter/pkg/functions"
	"github.com/vango-dev/starter/pkg/middleware"
	"github.com/vango-dev/starter/pkg/nav"
	"github.com/vango-dev/starter/pkg/route"
	"github.com/vango-dev/starter/pkg/server"
	"github.com/vango-dev/starter/pkg/state"
	"github.com/vango-dev/starter/pkg/views"
)

// Paths under the base path.
const (
	ClientPath = "/_starter/client.js"
	SocketPath = "/_starter/ws"
	DebugPath  = "/_starter/debug/state"
	HelloPath  = "/api/hello"
	EchoPath   = "/api/echo"
)

// App is the starter application.
type App struct {
	config *config.Config
	base   string
	routes *route.Table[views.Factory]

	server  *server.Server
	metrics *middleware.Metrics
	tracer  trace.Tracer
	handler http.Handler

	registry       prometheus.Registerer
	tracerProvider trace.TracerProvider
	logger         *slog.Logger
}

// New creates an App from a validated configuration.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	origin, err := cfg.Origin()
	if err != nil {
		return nil, err
	}

	a := &App{
		config: cfg,
		base:   cfg.BasePath(),
		routes: views.Routes(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "app")

	if cfg.Metrics.Enabled {
		mopts := []middleware.MetricsOption{middleware.WithNamespace(cfg.Metrics.Namespace)}
		if a.registry != nil {
			mopts = append(mopts, middleware.WithRegistry(a.registry))
		}
		a.metrics = middleware.NewMetrics(mopts...)
	}
	if cfg.Tracing.Enabled {
		a.tracer = middleware.Tracer(a.tracingOptions()...)
	}

	a.server = server.New(&server.SessionConfig{
		BasePath:             a.base,
		TrustForwardedPrefix: cfg.Server.TrustForwardedPrefix,
		Origin:               origin,
		NativePrefixes:       a.nativePrefixes(),
		Routes:               a.routes,
		ReadTimeout:          cfg.ReadTimeout(),
		HeartbeatInterval:    cfg.HeartbeatInterval(),
		MaxEventQueue:        cfg.Session.MaxEventQueue,
		SubmitDelay:          cfg.SubmitDelay(),
		Debug:                cfg.Debug,
		Metrics:              a.metrics,
		Tracer:               a.tracer,
		Logger:               a.logger,
	})
	a.handler = a.buildHandler()
	return a, nil
}

// nativePrefixes lists the in-base paths the router serves outside the app.
func (a *App) nativePrefixes() []string {
	prefixes := append([]string(nil), server.DefaultNativePrefixes...)
	if a.base == "" && a.config.Metrics.Enabled {
		prefixes = append(prefixes, a.config.Metrics.Path)
	}
	return prefixes
}

func (a *App) tracingOptions() []middleware.OTelOption {
	opts := []middleware.OTelOption{middleware.WithTracerName(a.config.Tracing.TracerName)}
	if a.tracerProvider != nil {
		opts = append(opts, middleware.WithTracerProvider(a.tracerProvider))
	}
	return opts
}

func (a *App) buildHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	if a.config.Debug {
		r.Use(chimw.RequestLogger(&chimw.DefaultLogFormatter{
			Logger:  slog.NewLogLogger(a.logger.Handler(), slog.LevelDebug),
			NoColor: true,
		}))
	}
	if a.metrics != nil {
		r.Use(a.metrics.Handler)
	}
	if a.tracer != nil {
		metricsPath := a.config.Metrics.Path
		r.Use(middleware.Tracing(append(a.tracingOptions(),
			middleware.WithRequestFilter(func(r *http.Request) bool {
				return r.URL.Path != metricsPath
			}))...))
	}

	if a.metrics != nil {
		r.Handle(a.config.Metrics.Path, a.metrics.Exposer())
	}
	if a.base == "" {
		a.mount(r)
	} else {
		r.Route(a.base, a.mount)
	}
	return r
}

// mount registers the app's routes relative to the base path.
func (a *App) mount(r chi.Router) {
	r.Handle(SocketPath, a.server)
	r.Handle(ClientPath, a.server.ThinClient())
	if a.config.Debug {
		r.Get(DebugPath, a.serveDebugState)
	}
	r.HandleFunc(HelloPath, functions.Hello)
	r.HandleFunc(EchoPath, functions.Echo)
	r.HandleFunc("/*", a.servePage)
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// Handler returns the app's http.Handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Routes returns the page route table.
func (a *App) Routes() *route.Table[views.Factory] {
	return a.routes
}

// Server returns the session server.
func (a *App) Server() *server.Server {
	return a.server
}

// Config returns the app configuration.
func (a *App) Config() *config.Config {
	return a.config
}

// servePage renders the page matched by the request path. Non-canonical
// paths are redirected to their canonical form.
func (a *App) servePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	path, ok := nav.StripBase(a.base, r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	canon, err := nav.CanonicalizePath(path)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	base := server.RequestBase(r, a.server.Config())
	if canon != path {
		target := nav.JoinBase(base, canon)
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
		return
	}

	st := state.New(state.WithPath(canon))
	page, matched := views.Resolve(a.routes, canon)

	var content bytes.Buffer
	if err := page.Render(&content, base, st); err != nil {
		a.logger.Error("render error", "path", canon, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	var doc bytes.Buffer
	err = views.RenderDocument(&doc, views.Document{
		Context:  views.Context{Base: base, State: st.Snapshot()},
		Title:    page.Title,
		Content:  template.HTML(content.String()),
		ClientJS: nav.JoinBase(base, ClientPath),
		Socket:   nav.JoinBase(base, SocketPath),
	})
	if err != nil {
		a.logger.Error("render error", "path", canon, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if matched {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusNotFound)
	}
	if r.Method != http.MethodHead {
		_, _ = w.Write(doc.Bytes())
	}
}

func (a *App) serveDebugState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a.server.States()); err != nil {
		a.logger.Error("debug state encode error", "error", err)
	}
}

// Run serves the app on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.config.Address())
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

// Serve is like Run but accepts connections on ln.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", "addr", ln.Addr().String(), "base", a.base)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout())
	defer cancel()

	// Hijacked WebSocket connections are not tracked by http.Server.
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("session shutdown", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.logger.Info("server stopped")
	return nil
}
