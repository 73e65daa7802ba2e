package starter

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/starter/internal/config"
	"github.com/vango-dev/starter/pkg/functions"
	"github.com/vango-dev/starter/pkg/server"
)

func newApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	cfg := config.New()
	if mutate != nil {
		mutate(cfg)
	}
	app, err := New(cfg, WithRegistry(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { app.Server().Shutdown(context.Background()) })
	return app
}

func get(t *testing.T, h http.Handler, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func parse(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestPages(t *testing.T) {
	app := newApp(t, nil)

	tests := []struct {
		path   string
		status int
		title  string
		h1     string
	}{
		{"/", http.StatusOK, "Home · Starter", "Welcome"},
		{"/contact", http.StatusOK, "Contact · Starter", "Contact"},
		{"/greet/ada", http.StatusOK, "Hello, ada · Starter", "Hello, ada!"},
		{"/greet", http.StatusNotFound, "Page not found · Starter", "Page not found"},
		{"/does/not/exist", http.StatusNotFound, "Page not found · Starter", "Page not found"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, app, tt.path, nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
				t.Errorf("Content-Type = %q", ct)
			}
			doc := parse(t, rec)
			if got := doc.Find("title").Text(); got != tt.title {
				t.Errorf("title = %q, want %q", got, tt.title)
			}
			if got := doc.Find("main h1").Text(); got != tt.h1 {
				t.Errorf("h1 = %q, want %q", got, tt.h1)
			}
			if src, _ := doc.Find("script").Attr("src"); src != ClientPath {
				t.Errorf("script src = %q", src)
			}
			if sock, _ := doc.Find("script").Attr("data-socket"); sock != SocketPath {
				t.Errorf("data-socket = %q", sock)
			}
		})
	}
}

func TestPageMethodNotAllowed(t *testing.T) {
	app := newApp(t, nil)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contact", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, HEAD" {
		t.Errorf("Allow = %q", allow)
	}

	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/contact", nil))
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("HEAD: status = %d, body = %d bytes", rec.Code, rec.Body.Len())
	}
}

func TestCanonicalRedirects(t *testing.T) {
	app := newApp(t, func(c *config.Config) { c.Server.BasePath = "/app/" })

	tests := []struct {
		target   string
		location string
	}{
		{"/app/contact/", "/app/contact"},
		{"/app//greet//ada?x=1", "/app/greet/ada?x=1"},
	}
	for _, tt := range tests {
		rec := get(t, app, tt.target, nil)
		if rec.Code != http.StatusPermanentRedirect {
			t.Errorf("%s: status = %d, want 308", tt.target, rec.Code)
			continue
		}
		if loc := rec.Header().Get("Location"); loc != tt.location {
			t.Errorf("%s: Location = %q, want %q", tt.target, loc, tt.location)
		}
	}
}

func TestBasePath(t *testing.T) {
	app := newApp(t, func(c *config.Config) { c.Server.BasePath = "/app" })

	for _, path := range []string{"/app", "/app/"} {
		rec := get(t, app, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", path, rec.Code)
		}
		doc := parse(t, rec)
		if href, _ := doc.Find("base").Attr("href"); href != "/app/" {
			t.Errorf("%s: base href = %q", path, href)
		}
		if src, _ := doc.Find("script").Attr("src"); src != "/app"+ClientPath {
			t.Errorf("%s: script src = %q", path, src)
		}
		if href, _ := doc.Find(`nav a[href$="/contact"]`).Attr("href"); href != "/app/contact" {
			t.Errorf("%s: contact link = %q", path, href)
		}
	}

	if rec := get(t, app, "/app/greet/ada", nil); rec.Code != http.StatusOK {
		t.Errorf("greet status = %d", rec.Code)
	}
	if rec := get(t, app, "/contact", nil); rec.Code != http.StatusNotFound {
		t.Errorf("outside base status = %d, want 404", rec.Code)
	}
	if rec := get(t, app, "/app"+ClientPath, nil); rec.Code != http.StatusOK {
		t.Errorf("client status = %d", rec.Code)
	}
}

func TestForwardedPrefix(t *testing.T) {
	header := http.Header{server.ForwardedPrefixHeader: []string{"/proxy"}}

	trusted := newApp(t, func(c *config.Config) { c.Server.TrustForwardedPrefix = true })
	doc := parse(t, get(t, trusted, "/", header))
	if href, _ := doc.Find("base").Attr("href"); href != "/proxy/" {
		t.Errorf("trusted base href = %q", href)
	}
	if sock, _ := doc.Find("script").Attr("data-socket"); sock != "/proxy"+SocketPath {
		t.Errorf("trusted data-socket = %q", sock)
	}

	rec := get(t, trusted, "/contact/", header)
	if loc := rec.Header().Get("Location"); loc != "/proxy/contact" {
		t.Errorf("trusted redirect = %q", loc)
	}

	untrusted := newApp(t, nil)
	doc = parse(t, get(t, untrusted, "/", header))
	if href, _ := doc.Find("base").Attr("href"); href != "/" {
		t.Errorf("untrusted base href = %q", href)
	}
}

func TestFunctionsMounted(t *testing.T) {
	app := newApp(t, func(c *config.Config) { c.Server.BasePath = "/app" })

	rec := get(t, app, "/app/api/hello?name=Ada", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("hello status = %d", rec.Code)
	}
	var hello functions.HelloResponse
	if err := json.NewDecoder(rec.Body).Decode(&hello); err != nil {
		t.Fatal(err)
	}
	if hello.Message != "Hello, Ada!" {
		t.Errorf("message = %q", hello.Message)
	}

	rec = get(t, app, "/app/api/echo?a=1&a=2", nil)
	var echo functions.EchoResponse
	if err := json.NewDecoder(rec.Body).Decode(&echo); err != nil {
		t.Fatal(err)
	}
	if echo.Method != http.MethodGet || echo.Path != "/app/api/echo" || len(echo.Query["a"]) != 2 {
		t.Errorf("echo = %+v", echo)
	}

	post := httptest.NewRecorder()
	app.ServeHTTP(post, httptest.NewRequest(http.MethodPost, "/app/api/hello", strings.NewReader("{}")))
	if post.Code != http.StatusMethodNotAllowed || post.Header().Get("Allow") != http.MethodGet || post.Body.Len() != 0 {
		t.Errorf("POST hello = %d, Allow %q, %d bytes", post.Code, post.Header().Get("Allow"), post.Body.Len())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app := newApp(t, func(c *config.Config) {
		c.Server.BasePath = "/app"
		c.Metrics.Enabled = true
	})

	get(t, app, "/app/", nil)
	get(t, app, "/app/api/hello", nil)

	rec := get(t, app, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "starter_http_requests_total") {
		t.Errorf("metrics body missing request counter:\n%s", body)
	}

	disabled := newApp(t, nil)
	if rec := get(t, disabled, "/metrics", nil); rec.Code != http.StatusNotFound {
		t.Errorf("metrics disabled status = %d, want 404", rec.Code)
	}
}

func TestDebugEndpoint(t *testing.T) {
	app := newApp(t, func(c *config.Config) { c.Debug = true })
	rec := get(t, app, DebugPath, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var infos []server.SessionInfo
	if err := json.NewDecoder(rec.Body).Decode(&infos); err != nil {
		t.Fatal(err)
	}
	if len(infos) != 0 {
		t.Errorf("infos = %v, want none", infos)
	}

	quiet := newApp(t, nil)
	if rec := get(t, quiet, DebugPath, nil); rec.Code != http.StatusNotFound {
		t.Errorf("debug disabled status = %d, want 404", rec.Code)
	}
}

func TestLiveSessionUnderBasePath(t *testing.T) {
	app := newApp(t, func(c *config.Config) { c.Server.BasePath = "/app" })
	ts := httptest.NewServer(app)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/app"+SocketPath, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"type": "nav", "kind": "load", "href": "/app/greet/lin"}); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg server.ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != server.MessageRender || msg.Path != "/greet/lin" || msg.URL != "/app/greet/lin" {
		t.Errorf("render = %s %q %q", msg.Type, msg.Path, msg.URL)
	}
}

func TestLiveSessionLeavesEndpointsToBrowser(t *testing.T) {
	app := newApp(t, func(c *config.Config) { c.Metrics.Enabled = true })
	ts := httptest.NewServer(app)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+SocketPath, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	if err := conn.WriteJSON(map[string]string{"type": "nav", "kind": "load", "href": "/greet/ada"}); err != nil {
		t.Fatal(err)
	}
	var msg server.ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}

	for _, href := range []string{HelloPath + "?name=ada", EchoPath, "/metrics"} {
		if err := conn.WriteJSON(map[string]string{"type": "nav", "kind": "link", "href": href}); err != nil {
			t.Fatal(err)
		}
		msg = server.ServerMessage{}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatal(err)
		}
		if msg.Type != server.MessageExternal || msg.Href != href {
			t.Errorf("%s: got %s %q, want external", href, msg.Type, msg.Path)
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.New()
	cfg.Server.BasePath = "/a/../b"
	if _, err := New(cfg); err == nil {
		t.Error("New() accepted an invalid base path")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	app := newApp(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
