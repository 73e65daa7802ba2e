package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewMetrics(WithRegistry(reg), WithNamespace("test")), reg
}

func TestMetricsHandlerCountsByRoutePattern(t *testing.T) {
	m, _ := newTestMetrics(t)

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/greet/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	for _, path := range []string{"/greet/ada", "/greet/bob", "/boom"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/greet/{name}", "GET", "200")); got != 2 {
		t.Errorf("greet requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/boom", "GET", "500")); got != 1 {
		t.Errorf("boom requests = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.requestDuration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestMetricsHandlerDefaultsStatusOK(t *testing.T) {
	m, _ := newTestMetrics(t)

	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("unmatched", "GET", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

func TestMetricsSessionRecorders(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.RecordNavigation("link", true)
	m.RecordNavigation("link", true)
	m.RecordNavigation("pop", false)
	m.RecordAction("increment")
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"link matched", m.navigationsTotal.WithLabelValues("link", "true"), 2},
		{"pop unmatched", m.navigationsTotal.WithLabelValues("pop", "false"), 1},
		{"increment", m.actionsTotal.WithLabelValues("increment"), 1},
		{"sessions", m.activeSessions, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.c); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetricsExposer(t *testing.T) {
	m, _ := newTestMetrics(t)
	m.RecordAction("decrement")

	rec := httptest.NewRecorder()
	m.Exposer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `test_actions_total{action="decrement"} 1`) {
		t.Errorf("exposition missing action counter:\n%s", body)
	}
}

func TestMetricsConstLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithSubsystem("web"), WithConstLabels(prometheus.Labels{"app": "demo"}))
	m.SessionOpened()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	var found bool
	for _, f := range families {
		if f.GetName() != "starter_web_active_sessions" {
			continue
		}
		found = true
		labels := f.GetMetric()[0].GetLabel()
		if len(labels) != 1 || labels[0].GetName() != "app" || labels[0].GetValue() != "demo" {
			t.Errorf("labels = %v, want app=demo", labels)
		}
	}
	if !found {
		t.Error("starter_web_active_sessions not gathered")
	}
}
