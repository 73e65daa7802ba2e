// Package functions holds the starter's serverless HTTP functions.
//
// Each function is a plain http.HandlerFunc that accepts GET only and
// answers with JSON. Any other method gets 405 Method Not Allowed with an
// Allow header and an empty body. The functions are mounted on the app
// server under /api and are also exported as standalone entry points in the
// api directory for platforms that deploy one handler per file.
package functions

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// DefaultName is greeted when the hello function gets no name.
const DefaultName = "World"

// HelloResponse is the body of the hello function.
type HelloResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

// EchoResponse is the body of the echo function.
type EchoResponse struct {
	Method string              `json:"method"`
	Path   string              `json:"path"`
	Query  map[string][]string `json:"query"`
}

// Greeting returns the hello message for name.
func Greeting(name string) string {
	return "Hello, " + greetee(name) + "!"
}

// greetee trims name and falls back to DefaultName.
func greetee(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return DefaultName
	}
	return name
}

// Hello greets the "name" query parameter.
func Hello(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	name := greetee(r.URL.Query().Get("name"))
	writeJSON(w, http.StatusOK, HelloResponse{
		Message: Greeting(name),
		Name:    name,
	})
}

// Echo echoes the request method, path and query parameters.
func Echo(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	query := map[string][]string(r.URL.Query())
	if query == nil {
		query = map[string][]string{}
	}
	writeJSON(w, http.StatusOK, EchoResponse{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  query,
	})
}

// allowGet rejects non-GET requests with 405 and an empty body.
func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	w.WriteHeader(http.StatusMethodNotAllowed)
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().With("component", "functions").Error("encode response", "error", err)
	}
}
