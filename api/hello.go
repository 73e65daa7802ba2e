// Package handler exposes the starter's functions as standalone serverless
// entry points, one exported handler per file.
package handler

import (
	"net/http"

	"github.com/vango-dev/starter/pkg/functions"
)

// Hello is the entry point for /api/hello.
func Hello(w http.ResponseWriter, r *http.Request) {
	functions.Hello(w, r)
}
