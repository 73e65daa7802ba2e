package handler

import (
	"net/http"

	"github.com/vango-dev/starter/pkg/functions"
)

// Echo is the entry point for /api/echo.
func Echo(w http.ResponseWriter, r *http.Request) {
	functions.Echo(w, r)
}
