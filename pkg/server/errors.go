package server

import "errors"

var (
	// ErrSessionClosed is returned when operating on a closed session.
	ErrSessionClosed = errors.New("server: session closed")

	// ErrServerClosed is returned by ServeHTTP after Shutdown.
	ErrServerClosed = errors.New("server: closed")
)
