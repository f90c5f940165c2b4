// Package httpserver applies the server defaults shared by every binary.
package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with timeouts suited to the dashboard's
// read-heavy traffic.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
