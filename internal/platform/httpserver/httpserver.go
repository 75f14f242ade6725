// Package httpserver builds the HTTP server for the mint API.
package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with timeouts sized for the mint API: requests
// are small JSON bodies and issuance itself is an in-process critical
// section, so nothing should hold a connection for long.
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
