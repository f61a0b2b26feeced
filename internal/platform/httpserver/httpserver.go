package httpserver

import (
	"net/http"
	"time"
)

// New builds the admin panel's HTTP server. Write timeout stays generous
// because history listings for long-lived companies can run large.
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
