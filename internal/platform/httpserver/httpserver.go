package httpserver

import (
	"net/http"
	"time"
)

// New builds the API server. Evaluation requests carry whole document
// bundles, so the write path gets a generous timeout while slow-header
// clients are cut off early.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
