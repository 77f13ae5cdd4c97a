package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"identify/internal/platform/config"
)

const readHeaderTimeout = 5 * time.Second

// New builds the HTTP server. Every request context derives from base.
func New(base context.Context, cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		BaseContext: func(net.Listener) context.Context {
			return base
		},
	}
}
