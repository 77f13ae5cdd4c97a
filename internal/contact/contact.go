package contact

import (
	"log/slog"

	"identify/internal/contact/handler"
	"identify/internal/contact/service"
)

// Service exposes identity resolution.
type Service = service.Service

// Handler wires HTTP endpoints to the contact service.
type Handler = handler.Handler

// NewService constructs the contact service with required dependencies.
func NewService(tx service.ContactStoreTx, locker service.IdentifierLocker, opts ...service.Option) *Service {
	return service.New(tx, locker, opts...)
}

// NewHandler constructs an HTTP handler for the identify routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
