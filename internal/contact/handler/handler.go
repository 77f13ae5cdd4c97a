package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"identify/internal/contact/models"
	"identify/pkg/platform/httputil"
	"identify/pkg/requestcontext"
)

// Service defines the interface for identity resolution.
type Service interface {
	Identify(ctx context.Context, req models.IdentifyRequest) (*models.Identity, error)
}

// Handler handles contact identity endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a new contact Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// Register registers the contact routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.handleHello)
	r.Post("/identify", h.handleIdentify)
}

func (h *Handler) handleHello(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, HelloResponse{Message: "Hello, World!"})
}

// handleIdentify resolves the posted identifiers into a consolidated contact.
func (h *Handler) handleIdentify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[IdentifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	identity, err := h.service.Identify(ctx, req.toModel())
	if err != nil {
		// The service has already logged the failure with its context.
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toIdentifyResponse(identity))
}
