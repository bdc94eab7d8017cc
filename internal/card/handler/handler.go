package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vaxcard/internal/card"
	"vaxcard/internal/platform/middleware"
	"vaxcard/internal/transport/http/shared"
	id "vaxcard/pkg/domain"
	dErrors "vaxcard/pkg/domain-errors"
)

// Service defines the card projections the handler needs.
type Service interface {
	Matrix(ctx context.Context, personID id.PersonID, all bool) (*card.Matrix, error)
	List(ctx context.Context, personID id.PersonID) (*card.List, error)
}

// Handler serves the card endpoint.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the card route.
func (h *Handler) Register(r chi.Router) {
	r.Get("/people/{id}/card", h.handleCard)
}

func (h *Handler) handleCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	personID, err := id.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "matrix"
	}

	var body any
	switch format {
	case "matrix":
		all := r.URL.Query().Get("all") == "true"
		body, err = h.service.Matrix(ctx, personID, all)
	case "list":
		body, err = h.service.List(ctx, personID)
	default:
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "format must be matrix or list"))
		return
	}
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to project card",
				"error", err.Error(),
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, body)
}
