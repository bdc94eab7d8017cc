package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vaxcard/internal/platform/middleware"
	"vaxcard/internal/transport/http/shared"
	"vaxcard/internal/vaccination"
	id "vaxcard/pkg/domain"
	dErrors "vaxcard/pkg/domain-errors"
)

// Service defines the vaccination operations the handler needs.
type Service interface {
	Register(ctx context.Context, req vaccination.RegisterRequest, enforceSequence bool) (*vaccination.Record, error)
	Get(ctx context.Context, recordID id.RecordID) (*vaccination.Record, error)
	Delete(ctx context.Context, recordID id.RecordID) error
}

// Handler wires vaccination endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the vaccination routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/vaccinations", h.handleRegister)
	r.Get("/vaccinations/{id}", h.handleGet)
	r.Delete("/vaccinations/{id}", h.handleDelete)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req vaccination.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	// Sequence enforcement is on unless the caller opts out explicitly.
	enforceSequence := r.URL.Query().Get("enforce_sequence") != "false"

	rec, err := h.service.Register(ctx, req, enforceSequence)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to register vaccination",
				"error", err.Error(),
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, rec)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	recordID, err := id.ParseRecordID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	rec, err := h.service.Get(r.Context(), recordID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	recordID, err := id.ParseRecordID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), recordID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
