package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vaxcard/internal/platform/middleware"
	"vaxcard/internal/transport/http/shared"
	"vaxcard/internal/vaccine"
	id "vaxcard/pkg/domain"
	dErrors "vaxcard/pkg/domain-errors"
)

// Service defines the vaccine operations the handler needs.
type Service interface {
	Create(ctx context.Context, req vaccine.CreateRequest) (*vaccine.Vaccine, error)
	Get(ctx context.Context, vaccineID id.VaccineID) (*vaccine.Vaccine, error)
	List(ctx context.Context) ([]*vaccine.Vaccine, error)
	Delete(ctx context.Context, vaccineID id.VaccineID) error
}

// Handler wires vaccine catalog endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the vaccine routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/vaccines", h.handleCreate)
	r.Get("/vaccines", h.handleList)
	r.Get("/vaccines/{id}", h.handleGet)
	r.Delete("/vaccines/{id}", h.handleDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req vaccine.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	v, err := h.service.Create(ctx, req)
	if err != nil {
		h.logFailure(ctx, "failed to create vaccine", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, v)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	vaccines, err := h.service.List(r.Context())
	if err != nil {
		h.logFailure(r.Context(), "failed to list vaccines", err)
		shared.WriteError(w, err)
		return
	}
	if vaccines == nil {
		vaccines = []*vaccine.Vaccine{}
	}
	shared.WriteJSON(w, http.StatusOK, vaccines)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	vaccineID, err := id.ParseVaccineID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	v, err := h.service.Get(r.Context(), vaccineID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	vaccineID, err := id.ParseVaccineID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), vaccineID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg,
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
	}
}
