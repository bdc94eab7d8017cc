package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vaxcard/internal/person"
	"vaxcard/internal/platform/middleware"
	"vaxcard/internal/transport/http/shared"
	id "vaxcard/pkg/domain"
	dErrors "vaxcard/pkg/domain-errors"
)

// Service defines the person operations the handler needs.
type Service interface {
	Create(ctx context.Context, req person.CreateRequest) (*person.Person, error)
	Get(ctx context.Context, personID id.PersonID) (*person.Person, error)
	List(ctx context.Context) ([]*person.Person, error)
	Delete(ctx context.Context, personID id.PersonID) error
}

// Handler wires person endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the person routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/people", h.handleCreate)
	r.Get("/people", h.handleList)
	r.Get("/people/{id}", h.handleGet)
	r.Delete("/people/{id}", h.handleDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req person.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	p, err := h.service.Create(ctx, req)
	if err != nil {
		h.logFailure(ctx, "failed to create person", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	people, err := h.service.List(r.Context())
	if err != nil {
		h.logFailure(r.Context(), "failed to list people", err)
		shared.WriteError(w, err)
		return
	}
	if people == nil {
		people = []*person.Person{}
	}
	shared.WriteJSON(w, http.StatusOK, people)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	personID, err := id.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	p, err := h.service.Get(r.Context(), personID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	personID, err := id.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), personID); err != nil {
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
