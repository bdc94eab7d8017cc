package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxcard/internal/storage/memory"
	"vaxcard/internal/vaccine"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	db := memory.NewDB()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := vaccine.NewService(memory.NewVaccineStore(db), vaccine.WithLogger(logger))

	r := chi.NewRouter()
	New(service, logger).Register(r)
	return r
}

func createVaccine(t *testing.T, router chi.Router, payload vaccine.CreateRequest) map[string]any {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/vaccines", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateVaccine(t *testing.T) {
	router := newTestRouter(t)

	t.Run("defaults the allowed doses to the full schedule", func(t *testing.T) {
		resp := createVaccine(t, router, vaccine.CreateRequest{Name: "BCG", Code: "bcg"})
		assert.Equal(t, "bcg", resp["code"])
		assert.Len(t, resp["allowed_doses"], 5)
	})

	t.Run("keeps a restricted dose set in canonical order", func(t *testing.T) {
		resp := createVaccine(t, router, vaccine.CreateRequest{
			Name:         "Hepatite B",
			Code:         "hepatite-b",
			AllowedDoses: []string{"D3", "D1", "D2"},
		})
		assert.Equal(t, []any{"D1", "D2", "D3"}, resp["allowed_doses"])
	})

	t.Run("normalizes the code slug", func(t *testing.T) {
		resp := createVaccine(t, router, vaccine.CreateRequest{Name: "Meningo C", Code: "  MENINGO-C "})
		assert.Equal(t, "meningo-c", resp["code"])
	})

	t.Run("rejects a duplicate code with 409", func(t *testing.T) {
		body, _ := json.Marshal(vaccine.CreateRequest{Name: "BCG again", Code: "bcg"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/vaccines", bytes.NewReader(body)))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("rejects unknown dose labels with 400", func(t *testing.T) {
		body, _ := json.Marshal(vaccine.CreateRequest{Name: "Estranha", Code: "estranha", AllowedDoses: []string{"D9"}})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/vaccines", bytes.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListVaccines(t *testing.T) {
	router := newTestRouter(t)
	createVaccine(t, router, vaccine.CreateRequest{Name: "Rotavírus", Code: "rotavirus"})
	createVaccine(t, router, vaccine.CreateRequest{Name: "BCG", Code: "bcg"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vaccines", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "BCG", resp[0]["name"])
	assert.Equal(t, "Rotavírus", resp[1]["name"])
}

func TestGetAndDeleteVaccine(t *testing.T) {
	router := newTestRouter(t)
	created := createVaccine(t, router, vaccine.CreateRequest{Name: "BCG", Code: "bcg"})
	vaccineID := created["id"].(string)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vaccines/"+vaccineID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/vaccines/"+vaccineID, nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vaccines/"+vaccineID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
