package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxcard/internal/card"
	"vaxcard/internal/person"
	"vaxcard/internal/storage/memory"
	"vaxcard/internal/vaccination"
	"vaxcard/internal/vaccine"
)

func newTestRouter(t *testing.T) (chi.Router, *person.Person) {
	t.Helper()
	db := memory.NewDB()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	peopleService := person.NewService(memory.NewPersonStore(db), person.WithLogger(logger))
	vaccineService := vaccine.NewService(memory.NewVaccineStore(db), vaccine.WithLogger(logger))
	vaccinationStore := memory.NewVaccinationStore(db)
	vaccinationService := vaccination.NewService(
		memory.NewVaccinationTx(db), vaccinationStore, peopleService, vaccineService,
		vaccination.WithLogger(logger),
	)
	cardService := card.NewService(peopleService, vaccineService, vaccinationStore, card.WithLogger(logger))

	ana, err := peopleService.Create(ctx, person.CreateRequest{Name: "Ana", Document: "doc-ana", Sex: "F", Age: 1})
	require.NoError(t, err)
	hepb, err := vaccineService.Create(ctx, vaccine.CreateRequest{Name: "Hepatite B", Code: "hepatite-b"})
	require.NoError(t, err)
	bcg, err := vaccineService.Create(ctx, vaccine.CreateRequest{Name: "BCG", Code: "bcg"})
	require.NoError(t, err)
	_, err = vaccineService.Create(ctx, vaccine.CreateRequest{Name: "Rotavírus", Code: "rotavirus"})
	require.NoError(t, err)

	register := func(vaccineID, dose, date string) {
		_, err := vaccinationService.Register(ctx, vaccination.RegisterRequest{
			PersonID:  ana.ID.String(),
			VaccineID: vaccineID,
			Dose:      dose,
			AppliedAt: date,
		}, true)
		require.NoError(t, err)
	}
	register(hepb.ID.String(), "D1", "2025-01-10")
	register(hepb.ID.String(), "D2", "2025-02-10")
	register(bcg.ID.String(), "D1", "2025-01-15")

	r := chi.NewRouter()
	New(cardService, logger).Register(r)
	return r, ana
}

func getCard(t *testing.T, router chi.Router, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var resp map[string]any
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestCardMatrix(t *testing.T) {
	router, ana := newTestRouter(t)

	t.Run("matrix is the default format", func(t *testing.T) {
		w, resp := getCard(t, router, "/people/"+ana.ID.String()+"/card")
		require.Equal(t, http.StatusOK, w.Code)

		cols := resp["cols"].([]any)
		require.Len(t, cols, 2, "only vaccines with records become columns")
		first := cols[0].(map[string]any)
		assert.Equal(t, "BCG", first["vaccine_name"])

		rows := resp["rows"].([]any)
		assert.Equal(t, []any{"D1", "D2", "D3", "R1", "R2"}, rows)

		grid := resp["grid"].([]any)
		require.Len(t, grid, 5)
		d1 := grid[0].([]any)
		require.Len(t, d1, 2)
		assert.NotNil(t, d1[0], "BCG D1 is recorded")
		assert.NotNil(t, d1[1], "Hepatite B D1 is recorded")
		d3 := grid[2].([]any)
		assert.Nil(t, d3[1], "no D3 recorded")
	})

	t.Run("all=true expands columns to the catalog", func(t *testing.T) {
		w, resp := getCard(t, router, "/people/"+ana.ID.String()+"/card?all=true")
		require.Equal(t, http.StatusOK, w.Code)

		cols := resp["cols"].([]any)
		assert.Len(t, cols, 3)
	})

	t.Run("embeds the card holder", func(t *testing.T) {
		_, resp := getCard(t, router, "/people/"+ana.ID.String()+"/card")
		holder := resp["person"].(map[string]any)
		assert.Equal(t, "Ana", holder["name"])
	})
}

func TestCardList(t *testing.T) {
	router, ana := newTestRouter(t)

	w, resp := getCard(t, router, "/people/"+ana.ID.String()+"/card?format=list")
	require.Equal(t, http.StatusOK, w.Code)

	blocks := resp["vaccines"].([]any)
	require.Len(t, blocks, 2)
	hepbBlock := blocks[1].(map[string]any)
	assert.Equal(t, "Hepatite B", hepbBlock["vaccine_name"])
	entries := hepbBlock["entries"].([]any)
	require.Len(t, entries, 2)
	assert.Equal(t, "D1", entries[0].(map[string]any)["dose"])
	assert.Equal(t, "D2", entries[1].(map[string]any)["dose"])
}

func TestCardErrors(t *testing.T) {
	router, ana := newTestRouter(t)

	t.Run("unknown format is a 400", func(t *testing.T) {
		w, _ := getCard(t, router, "/people/"+ana.ID.String()+"/card?format=poster")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown person is a 404", func(t *testing.T) {
		w, _ := getCard(t, router, "/people/7e6ce6a9-37af-4bbe-9f7c-0a8c4f921d5a/card")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
