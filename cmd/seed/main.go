package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"vaxcard/internal/platform/logger"
)

// catalog is the standard childhood immunization schedule loaded into a
// fresh deployment. Re-running against a seeded API is a no-op: every
// conflict means the vaccine is already there.
var catalog = []struct {
	Name string `json:"name"`
	Code string `json:"code"`
}{
	{"BCG", "bcg"},
	{"HEPATITE B", "hepatite-b"},
	{"ANTI-PÓLIO (SABIN)", "anti-polio-sabin"},
	{"TETRA VALENTE", "tetra-valente"},
	{"TRÍPLICE BACTERIANA (DPT)", "triplice-bacteriana-dpt"},
	{"HAEMOPHILUS INFLUENZAE", "haemophilus-influenzae"},
	{"TRÍPLICE ACELULAR", "triplice-acelular"},
	{"PNEUMO 10 VALENTE", "pneumo-10-valente"},
	{"MENINGO C", "meningo-c"},
	{"ROTAVÍRUS", "rotavirus"},
}

func main() {
	log := logger.New()

	base := os.Getenv("API_BASE")
	if base == "" {
		base = "http://localhost:8080"
	}
	base = strings.TrimRight(base, "/")
	apiKey := os.Getenv("API_KEY")

	client := &http.Client{Timeout: 10 * time.Second}

	created, existing := 0, 0
	for _, v := range catalog {
		status, err := postVaccine(client, base, apiKey, v)
		switch {
		case err != nil:
			log.Error("seed request failed", "code", v.Code, "error", err)
			os.Exit(1)
		case status == http.StatusCreated || status == http.StatusOK:
			created++
			log.Info("vaccine created", "name", v.Name, "code", v.Code)
		case status == http.StatusConflict:
			existing++
			log.Info("vaccine already present", "code", v.Code)
		default:
			log.Error("unexpected response", "code", v.Code, "status", status)
			os.Exit(1)
		}
	}

	log.Info("seed complete", "created", created, "existing", existing, "catalog", len(catalog))
}

func postVaccine(client *http.Client, base, apiKey string, payload any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequest(http.MethodPost, base+"/vaccines", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("post %s: %w", req.URL, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}
