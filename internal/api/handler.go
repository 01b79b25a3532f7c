// Package api implements the hosted ranking REST API.
// It provides graph intake and read endpoints backed by Postgres and
// blob storage.
package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/orbitrank/orbitrank/internal/ingestion"
)

// Handler is the top-level API handler for the hosted ranking service.
type Handler struct {
	db             *sql.DB
	svc            *ingestion.Service
	defaultNetwork string
}

// NewHandler creates a new API handler. defaultNetwork is used for
// requests that do not name a network.
func NewHandler(db *sql.DB, svc *ingestion.Service, defaultNetwork string) *Handler {
	return &Handler{
		db:             db,
		svc:            svc,
		defaultNetwork: defaultNetwork,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Write endpoints (auth-protected)
	mux.HandleFunc("POST /api/v1/graphs", h.handleUploadGraph)
	mux.HandleFunc("POST /api/v1/rankings", h.handleCreateRanking)

	// Read endpoints
	mux.HandleFunc("GET /api/v1/graphs/{graphID}", h.handleGetGraph)
	mux.HandleFunc("GET /api/v1/rankings/{rankingID}", h.handleGetRanking)
	mux.HandleFunc("GET /api/v1/rankings/{rankingID}/manifest", h.handleGetManifest)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
