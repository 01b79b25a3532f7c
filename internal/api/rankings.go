package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/orbitrank/orbitrank/internal/ingestion"
)

// rankingRequest is the JSON body for POST /api/v1/rankings.
type rankingRequest struct {
	Network string `json:"network"`
	GraphID string `json:"graph_id"`
}

func (h *Handler) handleCreateRanking(w http.ResponseWriter, r *http.Request) {
	var req rankingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.GraphID == "" {
		writeError(w, http.StatusBadRequest, "graph_id is required")
		return
	}
	if req.Network == "" {
		req.Network = h.defaultNetwork
	}

	if err := h.svc.ProcessRun(r.Context(), ingestion.RunRequest{
		Network: req.Network,
		GraphID: req.GraphID,
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "ranking run failed: "+err.Error())
		return
	}

	// Return the freshest ranking for the graph.
	var id string
	err := h.db.QueryRowContext(r.Context(),
		`SELECT id FROM rankings WHERE graph_id = $1 ORDER BY created_at DESC LIMIT 1`,
		req.GraphID,
	).Scan(&id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "lookup ranking: "+err.Error())
		return
	}

	rec, err := h.svc.GetRanking(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load ranking: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleGetRanking(w http.ResponseWriter, r *http.Request) {
	rankingID := r.PathValue("rankingID")

	rec, err := h.svc.GetRanking(r.Context(), rankingID)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "ranking not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load ranking: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleGetManifest(w http.ResponseWriter, r *http.Request) {
	rankingID := r.PathValue("rankingID")

	rec, err := h.svc.GetRanking(r.Context(), rankingID)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "ranking not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load ranking: "+err.Error())
		return
	}

	m, err := h.svc.GetManifest(r.Context(), rec.Network, rec.ManifestID)
	if err != nil {
		writeError(w, http.StatusNotFound, "manifest not found")
		return
	}

	writeJSON(w, http.StatusOK, m)
}
