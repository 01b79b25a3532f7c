package api

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"

	"github.com/orbitrank/orbitrank/pkg/graph"
)

// handleUploadGraph handles POST /api/v1/graphs. The body is a graph
// snapshot, optionally gzip-compressed; large networks compress well.
func (h *Handler) handleUploadGraph(w http.ResponseWriter, r *http.Request) {
	var body io.Reader = r.Body
	if r.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid gzip body: "+err.Error())
			return
		}
		defer gz.Close()
		body = gz
	}

	var snap graph.Snapshot
	if err := json.NewDecoder(body).Decode(&snap); err != nil {
		writeError(w, http.StatusBadRequest, "invalid graph JSON: "+err.Error())
		return
	}
	if snap.Network == "" {
		snap.Network = h.defaultNetwork
	}

	id, err := h.svc.StoreGraph(r.Context(), &snap)
	if err != nil {
		// Structural problems in the submitted graph are client errors.
		writeError(w, http.StatusBadRequest, "store graph: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"graph_id": id,
		"network":  snap.Network,
	})
}

func (h *Handler) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	graphID := r.PathValue("graphID")
	network := r.URL.Query().Get("network")
	if network == "" {
		network = h.defaultNetwork
	}

	snap, err := h.svc.LoadGraph(r.Context(), network, graphID)
	if err != nil {
		writeError(w, http.StatusNotFound, "graph not found")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}
