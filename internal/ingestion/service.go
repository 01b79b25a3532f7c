package ingestion

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/orbitrank/orbitrank/pkg/config"
	"github.com/orbitrank/orbitrank/pkg/graph"
	"github.com/orbitrank/orbitrank/pkg/manifest"
	"github.com/orbitrank/orbitrank/pkg/ranking"
)

// Run lifecycle states.
const (
	StatusQueued    = "QUEUED"
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// RunRequest names the graph a ranking run should process.
type RunRequest struct {
	Network string
	GraphID string
}

// Ranker abstracts the ranking engine so the ingestion package does not
// depend on a concrete implementation.
type Ranker interface {
	Rank(ctx context.Context, g *graph.Model) (*ranking.Report, error)
}

// Service orchestrates the ranking pipeline.
type Service struct {
	db      *sql.DB
	cfg     *config.Config
	storage StorageClient
	ranker  Ranker
}

// NewService creates a new ranking Service.
func NewService(db *sql.DB, cfg *config.Config, storage StorageClient, ranker Ranker) *Service {
	return &Service{
		db:      db,
		cfg:     cfg,
		storage: storage,
		ranker:  ranker,
	}
}

// StoreGraph validates a submitted graph snapshot, stores its blob, and
// records it. It returns the graph ID, assigning one when the snapshot
// arrived without.
func (s *Service) StoreGraph(ctx context.Context, snap *graph.Snapshot) (string, error) {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.Network == "" {
		snap.Network = s.cfg.Network
	}

	// Reject malformed graphs before anything touches storage.
	if _, err := snap.Model(); err != nil {
		return "", fmt.Errorf("validate graph: %w", err)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal graph: %w", err)
	}
	if err := s.storage.PutGraph(ctx, snap.Network, snap.ID, data); err != nil {
		return "", fmt.Errorf("put graph blob: %w", err)
	}

	storageRef := fmt.Sprintf("%s/graphs/%s.json", snap.Network, snap.ID)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO graphs (id, network, center, node_count, edge_count, storage_ref)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET storage_ref = EXCLUDED.storage_ref`,
		snap.ID, snap.Network, snap.Center,
		snap.Stats.NodeCount, snap.Stats.EdgeCount, storageRef,
	)
	if err != nil {
		return "", fmt.Errorf("insert graph row: %w", err)
	}
	return snap.ID, nil
}

// LoadGraph fetches a stored graph snapshot.
func (s *Service) LoadGraph(ctx context.Context, network, graphID string) (*graph.Snapshot, error) {
	data, err := s.storage.GetGraph(ctx, network, graphID)
	if err != nil {
		return nil, fmt.Errorf("get graph blob: %w", err)
	}
	var snap graph.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal graph: %w", err)
	}
	return &snap, nil
}

// CreateRun creates a ranking run record and returns its ID.
// The idempotency key is network + graph_id.
func (s *Service) CreateRun(ctx context.Context, req RunRequest) (string, error) {
	idempotencyKey := fmt.Sprintf("%s:%s", req.Network, req.GraphID)

	var id string
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO runs (network, graph_id, idempotency_key)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (idempotency_key) DO UPDATE SET updated_at = now()
		 RETURNING id`,
		req.Network, req.GraphID, idempotencyKey,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	return id, nil
}

// UpdateRunStatus updates the status and optional error message.
func (s *Service) UpdateRunStatus(ctx context.Context, id, status string, errMsg *string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = $1, error_message = $2, updated_at = now() WHERE id = $3`,
		status, errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	return nil
}

// ProcessRun executes the full pipeline for one stored graph: load,
// rank, build the manifest, store both the manifest blob and the
// ranking record.
func (s *Service) ProcessRun(ctx context.Context, req RunRequest) error {
	runID, err := s.CreateRun(ctx, req)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}

	if err := s.UpdateRunStatus(ctx, runID, StatusRunning, nil); err != nil {
		return fmt.Errorf("update status to running: %w", err)
	}

	// On failure, mark the run as failed
	defer func() {
		if err != nil {
			errMsg := err.Error()
			if updateErr := s.UpdateRunStatus(ctx, runID, StatusFailed, &errMsg); updateErr != nil {
				log.Printf("failed to update run status: %v", updateErr)
			}
		}
	}()

	snap, err := s.LoadGraph(ctx, req.Network, req.GraphID)
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}

	g, err := snap.Model()
	if err != nil {
		return fmt.Errorf("rebuild graph: %w", err)
	}

	start := time.Now()
	report, err := s.ranker.Rank(ctx, g)
	if err != nil {
		return fmt.Errorf("rank: %w", err)
	}
	elapsed := time.Since(start)

	m := manifest.Build(s.cfg, g, report)
	m.Network = req.Network

	manifestData, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	manifestID := uuid.NewString()
	if err = s.storage.PutManifest(ctx, req.Network, manifestID, manifestData); err != nil {
		return fmt.Errorf("put manifest blob: %w", err)
	}

	rankingID, err := s.storeRanking(ctx, req, manifestID, report, m, elapsed)
	if err != nil {
		return fmt.Errorf("store ranking: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE runs SET status = $1, ranking_id = $2, updated_at = now() WHERE id = $3`,
		StatusCompleted, rankingID, runID,
	)
	if err != nil {
		return fmt.Errorf("finalize run: %w", err)
	}

	log.Printf("run %s completed: graph=%s ranking=%s coherence=%.3f converged=%t",
		runID, req.GraphID, rankingID, m.Center.Coherence, report.Converged)
	return nil
}

func (s *Service) storeRanking(ctx context.Context, req RunRequest, manifestID string, report *ranking.Report, m *manifest.Manifest, elapsed time.Duration) (string, error) {
	storageRef := fmt.Sprintf("%s/manifests/%s.json", req.Network, manifestID)

	var id string
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO rankings (network, graph_id, manifest_id, center_node, center_rank, coherence, converged, elapsed_ms, storage_ref)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		req.Network, req.GraphID, manifestID,
		m.Center.Node, m.Center.Rank, m.Center.Coherence, report.Converged,
		int(elapsed.Milliseconds()), storageRef,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert ranking row: %w", err)
	}
	return id, nil
}

// RankingRecord is the stored summary of a completed run.
type RankingRecord struct {
	ID         string    `json:"id"`
	Network    string    `json:"network"`
	GraphID    string    `json:"graph_id"`
	ManifestID string    `json:"manifest_id"`
	CenterNode string    `json:"center_node"`
	CenterRank float64   `json:"center_rank"`
	Coherence  float64   `json:"coherence"`
	Converged  bool      `json:"converged"`
	ElapsedMs  int       `json:"elapsed_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// GetRanking fetches one ranking record by ID.
func (s *Service) GetRanking(ctx context.Context, id string) (*RankingRecord, error) {
	var r RankingRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, network, graph_id, manifest_id, center_node, center_rank, coherence, converged, elapsed_ms, created_at
		 FROM rankings WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.Network, &r.GraphID, &r.ManifestID, &r.CenterNode, &r.CenterRank, &r.Coherence, &r.Converged, &r.ElapsedMs, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("query ranking: %w", err)
	}
	return &r, nil
}

// GetManifest fetches and decodes a stored manifest.
func (s *Service) GetManifest(ctx context.Context, network, manifestID string) (*manifest.Manifest, error) {
	data, err := s.storage.GetManifest(ctx, network, manifestID)
	if err != nil {
		return nil, fmt.Errorf("get manifest blob: %w", err)
	}
	var m manifest.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}
