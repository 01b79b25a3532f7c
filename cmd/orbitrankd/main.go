// Command orbitrankd is the hosted ranking service.
// It accepts graph uploads, runs ranking passes on demand, and serves
// stored rankings and manifests.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/orbitrank/orbitrank/internal/api"
	"github.com/orbitrank/orbitrank/internal/ingestion"
	"github.com/orbitrank/orbitrank/internal/platform"
	"github.com/orbitrank/orbitrank/pkg/config"
	"github.com/orbitrank/orbitrank/pkg/ranking"
)

type daemonConfig struct {
	Port        string
	DatabaseURL string
	ConfigPath  string
	APIKey      string

	LocalStoragePath string
	GCSBucket        string
	S3Bucket         string
	S3Region         string
	S3Endpoint       string
	S3AccessKey      string
	S3SecretKey      string
}

func loadDaemonConfig() daemonConfig {
	return daemonConfig{
		Port:        envOrDefault("PORT", "8080"),
		DatabaseURL: envOrDefault("DATABASE_URL", "postgres://localhost:5432/orbitrank?sslmode=disable"),
		ConfigPath:  os.Getenv("ORBITRANK_CONFIG"),
		APIKey:      os.Getenv("API_KEY"),

		LocalStoragePath: envOrDefault("LOCAL_STORAGE_PATH", "/tmp/orbitrank-data"),
		GCSBucket:        os.Getenv("GCS_BUCKET"),
		S3Bucket:         os.Getenv("S3_BUCKET"),
		S3Region:         os.Getenv("S3_REGION"),
		S3Endpoint:       os.Getenv("S3_ENDPOINT"),
		S3AccessKey:      os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:      os.Getenv("S3_SECRET_KEY"),
	}
}

func main() {
	dcfg := loadDaemonConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", dcfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	if err := platform.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	cfg, err := loadRankingConfig(dcfg.ConfigPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	storage, err := selectStorage(ctx, dcfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	engine := ranking.NewEngine(cfg.Ranking.Center)
	engine.Solver.Damping = cfg.Ranking.Damping
	engine.Solver.MaxIterations = cfg.Ranking.MaxIterations
	engine.Solver.Tolerance = cfg.Ranking.Tolerance

	svc := ingestion.NewService(db, cfg, storage, engine)

	handler := api.NewHandler(db, svc, cfg.Network)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.HandleFunc("GET /healthz", healthHandler(db))

	srv := &http.Server{
		Addr:    ":" + dcfg.Port,
		Handler: api.CORS(api.APIKeyAuth(dcfg.APIKey)(mux)),
	}

	go func() {
		log.Printf("starting orbitrankd on :%s", dcfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// loadRankingConfig loads the network catalog the daemon ranks against.
func loadRankingConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(path)
}

// selectStorage picks the blob backend: GCS when GCS_BUCKET is set, S3
// when S3_BUCKET is set, local filesystem otherwise.
func selectStorage(ctx context.Context, dcfg daemonConfig) (ingestion.StorageClient, error) {
	switch {
	case dcfg.GCSBucket != "":
		return ingestion.NewGCSStorage(ctx, dcfg.GCSBucket)
	case dcfg.S3Bucket != "":
		return ingestion.NewS3Storage(ctx, ingestion.S3Config{
			Bucket:    dcfg.S3Bucket,
			Region:    dcfg.S3Region,
			Endpoint:  dcfg.S3Endpoint,
			AccessKey: dcfg.S3AccessKey,
			SecretKey: dcfg.S3SecretKey,
		})
	default:
		return ingestion.NewLocalStorage(dcfg.LocalStoragePath), nil
	}
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
