package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"example.com/incidents-api/internal/config"
	"example.com/incidents-api/internal/metrics"
	"example.com/incidents-api/internal/pinning"
	"example.com/incidents-api/internal/storage"
	"example.com/incidents-api/internal/storage/ipfs"
	"example.com/incidents-api/internal/storage/memory"
	spg "example.com/incidents-api/internal/storage/postgres"
	transport "example.com/incidents-api/internal/transport/http"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg := config.Parse()
	log.Printf("config: backend=%s port=%s", cfg.StorageBackend, cfg.Port)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.New(prometheus.DefaultRegisterer)

	var store storage.Store
	var ready func(ctx context.Context) error

	switch cfg.StorageBackend {
	case config.BackendMemory:
		store = memory.New()

	case config.BackendIPFS:
		pinner, err := pinning.New(pinning.Config{
			APIKey:     cfg.PinataAPIKey,
			SecretKey:  cfg.PinataSecretKey,
			GatewayURL: cfg.PinataGateway,
			Timeout:    cfg.PinTimeout,
		})
		if err != nil {
			log.Fatalf("pinning client: %v", err)
		}
		store = ipfs.New(pinner, m)

	case config.BackendPostgres:
		db, err := spg.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer db.Close()
		mig := filepath.Join("migrations", "0001_init.sql")
		if err := db.RunMigration(ctx, mig); err != nil {
			log.Fatalf("migration: %v", err)
		}
		log.Printf("db: connected, migration applied")
		store = spg.NewIncidentStore(db)
		ready = db.Ready

	default:
		log.Fatalf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	if cfg.SeedSampleData {
		if err := storage.SeedSample(ctx, store); err != nil {
			log.Fatalf("seed: %v", err)
		}
		log.Printf("storage: sample data seeded")
	}

	deps := &transport.ServerDeps{
		Cfg:     cfg,
		Store:   store,
		Metrics: m,
		Now:     func() time.Time { return time.Now().UTC() },
		Ready:   ready,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           deps.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(shutdownCtx)
}
