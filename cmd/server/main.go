package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cesargomez89/bookwall/internal/config"
	"github.com/cesargomez89/bookwall/internal/cover"
	"github.com/cesargomez89/bookwall/internal/feed"
	"github.com/cesargomez89/bookwall/internal/handlers"
	"github.com/cesargomez89/bookwall/internal/httpclient"
	"github.com/cesargomez89/bookwall/internal/ingest"
	"github.com/cesargomez89/bookwall/internal/logger"
	"github.com/cesargomez89/bookwall/internal/service"
	"github.com/cesargomez89/bookwall/internal/signature"
	"github.com/cesargomez89/bookwall/internal/store"
	"github.com/cesargomez89/bookwall/internal/worldcat"
)

func main() {
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize Logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Initialize DB
	db, created, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to init DB", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize the ingestion pipeline
	client := httpclient.NewClient(nil)
	signer := signature.NewService(client, cfg.IPEchoURL, cfg.XRefSecret)
	reader := feed.NewReader(client, cfg.FeedURL, cfg.FeedCount)
	records := worldcat.NewClient(client, cfg.CatalogURL, cfg.WSKey)
	xref := worldcat.NewXRefClient(client, signer, cfg.XRefURL, cfg.XRefToken)
	covers := cover.NewResolver(client, xref, cfg.DetailURL, appLogger)
	pipeline := ingest.NewIngestor(reader, records, covers, cfg.MaxConcurrent, appLogger)

	catalog := service.NewCatalog(db, pipeline, !created, appLogger)

	// Initialize Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := handlers.NewHandler(catalog, appLogger)
	h.RegisterRoutes(r)

	// Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
