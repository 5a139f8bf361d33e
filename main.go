package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"
	"github.com/spf13/pflag"

	"yellow-taxi-trips/api"
	"yellow-taxi-trips/config"
	"yellow-taxi-trips/database"
	"yellow-taxi-trips/geometry"
	"yellow-taxi-trips/ingest"
	"yellow-taxi-trips/migration"
	"yellow-taxi-trips/trips"
)

func main() {
	configPath := pflag.String("config", "", "path to a config file (default ./config.yaml if present)")
	migrateOnly := pflag.Bool("migrate-only", false, "apply schema migrations and exit")
	pflag.Parse()

	// Initialize configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Schema
	if cfg.Migrations.Auto || *migrateOnly {
		if err := migration.Run(cfg.Migrations.Path, database.URL(cfg.DB)); err != nil {
			log.Fatalf("Migration error: %v", err)
		}
	}
	if *migrateOnly {
		return
	}
	if err := migration.CheckSchema(ctx, db); err != nil {
		log.Fatalf("Schema check failed: %v", err)
	}

	codec, err := geometry.ForEncoding(cfg.Geometry.Encoding)
	if err != nil {
		log.Fatalf("Invalid geometry encoding: %v", err)
	}
	log.Printf("Geometry encoding: %s", codec.Name())

	store := trips.NewStore(db, codec)
	pipeline := ingest.NewPipeline(ingest.NewHTTPSource(nil, cfg.Source.APIURL, cfg.Source.Timeout), store)

	// Register routes
	router := api.RegisterRoutes(api.NewHandler(trips.NewService(store), pipeline, db))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handlers.CombinedLoggingHandler(os.Stdout, router),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server started on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
