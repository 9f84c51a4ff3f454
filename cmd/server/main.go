package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kickerledger/internal/app"
	"kickerledger/internal/config"
	"kickerledger/internal/transport/rest"
)

// @title Kicker Ledger API
// @version 1.0
// @description Doubles table-football ratings with match provenance
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}
	log.Printf("Store backend: %s", cfg.Backend)
	log.Printf("K factor:      %g", cfg.KFactor)
	if cfg.ProvenanceCache {
		log.Println("Provenance:    redis index")
	} else {
		log.Println("Provenance:    full scan")
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to start:", err)
	}
	defer a.Close(context.Background())

	router := rest.NewRouter(&rest.Container{
		Registry: a.Registry,
		Ledger:   a.Ledger,
		Query:    a.Query,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST/GET /v1/users")
		log.Println("  POST/GET /v1/matches")
		log.Println("  GET  /v1/matches/pending")
		log.Println("  GET  /v1/matches/{matchId}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
