package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"kickerledger/internal/service"
	"kickerledger/internal/transport/rest/handler"
)

// Container holds all dependencies for the router
type Container struct {
	Registry *service.UserRegistry
	Ledger   *service.MatchLedger
	Query    *service.QueryService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	userHandler := handler.NewUserHandler(c.Registry, c.Query)
	matchHandler := handler.NewMatchHandler(c.Ledger, c.Query)

	r.Use(corsMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/users", userHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/users", userHandler.List).Methods("GET", "OPTIONS")

	// pending must be registered ahead of {matchId}
	v1.HandleFunc("/matches", matchHandler.Record).Methods("POST", "OPTIONS")
	v1.HandleFunc("/matches", matchHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/matches/pending", matchHandler.Pending).Methods("GET", "OPTIONS")
	v1.HandleFunc("/matches/{matchId}", matchHandler.Get).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
