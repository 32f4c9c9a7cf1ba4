package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/boxaid/boxaid/internal/config"
	"github.com/boxaid/boxaid/internal/database"
	"github.com/boxaid/boxaid/internal/middleware"
	"github.com/boxaid/boxaid/internal/stock"
	"github.com/gorilla/mux"
)

// Router wraps the mux router and the service dependencies
type Router struct {
	*mux.Router
	db    *database.DB
	cfg   *config.Config
	stock *stock.Service
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		db:     db,
		cfg:    cfg,
		stock:  stock.NewService(db.DB),
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	authRoutes := r.PathPrefix("/auth").Subrouter()
	authRoutes.HandleFunc("/login", r.login).Methods("POST")

	// Data API (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	api.HandleFunc("/graph", r.handleGraph).Methods("POST")
	api.HandleFunc("/qr/{code}/image", r.qrImage).Methods("GET")
	api.HandleFunc("/labels/pdf", r.labelSheet).Methods("POST")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
