package api

import (
	"github.com/gorilla/mux"

	"github.com/Praveenjayasiri/Simple-User-Management-System/middleware"
	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
)

// RegisterRoutes mounts the JSON API under /api on r.
func (h *Handler) RegisterRoutes(r *mux.Router, allowedOrigins []string) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.SetupCORS(allowedOrigins))

	api.HandleFunc("/auth/login", h.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/users", h.mw.AuthMiddleware(h.ListUsers)).Methods("GET", "OPTIONS")
	api.HandleFunc("/users", h.mw.RequireRole(models.RoleAdmin, h.CreateUser)).Methods("POST")
	api.HandleFunc("/users/{id:[0-9]+}", h.mw.RequireRole(models.RoleAdmin, h.UpdateUser)).Methods("PUT", "OPTIONS")
	api.HandleFunc("/users/{id:[0-9]+}", h.mw.RequireRole(models.RoleAdmin, h.DeleteUser)).Methods("DELETE")
}
